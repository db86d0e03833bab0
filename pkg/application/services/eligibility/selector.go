package eligibility

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/vsinha/mealplan/pkg/domain/entities"
	"github.com/vsinha/mealplan/pkg/domain/repositories"
)

// DefaultGracePeriod is the minimum time before a planned recipe may be reused
const DefaultGracePeriod = 14 * 24 * time.Hour

// Config holds configuration for candidate selection
type Config struct {
	GracePeriod time.Duration
	Logger      zerolog.Logger
}

// DefaultConfig returns the default selector configuration
func DefaultConfig() Config {
	return Config{
		GracePeriod: DefaultGracePeriod,
		Logger:      zerolog.Nop(),
	}
}

// Result contains the eligible candidates and the recipes excluded by the
// grace period
type Result struct {
	Candidates []entities.Recipe
	Excluded   []entities.RecipeID
}

// Selector produces the candidate recipes for a plan: published recipes that
// were not planned within the grace period
type Selector struct {
	recipeRepo repositories.RecipeRepository
	planRepo   repositories.PlanRepository
	config     Config
}

// NewSelector creates a new candidate selector
func NewSelector(
	recipeRepo repositories.RecipeRepository,
	planRepo repositories.PlanRepository,
	config Config,
) *Selector {
	return &Selector{
		recipeRepo: recipeRepo,
		planRepo:   planRepo,
		config:     config,
	}
}

// Candidates returns the recipes eligible for a plan created at asOf. A
// recipe last planned exactly one grace period ago is eligible again.
func (s *Selector) Candidates(ctx context.Context, asOf time.Time) (*Result, error) {
	recipes, err := s.recipeRepo.GetPublishedRecipes()
	if err != nil {
		return nil, fmt.Errorf("failed to load published recipes: %w", err)
	}

	cutoff := asOf.Add(-s.config.GracePeriod)
	result := &Result{
		Candidates: make([]entities.Recipe, 0, len(recipes)),
	}

	for _, recipe := range recipes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		last, planned, err := s.planRepo.LastPlannedOn(recipe.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to read plan history for recipe %d: %w", recipe.ID, err)
		}
		if planned && last.After(cutoff) {
			result.Excluded = append(result.Excluded, recipe.ID)
			continue
		}
		result.Candidates = append(result.Candidates, *recipe)
	}

	s.config.Logger.Debug().
		Time("cutoff", cutoff).
		Int("candidates", len(result.Candidates)).
		Int("excluded", len(result.Excluded)).
		Msg("selected candidate recipes")

	return result, nil
}
