package planner

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/vsinha/mealplan/pkg/domain/entities"
)

// Composition tracks how many pescatarian and vegetarian recipes have been
// selected so far against their targets
type Composition struct {
	Pescatarian       int
	Vegetarian        int
	TargetPescatarian int
	TargetVegetarian  int
}

// Scorer ranks candidate recipes by ingredient reuse and composition fit
type Scorer struct {
	config    Config
	shared    map[entities.RecipeID]int
	estimated map[entities.RecipeID]decimal.Decimal
	Warnings  []string
}

// NewScorer precomputes the overlap counts and stand-alone cost estimates of
// every recipe in the pool. Overlap counts unpriced products too; missing
// pricing only affects the estimate.
func NewScorer(pool *Pool, config Config) *Scorer {
	s := &Scorer{
		config:    config,
		shared:    make(map[entities.RecipeID]int, len(pool.Recipes)),
		estimated: make(map[entities.RecipeID]decimal.Decimal, len(pool.Recipes)),
	}

	users := make(map[entities.ProductID]int)
	for _, recipe := range pool.Recipes {
		for _, productID := range pool.ReferencedProducts(recipe.ID) {
			users[productID]++
		}
	}

	for _, recipe := range pool.Recipes {
		shared := 0
		for _, productID := range pool.ReferencedProducts(recipe.ID) {
			if users[productID] > 1 {
				shared++
			}
		}

		rows := pool.ProductsOf(recipe.ID)
		cost := decimal.Zero
		for _, row := range rows {
			cost = cost.Add(row.RequiredAmount.Ceil().Mul(pool.Products[row.ProductID].UnitPrice))
		}

		s.shared[recipe.ID] = shared
		s.estimated[recipe.ID] = cost

		if len(rows) == 0 {
			s.Warnings = append(s.Warnings, fmt.Sprintf(
				"recipe %d (%s) has no priced ingredients; estimated cost is 0",
				recipe.ID,
				recipe.Title,
			))
		}
	}

	return s
}

// SharedProducts returns the number of the recipe's products used by at
// least one other candidate
func (s *Scorer) SharedProducts(id entities.RecipeID) int {
	return s.shared[id]
}

// EstimatedCost returns the cost of the recipe as if it were planned alone
func (s *Scorer) EstimatedCost(id entities.RecipeID) decimal.Decimal {
	if cost, ok := s.estimated[id]; ok {
		return cost
	}
	return decimal.Zero
}

// Score computes the score of a recipe against the current composition
func (s *Scorer) Score(recipe entities.Recipe, composition Composition) entities.RecipeScore {
	score := s.shared[recipe.ID] * s.config.WeightEqualProducts
	if recipe.IsPescatarian && composition.Pescatarian < composition.TargetPescatarian {
		score += s.config.WeightPescatarian
	}
	if recipe.IsVegetarian && composition.Vegetarian < composition.TargetVegetarian {
		score += s.config.WeightVegetarian
	}

	return entities.RecipeScore{
		RecipeID:      recipe.ID,
		Score:         score,
		EstimatedCost: s.EstimatedCost(recipe.ID),
	}
}

// Rank scores the candidates and orders them by score descending, breaking
// ties by recipe id ascending
func (s *Scorer) Rank(candidates []entities.Recipe, composition Composition) []entities.RecipeScore {
	scores := make([]entities.RecipeScore, len(candidates))
	for i, recipe := range candidates {
		scores[i] = s.Score(recipe, composition)
	}

	sort.Slice(scores, func(i, j int) bool {
		if scores[i].Score != scores[j].Score {
			return scores[i].Score > scores[j].Score
		}
		return scores[i].RecipeID < scores[j].RecipeID
	})

	return scores
}
