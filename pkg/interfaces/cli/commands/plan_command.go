package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/vsinha/mealplan/pkg/application/dto"
	"github.com/vsinha/mealplan/pkg/application/services/eligibility"
	"github.com/vsinha/mealplan/pkg/application/services/orchestration"
	"github.com/vsinha/mealplan/pkg/application/services/planner"
	"github.com/vsinha/mealplan/pkg/domain/entities"
	"github.com/vsinha/mealplan/pkg/infrastructure/config"
	"github.com/vsinha/mealplan/pkg/infrastructure/events"
	"github.com/vsinha/mealplan/pkg/infrastructure/repositories/csv"
	"github.com/vsinha/mealplan/pkg/infrastructure/repositories/memory"
	"github.com/vsinha/mealplan/pkg/interfaces/cli/output"
)

// Config holds configuration for the plan command
type Config struct {
	ScenarioDir    string
	Budget         string
	NumItems       int
	NumPescatarian int
	NumVegetarian  int
	MaxIterations  *int // nil uses the configured value
	Date           string
	Format         string
	OutputDir      string
	DryRun         bool
	Verbose        bool
}

// PlanCommand loads a scenario, creates a plan and writes the result
type PlanCommand struct {
	config   Config
	settings *config.Config
	logger   zerolog.Logger
	out      io.Writer
}

// NewPlanCommand creates a new plan command. settings holds the loaded
// configuration file and environment overrides.
func NewPlanCommand(cfg Config, settings *config.Config, logger zerolog.Logger, out io.Writer) *PlanCommand {
	if out == nil {
		out = os.Stdout
	}
	return &PlanCommand{
		config:   cfg,
		settings: settings,
		logger:   logger,
		out:      out,
	}
}

// Execute runs the plan command
func (c *PlanCommand) Execute(ctx context.Context) (*dto.PlanResult, error) {
	req, err := c.buildRequest()
	if err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	c.logger.Debug().Str("scenario", c.config.ScenarioDir).Msg("loading scenario")

	scenario, err := csv.NewLoader().LoadScenario(c.config.ScenarioDir)
	if err != nil {
		return nil, fmt.Errorf("error loading scenario: %w", err)
	}

	recipeRepo := memory.NewRecipeRepository(len(scenario.Recipes))
	if err := recipeRepo.LoadRecipes(scenario.Recipes); err != nil {
		return nil, fmt.Errorf("failed to load recipes into repository: %w", err)
	}

	planRepo := memory.NewPlanRepository()
	for _, usage := range scenario.History {
		planRepo.RecordUsage(usage.RecipeID, usage.PlannedOn)
	}

	c.logger.Info().
		Int("recipes", recipeRepo.Count()).
		Int("history", len(scenario.History)).
		Msg("scenario loaded")

	eventStore := events.NewInMemoryEventStore(c.logger)
	if c.config.Verbose {
		err := eventStore.Subscribe(
			[]string{events.PlanRecipeRemovedEvent, events.PlanOverBudgetEvent},
			events.HandlerFunc(c.logEvent),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to subscribe to plan events: %w", err)
		}
	}

	orchestrator := orchestration.NewPlanningOrchestrator(
		eligibility.NewSelector(recipeRepo, planRepo, EligibilityConfig(c.settings, c.logger)),
		planner.NewDistributorWithConfig(PlannerConfig(c.settings, c.logger)),
		planRepo,
		eventStore,
		c.logger,
	)

	startTime := time.Now()
	result, err := orchestrator.CreatePlan(ctx, *req)
	planningTime := time.Since(startTime)
	if err != nil {
		return nil, err
	}

	if result.Stored {
		if err := c.recordHistory(result); err != nil {
			return nil, err
		}
	}

	outputConfig := output.Config{
		Format:         c.config.Format,
		OutputDir:      c.config.OutputDir,
		Verbose:        c.config.Verbose,
		CurrencyPlaces: c.settings.Planner.CurrencyPlaces,
		PlanningTime:   planningTime,
		Out:            c.out,
	}
	if err := output.Generate(result, outputConfig); err != nil {
		return nil, fmt.Errorf("error generating output: %w", err)
	}

	return result, nil
}

func (c *PlanCommand) buildRequest() (*dto.PlanningRequest, error) {
	if c.config.ScenarioDir == "" {
		return nil, fmt.Errorf("must specify a scenario directory")
	}

	budget, err := decimal.NewFromString(c.config.Budget)
	if err != nil {
		return nil, fmt.Errorf("invalid budget: %s", c.config.Budget)
	}

	plannedOn := time.Now().UTC().Truncate(24 * time.Hour)
	if c.config.Date != "" {
		plannedOn, err = time.Parse("2006-01-02", c.config.Date)
		if err != nil {
			return nil, fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD)", c.config.Date)
		}
	}

	maxIterations := c.settings.Planner.MaxNumIterations
	if c.config.MaxIterations != nil {
		maxIterations = *c.config.MaxIterations
	}
	if maxIterations < 0 {
		return nil, fmt.Errorf("invalid max iterations: %d", maxIterations)
	}

	return &dto.PlanningRequest{
		PlanRequest: entities.PlanRequest{
			Budget:           budget,
			NumItems:         c.config.NumItems,
			NumPescatarian:   c.config.NumPescatarian,
			NumVegetarian:    c.config.NumVegetarian,
			MaxNumIterations: iterationLimit(maxIterations),
		},
		PlannedOn: plannedOn,
		DryRun:    c.config.DryRun,
	}, nil
}

// recordHistory appends the stored plan's recipes to the scenario history so
// the next run applies the grace period to them
func (c *PlanCommand) recordHistory(result *dto.PlanResult) error {
	ids := result.Plan.RecipeIDs()
	records := make([]csv.UsageRecord, len(ids))
	for i, id := range ids {
		records[i] = csv.UsageRecord{RecipeID: id, PlannedOn: result.PlannedOn}
	}

	filename := filepath.Join(c.config.ScenarioDir, csv.HistoryFile)
	if err := csv.AppendHistory(filename, records); err != nil {
		return fmt.Errorf("failed to record plan history: %w", err)
	}

	c.logger.Debug().
		Str("file", filename).
		Int("recipes", len(records)).
		Msg("plan history recorded")
	return nil
}

// iterationLimit maps a configured swap count onto PlanRequest, where zero
// selects the default
func iterationLimit(n int) int {
	if n == 0 {
		return entities.NoSwaps
	}
	return n
}

func (c *PlanCommand) logEvent(event events.Event) error {
	c.logger.Info().
		Str("event", event.Type()).
		Str("plan_id", event.StreamID()).
		Interface("data", event.Data()).
		Msg("plan event")
	return nil
}

// PlannerConfig converts loaded settings into the distributor configuration
func PlannerConfig(settings *config.Config, logger zerolog.Logger) planner.Config {
	return planner.Config{
		WeightEqualProducts: settings.Planner.WeightEqualProducts,
		WeightPescatarian:   settings.Planner.WeightPescatarian,
		WeightVegetarian:    settings.Planner.WeightVegetarian,
		RelaxComposition:    settings.Planner.RelaxComposition,
		CurrencyPlaces:      settings.Planner.CurrencyPlaces,
		Logger:              logger,
	}
}

// EligibilityConfig converts loaded settings into the selector configuration
func EligibilityConfig(settings *config.Config, logger zerolog.Logger) eligibility.Config {
	return eligibility.Config{
		GracePeriod: time.Duration(settings.Eligibility.GracePeriodDays) * 24 * time.Hour,
		Logger:      logger,
	}
}
