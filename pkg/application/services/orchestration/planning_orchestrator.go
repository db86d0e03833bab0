package orchestration

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vsinha/mealplan/pkg/application/dto"
	"github.com/vsinha/mealplan/pkg/application/services/eligibility"
	"github.com/vsinha/mealplan/pkg/application/services/planner"
	"github.com/vsinha/mealplan/pkg/domain/entities"
	"github.com/vsinha/mealplan/pkg/domain/repositories"
	"github.com/vsinha/mealplan/pkg/infrastructure/events"
)

// PlanningOrchestrator coordinates candidate selection, distribution,
// persistence and plan events
type PlanningOrchestrator struct {
	selector    *eligibility.Selector
	distributor *planner.Distributor
	planRepo    repositories.PlanRepository
	eventStore  events.EventStore
	logger      zerolog.Logger
}

// NewPlanningOrchestrator creates a new planning orchestrator. eventStore may
// be nil.
func NewPlanningOrchestrator(
	selector *eligibility.Selector,
	distributor *planner.Distributor,
	planRepo repositories.PlanRepository,
	eventStore events.EventStore,
	logger zerolog.Logger,
) *PlanningOrchestrator {
	return &PlanningOrchestrator{
		selector:    selector,
		distributor: distributor,
		planRepo:    planRepo,
		eventStore:  eventStore,
		logger:      logger,
	}
}

// CreatePlan selects eligible recipes, runs the distributor and stores the
// resulting plan unless the request is a dry run
func (po *PlanningOrchestrator) CreatePlan(ctx context.Context, req dto.PlanningRequest) (*dto.PlanResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	eligible, err := po.selector.Candidates(ctx, req.PlannedOn)
	if err != nil {
		return nil, fmt.Errorf("failed to select candidate recipes: %w", err)
	}

	plan, err := po.distributor.CreatePlan(eligible.Candidates, req.PlanRequest)
	if err != nil {
		return nil, fmt.Errorf("failed to create plan: %w", err)
	}

	result := &dto.PlanResult{
		PlanID:     uuid.New(),
		PlannedOn:  req.PlannedOn,
		Plan:       plan,
		Candidates: len(eligible.Candidates),
		Excluded:   eligible.Excluded,
	}

	recipePlan, err := entities.NewRecipePlan(result.PlanID, req.PlannedOn, plan)
	if err != nil {
		return nil, fmt.Errorf("failed to build recipe plan: %w", err)
	}

	if !req.DryRun {
		if err := po.planRepo.SavePlan(recipePlan); err != nil {
			return nil, fmt.Errorf("failed to save plan %s: %w", result.PlanID, err)
		}
		result.Stored = true
	}

	if err := po.publish(recipePlan, plan); err != nil {
		return nil, fmt.Errorf("failed to publish plan events: %w", err)
	}

	po.logger.Info().
		Str("plan_id", result.PlanID.String()).
		Int("recipes", len(plan.Recipes)).
		Int("candidates", result.Candidates).
		Int("excluded", len(result.Excluded)).
		Str("total_cost", plan.TotalCost.StringFixed(2)).
		Str("remaining_budget", plan.RemainingBudget.StringFixed(2)).
		Int("warnings", len(plan.Warnings)).
		Bool("stored", result.Stored).
		Msg("plan created")

	return result, nil
}

func (po *PlanningOrchestrator) publish(recipePlan *entities.RecipePlan, plan *entities.Plan) error {
	if po.eventStore == nil {
		return nil
	}

	streamID := recipePlan.ID.String()
	at := recipePlan.PlannedOn

	planEvents := []events.Event{
		events.NewEvent(events.PlanCreatedEvent, streamID, events.PlanCreated{
			Plan:       *recipePlan,
			Remaining:  plan.RemainingBudget,
			Iterations: plan.Iterations,
		}, at),
	}

	reported := make(map[string]bool, len(plan.Removals))
	for _, removal := range plan.Removals {
		reported[removal.Message] = true
		planEvents = append(planEvents, events.NewEvent(
			events.PlanRecipeRemovedEvent, streamID, events.PlanRecipeRemoved{Removal: removal}, at,
		))
	}
	for _, warning := range plan.Warnings {
		if reported[warning] {
			continue
		}
		planEvents = append(planEvents, events.NewEvent(
			events.PlanWarningEvent, streamID, events.PlanWarning{Message: warning}, at,
		))
	}

	if plan.IsOverBudget() {
		planEvents = append(planEvents, events.NewEvent(events.PlanOverBudgetEvent, streamID, events.PlanOverBudget{
			Budget:    plan.Budget,
			TotalCost: plan.TotalCost,
			Remaining: plan.RemainingBudget,
		}, at))
	}

	for _, event := range planEvents {
		if err := po.eventStore.AppendEvent(streamID, event); err != nil {
			return err
		}
	}
	return nil
}
