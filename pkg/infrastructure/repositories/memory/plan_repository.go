package memory

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vsinha/mealplan/pkg/domain/entities"
	"github.com/vsinha/mealplan/pkg/domain/repositories"
)

// PlanRepository provides in-memory storage of recipe plans and their
// recipe usage history
type PlanRepository struct {
	plans       map[uuid.UUID]*entities.RecipePlan
	lastPlanned map[entities.RecipeID]time.Time
	mutex       sync.RWMutex
}

// NewPlanRepository creates a new in-memory plan repository
func NewPlanRepository() *PlanRepository {
	return &PlanRepository{
		plans:       make(map[uuid.UUID]*entities.RecipePlan),
		lastPlanned: make(map[entities.RecipeID]time.Time),
	}
}

// Verify interface compliance
var _ repositories.PlanRepository = (*PlanRepository)(nil)

// SavePlan stores a plan and records the planned date of its recipes
func (r *PlanRepository) SavePlan(plan *entities.RecipePlan) error {
	if plan == nil {
		return fmt.Errorf("plan cannot be nil")
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.plans[plan.ID]; exists {
		return fmt.Errorf("plan already exists: %s", plan.ID)
	}

	stored := *plan
	stored.Items = make([]entities.RecipePlanItem, len(plan.Items))
	copy(stored.Items, plan.Items)
	r.plans[plan.ID] = &stored

	for _, item := range plan.Items {
		r.recordUsage(item.RecipeID, plan.PlannedOn)
	}
	return nil
}

// RecordUsage registers a past use of a recipe without a stored plan, as
// loaded from plan history files
func (r *PlanRepository) RecordUsage(recipeID entities.RecipeID, plannedOn time.Time) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.recordUsage(recipeID, plannedOn)
}

func (r *PlanRepository) recordUsage(recipeID entities.RecipeID, plannedOn time.Time) {
	if last, ok := r.lastPlanned[recipeID]; !ok || plannedOn.After(last) {
		r.lastPlanned[recipeID] = plannedOn
	}
}

// GetPlan returns the plan with the given id
func (r *PlanRepository) GetPlan(id uuid.UUID) (*entities.RecipePlan, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	plan, exists := r.plans[id]
	if !exists {
		return nil, fmt.Errorf("plan not found: %s", id)
	}
	copied := *plan
	return &copied, nil
}

// GetAllPlans returns all plans ordered by planned date
func (r *PlanRepository) GetAllPlans() ([]*entities.RecipePlan, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	plans := make([]*entities.RecipePlan, 0, len(r.plans))
	for _, plan := range r.plans {
		copied := *plan
		plans = append(plans, &copied)
	}
	sort.Slice(plans, func(i, j int) bool {
		if !plans[i].PlannedOn.Equal(plans[j].PlannedOn) {
			return plans[i].PlannedOn.Before(plans[j].PlannedOn)
		}
		return plans[i].ID.String() < plans[j].ID.String()
	})
	return plans, nil
}

// LastPlannedOn returns the most recent planned date of a recipe
func (r *PlanRepository) LastPlannedOn(recipeID entities.RecipeID) (time.Time, bool, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	last, ok := r.lastPlanned[recipeID]
	return last, ok, nil
}
