package memory

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vsinha/mealplan/pkg/domain/entities"
)

func newRecipePlan(t *testing.T, plannedOn time.Time, recipeIDs ...entities.RecipeID) *entities.RecipePlan {
	t.Helper()
	plan := &entities.Plan{
		Budget:    decimal.NewFromInt(50),
		TotalCost: decimal.NewFromInt(20),
	}
	for i, id := range recipeIDs {
		plan.Recipes = append(plan.Recipes, entities.PlanRecipe{RecipeID: id, Position: i + 1})
	}

	recipePlan, err := entities.NewRecipePlan(uuid.New(), plannedOn, plan)
	if err != nil {
		t.Fatalf("NewRecipePlan failed: %v", err)
	}
	return recipePlan
}

func TestPlanRepository_SavePlan(t *testing.T) {
	repo := NewPlanRepository()
	plannedOn := time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC)

	plan := newRecipePlan(t, plannedOn, 4, 2)
	if err := repo.SavePlan(plan); err != nil {
		t.Fatalf("Failed to save plan: %v", err)
	}

	retrieved, err := repo.GetPlan(plan.ID)
	if err != nil {
		t.Fatalf("Failed to get plan: %v", err)
	}
	if len(retrieved.Items) != 2 || retrieved.Items[0].RecipeID != 4 {
		t.Errorf("Expected items [4 2], got %+v", retrieved.Items)
	}

	// mutating the caller's plan does not change the stored one
	plan.Items[0].RecipeID = 99
	retrieved, _ = repo.GetPlan(plan.ID)
	if retrieved.Items[0].RecipeID != 4 {
		t.Errorf("Expected stored items to be unchanged, got %+v", retrieved.Items)
	}

	last, ok, err := repo.LastPlannedOn(2)
	if err != nil || !ok {
		t.Fatalf("Expected usage for recipe 2, got ok=%v err=%v", ok, err)
	}
	if !last.Equal(plannedOn) {
		t.Errorf("Expected last planned %v, got %v", plannedOn, last)
	}

	if _, ok, _ := repo.LastPlannedOn(5); ok {
		t.Error("Expected no usage for recipe 5")
	}
}

func TestPlanRepository_SavePlan_Errors(t *testing.T) {
	repo := NewPlanRepository()

	if err := repo.SavePlan(nil); err == nil {
		t.Error("Expected error for nil plan")
	}

	plan := newRecipePlan(t, time.Now(), 1)
	if err := repo.SavePlan(plan); err != nil {
		t.Fatalf("Failed to save plan: %v", err)
	}
	err := repo.SavePlan(plan)
	if err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Errorf("Expected 'already exists' error, got: %v", err)
	}

	if _, err := repo.GetPlan(uuid.New()); err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("Expected 'not found' error, got: %v", err)
	}
}

func TestPlanRepository_LastPlannedOn(t *testing.T) {
	repo := NewPlanRepository()
	march := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	april := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	if err := repo.SavePlan(newRecipePlan(t, april, 1, 2)); err != nil {
		t.Fatalf("Failed to save plan: %v", err)
	}
	// older history never replaces a newer usage
	repo.RecordUsage(1, march)
	repo.RecordUsage(3, march)

	tests := []struct {
		recipeID entities.RecipeID
		expected time.Time
	}{
		{1, april},
		{2, april},
		{3, march},
	}
	for _, tt := range tests {
		last, ok, err := repo.LastPlannedOn(tt.recipeID)
		if err != nil || !ok {
			t.Fatalf("Recipe %d: expected usage, got ok=%v err=%v", tt.recipeID, ok, err)
		}
		if !last.Equal(tt.expected) {
			t.Errorf("Recipe %d: expected %v, got %v", tt.recipeID, tt.expected, last)
		}
	}
}

func TestPlanRepository_GetAllPlans(t *testing.T) {
	repo := NewPlanRepository()
	later := newRecipePlan(t, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), 1)
	earlier := newRecipePlan(t, time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC), 2)

	for _, plan := range []*entities.RecipePlan{later, earlier} {
		if err := repo.SavePlan(plan); err != nil {
			t.Fatalf("Failed to save plan: %v", err)
		}
	}

	plans, err := repo.GetAllPlans()
	if err != nil {
		t.Fatalf("GetAllPlans failed: %v", err)
	}
	if len(plans) != 2 || plans[0].ID != earlier.ID || plans[1].ID != later.ID {
		t.Errorf("Expected plans ordered by planned date")
	}
}
