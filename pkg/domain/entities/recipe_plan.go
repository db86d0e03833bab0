package entities

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RecipePlanItem is a persisted, ordered entry of a stored plan
type RecipePlanItem struct {
	RecipeID RecipeID `json:"recipe_id"`
	Position int      `json:"position"`
}

// RecipePlan is the persisted form of a Plan. Ingredients and warnings are
// not stored.
type RecipePlan struct {
	ID        uuid.UUID        `json:"id"`
	PlannedOn time.Time        `json:"planned_on"`
	Budget    decimal.Decimal  `json:"budget"`
	TotalCost decimal.Decimal  `json:"total_cost"`
	Items     []RecipePlanItem `json:"items"`
}

// NewRecipePlan creates a RecipePlan from a computed Plan
func NewRecipePlan(id uuid.UUID, plannedOn time.Time, plan *Plan) (*RecipePlan, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("recipe plan id cannot be nil")
	}
	if plan == nil {
		return nil, fmt.Errorf("plan cannot be nil")
	}

	items := make([]RecipePlanItem, len(plan.Recipes))
	for i, recipe := range plan.Recipes {
		items[i] = RecipePlanItem{
			RecipeID: recipe.RecipeID,
			Position: recipe.Position,
		}
	}

	return &RecipePlan{
		ID:        id,
		PlannedOn: plannedOn,
		Budget:    plan.Budget,
		TotalCost: plan.TotalCost,
		Items:     items,
	}, nil
}
