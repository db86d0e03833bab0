package events

import (
	"github.com/shopspring/decimal"

	"github.com/vsinha/mealplan/pkg/domain/entities"
)

const (
	PlanCreatedEvent       = "plan.created"
	PlanRecipeRemovedEvent = "plan.recipe_removed"
	PlanOverBudgetEvent    = "plan.over_budget"
	PlanWarningEvent       = "plan.warning"
)

type PlanCreated struct {
	Plan       entities.RecipePlan `json:"plan"`
	Remaining  decimal.Decimal     `json:"remaining_budget"`
	Iterations int                 `json:"iterations"`
}

type PlanRecipeRemoved struct {
	Removal entities.RecipeRemoval `json:"removal"`
}

type PlanOverBudget struct {
	Budget    decimal.Decimal `json:"budget"`
	TotalCost decimal.Decimal `json:"total_cost"`
	Remaining decimal.Decimal `json:"remaining_budget"`
}

type PlanWarning struct {
	Message string `json:"message"`
}
