package repositories

import (
	"time"

	"github.com/google/uuid"

	"github.com/vsinha/mealplan/pkg/domain/entities"
)

// PlanRepository stores computed recipe plans and answers plan-history
// queries used by the grace-period rule
type PlanRepository interface {
	SavePlan(plan *entities.RecipePlan) error
	GetPlan(id uuid.UUID) (*entities.RecipePlan, error)
	GetAllPlans() ([]*entities.RecipePlan, error)

	// LastPlannedOn returns the most recent date the recipe appeared in a
	// stored plan; ok is false if it never did.
	LastPlannedOn(recipeID entities.RecipeID) (last time.Time, ok bool, err error)
}
