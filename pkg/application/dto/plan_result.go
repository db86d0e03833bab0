package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/vsinha/mealplan/pkg/domain/entities"
)

// PlanningRequest contains the input of one plan-creation request
type PlanningRequest struct {
	entities.PlanRequest
	PlannedOn time.Time
	DryRun    bool // compute the plan without storing it
}

// PlanResult contains the complete output of a plan-creation request
type PlanResult struct {
	PlanID     uuid.UUID
	PlannedOn  time.Time
	Plan       *entities.Plan
	Candidates int
	Excluded   []entities.RecipeID // recipes skipped by the grace period
	Stored     bool
}
