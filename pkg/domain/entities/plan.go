package entities

import (
	"sort"

	"github.com/shopspring/decimal"
)

const (
	// DefaultMaxNumIterations bounds the number of budget-driven swaps per plan
	DefaultMaxNumIterations = 20

	// NoSwaps as MaxNumIterations prices the initial selection only
	NoSwaps = -1
)

// PlanRequest holds the constraints of one planning invocation
type PlanRequest struct {
	Budget           decimal.Decimal
	NumItems         int
	NumPescatarian   int
	NumVegetarian    int
	MaxNumIterations int // 0 = DefaultMaxNumIterations, NoSwaps = none
}

// Validate checks the preconditions that must hold before any selection work
func (r PlanRequest) Validate() error {
	if r.NumItems <= 0 {
		return newInvariantViolation(ErrInvalidNumItems, "num_items must be positive, got %d", r.NumItems)
	}
	if r.Budget.IsNegative() {
		return newInvariantViolation(ErrNegativeBudget, "budget cannot be negative, got %s", r.Budget)
	}
	if r.NumPescatarian < 0 || r.NumVegetarian < 0 {
		return newInvariantViolation(
			ErrInvalidComposition,
			"composition targets cannot be negative, got pescatarian=%d vegetarian=%d",
			r.NumPescatarian,
			r.NumVegetarian,
		)
	}
	if r.MaxNumIterations < NoSwaps {
		return newInvariantViolation(ErrInvalidIterations, "max_num_iterations must be at least %d, got %d", NoSwaps, r.MaxNumIterations)
	}
	return nil
}

// Iterations returns the effective iteration cap
func (r PlanRequest) Iterations() int {
	switch r.MaxNumIterations {
	case 0:
		return DefaultMaxNumIterations
	case NoSwaps:
		return 0
	}
	return r.MaxNumIterations
}

// PlanIngredient represents the aggregated purchase requirement for one product
type PlanIngredient struct {
	ProductID        ProductID       `json:"product_id"`
	Name             string          `json:"name"`
	UnitAbbreviation string          `json:"unit_abbreviation"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	UnitQuantity     decimal.Decimal `json:"unit_quantity"`
	RequiredQuantity decimal.Decimal `json:"required_quantity"`
}

// TotalQuantity returns the number of whole packages to buy
func (i PlanIngredient) TotalQuantity() decimal.Decimal {
	if !i.UnitQuantity.IsPositive() || !i.RequiredQuantity.IsPositive() {
		return decimal.Zero
	}
	return i.RequiredQuantity.Div(i.UnitQuantity).Ceil()
}

// TotalPrice returns the price of all packages to buy
func (i PlanIngredient) TotalPrice() decimal.Decimal {
	return i.UnitPrice.Mul(i.TotalQuantity())
}

// PlanRecipe is one selected recipe and its position within the plan
type PlanRecipe struct {
	RecipeID      RecipeID        `json:"recipe_id"`
	Title         string          `json:"title"`
	Position      int             `json:"position"`
	IsVegetarian  bool            `json:"is_vegetarian"`
	IsPescatarian bool            `json:"is_pescatarian"`
	EstimatedCost decimal.Decimal `json:"estimated_cost"`
}

// RecipeRemoval records a budget-driven swap that is part of the final plan
type RecipeRemoval struct {
	RecipeID         RecipeID `json:"recipe_id"`
	Title            string   `json:"title"`
	ReplacementID    RecipeID `json:"replacement_id"`
	ReplacementTitle string   `json:"replacement_title"`
	Message          string   `json:"message"`
}

// RecipeScore is the transient ranking record of a candidate recipe
type RecipeScore struct {
	RecipeID      RecipeID
	Score         int
	EstimatedCost decimal.Decimal
}

// Plan is the result of one planning invocation
type Plan struct {
	Budget              decimal.Decimal
	Recipes             []PlanRecipe
	CompleteIngredients map[ProductID]*PlanIngredient
	Warnings            []string
	Removals            []RecipeRemoval // also reported in Warnings
	TotalCost           decimal.Decimal
	RemainingBudget     decimal.Decimal
	Iterations          int // budget-driven swaps performed
	PriceEvaluations    int
}

// RecipePositions maps each selected recipe to its position in the plan
func (p *Plan) RecipePositions() map[RecipeID]int {
	positions := make(map[RecipeID]int, len(p.Recipes))
	for _, recipe := range p.Recipes {
		positions[recipe.RecipeID] = recipe.Position
	}
	return positions
}

// RecipeIDs returns the selected recipe ids in plan order
func (p *Plan) RecipeIDs() []RecipeID {
	ids := make([]RecipeID, len(p.Recipes))
	for i, recipe := range p.Recipes {
		ids[i] = recipe.RecipeID
	}
	return ids
}

// Ingredients returns the plan ingredients ordered by product id
func (p *Plan) Ingredients() []*PlanIngredient {
	ingredients := make([]*PlanIngredient, 0, len(p.CompleteIngredients))
	for _, ingredient := range p.CompleteIngredients {
		ingredients = append(ingredients, ingredient)
	}
	sort.Slice(ingredients, func(i, j int) bool {
		return ingredients[i].ProductID < ingredients[j].ProductID
	})
	return ingredients
}

// IsOverBudget reports whether the plan spends more than its budget
func (p *Plan) IsOverBudget() bool {
	return p.RemainingBudget.IsNegative()
}

// CountVegetarian returns the number of selected vegetarian recipes
func (p *Plan) CountVegetarian() int {
	count := 0
	for _, recipe := range p.Recipes {
		if recipe.IsVegetarian {
			count++
		}
	}
	return count
}

// CountPescatarian returns the number of selected pescatarian recipes
func (p *Plan) CountPescatarian() int {
	count := 0
	for _, recipe := range p.Recipes {
		if recipe.IsPescatarian {
			count++
		}
	}
	return count
}

// RoundHalfUp rounds d to the given number of decimal places, with halves
// rounded towards positive infinity
func RoundHalfUp(d decimal.Decimal, places int32) decimal.Decimal {
	half := decimal.New(5, -(places + 1))
	return d.Add(half).RoundFloor(places)
}
