package main

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/vsinha/mealplan/pkg/application/services/planner"
	"github.com/vsinha/mealplan/pkg/domain/entities"
)

func product(id int64, name, unitQuantity, price, unit string) entities.Product {
	p, err := entities.NewProduct(
		entities.ProductID(id),
		name,
		decimal.NewNullDecimal(decimal.RequireFromString(unitQuantity)),
		decimal.NewNullDecimal(decimal.RequireFromString(price)),
		unit,
	)
	if err != nil {
		panic(err)
	}
	return *p
}

type portion struct {
	product  entities.Product
	quantity string
}

func recipe(id int64, title string, veg, pesc bool, portions ...portion) entities.Recipe {
	r, err := entities.NewRecipe(entities.RecipeID(id), title, veg, pesc, entities.Published)
	if err != nil {
		panic(err)
	}
	for _, p := range portions {
		item, err := entities.NewIngredientItem(p.product, decimal.RequireFromString(p.quantity), p.product.UnitAbbreviation)
		if err != nil {
			panic(err)
		}
		r.AddItem("Main", *item)
	}
	return *r
}

func main() {
	pasta := product(1, "Spaghetti", "500", "1.49", "g")
	tomatoes := product(2, "Canned tomatoes", "400", "0.99", "g")
	salmon := product(3, "Salmon fillet", "250", "5.99", "g")
	rice := product(4, "Basmati rice", "1000", "2.79", "g")
	chickpeas := product(5, "Chickpeas", "400", "0.89", "g")

	candidates := []entities.Recipe{
		recipe(1, "Spaghetti al pomodoro", true, true, portion{pasta, "400"}, portion{tomatoes, "800"}),
		recipe(2, "Salmon with rice", false, true, portion{salmon, "500"}, portion{rice, "300"}),
		recipe(3, "Chickpea curry", true, true, portion{chickpeas, "800"}, portion{tomatoes, "400"}, portion{rice, "300"}),
	}

	plan, err := planner.NewDistributor().CreatePlan(candidates, entities.PlanRequest{
		Budget:         decimal.NewFromInt(25),
		NumItems:       2,
		NumPescatarian: 1,
	})
	if err != nil {
		fmt.Printf("Planning failed: %v\n", err)
		return
	}

	fmt.Println("Meal plan:")
	for _, r := range plan.Recipes {
		fmt.Printf("  %d. %s (estimated %s)\n", r.Position, r.Title, r.EstimatedCost.StringFixed(2))
	}
	fmt.Println()

	fmt.Println("Shopping list:")
	for _, ingredient := range plan.Ingredients() {
		fmt.Printf("  %s x %s: %s\n",
			ingredient.TotalQuantity(), ingredient.Name, ingredient.TotalPrice().StringFixed(2))
	}
	fmt.Println()

	fmt.Printf("Total: %s, remaining: %s\n", plan.TotalCost.StringFixed(2), plan.RemainingBudget.StringFixed(2))
	for _, warning := range plan.Warnings {
		fmt.Printf("Warning: %s\n", warning)
	}
}
