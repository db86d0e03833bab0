package testing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/vsinha/mealplan/pkg/domain/entities"
	"github.com/vsinha/mealplan/pkg/infrastructure/repositories/memory"
)

// nullDecimal parses a decimal; the empty string yields a null value
func nullDecimal(value string) decimal.NullDecimal {
	if value == "" {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(decimal.RequireFromString(value))
}

// MustCreateProduct is a helper for tests - panics on validation error.
// Empty unitQuantity or price strings create a product without pricing data.
func MustCreateProduct(id int64, name, unitQuantity, price, unit string) *entities.Product {
	product, err := entities.NewProduct(
		entities.ProductID(id),
		name,
		nullDecimal(unitQuantity),
		nullDecimal(price),
		unit,
	)
	if err != nil {
		panic(err)
	}
	return product
}

// Ingredient creates an ingredient item for the product - panics on validation error
func Ingredient(product *entities.Product, portion string) entities.IngredientItem {
	item, err := entities.NewIngredientItem(*product, decimal.RequireFromString(portion), product.UnitAbbreviation)
	if err != nil {
		panic(err)
	}
	return *item
}

// MustCreateRecipe is a helper for tests - panics on validation error.
// All items are placed in a single ingredient group.
func MustCreateRecipe(
	id int64,
	title string,
	isVegetarian, isPescatarian bool,
	items ...entities.IngredientItem,
) entities.Recipe {
	recipe, err := entities.NewRecipe(entities.RecipeID(id), title, isVegetarian, isPescatarian, entities.Published)
	if err != nil {
		panic(err)
	}
	for _, item := range items {
		recipe.AddItem("Main", item)
	}
	return *recipe
}

// BuildDistinctProductRecipes creates count recipes, each using one distinct
// product of package size 1 at the given price
func BuildDistinctProductRecipes(count int, price string) []entities.Recipe {
	recipes := make([]entities.Recipe, 0, count)
	for i := 1; i <= count; i++ {
		product := MustCreateProduct(int64(100+i), "Product", "1", price, "pcs")
		recipes = append(recipes, MustCreateRecipe(int64(i), "Recipe", false, false, Ingredient(product, "1")))
	}
	return recipes
}

// BuildWeeknightData creates a small household recipe collection with shared
// pantry products and mixed dietary flags
func BuildWeeknightData() []entities.Recipe {
	pasta := MustCreateProduct(1, "Spaghetti", "500", "1.49", "g")
	tomatoes := MustCreateProduct(2, "Canned tomatoes", "400", "0.99", "g")
	onion := MustCreateProduct(3, "Onion", "1", "0.25", "pcs")
	salmon := MustCreateProduct(4, "Salmon fillet", "250", "5.99", "g")
	rice := MustCreateProduct(5, "Basmati rice", "1000", "2.79", "g")
	chicken := MustCreateProduct(6, "Chicken breast", "400", "4.49", "g")
	chickpeas := MustCreateProduct(7, "Chickpeas", "400", "0.89", "g")
	cream := MustCreateProduct(8, "Cream", "200", "0.79", "ml")
	spices := MustCreateProduct(9, "Curry paste", "", "", "g")

	return []entities.Recipe{
		MustCreateRecipe(1, "Spaghetti al pomodoro", true, true,
			Ingredient(pasta, "400"),
			Ingredient(tomatoes, "800"),
			Ingredient(onion, "1"),
		),
		MustCreateRecipe(2, "Salmon with rice", false, true,
			Ingredient(salmon, "500"),
			Ingredient(rice, "300"),
			Ingredient(cream, "100"),
		),
		MustCreateRecipe(3, "Chicken curry", false, false,
			Ingredient(chicken, "600"),
			Ingredient(rice, "300"),
			Ingredient(onion, "2"),
			Ingredient(cream, "200"),
			Ingredient(spices, "40"),
		),
		MustCreateRecipe(4, "Chickpea curry", true, true,
			Ingredient(chickpeas, "800"),
			Ingredient(tomatoes, "400"),
			Ingredient(onion, "1"),
			Ingredient(rice, "300"),
		),
		MustCreateRecipe(5, "Chicken pasta", false, false,
			Ingredient(chicken, "400"),
			Ingredient(pasta, "500"),
			Ingredient(cream, "200"),
		),
	}
}

// BuildRepositories loads recipes into fresh in-memory repositories
func BuildRepositories(recipes []entities.Recipe) (*memory.RecipeRepository, *memory.PlanRepository) {
	recipeRepo := memory.NewRecipeRepository(len(recipes))
	for i := range recipes {
		if err := recipeRepo.SaveRecipe(&recipes[i]); err != nil {
			panic(err)
		}
	}
	return recipeRepo, memory.NewPlanRepository()
}

// BuildLargeRecipeCollection creates numRecipes recipes drawing from a shared
// catalogue of numProducts products. Every third recipe is vegetarian and
// every fourth pescatarian; prices and portions vary deterministically.
func BuildLargeRecipeCollection(numRecipes, numProducts int) []entities.Recipe {
	products := make([]*entities.Product, numProducts)
	for i := range products {
		price := fmt.Sprintf("%d.%02d", 1+i%7, (i*37)%100)
		products[i] = MustCreateProduct(int64(i+1), fmt.Sprintf("Product %d", i+1), "500", price, "g")
	}

	recipes := make([]entities.Recipe, 0, numRecipes)
	for i := 0; i < numRecipes; i++ {
		items := make([]entities.IngredientItem, 0, 5)
		for j := 0; j < 5; j++ {
			product := products[(i*3+j*7)%numProducts]
			items = append(items, Ingredient(product, fmt.Sprintf("%d", 100+(i+j)%4*150)))
		}
		recipes = append(recipes, MustCreateRecipe(
			int64(i+1),
			fmt.Sprintf("Recipe %d", i+1),
			i%3 == 0,
			i%4 == 0 || i%3 == 0,
			items...,
		))
	}
	return recipes
}
