package planner

import (
	"testing"

	testhelpers "github.com/vsinha/mealplan/pkg/application/services/testing"
	"github.com/vsinha/mealplan/pkg/domain/entities"
)

func TestBuildPool_AggregatesRepeatedProducts(t *testing.T) {
	flour := testhelpers.MustCreateProduct(1, "Flour", "500", "0.89", "g")
	milk := testhelpers.MustCreateProduct(2, "Milk", "1000", "1.15", "ml")

	recipe := testhelpers.MustCreateRecipe(1, "Pancakes", true, true,
		testhelpers.Ingredient(flour, "250"),
		testhelpers.Ingredient(milk, "500"),
	)
	// the same product used again in a second group
	recipe.AddItem("Topping", testhelpers.Ingredient(flour, "300"))

	pool, err := BuildPool([]entities.Recipe{recipe}, 1)
	if err != nil {
		t.Fatalf("BuildPool failed: %v", err)
	}

	if len(pool.Products) != 2 {
		t.Errorf("Expected 2 products, got %d", len(pool.Products))
	}
	if len(pool.RecipeProducts) != 2 {
		t.Fatalf("Expected 2 recipe products, got %d", len(pool.RecipeProducts))
	}

	row := pool.RecipeProducts[0]
	if row.ProductID != 1 {
		t.Fatalf("Expected rows ordered by product id, got %d first", row.ProductID)
	}
	if !row.PortionQuantity.Equal(dec("550")) {
		t.Errorf("Expected summed portion 550, got %s", row.PortionQuantity)
	}
	if !row.RequiredAmount.Equal(dec("1.1")) {
		t.Errorf("Expected required amount 1.1, got %s", row.RequiredAmount)
	}
	if len(pool.Warnings) != 0 {
		t.Errorf("Expected no warnings, got %v", pool.Warnings)
	}
}

func TestBuildPool_DropsUnpricedItems(t *testing.T) {
	tests := []struct {
		name    string
		product *entities.Product
	}{
		{"missing_unit_quantity", testhelpers.MustCreateProduct(1, "Herbs", "", "1.00", "g")},
		{"zero_unit_quantity", testhelpers.MustCreateProduct(1, "Herbs", "0", "1.00", "g")},
		{"missing_price", testhelpers.MustCreateProduct(1, "Herbs", "10", "", "g")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			salt := testhelpers.MustCreateProduct(2, "Salt", "500", "0.40", "g")
			recipe := testhelpers.MustCreateRecipe(7, "Herb salt", true, true,
				testhelpers.Ingredient(tt.product, "5"),
				testhelpers.Ingredient(tt.product, "5"),
				testhelpers.Ingredient(salt, "100"),
			)

			pool, err := BuildPool([]entities.Recipe{recipe}, 1)
			if err != nil {
				t.Fatalf("BuildPool failed: %v", err)
			}

			if len(pool.RecipeProducts) != 1 || pool.RecipeProducts[0].ProductID != 2 {
				t.Errorf("Expected only the priced product, got %+v", pool.RecipeProducts)
			}
			if pool.Products[1].Priced {
				t.Error("Expected product 1 to be marked unpriced")
			}
			if len(pool.Warnings) != 1 {
				t.Errorf("Expected one warning per recipe and product, got %v", pool.Warnings)
			}
			if len(pool.Recipes) != 1 {
				t.Errorf("Expected recipe to stay in the pool, got %d recipes", len(pool.Recipes))
			}
			if referenced := pool.ReferencedProducts(7); len(referenced) != 2 || referenced[0] != 1 || referenced[1] != 2 {
				t.Errorf("Expected products [1 2] to stay referenced, got %v", referenced)
			}
		})
	}
}

func TestBuildPool_OrdersAndDeduplicatesRecipes(t *testing.T) {
	recipes := testhelpers.BuildDistinctProductRecipes(3, "1.00")
	candidates := []entities.Recipe{recipes[2], recipes[0], recipes[1], recipes[0]}

	pool, err := BuildPool(candidates, 1)
	if err != nil {
		t.Fatalf("BuildPool failed: %v", err)
	}

	if len(pool.Recipes) != 3 {
		t.Fatalf("Expected 3 recipes, got %d", len(pool.Recipes))
	}
	for i, recipe := range pool.Recipes {
		if recipe.ID != entities.RecipeID(i+1) {
			t.Errorf("Expected recipe %d at index %d, got %d", i+1, i, recipe.ID)
		}
	}
	if len(pool.Warnings) != 1 {
		t.Errorf("Expected duplicate warning, got %v", pool.Warnings)
	}
	if _, ok := pool.Recipe(2); !ok {
		t.Error("Expected recipe 2 to be retrievable")
	}
}

func TestPool_Price(t *testing.T) {
	pool, err := BuildPool(testhelpers.BuildWeeknightData(), 1)
	if err != nil {
		t.Fatalf("BuildPool failed: %v", err)
	}

	ingredients := pool.Price([]entities.RecipeID{1, 5})

	pasta := ingredients[1]
	if pasta == nil {
		t.Fatal("Expected pasta in priced ingredients")
	}
	if !pasta.RequiredQuantity.Equal(dec("900")) {
		t.Errorf("Expected 900g pasta, got %s", pasta.RequiredQuantity)
	}
	if !pasta.TotalQuantity().Equal(dec("2")) {
		t.Errorf("Expected 2 packages of pasta, got %s", pasta.TotalQuantity())
	}
	if !pasta.TotalPrice().Equal(dec("2.98")) {
		t.Errorf("Expected pasta price 2.98, got %s", pasta.TotalPrice())
	}

	if total := TotalCost(ingredients); !total.Equal(dec("10.49")) {
		t.Errorf("Expected total 10.49, got %s", total)
	}
	if len(pool.Price(nil)) != 0 {
		t.Error("Expected no ingredients for an empty selection")
	}
}
