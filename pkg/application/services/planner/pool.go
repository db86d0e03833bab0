package planner

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/vsinha/mealplan/pkg/domain/entities"
)

// PoolProduct is one row of the deduplicated products relation
type PoolProduct struct {
	ID               entities.ProductID
	Name             string
	UnitPrice        decimal.Decimal
	UnitQuantity     decimal.Decimal
	UnitAbbreviation string
	Priced           bool
}

// RecipeProduct is one row of the recipe × product relation. Only priced
// products appear here.
type RecipeProduct struct {
	RecipeID        entities.RecipeID
	ProductID       entities.ProductID
	PortionQuantity decimal.Decimal // summed over the recipe's items using the product
	RequiredAmount  decimal.Decimal // PortionQuantity / UnitQuantity, in packages
}

// Pool is the normalized, in-memory view of the candidate recipes
type Pool struct {
	Recipes        []entities.Recipe // usable candidates ordered by id
	Products       map[entities.ProductID]PoolProduct
	RecipeProducts []RecipeProduct // ordered by recipe id, then product id
	Warnings       []string

	recipes    map[entities.RecipeID]*entities.Recipe
	byRecipe   map[entities.RecipeID][]RecipeProduct
	referenced map[entities.RecipeID][]entities.ProductID
}

// BuildPool normalizes the candidate recipes into the products and
// recipe_products relations. Recipes without any ingredient item are left out
// of the pool; if they are needed to reach numItems an InvariantViolation is
// returned instead.
func BuildPool(candidates []entities.Recipe, numItems int) (*Pool, error) {
	sorted := make([]entities.Recipe, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ID < sorted[j].ID
	})

	pool := &Pool{
		Recipes:  make([]entities.Recipe, 0, len(sorted)),
		Products: make(map[entities.ProductID]PoolProduct),
		recipes:    make(map[entities.RecipeID]*entities.Recipe, len(sorted)),
		byRecipe:   make(map[entities.RecipeID][]RecipeProduct, len(sorted)),
		referenced: make(map[entities.RecipeID][]entities.ProductID, len(sorted)),
	}

	var empty []entities.RecipeID
	for i, recipe := range sorted {
		if i > 0 && sorted[i-1].ID == recipe.ID {
			pool.warn("duplicate candidate recipe %d (%s) ignored", recipe.ID, recipe.Title)
			continue
		}
		if recipe.ItemCount() == 0 {
			empty = append(empty, recipe.ID)
			continue
		}
		pool.addRecipe(recipe)
	}

	if len(empty) > 0 {
		if len(pool.Recipes) < numItems {
			return nil, entities.NewEmptyRecipeViolation(empty, numItems, len(pool.Recipes))
		}
		for _, id := range empty {
			pool.warn("recipe %d has no ingredient items; skipped", id)
		}
	}

	for i := range pool.Recipes {
		pool.recipes[pool.Recipes[i].ID] = &pool.Recipes[i]
	}

	return pool, nil
}

func (p *Pool) addRecipe(recipe entities.Recipe) {
	p.Recipes = append(p.Recipes, recipe)

	portions := make(map[entities.ProductID]decimal.Decimal)
	var order, referenced []entities.ProductID
	seen := make(map[entities.ProductID]bool)
	unpriced := make(map[entities.ProductID]bool)

	for _, item := range recipe.Items() {
		product := p.registerProduct(item.Product)
		if !seen[product.ID] {
			seen[product.ID] = true
			referenced = append(referenced, product.ID)
		}
		if !product.Priced {
			if !unpriced[product.ID] {
				unpriced[product.ID] = true
				p.warn(
					"product %d (%s) in recipe %d (%s) has no pricing data; excluded from cost calculation",
					product.ID,
					product.Name,
					recipe.ID,
					recipe.Title,
				)
			}
			continue
		}

		current, ok := portions[product.ID]
		if !ok {
			order = append(order, product.ID)
		}
		portions[product.ID] = current.Add(item.PortionQuantity)
	}

	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })
	sort.Slice(referenced, func(i, j int) bool { return referenced[i] < referenced[j] })
	p.referenced[recipe.ID] = referenced

	rows := make([]RecipeProduct, 0, len(order))
	for _, productID := range order {
		product := p.Products[productID]
		portion := portions[productID]
		rows = append(rows, RecipeProduct{
			RecipeID:        recipe.ID,
			ProductID:       productID,
			PortionQuantity: portion,
			RequiredAmount:  portion.Div(product.UnitQuantity),
		})
	}

	p.byRecipe[recipe.ID] = rows
	p.RecipeProducts = append(p.RecipeProducts, rows...)
}

// registerProduct adds the product to the products relation. The first
// occurrence of a product id wins.
func (p *Pool) registerProduct(product entities.Product) PoolProduct {
	if existing, ok := p.Products[product.ID]; ok {
		return existing
	}

	row := PoolProduct{
		ID:               product.ID,
		Name:             product.Name,
		UnitAbbreviation: product.UnitAbbreviation,
		Priced:           product.IsPriced(),
	}
	if row.Priced {
		row.UnitPrice = product.GrossUnitPrice.Decimal
		row.UnitQuantity = product.UnitQuantity.Decimal
	}
	p.Products[product.ID] = row
	return row
}

func (p *Pool) warn(format string, args ...interface{}) {
	p.Warnings = append(p.Warnings, fmt.Sprintf(format, args...))
}

// Recipe returns the candidate recipe with the given id
func (p *Pool) Recipe(id entities.RecipeID) (*entities.Recipe, bool) {
	recipe, ok := p.recipes[id]
	return recipe, ok
}

// ProductsOf returns the recipe_products rows of a recipe
func (p *Pool) ProductsOf(id entities.RecipeID) []RecipeProduct {
	return p.byRecipe[id]
}

// ReferencedProducts returns the ids of every product the recipe uses,
// priced or not, in ascending order
func (p *Pool) ReferencedProducts(id entities.RecipeID) []entities.ProductID {
	return p.referenced[id]
}

// Price aggregates the purchase requirements of the given recipes. Portion
// quantities are summed per product before rounding up to whole packages.
func (p *Pool) Price(selected []entities.RecipeID) map[entities.ProductID]*entities.PlanIngredient {
	ingredients := make(map[entities.ProductID]*entities.PlanIngredient)
	for _, recipeID := range selected {
		for _, row := range p.byRecipe[recipeID] {
			ingredient, ok := ingredients[row.ProductID]
			if !ok {
				product := p.Products[row.ProductID]
				ingredient = &entities.PlanIngredient{
					ProductID:        product.ID,
					Name:             product.Name,
					UnitAbbreviation: product.UnitAbbreviation,
					UnitPrice:        product.UnitPrice,
					UnitQuantity:     product.UnitQuantity,
					RequiredQuantity: decimal.Zero,
				}
				ingredients[row.ProductID] = ingredient
			}
			ingredient.RequiredQuantity = ingredient.RequiredQuantity.Add(row.PortionQuantity)
		}
	}
	return ingredients
}

// TotalCost sums the package prices of the given ingredients
func TotalCost(ingredients map[entities.ProductID]*entities.PlanIngredient) decimal.Decimal {
	total := decimal.Zero
	for _, ingredient := range ingredients {
		total = total.Add(ingredient.TotalPrice())
	}
	return total
}
