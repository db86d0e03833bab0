package entities

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// RecipeID represents a unique recipe identifier
type RecipeID int64

// RecipeStatus represents the publication status of a recipe
type RecipeStatus int

const (
	Draft RecipeStatus = iota
	Published
)

// String method for RecipeStatus enum
func (s RecipeStatus) String() string {
	switch s {
	case Draft:
		return "Draft"
	case Published:
		return "Published"
	default:
		return "Unknown"
	}
}

// ParseRecipeStatus converts a status name into a RecipeStatus
func ParseRecipeStatus(s string) (RecipeStatus, error) {
	switch s {
	case "Draft", "draft":
		return Draft, nil
	case "Published", "published":
		return Published, nil
	default:
		return Draft, fmt.Errorf("invalid recipe status: %s", s)
	}
}

// IngredientItem represents a portion of a product required by a recipe
type IngredientItem struct {
	Product         Product
	PortionQuantity decimal.Decimal
	PortionUnit     string
}

// NewIngredientItem creates a validated IngredientItem
func NewIngredientItem(product Product, portionQuantity decimal.Decimal, portionUnit string) (*IngredientItem, error) {
	if product.ID <= 0 {
		return nil, fmt.Errorf("ingredient item must reference a product")
	}
	if portionQuantity.IsNegative() {
		return nil, fmt.Errorf("portion quantity cannot be negative, got %s", portionQuantity)
	}

	return &IngredientItem{
		Product:         product,
		PortionQuantity: portionQuantity,
		PortionUnit:     portionUnit,
	}, nil
}

// IngredientGroup is an ordered, titled section of a recipe's ingredients
type IngredientGroup struct {
	Title string
	Items []IngredientItem
}

// Recipe represents a fully hydrated recipe as supplied to the planner
type Recipe struct {
	ID               RecipeID
	Title            string
	IsVegetarian     bool
	IsPescatarian    bool
	Status           RecipeStatus
	IngredientGroups []IngredientGroup
}

// NewRecipe creates a validated Recipe
func NewRecipe(id RecipeID, title string, isVegetarian, isPescatarian bool, status RecipeStatus) (*Recipe, error) {
	if id <= 0 {
		return nil, fmt.Errorf("recipe id must be positive, got %d", id)
	}
	if title == "" {
		return nil, fmt.Errorf("recipe title cannot be empty")
	}

	return &Recipe{
		ID:            id,
		Title:         title,
		IsVegetarian:  isVegetarian,
		IsPescatarian: isPescatarian,
		Status:        status,
	}, nil
}

// AddItem appends an ingredient item to the named group, creating the group
// if it does not exist yet
func (r *Recipe) AddItem(groupTitle string, item IngredientItem) {
	for i := range r.IngredientGroups {
		if r.IngredientGroups[i].Title == groupTitle {
			r.IngredientGroups[i].Items = append(r.IngredientGroups[i].Items, item)
			return
		}
	}
	r.IngredientGroups = append(r.IngredientGroups, IngredientGroup{
		Title: groupTitle,
		Items: []IngredientItem{item},
	})
}

// Items returns all ingredient items of the recipe in group order
func (r Recipe) Items() []IngredientItem {
	var items []IngredientItem
	for _, group := range r.IngredientGroups {
		items = append(items, group.Items...)
	}
	return items
}

// ItemCount returns the number of ingredient items across all groups
func (r Recipe) ItemCount() int {
	count := 0
	for _, group := range r.IngredientGroups {
		count += len(group.Items)
	}
	return count
}
