package repositories

import "github.com/vsinha/mealplan/pkg/domain/entities"

// RecipeRepository provides access to fully hydrated recipe data
type RecipeRepository interface {
	GetRecipe(id entities.RecipeID) (*entities.Recipe, error)
	GetAllRecipes() ([]*entities.Recipe, error)
	GetPublishedRecipes() ([]*entities.Recipe, error)
	LoadRecipes(recipes []*entities.Recipe) error
}
