package memory

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vsinha/mealplan/pkg/domain/entities"
	"github.com/vsinha/mealplan/pkg/domain/repositories"
)

// RecipeRepository provides in-memory recipe storage
type RecipeRepository struct {
	recipes    []entities.Recipe
	recipesMap map[entities.RecipeID]int
	mutex      sync.RWMutex
}

// NewRecipeRepository creates a new in-memory recipe repository
func NewRecipeRepository(expectedRecipes int) *RecipeRepository {
	return &RecipeRepository{
		recipes:    make([]entities.Recipe, 0, expectedRecipes),
		recipesMap: make(map[entities.RecipeID]int, expectedRecipes),
	}
}

// Verify interface compliance
var _ repositories.RecipeRepository = (*RecipeRepository)(nil)

// LoadRecipes loads recipes into the repository
func (r *RecipeRepository) LoadRecipes(recipes []*entities.Recipe) error {
	for _, recipe := range recipes {
		if err := r.SaveRecipe(recipe); err != nil {
			return err
		}
	}
	return nil
}

// SaveRecipe adds a recipe to the repository. Recipe ids must be unique.
func (r *RecipeRepository) SaveRecipe(recipe *entities.Recipe) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.recipesMap[recipe.ID]; exists {
		return fmt.Errorf("recipe already exists: %d", recipe.ID)
	}
	r.recipesMap[recipe.ID] = len(r.recipes)
	r.recipes = append(r.recipes, *recipe)
	return nil
}

// GetRecipe returns the recipe with the given id
func (r *RecipeRepository) GetRecipe(id entities.RecipeID) (*entities.Recipe, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	index, exists := r.recipesMap[id]
	if !exists {
		return nil, fmt.Errorf("recipe not found: %d", id)
	}
	recipe := r.recipes[index]
	return &recipe, nil
}

// GetAllRecipes returns all recipes ordered by id
func (r *RecipeRepository) GetAllRecipes() ([]*entities.Recipe, error) {
	return r.filter(func(*entities.Recipe) bool { return true }), nil
}

// GetPublishedRecipes returns all published recipes ordered by id
func (r *RecipeRepository) GetPublishedRecipes() ([]*entities.Recipe, error) {
	return r.filter(func(recipe *entities.Recipe) bool {
		return recipe.Status == entities.Published
	}), nil
}

func (r *RecipeRepository) filter(keep func(*entities.Recipe) bool) []*entities.Recipe {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	var recipes []*entities.Recipe
	for i := range r.recipes {
		recipe := r.recipes[i]
		if keep(&recipe) {
			recipes = append(recipes, &recipe)
		}
	}
	sort.Slice(recipes, func(i, j int) bool {
		return recipes[i].ID < recipes[j].ID
	})
	return recipes
}

// Count returns the number of stored recipes
func (r *RecipeRepository) Count() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return len(r.recipes)
}
