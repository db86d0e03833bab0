package memory

import (
	"strings"
	"testing"

	"github.com/vsinha/mealplan/pkg/domain/entities"
)

func newRecipe(t *testing.T, id int64, title string, status entities.RecipeStatus) *entities.Recipe {
	t.Helper()
	recipe, err := entities.NewRecipe(entities.RecipeID(id), title, false, false, status)
	if err != nil {
		t.Fatalf("NewRecipe failed: %v", err)
	}
	return recipe
}

func TestRecipeRepository_SaveRecipe(t *testing.T) {
	repo := NewRecipeRepository(10)

	recipe := newRecipe(t, 7, "Lentil soup", entities.Published)
	if err := repo.SaveRecipe(recipe); err != nil {
		t.Fatalf("Failed to save recipe: %v", err)
	}

	retrieved, err := repo.GetRecipe(7)
	if err != nil {
		t.Fatalf("Failed to get recipe: %v", err)
	}
	if retrieved.Title != "Lentil soup" {
		t.Errorf("Expected title Lentil soup, got %s", retrieved.Title)
	}

	// the stored copy is independent of the caller's value
	recipe.Title = "Changed"
	retrieved, _ = repo.GetRecipe(7)
	if retrieved.Title != "Lentil soup" {
		t.Errorf("Expected stored title to be unchanged, got %s", retrieved.Title)
	}
}

func TestRecipeRepository_SaveRecipe_Duplicate(t *testing.T) {
	repo := NewRecipeRepository(10)

	if err := repo.SaveRecipe(newRecipe(t, 1, "First", entities.Published)); err != nil {
		t.Fatalf("Failed to save first recipe: %v", err)
	}

	err := repo.SaveRecipe(newRecipe(t, 1, "Second", entities.Published))
	if err == nil {
		t.Fatal("Expected error when saving duplicate recipe")
	}
	if !strings.Contains(err.Error(), "already exists") {
		t.Errorf("Expected 'already exists' error, got: %v", err)
	}
	if repo.Count() != 1 {
		t.Errorf("Expected 1 recipe, got %d", repo.Count())
	}
}

func TestRecipeRepository_GetRecipe_NotFound(t *testing.T) {
	repo := NewRecipeRepository(10)

	_, err := repo.GetRecipe(42)
	if err == nil {
		t.Fatal("Expected error for missing recipe")
	}
	if !strings.Contains(err.Error(), "not found") {
		t.Errorf("Expected 'not found' error, got: %v", err)
	}
}

func TestRecipeRepository_GetPublishedRecipes(t *testing.T) {
	repo := NewRecipeRepository(10)

	err := repo.LoadRecipes([]*entities.Recipe{
		newRecipe(t, 3, "Fish tacos", entities.Published),
		newRecipe(t, 1, "Ratatouille", entities.Published),
		newRecipe(t, 2, "Untested stew", entities.Draft),
	})
	if err != nil {
		t.Fatalf("LoadRecipes failed: %v", err)
	}

	all, err := repo.GetAllRecipes()
	if err != nil {
		t.Fatalf("GetAllRecipes failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("Expected 3 recipes, got %d", len(all))
	}
	for i, recipe := range all {
		if recipe.ID != entities.RecipeID(i+1) {
			t.Errorf("Expected recipes ordered by id, got %d at index %d", recipe.ID, i)
		}
	}

	published, err := repo.GetPublishedRecipes()
	if err != nil {
		t.Fatalf("GetPublishedRecipes failed: %v", err)
	}
	if len(published) != 2 || published[0].ID != 1 || published[1].ID != 3 {
		t.Errorf("Expected published recipes [1 3], got %d recipes", len(published))
	}
}
