package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/mealplan/pkg/domain/entities"
)

// Scenario file names inside a scenario directory
const (
	ProductsFile    = "products.csv"
	RecipesFile     = "recipes.csv"
	IngredientsFile = "ingredients.csv"
	HistoryFile     = "history.csv"
)

var historyHeader = []string{"recipe_id", "planned_on"}

// UsageRecord is a past use of a recipe from the plan history file
type UsageRecord struct {
	RecipeID  entities.RecipeID
	PlannedOn time.Time
}

// Scenario holds the hydrated recipes and plan history of a scenario directory
type Scenario struct {
	Recipes []*entities.Recipe
	History []UsageRecord
}

// Loader handles loading meal-planning data from CSV files
type Loader struct{}

// NewLoader creates a new CSV loader
func NewLoader() *Loader {
	return &Loader{}
}

// LoadScenario loads products, recipes and ingredients from a directory.
// The history file is optional.
func (l *Loader) LoadScenario(dir string) (*Scenario, error) {
	products, err := l.LoadProducts(filepath.Join(dir, ProductsFile))
	if err != nil {
		return nil, err
	}

	recipes, err := l.LoadRecipes(filepath.Join(dir, RecipesFile))
	if err != nil {
		return nil, err
	}

	if err := l.LoadIngredients(filepath.Join(dir, IngredientsFile), recipes, products); err != nil {
		return nil, err
	}

	history, err := l.LoadHistory(filepath.Join(dir, HistoryFile))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	return &Scenario{Recipes: recipes, History: history}, nil
}

// LoadProducts loads products from a CSV file. Empty unit_quantity or
// gross_unit_price cells produce a product without pricing data.
func (l *Loader) LoadProducts(filename string) (map[entities.ProductID]*entities.Product, error) {
	records, err := readRecords(filename, "products",
		[]string{"id", "name", "unit_quantity", "gross_unit_price", "unit_abbreviation"})
	if err != nil {
		return nil, err
	}

	products := make(map[entities.ProductID]*entities.Product, len(records))
	for i, record := range records {
		product, err := parseProduct(record)
		if err != nil {
			return nil, fmt.Errorf("products CSV row %d: %w", i+2, err)
		}
		if _, exists := products[product.ID]; exists {
			return nil, fmt.Errorf("products CSV row %d: duplicate product id %d", i+2, product.ID)
		}
		products[product.ID] = product
	}

	return products, nil
}

// LoadRecipes loads recipes without ingredients from a CSV file, in file order
func (l *Loader) LoadRecipes(filename string) ([]*entities.Recipe, error) {
	records, err := readRecords(filename, "recipes",
		[]string{"id", "title", "is_vegetarian", "is_pescatarian", "status"})
	if err != nil {
		return nil, err
	}

	recipes := make([]*entities.Recipe, 0, len(records))
	for i, record := range records {
		recipe, err := parseRecipe(record)
		if err != nil {
			return nil, fmt.Errorf("recipes CSV row %d: %w", i+2, err)
		}
		recipes = append(recipes, recipe)
	}

	return recipes, nil
}

// LoadIngredients reads ingredient rows and attaches them to their recipes.
// Rows keep file order within each ingredient group.
func (l *Loader) LoadIngredients(
	filename string,
	recipes []*entities.Recipe,
	products map[entities.ProductID]*entities.Product,
) error {
	records, err := readRecords(filename, "ingredients",
		[]string{"recipe_id", "group_title", "product_id", "portion_quantity", "portion_unit"})
	if err != nil {
		return err
	}

	byID := make(map[entities.RecipeID]*entities.Recipe, len(recipes))
	for _, recipe := range recipes {
		byID[recipe.ID] = recipe
	}

	for i, record := range records {
		recipeID, err := parseID(record[0], "recipe_id")
		if err != nil {
			return fmt.Errorf("ingredients CSV row %d: %w", i+2, err)
		}
		recipe, ok := byID[entities.RecipeID(recipeID)]
		if !ok {
			return fmt.Errorf("ingredients CSV row %d: unknown recipe %d", i+2, recipeID)
		}

		productID, err := parseID(record[2], "product_id")
		if err != nil {
			return fmt.Errorf("ingredients CSV row %d: %w", i+2, err)
		}
		product, ok := products[entities.ProductID(productID)]
		if !ok {
			return fmt.Errorf("ingredients CSV row %d: unknown product %d", i+2, productID)
		}

		portion, err := decimal.NewFromString(strings.TrimSpace(record[3]))
		if err != nil {
			return fmt.Errorf("ingredients CSV row %d: invalid portion_quantity: %s", i+2, record[3])
		}

		item, err := entities.NewIngredientItem(*product, portion, strings.TrimSpace(record[4]))
		if err != nil {
			return fmt.Errorf("ingredients CSV row %d: %w", i+2, err)
		}
		recipe.AddItem(strings.TrimSpace(record[1]), *item)
	}

	return nil
}

// LoadHistory loads past recipe usage from a CSV file
func (l *Loader) LoadHistory(filename string) ([]UsageRecord, error) {
	records, err := readRecords(filename, "history", historyHeader)
	if err != nil {
		return nil, err
	}

	history := make([]UsageRecord, 0, len(records))
	for i, record := range records {
		recipeID, err := parseID(record[0], "recipe_id")
		if err != nil {
			return nil, fmt.Errorf("history CSV row %d: %w", i+2, err)
		}

		plannedOn, err := time.Parse("2006-01-02", strings.TrimSpace(record[1]))
		if err != nil {
			return nil, fmt.Errorf("history CSV row %d: invalid planned_on format: %s (expected YYYY-MM-DD)", i+2, record[1])
		}

		history = append(history, UsageRecord{
			RecipeID:  entities.RecipeID(recipeID),
			PlannedOn: plannedOn,
		})
	}

	return history, nil
}

// Helper functions for parsing CSV records

// readRecords opens a CSV file, validates its header and returns the data rows
func readRecords(filename, kind string, expectedHeader []string) ([][]string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s file %s: %w", kind, filename, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s CSV: %w", kind, err)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("%s CSV must have a header row", kind)
	}

	header := records[0]
	if !validateHeader(header, expectedHeader) {
		return nil, fmt.Errorf("%s CSV header mismatch. Expected: %v, Got: %v", kind, expectedHeader, header)
	}

	for i, record := range records[1:] {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("%s CSV row %d: expected %d columns, got %d", kind, i+2, len(expectedHeader), len(record))
		}
	}

	return records[1:], nil
}

func validateHeader(actual, expected []string) bool {
	if len(actual) != len(expected) {
		return false
	}

	for i, col := range expected {
		if strings.ToLower(strings.TrimSpace(actual[i])) != col {
			return false
		}
	}

	return true
}

func parseID(s, column string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %s", column, s)
	}
	return id, nil
}

func parseNullDecimal(s, column string) (decimal.NullDecimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("invalid %s: %s", column, s)
	}
	return decimal.NewNullDecimal(d), nil
}

func parseBool(s, column string) (bool, error) {
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		return false, fmt.Errorf("invalid %s: %s (expected true or false)", column, s)
	}
	return b, nil
}

func parseProduct(record []string) (*entities.Product, error) {
	id, err := parseID(record[0], "id")
	if err != nil {
		return nil, err
	}

	unitQuantity, err := parseNullDecimal(record[2], "unit_quantity")
	if err != nil {
		return nil, err
	}

	grossUnitPrice, err := parseNullDecimal(record[3], "gross_unit_price")
	if err != nil {
		return nil, err
	}

	return entities.NewProduct(
		entities.ProductID(id),
		strings.TrimSpace(record[1]),
		unitQuantity,
		grossUnitPrice,
		strings.TrimSpace(record[4]),
	)
}

func parseRecipe(record []string) (*entities.Recipe, error) {
	id, err := parseID(record[0], "id")
	if err != nil {
		return nil, err
	}

	isVegetarian, err := parseBool(record[2], "is_vegetarian")
	if err != nil {
		return nil, err
	}

	isPescatarian, err := parseBool(record[3], "is_pescatarian")
	if err != nil {
		return nil, err
	}

	status, err := entities.ParseRecipeStatus(strings.TrimSpace(record[4]))
	if err != nil {
		return nil, err
	}

	return entities.NewRecipe(entities.RecipeID(id), strings.TrimSpace(record[1]), isVegetarian, isPescatarian, status)
}
