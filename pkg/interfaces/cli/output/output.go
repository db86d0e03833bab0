package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/mealplan/pkg/application/dto"
	"github.com/vsinha/mealplan/pkg/domain/entities"
)

// Config holds configuration for output generation
type Config struct {
	Format         string
	OutputDir      string
	Verbose        bool
	CurrencyPlaces int32
	PlanningTime   time.Duration
	Out            io.Writer // defaults to os.Stdout
}

// Generate creates output in the specified format
func Generate(result *dto.PlanResult, config Config) error {
	if config.Out == nil {
		config.Out = os.Stdout
	}

	switch config.Format {
	case "text":
		return generateTextOutput(result, config)
	case "json":
		return generateJSONOutput(result, config)
	case "csv":
		return generateCSVOutput(result, config)
	default:
		return fmt.Errorf("unsupported output format: %s", config.Format)
	}
}

func money(d decimal.Decimal, config Config) string {
	return d.StringFixed(config.CurrencyPlaces)
}

func diet(recipe entities.PlanRecipe) string {
	switch {
	case recipe.IsVegetarian && recipe.IsPescatarian:
		return "veg/pesc"
	case recipe.IsVegetarian:
		return "veg"
	case recipe.IsPescatarian:
		return "pesc"
	default:
		return "-"
	}
}

// generateTextOutput creates human-readable text output
func generateTextOutput(result *dto.PlanResult, config Config) error {
	w := config.Out
	plan := result.Plan

	fmt.Fprintf(w, "Meal Plan %s\n", result.PlanID)
	fmt.Fprintf(w, "==============================================\n\n")

	fmt.Fprintf(w, "Planned On: %s\n", result.PlannedOn.Format("2006-01-02"))
	fmt.Fprintf(w, "Candidates: %d (%d excluded by grace period)\n", result.Candidates, len(result.Excluded))
	fmt.Fprintf(w, "Budget: %s\n", money(plan.Budget, config))
	fmt.Fprintf(w, "Total Cost: %s\n", money(plan.TotalCost, config))
	fmt.Fprintf(w, "Remaining Budget: %s\n", money(plan.RemainingBudget, config))
	if config.Verbose {
		fmt.Fprintf(w, "Swaps: %d\n", plan.Iterations)
		fmt.Fprintf(w, "Price Evaluations: %d\n", plan.PriceEvaluations)
		fmt.Fprintf(w, "Planning Time: %v\n", config.PlanningTime)
	}
	fmt.Fprintln(w)

	if len(plan.Recipes) > 0 {
		fmt.Fprintf(w, "Recipes:\n")
		fmt.Fprintf(w, "%-4s %-8s %-32s %-10s %-10s\n", "Pos", "ID", "Title", "Diet", "Est. Cost")
		fmt.Fprintf(w, "%-4s %-8s %-32s %-10s %-10s\n", "----", "--------", "--------------------------------", "----------", "----------")

		for _, recipe := range plan.Recipes {
			fmt.Fprintf(w, "%-4d %-8d %-32s %-10s %-10s\n",
				recipe.Position,
				recipe.RecipeID,
				recipe.Title,
				diet(recipe),
				money(recipe.EstimatedCost, config))
		}
		fmt.Fprintln(w)
	}

	if ingredients := plan.Ingredients(); len(ingredients) > 0 {
		fmt.Fprintf(w, "Shopping List:\n")
		fmt.Fprintf(w, "%-8s %-24s %-12s %-10s %-10s %-10s\n", "Product", "Name", "Required", "Packages", "Unit", "Price")
		fmt.Fprintf(w, "%-8s %-24s %-12s %-10s %-10s %-10s\n", "--------", "------------------------", "------------", "----------", "----------", "----------")

		for _, ingredient := range ingredients {
			fmt.Fprintf(w, "%-8d %-24s %-12s %-10s %-10s %-10s\n",
				ingredient.ProductID,
				ingredient.Name,
				ingredient.RequiredQuantity.String()+" "+ingredient.UnitAbbreviation,
				ingredient.TotalQuantity().String(),
				money(ingredient.UnitPrice, config),
				money(ingredient.TotalPrice(), config))
		}
		fmt.Fprintln(w)
	}

	if len(plan.Warnings) > 0 {
		fmt.Fprintf(w, "Warnings:\n")
		for _, warning := range plan.Warnings {
			fmt.Fprintf(w, "  - %s\n", warning)
		}
		fmt.Fprintln(w)
	}

	return nil
}

type jsonIngredient struct {
	*entities.PlanIngredient
	TotalQuantity decimal.Decimal `json:"total_quantity"`
	TotalPrice    decimal.Decimal `json:"total_price"`
}

type jsonResult struct {
	PlanID           string                   `json:"plan_id"`
	PlannedOn        string                   `json:"planned_on"`
	Stored           bool                     `json:"stored"`
	Candidates       int                      `json:"candidates"`
	Excluded         []entities.RecipeID      `json:"excluded"`
	Budget           string                   `json:"budget"`
	TotalCost        string                   `json:"total_cost"`
	RemainingBudget  string                   `json:"remaining_budget"`
	Iterations       int                      `json:"iterations"`
	PriceEvaluations int                      `json:"price_evaluations"`
	Recipes          []entities.PlanRecipe    `json:"recipes"`
	Ingredients      []jsonIngredient         `json:"ingredients"`
	Removals         []entities.RecipeRemoval `json:"removals"`
	Warnings         []string                 `json:"warnings"`
}

func newJSONResult(result *dto.PlanResult, config Config) jsonResult {
	plan := result.Plan
	out := jsonResult{
		PlanID:           result.PlanID.String(),
		PlannedOn:        result.PlannedOn.Format("2006-01-02"),
		Stored:           result.Stored,
		Candidates:       result.Candidates,
		Excluded:         result.Excluded,
		Budget:           money(plan.Budget, config),
		TotalCost:        money(plan.TotalCost, config),
		RemainingBudget:  money(plan.RemainingBudget, config),
		Iterations:       plan.Iterations,
		PriceEvaluations: plan.PriceEvaluations,
		Recipes:          plan.Recipes,
		Ingredients:      make([]jsonIngredient, 0, len(plan.CompleteIngredients)),
		Removals:         plan.Removals,
		Warnings:         plan.Warnings,
	}
	if out.Excluded == nil {
		out.Excluded = []entities.RecipeID{}
	}
	if out.Recipes == nil {
		out.Recipes = []entities.PlanRecipe{}
	}
	if out.Removals == nil {
		out.Removals = []entities.RecipeRemoval{}
	}
	if out.Warnings == nil {
		out.Warnings = []string{}
	}
	for _, ingredient := range plan.Ingredients() {
		out.Ingredients = append(out.Ingredients, jsonIngredient{
			PlanIngredient: ingredient,
			TotalQuantity:  ingredient.TotalQuantity(),
			TotalPrice:     ingredient.TotalPrice(),
		})
	}
	return out
}

// generateJSONOutput creates JSON output
func generateJSONOutput(result *dto.PlanResult, config Config) error {
	jsonData, err := json.MarshalIndent(newJSONResult(result, config), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if config.OutputDir == "" {
		fmt.Fprintln(config.Out, string(jsonData))
		return nil
	}

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	filename := filepath.Join(config.OutputDir, "plan.json")
	if err := os.WriteFile(filename, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write JSON file: %w", err)
	}

	if config.Verbose {
		fmt.Fprintf(config.Out, "JSON results saved to: %s\n", filename)
	}
	return nil
}

// generateCSVOutput writes the recipes and the shopping list as CSV files
func generateCSVOutput(result *dto.PlanResult, config Config) error {
	if config.OutputDir == "" {
		return fmt.Errorf("output directory required for CSV format")
	}

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	recipesFile := filepath.Join(config.OutputDir, "plan_recipes.csv")
	if err := writeRecipesCSV(result.Plan.Recipes, recipesFile, config); err != nil {
		return fmt.Errorf("failed to write plan recipes CSV: %w", err)
	}

	ingredientsFile := filepath.Join(config.OutputDir, "shopping_list.csv")
	if err := writeIngredientsCSV(result.Plan.Ingredients(), ingredientsFile, config); err != nil {
		return fmt.Errorf("failed to write shopping list CSV: %w", err)
	}

	if config.Verbose {
		fmt.Fprintf(config.Out, "CSV results saved to:\n")
		fmt.Fprintf(config.Out, "  Recipes: %s\n", recipesFile)
		fmt.Fprintf(config.Out, "  Shopping List: %s\n", ingredientsFile)
	}
	return nil
}

func writeCSV(filename string, rows [][]string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.WriteAll(rows); err != nil {
		return err
	}
	return file.Close()
}

func writeRecipesCSV(recipes []entities.PlanRecipe, filename string, config Config) error {
	rows := [][]string{{"position", "recipe_id", "title", "is_vegetarian", "is_pescatarian", "estimated_cost"}}
	for _, recipe := range recipes {
		rows = append(rows, []string{
			strconv.Itoa(recipe.Position),
			strconv.FormatInt(int64(recipe.RecipeID), 10),
			recipe.Title,
			strconv.FormatBool(recipe.IsVegetarian),
			strconv.FormatBool(recipe.IsPescatarian),
			money(recipe.EstimatedCost, config),
		})
	}
	return writeCSV(filename, rows)
}

func writeIngredientsCSV(ingredients []*entities.PlanIngredient, filename string, config Config) error {
	rows := [][]string{{"product_id", "name", "required_quantity", "unit_abbreviation", "unit_quantity", "total_quantity", "unit_price", "total_price"}}
	for _, ingredient := range ingredients {
		rows = append(rows, []string{
			strconv.FormatInt(int64(ingredient.ProductID), 10),
			ingredient.Name,
			ingredient.RequiredQuantity.String(),
			ingredient.UnitAbbreviation,
			ingredient.UnitQuantity.String(),
			ingredient.TotalQuantity().String(),
			money(ingredient.UnitPrice, config),
			money(ingredient.TotalPrice(), config),
		})
	}
	return writeCSV(filename, rows)
}
