package planner

import (
	"testing"

	"github.com/shopspring/decimal"

	testhelpers "github.com/vsinha/mealplan/pkg/application/services/testing"
	"github.com/vsinha/mealplan/pkg/domain/entities"
)

func benchmarkCreatePlan(b *testing.B, candidates []entities.Recipe, req entities.PlanRequest) {
	b.Helper()
	distributor := NewDistributor()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := distributor.CreatePlan(candidates, req)
		if err != nil {
			b.Fatalf("CreatePlan failed: %v", err)
		}
	}
}

func BenchmarkDistributor_Weeknight(b *testing.B) {
	benchmarkCreatePlan(b, testhelpers.BuildWeeknightData(), entities.PlanRequest{
		Budget:         decimal.NewFromInt(100),
		NumItems:       3,
		NumPescatarian: 1,
		NumVegetarian:  1,
	})
}

func BenchmarkDistributor_LargePool(b *testing.B) {
	benchmarkCreatePlan(b, testhelpers.BuildLargeRecipeCollection(1000, 200), entities.PlanRequest{
		Budget:         decimal.NewFromInt(500),
		NumItems:       7,
		NumPescatarian: 2,
		NumVegetarian:  2,
	})
}

// A budget that cannot be met forces the full iteration cap
func BenchmarkDistributor_BudgetSwaps(b *testing.B) {
	benchmarkCreatePlan(b, testhelpers.BuildLargeRecipeCollection(500, 100), entities.PlanRequest{
		Budget:           decimal.NewFromInt(1),
		NumItems:         7,
		NumPescatarian:   2,
		NumVegetarian:    2,
		MaxNumIterations: 50,
	})
}

func BenchmarkBuildPool_Large(b *testing.B) {
	candidates := testhelpers.BuildLargeRecipeCollection(5000, 500)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := BuildPool(candidates, 7); err != nil {
			b.Fatalf("BuildPool failed: %v", err)
		}
	}
}
