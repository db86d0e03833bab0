package csv

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vsinha/mealplan/pkg/domain/entities"
)

func TestAppendHistory(t *testing.T) {
	plannedOn := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	records := []UsageRecord{
		{RecipeID: 3, PlannedOn: plannedOn},
		{RecipeID: 1, PlannedOn: plannedOn},
	}

	tests := []struct {
		name     string
		existing *string
		expected string
	}{
		{
			name:     "new_file",
			existing: nil,
			expected: "recipe_id,planned_on\n3,2026-03-02\n1,2026-03-02\n",
		},
		{
			name:     "empty_file",
			existing: strPtr(""),
			expected: "recipe_id,planned_on\n3,2026-03-02\n1,2026-03-02\n",
		},
		{
			name:     "existing_history",
			existing: strPtr("recipe_id,planned_on\n2,2026-02-23\n"),
			expected: "recipe_id,planned_on\n2,2026-02-23\n3,2026-03-02\n1,2026-03-02\n",
		},
		{
			name:     "missing_trailing_newline",
			existing: strPtr("recipe_id,planned_on\n2,2026-02-23"),
			expected: "recipe_id,planned_on\n2,2026-02-23\n3,2026-03-02\n1,2026-03-02\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), HistoryFile)
			if tt.existing != nil {
				writeFile(t, filepath.Dir(path), HistoryFile, *tt.existing)
			}

			if err := AppendHistory(path, records); err != nil {
				t.Fatalf("AppendHistory failed: %v", err)
			}

			content, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("Failed to read history: %v", err)
			}
			if string(content) != tt.expected {
				t.Errorf("Expected history:\n%q\ngot:\n%q", tt.expected, string(content))
			}

			history, err := NewLoader().LoadHistory(path)
			if err != nil {
				t.Fatalf("LoadHistory failed on appended file: %v", err)
			}
			last := history[len(history)-1]
			if last.RecipeID != entities.RecipeID(1) || !last.PlannedOn.Equal(plannedOn) {
				t.Errorf("Unexpected last record %+v", last)
			}
		})
	}
}

func TestAppendHistory_NoRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), HistoryFile)

	if err := AppendHistory(path, nil); err != nil {
		t.Fatalf("AppendHistory failed: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("Expected no history file to be created, got %v", err)
	}
}

func strPtr(s string) *string {
	return &s
}
