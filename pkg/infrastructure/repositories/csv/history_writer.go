package csv

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// AppendHistory appends usage records to a plan history file in the format
// LoadHistory reads. A missing or empty file gets the header row first.
func AppendHistory(filename string, records []UsageRecord) error {
	if len(records) == 0 {
		return nil
	}

	file, err := os.OpenFile(filename, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open history file %s: %w", filename, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat history file %s: %w", filename, err)
	}

	writer := csv.NewWriter(file)
	if info.Size() == 0 {
		if err := writer.Write(historyHeader); err != nil {
			return fmt.Errorf("failed to write history header: %w", err)
		}
	} else if err := terminateLastLine(file, info.Size()); err != nil {
		return fmt.Errorf("failed to append to history file %s: %w", filename, err)
	}

	for _, record := range records {
		row := []string{
			strconv.FormatInt(int64(record.RecipeID), 10),
			record.PlannedOn.Format("2006-01-02"),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write history record for recipe %d: %w", record.RecipeID, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush history file %s: %w", filename, err)
	}
	return nil
}

// terminateLastLine adds a newline when a hand-edited file does not end in one
func terminateLastLine(file *os.File, size int64) error {
	last := make([]byte, 1)
	if _, err := file.ReadAt(last, size-1); err != nil {
		return err
	}
	if last[0] == '\n' {
		return nil
	}
	_, err := file.Write([]byte("\n"))
	return err
}
