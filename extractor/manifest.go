package extractor

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"fragrance-scraper/internal/types"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Summary counts the outcomes of a run
type Summary struct {
	Succeeded int
	Failed    []types.OutcomeRecord
}

// Summarize splits results into downloaded and not downloaded
func Summarize(results []types.OutcomeRecord) Summary {
	var summary Summary
	for _, result := range results {
		if result.Succeeded() {
			summary.Succeeded++
		} else {
			summary.Failed = append(summary.Failed, result)
		}
	}
	return summary
}

// WriteManifest replaces the file at path with results as an indented JSON array
func WriteManifest(path string, results []types.OutcomeRecord) error {
	if results == nil {
		results = []types.OutcomeRecord{}
	}

	jsonData, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results to JSON: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create manifest directory: %w", err)
		}
	}
	if err := os.WriteFile(path, jsonData, 0o644); err != nil {
		return fmt.Errorf("failed to write results to file: %w", err)
	}
	return nil
}

// ReadManifest parses a manifest written by WriteManifest
func ReadManifest(path string) ([]types.OutcomeRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var results []types.OutcomeRecord
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	return results, nil
}

// PrintSummary writes the success and failure counts, then a table of failed entries
func PrintSummary(w io.Writer, results []types.OutcomeRecord) {
	summary := Summarize(results)

	fmt.Fprintln(w, "\nSummary:")
	fmt.Fprintf(w, "✓ Successfully downloaded: %d\n", summary.Succeeded)
	fmt.Fprintf(w, "✗ Failed to download: %d\n", len(summary.Failed))

	if len(summary.Failed) == 0 {
		return
	}

	fmt.Fprintln(w, "\nFailed fragrances:")
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Brand", "Fragrance", "Image URL"})
	for _, result := range summary.Failed {
		imageURL := "-"
		if result.ImageURL != nil {
			imageURL = *result.ImageURL
		}
		t.AppendRow(table.Row{result.Brand, result.Name, imageURL})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
}
