// Package catalog reads the list of fragrances to find images for.
package catalog

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"fragrance-scraper/internal/types"
)

const (
	brandColumn     = "Brand"
	fragranceColumn = "Fragrance"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Load reads the catalog at path. A missing or unreadable file is logged and
// yields an empty catalog so the run can still produce a manifest.
func Load(path string, logger types.Logger) []types.CatalogEntry {
	logger.Infof("Looking for CSV at: %s", path)

	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Errorf("Could not find %s", path)
		} else {
			logger.Errorf("Error loading CSV: %v", err)
		}
		return []types.CatalogEntry{}
	}
	defer file.Close()

	entries, err := Parse(file)
	if err != nil {
		logger.Errorf("Error loading CSV: %v", err)
		return []types.CatalogEntry{}
	}

	logger.Infof("Found %d fragrances in CSV", len(entries))
	return entries
}

// Parse reads catalog rows from r. The first non-blank line is the header and
// must name the Brand and Fragrance columns. Rows too short to hold both
// columns are skipped.
func Parse(r io.Reader) ([]types.CatalogEntry, error) {
	cleaned, err := stripBlankLines(r)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(bytes.NewReader(cleaned))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	// Names like `No 5 "Eau"` carry bare quotes
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return []types.CatalogEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	brandIdx, nameIdx := -1, -1
	for i, column := range header {
		switch strings.TrimSpace(column) {
		case brandColumn:
			brandIdx = i
		case fragranceColumn:
			nameIdx = i
		}
	}

	entries := []types.CatalogEntry{}
	if brandIdx < 0 || nameIdx < 0 {
		return entries, nil
	}

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		if brandIdx >= len(record) || nameIdx >= len(record) {
			continue
		}
		entries = append(entries, types.CatalogEntry{
			Brand: strings.TrimSpace(record[brandIdx]),
			Name:  strings.TrimSpace(record[nameIdx]),
		})
	}

	return entries, nil
}

// stripBlankLines drops a leading byte-order mark and every whitespace-only line
func stripBlankLines(r io.Reader) ([]byte, error) {
	var out bytes.Buffer
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	first := true
	for scanner.Scan() {
		line := scanner.Bytes()
		if first {
			line = bytes.TrimPrefix(line, utf8BOM)
			first = false
		}
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		out.Write(line)
		out.WriteByte('\n')
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return out.Bytes(), nil
}
