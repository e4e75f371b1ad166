package quiz

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ImportConfig controls how a question sheet is read.
//
// Columns are fixed: id, category, difficulty, prompt, correct answer, then
// one or more wrong answers. The correct answer is stored first; sessions
// shuffle choices anyway.
type ImportConfig struct {
	FilePath  string
	SheetName string // empty means the first sheet
	StartRow  int    // 1-based; rows before it are headers
}

// DefaultImportConfig reads the first sheet and skips one header row.
func DefaultImportConfig(path string) ImportConfig {
	return ImportConfig{FilePath: path, StartRow: 2}
}

// ImportResult is the outcome of reading a question sheet.
type ImportResult struct {
	Categories map[string][]Question
	Processed  int
	Skipped    int
	Errors     []string
}

// CategoryIDs returns the imported category IDs, sorted.
func (r *ImportResult) CategoryIDs() []string {
	ids := make([]string, 0, len(r.Categories))
	for id := range r.Categories {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ImportXLSX reads questions from an Excel workbook. Bad rows are reported
// in ImportResult.Errors and skipped; only a failure to read the workbook is
// returned as an error.
func ImportXLSX(cfg ImportConfig) (*ImportResult, error) {
	f, err := excelize.OpenFile(cfg.FilePath)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := cfg.SheetName
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook %s has no sheets", cfg.FilePath)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}

	result := &ImportResult{Categories: make(map[string][]Question)}
	seen := make(map[string]bool)
	for i, row := range rows {
		if i < cfg.StartRow-1 {
			continue
		}
		if blankRow(row) {
			continue
		}
		result.Processed++

		q, err := parseRow(row)
		if err == nil && seen[q.ID] {
			err = fmt.Errorf("duplicate question id %s", q.ID)
		}
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", i+1, err))
			continue
		}
		seen[q.ID] = true
		result.Categories[q.CategoryID] = append(result.Categories[q.CategoryID], q)
	}
	return result, nil
}

func parseRow(row []string) (Question, error) {
	cells := make([]string, len(row))
	for i, c := range row {
		cells[i] = strings.TrimSpace(c)
	}
	if len(cells) < 6 {
		return Question{}, fmt.Errorf("need at least 6 columns, got %d", len(cells))
	}

	d, err := ParseDifficulty(cells[2])
	if err != nil {
		return Question{}, err
	}
	if !validCategoryID(cells[1]) {
		return Question{}, fmt.Errorf("invalid category id %q", cells[1])
	}

	var choices []string
	for _, c := range cells[4:] {
		if c != "" {
			choices = append(choices, c)
		}
	}

	q := Question{
		ID:           cells[0],
		CategoryID:   cells[1],
		Difficulty:   d,
		Prompt:       cells[3],
		Choices:      choices,
		CorrectIndex: 0,
	}
	if cells[4] == "" {
		return Question{}, fmt.Errorf("question %s: empty correct answer", q.ID)
	}
	if err := q.Validate(); err != nil {
		return Question{}, err
	}
	return q, nil
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// WriteCategory writes qs as <dir>/<categoryID>.json in bank format.
func WriteCategory(dir, categoryID string, qs []Question) (string, error) {
	if !validCategoryID(categoryID) {
		return "", fmt.Errorf("invalid category id %q", categoryID)
	}
	raw, err := json.MarshalIndent(qs, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode %s: %w", categoryID, err)
	}
	// Reject anything the bank would refuse to load.
	if _, err := ParseCategory(categoryID, raw); err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}
	path := filepath.Join(dir, categoryID+".json")
	if err := os.WriteFile(path, append(raw, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

// WriteManifest creates <dir>/manifest.json listing categoryIDs, titled by
// their IDs, unless a manifest already exists. It reports whether a file
// was written.
func WriteManifest(dir string, categoryIDs []string) (bool, error) {
	path := filepath.Join(dir, manifestFile)
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("stat %s: %w", path, err)
	}

	m := Manifest{Version: SupportedMajor + ".0.0", Categories: make([]Category, 0, len(categoryIDs))}
	for _, id := range categoryIDs {
		m.Categories = append(m.Categories, Category{ID: id, Title: id})
	}
	raw, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return false, fmt.Errorf("encode manifest: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return false, fmt.Errorf("create %s: %w", dir, err)
	}
	if err := os.WriteFile(path, append(raw, '\n'), 0o644); err != nil {
		return false, fmt.Errorf("write %s: %w", path, err)
	}
	return true, nil
}
