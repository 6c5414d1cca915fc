// Package importer reads vocabulary lists from spreadsheets and CSV files.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/abhisek/wordiz/internal/vocab"
)

// Config defines the column layout of an import file.
type Config struct {
	FilePath string

	// Column letters, as in a spreadsheet ("A", "B", ...).
	TermColumn        string
	TranslationColumn string
	SentenceColumn    string // optional

	// SheetName is the xlsx sheet to read. Empty means the first sheet.
	SheetName string

	// StartRow is the first data row (1-based).
	StartRow int
}

// DefaultConfig returns the default import layout: term, translation and
// example sentence in columns A to C, with a header row.
func DefaultConfig(path string) Config {
	return Config{
		FilePath:          path,
		TermColumn:        "A",
		TranslationColumn: "B",
		SentenceColumn:    "C",
		StartRow:          2,
	}
}

// Result holds the parsed items and per-row problems.
type Result struct {
	Items     []vocab.Item
	Processed int
	Errors    []string
}

// Read parses the file named in cfg, choosing CSV or xlsx by extension.
func Read(cfg Config) (*Result, error) {
	switch strings.ToLower(filepath.Ext(cfg.FilePath)) {
	case ".csv":
		return readCSVFile(cfg)
	case ".xlsx", ".xlsm":
		return readExcel(cfg)
	}
	return nil, fmt.Errorf("unsupported import file %q: want .csv or .xlsx", cfg.FilePath)
}

func readExcel(cfg Config) (*Result, error) {
	f, err := excelize.OpenFile(cfg.FilePath)
	if err != nil {
		return nil, fmt.Errorf("open spreadsheet: %w", err)
	}
	defer f.Close()

	sheet := cfg.SheetName
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.New("spreadsheet has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read rows of %q: %w", sheet, err)
	}
	return parseRows(rows, cfg), nil
}

func readCSVFile(cfg Config) (*Result, error) {
	file, err := os.Open(cfg.FilePath)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer file.Close()
	return ReadCSV(file, cfg)
}

// ReadCSV parses CSV records from r using cfg's column layout.
func ReadCSV(r io.Reader, cfg Config) (*Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return parseRows(rows, cfg), nil
}

func parseRows(rows [][]string, cfg Config) *Result {
	res := &Result{}
	start := max(cfg.StartRow, 1)
	termCol := columnToIndex(cfg.TermColumn)
	translationCol := columnToIndex(cfg.TranslationColumn)
	sentenceCol := -1
	if cfg.SentenceColumn != "" {
		sentenceCol = columnToIndex(cfg.SentenceColumn)
	}

	for i, row := range rows {
		rowNum := i + 1
		if rowNum < start || blankRow(row) {
			continue
		}
		res.Processed++

		term := cell(row, termCol)
		translation := cell(row, translationCol)
		switch {
		case term == "":
			res.Errors = append(res.Errors, fmt.Sprintf("row %d: term cannot be empty", rowNum))
			continue
		case translation == "":
			res.Errors = append(res.Errors, fmt.Sprintf("row %d: translation cannot be empty", rowNum))
			continue
		}
		res.Items = append(res.Items, vocab.Item{
			Term:            term,
			Translation:     translation,
			ExampleSentence: cell(row, sentenceCol),
		})
	}
	return res
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// columnToIndex converts a column letter to a zero-based index.
func columnToIndex(column string) int {
	column = strings.ToUpper(strings.TrimSpace(column))
	if column == "" {
		return -1
	}
	index := 0
	for i := 0; i < len(column); i++ {
		if column[i] < 'A' || column[i] > 'Z' {
			return -1
		}
		index = index*26 + int(column[i]-'A'+1)
	}
	return index - 1
}
