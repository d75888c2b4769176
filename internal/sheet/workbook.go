package sheet

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Workbook is a read-only collection of named sheets
type Workbook interface {
	// SheetNames returns sheet names in workbook order
	SheetNames() []string

	// Rows returns the cells of a sheet as text. Rows may have different
	// lengths; missing trailing cells are empty.
	Rows(name string) ([][]string, error)

	Close() error
}

// Format identifies a workbook encoding
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatHTML Format = "html"
)

// DetectFormat picks a format from a file extension
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	case ".htm", ".html":
		return FormatHTML, nil
	default:
		return "", fmt.Errorf("unsupported workbook type: %s", filepath.Ext(path))
	}
}

// Open opens a workbook file
func Open(path string) (Workbook, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read workbook: %w", err)
	}
	return OpenBytes(data, format)
}

// OpenBytes decodes a workbook held in memory
func OpenBytes(data []byte, format Format) (Workbook, error) {
	switch format {
	case FormatXLSX:
		return openXLSX(data)
	case FormatHTML:
		return openHTML(data)
	default:
		return nil, fmt.Errorf("unsupported workbook format: %q", format)
	}
}

// NormalizeName folds a sheet name for comparison:
// "PRESS PROD SHEET" becomes "pressprodsheet"
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "")
}

// Find returns the first sheet, in workbook order, whose normalized name is
// one of candidates
func Find(wb Workbook, candidates []string) (string, bool) {
	want := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		want[NormalizeName(c)] = true
	}
	for _, name := range wb.SheetNames() {
		if want[NormalizeName(name)] {
			return name, true
		}
	}
	return "", false
}

// Grid is an in-memory workbook, useful for tests and for callers that
// already hold decoded cells
type Grid struct {
	Names  []string
	Sheets map[string][][]string
}

// NewGrid creates an empty in-memory workbook
func NewGrid() *Grid {
	return &Grid{Sheets: make(map[string][][]string)}
}

// Add appends a sheet
func (g *Grid) Add(name string, rows [][]string) *Grid {
	if _, exists := g.Sheets[name]; !exists {
		g.Names = append(g.Names, name)
	}
	g.Sheets[name] = rows
	return g
}

func (g *Grid) SheetNames() []string {
	return append([]string(nil), g.Names...)
}

func (g *Grid) Rows(name string) ([][]string, error) {
	rows, ok := g.Sheets[name]
	if !ok {
		return nil, fmt.Errorf("sheet %q does not exist", name)
	}
	return rows, nil
}

func (g *Grid) Close() error {
	return nil
}
