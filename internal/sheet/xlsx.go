package sheet

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// xlsxWorkbook reads Office Open XML workbooks
type xlsxWorkbook struct {
	file *excelize.File
}

func openXLSX(data []byte) (Workbook, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	return &xlsxWorkbook{file: f}, nil
}

func (w *xlsxWorkbook) SheetNames() []string {
	return w.file.GetSheetList()
}

// Rows returns raw cell values so that number formats (thousands
// separators, percent styles) never leak into numeric parsing
func (w *xlsxWorkbook) Rows(name string) ([][]string, error) {
	rows, err := w.file.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", name, err)
	}
	return rows, nil
}

func (w *xlsxWorkbook) Close() error {
	return w.file.Close()
}
