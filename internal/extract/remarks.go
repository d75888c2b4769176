package extract

import (
	"math"
	"strings"

	"github.com/ppiankov/pressflag/internal/model"
	"github.com/ppiankov/pressflag/internal/rules"
)

// RemarkMapping is the remark-to-code table read from a mapping sheet
type RemarkMapping struct {
	Codes    model.RemarkCodeMap
	StartRow int  // First data row that was read
	Fallback bool // The marker was not found and StartRow is the configured fallback
	Skipped  int  // Data rows dropped for a blank remark, a duplicate or a bad code
}

// BuildRemarkCodeMap reads (remark, code) pairs from columns 0 and 1 of a
// mapping sheet. Data starts below the first row holding a cell equal to
// marker; without one it starts at fallbackRow and the result is marked as
// a fallback. Remarks are folded, the first occurrence of a remark wins,
// and pairs whose code is not an integer are dropped.
func BuildRemarkCodeMap(grid [][]string, marker string, fallbackRow int) RemarkMapping {
	mapping := RemarkMapping{
		Codes:    make(model.RemarkCodeMap),
		StartRow: -1,
	}

	want := strings.TrimSpace(marker)
	for i, row := range grid {
		if want != "" && rowHasCell(row, want) {
			mapping.StartRow = i + 1
			break
		}
	}
	if mapping.StartRow < 0 {
		mapping.StartRow = max(fallbackRow, 0)
		mapping.Fallback = true
	}

	seen := make(map[string]bool)
	for i := mapping.StartRow; i < len(grid); i++ {
		row := grid[i]
		remark := rules.FoldRemark(cellAt(row, 0))
		if remark == "" {
			if !IsBlankRow(row) {
				mapping.Skipped++
			}
			continue
		}
		if seen[remark] {
			mapping.Skipped++
			continue
		}
		seen[remark] = true

		code, ok := ParseNumber(cellAt(row, 1))
		if !ok || code != math.Trunc(code) || math.Abs(code) > math.MaxInt32 {
			mapping.Skipped++
			continue
		}
		mapping.Codes[remark] = int(code)
	}

	return mapping
}

func rowHasCell(row []string, value string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) == value {
			return true
		}
	}
	return false
}
