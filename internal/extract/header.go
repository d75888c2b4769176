package extract

import (
	"fmt"
	"strings"
)

// ReconcileHeaders merges a two-line sheet header into one name per column.
// The second line is preferred because wrapped headers put the more specific
// label there; the first line is used when the second is empty, and a
// positional name (col_<i>) when both are.
func ReconcileHeaders(first, second []string) []string {
	width := len(first)
	if len(second) > width {
		width = len(second)
	}

	names := make([]string, width)
	for i := 0; i < width; i++ {
		switch {
		case usableHeader(cellAt(second, i)):
			names[i] = strings.TrimSpace(second[i])
		case usableHeader(cellAt(first, i)):
			names[i] = strings.TrimSpace(first[i])
		default:
			names[i] = fmt.Sprintf("col_%d", i)
		}
	}
	return names
}

// usableHeader rejects blank cells and "Unnamed: N" placeholders left by
// spreadsheet exporters
func usableHeader(cell string) bool {
	trimmed := strings.TrimSpace(cell)
	return trimmed != "" && !strings.Contains(strings.ToLower(trimmed), "unnamed")
}

func cellAt(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return row[col]
}

func rowAt(grid [][]string, row int) []string {
	if row < 0 || row >= len(grid) {
		return nil
	}
	return grid[row]
}
