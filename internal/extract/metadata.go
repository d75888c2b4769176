package extract

import (
	"strings"

	"github.com/ppiankov/pressflag/internal/model"
	"github.com/xuri/excelize/v2"
)

// NotAvailable replaces metadata cells that are absent or empty
const NotAvailable = "N/A"

// ExtractMeta reads the sheet-level metadata cells. It also returns the
// names of the fields that fell back to NotAvailable.
func ExtractMeta(grid [][]string, layout model.LayoutConfig) (model.BatchMeta, []string) {
	row := rowAt(grid, layout.MetadataRow)
	var missing []string

	field := func(name string, col int) string {
		v := strings.TrimSpace(cellAt(row, col))
		if v == "" {
			missing = append(missing, name)
			return NotAvailable
		}
		return v
	}

	meta := model.BatchMeta{
		Date:        field("date", layout.DateCol),
		MachineType: field("machine type", layout.MachineCol),
		Operator:    field("operator", layout.OperatorCol),
		Supervisor:  field("supervisor", layout.SupervisorCol),
	}
	if meta.Date != NotAvailable {
		meta.Date = normalizeDate(meta.Date)
	}
	return meta, missing
}

// normalizeDate drops the time of day. Raw Excel date serials are
// converted to ISO dates first.
func normalizeDate(v string) string {
	if serial, ok := ParseNumber(v); ok && serial > 0 && serial < 2958466 {
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return t.Format("2006-01-02")
		}
	}
	if i := strings.Index(v, " "); i >= 0 {
		return v[:i]
	}
	return v
}
