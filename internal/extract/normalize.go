package extract

import (
	"math"
	"strconv"
	"strings"

	"github.com/ppiankov/pressflag/internal/model"
)

// Normalizer turns raw data rows into records
type Normalizer struct {
	dieNumber       int
	dieName         int
	productionRate  int
	recoveryPercent int
	speed           int
	remark          int // -1 when the sheet has no remark column
}

// NewNormalizer locates the required columns in the reconciled headers.
// A missing required column is a structural error for the whole sheet.
func NewNormalizer(columns model.ColumnsConfig, headers []string) (*Normalizer, error) {
	n := &Normalizer{}

	required := []struct {
		label string
		dst   *int
	}{
		{columns.DieNumber, &n.dieNumber},
		{columns.DieName, &n.dieName},
		{columns.ProductionRate, &n.productionRate},
		{columns.RecoveryPercent, &n.recoveryPercent},
		{columns.Speed, &n.speed},
	}
	for _, col := range required {
		idx := FindColumn(headers, col.label)
		if idx < 0 {
			return nil, &model.StructuralError{
				Reason: model.ErrMissingColumn,
				Column: col.label,
			}
		}
		*col.dst = idx
	}

	n.remark = FindColumn(headers, columns.Remark)
	return n, nil
}

// FindColumn returns the index of the first header equal to label, ignoring
// case and surrounding space, or -1
func FindColumn(headers []string, label string) int {
	want := strings.TrimSpace(label)
	if want == "" {
		return -1
	}
	for i, h := range headers {
		if strings.EqualFold(strings.TrimSpace(h), want) {
			return i
		}
	}
	return -1
}

// Normalize converts one data row. It returns false when the row has no
// usable die number or die name. Unparseable metrics become nil.
func (n *Normalizer) Normalize(rowIndex int, cells []string) (*model.Record, bool) {
	dieNumber, ok := ParseNumber(cellAt(cells, n.dieNumber))
	if !ok || dieNumber != math.Trunc(dieNumber) || math.Abs(dieNumber) > 1<<53 {
		return nil, false
	}

	dieName := strings.TrimSpace(cellAt(cells, n.dieName))
	if dieName == "" {
		return nil, false
	}

	rec := &model.Record{
		Row:             rowIndex,
		DieNumber:       int64(dieNumber),
		DieName:         dieName,
		ProductionRate:  parseMetric(cellAt(cells, n.productionRate)),
		RecoveryPercent: parseMetric(cellAt(cells, n.recoveryPercent)),
		Speed:           parseMetric(cellAt(cells, n.speed)),
	}
	if n.remark >= 0 {
		rec.Remark = strings.TrimSpace(cellAt(cells, n.remark))
	}
	return rec, true
}

func parseMetric(cell string) *float64 {
	v, ok := ParseNumber(cell)
	if !ok {
		return nil
	}
	return &v
}

// ParseNumber parses a cell as a finite number
func ParseNumber(cell string) (float64, bool) {
	s := strings.TrimSpace(cell)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// IsBlankRow reports whether every cell of a row is empty
func IsBlankRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
