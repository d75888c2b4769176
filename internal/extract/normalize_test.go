package extract

import (
	"errors"
	"testing"

	"github.com/ppiankov/pressflag/internal/model"
)

var testHeaders = []string{"DATE", "DIE NO.", "DIE NAME", "PROD/HOUR", "RECOVERY %", "SPEED(MM)", "REMARK"}

func TestNewNormalizer_MissingColumn(t *testing.T) {
	headers := []string{"DATE", "DIE NO.", "col_2", "PROD/HOUR", "RECOVERY %", "Speed(mm)"}

	_, err := NewNormalizer(model.DefaultConfig().Columns, headers)
	if err == nil {
		t.Fatal("Expected error for missing die name column, got nil")
	}

	var se *model.StructuralError
	if !errors.As(err, &se) {
		t.Fatalf("Expected StructuralError, got %T", err)
	}
	if se.Column != "DIE NAME" {
		t.Errorf("Expected missing column DIE NAME, got %q", se.Column)
	}
	if !errors.Is(err, model.ErrMissingColumn) {
		t.Error("Expected error to wrap ErrMissingColumn")
	}
}

func TestNewNormalizer_RemarkOptional(t *testing.T) {
	headers := testHeaders[:6]
	n, err := NewNormalizer(model.DefaultConfig().Columns, headers)
	if err != nil {
		t.Fatalf("NewNormalizer failed: %v", err)
	}

	rec, ok := n.Normalize(8, []string{"", "101", "Handle", "200", "85", "4"})
	if !ok {
		t.Fatal("Expected row to normalize")
	}
	if rec.Remark != "" {
		t.Errorf("Expected empty remark, got %q", rec.Remark)
	}
}

func TestFindColumn(t *testing.T) {
	headers := []string{"die no.", " DIE NO. ", "Speed(mm)"}

	tests := []struct {
		label    string
		expected int
	}{
		{"DIE NO.", 0},
		{"speed(MM)", 2},
		{"  Speed(mm)  ", 2},
		{"REMARK", -1},
		{"", -1},
	}
	for _, tt := range tests {
		if got := FindColumn(headers, tt.label); got != tt.expected {
			t.Errorf("FindColumn(%q): expected %d, got %d", tt.label, tt.expected, got)
		}
	}
}

func TestNormalize(t *testing.T) {
	n, err := NewNormalizer(model.DefaultConfig().Columns, testHeaders)
	if err != nil {
		t.Fatalf("NewNormalizer failed: %v", err)
	}

	tests := []struct {
		name  string
		cells []string
		ok    bool
		check func(t *testing.T, rec *model.Record)
	}{
		{
			name:  "complete row",
			cells: []string{"2024-03-01", "101", " Handle 25mm ", "200", "85.5", "4.0", " die polish "},
			ok:    true,
			check: func(t *testing.T, rec *model.Record) {
				if rec.DieNumber != 101 || rec.DieName != "Handle 25mm" || rec.Remark != "die polish" {
					t.Errorf("Unexpected record: %+v", rec)
				}
				if rec.RecoveryPercent == nil || *rec.RecoveryPercent != 85.5 {
					t.Errorf("Expected recovery 85.5, got %v", rec.RecoveryPercent)
				}
				if rec.Row != 9 {
					t.Errorf("Expected row 9, got %d", rec.Row)
				}
			},
		},
		{
			name:  "float die number",
			cells: []string{"", "101.0", "Handle", "", "", ""},
			ok:    true,
			check: func(t *testing.T, rec *model.Record) {
				if rec.DieNumber != 101 {
					t.Errorf("Expected die 101, got %d", rec.DieNumber)
				}
				if rec.ProductionRate != nil || rec.RecoveryPercent != nil || rec.Speed != nil {
					t.Error("Expected nil metrics for empty cells")
				}
			},
		},
		{
			name:  "non-numeric metric becomes nil",
			cells: []string{"", "7", "Square Tube", "n/a", "80", "fast"},
			ok:    true,
			check: func(t *testing.T, rec *model.Record) {
				if rec.ProductionRate != nil || rec.Speed != nil {
					t.Error("Expected nil production rate and speed")
				}
				if rec.RecoveryPercent == nil || *rec.RecoveryPercent != 80 {
					t.Errorf("Expected recovery 80, got %v", rec.RecoveryPercent)
				}
			},
		},
		{name: "missing die number", cells: []string{"", "", "Handle", "1", "1", "1"}, ok: false},
		{name: "text die number", cells: []string{"", "D-101", "Handle", "1", "1", "1"}, ok: false},
		{name: "fractional die number", cells: []string{"", "101.5", "Handle", "1", "1", "1"}, ok: false},
		{name: "blank die name", cells: []string{"", "101", "   ", "1", "1", "1"}, ok: false},
		{name: "short row", cells: []string{"", "101"}, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, ok := n.Normalize(9, tt.cells)
			if ok != tt.ok {
				t.Fatalf("Expected ok=%v, got %v", tt.ok, ok)
			}
			if tt.check != nil {
				tt.check(t, rec)
			}
		})
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		cell     string
		expected float64
		ok       bool
	}{
		{"42", 42, true},
		{" 4.75 ", 4.75, true},
		{"-3", -3, true},
		{"1e3", 1000, true},
		{"", 0, false},
		{"abc", 0, false},
		{"NaN", 0, false},
		{"Inf", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseNumber(tt.cell)
		if ok != tt.ok || got != tt.expected {
			t.Errorf("ParseNumber(%q): expected (%v, %v), got (%v, %v)", tt.cell, tt.expected, tt.ok, got, ok)
		}
	}
}

func TestIsBlankRow(t *testing.T) {
	if !IsBlankRow(nil) {
		t.Error("Expected nil row to be blank")
	}
	if !IsBlankRow([]string{"", "  ", "\t"}) {
		t.Error("Expected whitespace row to be blank")
	}
	if IsBlankRow([]string{"", "x"}) {
		t.Error("Expected row with content not to be blank")
	}
}
