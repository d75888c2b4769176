package extract

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ppiankov/pressflag/internal/model"
)

func TestBuildRemarkCodeMap_Marker(t *testing.T) {
	grid := [][]string{
		{"Department codes"},
		{"1", "Tool Room"},
		{"Remarks", "Code"},
		{" Die Polish ", "1"},
		{"Operator late", "2.0"},
		{"die polish", "3"},
		{"Power cut", "five"},
		{"", "4"},
		{"", ""},
		{"Breakdown", "5"},
	}

	m := BuildRemarkCodeMap(grid, "Remarks", 4)

	if m.Fallback {
		t.Error("Expected marker to be found")
	}
	if m.StartRow != 3 {
		t.Errorf("Expected start row 3, got %d", m.StartRow)
	}
	expected := model.RemarkCodeMap{
		"die polish":    1,
		"operator late": 2,
		"breakdown":     5,
	}
	if diff := cmp.Diff(expected, m.Codes); diff != "" {
		t.Errorf("Codes mismatch (-want +got):\n%s", diff)
	}
	// duplicate, bad code, blank remark with a code
	if m.Skipped != 3 {
		t.Errorf("Expected 3 skipped rows, got %d", m.Skipped)
	}
}

func TestBuildRemarkCodeMap_Fallback(t *testing.T) {
	grid := [][]string{
		{"title"},
		{"ignored", "1"},
		{"ignored too", "1"},
		{"still ignored", "1"},
		{"absent", "0"},
		{"late", "2"},
	}

	m := BuildRemarkCodeMap(grid, "Remarks", 4)

	if !m.Fallback {
		t.Error("Expected fallback when marker is missing")
	}
	if m.StartRow != 4 {
		t.Errorf("Expected start row 4, got %d", m.StartRow)
	}
	expected := model.RemarkCodeMap{"absent": 0, "late": 2}
	if diff := cmp.Diff(expected, m.Codes); diff != "" {
		t.Errorf("Codes mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildRemarkCodeMap_MarkerMustMatchWholeCell(t *testing.T) {
	grid := [][]string{
		{"Remarks about this sheet"},
		{"late", "2"},
	}

	m := BuildRemarkCodeMap(grid, "Remarks", 0)

	if !m.Fallback || m.StartRow != 0 {
		t.Errorf("Expected fallback to row 0, got fallback=%v start=%d", m.Fallback, m.StartRow)
	}
	if m.Codes["late"] != 2 {
		t.Errorf("Expected late=2, got %v", m.Codes)
	}
}

func TestBuildRemarkCodeMap_Empty(t *testing.T) {
	m := BuildRemarkCodeMap(nil, "Remarks", -3)

	if m.StartRow != 0 {
		t.Errorf("Expected negative fallback to clamp to 0, got %d", m.StartRow)
	}
	if len(m.Codes) != 0 {
		t.Errorf("Expected empty map, got %v", m.Codes)
	}
}
