package sheet

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/net/html"
)

const exportHTML = `<html><body>
<table id="PressProd">
  <tr><th>Date</th><th colspan="2">Press</th><th>Operator</th></tr>
  <tr><td>2024-03-01</td><td>P1</td><td></td><td> Ravi
  Kumar </td></tr>
  <tr><td>101</td><td>Handle<br>25mm</td><td><table><tr><td>nested</td></tr></table></td></tr>
</table>
<table>
  <caption>Mapping</caption>
  <tr><td>Remarks</td><td>Code</td></tr>
  <tr><td>die polish</td><td>1</td></tr>
</table>
<table data-sheet="Mapping"><tr><td>dup</td></tr></table>
<table><tr><td>untitled</td></tr></table>
</body></html>`

func TestOpenHTML(t *testing.T) {
	wb, err := OpenBytes([]byte(exportHTML), FormatHTML)
	if err != nil {
		t.Fatalf("OpenBytes failed: %v", err)
	}
	defer func() { _ = wb.Close() }()

	expectedNames := []string{"PressProd", "Mapping", "Mapping (2)", "Sheet4"}
	if diff := cmp.Diff(expectedNames, wb.SheetNames()); diff != "" {
		t.Errorf("Sheet names mismatch (-want +got):\n%s", diff)
	}

	rows, err := wb.Rows("PressProd")
	if err != nil {
		t.Fatalf("Rows failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("Expected 3 rows (nested table excluded), got %d: %v", len(rows), rows)
	}
	if diff := cmp.Diff([]string{"Date", "Press", "", "Operator"}, rows[0]); diff != "" {
		t.Errorf("Header row mismatch (-want +got):\n%s", diff)
	}
	if rows[1][3] != "Ravi Kumar" {
		t.Errorf("Expected collapsed whitespace, got %q", rows[1][3])
	}
	if rows[2][1] != "Handle 25mm" {
		t.Errorf("Expected <br> as space, got %q", rows[2][1])
	}

	mapping, err := wb.Rows("Mapping")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([][]string{{"Remarks", "Code"}, {"die polish", "1"}}, mapping); diff != "" {
		t.Errorf("Mapping rows mismatch (-want +got):\n%s", diff)
	}
}

func TestOpenHTML_NoTables(t *testing.T) {
	if _, err := OpenBytes([]byte("<html><body><p>empty</p></body></html>"), FormatHTML); err == nil {
		t.Error("Expected error for html without tables, got nil")
	}
}

func TestOpenHTML_Rowspan(t *testing.T) {
	const doc = `<table id="PressProd">
  <tr><th rowspan="2">DIE NO.</th><th rowspan=2>DIE NAME</th><th colspan="2">OUTPUT</th><th rowspan="3">REMARK</th></tr>
  <tr><th>PROD/HOUR</th><th>RECOVERY %</th></tr>
  <tr><td>101</td><td>Handle</td><td>200</td><td>85</td></tr>
  <tr><td>102</td><td>S.T</td><td>300</td><td>90</td><td>ok</td></tr>
</table>`

	wb, err := OpenBytes([]byte(doc), FormatHTML)
	if err != nil {
		t.Fatalf("OpenBytes failed: %v", err)
	}
	rows, err := wb.Rows("PressProd")
	if err != nil {
		t.Fatalf("Rows failed: %v", err)
	}

	expected := [][]string{
		{"DIE NO.", "DIE NAME", "OUTPUT", "", "REMARK"},
		{"", "", "PROD/HOUR", "RECOVERY %", ""},
		{"101", "Handle", "200", "85", ""},
		{"102", "S.T", "300", "90", "ok"},
	}
	if diff := cmp.Diff(expected, rows); diff != "" {
		t.Errorf("Rows mismatch (-want +got):\n%s", diff)
	}
}

func TestSpanAttr(t *testing.T) {
	tests := []struct {
		value    string
		expected int
	}{
		{"", 1},
		{"2", 2},
		{" 3 ", 3},
		{"0", 1},
		{"-4", 1},
		{"abc", 1},
		{"99999", 1024},
	}

	for _, tt := range tests {
		n := &html.Node{Type: html.ElementNode, Data: "td", Attr: []html.Attribute{{Key: "rowspan", Val: tt.value}}}
		if got := spanAttr(n, "rowspan"); got != tt.expected {
			t.Errorf("spanAttr(%q): expected %d, got %d", tt.value, tt.expected, got)
		}
	}
}
