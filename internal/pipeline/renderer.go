package pipeline

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ppiankov/pressflag/internal/model"
)

// ReportSheet is the sheet name of the exported xlsx report
const ReportSheet = "Flagged_Dies"

// Renderer writes analysis results in the supported report formats
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// ReportStem returns the default report file name without extension
func ReportStem(meta model.BatchMeta) string {
	date := strings.ReplaceAll(meta.Date, "/", "-")
	date = strings.ReplaceAll(date, "\\", "-")
	return "flagged_dies_report_" + strings.Join(strings.Fields(date), "_")
}

// RenderXLSX writes the flagged rows to an Excel workbook
func (r *Renderer) RenderXLSX(result *model.Result, path string) (err error) {
	f := excelize.NewFile()
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close workbook: %w", closeErr)
		}
	}()

	if err := f.SetSheetName(f.GetSheetName(0), ReportSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	sw, err := f.NewStreamWriter(ReportSheet)
	if err != nil {
		return fmt.Errorf("create stream writer: %w", err)
	}

	header := make([]interface{}, len(model.ReportColumns))
	for i, col := range model.ReportColumns {
		header[i] = col
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, row := range result.Flagged {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []interface{}{
			row.Date,
			row.MachineType,
			row.DieNumber,
			row.DieName,
			row.FlagReason,
			row.Operator,
			row.Supervisor,
			row.Remark,
			row.DepartmentName,
		}
		if err := sw.SetRow(cell, values); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flush rows: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

// RenderCSV writes the flagged rows as CSV
func (r *Renderer) RenderCSV(result *model.Result, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := r.WriteCSV(f, result); err != nil {
		return err
	}
	return f.Close()
}

// WriteCSV writes the flagged rows as CSV to w
func (r *Renderer) WriteCSV(w io.Writer, result *model.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(model.ReportColumns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range result.Flagged {
		if err := cw.Write(row.Cells()); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// RenderJSON writes the full result, including every record and warning
func (r *Renderer) RenderJSON(result *model.Result, path string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return nil
}

// RenderMarkdown writes a human-readable report
func (r *Renderer) RenderMarkdown(result *model.Result, path string) error {
	var b strings.Builder
	r.WriteMarkdown(&b, result)
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("write markdown: %w", err)
	}
	return nil
}

// WriteMarkdown writes the markdown report to b
func (r *Renderer) WriteMarkdown(b *strings.Builder, result *model.Result) {
	meta := result.Meta
	fmt.Fprintf(b, "# Flagged Dies Report\n\n")
	fmt.Fprintf(b, "| Date | Press | Operator | Supervisor |\n")
	fmt.Fprintf(b, "|---|---|---|---|\n")
	fmt.Fprintf(b, "| %s | %s | %s | %s |\n\n", mdEscape(meta.Date), mdEscape(meta.MachineType), mdEscape(meta.Operator), mdEscape(meta.Supervisor))

	d := result.Diagnostics
	fmt.Fprintf(b, "**Total flagged dies:** %d of %d records", d.FlaggedRecords, d.Records)
	if d.RejectedRows > 0 {
		fmt.Fprintf(b, " (%d rows skipped for a missing or invalid die number or name)", d.RejectedRows)
	}
	fmt.Fprintf(b, "\n\n")

	if len(result.Flagged) == 0 {
		fmt.Fprintf(b, "No dies were flagged based on the provided rules.\n")
	} else {
		fmt.Fprintf(b, "| %s |\n", strings.Join(model.ReportColumns, " | "))
		fmt.Fprintf(b, "|%s\n", strings.Repeat("---|", len(model.ReportColumns)))
		for _, row := range result.Flagged {
			cells := row.Cells()
			for i := range cells {
				cells[i] = mdEscape(cells[i])
			}
			fmt.Fprintf(b, "| %s |\n", strings.Join(cells, " | "))
		}
	}

	if len(result.Warnings) > 0 {
		fmt.Fprintf(b, "\n## Warnings\n\n")
		for _, w := range result.Warnings {
			fmt.Fprintf(b, "- `%s` %s\n", w.Kind, w.Message)
		}
	}

	if r.includeFooter {
		fmt.Fprintf(b, "\n---\n\n")
		fmt.Fprintf(b, "_Generated by pressflag from %s (sheet %q), run %s._\n",
			filepath.Base(result.Source), result.SheetName, result.RunID)
	}
}

func mdEscape(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", " ")
}

// RenderSummary prints a short summary of a result
func (r *Renderer) RenderSummary(w io.Writer, result *model.Result) {
	d := result.Diagnostics
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(w, "  Flagged Dies Report\n")
	fmt.Fprintf(w, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "  Sheet:       %s\n", result.SheetName)
	fmt.Fprintf(w, "  Date:        %s\n", result.Meta.Date)
	fmt.Fprintf(w, "  Press:       %s\n", result.Meta.MachineType)
	fmt.Fprintf(w, "  Operator:    %s\n", result.Meta.Operator)
	fmt.Fprintf(w, "  Supervisor:  %s\n", result.Meta.Supervisor)
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "  Records:     %d (%d rows skipped)\n", d.Records, d.RejectedRows)
	fmt.Fprintf(w, "  Flagged:     %d\n", d.FlaggedRecords)
	if d.UnclassifiedRows > 0 {
		fmt.Fprintf(w, "  No family:   %d\n", d.UnclassifiedRows)
	}
	for _, warn := range result.Warnings {
		fmt.Fprintf(w, "  ⚠️  %s\n", warn.Message)
	}
	fmt.Fprintf(w, "\n")
}

// RenderReport writes the result in each requested format into dir and
// returns the written paths
func (p *Pipeline) RenderReport(result *model.Result, dir string, formats []string, stem string) ([]string, error) {
	if stem == "" {
		stem = ReportStem(result.Meta)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	var written []string
	for _, format := range formats {
		format = strings.ToLower(strings.TrimSpace(format))
		path := filepath.Join(dir, stem+"."+format)

		var err error
		switch format {
		case "xlsx":
			err = p.renderer.RenderXLSX(result, path)
		case "csv":
			err = p.renderer.RenderCSV(result, path)
		case "json":
			err = p.renderer.RenderJSON(result, path)
		case "md":
			err = p.renderer.RenderMarkdown(result, path)
		default:
			err = fmt.Errorf("unknown report format %q", format)
		}
		if err != nil {
			return written, fmt.Errorf("render %s: %w", format, err)
		}
		written = append(written, path)
	}

	return written, nil
}

// Renderer returns the pipeline's renderer
func (p *Pipeline) Renderer() *Renderer {
	return p.renderer
}
