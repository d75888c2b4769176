// Demo program that flags dies in a built-in production sheet.
// Shows classification, threshold checks and remark attribution working
// without a workbook on disk.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/pressflag/internal/model"
	"github.com/ppiankov/pressflag/internal/pipeline"
	"github.com/ppiankov/pressflag/internal/sheet"
)

func sampleSheet(machine string) [][]string {
	meta := make([]string, 12)
	meta[1] = "2024-03-01 00:00:00"
	meta[2] = machine
	meta[3] = "Ravi"
	meta[11] = "Anil"

	return [][]string{
		{"PRESS PRODUCTION SHEET"},
		{},
		{},
		{},
		meta,
		{"", "DIE"},
		{"DATE", "DIE NO.", "DIE NAME", "PROD/HOUR", "RECOVERY %", "Speed(mm)", "REMARK"},
		{},
		{"", "101", "Handle 25mm", "200", "85", "4.0", "die polish"},
		{"", "102", "S.T 40x40", "300", "90", "6", ""},
		{"", "103", "Curtain Wall Mullion", "150", "80", "3.5", "power cut"},
		{"", "104", "Glass Meeting", "100", "70", "3", "absent"},
		{"", "105", "Mystery profile", "1", "1", "1", ""},
	}
}

func main() {
	fmt.Println("=== Die Flagging Demo ===")
	fmt.Println()

	cfg := model.DefaultConfig()
	cfg.Cache.Enabled = false

	p, err := pipeline.NewPipeline(cfg, nil, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	mapping := [][]string{
		{"Remarks", "Code"},
		{"die polish", "1"},
		{"power cut", "5"},
	}

	for _, machine := range []string{"P1", "P2"} {
		fmt.Printf("Press: %s\n", machine)
		fmt.Println(strings.Repeat("-", 60))

		wb := sheet.NewGrid().
			Add("PressProd", sampleSheet(machine)).
			Add("Mapping", mapping)

		result, err := p.AnalyzeWorkbook(wb, "demo")
		if err != nil {
			fmt.Printf("  Analysis error: %v\n\n", err)
			continue
		}

		if len(result.Flagged) == 0 {
			fmt.Println("  ✓ No dies flagged")
		}
		for _, row := range result.Flagged {
			fmt.Printf("  ⚠️  Die %d (%s)\n", row.DieNumber, row.DieName)
			fmt.Printf("     - Reason: %s\n", row.FlagReason)
			if row.Remark != "" {
				fmt.Printf("     - Remark: %s -> %s\n", row.Remark, orNone(row.DepartmentName))
			}
		}
		for _, w := range result.Warnings {
			fmt.Printf("  note: %s\n", w.Message)
		}
		fmt.Printf("\n  %d of %d records flagged\n\n", result.Diagnostics.FlaggedRecords, result.Diagnostics.Records)
	}

	fmt.Println("=== Demo Complete ===")
}

func orNone(s string) string {
	if s == "" {
		return "(no department)"
	}
	return s
}
