package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ppiankov/pressflag/internal/model"
	"github.com/ppiankov/pressflag/internal/pipeline"
	"github.com/ppiankov/pressflag/internal/sheet"
	"github.com/ppiankov/pressflag/internal/worker"
)

var (
	concurrency  int
	listFile     string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch [workbook|dir|glob]...",
	Short: "Analyze many production workbooks in parallel",
	Long: `Batch analyzes many workbooks concurrently:
- Accepts files, directories and glob patterns, or a list file (one path per line)
- Each workbook is an independent run with its own rule store snapshot
- A workbook that fails never stops the others
- Writes one report per workbook

Example:
  pressflag batch ./sheets
  pressflag batch 'march/*.xlsx' --concurrency 8 --output-dir ./reports
  pressflag batch --list sheets.txt --format csv,json --history`,
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	// Concurrency flags
	batchCmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of concurrent workers (default from config)")
	batchCmd.Flags().StringVar(&listFile, "list", "", "file listing workbook paths, one per line")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")

	// Shared with analyze
	batchCmd.Flags().StringSliceVar(&formats, "format", nil, "report formats: xlsx, csv, json, md (default from config)")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "", "output directory for reports (default from config)")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable result cache (force fresh analysis)")
	batchCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
	batchCmd.Flags().BoolVar(&recordHistory, "history", false, "record every successful run in the history database")
}

func isWorkbook(path string) bool {
	_, err := sheet.DetectFormat(path)
	return err == nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && listFile == "" {
		return fmt.Errorf("no workbooks given: pass paths or --list")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyRunFlags(cmd, cfg)
	if concurrency > 0 {
		cfg.Concurrency.Workers = concurrency
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	paths, err := collectPaths(args, listFile)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no workbooks found")
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  pressflag Batch Processing\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Workbooks:    %d\n", len(paths))
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", cfg.Concurrency.Workers)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", cfg.Output.Dir)
	fmt.Fprintf(os.Stderr, "  Formats:      %s\n", strings.Join(cfg.Output.Formats, ", "))
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	fmt.Fprintf(os.Stderr, "\n")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, batchTimeout)
	defer cancel()

	p, err := newPipeline(cfg, logger)
	if err != nil {
		return err
	}

	processor := worker.NewBatchProcessor(p, cfg.Concurrency.Workers)
	results := processor.ProcessFiles(ctx, paths)

	successCount := 0
	failureCount := 0
	flaggedCount := 0
	var recorded []*model.Result
	stems := make(map[string]bool)

	for _, res := range results {
		if res.Error != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", res.Path, res.Error)
			continue
		}

		stem := batchReportStem(res.Path, res.Result.Meta, stems)
		if _, err := p.RenderReport(res.Result, cfg.Output.Dir, cfg.Output.Formats, stem); err != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", res.Path, err)
			continue
		}

		successCount++
		flaggedCount += len(res.Result.Flagged)
		recorded = append(recorded, res.Result)

		note := ""
		if res.Result.Cached {
			note = " (cached)"
		}
		fmt.Fprintf(os.Stderr, "✓ %s: %d of %d dies flagged%s\n",
			res.Path, res.Result.Diagnostics.FlaggedRecords, res.Result.Diagnostics.Records, note)
		for _, w := range res.Result.Warnings {
			logger.Warn(w.Message, zap.String("file", res.Path), zap.String("kind", string(w.Kind)))
		}
	}

	if cfg.History.Enabled && len(recorded) > 0 {
		if err := saveHistory(context.Background(), cfg, logger, recorded...); err != nil {
			return err
		}
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d workbooks\n", len(results))
	fmt.Fprintf(os.Stderr, "  Success:   %d\n", successCount)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", failureCount)
	fmt.Fprintf(os.Stderr, "  Flagged:   %d dies\n", flaggedCount)
	fmt.Fprintf(os.Stderr, "  Output:    %s\n", cfg.Output.Dir)
	fmt.Fprintf(os.Stderr, "\n")

	if failureCount > 0 {
		return fmt.Errorf("%d of %d workbooks failed", failureCount, len(results))
	}
	return nil
}

// collectPaths merges workbook arguments with the paths of a list file.
// A workbook named both ways is analyzed once.
func collectPaths(args []string, list string) ([]string, error) {
	paths, err := worker.ExpandPaths(args, isWorkbook)
	if err != nil {
		return nil, err
	}
	if list != "" {
		listed, err := worker.ReadPathsFromFile(list)
		if err != nil {
			return nil, fmt.Errorf("read list: %w", err)
		}
		paths = append(paths, listed...)
	}
	return worker.DedupPaths(paths), nil
}

// batchReportStem names the report of one workbook in a batch. Workbooks
// with the same file name and sheet date are told apart by their parent
// directory, then by a counter. taken records the stems already handed out.
func batchReportStem(path string, meta model.BatchMeta, taken map[string]bool) string {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	stem := sanitizeFilename(base) + "_" + pipeline.ReportStem(meta)

	if taken[strings.ToLower(stem)] {
		parent := filepath.Base(filepath.Dir(path))
		if parent != "." && parent != string(filepath.Separator) {
			stem = sanitizeFilename(parent) + "_" + stem
		}
	}

	candidate := stem
	for i := 2; taken[strings.ToLower(candidate)]; i++ {
		candidate = fmt.Sprintf("%s_%d", stem, i)
	}
	taken[strings.ToLower(candidate)] = true
	return candidate
}

var filenameReplacer = strings.NewReplacer(
	"/", "_",
	"\\", "_",
	":", "_",
	"*", "_",
	"?", "_",
	"\"", "_",
	"<", "_",
	">", "_",
	"|", "_",
	" ", "-",
)

// sanitizeFilename makes a string safe to use as a file name
func sanitizeFilename(s string) string {
	s = filenameReplacer.Replace(s)

	// Limit length
	if len(s) > 100 {
		s = s[:100]
	}

	return s
}
