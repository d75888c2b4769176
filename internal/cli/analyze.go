package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ppiankov/pressflag/internal/history"
	"github.com/ppiankov/pressflag/internal/model"
)

var (
	formats       []string
	outputDir     string
	reportName    string
	timeout       time.Duration
	noCache       bool
	noFooter      bool
	recordHistory bool
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <workbook>",
	Short: "Analyze one production workbook and write the flagged dies report",
	Long: `Analyze reads a press production workbook (.xlsx, .xlsm, or an HTML
export) and:
- Locates the production sheet and the remark mapping sheet
- Reads the sheet date, press, operator and supervisor
- Classifies every die into a profile family
- Checks production rate, recovery and speed against the press thresholds
- Resolves each remark to the responsible department
- Writes the flagged dies report

Example:
  pressflag analyze week12.xlsx
  pressflag analyze week12.xlsx --format xlsx,csv --output-dir ./reports
  pressflag analyze export.htm --rules plant-rules.yaml --history`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	// Output flags
	analyzeCmd.Flags().StringSliceVar(&formats, "format", nil, "report formats: xlsx, csv, json, md (default from config)")
	analyzeCmd.Flags().StringVar(&outputDir, "output-dir", "", "output directory for reports (default from config)")
	analyzeCmd.Flags().StringVar(&reportName, "name", "", "report file name without extension (default: flagged_dies_report_<date>)")
	analyzeCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")

	// Run flags
	analyzeCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall analysis timeout")
	analyzeCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable result cache (force fresh analysis)")
	analyzeCmd.Flags().BoolVar(&recordHistory, "history", false, "record the run in the history database")
}

// applyRunFlags overrides config values with flags the user set
func applyRunFlags(cmd *cobra.Command, cfg *model.Config) {
	flags := cmd.Flags()
	if flags.Changed("format") {
		cfg.Output.Formats = formats
	}
	if flags.Changed("output-dir") {
		cfg.Output.Dir = outputDir
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	if noFooter {
		cfg.Output.IncludeFooter = false
	}
	if recordHistory {
		cfg.History.Enabled = true
	}
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	path := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyRunFlags(cmd, cfg)

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	p, err := newPipeline(cfg, logger)
	if err != nil {
		return err
	}

	logger.Debug("analyzing workbook",
		zap.String("file", path),
		zap.Bool("cache", cfg.Cache.Enabled),
		zap.Strings("formats", cfg.Output.Formats))

	result, err := p.AnalyzeFile(ctx, path)
	if err != nil {
		var se *model.StructuralError
		if errors.As(err, &se) {
			return fmt.Errorf("cannot analyze %s: %w", path, err)
		}
		return fmt.Errorf("analysis failed: %w", err)
	}
	if result.Cached {
		logger.Info("using cached analysis", zap.String("file", path))
	}

	p.Renderer().RenderSummary(os.Stderr, result)

	written, err := p.RenderReport(result, cfg.Output.Dir, cfg.Output.Formats, reportName)
	for _, w := range written {
		fmt.Fprintf(os.Stderr, "✓ Wrote %s\n", w)
	}
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	if cfg.History.Enabled {
		if err := saveHistory(ctx, cfg, logger, result); err != nil {
			return err
		}
	}

	return nil
}

// saveHistory records results in the history database
func saveHistory(ctx context.Context, cfg *model.Config, logger *zap.Logger, results ...*model.Result) error {
	store, err := history.Open(ctx, cfg.History.Path)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	for _, result := range results {
		if err := store.Save(ctx, result); err != nil {
			return fmt.Errorf("record history: %w", err)
		}
		logger.Debug("recorded run", zap.String("run_id", result.RunID), zap.String("db", cfg.History.Path))
	}
	return nil
}
