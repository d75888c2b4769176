package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ppiankov/pressflag/internal/history"
)

var historyLimit int

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse recorded analysis runs",
	Long: `Runs analyzed with --history (or history.enabled: true) are kept in a
sqlite database (history.path). These commands read it back.`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent runs, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		return withHistory(func(ctx context.Context, store *history.Store) error {
			runs, err := store.List(ctx, historyLimit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}

			fmt.Fprintf(out, "%-36s  %-20s  %-12s  %-10s  %7s  %7s\n", "RUN", "ANALYZED", "SHEET DATE", "PRESS", "RECORDS", "FLAGGED")
			for _, run := range runs {
				fmt.Fprintf(out, "%-36s  %-20s  %-12s  %-10s  %7d  %7d\n",
					run.RunID, run.AnalyzedAt.Format("2006-01-02 15:04:05"), run.Meta.Date,
					run.Meta.MachineType, run.Records, run.Flagged)
			}
			return nil
		})
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show one run and its flagged dies",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		return withHistory(func(ctx context.Context, store *history.Store) error {
			run, flagged, err := store.Get(ctx, args[0])
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "Run:         %s\n", run.RunID)
			fmt.Fprintf(out, "Source:      %s (sheet %q)\n", run.Source, run.SheetName)
			fmt.Fprintf(out, "Analyzed:    %s\n", run.AnalyzedAt.Format("2006-01-02 15:04:05"))
			fmt.Fprintf(out, "Date:        %s\n", run.Meta.Date)
			fmt.Fprintf(out, "Press:       %s\n", run.Meta.MachineType)
			fmt.Fprintf(out, "Operator:    %s\n", run.Meta.Operator)
			fmt.Fprintf(out, "Supervisor:  %s\n", run.Meta.Supervisor)
			fmt.Fprintf(out, "Records:     %d (%d rows skipped, %d warnings)\n", run.Records, run.RejectedRows, run.Warnings)
			fmt.Fprintf(out, "Flagged:     %d\n\n", run.Flagged)

			for _, row := range flagged {
				dept := row.DepartmentName
				if dept == "" {
					dept = "-"
				}
				fmt.Fprintf(out, "  %6d  %-30s  %s  [%s]\n", row.DieNumber, row.DieName, row.FlagReason, dept)
			}
			return nil
		})
	},
}

var historyDieCmd = &cobra.Command{
	Use:   "die <number>",
	Short: "Count how often a die was flagged across recorded runs",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		die, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid die number %q", args[0])
		}
		return withHistory(func(ctx context.Context, store *history.Store) error {
			n, err := store.DieHistory(ctx, die)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Die %d was flagged in %d recorded run(s)\n", die, n)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyDieCmd)

	historyListCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum number of runs to list")
}

func withHistory(fn func(ctx context.Context, store *history.Store) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := context.Background()
	store, err := history.Open(ctx, cfg.History.Path)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	return fn(ctx, store)
}
