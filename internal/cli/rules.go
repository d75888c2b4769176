package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/pressflag/internal/model"
	"github.com/ppiankov/pressflag/internal/rules"
)

var (
	rulesFormat string
	rulesForce  bool
)

// rulesCmd represents the rules command
var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Inspect and manage the rule store",
	Long: `The rule store holds the per-press threshold tables, the die name
keyword table and the department names.

Without --rules the built-in store is used. A YAML store may replace any
of its sections; sections it leaves out keep the built-in values.`,
}

var rulesShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective rule store",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		store, err := loadRuleStore()
		if err != nil {
			return err
		}

		switch strings.ToLower(rulesFormat) {
		case "yaml", "yml":
			data, err := yaml.Marshal(store)
			if err != nil {
				return fmt.Errorf("error marshaling rules: %w", err)
			}
			fmt.Fprint(out, string(data))
		case "json":
			data, err := json.MarshalIndent(store, "", "  ")
			if err != nil {
				return fmt.Errorf("error marshaling rules: %w", err)
			}
			fmt.Fprintln(out, string(data))
		case "table":
			printRuleTables(out, store)
		default:
			return fmt.Errorf("unknown format %q (use yaml, json or table)", rulesFormat)
		}
		return nil
	},
}

var rulesInitCmd = &cobra.Command{
	Use:   "init <path>",
	Short: "Write the built-in rule store to a YAML file for editing",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		path := args[0]
		if _, err := os.Stat(path); err == nil && !rulesForce {
			return fmt.Errorf("rules file already exists: %s (use --force to overwrite)", path)
		}
		if err := rules.SaveStore(rules.DefaultStore(), path); err != nil {
			return err
		}
		fmt.Fprintf(out, "✓ Wrote built-in rules to %s\n", path)
		fmt.Fprintf(out, "\nTo use them:\n")
		fmt.Fprintf(out, "  pressflag analyze <workbook> --rules %s\n", path)
		fmt.Fprintf(out, "\n")
		return nil
	},
}

var rulesCheckCmd = &cobra.Command{
	Use:   "check [path]",
	Short: "Validate a rule store and report keyword and rule table gaps",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		var store *model.RuleStore
		var err error
		if len(args) == 1 {
			store, err = rules.LoadStore(args[0])
		} else {
			store, err = loadRuleStore()
		}
		if err != nil {
			return fmt.Errorf("invalid rules: %w", err)
		}

		fmt.Fprintf(out, "✓ Rule store is valid\n\n")
		printAudit(out, rules.Audit(store))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rulesCmd)
	rulesCmd.AddCommand(rulesShowCmd)
	rulesCmd.AddCommand(rulesInitCmd)
	rulesCmd.AddCommand(rulesCheckCmd)

	rulesShowCmd.Flags().StringVar(&rulesFormat, "format", "yaml", "output format: yaml, json or table")
	rulesInitCmd.Flags().BoolVar(&rulesForce, "force", false, "overwrite an existing file")
}

func loadRuleStore() (*model.RuleStore, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return rules.LoadStore(cfg.Rules.File)
}

func printRuleTables(out io.Writer, store *model.RuleStore) {
	machines := []struct {
		label string
		rules model.MachineRules
	}{
		{"Machine type 1", store.MachineType1},
		{"Machine type 2", store.MachineType2},
	}

	for _, m := range machines {
		fmt.Fprintf(out, "%s (token %q)\n", m.label, m.rules.Token)
		fmt.Fprintf(out, "  %-55s %10s %10s %8s\n", "Family", "Prod/hour", "Recovery", "Speed")

		families := make([]string, 0, len(m.rules.Rules))
		for family := range m.rules.Rules {
			families = append(families, family)
		}
		sort.Strings(families)

		for _, family := range families {
			rs := m.rules.Rules[family]
			fmt.Fprintf(out, "  %-55s %10s %10s %8s\n", family,
				limit(rs.ProductionRate), limit(rs.RecoveryPercent), limit(rs.Speed))
		}
		fmt.Fprintln(out)
	}

	fmt.Fprintf(out, "Keywords (first match wins)\n")
	for i, kw := range store.Keywords {
		fmt.Fprintf(out, "  %2d. %-28s → %s\n", i+1, kw.Keyword, kw.Family)
	}
	fmt.Fprintln(out)

	codes := make([]int, 0, len(store.Departments))
	for code := range store.Departments {
		codes = append(codes, code)
	}
	sort.Ints(codes)
	fmt.Fprintf(out, "Departments\n")
	for _, code := range codes {
		fmt.Fprintf(out, "  %2d  %s\n", code, store.Departments[code])
	}
}

func limit(t *model.RuleThreshold) string {
	if t == nil {
		return "-"
	}
	return fmt.Sprintf("%g", t.Limit)
}

func printAudit(out io.Writer, report *rules.AuditReport) {
	for _, s := range report.Shadowed {
		if s.SameFamily {
			continue
		}
		fmt.Fprintf(out, "⚠️  keyword %q (#%d) never matches: %q (#%d) is tested first and maps to %s\n",
			s.Keyword.Keyword, s.Index+1, s.ShadowedBy.Keyword, s.ShadowIndex+1, s.ShadowedBy.Family)
	}

	for _, kind := range []rules.MachineType{rules.MachineType1, rules.MachineType2} {
		if missing := report.MissingRules[kind]; len(missing) > 0 {
			fmt.Fprintf(out, "ℹ️  %s has no rules for: %s\n", kind, strings.Join(missing, ", "))
		}
		if unreachable := report.UnreachableKeys[kind]; len(unreachable) > 0 {
			fmt.Fprintf(out, "⚠️  %s rules no keyword can reach: %s\n", kind, strings.Join(unreachable, ", "))
		}
	}

	if report.Clean() {
		fmt.Fprintln(out, "✓ No gaps found")
	}
}
