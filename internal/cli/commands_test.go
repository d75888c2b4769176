package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"

	"github.com/ppiankov/pressflag/internal/history"
	"github.com/ppiankov/pressflag/internal/model"
)

// resetViper clears global config state and restores the flag bindings
func resetViper(t *testing.T) {
	t.Helper()
	reset := func() {
		viper.Reset()
		bindGlobalFlags()
	}
	reset()
	t.Cleanup(reset)
}

// executeCommand runs the root command with args and returns what it printed
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetViper(t)

	cfgFile = ""
	rulesFormat = "yaml"
	rulesForce = false
	historyLimit = 20

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestConfigShow(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "runs.db")
	cfgPath := writeFile(t, filepath.Join(dir, "config.yaml"), "history:\n  path: "+dbPath+"\nconcurrency:\n  workers: 7\n")

	out, err := executeCommand(t, "config", "show", "--config", cfgPath)
	if err != nil {
		t.Fatalf("config show failed: %v", err)
	}

	for _, want := range []string{"Current Configuration", "path: " + dbPath, "workers: 7", "data_start_row: 8"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestConfigInit(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	out, err := executeCommand(t, "config", "init")
	if err != nil {
		t.Fatalf("config init failed: %v", err)
	}

	path := filepath.Join(home, ".pressflag", "config.yaml")
	if !strings.Contains(out, "Created default configuration: "+path) {
		t.Errorf("Unexpected output: %s", out)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Expected config file to be written: %v", err)
	}
	if !strings.HasPrefix(string(data), "# pressflag configuration file") {
		t.Errorf("Expected comment header, got:\n%s", data)
	}
	if !strings.Contains(string(data), "remark_fallback_row: 4") {
		t.Errorf("Expected default layout in config file, got:\n%s", data)
	}

	if _, err := executeCommand(t, "config", "init"); err == nil {
		t.Error("Expected error when the config file already exists, got nil")
	}
}

func TestRulesInitAndCheck(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")

	out, err := executeCommand(t, "rules", "init", path)
	if err != nil {
		t.Fatalf("rules init failed: %v", err)
	}
	if !strings.Contains(out, "Wrote built-in rules to "+path) {
		t.Errorf("Unexpected init output: %s", out)
	}

	if _, err := executeCommand(t, "rules", "init", path); err == nil {
		t.Error("Expected error for existing rules file without --force, got nil")
	}
	if _, err := executeCommand(t, "rules", "init", path, "--force"); err != nil {
		t.Errorf("Expected --force to overwrite, got %v", err)
	}

	out, err = executeCommand(t, "rules", "check", path)
	if err != nil {
		t.Fatalf("rules check failed: %v", err)
	}
	if !strings.Contains(out, "Rule store is valid") {
		t.Errorf("Expected valid store, got:\n%s", out)
	}
	if !strings.Contains(out, "machine_type_1 has no rules for:") || !strings.Contains(out, "Glass Meeting") {
		t.Errorf("Expected missing rule families to be listed, got:\n%s", out)
	}
}

func TestRulesCheck_ShadowedKeyword(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), "rules.yaml"), `keywords:
  - keyword: handle
    family: Handle
  - keyword: handle bar
    family: Curtain Wall
`)

	out, err := executeCommand(t, "rules", "check", path)
	if err != nil {
		t.Fatalf("rules check failed: %v", err)
	}
	if !strings.Contains(out, `keyword "handle bar" (#2) never matches: "handle" (#1)`) {
		t.Errorf("Expected shadowed keyword warning, got:\n%s", out)
	}
	if strings.Contains(out, "No gaps found") {
		t.Errorf("Expected gaps to be reported, got:\n%s", out)
	}
}

func TestRulesCheck_Invalid(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), "rules.yaml"), "keywords:\n  - keyword: \"\"\n    family: Handle\n")

	if _, err := executeCommand(t, "rules", "check", path); err == nil || !strings.Contains(err.Error(), "invalid rules") {
		t.Errorf("Expected invalid rules error, got %v", err)
	}
}

func TestRulesShow_FromConfig(t *testing.T) {
	dir := t.TempDir()
	rulesPath := writeFile(t, filepath.Join(dir, "rules.yaml"), "departments:\n  1: Die Shop\n")
	cfgPath := writeFile(t, filepath.Join(dir, "config.yaml"), "rules:\n  file: "+rulesPath+"\n")

	out, err := executeCommand(t, "rules", "show", "--format", "table", "--config", cfgPath)
	if err != nil {
		t.Fatalf("rules show failed: %v", err)
	}
	if !strings.Contains(out, " 1  Die Shop") {
		t.Errorf("Expected departments from the configured rules file, got:\n%s", out)
	}

	if _, err := executeCommand(t, "rules", "show", "--format", "pdf", "--config", cfgPath); err == nil {
		t.Error("Expected error for unknown format, got nil")
	}
}

func TestHistoryCommands(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "runs.db")
	cfgPath := writeFile(t, filepath.Join(dir, "config.yaml"), "history:\n  path: "+dbPath+"\n")

	out, err := executeCommand(t, "history", "list", "--config", cfgPath)
	if err != nil {
		t.Fatalf("history list failed: %v", err)
	}
	if !strings.Contains(out, "No runs recorded") {
		t.Errorf("Expected empty history, got:\n%s", out)
	}

	ctx := context.Background()
	store, err := history.Open(ctx, dbPath)
	if err != nil {
		t.Fatal(err)
	}
	meta := model.BatchMeta{Date: "2024-03-01", MachineType: "P1", Operator: "Ravi", Supervisor: "Anil"}
	for i, runID := range []string{"run-a", "run-b"} {
		result := &model.Result{
			RunID:      runID,
			Source:     "week.xlsx",
			SheetName:  "PressProd",
			AnalyzedAt: time.Date(2024, 3, 2, 8, i, 0, 0, time.UTC),
			Meta:       meta,
			Flagged: []model.FlaggedRow{{
				Date:           meta.Date,
				MachineType:    meta.MachineType,
				DieNumber:      101,
				DieName:        "Handle 25mm",
				FlagReason:     "Speed less than 4.7 mm",
				Remark:         "die polish",
				DepartmentName: "Tool Room",
			}},
		}
		result.Diagnostics.Records = 4
		if err := store.Save(ctx, result); err != nil {
			t.Fatal(err)
		}
	}
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}

	out, err = executeCommand(t, "history", "list", "--config", cfgPath)
	if err != nil {
		t.Fatalf("history list failed: %v", err)
	}
	if first, second := strings.Index(out, "run-b"), strings.Index(out, "run-a"); first < 0 || second < 0 || first > second {
		t.Errorf("Expected run-b listed before run-a, got:\n%s", out)
	}

	out, err = executeCommand(t, "history", "list", "--limit", "1", "--config", cfgPath)
	if err != nil {
		t.Fatalf("history list --limit failed: %v", err)
	}
	if strings.Contains(out, "run-a") {
		t.Errorf("Expected limit to drop the older run, got:\n%s", out)
	}

	out, err = executeCommand(t, "history", "show", "run-a", "--config", cfgPath)
	if err != nil {
		t.Fatalf("history show failed: %v", err)
	}
	for _, want := range []string{"Run:         run-a", "Analyzed:    2024-03-02 08:00:00", "Handle 25mm", "[Tool Room]"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected show output to contain %q, got:\n%s", want, out)
		}
	}

	if _, err := executeCommand(t, "history", "show", "missing", "--config", cfgPath); err == nil {
		t.Error("Expected error for unknown run, got nil")
	}

	out, err = executeCommand(t, "history", "die", "101", "--config", cfgPath)
	if err != nil {
		t.Fatalf("history die failed: %v", err)
	}
	if !strings.Contains(out, "Die 101 was flagged in 2 recorded run(s)") {
		t.Errorf("Unexpected die history: %s", out)
	}

	if _, err := executeCommand(t, "history", "die", "D-1", "--config", cfgPath); err == nil {
		t.Error("Expected error for non-numeric die, got nil")
	}
}
