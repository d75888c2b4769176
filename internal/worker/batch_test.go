package worker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ppiankov/pressflag/internal/model"
)

// mockAnalyzer implements Analyzer
type mockAnalyzer struct {
	failOn string
	calls  int32
}

func (m *mockAnalyzer) AnalyzeFile(ctx context.Context, path string) (*model.Result, error) {
	atomic.AddInt32(&m.calls, 1)
	time.Sleep(5 * time.Millisecond) // Simulate work
	if m.failOn != "" && strings.Contains(path, m.failOn) {
		return nil, errors.New("analysis error")
	}
	return &model.Result{Source: path}, nil
}

func TestBatchProcessor_ProcessFiles_Order(t *testing.T) {
	analyzer := &mockAnalyzer{}
	processor := NewBatchProcessor(analyzer, 3)

	var paths []string
	for i := 0; i < 20; i++ {
		paths = append(paths, filepath.Join("in", string(rune('a'+i))+".xlsx"))
	}

	results := processor.ProcessFiles(context.Background(), paths)

	if len(results) != len(paths) {
		t.Fatalf("expected %d results, got %d", len(paths), len(results))
	}
	for i, res := range results {
		if res.Path != paths[i] {
			t.Errorf("expected result %d for %s, got %s", i, paths[i], res.Path)
		}
		if res.Error != nil {
			t.Errorf("unexpected error for %s: %v", res.Path, res.Error)
		}
		if res.Result == nil || res.Result.Source != paths[i] {
			t.Errorf("expected result for %s", paths[i])
		}
	}
	if got := atomic.LoadInt32(&analyzer.calls); got != int32(len(paths)) {
		t.Errorf("expected %d analyses, got %d", len(paths), got)
	}
}

func TestBatchProcessor_ProcessFiles_IsolatesFailures(t *testing.T) {
	processor := NewBatchProcessor(&mockAnalyzer{failOn: "bad"}, 2)

	results := processor.ProcessFiles(context.Background(), []string{"good1.xlsx", "bad.xlsx", "good2.xlsx"})

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if results[0].Error != nil || results[2].Error != nil {
		t.Errorf("expected good files to succeed, got %v and %v", results[0].Error, results[2].Error)
	}
	if results[1].Error == nil {
		t.Error("expected error for bad file, got nil")
	}
	if results[1].Result != nil {
		t.Error("expected nil result on error")
	}
}

func TestBatchProcessor_ProcessFiles_Empty(t *testing.T) {
	processor := NewBatchProcessor(&mockAnalyzer{}, 2)

	results := processor.ProcessFiles(context.Background(), nil)
	if len(results) != 0 {
		t.Errorf("expected 0 results, got %d", len(results))
	}
}

func TestBatchProcessor_ProcessFiles_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	processor := NewBatchProcessor(&mockAnalyzer{}, 2)
	results := processor.ProcessFiles(ctx, []string{"a.xlsx", "b.xlsx"})

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	for _, res := range results {
		if res.Error == nil {
			t.Errorf("expected error for %s after cancel", res.Path)
		}
	}
}

func TestFileResult_GetError(t *testing.T) {
	r1 := &FileResult{Path: "a.xlsx"}
	if r1.GetError() != nil {
		t.Errorf("expected nil error, got %v", r1.GetError())
	}

	expected := errors.New("analysis failed")
	r2 := &FileResult{Path: "a.xlsx", Error: expected}
	if r2.GetError() != expected {
		t.Errorf("expected %v, got %v", expected, r2.GetError())
	}
}

func TestReadPathsFromFile(t *testing.T) {
	dir := t.TempDir()
	content := "week1.xlsx\n# comment\n\n  week2.xlsx  \nweek1.xlsx\n/abs/week3.htm\n"
	listPath := filepath.Join(dir, "list.txt")
	if err := os.WriteFile(listPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	paths, err := ReadPathsFromFile(listPath)
	if err != nil {
		t.Fatalf("ReadPathsFromFile failed: %v", err)
	}

	expected := []string{
		filepath.Join(dir, "week1.xlsx"),
		filepath.Join(dir, "week2.xlsx"),
		"/abs/week3.htm",
	}
	if len(paths) != len(expected) {
		t.Fatalf("expected %d paths, got %d: %v", len(expected), len(paths), paths)
	}
	for i := range expected {
		if paths[i] != expected[i] {
			t.Errorf("expected path %s at index %d, got %s", expected[i], i, paths[i])
		}
	}
}

func TestReadPathsFromFile_NonExistent(t *testing.T) {
	if _, err := ReadPathsFromFile("no_such_list.txt"); err == nil {
		t.Error("expected error for non-existent file, got nil")
	}
}

func TestExpandPaths(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.xlsx", "b.htm", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0644); err != nil {
			t.Fatal(err)
		}
	}
	isWorkbook := func(p string) bool {
		ext := filepath.Ext(p)
		return ext == ".xlsx" || ext == ".htm"
	}

	paths, err := ExpandPaths([]string{dir, filepath.Join(dir, "a.xlsx")}, isWorkbook)
	if err != nil {
		t.Fatalf("ExpandPaths failed: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("expected 2 unique workbooks, got %d: %v", len(paths), paths)
	}

	globbed, err := ExpandPaths([]string{filepath.Join(dir, "*.xlsx")}, isWorkbook)
	if err != nil {
		t.Fatalf("ExpandPaths glob failed: %v", err)
	}
	if len(globbed) != 1 || filepath.Base(globbed[0]) != "a.xlsx" {
		t.Errorf("expected glob to match a.xlsx, got %v", globbed)
	}

	if _, err := ExpandPaths([]string{filepath.Join(dir, "missing.xlsx")}, isWorkbook); err == nil {
		t.Error("expected error for missing file, got nil")
	}
}

func TestDedupPaths(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.xlsx")

	paths := DedupPaths([]string{a, dir + "/./a.xlsx", filepath.Join(dir, "b.xlsx"), a})
	if len(paths) != 2 {
		t.Fatalf("expected 2 unique paths, got %d: %v", len(paths), paths)
	}
	if paths[0] != a || filepath.Base(paths[1]) != "b.xlsx" {
		t.Errorf("expected first spelling kept in order, got %v", paths)
	}

	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	rel := DedupPaths([]string{"week.xlsx", filepath.Join(wd, "week.xlsx")})
	if len(rel) != 1 || rel[0] != "week.xlsx" {
		t.Errorf("expected relative and absolute spellings to match, got %v", rel)
	}
}
