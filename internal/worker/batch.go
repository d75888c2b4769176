package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/pressflag/internal/model"
)

// Analyzer analyzes one workbook file
type Analyzer interface {
	AnalyzeFile(ctx context.Context, path string) (*model.Result, error)
}

// AnalyzeJob analyzes one workbook as part of a batch
type AnalyzeJob struct {
	Index    int
	Path     string
	Analyzer Analyzer
}

// Execute runs the analysis
func (j *AnalyzeJob) Execute(ctx context.Context) Result {
	result, err := j.Analyzer.AnalyzeFile(ctx, j.Path)
	return &FileResult{
		Index:  j.Index,
		Path:   j.Path,
		Result: result,
		Error:  err,
	}
}

// FileResult is the outcome of analyzing one workbook
type FileResult struct {
	Index  int
	Path   string
	Result *model.Result
	Error  error
}

// GetError returns the analysis error, if any
func (r *FileResult) GetError() error {
	return r.Error
}

// BatchProcessor analyzes many workbooks concurrently. Each workbook is an
// independent run; one failing file never affects the others.
type BatchProcessor struct {
	analyzer    Analyzer
	concurrency int
}

// NewBatchProcessor creates a batch processor
func NewBatchProcessor(analyzer Analyzer, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		analyzer:    analyzer,
		concurrency: concurrency,
	}
}

// ProcessFiles analyzes every path and returns results in input order
func (b *BatchProcessor) ProcessFiles(ctx context.Context, paths []string) []*FileResult {
	if len(paths) == 0 {
		return []*FileResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	// Results are drained while submitting so a large batch cannot fill
	// the result buffer and stall the workers.
	collected := make(chan []Result, 1)
	go func() {
		var results []Result
		for r := range pool.Results() {
			results = append(results, r)
		}
		collected <- results
	}()

	submitted := make([]bool, len(paths))
	for i, path := range paths {
		submitted[i] = pool.Submit(&AnalyzeJob{
			Index:    i,
			Path:     path,
			Analyzer: b.analyzer,
		})
	}
	pool.Close()
	results := <-collected

	fileResults := make([]*FileResult, len(paths))
	for _, r := range results {
		fr := r.(*FileResult)
		fileResults[fr.Index] = fr
	}
	for i, fr := range fileResults {
		if fr != nil {
			continue
		}
		err := ctx.Err()
		if err == nil {
			err = fmt.Errorf("not processed")
		}
		if !submitted[i] {
			err = fmt.Errorf("not submitted: %w", err)
		}
		fileResults[i] = &FileResult{Index: i, Path: paths[i], Error: err}
	}

	return fileResults
}

// ProcessList reads workbook paths from a list file and analyzes them
func (b *BatchProcessor) ProcessList(ctx context.Context, listPath string) ([]*FileResult, error) {
	paths, err := ReadPathsFromFile(listPath)
	if err != nil {
		return nil, fmt.Errorf("read paths: %w", err)
	}
	return b.ProcessFiles(ctx, paths), nil
}

// ReadPathsFromFile reads workbook paths, one per line. Blank lines and
// '#' comments are skipped, duplicates are dropped, and relative paths are
// resolved against the list file's directory.
func ReadPathsFromFile(listPath string) ([]string, error) {
	file, err := os.Open(listPath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	base := filepath.Dir(listPath)
	var paths []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !filepath.IsAbs(line) {
			line = filepath.Join(base, line)
		}
		if !seen[line] {
			seen[line] = true
			paths = append(paths, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return paths, nil
}

// DedupPaths drops repeated workbooks, comparing absolute cleaned paths so
// "dir/a.xlsx" and "./dir/a.xlsx" count once. The first spelling is kept.
func DedupPaths(paths []string) []string {
	seen := make(map[string]bool, len(paths))
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		key := filepath.Clean(p)
		if abs, err := filepath.Abs(p); err == nil {
			key = abs
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, p)
	}
	return out
}

// ExpandPaths turns arguments into workbook paths. Directories contribute
// every workbook they contain (not recursively); glob patterns are
// expanded; duplicates are dropped.
func ExpandPaths(args []string, isWorkbook func(string) bool) ([]string, error) {
	var paths []string
	seen := make(map[string]bool)
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			paths = append(paths, p)
		}
	}

	for _, arg := range args {
		info, err := os.Stat(arg)
		switch {
		case err == nil && info.IsDir():
			entries, err := os.ReadDir(arg)
			if err != nil {
				return nil, fmt.Errorf("read dir: %w", err)
			}
			for _, e := range entries {
				if !e.IsDir() && isWorkbook(e.Name()) {
					add(filepath.Join(arg, e.Name()))
				}
			}
		case err == nil:
			add(arg)
		default:
			matches, globErr := filepath.Glob(arg)
			if globErr != nil || len(matches) == 0 {
				return nil, fmt.Errorf("no such file: %s", arg)
			}
			for _, m := range matches {
				if isWorkbook(m) {
					add(m)
				}
			}
		}
	}

	return paths, nil
}
