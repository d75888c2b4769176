package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/pressflag/internal/cache"
	"github.com/ppiankov/pressflag/internal/extract"
	"github.com/ppiankov/pressflag/internal/model"
	"github.com/ppiankov/pressflag/internal/rules"
	"github.com/ppiankov/pressflag/internal/sheet"
)

// Pipeline analyzes production sheets against one rule store snapshot.
// A Pipeline holds no per-run state and may be shared by concurrent runs.
type Pipeline struct {
	config      *model.Config
	store       *model.RuleStore
	fingerprint string // Rule store + sheet layout, for cache keys
	classifier  *rules.Classifier
	evaluator   *rules.Evaluator
	renderer    *Renderer
	cache       cache.Cache // nil when caching is disabled
	logger      *zap.Logger
	now         func() time.Time
}

// Option customizes a Pipeline
type Option func(*Pipeline)

// WithCache replaces the cache built from the configuration
func WithCache(c cache.Cache) Option {
	return func(p *Pipeline) { p.cache = c }
}

// WithClock sets the time source used for AnalyzedAt
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// NewPipeline creates a pipeline. The store is validated and copied, so
// later changes to it do not affect this pipeline.
func NewPipeline(cfg *model.Config, store *model.RuleStore, logger *zap.Logger, opts ...Option) (*Pipeline, error) {
	if store == nil {
		store = rules.DefaultStore()
	}
	if err := rules.Validate(store); err != nil {
		return nil, fmt.Errorf("invalid rules: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	snapshot := rules.Clone(store)
	fingerprint, err := layoutFingerprint(cfg, snapshot)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		config:      cfg,
		store:       snapshot,
		fingerprint: fingerprint,
		classifier:  rules.NewClassifier(snapshot.Keywords),
		evaluator:   rules.NewEvaluator(snapshot),
		renderer:    NewRenderer(cfg.Output.IncludeFooter),
		logger:      logger,
		now:         time.Now,
	}
	if cfg.Cache.Enabled {
		p.cache = cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
	}
	for _, opt := range opts {
		opt(p)
	}

	return p, nil
}

func layoutFingerprint(cfg *model.Config, store *model.RuleStore) (string, error) {
	rulesHash, err := rules.Fingerprint(store)
	if err != nil {
		return "", err
	}
	layout, err := yaml.Marshal(struct {
		Layout  model.LayoutConfig
		Columns model.ColumnsConfig
	}{cfg.Layout, cfg.Columns})
	if err != nil {
		return "", fmt.Errorf("marshal layout: %w", err)
	}
	return cache.Key(rulesHash, string(layout)), nil
}

// Store returns the pipeline's rule store snapshot
func (p *Pipeline) Store() *model.RuleStore {
	return p.store
}

// Input is one production sheet and its optional remark mapping sheet
type Input struct {
	Source      string
	SheetName   string
	Table       [][]string
	MappingName string
	Mapping     [][]string
	HasMapping  bool
}

// Run analyzes one production sheet. It fails only on structural errors;
// bad rows and lookup misses are recorded on the result.
func (p *Pipeline) Run(in Input) (*model.Result, error) {
	layout := p.config.Layout
	log := p.logger.With(zap.String("sheet", in.SheetName))

	if len(in.Table) <= layout.HeaderRowSecond || len(in.Table) <= layout.HeaderRowFirst {
		return nil, &model.StructuralError{
			Reason: model.ErrSheetTooShort,
			Sheet:  in.SheetName,
			Detail: fmt.Sprintf("%d rows, header expected on rows %d and %d", len(in.Table), layout.HeaderRowFirst, layout.HeaderRowSecond),
		}
	}

	// 1. Header and required columns
	headers := extract.ReconcileHeaders(in.Table[layout.HeaderRowFirst], in.Table[layout.HeaderRowSecond])
	normalizer, err := extract.NewNormalizer(p.config.Columns, headers)
	if err != nil {
		var se *model.StructuralError
		if errors.As(err, &se) {
			se.Sheet = in.SheetName
		}
		return nil, err
	}

	result := &model.Result{
		RunID:       uuid.NewString(),
		Source:      in.Source,
		SheetName:   in.SheetName,
		MappingName: in.MappingName,
		AnalyzedAt:  p.now().UTC(),
	}

	// 2. Sheet metadata
	meta, missing := extract.ExtractMeta(in.Table, layout)
	result.Meta = meta
	if len(missing) > 0 {
		result.Warnings = append(result.Warnings, model.Warning{
			Kind:    model.WarningMetadataMissing,
			Message: fmt.Sprintf("metadata not found on row %d: %v", layout.MetadataRow, missing),
		})
	}

	// 3. Remark mapping
	remarkCodes := model.RemarkCodeMap{}
	if in.HasMapping {
		mapping := extract.BuildRemarkCodeMap(in.Mapping, layout.RemarkMarker, layout.RemarkFallbackRow)
		remarkCodes = mapping.Codes
		if mapping.Fallback {
			msg := fmt.Sprintf("could not find %q header in mapping sheet %q, reading remarks from row %d",
				layout.RemarkMarker, in.MappingName, mapping.StartRow)
			result.Warnings = append(result.Warnings, model.Warning{Kind: model.WarningRemarkMarkerFallback, Message: msg})
			log.Warn("remark marker not found", zap.String("mapping", in.MappingName), zap.Int("fallback_row", mapping.StartRow))
		}
		log.Debug("loaded remark mapping", zap.Int("entries", len(remarkCodes)), zap.Int("skipped", mapping.Skipped))
	} else {
		result.Warnings = append(result.Warnings, model.Warning{
			Kind:    model.WarningMappingSheetMissing,
			Message: "no remark mapping sheet found; department names are unavailable",
		})
		log.Warn("remark mapping sheet not found")
	}
	result.Diagnostics.RemarkMappings = len(remarkCodes)
	resolver := rules.NewDepartmentResolver(remarkCodes, p.store.Departments)

	// 4. Records
	unknownCodes := make(map[int]int)
	for i := layout.DataStartRow; i < len(in.Table); i++ {
		row := in.Table[i]
		if extract.IsBlankRow(row) {
			continue
		}
		result.Diagnostics.DataRows++

		rec, ok := normalizer.Normalize(i, row)
		if !ok {
			result.Diagnostics.RejectedRows++
			continue
		}

		if family, found := p.classifier.Classify(rec.DieName); found {
			rec.Family = family
		} else {
			result.Diagnostics.UnclassifiedRows++
		}

		res := resolver.Apply(rec)
		switch {
		case res.UnknownCode:
			unknownCodes[*res.Code]++
			result.Diagnostics.UnknownDeptCodes++
		case res.Code == nil && rec.Remark != "":
			result.Diagnostics.UnresolvedRemarks++
		}

		rec.FlagReason = p.evaluator.Evaluate(rec, meta.MachineType).Reason()
		result.Records = append(result.Records, *rec)
	}

	if len(unknownCodes) > 0 {
		codes := make([]int, 0, len(unknownCodes))
		for code := range unknownCodes {
			codes = append(codes, code)
		}
		sort.Ints(codes)
		for _, code := range codes {
			result.Warnings = append(result.Warnings, model.Warning{
				Kind:    model.WarningUnknownDepartmentCode,
				Message: fmt.Sprintf("remark code %d has no department (%d records)", code, unknownCodes[code]),
			})
		}
		log.Warn("remark codes without department", zap.Ints("codes", codes))
	}

	// 5. Flagged subset
	result.Flagged = FlaggedRows(meta, result.Records)
	result.Diagnostics.Records = len(result.Records)
	result.Diagnostics.FlaggedRecords = len(result.Flagged)

	log.Debug("sheet analyzed",
		zap.Int("data_rows", result.Diagnostics.DataRows),
		zap.Int("rejected", result.Diagnostics.RejectedRows),
		zap.Int("flagged", result.Diagnostics.FlaggedRecords))

	return result, nil
}

// FlaggedRows builds report rows for every flagged record, in record order
func FlaggedRows(meta model.BatchMeta, records []model.Record) []model.FlaggedRow {
	rows := make([]model.FlaggedRow, 0)
	for _, rec := range records {
		if !rec.Flagged() {
			continue
		}
		rows = append(rows, model.FlaggedRow{
			Date:           meta.Date,
			MachineType:    meta.MachineType,
			DieNumber:      rec.DieNumber,
			DieName:        rec.DieName,
			FlagReason:     rec.FlagReason,
			Operator:       meta.Operator,
			Supervisor:     meta.Supervisor,
			Remark:         rec.Remark,
			DepartmentName: rec.DepartmentName,
		})
	}
	return rows
}

// AnalyzeWorkbook locates the production and mapping sheets and runs the
// analysis. A missing production sheet is a structural error.
func (p *Pipeline) AnalyzeWorkbook(wb sheet.Workbook, source string) (*model.Result, error) {
	layout := p.config.Layout

	target, ok := sheet.Find(wb, layout.TargetSheets)
	if !ok {
		return nil, &model.StructuralError{
			Reason: model.ErrSheetNotFound,
			Detail: fmt.Sprintf("expected one of %v (case and space insensitive), workbook has %v", layout.TargetSheets, wb.SheetNames()),
		}
	}

	table, err := wb.Rows(target)
	if err != nil {
		return nil, err
	}

	in := Input{
		Source:    source,
		SheetName: target,
		Table:     table,
	}

	if mappingName, found := sheet.Find(wb, layout.MappingSheets); found && mappingName != target {
		mapping, err := wb.Rows(mappingName)
		if err != nil {
			return nil, err
		}
		in.MappingName = mappingName
		in.Mapping = mapping
		in.HasMapping = true
	}

	return p.Run(in)
}

// AnalyzeFile reads a workbook file and analyzes it. Results are cached by
// file content and rule store, so re-running an unchanged file is cheap.
func (p *Pipeline) AnalyzeFile(ctx context.Context, path string) (*model.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	format, err := sheet.DetectFormat(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read workbook: %w", err)
	}

	key := cache.Key(p.fingerprint, cache.ContentHash(data))
	if p.cache != nil {
		var cached model.Result
		if cache.GetJSON(p.cache, key, &cached) {
			p.logger.Debug("cache hit", zap.String("file", path))
			cached.RunID = uuid.NewString()
			cached.AnalyzedAt = p.now().UTC()
			cached.Source = path
			cached.Cached = true
			return &cached, nil
		}
	}

	wb, err := sheet.OpenBytes(data, format)
	if err != nil {
		return nil, err
	}
	defer func() { _ = wb.Close() }()

	result, err := p.AnalyzeWorkbook(wb, path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}

	if p.cache != nil {
		if err := cache.SetJSON(p.cache, key, result, 0); err != nil {
			p.logger.Warn("cache write failed", zap.String("file", path), zap.Error(err))
		}
	}

	return result, nil
}
