// Package engine runs label validation over many files.
// It handles file discovery, parsing, concurrent validation and watch mode.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/vtool/pkg/core"
	"github.com/leapstack-labs/vtool/pkg/dict"
	"github.com/leapstack-labs/vtool/pkg/label"
	"github.com/leapstack-labs/vtool/pkg/odl"
	"github.com/leapstack-labs/vtool/pkg/typecheck"
	"github.com/leapstack-labs/vtool/pkg/validate"
)

// Engine validates label files against a shared, read-only dictionary.
type Engine struct {
	validator *validate.Validator
	workers   int
	maxErrors int
	cache     *reportCache
	logger    *slog.Logger
}

// Config holds engine configuration.
type Config struct {
	// Dictionary is the loaded data dictionary (required)
	Dictionary *dict.Dictionary
	// Registry holds the type checkers (optional, built-in checkers if nil)
	Registry *typecheck.Registry
	// Options tunes object validation
	Options validate.Options
	// Workers bounds concurrent validations (<= 0 uses GOMAXPROCS)
	Workers int
	// MaxErrors caps the diagnostics kept per file (0 keeps all)
	MaxErrors int
	// CacheSize is the number of file reports kept for unchanged files
	// (0 disables the cache)
	CacheSize int
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// FileReport is the outcome of validating one label file.
type FileReport struct {
	File        string           `json:"file"`
	Type        string           `json:"label_type,omitempty"`
	Valid       bool             `json:"valid"`
	Diagnostics core.Diagnostics `json:"diagnostics"`
	// Truncated counts diagnostics dropped by the MaxErrors cap.
	Truncated int           `json:"truncated,omitempty"`
	Duration  time.Duration `json:"duration_ns"`
}

// New creates an engine. The dictionary must not be nil.
func New(cfg Config) (*Engine, error) {
	if cfg.Dictionary == nil {
		return nil, fmt.Errorf("engine: %w", core.ErrNilInput)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if cfg.Options.MaxDepth <= 0 {
		cfg.Options.MaxDepth = validate.DefaultMaxDepth
	}

	logger.Debug("initializing engine",
		"elements", len(cfg.Dictionary.ElementIDs()),
		"objects", len(cfg.Dictionary.ObjectIDs()),
		"aliasing", cfg.Options.Aliasing,
		"workers", workers)

	e := &Engine{
		validator: validate.New(cfg.Dictionary, cfg.Registry, cfg.Options, logger),
		workers:   workers,
		maxErrors: cfg.MaxErrors,
		logger:    logger,
	}
	if cfg.CacheSize > 0 {
		cache, err := newReportCache(cfg.CacheSize)
		if err != nil {
			return nil, fmt.Errorf("engine: report cache: %w", err)
		}
		e.cache = cache
	}
	return e, nil
}

// ValidateFile parses and validates one label file. Read and parse failures
// are reported as an error diagnostic in an invalid report. With a cache
// configured, an unchanged file returns its previous report.
func (e *Engine) ValidateFile(path string) FileReport {
	if e.cache == nil {
		return e.validateFile(path)
	}
	key, ok := keyFor(path)
	if !ok {
		return e.validateFile(path)
	}
	if report, hit := e.cache.get(key); hit {
		e.logger.Debug("label unchanged, using cached report", "file", path)
		return report
	}
	report := e.validateFile(path)
	e.cache.add(key, report)
	return report
}

func (e *Engine) validateFile(path string) FileReport {
	start := time.Now()
	report := FileReport{File: path}

	l, err := odl.ParseFile(path)
	if err != nil {
		report.Diagnostics = core.Diagnostics{parseDiagnostic(path, err)}
		report.Duration = time.Since(start)
		e.logger.Debug("label parse failed", "file", path, "error", err)
		return report
	}
	return e.finish(report, l, start)
}

// ValidateLabel validates an already parsed label.
func (e *Engine) ValidateLabel(l *label.Label) FileReport {
	return e.finish(FileReport{File: l.Filename}, l, time.Now())
}

func (e *Engine) finish(report FileReport, l *label.Label, start time.Time) FileReport {
	report.Type = l.Type.String()
	res, err := e.validator.Validate(l)
	if err != nil {
		report.Diagnostics = core.Diagnostics{{
			Severity: core.SeverityError,
			Code:     core.CodeNilInput,
			Message:  err.Error(),
			File:     report.File,
		}}
		report.Duration = time.Since(start)
		return report
	}

	report.Valid = res.Valid
	report.Diagnostics = res.Diagnostics
	// Truncation keeps the findings nearest the top of the label.
	report.Diagnostics.SortByPosition()
	if e.maxErrors > 0 && len(report.Diagnostics) > e.maxErrors {
		report.Truncated = len(report.Diagnostics) - e.maxErrors
		report.Diagnostics = report.Diagnostics[:e.maxErrors]
	}
	report.Duration = time.Since(start)

	e.logger.Debug("label validated",
		"file", report.File,
		"valid", report.Valid,
		"diagnostics", len(res.Diagnostics),
		"duration_ms", report.Duration.Milliseconds())
	return report
}

// ValidateFiles validates files concurrently and returns one report per file
// in input order. Cancelling ctx stops scheduling new files; the reports
// gathered so far are returned with the context error.
func (e *Engine) ValidateFiles(ctx context.Context, files []string) ([]FileReport, error) {
	reports := make([]FileReport, len(files))
	done := make([]bool, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	e.logger.Info("starting validation", "files", len(files), "workers", e.workers)
	start := time.Now()

scheduling:
	for i, path := range files {
		select {
		case <-gctx.Done():
			break scheduling
		default:
		}
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			reports[i] = e.ValidateFile(path)
			done[i] = true
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		out := make([]FileReport, 0, len(files))
		for i, ok := range done {
			if ok {
				out = append(out, reports[i])
			}
		}
		return out, err
	}

	e.logger.Info("validation completed",
		"files", len(files),
		"duration_ms", time.Since(start).Milliseconds())
	return reports, nil
}

// parseDiagnostic converts a read or syntax error into a diagnostic.
func parseDiagnostic(path string, err error) core.Diagnostic {
	d := core.Diagnostic{
		Severity: core.SeverityError,
		Code:     core.CodeParse,
		Message:  err.Error(),
		File:     path,
	}
	var perr *odl.Error
	if errors.As(err, &perr) {
		d.Message = perr.Msg
		d.Line = perr.Line
	} else if errors.Is(err, os.ErrNotExist) {
		d.Message = fmt.Sprintf("label file not found: %s", path)
	}
	return d
}

// Summary aggregates a batch of reports.
type Summary struct {
	Files    int `json:"files"`
	Valid    int `json:"valid"`
	Invalid  int `json:"invalid"`
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Infos    int `json:"infos"`
}

// Summarize counts verdicts and diagnostics by severity.
func Summarize(reports []FileReport) Summary {
	s := Summary{Files: len(reports)}
	for _, r := range reports {
		if r.Valid {
			s.Valid++
		} else {
			s.Invalid++
		}
		s.Errors += r.Diagnostics.Count(core.SeverityError)
		s.Warnings += r.Diagnostics.Count(core.SeverityWarning)
		s.Infos += r.Diagnostics.Count(core.SeverityInfo)
	}
	return s
}
