// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package batch converts every matching file below a folder.
//
// A run validates its configuration, discovers inputs, plans one Task per
// file (skip, dry-run, or execute), and dispatches the tasks either
// sequentially or on a bounded worker pool. Per-file failures are
// reported as Failed results and never abort the run.
package batch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"

	"github.com/pdiddy/docconv/internal/convert"
	"github.com/pdiddy/docconv/internal/discovery"
	"github.com/pdiddy/docconv/internal/errs"
	"github.com/pdiddy/docconv/internal/pathmap"
	"github.com/pdiddy/docconv/internal/versioning"
)

// Scheduler runs batch conversions with one Converter.
type Scheduler struct {
	conv     convert.Converter
	log      *zap.Logger
	alloc    *versioning.Allocator
	progress ProgressFactory
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithLogger sets the logger. The default discards everything.
func WithLogger(log *zap.Logger) Option {
	return func(s *Scheduler) {
		if log != nil {
			s.log = log
		}
	}
}

// WithAllocator shares a version allocator across runs.
func WithAllocator(a *versioning.Allocator) Option {
	return func(s *Scheduler) {
		if a != nil {
			s.alloc = a
		}
	}
}

// WithProgress replaces the progress display factory.
func WithProgress(f ProgressFactory) Option {
	return func(s *Scheduler) {
		if f != nil {
			s.progress = f
		}
	}
}

// New creates a Scheduler around conv.
func New(conv convert.Converter, opts ...Option) *Scheduler {
	s := &Scheduler{
		conv:     conv,
		log:      zap.NewNop(),
		alloc:    versioning.NewAllocator(),
		progress: TerminalProgress(os.Stderr),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run converts every file matching cfg and returns one Result per
// discovered file. The error is non-nil only for setup failures:
// errs.ErrConfiguration for an invalid cfg and errs.ErrFilesystem when the
// input folder cannot be read. An empty folder yields empty Results.
func (s *Scheduler) Run(ctx context.Context, cfg Config) (Results, error) {
	if s.conv == nil {
		return nil, fmt.Errorf("%w: no converter", errs.ErrConfiguration)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	root, err := filepath.Abs(cfg.InputRoot)
	if err != nil {
		return nil, fmt.Errorf("%w: resolving %s: %v", errs.ErrFilesystem, cfg.InputRoot, err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("%w: input folder %s: %v", errs.ErrFilesystem, root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: input folder %s is not a directory", errs.ErrFilesystem, root)
	}

	var mapper *pathmap.Mapper
	if cfg.OutputRoot != "" {
		if mapper, err = pathmap.New(root, cfg.OutputRoot, cfg.OutputSuffix); err != nil {
			return nil, err
		}
	}

	files, err := discovery.Collect(discovery.Discover(root, cfg.InputSuffix, cfg.Recursive))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrFilesystem, err)
	}

	log := s.log.With(zap.String("run_id", uuid.NewString()))
	log.Info("batch start",
		zap.String("folder", root),
		zap.String("suffix", cfg.InputSuffix),
		zap.Int("files", len(files)),
		zap.Bool("recursive", cfg.Recursive),
		zap.Bool("dry_run", cfg.DryRun),
		zap.Bool("force", cfg.Force),
		zap.Bool("versioned", cfg.Versioned),
		zap.Int("workers", cfg.Workers))
	if mapper != nil {
		log.Info("output folder", zap.String("path", mapper.OutputRoot()))
	}

	if len(files) == 0 {
		log.Info("batch complete", zap.Int("results", 0))
		return Results{}, nil
	}

	r := &run{
		cfg:    cfg,
		mapper: mapper,
		conv:   s.conv,
		alloc:  s.alloc,
		log:    log,
		bar:    nopProgress{},
	}
	if cfg.ShowProgress && !cfg.DryRun {
		r.bar = s.progress(len(files))
	}

	var results Results
	if cfg.Workers <= 1 {
		results = r.sequential(ctx, files)
	} else {
		results = r.parallel(ctx, files)
	}
	r.bar.Finish()

	sum := results.Summary()
	log.Info("batch complete",
		zap.Int("results", len(results)),
		zap.Int("converted", sum.Converted),
		zap.Int("skipped", sum.Skipped),
		zap.Int("dry_run", sum.Planned),
		zap.Int("failed", sum.Failed))
	return results, nil
}

// run holds the state shared by the workers of one Run call.
type run struct {
	cfg    Config
	mapper *pathmap.Mapper
	conv   convert.Converter
	alloc  *versioning.Allocator
	log    *zap.Logger
	bar    Progress
}

func (r *run) sequential(ctx context.Context, files []string) Results {
	results := make(Results, 0, len(files))
	for _, f := range files {
		res := r.process(ctx, f)
		r.bar.Increment(res)
		results = append(results, res)
	}
	return results
}

func (r *run) parallel(ctx context.Context, files []string) Results {
	out := make(chan Result, len(files))
	p := pool.New().WithMaxGoroutines(r.cfg.Workers)
	go func() {
		for _, f := range files {
			p.Go(func() { out <- r.process(ctx, f) })
		}
		p.Wait()
		close(out)
	}()

	results := make(Results, 0, len(files))
	for res := range out {
		r.bar.Increment(res)
		results = append(results, res)
	}
	return results
}

// process plans and executes one file. It always returns exactly one
// Result, including when the converter panics.
func (r *run) process(ctx context.Context, src string) (res Result) {
	defer func() {
		if v := recover(); v != nil {
			res = r.fail(src, fmt.Errorf("%w: panic: %v", errs.ErrConversion, v))
		}
	}()

	task, err := r.plan(src)
	if err != nil {
		return r.fail(src, err)
	}
	return r.execute(ctx, task)
}

// plan decides what to do with src. Versioned names are allocated here so
// that concurrent workers never pick the same one.
func (r *run) plan(src string) (Task, error) {
	task := Task{Source: src, Decision: DecisionExecute}

	switch {
	case r.mapper != nil && r.cfg.DryRun:
		out, err := r.mapper.Target(src)
		if err != nil {
			return task, err
		}
		task.Planned, task.Target = out, out
	case r.mapper != nil:
		out, err := r.mapper.Prepare(src)
		if err != nil {
			return task, err
		}
		task.Planned, task.Target = out, out
	}

	// Without an output root nothing is planned: the converter picks its
	// default sibling and overwrites it. The sibling only seeds versioning.
	if r.cfg.Versioned {
		base := task.Planned
		if base == "" {
			base = pathmap.DefaultOutput(src, r.cfg.OutputSuffix)
		}
		allocate := r.alloc.Allocate
		if r.cfg.DryRun {
			allocate = r.alloc.Peek
		}
		v, err := allocate(base)
		if err != nil {
			return task, err
		}
		task.Planned, task.Target = v, v
	}

	if task.Planned != "" && !r.cfg.Force && !r.cfg.Versioned {
		_, err := os.Lstat(task.Planned)
		switch {
		case err == nil:
			task.Decision = DecisionSkip
			return task, nil
		case !errors.Is(err, fs.ErrNotExist):
			return task, fmt.Errorf("%w: checking %s: %v", errs.ErrFilesystem, task.Planned, err)
		}
	}
	if r.cfg.DryRun {
		task.Decision = DecisionDryRun
	}
	return task, nil
}

func (r *run) execute(ctx context.Context, task Task) Result {
	switch task.Decision {
	case DecisionSkip:
		r.log.Debug("skipping existing output",
			zap.String("source", task.Source), zap.String("output", task.Planned))
		return Result{Source: task.Source, Outcome: Skipped, Path: task.Planned}
	case DecisionDryRun:
		r.log.Info("dry run",
			zap.String("source", task.Source), zap.String("output", task.Planned))
		return Result{Source: task.Source, Outcome: Planned, Path: task.Source}
	}

	out, err := r.conv.Convert(ctx, task.Source, task.Target)
	if err != nil {
		return r.fail(task.Source, err)
	}
	return Result{Source: task.Source, Outcome: Converted, Path: out}
}

func (r *run) fail(src string, err error) Result {
	r.log.Error("conversion failed", zap.String("source", src), zap.Error(err))
	return Result{Source: src, Outcome: Failed, Err: err}
}
