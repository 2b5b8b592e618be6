// Package walk drives a concurrent search: a producer walks the
// directory trees, a pool of workers evaluates the query against each
// entry, and the caller consumes results in a single goroutine.
package walk

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	gitignore "github.com/monochromegane/go-gitignore"
	"golang.org/x/sync/errgroup"

	"github.com/harrison/fgr/internal/eval"
	"github.com/harrison/fgr/internal/logger"
	"github.com/harrison/fgr/internal/query"
)

// Options configures a search run.
type Options struct {
	// Roots are the directories to search. Empty means the current
	// directory.
	Roots []string
	// Workers is the number of concurrent evaluation workers.
	Workers int
	// ReadTimeout bounds each content read during evaluation.
	ReadTimeout time.Duration
	// IgnoreHidden skips dot-files and dot-directories.
	IgnoreHidden bool
	// ReadIgnore honors a .ignore file at each root.
	ReadIgnore bool
	// ReadGitIgnore honors a .gitignore file at each root.
	ReadGitIgnore bool
	// Logger receives diagnostics. A nil logger is silent.
	Logger *logger.ConsoleLogger
}

// Result is the outcome of evaluating one filesystem entry.
type Result struct {
	Path    string
	Matched bool
	Err     error
}

type task struct {
	path  string
	depth int64
	entry fs.DirEntry
}

// Engine runs a parsed query over one or more directory trees.
type Engine struct {
	expr      query.Expr
	opts      Options
	evaluator *eval.Evaluator
	runID     string
}

// NewEngine creates an engine for the given normalized expression.
func NewEngine(expr query.Expr, opts Options) *Engine {
	if len(opts.Roots) == 0 {
		opts.Roots = []string{"."}
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.ReadTimeout <= 0 {
		opts.ReadTimeout = time.Second
	}
	return &Engine{
		expr:      expr,
		opts:      opts,
		evaluator: eval.NewEvaluator(opts.ReadTimeout),
		runID:     uuid.NewString(),
	}
}

// Run walks the roots and calls emit for every evaluated entry, from a
// single goroutine. An entry that fails to evaluate is emitted with its
// error; the walk continues. Run returns an error only when no root is
// usable, and returns the context's error when canceled.
func (e *Engine) Run(ctx context.Context, emit func(Result)) error {
	roots, err := e.usableRoots()
	if err != nil {
		return err
	}

	e.opts.Logger.Debugf("run %s: searching %s with %d workers",
		e.runID, strings.Join(roots, ", "), e.opts.Workers)

	tasks := make(chan task, e.opts.Workers*4)
	results := make(chan Result, e.opts.Workers*4)

	go func() {
		defer close(tasks)
		for _, root := range roots {
			e.produce(ctx, root, tasks, results)
		}
	}()

	var group errgroup.Group
	for i := 0; i < e.opts.Workers; i++ {
		group.Go(func() error {
			for t := range tasks {
				select {
				case <-ctx.Done():
					// Drain without evaluating so the producer is
					// never blocked on a full channel.
					continue
				default:
				}
				results <- e.evaluate(t)
			}
			return nil
		})
	}

	go func() {
		_ = group.Wait()
		close(results)
	}()

	for r := range results {
		emit(r)
	}

	e.opts.Logger.Debugf("run %s: done", e.runID)
	return ctx.Err()
}

// usableRoots stats each root and drops the ones that cannot be walked.
// All roots failing is fatal; the aggregated error names each of them.
func (e *Engine) usableRoots() ([]string, error) {
	var usable []string
	var merr *multierror.Error
	for _, root := range e.opts.Roots {
		info, err := os.Stat(root)
		if err != nil {
			merr = multierror.Append(merr, err)
			continue
		}
		if !info.IsDir() {
			merr = multierror.Append(merr, &EntryError{Path: root, Err: errNotADirectory})
			continue
		}
		usable = append(usable, root)
	}
	if len(usable) == 0 {
		return nil, merr.ErrorOrNil()
	}
	if merr != nil {
		for _, err := range merr.Errors {
			e.opts.Logger.Warnf("skipping root: %v", err)
		}
	}
	return usable, nil
}

func (e *Engine) produce(ctx context.Context, root string, tasks chan<- task, results chan<- Result) {
	matchers := e.loadIgnoreMatchers(root)

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if ctx.Err() != nil {
			return filepath.SkipAll
		}
		if err != nil {
			results <- Result{Path: path, Err: &EntryError{Path: path, Err: err}}
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil || rel == "." {
			tasks <- task{path: path, depth: 0, entry: d}
			return nil
		}
		depth := int64(strings.Count(rel, string(filepath.Separator)) + 1)

		if e.opts.IgnoreHidden && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		for _, m := range matchers {
			if m.Match(path, d.IsDir()) {
				if d.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
		}

		tasks <- task{path: path, depth: depth, entry: d}
		return nil
	})
	if walkErr != nil && walkErr != filepath.SkipAll {
		results <- Result{Path: root, Err: &EntryError{Path: root, Err: walkErr}}
	}
}

func (e *Engine) loadIgnoreMatchers(root string) []gitignore.IgnoreMatcher {
	var matchers []gitignore.IgnoreMatcher
	if e.opts.ReadGitIgnore {
		if m, err := gitignore.NewGitIgnore(filepath.Join(root, ".gitignore")); err == nil {
			matchers = append(matchers, m)
		}
	}
	if e.opts.ReadIgnore {
		if m, err := gitignore.NewGitIgnore(filepath.Join(root, ".ignore")); err == nil {
			matchers = append(matchers, m)
		}
	}
	return matchers
}

func (e *Engine) evaluate(t task) Result {
	info, err := t.entry.Info()
	if err != nil {
		return Result{Path: t.path, Err: &EntryError{Path: t.path, Err: err}}
	}
	snap := eval.NewSnapshot(t.path, t.depth, info)
	matched, err := e.evaluator.Evaluate(e.expr, snap)
	if err != nil {
		return Result{Path: t.path, Err: err}
	}
	return Result{Path: t.path, Matched: matched}
}
