// Package batch runs the extract, format, split and write pipeline over one
// file or every PDF in a folder.
//
// Per-file failures never abort a batch: they are recorded in the Summary
// and logged, and the remaining files are still processed. A batch stops
// early only when its drain channel closes (files not yet started are
// skipped) or its context is canceled (files in progress stop too).
package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/alnah/pdftextfmt/internal/extract"
	"github.com/alnah/pdftextfmt/internal/format"
	"github.com/alnah/pdftextfmt/internal/logging"
	"github.com/alnah/pdftextfmt/internal/split"
)

// DefaultParallel is the number of documents processed at once.
const DefaultParallel = 4

// Failure classifies why a file was not processed.
type Failure int

const (
	// NoFailure means every segment was written.
	NoFailure Failure = iota
	// ExtractFailure means no text was obtained from the document.
	ExtractFailure
	// WriteFailure means a segment could not be written.
	WriteFailure
	// Canceled means the file was started but its context was canceled.
	Canceled
	// Skipped means the batch was stopping before the file was started.
	Skipped
)

// String returns the string representation of the Failure.
func (f Failure) String() string {
	switch f {
	case NoFailure:
		return "none"
	case ExtractFailure:
		return "extract"
	case WriteFailure:
		return "write"
	case Canceled:
		return "canceled"
	case Skipped:
		return "skipped"
	default:
		return fmt.Sprintf("Failure(%d)", f)
	}
}

// Result describes the outcome for one input file.
type Result struct {
	Source      string
	Outputs     []string
	LinesBefore int
	LinesAfter  int
	Err         error
}

// Failure classifies r.Err.
func (r Result) Failure() Failure {
	switch {
	case r.Err == nil:
		return NoFailure
	case errors.Is(r.Err, ErrSkipped):
		return Skipped
	case errors.Is(r.Err, context.Canceled), errors.Is(r.Err, context.DeadlineExceeded):
		return Canceled
	case errors.Is(r.Err, ErrWrite):
		return WriteFailure
	default:
		return ExtractFailure
	}
}

// Summary collects the results of a batch in input order.
type Summary struct {
	Results []Result
}

// Succeeded returns the number of files fully written.
func (s Summary) Succeeded() int {
	return s.Count(NoFailure)
}

// Failed returns the number of files that were started but not fully written.
func (s Summary) Failed() int {
	return len(s.Results) - s.Succeeded() - s.Count(Skipped)
}

// Count returns the number of results with the given failure kind.
func (s Summary) Count(f Failure) int {
	n := 0
	for _, r := range s.Results {
		if r.Failure() == f {
			n++
		}
	}
	return n
}

// Processor runs the pipeline. Create one with NewProcessor.
type Processor struct {
	extractor extract.Extractor
	outputDir string
	opts      format.Options
	mode      split.Mode
	parallel  int
	overwrite bool
	now       func() time.Time
	logger    *slog.Logger
	drain     <-chan struct{}
}

// Option configures a Processor.
type Option func(*Processor)

// WithFormatOptions sets the formatting rules.
func WithFormatOptions(opts format.Options) Option {
	return func(p *Processor) {
		p.opts = opts
	}
}

// WithSplitMode sets how formatted text is partitioned.
func WithSplitMode(m split.Mode) Option {
	return func(p *Processor) {
		p.mode = m
	}
}

// WithParallel sets the number of documents processed at once. Values below 1 mean 1.
func WithParallel(n int) Option {
	return func(p *Processor) {
		p.parallel = max(n, 1)
	}
}

// WithOverwrite allows replacing existing output files.
func WithOverwrite(overwrite bool) Option {
	return func(p *Processor) {
		p.overwrite = overwrite
	}
}

// WithNow sets the clock used for the date in output names.
func WithNow(fn func() time.Time) Option {
	return func(p *Processor) {
		p.now = fn
	}
}

// WithLogger sets the logger for per-file events.
func WithLogger(l *slog.Logger) Option {
	return func(p *Processor) {
		p.logger = l
	}
}

// WithDrain sets a channel whose closing stops ProcessFolder from starting
// further files. Files already started keep running on the ProcessFolder
// context.
func WithDrain(done <-chan struct{}) Option {
	return func(p *Processor) {
		p.drain = done
	}
}

// NewProcessor returns a Processor writing into outputDir.
func NewProcessor(ext extract.Extractor, outputDir string, opts ...Option) *Processor {
	p := &Processor{
		extractor: ext,
		outputDir: outputDir,
		opts:      format.DefaultOptions(),
		mode:      split.Full,
		parallel:  DefaultParallel,
		now:       time.Now,
		logger:    logging.Discard(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ProcessFile extracts, formats, splits and writes one document.
// Errors are reported in the Result, never returned.
func (p *Processor) ProcessFile(ctx context.Context, path string) Result {
	res := Result{Source: path}
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}

	raw, err := p.extractor.Extract(ctx, path)
	if err != nil {
		res.Err = err
		return res
	}

	formatted := format.Format(raw, p.opts)
	res.LinesBefore = format.LineCount(raw)
	res.LinesAfter = format.LineCount(formatted)
	p.logger.Debug("formatted", "file", path, "lines_before", res.LinesBefore, "lines_after", res.LinesAfter)

	segments := split.Split(formatted, p.mode)
	res.Outputs, res.Err = WriteSegments(p.outputDir, base, p.now(), segments, p.overwrite)
	return res
}

// ProcessFolder processes every PDF directly inside dir, in name order.
// The returned error is non-nil when dir is unusable, or wraps ErrStopped
// when the batch was drained or ctx was canceled; files never started are
// then reported as Skipped.
func (p *Processor) ProcessFolder(ctx context.Context, dir string) (Summary, error) {
	files, err := ListPDFs(dir)
	if err != nil {
		return Summary{}, err
	}
	if len(files) == 0 {
		p.logger.Warn("no PDF files found", "folder", dir)
		return Summary{}, nil
	}

	p.logger.Info("batch started", "folder", dir, "files", len(files), "split", p.mode.String(), "parallel", p.parallel)

	results := make([]Result, len(files))
	g := new(errgroup.Group)
	g.SetLimit(p.parallel)

	for i, f := range files {
		if p.stopping(ctx) {
			results[i] = Result{Source: f, Err: ErrSkipped}
			continue
		}
		g.Go(func() error {
			// A slot may free up only after the stop.
			if p.stopping(ctx) {
				results[i] = Result{Source: f, Err: ErrSkipped}
				return nil
			}
			results[i] = p.ProcessFile(ctx, f)
			p.logResult(results[i])
			return nil
		})
	}
	_ = g.Wait()

	summary := Summary{Results: results}
	p.logger.Info("batch finished", "folder", dir, "succeeded", summary.Succeeded(), "failed", summary.Failed(), "skipped", summary.Count(Skipped))

	if p.stopping(ctx) {
		err := fmt.Errorf("%w after %d of %d files", ErrStopped, len(files)-summary.Count(Skipped), len(files))
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = fmt.Errorf("%w: %w", err, ctxErr)
		}
		return summary, err
	}
	return summary, nil
}

// stopping reports whether new files must not be started.
func (p *Processor) stopping(ctx context.Context) bool {
	if ctx.Err() != nil {
		return true
	}
	select {
	case <-p.drain:
		return true
	default:
		return false
	}
}

func (p *Processor) logResult(r Result) {
	name := filepath.Base(r.Source)
	switch r.Failure() {
	case NoFailure:
		p.logger.Info("file done", "file", name, "parts", len(r.Outputs))
	case Canceled:
		p.logger.Warn("file canceled", "file", name)
	default:
		p.logger.Error("file failed", "file", name, "kind", r.Failure().String(), "err", r.Err)
	}
}

// ListPDFs returns the PDF files directly inside dir, sorted by name.
// The extension match is case-insensitive.
func ListPDFs(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotDirectory, dir)
		}
		return nil, fmt.Errorf("cannot access folder: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot read folder: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.Type().IsRegular() && strings.EqualFold(filepath.Ext(e.Name()), extract.ExtPDF) {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	slices.Sort(files)
	return files, nil
}
