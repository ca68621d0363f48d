// Package logging builds the process logger: human-readable records on the
// console and, when a log directory is configured, the same records appended
// to a daily file at {dir}/{YYYYMMDD}/run.log.
package logging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// FileName is the log file created inside each daily directory.
const FileName = "run.log"

// dateLayout names the daily directory.
const dateLayout = "20060102"

// Options configures New.
type Options struct {
	// Console receives records; nil disables console output.
	Console io.Writer
	// Dir is the log root; empty disables the file log.
	Dir string
	// Verbose lowers the level to debug.
	Verbose bool
	// Now is used to name the daily directory. Defaults to time.Now.
	Now func() time.Time
}

// New returns a logger and a function closing the log file.
// The close function is never nil.
func New(opts Options) (*slog.Logger, func() error, error) {
	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	hopts := &slog.HandlerOptions{Level: level}

	var handlers []slog.Handler
	if opts.Console != nil {
		handlers = append(handlers, slog.NewTextHandler(opts.Console, hopts))
	}

	closeFn := func() error { return nil }
	if opts.Dir != "" {
		now := opts.Now
		if now == nil {
			now = time.Now
		}
		f, err := openDaily(opts.Dir, now())
		if err != nil {
			return slog.New(fanout(handlers)), closeFn, err
		}
		handlers = append(handlers, slog.NewTextHandler(f, hopts))
		closeFn = f.Close
	}

	return slog.New(fanout(handlers)), closeFn, nil
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

// Path returns the log file path for the given day.
func Path(dir string, day time.Time) string {
	return filepath.Join(dir, day.Format(dateLayout), FileName)
}

func openDaily(dir string, day time.Time) (*os.File, error) {
	p := Path(dir, day)
	if err := os.MkdirAll(filepath.Dir(p), 0750); err != nil { // #nosec G301 -- log dir
		return nil, fmt.Errorf("cannot create log directory: %w", err)
	}
	// #nosec G302 G304 -- log file with standard permissions
	f, err := os.OpenFile(p, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("cannot open log file: %w", err)
	}
	return f, nil
}

// multiHandler sends every record to each of its handlers.
type multiHandler []slog.Handler

func fanout(hs []slog.Handler) slog.Handler {
	if len(hs) == 1 {
		return hs[0]
	}
	return multiHandler(hs)
}

func (m multiHandler) Enabled(ctx context.Context, l slog.Level) bool {
	for _, h := range m {
		if h.Enabled(ctx, l) {
			return true
		}
	}
	return false
}

func (m multiHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range m {
		if h.Enabled(ctx, r.Level) {
			errs = append(errs, h.Handle(ctx, r.Clone()))
		}
	}
	return errors.Join(errs...)
}

func (m multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(multiHandler, len(m))
	for i, h := range m {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (m multiHandler) WithGroup(name string) slog.Handler {
	out := make(multiHandler, len(m))
	for i, h := range m {
		out[i] = h.WithGroup(name)
	}
	return out
}
