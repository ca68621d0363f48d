package cli

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/alnah/pdftextfmt/internal/config"
	"github.com/alnah/pdftextfmt/internal/extract"
	"github.com/alnah/pdftextfmt/internal/logging"
)

// Env holds injectable dependencies for CLI commands.
// This is the central injection point for testing CLI commands in isolation.
//
// All fields have sensible defaults via DefaultEnv(). Tests can override
// specific fields using the With* options or by creating a custom Env.
//
// Env must not be nil when passed to command functions. Use DefaultEnv()
// or NewEnv() to create a valid instance.
type Env struct {
	// I/O and environment
	Stdout io.Writer
	Stderr io.Writer
	Getenv func(string) string
	Now    func() time.Time

	// Signals feeds the batch interrupt watcher. Nil subscribes to the
	// process signals.
	Signals <-chan os.Signal

	// Factories for domain objects
	ConfigLoader     ConfigLoader
	ExtractorFactory ExtractorFactory
	LoggerFactory    LoggerFactory
}

// ConfigLoader loads the settings file, writing defaults on first run.
// getenv resolves the settings location and the directory fallbacks.
type ConfigLoader interface {
	LoadOrInit(getenv func(string) string) (s config.Settings, created bool, err error)
}

// ExtractorFactory creates document text extractors.
type ExtractorFactory interface {
	NewExtractor() extract.Extractor
}

// LoggerFactory creates the run logger.
type LoggerFactory interface {
	NewLogger(opts logging.Options) (*slog.Logger, func() error, error)
}

// EnvOption configures an Env.
type EnvOption func(*Env)

// WithStdout sets the stdout writer.
func WithStdout(w io.Writer) EnvOption {
	return func(e *Env) {
		e.Stdout = w
	}
}

// WithStderr sets the stderr writer.
func WithStderr(w io.Writer) EnvOption {
	return func(e *Env) {
		e.Stderr = w
	}
}

// WithGetenv sets the environment variable getter.
func WithGetenv(fn func(string) string) EnvOption {
	return func(e *Env) {
		e.Getenv = fn
	}
}

// WithNow sets the time provider.
func WithNow(fn func() time.Time) EnvOption {
	return func(e *Env) {
		e.Now = fn
	}
}

// WithSignals sets the channel the batch command watches for interrupts.
func WithSignals(ch <-chan os.Signal) EnvOption {
	return func(e *Env) {
		e.Signals = ch
	}
}

// WithConfigLoader sets the config loader.
func WithConfigLoader(l ConfigLoader) EnvOption {
	return func(e *Env) {
		e.ConfigLoader = l
	}
}

// WithExtractorFactory sets the extractor factory.
func WithExtractorFactory(f ExtractorFactory) EnvOption {
	return func(e *Env) {
		e.ExtractorFactory = f
	}
}

// WithLoggerFactory sets the logger factory.
func WithLoggerFactory(f LoggerFactory) EnvOption {
	return func(e *Env) {
		e.LoggerFactory = f
	}
}

// DefaultEnv returns an Env with production defaults.
func DefaultEnv() *Env {
	return &Env{
		Stdout:           os.Stdout,
		Stderr:           os.Stderr,
		Getenv:           os.Getenv,
		Now:              time.Now,
		ConfigLoader:     &defaultConfigLoader{},
		ExtractorFactory: &defaultExtractorFactory{},
		LoggerFactory:    &defaultLoggerFactory{},
	}
}

// NewEnv creates an Env with the given options applied to defaults.
func NewEnv(opts ...EnvOption) *Env {
	env := DefaultEnv()
	for _, opt := range opts {
		opt(env)
	}
	return env
}

// ---------------------------------------------------------------------------
// Default implementations - delegate to real packages
// ---------------------------------------------------------------------------

// defaultConfigLoader implements ConfigLoader using the config package.
type defaultConfigLoader struct{}

func (defaultConfigLoader) LoadOrInit(getenv func(string) string) (config.Settings, bool, error) {
	return config.NewStore(getenv).LoadOrInit()
}

// defaultExtractorFactory implements ExtractorFactory with the file extractor.
type defaultExtractorFactory struct{}

func (defaultExtractorFactory) NewExtractor() extract.Extractor {
	return extract.NewFileExtractor()
}

// defaultLoggerFactory implements LoggerFactory using the logging package.
type defaultLoggerFactory struct{}

func (defaultLoggerFactory) NewLogger(opts logging.Options) (*slog.Logger, func() error, error) {
	return logging.New(opts)
}

// Compile-time interface verification.
var (
	_ ConfigLoader     = (*defaultConfigLoader)(nil)
	_ ExtractorFactory = (*defaultExtractorFactory)(nil)
	_ LoggerFactory    = (*defaultLoggerFactory)(nil)
)
