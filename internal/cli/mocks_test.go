package cli

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/alnah/pdftextfmt/internal/config"
	"github.com/alnah/pdftextfmt/internal/extract"
	"github.com/alnah/pdftextfmt/internal/logging"
)

// ---------------------------------------------------------------------------
// Mock ConfigLoader
// ---------------------------------------------------------------------------

type mockConfigLoader struct {
	LoadFunc func(getenv func(string) string) (config.Settings, bool, error)

	mu        sync.Mutex
	loadCalls int
}

func (m *mockConfigLoader) LoadOrInit(getenv func(string) string) (config.Settings, bool, error) {
	m.mu.Lock()
	m.loadCalls++
	m.mu.Unlock()

	if m.LoadFunc != nil {
		return m.LoadFunc(getenv)
	}
	return config.Defaults(), false, nil
}

func (m *mockConfigLoader) LoadCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loadCalls
}

// ---------------------------------------------------------------------------
// Mock ExtractorFactory + Extractor
// ---------------------------------------------------------------------------

type mockExtractorFactory struct {
	mockExtractor *mockExtractor
}

func (m *mockExtractorFactory) NewExtractor() extract.Extractor {
	if m.mockExtractor == nil {
		m.mockExtractor = &mockExtractor{}
	}
	return m.mockExtractor
}

type mockExtractor struct {
	// ExtractFunc overrides Texts when set.
	ExtractFunc func(ctx context.Context, path string) (string, error)
	// Texts maps a file base name to its text. Missing names yield ErrNoText.
	Texts map[string]string

	mu    sync.Mutex
	calls []string
}

func (m *mockExtractor) Extract(ctx context.Context, path string) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, path)
	m.mu.Unlock()

	if m.ExtractFunc != nil {
		return m.ExtractFunc(ctx, path)
	}
	if text, ok := m.Texts[filepath.Base(path)]; ok {
		return text, nil
	}
	return "", extract.ErrNoText
}

func (m *mockExtractor) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// ---------------------------------------------------------------------------
// Mock LoggerFactory
// ---------------------------------------------------------------------------

type mockLoggerFactory struct {
	mu    sync.Mutex
	calls []logging.Options
}

func (m *mockLoggerFactory) NewLogger(opts logging.Options) (*slog.Logger, func() error, error) {
	m.mu.Lock()
	m.calls = append(m.calls, opts)
	m.mu.Unlock()

	return logging.Discard(), func() error { return nil }, nil
}

func (m *mockLoggerFactory) Calls() []logging.Options {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]logging.Options(nil), m.calls...)
}

// Compile-time interface verification.
var (
	_ ConfigLoader      = (*mockConfigLoader)(nil)
	_ ExtractorFactory  = (*mockExtractorFactory)(nil)
	_ extract.Extractor = (*mockExtractor)(nil)
	_ LoggerFactory     = (*mockLoggerFactory)(nil)
)
