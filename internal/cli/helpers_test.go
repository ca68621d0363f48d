package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alnah/pdftextfmt/internal/config"
)

// ---------------------------------------------------------------------------
// syncBuffer - thread-safe bytes.Buffer for concurrent test output
// ---------------------------------------------------------------------------

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (n int, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// Compile-time check that syncBuffer implements io.Writer.
var _ io.Writer = (*syncBuffer)(nil)

// ---------------------------------------------------------------------------
// testMocks - convenience struct for grouping all mocks
// ---------------------------------------------------------------------------

type testMocks struct {
	configLoader *mockConfigLoader
	extractor    *mockExtractor
	logger       *mockLoggerFactory
}

func newTestMocks() *testMocks {
	return &testMocks{
		configLoader: &mockConfigLoader{},
		extractor:    &mockExtractor{},
		logger:       &mockLoggerFactory{},
	}
}

// ---------------------------------------------------------------------------
// testEnv - creates a fully mocked Env for testing
// ---------------------------------------------------------------------------

// testDate is the clock used by testEnv. Output names carry 20261014.
var testDate = time.Date(2026, 10, 14, 14, 30, 52, 0, time.UTC)

// testEnvOptions configures a test environment.
type testEnvOptions struct {
	stdout  io.Writer
	stderr  io.Writer
	getenv  func(string) string
	signals <-chan os.Signal
	mocks   *testMocks
}

// testEnvOption configures testEnv.
type testEnvOption func(*testEnvOptions)

func withTestStdout(w io.Writer) testEnvOption {
	return func(o *testEnvOptions) { o.stdout = w }
}

func withTestStderr(w io.Writer) testEnvOption {
	return func(o *testEnvOptions) { o.stderr = w }
}

func withTestGetenv(fn func(string) string) testEnvOption {
	return func(o *testEnvOptions) { o.getenv = fn }
}

func withTestSignals(ch <-chan os.Signal) testEnvOption {
	return func(o *testEnvOptions) { o.signals = ch }
}

// testEnv creates a test Env with all dependencies mocked.
// Returns the Env and the mocks for assertions.
func testEnv(opts ...testEnvOption) (*Env, *testMocks) {
	options := &testEnvOptions{
		stdout: &syncBuffer{},
		stderr: &syncBuffer{},
		getenv: staticEnv(nil),
		// Never sent on unless a test does it, so runBatch stays off the
		// process signals.
		signals: make(chan os.Signal),
		mocks:   newTestMocks(),
	}

	for _, opt := range opts {
		opt(options)
	}

	env := &Env{
		Stdout:           options.stdout,
		Stderr:           options.stderr,
		Getenv:           options.getenv,
		Now:              fixedTime(testDate),
		Signals:          options.signals,
		ConfigLoader:     options.mocks.configLoader,
		ExtractorFactory: &mockExtractorFactory{mockExtractor: options.mocks.extractor},
		LoggerFactory:    options.mocks.logger,
	}

	return env, options.mocks
}

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

// fixedTime returns a function that always returns the given time.
func fixedTime(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// staticEnv returns a getenv function that returns values from the given map.
func staticEnv(env map[string]string) func(string) string {
	return func(key string) string {
		return env[key]
	}
}

// createInputFile writes a placeholder input document and returns its path.
// The mock extractor decides what text it yields.
func createInputFile(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("%PDF-1.4 placeholder"), 0644); err != nil {
		t.Fatalf("failed to create input file: %v", err)
	}
	return path
}

// settingsWithOutputDir returns a ConfigLoader yielding defaults with the
// given output directory.
func settingsWithOutputDir(outputDir string) *mockConfigLoader {
	return &mockConfigLoader{
		LoadFunc: func(func(string) string) (config.Settings, bool, error) {
			s := config.Defaults()
			s.OutputDir = outputDir
			return s, false, nil
		},
	}
}

// waitForText polls w until it contains s. It reports false on timeout.
// Safe to call from any goroutine.
func waitForText(w *syncBuffer, s string) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if strings.Contains(w.String(), s) {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return false
}

// readOutput reads a written output file.
func readOutput(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read output %s: %v", path, err)
	}
	return string(data)
}
