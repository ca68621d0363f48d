package cli

// Notes:
// - testEnv hands runBatch a private signal channel, so interrupts are sent
//   by the test and never reach the process.
// - The output directory is always passed explicitly so nothing is written
//   to the working directory.

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alnah/pdftextfmt/internal/batch"
	"github.com/alnah/pdftextfmt/internal/config"
	"github.com/alnah/pdftextfmt/internal/split"
)

// ---------------------------------------------------------------------------
// Tests for runBatch
// ---------------------------------------------------------------------------

func TestRunBatch_Success(t *testing.T) {
	t.Parallel()

	in, out := t.TempDir(), t.TempDir()
	createInputFile(t, in, "a.pdf")
	createInputFile(t, in, "b.PDF")
	createInputFile(t, in, "ignored.txt")

	stderr := &syncBuffer{}
	env, mocks := testEnv(withTestStderr(stderr))
	mocks.extractor.Texts = map[string]string{
		"a.pdf": "これは文です。次の文です。",
		"b.PDF": "一文だけ。",
	}

	err := RunBatch(context.Background(), env, BatchOptions{folder: in, outputDir: out})
	if err != nil {
		t.Fatalf("RunBatch() unexpected error: %v", err)
	}

	if got := readOutput(t, filepath.Join(out, "a_20261014_formatted.txt")); got != "これは文です。\n次の文です。" {
		t.Errorf("a output = %q", got)
	}
	if _, err := os.Stat(filepath.Join(out, "b_20261014_formatted.txt")); err != nil {
		t.Errorf("b output missing: %v", err)
	}
	if calls := mocks.extractor.Calls(); len(calls) != 2 {
		t.Errorf("extractor calls = %v, want 2 PDFs", calls)
	}
	if !strings.Contains(stderr.String(), "Done: 2 succeeded, 0 failed") {
		t.Errorf("stderr = %q, want summary line", stderr.String())
	}
}

func TestRunBatch_PartialFailure(t *testing.T) {
	t.Parallel()

	in, out := t.TempDir(), t.TempDir()
	createInputFile(t, in, "good.pdf")
	createInputFile(t, in, "scan.pdf")

	stderr := &syncBuffer{}
	env, mocks := testEnv(withTestStderr(stderr))
	mocks.extractor.Texts = map[string]string{"good.pdf": "本文。"}

	err := RunBatch(context.Background(), env, BatchOptions{folder: in, outputDir: out})
	if !errors.Is(err, ErrFilesFailed) {
		t.Fatalf("RunBatch() error = %v, want %v", err, ErrFilesFailed)
	}

	output := stderr.String()
	if !strings.Contains(output, "scan.pdf: extract") {
		t.Errorf("stderr = %q, want failure line for scan.pdf", output)
	}
	if !strings.Contains(output, "Done: 1 succeeded, 1 failed") {
		t.Errorf("stderr = %q, want summary line", output)
	}
	if _, err := os.Stat(filepath.Join(out, "good_20261014_formatted.txt")); err != nil {
		t.Errorf("good output missing: %v", err)
	}
}

func TestRunBatch_SplitFromSettings(t *testing.T) {
	t.Parallel()

	in, out := t.TempDir(), t.TempDir()
	createInputFile(t, in, "doc.pdf")

	env, mocks := testEnv()
	mocks.extractor.Texts = map[string]string{"doc.pdf": "これは文です。次の文です。"}
	mocks.configLoader.LoadFunc = func(func(string) string) (config.Settings, bool, error) {
		s := config.Defaults()
		s.SplitMode = split.TokenHalf
		return s, false, nil
	}

	if err := RunBatch(context.Background(), env, BatchOptions{folder: in, outputDir: out}); err != nil {
		t.Fatalf("RunBatch() unexpected error: %v", err)
	}

	if got := readOutput(t, filepath.Join(out, "doc_20261014_formatted_part1.txt")); got != "これは文です。" {
		t.Errorf("part1 = %q", got)
	}
	if got := readOutput(t, filepath.Join(out, "doc_20261014_formatted_part2.txt")); got != "次の文です。" {
		t.Errorf("part2 = %q", got)
	}
}

func TestRunBatch_FlagOverridesSettings(t *testing.T) {
	t.Parallel()

	in, out := t.TempDir(), t.TempDir()
	createInputFile(t, in, "doc.pdf")

	env, mocks := testEnv()
	mocks.extractor.Texts = map[string]string{"doc.pdf": "これは文です。次の文です。"}
	mocks.configLoader.LoadFunc = func(func(string) string) (config.Settings, bool, error) {
		s := config.Defaults()
		s.SplitMode = split.TokenHalf
		return s, false, nil
	}

	opts := BatchOptions{folder: in, outputDir: out, split: SplitFlag{mode: split.Full, set: true}}
	if err := RunBatch(context.Background(), env, opts); err != nil {
		t.Fatalf("RunBatch() unexpected error: %v", err)
	}

	if _, err := os.Stat(filepath.Join(out, "doc_20261014_formatted.txt")); err != nil {
		t.Errorf("expected a single unsplit output: %v", err)
	}
}

func TestRunBatch_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		folder   func(t *testing.T) string
		settings func(func(string) string) (config.Settings, bool, error)
		wantErr  error
	}{
		{
			name:    "folder required",
			folder:  func(t *testing.T) string { return "" },
			wantErr: ErrFolderRequired,
		},
		{
			name:    "folder missing",
			folder:  func(t *testing.T) string { return filepath.Join(t.TempDir(), "missing") },
			wantErr: batch.ErrNotDirectory,
		},
		{
			name:   "invalid split mode in settings",
			folder: func(t *testing.T) string { return t.TempDir() },
			settings: func(func(string) string) (config.Settings, bool, error) {
				s := config.Defaults()
				s.SplitMode = "quarter"
				return s, false, nil
			},
			wantErr: split.ErrUnknownMode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, mocks := testEnv()
			mocks.configLoader.LoadFunc = tt.settings

			err := RunBatch(context.Background(), env, BatchOptions{folder: tt.folder(t), outputDir: t.TempDir()})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("RunBatch() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRunBatch_Canceled(t *testing.T) {
	t.Parallel()

	in := t.TempDir()
	createInputFile(t, in, "a.pdf")

	env, mocks := testEnv()
	mocks.extractor.Texts = map[string]string{"a.pdf": "本文。"}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RunBatch(ctx, env, BatchOptions{folder: in, outputDir: t.TempDir()})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("RunBatch() error = %v, want %v", err, context.Canceled)
	}
	if calls := mocks.extractor.Calls(); len(calls) != 0 {
		t.Errorf("extractor calls = %v, want none", calls)
	}
}

func TestRunBatch_InterruptFinishesFileInProgress(t *testing.T) {
	t.Parallel()

	in, out := t.TempDir(), t.TempDir()
	for _, name := range []string{"a.pdf", "b.pdf", "c.pdf"} {
		createInputFile(t, in, name)
	}

	signals := make(chan os.Signal, 1)
	stderr := &syncBuffer{}
	env, mocks := testEnv(withTestStderr(stderr), withTestSignals(signals))

	noticed := make(chan bool, 1)
	mocks.extractor.ExtractFunc = func(ctx context.Context, path string) (string, error) {
		if filepath.Base(path) == "a.pdf" {
			signals <- os.Interrupt
			noticed <- waitForText(stderr, "finishing files in progress")
		}
		if err := ctx.Err(); err != nil {
			return "", err
		}
		return "本文。", nil
	}

	err := RunBatch(context.Background(), env, BatchOptions{folder: in, outputDir: out, parallel: 1})
	if !<-noticed {
		t.Fatalf("stderr = %q, want interrupt notice", stderr.String())
	}
	if !errors.Is(err, batch.ErrStopped) {
		t.Fatalf("RunBatch() error = %v, want %v", err, batch.ErrStopped)
	}
	if errors.Is(err, context.Canceled) {
		t.Errorf("RunBatch() error = %v, should not cancel the file in progress", err)
	}

	if got := readOutput(t, filepath.Join(out, "a_20261014_formatted.txt")); got != "本文。" {
		t.Errorf("a output = %q, want %q", got, "本文。")
	}
	if _, err := os.Stat(filepath.Join(out, "b_20261014_formatted.txt")); !os.IsNotExist(err) {
		t.Errorf("b output should not exist, stat error = %v", err)
	}
	if calls := mocks.extractor.Calls(); len(calls) != 1 {
		t.Errorf("extractor calls = %v, want only a.pdf", calls)
	}

	output := stderr.String()
	for _, want := range []string{"Done: 1 succeeded, 0 failed", "Interrupted: 2 file(s) not started"} {
		if !strings.Contains(output, want) {
			t.Errorf("stderr = %q, want %q", output, want)
		}
	}
	if strings.Contains(output, "b.pdf") {
		t.Errorf("stderr = %q, skipped files should not be listed", output)
	}
}

func TestRunBatch_LoggerOptions(t *testing.T) {
	t.Parallel()

	logDir := t.TempDir()
	env, mocks := testEnv()
	mocks.configLoader.LoadFunc = func(func(string) string) (config.Settings, bool, error) {
		s := config.Defaults()
		s.LogDir = logDir
		return s, false, nil
	}

	if err := RunBatch(context.Background(), env, BatchOptions{folder: t.TempDir(), outputDir: t.TempDir(), verbose: true}); err != nil {
		t.Fatalf("RunBatch() unexpected error: %v", err)
	}

	calls := mocks.logger.Calls()
	if len(calls) != 1 {
		t.Fatalf("NewLogger calls = %d, want 1", len(calls))
	}
	if !calls[0].Verbose || calls[0].Dir != logDir || calls[0].Console != env.Stderr {
		t.Errorf("NewLogger options = %+v", calls[0])
	}
}

// ---------------------------------------------------------------------------
// Tests for BatchCmd flag parsing
// ---------------------------------------------------------------------------

func TestBatchCmd_FlagErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		args        []string
		errContains string
	}{
		{"missing folder", []string{}, "required flag"},
		{"unknown split mode", []string{"--folder", ".", "--split", "quarter"}, "invalid argument"},
		{"split is case-sensitive", []string{"--folder", ".", "--split", "HALF"}, "invalid argument"},
		{"positional args rejected", []string{"extra"}, "unknown command"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, _ := testEnv()
			cmd := BatchCmd(env)
			cmd.SetArgs(tt.args)
			cmd.SetOut(io.Discard)
			cmd.SetErr(io.Discard)

			err := cmd.ExecuteContext(context.Background())
			if err == nil {
				t.Fatalf("BatchCmd %v expected error, got nil", tt.args)
			}
			if !strings.Contains(err.Error(), tt.errContains) {
				t.Errorf("BatchCmd %v error = %q, want containing %q", tt.args, err.Error(), tt.errContains)
			}
		})
	}
}
