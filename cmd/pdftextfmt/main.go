package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/alnah/pdftextfmt/internal/batch"
	"github.com/alnah/pdftextfmt/internal/cli"
	"github.com/alnah/pdftextfmt/internal/config"
	"github.com/alnah/pdftextfmt/internal/extract"
	"github.com/alnah/pdftextfmt/internal/interrupt"
	"github.com/alnah/pdftextfmt/internal/split"
)

// Injected at build time via ldflags.
var (
	version = "dev"
	commit  = "unknown"
)

// Exit codes.
const (
	ExitOK         = 0
	ExitGeneral    = 1
	ExitUsage      = 2
	ExitValidation = 4
	ExitProcessing = 5
	ExitInterrupt  = interrupt.ExitInterrupt
)

func main() {
	// Load .env file if present (ignore error if missing).
	_ = godotenv.Load()

	// Commands install their own signal handling: batch drains on the first
	// interrupt, format cancels.
	env := cli.DefaultEnv()
	rootCmd := newRootCmd(env)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCode(err))
	}
}

// newRootCmd assembles the command tree.
func newRootCmd(env *cli.Env) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pdftextfmt",
		Short: "Reflow text extracted from Japanese PDFs into one sentence per line",
		Long: `pdftextfmt extracts the text layer of PDF files and rewrites it for
reading and further processing: hard line wraps are joined, sentences are
broken after 。 (and optionally ． or English periods), bullet lines and
paragraphs are kept, and 「quoted」 speech is kept together.`,
		Version: fmt.Sprintf("%s (commit: %s)", version, commit),
		// Silence Cobra's default error/usage printing; we handle it ourselves.
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	rootCmd.PersistentFlags().BoolP(cli.FlagVerbose, "v", false, "Enable debug logging")

	rootCmd.AddCommand(cli.BatchCmd(env))
	rootCmd.AddCommand(cli.FormatCmd(env))
	rootCmd.AddCommand(cli.ConfigCmd(env))

	return rootCmd
}

// exitCode maps errors to process exit codes.
func exitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	// Check for context cancellation or a drained batch (interrupt).
	if errors.Is(err, context.Canceled) || errors.Is(err, batch.ErrStopped) {
		return ExitInterrupt
	}

	// Validation errors (ExitValidation = 4). Checked before usage patterns so
	// a bad split token reads the same from a flag or from the settings file.
	if errors.Is(err, split.ErrUnknownMode) || errors.Is(err, batch.ErrNotDirectory) ||
		errors.Is(err, cli.ErrFileNotFound) || errors.Is(err, cli.ErrFolderRequired) ||
		errors.Is(err, extract.ErrUnsupportedFormat) || errors.Is(err, config.ErrUnknownKey) ||
		errors.Is(err, config.ErrInvalidValue) {
		return ExitValidation
	}

	// Usage errors (ExitUsage = 2): Cobra flag/arg parsing errors.
	// Cobra doesn't expose typed errors, so we check for known error message patterns.
	if isCobraUsageError(err) {
		return ExitUsage
	}

	// Processing errors of a single document (ExitProcessing = 5).
	if errors.Is(err, extract.ErrOpen) || errors.Is(err, extract.ErrNoText) ||
		errors.Is(err, batch.ErrWrite) {
		return ExitProcessing
	}

	return ExitGeneral
}

// cobraUsageErrorPatterns contains error message substrings that indicate Cobra usage errors.
// These patterns are stable across Cobra versions (tested with v1.8+).
// Cobra doesn't expose typed errors, so string matching is the only reliable approach.
var cobraUsageErrorPatterns = []string{
	"required flag",             // Missing required flag
	"unknown flag",              // Flag doesn't exist
	"unknown shorthand",         // Short flag doesn't exist
	"unknown command",           // Positional argument on a command taking none
	"flag needs an argument",    // Flag provided without value
	"invalid argument",          // Invalid flag value
	"if any flags in the group", // Mutually exclusive flag violation
	"accepts ",                  // Wrong number of arguments (e.g., "accepts 1 arg(s)")
	"requires at least",         // Too few arguments
	"requires at most",          // Too many arguments
}

// isCobraUsageError checks if an error is a Cobra usage/parsing error.
func isCobraUsageError(err error) bool {
	if err == nil {
		return false
	}
	errMsg := err.Error()
	for _, pattern := range cobraUsageErrorPatterns {
		if strings.Contains(errMsg, pattern) {
			return true
		}
	}
	return false
}
