package cli

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/alnah/pdftextfmt/internal/batch"
	"github.com/alnah/pdftextfmt/internal/config"
	"github.com/alnah/pdftextfmt/internal/logging"
	"github.com/alnah/pdftextfmt/internal/split"
)

// FlagVerbose is the persistent root flag enabling debug logs.
const FlagVerbose = "verbose"

// verboseEnabled reads the inherited --verbose flag. It is false when the
// command tree does not define it.
func verboseEnabled(cmd *cobra.Command) bool {
	v, err := cmd.Flags().GetBool(FlagVerbose)
	return err == nil && v
}

// loadSettings loads the settings file. Failures are reported as warnings
// and built-in defaults are used instead.
func loadSettings(env *Env) config.Settings {
	cfg, created, err := env.ConfigLoader.LoadOrInit(env.Getenv)
	if err != nil {
		fmt.Fprintf(env.Stderr, "Warning: failed to load settings: %v\n", err)
	}
	if created {
		if p, err := settingsStore(env).Path(); err == nil {
			fmt.Fprintf(env.Stderr, "Created default settings: %s\n", p)
		}
	}
	return cfg
}

// settingsStore returns the settings store seen through env.Getenv.
func settingsStore(env *Env) *config.Store {
	return config.NewStore(env.Getenv)
}

// resolveMode returns the flag value when set, otherwise the configured mode.
func resolveMode(f splitFlag, cfg config.Settings) (split.Mode, error) {
	if f.set {
		return f.mode, nil
	}
	m, err := cfg.Mode()
	if err != nil {
		return split.Full, fmt.Errorf("invalid %s in settings: %w", config.KeySplitMode, err)
	}
	return m, nil
}

// clampParallel constrains the worker count to [1, config.MaxParallel].
// Zero means the configured value.
func clampParallel(n, configured int) int {
	if n == 0 {
		n = configured
	}
	if n < 1 {
		return 1
	}
	if n > config.MaxParallel {
		return config.MaxParallel
	}
	return n
}

// newRunLogger builds the logger for one command run. A log file that cannot
// be opened only disables file logging.
func newRunLogger(env *Env, cfg config.Settings, verbose bool) (*slog.Logger, func() error) {
	var dir string
	if cfg.LogDir != "" {
		dir = filepath.Clean(config.ExpandPath(cfg.LogDir))
	}
	logger, closeFn, err := env.LoggerFactory.NewLogger(logging.Options{
		Console: env.Stderr,
		Dir:     dir,
		Verbose: verbose,
		Now:     env.Now,
	})
	if err != nil {
		fmt.Fprintf(env.Stderr, "Warning: file logging disabled: %v\n", err)
	}
	return logger, closeFn
}

// printSummary writes one line per failed file followed by the totals.
// Files that were never started are only counted.
func printSummary(w io.Writer, s batch.Summary) {
	for _, r := range s.Results {
		if r.Err == nil || r.Failure() == batch.Skipped {
			continue
		}
		fmt.Fprintf(w, "  %s: %s: %v\n", filepath.Base(r.Source), r.Failure(), r.Err)
	}
	fmt.Fprintf(w, "Done: %d succeeded, %d failed\n", s.Succeeded(), s.Failed())
}
