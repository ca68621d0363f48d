package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alnah/pdftextfmt/internal/batch"
	"github.com/alnah/pdftextfmt/internal/config"
	"github.com/alnah/pdftextfmt/internal/interrupt"
)

// batchOptions holds parsed options for the batch command.
type batchOptions struct {
	folder    string
	outputDir string
	split     splitFlag
	parallel  int
	force     bool
	verbose   bool
}

// BatchCmd creates the batch command (format every PDF in a folder).
// The env parameter provides injectable dependencies for testing.
func BatchCmd(env *Env) *cobra.Command {
	var opts batchOptions

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Format every PDF in a folder",
		Long: `Extract the text of every PDF directly inside a folder, reflow it into
one sentence per line, and write the result as text files.

Files are written as <name>_<YYYYMMDD>_formatted.txt, or with a _partN suffix
when --split divides the text. A file that fails is reported and the rest
of the batch continues.

Press Ctrl+C once to stop after the files in progress, and again within
two seconds to cancel them.`,
		Example: `  pdftextfmt batch --folder ~/papers
  pdftextfmt batch -f ./scans --split half -o ./out
  pdftextfmt batch -f ./docs --parallel 8 --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.verbose = verboseEnabled(cmd)
			return runBatch(cmd.Context(), env, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.folder, "folder", "f", "", "Folder containing PDF files (required)")
	cmd.Flags().StringVarP(&opts.outputDir, "output-dir", "o", "", "Output directory (default: output_dir setting)")
	cmd.Flags().VarP(&opts.split, "split", "s", "Split output: full, half, third (default: split_mode setting)")
	cmd.Flags().IntVarP(&opts.parallel, "parallel", "p", 0, fmt.Sprintf("Files processed at once, 1-%d (default: parallel setting)", config.MaxParallel))
	cmd.Flags().BoolVar(&opts.force, "force", false, "Overwrite existing output files")

	// Error is ignored: MarkFlagRequired only fails if flag doesn't exist.
	_ = cmd.MarkFlagRequired("folder")

	return cmd
}

// runBatch executes the batch command.
func runBatch(ctx context.Context, env *Env, opts batchOptions) error {
	// === VALIDATION (fail-fast) ===

	if opts.folder == "" {
		return ErrFolderRequired
	}
	folder := config.ExpandPath(opts.folder)

	cfg := loadSettings(env)

	mode, err := resolveMode(opts.split, cfg)
	if err != nil {
		return err
	}

	outputDir := config.ResolveOutputDir(opts.outputDir, cfg.OutputDir)
	if err := config.EnsureOutputDir(outputDir); err != nil {
		return fmt.Errorf("invalid output directory: %w", err)
	}

	// === RUN ===

	logger, closeLog := newRunLogger(env, cfg, opts.verbose)
	defer func() { _ = closeLog() }()

	watcher, drain, work := interrupt.Watch(ctx, interrupt.Config{
		Signals: env.Signals,
		Now:     env.Now,
		Stderr:  env.Stderr,
	})
	defer watcher.Close()

	p := batch.NewProcessor(env.ExtractorFactory.NewExtractor(), outputDir,
		batch.WithFormatOptions(cfg.Options()),
		batch.WithSplitMode(mode),
		batch.WithParallel(clampParallel(opts.parallel, cfg.Parallel)),
		batch.WithOverwrite(opts.force),
		batch.WithNow(env.Now),
		batch.WithLogger(logger),
		batch.WithDrain(drain.Done()),
	)

	fmt.Fprintf(env.Stderr, "Formatting PDFs in %s -> %s (split: %s)\n", folder, outputDir, mode)

	summary, err := p.ProcessFolder(work, folder)
	if err != nil && !errors.Is(err, batch.ErrStopped) {
		return err
	}

	printSummary(env.Stderr, summary)

	if err != nil {
		if n := summary.Count(batch.Skipped); watcher.Draining() && n > 0 {
			fmt.Fprintf(env.Stderr, "Interrupted: %d file(s) not started\n", n)
		}
		return fmt.Errorf("interrupted: %w", err)
	}
	if summary.Failed() > 0 {
		return fmt.Errorf("%w: %d of %d", ErrFilesFailed, summary.Failed(), len(summary.Results))
	}
	return nil
}
