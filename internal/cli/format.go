package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/alnah/pdftextfmt/internal/batch"
	"github.com/alnah/pdftextfmt/internal/config"
	"github.com/alnah/pdftextfmt/internal/extract"
	"github.com/alnah/pdftextfmt/internal/format"
)

// formatOptions holds parsed options for the format command.
type formatOptions struct {
	inputPath string
	outputDir string
	split     splitFlag
	force     bool
	stdout    bool
	verbose   bool
}

// FormatCmd creates the format command (format a single document).
// The env parameter provides injectable dependencies for testing.
func FormatCmd(env *Env) *cobra.Command {
	var opts formatOptions

	cmd := &cobra.Command{
		Use:   "format <file>",
		Short: "Format a single PDF or text file",
		Long: `Extract the text of one PDF (or read a UTF-8 .txt file), reflow it into
one sentence per line, and write it next to the other outputs.

With --stdout the formatted text is printed instead of written to a file.`,
		Example: `  pdftextfmt format paper.pdf
  pdftextfmt format notes.txt --split third -o ./out
  pdftextfmt format paper.pdf --stdout | less`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.inputPath = args[0]
			opts.verbose = verboseEnabled(cmd)

			// A single document has nothing to drain: the first signal cancels it.
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runFormat(ctx, env, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.outputDir, "output-dir", "o", "", "Output directory (default: output_dir setting)")
	cmd.Flags().VarP(&opts.split, "split", "s", "Split output: full, half, third (default: split_mode setting)")
	cmd.Flags().BoolVar(&opts.force, "force", false, "Overwrite existing output files")
	cmd.Flags().BoolVar(&opts.stdout, "stdout", false, "Print the formatted text instead of writing files")
	cmd.MarkFlagsMutuallyExclusive("stdout", "split")
	cmd.MarkFlagsMutuallyExclusive("stdout", "output-dir")

	return cmd
}

// runFormat executes the format command.
// Validation order: file exists -> extension -> settings -> split -> output dir.
func runFormat(ctx context.Context, env *Env, opts formatOptions) error {
	// === VALIDATION (fail-fast) ===

	if _, err := os.Stat(opts.inputPath); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrFileNotFound, opts.inputPath)
		}
		return fmt.Errorf("cannot access input file: %w", err)
	}

	if !extract.Supported(opts.inputPath) {
		return fmt.Errorf("%w: %s (supported: pdf, txt)", extract.ErrUnsupportedFormat, opts.inputPath)
	}

	cfg := loadSettings(env)
	ext := env.ExtractorFactory.NewExtractor()

	if opts.stdout {
		raw, err := ext.Extract(ctx, opts.inputPath)
		if err != nil {
			return err
		}
		fmt.Fprintln(env.Stdout, format.Format(raw, cfg.Options()))
		return nil
	}

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

	p := batch.NewProcessor(ext, outputDir,
		batch.WithFormatOptions(cfg.Options()),
		batch.WithSplitMode(mode),
		batch.WithOverwrite(opts.force),
		batch.WithNow(env.Now),
		batch.WithLogger(logger),
	)

	res := p.ProcessFile(ctx, opts.inputPath)
	if res.Err != nil {
		logger.Error("file failed", "file", opts.inputPath, "kind", res.Failure().String(), "err", res.Err)
		return res.Err
	}
	logger.Info("file done", "file", opts.inputPath, "parts", len(res.Outputs))

	fmt.Fprintf(env.Stderr, "Lines: %d -> %d\n", res.LinesBefore, res.LinesAfter)
	for _, out := range res.Outputs {
		fmt.Fprintf(env.Stderr, "Done: %s\n", out)
	}
	return nil
}
