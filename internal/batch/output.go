package batch

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DateLayout is the processing-date stamp in output names.
const DateLayout = "20060102"

// OutputName returns the file name of segment part (1-based) of total
// for the document base, e.g. "report_20261014_formatted_part2.txt".
// The part suffix is omitted when total is 1.
func OutputName(base string, date time.Time, part, total int) string {
	stamp := date.Format(DateLayout)
	if total <= 1 {
		return fmt.Sprintf("%s_%s_formatted.txt", base, stamp)
	}
	return fmt.Sprintf("%s_%s_formatted_part%d.txt", base, stamp, part)
}

// writeFile writes content to path. Unless overwrite is set it fails if the
// file already exists (O_EXCL). On write failure, the partial file is removed.
func writeFile(path, content string, overwrite bool) error {
	flags := os.O_CREATE | os.O_WRONLY | os.O_EXCL
	if overwrite {
		flags = os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	}

	// #nosec G302 G304 -- output file in user-chosen directory with standard permissions
	f, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%w: %s", ErrOutputExists, path)
		}
		return fmt.Errorf("cannot create output file: %w", err)
	}

	writeErr := func() error {
		defer func() { _ = f.Close() }()
		if _, err := f.WriteString(content); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}()

	if writeErr != nil {
		_ = os.Remove(path)
		return writeErr
	}
	return nil
}

// WriteSegments writes each segment into dir under the naming convention and
// returns the written paths in order. A document is written completely or
// not at all: unless overwrite is set, every target is checked before the
// first write, and files already written are removed when a later one fails.
func WriteSegments(dir, base string, date time.Time, segments []string, overwrite bool) ([]string, error) {
	if err := os.MkdirAll(dir, 0750); err != nil { // #nosec G301 -- user output dir
		return nil, fmt.Errorf("%w: cannot create output directory: %w", ErrWrite, err)
	}

	targets := make([]string, len(segments))
	for i := range segments {
		targets[i] = filepath.Join(dir, OutputName(base, date, i+1, len(segments)))
		if overwrite {
			continue
		}
		if _, err := os.Lstat(targets[i]); err == nil {
			return nil, fmt.Errorf("%w: %w: %s", ErrWrite, ErrOutputExists, targets[i])
		}
	}

	for i, seg := range segments {
		if err := writeFile(targets[i], seg, overwrite); err != nil {
			for _, p := range targets[:i] {
				_ = os.Remove(p)
			}
			return nil, fmt.Errorf("%w: %w", ErrWrite, err)
		}
	}
	return targets, nil
}
