package batch

import "errors"

var (
	// ErrNotDirectory indicates the batch input path is not a directory.
	ErrNotDirectory = errors.New("not a directory")

	// ErrWrite indicates a formatted segment could not be written.
	ErrWrite = errors.New("cannot write output")

	// ErrOutputExists indicates an output file already exists and overwriting is off.
	ErrOutputExists = errors.New("output file already exists")

	// ErrSkipped marks a file that was not started because the batch was stopping.
	ErrSkipped = errors.New("not started")

	// ErrStopped indicates a batch ended early on interrupt or cancellation.
	ErrStopped = errors.New("batch stopped")
)
