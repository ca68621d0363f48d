package cli

import "errors"

// CLI-specific sentinel errors.
// These are validation/usage errors that don't belong to domain packages.

var (
	// ErrFileNotFound indicates the specified input file does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrFolderRequired indicates batch was run without an input folder.
	ErrFolderRequired = errors.New("input folder is required")

	// ErrFilesFailed indicates a batch finished with at least one failed file.
	ErrFilesFailed = errors.New("some files failed")
)
