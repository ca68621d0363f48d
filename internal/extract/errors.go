package extract

import "errors"

var (
	// ErrOpen indicates the input file could not be opened or parsed.
	ErrOpen = errors.New("cannot read document")

	// ErrNoText indicates the document was read but yielded no text.
	ErrNoText = errors.New("no text extracted")

	// ErrUnsupportedFormat indicates a file extension the extractor does not handle.
	ErrUnsupportedFormat = errors.New("unsupported input format")
)
