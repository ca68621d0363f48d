package split

import "errors"

// ErrUnknownMode indicates a split mode token other than full, half or third.
var ErrUnknownMode = errors.New("unknown split mode")
