package config

import "errors"

var (
	// ErrUnknownKey indicates a settings key that Get and Set do not accept.
	ErrUnknownKey = errors.New("unknown settings key")

	// ErrInvalidValue indicates a value that cannot be stored under its key.
	ErrInvalidValue = errors.New("invalid settings value")
)
