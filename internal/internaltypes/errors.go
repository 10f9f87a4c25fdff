package internaltypes

import "errors"

var (
	ErrNotFound = errors.New("not found")
	// ErrCorrupt marks persisted draft content that could not be decoded.
	ErrCorrupt = errors.New("corrupt draft")
)
