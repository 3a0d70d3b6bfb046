package domain

import "errors"

var (
	// ErrInvalidPath marks a root or requested path that is missing or outside the project.
	ErrInvalidPath = errors.New("invalid path")
	// ErrBaselineStore marks a baseline store that cannot be created, opened, read or written.
	ErrBaselineStore = errors.New("baseline store unavailable")
	// ErrInvalidConfig marks a configuration file that cannot be parsed or fails validation.
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrFileTooLarge is returned by content readers for files above the size cap.
	ErrFileTooLarge = errors.New("file exceeds size limit")
)
