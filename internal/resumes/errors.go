package resumes

import "errors"

// A resume owned by another user is reported as ErrNotFound.
var (
	ErrNotFound     = errors.New("resume not found")
	ErrInvalidInput = errors.New("invalid input")
)
