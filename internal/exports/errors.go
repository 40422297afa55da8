package exports

import "errors"

var (
	ErrNotFound    = errors.New("export not found")
	ErrNotArchived = errors.New("export was not archived")
)
