package resolve

import "errors"

// Common error types returned by path assertions
var (
	ErrNotFound      = errors.New("path does not exist")
	ErrNotAFile      = errors.New("path is not a file")
	ErrNotADirectory = errors.New("path is not a directory")
)
