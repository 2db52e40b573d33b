package batch

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedExtension = errors.New("unsupported file extension")
	ErrUndecodable          = errors.New("media could not be decoded")
	ErrEmptyUpload          = errors.New("empty upload")
)

// ValidationError rejects an upload before any processing or temp files.
type ValidationError struct {
	Filename  string
	Extension string
	Err       error
}

func (e *ValidationError) Error() string {
	if e.Extension != "" {
		return fmt.Sprintf("%s: %q (%s)", e.Err, e.Extension, e.Filename)
	}
	return fmt.Sprintf("%s: %s", e.Err, e.Filename)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
