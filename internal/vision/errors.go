package vision

import "errors"

var (
	ErrInvalidFrame    = errors.New("invalid frame")
	ErrCascadeNotFound = errors.New("cascade classifier could not be loaded")
	ErrModelNotFound   = errors.New("classification model could not be loaded")
	ErrInvalidScore    = errors.New("classifier produced no usable score")
	ErrPoolBusy        = errors.New("inference pool is full")
	ErrPoolClosed      = errors.New("inference pool is closed")
	ErrJobPanicked     = errors.New("inference job panicked")
)
