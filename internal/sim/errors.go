package sim

import "errors"

var (
	ErrFrames       = errors.New("sim: frames must be positive")
	ErrStride       = errors.New("sim: stride must be non-negative")
	ErrInvalidField = errors.New("sim: field holds non-finite values")
)
