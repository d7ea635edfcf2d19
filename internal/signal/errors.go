package signal

import "errors"

// ErrInvalidFrame is returned for a nil frame or a frame with no pixels.
var ErrInvalidFrame = errors.New("invalid frame")
