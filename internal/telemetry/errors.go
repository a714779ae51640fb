package telemetry

import "errors"

var (
	ErrFrameSize = errors.New("invalid frame size")
	ErrFrameType = errors.New("unknown frame type")
)
