package processor

import "errors"

var (
	ErrDecodeFailure      = errors.New("file is not a readable image")
	ErrSurfaceUnavailable = errors.New("rendering surface unavailable")
	ErrRemoteDisabled     = errors.New("remote storage is not configured")
	ErrUnknownPlaceholder = errors.New("unknown placeholder kind")
)
