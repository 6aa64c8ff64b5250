package image

import "errors"

var (
	ErrFileRequired      = errors.New("file is required")
	ErrFileTooLarge      = errors.New("file too large")
	ErrInvalidFileFormat = errors.New("file must be an image")
)
