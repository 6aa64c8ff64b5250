package image

import "errors"

var (
	ErrStorageError    = errors.New("storage error")
	ErrUnsupportedType = errors.New("unsupported content type")
	ErrObjectNotFound  = errors.New("object not found")
)
