package processor

import (
	"context"
	"io"
)

type remoteStorage interface {
	Upload(ctx context.Context, path string, data io.Reader, size int64, contentType string) (string, error)
	Remove(ctx context.Context, rawURL string) error
	Owns(rawURL string) bool
}
