package minio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/Louistrash/lucky-flirty-blackjack-chat-sub001/internal/config"
	"github.com/Louistrash/lucky-flirty-blackjack-chat-sub001/internal/repository/image"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/wb-go/wbf/zlog"
)

const (
	uploadTimeout = 15 * time.Second
	removeTimeout = 10 * time.Second
)

type FileRepository struct {
	client    *minio.Client
	bucket    string
	publicURL string
	logger    *zlog.Zerolog
}

// NewMinIORepository connects to the object store and creates the bucket when
// it is missing.
func NewMinIORepository(ctx context.Context, cfg config.MinIOConfig, logger *zlog.Zerolog) (*FileRepository, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init minio client: %w", err)
	}

	checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(checkCtx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(checkCtx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
		logger.Info().Str("bucket", cfg.Bucket).Msg("Bucket created")
	}

	return &FileRepository{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: publicBase(cfg),
		logger:    logger,
	}, nil
}

func publicBase(cfg config.MinIOConfig) string {
	if u := strings.TrimSpace(cfg.PublicURL); u != "" {
		return strings.TrimSuffix(u, "/")
	}
	scheme := "http"
	if cfg.UseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s", scheme, cfg.Endpoint)
}

// Upload stores data under <prefix>/<uuid><ext> and returns its public URL.
func (r *FileRepository) Upload(ctx context.Context, prefix string, data io.Reader, size int64, contentType string) (string, error) {
	ext, ok := extensionFor(contentType)
	if !ok {
		return "", fmt.Errorf("%w: %q", image.ErrUnsupportedType, contentType)
	}

	objectName := ObjectName(prefix, uuid.NewString()+ext)

	uploadCtx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	_, err := r.client.PutObject(uploadCtx, r.bucket, objectName, data, size, minio.PutObjectOptions{
		ContentType:  contentType,
		CacheControl: "public, max-age=604800",
	})
	if err != nil {
		return "", fmt.Errorf("%w: failed to upload %s: %v", image.ErrStorageError, objectName, err)
	}

	r.logger.Debug().Str("object", objectName).Int64("size", size).Msg("Object uploaded")
	return r.buildPublicURL(objectName), nil
}

// Remove deletes the object behind a URL produced by Upload. Foreign URLs are ignored.
func (r *FileRepository) Remove(ctx context.Context, rawURL string) error {
	objectName, ok := r.objectNameFromURL(rawURL)
	if !ok {
		return nil
	}
	return r.RemoveObject(ctx, objectName)
}

// PutObject stores data under an exact object name. Used for uploads waiting
// on the image worker.
func (r *FileRepository) PutObject(ctx context.Context, objectName string, data []byte, contentType string) error {
	uploadCtx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	_, err := r.client.PutObject(uploadCtx, r.bucket, objectName, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("%w: failed to upload %s: %v", image.ErrStorageError, objectName, err)
	}
	return nil
}

func (r *FileRepository) GetObject(ctx context.Context, objectName string) ([]byte, error) {
	getCtx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	obj, err := r.client.GetObject(getCtx, r.bucket, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get %s: %v", image.ErrStorageError, objectName, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, fmt.Errorf("%w: %s", image.ErrObjectNotFound, objectName)
		}
		return nil, fmt.Errorf("%w: failed to read %s: %v", image.ErrStorageError, objectName, err)
	}
	return data, nil
}

func (r *FileRepository) RemoveObject(ctx context.Context, objectName string) error {
	removeCtx, cancel := context.WithTimeout(ctx, removeTimeout)
	defer cancel()

	if err := r.client.RemoveObject(removeCtx, r.bucket, objectName, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("%w: failed to remove %s: %v", image.ErrStorageError, objectName, err)
	}
	return nil
}

func (r *FileRepository) Owns(rawURL string) bool {
	_, ok := r.objectNameFromURL(rawURL)
	return ok
}

func (r *FileRepository) buildPublicURL(objectName string) string {
	return fmt.Sprintf("%s/%s/%s", r.publicURL, r.bucket, strings.TrimPrefix(objectName, "/"))
}

func (r *FileRepository) objectNameFromURL(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", false
	}

	target, err := url.Parse(trimmed)
	if err != nil {
		return "", false
	}
	base, err := url.Parse(r.publicURL)
	if err != nil || base.Host == "" || base.Host != target.Host {
		return "", false
	}

	basePath := strings.TrimSuffix(base.Path, "/")
	if !strings.HasPrefix(target.Path, basePath+"/") {
		return "", false
	}
	candidate := strings.TrimPrefix(target.Path, basePath+"/")

	candidate, ok := strings.CutPrefix(candidate, r.bucket+"/")
	if !ok || candidate == "" {
		return "", false
	}
	return candidate, true
}

// ObjectName joins the cleaned path segments of prefix with name.
func ObjectName(prefix, name string) string {
	var segments []string
	for _, s := range strings.Split(prefix, "/") {
		s = strings.TrimSpace(s)
		if s != "" && s != "." && s != ".." {
			segments = append(segments, s)
		}
	}
	return path.Join(append(segments, name)...)
}

func extensionFor(contentType string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(contentType)) {
	case "image/png", "image/x-png":
		return ".png", true
	case "image/jpeg", "image/pjpeg":
		return ".jpg", true
	case "image/webp":
		return ".webp", true
	case "image/gif":
		return ".gif", true
	case "image/bmp", "image/x-ms-bmp":
		return ".bmp", true
	case "image/tiff":
		return ".tiff", true
	default:
		return "", false
	}
}
