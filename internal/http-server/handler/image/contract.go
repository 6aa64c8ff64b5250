package image

import (
	"context"

	"github.com/Louistrash/lucky-flirty-blackjack-chat-sub001/internal/domain"
	"github.com/Louistrash/lucky-flirty-blackjack-chat-sub001/internal/lib/dataurl"
)

type imagePipeline interface {
	OptimizeImage(ctx context.Context, data []byte, maxWidth int, quality float64, useCase domain.UseCase) (*domain.EncodedImage, error)
	UploadWithFallback(ctx context.Context, path string, data []byte, preferRemote bool) (*domain.StoredImage, error)
	CompressInline(ctx context.Context, s string, maxWidth int, quality float64) (string, error)
	Describe(s string) dataurl.Info
	EstimateEncodedSize(s string) int64
	Placeholder(kind domain.PlaceholderKind) ([]byte, error)
}
