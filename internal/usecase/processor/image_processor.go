package processor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"strings"

	"github.com/Louistrash/lucky-flirty-blackjack-chat-sub001/internal/config"
	"github.com/Louistrash/lucky-flirty-blackjack-chat-sub001/internal/domain"
	"github.com/Louistrash/lucky-flirty-blackjack-chat-sub001/internal/lib/dataurl"
	"github.com/Louistrash/lucky-flirty-blackjack-chat-sub001/internal/usecase/processor/operations"

	"github.com/gabriel-vasile/mimetype"
	"github.com/wb-go/wbf/zlog"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

type placeholderSize struct {
	width, height int
}

var placeholderSizes = map[domain.PlaceholderKind]placeholderSize{
	domain.PlaceholderDealerCard: {300, 400},
	domain.PlaceholderAvatar:     {300, 300},
	domain.PlaceholderOutfit:     {192, 256},
}

type ImageProcessor struct {
	resizer       *operations.Resizer
	placeholder   *operations.Placeholder
	remote        remoteStorage
	inlineCeiling int64
	maxPixels     int
	logger        *zlog.Zerolog
}

// NewImageProcessor builds the pipeline. remote may be nil, in which case every
// upload is stored inline.
func NewImageProcessor(remote remoteStorage, cfg config.PipelineConfig, logger *zlog.Zerolog) *ImageProcessor {
	return &ImageProcessor{
		resizer:       operations.NewResizer(cfg.MaxPixels),
		placeholder:   operations.NewPlaceholder(),
		remote:        remote,
		inlineCeiling: cfg.InlineCeilingBytes,
		maxPixels:     cfg.MaxPixels,
		logger:        logger,
	}
}

// Optimize decodes data, scales it down to fit maxWidth x maxHeight and
// re-encodes it as an inline JPEG at the given quality.
func (p *ImageProcessor) Optimize(ctx context.Context, data []byte, maxWidth, maxHeight int, quality float64) (*domain.EncodedImage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img, err := p.decode(data)
	if err != nil {
		return nil, err
	}

	return p.render(img, maxWidth, maxHeight, quality)
}

func (p *ImageProcessor) OptimizeForForm(ctx context.Context, data []byte, maxWidth, maxHeight int, quality float64) (*domain.EncodedImage, error) {
	if maxWidth <= 0 {
		maxWidth = domain.DefaultFormMaxWidth
	}
	if maxHeight <= 0 {
		maxHeight = domain.DefaultFormMaxHeight
	}
	if quality <= 0 {
		quality = domain.DefaultFormQuality
	}

	encoded, err := p.Optimize(ctx, data, maxWidth, maxHeight, quality)
	if err != nil {
		return nil, err
	}

	if encoded.Size > domain.FormSizeWarnBytes {
		p.logger.Warn().
			Str("size", dataurl.FormatSize(encoded.Size)).
			Int("width", encoded.Width).
			Int("height", encoded.Height).
			Msg("Form image is still large after compression")
	}

	return encoded, nil
}

// OptimizeImage picks the form profile for small targets and the display
// profile otherwise.
func (p *ImageProcessor) OptimizeImage(ctx context.Context, data []byte, maxWidth int, quality float64, useCase domain.UseCase) (*domain.EncodedImage, error) {
	if maxWidth <= 0 {
		maxWidth = domain.DefaultDisplayMaxWidth
	}
	if quality <= 0 {
		quality = domain.DefaultDisplayQuality
	}

	if useCase == domain.UseCaseForm || maxWidth <= domain.FormWidthThreshold {
		return p.OptimizeForForm(ctx, data, maxWidth, maxWidth, math.Min(quality, domain.FormQualityCap))
	}

	return p.Optimize(ctx, data, maxWidth, maxWidth, quality)
}

// UploadWithFallback stores data remotely when preferRemote is set and the
// store accepts it; any remote failure is logged and replaced by an inline
// encoding. Only decode and surface errors reach the caller.
func (p *ImageProcessor) UploadWithFallback(ctx context.Context, path string, data []byte, preferRemote bool) (*domain.StoredImage, error) {
	mime := mimetype.Detect(data)
	if !strings.HasPrefix(mime.String(), "image/") {
		return nil, fmt.Errorf("%w: detected %s", ErrDecodeFailure, mime.String())
	}

	if preferRemote {
		url, err := p.uploadRemote(ctx, path, data, mime.String())
		if err == nil {
			p.logger.Info().
				Str("path", path).
				Str("method", string(domain.MethodRemote)).
				Int("size", len(data)).
				Msg("Image uploaded to remote storage")
			return &domain.StoredImage{
				URL:    url,
				Method: domain.MethodRemote,
				Size:   int64(len(data)),
			}, nil
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}

		p.logger.Warn().Err(err).Str("path", path).Msg("Remote upload failed, falling back to inline storage")
	}

	encoded, err := p.fallbackEncode(ctx, data)
	if err != nil {
		return nil, err
	}

	p.logger.Info().
		Str("path", path).
		Str("method", string(domain.MethodInline)).
		Str("size", dataurl.FormatSize(encoded.Size)).
		Msg("Image stored inline")

	return &domain.StoredImage{
		URL:    encoded.DataURL,
		Method: domain.MethodInline,
		Size:   encoded.Size,
		Width:  encoded.Width,
		Height: encoded.Height,
	}, nil
}

func (p *ImageProcessor) uploadRemote(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	if p.remote == nil {
		return "", ErrRemoteDisabled
	}

	url, err := p.remote.Upload(ctx, path, bytes.NewReader(data), int64(len(data)), contentType)
	if err != nil {
		return "", fmt.Errorf("failed to upload to remote storage: %w", err)
	}
	return url, nil
}

// fallbackEncode produces the inline representation and lowers the quality
// step by step while the result stays above the configured ceiling.
func (p *ImageProcessor) fallbackEncode(ctx context.Context, data []byte) (*domain.EncodedImage, error) {
	img, err := p.decode(data)
	if err != nil {
		return nil, err
	}

	maxWidth := domain.FallbackMaxWidth
	quality := domain.FallbackQuality

	best, err := p.render(img, maxWidth, maxWidth, quality)
	if err != nil {
		return nil, err
	}

	if p.inlineCeiling <= 0 {
		return best, nil
	}

	for best.Size > p.inlineCeiling && quality > domain.MinInlineQuality {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		quality = math.Max(quality*domain.InlineQualityStep, domain.MinInlineQuality)
		next, err := p.render(img, maxWidth, maxWidth, quality)
		if err != nil {
			return nil, err
		}
		if next.Size < best.Size {
			best = next
		}
	}

	if best.Size > p.inlineCeiling {
		p.logger.Warn().
			Str("size", dataurl.FormatSize(best.Size)).
			Str("ceiling", dataurl.FormatSize(p.inlineCeiling)).
			Msg("Inline image stays above the size ceiling")
	}

	return best, nil
}

// CompressInline re-optimizes an inline image; any other string is returned as is.
func (p *ImageProcessor) CompressInline(ctx context.Context, s string, maxWidth int, quality float64) (string, error) {
	if !dataurl.IsInline(s) {
		return s, nil
	}

	_, raw, err := dataurl.Decode(s)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecodeFailure, err)
	}

	encoded, err := p.Optimize(ctx, raw, maxWidth, maxWidth, quality)
	if err != nil {
		return "", err
	}

	p.logger.Debug().
		Str("before", dataurl.FormatSize(dataurl.EstimateSize(s))).
		Str("after", dataurl.FormatSize(encoded.Size)).
		Msg("Inline image compressed")

	return encoded.DataURL, nil
}

// ProcessImageURL keeps remote URLs intact and shrinks inline ones with the
// avatar or outfit stage profile.
func (p *ImageProcessor) ProcessImageURL(ctx context.Context, s string, avatar bool) (string, error) {
	if s == "" || !dataurl.IsInline(s) {
		return s, nil
	}

	quality := domain.CompactStageQuality
	if avatar {
		quality = domain.CompactAvatarQuality
	}
	return p.CompressInline(ctx, s, domain.CompactMaxWidth, quality)
}

// ReleaseImage deletes a remote object this pipeline uploaded. Inline strings
// and foreign URLs are left alone.
func (p *ImageProcessor) ReleaseImage(ctx context.Context, url string) error {
	if p.remote == nil || dataurl.IsInline(url) || !p.remote.Owns(url) {
		return nil
	}
	if err := p.remote.Remove(ctx, url); err != nil {
		return fmt.Errorf("failed to release image: %w", err)
	}
	return nil
}

func (p *ImageProcessor) EstimateEncodedSize(s string) int64 {
	return dataurl.EstimateSize(s)
}

func (p *ImageProcessor) IsInlineEncoding(s string) bool {
	return dataurl.IsInline(s)
}

func (p *ImageProcessor) Describe(s string) dataurl.Info {
	return dataurl.Describe(s)
}

func (p *ImageProcessor) Placeholder(kind domain.PlaceholderKind) ([]byte, error) {
	size, ok := placeholderSizes[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPlaceholder, kind)
	}

	data, err := p.placeholder.Render(size.width, size.height, operations.PlaceholderText)
	if err != nil {
		return nil, fmt.Errorf("failed to render placeholder: %w", err)
	}
	return data, nil
}

func (p *ImageProcessor) decode(data []byte) (image.Image, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeFailure, err)
	}
	if cfg.Width < 1 || cfg.Height < 1 {
		return nil, fmt.Errorf("%w: image has no pixels", ErrSurfaceUnavailable)
	}
	if p.maxPixels > 0 && cfg.Width*cfg.Height > p.maxPixels {
		return nil, fmt.Errorf("%w: %dx%d exceeds pixel budget", ErrSurfaceUnavailable, cfg.Width, cfg.Height)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeFailure, err)
	}

	p.logger.Debug().
		Str("format", format).
		Int("width", cfg.Width).
		Int("height", cfg.Height).
		Msg("Image decoded")

	return img, nil
}

func (p *ImageProcessor) render(img image.Image, maxWidth, maxHeight int, quality float64) (*domain.EncodedImage, error) {
	bounds := img.Bounds()
	width, height := operations.FitWithin(bounds.Dx(), bounds.Dy(), maxWidth, maxHeight)

	canvas, err := p.resizer.Scale(img, width, height)
	if err != nil {
		if errors.Is(err, operations.ErrEmptyTarget) || errors.Is(err, operations.ErrTooLarge) {
			return nil, fmt.Errorf("%w: %v", ErrSurfaceUnavailable, err)
		}
		return nil, fmt.Errorf("failed to scale image: %w", err)
	}

	encoded, err := operations.EncodeJPEG(canvas, quality)
	if err != nil {
		return nil, err
	}

	s := dataurl.Encode(domain.InlineMimeType, encoded)
	return &domain.EncodedImage{
		DataURL: s,
		Width:   width,
		Height:  height,
		Size:    dataurl.EstimateSize(s),
	}, nil
}
