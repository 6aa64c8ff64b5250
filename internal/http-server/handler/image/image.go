package image

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/Louistrash/lucky-flirty-blackjack-chat-sub001/internal/domain"
	"github.com/Louistrash/lucky-flirty-blackjack-chat-sub001/internal/http-server/handler/image/dto"
	"github.com/Louistrash/lucky-flirty-blackjack-chat-sub001/internal/lib/dataurl"
	"github.com/Louistrash/lucky-flirty-blackjack-chat-sub001/internal/usecase/processor"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/wb-go/wbf/zlog"
)

const (
	maxMemory    = 32 << 20
	maxJSONBytes = 16 << 20
)

type ImageHandler struct {
	pipeline      imagePipeline
	validate      *validator.Validate
	logger        *zlog.Zerolog
	maxUploadSize int64
}

func NewImageHandler(pipeline imagePipeline, logger *zlog.Zerolog, maxUploadSize int64) *ImageHandler {
	if maxUploadSize <= 0 {
		maxUploadSize = domain.DefaultMaxUploadSize
	}
	return &ImageHandler{
		pipeline:      pipeline,
		validate:      validator.New(),
		logger:        logger,
		maxUploadSize: maxUploadSize,
	}
}

func (h *ImageHandler) Optimize(w http.ResponseWriter, r *http.Request) {
	data, err := ReadImageUpload(w, r, h.maxUploadSize)
	if err != nil {
		h.handleUploadError(w, err)
		return
	}

	req := dto.OptimizeRequest{
		MaxWidth: formInt(r, "max_width"),
		Quality:  formFloat(r, "quality"),
		UseCase:  r.FormValue("use_case"),
	}
	if err := h.validate.Struct(req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid optimize parameters", err)
		return
	}

	encoded, err := h.pipeline.OptimizeImage(r.Context(), data, req.MaxWidth, req.Quality, domain.UseCase(req.UseCase))
	if err != nil {
		h.handlePipelineError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, dto.OptimizeResponse{
		DataURL:   encoded.DataURL,
		Width:     encoded.Width,
		Height:    encoded.Height,
		Size:      encoded.Size,
		SizeHuman: dataurl.FormatSize(encoded.Size),
	})
}

func (h *ImageHandler) Upload(w http.ResponseWriter, r *http.Request) {
	data, err := ReadImageUpload(w, r, h.maxUploadSize)
	if err != nil {
		h.handleUploadError(w, err)
		return
	}

	req := dto.UploadRequest{
		Path:         strings.TrimSpace(r.FormValue("path")),
		PreferRemote: r.FormValue("prefer_remote") == "true",
	}
	if err := h.validate.Struct(req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Upload path is required", err)
		return
	}

	stored, err := h.pipeline.UploadWithFallback(r.Context(), req.Path, data, req.PreferRemote)
	if err != nil {
		h.handlePipelineError(w, err)
		return
	}

	h.logger.Info().
		Str("path", req.Path).
		Str("method", string(stored.Method)).
		Int64("size", stored.Size).
		Msg("Image stored")

	h.respondJSON(w, http.StatusCreated, StoredImageResponse(stored))
}

func (h *ImageHandler) Info(w http.ResponseWriter, r *http.Request) {
	var req dto.InfoRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBytes)).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid JSON body", err)
		return
	}

	info := h.pipeline.Describe(req.URL)
	resp := dto.InfoResponse{
		Kind:          string(info.Kind),
		Inline:        info.Kind == domain.ImageKindInline,
		Size:          info.Size,
		DisplayLength: info.DisplayLength,
		Short:         info.Short,
	}
	if resp.Inline {
		resp.EstimatedSize = h.pipeline.EstimateEncodedSize(req.URL)
	}

	h.respondJSON(w, http.StatusOK, resp)
}

func (h *ImageHandler) Compress(w http.ResponseWriter, r *http.Request) {
	var req dto.CompressRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBytes)).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid JSON body", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid compress parameters", err)
		return
	}

	if req.MaxWidth == 0 {
		req.MaxWidth = domain.CompactMaxWidth
	}
	if req.Quality == 0 {
		req.Quality = domain.CompactStageQuality
	}

	out, err := h.pipeline.CompressInline(r.Context(), req.URL, req.MaxWidth, req.Quality)
	if err != nil {
		h.handlePipelineError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, dto.CompressResponse{
		URL:        out,
		SizeBefore: h.pipeline.EstimateEncodedSize(req.URL),
		SizeAfter:  h.pipeline.EstimateEncodedSize(out),
	})
}

func (h *ImageHandler) Placeholder(w http.ResponseWriter, r *http.Request) {
	kind := domain.PlaceholderKind(chi.URLParam(r, "kind"))

	data, err := h.pipeline.Placeholder(kind)
	if err != nil {
		if errors.Is(err, processor.ErrUnknownPlaceholder) {
			h.respondError(w, http.StatusNotFound, "Unknown placeholder kind", nil)
			return
		}
		h.logger.Error().Err(err).Str("kind", string(kind)).Msg("Failed to render placeholder")
		h.respondError(w, http.StatusInternalServerError, "Failed to render placeholder", err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.logger.Error().Err(err).Str("kind", string(kind)).Msg("Failed to write placeholder")
	}
}

// ReadImageUpload reads the "file" part of a multipart request and checks
// that its content is an image.
func ReadImageUpload(w http.ResponseWriter, r *http.Request, maxSize int64) ([]byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+1<<20)

	if err := r.ParseMultipartForm(maxMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, ErrFileTooLarge
		}
		return nil, fmt.Errorf("%w: %v", ErrFileRequired, err)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, ErrFileRequired
	}
	defer file.Close()

	if header.Size > maxSize {
		return nil, ErrFileTooLarge
	}

	data, err := io.ReadAll(io.LimitReader(file, maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if int64(len(data)) > maxSize {
		return nil, ErrFileTooLarge
	}

	if !strings.HasPrefix(mimetype.Detect(data).String(), "image/") {
		return nil, ErrInvalidFileFormat
	}

	return data, nil
}

func StoredImageResponse(stored *domain.StoredImage) dto.StoredImageResponse {
	return dto.StoredImageResponse{
		URL:       stored.URL,
		Method:    string(stored.Method),
		Size:      stored.Size,
		SizeHuman: dataurl.FormatSize(stored.Size),
		Width:     stored.Width,
		Height:    stored.Height,
	}
}

func formInt(r *http.Request, key string) int {
	v, err := strconv.Atoi(strings.TrimSpace(r.FormValue(key)))
	if err != nil {
		return 0
	}
	return v
}

func formFloat(r *http.Request, key string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(r.FormValue(key)), 64)
	if err != nil {
		return 0
	}
	return v
}

func (h *ImageHandler) handleUploadError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrFileTooLarge):
		h.respondError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("File is too large (max %s)", dataurl.FormatSize(h.maxUploadSize)), nil)
	case errors.Is(err, ErrInvalidFileFormat):
		h.respondError(w, http.StatusUnsupportedMediaType, "File must be an image", nil)
	case errors.Is(err, ErrFileRequired):
		h.respondError(w, http.StatusBadRequest, "File is required", nil)
	default:
		h.logger.Error().Err(err).Msg("Failed to read upload")
		h.respondError(w, http.StatusInternalServerError, "Failed to read file", err)
	}
}

func (h *ImageHandler) handlePipelineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, processor.ErrDecodeFailure):
		h.respondError(w, http.StatusUnprocessableEntity, "Could not read the image, please try another file", err)
	case errors.Is(err, processor.ErrSurfaceUnavailable):
		h.respondError(w, http.StatusUnprocessableEntity, "Could not process the image right now, please try again", err)
	default:
		h.logger.Error().Err(err).Msg("Image pipeline failed")
		h.respondError(w, http.StatusInternalServerError, "Failed to process image", err)
	}
}

func (h *ImageHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error().Err(err).Msg("Failed to encode response")
	}
}

func (h *ImageHandler) respondError(w http.ResponseWriter, status int, message string, err error) {
	response := dto.ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
	}

	if err != nil {
		response.Details = err.Error()
	}

	h.respondJSON(w, status, response)
}
