package dealer

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Louistrash/lucky-flirty-blackjack-chat-sub001/internal/domain"
	"github.com/Louistrash/lucky-flirty-blackjack-chat-sub001/internal/http-server/handler/dealer/dto"
	imageHandler "github.com/Louistrash/lucky-flirty-blackjack-chat-sub001/internal/http-server/handler/image"
	"github.com/Louistrash/lucky-flirty-blackjack-chat-sub001/internal/usecase/dealer"
	"github.com/Louistrash/lucky-flirty-blackjack-chat-sub001/internal/usecase/processor"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/wb-go/wbf/zlog"
)

const (
	maxBodyBytes   = 64 << 20
	placeholderURL = "/api/images/placeholder/" + string(domain.PlaceholderDealerCard)
)

type DealerHandler struct {
	usecase       dealerUsecase
	validate      *validator.Validate
	logger        *zlog.Zerolog
	maxUploadSize int64
	carouselSize  int
}

func NewDealerHandler(usecase dealerUsecase, logger *zlog.Zerolog, maxUploadSize int64, carouselSize int) *DealerHandler {
	if maxUploadSize <= 0 {
		maxUploadSize = domain.DefaultMaxUploadSize
	}
	if carouselSize <= 0 {
		carouselSize = domain.DefaultCarouselSize
	}
	return &DealerHandler{
		usecase:       usecase,
		validate:      validator.New(),
		logger:        logger,
		maxUploadSize: maxUploadSize,
		carouselSize:  carouselSize,
	}
}

func (h *DealerHandler) List(w http.ResponseWriter, r *http.Request) {
	dealers, err := h.usecase.ListDealers(r.Context())
	if err != nil {
		h.handleDealerError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, dto.DealerListResponse{Dealers: dealers, Count: len(dealers)})
}

func (h *DealerHandler) Get(w http.ResponseWriter, r *http.Request) {
	d, err := h.usecase.GetDealer(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleDealerError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, d)
}

func (h *DealerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateDealerRequest
	if !h.decode(w, r, &req) {
		return
	}

	d, err := h.usecase.CreateDealer(r.Context(), req.ToDomain())
	if err != nil {
		h.handleDealerError(w, err)
		return
	}

	h.logger.Info().Str("dealer_id", d.ID).Str("name", d.Name).Msg("Dealer created via API")
	h.respondJSON(w, http.StatusCreated, d)
}

func (h *DealerHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateDealerRequest
	if !h.decode(w, r, &req) {
		return
	}

	d, err := h.usecase.UpdateDealer(r.Context(), chi.URLParam(r, "id"), req.ToDomain())
	if err != nil {
		h.handleDealerError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, d)
}

func (h *DealerHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	var req dto.StatusRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.usecase.SetDealerStatus(r.Context(), chi.URLParam(r, "id"), *req.IsActive); err != nil {
		h.handleDealerError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *DealerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.usecase.DeleteDealer(r.Context(), id); err != nil {
		h.handleDealerError(w, err)
		return
	}

	h.logger.Info().Str("dealer_id", id).Msg("Dealer deleted via API")
	w.WriteHeader(http.StatusNoContent)
}

func (h *DealerHandler) Eligibility(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ok, reason, err := h.usecase.CheckEligibility(r.Context(), id)
	if err != nil {
		h.handleDealerError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, dto.EligibilityResponse{DealerID: id, Eligible: ok, Reason: reason})
}

func (h *DealerHandler) PrimaryImage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	url, err := h.usecase.PrimaryImage(r.Context(), id)
	if err != nil {
		h.handleDealerError(w, err)
		return
	}

	resp := dto.PrimaryImageResponse{DealerID: id, ImageURL: url}
	if url == "" {
		resp.IsPlaceholder = true
		resp.PlaceholderURL = placeholderURL
	}
	h.respondJSON(w, http.StatusOK, resp)
}

// UploadImage stores an image into the avatar or one stage slot. With
// async=true the upload is queued and processed by the worker.
func (h *DealerHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	slot, err := ParseSlot(chi.URLParam(r, "slot"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error(), "slot", nil)
		return
	}

	data, err := imageHandler.ReadImageUpload(w, r, h.maxUploadSize)
	if err != nil {
		h.handleUploadError(w, err)
		return
	}

	if r.URL.Query().Get("async") == "true" {
		task, err := h.usecase.QueueDealerImage(r.Context(), id, slot, data, mimetype.Detect(data).String())
		if err != nil {
			h.handleDealerError(w, err)
			return
		}
		h.respondJSON(w, http.StatusAccepted, dto.QueuedImageResponse{
			TaskID:   task.ID,
			DealerID: task.DealerID,
			Path:     task.Path,
			Status:   "queued",
		})
		return
	}

	stored, err := h.usecase.UploadDealerImage(r.Context(), id, slot, data)
	if err != nil {
		h.handleDealerError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, imageHandler.StoredImageResponse(stored))
}

func (h *DealerHandler) Compact(w http.ResponseWriter, r *http.Request) {
	d, err := h.usecase.CompactImages(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleDealerError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, d)
}

func (h *DealerHandler) Convert(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	n, err := h.usecase.ConvertInlineImages(r.Context(), id)
	if err != nil {
		h.handleDealerError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, dto.ConvertResponse{DealerID: id, Converted: n})
}

func (h *DealerHandler) Carousel(w http.ResponseWriter, r *http.Request) {
	dealers, err := h.usecase.Carousel(r.Context())
	if err != nil {
		h.handleDealerError(w, err)
		return
	}
	h.respondCarousel(w, dealers)
}

func (h *DealerHandler) SaveCarousel(w http.ResponseWriter, r *http.Request) {
	var req dto.CarouselOrderRequest
	if !h.decode(w, r, &req) {
		return
	}

	dealers, err := h.usecase.SaveCarouselOrder(r.Context(), req.DealerIDs)
	if err != nil {
		h.handleDealerError(w, err)
		return
	}
	h.respondCarousel(w, dealers)
}

func (h *DealerHandler) AddToCarousel(w http.ResponseWriter, r *http.Request) {
	var req dto.SelectionRequest
	if !h.decode(w, r, &req) {
		return
	}

	dealers, err := h.usecase.AddToSelection(r.Context(), req.Current, req.DealerID)
	if err != nil {
		h.handleDealerError(w, err)
		return
	}
	h.respondCarousel(w, dealers)
}

func (h *DealerHandler) RemoveFromCarousel(w http.ResponseWriter, r *http.Request) {
	var req dto.SelectionRequest
	if !h.decode(w, r, &req) {
		return
	}

	dealers, err := h.usecase.RemoveFromSelection(r.Context(), req.Current, req.DealerID)
	if err != nil {
		h.handleDealerError(w, err)
		return
	}
	h.respondCarousel(w, dealers)
}

func (h *DealerHandler) SyncLocal(w http.ResponseWriter, r *http.Request) {
	report, err := h.usecase.SyncLocalToRemote(r.Context())
	if err != nil {
		h.handleDealerError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, report)
}

func (h *DealerHandler) ExportLocal(w http.ResponseWriter, r *http.Request) {
	snap, err := h.usecase.ExportLocal(r.Context())
	if err != nil {
		h.handleDealerError(w, err)
		return
	}

	filename := fmt.Sprintf("dealers-backup-%s.json", snap.ExportDate.Format("2006-01-02"))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	h.respondJSON(w, http.StatusOK, snap)
}

func (h *DealerHandler) ImportLocal(w http.ResponseWriter, r *http.Request) {
	var snap domain.LocalSnapshot
	if !h.decode(w, r, &snap) {
		return
	}

	if err := h.usecase.ImportLocal(r.Context(), &snap); err != nil {
		h.handleDealerError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, dto.DealerListResponse{Dealers: snap.Dealers, Count: len(snap.Dealers)})
}

func (h *DealerHandler) ResetLocal(w http.ResponseWriter, r *http.Request) {
	if err := h.usecase.ResetLocal(r.Context()); err != nil {
		h.handleDealerError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *DealerHandler) Admin(w http.ResponseWriter, r *http.Request) {
	uid := chi.URLParam(r, "uid")
	h.respondJSON(w, http.StatusOK, dto.AdminResponse{UID: uid, IsAdmin: h.usecase.IsAdmin(r.Context(), uid)})
}

func (h *DealerHandler) AddAdmin(w http.ResponseWriter, r *http.Request) {
	uid := chi.URLParam(r, "uid")
	if err := h.usecase.AddAdmin(r.Context(), uid); err != nil {
		h.handleDealerError(w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, dto.AdminResponse{UID: uid, IsAdmin: true})
}

// ParseSlot accepts "avatar" or a stage index.
func ParseSlot(s string) (domain.ImageSlot, error) {
	if s == "avatar" {
		return domain.ImageSlot{Avatar: true}, nil
	}
	idx, err := strconv.Atoi(s)
	if err != nil || idx < 0 || idx >= domain.OutfitStageCount {
		return domain.ImageSlot{}, ErrInvalidSlot
	}
	return domain.ImageSlot{StageIndex: idx}, nil
}

func (h *DealerHandler) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid JSON body", "", err)
		return false
	}
	if err := h.validate.Struct(v); err != nil {
		var invalid *validator.InvalidValidationError
		if errors.As(err, &invalid) {
			return true
		}
		h.respondError(w, http.StatusBadRequest, "Invalid request", "", err)
		return false
	}
	return true
}

func (h *DealerHandler) respondCarousel(w http.ResponseWriter, dealers []domain.Dealer) {
	if dealers == nil {
		dealers = []domain.Dealer{}
	}
	h.respondJSON(w, http.StatusOK, dto.CarouselResponse{
		Dealers: dealers,
		Count:   len(dealers),
		MaxSize: h.carouselSize,
	})
}

func (h *DealerHandler) handleUploadError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, imageHandler.ErrFileTooLarge):
		h.respondError(w, http.StatusRequestEntityTooLarge, "File is too large", "file", nil)
	case errors.Is(err, imageHandler.ErrInvalidFileFormat):
		h.respondError(w, http.StatusUnsupportedMediaType, "File must be an image", "file", nil)
	case errors.Is(err, imageHandler.ErrFileRequired):
		h.respondError(w, http.StatusBadRequest, "File is required", "file", nil)
	default:
		h.logger.Error().Err(err).Msg("Failed to read upload")
		h.respondError(w, http.StatusInternalServerError, "Failed to read file", "", err)
	}
}

func (h *DealerHandler) handleDealerError(w http.ResponseWriter, err error) {
	var verr *dealer.ValidationError

	switch {
	case errors.As(err, &verr):
		h.logger.Info().Str("field", verr.Field).Str("reason", verr.Reason).Msg("Dealer rejected")
		h.respondError(w, http.StatusUnprocessableEntity, verr.Reason, verr.Field, nil)
	case errors.Is(err, dealer.ErrDealerNotFound):
		h.respondError(w, http.StatusNotFound, "Dealer not found", "", nil)
	case errors.Is(err, dealer.ErrCapacityExceeded):
		h.respondError(w, http.StatusConflict, fmt.Sprintf("Carousel is full (maximum %d dealers)", h.carouselSize), "", nil)
	case errors.Is(err, dealer.ErrDuplicateEntry):
		h.respondError(w, http.StatusConflict, "Dealer is already in the carousel", "", nil)
	case errors.Is(err, dealer.ErrIDExhausted):
		h.respondError(w, http.StatusConflict, "Could not allocate a unique dealer ID, please try again", "id", nil)
	case errors.Is(err, dealer.ErrImmutableID):
		h.respondError(w, http.StatusBadRequest, "Dealer ID cannot be changed", "id", nil)
	case errors.Is(err, dealer.ErrInvalidSlot):
		h.respondError(w, http.StatusBadRequest, "Invalid image slot", "slot", nil)
	case errors.Is(err, dealer.ErrUnsupportedExport):
		h.respondError(w, http.StatusBadRequest, "Unsupported backup version", "version", err)
	case errors.Is(err, dealer.ErrQueueUnavailable):
		h.respondError(w, http.StatusServiceUnavailable, "Background processing is not available", "", nil)
	case errors.Is(err, processor.ErrDecodeFailure):
		h.respondError(w, http.StatusUnprocessableEntity, "Could not read the image, please try another file", "file", nil)
	case errors.Is(err, processor.ErrSurfaceUnavailable):
		h.respondError(w, http.StatusUnprocessableEntity, "Could not process the image right now, please try again", "file", nil)
	default:
		h.logger.Error().Err(err).Msg("Dealer request failed")
		h.respondError(w, http.StatusInternalServerError, "Internal server error", "", nil)
	}
}

func (h *DealerHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error().Err(err).Msg("Failed to encode response")
	}
}

func (h *DealerHandler) respondError(w http.ResponseWriter, status int, message, field string, err error) {
	response := dto.ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Field:   field,
	}

	if err != nil {
		response.Details = err.Error()
	}

	h.respondJSON(w, status, response)
}
