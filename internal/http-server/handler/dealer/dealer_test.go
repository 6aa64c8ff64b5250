package dealer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Louistrash/lucky-flirty-blackjack-chat-sub001/internal/domain"
	"github.com/Louistrash/lucky-flirty-blackjack-chat-sub001/internal/http-server/handler/dealer/dto"
	"github.com/Louistrash/lucky-flirty-blackjack-chat-sub001/internal/usecase/dealer"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wb-go/wbf/zlog"
)

type fakeUsecase struct {
	dealers  map[string]domain.Dealer
	err      error
	created  domain.DealerInput
	patch    domain.DealerPatch
	status   *bool
	slot     domain.ImageSlot
	queued   bool
	saved    []string
	imported *domain.LocalSnapshot
	admins   map[string]bool
}

func newFakeUsecase() *fakeUsecase {
	return &fakeUsecase{
		dealers: map[string]domain.Dealer{
			"dealer_ava_0001": {ID: "dealer_ava_0001", Name: "Ava", AvatarURL: "https://cdn/ava.jpg", IsActive: true},
			"dealer_mia_0002": {ID: "dealer_mia_0002", Name: "Mia", IsActive: true},
		},
		admins: map[string]bool{"root": true},
	}
}

func (f *fakeUsecase) get(id string) (*domain.Dealer, error) {
	if f.err != nil {
		return nil, f.err
	}
	d, ok := f.dealers[id]
	if !ok {
		return nil, dealer.ErrDealerNotFound
	}
	return &d, nil
}

func (f *fakeUsecase) ListDealers(context.Context) ([]domain.Dealer, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []domain.Dealer{f.dealers["dealer_ava_0001"], f.dealers["dealer_mia_0002"]}, nil
}

func (f *fakeUsecase) GetDealer(_ context.Context, id string) (*domain.Dealer, error) {
	return f.get(id)
}

func (f *fakeUsecase) CreateDealer(_ context.Context, in domain.DealerInput) (*domain.Dealer, error) {
	f.created = in
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Dealer{ID: "dealer_new_4321", Name: in.Name, AvatarURL: in.AvatarURL, IsActive: in.IsActive}, nil
}

func (f *fakeUsecase) UpdateDealer(_ context.Context, id string, patch domain.DealerPatch) (*domain.Dealer, error) {
	f.patch = patch
	if patch.ID != nil && *patch.ID != id {
		return nil, dealer.ErrImmutableID
	}
	return f.get(id)
}

func (f *fakeUsecase) SetDealerStatus(_ context.Context, id string, active bool) error {
	f.status = &active
	_, err := f.get(id)
	return err
}

func (f *fakeUsecase) DeleteDealer(_ context.Context, id string) error {
	_, err := f.get(id)
	return err
}

func (f *fakeUsecase) CheckEligibility(_ context.Context, id string) (bool, string, error) {
	d, err := f.get(id)
	if err != nil {
		return false, "", err
	}
	ok, reason := dealer.IsCarouselEligible(d)
	return ok, reason, nil
}

func (f *fakeUsecase) PrimaryImage(_ context.Context, id string) (string, error) {
	d, err := f.get(id)
	if err != nil {
		return "", err
	}
	return dealer.PrimaryImage(d), nil
}

func (f *fakeUsecase) IsAdmin(_ context.Context, uid string) bool {
	return f.admins[uid]
}

func (f *fakeUsecase) AddAdmin(_ context.Context, uid string) error {
	if strings.TrimSpace(uid) == "" {
		return &dealer.ValidationError{Field: "uid", Reason: "User ID is required"}
	}
	f.admins[uid] = true
	return nil
}

func (f *fakeUsecase) UploadDealerImage(_ context.Context, id string, slot domain.ImageSlot, data []byte) (*domain.StoredImage, error) {
	f.slot = slot
	if _, err := f.get(id); err != nil {
		return nil, err
	}
	return &domain.StoredImage{URL: "data:image/jpeg;base64,QUJD", Method: domain.MethodInline, Size: int64(len(data))}, nil
}

func (f *fakeUsecase) QueueDealerImage(_ context.Context, id string, slot domain.ImageSlot, _ []byte, _ string) (*domain.ImageTask, error) {
	f.slot = slot
	f.queued = true
	if f.err != nil {
		return nil, f.err
	}
	return &domain.ImageTask{ID: "task-1", DealerID: id, Path: "dealers/" + id + "/avatar"}, nil
}

func (f *fakeUsecase) CompactImages(_ context.Context, id string) (*domain.Dealer, error) {
	return f.get(id)
}

func (f *fakeUsecase) ConvertInlineImages(_ context.Context, id string) (int, error) {
	if _, err := f.get(id); err != nil {
		return 0, err
	}
	return 2, nil
}

func (f *fakeUsecase) Carousel(ctx context.Context) ([]domain.Dealer, error) {
	return f.ListDealers(ctx)
}

func (f *fakeUsecase) AddToSelection(_ context.Context, current []string, id string) ([]domain.Dealer, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]domain.Dealer, 0, len(current)+1)
	for _, c := range append(current, id) {
		out = append(out, f.dealers[c])
	}
	return out, nil
}

func (f *fakeUsecase) RemoveFromSelection(_ context.Context, current []string, id string) ([]domain.Dealer, error) {
	out := make([]domain.Dealer, 0, len(current))
	for _, c := range current {
		if c != id {
			out = append(out, f.dealers[c])
		}
	}
	return out, nil
}

func (f *fakeUsecase) SaveCarouselOrder(_ context.Context, ids []string) ([]domain.Dealer, error) {
	f.saved = ids
	if f.err != nil {
		return nil, f.err
	}
	return nil, nil
}

func (f *fakeUsecase) SyncLocalToRemote(context.Context) (*domain.SyncReport, error) {
	return &domain.SyncReport{Synced: 1, Errors: []string{}}, nil
}

func (f *fakeUsecase) ExportLocal(context.Context) (*domain.LocalSnapshot, error) {
	return &domain.LocalSnapshot{
		Dealers:    []domain.Dealer{},
		ExportDate: time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC),
		Version:    domain.LocalSnapshotVersion,
	}, nil
}

func (f *fakeUsecase) ImportLocal(_ context.Context, snap *domain.LocalSnapshot) error {
	f.imported = snap
	if snap.Version != "" && snap.Version != domain.LocalSnapshotVersion {
		return fmt.Errorf("%w: %s", dealer.ErrUnsupportedExport, snap.Version)
	}
	return nil
}

func (f *fakeUsecase) ResetLocal(context.Context) error {
	return f.err
}

func newTestRouter(uc *fakeUsecase) http.Handler {
	zlog.Init()
	h := NewDealerHandler(uc, &zlog.Logger, 1<<20, 17)

	r := chi.NewRouter()
	r.Get("/dealers", h.List)
	r.Post("/dealers", h.Create)
	r.Get("/dealers/{id}", h.Get)
	r.Put("/dealers/{id}", h.Update)
	r.Delete("/dealers/{id}", h.Delete)
	r.Patch("/dealers/{id}/status", h.SetStatus)
	r.Get("/dealers/{id}/eligibility", h.Eligibility)
	r.Get("/dealers/{id}/primary-image", h.PrimaryImage)
	r.Post("/dealers/{id}/images/{slot}", h.UploadImage)
	r.Post("/dealers/{id}/convert", h.Convert)
	r.Get("/carousel", h.Carousel)
	r.Put("/carousel", h.SaveCarousel)
	r.Post("/carousel/add", h.AddToCarousel)
	r.Post("/carousel/remove", h.RemoveFromCarousel)
	r.Get("/local/export", h.ExportLocal)
	r.Post("/local/import", h.ImportLocal)
	r.Get("/admins/{uid}", h.Admin)
	r.Post("/admins/{uid}", h.AddAdmin)
	return r
}

func do(t *testing.T, srv http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(method, target, strings.NewReader(body)))
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var resp dto.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func imageUpload(t *testing.T, target string) *http.Request {
	t.Helper()
	var img bytes.Buffer
	require.NoError(t, png.Encode(&img, image.NewRGBA(image.Rect(0, 0, 2, 2))))

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "avatar.png")
	require.NoError(t, err)
	_, err = fw.Write(img.Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestListDealers(t *testing.T) {
	rec := do(t, newTestRouter(newFakeUsecase()), http.MethodGet, "/dealers", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp dto.DealerListResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, "Ava", resp.Dealers[0].Name)
}

func TestGetDealerNotFound(t *testing.T) {
	rec := do(t, newTestRouter(newFakeUsecase()), http.MethodGet, "/dealers/missing", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Dealer not found", decodeError(t, rec).Message)
}

func TestCreateDealer(t *testing.T) {
	uc := newFakeUsecase()
	body := `{"name":"Nova","avatar_url":"https://cdn/nova.jpg","is_active":true,
		"outfit_stages":[{"stage_name":"Professional (Casino)","image_url":"","personality_prompt":"calm"}]}`

	rec := do(t, newTestRouter(uc), http.MethodPost, "/dealers", body)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Nova", uc.created.Name)
	require.Len(t, uc.created.OutfitStages, 1)
	assert.Equal(t, "calm", uc.created.OutfitStages[0].PersonalityPrompt)
}

func TestCreateDealerValidation(t *testing.T) {
	uc := newFakeUsecase()
	uc.err = &dealer.ValidationError{Field: "image", Reason: dealer.ReasonImageRequired}

	rec := do(t, newTestRouter(uc), http.MethodPost, "/dealers", `{"name":"Nova"}`)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, dealer.ReasonImageRequired, resp.Message)
	assert.Equal(t, "image", resp.Field)
}

func TestCreateDealerBadBody(t *testing.T) {
	srv := newTestRouter(newFakeUsecase())

	assert.Equal(t, http.StatusBadRequest, do(t, srv, http.MethodPost, "/dealers", `{"name":`).Code)

	tooMany := `{"name":"Nova","outfit_stages":[{},{},{},{},{},{},{}]}`
	assert.Equal(t, http.StatusBadRequest, do(t, srv, http.MethodPost, "/dealers", tooMany).Code)
}

func TestUpdateDealerImmutableID(t *testing.T) {
	rec := do(t, newTestRouter(newFakeUsecase()), http.MethodPut, "/dealers/dealer_ava_0001", `{"id":"dealer_other_0001"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "id", decodeError(t, rec).Field)
}

func TestSetStatus(t *testing.T) {
	uc := newFakeUsecase()
	srv := newTestRouter(uc)

	rec := do(t, srv, http.MethodPatch, "/dealers/dealer_ava_0001/status", `{"is_active":false}`)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	require.NotNil(t, uc.status)
	assert.False(t, *uc.status)

	rec = do(t, srv, http.MethodPatch, "/dealers/dealer_ava_0001/status", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEligibility(t *testing.T) {
	srv := newTestRouter(newFakeUsecase())

	rec := do(t, srv, http.MethodGet, "/dealers/dealer_mia_0002/eligibility", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp dto.EligibilityResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.False(t, resp.Eligible)
	assert.Equal(t, dealer.ReasonImageRequired, resp.Reason)
}

func TestPrimaryImagePlaceholder(t *testing.T) {
	srv := newTestRouter(newFakeUsecase())

	rec := do(t, srv, http.MethodGet, "/dealers/dealer_mia_0002/primary-image", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp dto.PrimaryImageResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.IsPlaceholder)
	assert.Equal(t, "/api/images/placeholder/dealer_card", resp.PlaceholderURL)

	rec = do(t, srv, http.MethodGet, "/dealers/dealer_ava_0001/primary-image", "")
	resp = dto.PrimaryImageResponse{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.False(t, resp.IsPlaceholder)
	assert.Equal(t, "https://cdn/ava.jpg", resp.ImageURL)
}

func TestUploadImage(t *testing.T) {
	uc := newFakeUsecase()
	srv := newTestRouter(uc)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, imageUpload(t, "/dealers/dealer_ava_0001/images/3"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.ImageSlot{StageIndex: 3}, uc.slot)
	assert.False(t, uc.queued)
}

func TestUploadImageAsync(t *testing.T) {
	uc := newFakeUsecase()
	srv := newTestRouter(uc)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, imageUpload(t, "/dealers/dealer_ava_0001/images/avatar?async=true"))
	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.True(t, uc.queued)
	assert.True(t, uc.slot.Avatar)

	var resp dto.QueuedImageResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "task-1", resp.TaskID)
	assert.Equal(t, "queued", resp.Status)
}

func TestUploadImageQueueUnavailable(t *testing.T) {
	uc := newFakeUsecase()
	uc.err = dealer.ErrQueueUnavailable

	rec := httptest.NewRecorder()
	newTestRouter(uc).ServeHTTP(rec, imageUpload(t, "/dealers/dealer_ava_0001/images/avatar?async=true"))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestUploadImageInvalidSlot(t *testing.T) {
	for _, slot := range []string{"6", "-1", "banner"} {
		rec := httptest.NewRecorder()
		newTestRouter(newFakeUsecase()).ServeHTTP(rec, imageUpload(t, "/dealers/dealer_ava_0001/images/"+slot))
		assert.Equal(t, http.StatusBadRequest, rec.Code, slot)
	}
}

func TestConvert(t *testing.T) {
	rec := do(t, newTestRouter(newFakeUsecase()), http.MethodPost, "/dealers/dealer_ava_0001/convert", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp dto.ConvertResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 2, resp.Converted)
}

func TestCarousel(t *testing.T) {
	rec := do(t, newTestRouter(newFakeUsecase()), http.MethodGet, "/carousel", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp dto.CarouselResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, 17, resp.MaxSize)
}

func TestSaveCarouselEmpty(t *testing.T) {
	uc := newFakeUsecase()
	rec := do(t, newTestRouter(uc), http.MethodPut, "/carousel", `{"dealer_ids":[]}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, uc.saved)
	assert.Contains(t, rec.Body.String(), `"dealers":[]`)
}

func TestCarouselSelectionErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{name: "full", err: fmt.Errorf("%w: maximum 17 dealers", dealer.ErrCapacityExceeded), status: http.StatusConflict},
		{name: "duplicate", err: dealer.ErrDuplicateEntry, status: http.StatusConflict},
		{name: "unknown dealer", err: dealer.ErrDealerNotFound, status: http.StatusNotFound},
		{name: "ineligible", err: &dealer.ValidationError{Field: "name", Reason: dealer.ReasonNameRequired}, status: http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := newFakeUsecase()
			uc.err = tt.err
			rec := do(t, newTestRouter(uc), http.MethodPost, "/carousel/add", `{"current":["dealer_ava_0001"],"dealer_id":"dealer_mia_0002"}`)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestCarouselAddRemove(t *testing.T) {
	srv := newTestRouter(newFakeUsecase())

	rec := do(t, srv, http.MethodPost, "/carousel/add", `{"current":["dealer_ava_0001"],"dealer_id":"dealer_mia_0002"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp dto.CarouselResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 2, resp.Count)

	rec = do(t, srv, http.MethodPost, "/carousel/remove", `{"current":["dealer_ava_0001","dealer_mia_0002"],"dealer_id":"dealer_ava_0001"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	resp = dto.CarouselResponse{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, "dealer_mia_0002", resp.Dealers[0].ID)

	rec = do(t, srv, http.MethodPost, "/carousel/add", `{"current":[]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportLocal(t *testing.T) {
	rec := do(t, newTestRouter(newFakeUsecase()), http.MethodGet, "/local/export", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename="dealers-backup-2024-06-10.json"`, rec.Header().Get("Content-Disposition"))

	var snap domain.LocalSnapshot
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&snap))
	assert.Equal(t, "1.0", snap.Version)
}

func TestImportLocal(t *testing.T) {
	uc := newFakeUsecase()
	srv := newTestRouter(uc)

	rec := do(t, srv, http.MethodPost, "/local/import", `{"dealers":[{"id":"dealer_x_0001","name":"X"}],"version":"1.0"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, uc.imported)
	assert.Len(t, uc.imported.Dealers, 1)

	rec = do(t, srv, http.MethodPost, "/local/import", `{"dealers":[],"version":"9.9"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "version", decodeError(t, rec).Field)
}

func TestAdmin(t *testing.T) {
	srv := newTestRouter(newFakeUsecase())

	var resp dto.AdminResponse
	rec := do(t, srv, http.MethodGet, "/admins/root", "")
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.IsAdmin)

	resp = dto.AdminResponse{}
	rec = do(t, srv, http.MethodGet, "/admins/guest", "")
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.False(t, resp.IsAdmin)
}

func TestAddAdmin(t *testing.T) {
	uc := newFakeUsecase()
	srv := newTestRouter(uc)

	rec := do(t, srv, http.MethodPost, "/admins/uid-9", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, uc.admins["uid-9"])

	var resp dto.AdminResponse
	rec = do(t, srv, http.MethodGet, "/admins/uid-9", "")
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.IsAdmin)

	rec = do(t, srv, http.MethodPost, "/admins/%20", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestParseSlot(t *testing.T) {
	slot, err := ParseSlot("avatar")
	require.NoError(t, err)
	assert.True(t, slot.Avatar)

	slot, err = ParseSlot("5")
	require.NoError(t, err)
	assert.Equal(t, 5, slot.StageIndex)

	_, err = ParseSlot("")
	assert.ErrorIs(t, err, ErrInvalidSlot)
}
