package dealer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Louistrash/lucky-flirty-blackjack-chat-sub001/internal/domain"
	"github.com/Louistrash/lucky-flirty-blackjack-chat-sub001/internal/lib/dataurl"
	repoDealer "github.com/Louistrash/lucky-flirty-blackjack-chat-sub001/internal/repository/dealer"
	"github.com/Louistrash/lucky-flirty-blackjack-chat-sub001/internal/repository/image"

	"github.com/google/uuid"
	"github.com/wb-go/wbf/zlog"
)

const maxIDAttempts = 10

type DealerUsecase struct {
	repo         dealerRepository
	cache        localCache
	pipeline     imagePipeline
	producer     taskProducer
	staging      uploadStaging
	logger       *zlog.Zerolog
	carouselSize int
	preferRemote bool
	now          func() time.Time
}

// NewDealerUsecase wires the catalog. producer may be nil when uploads are
// only handled synchronously.
func NewDealerUsecase(repo dealerRepository, cache localCache, pipeline imagePipeline, producer taskProducer, logger *zlog.Zerolog, carouselSize int, preferRemote bool) *DealerUsecase {
	if carouselSize <= 0 {
		carouselSize = domain.DefaultCarouselSize
	}
	return &DealerUsecase{
		repo:         repo,
		cache:        cache,
		pipeline:     pipeline,
		producer:     producer,
		logger:       logger,
		carouselSize: carouselSize,
		preferRemote: preferRemote,
		now:          time.Now,
	}
}

// UseStaging enables queued uploads. The raw bytes wait in s until the image
// worker picks the task up.
func (u *DealerUsecase) UseStaging(s uploadStaging) {
	u.staging = s
}

// ListDealers merges the remote store with the local cache. A remote failure
// is returned; a cache failure only drops the local part.
func (u *DealerUsecase) ListDealers(ctx context.Context) ([]domain.Dealer, error) {
	remote, err := u.repo.GetDealers(ctx)
	if err != nil {
		u.logger.Error().Err(err).Msg("Failed to fetch remote dealers")
		return nil, fmt.Errorf("failed to fetch dealers: %w", err)
	}
	for i := range remote {
		remote[i].Source = domain.SourceRemote
	}

	return MergeSources(remote, u.localDealers(ctx)), nil
}

func (u *DealerUsecase) localDealers(ctx context.Context) []domain.Dealer {
	local, err := u.cache.GetLocalDealers(ctx)
	if err != nil {
		u.logger.Warn().Err(err).Msg("Failed to read local dealers")
		return nil
	}
	for i := range local {
		local[i].Source = domain.SourceLocal
	}
	return local
}

func (u *DealerUsecase) GetDealer(ctx context.Context, id string) (*domain.Dealer, error) {
	d, err := u.repo.GetByID(ctx, id)
	if err == nil {
		d.Source = domain.SourceRemote
		return d, nil
	}
	if !errors.Is(err, repoDealer.ErrDealerNotFound) {
		return nil, fmt.Errorf("failed to get dealer: %w", err)
	}

	for _, local := range u.localDealers(ctx) {
		if local.ID == id {
			return &local, nil
		}
	}

	return nil, ErrDealerNotFound
}

func (u *DealerUsecase) CreateDealer(ctx context.Context, in domain.DealerInput) (*domain.Dealer, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, &ValidationError{Field: "name", Reason: ReasonNameRequired}
	}

	id, err := u.allocateID(ctx, name)
	if err != nil {
		return nil, err
	}

	now := u.now().UTC()
	d := &domain.Dealer{
		ID:           id,
		Name:         name,
		Title:        in.Title,
		AvatarURL:    in.AvatarURL,
		IsActive:     in.IsActive,
		Bio:          in.Bio,
		Gender:       in.Gender,
		Specialties:  in.Specialties,
		OutfitStages: normalizeStages(in.OutfitStages),
		GameStats:    in.GameStats,
		Source:       domain.SourceRemote,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := CheckCarouselEligibility(d); err != nil {
		return nil, err
	}

	if err := u.repo.Save(ctx, d); err != nil {
		if errors.Is(err, repoDealer.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: %s was taken concurrently", ErrIDExhausted, id)
		}
		u.logger.Error().Err(err).Str("dealer_id", id).Msg("Failed to save dealer")
		return nil, fmt.Errorf("failed to save dealer: %w", err)
	}

	u.logger.Info().Str("dealer_id", id).Str("name", name).Msg("Dealer created")
	return d, nil
}

// allocateID re-rolls the time-based suffix until the store has no such id.
func (u *DealerUsecase) allocateID(ctx context.Context, name string) (string, error) {
	base := u.now()
	for i := 0; i < maxIDAttempts; i++ {
		id := GenerateDealerID(name, base.Add(time.Duration(i)*time.Millisecond))

		exists, err := u.repo.Exists(ctx, id)
		if err != nil {
			return "", fmt.Errorf("failed to check dealer id: %w", err)
		}
		if !exists {
			return id, nil
		}

		u.logger.Debug().Str("dealer_id", id).Msg("Dealer id taken, re-rolling")
	}
	return "", ErrIDExhausted
}

// normalizeStages returns exactly six stages carrying the fixed names in order.
func normalizeStages(in []domain.OutfitStage) []domain.OutfitStage {
	stages := domain.DefaultOutfitStages()
	for i := 0; i < len(in) && i < domain.OutfitStageCount; i++ {
		stages[i].ImageURL = in[i].ImageURL
		stages[i].PersonalityPrompt = in[i].PersonalityPrompt
	}
	return stages
}

func (u *DealerUsecase) UpdateDealer(ctx context.Context, id string, patch domain.DealerPatch) (*domain.Dealer, error) {
	if patch.ID != nil && *patch.ID != id {
		return nil, ErrImmutableID
	}

	d, err := u.getRemote(ctx, id)
	if err != nil {
		return nil, err
	}

	applyPatch(d, patch)
	d.UpdatedAt = u.now().UTC()

	if err := CheckCarouselEligibility(d); err != nil {
		return nil, err
	}

	if err := u.repo.Update(ctx, d); err != nil {
		return nil, u.mapRepoError(err, "failed to update dealer")
	}

	u.logger.Info().Str("dealer_id", id).Msg("Dealer updated")
	return d, nil
}

func applyPatch(d *domain.Dealer, p domain.DealerPatch) {
	if p.Name != nil {
		d.Name = strings.TrimSpace(*p.Name)
	}
	if p.Title != nil {
		d.Title = *p.Title
	}
	if p.AvatarURL != nil {
		d.AvatarURL = *p.AvatarURL
	}
	if p.Bio != nil {
		d.Bio = *p.Bio
	}
	if p.Gender != nil {
		d.Gender = *p.Gender
	}
	if p.Specialties != nil {
		d.Specialties = p.Specialties
	}
	if p.IsActive != nil {
		d.IsActive = *p.IsActive
	}
	if p.OutfitStages != nil {
		d.OutfitStages = normalizeStages(p.OutfitStages)
	} else {
		d.OutfitStages = normalizeStages(d.OutfitStages)
	}
	if p.GameStats != nil {
		d.GameStats = *p.GameStats
	}
}

func (u *DealerUsecase) SetDealerStatus(ctx context.Context, id string, active bool) error {
	if err := u.repo.SetStatus(ctx, id, active); err != nil {
		return u.mapRepoError(err, "failed to set dealer status")
	}
	u.logger.Info().Str("dealer_id", id).Bool("active", active).Msg("Dealer status changed")
	return nil
}

func (u *DealerUsecase) DeleteDealer(ctx context.Context, id string) error {
	d, err := u.getRemote(ctx, id)
	if err != nil {
		return err
	}

	if err := u.repo.Delete(ctx, id); err != nil {
		return u.mapRepoError(err, "failed to delete dealer")
	}

	if err := u.cache.RemoveLocalDealer(ctx, id); err != nil {
		u.logger.Warn().Err(err).Str("dealer_id", id).Msg("Failed to drop dealer from local cache")
	}

	u.releaseImage(ctx, id, d.AvatarURL)
	for _, stage := range d.OutfitStages {
		u.releaseImage(ctx, id, stage.ImageURL)
	}

	u.logger.Info().Str("dealer_id", id).Msg("Dealer deleted")
	return nil
}

func (u *DealerUsecase) CheckEligibility(ctx context.Context, id string) (bool, string, error) {
	d, err := u.GetDealer(ctx, id)
	if err != nil {
		return false, "", err
	}
	ok, reason := IsCarouselEligible(d)
	return ok, reason, nil
}

// PrimaryImage returns the image to show for a dealer or "" for a placeholder.
func (u *DealerUsecase) PrimaryImage(ctx context.Context, id string) (string, error) {
	d, err := u.GetDealer(ctx, id)
	if err != nil {
		return "", err
	}
	return PrimaryImage(d), nil
}

func (u *DealerUsecase) IsAdmin(ctx context.Context, uid string) bool {
	if strings.TrimSpace(uid) == "" {
		return false
	}
	ok, err := u.repo.IsAdminUser(ctx, uid)
	if err != nil {
		u.logger.Warn().Err(err).Str("uid", uid).Msg("Admin check failed")
		return false
	}
	return ok
}

func (u *DealerUsecase) AddAdmin(ctx context.Context, uid string) error {
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return &ValidationError{Field: "uid", Reason: "User ID is required"}
	}
	if err := u.repo.AddAdminUser(ctx, uid); err != nil {
		return fmt.Errorf("failed to add admin: %w", err)
	}

	u.logger.Info().Str("uid", uid).Msg("Admin user added")
	return nil
}

// Images

func validateSlot(slot domain.ImageSlot) error {
	if slot.Avatar {
		return nil
	}
	if slot.StageIndex < 0 || slot.StageIndex >= domain.OutfitStageCount {
		return fmt.Errorf("%w: stage index %d", ErrInvalidSlot, slot.StageIndex)
	}
	return nil
}

func imagePath(dealerID string, slot domain.ImageSlot) string {
	if slot.Avatar {
		return fmt.Sprintf("%s%s/avatar", domain.PathPrefixDealers, dealerID)
	}
	return fmt.Sprintf("%s%s/stage_%d", domain.PathPrefixDealers, dealerID, slot.StageIndex)
}

// UploadDealerImage runs data through the pipeline and writes the result into
// the slot. Concurrent uploads to one slot are not coordinated: the last
// write wins.
func (u *DealerUsecase) UploadDealerImage(ctx context.Context, id string, slot domain.ImageSlot, data []byte) (*domain.StoredImage, error) {
	return u.uploadImage(ctx, id, slot, "", data, u.preferRemote)
}

func (u *DealerUsecase) uploadImage(ctx context.Context, id string, slot domain.ImageSlot, path string, data []byte, preferRemote bool) (*domain.StoredImage, error) {
	if err := validateSlot(slot); err != nil {
		return nil, err
	}
	d, err := u.getRemote(ctx, id)
	if err != nil {
		return nil, err
	}

	if path == "" {
		path = imagePath(id, slot)
	}

	stored, err := u.pipeline.UploadWithFallback(ctx, path, data, preferRemote)
	if err != nil {
		return nil, fmt.Errorf("failed to process dealer image: %w", err)
	}

	if err := u.ApplyDealerImage(ctx, id, slot, stored.URL); err != nil {
		return nil, err
	}

	if previous := slotURL(d, slot); previous != stored.URL {
		u.releaseImage(ctx, id, previous)
	}

	u.logger.Info().
		Str("dealer_id", id).
		Str("path", path).
		Str("method", string(stored.Method)).
		Str("size", dataurl.FormatSize(stored.Size)).
		Msg("Dealer image stored")

	return stored, nil
}

func slotURL(d *domain.Dealer, slot domain.ImageSlot) string {
	if slot.Avatar {
		return d.AvatarURL
	}
	if slot.StageIndex < len(d.OutfitStages) {
		return d.OutfitStages[slot.StageIndex].ImageURL
	}
	return ""
}

// releaseImage drops a replaced remote object. Failures leave an orphan
// object behind and are only logged.
func (u *DealerUsecase) releaseImage(ctx context.Context, id, url string) {
	if url == "" {
		return
	}
	if err := u.pipeline.ReleaseImage(ctx, url); err != nil {
		u.logger.Warn().Err(err).Str("dealer_id", id).Msg("Failed to release dealer image")
	}
}

func (u *DealerUsecase) ApplyDealerImage(ctx context.Context, id string, slot domain.ImageSlot, url string) error {
	if err := validateSlot(slot); err != nil {
		return err
	}

	var err error
	if slot.Avatar {
		err = u.repo.UpdateAvatar(ctx, id, url)
	} else {
		err = u.repo.UpdateStageImage(ctx, id, slot.StageIndex, url)
	}
	if err != nil {
		return u.mapRepoError(err, "failed to update dealer image")
	}
	return nil
}

// QueueDealerImage parks the upload in object storage and hands a reference
// to it to the image worker.
func (u *DealerUsecase) QueueDealerImage(ctx context.Context, id string, slot domain.ImageSlot, data []byte, contentType string) (*domain.ImageTask, error) {
	if u.producer == nil || u.staging == nil {
		return nil, ErrQueueUnavailable
	}
	if err := validateSlot(slot); err != nil {
		return nil, err
	}
	if _, err := u.getRemote(ctx, id); err != nil {
		return nil, err
	}

	taskID := uuid.New().String()
	task := &domain.ImageTask{
		ID:           taskID,
		DealerID:     id,
		Avatar:       slot.Avatar,
		StageIndex:   slot.StageIndex,
		Path:         imagePath(id, slot),
		PreferRemote: u.preferRemote,
		ContentType:  contentType,
		SourcePath:   domain.PathPrefixStaging + id + "/" + taskID,
	}

	if err := u.staging.PutObject(ctx, task.SourcePath, data, contentType); err != nil {
		u.logger.Error().Err(err).Str("dealer_id", id).Msg("Failed to stage upload")
		return nil, fmt.Errorf("failed to stage upload: %w", err)
	}

	if err := u.producer.SendTask(ctx, task); err != nil {
		u.logger.Error().Err(err).Str("dealer_id", id).Msg("Failed to queue image task")
		u.discardStaged(ctx, task.SourcePath)
		return nil, fmt.Errorf("failed to queue image task: %w", err)
	}

	u.logger.Info().Str("task_id", task.ID).Str("dealer_id", id).Str("path", task.Path).Msg("Image task queued")
	return task, nil
}

// ProcessImageTask applies a queued upload. The staged bytes are removed once
// the dealer points at the stored image.
func (u *DealerUsecase) ProcessImageTask(ctx context.Context, task *domain.ImageTask) (*domain.StoredImage, error) {
	if u.staging == nil {
		return nil, ErrQueueUnavailable
	}

	data, err := u.staging.GetObject(ctx, task.SourcePath)
	if err != nil {
		if errors.Is(err, image.ErrObjectNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrUploadExpired, task.SourcePath)
		}
		return nil, fmt.Errorf("failed to fetch staged upload: %w", err)
	}

	stored, err := u.uploadImage(ctx, task.DealerID, task.Slot(), task.Path, data, task.PreferRemote)
	if err != nil {
		return nil, err
	}

	u.discardStaged(ctx, task.SourcePath)
	return stored, nil
}

func (u *DealerUsecase) discardStaged(ctx context.Context, objectName string) {
	if err := u.staging.RemoveObject(ctx, objectName); err != nil {
		u.logger.Warn().Err(err).Str("path", objectName).Msg("Failed to remove staged upload")
	}
}

// CompactImages shrinks the inline images of a dealer (avatar and stages use
// separate quality profiles). Remote URLs are untouched.
func (u *DealerUsecase) CompactImages(ctx context.Context, id string) (*domain.Dealer, error) {
	d, err := u.getRemote(ctx, id)
	if err != nil {
		return nil, err
	}

	changed := false

	avatar, err := u.pipeline.ProcessImageURL(ctx, d.AvatarURL, true)
	if err != nil {
		return nil, fmt.Errorf("failed to compact avatar: %w", err)
	}
	if avatar != d.AvatarURL {
		d.AvatarURL = avatar
		changed = true
	}

	d.OutfitStages = normalizeStages(d.OutfitStages)
	for i := range d.OutfitStages {
		url, err := u.pipeline.ProcessImageURL(ctx, d.OutfitStages[i].ImageURL, false)
		if err != nil {
			return nil, fmt.Errorf("failed to compact stage %d: %w", i, err)
		}
		if url != d.OutfitStages[i].ImageURL {
			d.OutfitStages[i].ImageURL = url
			changed = true
		}
	}

	if !changed {
		return d, nil
	}

	d.UpdatedAt = u.now().UTC()
	if err := u.repo.Update(ctx, d); err != nil {
		return nil, u.mapRepoError(err, "failed to save compacted dealer")
	}

	u.logger.Info().Str("dealer_id", id).Msg("Dealer images compacted")
	return d, nil
}

// ConvertInlineImages moves inline images of a dealer to remote storage.
// Images the store rejects stay inline and are skipped.
func (u *DealerUsecase) ConvertInlineImages(ctx context.Context, id string) (int, error) {
	d, err := u.getRemote(ctx, id)
	if err != nil {
		return 0, err
	}

	converted := 0
	convert := func(slot domain.ImageSlot, current string) {
		if !dataurl.IsInline(current) {
			return
		}

		_, raw, err := dataurl.Decode(current)
		if err != nil {
			u.logger.Warn().Err(err).Str("dealer_id", id).Msg("Skipping malformed inline image")
			return
		}

		stored, err := u.pipeline.UploadWithFallback(ctx, imagePath(id, slot), raw, true)
		if err != nil {
			u.logger.Warn().Err(err).Str("dealer_id", id).Msg("Skipping inline image that failed to upload")
			return
		}
		if stored.Method != domain.MethodRemote {
			u.logger.Warn().Str("dealer_id", id).Str("path", imagePath(id, slot)).Msg("Remote storage rejected image, keeping inline")
			return
		}

		if err := u.ApplyDealerImage(ctx, id, slot, stored.URL); err != nil {
			u.logger.Warn().Err(err).Str("dealer_id", id).Msg("Failed to store converted image url")
			return
		}
		converted++
	}

	convert(domain.ImageSlot{Avatar: true}, d.AvatarURL)
	for i, stage := range d.OutfitStages {
		if i >= domain.OutfitStageCount {
			break
		}
		convert(domain.ImageSlot{StageIndex: i}, stage.ImageURL)
	}

	u.logger.Info().Str("dealer_id", id).Int("converted", converted).Msg("Inline images converted")
	return converted, nil
}

// Carousel

// Carousel builds the display list from active dealers, keeping the order
// saved in the local cache first.
func (u *DealerUsecase) Carousel(ctx context.Context) ([]domain.Dealer, error) {
	all, err := u.ListDealers(ctx)
	if err != nil {
		return nil, err
	}

	active := make([]domain.Dealer, 0, len(all))
	for _, d := range all {
		if d.IsActive {
			active = append(active, d)
		}
	}

	return BuildCarousel(active, u.priorOrder(ctx), u.carouselSize), nil
}

func (u *DealerUsecase) priorOrder(ctx context.Context) []string {
	local := u.localDealers(ctx)
	ids := make([]string, 0, len(local))
	for _, d := range local {
		ids = append(ids, d.ID)
	}
	return ids
}

// resolve maps ids to known dealers, keeping the order of ids.
func (u *DealerUsecase) resolve(ctx context.Context, ids []string) ([]domain.Dealer, map[string]domain.Dealer, error) {
	all, err := u.ListDealers(ctx)
	if err != nil {
		return nil, nil, err
	}

	known := make(map[string]domain.Dealer, len(all))
	for _, d := range all {
		known[d.ID] = d
	}

	selection := make([]domain.Dealer, 0, len(ids))
	for _, id := range ids {
		d, ok := known[id]
		if !ok {
			return nil, nil, fmt.Errorf("%w: %s", ErrDealerNotFound, id)
		}
		selection = append(selection, d)
	}
	return selection, known, nil
}

func (u *DealerUsecase) AddToSelection(ctx context.Context, currentIDs []string, dealerID string) ([]domain.Dealer, error) {
	current, known, err := u.resolve(ctx, currentIDs)
	if err != nil {
		return nil, err
	}

	d, ok := known[dealerID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrDealerNotFound, dealerID)
	}

	return AddToCarousel(current, d, u.carouselSize)
}

func (u *DealerUsecase) RemoveFromSelection(ctx context.Context, currentIDs []string, dealerID string) ([]domain.Dealer, error) {
	current, _, err := u.resolve(ctx, currentIDs)
	if err != nil {
		return nil, err
	}
	return RemoveFromCarousel(current, dealerID), nil
}

// SaveCarouselOrder stores the selection in the local cache; the next
// Carousel call puts these dealers first.
func (u *DealerUsecase) SaveCarouselOrder(ctx context.Context, ids []string) ([]domain.Dealer, error) {
	if len(ids) > u.carouselSize {
		return nil, fmt.Errorf("%w: maximum %d dealers", ErrCapacityExceeded, u.carouselSize)
	}

	selection, _, err := u.resolve(ctx, ids)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(selection))
	for i := range selection {
		if _, dup := seen[selection[i].ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateEntry, selection[i].ID)
		}
		seen[selection[i].ID] = struct{}{}

		if err := CheckCarouselEligibility(&selection[i]); err != nil {
			return nil, err
		}
	}

	if err := u.cache.SetLocalDealers(ctx, selection); err != nil {
		return nil, fmt.Errorf("failed to save carousel order: %w", err)
	}

	u.logger.Info().Int("dealers", len(selection)).Msg("Carousel order saved")
	return selection, nil
}

// Local cache

// SyncLocalToRemote adds local-only dealers to the remote store.
func (u *DealerUsecase) SyncLocalToRemote(ctx context.Context) (*domain.SyncReport, error) {
	local, err := u.cache.GetLocalDealers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read local dealers: %w", err)
	}

	report := &domain.SyncReport{Errors: []string{}}
	for i := range local {
		d := local[i]

		exists, err := u.repo.Exists(ctx, d.ID)
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("%s: %v", d.ID, err))
			continue
		}
		if exists {
			continue
		}

		if err := CheckCarouselEligibility(&d); err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("%s: %v", d.ID, err))
			continue
		}

		d.OutfitStages = normalizeStages(d.OutfitStages)
		d.Source = domain.SourceRemote
		if err := u.repo.Save(ctx, &d); err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("%s: %v", d.ID, err))
			continue
		}
		report.Synced++
	}

	if err := u.cache.MarkSynced(ctx, u.now().UTC()); err != nil {
		u.logger.Warn().Err(err).Msg("Failed to record sync time")
	}

	u.logger.Info().Int("synced", report.Synced).Int("errors", len(report.Errors)).Msg("Local dealers synced")
	return report, nil
}

func (u *DealerUsecase) ExportLocal(ctx context.Context) (*domain.LocalSnapshot, error) {
	local, err := u.cache.GetLocalDealers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read local dealers: %w", err)
	}
	if local == nil {
		local = []domain.Dealer{}
	}

	lastSync, err := u.cache.LastSync(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read last sync: %w", err)
	}

	return &domain.LocalSnapshot{
		Dealers:    local,
		LastSync:   lastSync,
		ExportDate: u.now().UTC(),
		Version:    domain.LocalSnapshotVersion,
	}, nil
}

func (u *DealerUsecase) ImportLocal(ctx context.Context, snap *domain.LocalSnapshot) error {
	if snap.Version != "" && snap.Version != domain.LocalSnapshotVersion {
		return fmt.Errorf("%w: %s", ErrUnsupportedExport, snap.Version)
	}
	if snap.Dealers == nil {
		return &ValidationError{Field: "dealers", Reason: "Snapshot has no dealers list"}
	}

	if err := u.cache.SetLocalDealers(ctx, snap.Dealers); err != nil {
		return fmt.Errorf("failed to import local dealers: %w", err)
	}
	if snap.LastSync != nil {
		if err := u.cache.MarkSynced(ctx, *snap.LastSync); err != nil {
			return fmt.Errorf("failed to import last sync: %w", err)
		}
	}

	u.logger.Info().Int("dealers", len(snap.Dealers)).Msg("Local dealers imported")
	return nil
}

func (u *DealerUsecase) ResetLocal(ctx context.Context) error {
	if err := u.cache.Reset(ctx); err != nil {
		return fmt.Errorf("failed to reset local cache: %w", err)
	}
	return nil
}

func (u *DealerUsecase) getRemote(ctx context.Context, id string) (*domain.Dealer, error) {
	d, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return nil, u.mapRepoError(err, "failed to get dealer")
	}
	return d, nil
}

func (u *DealerUsecase) mapRepoError(err error, msg string) error {
	switch {
	case errors.Is(err, repoDealer.ErrDealerNotFound):
		return ErrDealerNotFound
	case errors.Is(err, repoDealer.ErrStageNotFound):
		return ErrInvalidSlot
	}
	return fmt.Errorf("%s: %w", msg, err)
}
