package dealer

import (
	"context"
	"time"

	"github.com/Louistrash/lucky-flirty-blackjack-chat-sub001/internal/domain"
)

type dealerRepository interface {
	GetDealers(ctx context.Context) ([]domain.Dealer, error)
	GetByID(ctx context.Context, id string) (*domain.Dealer, error)
	Exists(ctx context.Context, id string) (bool, error)
	Save(ctx context.Context, dealer *domain.Dealer) error
	Update(ctx context.Context, dealer *domain.Dealer) error
	SetStatus(ctx context.Context, id string, active bool) error
	UpdateAvatar(ctx context.Context, id, url string) error
	UpdateStageImage(ctx context.Context, id string, stageIndex int, url string) error
	Delete(ctx context.Context, id string) error
	IsAdminUser(ctx context.Context, uid string) (bool, error)
	AddAdminUser(ctx context.Context, uid string) error
}

type localCache interface {
	GetLocalDealers(ctx context.Context) ([]domain.Dealer, error)
	SetLocalDealers(ctx context.Context, dealers []domain.Dealer) error
	RemoveLocalDealer(ctx context.Context, id string) error
	LastSync(ctx context.Context) (*time.Time, error)
	MarkSynced(ctx context.Context, at time.Time) error
	Reset(ctx context.Context) error
}

type imagePipeline interface {
	UploadWithFallback(ctx context.Context, path string, data []byte, preferRemote bool) (*domain.StoredImage, error)
	ProcessImageURL(ctx context.Context, s string, avatar bool) (string, error)
	ReleaseImage(ctx context.Context, url string) error
}

type uploadStaging interface {
	PutObject(ctx context.Context, objectName string, data []byte, contentType string) error
	GetObject(ctx context.Context, objectName string) ([]byte, error)
	RemoveObject(ctx context.Context, objectName string) error
}

type taskProducer interface {
	SendTask(ctx context.Context, task *domain.ImageTask) error
}
