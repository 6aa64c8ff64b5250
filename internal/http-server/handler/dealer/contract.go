package dealer

import (
	"context"

	"github.com/Louistrash/lucky-flirty-blackjack-chat-sub001/internal/domain"
)

type dealerUsecase interface {
	ListDealers(ctx context.Context) ([]domain.Dealer, error)
	GetDealer(ctx context.Context, id string) (*domain.Dealer, error)
	CreateDealer(ctx context.Context, in domain.DealerInput) (*domain.Dealer, error)
	UpdateDealer(ctx context.Context, id string, patch domain.DealerPatch) (*domain.Dealer, error)
	SetDealerStatus(ctx context.Context, id string, active bool) error
	DeleteDealer(ctx context.Context, id string) error
	CheckEligibility(ctx context.Context, id string) (bool, string, error)
	PrimaryImage(ctx context.Context, id string) (string, error)
	IsAdmin(ctx context.Context, uid string) bool
	AddAdmin(ctx context.Context, uid string) error

	UploadDealerImage(ctx context.Context, id string, slot domain.ImageSlot, data []byte) (*domain.StoredImage, error)
	QueueDealerImage(ctx context.Context, id string, slot domain.ImageSlot, data []byte, contentType string) (*domain.ImageTask, error)
	CompactImages(ctx context.Context, id string) (*domain.Dealer, error)
	ConvertInlineImages(ctx context.Context, id string) (int, error)

	Carousel(ctx context.Context) ([]domain.Dealer, error)
	AddToSelection(ctx context.Context, currentIDs []string, dealerID string) ([]domain.Dealer, error)
	RemoveFromSelection(ctx context.Context, currentIDs []string, dealerID string) ([]domain.Dealer, error)
	SaveCarouselOrder(ctx context.Context, ids []string) ([]domain.Dealer, error)

	SyncLocalToRemote(ctx context.Context) (*domain.SyncReport, error)
	ExportLocal(ctx context.Context) (*domain.LocalSnapshot, error)
	ImportLocal(ctx context.Context, snap *domain.LocalSnapshot) error
	ResetLocal(ctx context.Context) error
}
