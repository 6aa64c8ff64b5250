package dto

import "github.com/Louistrash/lucky-flirty-blackjack-chat-sub001/internal/domain"

type DealerListResponse struct {
	Dealers []domain.Dealer `json:"dealers"`
	Count   int             `json:"count"`
}

type CarouselResponse struct {
	Dealers []domain.Dealer `json:"dealers"`
	Count   int             `json:"count"`
	MaxSize int             `json:"max_size"`
}

type EligibilityResponse struct {
	DealerID string `json:"dealer_id"`
	Eligible bool   `json:"eligible"`
	Reason   string `json:"reason,omitempty"`
}

type PrimaryImageResponse struct {
	DealerID       string `json:"dealer_id"`
	ImageURL       string `json:"image_url"`
	IsPlaceholder  bool   `json:"is_placeholder"`
	PlaceholderURL string `json:"placeholder_url,omitempty"`
}

type QueuedImageResponse struct {
	TaskID   string `json:"task_id"`
	DealerID string `json:"dealer_id"`
	Path     string `json:"path"`
	Status   string `json:"status"`
}

type ConvertResponse struct {
	DealerID  string `json:"dealer_id"`
	Converted int    `json:"converted"`
}

type AdminResponse struct {
	UID     string `json:"uid"`
	IsAdmin bool   `json:"is_admin"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
	Details string `json:"details,omitempty"`
}
