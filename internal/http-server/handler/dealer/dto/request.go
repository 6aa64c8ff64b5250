package dto

import "github.com/Louistrash/lucky-flirty-blackjack-chat-sub001/internal/domain"

type OutfitStage struct {
	StageName         string `json:"stage_name" validate:"max=100"`
	ImageURL          string `json:"image_url"`
	PersonalityPrompt string `json:"personality_prompt" validate:"max=4000"`
}

type GameStats struct {
	TotalGamesPlayed     int     `json:"total_games_played" validate:"gte=0"`
	PlayerWinRateAgainst float64 `json:"player_win_rate_against" validate:"gte=0,lte=1"`
}

type CreateDealerRequest struct {
	Name         string        `json:"name" validate:"max=100"`
	Title        string        `json:"title" validate:"max=100"`
	AvatarURL    string        `json:"avatar_url"`
	IsActive     bool          `json:"is_active"`
	Bio          string        `json:"bio" validate:"max=2000"`
	Gender       string        `json:"gender" validate:"max=32"`
	Specialties  []string      `json:"specialties" validate:"max=20,dive,max=64"`
	OutfitStages []OutfitStage `json:"outfit_stages" validate:"max=6,dive"`
	GameStats    GameStats     `json:"game_stats"`
}

func (r CreateDealerRequest) ToDomain() domain.DealerInput {
	return domain.DealerInput{
		Name:         r.Name,
		Title:        r.Title,
		AvatarURL:    r.AvatarURL,
		Bio:          r.Bio,
		Gender:       r.Gender,
		Specialties:  r.Specialties,
		IsActive:     r.IsActive,
		OutfitStages: stagesToDomain(r.OutfitStages),
		GameStats:    domain.GameStats(r.GameStats),
	}
}

type UpdateDealerRequest struct {
	ID           *string       `json:"id"`
	Name         *string       `json:"name" validate:"omitempty,max=100"`
	Title        *string       `json:"title" validate:"omitempty,max=100"`
	AvatarURL    *string       `json:"avatar_url"`
	IsActive     *bool         `json:"is_active"`
	Bio          *string       `json:"bio" validate:"omitempty,max=2000"`
	Gender       *string       `json:"gender" validate:"omitempty,max=32"`
	Specialties  []string      `json:"specialties" validate:"max=20,dive,max=64"`
	OutfitStages []OutfitStage `json:"outfit_stages" validate:"max=6,dive"`
	GameStats    *GameStats    `json:"game_stats"`
}

func (r UpdateDealerRequest) ToDomain() domain.DealerPatch {
	patch := domain.DealerPatch{
		ID:           r.ID,
		Name:         r.Name,
		Title:        r.Title,
		AvatarURL:    r.AvatarURL,
		Bio:          r.Bio,
		Gender:       r.Gender,
		Specialties:  r.Specialties,
		IsActive:     r.IsActive,
		OutfitStages: stagesToDomain(r.OutfitStages),
	}
	if r.GameStats != nil {
		stats := domain.GameStats(*r.GameStats)
		patch.GameStats = &stats
	}
	return patch
}

func stagesToDomain(in []OutfitStage) []domain.OutfitStage {
	if in == nil {
		return nil
	}
	out := make([]domain.OutfitStage, len(in))
	for i, s := range in {
		out[i] = domain.OutfitStage(s)
	}
	return out
}

type StatusRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

type CarouselOrderRequest struct {
	DealerIDs []string `json:"dealer_ids" validate:"dive,required"`
}

type SelectionRequest struct {
	Current  []string `json:"current" validate:"dive,required"`
	DealerID string   `json:"dealer_id" validate:"required"`
}
