package domain

import "time"

type Dealer struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Title        string        `json:"title,omitempty"`
	AvatarURL    string        `json:"avatar_url"`
	IsActive     bool          `json:"is_active"`
	Bio          string        `json:"bio,omitempty"`
	Gender       string        `json:"gender,omitempty"`
	Specialties  []string      `json:"specialties,omitempty"`
	OutfitStages []OutfitStage `json:"outfit_stages"`
	GameStats    GameStats     `json:"game_stats"`
	Source       DealerSource  `json:"source,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

type OutfitStage struct {
	StageName         string `json:"stage_name"`
	ImageURL          string `json:"image_url"`
	PersonalityPrompt string `json:"personality_prompt"`
}

type GameStats struct {
	TotalGamesPlayed     int     `json:"total_games_played"`
	PlayerWinRateAgainst float64 `json:"player_win_rate_against"`
}

type DealerSource string

const (
	SourceRemote DealerSource = "remote"
	SourceLocal  DealerSource = "local"
)

const (
	StageProfessional = "Professional (Casino)"
	StageDinner       = "Dinner / Cocktail"
	StageCasual       = "Casual Lounge"
	StageSport        = "Sport / Relaxed"
	StageSwimwear     = "Swimwear"
	StageLingerie     = "Luxury Lingerie / Swim Bikini"
)

const (
	OutfitStageCount         = 6
	PersonalityPromptSoftCap = 500
	DefaultCarouselSize      = 17
	DealerIDPrefix           = "dealer_"
)

var StageNames = [OutfitStageCount]string{
	StageProfessional,
	StageDinner,
	StageCasual,
	StageSport,
	StageSwimwear,
	StageLingerie,
}

// DefaultOutfitStages returns the six stages with empty image and prompt.
func DefaultOutfitStages() []OutfitStage {
	stages := make([]OutfitStage, OutfitStageCount)
	for i, name := range StageNames {
		stages[i] = OutfitStage{StageName: name}
	}
	return stages
}

// DealerInput carries the editable fields of a dealer form.
type DealerInput struct {
	Name         string
	Title        string
	AvatarURL    string
	Bio          string
	Gender       string
	Specialties  []string
	IsActive     bool
	OutfitStages []OutfitStage
	GameStats    GameStats
}

// DealerPatch is a partial update; nil fields are left untouched.
type DealerPatch struct {
	ID           *string
	Name         *string
	Title        *string
	AvatarURL    *string
	Bio          *string
	Gender       *string
	Specialties  []string
	IsActive     *bool
	OutfitStages []OutfitStage
	GameStats    *GameStats
}

type SyncReport struct {
	Synced int      `json:"synced"`
	Errors []string `json:"errors"`
}

type LocalSnapshot struct {
	Dealers    []Dealer   `json:"dealers"`
	LastSync   *time.Time `json:"last_sync"`
	ExportDate time.Time  `json:"export_date"`
	Version    string     `json:"version"`
}

const LocalSnapshotVersion = "1.0"
