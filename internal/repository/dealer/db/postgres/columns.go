package postgres

import (
	"encoding/json"
	"fmt"

	"github.com/Louistrash/lucky-flirty-blackjack-chat-sub001/internal/domain"

	"github.com/lib/pq"
)

// dealerColumns holds the encoded values of the non-scalar dealer columns.
// All three columns are NOT NULL, so empty inputs encode as '{}' / '[]'.
type dealerColumns struct {
	Specialties pq.StringArray
	Stages      []byte
	Stats       []byte
}

func encodeColumns(d *domain.Dealer) (*dealerColumns, error) {
	specialties := pq.StringArray(d.Specialties)
	if specialties == nil {
		specialties = pq.StringArray{}
	}

	stages := d.OutfitStages
	if stages == nil {
		stages = []domain.OutfitStage{}
	}
	stagesJSON, err := json.Marshal(stages)
	if err != nil {
		return nil, fmt.Errorf("failed to encode outfit stages: %w", err)
	}

	statsJSON, err := json.Marshal(d.GameStats)
	if err != nil {
		return nil, fmt.Errorf("failed to encode game stats: %w", err)
	}

	return &dealerColumns{
		Specialties: specialties,
		Stages:      stagesJSON,
		Stats:       statsJSON,
	}, nil
}

func decodeColumns(d *domain.Dealer, cols *dealerColumns) error {
	d.Specialties = []string(cols.Specialties)
	if err := json.Unmarshal(cols.Stages, &d.OutfitStages); err != nil {
		return fmt.Errorf("failed to decode outfit stages: %w", err)
	}
	if err := json.Unmarshal(cols.Stats, &d.GameStats); err != nil {
		return fmt.Errorf("failed to decode game stats: %w", err)
	}
	return nil
}
