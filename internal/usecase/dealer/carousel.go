package dealer

import (
	"fmt"
	"strings"

	"github.com/Louistrash/lucky-flirty-blackjack-chat-sub001/internal/domain"
)

// MergeSources unions two dealer lists by id. Remote entries win; local-only
// entries follow in their local order.
func MergeSources(remote, local []domain.Dealer) []domain.Dealer {
	merged := make([]domain.Dealer, 0, len(remote)+len(local))
	seen := make(map[string]struct{}, len(remote)+len(local))

	for _, d := range remote {
		if _, ok := seen[d.ID]; ok {
			continue
		}
		seen[d.ID] = struct{}{}
		merged = append(merged, d)
	}

	for _, d := range local {
		if _, ok := seen[d.ID]; ok {
			continue
		}
		seen[d.ID] = struct{}{}
		merged = append(merged, d)
	}

	return merged
}

// CheckCarouselEligibility returns a *ValidationError for the first failing
// rule: name, then id, then image.
func CheckCarouselEligibility(d *domain.Dealer) error {
	switch {
	case strings.TrimSpace(d.Name) == "":
		return &ValidationError{Field: "name", Reason: ReasonNameRequired}
	case strings.TrimSpace(d.ID) == "":
		return &ValidationError{Field: "id", Reason: ReasonIDRequired}
	case !HasImage(d):
		return &ValidationError{Field: "images", Reason: ReasonImageRequired}
	}
	return nil
}

func IsCarouselEligible(d *domain.Dealer) (bool, string) {
	if err := CheckCarouselEligibility(d); err != nil {
		return false, err.Error()
	}
	return true, ""
}

func HasImage(d *domain.Dealer) bool {
	if strings.TrimSpace(d.AvatarURL) != "" {
		return true
	}
	for _, stage := range d.OutfitStages {
		if strings.TrimSpace(stage.ImageURL) != "" {
			return true
		}
	}
	return false
}

// PrimaryImage picks the avatar, then the image of the first outfit stage.
// Later stages are not considered. An empty result means the caller should
// show a placeholder.
func PrimaryImage(d *domain.Dealer) string {
	if s := strings.TrimSpace(d.AvatarURL); s != "" {
		return s
	}
	if len(d.OutfitStages) > 0 {
		return strings.TrimSpace(d.OutfitStages[0].ImageURL)
	}
	return ""
}

// BuildCarousel keeps the eligible dealers, places those named in
// priorOrderIDs first in that order, then the rest in input order, and cuts
// the result to maxSize. Duplicate ids keep their first occurrence.
func BuildCarousel(active []domain.Dealer, priorOrderIDs []string, maxSize int) []domain.Dealer {
	if maxSize <= 0 {
		maxSize = domain.DefaultCarouselSize
	}

	eligible := make([]domain.Dealer, 0, len(active))
	byID := make(map[string]int, len(active))
	for i := range active {
		if err := CheckCarouselEligibility(&active[i]); err != nil {
			continue
		}
		if _, dup := byID[active[i].ID]; dup {
			continue
		}
		byID[active[i].ID] = len(eligible)
		eligible = append(eligible, active[i])
	}

	result := make([]domain.Dealer, 0, min(len(eligible), maxSize))
	placed := make(map[string]struct{}, len(eligible))

	for _, id := range priorOrderIDs {
		idx, ok := byID[id]
		if !ok {
			continue
		}
		if _, done := placed[id]; done {
			continue
		}
		placed[id] = struct{}{}
		result = append(result, eligible[idx])
	}

	for _, d := range eligible {
		if _, done := placed[d.ID]; done {
			continue
		}
		placed[d.ID] = struct{}{}
		result = append(result, d)
	}

	if len(result) > maxSize {
		result = result[:maxSize]
	}
	return result
}

// AddToCarousel returns a new selection with d appended. current is not modified.
func AddToCarousel(current []domain.Dealer, d domain.Dealer, maxSize int) ([]domain.Dealer, error) {
	if maxSize <= 0 {
		maxSize = domain.DefaultCarouselSize
	}

	if len(current) >= maxSize {
		return current, fmt.Errorf("%w: maximum %d dealers", ErrCapacityExceeded, maxSize)
	}

	for _, c := range current {
		if c.ID == d.ID {
			return current, fmt.Errorf("%w: %s", ErrDuplicateEntry, d.ID)
		}
	}

	if err := CheckCarouselEligibility(&d); err != nil {
		return current, err
	}

	updated := make([]domain.Dealer, 0, len(current)+1)
	updated = append(updated, current...)
	return append(updated, d), nil
}

// RemoveFromCarousel drops the dealer with the given id, if present.
func RemoveFromCarousel(current []domain.Dealer, id string) []domain.Dealer {
	updated := make([]domain.Dealer, 0, len(current))
	for _, d := range current {
		if d.ID != id {
			updated = append(updated, d)
		}
	}
	return updated
}
