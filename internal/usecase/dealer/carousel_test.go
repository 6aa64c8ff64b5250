package dealer

import (
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/Louistrash/lucky-flirty-blackjack-chat-sub001/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func eligible(id string) domain.Dealer {
	return domain.Dealer{ID: id, Name: "Dealer " + id, AvatarURL: "https://cdn.example.com/" + id + ".jpg", IsActive: true}
}

func ids(dealers []domain.Dealer) []string {
	out := make([]string, len(dealers))
	for i, d := range dealers {
		out[i] = d.ID
	}
	return out
}

func numbered(n int) []domain.Dealer {
	out := make([]domain.Dealer, n)
	for i := range out {
		out[i] = eligible(fmt.Sprintf("d%d", i+1))
	}
	return out
}

func TestMergeSources_RemoteWins(t *testing.T) {
	remote := []domain.Dealer{{ID: "a", Name: "R"}}
	local := []domain.Dealer{{ID: "a", Name: "L"}, {ID: "b", Name: "L2"}}

	merged := MergeSources(remote, local)
	require.Len(t, merged, 2)
	assert.Equal(t, domain.Dealer{ID: "a", Name: "R"}, merged[0])
	assert.Equal(t, domain.Dealer{ID: "b", Name: "L2"}, merged[1])
}

func TestMergeSources_Empty(t *testing.T) {
	assert.Empty(t, MergeSources(nil, nil))
	assert.Equal(t, []string{"x"}, ids(MergeSources(nil, []domain.Dealer{{ID: "x"}})))
}

func TestIsCarouselEligible(t *testing.T) {
	tests := []struct {
		name   string
		dealer domain.Dealer
		valid  bool
		reason string
	}{
		{"missing id", domain.Dealer{ID: "", Name: "x", AvatarURL: "y"}, false, ReasonIDRequired},
		{"missing name", domain.Dealer{ID: "x", Name: "", AvatarURL: "y"}, false, ReasonNameRequired},
		{"missing image", domain.Dealer{ID: "x", Name: "y", AvatarURL: "", OutfitStages: []domain.OutfitStage{}}, false, ReasonImageRequired},
		{"valid avatar", domain.Dealer{ID: "x", Name: "y", AvatarURL: "z"}, true, ""},
		{"name checked before id", domain.Dealer{}, false, ReasonNameRequired},
		{"whitespace name", domain.Dealer{ID: "x", Name: "   ", AvatarURL: "z"}, false, ReasonNameRequired},
		{"whitespace image", domain.Dealer{ID: "x", Name: "y", AvatarURL: " \t"}, false, ReasonImageRequired},
		{"stage image only", domain.Dealer{ID: "x", Name: "y", OutfitStages: []domain.OutfitStage{{}, {ImageURL: "s"}}}, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid, reason := IsCarouselEligible(&tt.dealer)
			assert.Equal(t, tt.valid, valid)
			assert.Equal(t, tt.reason, reason)
		})
	}
}

func TestCheckCarouselEligibility_IsValidationError(t *testing.T) {
	err := CheckCarouselEligibility(&domain.Dealer{ID: "x", Name: "y"})

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "images", vErr.Field)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestBuildCarousel_PriorOrderFirst(t *testing.T) {
	out := BuildCarousel(numbered(20), []string{"d5", "d2"}, 17)

	require.Len(t, out, 17)
	assert.Equal(t, []string{
		"d5", "d2", "d1", "d3", "d4", "d6", "d7", "d8", "d9",
		"d10", "d11", "d12", "d13", "d14", "d15", "d16", "d17",
	}, ids(out))
}

func TestBuildCarousel_Idempotent(t *testing.T) {
	in := numbered(20)
	prior := []string{"d9", "d3", "d14"}

	first := BuildCarousel(in, prior, 17)
	second := BuildCarousel(in, prior, 17)
	assert.Equal(t, first, second)

	again := BuildCarousel(first, ids(first), 17)
	assert.Equal(t, ids(first), ids(again))
}

func TestBuildCarousel_FiltersIneligibleAndUnknownPrior(t *testing.T) {
	in := []domain.Dealer{
		eligible("a"),
		{ID: "no-image", Name: "N"},
		eligible("b"),
		{ID: "", Name: "no id", AvatarURL: "x"},
		eligible("a"),
	}

	out := BuildCarousel(in, []string{"ghost", "b", "no-image", "b"}, 0)
	assert.Equal(t, []string{"b", "a"}, ids(out))
}

func TestBuildCarousel_NeverExceedsMax(t *testing.T) {
	for _, max := range []int{1, 5, 17} {
		out := BuildCarousel(numbered(30), nil, max)
		assert.Len(t, out, max)
	}
	assert.Len(t, BuildCarousel(numbered(30), nil, 0), domain.DefaultCarouselSize)
}

func TestAddToCarousel_Capacity(t *testing.T) {
	current := numbered(17)
	before := ids(current)

	out, err := AddToCarousel(current, eligible("new"), 17)
	assert.ErrorIs(t, err, ErrCapacityExceeded)
	assert.Equal(t, before, ids(out))
	assert.Equal(t, before, ids(current))
}

func TestAddToCarousel_Duplicate(t *testing.T) {
	current := numbered(3)

	_, err := AddToCarousel(current, eligible("d2"), 17)
	assert.ErrorIs(t, err, ErrDuplicateEntry)
}

func TestAddToCarousel_Ineligible(t *testing.T) {
	_, err := AddToCarousel(nil, domain.Dealer{ID: "x", Name: "y"}, 17)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAddToCarousel_AppendsWithoutMutatingInput(t *testing.T) {
	backing := make([]domain.Dealer, 2, 10)
	copy(backing, numbered(2))
	current := backing[:2]

	out, err := AddToCarousel(current, eligible("x"), 17)
	require.NoError(t, err)
	assert.Equal(t, []string{"d1", "d2", "x"}, ids(out))
	assert.Len(t, current, 2)
	assert.Empty(t, backing[:3][2].ID, "backing array untouched")
}

func TestRemoveFromCarousel(t *testing.T) {
	current := numbered(3)

	out := RemoveFromCarousel(current, "d2")
	assert.Equal(t, []string{"d1", "d3"}, ids(out))

	out = RemoveFromCarousel(out, "missing")
	assert.Equal(t, []string{"d1", "d3"}, ids(out))
	assert.Equal(t, []string{"d1", "d2", "d3"}, ids(current))
}

func TestPrimaryImage(t *testing.T) {
	d := domain.Dealer{OutfitStages: []domain.OutfitStage{{ImageURL: " stage0 "}, {ImageURL: "stage1"}}}
	assert.Equal(t, "stage0", PrimaryImage(&d))

	d.AvatarURL = "avatar"
	assert.Equal(t, "avatar", PrimaryImage(&d))

	assert.Empty(t, PrimaryImage(&domain.Dealer{}))
}

func TestPrimaryImage_OnlyFirstStage(t *testing.T) {
	d := domain.Dealer{OutfitStages: []domain.OutfitStage{{}, {ImageURL: "stage1"}, {ImageURL: "stage2"}}}
	assert.Empty(t, PrimaryImage(&d))

	ok, _ := IsCarouselEligible(&domain.Dealer{ID: "x", Name: "X", OutfitStages: d.OutfitStages})
	assert.True(t, ok)
}

func TestImageRequiredReasonText(t *testing.T) {
	_, reason := IsCarouselEligible(&domain.Dealer{ID: "x", Name: "y"})
	assert.Equal(t, "At least one image is required (Avatar or any outfit image)", reason)
}

func TestGenerateDealerID(t *testing.T) {
	now := time.UnixMilli(1718000001234)

	id := GenerateDealerID("José Ángel", now)
	assert.Regexp(t, regexp.MustCompile(`^dealer_jose_angel_\d{4}$`), id)
	assert.Equal(t, "dealer_jose_angel_1234", id)

	assert.Equal(t, "dealer_mia_0007", GenerateDealerID("  Mia!! ", time.UnixMilli(10007)))
	assert.Equal(t, "dealer_lucky_lady_7_0007", GenerateDealerID("Lucky\tLady   #7", time.UnixMilli(7)))
	assert.Equal(t, "dealer_francoise_0007", GenerateDealerID("Françoise", time.UnixMilli(7)))
	assert.Equal(t, "dealer_0007", GenerateDealerID("★★★", time.UnixMilli(7)))
	assert.Empty(t, GenerateDealerID("   ", now))
}

func TestGenerateDealerID_Live(t *testing.T) {
	assert.Regexp(t, `^dealer_jose_angel_\d{4}$`, GenerateDealerID("José Ángel", time.Now()))
}
