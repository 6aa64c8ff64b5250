package dealer

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/Louistrash/lucky-flirty-blackjack-chat-sub001/internal/domain"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// GenerateDealerID builds dealer_<slug>_<dddd> where dddd are the last four
// digits of now in milliseconds. An empty name yields an empty id.
func GenerateDealerID(name string, now time.Time) string {
	if strings.TrimSpace(name) == "" {
		return ""
	}

	suffix := fmt.Sprintf("%04d", now.UnixMilli()%10000)

	slug := slugify(name)
	if slug == "" {
		return domain.DealerIDPrefix + suffix
	}
	return domain.DealerIDPrefix + slug + "_" + suffix
}

func slugify(name string) string {
	stripped, _, err := transform.String(
		transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC),
		strings.ToLower(name),
	)
	if err != nil {
		stripped = strings.ToLower(name)
	}

	var b strings.Builder
	for _, r := range stripped {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteByte(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), "_")
}
