// Package dataurl holds the helpers shared by the image pipeline and the
// dealer catalog for inline (RFC 2397, base64) image strings.
package dataurl

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/Louistrash/lucky-flirty-blackjack-chat-sub001/internal/domain"

	"github.com/dustin/go-humanize"
)

var (
	ErrNotInline     = errors.New("not an inline image")
	ErrMalformedData = errors.New("malformed data url")
)

const shortLength = 50

type Info struct {
	Kind          domain.ImageKind `json:"kind"`
	Size          string           `json:"size"`
	DisplayLength int              `json:"display_length"`
	Short         string           `json:"short,omitempty"`
}

func Encode(mimeType string, data []byte) string {
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))
}

// Decode returns the mime type and the raw bytes of a base64 image data URL.
func Decode(s string) (string, []byte, error) {
	if !IsInline(s) {
		return "", nil, ErrNotInline
	}

	header, payload, ok := strings.Cut(strings.TrimPrefix(s, "data:"), ",")
	if !ok {
		return "", nil, ErrMalformedData
	}

	mimeType, params, _ := strings.Cut(header, ";")
	if !strings.Contains(params, "base64") {
		return "", nil, fmt.Errorf("%w: only base64 payloads are supported", ErrMalformedData)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrMalformedData, err)
	}

	return mimeType, data, nil
}

func IsInline(s string) bool {
	return strings.HasPrefix(s, domain.InlineImagePrefix)
}

// EstimateSize approximates the decoded byte size of an encoded string:
// every 4 base64 characters carry 3 bytes. A "data:...," prefix is ignored.
func EstimateSize(s string) int64 {
	if _, payload, ok := strings.Cut(s, ","); ok {
		s = payload
	}
	n := int64(len(s))
	return (n*3 + 3) / 4
}

func FormatSize(bytes int64) string {
	if bytes < 0 {
		bytes = 0
	}
	return humanize.IBytes(uint64(bytes))
}

func Describe(s string) Info {
	switch {
	case s == "":
		return Info{Kind: domain.ImageKindEmpty, Size: FormatSize(0)}
	case IsInline(s):
		size := FormatSize(EstimateSize(s))
		return Info{
			Kind:          domain.ImageKindInline,
			Size:          size,
			DisplayLength: len(s),
			Short:         fmt.Sprintf("%s... (%s)", domain.InlineImagePrefix, size),
		}
	default:
		short := s
		if len(short) > shortLength {
			short = short[:shortLength] + "..."
		}
		return Info{
			Kind:          domain.ImageKindURL,
			Size:          "unknown",
			DisplayLength: len(s),
			Short:         short,
		}
	}
}
