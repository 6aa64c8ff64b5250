package dataurl_test

import (
	"strings"
	"testing"

	"github.com/Louistrash/lucky-flirty-blackjack-chat-sub001/internal/domain"
	"github.com/Louistrash/lucky-flirty-blackjack-chat-sub001/internal/lib/dataurl"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimateSize_StripsPrefix(t *testing.T) {
	prefix := "data:image/jpeg;base64,"
	cases := []string{"", "QQ==", "QUJD", "QUJDRA", "QUJDREVGRw=="}

	for _, payload := range cases {
		s := prefix + payload
		l, p := len(s), len(prefix)
		want := int64(((l-p)*3 + 3) / 4)
		assert.Equal(t, want, dataurl.EstimateSize(s), "payload %q", payload)
	}
}

func TestEstimateSize_WithoutPrefix(t *testing.T) {
	assert.Equal(t, int64(3), dataurl.EstimateSize("QUJD"))
	assert.Equal(t, int64(6), dataurl.EstimateSize("QUJDRA=")) // ceil(7*3/4)
}

func TestEncodeDecode(t *testing.T) {
	s := dataurl.Encode("image/png", []byte("pixels"))
	require.True(t, dataurl.IsInline(s))
	assert.True(t, strings.HasPrefix(s, "data:image/png;base64,"))

	mimeType, data, err := dataurl.Decode(s)
	require.NoError(t, err)
	assert.Equal(t, "image/png", mimeType)
	assert.Equal(t, []byte("pixels"), data)
}

func TestDecode_Errors(t *testing.T) {
	_, _, err := dataurl.Decode("https://cdn.example.com/a.jpg")
	assert.ErrorIs(t, err, dataurl.ErrNotInline)

	_, _, err = dataurl.Decode("data:image/png;base64")
	assert.ErrorIs(t, err, dataurl.ErrMalformedData)

	_, _, err = dataurl.Decode("data:image/svg+xml,<svg/>")
	assert.ErrorIs(t, err, dataurl.ErrMalformedData)

	_, _, err = dataurl.Decode("data:image/png;base64,***")
	assert.ErrorIs(t, err, dataurl.ErrMalformedData)
}

func TestIsInline(t *testing.T) {
	assert.True(t, dataurl.IsInline("data:image/jpeg;base64,AAAA"))
	assert.False(t, dataurl.IsInline("data:text/plain;base64,AAAA"))
	assert.False(t, dataurl.IsInline("https://example.com/x.png"))
	assert.False(t, dataurl.IsInline(""))
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, domain.ImageKindEmpty, dataurl.Describe("").Kind)

	inline := dataurl.Describe(dataurl.Encode("image/jpeg", make([]byte, 3072)))
	assert.Equal(t, domain.ImageKindInline, inline.Kind)
	assert.Equal(t, "3.0 KiB", inline.Size)

	long := "https://storage.example.com/" + strings.Repeat("a", 80)
	info := dataurl.Describe(long)
	assert.Equal(t, domain.ImageKindURL, info.Kind)
	assert.Len(t, info.Short, 53)
	assert.Equal(t, len(long), info.DisplayLength)
}

func TestFormatSize(t *testing.T) {
	assert.Equal(t, "0 B", dataurl.FormatSize(0))
	assert.Equal(t, "1.0 KiB", dataurl.FormatSize(1024))
	assert.Equal(t, "0 B", dataurl.FormatSize(-5))
}
