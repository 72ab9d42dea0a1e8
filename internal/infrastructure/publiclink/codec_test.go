package publiclink

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MiguelMtzP/crm-restaurant-backend/internal/application/port"
)

func TestCodec_RoundTrip(t *testing.T) {
	codec, err := NewCodec("s3cret", time.Hour)
	require.NoError(t, err)

	token, err := codec.Encode("order-42")
	require.NoError(t, err)
	assert.NotContains(t, token, "order-42")

	id, err := codec.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, "order-42", id)
}

func TestCodec_Rejects(t *testing.T) {
	codec, err := NewCodec("s3cret", time.Hour)
	require.NoError(t, err)
	other, err := NewCodec("different", time.Hour)
	require.NoError(t, err)

	forged, err := other.Encode("order-42")
	require.NoError(t, err)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	codec.now = func() time.Time { return base }
	old, err := codec.Encode("order-42")
	require.NoError(t, err)
	codec.now = func() time.Time { return base.Add(2 * time.Hour) }

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"empty", ""},
		{"wrong secret", forged},
		{"expired", old},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := codec.Decode(tt.token)
			assert.ErrorIs(t, err, port.ErrInvalidLink)
		})
	}
}

func TestCodec_NoExpiry(t *testing.T) {
	codec, err := NewCodec("s3cret", 0)
	require.NoError(t, err)

	token, err := codec.Encode("order-1")
	require.NoError(t, err)
	codec.now = func() time.Time { return time.Now().AddDate(5, 0, 0) }

	id, err := codec.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, "order-1", id)
}

func TestNewCodec_RequiresSecret(t *testing.T) {
	_, err := NewCodec("", time.Hour)
	assert.Error(t, err)

	codec, err := NewCodec("x", 0)
	require.NoError(t, err)
	_, err = codec.Encode("")
	assert.Error(t, err)
}
