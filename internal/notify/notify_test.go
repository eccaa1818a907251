package notify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rsvp-whatsapp/internal/config"
	"rsvp-whatsapp/internal/models"
)

func TestNewSenderResolvesProvider(t *testing.T) {
	sender, err := NewSender(&config.Config{Provider: config.ProviderNone})
	require.NoError(t, err)
	assert.IsType(t, &NoopSender{}, sender)

	sender, err = NewSender(&config.Config{Provider: config.ProviderCloudAPI})
	require.NoError(t, err)
	assert.IsType(t, &CloudAPISender{}, sender)

	sender, err = NewSender(&config.Config{Provider: config.ProviderTwilio})
	require.NoError(t, err)
	assert.IsType(t, &TwilioSender{}, sender)
}

func TestNewSenderRejectsUnknownProvider(t *testing.T) {
	_, err := NewSender(&config.Config{Provider: "smoke_signals"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "smoke_signals")
}

func TestNoopSenderSkips(t *testing.T) {
	res, err := (&NoopSender{}).Send(context.Background(), "+919876543210", models.RSVP{})
	require.NoError(t, err)
	assert.Equal(t, StatusSkipped, res.Status)
}

func TestTruncateRunesCountsCharacters(t *testing.T) {
	assert.Equal(t, "नमस", truncateRunes("नमस्ते", 3))
	assert.Equal(t, "abc", truncateRunes("abc", 10))
}

func TestOrDash(t *testing.T) {
	assert.Equal(t, "-", orDash(""))
	assert.Equal(t, "B.Sc", orDash("B.Sc"))
}
