package notify

import (
	"context"
	"testing"

	"calgrid/src-server/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWebhookURL(t *testing.T) {
	id, token, err := ParseWebhookURL("https://discord.com/api/webhooks/1234/abcDEF-_")
	require.NoError(t, err)
	assert.Equal(t, "1234", id)
	assert.Equal(t, "abcDEF-_", token)

	for _, bad := range []string{
		"https://discord.com/api/channels/1234",
		"https://discord.com/api/webhooks/1234",
		"://nope",
	} {
		_, _, err := ParseWebhookURL(bad)
		assert.Error(t, err, bad)
	}
}

func TestNewDiscord(t *testing.T) {
	d, err := NewDiscord("https://discord.com/api/webhooks/42/secret")
	require.NoError(t, err)
	assert.Equal(t, "42", d.webhookID)
	assert.Equal(t, "secret", d.token)

	_, err = NewDiscord("https://example.com/")
	assert.Error(t, err)
}

func TestDiscordDigestEmpty(t *testing.T) {
	d, err := NewDiscord("https://discord.com/api/webhooks/42/secret")
	require.NoError(t, err)
	// an empty day never reaches the network
	assert.NoError(t, d.Digest(context.Background(), "2025-11-26", nil))
}

func TestNop(t *testing.T) {
	var n Notifier = Nop{}
	assert.NoError(t, n.EventCreated(context.Background(), model.Event{}))
	assert.NoError(t, n.Digest(context.Background(), "2025-11-25", model.SampleEvents()))
}
