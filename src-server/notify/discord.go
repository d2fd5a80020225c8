// Package notify announces calendar activity to chat.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"calgrid/src-server/model"

	"github.com/bwmarrin/discordgo"
)

type Notifier interface {
	// A new event was stored.
	EventCreated(ctx context.Context, e model.Event) error
	// Summary of every event on date.
	Digest(ctx context.Context, date string, events []model.Event) error
}

// Nop drops every notification.
type Nop struct{}

func (Nop) EventCreated(context.Context, model.Event) error { return nil }
func (Nop) Digest(context.Context, string, []model.Event) error { return nil }

// Discord posts to a channel webhook.
type Discord struct {
	session   *discordgo.Session
	webhookID string
	token     string
}

// Discord caps a message at 10 embeds.
const maxEmbeds = 10

func NewDiscord(webhookURL string) (*Discord, error) {
	webhookID, token, err := ParseWebhookURL(webhookURL)
	if err != nil {
		return nil, fmt.Errorf("NewDiscord: %w", err)
	}
	// webhooks need no bot token
	session, err := discordgo.New("")
	if err != nil {
		return nil, fmt.Errorf("NewDiscord: %w", err)
	}
	return &Discord{session: session, webhookID: webhookID, token: token}, nil
}

// Split https://discord.com/api/webhooks/{id}/{token} into id and token.
func ParseWebhookURL(webhookURL string) (string, string, error) {
	u, err := url.Parse(webhookURL)
	if err != nil {
		return "", "", err
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i := 0; i+2 < len(parts); i++ {
		if parts[i] == "webhooks" && parts[i+1] != "" && parts[i+2] != "" {
			return parts[i+1], parts[i+2], nil
		}
	}
	return "", "", fmt.Errorf("%q is not a webhook url", webhookURL)
}

func (d *Discord) EventCreated(ctx context.Context, e model.Event) error {
	return d.send(ctx, &discordgo.WebhookParams{
		Content: "New event added",
		Embeds:  []*discordgo.MessageEmbed{e.ToDiscordEmbed()},
	})
}

func (d *Discord) Digest(ctx context.Context, date string, events []model.Event) error {
	if len(events) == 0 {
		slog.Debug("nothing to digest", "date", date)
		return nil
	}
	embeds := make([]*discordgo.MessageEmbed, 0, min(len(events), maxEmbeds))
	for i := range events {
		if len(embeds) == maxEmbeds {
			break
		}
		embeds = append(embeds, events[i].ToDiscordEmbed())
	}
	content := fmt.Sprintf("%d event(s) on %s", len(events), date)
	if len(events) > maxEmbeds {
		content += fmt.Sprintf(", showing the first %d", maxEmbeds)
	}
	return d.send(ctx, &discordgo.WebhookParams{
		Content: content,
		Embeds:  embeds,
	})
}

func (d *Discord) send(ctx context.Context, params *discordgo.WebhookParams) error {
	if _, err := d.session.WebhookExecute(d.webhookID, d.token, false, params, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("(*Discord).send: %w", err)
	}
	return nil
}
