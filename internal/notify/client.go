// Package notify provides a webhook client for announcing achievement unlocks.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/flashmind/flashmind-server/internal/config"
	"github.com/flashmind/flashmind-server/internal/models"
	"github.com/flashmind/flashmind-server/pkg/logger"
)

// Client posts unlock announcements to a configured webhook (Mattermost
// or Slack compatible payload).
type Client struct {
	webhookURL string
	channel    string
	enabled    bool
	log        *logger.Logger
}

// NewClient creates a new webhook client.
func NewClient(cfg *config.NotifyConfig, log *logger.Logger) *Client {
	return &Client{
		webhookURL: cfg.WebhookURL,
		channel:    cfg.Channel,
		enabled:    cfg.Enabled,
		log:        log,
	}
}

// Message represents a webhook message payload.
type Message struct {
	Channel  string `json:"channel,omitempty"`
	Username string `json:"username,omitempty"`
	Text     string `json:"text,omitempty"`
	IconURL  string `json:"icon_url,omitempty"`
}

// SendMessage sends a message to the webhook.
func (c *Client) SendMessage(msg *Message) error {
	if !c.enabled {
		c.log.Debug().Msg("Notifications are disabled, skipping message")
		return nil
	}

	if msg.Channel == "" {
		msg.Channel = c.channel
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "POST", c.webhookURL, bytes.NewBuffer(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send webhook message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	c.log.Debug().
		Str("channel", msg.Channel).
		Msg("Sent webhook message")

	return nil
}

// SendAchievementUnlocked announces newly unlocked achievements for a user.
func (c *Client) SendAchievementUnlocked(username string, unlocked []models.Achievement) error {
	if !c.enabled || len(unlocked) == 0 {
		return nil
	}

	text := fmt.Sprintf("🏆 **@%s** unlocked %d achievement(s):\n\n", username, len(unlocked))
	for _, a := range unlocked {
		text += fmt.Sprintf("%s **%s**: %s (+%d points)\n", a.Icon, a.Name, a.Description, a.Points)
	}

	return c.SendMessage(&Message{
		Username: "FlashMind Bot",
		Text:     text,
	})
}
