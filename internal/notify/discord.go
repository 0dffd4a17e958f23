package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/donaldgifford/apple-stock-notifier/internal/metrics"
)

const (
	colorGreen = 0x2ECC71 // in stock
	colorRed   = 0xE74C3C // out of stock

	channelDiscord = "discord"

	// Discord rejects embeds with more than 25 fields.
	maxEmbedFields = 25
)

// DiscordNotifier implements Notifier via Discord webhook.
type DiscordNotifier struct {
	webhookURL string
	client     *http.Client
}

// NewDiscordNotifier creates a new DiscordNotifier.
func NewDiscordNotifier(webhookURL string, opts ...DiscordOption) *DiscordNotifier {
	d := &DiscordNotifier{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DiscordOption configures a DiscordNotifier.
type DiscordOption func(*DiscordNotifier)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) DiscordOption {
	return func(d *DiscordNotifier) {
		d.client = c
	}
}

// discordWebhookPayload is the Discord webhook JSON structure.
type discordWebhookPayload struct {
	Embeds []discordEmbed `json:"embeds"`
}

type discordEmbed struct {
	Title       string              `json:"title"`
	Color       int                 `json:"color"`
	Description string              `json:"description,omitempty"`
	Fields      []discordEmbedField `json:"fields,omitempty"`
	Timestamp   string              `json:"timestamp,omitempty"`
}

type discordEmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

// SendAlert sends a single alert as a Discord embed.
func (d *DiscordNotifier) SendAlert(ctx context.Context, alert *StockAlert) error {
	payload := discordWebhookPayload{
		Embeds: []discordEmbed{buildEmbed(alert)},
	}
	if err := d.post(ctx, payload); err != nil {
		metrics.NotificationFailuresTotal.WithLabelValues(channelDiscord).Inc()
		return err
	}
	metrics.AlertsSentTotal.WithLabelValues(channelDiscord).Inc()
	return nil
}

func buildEmbed(alert *StockAlert) discordEmbed {
	embed := discordEmbed{
		Title:       "In stock: " + alert.Key.Product,
		Color:       colorGreen,
		Description: fmt.Sprintf("%s (%s)", alert.Key.Store, alert.PartNumber),
	}
	if alert.Kind == OutOfStock {
		embed.Title = "Out of stock: " + alert.Key.Product
		embed.Color = colorRed
	}
	if !alert.DetectedAt.IsZero() {
		embed.Timestamp = alert.DetectedAt.UTC().Format(time.RFC3339)
	}

	for i, s := range alert.Stores {
		if i == maxEmbedFields {
			break
		}
		embed.Fields = append(embed.Fields, discordEmbedField{
			Name:  s.Name,
			Value: fmt.Sprintf("%s\n%s\n%s", s.Address, s.Phone, s.Email),
		})
	}

	return embed
}

func (d *DiscordNotifier) post(ctx context.Context, payload discordWebhookPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling discord payload: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		d.webhookURL,
		bytes.NewReader(body),
	)
	if err != nil {
		return fmt.Errorf("creating discord request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending discord webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("discord rate limited (429)")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return fmt.Errorf("discord returned %d (body unreadable)", resp.StatusCode)
		}
		return fmt.Errorf("discord returned %d: %s", resp.StatusCode, respBody)
	}

	return nil
}
