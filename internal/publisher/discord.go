package publisher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ryosukesatoh/narrative-radar/internal/radar"
	"github.com/ryosukesatoh/narrative-radar/internal/retry"
)

type discordEmbedFooter struct {
	Text string `json:"text"`
}

type discordEmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

type discordEmbed struct {
	Title       string              `json:"title,omitempty"`
	URL         string              `json:"url,omitempty"`
	Description string              `json:"description,omitempty"`
	Color       int                 `json:"color,omitempty"`
	Fields      []discordEmbedField `json:"fields,omitempty"`
	Footer      *discordEmbedFooter `json:"footer,omitempty"`
	Timestamp   string              `json:"timestamp,omitempty"`
}

type discordWebhookPayload struct {
	Embeds []discordEmbed `json:"embeds"`
}

const discordColor = 0x14F195

// DiscordPublisher posts the ranked narratives to a Discord channel via webhook.
type DiscordPublisher struct {
	webhookURL  string
	client      *http.Client
	retryConfig retry.Config
	batchDelay  time.Duration
}

// NewDiscordPublisher creates a new DiscordPublisher.
func NewDiscordPublisher(webhookURL string) *DiscordPublisher {
	return &DiscordPublisher{
		webhookURL:  webhookURL,
		client:      &http.Client{Timeout: 30 * time.Second},
		retryConfig: retry.DefaultConfig(),
		batchDelay:  500 * time.Millisecond,
	}
}

// Publish sends one embed per narrative, batched to fit Discord limits.
func (d *DiscordPublisher) Publish(ctx context.Context, report *radar.Report) error {
	embeds := buildEmbeds(report)
	batches := batchEmbeds(embeds)

	for i, batch := range batches {
		err := retry.WithBackoff(ctx, d.retryConfig, func(ctx context.Context) error {
			return d.sendWebhook(ctx, batch)
		})
		if err != nil {
			return fmt.Errorf("discord: failed to send batch %d: %w", i+1, err)
		}

		// Delay between batches to avoid rate limits.
		if i < len(batches)-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(d.batchDelay):
			}
		}
	}
	return nil
}

// buildEmbeds creates a header embed and one embed per narrative.
func buildEmbeds(report *radar.Report) []discordEmbed {
	embeds := make([]discordEmbed, 0, len(report.Narratives)+1)

	embeds = append(embeds, discordEmbed{
		Title:       "Narrative Radar",
		Description: fmt.Sprintf("%d narratives from %d signals over the last %d days.", len(report.Narratives), len(report.Items), report.Window.Days),
		Color:       discordColor,
		Timestamp:   report.GeneratedAt,
	})

	for i, n := range report.Narratives {
		e := discordEmbed{
			Title:       truncateText(fmt.Sprintf("%d. %s", i+1, n.Title), 256),
			Description: truncateText(formatBullets(n.Why), 4096),
			Color:       discordColor,
			Footer:      &discordEmbedFooter{Text: fmt.Sprintf("score %.1f | %s", n.Score, strings.Join(n.Tags, ", "))},
		}
		if len(n.Evidence) > 0 {
			lines := make([]string, 0, len(n.Evidence))
			for _, ev := range n.Evidence {
				lines = append(lines, fmt.Sprintf("[%s](%s) (%s)", ev.Title, ev.URL, ev.SourceLabel))
			}
			e.URL = n.Evidence[0].URL
			e.Fields = append(e.Fields, discordEmbedField{Name: "Evidence", Value: truncateText(formatBullets(lines), 1024)})
		}
		if len(n.Ideas) > 0 {
			lines := make([]string, 0, len(n.Ideas))
			for _, idea := range n.Ideas {
				lines = append(lines, fmt.Sprintf("**%s**: %s", idea.Title, idea.Description))
			}
			e.Fields = append(e.Fields, discordEmbedField{Name: "Build ideas", Value: truncateText(formatBullets(lines), 1024)})
		}
		embeds = append(embeds, e)
	}

	return embeds
}

// batchEmbeds splits embeds into batches respecting Discord limits:
// max 10 embeds per message, max 6000 total characters per message.
func batchEmbeds(embeds []discordEmbed) [][]discordEmbed {
	var batches [][]discordEmbed
	var current []discordEmbed
	currentChars := 0

	for _, e := range embeds {
		ec := embedCharCount(e)

		if len(current) > 0 && (len(current) >= 10 || currentChars+ec > 6000) {
			batches = append(batches, current)
			current = nil
			currentChars = 0
		}

		current = append(current, e)
		currentChars += ec
	}

	if len(current) > 0 {
		batches = append(batches, current)
	}

	return batches
}

// sendWebhook posts a batch of embeds to the Discord webhook.
func (d *DiscordPublisher) sendWebhook(ctx context.Context, embeds []discordEmbed) error {
	body, err := json.Marshal(discordWebhookPayload{Embeds: embeds})
	if err != nil {
		return retry.Permanent(fmt.Errorf("marshal payload: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.webhookURL, bytes.NewReader(body))
	if err != nil {
		return retry.Permanent(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &retry.StatusError{StatusCode: resp.StatusCode}
	}
	return nil
}

// truncateText shortens s to max bytes, preferring a sentence boundary.
func truncateText(s string, max int) string {
	if len(s) <= max {
		return s
	}

	cut := strings.ToValidUTF8(s[:max-len("…")], "")
	if idx := strings.LastIndexAny(cut, ".!?"); idx > max/2 {
		return cut[:idx+1]
	}
	return cut + "…"
}

func formatBullets(lines []string) string {
	var b strings.Builder
	for i, l := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("• ")
		b.WriteString(l)
	}
	return b.String()
}

// embedCharCount returns the total character count of an embed for batching purposes.
func embedCharCount(e discordEmbed) int {
	n := len(e.Title) + len(e.Description)
	for _, f := range e.Fields {
		n += len(f.Name) + len(f.Value)
	}
	if e.Footer != nil {
		n += len(e.Footer.Text)
	}
	return n
}
