package telegram

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ThreatMonitor/internal/domain"
	"ThreatMonitor/internal/ports"
)

const defaultAPIBase = "https://api.telegram.org"

// markdownEscaper escapes the entity characters of the Bot API legacy Markdown mode.
var markdownEscaper = strings.NewReplacer("_", "\\_", "*", "\\*", "`", "\\`", "[", "\\[")

// Notifier sends alert messages to a Telegram chat via bot API.
type Notifier struct {
	apiBase  string
	botToken string
	chatID   string
	client   *http.Client
}

var _ ports.Notifier = (*Notifier)(nil)

// NewNotifier registers bot token and chat identifier. An empty apiBase uses the public Bot API.
func NewNotifier(apiBase, botToken, chatID string) *Notifier {
	if apiBase == "" {
		apiBase = defaultAPIBase
	}
	return &Notifier{
		apiBase:  strings.TrimSuffix(apiBase, "/"),
		botToken: botToken,
		chatID:   chatID,
		client:   &http.Client{Timeout: 5 * time.Second},
	}
}

// Enabled reports whether both token and chat are set.
func (n *Notifier) Enabled() bool {
	return n != nil && n.botToken != "" && n.chatID != ""
}

// PublishAlert posts a Markdown message describing alert.
func (n *Notifier) PublishAlert(ctx context.Context, alert domain.LiveAlert) error {
	if !n.Enabled() || n.client == nil {
		return fmt.Errorf("telegram notifier: %w", domain.ErrNotConfigured)
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", n.apiBase, n.botToken)
	form := url.Values{}
	form.Set("chat_id", n.chatID)
	form.Set("text", FormatAlert(alert))
	form.Set("parse_mode", "Markdown")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram error: %s", resp.Status)
	}

	return nil
}

// FormatAlert renders the chat message body. Text coming from the feed is escaped
// so only the tier is formatted.
func FormatAlert(alert domain.LiveAlert) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*%s* threat (%.1f)\n%s\n", alert.Tier, alert.ThreatLevel, markdownEscaper.Replace(alert.Title))
	if len(alert.Locations) > 0 {
		fmt.Fprintf(&b, "Locations: %s\n", markdownEscaper.Replace(strings.Join(alert.Locations, ", ")))
	}
	if alert.Description != "" {
		b.WriteString(markdownEscaper.Replace(alert.Description))
		b.WriteString("\n")
	}
	if alert.Timestamp != "" {
		b.WriteString(markdownEscaper.Replace(alert.Timestamp))
	}
	return strings.TrimRight(b.String(), "\n")
}
