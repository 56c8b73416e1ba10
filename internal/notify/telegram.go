// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package notify delivers the daily digest to a Telegram chat.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/pdiddy/strategy-scout/internal/httputil"
	"github.com/pdiddy/strategy-scout/pkg/types"
)

// telegramAPIBase is the Telegram Bot API root, overridable in tests.
var telegramAPIBase = "https://api.telegram.org"

// DefaultMaxRunes is the message length budget. Telegram caps messages at
// 4096 characters; the budget leaves room for the truncation marker.
const DefaultMaxRunes = 4000

// truncationMarker is appended when a message is cut to fit the budget.
const truncationMarker = "\n… (truncated)"

// Notifier sends messages through the Telegram Bot API.
type Notifier struct {
	Client *http.Client
	cfg    types.NotifyConfig
}

// NewNotifier returns a notifier for the configured bot and chat.
func NewNotifier(client *http.Client, cfg types.NotifyConfig) *Notifier {
	if cfg.MaxRunes <= 0 {
		cfg.MaxRunes = DefaultMaxRunes
	}
	return &Notifier{Client: client, cfg: cfg}
}

// Configured reports whether both credentials are present. Send is a no-op
// otherwise.
func (n *Notifier) Configured() bool {
	return n.cfg.BotToken != "" && n.cfg.ChatID != ""
}

// Send posts text to the configured chat, truncating on a rune boundary when
// it exceeds the budget. Missing credentials skip delivery without error.
func (n *Notifier) Send(ctx context.Context, text string) error {
	if !n.Configured() {
		return nil
	}

	body, err := json.Marshal(map[string]string{
		"chat_id": n.cfg.ChatID,
		"text":    Truncate(text, n.cfg.MaxRunes),
	})
	if err != nil {
		return fmt.Errorf("encoding Telegram message: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", telegramAPIBase, n.cfg.BotToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(string(body)))
	if err != nil {
		return fmt.Errorf("creating Telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := httputil.DoWithRetry(ctx, n.Client, req, 0)
	if err != nil {
		return fmt.Errorf("Telegram request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("Telegram returned HTTP %d", resp.StatusCode)
	}
	return nil
}

// Truncate cuts text to at most maxRunes runes, appending a marker when
// anything was removed. The cut never splits a multi-byte character.
func Truncate(text string, maxRunes int) string {
	if maxRunes <= 0 {
		maxRunes = DefaultMaxRunes
	}
	runes := []rune(text)
	if len(runes) <= maxRunes {
		return text
	}
	marker := []rune(truncationMarker)
	keep := maxRunes - len(marker)
	if keep < 0 {
		keep = 0
	}
	return string(runes[:keep]) + truncationMarker
}
