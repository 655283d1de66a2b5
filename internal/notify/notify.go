// Package notify delivers outbound messages to payers through the
// messaging collaborator (the bot gateway owns contact resolution).
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

type Notifier interface {
	Notify(ctx context.Context, recipient, message string) error
}

// Nop drops every message. Used when no bot gateway is configured and
// in tests.
type Nop struct{}

func (Nop) Notify(ctx context.Context, recipient, message string) error {
	return nil
}

// BotGateway posts messages to the messaging bot's internal send
// endpoint. Delivery is best-effort; callers must not roll anything
// back when it fails.
type BotGateway struct {
	URL    string
	Token  string
	Client *http.Client
}

func NewBotGateway(url, token string) *BotGateway {
	return &BotGateway{
		URL:    url,
		Token:  token,
		Client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (b *BotGateway) Notify(ctx context.Context, recipient, message string) error {
	body, err := json.Marshal(map[string]string{
		"recipient": recipient,
		"message":   message,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.URL+"/messages", bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if b.Token != "" {
		req.Header.Set("Authorization", "Bearer "+b.Token)
	}

	resp, err := b.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("bot gateway returned status %d", resp.StatusCode)
	}
	return nil
}
