package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// TelegramOutbound sends replies through the Telegram Bot API.
type TelegramOutbound struct {
	baseURL string
	token   string
	client  *http.Client
}

func NewTelegramOutbound(baseURL, token string) (*TelegramOutbound, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, errors.New("assistant: TELEGRAM_TOKEN not set")
	}
	if baseURL == "" {
		baseURL = "https://api.telegram.org"
	}

	return &TelegramOutbound{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: 10 * time.Second},
	}, nil
}

func (c *TelegramOutbound) SendToChat(ctx context.Context, chatID string, text string) error {
	return c.call(ctx, "sendMessage", map[string]any{
		"chat_id": chatID,
		"text":    text,
	})
}

type telegramResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

func (c *TelegramOutbound) call(ctx context.Context, method string, body any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+"/bot"+c.token+"/"+method,
		bytes.NewReader(b),
	)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		// The URL carries the token; keep it out of the error.
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return fmt.Errorf("telegram %s: %w", method, err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))

	var parsed telegramResponse
	_ = json.Unmarshal(raw, &parsed)

	if resp.StatusCode >= 300 || !parsed.OK {
		return fmt.Errorf("telegram %s: %s description=%q", method, resp.Status, parsed.Description)
	}
	return nil
}
