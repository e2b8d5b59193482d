package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"habitfree/internal/model"
	"habitfree/internal/service"
)

var _ service.Sink = (*WebhookSink)(nil)

// WebhookSink posts each delivered message to an HTTP endpoint.
type WebhookSink struct {
	client  *http.Client
	url     string
	authKey string
}

// WebhookOptions configures WebhookSink.
type WebhookOptions struct {
	URL     string
	AuthKey string
	Timeout time.Duration
}

// NewWebhookSink builds a WebhookSink.
func NewWebhookSink(opts WebhookOptions) *WebhookSink {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &WebhookSink{
		client:  &http.Client{Timeout: timeout},
		url:     opts.URL,
		authKey: opts.AuthKey,
	}
}

func (s *WebhookSink) Name() string { return "webhook" }

type webhookPayload struct {
	To        string `json:"to"`
	Content   string `json:"content"`
	MessageID int64  `json:"message_id"`
	SendDate  string `json:"send_date"`
}

type webhookResponse struct {
	Message   string `json:"message"`
	MessageID string `json:"messageId"`
}

// Deliver posts the message. Any non-2xx status or an explicit rejection in
// the response body is an error.
func (s *WebhookSink) Deliver(ctx context.Context, d model.Delivery) error {
	if s.url == "" {
		return errors.New("webhook URL is not configured")
	}

	body, err := json.Marshal(webhookPayload{
		To:        d.Username,
		Content:   d.Text,
		MessageID: d.MessageID,
		SendDate:  d.SendDate,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.authKey != "" {
		req.Header.Set("x-auth-key", s.authKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	var webhookResp webhookResponse
	if err := json.NewDecoder(resp.Body).Decode(&webhookResp); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decode webhook response: %w", err)
	}

	if webhookResp.Message != "" && webhookResp.Message != "Accepted" {
		return fmt.Errorf("webhook rejected message %d: %s", d.MessageID, webhookResp.Message)
	}

	return nil
}
