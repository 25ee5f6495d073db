package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// EmailAPI sends mail through a transactional email HTTP API that accepts
// {from, to, subject, text, html} JSON with a bearer key (Resend and similar).
type EmailAPI struct {
	Endpoint string
	APIKey   string
	From     string
	Client   *http.Client
}

func NewEmailAPI(endpoint, apiKey, from string) *EmailAPI {
	if endpoint == "" || apiKey == "" {
		return nil
	}
	return &EmailAPI{
		Endpoint: endpoint,
		APIKey:   apiKey,
		From:     from,
		Client:   &http.Client{Timeout: 15 * time.Second},
	}
}

type emailAPIPayload struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Text    string   `json:"text"`
	HTML    string   `json:"html,omitempty"`
}

func (e *EmailAPI) Send(ctx context.Context, msg Message) error {
	if e == nil || e.Endpoint == "" || e.APIKey == "" {
		return fmt.Errorf("email api: %w", ErrNotConfigured)
	}
	if msg.To == "" {
		return fmt.Errorf("email api: no recipient")
	}
	body, err := json.Marshal(emailAPIPayload{
		From:    e.From,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Text:    msg.Text,
		HTML:    msg.HTML,
	})
	if err != nil {
		return fmt.Errorf("email api: encode payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.Endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("email api: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.APIKey)

	resp, err := e.Client.Do(req)
	if err != nil {
		return fmt.Errorf("email api: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("email api: %s: %s", resp.Status, strings.TrimSpace(string(detail)))
	}
	return nil
}
