package email

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

// emailJSClient is the concrete Sender backed by the EmailJS REST API.
type emailJSClient struct {
	publicKey  string // EmailJS "user_id"
	privateKey string // EmailJS access token for server-side calls
	httpClient *http.Client
}

// NewEmailJSClient returns a Sender that delivers email via EmailJS. The
// private key must be sent as accessToken — EmailJS rejects bare server-side
// calls when strict mode is enabled on the account.
func NewEmailJSClient(publicKey, privateKey string) Sender {
	return &emailJSClient{
		publicKey:  publicKey,
		privateKey: privateKey,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// ─── EMAILJS API SHAPES ───────────────────────────────────────────────────────

type emailJSRequest struct {
	ServiceID      string            `json:"service_id"`
	TemplateID     string            `json:"template_id"`
	UserID         string            `json:"user_id"`
	AccessToken    string            `json:"accessToken"`
	TemplateParams map[string]string `json:"template_params"`
}

// EmailJS responds with a plain-text body: "OK" on success, an error
// description otherwise. There is no JSON envelope to parse.

// ─── SENDER IMPLEMENTATION ────────────────────────────────────────────────────

// Send posts one templated email to the EmailJS REST endpoint.
func (c *emailJSClient) Send(ctx context.Context, serviceID, templateID string, params map[string]string) (string, error) {
	reqBody := emailJSRequest{
		ServiceID:      serviceID,
		TemplateID:     templateID,
		UserID:         c.publicKey,
		AccessToken:    c.privateKey,
		TemplateParams: params,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("email: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		"https://api.emailjs.com/api/v1.0/email/send",
		bytes.NewReader(bodyBytes),
	)
	if err != nil {
		return "", fmt.Errorf("email: build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("email: http request: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return "", fmt.Errorf("email: read response: %w", err)
	}

	status := strings.TrimSpace(string(respBytes))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("email: EmailJS error status %d: %.200s", resp.StatusCode, status)
	}

	return status, nil
}
