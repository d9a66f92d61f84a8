package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client handles communication with the agent webhook.
type Client struct {
	baseURL    string
	secret     string
	httpClient *http.Client
}

// NewClient creates a webhook client. timeout bounds the whole call; a hung
// agent fails the request instead of hanging it past the platform limit.
func NewClient(baseURL, secret string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		secret:     secret,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Send forwards a chat message to the agent and decodes the reply.
func (c *Client) Send(ctx context.Context, msg Request) (*AgentReply, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("agent webhook URL is not configured")
	}

	jsonData, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.secret != "" {
		req.Header.Set("X-Webhook-Secret", c.secret)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("agent webhook returned status %d: %s", resp.StatusCode, string(body))
	}

	reply, err := Decode(body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode agent response: %w", err)
	}
	return reply, nil
}
