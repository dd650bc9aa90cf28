package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultTimeout = 15 * time.Second

// Client posts deliveries to the remote messaging API:
// POST {base}/teams/{team}/messages with the auth token as the
// Authorization header. The text and rich item lists travel JSON-encoded
// inside the message object, matching the service's wire contract.
type Client struct {
	baseURL   string
	authToken string
	http      *http.Client
}

type wireMessage struct {
	UserUID    string `json:"user_uid"`
	ChannelUID string `json:"channel_uid"`
	Text       string `json:"text,omitempty"`
	Rich       string `json:"rich,omitempty"`
	Reply      bool   `json:"reply"`
}

type wireBody struct {
	Message wireMessage `json:"message"`
}

// NewClient validates the endpoint settings and builds a delivery client.
func NewClient(baseURL string, authToken string) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("delivery base URL is required")
	}
	if strings.TrimSpace(authToken) == "" {
		return nil, errors.New("delivery auth token is required")
	}

	return &Client{
		baseURL:   baseURL,
		authToken: authToken,
		http:      &http.Client{Timeout: defaultTimeout},
	}, nil
}

// Deliver posts one batch. Any non-2xx status is returned as an error; the
// caller decides whether that is fatal for the rest of its work.
func (c *Client) Deliver(ctx context.Context, d Delivery) error {
	if d.TeamID == "" {
		return errors.New("delivery team id is required")
	}

	msg := wireMessage{
		UserUID:    d.UserID,
		ChannelUID: d.RoomID,
		Reply:      d.Reply,
	}

	if len(d.Text) > 0 {
		encoded, err := json.Marshal(d.Text)
		if err != nil {
			return fmt.Errorf("encode text items: %w", err)
		}
		msg.Text = string(encoded)
	}
	if len(d.Rich) > 0 {
		encoded, err := json.Marshal(d.Rich)
		if err != nil {
			return fmt.Errorf("encode rich items: %w", err)
		}
		msg.Rich = string(encoded)
	}

	body, err := json.Marshal(wireBody{Message: msg})
	if err != nil {
		return fmt.Errorf("encode delivery body: %w", err)
	}

	url := fmt.Sprintf("%s/teams/%s/messages", c.baseURL, d.TeamID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build delivery request: %w", err)
	}
	req.Header.Set("Authorization", c.authToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("deliver message: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("delivery rejected with status %d", resp.StatusCode)
	}
	return nil
}
