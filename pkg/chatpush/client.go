package chatpush

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

const defaultTimeout = 5 * time.Second

// Client is the chat platform push API client. Its access token is obtained
// through the refresh-token grant and reused until it expires.
type Client struct {
	apiURL     string
	httpClient *http.Client
}

// New creates a push client. ctx carries the base HTTP client for token
// refreshes and must outlive the returned Client.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.APIURL == "" {
		return nil, fmt.Errorf("chatpush: API URL is required")
	}
	if cfg.RefreshToken == "" || cfg.TokenURL == "" {
		return nil, fmt.Errorf("chatpush: refresh token and token URL are required")
	}

	base := cfg.BaseHTTPClient
	if base == nil {
		base = &http.Client{Timeout: defaultTimeout}
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, base)

	conf := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint: oauth2.Endpoint{
			TokenURL:  cfg.TokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
	ts := conf.TokenSource(ctx, &oauth2.Token{RefreshToken: cfg.RefreshToken})

	httpClient := oauth2.NewClient(ctx, ts)
	httpClient.Timeout = base.Timeout

	return &Client{
		apiURL:     strings.TrimRight(cfg.APIURL, "/"),
		httpClient: httpClient,
	}, nil
}

// SendMessage posts text into the conversation identified by channel and handle.
func (c *Client) SendMessage(ctx context.Context, channel, conversationHandle, text string) error {
	if channel == "" || conversationHandle == "" {
		return ErrMissingHandle
	}

	endpoint := fmt.Sprintf("%s/%s/conversations/%s/messages",
		c.apiURL, url.PathEscape(channel), url.PathEscape(conversationHandle))

	body, err := json.Marshal(SendMessageRequest{Text: text})
	if err != nil {
		return fmt.Errorf("chatpush: failed to marshal message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("chatpush: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("chatpush: failed to send message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &APIError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	return nil
}
