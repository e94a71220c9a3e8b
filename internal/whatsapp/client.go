// ABOUTME: WhatsApp Cloud API client for sending text messages.
// ABOUTME: Posts to the Graph API messages endpoint with bearer auth.

package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultGraphURL is the Meta Graph API base used when no override is
// configured.
const DefaultGraphURL = "https://graph.facebook.com/v18.0"

// ErrSendFailed is returned when the Graph API rejects an outbound
// message.
var ErrSendFailed = errors.New("whatsapp send failed")

// Client sends messages through the WhatsApp Cloud API on behalf of a
// single business phone number.
type Client struct {
	graphURL      string
	phoneNumberID string
	accessToken   string
	httpClient    *http.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithGraphURL overrides the Graph API base URL. Used in tests to point
// the client at a local server.
func WithGraphURL(url string) ClientOption {
	return func(c *Client) {
		c.graphURL = url
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a WhatsApp client for the given business phone
// number ID and access token.
func NewClient(phoneNumberID, accessToken string, opts ...ClientOption) *Client {
	c := &Client{
		graphURL:      DefaultGraphURL,
		phoneNumberID: phoneNumberID,
		accessToken:   accessToken,
		httpClient:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// sendRequest is the JSON body for the Graph API messages endpoint.
type sendRequest struct {
	MessagingProduct string   `json:"messaging_product"`
	RecipientType    string   `json:"recipient_type"`
	To               string   `json:"to"`
	Type             string   `json:"type"`
	Text             sendText `json:"text"`
}

type sendText struct {
	Body       string `json:"body"`
	PreviewURL bool   `json:"preview_url"`
}

// SendText delivers a plain text message to the given phone number.
func (c *Client) SendText(ctx context.Context, phoneNumber, text string) error {
	body := sendRequest{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               phoneNumber,
		Type:             "text",
		Text:             sendText{Body: text},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding send request: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", c.graphURL, c.phoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("building send request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSendFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// The Graph API returns error details in the body; keep a
		// short excerpt for the log line.
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: status %d: %s", ErrSendFailed, resp.StatusCode, string(detail))
	}

	return nil
}
