package mailer

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

	"github.com/relovedshop/reloved-backend/pkg/config"
)

const responseBodyReadLimit int64 = 4096

var errFunctionURLRequired = errors.New("mailer function url is required")

// Client wraps the hosted email-sending function. The function accepts a JSON
// payload and returns nothing useful beyond its status code.
type Client struct {
	httpClient  *http.Client
	functionURL string
	apiKey      string
	orderTo     string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient builds the mailer client from configuration.
func NewClient(cfg config.MailerConfig, opts ...Option) (*Client, error) {
	functionURL := strings.TrimSpace(cfg.FunctionURL)
	if functionURL == "" {
		return nil, errFunctionURLRequired
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := &Client{
		httpClient:  &http.Client{Timeout: timeout},
		functionURL: functionURL,
		apiKey:      strings.TrimSpace(cfg.APIKey),
		orderTo:     strings.TrimSpace(cfg.OrderTo),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	return client, nil
}

// OrderLine is one purchased item inside the notification payload.
type OrderLine struct {
	Title      string `json:"title"`
	Brand      string `json:"brand,omitempty"`
	Size       string `json:"size,omitempty"`
	Quantity   int    `json:"quantity"`
	PriceCents int    `json:"price_cents"`
}

// OrderNotification carries everything the store operator needs to verify a
// manual payment.
type OrderNotification struct {
	OrderID          string      `json:"order_id"`
	BuyerName        string      `json:"buyer_name"`
	BuyerEmail       string      `json:"buyer_email"`
	BuyerPhone       string      `json:"buyer_phone"`
	Lines            []OrderLine `json:"lines"`
	TotalCents       int         `json:"total_cents"`
	Currency         string      `json:"currency"`
	PaymentProofName string      `json:"payment_proof_name,omitempty"`
}

// SendOrderNotification posts the order payload to the email function. The
// call is single-attempt; the caller decides what a failure means.
func (c *Client) SendOrderNotification(ctx context.Context, notification OrderNotification) error {
	if strings.TrimSpace(notification.BuyerEmail) == "" {
		return errors.New("buyer email is required")
	}

	payload := struct {
		To    string            `json:"to,omitempty"`
		Order OrderNotification `json:"order"`
	}{
		To:    c.orderTo,
		Order: notification,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding order notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.functionURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building mailer request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("calling mailer function: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		return fmt.Errorf("mailer function returned %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	return nil
}
