// Package client is a Go client for the ordering API used by kiosks, staff
// devices and integration jobs. Transient failures (network errors, 5xx and
// 429 responses) are retried with exponential backoff; other 4xx responses
// are returned immediately as *APIError.
package client

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

	"github.com/cenkalti/backoff/v4"
)

const (
	// DefaultBaseDelay is the wait before the first retry. It doubles on each
	// subsequent attempt.
	DefaultBaseDelay = time.Second
	// DefaultMaxRetries is the number of attempts made after the first one.
	DefaultMaxRetries = 2

	apiKeyHeader = "X-Api-Key"
)

// APIError is a non-2xx response from the API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: status %d", e.StatusCode)
	}
	return fmt.Sprintf("api: status %d: %s", e.StatusCode, e.Message)
}

// Temporary reports whether the request may succeed if retried.
func (e *APIError) Temporary() bool {
	return e.StatusCode >= 500 || e.StatusCode == http.StatusTooManyRequests
}

// Client calls the ordering API.
type Client struct {
	baseURL    string
	apiKey     string
	token      string
	httpClient *http.Client
	baseDelay  time.Duration
	maxRetries uint64
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithToken sets the staff bearer token sent on every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithBaseDelay overrides DefaultBaseDelay.
func WithBaseDelay(d time.Duration) Option {
	return func(c *Client) { c.baseDelay = d }
}

// WithMaxRetries overrides DefaultMaxRetries.
func WithMaxRetries(n uint64) Option {
	return func(c *Client) { c.maxRetries = n }
}

// New creates a Client for the API at baseURL. apiKey is sent on every
// request in the X-Api-Key header.
func New(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseDelay:  DefaultBaseDelay,
		maxRetries: DefaultMaxRetries,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken replaces the staff bearer token.
func (c *Client) SetToken(token string) {
	c.token = token
}

// --- Request / Response types ---

// OrderItem is one line of a submitted order. Price is informational; the
// server charges the catalog price.
type OrderItem struct {
	ItemID string `json:"itemId"`
	Name   string `json:"name,omitempty"`
	Qty    int32  `json:"qty"`
	Price  string `json:"price,omitempty"`
}

// SubmitOrderRequest is the customer's order for a table.
type SubmitOrderRequest struct {
	TableID string      `json:"tableId"`
	Token   string      `json:"token"`
	Items   []OrderItem `json:"items"`
}

// ItemStatusUpdate sets one order item's status.
type ItemStatusUpdate struct {
	OrderItemID string `json:"orderItemId"`
	Status      string `json:"status"`
}

type kitchenUpdateRequest struct {
	OrderID string             `json:"orderId"`
	Updates []ItemStatusUpdate `json:"updates"`
}

type servedRequest struct {
	OrderID     string    `json:"orderId"`
	ServedItems []string  `json:"servedItems"`
	Timestamp   time.Time `json:"timestamp"`
}

// LoginResult is a successful staff PIN login.
type LoginResult struct {
	Token   string `json:"token"`
	Role    string `json:"role"`
	StaffID string `json:"staffId"`
	Name    string `json:"name"`
}

// --- Operations ---

// Login exchanges a staff PIN for a bearer token and stores it on the client.
func (c *Client) Login(ctx context.Context, pin string) (LoginResult, error) {
	var res LoginResult
	if err := c.do(ctx, http.MethodPost, "/auth/pin", map[string]string{"pin": pin}, &res); err != nil {
		return LoginResult{}, err
	}
	c.token = res.Token
	return res, nil
}

// SubmitOrder places an order and returns its id.
func (c *Client) SubmitOrder(ctx context.Context, req SubmitOrderRequest) (string, error) {
	var res struct {
		OrderID string `json:"orderId"`
	}
	if err := c.do(ctx, http.MethodPost, "/orders", req, &res); err != nil {
		return "", err
	}
	return res.OrderID, nil
}

// KitchenUpdate applies a batch of item status changes to one order.
func (c *Client) KitchenUpdate(ctx context.Context, orderID string, updates []ItemStatusUpdate) error {
	return c.do(ctx, http.MethodPost, "/kitchen/updates", kitchenUpdateRequest{OrderID: orderID, Updates: updates}, nil)
}

// MarkServed marks the given items of an order as served.
func (c *Client) MarkServed(ctx context.Context, orderID string, itemIDs []string) error {
	body := servedRequest{OrderID: orderID, ServedItems: itemIDs, Timestamp: time.Now().UTC()}
	return c.do(ctx, http.MethodPost, "/orders/"+orderID+"/served", body, nil)
}

// GenerateBill returns the checkout URL for a served order.
func (c *Client) GenerateBill(ctx context.Context, orderID string) (string, error) {
	var res struct {
		CheckoutURL string `json:"checkoutUrl"`
	}
	if err := c.do(ctx, http.MethodPost, "/bills", map[string]string{"orderId": orderID}, &res); err != nil {
		return "", err
	}
	return res.CheckoutURL, nil
}

// --- Transport ---

func (c *Client) newBackOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.baseDelay
	b.Multiplier = 2
	b.RandomizationFactor = 0
	b.MaxInterval = c.baseDelay << c.maxRetries
	b.MaxElapsedTime = 0
	return backoff.WithContext(backoff.WithMaxRetries(b, c.maxRetries), ctx)
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var payload []byte
	if in != nil {
		var err error
		payload, err = json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}

	op := func() error {
		err := c.attempt(ctx, method, path, payload, out)
		var apiErr *APIError
		if errors.As(err, &apiErr) && !apiErr.Temporary() {
			return backoff.Permanent(err)
		}
		if err != nil && ctx.Err() != nil {
			return backoff.Permanent(err)
		}
		return err
	}

	return backoff.Retry(op, c.newBackOff(ctx))
}

func (c *Client) attempt(ctx context.Context, method, path string, payload []byte, out interface{}) error {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return backoff.Permanent(fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set(apiKeyHeader, c.apiKey)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var msg struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&msg)
		return &APIError{StatusCode: resp.StatusCode, Message: msg.Message}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return backoff.Permanent(fmt.Errorf("decode response: %w", err))
	}
	return nil
}
