package checkout

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrInvalidAmount is returned for negative bill amounts.
var ErrInvalidAmount = errors.New("amount must be >= 0")

// Request describes the bill a checkout session is opened for.
type Request struct {
	OrderID     uuid.UUID
	TableID     string
	AmountCents int64
	Currency    string
}

// Session is an opened checkout session.
type Session struct {
	ID  string
	URL string
}

// Provider opens checkout sessions with a payment provider.
type Provider interface {
	CreateSession(ctx context.Context, req Request) (Session, error)
}

// HostedLink builds checkout links on a hosted payment page. It does not talk to
// a payment provider; the page reports completion through the payment webhook.
type HostedLink struct {
	BaseURL  string
	Currency string
}

// NewHostedLink creates a HostedLink provider.
func NewHostedLink(baseURL, currency string) *HostedLink {
	if currency == "" {
		currency = "usd"
	}
	return &HostedLink{BaseURL: strings.TrimRight(baseURL, "/"), Currency: currency}
}

// CreateSession returns a new session id and the hosted page URL for it.
func (h *HostedLink) CreateSession(ctx context.Context, req Request) (Session, error) {
	if req.AmountCents < 0 {
		return Session{}, ErrInvalidAmount
	}
	currency := req.Currency
	if currency == "" {
		currency = h.Currency
	}

	id := "cs_" + strings.ReplaceAll(uuid.NewString(), "-", "")

	q := url.Values{}
	q.Set("order", req.OrderID.String())
	q.Set("amount", FormatAmount(req.AmountCents))
	q.Set("currency", currency)

	return Session{
		ID:  id,
		URL: fmt.Sprintf("%s/pay/%s?%s", h.BaseURL, id, q.Encode()),
	}, nil
}

// FormatAmount renders minor currency units as a two-decimal string.
func FormatAmount(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}
