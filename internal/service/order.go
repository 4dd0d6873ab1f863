package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/tabletap/api/internal/checkout"
	"github.com/tabletap/api/internal/database"
	"github.com/tabletap/api/internal/enum"
	"github.com/tabletap/api/internal/metrics"
	"github.com/tabletap/api/internal/notify"
)

// TxBeginner starts a new database transaction.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// OrderStore defines the DB methods the order lifecycle needs.
// Satisfied by *database.Queries (and its WithTx variant).
type OrderStore interface {
	GetTableToken(ctx context.Context, tableID string) (database.TableToken, error)
	GetMenuItem(ctx context.Context, id string) (database.MenuItem, error)
	CreateOrder(ctx context.Context, tableID string) (database.Order, error)
	CreateOrderItem(ctx context.Context, arg database.CreateOrderItemParams) (database.OrderItem, error)
	GetOrder(ctx context.Context, id uuid.UUID) (database.Order, error)
	GetOrderItem(ctx context.Context, id uuid.UUID) (database.OrderItem, error)
	ListOrderItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]database.OrderItem, error)
	UpdateOrderItemStatus(ctx context.Context, arg database.UpdateOrderItemStatusParams) (database.OrderItem, error)
	UpdateOrderStatus(ctx context.Context, arg database.UpdateOrderStatusParams) (database.Order, error)
	UpdateOrderDerivedStatus(ctx context.Context, arg database.UpdateOrderDerivedStatusParams) (database.Order, error)
	CreateBill(ctx context.Context, arg database.CreateBillParams) (database.Bill, error)
	GetBillByOrder(ctx context.Context, orderID uuid.UUID) (database.Bill, error)
	GetBillBySession(ctx context.Context, sessionID string) (database.Bill, error)
	MarkBillPaid(ctx context.Context, sessionID string) (database.Bill, error)
}

// NewOrderStore creates an OrderStore from a DBTX (pool or tx).
type NewOrderStore func(db database.DBTX) OrderStore

// Publisher receives committed order changes.
// Satisfied by *notify.Notifier.
type Publisher interface {
	Publish(c notify.Change)
}

// SubmitRequest is a customer order placed from a table.
type SubmitRequest struct {
	TableID string
	Token   string
	Items   []SubmitItem
}

// SubmitItem is one requested line. Name and PriceCents come from the client
// and are never persisted; the catalog is authoritative.
type SubmitItem struct {
	MenuItemID string
	Name       string
	Quantity   int32
	PriceCents *int64
}

// OrderResult is an order together with its items.
type OrderResult struct {
	Order database.Order
	Items []database.OrderItem
}

// OrderService owns the order lifecycle: submission, item status transitions,
// derived order status and billing.
type OrderService struct {
	pool     TxBeginner
	newStore NewOrderStore
	pub      Publisher
	checkout checkout.Provider
	metrics  *metrics.Collector
	locks    orderLocks
	now      func() time.Time
}

// NewOrderService creates a new OrderService.
func NewOrderService(pool TxBeginner, newStore NewOrderStore, pub Publisher, provider checkout.Provider, m *metrics.Collector) *OrderService {
	return &OrderService{
		pool:     pool,
		newStore: newStore,
		pub:      pub,
		checkout: provider,
		metrics:  m,
		now:      time.Now,
	}
}

// Submit validates the table token, prices items from the catalog and creates
// the order and all of its items in one transaction.
func (s *OrderService) Submit(ctx context.Context, req SubmitRequest) (*OrderResult, error) {
	result, err := s.submit(ctx, req)
	if err != nil {
		s.metrics.OrderSubmitted(submitOutcome(err))
		return nil, err
	}
	s.metrics.OrderSubmitted("ok")
	return result, nil
}

func (s *OrderService) submit(ctx context.Context, req SubmitRequest) (*OrderResult, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	// --- Admission ---
	if err := s.checkToken(ctx, store, req.TableID, req.Token); err != nil {
		return nil, err
	}

	// --- Validate items ---
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: at least one item is required", ErrInvalidItems)
	}
	for i, item := range req.Items {
		if item.Quantity < enum.MinItemQuantity || item.Quantity > enum.MaxItemQuantity {
			return nil, fmt.Errorf("%w: items[%d] quantity must be between %d and %d",
				ErrInvalidItems, i, enum.MinItemQuantity, enum.MaxItemQuantity)
		}
		if item.MenuItemID == "" {
			return nil, fmt.Errorf("%w: items[%d] menu item id is required", ErrInvalidItems, i)
		}
	}

	// --- Price from catalog ---
	params := make([]database.CreateOrderItemParams, len(req.Items))
	for i, item := range req.Items {
		menuItem, err := store.GetMenuItem(ctx, item.MenuItemID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, fmt.Errorf("%w: items[%d] unknown menu item %q", ErrInvalidItems, i, item.MenuItemID)
			}
			return nil, fmt.Errorf("items[%d]: get menu item: %w", i, err)
		}
		if !menuItem.Available {
			return nil, fmt.Errorf("%w: items[%d] %q is not available", ErrInvalidItems, i, menuItem.Name)
		}
		params[i] = database.CreateOrderItemParams{
			MenuItemID: menuItem.ID,
			Name:       menuItem.Name,
			PriceCents: menuItem.PriceCents,
			Quantity:   item.Quantity,
		}
	}

	// --- Insert order + items ---
	order, err := store.CreateOrder(ctx, req.TableID)
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	items := make([]database.OrderItem, 0, len(params))
	for _, p := range params {
		p.OrderID = order.ID
		item, err := store.CreateOrderItem(ctx, p)
		if err != nil {
			return nil, fmt.Errorf("create order item: %w", err)
		}
		items = append(items, item)
	}

	// --- Commit + notify ---
	err = s.commitAndPublish(ctx, tx, order.ID, notify.Change{
		Table:   enum.TableOrders,
		Kind:    enum.ChangeInsert,
		OrderID: order.ID,
		Order:   &order,
		Items:   items,
	})
	if err != nil {
		return nil, err
	}

	return &OrderResult{Order: order, Items: items}, nil
}

// checkToken fails with ErrInvalidToken when the table has no token, the token
// does not match, or it has expired.
func (s *OrderService) checkToken(ctx context.Context, store OrderStore, tableID, token string) error {
	if tableID == "" || token == "" {
		return ErrInvalidToken
	}
	tt, err := store.GetTableToken(ctx, tableID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrInvalidToken
		}
		return fmt.Errorf("get table token: %w", err)
	}
	if subtle.ConstantTimeCompare([]byte(tt.Token), []byte(token)) != 1 {
		return ErrInvalidToken
	}
	if !tt.ExpiresAt.After(s.now()) {
		return ErrInvalidToken
	}
	return nil
}

// commitAndPublish commits tx and publishes c while holding the order's lock,
// so changes to one order leave this process in commit order.
func (s *OrderService) commitAndPublish(ctx context.Context, tx pgx.Tx, orderID uuid.UUID, c notify.Change) error {
	unlock := s.locks.lock(orderID)
	defer unlock()

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	if s.pub != nil {
		c.At = s.now()
		s.pub.Publish(c)
	}
	return nil
}

func submitOutcome(err error) string {
	switch {
	case errors.Is(err, ErrInvalidToken):
		return "invalid_token"
	case errors.Is(err, ErrInvalidItems):
		return "invalid_items"
	}
	return "error"
}

// orderLocks is a fixed set of mutexes striped by order id.
type orderLocks struct {
	mu [64]sync.Mutex
}

func (l *orderLocks) lock(id uuid.UUID) func() {
	m := &l.mu[int(id[len(id)-1])%len(l.mu)]
	m.Lock()
	return m.Unlock
}
