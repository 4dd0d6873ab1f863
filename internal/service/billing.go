package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/tabletap/api/internal/checkout"
	"github.com/tabletap/api/internal/database"
	"github.com/tabletap/api/internal/enum"
	"github.com/tabletap/api/internal/notify"
)

// GenerateBill opens a checkout session for a served order. Calling it again
// for the same order returns the existing bill.
func (s *OrderService) GenerateBill(ctx context.Context, orderID uuid.UUID) (database.Bill, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return database.Bill{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	order, err := store.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return database.Bill{}, fmt.Errorf("order %s: %w", orderID, ErrNotFound)
		}
		return database.Bill{}, fmt.Errorf("get order: %w", err)
	}

	existing, err := store.GetBillByOrder(ctx, orderID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return database.Bill{}, fmt.Errorf("get bill: %w", err)
	}

	if order.Status != database.OrderStatusServed {
		return database.Bill{}, fmt.Errorf("order %s is %s: %w", orderID, order.Status, ErrNotServed)
	}

	items, err := store.ListOrderItemsByOrder(ctx, orderID)
	if err != nil {
		return database.Bill{}, fmt.Errorf("list order items: %w", err)
	}

	session, err := s.checkout.CreateSession(ctx, checkout.Request{
		OrderID:     order.ID,
		TableID:     order.TableID,
		AmountCents: BillTotal(items),
	})
	if err != nil {
		return database.Bill{}, fmt.Errorf("create checkout session: %w", err)
	}

	bill, err := store.CreateBill(ctx, database.CreateBillParams{
		OrderID:     order.ID,
		SessionID:   session.ID,
		AmountCents: BillTotal(items),
		CheckoutUrl: session.URL,
	})
	if err != nil {
		if isUniqueViolation(err) {
			return database.Bill{}, fmt.Errorf("bill for order %s: %w", orderID, ErrConflict)
		}
		return database.Bill{}, fmt.Errorf("create bill: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return database.Bill{}, fmt.Errorf("commit tx: %w", err)
	}
	return bill, nil
}

// CompletePayment records a completed checkout session and moves the order to
// paid. Repeated deliveries of the same completion are no-ops.
func (s *OrderService) CompletePayment(ctx context.Context, sessionID string) (database.Order, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return database.Order{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	bill, err := store.GetBillBySession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return database.Order{}, fmt.Errorf("checkout session %s: %w", sessionID, ErrNotFound)
		}
		return database.Order{}, fmt.Errorf("get bill: %w", err)
	}

	order, err := store.GetOrder(ctx, bill.OrderID)
	if err != nil {
		return database.Order{}, fmt.Errorf("get order: %w", err)
	}

	if bill.Status == database.BillStatusPaid || order.Status == database.OrderStatusPaid {
		return order, nil
	}
	if order.Status != database.OrderStatusServed {
		return database.Order{}, fmt.Errorf("order %s is %s: %w", order.ID, order.Status, ErrIllegalTransition)
	}

	if _, err := store.MarkBillPaid(ctx, sessionID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return database.Order{}, fmt.Errorf("bill %s: %w", bill.ID, ErrConflict)
		}
		return database.Order{}, fmt.Errorf("mark bill paid: %w", err)
	}

	order, err = s.setTerminal(ctx, store, order, database.OrderStatusPaid)
	if err != nil {
		return database.Order{}, err
	}

	err = s.commitAndPublish(ctx, tx, order.ID, notify.Change{
		Table:   enum.TableOrders,
		Kind:    enum.ChangeUpdate,
		OrderID: order.ID,
		Order:   &order,
	})
	if err != nil {
		return database.Order{}, err
	}

	s.metrics.PaymentCompleted()
	return order, nil
}

// CloseOrder closes a served order without payment.
func (s *OrderService) CloseOrder(ctx context.Context, orderID uuid.UUID) (database.Order, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return database.Order{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	order, err := store.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return database.Order{}, fmt.Errorf("order %s: %w", orderID, ErrNotFound)
		}
		return database.Order{}, fmt.Errorf("get order: %w", err)
	}

	switch order.Status {
	case database.OrderStatusClosed:
		return order, nil
	case database.OrderStatusPaid:
		return database.Order{}, fmt.Errorf("order %s is already paid: %w", orderID, ErrIllegalTransition)
	case database.OrderStatusServed:
	default:
		return database.Order{}, fmt.Errorf("order %s is %s: %w", orderID, order.Status, ErrNotServed)
	}

	order, err = s.setTerminal(ctx, store, order, database.OrderStatusClosed)
	if err != nil {
		return database.Order{}, err
	}

	err = s.commitAndPublish(ctx, tx, order.ID, notify.Change{
		Table:   enum.TableOrders,
		Kind:    enum.ChangeUpdate,
		OrderID: order.ID,
		Order:   &order,
	})
	if err != nil {
		return database.Order{}, err
	}
	return order, nil
}

func (s *OrderService) setTerminal(ctx context.Context, store OrderStore, order database.Order, status database.OrderStatus) (database.Order, error) {
	updated, err := store.UpdateOrderStatus(ctx, database.UpdateOrderStatusParams{
		ID:       order.ID,
		Status:   status,
		Status_2: order.Status,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.metrics.Conflict("set_" + string(status))
			return database.Order{}, fmt.Errorf("order %s: %w", order.ID, ErrConflict)
		}
		return database.Order{}, fmt.Errorf("update order status: %w", err)
	}
	return updated, nil
}

// BillTotal sums price × quantity over the items, in minor currency units.
func BillTotal(items []database.OrderItem) int64 {
	var total int64
	for _, item := range items {
		total += item.PriceCents * int64(item.Quantity)
	}
	return total
}

// isUniqueViolation checks for a pgconn unique constraint violation (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
