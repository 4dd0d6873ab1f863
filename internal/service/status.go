package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/tabletap/api/internal/database"
	"github.com/tabletap/api/internal/enum"
	"github.com/tabletap/api/internal/notify"
)

// ItemUpdate sets one order item to a new status.
type ItemUpdate struct {
	ItemID uuid.UUID
	Status database.OrderItemStatus
}

// ApplyItemStatus moves a single item forward and returns the recomputed order status.
// Re-applying the item's current status succeeds without writing anything.
func (s *OrderService) ApplyItemStatus(ctx context.Context, itemID uuid.UUID, status database.OrderItemStatus) (database.OrderStatus, error) {
	if !status.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	orderID, err := s.orderIDForItem(ctx, itemID)
	if err != nil {
		return "", err
	}

	return s.applyBatch(ctx, "apply_item_status", orderID, []ItemUpdate{{ItemID: itemID, Status: status}})
}

// MarkServed marks every listed item of the order as served, recomputing the
// order status once for the whole batch.
func (s *OrderService) MarkServed(ctx context.Context, orderID uuid.UUID, itemIDs []uuid.UUID) (database.OrderStatus, error) {
	if len(itemIDs) == 0 {
		return "", fmt.Errorf("%w: no items to mark served", ErrInvalidItems)
	}

	updates := make([]ItemUpdate, len(itemIDs))
	for i, id := range itemIDs {
		updates[i] = ItemUpdate{ItemID: id, Status: database.OrderItemStatusServed}
	}
	return s.applyBatch(ctx, "mark_served", orderID, updates)
}

// ApplyKitchenUpdates applies kitchen progress (preparing or ready) to items of
// one order. The batch is all-or-nothing.
func (s *OrderService) ApplyKitchenUpdates(ctx context.Context, orderID uuid.UUID, updates []ItemUpdate) (database.OrderStatus, error) {
	if len(updates) == 0 {
		return "", fmt.Errorf("%w: no updates", ErrInvalidItems)
	}
	for i, u := range updates {
		if u.Status != database.OrderItemStatusPreparing && u.Status != database.OrderItemStatusReady {
			return "", fmt.Errorf("%w: updates[%d] kitchen may only set preparing or ready, got %q", ErrInvalidStatus, i, u.Status)
		}
	}
	return s.applyBatch(ctx, "kitchen_update", orderID, updates)
}

func (s *OrderService) orderIDForItem(ctx context.Context, itemID uuid.UUID) (uuid.UUID, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	item, err := s.newStore(tx).GetOrderItem(ctx, itemID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, fmt.Errorf("order item %s: %w", itemID, ErrNotFound)
		}
		return uuid.Nil, fmt.Errorf("get order item: %w", err)
	}
	return item.OrderID, nil
}

// applyBatch runs the item transitions of one order in a single transaction.
//
// Every item write is conditional on the status read at the start, and the
// order row is written conditional on the version read at the start, so any
// concurrent change to the same order makes one side fail with ErrConflict.
// One change notification is published for the batch; none if nothing changed.
func (s *OrderService) applyBatch(ctx context.Context, op string, orderID uuid.UUID, updates []ItemUpdate) (database.OrderStatus, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return "", fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	order, err := store.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", fmt.Errorf("order %s: %w", orderID, ErrNotFound)
		}
		return "", fmt.Errorf("get order: %w", err)
	}

	items, err := store.ListOrderItemsByOrder(ctx, orderID)
	if err != nil {
		return "", fmt.Errorf("list order items: %w", err)
	}
	index := make(map[uuid.UUID]int, len(items))
	for i, item := range items {
		index[item.ID] = i
	}

	var changed []database.OrderItem
	for _, u := range updates {
		i, ok := index[u.ItemID]
		if !ok {
			return "", fmt.Errorf("order item %s in order %s: %w", u.ItemID, orderID, ErrNotFound)
		}
		current := items[i]

		noop, err := CheckItemTransition(current.Status, u.Status)
		if err != nil {
			return "", fmt.Errorf("order item %s: %w", u.ItemID, err)
		}
		if noop {
			continue
		}

		updated, err := store.UpdateOrderItemStatus(ctx, database.UpdateOrderItemStatusParams{
			ID:       current.ID,
			Status:   u.Status,
			Status_2: current.Status,
		})
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				s.metrics.Conflict(op)
				return "", fmt.Errorf("order item %s: %w", u.ItemID, ErrConflict)
			}
			return "", fmt.Errorf("update order item status: %w", err)
		}
		items[i] = updated
		changed = append(changed, updated)
	}

	if len(changed) == 0 {
		return order.Status, nil
	}

	if !IsTerminal(order.Status) {
		order, err = store.UpdateOrderDerivedStatus(ctx, database.UpdateOrderDerivedStatusParams{
			ID:      order.ID,
			Status:  DeriveOrderStatus(itemStatuses(items)),
			Version: order.Version,
		})
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				s.metrics.Conflict(op)
				return "", fmt.Errorf("order %s: %w", orderID, ErrConflict)
			}
			return "", fmt.Errorf("update order status: %w", err)
		}
	}

	err = s.commitAndPublish(ctx, tx, order.ID, notify.Change{
		Table:   enum.TableOrderItems,
		Kind:    enum.ChangeUpdate,
		OrderID: order.ID,
		Order:   &order,
		Items:   changed,
	})
	if err != nil {
		return "", err
	}

	for _, item := range changed {
		s.metrics.ItemTransition(string(item.Status))
	}
	return order.Status, nil
}
