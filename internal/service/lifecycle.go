package service

import (
	"fmt"

	"github.com/tabletap/api/internal/database"
)

// itemRank orders item statuses along pending → preparing → ready → served.
var itemRank = map[database.OrderItemStatus]int{
	database.OrderItemStatusPending:   0,
	database.OrderItemStatusPreparing: 1,
	database.OrderItemStatusReady:     2,
	database.OrderItemStatusServed:    3,
}

// CheckItemTransition validates moving an item from one status to another.
// Re-applying the current status is a no-op. Moving forward is allowed, including
// skipping intermediate statuses; moving backward is ErrIllegalTransition.
func CheckItemTransition(from, to database.OrderItemStatus) (noop bool, err error) {
	fromRank, ok := itemRank[from]
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrInvalidStatus, from)
	}
	toRank, ok := itemRank[to]
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrInvalidStatus, to)
	}
	switch {
	case toRank == fromRank:
		return true, nil
	case toRank < fromRank:
		return false, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, from, to)
	}
	return false, nil
}

// DeriveOrderStatus computes an order's status from its item statuses:
//
//	no items                          pending
//	all served                        served
//	any preparing                     preparing
//	any ready, some still pending     in_kitchen
//	any ready, none pending           ready
//	pending and served only           in_kitchen
//	all pending                       pending
//
// Terminal statuses (paid, closed) are never derived.
func DeriveOrderStatus(statuses []database.OrderItemStatus) database.OrderStatus {
	if len(statuses) == 0 {
		return database.OrderStatusPending
	}

	counts := make(map[database.OrderItemStatus]int, len(itemRank))
	for _, s := range statuses {
		counts[s]++
	}

	switch {
	case counts[database.OrderItemStatusServed] == len(statuses):
		return database.OrderStatusServed
	case counts[database.OrderItemStatusPreparing] > 0:
		return database.OrderStatusPreparing
	case counts[database.OrderItemStatusReady] > 0:
		if counts[database.OrderItemStatusPending] > 0 {
			return database.OrderStatusInKitchen
		}
		return database.OrderStatusReady
	case counts[database.OrderItemStatusServed] > 0:
		return database.OrderStatusInKitchen
	}
	return database.OrderStatusPending
}

// IsTerminal reports whether s is a billing-owned status that item changes never override.
func IsTerminal(s database.OrderStatus) bool {
	return s == database.OrderStatusPaid || s == database.OrderStatusClosed
}

func itemStatuses(items []database.OrderItem) []database.OrderItemStatus {
	out := make([]database.OrderItemStatus, len(items))
	for i, item := range items {
		out[i] = item.Status
	}
	return out
}
