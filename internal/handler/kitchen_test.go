package handler_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/tabletap/api/internal/database"
	"github.com/tabletap/api/internal/handler"
	"github.com/tabletap/api/internal/service"
)

// --- Mock StatusServicer ---

type mockStatusService struct {
	applyKitchenUpdatesFn func(ctx context.Context, orderID uuid.UUID, updates []service.ItemUpdate) (database.OrderStatus, error)
	markServedFn          func(ctx context.Context, orderID uuid.UUID, itemIDs []uuid.UUID) (database.OrderStatus, error)
}

func (m *mockStatusService) ApplyKitchenUpdates(ctx context.Context, orderID uuid.UUID, updates []service.ItemUpdate) (database.OrderStatus, error) {
	return m.applyKitchenUpdatesFn(ctx, orderID, updates)
}

func (m *mockStatusService) MarkServed(ctx context.Context, orderID uuid.UUID, itemIDs []uuid.UUID) (database.OrderStatus, error) {
	return m.markServedFn(ctx, orderID, itemIDs)
}

func newKitchenRouter(svc handler.StatusServicer) *chi.Mux {
	h := handler.NewKitchenHandler(svc)
	r := chi.NewRouter()
	r.Post("/kitchen/updates", h.Update)
	r.Post("/orders/{id}/served", h.Served)
	return r
}

// --- Kitchen update tests ---

func TestKitchenUpdate_Success(t *testing.T) {
	orderID := uuid.New()
	itemID := uuid.New()

	var gotOrder uuid.UUID
	var gotUpdates []service.ItemUpdate
	svc := &mockStatusService{
		applyKitchenUpdatesFn: func(ctx context.Context, oid uuid.UUID, updates []service.ItemUpdate) (database.OrderStatus, error) {
			gotOrder, gotUpdates = oid, updates
			return database.OrderStatusPreparing, nil
		},
	}
	router := newKitchenRouter(svc)

	rr := doJSON(t, router, "POST", "/kitchen/updates", map[string]interface{}{
		"orderId": orderID.String(),
		"updates": []map[string]string{{"orderItemId": itemID.String(), "status": "preparing"}},
	})

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d (%s)", rr.Code, http.StatusOK, rr.Body.String())
	}
	if rr.Body.Len() != 0 {
		t.Errorf("expected empty body, got %q", rr.Body.String())
	}
	if gotOrder != orderID || len(gotUpdates) != 1 {
		t.Fatalf("service called with %s %+v", gotOrder, gotUpdates)
	}
	if gotUpdates[0].ItemID != itemID || gotUpdates[0].Status != database.OrderItemStatusPreparing {
		t.Errorf("update = %+v", gotUpdates[0])
	}
}

func TestKitchenUpdate_ServiceErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"illegal", fmt.Errorf("order item x: %w: served -> ready", service.ErrIllegalTransition), http.StatusUnprocessableEntity},
		{"conflict", service.ErrConflict, http.StatusConflict},
		{"not found", service.ErrNotFound, http.StatusNotFound},
		{"invalid status", service.ErrInvalidStatus, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockStatusService{
				applyKitchenUpdatesFn: func(ctx context.Context, oid uuid.UUID, updates []service.ItemUpdate) (database.OrderStatus, error) {
					return "", tt.err
				},
			}
			router := newKitchenRouter(svc)

			rr := doJSON(t, router, "POST", "/kitchen/updates", map[string]interface{}{
				"orderId": uuid.NewString(),
				"updates": []map[string]string{{"orderItemId": uuid.NewString(), "status": "ready"}},
			})
			if rr.Code != tt.want {
				t.Errorf("status: got %d, want %d", rr.Code, tt.want)
			}
		})
	}
}

func TestKitchenUpdate_InvalidIDs(t *testing.T) {
	svc := &mockStatusService{
		applyKitchenUpdatesFn: func(ctx context.Context, oid uuid.UUID, updates []service.ItemUpdate) (database.OrderStatus, error) {
			t.Fatal("service should not be called")
			return "", nil
		},
	}
	router := newKitchenRouter(svc)

	rr := doJSON(t, router, "POST", "/kitchen/updates", map[string]interface{}{
		"orderId": "nope",
	})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("bad order id: got %d, want %d", rr.Code, http.StatusBadRequest)
	}

	rr = doJSON(t, router, "POST", "/kitchen/updates", map[string]interface{}{
		"orderId": uuid.NewString(),
		"updates": []map[string]string{{"orderItemId": "nope", "status": "ready"}},
	})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("bad item id: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
	if msg := decodeResponse(t, rr)["message"]; msg != "updates[0]: invalid orderItemId" {
		t.Errorf("message = %v", msg)
	}
}

// --- Served tests ---

func TestServed_Success(t *testing.T) {
	orderID := uuid.New()
	items := []uuid.UUID{uuid.New(), uuid.New()}

	var gotItems []uuid.UUID
	svc := &mockStatusService{
		markServedFn: func(ctx context.Context, oid uuid.UUID, itemIDs []uuid.UUID) (database.OrderStatus, error) {
			if oid != orderID {
				t.Errorf("order id = %s, want %s", oid, orderID)
			}
			gotItems = itemIDs
			return database.OrderStatusServed, nil
		},
	}
	router := newKitchenRouter(svc)

	rr := doJSON(t, router, "POST", "/orders/"+orderID.String()+"/served", map[string]interface{}{
		"orderId":     orderID.String(),
		"servedItems": []string{items[0].String(), items[1].String()},
		"timestamp":   "2026-03-14T19:45:00Z",
	})

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d (%s)", rr.Code, http.StatusOK, rr.Body.String())
	}
	if len(gotItems) != 2 || gotItems[0] != items[0] || gotItems[1] != items[1] {
		t.Errorf("items = %v", gotItems)
	}
}

func TestServed_OrderIDMismatch(t *testing.T) {
	svc := &mockStatusService{
		markServedFn: func(ctx context.Context, oid uuid.UUID, itemIDs []uuid.UUID) (database.OrderStatus, error) {
			t.Fatal("service should not be called")
			return "", nil
		},
	}
	router := newKitchenRouter(svc)

	rr := doJSON(t, router, "POST", "/orders/"+uuid.NewString()+"/served", map[string]interface{}{
		"orderId":     uuid.NewString(),
		"servedItems": []string{uuid.NewString()},
	})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestServed_EmptyBatch(t *testing.T) {
	svc := &mockStatusService{
		markServedFn: func(ctx context.Context, oid uuid.UUID, itemIDs []uuid.UUID) (database.OrderStatus, error) {
			return "", fmt.Errorf("%w: no items to mark served", service.ErrInvalidItems)
		},
	}
	router := newKitchenRouter(svc)

	rr := doJSON(t, router, "POST", "/orders/"+uuid.NewString()+"/served", map[string]interface{}{})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}
