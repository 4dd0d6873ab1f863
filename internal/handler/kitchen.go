package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/tabletap/api/internal/database"
	"github.com/tabletap/api/internal/service"
)

// StatusServicer defines the service methods needed by kitchen and floor handlers.
// Satisfied by *service.OrderService; narrow interface for testability.
type StatusServicer interface {
	ApplyKitchenUpdates(ctx context.Context, orderID uuid.UUID, updates []service.ItemUpdate) (database.OrderStatus, error)
	MarkServed(ctx context.Context, orderID uuid.UUID, itemIDs []uuid.UUID) (database.OrderStatus, error)
}

// KitchenHandler handles item status endpoints used by kitchen and waiter staff.
type KitchenHandler struct {
	svc StatusServicer
}

// NewKitchenHandler creates a new KitchenHandler.
func NewKitchenHandler(svc StatusServicer) *KitchenHandler {
	return &KitchenHandler{svc: svc}
}

// --- Request types ---

type kitchenUpdateRequest struct {
	OrderID string              `json:"orderId"`
	Updates []kitchenItemUpdate `json:"updates"`
}

type kitchenItemUpdate struct {
	OrderItemID string `json:"orderItemId"`
	Status      string `json:"status"`
}

type servedRequest struct {
	OrderID     string    `json:"orderId"`
	ServedItems []string  `json:"servedItems"`
	Timestamp   time.Time `json:"timestamp"`
}

// --- Handlers ---

// Update handles POST /kitchen/updates.
func (h *KitchenHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req kitchenUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	orderID, err := uuid.Parse(req.OrderID)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid orderId")
		return
	}

	updates := make([]service.ItemUpdate, len(req.Updates))
	for i, u := range req.Updates {
		itemID, err := uuid.Parse(u.OrderItemID)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, formatItemError("updates", i, "invalid orderItemId"))
			return
		}
		updates[i] = service.ItemUpdate{ItemID: itemID, Status: database.OrderItemStatus(u.Status)}
	}

	if _, err := h.svc.ApplyKitchenUpdates(r.Context(), orderID, updates); err != nil {
		writeServiceError(w, "kitchen update", err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// Served handles POST /orders/{id}/served. The timestamp in the body is the
// waiter device's clock and is informational only.
func (h *KitchenHandler) Served(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid order ID")
		return
	}

	var req servedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.OrderID != "" && req.OrderID != orderID.String() {
		writeMessage(w, http.StatusBadRequest, "orderId does not match the URL")
		return
	}

	itemIDs := make([]uuid.UUID, len(req.ServedItems))
	for i, s := range req.ServedItems {
		id, err := uuid.Parse(s)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, formatItemError("servedItems", i, "invalid item id"))
			return
		}
		itemIDs[i] = id
	}

	if _, err := h.svc.MarkServed(r.Context(), orderID, itemIDs); err != nil {
		writeServiceError(w, "mark served", err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func formatItemError(field string, idx int, msg string) string {
	return field + "[" + strconv.Itoa(idx) + "]: " + msg
}
