package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/tabletap/api/internal/checkout"
	"github.com/tabletap/api/internal/database"
	"github.com/tabletap/api/internal/service"
)

// OrderServicer defines the service methods needed by order handlers.
// Satisfied by *service.OrderService; narrow interface for testability.
type OrderServicer interface {
	Submit(ctx context.Context, req service.SubmitRequest) (*service.OrderResult, error)
}

// OrderStore defines the database methods needed by order read handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type OrderStore interface {
	GetOrder(ctx context.Context, id uuid.UUID) (database.Order, error)
	ListOrders(ctx context.Context, arg database.ListOrdersParams) ([]database.Order, error)
	ListOrderItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]database.OrderItem, error)
}

// OrderHandler handles order endpoints.
type OrderHandler struct {
	svc   OrderServicer
	store OrderStore
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(svc OrderServicer, store OrderStore) *OrderHandler {
	return &OrderHandler{svc: svc, store: store}
}

// --- Request / Response types ---

type createOrderRequest struct {
	TableID string                   `json:"tableId"`
	Token   string                   `json:"token"`
	Items   []createOrderItemRequest `json:"items"`
}

type createOrderItemRequest struct {
	ItemID string           `json:"itemId"`
	Name   string           `json:"name"`
	Qty    int32            `json:"qty"`
	Price  *decimal.Decimal `json:"price"`
}

type createOrderResponse struct {
	OrderID uuid.UUID `json:"orderId"`
}

type orderResponse struct {
	ID        uuid.UUID           `json:"id"`
	TableID   string              `json:"tableId"`
	Status    string              `json:"status"`
	Version   int64               `json:"version"`
	Total     string              `json:"total"`
	CreatedAt time.Time           `json:"createdAt"`
	UpdatedAt time.Time           `json:"updatedAt"`
	Items     []orderItemResponse `json:"items,omitempty"`
}

type orderItemResponse struct {
	ID         uuid.UUID `json:"id"`
	MenuItemID string    `json:"menuItemId"`
	Name       string    `json:"name"`
	Price      string    `json:"price"`
	PriceCents int64     `json:"priceCents"`
	Qty        int32     `json:"qty"`
	Status     string    `json:"status"`
}

type orderListResponse struct {
	Orders []orderResponse `json:"orders"`
	Limit  int             `json:"limit"`
}

// --- Handlers ---

// Create handles POST /orders.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	items := make([]service.SubmitItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = service.SubmitItem{
			MenuItemID: item.ItemID,
			Name:       item.Name,
			Quantity:   item.Qty,
		}
		if item.Price != nil {
			cents := item.Price.Shift(2).IntPart()
			items[i].PriceCents = &cents
		}
	}

	result, err := h.svc.Submit(r.Context(), service.SubmitRequest{
		TableID: req.TableID,
		Token:   req.Token,
		Items:   items,
	})
	if err != nil {
		writeServiceError(w, "submit order", err)
		return
	}

	writeJSON(w, http.StatusCreated, createOrderResponse{OrderID: result.Order.ID})
}

// Get handles GET /orders/{id}.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid order ID")
		return
	}

	order, err := h.store.GetOrder(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeMessage(w, http.StatusNotFound, "order not found")
			return
		}
		log.Printf("ERROR: get order: %v", err)
		writeMessage(w, http.StatusInternalServerError, "internal server error")
		return
	}

	items, err := h.store.ListOrderItemsByOrder(r.Context(), orderID)
	if err != nil {
		log.Printf("ERROR: list order items: %v", err)
		writeMessage(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponse(order, items))
}

// List handles GET /orders. Without a status filter it returns active
// (unpaid, unclosed) orders, oldest first.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if s := r.URL.Query().Get("limit"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			limit = v
		}
	}
	if limit > 200 {
		limit = 200
	}

	params := database.ListOrdersParams{Limit: int32(limit)}
	if s := r.URL.Query().Get("status"); s != "" {
		status := database.OrderStatus(s)
		if !status.Valid() {
			writeMessage(w, http.StatusBadRequest, "invalid status")
			return
		}
		params.Status = database.NullOrderStatus{OrderStatus: status, Valid: true}
	}

	orders, err := h.store.ListOrders(r.Context(), params)
	if err != nil {
		log.Printf("ERROR: list orders: %v", err)
		writeMessage(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := make([]orderResponse, len(orders))
	for i, o := range orders {
		items, err := h.store.ListOrderItemsByOrder(r.Context(), o.ID)
		if err != nil {
			log.Printf("ERROR: list order items: %v", err)
			writeMessage(w, http.StatusInternalServerError, "internal server error")
			return
		}
		resp[i] = toOrderResponse(o, items)
	}

	writeJSON(w, http.StatusOK, orderListResponse{Orders: resp, Limit: limit})
}

// --- Helpers ---

func toOrderResponse(o database.Order, items []database.OrderItem) orderResponse {
	resp := orderResponse{
		ID:        o.ID,
		TableID:   o.TableID,
		Status:    string(o.Status),
		Version:   o.Version,
		Total:     checkout.FormatAmount(service.BillTotal(items)),
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
		Items:     make([]orderItemResponse, len(items)),
	}
	for i, item := range items {
		resp.Items[i] = orderItemResponse{
			ID:         item.ID,
			MenuItemID: item.MenuItemID,
			Name:       item.Name,
			Price:      checkout.FormatAmount(item.PriceCents),
			PriceCents: item.PriceCents,
			Qty:        item.Quantity,
			Status:     string(item.Status),
		}
	}
	return resp
}
