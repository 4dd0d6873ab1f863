package handler

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/tabletap/api/internal/database"
	"github.com/tabletap/api/internal/enum"
)

// BillingServicer defines the service methods needed by billing handlers.
// Satisfied by *service.OrderService; narrow interface for testability.
type BillingServicer interface {
	GenerateBill(ctx context.Context, orderID uuid.UUID) (database.Bill, error)
	CompletePayment(ctx context.Context, sessionID string) (database.Order, error)
	CloseOrder(ctx context.Context, orderID uuid.UUID) (database.Order, error)
}

// BillingHandler handles bill generation, the payment webhook and order close.
type BillingHandler struct {
	svc BillingServicer
}

// NewBillingHandler creates a new BillingHandler.
func NewBillingHandler(svc BillingServicer) *BillingHandler {
	return &BillingHandler{svc: svc}
}

// --- Request / Response types ---

type generateBillRequest struct {
	OrderID string `json:"orderId"`
}

type generateBillResponse struct {
	CheckoutURL string `json:"checkoutUrl"`
}

type paymentEvent struct {
	Type string `json:"type"`
	Data struct {
		SessionID string `json:"sessionId"`
	} `json:"data"`
}

type closeOrderResponse struct {
	ID     uuid.UUID `json:"id"`
	Status string    `json:"status"`
}

// --- Handlers ---

// GenerateBill handles POST /bills.
func (h *BillingHandler) GenerateBill(w http.ResponseWriter, r *http.Request) {
	var req generateBillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	orderID, err := uuid.Parse(req.OrderID)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid orderId")
		return
	}

	bill, err := h.svc.GenerateBill(r.Context(), orderID)
	if err != nil {
		writeServiceError(w, "generate bill", err)
		return
	}

	writeJSON(w, http.StatusOK, generateBillResponse{CheckoutURL: bill.CheckoutUrl})
}

// PaymentWebhook handles POST /webhooks/payment. Only completed checkout
// sessions change state; other event types are acknowledged and ignored.
func (h *BillingHandler) PaymentWebhook(w http.ResponseWriter, r *http.Request) {
	var evt paymentEvent
	if err := json.NewDecoder(r.Body).Decode(&evt); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if evt.Type != enum.EventCheckoutCompleted {
		log.Printf("payment webhook: ignoring event type %q", evt.Type)
		w.WriteHeader(http.StatusOK)
		return
	}
	if evt.Data.SessionID == "" {
		writeMessage(w, http.StatusBadRequest, "data.sessionId is required")
		return
	}

	if _, err := h.svc.CompletePayment(r.Context(), evt.Data.SessionID); err != nil {
		writeServiceError(w, "complete payment", err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// Close handles POST /orders/{id}/close.
func (h *BillingHandler) Close(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid order ID")
		return
	}

	order, err := h.svc.CloseOrder(r.Context(), orderID)
	if err != nil {
		writeServiceError(w, "close order", err)
		return
	}

	writeJSON(w, http.StatusOK, closeOrderResponse{ID: order.ID, Status: string(order.Status)})
}
