package handler

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/tabletap/api/internal/checkout"
	"github.com/tabletap/api/internal/database"
)

// MenuStore defines the database methods needed by the menu handler.
// Satisfied by *database.Queries.
type MenuStore interface {
	ListAvailableMenuItems(ctx context.Context) ([]database.MenuItem, error)
}

// MenuHandler serves the public menu.
type MenuHandler struct {
	store MenuStore
}

// NewMenuHandler creates a new MenuHandler.
func NewMenuHandler(store MenuStore) *MenuHandler {
	return &MenuHandler{store: store}
}

// RegisterRoutes registers menu endpoints on the given Chi router.
func (h *MenuHandler) RegisterRoutes(r chi.Router) {
	r.Get("/menu", h.List)
}

type menuItemResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Price       string `json:"price"`
	PriceCents  int64  `json:"priceCents"`
}

// List handles GET /menu.
func (h *MenuHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.ListAvailableMenuItems(r.Context())
	if err != nil {
		log.Printf("ERROR: list menu items: %v", err)
		writeMessage(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := make([]menuItemResponse, len(items))
	for i, item := range items {
		resp[i] = menuItemResponse{
			ID:          item.ID,
			Name:        item.Name,
			Category:    item.Category,
			Description: item.Description,
			Price:       checkout.FormatAmount(item.PriceCents),
			PriceCents:  item.PriceCents,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}
