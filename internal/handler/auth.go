package handler

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/tabletap/api/internal/auth"
	"github.com/tabletap/api/internal/database"
)

// AuthStore defines the database methods needed by auth handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type AuthStore interface {
	ListStaffPins(ctx context.Context) ([]database.StaffPin, error)
}

// AuthHandler handles staff authentication.
type AuthHandler struct {
	store     AuthStore
	jwtSecret string
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(store AuthStore, jwtSecret string) *AuthHandler {
	return &AuthHandler{store: store, jwtSecret: jwtSecret}
}

// RegisterRoutes registers auth endpoints on the given Chi router.
func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/pin", h.PinLogin)
}

// --- Request / Response types ---

type pinLoginRequest struct {
	Pin string `json:"pin"`
}

type tokenResponse struct {
	Token   string    `json:"token"`
	Role    string    `json:"role"`
	StaffID uuid.UUID `json:"staffId"`
	Name    string    `json:"name"`
}

// --- Handlers ---

// PinLogin handles POST /auth/pin. PINs are stored as bcrypt hashes, so the
// submitted PIN is checked against each staff member in turn.
func (h *AuthHandler) PinLogin(w http.ResponseWriter, r *http.Request) {
	var req pinLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if !auth.ValidPIN(req.Pin) {
		writeMessage(w, http.StatusBadRequest, auth.ErrInvalidPIN.Error())
		return
	}

	staff, err := h.store.ListStaffPins(r.Context())
	if err != nil {
		log.Printf("ERROR: list staff pins: %v", err)
		writeMessage(w, http.StatusInternalServerError, "internal server error")
		return
	}

	for _, s := range staff {
		if !auth.CheckPIN(s.PinHash, req.Pin) {
			continue
		}
		token, err := auth.GenerateToken(h.jwtSecret, s.ID, string(s.Role))
		if err != nil {
			log.Printf("ERROR: generate token: %v", err)
			writeMessage(w, http.StatusInternalServerError, "internal server error")
			return
		}
		writeJSON(w, http.StatusOK, tokenResponse{
			Token:   token,
			Role:    string(s.Role),
			StaffID: s.ID,
			Name:    s.Name,
		})
		return
	}

	writeMessage(w, http.StatusUnauthorized, "invalid credentials")
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("ERROR: failed to encode JSON response: %v", err)
	}
}
