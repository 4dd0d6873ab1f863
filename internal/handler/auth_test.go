package handler_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/tabletap/api/internal/auth"
	"github.com/tabletap/api/internal/database"
	"github.com/tabletap/api/internal/handler"
)

const testSecret = "test-secret"

// --- Mock store ---

type mockAuthStore struct {
	staff []database.StaffPin
	err   error
}

func (m *mockAuthStore) ListStaffPins(_ context.Context) ([]database.StaffPin, error) {
	return m.staff, m.err
}

// --- Helpers ---

func makeStaff(t *testing.T, name string, role database.StaffRole, pin string) database.StaffPin {
	t.Helper()
	hash, err := auth.HashPIN(pin)
	if err != nil {
		t.Fatalf("hash pin: %v", err)
	}
	return database.StaffPin{ID: uuid.New(), Name: name, Role: role, PinHash: hash}
}

func newAuthRouter(store handler.AuthStore) *chi.Mux {
	r := chi.NewRouter()
	handler.NewAuthHandler(store, testSecret).RegisterRoutes(r)
	return r
}

// --- Tests ---

func TestPinLogin_ValidCredentials(t *testing.T) {
	cook := makeStaff(t, "Ana", database.StaffRoleKITCHEN, "1111")
	waiter := makeStaff(t, "Budi", database.StaffRoleWAITER, "2468")
	router := newAuthRouter(&mockAuthStore{staff: []database.StaffPin{cook, waiter}})

	rr := doJSON(t, router, "POST", "/auth/pin", map[string]string{"pin": "2468"})
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d (%s)", rr.Code, http.StatusOK, rr.Body.String())
	}

	resp := decodeResponse(t, rr)
	if resp["role"] != "WAITER" || resp["name"] != "Budi" || resp["staffId"] != waiter.ID.String() {
		t.Errorf("response = %v", resp)
	}

	token, _ := resp["token"].(string)
	claims, err := auth.ValidateToken(testSecret, token)
	if err != nil {
		t.Fatalf("returned token does not validate: %v", err)
	}
	if claims.StaffID != waiter.ID || claims.Role != "WAITER" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestPinLogin_WrongPin(t *testing.T) {
	router := newAuthRouter(&mockAuthStore{staff: []database.StaffPin{
		makeStaff(t, "Ana", database.StaffRoleKITCHEN, "1111"),
	}})

	rr := doJSON(t, router, "POST", "/auth/pin", map[string]string{"pin": "9999"})
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusUnauthorized)
	}
	if msg := decodeResponse(t, rr)["message"]; msg != "invalid credentials" {
		t.Errorf("message = %v", msg)
	}
}

func TestPinLogin_MalformedPin(t *testing.T) {
	router := newAuthRouter(&mockAuthStore{})

	for _, pin := range []string{"", "12", "123456789", "12a4"} {
		rr := doJSON(t, router, "POST", "/auth/pin", map[string]string{"pin": pin})
		if rr.Code != http.StatusBadRequest {
			t.Errorf("pin %q: got %d, want %d", pin, rr.Code, http.StatusBadRequest)
		}
	}

	rr := doJSON(t, router, "POST", "/auth/pin", "{")
	if rr.Code != http.StatusBadRequest {
		t.Errorf("bad body: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestPinLogin_StoreError(t *testing.T) {
	router := newAuthRouter(&mockAuthStore{err: errors.New("db down")})

	rr := doJSON(t, router, "POST", "/auth/pin", map[string]string{"pin": "1111"})
	if rr.Code != http.StatusInternalServerError {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusInternalServerError)
	}
}
