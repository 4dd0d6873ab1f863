package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/tabletap/api/internal/service"
)

// statusFor maps service sentinels to HTTP status codes. Zero means the error
// is not one the client can act on.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrInvalidItems), errors.Is(err, service.ErrInvalidStatus):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrConflict), errors.Is(err, service.ErrNotServed):
		return http.StatusConflict
	case errors.Is(err, service.ErrIllegalTransition):
		return http.StatusUnprocessableEntity
	}
	return 0
}

// writeServiceError responds with {"message": ...} for known service errors
// and logs anything else as an internal error.
func writeServiceError(w http.ResponseWriter, op string, err error) {
	if status := statusFor(err); status != 0 {
		writeJSON(w, status, map[string]string{"message": err.Error()})
		return
	}
	log.Printf("ERROR: %s: %v", op, err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "internal server error"})
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}
