package service

import "errors"

// Errors returned by the order service.
var (
	ErrInvalidToken      = errors.New("invalid or expired table token")
	ErrInvalidItems      = errors.New("invalid items")
	ErrIllegalTransition = errors.New("illegal status transition")
	ErrConflict          = errors.New("order changed concurrently, please retry")
	ErrNotFound          = errors.New("not found")
	ErrInvalidStatus     = errors.New("invalid status")
	ErrNotServed         = errors.New("order is not fully served")
)
