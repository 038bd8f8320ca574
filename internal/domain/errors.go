package domain

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrNotFound        = errors.New("not found")
	ErrBadRequest      = errors.New("bad request")
	ErrTooManyAttempts = errors.New("too many attempts")
	ErrCooldownActive  = errors.New("cooldown active")

	// ErrInvalidCredential covers wrong, expired, already-consumed and
	// never-issued credentials alike. The cases are deliberately
	// indistinguishable to callers.
	ErrInvalidCredential = errors.New("invalid or expired credential")
)

// RetryableError decorates an issuance denial with how long the caller must wait.
type RetryableError struct {
	Err        error
	RetryAfter time.Duration
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("%v: retry after %s", e.Err, e.RetryAfter)
}

func (e *RetryableError) Unwrap() error { return e.Err }
