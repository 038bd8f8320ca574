package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/email-verification-api/internal/domain"
)

// VerificationEnvelope is the wire shape shared by the verification
// endpoints: a flat success flag plus millisecond-valued durations.
type VerificationEnvelope struct {
	Success    bool   `json:"success"`
	Message    string `json:"message,omitempty"`
	ExpiresIn  int64  `json:"expiresIn,omitempty"`  // ms
	CooldownMs int64  `json:"cooldownMs,omitempty"` // ms
	RetryAfter int64  `json:"retryAfter,omitempty"` // ms
	UserID     string `json:"userId,omitempty"`
}

// StatusEnvelope wraps verification-status responses.
type StatusEnvelope struct {
	Success  bool `json:"success"`
	Verified bool `json:"verified"`
}

// HealthEnvelope wraps health-check responses.
type HealthEnvelope struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Timestamp string `json:"timestamp"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, VerificationEnvelope{Success: false, Message: msg})
}

// httpError maps domain errors to status codes and response bodies. Anything
// unrecognised is logged with detail server-side and surfaced as an opaque 500.
func httpError(w http.ResponseWriter, err error) {
	var re *domain.RetryableError
	switch {
	case errors.Is(err, domain.ErrTooManyAttempts):
		env := VerificationEnvelope{Success: false, Message: "Too many attempts. Try again in 1 hour."}
		if errors.As(err, &re) {
			env.RetryAfter = re.RetryAfter.Milliseconds()
		}
		writeJSON(w, http.StatusTooManyRequests, env)
	case errors.Is(err, domain.ErrCooldownActive):
		env := VerificationEnvelope{Success: false}
		if errors.As(err, &re) {
			env.RetryAfter = re.RetryAfter.Milliseconds()
			env.Message = fmt.Sprintf("Wait %d seconds before requesting a new code", int(re.RetryAfter.Seconds()))
		} else {
			env.Message = "Wait before requesting a new code"
		}
		writeJSON(w, http.StatusTooManyRequests, env)
	case errors.Is(err, domain.ErrInvalidCredential):
		writeError(w, http.StatusBadRequest, "Invalid or expired verification code")
	case errors.Is(err, domain.ErrBadRequest):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "Not found")
	default:
		slog.Error("internal error", "err", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}
