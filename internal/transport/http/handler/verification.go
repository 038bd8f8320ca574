package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/email-verification-api/internal/application/verification"
	"github.com/email-verification-api/internal/domain"
	"github.com/email-verification-api/internal/pkg/validate"
	"github.com/go-chi/chi/v5"
)

// VerificationHandler handles the email verification flow endpoints.
type VerificationHandler struct {
	svc verification.Service
}

func NewVerificationHandler(svc verification.Service) *VerificationHandler {
	return &VerificationHandler{svc: svc}
}

func (h *VerificationHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req domain.SendVerificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	res, err := h.svc.SendVerification(r.Context(), req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, VerificationEnvelope{
		Success:    true,
		Message:    "Verification email sent",
		ExpiresIn:  res.ExpiresIn.Milliseconds(),
		CooldownMs: res.Cooldown.Milliseconds(),
	})
}

func (h *VerificationHandler) VerifyCode(w http.ResponseWriter, r *http.Request) {
	var req domain.VerifyCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		// Malformed codes get the same generic rejection as wrong ones.
		writeError(w, http.StatusBadRequest, "Invalid or expired verification code")
		return
	}
	if err := h.svc.VerifyCode(r.Context(), req.UserID, req.Code); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, VerificationEnvelope{Success: true, Message: "Email verified successfully"})
}

func (h *VerificationHandler) VerifyToken(w http.ResponseWriter, r *http.Request) {
	var req domain.VerifyTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid or expired verification token")
		return
	}
	userID, err := h.svc.VerifyToken(r.Context(), req.Token)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredential) {
			writeError(w, http.StatusBadRequest, "Invalid or expired verification token")
			return
		}
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, VerificationEnvelope{
		Success: true,
		Message: "Email verified successfully",
		UserID:  userID,
	})
}

func (h *VerificationHandler) Status(w http.ResponseWriter, r *http.Request) {
	verified, err := h.svc.Status(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, StatusEnvelope{Success: true, Verified: verified})
}
