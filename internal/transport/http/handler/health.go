package handler

import (
	"net/http"
	"time"
)

// HealthHandler handles the health-check endpoint.
type HealthHandler struct {
	service string
}

func NewHealthHandler(service string) *HealthHandler {
	return &HealthHandler{service: service}
}

func (h *HealthHandler) Check(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthEnvelope{
		Status:    "OK",
		Service:   h.service,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
