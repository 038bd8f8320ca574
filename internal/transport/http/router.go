package http

import (
	"net/http"

	"github.com/email-verification-api/internal/application/verification"
	"github.com/email-verification-api/internal/config"
	"github.com/email-verification-api/internal/transport/http/handler"
	appmiddleware "github.com/email-verification-api/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"golang.org/x/time/rate"
)

const serviceName = "Email Verification Service"

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(httprate.Limit(cfg.GlobalRateLimit, cfg.GlobalRatePeriod))

	// Tighter per-IP bucket for the endpoint that sends mail.
	sendRL := appmiddleware.NewRateLimiter(rate.Limit(cfg.SendRatePerSec), cfg.SendRateBurst)

	svc := verification.NewService(verification.ServiceDeps{
		Records: deps.VerificationRepo,
		Users:   deps.UserRepo,
		Mailer:  deps.Mailer,
		Policy: verification.Policy{
			CodeExpiry:     cfg.CodeExpiry,
			ResendCooldown: cfg.ResendCooldown,
			MaxAttempts:    cfg.MaxResendAttempts,
			AttemptWindow:  cfg.AttemptWindow,
		},
	})

	verifH := handler.NewVerificationHandler(svc)
	healthH := handler.NewHealthHandler(serviceName)

	r.Get("/health", healthH.Check)
	r.With(sendRL.Limit).Post("/send-verification", verifH.Send)
	r.Post("/verify-code", verifH.VerifyCode)
	r.Post("/verify-token", verifH.VerifyToken)
	r.Get("/verification-status/{userId}", verifH.Status)

	return r
}
