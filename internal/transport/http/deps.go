package http

import (
	"github.com/email-verification-api/internal/infrastructure/dynamo"
	"github.com/email-verification-api/internal/infrastructure/smtp"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	VerificationRepo *dynamo.VerificationRepo
	UserRepo         *dynamo.UserRepo
	Mailer           smtp.Mailer
}
