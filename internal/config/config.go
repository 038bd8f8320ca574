package config

import (
	"context"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config holds all runtime configuration loaded from environment variables.
// Lifecycle policy (expiry, cooldown, attempt caps) is injected into the
// verification service at construction time and never read ad hoc from the
// environment inside request handling.
type Config struct {
	AppPort string `env:"APP_PORT,default=3000"`
	AppEnv  string `env:"APP_ENV,default=development"`

	AWSRegion      string `env:"AWS_REGION,default=us-east-1"`
	AWSEndpointURL string `env:"AWS_ENDPOINT_URL"` // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string `env:"AWS_ACCESS_KEY_ID"`
	AWSSecretKey   string `env:"AWS_SECRET_ACCESS_KEY"`

	VerificationsTable string `env:"DYNAMO_TABLE_EMAIL_VERIFICATIONS,default=email_verifications"`
	UsersTable         string `env:"DYNAMO_TABLE_USERS,default=users"`

	SMTPHost     string `env:"SMTP_HOST,default=localhost"`
	SMTPPort     int    `env:"SMTP_PORT,default=1025"`
	SMTPFrom     string `env:"SMTP_FROM,default=noreply@example.com"`
	SMTPFromName string `env:"SMTP_FROM_NAME,default=Vibe"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`

	// FrontendBaseURL is where the verification link in the email points;
	// the frontend exchanges the embedded token via POST /verify-token.
	FrontendBaseURL string `env:"FRONTEND_BASE_URL,default=http://localhost:5173"`

	CodeExpiry        time.Duration `env:"VERIFICATION_CODE_EXPIRY,default=5m"`
	ResendCooldown    time.Duration `env:"RESEND_COOLDOWN,default=1m"`
	MaxResendAttempts int           `env:"MAX_RESEND_ATTEMPTS,default=5"`
	AttemptWindow     time.Duration `env:"ATTEMPT_WINDOW,default=1h"`

	AllowedOrigins []string `env:"ALLOWED_ORIGINS,default=*"`

	GlobalRateLimit  int           `env:"GLOBAL_RATE_LIMIT,default=100"`
	GlobalRatePeriod time.Duration `env:"GLOBAL_RATE_PERIOD,default=1m"`
	SendRatePerSec   float64       `env:"SEND_RATE_PER_SECOND,default=5"`
	SendRateBurst    int           `env:"SEND_RATE_BURST,default=10"`
}

// Load reads all configuration from environment variables.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
