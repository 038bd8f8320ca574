package domain

import "time"

// VerificationRecord is the single authoritative email verification attempt
// for a user. PK: user_id. A new issuance overwrites the whole record, so only
// the most recently issued code/token pair is ever valid.
//
// ExpiresAt is a Unix timestamp doubling as the DynamoDB TTL attribute. Expiry
// is always enforced as a read-time predicate; TTL deletion is hygiene only.
type VerificationRecord struct {
	UserID     string     `json:"user_id" dynamodbav:"user_id"`
	Email      string     `json:"email" dynamodbav:"email"`
	Code       string     `json:"code" dynamodbav:"verification_code"`
	Token      string     `json:"token" dynamodbav:"verification_token"`
	CreatedAt  time.Time  `json:"created_at" dynamodbav:"created_at"`
	ExpiresAt  int64      `json:"expires_at" dynamodbav:"expires_at"` // TTL (Unix seconds)
	Verified   bool       `json:"verified" dynamodbav:"verified"`
	VerifiedAt *time.Time `json:"verified_at,omitempty" dynamodbav:"verified_at"`

	// Attempts counts issuances inside the current abuse-tracking window,
	// which is anchored at WindowStart. Both are maintained by the store's
	// upsert, not by callers.
	Attempts    int       `json:"attempts" dynamodbav:"attempts"`
	WindowStart time.Time `json:"window_start" dynamodbav:"window_start"`
}

// Active reports whether the record can still satisfy a validation at the
// given instant: not yet consumed and not expired.
func (r *VerificationRecord) Active(now time.Time) bool {
	return !r.Verified && r.ExpiresAt > now.Unix()
}

type SendVerificationRequest struct {
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"firstName" validate:"required"`
	UserID    string `json:"userId" validate:"required"`
}

type VerifyCodeRequest struct {
	UserID string `json:"userId" validate:"required"`
	Code   string `json:"code" validate:"required,len=6,numeric"`
}

type VerifyTokenRequest struct {
	Token string `json:"token" validate:"required"`
}
