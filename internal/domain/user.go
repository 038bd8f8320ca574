package domain

import "time"

// User mirrors the account store's row. The account store is an external
// collaborator: this service interprets none of its fields except is_verified,
// which it flips false→true exactly once per successful verification.
type User struct {
	UserID     string    `json:"id" dynamodbav:"user_id"`
	Email      string    `json:"email" dynamodbav:"email"`
	FirstName  string    `json:"first_name" dynamodbav:"first_name"`
	LastName   string    `json:"last_name" dynamodbav:"last_name"`
	IsVerified bool      `json:"is_verified" dynamodbav:"is_verified"`
	CreatedAt  time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt  time.Time `json:"updated" dynamodbav:"updated_at"`
}
