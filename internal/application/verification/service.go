// Package verification owns the verification-record lifecycle: issuance
// gated by the abuse guard, the overwrite-on-resend invariant, and one-shot
// validation of either credential.
package verification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/email-verification-api/internal/domain"
	"github.com/email-verification-api/internal/pkg/credential"
)

// RecordStore is the persistence contract for verification records.
type RecordStore interface {
	GetByUser(ctx context.Context, userID string) (*domain.VerificationRecord, error)
	Upsert(ctx context.Context, rec *domain.VerificationRecord, resetWindow bool) (int, error)
	FindActiveByCode(ctx context.Context, userID, code string, now time.Time) (*domain.VerificationRecord, error)
	FindActiveByToken(ctx context.Context, token string, now time.Time) (*domain.VerificationRecord, error)
	MarkVerified(ctx context.Context, userID string, now time.Time) error
}

// UserStore is the slice of the external account store this service touches.
type UserStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	MarkEmailVerified(ctx context.Context, userID string) error
}

// Mailer delivers the rendered verification email.
type Mailer interface {
	SendVerificationEmail(to, firstName, code, token string) error
}

// Policy holds the issuance limits, injected at construction time.
type Policy struct {
	CodeExpiry     time.Duration
	ResendCooldown time.Duration
	MaxAttempts    int
	AttemptWindow  time.Duration
}

// IssueResult reports a successful issuance back to the transport layer.
type IssueResult struct {
	Attempts  int
	ExpiresIn time.Duration
	Cooldown  time.Duration
}

type Service interface {
	SendVerification(ctx context.Context, req domain.SendVerificationRequest) (*IssueResult, error)
	VerifyCode(ctx context.Context, userID, code string) error
	VerifyToken(ctx context.Context, token string) (string, error)
	Status(ctx context.Context, userID string) (bool, error)
}

type ServiceDeps struct {
	Records RecordStore
	Users   UserStore
	Mailer  Mailer
	Policy  Policy
}

type service struct {
	records RecordStore
	users   UserStore
	mailer  Mailer
	policy  Policy
	now     func() time.Time
}

func NewService(deps ServiceDeps) Service {
	return &service{
		records: deps.Records,
		users:   deps.Users,
		mailer:  deps.Mailer,
		policy:  deps.Policy,
		now:     time.Now,
	}
}

// SendVerification runs the issuance flow: guard check, credential
// generation, committed upsert, then the email. The mail goes out only after
// the record is persisted, so nothing is ever reported as sent without an
// authoritative credential behind it.
func (s *service) SendVerification(ctx context.Context, req domain.SendVerificationRequest) (*IssueResult, error) {
	now := s.now().UTC()

	rec, err := s.records.GetByUser(ctx, req.UserID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("load verification record: %w", err)
	}
	if err := s.checkIssuance(rec, now); err != nil {
		return nil, err
	}

	code, err := credential.NewCode()
	if err != nil {
		return nil, err
	}
	token, err := credential.NewToken()
	if err != nil {
		return nil, err
	}

	fresh := &domain.VerificationRecord{
		UserID:    req.UserID,
		Email:     req.Email,
		Code:      code,
		Token:     token,
		CreatedAt: now,
		ExpiresAt: now.Add(s.policy.CodeExpiry).Unix(),
	}
	resetWindow := rec == nil || now.Sub(rec.WindowStart) >= s.policy.AttemptWindow
	attempts, err := s.records.Upsert(ctx, fresh, resetWindow)
	if err != nil {
		return nil, fmt.Errorf("persist verification record: %w", err)
	}

	if err := s.mailer.SendVerificationEmail(req.Email, req.FirstName, code, token); err != nil {
		// The record is committed; this issuance still counts against the
		// caps and the user can resend after the cooldown.
		slog.Error("verification email failed after commit", "user_id", req.UserID, "err", err)
		return nil, err
	}

	return &IssueResult{
		Attempts:  attempts,
		ExpiresIn: s.policy.CodeExpiry,
		Cooldown:  s.policy.ResendCooldown,
	}, nil
}

// checkIssuance is the abuse guard: the hourly attempt cap and the resend
// cooldown, both evaluated against the stored record. rec is nil when the
// user has never been issued a credential. The read here and the later upsert
// are deliberately not serialized; a concurrent burst may admit slightly more
// than MaxAttempts but can never corrupt the record.
func (s *service) checkIssuance(rec *domain.VerificationRecord, now time.Time) error {
	if rec == nil {
		return nil
	}
	if now.Sub(rec.WindowStart) < s.policy.AttemptWindow && rec.Attempts >= s.policy.MaxAttempts {
		// Fixed penalty, not computed from the oldest attempt.
		return &domain.RetryableError{Err: domain.ErrTooManyAttempts, RetryAfter: s.policy.AttemptWindow}
	}
	if elapsed := now.Sub(rec.CreatedAt); elapsed < s.policy.ResendCooldown {
		remaining := s.policy.ResendCooldown - elapsed
		retry := time.Duration(math.Ceil(remaining.Seconds())) * time.Second
		return &domain.RetryableError{Err: domain.ErrCooldownActive, RetryAfter: retry}
	}
	return nil
}

func (s *service) VerifyCode(ctx context.Context, userID, code string) error {
	now := s.now().UTC()
	rec, err := s.records.FindActiveByCode(ctx, userID, code, now)
	if err != nil {
		return asInvalidCredential(err)
	}
	return s.consume(ctx, rec, now)
}

func (s *service) VerifyToken(ctx context.Context, token string) (string, error) {
	now := s.now().UTC()
	rec, err := s.records.FindActiveByToken(ctx, token, now)
	if err != nil {
		return "", asInvalidCredential(err)
	}
	if err := s.consume(ctx, rec, now); err != nil {
		return "", err
	}
	return rec.UserID, nil
}

// consume marks the record verified exactly once, then flips the user's
// is_verified flag. The store's conditional write picks a single winner under
// concurrent validations; the user mutation is idempotent either way.
func (s *service) consume(ctx context.Context, rec *domain.VerificationRecord, now time.Time) error {
	if err := s.records.MarkVerified(ctx, rec.UserID, now); err != nil {
		return asInvalidCredential(err)
	}
	if err := s.users.MarkEmailVerified(ctx, rec.UserID); err != nil {
		return fmt.Errorf("mark user verified: %w", err)
	}
	return nil
}

func (s *service) Status(ctx context.Context, userID string) (bool, error) {
	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return false, err
	}
	return u.IsVerified, nil
}

// asInvalidCredential collapses every lookup miss into the generic
// invalid-credential error so callers cannot tell wrong from expired from
// already-used. Storage failures pass through for the 500 path.
func asInvalidCredential(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return domain.ErrInvalidCredential
	}
	return err
}
