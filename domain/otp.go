package domain

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const (
	// OTPMaxAttempts is the number of failed verifications a challenge
	// survives before it is invalidated.
	OTPMaxAttempts = 3
	// OTPMaxPerWindow caps how many challenges a user may create within
	// OTPRateWindow (sliding, measured against stored creation times).
	OTPMaxPerWindow = 3
	OTPRateWindow   = time.Hour
	// OTPResendCooldown is the minimum gap between a challenge creation
	// and a resend request.
	OTPResendCooldown = 2 * time.Minute
	OTPExpiry         = 10 * time.Minute
	OTPCodeLength     = 6
)

// SessionTypeSeller marks an elevated seller session in token claims.
const SessionTypeSeller = "seller"

var (
	ErrRoleNotEligible   = errors.New("only sellers can request otp verification")
	ErrOTPRateLimited    = errors.New("too many otp requests")
	ErrOTPCooldown       = errors.New("otp resend cooldown active")
	ErrOTPInvalidFormat  = errors.New("otp code must be 6 digits")
	ErrNoChallenge       = errors.New("no otp challenge found")
	ErrOTPExpired        = errors.New("otp challenge expired")
	ErrAttemptsExhausted = errors.New("too many failed otp attempts")
	ErrOTPDelivery       = errors.New("failed to deliver otp")
)

// InvalidCodeError reports a wrong code together with the attempts the
// user has left before the challenge is invalidated.
type InvalidCodeError struct {
	AttemptsRemaining int
}

func (e *InvalidCodeError) Error() string {
	return fmt.Sprintf("invalid otp code, %d attempts remaining", e.AttemptsRemaining)
}

// OTPChallenge is one outstanding seller-verification attempt. At most
// one live (unverified, unexpired, attempts < OTPMaxAttempts) challenge
// exists per user; creating a new one supersedes all prior records.
type OTPChallenge struct {
	ID          string    `gorm:"primaryKey;type:uuid" json:"id"`
	UserID      string    `gorm:"type:uuid;not null;index" json:"userId"`
	OTPCodeHash string    `gorm:"not null" json:"-"`
	ExpiresAt   time.Time `gorm:"not null" json:"expiresAt"`
	Attempts    int       `gorm:"not null;default:0" json:"attempts"`
	Verified    bool      `gorm:"not null;default:false" json:"verified"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// OTPRequestLog records every challenge creation for a user. Challenge
// records are deleted on supersession, so the sliding-window rate limit
// and the resend cooldown count against this log instead; entries
// older than the rate window are pruned inline on the next creation.
type OTPRequestLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"type:uuid;not null;index" json:"userId"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// OTPIssue is the outcome of a successful challenge request.
// DevelopmentOTP carries the plaintext code only outside production;
// in production delivery happens strictly out-of-band.
type OTPIssue struct {
	Email          string
	DevelopmentOTP string
}

// OTPVerification is the outcome of a successful code verification.
type OTPVerification struct {
	SellerToken string
}

type OTPRepository interface {
	// CreateChallenge stores the challenge and appends a request-log
	// entry in the same transaction.
	CreateChallenge(ctx context.Context, challenge *OTPChallenge) error
	// CountRequestsSince counts challenge creations for the user
	// strictly after the given instant, including superseded ones.
	CountRequestsSince(ctx context.Context, userID string, since time.Time) (int64, error)
	// GetLiveChallenge returns the newest unverified challenge for the
	// user, or nil when none exists.
	GetLiveChallenge(ctx context.Context, userID string) (*OTPChallenge, error)
	// IncrementAttempts atomically bumps the attempt counter and returns
	// the new value.
	IncrementAttempts(ctx context.Context, id string) (int, error)
	MarkVerified(ctx context.Context, id string) error
	DeleteChallenge(ctx context.Context, id string) error
	DeleteChallengesForUser(ctx context.Context, userID string) error
}

// OTPSender delivers a plaintext code out-of-band.
type OTPSender interface {
	Send(email, code string) error
}

type OTPUseCase interface {
	RequestChallenge(ctx context.Context, userID, email, role string) (*OTPIssue, error)
	ResendChallenge(ctx context.Context, userID, email, role string) (*OTPIssue, error)
	VerifyChallenge(ctx context.Context, userID, email, role, code string) (*OTPVerification, error)
}
