package service

import (
	"bazaar/domain"
	"bazaar/utils"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// otpService is the seller-elevation challenge engine. Operations on
// the same user's challenge record are serialized through a per-user
// mutex so concurrent verifications cannot lose an attempt increment
// or both pass the exhaustion check.
type otpService struct {
	otpRepo     domain.OTPRepository
	sellerToken *utils.JWTManager
	sender      domain.OTPSender
	development bool

	locks sync.Map // userID -> *sync.Mutex
	now   func() time.Time
}

func NewOTPService(otpRepo domain.OTPRepository, sellerToken *utils.JWTManager, sender domain.OTPSender, development bool) domain.OTPUseCase {
	return &otpService{
		otpRepo:     otpRepo,
		sellerToken: sellerToken,
		sender:      sender,
		development: development,
		now:         time.Now,
	}
}

func (s *otpService) lockUser(userID string) func() {
	v, _ := s.locks.LoadOrStore(userID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func (s *otpService) RequestChallenge(ctx context.Context, userID, email, role string) (*domain.OTPIssue, error) {
	if role != domain.RoleSeller {
		return nil, domain.ErrRoleNotEligible
	}

	unlock := s.lockUser(userID)
	defer unlock()

	return s.issue(ctx, userID, email)
}

func (s *otpService) ResendChallenge(ctx context.Context, userID, email, role string) (*domain.OTPIssue, error) {
	if role != domain.RoleSeller {
		return nil, domain.ErrRoleNotEligible
	}

	unlock := s.lockUser(userID)
	defer unlock()

	recent, err := s.otpRepo.CountRequestsSince(ctx, userID, s.now().Add(-domain.OTPResendCooldown))
	if err != nil {
		return nil, err
	}
	if recent > 0 {
		return nil, domain.ErrOTPCooldown
	}

	return s.issue(ctx, userID, email)
}

// issue enforces the sliding-window rate limit, supersedes any prior
// challenge and stores a fresh hashed code. Caller holds the user lock.
func (s *otpService) issue(ctx context.Context, userID, email string) (*domain.OTPIssue, error) {
	windowStart := s.now().Add(-domain.OTPRateWindow)
	recent, err := s.otpRepo.CountRequestsSince(ctx, userID, windowStart)
	if err != nil {
		return nil, err
	}
	if recent >= domain.OTPMaxPerWindow {
		return nil, domain.ErrOTPRateLimited
	}

	code, err := utils.GenerateOTPCode()
	if err != nil {
		return nil, err
	}

	if err := s.otpRepo.DeleteChallengesForUser(ctx, userID); err != nil {
		return nil, err
	}

	challenge := &domain.OTPChallenge{
		ID:          uuid.NewString(),
		UserID:      userID,
		OTPCodeHash: utils.HashOTP(code),
		ExpiresAt:   s.now().Add(domain.OTPExpiry),
		CreatedAt:   s.now(),
	}
	if err := s.otpRepo.CreateChallenge(ctx, challenge); err != nil {
		return nil, err
	}

	issue := &domain.OTPIssue{Email: email}
	if err := s.sender.Send(email, code); err != nil {
		if !s.development {
			return nil, fmt.Errorf("%w: %v", domain.ErrOTPDelivery, err)
		}
		log.Warn().Err(err).Str("email", email).Msg("otp email delivery failed, continuing in development mode")
	}
	if s.development {
		// Surfaced to the caller only outside production.
		issue.DevelopmentOTP = code
		log.Debug().Str("email", email).Str("otp", code).Msg("issued development otp")
	}

	return issue, nil
}

func (s *otpService) VerifyChallenge(ctx context.Context, userID, email, role, code string) (*domain.OTPVerification, error) {
	if len(code) != domain.OTPCodeLength {
		return nil, domain.ErrOTPInvalidFormat
	}

	unlock := s.lockUser(userID)
	defer unlock()

	challenge, err := s.otpRepo.GetLiveChallenge(ctx, userID)
	if err != nil {
		return nil, err
	}
	if challenge == nil {
		return nil, domain.ErrNoChallenge
	}

	// Expiry is evaluated lazily here; stale records are cleaned up
	// inline rather than by a background sweep.
	if !s.now().Before(challenge.ExpiresAt) {
		if err := s.otpRepo.DeleteChallenge(ctx, challenge.ID); err != nil {
			return nil, err
		}
		return nil, domain.ErrOTPExpired
	}

	if challenge.Attempts >= domain.OTPMaxAttempts {
		if err := s.otpRepo.DeleteChallenge(ctx, challenge.ID); err != nil {
			return nil, err
		}
		return nil, domain.ErrAttemptsExhausted
	}

	if !utils.VerifyOTP(code, challenge.OTPCodeHash) {
		attempts, err := s.otpRepo.IncrementAttempts(ctx, challenge.ID)
		if err != nil {
			return nil, err
		}
		return nil, &domain.InvalidCodeError{
			AttemptsRemaining: domain.OTPMaxAttempts - attempts,
		}
	}

	if err := s.otpRepo.MarkVerified(ctx, challenge.ID); err != nil {
		return nil, err
	}

	token, err := s.sellerToken.GenerateSellerToken(userID, email, role, domain.SessionTypeSeller)
	if err != nil {
		return nil, err
	}

	log.Info().Str("userId", userID).Msg("seller session elevated")
	return &domain.OTPVerification{SellerToken: token}, nil
}
