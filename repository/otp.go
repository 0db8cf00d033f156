package repository

import (
	"bazaar/domain"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type otpRepository struct {
	db *gorm.DB
}

func NewOTPRepository(db *gorm.DB) domain.OTPRepository {
	return &otpRepository{
		db: db,
	}
}

// CreateChallenge stores the challenge alongside a request-log entry.
// The log is what rate limiting counts; it survives supersession.
// Entries older than the rate window are pruned while we are here.
func (r *otpRepository) CreateChallenge(ctx context.Context, challenge *domain.OTPChallenge) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(challenge).Error; err != nil {
			return err
		}
		logEntry := &domain.OTPRequestLog{
			UserID:    challenge.UserID,
			CreatedAt: challenge.CreatedAt,
		}
		if err := tx.Create(logEntry).Error; err != nil {
			return err
		}
		return tx.
			Where("user_id = ? AND created_at < ?", challenge.UserID, challenge.CreatedAt.Add(-domain.OTPRateWindow)).
			Delete(&domain.OTPRequestLog{}).Error
	})
}

// CountRequestsSince counts creations strictly after the cutoff, so a
// request made exactly one cooldown (or rate window) ago no longer
// blocks the next one.
func (r *otpRepository) CountRequestsSince(ctx context.Context, userID string, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.OTPRequestLog{}).
		Where("user_id = ? AND created_at > ?", userID, since).
		Count(&count).Error
	return count, err
}

func (r *otpRepository) GetLiveChallenge(ctx context.Context, userID string) (*domain.OTPChallenge, error) {
	var challenge domain.OTPChallenge
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND verified = ?", userID, false).
		Order("created_at DESC").
		First(&challenge).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &challenge, nil
}

// IncrementAttempts bumps the counter in a single UPDATE so two
// concurrent failures cannot both observe the same value.
func (r *otpRepository) IncrementAttempts(ctx context.Context, id string) (int, error) {
	err := r.db.WithContext(ctx).
		Model(&domain.OTPChallenge{}).
		Where("id = ?", id).
		UpdateColumn("attempts", gorm.Expr("attempts + 1")).Error
	if err != nil {
		return 0, err
	}

	var challenge domain.OTPChallenge
	if err := r.db.WithContext(ctx).Select("attempts").First(&challenge, "id = ?", id).Error; err != nil {
		return 0, err
	}
	return challenge.Attempts, nil
}

func (r *otpRepository) MarkVerified(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Model(&domain.OTPChallenge{}).
		Where("id = ?", id).
		UpdateColumn("verified", true).Error
}

func (r *otpRepository) DeleteChallenge(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&domain.OTPChallenge{}, "id = ?", id).Error
}

func (r *otpRepository) DeleteChallengesForUser(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Delete(&domain.OTPChallenge{}, "user_id = ?", userID).Error
}
