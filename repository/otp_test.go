package repository

import (
	"bazaar/domain"
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	// A pooled second connection would see its own empty in-memory DB.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&domain.User{},
		&domain.Product{},
		&domain.OTPChallenge{},
		&domain.OTPRequestLog{},
	))
	return db
}

func newChallenge(userID string, createdAt time.Time) *domain.OTPChallenge {
	return &domain.OTPChallenge{
		ID:          uuid.NewString(),
		UserID:      userID,
		OTPCodeHash: "digest",
		ExpiresAt:   createdAt.Add(domain.OTPExpiry),
		CreatedAt:   createdAt,
	}
}

func TestGetLiveChallengeReturnsNewestUnverified(t *testing.T) {
	repo := NewOTPRepository(newTestDB(t))
	ctx := context.Background()
	now := time.Now()

	older := newChallenge("user-1", now.Add(-5*time.Minute))
	newer := newChallenge("user-1", now)
	require.NoError(t, repo.CreateChallenge(ctx, older))
	require.NoError(t, repo.CreateChallenge(ctx, newer))

	live, err := repo.GetLiveChallenge(ctx, "user-1")
	require.NoError(t, err)
	require.NotNil(t, live)
	assert.Equal(t, newer.ID, live.ID)
}

func TestGetLiveChallengeSkipsVerifiedAndOtherUsers(t *testing.T) {
	repo := NewOTPRepository(newTestDB(t))
	ctx := context.Background()

	mine := newChallenge("user-1", time.Now())
	theirs := newChallenge("user-2", time.Now())
	require.NoError(t, repo.CreateChallenge(ctx, mine))
	require.NoError(t, repo.CreateChallenge(ctx, theirs))
	require.NoError(t, repo.MarkVerified(ctx, mine.ID))

	live, err := repo.GetLiveChallenge(ctx, "user-1")
	require.NoError(t, err)
	assert.Nil(t, live)

	live, err = repo.GetLiveChallenge(ctx, "user-2")
	require.NoError(t, err)
	require.NotNil(t, live)
	assert.Equal(t, theirs.ID, live.ID)
}

func TestCountRequestsSinceSurvivesSupersession(t *testing.T) {
	repo := NewOTPRepository(newTestDB(t))
	ctx := context.Background()
	now := time.Now()

	// Three requests, each superseding the last.
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.DeleteChallengesForUser(ctx, "user-1"))
		require.NoError(t, repo.CreateChallenge(ctx, newChallenge("user-1", now.Add(time.Duration(i)*time.Minute))))
	}

	count, err := repo.CountRequestsSince(ctx, "user-1", now.Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	// Window edges: a cutoff after the first two creations counts one.
	count, err = repo.CountRequestsSince(ctx, "user-1", now.Add(90*time.Second))
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	count, err = repo.CountRequestsSince(ctx, "user-1", now.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestCountRequestsSinceScopedByUser(t *testing.T) {
	repo := NewOTPRepository(newTestDB(t))
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, repo.CreateChallenge(ctx, newChallenge("user-1", now)))
	require.NoError(t, repo.CreateChallenge(ctx, newChallenge("user-2", now)))

	count, err := repo.CountRequestsSince(ctx, "user-1", now.Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestIncrementAttemptsReturnsNewValue(t *testing.T) {
	repo := NewOTPRepository(newTestDB(t))
	ctx := context.Background()

	challenge := newChallenge("user-1", time.Now())
	require.NoError(t, repo.CreateChallenge(ctx, challenge))

	for want := 1; want <= 3; want++ {
		got, err := repo.IncrementAttempts(ctx, challenge.ID)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestDeleteChallengesForUser(t *testing.T) {
	repo := NewOTPRepository(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.CreateChallenge(ctx, newChallenge("user-1", time.Now())))
	require.NoError(t, repo.CreateChallenge(ctx, newChallenge("user-2", time.Now())))
	require.NoError(t, repo.DeleteChallengesForUser(ctx, "user-1"))

	live, err := repo.GetLiveChallenge(ctx, "user-1")
	require.NoError(t, err)
	assert.Nil(t, live)

	// Other users are untouched.
	live, err = repo.GetLiveChallenge(ctx, "user-2")
	require.NoError(t, err)
	assert.NotNil(t, live)
}

func TestRequestLogPrunedOutsideRateWindow(t *testing.T) {
	db := newTestDB(t)
	repo := NewOTPRepository(db)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, repo.CreateChallenge(ctx, newChallenge("user-1", now.Add(-2*time.Hour))))
	require.NoError(t, repo.CreateChallenge(ctx, newChallenge("user-1", now)))

	var logged int64
	require.NoError(t, db.Model(&domain.OTPRequestLog{}).Where("user_id = ?", "user-1").Count(&logged).Error)
	assert.Equal(t, int64(1), logged)
}
