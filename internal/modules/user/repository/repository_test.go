package repository

import (
	"context"
	"testing"
	"time"

	"anoa.com/eduelevate/internal/entity"
	"anoa.com/eduelevate/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestUserRepositoryCreateWithProfile(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	contact := "9999999999"
	user := &entity.User{
		FirstName:    "Asha",
		LastName:     "Rao",
		Email:        "asha@example.com",
		PasswordHash: "hash",
		AccountType:  entity.AccountStudent,
		Profile:      &entity.Profile{ContactNumber: &contact},
	}
	require.NoError(t, repo.Create(ctx, user))

	found, err := repo.FindByEmail(ctx, "asha@example.com")
	require.NoError(t, err)
	require.NotNil(t, found.Profile)
	assert.Equal(t, contact, *found.Profile.ContactNumber)

	dup := &entity.User{FirstName: "A", LastName: "R", Email: "asha@example.com", PasswordHash: "h", AccountType: entity.AccountStudent}
	assert.ErrorIs(t, repo.Create(ctx, dup), gorm.ErrDuplicatedKey)
}

func TestUserRepositoryResetTokens(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()
	now := time.Now()

	fresh := testutil.CreateUser(t, db, entity.AccountStudent)
	stale := testutil.CreateUser(t, db, entity.AccountStudent)
	require.NoError(t, repo.SetResetToken(ctx, fresh.ID, "fresh-token", now.Add(time.Minute)))
	require.NoError(t, repo.SetResetToken(ctx, stale.ID, "stale-token", now.Add(-time.Minute)))

	cleared, err := repo.ClearExpiredResetTokens(ctx, now)
	require.NoError(t, err)
	assert.EqualValues(t, 1, cleared)

	found, err := repo.FindByResetToken(ctx, "fresh-token")
	require.NoError(t, err)
	assert.Equal(t, fresh.ID, found.ID)

	_, err = repo.FindByResetToken(ctx, "stale-token")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	require.NoError(t, repo.UpdatePassword(ctx, fresh.ID, "new-hash"))
	updated, err := repo.FindByID(ctx, fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-hash", updated.PasswordHash)
	assert.Nil(t, updated.ResetToken)
}

func TestOTPRepository(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewOTPRepository(db)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, repo.Create(ctx, &entity.OTP{Email: "a@b.com", Code: "111111", ExpiresAt: now.Add(-time.Minute)}))
	require.NoError(t, repo.Create(ctx, &entity.OTP{Email: "a@b.com", Code: "222222", ExpiresAt: now.Add(5 * time.Minute)}))

	inUse, err := repo.CodeInUse(ctx, "222222", now)
	require.NoError(t, err)
	assert.True(t, inUse)

	inUse, err = repo.CodeInUse(ctx, "111111", now)
	require.NoError(t, err)
	assert.False(t, inUse)

	latest, err := repo.FindLatestByEmail(ctx, "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, "222222", latest.Code)

	purged, err := repo.DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.EqualValues(t, 1, purged)

	require.NoError(t, repo.DeleteByEmail(ctx, "a@b.com"))
	_, err = repo.FindLatestByEmail(ctx, "a@b.com")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
