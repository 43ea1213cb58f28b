package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pickmyfruit/pickmyfruit-backend/internal/models"
	"github.com/pickmyfruit/pickmyfruit-backend/internal/testutil"
)

func TestSessionRepository_Lifecycle(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewSessionRepository(db)
	ctx := context.Background()
	user := testutil.InsertUser(t, db)

	now := time.Now().UTC().Truncate(time.Second)
	s := &models.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: now.Add(time.Hour),
		IPAddress: "127.0.0.1",
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, repo.CreateSession(ctx, s))

	got, err := repo.GetSession(ctx, s.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, user.ID, got.UserID)
	assert.Equal(t, s.ExpiresAt, got.ExpiresAt)
	assert.False(t, got.Expired(now))
	assert.True(t, got.Expired(now.Add(2*time.Hour)))

	require.NoError(t, repo.DeleteSession(ctx, s.ID))
	got, err = repo.GetSession(ctx, s.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSessionRepository_ConsumeVerificationOnce(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewSessionRepository(db)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	v := &models.Verification{
		ID:         uuid.NewString(),
		Identifier: "gleaner@example.com",
		Value:      uuid.NewString(),
		Name:       "Gleaner",
		Callback:   "/listings/mine",
		ExpiresAt:  now.Add(5 * time.Minute),
		CreatedAt:  now,
	}
	require.NoError(t, repo.CreateVerification(ctx, v))

	got, err := repo.ConsumeVerification(ctx, v.Value)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, v.Identifier, got.Identifier)
	assert.Equal(t, "/listings/mine", got.Callback)

	again, err := repo.ConsumeVerification(ctx, v.Value)
	require.NoError(t, err)
	assert.Nil(t, again)
}

func TestSessionRepository_DeleteExpired(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewSessionRepository(db)
	ctx := context.Background()
	user := testutil.InsertUser(t, db)
	now := time.Now().UTC()

	for _, exp := range []time.Time{now.Add(-time.Minute), now.Add(time.Hour)} {
		require.NoError(t, repo.CreateSession(ctx, &models.Session{
			ID: uuid.NewString(), UserID: user.ID, ExpiresAt: exp, CreatedAt: now, UpdatedAt: now,
		}))
	}
	require.NoError(t, repo.CreateVerification(ctx, &models.Verification{
		ID: uuid.NewString(), Identifier: user.Email, Value: uuid.NewString(), ExpiresAt: now.Add(-time.Second), CreatedAt: now,
	}))

	n, err := repo.DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestUserRepository_CreateAndLookup(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	u := &models.User{ID: uuid.NewString(), Name: "Olive Grower", Email: "olive@example.com", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repo.Create(ctx, u))

	got, err := repo.GetByEmail(ctx, "OLIVE@example.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, u.ID, got.ID)
	assert.False(t, got.EmailVerified)

	require.NoError(t, repo.MarkEmailVerified(ctx, u.ID, now))
	got, err = repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, got.EmailVerified)

	missing, err := repo.GetByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestInquiryRepository_RecentAndEmailSent(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewInquiryRepository(db)
	ctx := context.Background()
	owner := testutil.InsertUser(t, db)
	gleaner := testutil.InsertUser(t, db)
	l := testutil.InsertListing(t, db, owner.ID)

	now := time.Now().UTC().Truncate(time.Second)
	note := "Could I pick on Saturday?"
	inq := &models.Inquiry{ListingID: l.ID, GleanerID: gleaner.ID, Note: &note, CreatedAt: now}
	require.NoError(t, repo.Create(ctx, inq))
	require.NotZero(t, inq.ID)

	recent, err := repo.HasRecent(ctx, gleaner.ID, l.ID, now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.True(t, recent)

	recent, err = repo.HasRecent(ctx, gleaner.ID, l.ID, now.Add(time.Second))
	require.NoError(t, err)
	assert.False(t, recent)

	recent, err = repo.HasRecent(ctx, owner.ID, l.ID, now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.False(t, recent)

	require.NoError(t, repo.MarkEmailSent(ctx, inq.ID, now))
	got, err := repo.GetByID(ctx, inq.ID)
	require.NoError(t, err)
	require.NotNil(t, got.EmailSentAt)
	assert.Equal(t, note, *got.Note)
}
