package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"learnhub/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1) // one connection keeps the in-memory database alive
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, Migrate(db, zap.NewNop()))
	return NewStore(db)
}

func TestSessionLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Session(ctx, 1)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	require.NoError(t, s.SaveSession(ctx, &models.Session{UserID: 1, Username: "ada", Email: "ada@example.com", UserInfo: datatypes.JSON(`{"id":1}`)}))
	require.NoError(t, s.SaveSession(ctx, &models.Session{UserID: 1, Username: "ada l.", Email: "ada@example.com"}))

	got, err := s.Session(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "ada l.", got.Username, "saving again replaces the session")

	require.NoError(t, s.SetNotificationsLastViewed(ctx, 1, time.Now()))
	require.NoError(t, s.DeleteSession(ctx, 1))

	_, err = s.Session(ctx, 1)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	seen, err := s.NotificationsLastViewed(ctx, 1)
	require.NoError(t, err)
	assert.True(t, seen.IsZero(), "logout clears client state")

	require.NoError(t, s.SaveSession(ctx, &models.Session{UserID: 1, Username: "ada"}), "a user can log in again after logout")
}

func TestClientState(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, ok, err := s.State(ctx, 1, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.SetState(ctx, 1, "theme", "dark"))
	require.NoError(t, s.SetState(ctx, 1, "theme", "light"))
	require.NoError(t, s.SetState(ctx, 2, "theme", "dark"))

	v, ok, err := s.State(ctx, 1, "theme")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "light", v)

	when := time.Date(2026, 5, 4, 3, 2, 1, 0, time.UTC)
	require.NoError(t, s.SetNotificationsLastViewed(ctx, 1, when))
	got, err := s.NotificationsLastViewed(ctx, 1)
	require.NoError(t, err)
	assert.True(t, when.Equal(got))
}

func TestMarkCertificateShownOnce(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first, err := s.MarkCertificateShown(ctx, 1, 9)
	require.NoError(t, err)
	assert.True(t, first)

	again, err := s.MarkCertificateShown(ctx, 1, 9)
	require.NoError(t, err)
	assert.False(t, again)

	other, err := s.MarkCertificateShown(ctx, 2, 9)
	require.NoError(t, err)
	assert.True(t, other)
}
