package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"learnhub/models"
)

// ErrSessionNotFound is returned when no session is registered for a user.
var ErrSessionNotFound = errors.New("session not found")

// Store keeps what the web client used to keep in durable browser storage.
type Store struct {
	db  *gorm.DB
	now func() time.Time
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// SaveSession inserts or replaces the session of s.UserID.
func (s *Store) SaveSession(ctx context.Context, session *models.Session) error {
	session.LastSeenAt = s.now()
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"username", "email", "profile_image", "user_info", "last_seen_at", "updated_at"}),
		}).
		Create(session).Error
	if err != nil {
		return fmt.Errorf("save session for user %d: %w", session.UserID, err)
	}
	return nil
}

// Session returns the registered session of a user.
func (s *Store) Session(ctx context.Context, userID uint) (*models.Session, error) {
	var session models.Session
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session for user %d: %w", userID, err)
	}
	return &session, nil
}

// DeleteSession removes the session and the user's client state.
func (s *Store) DeleteSession(ctx context.Context, userID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("user_id = ?", userID).Delete(&models.Session{}).Error; err != nil {
			return fmt.Errorf("delete session for user %d: %w", userID, err)
		}
		if err := tx.Unscoped().Where("user_id = ?", userID).Delete(&models.ClientState{}).Error; err != nil {
			return fmt.Errorf("delete client state for user %d: %w", userID, err)
		}
		return nil
	})
}

// SetState writes a client state value.
func (s *Store) SetState(ctx context.Context, userID uint, key, value string) error {
	entry := models.ClientState{UserID: userID, Key: key, Value: value}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "state_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&entry).Error
	if err != nil {
		return fmt.Errorf("set state %s for user %d: %w", key, userID, err)
	}
	return nil
}

// State reads a client state value. ok is false when the key was never written.
func (s *Store) State(ctx context.Context, userID uint, key string) (value string, ok bool, err error) {
	var entry models.ClientState
	err = s.db.WithContext(ctx).Where("user_id = ? AND state_key = ?", userID, key).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get state %s for user %d: %w", key, userID, err)
	}
	return entry.Value, true, nil
}

// NotificationsLastViewed returns the stored timestamp, or the zero time.
func (s *Store) NotificationsLastViewed(ctx context.Context, userID uint) (time.Time, error) {
	raw, ok, err := s.State(ctx, userID, models.StateNotificationsLastViewed)
	if err != nil || !ok {
		return time.Time{}, err
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		// an unreadable value behaves like one that was never written
		return time.Time{}, nil
	}
	return t, nil
}

// SetNotificationsLastViewed stores t as the last time the feed was viewed.
func (s *Store) SetNotificationsLastViewed(ctx context.Context, userID uint, t time.Time) error {
	return s.SetState(ctx, userID, models.StateNotificationsLastViewed, t.UTC().Format(time.RFC3339Nano))
}

// MarkCertificateShown records the certificate notice for (user, course).
// It reports true only for the call that inserted the row.
func (s *Store) MarkCertificateShown(ctx context.Context, userID, courseID uint) (bool, error) {
	notice := models.CertificateNotice{UserID: userID, CourseID: courseID, ShownAt: s.now()}
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&notice)
	if res.Error != nil {
		return false, fmt.Errorf("mark certificate shown for user %d course %d: %w", userID, courseID, res.Error)
	}
	return res.RowsAffected == 1, nil
}
