package utils

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"learnhub/database"
	"learnhub/models"
	"learnhub/models/course"
)

type sentMail struct {
	name, email, subject, plain, html string
}

type recordingMailer struct {
	sent []sentMail
}

func (m *recordingMailer) Send(_ context.Context, toName, toEmail, subject, plainText, htmlBody string) error {
	m.sent = append(m.sent, sentMail{toName, toEmail, subject, plainText, htmlBody})
	return nil
}

type sessionsByID map[uint]*models.Session

func (s sessionsByID) Session(_ context.Context, userID uint) (*models.Session, error) {
	if session, ok := s[userID]; ok {
		return session, nil
	}
	return nil, database.ErrSessionNotFound
}

func TestCertificateNotifier(t *testing.T) {
	mailer := &recordingMailer{}
	sessions := sessionsByID{1: {UserID: 1, Username: "ada", Email: "ada@example.com"}}
	n := NewCertificateNotifier(sessions, mailer, zap.NewNop())
	n.async = false

	n.Notify(context.Background(), 1, &course.Course{ID: 9, Title: "Go <basics>"})

	require.Len(t, mailer.sent, 1)
	got := mailer.sent[0]
	assert.Equal(t, "ada@example.com", got.email)
	assert.Contains(t, got.subject, "Go <basics>")
	assert.Contains(t, got.html, "Go &lt;basics&gt;")
	assert.Contains(t, got.plain, "Dear ada")
}

func TestCertificateNotifierWithoutSession(t *testing.T) {
	mailer := &recordingMailer{}
	n := NewCertificateNotifier(sessionsByID{}, mailer, zap.NewNop())
	n.async = false

	n.Notify(context.Background(), 1, &course.Course{ID: 9, Title: "Go"})
	n.Notify(context.Background(), 2, &course.Course{ID: 9, Title: "Go"})

	assert.Empty(t, mailer.sent)
}
