package utils

import (
	"context"
	"errors"
	"fmt"
	"html"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"

	"learnhub/models"
	"learnhub/models/course"
)

// Mailer sends transactional e-mail.
type Mailer interface {
	Send(ctx context.Context, toName, toEmail, subject, plainText, htmlBody string) error
}

// SendgridMailer delivers mail through the SendGrid v3 API.
type SendgridMailer struct {
	client *sendgrid.Client
	sender string
}

func NewSendgridMailer(apiKey, sender string) *SendgridMailer {
	return &SendgridMailer{client: sendgrid.NewSendClient(apiKey), sender: sender}
}

func (m *SendgridMailer) Send(ctx context.Context, toName, toEmail, subject, plainText, htmlBody string) error {
	from := mail.NewEmail("LearnHub", m.sender)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, plainText, htmlBody)

	resp, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid: status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

// LogMailer only logs what it would send.
type LogMailer struct {
	log *zap.Logger
}

func NewLogMailer(log *zap.Logger) *LogMailer {
	return &LogMailer{log: log.Named("mail")}
}

func (m *LogMailer) Send(_ context.Context, toName, toEmail, subject, _, _ string) error {
	m.log.Info("mail not sent, no provider configured",
		zap.String("to", toEmail), zap.String("name", toName), zap.String("subject", subject))
	return nil
}

// SessionLookup finds the registered session of a user.
type SessionLookup interface {
	Session(ctx context.Context, userID uint) (*models.Session, error)
}

// CertificateNotifier e-mails the learner when a certificate becomes available.
type CertificateNotifier struct {
	sessions SessionLookup
	mailer   Mailer
	log      *zap.Logger
	async    bool
}

func NewCertificateNotifier(sessions SessionLookup, mailer Mailer, log *zap.Logger) *CertificateNotifier {
	return &CertificateNotifier{sessions: sessions, mailer: mailer, log: log.Named("certificate-notifier"), async: true}
}

// Notify looks up the learner and sends the mail in the background. The
// request that completed the course does not wait for delivery.
func (n *CertificateNotifier) Notify(ctx context.Context, userID uint, c *course.Course) {
	session, err := n.sessions.Session(ctx, userID)
	if err != nil {
		n.log.Warn("no session to notify", zap.Uint("user_id", userID), zap.Error(err))
		return
	}
	if session.Email == "" {
		return
	}

	send := func() {
		err := n.send(context.WithoutCancel(ctx), session, c)
		if err != nil && !errors.Is(err, context.Canceled) {
			n.log.Error("certificate mail failed", zap.Uint("user_id", userID), zap.Uint("course_id", c.ID), zap.Error(err))
		}
	}
	if n.async {
		go send()
		return
	}
	send()
}

func (n *CertificateNotifier) send(ctx context.Context, session *models.Session, c *course.Course) error {
	name := session.Username
	if name == "" {
		name = session.Email
	}
	subject := "Your certificate for " + c.Title + " is available"
	plain := fmt.Sprintf("Dear %s,\n\nCongratulations on completing %s. Your certificate is now available on your dashboard.\n", name, c.Title)
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Congratulations on completing the course:</p>
		<div class="info-box"><strong>%s</strong></div>
		<p>Your certificate is now available on your dashboard.</p>
	`, html.EscapeString(name), html.EscapeString(c.Title))

	return n.mailer.Send(ctx, name, session.Email, subject, plain, getEmailTemplate("Certificate of Completion", body))
}

// HTML wrapper shared by every mail
func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; }
			.header { background-color: #1B3A57; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; }
			.content { padding: 40px 30px; color: #1B3A57; line-height: 1.6; }
			.info-box { background: #E8F0FE; padding: 15px; border-radius: 4px; border-left: 4px solid #4CAF50; margin: 20px 0; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header"><h1>LEARNHUB</h1></div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">This is an automated message from LearnHub.</div>
		</div>
	</body>
	</html>
	`, title, bodyContent)
}
