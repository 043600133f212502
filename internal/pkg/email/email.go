package email

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"html"
	"net/url"

	"github.com/rs/zerolog"
)

// Message is one outgoing email.
type Message struct {
	ToEmail string
	ToName  string
	Subject string
	HTML    string
	Text    string
}

// Sender delivers messages through one provider.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// EmailService defines the interface for email operations
type EmailService interface {
	SendPasswordResetEmail(ctx context.Context, toEmail, toName, token string) error
}

// Config is shared by all providers.
type Config struct {
	FromName  string
	FromEmail string
	// ResetURL is the page that accepts ?token=...
	ResetURL string
}

type emailService struct {
	sender Sender
	config Config
	logger zerolog.Logger
}

// NewEmailService builds the portal's mail templates on top of a sender.
func NewEmailService(sender Sender, config Config, logger zerolog.Logger) EmailService {
	return &emailService{sender: sender, config: config, logger: logger}
}

// ResetLink builds the link mailed to the user.
func ResetLink(base, token string) string {
	return base + "?token=" + url.QueryEscape(token)
}

func (s *emailService) SendPasswordResetEmail(ctx context.Context, toEmail, toName, token string) error {
	link := ResetLink(s.config.ResetURL, token)
	name := html.EscapeString(toName) // User supplied, escape before templating

	body := fmt.Sprintf(`
		<html>
		<body>
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
				<h2 style="color: #333;">Reset your password</h2>
				<p>Hello %s,</p>
				<p>We received a request to reset the password of your department portal account.</p>
				<div style="text-align: center; margin: 30px 0;">
					<a href="%s" style="background-color: #4f46e5; color: white; padding: 12px 24px; text-decoration: none; border-radius: 4px; font-weight: bold;">Choose a new password</a>
				</div>
				<p>This link expires in one hour. If you did not ask for a reset, ignore this email.</p>
				<p>%s</p>
			</div>
		</body>
		</html>
	`, name, html.EscapeString(link), html.EscapeString(s.config.FromName))

	// Plain text part for clients that skip HTML
	text := fmt.Sprintf("Hello %s,\n\nOpen this link to choose a new password (valid for one hour):\n%s\n", toName, link)

	// Hand off to the configured provider
	err := s.sender.Send(ctx, Message{
		ToEmail: toEmail,
		ToName:  toName,
		Subject: "Reset your password",
		HTML:    body,
		Text:    text,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("toEmail", toEmail).Msg("Failed to send password reset email")
		return err
	}
	return nil
}

// LogSender only logs messages. It is used when no provider is configured.
type LogSender struct {
	Logger zerolog.Logger
}

func (l LogSender) Send(_ context.Context, msg Message) error {
	l.Logger.Warn().
		Str("toEmail", msg.ToEmail).
		Str("subject", msg.Subject).
		Str("text", msg.Text).
		Msg("Email provider not configured - message logged instead of sent")
	return nil
}

// GenerateToken returns a random hex token for reset links.
func GenerateToken() (string, error) {
	b := make([]byte, 32) // 256 bits
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
