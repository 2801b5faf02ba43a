package service

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"health-info-api/internal/infrastructure/mail"

	"github.com/sirupsen/logrus"
)

// MailService composes the transactional emails. Delivery problems come
// back as a status string and are never returned as errors.
type MailService interface {
	SendVerificationEmail(ctx context.Context, to, token string) string
	SendPasswordResetEmail(ctx context.Context, to, token string) string
}

// MailOptions configures the links and expiry notes in the emails.
type MailOptions struct {
	FrontendURL     string
	VerificationTTL time.Duration
	ResetTTL        time.Duration
}

type mailService struct {
	sender mail.Sender
	opts   MailOptions
	log    *logrus.Logger
}

func NewMailService(sender mail.Sender, opts MailOptions, log *logrus.Logger) MailService {
	return &mailService{
		sender: sender,
		opts:   opts,
		log:    log,
	}
}

func (s *mailService) SendVerificationEmail(ctx context.Context, to, token string) string {
	link := s.link("/verify-account", token)
	msg := mail.Message{
		To:      to,
		Subject: "Verify Your Account",
		Text: fmt.Sprintf("Welcome!\n\nPlease verify your email address by opening the link below:\n%s\n\n"+
			"This link will expire in %s.\n\nIf you did not create an account, you can ignore this email.", link, formatTTL(s.opts.VerificationTTL)),
		HTML: fmt.Sprintf(`<h2>Welcome!</h2>
<p>Please verify your email address by clicking the link below:</p>
<p><a href="%s">Verify Account</a></p>
<p>This link will expire in %s.</p>
<p>If you did not create an account, you can ignore this email.</p>`, link, formatTTL(s.opts.VerificationTTL)),
	}
	return s.deliver(ctx, msg)
}

func (s *mailService) SendPasswordResetEmail(ctx context.Context, to, token string) string {
	link := s.link("/reset-password", token)
	msg := mail.Message{
		To:      to,
		Subject: "Reset Your Password",
		Text: fmt.Sprintf("You requested a password reset.\n\nOpen the link below to choose a new password:\n%s\n\n"+
			"This link will expire in %s.\n\nIf you did not request this, you can ignore this email.", link, formatTTL(s.opts.ResetTTL)),
		HTML: fmt.Sprintf(`<h2>Password Reset</h2>
<p>You requested a password reset. Click the link below to choose a new password:</p>
<p><a href="%s">Reset Password</a></p>
<p>This link will expire in %s.</p>
<p>If you did not request this, you can ignore this email.</p>`, link, formatTTL(s.opts.ResetTTL)),
	}
	return s.deliver(ctx, msg)
}

func (s *mailService) link(path, token string) string {
	return s.opts.FrontendURL + path + "?token=" + url.QueryEscape(token)
}

func (s *mailService) deliver(ctx context.Context, msg mail.Message) string {
	if err := s.sender.Send(ctx, msg); err != nil {
		s.log.Warnf("Failed to send %q to %s: %+v", msg.Subject, msg.To, err)
		return mail.Describe(err)
	}
	if reporter, ok := s.sender.(mail.StatusReporter); ok {
		return reporter.SuccessStatus()
	}
	return mail.StatusSent
}

func formatTTL(d time.Duration) string {
	if d > 0 && d%time.Hour == 0 {
		if hours := int(d / time.Hour); hours != 1 {
			return fmt.Sprintf("%d hours", hours)
		}
		return "1 hour"
	}
	return d.String()
}
