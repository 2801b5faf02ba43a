package queue

import (
	"context"

	"health-info-api/internal/infrastructure/mail"
)

// MailPublisher implements mail.Sender by queueing the message for the
// mailer worker.
type MailPublisher struct {
	publisher Publisher
}

func NewMailPublisher(p Publisher) *MailPublisher {
	return &MailPublisher{publisher: p}
}

func (m *MailPublisher) Send(ctx context.Context, msg mail.Message) error {
	return PublishJSON(m.publisher, Exchange, EmailRoutingKey, msg)
}

func (m *MailPublisher) SuccessStatus() string {
	return mail.StatusQueued
}
