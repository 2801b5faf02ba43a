package mail

import (
	"context"

	"github.com/sirupsen/logrus"
)

// LogSender writes messages to the log instead of delivering them.
type LogSender struct {
	log *logrus.Logger
}

func NewLogSender(log *logrus.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) Send(ctx context.Context, msg Message) error {
	s.log.WithFields(logrus.Fields{
		"to":      msg.To,
		"subject": msg.Subject,
	}).Info(msg.Text)
	return nil
}

func (s *LogSender) SuccessStatus() string {
	return StatusLogged
}
