package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"health-info-api/internal/infrastructure/mail"
	"health-info-api/internal/infrastructure/queue"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	sent []mail.Message
	err  error
}

func (s *recordingSender) Send(ctx context.Context, msg mail.Message) error {
	s.sent = append(s.sent, msg)
	return s.err
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestDeliver(t *testing.T) {
	body, err := json.Marshal(mail.Message{To: "ada@x.com", Subject: "Verify Your Account"})
	require.NoError(t, err)

	t.Run("sends decoded message", func(t *testing.T) {
		sender := &recordingSender{}
		require.NoError(t, deliver(sender, quietLogger())(context.Background(), body))
		require.Len(t, sender.sent, 1)
		assert.Equal(t, "ada@x.com", sender.sent[0].To)
	})

	t.Run("rejects malformed job", func(t *testing.T) {
		sender := &recordingSender{}
		err := deliver(sender, quietLogger())(context.Background(), []byte("{"))
		assert.ErrorContains(t, err, "decode mail job")
		assert.Empty(t, sender.sent)
	})

	t.Run("auth failure is final", func(t *testing.T) {
		sender := &recordingSender{err: mail.ErrAuthFailed}
		err := deliver(sender, quietLogger())(context.Background(), body)
		assert.True(t, errors.Is(err, mail.ErrAuthFailed))
		assert.False(t, errors.Is(err, queue.ErrTransient))
	})

	t.Run("rejection is final", func(t *testing.T) {
		sender := &recordingSender{err: mail.ErrRejected}
		err := deliver(sender, quietLogger())(context.Background(), body)
		assert.False(t, errors.Is(err, queue.ErrTransient))
	})

	t.Run("timeout and connect failures are retried", func(t *testing.T) {
		for _, cause := range []error{mail.ErrTimeout, mail.ErrConnect} {
			sender := &recordingSender{err: cause}
			err := deliver(sender, quietLogger())(context.Background(), body)
			assert.True(t, errors.Is(err, queue.ErrTransient), cause.Error())
			assert.True(t, errors.Is(err, cause))
		}
	})
}
