package mail

import (
	"context"
	"errors"
	"io"
	"net"
	"net/textproto"
	"strings"
	"testing"

	"health-info-api/config"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"sent", nil, "Email sent successfully"},
		{"missing config", ErrMissingCredentials, "Email configuration error: Missing sender email or password"},
		{"auth", classify(&textproto.Error{Code: 535, Msg: "bad credentials"}, ErrConnect), "Email authentication failed. Please check sender credentials."},
		{"timeout", classify(timeoutErr{}, ErrConnect), "Email server connection timed out. Please try again later."},
		{"connect", classify(errors.New("connection refused"), ErrConnect), "Could not connect to email server. Please try again later."},
		{"rejected", classify(&textproto.Error{Code: 550, Msg: "mailbox unavailable"}, ErrConnect), "Email was rejected by the server. Please try again."},
		{"other", errors.New("boom"), "Email server error: boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Describe(tt.err))
		})
	}
}

func TestSMTPSender_MissingCredentials(t *testing.T) {
	sender := NewSMTPSender(config.MailConfig{Host: "localhost", Port: "587"}, quietLogger())
	err := sender.Send(context.Background(), Message{To: "ada@x.com"})
	assert.ErrorIs(t, err, ErrMissingCredentials)
}

func TestSMTPSender_ConnectionRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	host, port, _ := net.SplitHostPort(ln.Addr().String())
	ln.Close()

	sender := NewSMTPSender(config.MailConfig{Host: host, Port: port, User: "me@x.com", Password: "pw"}, quietLogger())
	err = sender.Send(context.Background(), Message{To: "ada@x.com"})
	assert.ErrorIs(t, err, ErrConnect)
}

func TestBuildMIME(t *testing.T) {
	body, err := BuildMIME(`"Health" <me@x.com>`, Message{
		To:      "ada@x.com",
		Subject: "Verify your account",
		Text:    "plain body",
		HTML:    "<p>html body</p>",
	})
	require.NoError(t, err)

	s := string(body)
	assert.True(t, strings.HasPrefix(s, "From: \"Health\" <me@x.com>\r\n"))
	assert.Contains(t, s, "To: ada@x.com\r\n")
	assert.Contains(t, s, "Subject: Verify your account\r\n")
	assert.Contains(t, s, "multipart/alternative")
	assert.Less(t, strings.Index(s, "plain body"), strings.Index(s, "<p>html body</p>"))
}

func TestLogSender(t *testing.T) {
	sender := NewLogSender(quietLogger())
	assert.NoError(t, sender.Send(context.Background(), Message{To: "ada@x.com"}))
	assert.Equal(t, StatusLogged, sender.SuccessStatus())
}
