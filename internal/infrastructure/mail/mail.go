// Package mail delivers transactional email.
package mail

import (
	"context"
	"errors"
	"net"
	"net/textproto"
)

// Message is a single outgoing email. It doubles as the queued job payload.
type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
	Text    string `json:"text"`
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

var (
	ErrMissingCredentials = errors.New("missing sender email or password")
	ErrAuthFailed         = errors.New("smtp authentication failed")
	ErrConnect            = errors.New("could not connect to smtp server")
	ErrTimeout            = errors.New("smtp connection timed out")
	ErrRejected           = errors.New("message rejected by server")
)

const (
	StatusSent   = "Email sent successfully"
	StatusQueued = "Email queued for delivery"
	StatusLogged = "Email logged, not delivered"
)

// StatusReporter is implemented by senders whose successful Send does not
// mean the message reached the recipient.
type StatusReporter interface {
	SuccessStatus() string
}

// Describe turns a delivery outcome into the status string reported to
// API callers.
func Describe(err error) string {
	switch {
	case err == nil:
		return StatusSent
	case errors.Is(err, ErrMissingCredentials):
		return "Email configuration error: Missing sender email or password"
	case errors.Is(err, ErrAuthFailed):
		return "Email authentication failed. Please check sender credentials."
	case errors.Is(err, ErrTimeout):
		return "Email server connection timed out. Please try again later."
	case errors.Is(err, ErrConnect):
		return "Could not connect to email server. Please try again later."
	case errors.Is(err, ErrRejected):
		return "Email was rejected by the server. Please try again."
	default:
		return "Email server error: " + err.Error()
	}
}

// classify maps a raw network or protocol error onto the sentinel set.
func classify(err error, fallback error) error {
	if err == nil {
		return nil
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return errors.Join(ErrTimeout, err)
	}
	var protoErr *textproto.Error
	if errors.As(err, &protoErr) {
		switch {
		case protoErr.Code == 535 || protoErr.Code == 534:
			return errors.Join(ErrAuthFailed, err)
		case protoErr.Code >= 550 && protoErr.Code < 560:
			return errors.Join(ErrRejected, err)
		}
	}
	return errors.Join(fallback, err)
}
