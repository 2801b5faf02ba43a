package mail

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"mime/multipart"
	"net"
	"net/smtp"
	"net/textproto"
	"time"

	"health-info-api/config"

	"github.com/sirupsen/logrus"
)

const defaultSMTPTimeout = 30 * time.Second

// SMTPSender delivers over SMTP with PLAIN auth. Port 465 uses implicit
// TLS, any other port upgrades with STARTTLS.
type SMTPSender struct {
	cfg     config.MailConfig
	log     *logrus.Logger
	timeout time.Duration
}

func NewSMTPSender(cfg config.MailConfig, log *logrus.Logger) *SMTPSender {
	return &SMTPSender{cfg: cfg, log: log, timeout: defaultSMTPTimeout}
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if s.cfg.User == "" || s.cfg.Password == "" {
		return ErrMissingCredentials
	}

	client, err := s.connect(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.Mail(s.cfg.User); err != nil {
		return classify(err, ErrRejected)
	}
	if err := client.Rcpt(msg.To); err != nil {
		return classify(err, ErrRejected)
	}

	w, err := client.Data()
	if err != nil {
		return classify(err, ErrRejected)
	}
	body, err := BuildMIME(s.from(), msg)
	if err != nil {
		w.Close()
		return err
	}
	if _, err := w.Write(body); err != nil {
		w.Close()
		return classify(err, ErrConnect)
	}
	if err := w.Close(); err != nil {
		return classify(err, ErrRejected)
	}

	if err := client.Quit(); err != nil {
		s.log.Warnf("Failed to quit SMTP session: %+v", err)
	}
	return nil
}

func (s *SMTPSender) connect(ctx context.Context) (*smtp.Client, error) {
	addr := net.JoinHostPort(s.cfg.Host, s.cfg.Port)
	dialer := &net.Dialer{Timeout: s.timeout}

	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, classify(err, ErrConnect)
	}

	deadline := time.Now().Add(s.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	conn.SetDeadline(deadline)

	tlsConfig := &tls.Config{
		ServerName: s.cfg.Host,
		MinVersion: tls.VersionTLS12,
	}

	if s.cfg.Port == "465" {
		tlsConn := tls.Client(conn, tlsConfig)
		if err := tlsConn.HandshakeContext(ctx); err != nil {
			conn.Close()
			return nil, classify(err, ErrConnect)
		}
		conn = tlsConn
	}

	client, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		conn.Close()
		return nil, classify(err, ErrConnect)
	}

	if s.cfg.Port != "465" {
		if ok, _ := client.Extension("STARTTLS"); !ok {
			client.Close()
			return nil, fmt.Errorf("%w: server does not support STARTTLS", ErrConnect)
		}
		if err := client.StartTLS(tlsConfig); err != nil {
			client.Close()
			return nil, classify(err, ErrConnect)
		}
	}

	auth := smtp.PlainAuth("", s.cfg.User, s.cfg.Password, s.cfg.Host)
	if err := client.Auth(auth); err != nil {
		client.Close()
		return nil, classify(err, ErrAuthFailed)
	}

	return client, nil
}

func (s *SMTPSender) from() string {
	if s.cfg.FromName == "" {
		return s.cfg.User
	}
	return fmt.Sprintf("%q <%s>", s.cfg.FromName, s.cfg.User)
}

// BuildMIME renders msg as a multipart/alternative message with a plain
// text part followed by the HTML part.
func BuildMIME(from string, msg Message) ([]byte, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	parts := []struct {
		contentType string
		content     string
	}{
		{"text/plain; charset=UTF-8", msg.Text},
		{"text/html; charset=UTF-8", msg.HTML},
	}
	for _, p := range parts {
		if p.content == "" {
			continue
		}
		pw, err := mw.CreatePart(textproto.MIMEHeader{"Content-Type": {p.contentType}})
		if err != nil {
			return nil, err
		}
		if _, err := pw.Write([]byte(p.content)); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	var out bytes.Buffer
	fmt.Fprintf(&out, "From: %s\r\n", from)
	fmt.Fprintf(&out, "To: %s\r\n", msg.To)
	fmt.Fprintf(&out, "Subject: %s\r\n", msg.Subject)
	out.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&out, "Content-Type: multipart/alternative; boundary=%s\r\n\r\n", mw.Boundary())
	out.Write(body.Bytes())
	return out.Bytes(), nil
}
