// Package mailer sends transactional email.
//
// Three transports implement Sender: Mailer (SMTP), SESSender (Amazon SES
// API) and LogSender (writes the message to the log; for development).
package mailer

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net"
	"net/mail"
	"net/smtp"
	"net/textproto"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Email is one outbound message.
type Email struct {
	To       string
	ToName   string
	Subject  string
	TextBody string
	HTMLBody string
}

// Sender delivers an Email. Implementations honor ctx cancellation.
type Sender interface {
	Send(ctx context.Context, e Email) error
}

// ErrNoRecipient is returned for messages without a To address.
var ErrNoRecipient = errors.New("mailer: no recipient")

// Config holds SMTP settings.
type Config struct {
	Host     string
	Port     int
	User     string
	Pass     string
	From     string
	FromName string
}

// Mailer sends email over SMTP.
type Mailer struct {
	cfg      Config
	log      *zap.Logger
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// New creates an SMTP mailer. Authentication is used only when User is set.
func New(cfg Config, logger *zap.Logger) *Mailer {
	return &Mailer{cfg: cfg, log: logger, sendMail: smtp.SendMail}
}

// Send delivers e. net/smtp has no context support, so the dial runs in a
// goroutine and Send returns ctx.Err() if the context ends first.
func (m *Mailer) Send(ctx context.Context, e Email) error {
	if e.To == "" {
		return ErrNoRecipient
	}
	msg, err := buildMessage(m.cfg.From, m.cfg.FromName, e, time.Now())
	if err != nil {
		return err
	}

	var auth smtp.Auth
	if m.cfg.User != "" {
		auth = smtp.PlainAuth("", m.cfg.User, m.cfg.Pass, m.cfg.Host)
	}
	addr := net.JoinHostPort(m.cfg.Host, strconv.Itoa(m.cfg.Port))

	done := make(chan error, 1)
	go func() {
		done <- m.sendMail(addr, auth, m.cfg.From, []string{e.To}, msg)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("smtp send to %s: %w", addr, err)
		}
		m.log.Debug("email sent", zap.String("transport", "smtp"), zap.String("subject", e.Subject))
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// buildMessage renders e as a multipart/alternative MIME message.
func buildMessage(from, fromName string, e Email, now time.Time) ([]byte, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	var head bytes.Buffer
	fmt.Fprintf(&head, "From: %s\r\n", (&mail.Address{Name: fromName, Address: from}).String())
	fmt.Fprintf(&head, "To: %s\r\n", (&mail.Address{Name: e.ToName, Address: e.To}).String())
	fmt.Fprintf(&head, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", e.Subject))
	fmt.Fprintf(&head, "Date: %s\r\n", now.Format(time.RFC1123Z))
	fmt.Fprintf(&head, "Message-ID: %s\r\n", messageID(from))
	head.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&head, "Content-Type: multipart/alternative; boundary=%s\r\n", mw.Boundary())
	head.WriteString("\r\n")

	if err := writePart(mw, "text/plain; charset=utf-8", e.TextBody); err != nil {
		return nil, err
	}
	if e.HTMLBody != "" {
		if err := writePart(mw, "text/html; charset=utf-8", e.HTMLBody); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}
	return append(head.Bytes(), buf.Bytes()...), nil
}

func writePart(mw *multipart.Writer, contentType, body string) error {
	pw, err := mw.CreatePart(textproto.MIMEHeader{
		"Content-Type":              {contentType},
		"Content-Transfer-Encoding": {"quoted-printable"},
	})
	if err != nil {
		return err
	}
	qw := quotedprintable.NewWriter(pw)
	if _, err := qw.Write([]byte(body)); err != nil {
		return err
	}
	return qw.Close()
}

func messageID(from string) string {
	domain := "localhost"
	if at := strings.LastIndex(from, "@"); at >= 0 && at < len(from)-1 {
		domain = from[at+1:]
	}
	b := make([]byte, 12)
	_, _ = rand.Read(b)
	return "<" + hex.EncodeToString(b) + "@" + domain + ">"
}
