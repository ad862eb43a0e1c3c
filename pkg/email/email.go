// Package email, Resend üzerinden email gönderimini soyutlar.
//
// Service'ler EmailSender interface'ine bağımlıdır. RESEND_API_KEY yoksa
// NewDisabledSender döner; her gönderim ErrNotConfigured ile reddedilir ve
// çağıran taraf bunu "email gönderilmedi" olarak raporlar.
package email

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/resend/resend-go/v3"
)

// ErrNotConfigured, API key tanımlı değilken yapılan gönderimlerde döner.
var ErrNotConfigured = errors.New("email is not configured")

// Message, tek bir gönderim.
type Message struct {
	To      []string
	Subject string
	HTML    string
}

// EmailSender, email gönderimi için interface.
type EmailSender interface {
	// Send, mesajı olduğu gibi gönderir.
	Send(ctx context.Context, msg Message) error

	// SendWelcome, abone olan adrese locale'e göre hoş geldin emaili gönderir.
	SendWelcome(ctx context.Context, to, locale string) error

	// Configured, gönderimin mümkün olup olmadığını söyler.
	Configured() bool
}

type resendSender struct {
	client  *resend.Client
	from    string // "IEEE ESTU <info@ieeeestu.org>"
	siteURL string
}

// NewResendSender, Resend API client'ı ile EmailSender oluşturur.
// from, Resend'de doğrulanmış domain altında olmalı.
func NewResendSender(apiKey, from, siteURL string) EmailSender {
	return &resendSender{
		client:  resend.NewClient(apiKey),
		from:    from,
		siteURL: strings.TrimRight(siteURL, "/"),
	}
}

func (s *resendSender) Configured() bool { return true }

func (s *resendSender) Send(ctx context.Context, msg Message) error {
	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      msg.To,
		Subject: msg.Subject,
		Html:    msg.HTML,
	}

	if _, err := s.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (s *resendSender) SendWelcome(ctx context.Context, to, locale string) error {
	subject, html, err := RenderWelcome(locale, s.siteURL)
	if err != nil {
		return err
	}
	return s.Send(ctx, Message{To: []string{to}, Subject: subject, HTML: html})
}

type disabledSender struct{}

// NewDisabledSender, API key olmadan çalışan kurulumlar için.
func NewDisabledSender() EmailSender {
	return disabledSender{}
}

func (disabledSender) Configured() bool { return false }

func (disabledSender) Send(context.Context, Message) error { return ErrNotConfigured }

func (disabledSender) SendWelcome(context.Context, string, string) error { return ErrNotConfigured }
