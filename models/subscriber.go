package models

import (
	"errors"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// SubscriberSourceFooter, footer formundan gelen aboneliklerin kaynağı.
const SubscriberSourceFooter = "footer"

// Subscriber, bülten abonesi. Email her zaman trim + lowercase saklanır.
type Subscriber struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Locale       string    `json:"locale"`
	SubscribedAt time.Time `json:"subscribedAt"`
	Source       string    `json:"source,omitempty"`
}

// Subscribe doğrulama hataları. Handler bunları çeviri anahtarlarına eşler.
var (
	ErrSubscribeMissingFields = errors.New("email and locale are required")
	ErrInvalidEmail           = errors.New("invalid email address")
	ErrInvalidLocale          = errors.New("invalid locale")
	ErrDisposableEmail        = errors.New("disposable email addresses are not accepted")
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// disposableDomains, geçici e-posta servisleri.
var disposableDomains = []string{
	"tempmail.com",
	"throwaway.email",
	"10minutemail.com",
	"guerrillamail.com",
	"mailinator.com",
}

// NormalizeEmail: trim + lowercase. Tekrar kontrolü bu değer üzerinden yapılır.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsDisposableEmail, domain'in geçici e-posta listesinde olup olmadığını söyler.
func IsDisposableEmail(email string) bool {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return false
	}
	domain := strings.ToLower(email[at+1:])
	for _, d := range disposableDomains {
		if domain == d {
			return true
		}
	}
	return false
}

// SubscribeRequest, footer bülten formu.
// Website alanı bot tuzağıdır (honeypot); gerçek kullanıcı bunu görmez.
type SubscribeRequest struct {
	Email   string `json:"email"`
	Locale  string `json:"locale"`
	Website string `json:"website"`
}

// IsBot, honeypot alanı doldurulmuşsa true.
func (r *SubscribeRequest) IsBot() bool {
	return strings.TrimSpace(r.Website) != ""
}

// Validate, email'i normalize eder ve sırasıyla zorunluluk, format, locale
// ve geçici domain kontrollerini yapar.
func (r *SubscribeRequest) Validate() error {
	r.Email = NormalizeEmail(r.Email)
	r.Locale = strings.TrimSpace(r.Locale)

	if r.Email == "" || r.Locale == "" {
		return ErrSubscribeMissingFields
	}
	if err := validation.Validate(r.Email, validation.Match(emailPattern)); err != nil {
		return ErrInvalidEmail
	}
	if err := validation.Validate(r.Locale, validation.In("tr", "en")); err != nil {
		return ErrInvalidLocale
	}
	if IsDisposableEmail(r.Email) {
		return ErrDisposableEmail
	}
	return nil
}

// SubscribeResult, abonelik sonucu.
type SubscribeResult struct {
	Success     bool   `json:"success"`
	WelcomeSent bool   `json:"welcomeSent"`
	EmailError  string `json:"emailError,omitempty"`
	Message     string `json:"message,omitempty"`
}

// WelcomeRequest, hoş geldiniz e-postasını tekrar göndermek için.
type WelcomeRequest struct {
	Email  string `json:"email"`
	Locale string `json:"locale"`
}

// Validate, email ve locale zorunlu.
func (r *WelcomeRequest) Validate() error {
	r.Email = strings.TrimSpace(r.Email)
	r.Locale = strings.TrimSpace(r.Locale)
	return validation.ValidateStruct(r,
		validation.Field(&r.Email, validation.Required, validation.Match(emailPattern)),
		validation.Field(&r.Locale, validation.Required, validation.In("tr", "en")),
	)
}

// CampaignRequest, admin panelinden gönderilen toplu e-posta.
type CampaignRequest struct {
	Emails  []string `json:"emails"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// Validate, alıcı listesi, konu ve içerik zorunlu.
func (r *CampaignRequest) Validate() error {
	r.Subject = strings.TrimSpace(r.Subject)

	recipients := make([]string, 0, len(r.Emails))
	for _, e := range r.Emails {
		if e = strings.TrimSpace(e); e != "" {
			recipients = append(recipients, e)
		}
	}
	r.Emails = recipients

	return validation.ValidateStruct(r,
		validation.Field(&r.Emails, validation.Required),
		validation.Field(&r.Subject, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.HTML, validation.Required),
	)
}

// CampaignResult, kampanya gönderim özeti.
type CampaignResult struct {
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
	Total  int `json:"total"`
}
