package models

import (
	"net/url"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// EventStatus, etkinliğin listede hangi bölümde görüneceğini belirler.
type EventStatus string

const (
	EventStatusUpcoming EventStatus = "upcoming"
	EventStatusPast     EventStatus = "past"
)

// DefaultEventImage, görsel yüklenmeden oluşturulan etkinliklerin görseli.
const DefaultEventImage = "/images/placeholder-event.jpg"

// Event, bir etkinlik kaydı. Slug İngilizce başlıktan türetilir ve değişmez.
type Event struct {
	ID              string        `json:"id"`
	Slug            string        `json:"slug"`
	Title           LocalizedText `json:"title"`
	Description     LocalizedText `json:"description"`
	Location        LocalizedText `json:"location"`
	Category        LocalizedText `json:"category"`
	Participants    LocalizedText `json:"participants"`
	StatusLabel     LocalizedText `json:"statusLabel"`
	Date            string        `json:"date"` // YYYY-MM-DD
	Time            string        `json:"time"` // HH:MM
	Image           string        `json:"image"`
	Status          EventStatus   `json:"status"`
	RegistrationURL *string       `json:"registrationUrl"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`
}

// CreateEventRequest, admin formundan veya JSON API'den gelen yeni etkinlik.
type CreateEventRequest struct {
	Title           LocalizedText `json:"title"`
	Description     LocalizedText `json:"description"`
	Location        LocalizedText `json:"location"`
	Category        LocalizedText `json:"category"`
	Participants    LocalizedText `json:"participants"`
	StatusLabel     LocalizedText `json:"statusLabel"`
	Date            string        `json:"date"`
	Time            string        `json:"time"`
	Image           string        `json:"image"`
	Status          EventStatus   `json:"status"`
	RegistrationURL string        `json:"registrationUrl"`
}

// Validate, tüm çift dilli alanları ve tarih/saat formatını kontrol eder.
func (r *CreateEventRequest) Validate() error {
	r.Title = r.Title.Trimmed()
	r.Date = strings.TrimSpace(r.Date)
	r.Time = strings.TrimSpace(r.Time)
	r.Image = strings.TrimSpace(r.Image)
	r.RegistrationURL = strings.TrimSpace(r.RegistrationURL)
	if r.Status == "" {
		r.Status = EventStatusUpcoming
	}

	return validation.ValidateStruct(r,
		validation.Field(&r.Title),
		validation.Field(&r.Description),
		validation.Field(&r.Location),
		validation.Field(&r.Category),
		validation.Field(&r.Participants),
		validation.Field(&r.StatusLabel),
		validation.Field(&r.Date, validation.Required, validation.Date("2006-01-02")),
		validation.Field(&r.Time, validation.Required, validation.Date("15:04")),
		validation.Field(&r.Status, validation.In(EventStatusUpcoming, EventStatusPast)),
		validation.Field(&r.RegistrationURL, validation.By(absoluteURL)),
	)
}

// UpdateEventRequest, kısmi güncelleme. nil alanlar değişmez.
type UpdateEventRequest struct {
	Title           *LocalizedText `json:"title"`
	Description     *LocalizedText `json:"description"`
	Location        *LocalizedText `json:"location"`
	Category        *LocalizedText `json:"category"`
	Participants    *LocalizedText `json:"participants"`
	StatusLabel     *LocalizedText `json:"statusLabel"`
	Date            *string        `json:"date"`
	Time            *string        `json:"time"`
	Image           *string        `json:"image"`
	Status          *EventStatus   `json:"status"`
	RegistrationURL *string        `json:"registrationUrl"` // "" → kayıt linkini kaldır
}

// Validate, sadece gönderilen alanları kontrol eder.
func (r *UpdateEventRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Title),
		validation.Field(&r.Description),
		validation.Field(&r.Location),
		validation.Field(&r.Category),
		validation.Field(&r.Participants),
		validation.Field(&r.StatusLabel),
		validation.Field(&r.Date, validation.NilOrNotEmpty, validation.Date("2006-01-02")),
		validation.Field(&r.Time, validation.NilOrNotEmpty, validation.Date("15:04")),
		validation.Field(&r.Status, validation.In(EventStatusUpcoming, EventStatusPast)),
		validation.Field(&r.RegistrationURL, validation.By(absoluteURL)),
	)
}

// Apply, patch'i mevcut etkinliğe uygular (son yazan kazanır).
func (r *UpdateEventRequest) Apply(e *Event) {
	if r.Title != nil {
		e.Title = r.Title.Trimmed()
	}
	if r.Description != nil {
		e.Description = *r.Description
	}
	if r.Location != nil {
		e.Location = *r.Location
	}
	if r.Category != nil {
		e.Category = *r.Category
	}
	if r.Participants != nil {
		e.Participants = *r.Participants
	}
	if r.StatusLabel != nil {
		e.StatusLabel = *r.StatusLabel
	}
	if r.Date != nil {
		e.Date = strings.TrimSpace(*r.Date)
	}
	if r.Time != nil {
		e.Time = strings.TrimSpace(*r.Time)
	}
	if r.Image != nil {
		e.Image = strings.TrimSpace(*r.Image)
		if e.Image == "" {
			e.Image = DefaultEventImage
		}
	}
	if r.Status != nil {
		e.Status = *r.Status
	}
	if r.RegistrationURL != nil {
		u := strings.TrimSpace(*r.RegistrationURL)
		if u == "" {
			e.RegistrationURL = nil
		} else {
			e.RegistrationURL = &u
		}
	}
}

// absoluteURL, boş değilse http(s) ile başlayan mutlak bir URL bekler.
func absoluteURL(value any) error {
	var s string
	switch v := value.(type) {
	case string:
		s = v
	case *string:
		if v == nil {
			return nil
		}
		s = *v
	}

	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	u, err := url.ParseRequestURI(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return validation.NewError("validation_is_url", "must be a valid http(s) URL")
	}
	return nil
}
