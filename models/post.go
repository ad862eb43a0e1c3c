package models

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// BlogPost, blog yazısı. Content markdown'dır, sayfada HTML'e çevrilir.
// Published=false olan yazılar public sayfalarda görünmez.
type BlogPost struct {
	ID        string        `json:"id"`
	Slug      string        `json:"slug"`
	Title     LocalizedText `json:"title"`
	Excerpt   LocalizedText `json:"excerpt"`
	Content   LocalizedText `json:"content"`
	Author    string        `json:"author"`
	Category  string        `json:"category"`
	Image     string        `json:"image"`
	Date      string        `json:"date"` // yayın tarihi, YYYY-MM-DD
	Published bool          `json:"published"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// CreatePostRequest, yeni blog yazısı.
// Başlık, içerik (iki dilde) ve yazar zorunlu; özet opsiyonel.
type CreatePostRequest struct {
	Title     LocalizedText `json:"title"`
	Excerpt   LocalizedText `json:"excerpt"`
	Content   LocalizedText `json:"content"`
	Author    string        `json:"author"`
	Category  string        `json:"category"`
	Image     string        `json:"image"`
	Date      string        `json:"date"`
	Published bool          `json:"published"`
}

// Validate, zorunlu alanları kontrol eder. Tarih boşsa bugün atanır.
func (r *CreatePostRequest) Validate() error {
	r.Title = r.Title.Trimmed()
	r.Excerpt = r.Excerpt.Trimmed()
	r.Author = strings.TrimSpace(r.Author)
	r.Category = strings.TrimSpace(r.Category)
	r.Image = strings.TrimSpace(r.Image)
	r.Date = strings.TrimSpace(r.Date)
	if r.Date == "" {
		r.Date = time.Now().UTC().Format("2006-01-02")
	}

	return validation.ValidateStruct(r,
		validation.Field(&r.Title),
		validation.Field(&r.Content),
		validation.Field(&r.Author, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Category, validation.Length(0, 60)),
		validation.Field(&r.Date, validation.Date("2006-01-02")),
	)
}

// UpdatePostRequest, kısmi güncelleme. nil alanlar değişmez.
type UpdatePostRequest struct {
	Title     *LocalizedText `json:"title"`
	Excerpt   *LocalizedText `json:"excerpt"`
	Content   *LocalizedText `json:"content"`
	Author    *string        `json:"author"`
	Category  *string        `json:"category"`
	Image     *string        `json:"image"`
	Date      *string        `json:"date"`
	Published *bool          `json:"published"`
}

// Validate, sadece gönderilen alanları kontrol eder.
func (r *UpdatePostRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Title),
		validation.Field(&r.Content),
		validation.Field(&r.Author, validation.NilOrNotEmpty, validation.Length(1, 100)),
		validation.Field(&r.Category, validation.Length(0, 60)),
		validation.Field(&r.Date, validation.NilOrNotEmpty, validation.Date("2006-01-02")),
	)
}

// Apply, patch'i mevcut yazıya uygular.
func (r *UpdatePostRequest) Apply(p *BlogPost) {
	if r.Title != nil {
		p.Title = r.Title.Trimmed()
	}
	if r.Excerpt != nil {
		p.Excerpt = r.Excerpt.Trimmed()
	}
	if r.Content != nil {
		p.Content = *r.Content
	}
	if r.Author != nil {
		p.Author = strings.TrimSpace(*r.Author)
	}
	if r.Category != nil {
		p.Category = strings.TrimSpace(*r.Category)
	}
	if r.Image != nil {
		p.Image = strings.TrimSpace(*r.Image)
	}
	if r.Date != nil {
		p.Date = strings.TrimSpace(*r.Date)
	}
	if r.Published != nil {
		p.Published = *r.Published
	}
}
