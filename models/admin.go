package models

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Admin, panele giriş yapabilen yönetici hesabı.
// Tek bir yetki seviyesi vardır: giriş yapmış her admin her şeyi yapabilir.
type Admin struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// LoginRequest, giriş formu veya /api/auth/login gövdesi.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate, email ve şifre zorunlu.
func (r *LoginRequest) Validate() error {
	r.Email = NormalizeEmail(r.Email)
	return validation.ValidateStruct(r,
		validation.Field(&r.Email, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}
