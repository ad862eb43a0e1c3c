// Package models, sitenin domain modellerini tanımlar.
//
// Çift dilli içerik alanları LocalizedText ile taşınır; veritabanında tek bir
// JSON TEXT kolonu olarak saklanır. Request struct'ları Validate() metodunu
// ozzo-validation ile uygular, service katmanı hatayı ErrBadRequest'e sarar.
package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// LocalizedText, aynı metnin Türkçe ve İngilizce hali.
type LocalizedText struct {
	TR string `json:"tr"`
	EN string `json:"en"`
}

// Get, locale'e göre metni döner. Eksikse diğer dile düşer.
func (t LocalizedText) Get(locale string) string {
	if locale == "en" {
		if t.EN != "" {
			return t.EN
		}
		return t.TR
	}
	if t.TR != "" {
		return t.TR
	}
	return t.EN
}

// Trimmed, iki dildeki baştaki/sondaki boşlukları atılmış kopyayı döner.
func (t LocalizedText) Trimmed() LocalizedText {
	return LocalizedText{TR: strings.TrimSpace(t.TR), EN: strings.TrimSpace(t.EN)}
}

// Validate, iki dilin de dolu olmasını şart koşar.
// ozzo-validation, struct alanı olarak geçen LocalizedText'ler için bunu otomatik çağırır.
func (t LocalizedText) Validate() error {
	return validation.ValidateStruct(&t,
		validation.Field(&t.TR, validation.Required),
		validation.Field(&t.EN, validation.Required),
	)
}

// Value, database/sql için JSON'a çevirir.
func (t LocalizedText) Value() (driver.Value, error) {
	data, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal localized text: %w", err)
	}
	return string(data), nil
}

// Scan, JSON TEXT kolonunu okur.
func (t *LocalizedText) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*t = LocalizedText{}
		return nil
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("unsupported localized text column type %T", src)
	}

	if len(data) == 0 {
		*t = LocalizedText{}
		return nil
	}
	return json.Unmarshal(data, t)
}
