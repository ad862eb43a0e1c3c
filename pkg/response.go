package pkg

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
)

// APIResponse, JSON API'nin varsayılan zarfı.
type APIResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// JSON, veriyi {success:true, data} zarfıyla yazar.
func JSON(w http.ResponseWriter, status int, data any) {
	RawJSON(w, status, APIResponse{Success: true, Data: data})
}

// RawJSON, body'yi zarfsız yazar. Yanıt şekli sabit olan endpoint'ler
// (newsletter, upload) bunu kullanır.
func RawJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("[response] failed to encode body: %v", err)
	}
}

// Error, domain hatasını status koduna çevirip {success:false, error} yazar.
// 500'lerde iç detay istemciye gösterilmez, sadece loglanır.
func Error(w http.ResponseWriter, err error) {
	status := StatusOf(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		log.Printf("[response] internal error: %v", err)
		msg = ErrInternal.Error()
	}
	ErrorWithMessage(w, status, msg)
}

// ErrorWithMessage, verilen status ve mesajla hata yanıtı yazar.
func ErrorWithMessage(w http.ResponseWriter, status int, message string) {
	RawJSON(w, status, APIResponse{Success: false, Error: message})
}

// StatusOf, sentinel zincirine bakarak HTTP status kodunu bulur.
func StatusOf(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, ErrTooMany):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
