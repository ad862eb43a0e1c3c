package models

import "time"

// Session, refresh token oturumu.
// ID token kısa ömürlüdür ve DB'ye yazılmaz; refresh token burada saklanır,
// çıkışta silinerek oturum iptal edilir.
type Session struct {
	ID           string    `json:"id"`
	AdminID      string    `json:"adminId"`
	RefreshToken string    `json:"-"`
	ExpiresAt    time.Time `json:"expiresAt"`
	CreatedAt    time.Time `json:"createdAt"`
}
