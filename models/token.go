package models

import "github.com/golang-jwt/jwt/v5"

// TokenClaims, ID token payload'ı.
// services, middleware ve ws aynı struct'ı kullandığı için models'te durur.
type TokenClaims struct {
	AdminID string `json:"admin_id"`
	Email   string `json:"email"`
	jwt.RegisteredClaims
}
