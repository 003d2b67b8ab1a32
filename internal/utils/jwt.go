// Package utils provides helpers for admin session tokens and password
// verification.
package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AdminToken is a signed HS256 JWT proving a successful admin login, plus
// its expiry. There is a single admin principal, so the token carries no
// per-user identity, just the admin subject and role claims.
type AdminToken struct {
	Token string    `json:"token"`
	Exp   time.Time `json:"expires"`
}

// NewAdminToken builds and signs the admin session JWT with the given TTL in
// minutes.
func NewAdminToken(secret string, ttlMin int) (AdminToken, error) {
	exp := time.Now().UTC().Add(time.Duration(ttlMin) * time.Minute)
	claims := jwt.MapClaims{
		"sub":  "admin",
		"role": "ADMIN",
		"exp":  exp.Unix(),
		"iat":  time.Now().UTC().Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AdminToken{}, err
	}
	return AdminToken{Token: signed, Exp: exp}, nil
}
