package types

import (
	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims represents the claims in a signed access token
type TokenClaims struct {
	jwt.RegisteredClaims
	UserID uint `json:"user_id"`
}

// TokenResponse is returned by the token endpoint
type TokenResponse struct {
	Token string `json:"token"`
}
