// Package auth mints and verifies the API keys that clients present in the
// "apikey" metadata header.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/conecta/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

const (
	RoleAnon    = "anon"
	RoleService = "service"
)

// Claims carries the standard claims plus the role the key was issued for.
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// GenerateAPIKey signs an HS256 key. A non-positive validity yields a key
// without expiry.
func GenerateAPIKey(role string, secretKey []byte, validity time.Duration) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   "conecta",
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
		Role: role,
	}
	if validity > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(validity))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secretKey)
}

// ParseAPIKey returns the role of a valid key. Expired keys yield
// common.ErrTokenExpired; anything else unverifiable yields
// common.ErrInvalidToken.
func ParseAPIKey(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", common.ErrInvalidToken
	}

	if !token.Valid || claims.Role == "" {
		return "", common.ErrInvalidToken
	}

	return claims.Role, nil
}
