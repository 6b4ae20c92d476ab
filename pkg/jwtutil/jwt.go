package jwtutil

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"ledger-service/pkg/config"
)

var signingKey []byte

// UserClaims represents the JWT claims for an authenticated operator.
// Who issues these tokens and how sessions expire is the login service's
// business; this package only proves the caller was authorized.
type UserClaims struct {
	Email  string `json:"email"`
	UserID uint   `json:"user_id"`
	jwt.RegisteredClaims
}

// Initialize sets the signing key from configuration
func Initialize(cfg *config.JWTConfig) {
	signingKey = []byte(cfg.SigningKey)
}

// GenerateToken creates a JWT token with user information. Used by tests
// and local tooling; the production issuer lives in the auth service.
func GenerateToken(email string, userID uint, ttl time.Duration) (string, error) {
	if len(signingKey) == 0 {
		return "", errors.New("JWT configuration not provided")
	}

	claims := UserClaims{
		Email:  email,
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(signingKey)
}

// ValidateToken validates and parses the JWT token
func ValidateToken(tokenString string) (*UserClaims, error) {
	if len(signingKey) == 0 {
		return nil, errors.New("JWT configuration not provided")
	}

	token, err := jwt.ParseWithClaims(tokenString, &UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		// Validate the signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return signingKey, nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*UserClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}
