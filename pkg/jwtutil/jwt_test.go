package jwtutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledger-service/pkg/config"
)

func TestGenerateAndValidateToken(t *testing.T) {
	Initialize(&config.JWTConfig{SigningKey: "test-signing-key"})

	token, err := GenerateToken("operator@example.com", 7, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "operator@example.com", claims.Email)
	assert.Equal(t, uint(7), claims.UserID)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	Initialize(&config.JWTConfig{SigningKey: "test-signing-key"})

	token, err := GenerateToken("operator@example.com", 7, -time.Minute)
	require.NoError(t, err)

	_, err = ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenRejectsWrongKey(t *testing.T) {
	Initialize(&config.JWTConfig{SigningKey: "test-signing-key"})
	token, err := GenerateToken("operator@example.com", 7, time.Hour)
	require.NoError(t, err)

	Initialize(&config.JWTConfig{SigningKey: "another-key"})
	_, err = ValidateToken(token)
	assert.Error(t, err)
}
