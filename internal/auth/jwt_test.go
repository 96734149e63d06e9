package auth_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"

	"taskboard/internal/auth"
)

const secret = "test-secret-key"

func TestGenerateAndParseToken(t *testing.T) {
	token, err := auth.GenerateToken(secret, "board-cli", 24*time.Hour)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	clientID, err := auth.ParseToken(secret, token)
	assert.NoError(t, err)
	assert.Equal(t, "board-cli", clientID)
}

func TestGenerateToken_EmptySecret(t *testing.T) {
	_, err := auth.GenerateToken("", "board-cli", time.Hour)
	assert.Error(t, err)
}

func TestParseToken_InvalidToken(t *testing.T) {
	_, err := auth.ParseToken(secret, "invalid-token")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, err := auth.GenerateToken("other-secret", "board-cli", time.Hour)
	assert.NoError(t, err)

	_, err = auth.ParseToken(secret, token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestParseToken_ExpiredToken(t *testing.T) {
	// Arrange
	claims := jwt.MapClaims{
		"client_id": "board-cli",
		"exp":       time.Now().Add(-1 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	expired, _ := token.SignedString([]byte(secret))

	// Act
	_, err := auth.ParseToken(secret, expired)

	// Assert
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestParseToken_MissingClaims(t *testing.T) {
	// Arrange
	claims := jwt.MapClaims{
		"exp": time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	withoutClient, _ := token.SignedString([]byte(secret))

	// Act
	_, err := auth.ParseToken(secret, withoutClient)

	// Assert
	assert.ErrorIs(t, err, auth.ErrInvalidClaims)
	assert.Equal(t, "invalid claims", err.Error())
}
