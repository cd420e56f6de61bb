package auth_test

import (
	"testing"
	"time"

	"classdesk/internal/auth"
	"classdesk/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

const testSecret = "test-secret-key"

func TestGenerateAndParseToken(t *testing.T) {
	// Arrange
	userID := uuid.New()

	// Act
	token, err := auth.GenerateToken(testSecret, userID, model.RoleTeacher)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := auth.ParseToken(testSecret, token)

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, model.RoleTeacher, claims.Role)
}

func TestParseToken_InvalidToken(t *testing.T) {
	// Act
	_, err := auth.ParseToken(testSecret, "invalid-token")

	// Assert
	assert.Error(t, err)
	assert.Equal(t, "invalid token", err.Error())
}

func TestParseToken_ExpiredToken(t *testing.T) {
	// Arrange
	claims := jwt.MapClaims{
		"user_id": uuid.New().String(),
		"exp":     time.Now().Add(-1 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	expiredToken, _ := token.SignedString([]byte(testSecret))

	// Act
	_, err := auth.ParseToken(testSecret, expiredToken)

	// Assert
	assert.Error(t, err)
	assert.Equal(t, "invalid token", err.Error())
}

func TestParseToken_WrongSecret(t *testing.T) {
	// Arrange
	token, err := auth.GenerateToken("other-secret", uuid.New(), model.RoleStudent)
	assert.NoError(t, err)

	// Act
	_, err = auth.ParseToken(testSecret, token)

	// Assert
	assert.Error(t, err)
}

func TestParseToken_MissingClaims(t *testing.T) {
	// Arrange: a token without a user_id claim.
	claims := jwt.MapClaims{
		"exp": time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenWithoutUserID, _ := token.SignedString([]byte(testSecret))

	// Act
	_, err := auth.ParseToken(testSecret, tokenWithoutUserID)

	// Assert
	assert.Error(t, err)
	assert.Equal(t, "invalid claims", err.Error())
}
