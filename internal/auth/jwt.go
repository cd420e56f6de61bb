package auth

import (
	"errors"

	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims carries the authenticated principal attached to each request.
type Claims struct {
	UserID uuid.UUID
	Role   string
}

// GenerateToken issues an HS256 token for the user. The expiry window is
// fixed; refresh is a login away.
func GenerateToken(secret string, userID uuid.UUID, role string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID.String(),
		"role":    role,
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken validates the token and extracts the principal.
func ParseToken(secret, tokenStr string) (*Claims, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid claims")
	}

	rawID, ok := mapClaims["user_id"].(string)
	if !ok {
		return nil, errors.New("invalid claims")
	}
	userID, err := uuid.Parse(rawID)
	if err != nil {
		return nil, errors.New("invalid user id in token")
	}

	role, _ := mapClaims["role"].(string)

	return &Claims{UserID: userID, Role: role}, nil
}
