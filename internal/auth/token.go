package auth

import (
	"errors"
	"time"

	"github.com/Abhi-0930/food-delivery-platform/internal/models"
	"github.com/golang-jwt/jwt/v4"
)

// token lifetime
const tokenDuration = 24 * time.Hour

var ErrInvalidToken = errors.New("invalid token")

// Claims is JWT claims carrying the user payload
type Claims struct {
	UserID string `json:"uid"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// AuthToken creates and verifies HMAC-signed auth tokens
type AuthToken struct {
	key []byte
}

// NewAuthToken creates new AuthToken instance
func NewAuthToken(key []byte) *AuthToken {
	return &AuthToken{key: key}
}

// CreateToken issues a signed token carrying the payload
func (at *AuthToken) CreateToken(payload *models.TokenPayload) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: payload.UserID,
		Role:   payload.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenDuration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(at.key)
}

// VerifyToken parses and validates a token string
func (at *AuthToken) VerifyToken(tokenString string) (*models.TokenPayload, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return at.key, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	return &models.TokenPayload{UserID: claims.UserID, Role: claims.Role}, nil
}
