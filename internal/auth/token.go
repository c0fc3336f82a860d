// Package auth issues and verifies signed access tokens.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/rookgm/marketplace/internal/models"
)

const defaultTokenTTL = 24 * time.Hour

// ErrInvalidToken is returned for tokens that fail verification
var ErrInvalidToken = errors.New("invalid token")

type claims struct {
	UserID uint64 `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// AuthToken creates and verifies HS256 tokens
type AuthToken struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// NewAuthToken creates new AuthToken signing with key
func NewAuthToken(key []byte) *AuthToken {
	return &AuthToken{
		key: key,
		ttl: defaultTokenTTL,
		now: time.Now,
	}
}

// CreateToken returns signed token carrying payload
func (at *AuthToken) CreateToken(payload *models.TokenPayload) (string, error) {
	now := at.now()
	c := claims{
		UserID: payload.UserID,
		Role:   payload.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(at.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(at.key)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken checks token signature and expiry and returns its payload
func (at *AuthToken) VerifyToken(tokenString string) (*models.TokenPayload, error) {
	var c claims
	token, err := jwt.ParseWithClaims(tokenString, &c, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return at.key, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if c.UserID == 0 || c.Role == "" {
		return nil, ErrInvalidToken
	}

	return &models.TokenPayload{UserID: c.UserID, Role: c.Role}, nil
}
