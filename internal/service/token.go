package service

import "github.com/rookgm/marketplace/internal/models"

//go:generate mockgen -destination=../handler/http/mocks/token.go -package=mocks . TokenService

// TokenService issues and verifies access tokens
type TokenService interface {
	CreateToken(payload *models.TokenPayload) (string, error)
	VerifyToken(tokenString string) (*models.TokenPayload, error)
}
