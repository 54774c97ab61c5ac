package api

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/mmad4804/goal-tracker/pkg/entity"
)

type JWTServiceI interface {
	// Mints an access/refresh token pair for user at the given assurance level
	GenerateSession(user *entity.User, aal string) (*entity.Session, error)
	ParseToken(tokenString string) (*JWTClaims, error)
	ParseRefreshToken(tokenString string) (*JWTClaims, error)
}

type JWTClaims struct {
	jwt.RegisteredClaims
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	AAL      string `json:"aal"`
	TokenUse string `json:"token_use"`
}
