package jwtservice

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mmad4804/goal-tracker/internal/api"
	errorvalues "github.com/mmad4804/goal-tracker/internal/error_values"
	"github.com/mmad4804/goal-tracker/pkg/entity"
)

var (
	accessTTL  = time.Hour
	refreshTTL = time.Hour * 720
)

const (
	useAccess  = "access"
	useRefresh = "refresh"
)

type JWTService struct {
	secret []byte
}

func New(secret string) *JWTService {
	return &JWTService{
		secret: []byte(secret),
	}
}

func (s *JWTService) GenerateSession(user *entity.User, aal string) (*entity.Session, error) {
	expTime := time.Now().Add(accessTTL)
	access, err := s.sign(user, aal, useAccess, expTime)
	if err != nil {
		return nil, errors.New("signing access token error: " + err.Error())
	}
	refresh, err := s.sign(user, aal, useRefresh, time.Now().Add(refreshTTL))
	if err != nil {
		return nil, errors.New("signing refresh token error: " + err.Error())
	}
	return &entity.Session{
		AccessToken:  access,
		RefreshToken: refresh,
		UserID:       user.ID,
		Email:        user.Email,
		AAL:          aal,
		ExpiresAt:    expTime,
	}, nil
}

func (s *JWTService) sign(user *entity.User, aal, use string, expTime time.Time) (string, error) {
	claims := &api.JWTClaims{
		UserID:   user.ID.String(),
		Email:    user.Email,
		AAL:      aal,
		TokenUse: use,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *JWTService) ParseToken(tokenString string) (*api.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &api.JWTClaims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, errors.New("token parsing error: " + err.Error())
	}
	claims, ok := token.Claims.(*api.JWTClaims)
	if !ok || !token.Valid {
		return nil, errorvalues.ErrInvalidToken
	}
	return claims, nil
}

// ParseRefreshToken accepts only tokens minted for refresh use.
func (s *JWTService) ParseRefreshToken(tokenString string) (*api.JWTClaims, error) {
	claims, err := s.ParseToken(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.TokenUse != useRefresh {
		return nil, errorvalues.ErrInvalidToken
	}
	return claims, nil
}
