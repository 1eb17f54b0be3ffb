package utils

import (
	"errors"
	"time"

	"mendly/config"
	"mendly/models"

	"github.com/golang-jwt/jwt"
)

// Token lifetimes. Access tokens are short-lived; refresh tokens let
// clients mint new pairs without re-sending credentials.
const (
	AccessTokenTTL  = time.Hour
	RefreshTokenTTL = 30 * 24 * time.Hour
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrWrongTokenUse = errors.New("token used for the wrong purpose")
)

// GenerateAccessToken signs a short-lived token carrying the principal.
func GenerateAccessToken(u *models.User) (string, error) {
	return signToken(u, "access", AccessTokenTTL, config.AppConfig.JWTAccessSecret)
}

// GenerateRefreshToken signs a long-lived token used only at /auth/refresh.
func GenerateRefreshToken(u *models.User) (string, error) {
	return signToken(u, "refresh", RefreshTokenTTL, config.AppConfig.JWTRefreshSecret)
}

func signToken(u *models.User, use string, ttl time.Duration, secret string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":     u.ID,
		"email":   u.Email,
		"role":    string(u.Role),
		"storeId": u.StoreID,
		"use":     use,
		"iat":     now.Unix(),
		"exp":     now.Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseAccessToken validates an access token and extracts the principal.
func ParseAccessToken(tokenString string) (*models.Principal, error) {
	return parseToken(tokenString, "access", config.AppConfig.JWTAccessSecret)
}

// ParseRefreshToken validates a refresh token and extracts the principal.
func ParseRefreshToken(tokenString string) (*models.Principal, error) {
	return parseToken(tokenString, "refresh", config.AppConfig.JWTRefreshSecret)
}

func parseToken(tokenString, use, secret string) (*models.Principal, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Ensure that the token's signing method is HMAC.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	if u, _ := claims["use"].(string); u != use {
		return nil, ErrWrongTokenUse
	}

	p := &models.Principal{}
	if sub, ok := claims["sub"].(string); ok {
		p.UserID = sub
	}
	if email, ok := claims["email"].(string); ok {
		p.Email = email
	}
	if role, ok := claims["role"].(string); ok {
		p.Role = models.Role(role)
	}
	if storeID, ok := claims["storeId"].(string); ok {
		p.StoreID = storeID
	}
	if p.UserID == "" {
		return nil, ErrInvalidToken
	}
	return p, nil
}
