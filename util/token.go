package util

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Gabriel-Garrido/CuraMetric/config"
	"github.com/Gabriel-Garrido/CuraMetric/model"
	"github.com/golang-jwt/jwt/v4"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"

	AccessTokenTTL  = time.Hour
	RefreshTokenTTL = 7 * 24 * time.Hour
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrWrongTokenUse = errors.New("token used for wrong purpose")
	ErrTokenRevoked  = errors.New("token has been revoked")
)

// SessionClaims are the claims carried by both access and refresh tokens.
// TokenType distinguishes the two so a refresh token can never pass the
// resource API's authentication gate.
type SessionClaims struct {
	UserID    uint   `json:"user_id"`
	Email     string `json:"email"`
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}

// TokenPair is the credential pair issued on login, registration, refresh,
// and Google identity exchange.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// IssueTokenPair mints a short-lived access token and a longer-lived
// refresh token bound to the user.
func IssueTokenPair(user *model.User) (TokenPair, error) {
	access, err := signToken(user, TokenTypeAccess, AccessTokenTTL)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := signToken(user, TokenTypeRefresh, RefreshTokenTTL)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{Access: access, Refresh: refresh}, nil
}

func signToken(user *model.User, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		UserID:    user.ID,
		Email:     user.Email,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(GetJWTSecretByte())
}

// ParseToken validates signature and expiry and checks the token is of the
// expected type.
func ParseToken(tokenString, expectedType string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return GetJWTSecretByte(), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != expectedType {
		return nil, ErrWrongTokenUse
	}
	return claims, nil
}

// RevokeRefreshToken adds a refresh token to the Redis denylist until its
// natural expiry. Without Redis the revocation is a no-op; the token then
// simply ages out.
func RevokeRefreshToken(ctx context.Context, tokenString string, claims *SessionClaims) error {
	rdb := config.GetRedisClient()
	if rdb == nil {
		return nil
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	return rdb.Set(ctx, revocationKey(tokenString), claims.UserID, ttl).Err()
}

// IsRefreshTokenRevoked reports whether a refresh token has been revoked.
func IsRefreshTokenRevoked(ctx context.Context, tokenString string) bool {
	rdb := config.GetRedisClient()
	if rdb == nil {
		return false
	}
	n, err := rdb.Exists(ctx, revocationKey(tokenString)).Result()
	if err != nil {
		// Fail open on Redis errors so that a cache outage does not
		// lock every user out.
		return false
	}
	return n > 0
}

func revocationKey(tokenString string) string {
	return fmt.Sprintf("revoked_refresh:%s", tokenString)
}
