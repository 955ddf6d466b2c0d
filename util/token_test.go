package util

import (
	"context"
	"fmt"
	"testing"

	"github.com/Gabriel-Garrido/CuraMetric/config"
	"github.com/Gabriel-Garrido/CuraMetric/model"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func testUser() *model.User {
	return &model.User{
		Model: gorm.Model{ID: 7},
		Email: "nurse@example.com",
	}
}

func TestIssueAndParseTokenPair(t *testing.T) {
	SetJWTSecret("token-test-secret")

	pair, err := IssueTokenPair(testUser())
	assert.NoError(t, err)
	assert.NotEmpty(t, pair.Access)
	assert.NotEmpty(t, pair.Refresh)
	assert.NotEqual(t, pair.Access, pair.Refresh)

	claims, err := ParseToken(pair.Access, TokenTypeAccess)
	assert.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "nurse@example.com", claims.Email)

	refreshClaims, err := ParseToken(pair.Refresh, TokenTypeRefresh)
	assert.NoError(t, err)
	assert.Equal(t, uint(7), refreshClaims.UserID)
}

func TestParseTokenRejectsWrongType(t *testing.T) {
	SetJWTSecret("token-test-secret")

	pair, err := IssueTokenPair(testUser())
	assert.NoError(t, err)

	// A refresh token must never pass as an access credential.
	_, err = ParseToken(pair.Refresh, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrWrongTokenUse)

	_, err = ParseToken(pair.Access, TokenTypeRefresh)
	assert.ErrorIs(t, err, ErrWrongTokenUse)
}

func TestParseTokenRejectsTamperedToken(t *testing.T) {
	SetJWTSecret("token-test-secret")

	pair, err := IssueTokenPair(testUser())
	assert.NoError(t, err)

	_, err = ParseToken(pair.Access+"x", TokenTypeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	SetJWTSecret("token-test-secret")
	pair, err := IssueTokenPair(testUser())
	assert.NoError(t, err)

	SetJWTSecret("another-secret")
	defer SetJWTSecret("token-test-secret")

	_, err = ParseToken(pair.Access, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestIsRefreshTokenRevoked(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	config.SetRedisClientForTesting(rdb)
	defer config.SetRedisClientForTesting(nil)

	token := "some-refresh-token"
	key := fmt.Sprintf("revoked_refresh:%s", token)

	mock.ExpectExists(key).SetVal(1)
	assert.True(t, IsRefreshTokenRevoked(context.Background(), token))

	mock.ExpectExists(key).SetVal(0)
	assert.False(t, IsRefreshTokenRevoked(context.Background(), token))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRevocationWithoutRedisIsNoOp(t *testing.T) {
	config.SetRedisClientForTesting(nil)
	SetJWTSecret("token-test-secret")

	pair, err := IssueTokenPair(testUser())
	assert.NoError(t, err)
	claims, err := ParseToken(pair.Refresh, TokenTypeRefresh)
	assert.NoError(t, err)

	assert.NoError(t, RevokeRefreshToken(context.Background(), pair.Refresh, claims))
	assert.False(t, IsRefreshTokenRevoked(context.Background(), pair.Refresh))
}
