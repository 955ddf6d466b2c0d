package middleware

import (
	"fmt"
	"strings"
	"time"

	"github.com/Gabriel-Garrido/CuraMetric/model"
	"github.com/Gabriel-Garrido/CuraMetric/util"
	"github.com/gin-gonic/gin"
	cache "github.com/patrickmn/go-cache"
)

// userCache remembers which user ids were recently confirmed to exist so
// repeated requests within a session don't hit the users table every time.
// Entries are short-lived: a deleted account is locked out within a minute.
var userCache = cache.New(time.Minute, 5*time.Minute)

// AuthRequired validates the bearer access token before any data access
// occurs. On success the user's id and email are placed in the request
// context; on failure the request is aborted with 401.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := extractBearerToken(c.GetHeader("Authorization"))
		if err != nil {
			util.LogUnauthorizedAccess(c.ClientIP(), c.Request.UserAgent(), c.Request.URL.Path, err.Error())
			abortUnauthorized(c, err)
			return
		}

		claims, err := util.ParseToken(tokenString, util.TokenTypeAccess)
		if err != nil {
			util.LogUnauthorizedAccess(c.ClientIP(), c.Request.UserAgent(), c.Request.URL.Path, "invalid access token")
			abortUnauthorized(c, err)
			return
		}

		if !userExists(c, claims.UserID) {
			util.LogUnauthorizedAccess(c.ClientIP(), c.Request.UserAgent(), c.Request.URL.Path, "account no longer exists")
			abortUnauthorized(c, fmt.Errorf("account no longer exists"))
			return
		}

		c.Set(userIDContextKey, claims.UserID)
		c.Set(emailContextKey, claims.Email)
		c.Next()
	}
}

func extractBearerToken(header string) (string, error) {
	if header == "" {
		return "", fmt.Errorf("missing authorization header")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return "", fmt.Errorf("invalid authorization format")
	}
	return parts[1], nil
}

func userExists(c *gin.Context, userID uint) bool {
	key := fmt.Sprintf("%d", userID)
	if _, ok := userCache.Get(key); ok {
		return true
	}

	db := GetDB(c)
	if db == nil {
		return false
	}
	var count int64
	if err := db.Model(&model.User{}).Where("id = ?", userID).Count(&count).Error; err != nil || count == 0 {
		return false
	}
	userCache.Set(key, struct{}{}, cache.DefaultExpiration)
	return true
}

// FlushUserCache clears the cached user existence entries. Tests use this
// to avoid cross-test contamination.
func FlushUserCache() {
	userCache.Flush()
}

func abortUnauthorized(c *gin.Context, err error) {
	util.CallUserNotAuthorized(c, util.APIErrorParams{
		Msg: "Authentication required",
		Err: err,
	})
	c.Abort()
}
