package middleware

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	dbContextKey     = "db"
	userIDContextKey = "user_id"
	emailContextKey  = "user_email"
)

// DatabaseMiddleware injects the gorm DB handle into the request context so
// handlers can retrieve it with GetDB.
func DatabaseMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(dbContextKey, db)
		c.Next()
	}
}

// GetDB returns the request-scoped gorm DB, or nil when the middleware was
// not installed.
func GetDB(c *gin.Context) *gorm.DB {
	v, ok := c.Get(dbContextKey)
	if !ok {
		return nil
	}
	db, _ := v.(*gorm.DB)
	return db
}

// GetUserID returns the authenticated user's id set by AuthRequired.
func GetUserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(userIDContextKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

// GetUserEmail returns the authenticated user's email set by AuthRequired.
func GetUserEmail(c *gin.Context) (string, bool) {
	v, ok := c.Get(emailContextKey)
	if !ok {
		return "", false
	}
	email, ok := v.(string)
	return email, ok
}
