package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserEmailUniqueness(t *testing.T) {
	db := setupTestDB(t, "user_unique", &User{})

	first := User{Email: "nurse@example.com", Username: "nurse"}
	assert.NoError(t, db.Create(&first).Error)

	duplicate := User{Email: "nurse@example.com", Username: "other"}
	assert.Error(t, db.Create(&duplicate).Error)

	var count int64
	db.Model(&User{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestUserFederatedFlagDefaultsFalse(t *testing.T) {
	db := setupTestDB(t, "user_federated", &User{})

	local := User{Email: "local@example.com"}
	assert.NoError(t, db.Create(&local).Error)

	var stored User
	assert.NoError(t, db.First(&stored, local.ID).Error)
	assert.False(t, stored.IsGoogleUser)
}
