package model

import "gorm.io/gorm"

// User represents an account used for authentication. The email is the
// login identifier; username exists for display and is seeded from the
// email for federated accounts.
type User struct {
	gorm.Model
	Username     string `json:"username" gorm:"column:username;type:varchar(150)"`
	Email        string `json:"email" gorm:"column:email;type:varchar(191);uniqueIndex"`
	FirstName    string `json:"first_name" gorm:"column:first_name;type:varchar(150)"`
	LastName     string `json:"last_name" gorm:"column:last_name;type:varchar(150)"`
	Password     string `json:"-" gorm:"column:password;type:varchar(255)"`
	PasswordSalt string `json:"-" gorm:"column:password_salt;type:varchar(64)"`
	IsGoogleUser bool   `json:"is_google_user" gorm:"column:is_google_user;default:false"`
}
