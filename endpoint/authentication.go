package endpoint

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Gabriel-Garrido/CuraMetric/model"
	"github.com/Gabriel-Garrido/CuraMetric/util"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Sentinel errors for authentication operations
var (
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrInvalidCredentials     = errors.New("invalid email or password")
)

type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email" example:"nurse@example.com"`
	Password  string `json:"password" binding:"required" example:"password123"`
	Username  string `json:"username" example:"nurse1"`
	FirstName string `json:"first_name" example:"Ana"`
	LastName  string `json:"last_name" example:"Silva"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"nurse@example.com"`
	Password string `json:"password" binding:"required" example:"password123"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

// TokenResponse mirrors the credential payload of the Google exchange so
// every auth endpoint hands out the same shape.
type TokenResponse struct {
	Refresh  string `json:"refresh"`
	Access   string `json:"access"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// Register godoc
// @Summary      Register a new account
// @Description  Create a local account with email as the login identifier and return a session credential pair
// @Tags         Authentication
// @Accept       json
// @Produce      json
// @Param        request body RegisterRequest true "Registration details"
// @Success      201 {object} util.APIResponse{data=TokenResponse} "Account created"
// @Failure      400 {object} util.APIResponse "Invalid request payload"
// @Failure      409 {object} util.APIResponse "Email already registered"
// @Router       /auth/registration [post]
func Register(c *gin.Context) {
	var req RegisterRequest
	if !bindJSONOrRespond(c, &req, "Invalid request payload") {
		return
	}

	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	salt, err := util.GenerateSalt()
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to generate password salt", Err: err})
		return
	}
	hashed, err := util.HashPasswordArgon2(req.Password, salt)
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to hash password", Err: err})
		return
	}

	username := req.Username
	if username == "" {
		username = req.Email
	}
	user := model.User{
		Email:        strings.ToLower(req.Email),
		Username:     username,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Password:     hashed,
		PasswordSalt: salt,
	}

	if err := db.Create(&user).Error; err != nil {
		if isDuplicateKeyError(err) {
			util.CallConflictError(c, util.APIErrorParams{Msg: "Email already registered", Err: ErrEmailAlreadyRegistered})
			return
		}
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to create new user", Err: err})
		return
	}

	pair, err := util.IssueTokenPair(&user)
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Could not generate token", Err: err})
		return
	}

	util.LogSecurityEvent(util.SecurityEvent{
		EventType: util.EventSignupSuccess,
		UserID:    fmt.Sprintf("%d", user.ID),
		Email:     user.Email,
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		Message:   "Account registered",
	})

	util.CallSuccessCreated(c, util.APISuccessParams{
		Msg:  "Account created",
		Data: TokenResponse{Refresh: pair.Refresh, Access: pair.Access, Email: user.Email, Username: user.Username},
	})
}

// Login godoc
// @Summary      User login
// @Description  Authenticate with email and password and return a session credential pair
// @Tags         Authentication
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login credentials"
// @Success      200 {object} util.APIResponse{data=TokenResponse} "Login successful"
// @Failure      400 {object} util.APIResponse "Invalid request payload or credentials"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /auth/login [post]
func Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSONOrRespond(c, &req, "Invalid request payload") {
		return
	}

	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	ip, agent := c.ClientIP(), c.Request.UserAgent()

	var user model.User
	err := db.Where("email = ?", strings.ToLower(req.Email)).First(&user).Error
	if err == gorm.ErrRecordNotFound {
		util.LogLoginFailure(req.Email, ip, agent, "user not found")
		util.CallUserError(c, util.APIErrorParams{Msg: "Invalid email or password", Err: ErrInvalidCredentials})
		return
	}
	if err != nil {
		util.LogLoginFailure(req.Email, ip, agent, "database error")
		util.CallServerError(c, util.APIErrorParams{Msg: "Database error", Err: err})
		return
	}

	// Federated accounts have no local password to check.
	if user.IsGoogleUser && user.Password == "" {
		util.LogLoginFailure(req.Email, ip, agent, "google account without local password")
		util.CallUserError(c, util.APIErrorParams{Msg: "This account uses Google sign-in", Err: ErrInvalidCredentials})
		return
	}

	match, err := util.VerifyPassword(req.Password, user.Password, user.PasswordSalt)
	if err != nil {
		util.LogLoginFailure(req.Email, ip, agent, "password verification error")
		util.CallServerError(c, util.APIErrorParams{Msg: "Password verification failed", Err: err})
		return
	}
	if !match {
		util.LogLoginFailure(req.Email, ip, agent, "invalid password")
		util.CallUserError(c, util.APIErrorParams{Msg: "Invalid email or password", Err: ErrInvalidCredentials})
		return
	}

	pair, err := util.IssueTokenPair(&user)
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Could not generate token", Err: err})
		return
	}

	util.LogLoginSuccess(user.ID, user.Email, ip, agent)
	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Login successful",
		Data: TokenResponse{Refresh: pair.Refresh, Access: pair.Access, Email: user.Email, Username: user.Username},
	})
}

// Logout godoc
// @Summary      Log out
// @Description  Revoke the presented refresh token
// @Tags         Authentication
// @Accept       json
// @Produce      json
// @Param        request body RefreshRequest true "Refresh token to revoke"
// @Success      200 {object} util.APIResponse "Logged out"
// @Failure      400 {object} util.APIResponse "Invalid refresh token"
// @Router       /auth/logout [post]
func Logout(c *gin.Context) {
	var req RefreshRequest
	if !bindJSONOrRespond(c, &req, "Invalid request payload") {
		return
	}

	claims, err := util.ParseToken(req.Refresh, util.TokenTypeRefresh)
	if err != nil {
		util.CallUserError(c, util.APIErrorParams{Msg: "Invalid refresh token", Err: err})
		return
	}

	if err := util.RevokeRefreshToken(c.Request.Context(), req.Refresh, claims); err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to revoke token", Err: err})
		return
	}

	util.LogSecurityEvent(util.SecurityEvent{
		EventType: util.EventLogout,
		UserID:    fmt.Sprintf("%d", claims.UserID),
		Email:     claims.Email,
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		Message:   "User logged out",
	})

	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Logged out"})
}

// RefreshToken godoc
// @Summary      Refresh session credentials
// @Description  Exchange a valid refresh token for a fresh access/refresh pair; the old refresh token is revoked
// @Tags         Authentication
// @Accept       json
// @Produce      json
// @Param        request body RefreshRequest true "Refresh token"
// @Success      200 {object} util.APIResponse{data=TokenResponse} "Tokens refreshed"
// @Failure      401 {object} util.APIResponse "Invalid, expired, or revoked refresh token"
// @Router       /auth/token/refresh [post]
func RefreshToken(c *gin.Context) {
	var req RefreshRequest
	if !bindJSONOrRespond(c, &req, "Invalid request payload") {
		return
	}

	claims, err := util.ParseToken(req.Refresh, util.TokenTypeRefresh)
	if err != nil {
		util.CallUserNotAuthorized(c, util.APIErrorParams{Msg: "Invalid refresh token", Err: err})
		return
	}
	if util.IsRefreshTokenRevoked(c.Request.Context(), req.Refresh) {
		util.CallUserNotAuthorized(c, util.APIErrorParams{Msg: "Refresh token has been revoked", Err: util.ErrTokenRevoked})
		return
	}

	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	var user model.User
	if err := db.First(&user, claims.UserID).Error; err != nil {
		util.CallUserNotAuthorized(c, util.APIErrorParams{Msg: "Account no longer exists", Err: fmt.Errorf("user not found")})
		return
	}

	pair, err := util.IssueTokenPair(&user)
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Could not generate token", Err: err})
		return
	}

	// Rotate: the old refresh token is dead once a new pair is issued.
	if err := util.RevokeRefreshToken(c.Request.Context(), req.Refresh, claims); err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to revoke token", Err: err})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Tokens refreshed",
		Data: TokenResponse{Refresh: pair.Refresh, Access: pair.Access, Email: user.Email, Username: user.Username},
	})
}

// isDuplicateKeyError recognises a uniqueness violation across the MySQL
// and SQLite drivers.
func isDuplicateKeyError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") || strings.Contains(msg, "UNIQUE constraint failed")
}
