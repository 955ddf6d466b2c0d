package endpoint

import (
	"net/http"
	"strings"

	"github.com/Gabriel-Garrido/CuraMetric/config"
	"github.com/Gabriel-Garrido/CuraMetric/model"
	"github.com/Gabriel-Garrido/CuraMetric/util"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type googleAuthRequest struct {
	Token string `json:"token" binding:"required"`
}

// GoogleAuth godoc
// @Summary      Google identity exchange
// @Description  Verify a Google-issued ID token, get-or-create the local account by email, and return a session credential pair
// @Tags         Authentication
// @Accept       json
// @Produce      json
// @Param        request body googleAuthRequest true "Google ID token"
// @Success      200 {object} TokenResponse "Credential pair with account email and username"
// @Failure      400 {object} object "Invalid token"
// @Router       /auth/google [post]
func GoogleAuth(c *gin.Context) {
	var req googleAuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid token"})
		return
	}

	cfg := config.LoadConfig()
	claims, err := util.VerifyGoogleIDToken(c.Request.Context(), req.Token, cfg.GoogleClientID)
	if err != nil {
		// Verification failure creates no local state.
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid token"})
		return
	}

	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	user, created, err := getOrCreateGoogleUser(db, claims)
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to resolve account", Err: err})
		return
	}

	pair, err := util.IssueTokenPair(user)
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Could not generate token", Err: err})
		return
	}

	util.LogGoogleLogin(user.ID, user.Email, c.ClientIP(), c.Request.UserAgent(), created)

	c.JSON(http.StatusOK, gin.H{
		"refresh":  pair.Refresh,
		"access":   pair.Access,
		"email":    user.Email,
		"username": user.Username,
	})
}

// getOrCreateGoogleUser resolves the local account for a verified Google
// identity. Repeat logins for the same email always resolve to the same
// account and never overwrite existing profile fields. Two concurrent first
// logins race on the unique email index; the loser retries as a lookup.
func getOrCreateGoogleUser(db *gorm.DB, claims util.GoogleClaims) (*model.User, bool, error) {
	email := strings.ToLower(claims.Email)

	var user model.User
	err := db.Where("email = ?", email).First(&user).Error
	if err == nil {
		return &user, false, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, false, err
	}

	user = model.User{
		Email:        email,
		Username:     email,
		FirstName:    claims.GivenName,
		LastName:     claims.FamilyName,
		IsGoogleUser: true,
	}
	if err := db.Create(&user).Error; err != nil {
		if isDuplicateKeyError(err) {
			// Lost the race: the other request created the account.
			var existing model.User
			if lookupErr := db.Where("email = ?", email).First(&existing).Error; lookupErr != nil {
				return nil, false, lookupErr
			}
			return &existing, false, nil
		}
		return nil, false, err
	}

	return &user, true, nil
}
