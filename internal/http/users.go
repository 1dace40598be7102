package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/kosync/internal/accounts"
	"github.com/mrlokans/kosync/internal/audit"
	"github.com/mrlokans/kosync/internal/auth"
)

// UsersController serves the KOReader user endpoints and the self-service
// profile and password endpoints.
type UsersController struct {
	accounts     *accounts.Service
	auditService *audit.Service
	logger       *RequestLogger
}

func NewUsersController(accountService *accounts.Service, auditService *audit.Service, logger *RequestLogger) *UsersController {
	return &UsersController{
		accounts:     accountService,
		auditService: auditService,
		logger:       logger,
	}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type passwordRequest struct {
	Password string `json:"password"`
}

type profileRequest struct {
	Preferences *string `json:"preferences"`
	Metadata    *string `json:"metadata"`
}

type ProfileResponse struct {
	Username    string  `json:"username"`
	Preferences *string `json:"preferences"`
	Metadata    *string `json:"metadata"`
}

// Authorize handles GET /users/auth
func (uc *UsersController) Authorize(c *gin.Context) {
	identity := auth.GetIdentity(c)

	if !identity.Authenticated {
		uc.auditService.LogAuth(identity.Username, c.ClientIP(), false)
		respondMessage(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if !identity.Active {
		uc.auditService.LogAuth(identity.Username, c.ClientIP(), false)
		respondMessage(c, http.StatusUnauthorized, "User is inactive")
		return
	}

	uc.auditService.LogAuth(identity.Username, c.ClientIP(), true)
	uc.logger.Printf(c, "User [%s] logged in.", identity.Username)
	c.JSON(http.StatusOK, UsernameResponse{Username: identity.Username})
}

// Register handles POST /users/create
func (uc *UsersController) Register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalidBody(c, err)
		return
	}

	_, err := uc.accounts.Register(req.Username, req.Password)
	switch {
	case err == nil:
	case errors.Is(err, accounts.ErrRegistrationDisabled):
		uc.logger.Printf(c, "Account creation BLOCKED for [%s] because RegistrationDisabled is set to true.", req.Username)
		uc.auditService.LogRegistration(req.Username, c.ClientIP(), err)
		respondMessage(c, http.StatusPaymentRequired, "User registration is disabled")
		return
	case errors.Is(err, accounts.ErrUserExists):
		uc.auditService.LogRegistration(req.Username, c.ClientIP(), err)
		respondMessage(c, http.StatusPaymentRequired, "User already exists")
		return
	case errors.Is(err, accounts.ErrInvalidUsername):
		respondBadRequest(c, "Username cannot be empty")
		return
	case errors.Is(err, accounts.ErrUsernameTooLong):
		respondBadRequest(c, "Username is too long")
		return
	case errors.Is(err, accounts.ErrEmptyPassword):
		respondBadRequest(c, "Password cannot be empty")
		return
	default:
		respondInternalError(c, err, "register user")
		return
	}

	uc.auditService.LogRegistration(req.Username, c.ClientIP(), nil)
	uc.logger.Printf(c, "User [%s] created via public registration.", req.Username)
	c.JSON(http.StatusCreated, UsernameResponse{Username: req.Username})
}

// GetProfile handles GET /users/profile
func (uc *UsersController) GetProfile(c *gin.Context) {
	user, err := uc.accounts.Profile(auth.GetIdentity(c))
	if err != nil {
		uc.respondSelfServiceError(c, err, "get profile")
		return
	}

	c.JSON(http.StatusOK, ProfileResponse{
		Username:    user.Username,
		Preferences: user.Preferences,
		Metadata:    user.Metadata,
	})
}

// UpdateProfile handles PUT /users/profile
func (uc *UsersController) UpdateProfile(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalidBody(c, err)
		return
	}

	err := uc.accounts.UpdateProfile(auth.GetIdentity(c), accounts.ProfileUpdate{
		Preferences: req.Preferences,
		Metadata:    req.Metadata,
	})
	if err != nil {
		uc.respondSelfServiceError(c, err, "update profile")
		return
	}

	respondSuccess(c, "Profile updated")
}

// UpdatePassword handles PUT /users/password
func (uc *UsersController) UpdatePassword(c *gin.Context) {
	var req passwordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalidBody(c, err)
		return
	}

	identity := auth.GetIdentity(c)
	err := uc.accounts.ChangeOwnPassword(identity, req.Password)
	if err != nil {
		uc.respondSelfServiceError(c, err, "update password")
		return
	}

	uc.auditService.LogAccount(identity.Username, "password_change", identity.Username, c.ClientIP(), nil)
	uc.logger.Printf(c, "User [%s] updated their own password.", identity.Username)
	respondSuccess(c, "Password updated successfully")
}

func (uc *UsersController) respondSelfServiceError(c *gin.Context, err error, context string) {
	switch {
	case errors.Is(err, accounts.ErrUnauthorized):
		respondUnauthorized(c)
	case errors.Is(err, accounts.ErrEmptyPassword):
		respondBadRequest(c, "Password cannot be empty")
	case errors.Is(err, accounts.ErrUserNotFound):
		respondMessage(c, http.StatusNotFound, "User not found")
	default:
		respondInternalError(c, err, context)
	}
}
