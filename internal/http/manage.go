package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/kosync/internal/accounts"
	"github.com/mrlokans/kosync/internal/audit"
	"github.com/mrlokans/kosync/internal/auth"
	auditrepo "github.com/mrlokans/kosync/internal/database/audit"
	"github.com/mrlokans/kosync/internal/entities"
	"github.com/mrlokans/kosync/internal/settingsstore"
)

// ManageController serves the /manage administrative endpoints.
type ManageController struct {
	accounts     *accounts.Service
	settings     SettingsStore
	auditService *audit.Service
	logger       *RequestLogger
}

func NewManageController(accountService *accounts.Service, settings SettingsStore, auditService *audit.Service, logger *RequestLogger) *ManageController {
	return &ManageController{
		accounts:     accountService,
		settings:     settings,
		auditService: auditService,
		logger:       logger,
	}
}

// GetSettings handles GET /manage/settings
func (mc *ManageController) GetSettings(c *gin.Context) {
	values, err := mc.settings.All()
	if err != nil {
		respondInternalError(c, err, "get settings")
		return
	}
	c.JSON(http.StatusOK, values)
}

// UpdateSettings handles PUT /manage/settings
func (mc *ManageController) UpdateSettings(c *gin.Context) {
	var values map[string]string
	if err := c.ShouldBindJSON(&values); err != nil {
		respondInvalidBody(c, err)
		return
	}

	if err := mc.settings.Update(values); err != nil {
		if errors.Is(err, settingsstore.ErrEmptyKey) {
			respondBadRequest(c, "Setting key cannot be empty")
			return
		}
		respondInternalError(c, err, "update settings")
		return
	}

	identity := auth.GetIdentity(c)
	mc.auditService.LogSettings(identity.Username, c.ClientIP(), values)
	mc.logger.Printf(c, "User [%s] updated system settings.", identity.Username)
	respondSuccess(c, "Settings updated")
}

// ListUsers handles GET /manage/users
func (mc *ManageController) ListUsers(c *gin.Context) {
	identity := auth.GetIdentity(c)
	users, err := mc.accounts.List(identity)
	if err != nil {
		mc.respondAccountError(c, err, "list users")
		return
	}

	mc.logger.Printf(c, "User [%s] requested /manage/users", identity.Username)
	c.JSON(http.StatusOK, users)
}

// CreateUser handles POST /manage/users
func (mc *ManageController) CreateUser(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalidBody(c, err)
		return
	}

	identity := auth.GetIdentity(c)
	_, err := mc.accounts.Create(identity, req.Username, req.Password)
	mc.auditService.LogAccount(identity.Username, "user_create", req.Username, c.ClientIP(), err)
	if err != nil {
		mc.respondAccountError(c, err, "create user")
		return
	}

	mc.logger.Printf(c, "User [%s] created by user [%s]", req.Username, identity.Username)
	respondSuccess(c, "User created successfully")
}

// DeleteUser handles DELETE /manage/users?username=
func (mc *ManageController) DeleteUser(c *gin.Context) {
	username, ok := requireUsernameQuery(c)
	if !ok {
		return
	}

	identity := auth.GetIdentity(c)
	err := mc.accounts.Delete(identity, username)
	if errors.Is(err, accounts.ErrUserNotFound) {
		respondMessage(c, http.StatusNotFound, "User does not exist")
		return
	}
	if err != nil {
		mc.respondAccountError(c, err, "delete user")
		return
	}

	mc.auditService.LogAccount(identity.Username, "user_delete", username, c.ClientIP(), nil)
	mc.logger.Printf(c, "User [%s] deleted by [%s]", username, identity.Username)
	respondSuccess(c, "Success")
}

// ListDocuments handles GET /manage/users/documents?username=
func (mc *ManageController) ListDocuments(c *gin.Context) {
	username, ok := requireUsernameQuery(c)
	if !ok {
		return
	}

	documents, err := mc.accounts.Documents(auth.GetIdentity(c), username)
	if err != nil {
		mc.respondAccountError(c, err, "list documents")
		return
	}
	c.JSON(http.StatusOK, documents)
}

// ToggleActive handles PUT /manage/users/active?username=
func (mc *ManageController) ToggleActive(c *gin.Context) {
	username, ok := requireUsernameQuery(c)
	if !ok {
		return
	}

	identity := auth.GetIdentity(c)
	active, err := mc.accounts.ToggleActive(identity, username)
	mc.auditService.LogAccount(identity.Username, "user_toggle_active", username, c.ClientIP(), err)
	if err != nil {
		mc.respondAccountError(c, err, "toggle active")
		return
	}

	state, message := "inactive", "User marked as inactive"
	if active {
		state, message = "active", "User marked as active"
	}
	mc.logger.Printf(c, "User [%s] set to %s by user [%s]", username, state, identity.Username)
	respondSuccess(c, message)
}

// ResetPassword handles PUT /manage/users/password?username=
func (mc *ManageController) ResetPassword(c *gin.Context) {
	username, ok := requireUsernameQuery(c)
	if !ok {
		return
	}

	var req passwordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalidBody(c, err)
		return
	}

	identity := auth.GetIdentity(c)
	err := mc.accounts.ResetPassword(identity, username, req.Password)
	mc.auditService.LogAccount(identity.Username, "password_reset", username, c.ClientIP(), err)
	if err != nil {
		mc.respondAccountError(c, err, "reset password")
		return
	}

	mc.logger.Printf(c, "User [%s] password updated by [%s].", username, identity.Username)
	respondSuccess(c, "Password changed successfully")
}

// AuditPage is one page of the audit trail.
type AuditPage struct {
	Events []entities.AuditEvent `json:"events"`
	Total  int64                 `json:"total"`
	Limit  int                   `json:"limit"`
	Offset int                   `json:"offset"`
}

// ListAudit handles GET /manage/audit?actor=&type=&status=&limit=&offset=
func (mc *ManageController) ListAudit(c *gin.Context) {
	limit, ok := parseQueryInt(c, "limit")
	if !ok {
		return
	}
	offset, ok := parseQueryInt(c, "offset")
	if !ok {
		return
	}
	if limit == 0 {
		limit = auditrepo.DefaultPageSize
	}
	limit = min(limit, auditrepo.MaxPageSize)

	events, total, err := mc.auditService.Events(auditrepo.Filter{
		Actor:     c.Query("actor"),
		EventType: entities.AuditEventType(c.Query("type")),
		Status:    entities.AuditStatus(c.Query("status")),
		Limit:     limit,
		Offset:    offset,
	})
	if errors.Is(err, audit.ErrDisabled) {
		respondMessage(c, http.StatusNotFound, "Audit trail is disabled")
		return
	}
	if err != nil {
		respondInternalError(c, err, "list audit events")
		return
	}

	c.JSON(http.StatusOK, AuditPage{Events: events, Total: total, Limit: limit, Offset: offset})
}

// respondAccountError maps account errors to the /manage status codes.
// Unknown users are 400 here; DeleteUser handles its 404 itself.
func (mc *ManageController) respondAccountError(c *gin.Context, err error, context string) {
	switch {
	case errors.Is(err, accounts.ErrUnauthorized):
		respondUnauthorized(c)
	case errors.Is(err, accounts.ErrUserExists):
		respondBadRequest(c, "User already exists")
	case errors.Is(err, accounts.ErrUserNotFound):
		respondBadRequest(c, "User does not exist")
	case errors.Is(err, accounts.ErrProtectedAccount):
		respondBadRequest(c, "Cannot update admin user")
	case errors.Is(err, accounts.ErrEmptyPassword):
		respondBadRequest(c, "Password cannot be empty")
	case errors.Is(err, accounts.ErrInvalidUsername):
		respondBadRequest(c, "Username cannot be empty")
	case errors.Is(err, accounts.ErrUsernameTooLong):
		respondBadRequest(c, "Username is too long")
	default:
		respondInternalError(c, err, context)
	}
}
