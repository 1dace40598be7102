package http

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// --- Response Types ---

// MessageResponse is the body of every error and of plain success replies.
type MessageResponse struct {
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// UsernameResponse is returned by /users/auth and /users/create.
type UsernameResponse struct {
	Username string `json:"username"`
}

// --- Response Helpers ---

// respondMessage sends {"message": ...} with the given status.
func respondMessage(c *gin.Context, status int, message string) {
	c.JSON(status, MessageResponse{Message: message})
}

// respondSuccess sends a 200 OK response with a message.
func respondSuccess(c *gin.Context, message string) {
	respondMessage(c, http.StatusOK, message)
}

// respondBadRequest sends a 400 Bad Request response.
func respondBadRequest(c *gin.Context, message string) {
	respondMessage(c, http.StatusBadRequest, message)
}

// respondInvalidBody sends a 400 for a request body that failed to bind.
func respondInvalidBody(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, MessageResponse{
		Message: "Invalid request body",
		Detail:  err.Error(),
	})
}

func respondUnauthorized(c *gin.Context) {
	respondMessage(c, http.StatusUnauthorized, "Unauthorized")
}

// respondInternalError logs the error and sends a 500 Internal Server Error response.
// The actual error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, err error, context string) {
	log.Printf("Internal error (%s): %v", context, err)
	respondMessage(c, http.StatusInternalServerError, "Internal server error")
}

// --- Parameter Parsing ---

// requireUsernameQuery reads the username query parameter used by the
// management endpoints, responding 400 when it is missing.
func requireUsernameQuery(c *gin.Context) (string, bool) {
	username := c.Query("username")
	if username == "" {
		respondBadRequest(c, "Username is required")
		return "", false
	}
	return username, true
}

// parseQueryInt reads an optional non-negative integer query parameter.
// A missing value yields 0; anything else unparsable responds 400.
func parseQueryInt(c *gin.Context, paramName string) (int, bool) {
	raw := c.Query(paramName)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		respondBadRequest(c, "invalid "+paramName)
		return 0, false
	}
	return n, true
}
