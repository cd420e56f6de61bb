package handler

import (
	"errors"
	"net/http"

	"classdesk/internal/middleware"
	"classdesk/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// errorKind maps a business error to its stable client-visible kind.
var errorKinds = []struct {
	err    error
	status int
	kind   string
}{
	{service.ErrNotFound, http.StatusNotFound, "NotFound"},
	{service.ErrForbidden, http.StatusForbidden, "Forbidden"},
	{service.ErrConflict, http.StatusConflict, "Conflict"},
	{service.ErrLocked, http.StatusBadRequest, "Locked"},
	{service.ErrTaskDisabled, http.StatusBadRequest, "TaskDisabled"},
	{service.ErrTaskUnopened, http.StatusBadRequest, "TaskUnopened"},
	{service.ErrPastDue, http.StatusBadRequest, "PastDue"},
	{service.ErrGradeOutOfRange, http.StatusBadRequest, "OutOfRange"},
	{service.ErrFileRequired, http.StatusBadRequest, "ValidationError"},
	{service.ErrFileTooLarge, http.StatusBadRequest, "FileTooLarge"},
}

// respondError turns business-rule violations into structured responses.
// Unexpected failures become a generic 500; their details are only exposed
// in debug mode.
func respondError(c *gin.Context, err error) {
	for _, m := range errorKinds {
		if errors.Is(err, m.err) {
			c.JSON(m.status, gin.H{"error": m.kind, "message": err.Error()})
			return
		}
	}

	body := gin.H{"error": "Internal", "message": "Internal server error"}
	if gin.Mode() == gin.DebugMode {
		body["detail"] = err.Error()
	}
	c.JSON(http.StatusInternalServerError, body)
}

// authUser extracts the authenticated principal placed into the context by
// the JWT middleware. On failure it writes the response and returns false.
func authUser(c *gin.Context) (uuid.UUID, string, bool) {
	v, exists := c.Get(middleware.UserIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "message": "Not authenticated"})
		return uuid.Nil, "", false
	}
	userID, ok := v.(uuid.UUID)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal", "message": "Invalid user ID format"})
		return uuid.Nil, "", false
	}
	role, _ := c.Get(middleware.UserRoleKey)
	roleStr, _ := role.(string)
	return userID, roleStr, true
}

// pathID parses a uuid path parameter, writing a 400 on malformed input.
func pathID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ValidationError", "message": "Invalid " + param + " format"})
		return uuid.Nil, false
	}
	return id, true
}
