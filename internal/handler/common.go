package handler

import (
	"net/http"

	"wapprove/internal/workflow"
	"wapprove/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// statusFor maps a workflow error to its HTTP status. Anything that is not a
// workflow error is treated as an internal failure.
func statusFor(err error) int {
	kind, ok := workflow.KindOf(err)
	if !ok {
		return http.StatusInternalServerError
	}

	switch kind {
	case workflow.KindNotFound:
		return http.StatusNotFound
	case workflow.KindPermissionDenied:
		return http.StatusForbidden
	case workflow.KindInvalidState, workflow.KindDuplicateDecision, workflow.KindChainMisconfigured:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// fail writes the error as the standard envelope with the mapped status.
func fail(c *gin.Context, err error) {
	status := statusFor(err)
	c.JSON(status, response.Error(status, err.Error()))
}

// currentUserID extracts the authenticated user's id set by the auth
// middleware.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	raw, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "User ID not found in context"))
		return uuid.Nil, false
	}

	idStr, ok := raw.(string)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid User ID format"))
		return uuid.Nil, false
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid User ID format"))
		return uuid.Nil, false
	}

	return id, true
}

// currentUserIDSilent is currentUserID without writing an error response,
// for routes that work with or without authentication.
func currentUserIDSilent(c *gin.Context) (uuid.UUID, bool) {
	raw, exists := c.Get("userID")
	if !exists {
		return uuid.Nil, false
	}
	idStr, ok := raw.(string)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
