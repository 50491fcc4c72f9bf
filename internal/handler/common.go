package handler

import (
	"net/http"

	"ticketya/internal/middleware"
	"ticketya/pkg/apperrors"
	"ticketya/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func BindJson(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindJSON(obj); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return err
	}
	return nil
}

// ParamUUID parses a :id style route parameter, writing the 400 itself on
// failure.
func ParamUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid " + name,
		})
		return uuid.Nil, false
	}
	return id, true
}

// MustUserID pulls the authenticated user off the context. Routes behind
// RequireAuth always have one; a miss means a wiring bug.
func MustUserID(c *gin.Context) (uuid.UUID, bool) {
	id, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
		return uuid.Nil, false
	}
	return id, true
}

// handleError maps a domain error to its HTTP response. 5xx responses hide
// the underlying message.
func handleError(c *gin.Context, err error, operation string) {
	status := apperrors.HTTPStatus(err)
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))

	if status >= http.StatusInternalServerError {
		log.Error("Unexpected error")
		c.JSON(status, gin.H{"error": "Internal server error"})
		return
	}

	log.Warn("Request rejected")
	c.JSON(status, gin.H{"error": err.Error()})
}
