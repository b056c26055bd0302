package handler

import (
	"errors"
	"net/http"
	"strings"

	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

// writeServiceError maps service-layer errors onto the response envelope.
// Sentinels carry the status; anything wrapped as an internal failure is a
// 500, the rest are caller errors.
func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, response.Error(http.StatusForbidden, "Access denied"))
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, response.Error(http.StatusConflict, err.Error()))
	case isInternal(err):
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
	default:
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
	}
}

func isInternal(err error) bool {
	msg := err.Error()
	return strings.HasPrefix(msg, "failed to") || strings.HasPrefix(msg, "database error")
}

func currentUserID(c *gin.Context) string {
	id, _ := c.Get("userID")
	s, _ := id.(string)
	return s
}

func currentUserRole(c *gin.Context) string {
	role, _ := c.Get("userRole")
	s, _ := role.(string)
	return s
}
