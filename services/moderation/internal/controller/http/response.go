package http

import (
	"net/http"
	"strconv"

	"simple-forum/pkg/middleware"
	"simple-forum/services/moderation/internal/entity"

	"github.com/gin-gonic/gin"
)

// statusFor maps a result code to the HTTP status returned on failure.
func statusFor(code entity.ServiceResultCode) int {
	switch code {
	case entity.ResultSuccess:
		return http.StatusOK
	case entity.ResultUnauthenticated:
		return http.StatusUnauthorized
	case entity.ResultUnauthorized:
		return http.StatusForbidden
	case entity.ResultNotFound:
		return http.StatusNotFound
	case entity.ResultInvalidState:
		return http.StatusConflict
	case entity.ResultInvalidArguments:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondCode writes body with okStatus on success and an error object otherwise.
func respondCode(c *gin.Context, code entity.ServiceResultCode, okStatus int, body gin.H) {
	if !code.IsSuccess() {
		c.JSON(statusFor(code), gin.H{"error": code.String()})
		return
	}
	c.JSON(okStatus, body)
}

func currentUser(c *gin.Context) string {
	return c.GetString(middleware.UserNameKey)
}

func pagination(c *gin.Context) (int, int) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil {
		limit = 20
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil {
		offset = 0
	}
	return limit, offset
}
