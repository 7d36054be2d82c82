package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Error string `json:"error" example:"invalid input"`
}

func errorResponse(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, HTTPError{Error: msg})
}

func BadRequestResponse(c *gin.Context, msg string) {
	errorResponse(c, http.StatusBadRequest, msg)
}

func UnauthorizedResponse(c *gin.Context, msg string) {
	errorResponse(c, http.StatusUnauthorized, msg)
}

func ForbiddenResponse(c *gin.Context, msg string) {
	errorResponse(c, http.StatusForbidden, msg)
}

func NotFoundResponse(c *gin.Context, msg string) {
	errorResponse(c, http.StatusNotFound, msg)
}

func ConflictResponse(c *gin.Context, msg string) {
	errorResponse(c, http.StatusConflict, msg)
}

func TooManyRequestsResponse(c *gin.Context, msg string) {
	errorResponse(c, http.StatusTooManyRequests, msg)
}

func InternalServerErrorResponse(c *gin.Context, msg string) {
	errorResponse(c, http.StatusInternalServerError, msg)
}

func ServiceUnavailableResponse(c *gin.Context, msg string) {
	errorResponse(c, http.StatusServiceUnavailable, msg)
}
