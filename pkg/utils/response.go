package utils

import (
	"errors"
	"net/http"

	appErrors "logistics-auth-service/pkg/errors"

	"github.com/gin-gonic/gin"
)

// SuccessResponse writes {success:true, message, ...fields}. Fields are merged
// at the top level of the body.
func SuccessResponse(c *gin.Context, status int, message string, fields gin.H) {
	body := gin.H{"success": true}
	if message != "" {
		body["message"] = message
	}
	for k, v := range fields {
		body[k] = v
	}
	c.JSON(status, body)
}

func ErrorResponse(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"message": message,
	})
}

func ErrorResponseWithFields(c *gin.Context, status int, message string, fields map[string]string) {
	if len(fields) == 0 {
		ErrorResponse(c, status, message)
		return
	}
	c.JSON(status, gin.H{
		"success":      false,
		"message":      message,
		"field_errors": fields,
	})
}

// AppErrorResponse writes err using its taxonomy kind and returns the status.
// Errors that are not an *AppError are answered with a generic message.
func AppErrorResponse(c *gin.Context, err error) int {
	status := appErrors.StatusCode(err)

	var appErr *appErrors.AppError
	if !errors.As(err, &appErr) || appErr.Message == "" {
		ErrorResponse(c, http.StatusInternalServerError, "Internal server error")
		return http.StatusInternalServerError
	}

	ErrorResponseWithFields(c, status, appErr.Message, appErr.Fields)
	return status
}
