// File: utils/response.go
package utils

import (
	"math"

	"mendly/models"

	"github.com/gin-gonic/gin"
)

// APIError is the error block of the response envelope.
type APIError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// APIResponse is the envelope every endpoint returns.
type APIResponse struct {
	Success bool               `json:"success"`
	Data    interface{}        `json:"data,omitempty"`
	Error   *APIError          `json:"error,omitempty"`
	Meta    *models.Pagination `json:"meta,omitempty"`
}

// Respond writes a success envelope.
func Respond(c *gin.Context, status int, data interface{}) {
	c.JSON(status, APIResponse{Success: true, Data: data})
}

// RespondPage writes a success envelope with pagination metadata.
func RespondPage(c *gin.Context, status int, data interface{}, page, pageSize int, total int64) {
	totalPages := 0
	if pageSize > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(pageSize)))
	}
	c.JSON(status, APIResponse{
		Success: true,
		Data:    data,
		Meta: &models.Pagination{
			Page:       page,
			PageSize:   pageSize,
			TotalCount: total,
			TotalPages: totalPages,
		},
	})
}

// RespondError writes an error envelope and aborts the request.
func RespondError(c *gin.Context, status int, code, message string, details interface{}) {
	c.AbortWithStatusJSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: message, Details: details},
	})
}
