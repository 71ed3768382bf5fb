package response

import (
	"banjara-intake-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

// Response standardizes the API JSON response
type Response struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Error     interface{} `json:"error,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
}

// ErrorDetail is the machine-readable part of an error response
type ErrorDetail struct {
	Code       string                 `json:"code"`
	Violations []domain.Violation     `json:"violations,omitempty"`
	Allowed    []domain.Status        `json:"allowed,omitempty"`
	Retryable  bool                   `json:"retryable,omitempty"`
	LoginURL   string                 `json:"login_url,omitempty"`
	Details    map[string]interface{} `json:"details,omitempty"`
}

func requestID(c *gin.Context) string {
	id, _ := c.Get(string(domain.KeyRequestID))
	idStr, _ := id.(string)
	return idStr
}

// Success sends a success response
func Success(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, Response{
		Success:   true,
		Message:   message,
		Data:      data,
		RequestID: requestID(c),
	})
}

// Error sends an error response
func Error(c *gin.Context, code int, message string, err interface{}) {
	c.JSON(code, Response{
		Success:   false,
		Message:   message,
		Error:     err,
		RequestID: requestID(c),
	})
}
