package middleware

import (
	"errors"
	"net/http"

	"banjara-intake-backend/internal/delivery/http/response"
	"banjara-intake-backend/internal/domain"
	"banjara-intake-backend/pkg/apperror"
	"banjara-intake-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Error codes in the response body
const (
	CodeValidationFailed = "VALIDATION_FAILED"
	CodeInvalidState     = "INVALID_STATE"
	CodeUploadFailed     = "UPLOAD_FAILED"
	CodePersistFailed    = "PERSIST_FAILED"
	CodeNotFound         = "NOT_FOUND"
	CodeUnknownCategory  = "UNKNOWN_CATEGORY"
	CodeInternal         = "INTERNAL_ERROR"
)

var statusCodes = map[int]string{
	http.StatusBadRequest:            "BAD_REQUEST",
	http.StatusUnauthorized:          "UNAUTHORIZED",
	http.StatusForbidden:             "FORBIDDEN",
	http.StatusNotFound:              CodeNotFound,
	http.StatusRequestEntityTooLarge: "PAYLOAD_TOO_LARGE",
	http.StatusUnprocessableEntity:   CodeInvalidState,
	http.StatusTooManyRequests:       "RATE_LIMITED",
	http.StatusServiceUnavailable:    "SERVICE_UNAVAILABLE",
}

// ErrorHandler renders the last error a handler pushed with c.Error.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		status, message, detail := classify(err)

		if status >= http.StatusInternalServerError {
			// Store errors stay server-side; the client only learns whether to retry
			logger.Log.Error("Request failed",
				"error", err,
				"status", status,
				"path", c.FullPath(),
				"request_id", c.GetString(string(domain.KeyRequestID)),
			)
		}
		response.Error(c, status, message, detail)
	}
}

func classify(err error) (int, string, response.ErrorDetail) {
	var (
		appErr     *apperror.AppError
		validErr   *domain.ValidationError
		stateErr   *domain.InvalidStateError
		uploadErr  *domain.UploadError
		persistErr *domain.PersistError
	)

	switch {
	case errors.As(err, &appErr):
		code, ok := statusCodes[appErr.Code]
		if !ok {
			code = CodeInternal
		}
		detail := response.ErrorDetail{Code: code, Details: appErr.Details}
		if errors.As(appErr.Err, &stateErr) {
			detail.Allowed = stateErr.Allowed
		}
		return appErr.Code, appErr.Message, detail
	case errors.As(err, &validErr):
		return http.StatusBadRequest, "Please correct the highlighted fields",
			response.ErrorDetail{Code: CodeValidationFailed, Violations: validErr.Violations}
	case errors.As(err, &stateErr):
		return http.StatusUnprocessableEntity, stateErr.Error(),
			response.ErrorDetail{Code: CodeInvalidState, Allowed: stateErr.Allowed}
	case errors.As(err, &uploadErr):
		return http.StatusServiceUnavailable, "We could not store your files. Please try again.",
			response.ErrorDetail{Code: CodeUploadFailed, Retryable: true}
	case errors.As(err, &persistErr):
		return http.StatusServiceUnavailable, "We could not save your submission. Please try again.",
			response.ErrorDetail{Code: CodePersistFailed, Retryable: true}
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "Submission not found", response.ErrorDetail{Code: CodeNotFound}
	case errors.Is(err, domain.ErrUnknownKind):
		return http.StatusNotFound, "Unknown category", response.ErrorDetail{Code: CodeUnknownCategory}
	default:
		return http.StatusInternalServerError, "An unexpected error occurred. Please try again later.",
			response.ErrorDetail{Code: CodeInternal}
	}
}
