package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"banjara-intake-backend/internal/delivery/http/response"
	"banjara-intake-backend/internal/domain"
	"banjara-intake-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

// ReviewerCookie carries the reviewer token for browser sessions
const ReviewerCookie = "reviewer_token"

// ReviewerToken returns the bearer token, falling back to the session cookie.
func ReviewerToken(c *gin.Context) string {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		if token, ok := strings.CutPrefix(authHeader, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if cookie, err := c.Cookie(ReviewerCookie); err == nil {
		return cookie
	}
	return ""
}

// ReviewerAuth admits only requests carrying a valid reviewer token.
// Rejections include loginURL so the review UI can send the user to sign in.
func ReviewerAuth(authUC domain.AuthUsecase, loginURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		reviewer, err := authUC.Authenticate(c.Request.Context(), ReviewerToken(c))
		if err != nil {
			status, message := http.StatusUnauthorized, "Authentication required"
			var appErr *apperror.AppError
			if errors.As(err, &appErr) {
				status, message = appErr.Code, appErr.Message
			}
			detail := response.ErrorDetail{Code: statusCodes[status]}
			if status == http.StatusUnauthorized {
				detail.LoginURL = loginURL
			}
			response.Error(c, status, message, detail)
			c.Abort()
			return
		}

		c.Set(string(domain.KeyReviewerID), reviewer.ID)
		c.Set(string(domain.KeyReviewerName), reviewer.Username)
		c.Set(string(domain.KeyReviewerRole), reviewer.Role)

		ctx := context.WithValue(c.Request.Context(), domain.KeyReviewerID, reviewer.ID)
		ctx = context.WithValue(ctx, domain.KeyReviewerName, reviewer.Username)
		ctx = context.WithValue(ctx, domain.KeyReviewerRole, reviewer.Role)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
