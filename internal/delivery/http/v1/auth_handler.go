package v1

import (
	"net/http"
	"time"

	"banjara-intake-backend/internal/delivery/http/middleware"
	"banjara-intake-backend/internal/delivery/http/response"
	"banjara-intake-backend/internal/domain"
	"banjara-intake-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authUC       domain.AuthUsecase
	cookieSecure bool
}

// NewAuthHandler registers login and logout on the public admin group and
// the session lookup on the protected one.
func NewAuthHandler(public *gin.RouterGroup, protected *gin.RouterGroup, authUC domain.AuthUsecase, cookieSecure bool, loginLimiter gin.HandlerFunc) {
	handler := &AuthHandler{
		authUC:       authUC,
		cookieSecure: cookieSecure,
	}

	public.POST("/login", loginLimiter, handler.Login)
	public.POST("/logout", handler.Logout)
	protected.GET("/me", handler.Me)
}

// Login godoc
// @Summary      Reviewer Login
// @Description  Exchanges the reviewer credentials for a signed token, also set as the HttpOnly reviewer_token cookie.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        login  body      domain.LoginRequest  true  "Credentials"
// @Success      200    {object}  response.Response{data=domain.LoginResult}
// @Failure      401    {object}  response.Response
// @Failure      429    {object}  response.Response
// @Router       /admin/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("username and password are required"))
		return
	}

	result, err := h.authUC.Login(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	maxAge := int(time.Until(result.ExpiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.ReviewerCookie, result.Token, maxAge, "/", "", h.cookieSecure, true)
	if _, err := middleware.SetCSRFCookie(c, h.cookieSecure); err != nil {
		c.Error(apperror.Internal(err))
		return
	}

	response.Success(c, http.StatusOK, "Login successful", result)
}

// Logout godoc
// @Summary      Reviewer Logout
// @Description  Clears the reviewer session cookie.
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /admin/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.ReviewerCookie, "", -1, "/", "", h.cookieSecure, true)
	response.Success(c, http.StatusOK, "Logged out", nil)
}

// Me godoc
// @Summary      Current Reviewer
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=domain.Reviewer}
// @Failure      401  {object}  response.Response
// @Router       /admin/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	reviewer, err := h.authUC.Authenticate(c.Request.Context(), middleware.ReviewerToken(c))
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Reviewer retrieved", reviewer)
}
