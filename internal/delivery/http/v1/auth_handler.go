package v1

import (
	"net/http"

	"job-tracker-backend/config"
	"job-tracker-backend/internal/delivery/http/middleware"
	"job-tracker-backend/internal/delivery/http/response"
	"job-tracker-backend/internal/domain"
	"job-tracker-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authUC domain.AuthUsecase
	config *config.Config
}

func NewAuthHandler(public *gin.RouterGroup, protected *gin.RouterGroup, authUC domain.AuthUsecase, cfg *config.Config, loginLimiter gin.HandlerFunc) {
	handler := &AuthHandler{authUC: authUC, config: cfg}

	publicAuth := public.Group("/auth")
	{
		publicAuth.POST("/login", loginLimiter, handler.Login)
	}

	protectedAuth := protected.Group("/auth")
	{
		protectedAuth.POST("/signout", handler.SignOut)
		protectedAuth.GET("/me", handler.Me)
	}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login godoc
// @Summary      Sign in with email and password
// @Description  Exchanges credentials for a Supabase session and sets the auth_token cookie
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        credentials  body      LoginRequest  true  "Credentials"
// @Success      200          {object}  response.Response
// @Failure      400          {object}  response.Response
// @Failure      401          {object}  response.Response
// @Failure      429          {object}  response.Response
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(bindError(err))
		return
	}

	session, err := h.authUC.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.Error(err)
		return
	}

	middleware.SetAuthCookie(c, session.AccessToken, session.ExpiresAt, h.config.Production)
	if _, err := middleware.IssueCSRFToken(c, h.config.Production); err != nil {
		logger.Log.Warn("failed to issue csrf token", "error", err)
	}
	logger.Log.Info("user signed in", "user_id", session.User.ID)

	response.Success(c, http.StatusOK, "Signed in", session)
}

// SignOut godoc
// @Summary      Sign out
// @Description  Revokes the Supabase session when possible and clears the auth cookie
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /auth/signout [post]
// @Security     BearerAuth
func (h *AuthHandler) SignOut(c *gin.Context) {
	session, ok := mustSession(c)
	if !ok {
		return
	}

	if err := h.authUC.SignOut(c.Request.Context(), session); err != nil {
		logger.Log.Warn("sign-out revoke failed", "user_id", session.UserID, "error", err)
	}
	middleware.ClearAuthCookie(c, h.config.Production)

	response.Success(c, http.StatusOK, "Signed out", nil)
}

// Me godoc
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Router       /auth/me [get]
// @Security     BearerAuth
func (h *AuthHandler) Me(c *gin.Context) {
	session, ok := mustSession(c)
	if !ok {
		return
	}

	user, err := h.authUC.CurrentUser(c.Request.Context(), session)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Current user", user)
}
