package handler

import (
	"encoding/json"
	"net/http"

	"github.com/asif1001/wareopes1-sub002/internal/apierror"
	"github.com/asif1001/wareopes1-sub002/internal/config"
	"github.com/asif1001/wareopes1-sub002/internal/dto"
	"github.com/asif1001/wareopes1-sub002/internal/middleware"
	"github.com/asif1001/wareopes1-sub002/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	svc service.AuthService
	cfg *config.Config
}

func NewAuthHandler(svc service.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{svc: svc, cfg: cfg}
}

// Login godoc
// @Summary User login
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 401 {object} apierror.APIError
// @Router /v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindAndValidate(c, &req) {
		return
	}

	resp, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusUnauthorized,
			apierror.WithCode(apierror.CodeUnauthenticated, "Invalid credentials"))
		return
	}

	// The cookie payload is the JSON envelope; bare user-id values from
	// earlier clients are still accepted on resolution.
	cookie, _ := json.Marshal(map[string]string{"id": resp.User.ID})
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookieName, string(cookie),
		h.cfg.SessionCookieMaxAge, "/", h.cfg.Domain, h.cfg.Env == "production", true)

	c.JSON(http.StatusOK, resp)
}

// Logout clears the session cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(middleware.SessionCookieName, "", -1, "/", h.cfg.Domain, h.cfg.Env == "production", true)
	c.Status(http.StatusNoContent)
}

// Me returns the identity and permissions behind the current session.
func (h *AuthHandler) Me(c *gin.Context) {
	auth := middleware.GetAuth(c)
	c.JSON(http.StatusOK, gin.H{
		"id":          auth.UserID.String(),
		"employee_no": auth.EmployeeNo,
		"full_name":   auth.FullName,
		"role":        auth.Role,
		"branch":      auth.Branch,
		"permissions": auth.Permissions,
		"is_admin":    auth.IsAdmin(),
	})
}
