package middleware

import (
	"net/http"

	"github.com/asif1001/wareopes1-sub002/internal/apierror"
	"github.com/asif1001/wareopes1-sub002/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	// AuthKey is the Gin context key holding the resolved AuthContext.
	AuthKey = "auth"

	// SessionCookieName is the cookie every authenticated request carries.
	SessionCookieName = "session"
)

// SessionAuth resolves the session cookie on every protected route.
// A missing cookie, an unknown user or an inactive account all map to the
// same 401 so callers cannot probe which accounts exist.
func SessionAuth(sessions service.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, err := c.Cookie(SessionCookieName)
		if err != nil || cookie == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				apierror.WithCode(apierror.CodeUnauthenticated, "Authentication required"))
			return
		}

		auth, ok := sessions.Resolve(c.Request.Context(), cookie)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				apierror.WithCode(apierror.CodeUnauthenticated, "Invalid or expired session"))
			return
		}

		c.Set(AuthKey, auth)
		c.Next()
	}
}

// RequirePermission rejects requests whose session lacks the page:action
// permission. Admins pass every check.
func RequirePermission(page, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := GetAuth(c)
		if auth == nil || !auth.Can(page, action) {
			c.AbortWithStatusJSON(http.StatusForbidden,
				apierror.WithCode(apierror.CodeForbidden, "Insufficient permissions"))
			return
		}
		c.Next()
	}
}

// RequireAdmin rejects requests from non-admin sessions.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := GetAuth(c)
		if auth == nil || !auth.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden,
				apierror.WithCode(apierror.CodeForbidden, "Admin access required"))
			return
		}
		c.Next()
	}
}

// GetAuth is a helper to retrieve the typed AuthContext from the Gin context.
func GetAuth(c *gin.Context) *service.AuthContext {
	auth, _ := c.MustGet(AuthKey).(*service.AuthContext)
	return auth
}
