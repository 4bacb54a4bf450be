package middleware

import (
	"net/http"
	"strings"
	"time"

	"job-tracker-backend/internal/delivery/http/response"
	"job-tracker-backend/internal/domain"
	"job-tracker-backend/pkg/auth"
	"job-tracker-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// AuthCookie carries the access token for browser clients.
const AuthCookie = "auth_token"

// TokenVerifier validates a bearer token and returns its claims.
type TokenVerifier interface {
	Verify(tokenString string) (*auth.Claims, error)
}

// BearerToken reads the token from the Authorization header, falling back to
// the auth cookie.
func BearerToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			return ""
		}
		return strings.TrimSpace(token)
	}
	if cookie, err := c.Cookie(AuthCookie); err == nil {
		return cookie
	}
	return ""
}

// AuthMiddleware verifies the Supabase access token and stores the caller's
// session in the gin context.
func AuthMiddleware(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := BearerToken(c)
		if tokenString == "" {
			response.Error(c, http.StatusUnauthorized, "Authorization header or auth_token cookie required", nil)
			c.Abort()
			return
		}

		claims, err := verifier.Verify(tokenString)
		if err != nil {
			logger.Log.Debug("token validation failed", "error", err)
			response.Error(c, http.StatusUnauthorized, "Invalid token", nil)
			c.Abort()
			return
		}

		session := domain.Session{
			UserID:      claims.Subject,
			Email:       claims.Email,
			AccessToken: tokenString,
		}
		if claims.ExpiresAt != nil {
			session.ExpiresAt = claims.ExpiresAt.Time
		}

		c.Set(string(domain.KeyUserID), session.UserID)
		c.Set(string(domain.KeyUserEmail), session.Email)
		c.Set(string(domain.KeySession), session)

		c.Next()
	}
}

// SessionFrom returns the session stored by AuthMiddleware.
func SessionFrom(c *gin.Context) (domain.Session, bool) {
	v, ok := c.Get(string(domain.KeySession))
	if !ok {
		return domain.Session{}, false
	}
	session, ok := v.(domain.Session)
	return session, ok && !session.IsZero()
}

// cookieMaxAge is how long the browser keeps the auth cookie.
func cookieMaxAge(expiresAt, now time.Time) int {
	if expiresAt.IsZero() {
		return 3600
	}
	if secs := int(expiresAt.Sub(now).Seconds()); secs > 0 {
		return secs
	}
	return 0
}

// SetAuthCookie stores the access token as an HttpOnly cookie.
func SetAuthCookie(c *gin.Context, token string, expiresAt time.Time, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AuthCookie, token, cookieMaxAge(expiresAt, time.Now()), "/", "", secure, true)
}

// ClearAuthCookie expires the auth cookie.
func ClearAuthCookie(c *gin.Context, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AuthCookie, "", -1, "/", "", secure, true)
}
