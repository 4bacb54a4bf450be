package middleware

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"time"

	"job-tracker-backend/internal/delivery/http/response"

	"github.com/gin-gonic/gin"
)

const (
	// CSRFCookie holds the double-submit token. It is readable by JS.
	CSRFCookie = "csrf_token"
	// CSRFHeader must echo the cookie on mutating requests.
	CSRFHeader = "X-CSRF-Token"

	csrfTokenBytes = 32
	csrfTokenTTL   = 24 * time.Hour
)

func newCSRFToken() (string, error) {
	b := make([]byte, csrfTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// IssueCSRFToken sets a fresh CSRF cookie and returns its value.
func IssueCSRFToken(c *gin.Context, secure bool) (string, error) {
	token, err := newCSRFToken()
	if err != nil {
		return "", err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CSRFCookie, token, int(csrfTokenTTL.Seconds()), "/", "", secure, false)
	return token, nil
}

// CSRFMiddleware applies the double-submit cookie check to requests that
// authenticate with the auth cookie. Requests carrying an Authorization
// header are not exposed to cross-site forgery and pass through.
func CSRFMiddleware(secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") != "" {
			c.Next()
			return
		}

		token, err := c.Cookie(CSRFCookie)
		if err != nil || token == "" {
			if token, err = IssueCSRFToken(c, secure); err != nil {
				response.Error(c, http.StatusInternalServerError, "Failed to generate security token", nil)
				c.Abort()
				return
			}
		}

		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		header := c.GetHeader(CSRFHeader)
		if header == "" {
			response.Error(c, http.StatusForbidden, "Missing CSRF token", nil)
			c.Abort()
			return
		}
		if subtle.ConstantTimeCompare([]byte(header), []byte(token)) != 1 {
			response.Error(c, http.StatusForbidden, "Invalid CSRF token", nil)
			c.Abort()
			return
		}

		c.Next()
	}
}
