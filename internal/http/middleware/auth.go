package middleware

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
)

// SessionToken derives the admin cookie value from the passcode, so the
// cookie cannot be forged without knowing it.
func SessionToken(passcode string) string {
	sum := sha256.Sum256([]byte("gallery-admin:" + passcode))
	return hex.EncodeToString(sum[:])
}

// RequireAdmin ensures the incoming request has a valid admin cookie. Browser
// requests without one are redirected to the login page, preserving the
// originally requested path; API requests get a 401.
func RequireAdmin(cookieName, token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if v, err := c.Cookie(cookieName); err == nil && subtle.ConstantTimeCompare([]byte(v), []byte(token)) == 1 {
			c.Next()
			return
		}

		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "admin login required"})
			return
		}

		target := c.Request.URL.RequestURI()
		redirectURL := "/login"
		if target != "" && target != "/" {
			redirectURL = redirectURL + "?next=" + url.QueryEscape(target)
		}

		c.Redirect(http.StatusFound, redirectURL)
		c.Abort()
	}
}
