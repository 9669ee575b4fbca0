// Package session handles the client side of a session: reading, setting
// and clearing the sessionId cookie on the gin context. The cookie holds
// only the opaque token; all session state lives server-side.
package session

import (
	"net/http"
	"time"

	"authgate/config"

	"github.com/gin-gonic/gin"
)

// CookieName is the cookie carrying the session token.
const CookieName = "sessionId"

// Token returns the session token from the request cookie, or "" when the
// cookie is absent.
func Token(c *gin.Context) string {
	token, err := c.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return token
}

// SetCookie issues the session cookie. HttpOnly always; Secure outside
// debug mode so local HTTP development keeps working.
func SetCookie(c *gin.Context, token string, maxAge time.Duration) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(CookieName, token, int(maxAge.Seconds()), "/", "", !config.IsDebug(), true)
}

// ClearCookie instructs the client to drop the session cookie.
func ClearCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(CookieName, "", -1, "/", "", !config.IsDebug(), true)
}
