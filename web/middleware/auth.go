// Package middleware contains the gin middleware chain of the auth gate.
package middleware

import (
	"errors"
	"net/http"

	"authgate/logger"
	"authgate/web/entity"
	"authgate/web/service"
	websession "authgate/web/session"

	"github.com/gin-gonic/gin"
)

const principalKey = "principal"

// SessionGuard authenticates and authorizes every request on its group: it
// resolves the sessionId cookie to a session and user, refuses expired or
// unknown sessions, matches the caller's primary role against the path ACL
// and stores an immutable Principal in the context for downstream handlers.
func SessionGuard(sessionService *service.SessionService, accessService *service.AccessService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := websession.Token(c)
		if token == "" {
			abort(c, http.StatusUnauthorized, "not authenticated, no session")
			return
		}

		user, sess, err := sessionService.Resolve(token)
		if err != nil {
			if errors.Is(err, service.ErrSessionExpired) {
				// The session row is already gone; make the client forget
				// its now-worthless token too.
				websession.ClearCookie(c)
				abort(c, http.StatusUnauthorized, "session expired")
				return
			}
			if errors.Is(err, service.ErrNotFound) {
				abort(c, http.StatusUnauthorized, "not authenticated")
				return
			}
			logger.Warning("resolve session err:", err)
			abort(c, http.StatusInternalServerError, "internal error")
			return
		}

		if len(user.UserRoles) == 0 {
			abort(c, http.StatusForbidden, "no role assigned")
			return
		}
		// UserRoles come back ordered by role id ascending, so the first
		// association is the highest-privilege (primary) role.
		primary := user.UserRoles[0].Role

		allowed, err := accessService.IsAllowed(primary.Id, c.Request.URL.Path)
		if err != nil {
			logger.Warning("check permission err:", err)
			abort(c, http.StatusInternalServerError, "internal error")
			return
		}
		if !allowed {
			abort(c, http.StatusForbidden, "not permitted")
			return
		}

		// Sliding expiration: every authenticated access pushes the window.
		if err := sessionService.Refresh(sess); err != nil {
			logger.Warning("refresh session err:", err)
		}

		c.Set(principalKey, entity.Principal{
			Id:       user.Id,
			Name:     user.Name,
			Username: user.Username,
			Role:     primary,
			Session:  sess.Id,
		})
		c.Next()
	}
}

// GetPrincipal returns the authenticated caller placed by SessionGuard, or
// false when the request did not pass the guard.
func GetPrincipal(c *gin.Context) (entity.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return entity.Principal{}, false
	}
	principal, ok := v.(entity.Principal)
	return principal, ok
}

func abort(c *gin.Context, statusCode int, msg string) {
	c.AbortWithStatusJSON(statusCode, entity.Msg{
		Success: false,
		Msg:     msg,
	})
}
