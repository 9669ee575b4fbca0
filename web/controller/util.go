package controller

import (
	"errors"
	"net"
	"net/http"
	"strings"

	"authgate/config"
	"authgate/logger"
	"authgate/web/entity"
	"authgate/web/service"

	"github.com/gin-gonic/gin"
)

// getRemoteIp extracts the real IP address from the request headers or remote address.
func getRemoteIp(c *gin.Context) string {
	value := c.GetHeader("X-Real-IP")
	if value != "" {
		return value
	}
	value = c.GetHeader("X-Forwarded-For")
	if value != "" {
		ips := strings.Split(value, ",")
		return ips[0]
	}
	addr := c.Request.RemoteAddr
	ip, _, _ := net.SplitHostPort(addr)
	return ip
}

// jsonMsg sends a success envelope with a message.
func jsonMsg(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, entity.Msg{
		Success: true,
		Msg:     msg,
	})
}

// jsonObj sends a success envelope with a payload.
func jsonObj(c *gin.Context, obj any) {
	c.JSON(http.StatusOK, entity.Msg{
		Success: true,
		Obj:     obj,
	})
}

// jsonErr maps a service error to its HTTP status and sends a failure
// envelope. Internal detail is only surfaced in debug mode.
func jsonErr(c *gin.Context, msg string, err error) {
	status := errStatus(err)
	if status == http.StatusInternalServerError {
		logger.Warning(msg+":", err)
		if !config.IsDebug() {
			c.JSON(status, entity.Msg{Success: false, Msg: msg})
			return
		}
	}
	c.JSON(status, entity.Msg{
		Success: false,
		Msg:     msg + " (" + err.Error() + ")",
	})
}

// errStatus translates the closed service error set into HTTP statuses.
// Forbidden stays distinct from unauthenticated so clients can tell "log
// in" apart from "you lack permission".
func errStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrUnauthenticated),
		errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
