// Package controller provides the HTTP handlers of the auth gate.
package controller

import (
	"authgate/config"
	"authgate/logger"
	"authgate/web/entity"
	"authgate/web/middleware"
	"authgate/web/service"
	websession "authgate/web/session"

	"github.com/gin-gonic/gin"
)

// LoginForm represents the login request structure.
type LoginForm struct {
	Username string `json:"username" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

// RegisterForm represents the registration request structure.
type RegisterForm struct {
	Name     string `json:"name" form:"name" binding:"required"`
	Username string `json:"username" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
	Role     string `json:"role" form:"role"`
}

// AuthController handles login, logout, registration and session touch.
type AuthController struct {
	authService service.AuthService
}

// NewAuthController creates the controller and registers its routes. The
// guard protects the routes that require an authenticated caller.
func NewAuthController(g *gin.RouterGroup, guard gin.HandlerFunc) *AuthController {
	a := &AuthController{}
	a.initRouter(g, guard)
	return a
}

func (a *AuthController) initRouter(g *gin.RouterGroup, guard gin.HandlerFunc) {
	g.POST("/login", a.login)
	g.POST("/register", a.register)

	g.GET("/logout", guard, a.logout)
	g.GET("/session", guard, a.session)
}

// login authenticates the credentials and issues the session cookie.
func (a *AuthController) login(c *gin.Context) {
	var form LoginForm
	if err := c.ShouldBind(&form); err != nil {
		jsonErr(c, "invalid login data", service.ErrValidation)
		return
	}

	sess, err := a.authService.Login(form.Username, form.Password)
	if err != nil {
		logger.Warningf("failed login for %q from %s", form.Username, getRemoteIp(c))
		jsonErr(c, "login failed", err)
		return
	}

	logger.Infof("%s logged in from %s", form.Username, getRemoteIp(c))
	websession.SetCookie(c, sess.Id, config.GetSessionTTL())
	jsonObj(c, entity.LoginResult{ExpiresAt: sess.ExpiresAt})
}

// register creates or claims an account.
func (a *AuthController) register(c *gin.Context) {
	var form RegisterForm
	if err := c.ShouldBind(&form); err != nil {
		jsonErr(c, "invalid registration data", service.ErrValidation)
		return
	}

	user, err := a.authService.Register(form.Name, form.Username, form.Password, form.Role)
	if err != nil {
		jsonErr(c, "registration failed", err)
		return
	}

	roles := make([]string, 0, len(user.UserRoles))
	for _, ur := range user.UserRoles {
		roles = append(roles, ur.Role.Name)
	}
	logger.Infof("registered user %q with roles %v", user.Name, roles)
	jsonObj(c, entity.RegisterResult{Name: user.Name, Roles: roles})
}

// logout deletes the caller's session and clears the cookie. Idempotent.
func (a *AuthController) logout(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		jsonErr(c, "logout failed", service.ErrUnauthenticated)
		return
	}

	if err := a.authService.Logout(principal.Session); err != nil {
		logger.Warning("logout err:", err)
	}
	websession.ClearCookie(c)
	logger.Infof("%s logged out", principal.Username)
	jsonMsg(c, "logout success")
}

// session returns the authenticated principal. The guard has already slid
// the expiry window forward, so this doubles as the explicit touch call.
func (a *AuthController) session(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		jsonErr(c, "no session", service.ErrUnauthenticated)
		return
	}
	jsonObj(c, principal)
}
