package middleware

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"authgate/database"
	"authgate/database/model"
	"authgate/web/service"
	websession "authgate/web/session"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	require.NoError(t, database.InitDB(filepath.Join(t.TempDir(), "test.db")))
	t.Cleanup(func() {
		_ = database.CloseDB()
	})

	sessionService := &service.SessionService{}
	accessService := &service.AccessService{}
	guard := SessionGuard(sessionService, accessService)

	engine := gin.New()
	engine.GET("/profile", guard, func(c *gin.Context) {
		principal, ok := GetPrincipal(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, principal)
	})
	engine.GET("/admin", guard, func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return engine
}

func loginAlice(t *testing.T) string {
	t.Helper()
	authService := service.AuthService{}
	_, err := authService.Register("Alice", "alice", "hunter2", "")
	require.NoError(t, err)
	sess, err := authService.Login("alice", "hunter2")
	require.NoError(t, err)
	return sess.Id
}

func doRequest(engine *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: websession.CookieName, Value: token})
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestGuardNoCookie(t *testing.T) {
	engine := setupRouter(t)

	w := doRequest(engine, "/profile", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGuardUnknownToken(t *testing.T) {
	engine := setupRouter(t)

	w := doRequest(engine, "/profile", "c07b6a1e-0000-0000-0000-000000000000")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGuardAllowedPath(t *testing.T) {
	engine := setupRouter(t)
	token := loginAlice(t)

	w := doRequest(engine, "/profile", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"alice"`)
	assert.Contains(t, w.Body.String(), `"User"`)
}

func TestGuardForbiddenPath(t *testing.T) {
	engine := setupRouter(t)
	token := loginAlice(t)

	// The User role has no rule covering /admin.
	w := doRequest(engine, "/admin", token)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestGuardExpiredSession(t *testing.T) {
	engine := setupRouter(t)
	token := loginAlice(t)

	require.NoError(t, database.GetDB().Model(model.Session{}).
		Where("id = ?", token).
		Update("expires_at", time.Now().Add(-time.Minute)).
		Error)

	w := doRequest(engine, "/profile", token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// The client is told to drop the cookie.
	setCookie := strings.Join(w.Header().Values("Set-Cookie"), ";")
	assert.Contains(t, setCookie, websession.CookieName+"=")
	assert.Contains(t, setCookie, "Max-Age=0")

	// The session row was deleted before the decision was produced.
	var count int64
	require.NoError(t, database.GetDB().Model(model.Session{}).Where("id = ?", token).Count(&count).Error)
	assert.Zero(t, count)
}

func TestGuardRefreshesOnAccess(t *testing.T) {
	engine := setupRouter(t)
	token := loginAlice(t)

	earlier := time.Now().Add(30 * time.Minute)
	require.NoError(t, database.GetDB().Model(model.Session{}).
		Where("id = ?", token).
		Update("expires_at", earlier).
		Error)

	w := doRequest(engine, "/profile", token)
	require.Equal(t, http.StatusOK, w.Code)

	stored := &model.Session{}
	require.NoError(t, database.GetDB().Where("id = ?", token).First(stored).Error)
	assert.True(t, stored.ExpiresAt.After(earlier.Add(time.Hour)), "expiry should slide forward on access")
}

func TestGuardNoRole(t *testing.T) {
	engine := setupRouter(t)

	eve := &model.User{Name: "Eve", Username: "eve", PasswordHash: "x"}
	require.NoError(t, database.GetDB().Create(eve).Error)
	sessionService := service.SessionService{}
	sess, err := sessionService.Create("eve")
	require.NoError(t, err)

	w := doRequest(engine, "/profile", sess.Id)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
