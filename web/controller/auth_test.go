package controller

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"authgate/database"
	"authgate/database/model"
	"authgate/web/middleware"
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
	guard := middleware.SessionGuard(sessionService, accessService)

	engine := gin.New()
	g := engine.Group("/")
	NewAuthController(g, guard)
	return engine
}

func registerAlice(t *testing.T) {
	t.Helper()
	authService := service.AuthService{}
	_, err := authService.Register("Alice", "alice", "hunter2", "")
	require.NoError(t, err)
}

func postJSON(engine *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func getWithToken(engine *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: websession.CookieName, Value: token})
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == websession.CookieName {
			return c
		}
	}
	return nil
}

func TestLoginSetsSessionCookie(t *testing.T) {
	engine := setupRouter(t)
	registerAlice(t)

	w := postJSON(engine, "/login", `{"username":"alice","password":"hunter2"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "expiresAt")

	cookie := sessionCookie(w)
	require.NotNil(t, cookie, "login must issue the session cookie")
	assert.NotEmpty(t, cookie.Value)
	assert.True(t, cookie.HttpOnly)

	setCookie := strings.Join(w.Header().Values("Set-Cookie"), ";")
	assert.Contains(t, setCookie, "Max-Age=7200")
	assert.Contains(t, setCookie, "SameSite=Strict")

	// The issued token resolves to the logged-in user.
	sessionService := service.SessionService{}
	user, _, err := sessionService.Resolve(cookie.Value)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
}

func TestLoginFailures(t *testing.T) {
	engine := setupRouter(t)
	registerAlice(t)

	tests := []struct {
		name     string
		body     string
		expected int
	}{
		{"wrong password", `{"username":"alice","password":"wrong"}`, http.StatusUnauthorized},
		{"unknown user", `{"username":"nobody","password":"hunter2"}`, http.StatusNotFound},
		{"missing password", `{"username":"alice"}`, http.StatusBadRequest},
		{"empty body", `{}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(engine, "/login", tt.body)
			assert.Equal(t, tt.expected, w.Code)
			assert.Nil(t, sessionCookie(w), "failed login must not issue a cookie")
		})
	}
}

func TestRegisterEndpoint(t *testing.T) {
	engine := setupRouter(t)

	w := postJSON(engine, "/register", `{"name":"Alice","username":"alice","password":"hunter2"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"Alice"`)
	assert.Contains(t, w.Body.String(), `"User"`)

	// Same natural key with an already-assigned username.
	w = postJSON(engine, "/register", `{"name":"Alice","username":"alice2","password":"hunter2"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = postJSON(engine, "/register", `{"name":"Bob","username":"bob"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogoutClearsCookie(t *testing.T) {
	engine := setupRouter(t)
	registerAlice(t)

	login := postJSON(engine, "/login", `{"username":"alice","password":"hunter2"}`)
	require.Equal(t, http.StatusOK, login.Code)
	token := sessionCookie(login).Value

	w := getWithToken(engine, "/logout", token)
	require.Equal(t, http.StatusOK, w.Code)

	setCookie := strings.Join(w.Header().Values("Set-Cookie"), ";")
	assert.Contains(t, setCookie, websession.CookieName+"=")
	assert.Contains(t, setCookie, "Max-Age=0")

	var count int64
	require.NoError(t, database.GetDB().Model(model.Session{}).Where("id = ?", token).Count(&count).Error)
	assert.Zero(t, count, "logout must delete the session row")

	// A second logout with the dead token is just "not logged in".
	w = getWithToken(engine, "/logout", token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSessionEndpoint(t *testing.T) {
	engine := setupRouter(t)
	registerAlice(t)

	login := postJSON(engine, "/login", `{"username":"alice","password":"hunter2"}`)
	require.Equal(t, http.StatusOK, login.Code)
	token := sessionCookie(login).Value

	w := getWithToken(engine, "/session", token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"alice"`)
	assert.Contains(t, w.Body.String(), `"User"`)
	assert.NotContains(t, w.Body.String(), token, "the token must never appear in the principal payload")

	w = getWithToken(engine, "/session", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
