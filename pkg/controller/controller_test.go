package controller

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casware/gocas/pkg/cas"
	"github.com/casware/gocas/pkg/session"
)

func newSessionService(t *testing.T) session.Service {
	t.Helper()
	ss, err := session.NewService(session.Config{Issuer: "http://gocas", Expires: 60})
	require.NoError(t, err)
	return ss
}

func TestSessionInfo(t *testing.T) {
	gin.SetMode(gin.TestMode)
	sessions := newSessionService(t)
	token, err := sessions.CreateUserSession("alice", map[string]string{"title": "Proviseur"})
	require.NoError(t, err)

	sc := NewSessionController(sessions)
	router := gin.New()
	router.GET("/session", sc.SessionInfo)

	t.Run("from bearer header", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/session", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, 200, w.Code)
		var claims map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &claims))
		assert.Equal(t, "alice", claims["sub"])
	})

	t.Run("from cookie", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/session", nil)
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: token})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, 200, w.Code)
	})

	t.Run("missing token", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/session", nil))

		assert.Equal(t, 404, w.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/session", nil)
		req.Header.Set("Authorization", "Bearer garbage")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, 404, w.Code)
	})
}

func TestLogout(t *testing.T) {
	gin.SetMode(gin.TestMode)
	client, err := cas.NewClient("https://sso.example.org/cas", cas.Options{})
	require.NoError(t, err)

	lc := NewLogoutController(client)
	router := gin.New()
	router.GET("/logout", lc.Logout)

	tests := []struct {
		name     string
		path     string
		location string
	}{
		{"bare", "/logout", "https://sso.example.org/cas/logout"},
		{"with return link", "/logout?url=https%3A%2F%2Fapp.example.org",
			"https://sso.example.org/cas/logout?url=https%3A%2F%2Fapp.example.org"},
		{"with auto redirect", "/logout?service=https%3A%2F%2Fapp.example.org",
			"https://sso.example.org/cas/logout?service=https%3A%2F%2Fapp.example.org"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest("GET", tt.path, nil))

			assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
			assert.Equal(t, tt.location, w.Header().Get("Location"))
			assert.Contains(t, w.Body.String(), "<a href=")

			var cleared bool
			for _, cookie := range w.Result().Cookies() {
				if cookie.Name == session.CookieName && cookie.MaxAge < 0 {
					cleared = true
				}
			}
			assert.True(t, cleared)

			_, err := url.Parse(w.Header().Get("Location"))
			assert.NoError(t, err)
		})
	}
}
