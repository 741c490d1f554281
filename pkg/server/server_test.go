package server

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casware/gocas/pkg/config"
	"github.com/casware/gocas/pkg/profile"
)

func testConfig() config.Config {
	return config.Config{
		Cas: config.Cas{
			URL: "https://sso.example.org/cas",
		},
		PropertyMap: profile.PropertyMap{
			Emails: []profile.TypedKey{{Key: "mail", Type: "professional"}},
		},
	}
}

func TestSetupRouter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router, err := SetupRouter(testConfig())
	require.NoError(t, err)

	t.Run("protected route redirects to cas login", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "http://app.example.org/me", nil))

		require.Equal(t, http.StatusTemporaryRedirect, w.Code)
		location, err := url.Parse(w.Header().Get("Location"))
		require.NoError(t, err)
		assert.Equal(t, "sso.example.org", location.Host)
		assert.Equal(t, "/cas/login", location.Path)
		assert.Equal(t, "http://app.example.org/me", location.Query().Get("service"))
	})

	t.Run("session endpoint without token", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/gocas/v1/session", nil))

		assert.Equal(t, 404, w.Code)
	})

	t.Run("logout redirects to cas", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/gocas/v1/logout", nil))

		assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
		assert.Equal(t, "https://sso.example.org/cas/logout", w.Header().Get("Location"))
	})
}

func TestSetupRouterInvalidCasURL(t *testing.T) {
	gin.SetMode(gin.TestMode)
	conf := testConfig()
	conf.Cas.URL = "http://sso.example.org/cas"

	_, err := SetupRouter(conf)
	assert.Error(t, err)
}
