package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func swaggerRouter(cfg SwaggerConfig, auth gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.GET("/swagger/*any", SwaggerProtection(cfg, auth), func(c *gin.Context) {
		c.String(http.StatusOK, "docs")
	})
	return router
}

func getFrom(router *gin.Engine, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil)
	req.RemoteAddr = remoteAddr
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSwaggerProtection(t *testing.T) {
	t.Run("disabled answers not found", func(t *testing.T) {
		w := getFrom(swaggerRouter(SwaggerConfig{}, nil), "192.0.2.1:1234")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "ERR_NOT_FOUND")
	})

	t.Run("enabled without restrictions", func(t *testing.T) {
		w := getFrom(swaggerRouter(SwaggerConfig{Enabled: true}, nil), "192.0.2.1:1234")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "docs", w.Body.String())
	})

	t.Run("allow list", func(t *testing.T) {
		router := swaggerRouter(SwaggerConfig{
			Enabled:    true,
			AllowedIPs: []string{"10.0.0.0/8", "192.0.2.7", "not-an-ip"},
		}, nil)

		assert.Equal(t, http.StatusOK, getFrom(router, "10.20.30.40:5000").Code)
		assert.Equal(t, http.StatusOK, getFrom(router, "192.0.2.7:5000").Code)

		w := getFrom(router, "192.0.2.8:5000")
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "ERR_FORBIDDEN")
	})

	t.Run("auth runs when required", func(t *testing.T) {
		deny := func(c *gin.Context) { c.AbortWithStatus(http.StatusUnauthorized) }

		w := getFrom(swaggerRouter(SwaggerConfig{Enabled: true, RequireAuth: true}, deny), "192.0.2.1:1234")
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		w = getFrom(swaggerRouter(SwaggerConfig{Enabled: true}, deny), "192.0.2.1:1234")
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
