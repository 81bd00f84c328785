package cors

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newRouter(opts Options) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(New(opts))
	router.GET("/countries", func(c *gin.Context) { c.Status(http.StatusOK) })
	return router
}

func request(router *gin.Engine, method, origin string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/countries", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAllowAllNeverSendsCredentials(t *testing.T) {
	rec := request(newRouter(Options{}), http.MethodGet, "https://portal.example")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Credentials"))
	assert.Equal(t, exposeHeaders, rec.Header().Get("Access-Control-Expose-Headers"))
}

func TestListedOriginIsEchoed(t *testing.T) {
	router := newRouter(Options{AllowedOrigins: []string{"https://portal.example/"}})

	rec := request(router, http.MethodGet, "https://portal.example")
	assert.Equal(t, "https://portal.example", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))

	rec = request(router, http.MethodGet, "https://other.example")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestPreflight(t *testing.T) {
	router := newRouter(Options{AllowedOrigins: []string{"https://portal.example"}, MaxAge: time.Hour})

	rec := request(router, http.MethodOptions, "https://portal.example")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, allowMethods, rec.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "3600", rec.Header().Get("Access-Control-Max-Age"))

	rec = request(router, http.MethodOptions, "https://other.example")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = request(newRouter(Options{}), http.MethodOptions, "https://any.example")
	assert.Equal(t, "600", rec.Header().Get("Access-Control-Max-Age"))
}
