package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/studyabroad-search-api/internal/models"
	"github.com/noah-isme/studyabroad-search-api/internal/service"
)

func newAdminRouter(auth *service.AuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.DELETE("/admin/cache", JWT(auth), RequireRoles(models.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return router
}

func TestAdminRouteRejectsMissingToken(t *testing.T) {
	router := newAdminRouter(service.NewAuthService("secret"))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/admin/cache", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminRouteRejectsMalformedHeader(t *testing.T) {
	router := newAdminRouter(service.NewAuthService("secret"))

	req := httptest.NewRequest(http.MethodDelete, "/admin/cache", nil)
	req.Header.Set("Authorization", "Token abc")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminRouteRequiresAdminRole(t *testing.T) {
	auth := service.NewAuthService("secret")
	router := newAdminRouter(auth)

	token, err := auth.IssueToken("editor-7", models.RoleEditor, time.Hour)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodDelete, "/admin/cache", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminRouteAllowsAdmin(t *testing.T) {
	auth := service.NewAuthService("secret")
	router := newAdminRouter(auth)

	token, err := auth.IssueToken("admin-1", models.RoleAdmin, time.Hour)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodDelete, "/admin/cache", nil)
	req.Header.Set("Authorization", "bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestResponseMetaStampsProcessingTime(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var meta map[string]interface{}
	router := gin.New()
	router.Use(WithResponseMeta())
	router.GET("/", func(c *gin.Context) {
		SetCacheHit(c, false)
		meta = ResponseMeta(c)
		c.Status(http.StatusOK)
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	require.NotNil(t, meta)
	assert.Equal(t, false, meta["cache_hit"])
	assert.Contains(t, meta, "processing_time_ms")
}
