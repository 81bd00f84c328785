package requestid

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, header string) (string, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	var seen string
	router.Use(Middleware())
	router.GET("/countries", func(c *gin.Context) {
		seen = Value(c)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/countries", nil)
	if header != "" {
		req.Header.Set(headerKey, header)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	return seen, rec.Header().Get(headerKey)
}

func TestMiddlewareKeepsCallerID(t *testing.T) {
	seen, echoed := serve(t, "gw-7f3a.search:42")
	assert.Equal(t, "gw-7f3a.search:42", seen)
	assert.Equal(t, seen, echoed)
}

func TestMiddlewareReplacesUnsafeIDs(t *testing.T) {
	for _, header := range []string{"", "spaced id", "line\nbreak", strings.Repeat("a", maxLength+1)} {
		seen, echoed := serve(t, header)
		_, err := uuid.Parse(seen)
		assert.NoError(t, err, header)
		assert.Equal(t, seen, echoed)
	}
}

func TestValueWithoutMiddleware(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Empty(t, Value(c))
}
