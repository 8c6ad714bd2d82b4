package auth

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareLiftsHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var got Principal
	var ok bool

	r := gin.New()
	r.Use(Middleware())
	r.GET("/", func(c *gin.Context) {
		got, ok = FromContext(c)
	})

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-User-ID", "u42")
	req.Header.Set("X-User-Role", "manager")
	r.ServeHTTP(httptest.NewRecorder(), req)

	require.True(t, ok)
	assert.Equal(t, "u42", got.UserID)
	assert.Equal(t, "manager", got.Role)
	assert.True(t, got.IsManager())
}

func TestMiddlewareWithoutHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var ok bool
	r := gin.New()
	r.Use(Middleware())
	r.GET("/", func(c *gin.Context) {
		_, ok = FromContext(c)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
	assert.False(t, ok)
}

func TestIsManager(t *testing.T) {
	assert.True(t, Principal{Role: "admin"}.IsManager())
	assert.True(t, Principal{Role: "manager"}.IsManager())
	assert.False(t, Principal{Role: "cashier"}.IsManager())
	assert.False(t, Principal{}.IsManager())
}
