package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"plantco/models"
	"plantco/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newRouter(signer *utils.TokenSigner, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := append([]gin.HandlerFunc{JWTAuthMiddleware(signer, zap.NewNop())}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		p, _ := GetPrincipal(c)
		c.JSON(http.StatusOK, p)
	})
	r.GET("/me", handlers...)
	return r
}

func get(t *testing.T, r http.Handler, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuthMiddleware(t *testing.T) {
	signer := utils.NewTokenSigner("test-secret")
	r := newRouter(signer)

	token, err := signer.GenerateToken(models.Principal{ID: "c1", Role: models.RoleCustomer}, time.Hour)
	require.NoError(t, err)
	w := get(t, r, token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":"c1","role":"customer"}`, w.Body.String())

	assert.Equal(t, http.StatusUnauthorized, get(t, r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(t, r, "not-a-jwt").Code)

	other, err := utils.NewTokenSigner("other").GenerateToken(models.Principal{ID: "c1", Role: models.RoleCustomer}, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, get(t, r, other).Code)

	expired, err := signer.GenerateToken(models.Principal{ID: "c1", Role: models.RoleCustomer}, -time.Minute)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, get(t, r, expired).Code)
}

func TestRequireRole(t *testing.T) {
	signer := utils.NewTokenSigner("test-secret")
	r := newRouter(signer, RequireRole(models.RoleAdmin))

	admin, err := signer.GenerateToken(models.Principal{ID: "a1", Role: models.RoleAdmin}, time.Hour)
	require.NoError(t, err)
	vendor, err := signer.GenerateToken(models.Principal{ID: "v1", Role: models.RoleVendor}, time.Hour)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, get(t, r, admin).Code)
	assert.Equal(t, http.StatusForbidden, get(t, r, vendor).Code)
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimitMiddleware(2, zap.NewNop()))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	call := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("X-Forwarded-For", ip+", 10.0.0.1")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}
	assert.Equal(t, http.StatusNoContent, call("1.1.1.1"))
	assert.Equal(t, http.StatusNoContent, call("1.1.1.1"))
	assert.Equal(t, http.StatusTooManyRequests, call("1.1.1.1"))
	assert.Equal(t, http.StatusNoContent, call("2.2.2.2"))
}
