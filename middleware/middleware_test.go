package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mayhouse/database/repository/memory"
	"mayhouse/models"
	"mayhouse/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter() *gin.Engine {
	users := memory.NewUsers(
		models.User{ID: "u-1", FullName: "Traveler", Role: models.RoleUser},
		models.User{ID: "h-1", FullName: "Host", Role: models.RoleHost},
		models.User{ID: "a-1", FullName: "Admin", Role: models.RoleAdmin},
	)
	r := gin.New()
	whoami := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": c.GetString(utils.CtxUserID), "role": c.GetString(utils.CtxUserRole)})
	}
	r.GET("/me", JWTAuthUserMiddleware(users), whoami)
	r.GET("/host", JWTAuthUserMiddleware(users), RequireRole(models.RoleHost), whoami)
	return r
}

func token(t *testing.T, sub string) string {
	tok, err := utils.GenerateToken(sub, "", "", "", time.Hour)
	require.NoError(t, err)
	return tok
}

func get(r *gin.Engine, path, tok string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuthUserMiddleware(t *testing.T) {
	r := newRouter()

	assert.Equal(t, http.StatusUnauthorized, get(r, "/me", "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "/me", "garbage").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "/me", token(t, "ghost")).Code)

	w := get(r, "/me", token(t, "h-1"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user":"h-1","role":"host"}`, w.Body.String())
}

func TestRevokedTokenRejected(t *testing.T) {
	r := newRouter()
	tok := token(t, "u-1")
	require.Equal(t, http.StatusOK, get(r, "/me", tok).Code)

	require.NoError(t, utils.GetBlacklist().Revoke(context.Background(), utils.HashToken(tok), time.Now().Add(time.Hour)))
	assert.Equal(t, http.StatusUnauthorized, get(r, "/me", tok).Code)
}

func TestRequireRole(t *testing.T) {
	r := newRouter()
	assert.Equal(t, http.StatusForbidden, get(r, "/host", token(t, "u-1")).Code)
	assert.Equal(t, http.StatusOK, get(r, "/host", token(t, "h-1")).Code)
	assert.Equal(t, http.StatusOK, get(r, "/host", token(t, "a-1")).Code)
}

func TestRateLimit(t *testing.T) {
	r := gin.New()
	r.Use(RateLimitMiddleware(2))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}, codes)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Real-IP", "198.51.100.1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}
