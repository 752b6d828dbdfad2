package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weddinghall/internal/pkg/jwt"
)

func newAuthEngine(t *testing.T, handlers ...gin.HandlerFunc) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(handlers...)
	r.GET("/protected", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"subject": c.GetString("subject"), "role": c.GetString("role")})
	})
	return r
}

func callProtected(r http.Handler, authHeader string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuth_ValidToken(t *testing.T) {
	jwtService := jwt.New("test-secret-123", time.Hour)
	token, err := jwtService.GenerateToken("ops", jwt.RoleAdmin)
	require.NoError(t, err)

	w := callProtected(newAuthEngine(t, JWTAuth(jwtService)), "Bearer "+token)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"subject":"ops"`)
	assert.Contains(t, w.Body.String(), `"role":"admin"`)
}

func TestJWTAuth_Rejections(t *testing.T) {
	jwtService := jwt.New("secret", time.Hour)
	foreign, err := jwt.New("other", time.Hour).GenerateToken("ops", jwt.RoleAdmin)
	require.NoError(t, err)

	tests := []struct {
		name     string
		header   string
		wantCode string
	}{
		{"no token", "", "AUTH_HEADER_MISSING"},
		{"basic auth", "Basic dGVzdA==", "INVALID_AUTH_FORMAT"},
		{"empty bearer", "Bearer ", "INVALID_AUTH_FORMAT"},
		{"garbage", "Bearer invalid-jwt-here", "INVALID_TOKEN"},
		{"signed elsewhere", "Bearer " + foreign, "INVALID_TOKEN"},
	}

	r := newAuthEngine(t, JWTAuth(jwtService))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := callProtected(r, tt.header)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantCode)
		})
	}
}

func TestJWTAuth_NilServiceRejects(t *testing.T) {
	w := callProtected(newAuthEngine(t, JWTAuth(nil)), "Bearer anything")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminOnly(t *testing.T) {
	jwtService := jwt.New("secret", time.Hour)
	r := newAuthEngine(t, JWTAuth(jwtService), AdminOnly())

	viewer, err := jwtService.GenerateToken("guest", "viewer")
	require.NoError(t, err)
	w := callProtected(r, "Bearer "+viewer)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "FORBIDDEN")

	admin, err := jwtService.GenerateToken("ops", jwt.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, callProtected(r, "Bearer "+admin).Code)
}

func TestRequireRole_WithoutAuth(t *testing.T) {
	w := callProtected(newAuthEngine(t, RequireRole(jwt.RoleAdmin)), "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "UNAUTHORIZED")
}

func TestOriginAllowed(t *testing.T) {
	allowed := OriginAllowed([]string{"https://halls.example.com"})

	assert.True(t, allowed("http://localhost:3000"))
	assert.True(t, allowed("https://halls.example.com"))
	assert.False(t, allowed("https://evil.example.com"))
	assert.False(t, allowed(""))
}
