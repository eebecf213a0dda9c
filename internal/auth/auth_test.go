package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestJWTRoundTrip(t *testing.T) {
	m := NewJWTManager("secret", time.Minute)

	token, err := m.GenerateAccessToken("user-1", RoleAdmin)
	require.NoError(t, err)

	claims, err := m.ParseAndValidate(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, RoleAdmin, claims.Role)
}

func TestJWTRejects(t *testing.T) {
	m := NewJWTManager("secret", time.Minute)

	t.Run("wrong secret", func(t *testing.T) {
		token, err := NewJWTManager("other", time.Minute).GenerateAccessToken("u", RoleGuest)
		require.NoError(t, err)
		_, err = m.ParseAndValidate(token)
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		token, err := NewJWTManager("secret", -time.Minute).GenerateAccessToken("u", RoleGuest)
		require.NoError(t, err)
		_, err = m.ParseAndValidate(token)
		assert.Error(t, err)
	})

	t.Run("unknown role", func(t *testing.T) {
		token, err := m.GenerateAccessToken("u", Role("root"))
		require.NoError(t, err)
		_, err = m.ParseAndValidate(token)
		assert.ErrorContains(t, err, "unknown role")
	})

	t.Run("missing role defaults to guest", func(t *testing.T) {
		raw := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub": "u",
			"exp": time.Now().Add(time.Minute).Unix(),
		})
		token, err := raw.SignedString([]byte("secret"))
		require.NoError(t, err)

		claims, err := m.ParseAndValidate(token)
		require.NoError(t, err)
		assert.Equal(t, RoleGuest, claims.Role)
	})
}

func TestMiddleware(t *testing.T) {
	m := NewJWTManager("secret", time.Minute)
	r := gin.New()
	r.GET("/me", AuthRequired(m), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": GetUserID(c), "role": GetRole(c)})
	})
	r.GET("/admin", AuthRequired(m), RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	guest, err := m.GenerateAccessToken("g1", RoleGuest)
	require.NoError(t, err)
	admin, err := m.GenerateAccessToken("a1", RoleAdmin)
	require.NoError(t, err)

	tests := []struct {
		name   string
		path   string
		header string
		status int
	}{
		{"no header", "/me", "", http.StatusUnauthorized},
		{"bad scheme", "/me", "Basic abc", http.StatusUnauthorized},
		{"bad token", "/me", "Bearer nope", http.StatusUnauthorized},
		{"guest ok", "/me", "Bearer " + guest, http.StatusOK},
		{"guest on admin route", "/admin", "Bearer " + guest, http.StatusForbidden},
		{"admin on admin route", "/admin", "Bearer " + admin, http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}
