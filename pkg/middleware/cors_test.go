package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestCORSWithConfig(t *testing.T) {
	router := gin.New()
	router.Use(CORSWithConfig(DefaultCORSConfig([]string{"https://*.intellicor.com.br", "http://localhost:3000"})))
	router.GET("/api/v1/tenant", func(c *gin.Context) { c.Status(http.StatusOK) })

	tests := []struct {
		name       string
		method     string
		origin     string
		wantStatus int
		wantOrigin string
		wantCreds  string
	}{
		{"tenant subdomain", http.MethodGet, "https://demo.intellicor.com.br", http.StatusOK, "https://demo.intellicor.com.br", "true"},
		{"exact origin", http.MethodGet, "http://localhost:3000", http.StatusOK, "http://localhost:3000", "true"},
		{"foreign origin", http.MethodGet, "https://evil.example.com", http.StatusOK, "", ""},
		{"no origin", http.MethodGet, "", http.StatusOK, "*", ""},
		{"preflight", http.MethodOptions, "https://demo.intellicor.com.br", http.StatusNoContent, "https://demo.intellicor.com.br", "true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/api/v1/tenant", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantOrigin, w.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, tt.wantCreds, w.Header().Get("Access-Control-Allow-Credentials"))
		})
	}
}

func TestMatchOrigin(t *testing.T) {
	assert.True(t, matchOrigin("https://*.intellicor.com.br", "https://seguros-sp.intellicor.com.br"))
	assert.False(t, matchOrigin("https://*.intellicor.com.br", "http://seguros-sp.intellicor.com.br"))
	assert.False(t, matchOrigin("https://*.intellicor.com.br", "https://intellicor.com.br.evil.io"))
	assert.True(t, matchOrigin("http://localhost:3000", "http://localhost:3000"))
}
