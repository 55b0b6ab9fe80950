package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func corsRouter(config CORSConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORS(config))
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	return r
}

func TestCORSAllowAllOrigins(t *testing.T) {
	router := corsRouter(CORSConfig{AllowAllOrigins: true})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://anywhere.example.com")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Allow-Origin = %q, want *", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Credentials"); got != "false" {
		t.Errorf("Allow-Credentials = %q, want false", got)
	}
}

func TestCORSAllowlistedOrigin(t *testing.T) {
	router := corsRouter(CORSConfig{AllowedOrigins: []string{"https://ops.example.com"}})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://ops.example.com")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://ops.example.com" {
		t.Errorf("Allow-Origin = %q, want the origin echoed", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Credentials"); got != "true" {
		t.Errorf("Allow-Credentials = %q, want true", got)
	}
}

func TestCORSRejectedOriginGetsNoHeaders(t *testing.T) {
	router := corsRouter(CORSConfig{AllowedOrigins: []string{"https://ops.example.com"}})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Allow-Origin = %q, want empty", got)
	}
}

func TestCORSPreflight(t *testing.T) {
	router := corsRouter(CORSConfig{AllowAllOrigins: true})

	req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
	req.Header.Set("Origin", "https://anywhere.example.com")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("preflight status = %d, want 204", rec.Code)
	}
}

func TestIsOriginAllowed(t *testing.T) {
	testCases := []struct {
		name   string
		origin string
		config CORSConfig
		want   bool
	}{
		{
			name:   "allow all short-circuits",
			origin: "https://anywhere.example.com",
			config: CORSConfig{AllowAllOrigins: true},
			want:   true,
		},
		{
			name:   "empty origin never allowed",
			origin: "",
			config: CORSConfig{AllowedOrigins: []string{"https://ops.example.com"}},
			want:   false,
		},
		{
			name:   "listed origin case-insensitive",
			origin: "https://OPS.example.com",
			config: CORSConfig{AllowedOrigins: []string{"https://ops.example.com"}},
			want:   true,
		},
		{
			name:   "wildcard entry",
			origin: "https://anywhere.example.com",
			config: CORSConfig{AllowedOrigins: []string{"*"}},
			want:   true,
		},
		{
			name:   "unlisted origin rejected",
			origin: "https://evil.example.com",
			config: CORSConfig{AllowedOrigins: []string{"https://ops.example.com"}},
			want:   false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsOriginAllowed(tc.origin, tc.config); got != tc.want {
				t.Errorf("IsOriginAllowed(%q) = %v, want %v", tc.origin, got, tc.want)
			}
		})
	}
}
