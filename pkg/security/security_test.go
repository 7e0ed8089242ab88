package security

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestLimiter_BurstThenDeny(t *testing.T) {
	l := NewLimiter(3, time.Minute)
	for i := 0; i < 3; i++ {
		if !l.Allow("1.1.1.1") {
			t.Fatalf("request %d should pass", i)
		}
	}
	if l.Allow("1.1.1.1") {
		t.Error("fourth request within the window should be denied")
	}
	if !l.Allow("2.2.2.2") {
		t.Error("other clients keep their own bucket")
	}
}

func TestLimiter_SweepDropsIdleVisitors(t *testing.T) {
	l := NewLimiter(10, time.Minute)
	l.Allow("a")
	if n := l.Sweep(time.Now()); n != 0 {
		t.Errorf("expected nothing swept, got %d", n)
	}
	if n := l.Sweep(time.Now().Add(time.Hour)); n != 1 {
		t.Errorf("expected 1 swept, got %d", n)
	}
}

func TestCORS_OnlyWhitelistedOrigins(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORS([]string{"http://ok.example"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "http://ok.example")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://ok.example" {
		t.Errorf("expected origin echoed, got %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("expected no allow-origin, got %q", got)
	}

	req = httptest.NewRequest(http.MethodOptions, "/x", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Errorf("expected preflight 204, got %d", w.Code)
	}
}
