package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"recipe-builder/internal/infrastructure/config"
	"recipe-builder/internal/pkg/common"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	common.Logger = zap.NewNop()
	os.Exit(m.Run())
}

func TestBodySizeLimit(t *testing.T) {
	router := gin.New()
	router.Use(BodySizeLimit(16))
	router.POST("/upload", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	t.Run("small body passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader("ok"))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", w.Code)
		}
	})

	t.Run("oversized body rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader(strings.Repeat("x", 64)))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusRequestEntityTooLarge {
			t.Errorf("status = %d, want 413", w.Code)
		}
	})
}

func TestRateLimiter(t *testing.T) {
	limiter := NewRateLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !limiter.Allow() {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if limiter.Allow() {
		t.Error("request past the limit should be rejected")
	}
}

func TestRateLimit_Middleware(t *testing.T) {
	router := gin.New()
	router.Use(RateLimit(1, time.Minute))
	router.GET("/ping", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("first request status = %d, want 200", w.Code)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("second request status = %d, want 429", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Error("expected Retry-After header")
	}
}

func TestDeduplication(t *testing.T) {
	cfg := &config.Config{DedupWindow: 50 * time.Millisecond}

	router := gin.New()
	router.Use(Deduplication(cfg))
	router.POST("/build", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	send := func(sessionID, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/build", bytes.NewReader([]byte(body)))
		if sessionID != "" {
			req.Header.Set("X-Session-ID", sessionID)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	if w := send("s1", `{"name":"Basil"}`); w.Code != http.StatusOK {
		t.Fatalf("first request status = %d, want 200", w.Code)
	}
	if w := send("s1", `{"name":"Basil"}`); w.Code != http.StatusTooManyRequests {
		t.Errorf("duplicate request status = %d, want 429", w.Code)
	}

	// 不同工作階段不算重複
	if w := send("s2", `{"name":"Basil"}`); w.Code != http.StatusOK {
		t.Errorf("other session status = %d, want 200", w.Code)
	}
	// 不同內容不算重複
	if w := send("s1", `{"name":"Mint"}`); w.Code != http.StatusOK {
		t.Errorf("different body status = %d, want 200", w.Code)
	}

	// 視窗過後可以重送
	time.Sleep(80 * time.Millisecond)
	if w := send("s1", `{"name":"Basil"}`); w.Code != http.StatusOK {
		t.Errorf("request after window status = %d, want 200", w.Code)
	}
}
