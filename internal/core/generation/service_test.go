package generation

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"recipe-builder/internal/infrastructure/config"
	"recipe-builder/internal/pkg/common"
)

func TestMain(m *testing.M) {
	common.Logger = zap.NewNop()
	os.Exit(m.Run())
}

func testServiceConfig() *config.Config {
	return &config.Config{
		OpenAI: config.OpenAIConfig{
			Enabled:     true,
			APIKey:      "sk-test",
			Model:       "gpt-4o-mini",
			MaxTokens:   800,
			Temperature: 0.7,
			Timeout:     5 * time.Second,
		},
		Cache: config.CacheConfig{
			Enabled:         true,
			MaxSize:         10,
			TTL:             time.Hour,
			CleanupInterval: time.Hour,
		},
	}
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt("Basil", "Salad", "Vegan")

	for _, want := range []string{
		"Create a gourmet recipe using Basil.",
		"Dish type: Salad.",
		"Dietary preference: Vegan.",
		"US measurements",
		"pairing with another product",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestGenerate_Success(t *testing.T) {
	var gotAuth string
	var gotBody map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  A recipe.  "}}]}`))
	}))
	defer server.Close()

	cfg := testServiceConfig()
	service := NewService(cfg, NewCache(cfg))
	service.SetBaseURL(server.URL)

	got, err := service.Generate(context.Background(), "Basil", "Salad", "Vegan")
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if got != "A recipe." {
		t.Errorf("content = %q, want trimmed %q", got, "A recipe.")
	}
	if gotAuth != "Bearer sk-test" {
		t.Errorf("authorization = %q, want bearer token", gotAuth)
	}
	if gotBody["model"] != "gpt-4o-mini" {
		t.Errorf("model = %v, want gpt-4o-mini", gotBody["model"])
	}
}

func TestGenerate_Disabled(t *testing.T) {
	cfg := testServiceConfig()
	cfg.OpenAI.Enabled = false
	service := NewService(cfg, nil)

	_, err := service.Generate(context.Background(), "Basil", "Salad", "None")
	if !errors.Is(err, common.ErrGenerationDisabled) {
		t.Errorf("err = %v, want ErrGenerationDisabled", err)
	}
}

func TestGenerate_MissingAPIKey(t *testing.T) {
	cfg := testServiceConfig()
	cfg.OpenAI.APIKey = ""
	service := NewService(cfg, nil)

	_, err := service.Generate(context.Background(), "Basil", "Salad", "None")
	if !errors.Is(err, common.ErrMissingAPIKey) {
		t.Errorf("err = %v, want ErrMissingAPIKey", err)
	}
}

func TestGenerate_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Incorrect API key provided","type":"invalid_request_error"}}`))
	}))
	defer server.Close()

	service := NewService(testServiceConfig(), nil)
	service.SetBaseURL(server.URL)

	_, err := service.Generate(context.Background(), "Basil", "Salad", "None")
	if err == nil {
		t.Fatal("expected error for upstream failure")
	}
	if !strings.Contains(err.Error(), "Incorrect API key provided") {
		t.Errorf("err = %v, expected upstream message to surface", err)
	}
}

func TestGenerate_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	service := NewService(testServiceConfig(), nil)
	service.SetBaseURL(server.URL)

	_, err := service.Generate(context.Background(), "Basil", "Salad", "None")
	if !errors.Is(err, common.ErrGenerationEmpty) {
		t.Errorf("err = %v, want ErrGenerationEmpty", err)
	}
}

func TestGenerate_CacheHit(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"A recipe."}}]}`))
	}))
	defer server.Close()

	cfg := testServiceConfig()
	service := NewService(cfg, NewCache(cfg))
	service.SetBaseURL(server.URL)

	for i := 0; i < 2; i++ {
		if _, err := service.Generate(context.Background(), "Basil", "Salad", "Vegan"); err != nil {
			t.Fatalf("Generate returned error: %v", err)
		}
	}
	if calls != 1 {
		t.Errorf("upstream called %d times, want 1 (second hit should come from cache)", calls)
	}
}

func TestCache_Disabled(t *testing.T) {
	cfg := testServiceConfig()
	cfg.Cache.Enabled = false

	cache := NewCache(cfg)
	if cache != nil {
		t.Fatal("expected nil cache when disabled")
	}

	// nil 緩存的方法必須可以安全呼叫
	cache.Set("prompt", "value")
	if _, ok := cache.Get("prompt"); ok {
		t.Error("nil cache should never hit")
	}
}

func TestCache_TTL(t *testing.T) {
	cfg := testServiceConfig()
	cfg.Cache.TTL = 10 * time.Millisecond

	cache := NewCache(cfg)
	cache.Set("prompt", "value")

	if val, ok := cache.Get("prompt"); !ok || val != "value" {
		t.Fatalf("expected fresh entry, got %q, %v", val, ok)
	}

	time.Sleep(30 * time.Millisecond)
	if _, ok := cache.Get("prompt"); ok {
		t.Error("expected entry to expire")
	}
}
