package generation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"recipe-builder/internal/infrastructure/config"
	"recipe-builder/internal/pkg/common"
)

const baseURL = "https://api.openai.com/v1"

// Service 外部生成服務
// 單次請求/回應，不做重試或佇列；失敗直接以錯誤字串回傳給呼叫端
type Service struct {
	config *config.Config
	client *resty.Client
	cache  *Cache
}

// chatRequest Chat Completions API 請求
type chatRequest struct {
	Model       string        `json:"model"`
	Temperature float64       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Messages    []chatMessage `json:"messages"`
}

// chatMessage 消息結構
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse Chat Completions API 回應
type chatResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// NewService 創建生成服務
func NewService(cfg *config.Config, cache *Cache) *Service {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(cfg.OpenAI.Timeout).
		SetHeader("Content-Type", "application/json")

	return &Service{
		config: cfg,
		client: client,
		cache:  cache,
	}
}

// BuildPrompt 組出生成服務的提示詞
func BuildPrompt(product, dishType, dietary string) string {
	return fmt.Sprintf("Create a gourmet recipe using %s.\n"+
		"Dish type: %s.\n"+
		"Dietary preference: %s.\n"+
		"Return: a title, ingredients with quantities (US measurements), and step-by-step instructions.\n"+
		"Also suggest one pairing with another product from the store catalog.",
		product, dishType, dietary)
}

// Generate 呼叫生成服務產生食譜文字
func (s *Service) Generate(ctx context.Context, product, dishType, dietary string) (string, error) {
	if !s.config.OpenAI.Enabled {
		return "", common.ErrGenerationDisabled
	}
	if s.config.OpenAI.APIKey == "" {
		return "", common.ErrMissingAPIKey
	}

	prompt := BuildPrompt(product, dishType, dietary)

	// 檢查緩存
	if val, ok := s.cache.Get(prompt); ok {
		common.LogInfo("生成緩存命中")
		return val, nil
	}

	req := chatRequest{
		Model:       s.config.OpenAI.Model,
		Temperature: s.config.OpenAI.Temperature,
		MaxTokens:   s.config.OpenAI.MaxTokens,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
	}

	start := time.Now()
	var result chatResponse
	resp, err := s.client.R().
		SetContext(ctx).
		SetAuthToken(s.config.OpenAI.APIKey).
		SetBody(req).
		SetResult(&result).
		SetError(&result).
		Post("/chat/completions")
	common.LogAICall(prompt, time.Since(start), err, "")
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}

	if resp.IsError() {
		msg := resp.Status()
		if result.Error != nil && result.Error.Message != "" {
			msg = result.Error.Message
		}
		common.LogError("生成服務回傳錯誤",
			zap.Int("status_code", resp.StatusCode()),
			zap.String("message", msg),
		)
		return "", fmt.Errorf("generation service error (status %d): %s", resp.StatusCode(), msg)
	}

	if len(result.Choices) == 0 {
		return "", common.ErrGenerationEmpty
	}
	content := strings.TrimSpace(result.Choices[0].Message.Content)
	if content == "" {
		return "", common.ErrGenerationEmpty
	}

	s.cache.Set(prompt, content)

	return content, nil
}

// SetBaseURL 覆寫 API 位址，測試用
func (s *Service) SetBaseURL(url string) {
	s.client.SetBaseURL(url)
}
