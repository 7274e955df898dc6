package generate

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"recipe-builder/internal/core/generation"
	"recipe-builder/internal/pkg/common"
)

// Handler 生成服務處理程序
type Handler struct {
	service *generation.Service
}

// NewHandler 創建新的生成服務處理程序
func NewHandler(service *generation.Service) *Handler {
	return &Handler{
		service: service,
	}
}

// HandleGenerate 呼叫外部生成服務產生食譜文字
func (h *Handler) HandleGenerate(c *gin.Context) {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = common.GenerateUUID()
		c.Header("X-Request-ID", requestID)
	}

	common.LogInfo("開始處理食譜生成請求",
		zap.String("request_id", requestID),
		zap.String("client_ip", c.ClientIP()),
	)

	var req common.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogError("請求格式無效",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Missing required fields. Please send JSON with { product, dishType, dietary }.",
		})
		return
	}

	recipe, err := h.service.Generate(c.Request.Context(), req.Product, req.DishType, req.Dietary)
	if err != nil {
		common.LogError("食譜生成失敗",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		if custom, ok := err.(*common.CustomError); ok {
			c.JSON(custom.Status, gin.H{"error": custom.Message, "code": custom.Code})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to generate recipe"})
		return
	}

	common.LogInfo("食譜生成成功",
		zap.String("request_id", requestID),
		zap.Int("content_length", len(recipe)),
	)

	c.JSON(http.StatusOK, common.GenerateResponse{Recipe: recipe})
}
