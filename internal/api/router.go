package api

import (
	"context"
	"net/http"
	"time"

	builderHandler "recipe-builder/internal/api/handlers/builder"
	generateHandler "recipe-builder/internal/api/handlers/generate"
	"recipe-builder/internal/api/handlers/health"
	"recipe-builder/internal/api/middleware"
	builderCore "recipe-builder/internal/core/builder"
	"recipe-builder/internal/core/generation"
	"recipe-builder/internal/infrastructure/config"
	"recipe-builder/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// 超時設置
const timeoutDuration = 120 * time.Second

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, store *builderCore.Store) (*gin.Engine, error) {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	// 創建路由引擎
	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(requestid.New()) // 自動生成請求 ID

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID", "X-Session-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID", "X-Session-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// 請求體大小限制（上傳的型錄檔案也走這裡）
	router.Use(middleware.BodySizeLimit(cfg.Catalog.MaxUploadBytes))

	// 請求去重與限流
	router.Use(middleware.Deduplication(cfg))
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}

	common.LogInfo("Initializing services",
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
		zap.Bool("generation_enabled", cfg.OpenAI.Enabled),
		zap.String("model", cfg.OpenAI.Model),
	)

	// 初始化生成服務
	generationCache := generation.NewCache(cfg)
	generationSvc := generation.NewService(cfg, generationCache)

	// 初始化處理程序
	builderH := builderHandler.NewHandler(store, cfg)
	generateH := generateHandler.NewHandler(generationSvc)

	// 全局中間件：設置超時和服務
	router.Use(func(c *gin.Context) {
		// 設置請求超時
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		// 設置配置與儲存，健康檢查會用到
		c.Set("config", cfg)
		c.Set("session_store", store)

		// 處理請求
		c.Next()

		// 檢查是否超時
		if ctx.Err() == context.DeadlineExceeded {
			common.LogError("Request timeout",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", c.GetHeader("X-Request-ID")),
				zap.Duration("timeout", timeoutDuration),
			)
			c.JSON(http.StatusGatewayTimeout, gin.H{
				"error": "Request timeout",
				"code":  "REQUEST_TIMEOUT",
			})
			c.Abort()
			return
		}
	})

	// 健康檢查路由
	router.GET("/health", health.HealthCheck)
	router.GET("/ready", health.ReadinessCheck)
	router.GET("/live", health.LivenessCheck)

	// API 路由組
	api := router.Group("/api/v1")
	{
		// 型錄相關路由
		catalogGroup := api.Group("/catalog")
		{
			catalogGroup.POST("/upload", builderH.HandleUpload)
			catalogGroup.GET("", builderH.HandleCatalog)
			catalogGroup.POST("/more", builderH.HandleShowMore)
		}

		// 建置器相關路由
		builderGroup := api.Group("/builder")
		{
			builderGroup.POST("/toggle", builderH.HandleToggle)
			builderGroup.POST("/options", builderH.HandleOptions)
			builderGroup.POST("/build", builderH.HandleBuild)
			builderGroup.GET("/recipes", builderH.HandleRecipes)
		}

		// 外部生成服務路由
		recipeGroup := api.Group("/recipe")
		{
			recipeGroup.POST("/generate", generateH.HandleGenerate)
		}
	}

	common.LogInfo("Router setup completed successfully",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
		zap.Duration("timeout", timeoutDuration),
		zap.Int64("max_body_size", cfg.Catalog.MaxUploadBytes),
	)

	return router, nil
}
