package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"recipe-builder/internal/pkg/common"
)

// BodySizeLimit 限制請求體大小的中間件
// 上限取自型錄上傳設定，上傳的 CSV/試算表檔案也走這裡
func BodySizeLimit(maxSize int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 檢查 Content-Length
		if c.Request.ContentLength > maxSize {
			common.LogWarn("請求體超過上傳限制",
				zap.Int64("content_length", c.Request.ContentLength),
				zap.Int64("max_upload_bytes", maxSize),
				zap.String("client_ip", c.ClientIP()),
				zap.String("path", c.Request.URL.Path),
				zap.String("session_id", c.GetHeader("X-Session-ID")),
			)
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{
				"error":    "Request body too large",
				"max_size": maxSize,
			})
			return
		}

		// 設置請求體大小限制
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSize)

		c.Next()
	}
}
