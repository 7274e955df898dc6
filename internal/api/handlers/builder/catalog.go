package builder

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	catalogCore "recipe-builder/internal/core/catalog"
	"recipe-builder/internal/pkg/common"
)

// HandleUpload 接收 CSV/XLSX 檔案並整批取代目前的型錄
func (h *Handler) HandleUpload(c *gin.Context) {
	requestID := c.GetHeader("X-Request-ID")

	form, err := c.MultipartForm()
	if err != nil {
		common.LogError("讀取上傳表單失敗",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid multipart form"})
		return
	}

	files := form.File["file"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing file"})
		return
	}
	// 一律取第一個檔案（原始前端曾誤讀第二個，視為 bug 不沿用）
	header := files[0]

	if header.Size > h.config.Catalog.MaxUploadBytes {
		c.JSON(common.ErrFileTooLarge.Status, gin.H{
			"error": common.ErrFileTooLarge.Message,
			"code":  common.ErrFileTooLarge.Code,
		})
		return
	}

	file, err := header.Open()
	if err != nil {
		common.LogError("開啟上傳檔案失敗",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open uploaded file"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		common.LogError("讀取上傳檔案失敗",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read uploaded file"})
		return
	}

	start := time.Now()
	products, err := catalogCore.Ingest(header.Filename, data)
	if err != nil {
		// 只有試算表轉換會走到這裡，CSV 解析不會失敗
		common.LogWarn("試算表轉換失敗",
			zap.Error(err),
			zap.String("檔名", header.Filename),
			zap.String("request_id", requestID),
		)
		c.JSON(common.ErrInvalidFileType.Status, gin.H{
			"error": common.ErrInvalidFileType.Message,
			"code":  common.ErrInvalidFileType.Code,
		})
		return
	}
	common.LogIngest(header.Filename, len(products), time.Since(start))
	common.LogDebug("匯入的商品", zap.String("列表", common.FormatProducts(products)))

	sessionID, state := h.session(c)
	state = state.WithCatalog(products)
	if err := h.store.Put(c.Request.Context(), sessionID, state); err != nil {
		common.LogError("寫入工作階段失敗",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(common.ErrStoreFull.Status, gin.H{
			"error": common.ErrStoreFull.Message,
			"code":  common.ErrStoreFull.Code,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":    len(products),
		"products": products,
	})
}

// HandleCatalog 回傳搜尋與分頁後的型錄視圖
// q 參數會更新搜尋字串；分頁視窗只增不減
func (h *Handler) HandleCatalog(c *gin.Context) {
	sessionID, state := h.session(c)

	if q, exists := c.GetQuery("q"); exists && q != state.Search {
		state = state.WithSearch(q)
		if err := h.store.Put(c.Request.Context(), sessionID, state); err != nil {
			c.JSON(common.ErrStoreFull.Status, gin.H{"error": common.ErrStoreFull.Message})
			return
		}
	}

	filtered := state.Filtered()
	visible := state.Visible()

	views := make([]productView, len(visible))
	for i, p := range visible {
		views[i] = productView{
			ID:        p.ID,
			Name:      p.Name,
			Category:  p.Category,
			Prices:    p.Prices,
			Available: p.IsAvailable(),
			Chosen:    common.ContainsName(state.Chosen, p.Name),
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"products": views,
		"total":    len(filtered),
		"visible":  len(visible),
		"has_more": len(filtered) > len(visible),
	})
}

// HandleShowMore 擴大分頁視窗
func (h *Handler) HandleShowMore(c *gin.Context) {
	sessionID, state := h.session(c)

	state = state.ShowMore()
	if err := h.store.Put(c.Request.Context(), sessionID, state); err != nil {
		c.JSON(common.ErrStoreFull.Status, gin.H{"error": common.ErrStoreFull.Message})
		return
	}

	filtered := state.Filtered()
	visible := state.Visible()
	c.JSON(http.StatusOK, gin.H{
		"total":    len(filtered),
		"visible":  len(visible),
		"has_more": len(filtered) > len(visible),
	})
}
