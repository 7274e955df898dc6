package builder

import (
	"github.com/gin-gonic/gin"

	builderCore "recipe-builder/internal/core/builder"
	"recipe-builder/internal/infrastructure/config"
	"recipe-builder/internal/pkg/common"
)

// Handler 建置器處理程序，所有路由共用一份狀態儲存
type Handler struct {
	store  *builderCore.Store
	config *config.Config
}

// NewHandler 創建新的建置器處理程序
func NewHandler(store *builderCore.Store, cfg *config.Config) *Handler {
	return &Handler{
		store:  store,
		config: cfg,
	}
}

// session 取得請求的工作階段識別碼與狀態
// 沒有帶識別碼就建立新的，回應一律回帶 X-Session-ID
func (h *Handler) session(c *gin.Context) (string, builderCore.State) {
	sessionID := c.GetHeader("X-Session-ID")
	if sessionID == "" {
		sessionID = common.GenerateUUID()
	}
	c.Header("X-Session-ID", sessionID)

	state, ok := h.store.Get(c.Request.Context(), sessionID)
	if !ok {
		state = builderCore.NewState(h.config.Catalog.InitialVisible, h.config.Catalog.VisibleStep)
	}
	return sessionID, state
}

// productView 回應中的商品摘要
type productView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Prices    []float64 `json:"prices,omitempty"`
	Available bool      `json:"available"`
	Chosen    bool      `json:"chosen"`
}
