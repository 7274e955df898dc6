package builder

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	builderCore "recipe-builder/internal/core/builder"
	"recipe-builder/internal/pkg/common"
)

// ToggleRequest 切換食材選取狀態的請求
type ToggleRequest struct {
	Name string `json:"name" binding:"required"`
}

// OptionsRequest 更新料理類型與飲食偏好的請求
type OptionsRequest struct {
	DishType string `json:"dish_type,omitempty"`
	Dietary  string `json:"dietary,omitempty"`
}

// HandleToggle 切換單一食材的選取狀態
func (h *Handler) HandleToggle(c *gin.Context) {
	var req ToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogError("請求格式無效",
			zap.Error(err),
			zap.String("request_id", c.GetHeader("X-Request-ID")),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	sessionID, state := h.session(c)
	state = state.ToggleChosen(req.Name)
	if err := h.store.Put(c.Request.Context(), sessionID, state); err != nil {
		c.JSON(common.ErrStoreFull.Status, gin.H{"error": common.ErrStoreFull.Message})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"chosen": state.Chosen,
	})
}

// HandleOptions 更新料理類型與飲食偏好
func (h *Handler) HandleOptions(c *gin.Context) {
	var req OptionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if req.DishType != "" && !contains(builderCore.DishTypes, req.DishType) {
		c.JSON(common.ErrInvalidDishType.Status, gin.H{
			"error": common.ErrInvalidDishType.Message,
			"code":  common.ErrInvalidDishType.Code,
		})
		return
	}
	if req.Dietary != "" && !contains(builderCore.DietaryOptions, req.Dietary) {
		c.JSON(common.ErrInvalidDietary.Status, gin.H{
			"error": common.ErrInvalidDietary.Message,
			"code":  common.ErrInvalidDietary.Code,
		})
		return
	}

	sessionID, state := h.session(c)
	if req.DishType != "" {
		state = state.WithDishType(req.DishType)
	}
	if req.Dietary != "" {
		state = state.WithDiet(req.Dietary)
	}
	if err := h.store.Put(c.Request.Context(), sessionID, state); err != nil {
		c.JSON(common.ErrStoreFull.Status, gin.H{"error": common.ErrStoreFull.Message})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"dish_type": state.DishType,
		"dietary":   state.Diet,
	})
}

// HandleBuild 建置一份食譜
// 前置條件（有選食材、型錄非空）不滿足時回 409，不產生食譜
func (h *Handler) HandleBuild(c *gin.Context) {
	requestID := c.GetHeader("X-Request-ID")
	sessionID, state := h.session(c)

	if len(state.Chosen) == 0 {
		c.JSON(common.ErrEmptySelection.Status, gin.H{
			"error": common.ErrEmptySelection.Message,
			"code":  common.ErrEmptySelection.Code,
		})
		return
	}
	if len(state.Available()) == 0 {
		c.JSON(common.ErrEmptyCatalog.Status, gin.H{
			"error": common.ErrEmptyCatalog.Message,
			"code":  common.ErrEmptyCatalog.Code,
		})
		return
	}

	state, recipe := state.Build()
	if recipe == nil {
		// CanBuild 已檢查過，理論上到不了這裡
		c.JSON(http.StatusConflict, gin.H{"error": "Build preconditions not met"})
		return
	}

	if err := h.store.Put(c.Request.Context(), sessionID, state); err != nil {
		c.JSON(common.ErrStoreFull.Status, gin.H{"error": common.ErrStoreFull.Message})
		return
	}

	common.LogInfo("食譜建置成功",
		zap.String("request_id", requestID),
		zap.String("標題", recipe.Title),
		zap.Int("食材數", len(recipe.Ingredients)),
		zap.Bool("有搭配", recipe.Pairing != nil),
	)

	c.JSON(http.StatusOK, recipe)
}

// HandleRecipes 回傳食譜歷史，最新的在最前面
func (h *Handler) HandleRecipes(c *gin.Context) {
	_, state := h.session(c)

	history := state.History
	if history == nil {
		history = []common.Recipe{}
	}
	c.JSON(http.StatusOK, gin.H{
		"recipes": history,
		"count":   len(history),
	})
}

// contains 檢查字串是否在列表中
func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
