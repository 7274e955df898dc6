package builder

import (
	"strings"

	"recipe-builder/internal/core/catalog"
	"recipe-builder/internal/pkg/common"
)

// DietNone 無飲食限制的哨兵值，建置時會映射為空的 dietary 列表
const DietNone = "None"

// DietaryOptions 可選的飲食偏好
var DietaryOptions = []string{
	DietNone, "Vegan", "Vegetarian", "Gluten-Free", "Dairy-Free",
	"Keto", "Paleo", "Low-Sodium", "Nut-Free",
}

// DishTypes 可選的料理類型
var DishTypes = []string{
	"Appetizer", "Main", "Side", "Salad", "Soup",
	"Dessert", "Breakfast", "Marinade", "Dip",
}

// State 建置器的完整狀態
// 所有轉移函數都回傳新狀態，原狀態不被修改
type State struct {
	Catalog      []common.Product `json:"catalog"`
	Chosen       []string         `json:"chosen"`
	Search       string           `json:"search"`
	VisibleCount int              `json:"visible_count"`
	Diet         string           `json:"diet"`
	DishType     string           `json:"dish_type"`
	History      []common.Recipe  `json:"history"`

	// 分頁視窗的起始大小與每次增量
	InitialVisible int `json:"initial_visible"`
	VisibleStep    int `json:"visible_step"`
}

// NewState 建立初始狀態
func NewState(initialVisible, visibleStep int) State {
	return State{
		VisibleCount:   initialVisible,
		Diet:           DietNone,
		DishType:       "Main",
		InitialVisible: initialVisible,
		VisibleStep:    visibleStep,
	}
}

// WithCatalog 以新型錄整批取代舊型錄
// 已選名單與分頁視窗保持不動（已選可能因此指向已不存在的商品）
func (s State) WithCatalog(products []common.Product) State {
	s.Catalog = products
	return s
}

// ToggleChosen 切換食材的選取狀態
// 已選過就移除，沒選過就附加到尾端，維持選取順序
func (s State) ToggleChosen(name string) State {
	for i, n := range s.Chosen {
		if n == name {
			chosen := make([]string, 0, len(s.Chosen)-1)
			chosen = append(chosen, s.Chosen[:i]...)
			chosen = append(chosen, s.Chosen[i+1:]...)
			s.Chosen = chosen
			return s
		}
	}
	chosen := make([]string, len(s.Chosen), len(s.Chosen)+1)
	copy(chosen, s.Chosen)
	s.Chosen = append(chosen, name)
	return s
}

// WithSearch 更新搜尋字串，分頁視窗不動
func (s State) WithSearch(query string) State {
	s.Search = query
	return s
}

// ShowMore 擴大分頁視窗
// 視窗只增不減，搜尋或重新匯入型錄都不會縮回去
func (s State) ShowMore() State {
	s.VisibleCount += s.VisibleStep
	return s
}

// WithDiet 更新飲食偏好
func (s State) WithDiet(diet string) State {
	s.Diet = diet
	return s
}

// WithDishType 更新料理類型
func (s State) WithDishType(dishType string) State {
	s.DishType = dishType
	return s
}

// Available 可販售的商品，依型錄順序
func (s State) Available() []common.Product {
	return catalog.FilterAvailable(s.Catalog)
}

// Filtered 搜尋後的商品列表
// 只比對商品名稱（不含類別、標籤、描述），不分大小寫的子字串比對
func (s State) Filtered() []common.Product {
	available := s.Available()
	q := strings.ToLower(strings.TrimSpace(s.Search))
	if q == "" {
		return available
	}
	out := make([]common.Product, 0, len(available))
	for _, p := range available {
		if strings.Contains(strings.ToLower(p.Name), q) {
			out = append(out, p)
		}
	}
	return out
}

// Visible 目前分頁視窗內的商品
func (s State) Visible() []common.Product {
	filtered := s.Filtered()
	if len(filtered) <= s.VisibleCount {
		return filtered
	}
	return filtered[:s.VisibleCount]
}

// CanBuild 檢查建置的前置條件：至少選了一個食材且型錄不為空
func (s State) CanBuild() bool {
	return len(s.Chosen) > 0 && len(s.Available()) > 0
}

// Build 建置一份食譜並前插到歷史列表
// 前置條件不滿足時回傳原狀態與 nil，不產生食譜也不報錯
func (s State) Build() (State, *common.Recipe) {
	if !s.CanBuild() {
		return s, nil
	}

	var dietary []string
	if s.Diet != DietNone {
		dietary = []string{s.Diet}
	}

	recipe := AssembleRecipe(s.Chosen, dietary, s.DishType)
	recipe.Pairing = catalog.PickPairing(s.Available(), recipe.Ingredients)

	history := make([]common.Recipe, 0, len(s.History)+1)
	history = append(history, recipe)
	history = append(history, s.History...)
	s.History = history

	return s, &recipe
}
