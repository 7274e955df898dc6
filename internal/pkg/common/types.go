package common

import (
	"strings"
)

// Product 型錄商品
// 欄位語意依照匯入規則：prices 缺漏時必須是 nil（省略），不是空陣列
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Tags        []string  `json:"tags,omitempty"`
	Prices      []float64 `json:"prices,omitempty"`
	Sizes       []string  `json:"sizes,omitempty"`
	Description string    `json:"description,omitempty"`
	Available   *bool     `json:"available,omitempty"`
}

// IsAvailable 商品是否可販售；未標示時視為可販售
func (p Product) IsAvailable() bool {
	return p.Available == nil || *p.Available
}

// Bool 回傳布林值的指標，建立 Product 時使用
func Bool(v bool) *bool {
	return &v
}

// Recipe 本地（非 AI）產生的食譜
// Pairing 指向產生當下型錄中的商品，型錄被替換後保留舊值不更新
type Recipe struct {
	Title       string   `json:"title"`
	Ingredients []string `json:"ingredients"`
	Steps       []string `json:"steps"`
	Dietary     []string `json:"dietary"`
	DishType    string   `json:"dish_type"`
	Pairing     *Product `json:"pairing,omitempty"`
}

// GenerateRequest 呼叫外部生成服務的請求
type GenerateRequest struct {
	Product  string `json:"product" binding:"required"`
	DishType string `json:"dishType" binding:"required"`
	Dietary  string `json:"dietary" binding:"required"`
}

// GenerateResponse 外部生成服務的回應（自由文字）
type GenerateResponse struct {
	Recipe string `json:"recipe"`
}

// ContainsName 檢查名稱是否存在（不分大小寫）
func ContainsName(names []string, name string) bool {
	for _, n := range names {
		if strings.EqualFold(n, name) {
			return true
		}
	}
	return false
}

// FormatProducts 將商品切片轉換為逗號分隔的字符串
func FormatProducts(products []Product) string {
	if len(products) == 0 {
		return ""
	}
	var parts []string
	for _, p := range products {
		part := p.Name
		if p.Category != "" {
			part += "(" + p.Category + ")"
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, ", ")
}
