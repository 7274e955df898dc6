package catalog

import (
	"strings"

	"recipe-builder/internal/pkg/common"
)

// pairingPriority 搭配建議的類別關鍵字，依重要性排序
var pairingPriority = []string{
	"olive oil",
	"extra virgin",
	"gourmet oil",
	"balsamic",
	"vinegar",
	"spice",
	"seasoning",
	"salt",
	"sauce",
	"condiment",
	"finishing oil",
}

// FilterAvailable 過濾出可販售的商品，保留原本順序
func FilterAvailable(products []common.Product) []common.Product {
	out := make([]common.Product, 0, len(products))
	for _, p := range products {
		if p.IsAvailable() {
			out = append(out, p)
		}
	}
	return out
}

// PickPairing 從型錄中挑出一個搭配商品
// 先排除已用於食譜的商品（名稱比對不分大小寫），再依型錄順序
// 找出類別命中任一關鍵字的第一個商品；都沒命中就取剩下的第一個
// 沒有候選時回傳 nil，不是錯誤
func PickPairing(products []common.Product, usedNames []string) *common.Product {
	var candidates []common.Product
	for _, p := range FilterAvailable(products) {
		if !common.ContainsName(usedNames, p.Name) {
			candidates = append(candidates, p)
		}
	}

	for i, p := range candidates {
		category := strings.ToLower(p.Category)
		for _, term := range pairingPriority {
			if strings.Contains(category, term) {
				return &candidates[i]
			}
		}
	}

	if len(candidates) > 0 {
		return &candidates[0]
	}
	return nil
}
