package builder

import (
	"fmt"
	"strings"

	"recipe-builder/internal/pkg/common"
)

// capitalize 只將第一個字元轉為大寫
func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// AssembleRecipe 以固定模板組出一份食譜，不呼叫任何外部服務
// 標題格式為 "{dishType} • {首個食材}"，沒有食材時以 Chef's Choice 代替
// 步驟固定四句，第三句插入完整的食材列表
func AssembleRecipe(ingredients []string, dietary []string, dishType string) common.Recipe {
	suffix := "Chef's Choice"
	if len(ingredients) > 0 {
		suffix = capitalize(ingredients[0])
	}

	steps := []string{
		"Prep: wash, chop, and measure your ingredients.",
		"Base: warm a pan and build aromatics within dietary rules.",
		fmt.Sprintf("Cook: add main ingredients (%s) and bring to doneness.", strings.Join(ingredients, ", ")),
		"Finish: season thoughtfully and plate with a garnish.",
	}

	if dietary == nil {
		dietary = []string{}
	}

	return common.Recipe{
		Title:       fmt.Sprintf("%s • %s", dishType, suffix),
		Ingredients: ingredients,
		Steps:       steps,
		Dietary:     dietary,
		DishType:    dishType,
	}
}
