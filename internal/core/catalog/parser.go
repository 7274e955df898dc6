package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"recipe-builder/internal/pkg/common"
)

// SplitLine 以引號感知的方式切割單行 CSV
// 未跳脫的 " 切換引號狀態；引號內的逗號視為一般字元，"" 視為一個字面的 "
// 引號不成對也不報錯，掃到行尾就結束並輸出最後一個欄位
func SplitLine(line string) []string {
	var out []string
	var cur strings.Builder
	inQuotes := false
	for i := 0; i < len(line); i++ {
		ch := line[i]
		switch {
		case ch == '"':
			if inQuotes && i+1 < len(line) && line[i+1] == '"' {
				cur.WriteByte('"')
				i++
			} else {
				inQuotes = !inQuotes
			}
		case ch == ',' && !inQuotes:
			out = append(out, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(ch)
		}
	}
	out = append(out, cur.String())
	return out
}

// stripNonNumeric 移除所有非數字與非小數點的字元
func stripNonNumeric(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if (ch >= '0' && ch <= '9') || ch == '.' {
			b.WriteByte(ch)
		}
	}
	return b.String()
}

// columnIndex 以不分大小寫的方式找出欄位位置，找不到時回傳 -1
func columnIndex(headers []string, name string) int {
	for i, h := range headers {
		if strings.EqualFold(h, name) {
			return i
		}
	}
	return -1
}

// ParseCSV 將 CSV 文字解析為商品列表
// 第一行為標題列，只讀取 name、category、price 三個欄位
// 任何格式問題都以預設值吸收，不會回傳錯誤
func ParseCSV(text string) []common.Product {
	var lines []string
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		if line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return []common.Product{}
	}

	headers := SplitLine(lines[0])
	for i, h := range headers {
		headers[i] = strings.TrimSpace(h)
	}
	nameI := columnIndex(headers, "name")
	catI := columnIndex(headers, "category")
	priceI := columnIndex(headers, "price")

	products := make([]common.Product, 0, len(lines)-1)
	for i, row := range lines[1:] {
		fields := SplitLine(row)
		// 欄位不足時補空字串，對齊標題列的欄位數
		for len(fields) < len(headers) {
			fields = append(fields, "")
		}

		name := ""
		if nameI >= 0 {
			name = strings.TrimSpace(fields[nameI])
		}
		if name == "" {
			name = fmt.Sprintf("Item %d", i+1)
		}

		category := ""
		if catI >= 0 {
			category = strings.TrimSpace(fields[catI])
		}

		// price 欄位先清除雜訊字元再解析，解析失敗就省略 prices
		var prices []float64
		if priceI >= 0 {
			if v, err := strconv.ParseFloat(stripNonNumeric(fields[priceI]), 64); err == nil {
				prices = []float64{v}
			}
		}

		products = append(products, common.Product{
			ID:        strconv.Itoa(i + 1),
			Name:      name,
			Category:  category,
			Prices:    prices,
			Available: common.Bool(true),
		})
	}

	return products
}
