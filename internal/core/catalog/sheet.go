package catalog

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"recipe-builder/internal/pkg/common"
)

// binaryExtensions 走二進位路徑的副檔名，其他一律當作 CSV 文字
var binaryExtensions = map[string]bool{
	".xlsx": true,
	".xlsm": true,
	".xlsb": true,
}

// IsSpreadsheet 依副檔名判斷是否為試算表格式
func IsSpreadsheet(filename string) bool {
	return binaryExtensions[strings.ToLower(filepath.Ext(filename))]
}

// escapeField 輸出可被 SplitLine 還原的欄位
func escapeField(s string) string {
	if strings.ContainsAny(s, ",\"\n") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}

// ConvertSheet 將試算表的第一個工作表轉換為逗號分隔文字
func ConvertSheet(data []byte) (string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return "", fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}

	var sb strings.Builder
	for i, row := range rows {
		if i > 0 {
			sb.WriteByte('\n')
		}
		for j, cell := range row {
			if j > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(escapeField(cell))
		}
	}
	return sb.String(), nil
}

// Ingest 依副檔名分派匯入路徑，回傳商品列表
// 試算表先轉成 CSV 文字再走同一條解析路徑
// 只有試算表轉換會失敗；CSV 解析本身永遠不回傳錯誤
func Ingest(filename string, data []byte) ([]common.Product, error) {
	if IsSpreadsheet(filename) {
		text, err := ConvertSheet(data)
		if err != nil {
			return nil, err
		}
		return ParseCSV(text), nil
	}
	return ParseCSV(string(data)), nil
}
