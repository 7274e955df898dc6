package common

import (
	"net/http"
)

// ErrorResponse 定義 API 錯誤響應結構
type ErrorResponse struct {
	Code    string `json:"code"`              // 錯誤代碼
	Message string `json:"message"`           // 錯誤信息
	Details string `json:"details,omitempty"` // 詳細信息（僅在開發模式顯示）
}

// CustomError 定義自定義錯誤類型
type CustomError struct {
	Code    string // 錯誤代碼
	Message string // 錯誤信息
	Err     error  // 原始錯誤
	Status  int    // HTTP 狀態碼
}

func (e *CustomError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// NewError 創建新的自定義錯誤
func NewError(code string, message string, status int, err error) *CustomError {
	return &CustomError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

// ValidationError 表示驗證錯誤
type ValidationError struct {
	message string
}

// Error 實現 error 介面
func (e *ValidationError) Error() string {
	return e.message
}

// NewValidationError 創建新的驗證錯誤
func NewValidationError(message string) error {
	return &ValidationError{
		message: message,
	}
}

// IsValidationError 檢查是否為驗證錯誤
func IsValidationError(err error) bool {
	_, ok := err.(*ValidationError)
	return ok
}

// 預定義錯誤代碼
const (
	// 客戶端錯誤 (4xx)
	ErrCodeInvalidRequest   = "INVALID_REQUEST"    // 400
	ErrCodeNotFound         = "NOT_FOUND"          // 404
	ErrCodeMethodNotAllowed = "METHOD_NOT_ALLOWED" // 405
	ErrCodeRequestTimeout   = "REQUEST_TIMEOUT"    // 408
	ErrCodeConflict         = "CONFLICT"           // 409
	ErrCodeTooManyRequests  = "TOO_MANY_REQUESTS"  // 429

	// 服務器錯誤 (5xx)
	ErrCodeInternalError      = "INTERNAL_ERROR"      // 500
	ErrCodeBadGateway         = "BAD_GATEWAY"         // 502
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE" // 503
	ErrCodeGatewayTimeout     = "GATEWAY_TIMEOUT"     // 504
)

// 預定義錯誤
var (
	// 客戶端錯誤
	ErrInvalidRequest   = NewError(ErrCodeInvalidRequest, "無效的請求", http.StatusBadRequest, nil)
	ErrNotFound         = NewError(ErrCodeNotFound, "資源不存在", http.StatusNotFound, nil)
	ErrMethodNotAllowed = NewError(ErrCodeMethodNotAllowed, "不支持的請求方法", http.StatusMethodNotAllowed, nil)
	ErrRequestTimeout   = NewError(ErrCodeRequestTimeout, "請求超時", http.StatusRequestTimeout, nil)
	ErrTooManyRequests  = NewError(ErrCodeTooManyRequests, "請求過於頻繁", http.StatusTooManyRequests, nil)

	// 服務器錯誤
	ErrInternalError      = NewError(ErrCodeInternalError, "服務器內部錯誤", http.StatusInternalServerError, nil)
	ErrServiceUnavailable = NewError(ErrCodeServiceUnavailable, "服務暫時不可用", http.StatusServiceUnavailable, nil)
	ErrGatewayTimeout     = NewError(ErrCodeGatewayTimeout, "網關超時", http.StatusGatewayTimeout, nil)

	// 業務錯誤
	ErrInvalidFileType    = NewError("INVALID_FILE_TYPE", "不支持的檔案格式", http.StatusBadRequest, nil)
	ErrFileTooLarge       = NewError("FILE_TOO_LARGE", "檔案大小超出限制", http.StatusBadRequest, nil)
	ErrEmptyCatalog       = NewError("EMPTY_CATALOG", "型錄尚未匯入", http.StatusConflict, nil)
	ErrEmptySelection     = NewError("EMPTY_SELECTION", "尚未選擇任何食材", http.StatusConflict, nil)
	ErrInvalidDishType    = NewError("INVALID_DISH_TYPE", "無效的料理類型", http.StatusBadRequest, nil)
	ErrInvalidDietary     = NewError("INVALID_DIETARY", "無效的飲食偏好", http.StatusBadRequest, nil)
	ErrSessionNotFound    = NewError("SESSION_NOT_FOUND", "工作階段不存在或已過期", http.StatusNotFound, nil)
	ErrStoreFull          = NewError("STORE_FULL", "工作階段儲存已滿", http.StatusServiceUnavailable, nil)
	ErrGenerationError    = NewError("GENERATION_ERROR", "生成服務錯誤", http.StatusBadGateway, nil)
	ErrGenerationDisabled = NewError("GENERATION_DISABLED", "生成服務未啟用", http.StatusServiceUnavailable, nil)
	ErrGenerationEmpty    = NewError("GENERATION_EMPTY", "生成服務未回傳內容", http.StatusBadGateway, nil)
	ErrMissingAPIKey      = NewError("MISSING_API_KEY", "缺少生成服務 API Key", http.StatusInternalServerError, nil)
)
