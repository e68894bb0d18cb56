// Package types defines the shared configuration record and error type for
// the ppt2pdf tools.
package types

import "errors"

// Config 应用配置
type Config struct {
	LibreOfficePath          string   `json:"libreoffice_path"`           // LibreOffice / soffice 可执行文件路径，留空则自动查找
	ConversionTimeoutSeconds int      `json:"conversion_timeout_seconds"` // 转换超时（秒），默认 300
	Engine                   string   `json:"engine"`                     // "auto", "libreoffice" 或 "builtin"
	RenderWidth              int      `json:"render_width"`               // builtin 引擎渲染幻灯片的像素宽度
	FontPaths                []string `json:"font_paths"`                 // 额外的 CJK 字体候选文件
	FontDirs                 []string `json:"font_dirs"`                  // 额外的字体扫描目录
	LogFile                  string   `json:"log_file"`
	LogLevel                 string   `json:"log_level"`
}

// ErrorCode 错误代码枚举
type ErrorCode string

const (
	ErrConfig            ErrorCode = "CONFIG_ERROR"
	ErrFileNotFound      ErrorCode = "FILE_NOT_FOUND"
	ErrFontNotFound      ErrorCode = "FONT_NOT_FOUND"
	ErrRender            ErrorCode = "RENDER_ERROR"
	ErrConversion        ErrorCode = "CONVERSION_ERROR"
	ErrConversionTimeout ErrorCode = "CONVERSION_TIMEOUT"
	ErrDocumentNotFound  ErrorCode = "DOCUMENT_NOT_FOUND"
	ErrDocumentInvalid   ErrorCode = "DOCUMENT_INVALID"
	ErrDocumentIO        ErrorCode = "DOCUMENT_IO_ERROR"
)

// AppError 应用错误
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
	Cause   error     `json:"-"`
}

// Error implements the error interface for AppError
func (e *AppError) Error() string {
	if e.Details != "" {
		return e.Message + ": " + e.Details
	}
	return e.Message
}

// Unwrap returns the underlying cause of the error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError creates a new AppError with the given code, message, and optional cause
func NewAppError(code ErrorCode, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewAppErrorWithDetails creates a new AppError with details
func NewAppErrorWithDetails(code ErrorCode, message, details string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Details: details,
		Cause:   cause,
	}
}

// IsCode reports whether err, or any error it wraps, is an AppError with the given code.
func IsCode(err error, code ErrorCode) bool {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return false
	}
	return appErr.Code == code
}

// CodeOf returns the code of the outermost AppError in err's chain, or "".
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}
