/*
 * @module service/apperrors/errors
 * @description 应用错误类型定义，携带HTTP状态码和机器可读错误码
 * @architecture 分层架构 - 基础设施层
 * @documentReference dev_docs/backend_requirements.md
 * @stateFlow 服务层构造错误 -> 控制器层映射为统一错误响应
 * @rules NotFound/Validation等业务错误带明确状态码，未识别的错误统一映射为500
 * @dependencies errors, net/http
 * @refs api/controllers/response.go
 */

package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError 应用级错误，携带HTTP状态码和错误码
type AppError struct {
	StatusCode int
	Code       string
	Message    string
	Details    interface{}
}

func (e *AppError) Error() string {
	return e.Message
}

// New 创建应用错误
func New(statusCode int, code, message string) *AppError {
	return &AppError{
		StatusCode: statusCode,
		Code:       code,
		Message:    message,
	}
}

// NotFound 资源不存在错误
func NotFound(code, format string, args ...interface{}) *AppError {
	return New(http.StatusNotFound, code, fmt.Sprintf(format, args...))
}

// Validation 请求参数校验错误
func Validation(message string, details interface{}) *AppError {
	return &AppError{
		StatusCode: http.StatusBadRequest,
		Code:       "VALIDATION_ERROR",
		Message:    message,
		Details:    details,
	}
}

// UnsupportedMediaType 不支持的上传文件类型错误
func UnsupportedMediaType(message string) *AppError {
	return New(http.StatusUnsupportedMediaType, "UNSUPPORTED_FILE_TYPE", message)
}

// RateLimited 请求频率超限错误
func RateLimited(message string) *AppError {
	return New(http.StatusTooManyRequests, "RATE_LIMITED", message)
}

// As 提取AppError，非应用错误返回nil
func As(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}
