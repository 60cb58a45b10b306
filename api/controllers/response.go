/*
 * @module api/controllers/response
 * @description 统一错误响应结构和渲染辅助，把服务层错误映射为HTTP错误包络
 * @architecture MVC架构 - 控制器层
 * @documentReference dev_docs/backend_requirements.md
 * @stateFlow 服务层错误 -> AppError提取 -> 错误包络序列化
 * @rules 4xx对应客户端错误，其余统一500；stack只在非生产环境返回
 * @dependencies github.com/go-chi/render, service/apperrors
 * @refs api/routes.go
 */

package controllers

import (
	"datasteward-service/service/apperrors"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/go-chi/render"
)

// devMode 非生产环境开关，由路由初始化时设置，控制stack是否返回
var devMode = true

// SetDevMode 设置环境模式
func SetDevMode(enabled bool) {
	devMode = enabled
}

// ErrorBody 错误包络内容
type ErrorBody struct {
	Message    string      `json:"message"`
	Code       string      `json:"code"`
	StatusCode int         `json:"statusCode"`
	Stack      string      `json:"stack,omitempty"`
	Details    interface{} `json:"details,omitempty"`
}

// ErrorResponse 统一错误响应结构
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// RenderError 记录错误日志并按统一包络渲染错误响应
func RenderError(w http.ResponseWriter, r *http.Request, err error) {
	slog.Error("请求处理失败",
		"method", r.Method,
		"url", r.URL.Path,
		"error", err)

	body := ErrorBody{
		Message:    "Internal Server Error",
		Code:       "INTERNAL_ERROR",
		StatusCode: http.StatusInternalServerError,
	}

	if appErr := apperrors.As(err); appErr != nil {
		body.Message = appErr.Message
		body.Code = appErr.Code
		body.StatusCode = appErr.StatusCode
		body.Details = appErr.Details
	} else if devMode {
		body.Message = err.Error()
		body.Stack = string(debug.Stack())
	}

	render.Status(r, body.StatusCode)
	render.JSON(w, r, ErrorResponse{Error: body})
}

// RenderAppError 直接渲染一个应用错误
func RenderAppError(w http.ResponseWriter, r *http.Request, appErr *apperrors.AppError) {
	RenderError(w, r, appErr)
}

// clientIP 提取请求来源IP（去掉端口）
func clientIP(r *http.Request) string {
	host := r.RemoteAddr
	for i := len(host) - 1; i >= 0; i-- {
		if host[i] == ':' {
			return host[:i]
		}
	}
	return host
}
