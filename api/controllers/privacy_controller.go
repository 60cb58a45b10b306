/*
 * @module api/controllers/privacy_controller
 * @description 隐私同意控制器，记录GDPR同意事件
 * @architecture MVC架构 - 控制器层
 * @documentReference dev_docs/backend_requirements.md
 * @stateFlow 参数校验 -> 审计consent_accept -> 返回成功
 * @rules 来源IP经哈希后才进入审计日志，不落明文
 * @dependencies service/audit
 * @refs api/routes.go
 */

package controllers

import (
	"datasteward-service/service/apperrors"
	"datasteward-service/service/audit"
	"net/http"
	"time"

	"github.com/go-chi/render"
)

// PrivacyController 隐私同意控制器
type PrivacyController struct {
	auditor *audit.Service
}

// NewPrivacyController 创建隐私控制器实例
func NewPrivacyController(auditor *audit.Service) *PrivacyController {
	return &PrivacyController{auditor: auditor}
}

// ConsentRequest 同意请求体
type ConsentRequest struct {
	AcceptedAt string `json:"acceptedAt"`
	UserAgent  string `json:"userAgent,omitempty"`
}

// Consent 记录用户同意
// @Summary 记录隐私同意
// @Tags 隐私
// @Accept json
// @Produce json
// @Param body body ConsentRequest true "同意时间和UA"
// @Success 200 {object} map[string]bool
// @Failure 400 {object} ErrorResponse
// @Router /api/privacy/consent [post]
func (c *PrivacyController) Consent(w http.ResponseWriter, r *http.Request) {
	var req ConsentRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		RenderAppError(w, r, apperrors.Validation("Invalid consent data", nil))
		return
	}
	if _, err := time.Parse(time.RFC3339, req.AcceptedAt); err != nil {
		RenderAppError(w, r, apperrors.Validation("acceptedAt must be an RFC3339 timestamp", nil))
		return
	}

	userAgent := req.UserAgent
	if userAgent == "" {
		userAgent = r.UserAgent()
	}

	c.auditor.Record(audit.ActionConsentAccept, "user-consent", map[string]interface{}{
		"acceptedAt": req.AcceptedAt,
		"userAgent":  userAgent,
	}, clientIP(r))

	render.JSON(w, r, map[string]bool{"success": true})
}
