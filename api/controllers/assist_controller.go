/*
 * @module api/controllers/assist_controller
 * @description 辅助功能控制器：列类型分类、问题解释和文档检索
 * @architecture MVC架构 - 控制器层
 * @documentReference dev_docs/backend_requirements.md
 * @stateFlow 校验提供方可用 -> 参数校验 -> 调用辅助服务
 * @rules 配置的LLM提供方不可用时classify/explain返回501；rag检索不依赖提供方
 * @dependencies service/assist
 * @refs api/routes.go
 */

package controllers

import (
	"datasteward-service/service/apperrors"
	"datasteward-service/service/assist"
	"datasteward-service/service/models"
	"fmt"
	"net/http"

	"github.com/go-chi/render"
)

// AssistController 辅助功能控制器
type AssistController struct {
	assist      *assist.Service
	providerTag string
}

// NewAssistController 创建辅助控制器实例
func NewAssistController(assistSvc *assist.Service, providerTag string) *AssistController {
	return &AssistController{assist: assistSvc, providerTag: providerTag}
}

// requireProvider 校验LLM提供方可用，不可用时渲染501并返回false
func (c *AssistController) requireProvider(w http.ResponseWriter, r *http.Request) bool {
	if c.assist.Available() {
		return true
	}
	RenderAppError(w, r, apperrors.New(http.StatusNotImplemented, "LLM_NOT_CONFIGURED",
		fmt.Sprintf("LLM provider '%s' not configured in this environment", c.providerTag)))
	return false
}

// ClassifyRequest 列分类请求体
type ClassifyRequest struct {
	HeaderName string   `json:"headerName"`
	Examples   []string `json:"examples,omitempty"`
}

// Classify 推断列的数据类型
// @Summary 列类型分类
// @Tags 辅助
// @Accept json
// @Produce json
// @Param body body ClassifyRequest true "列名和示例值"
// @Success 200 {object} assist.ClassifyResult
// @Failure 501 {object} ErrorResponse "LLM提供方未配置"
// @Router /api/assist/classify [post]
func (c *AssistController) Classify(w http.ResponseWriter, r *http.Request) {
	if !c.requireProvider(w, r) {
		return
	}

	var req ClassifyRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil || req.HeaderName == "" {
		RenderAppError(w, r, apperrors.Validation("headerName is required", nil))
		return
	}

	result, err := c.assist.ClassifyColumn(req.HeaderName, req.Examples)
	if err != nil {
		RenderError(w, r, err)
		return
	}
	render.JSON(w, r, result)
}

// ExplainRequest 问题解释请求体
type ExplainRequest struct {
	Issue *models.Issue `json:"issue"`
}

// Explain 解释一个质量问题
// @Summary 问题解释
// @Tags 辅助
// @Accept json
// @Produce json
// @Param body body ExplainRequest true "待解释的问题"
// @Success 200 {object} assist.ExplainResult
// @Failure 501 {object} ErrorResponse "LLM提供方未配置"
// @Router /api/assist/explain [post]
func (c *AssistController) Explain(w http.ResponseWriter, r *http.Request) {
	if !c.requireProvider(w, r) {
		return
	}

	var req ExplainRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil || req.Issue == nil {
		RenderAppError(w, r, apperrors.Validation("issue is required", nil))
		return
	}

	result, err := c.assist.ExplainIssue(req.Issue)
	if err != nil {
		RenderError(w, r, err)
		return
	}
	render.JSON(w, r, result)
}

// RagRequest 文档检索请求体
type RagRequest struct {
	Query string `json:"query"`
}

// Rag 检索文档
// @Summary 文档检索
// @Tags 辅助
// @Accept json
// @Produce json
// @Param body body RagRequest true "查询语句"
// @Success 200 {object} rag.Result
// @Router /api/assist/rag [post]
func (c *AssistController) Rag(w http.ResponseWriter, r *http.Request) {
	var req RagRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil || req.Query == "" {
		RenderAppError(w, r, apperrors.Validation("query is required", nil))
		return
	}

	render.JSON(w, r, c.assist.QueryDocs(req.Query))
}
