/*
 * @module api/controllers/rule_controller
 * @description 清洗规则控制器，提供规则的增删改查接口
 * @architecture MVC架构 - 控制器层
 * @documentReference dev_docs/backend_requirements.md
 * @stateFlow HTTP请求处理流程
 * @rules 创建要求name和kind非空；Spec配置不做结构校验
 * @dependencies service/rules, github.com/go-chi/chi/v5
 * @refs api/routes.go
 */

package controllers

import (
	"datasteward-service/service/apperrors"
	"datasteward-service/service/audit"
	"datasteward-service/service/rules"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// RuleController 清洗规则控制器
type RuleController struct {
	rules   *rules.Service
	auditor *audit.Service
}

// NewRuleController 创建规则控制器实例
func NewRuleController(ruleSvc *rules.Service, auditor *audit.Service) *RuleController {
	return &RuleController{rules: ruleSvc, auditor: auditor}
}

// List 获取规则列表
// @Summary 规则列表
// @Tags 规则
// @Produce json
// @Success 200 {object} map[string][]models.RuleSpec
// @Router /api/rules [get]
func (c *RuleController) List(w http.ResponseWriter, r *http.Request) {
	ruleList, err := c.rules.GetRules()
	if err != nil {
		RenderError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{"rules": ruleList})
}

// Get 按ID获取规则
// @Summary 规则详情
// @Tags 规则
// @Produce json
// @Param id path string true "规则ID"
// @Success 200 {object} models.RuleSpec
// @Failure 404 {object} ErrorResponse
// @Router /api/rules/{id} [get]
func (c *RuleController) Get(w http.ResponseWriter, r *http.Request) {
	rule, err := c.rules.GetRule(chi.URLParam(r, "id"))
	if err != nil {
		RenderError(w, r, err)
		return
	}
	render.JSON(w, r, rule)
}

// Create 创建规则
// @Summary 创建规则
// @Tags 规则
// @Accept json
// @Produce json
// @Param rule body rules.RuleInput true "规则内容"
// @Success 201 {object} models.RuleSpec
// @Failure 400 {object} ErrorResponse
// @Router /api/rules [post]
func (c *RuleController) Create(w http.ResponseWriter, r *http.Request) {
	var input rules.RuleInput
	if err := render.DecodeJSON(r.Body, &input); err != nil {
		RenderAppError(w, r, apperrors.Validation("Invalid request body", nil))
		return
	}
	if input.Name == "" || input.Kind == "" {
		RenderAppError(w, r, apperrors.Validation("name and kind are required", nil))
		return
	}

	rule, err := c.rules.CreateRule(&input)
	if err != nil {
		RenderError(w, r, err)
		return
	}

	c.auditor.Record(audit.ActionCreateRule, rule.ID,
		map[string]interface{}{"kind": rule.Kind}, clientIP(r))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, rule)
}

// Update 更新规则
// @Summary 更新规则
// @Tags 规则
// @Accept json
// @Produce json
// @Param id path string true "规则ID"
// @Param rule body rules.RuleInput true "更新内容"
// @Success 200 {object} models.RuleSpec
// @Failure 404 {object} ErrorResponse
// @Router /api/rules/{id} [put]
func (c *RuleController) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var input rules.RuleInput
	if err := render.DecodeJSON(r.Body, &input); err != nil {
		RenderAppError(w, r, apperrors.Validation("Invalid request body", nil))
		return
	}

	rule, err := c.rules.UpdateRule(id, &input)
	if err != nil {
		RenderError(w, r, err)
		return
	}

	c.auditor.Record(audit.ActionUpdateRule, id, nil, clientIP(r))
	render.JSON(w, r, rule)
}

// Delete 删除规则
// @Summary 删除规则
// @Tags 规则
// @Produce json
// @Param id path string true "规则ID"
// @Success 200 {object} map[string]bool
// @Failure 404 {object} ErrorResponse
// @Router /api/rules/{id} [delete]
func (c *RuleController) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := c.rules.DeleteRule(id); err != nil {
		RenderError(w, r, err)
		return
	}

	c.auditor.Record(audit.ActionDeleteRule, id, nil, clientIP(r))
	render.JSON(w, r, map[string]bool{"deleted": true})
}
