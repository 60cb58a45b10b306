/*
 * @module api/controllers/health_controller
 * @description 健康检查控制器，提供存活与就绪状态检查
 * @architecture MVC架构 - 控制器层
 * @documentReference dev_docs/backend_requirements.md
 * @stateFlow HTTP请求处理流程
 * @rules 就绪检查探测队列中间件连通性，生产环境下不就绪返回503
 * @dependencies service/ingest, github.com/go-chi/render
 * @refs api/routes.go
 */

package controllers

import (
	"datasteward-service/service/ingest"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/render"
)

// HealthController 健康检查控制器
type HealthController struct {
	broker     ingest.Broker
	appName    string
	production bool
}

// NewHealthController 创建健康检查控制器实例
func NewHealthController(broker ingest.Broker, appName string, production bool) *HealthController {
	return &HealthController{broker: broker, appName: appName, production: production}
}

// Root 根路径横幅
// @Summary 服务横幅
// @Tags 系统
// @Produce json
// @Success 200 {object} map[string]string
// @Router / [get]
func (c *HealthController) Root(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{
		"message": fmt.Sprintf("%s API v1", c.appName),
	})
}

// Health 健康检查
// @Summary 健康检查
// @Description 检查服务进程存活
// @Tags 系统
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (c *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
		"name":   c.appName,
	})
}

// Ready 就绪检查
// @Summary 就绪检查
// @Description 检查队列中间件连通性
// @Tags 系统
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /ready [get]
func (c *HealthController) Ready(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{}

	if err := c.broker.Ping(r.Context()); err != nil {
		checks["redis"] = "down"
	} else {
		checks["redis"] = "ok"
	}

	ready := true
	for _, v := range checks {
		if v != "ok" {
			ready = false
		}
	}

	if !ready && c.production {
		render.Status(r, http.StatusServiceUnavailable)
	}
	render.JSON(w, r, map[string]interface{}{
		"ready": ready,
		"deps":  checks,
	})
}
