/*
 * @module api/routes
 * @description API路由配置模块，负责初始化和配置所有HTTP路由
 * @architecture RESTful API架构
 * @documentReference dev_docs/backend_requirements.md
 * @stateFlow 无状态HTTP请求处理
 * @rules 业务路由统一挂载在/api前缀下，健康检查和指标保留在根路径
 * @dependencies github.com/go-chi/chi/v5, github.com/go-chi/cors, github.com/go-chi/render
 * @refs api/controllers
 */

package api

import (
	"datasteward-service/api/controllers"
	"datasteward-service/service"
	"datasteward-service/service/apperrors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
)

// InitRoute 初始化所有API路由
func InitRoute(r *chi.Mux) {
	controllers.SetDevMode(!service.Config.IsProduction())

	// 基础中间件
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(render.SetContentType(render.ContentTypeJSON))

	// CORS配置
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{service.Config.CORSOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// 健康检查
	healthController := controllers.NewHealthController(service.GlobalBroker, service.Config.AppName, service.Config.IsProduction())
	r.Get("/", healthController.Root)
	r.Get("/health", healthController.Health)
	r.Get("/ready", healthController.Ready)

	// 业务路由，带全局限流
	r.Route("/api", func(r chi.Router) {
		r.Use(rateLimitMiddleware)

		datasetController := controllers.NewDatasetController(
			service.GlobalDatasetService,
			service.GlobalIssueService,
			service.GlobalFixService,
			service.GlobalStorage,
			service.GlobalAuditService,
			service.Config.MaxUploadSize,
		)

		// 文件上传
		r.Post("/upload", datasetController.Upload)

		// 数据集管理
		r.Route("/datasets", func(r chi.Router) {
			r.Get("/", datasetController.List)
			r.Get("/{id}", datasetController.Get)
			r.Delete("/{id}", datasetController.Delete)
			r.Get("/{id}/issues", datasetController.GetIssues)
			r.Post("/{id}/fixes/preview", datasetController.PreviewFixes)
			r.Post("/{id}/fixes/apply", datasetController.ApplyFixes)
		})

		// 清洗规则管理
		r.Route("/rules", func(r chi.Router) {
			ruleController := controllers.NewRuleController(service.GlobalRuleService, service.GlobalAuditService)
			r.Get("/", ruleController.List)
			r.Post("/", ruleController.Create)
			r.Get("/{id}", ruleController.Get)
			r.Put("/{id}", ruleController.Update)
			r.Delete("/{id}", ruleController.Delete)
		})

		// 辅助功能
		r.Route("/assist", func(r chi.Router) {
			assistController := controllers.NewAssistController(service.GlobalAssistService, service.Config.LLMProvider)
			r.Post("/classify", assistController.Classify)
			r.Post("/explain", assistController.Explain)
			r.Post("/rag", assistController.Rag)
		})

		// 隐私同意
		r.Route("/privacy", func(r chi.Router) {
			privacyController := controllers.NewPrivacyController(service.GlobalAuditService)
			r.Post("/consent", privacyController.Consent)
		})
	})
}

// rateLimitMiddleware 全局限流中间件，Redis不可用时放行
func rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		limiter := service.GlobalRateLimiter
		if limiter == nil {
			next.ServeHTTP(w, r)
			return
		}

		result, err := limiter.Check(r.Context())
		if err != nil {
			slog.Error("限流检查失败，放行请求", "error", err)
			next.ServeHTTP(w, r)
			return
		}
		if !result.Allowed {
			controllers.RenderAppError(w, r, apperrors.RateLimited("Too many requests, please retry later"))
			return
		}
		next.ServeHTTP(w, r)
	})
}
