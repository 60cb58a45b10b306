/*
 * @module service/init
 * @description 服务初始化模块，负责存储、队列、审计等全局服务的装配和生命周期管理
 * @architecture 分层架构 - 服务层
 * @documentReference dev_docs/backend_requirements.md
 * @stateFlow 加载配置 -> 初始化存储/队列/审计 -> 启动工作器和清理调度 -> 对外提供API
 * @rules 采用显式Init而非包init，便于测试按需构造服务；Redis不可用时启动失败
 * @dependencies service/config, service/storage, service/ingest
 * @refs main.go, api/routes.go
 */

package service

import (
	"context"
	"datasteward-service/service/assist"
	"datasteward-service/service/audit"
	"datasteward-service/service/cleanup"
	"datasteward-service/service/config"
	"datasteward-service/service/dataset"
	"datasteward-service/service/distributed_lock"
	"datasteward-service/service/fixes"
	"datasteward-service/service/ingest"
	"datasteward-service/service/issues"
	"datasteward-service/service/rag"
	"datasteward-service/service/rate_limiter"
	"datasteward-service/service/rules"
	"datasteward-service/service/storage"
	"fmt"
	"log/slog"
)

var (
	Config               *config.AppConfig
	GlobalStorage        *storage.Storage
	GlobalBroker         ingest.Broker
	GlobalWorker         *ingest.Worker
	GlobalDatasetService *dataset.Service
	GlobalIssueService   *issues.Service
	GlobalFixService     *fixes.Service
	GlobalRuleService    *rules.Service
	GlobalAssistService  *assist.Service
	GlobalAuditService   *audit.Service
	GlobalPurgeService   *cleanup.PurgeService
	GlobalRateLimiter    *rate_limiter.RedisRateLimiter

	workerCancel context.CancelFunc
)

// Init 装配全部服务并启动后台工作器和清理调度
func Init() error {
	Config = config.Load()

	store, err := storage.NewStorage(Config.StorageDir)
	if err != nil {
		return fmt.Errorf("初始化存储失败: %w", err)
	}
	GlobalStorage = store

	broker, err := ingest.NewRedisBroker(Config.RedisURL)
	if err != nil {
		return fmt.Errorf("初始化队列失败: %w", err)
	}
	GlobalBroker = broker
	GlobalRateLimiter = rate_limiter.NewRedisRateLimiter(broker.Client(), Config.RateLimitMax)

	auditor, err := audit.NewService(Config.AuditDBPath)
	if err != nil {
		// 审计不可用不阻塞启动，后续写入为空操作
		slog.Error("初始化审计服务失败，审计将被跳过", "error", err)
	}
	GlobalAuditService = auditor

	GlobalDatasetService = dataset.NewService(store, broker)
	GlobalIssueService = issues.NewService(GlobalDatasetService)
	GlobalFixService = fixes.NewService(GlobalDatasetService, GlobalIssueService, store, Config.Lang)
	GlobalRuleService = rules.NewService(store)

	var provider assist.Provider
	if Config.LLMProvider == "mock" {
		provider = assist.NewMockProvider()
	}
	GlobalAssistService = assist.NewService(provider, rag.NewIndex(Config.DocsDir))

	lock := distributed_lock.NewRedisLock(broker.Client())
	GlobalPurgeService = cleanup.NewPurgeService(store, auditor, lock, Config.RetentionDays)
	if err := GlobalPurgeService.StartScheduledPurge(); err != nil {
		return fmt.Errorf("启动清理调度失败: %w", err)
	}

	var workerCtx context.Context
	workerCtx, workerCancel = context.WithCancel(context.Background())
	GlobalWorker = ingest.NewWorker(store)
	go GlobalWorker.Start(workerCtx, broker)

	slog.Info("服务初始化完成",
		"app", Config.AppName,
		"env", Config.Env,
		"storage_dir", Config.StorageDir,
		"llm_provider", Config.LLMProvider)
	return nil
}

// Shutdown 停止后台任务并释放连接
func Shutdown() {
	if GlobalPurgeService != nil {
		GlobalPurgeService.StopScheduledPurge()
	}
	if workerCancel != nil {
		workerCancel()
	}
	if GlobalBroker != nil {
		if err := GlobalBroker.Close(); err != nil {
			slog.Error("关闭队列连接失败", "error", err)
		}
	}
	slog.Info("服务已停止")
}
