/*
 * @module service/config/config
 * @description 应用配置模块，从环境变量加载服务运行所需的全部配置项
 * @architecture 分层架构 - 基础设施层
 * @documentReference dev_docs/backend_requirements.md
 * @stateFlow 应用启动时加载一次，运行期间只读
 * @rules 所有配置项提供与原部署一致的默认值，缺失环境变量不阻塞启动
 * @dependencies github.com/spf13/cast
 * @refs service/init.go
 */

package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/cast"
)

// AppConfig 应用配置
type AppConfig struct {
	Env           string // 运行环境: development/production
	ListenPort    int    // HTTP监听端口
	AppName       string // 应用名称
	Lang          string // 语言区域,如 es-ES
	Region        string // 数据区域,如 EU
	StorageDir    string // 数据集存储根目录
	RedisURL      string // 任务队列Redis地址
	RetentionDays int    // 数据集保留天数
	LLMProvider   string // LLM提供方: mock或外部服务名
	MaxUploadSize int64  // 上传文件大小上限(字节)
	RateLimitMax  int    // 每分钟请求数上限
	CORSOrigin    string // 允许的跨域来源
	DocsDir       string // RAG文档目录
	AuditDBPath   string // 审计日志sqlite文件路径
}

// Load 从环境变量加载配置
func Load() *AppConfig {
	storageDir := getEnvWithDefault("STORAGE_DIR", "./storage")
	if abs, err := filepath.Abs(storageDir); err == nil {
		storageDir = abs
	}

	return &AppConfig{
		Env:           getEnvWithDefault("APP_ENV", "development"),
		ListenPort:    cast.ToInt(getEnvWithDefault("LISTEN_PORT", "8080")),
		AppName:       getEnvWithDefault("APP_NAME", "ai-data-steward"),
		Lang:          getEnvWithDefault("APP_LANG", "es-ES"),
		Region:        getEnvWithDefault("APP_REGION", "EU"),
		StorageDir:    storageDir,
		RedisURL:      getEnvWithDefault("REDIS_URL", "redis://localhost:6379"),
		RetentionDays: cast.ToInt(getEnvWithDefault("RETENTION_DAYS", "30")),
		LLMProvider:   getEnvWithDefault("LLM_PROVIDER", "mock"),
		MaxUploadSize: cast.ToInt64(getEnvWithDefault("MAX_UPLOAD_SIZE", "52428800")),
		RateLimitMax:  cast.ToInt(getEnvWithDefault("RATE_LIMIT_MAX", "100")),
		CORSOrigin:    getEnvWithDefault("CORS_ORIGIN", "http://localhost:5173"),
		DocsDir:       getEnvWithDefault("DOCS_DIR", "./docs/content"),
		AuditDBPath:   getEnvWithDefault("AUDIT_DB_PATH", filepath.Join(storageDir, "audit.db")),
	}
}

// IsProduction 是否为生产环境
func (c *AppConfig) IsProduction() bool {
	return c.Env == "production"
}

// getEnvWithDefault 获取环境变量，如果不存在则返回默认值
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
