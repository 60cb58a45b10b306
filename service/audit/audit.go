/*
 * @module service/audit/audit
 * @description 审计日志服务，将敏感操作持久化到sqlite的audit_logs表
 * @architecture 分层架构 - 基础设施层
 * @documentReference dev_docs/backend_requirements.md
 * @stateFlow 业务操作完成 -> 异步记录审计条目 -> 失败仅记日志不阻塞主流程
 * @rules 元数据只记录规模和计数，不记录PII；来源IP先哈希再落盘
 * @dependencies gorm.io/gorm, gorm.io/driver/sqlite, golang.org/x/crypto/sha3
 * @refs api/controllers, service/cleanup
 */

package audit

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/sha3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// 标准化审计动作
const (
	ActionUploadDataset = "upload_dataset"
	ActionCreateRule    = "create_rule"
	ActionUpdateRule    = "update_rule"
	ActionDeleteRule    = "delete_rule"
	ActionPreviewFixes  = "preview_fixes"
	ActionApplyFixes    = "apply_fixes"
	ActionDeleteDataset = "delete_dataset"
	ActionPurgeDataset  = "purge_dataset"
	ActionConsentAccept = "consent_accept"
)

// LogEntry 审计日志条目
type LogEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Action    string    `gorm:"size:64;index" json:"action"`
	Target    string    `gorm:"size:128" json:"target"`
	Meta      string    `gorm:"type:text" json:"meta"`
	ActorHash string    `gorm:"size:64" json:"actorHash"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName 表名与原部署保持一致
func (LogEntry) TableName() string {
	return "audit_logs"
}

// Service 审计日志服务
type Service struct {
	db *gorm.DB
}

// NewService 创建审计服务并迁移表结构
func NewService(dbPath string) (*Service, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("打开审计数据库失败: %w", err)
	}
	if err := db.AutoMigrate(&LogEntry{}); err != nil {
		return nil, fmt.Errorf("迁移审计表失败: %w", err)
	}

	slog.Info("审计日志服务初始化成功", "db_path", dbPath)
	return &Service{db: db}, nil
}

// Record 记录一条审计日志，任何失败只记日志、不向调用方返回错误
func (s *Service) Record(action, target string, meta map[string]interface{}, actorIP string) {
	if s == nil || s.db == nil {
		return
	}

	metaJSON := "{}"
	if meta != nil {
		if data, err := json.Marshal(meta); err == nil {
			metaJSON = string(data)
		}
	}

	entry := &LogEntry{
		Action:    action,
		Target:    target,
		Meta:      metaJSON,
		ActorHash: HashIP(actorIP),
	}

	if err := s.db.Create(entry).Error; err != nil {
		slog.Error("写入审计日志失败", "action", action, "target", target, "error", err)
		return
	}
	slog.Info("审计日志已记录", "action", action, "target", target)
}

// Recent 查询最近的审计条目（供测试和运维排查）
func (s *Service) Recent(limit int) ([]*LogEntry, error) {
	var entries []*LogEntry
	if err := s.db.Order("id desc").Limit(limit).Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("查询审计日志失败: %w", err)
	}
	return entries, nil
}

// HashIP 对来源IP做SHA3-256哈希，避免明文落盘
func HashIP(ip string) string {
	if ip == "" {
		return ""
	}
	sum := sha3.Sum256([]byte(ip))
	return hex.EncodeToString(sum[:])
}
