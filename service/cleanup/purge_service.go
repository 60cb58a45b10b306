/*
 * @module service/cleanup/purge_service
 * @description 保留期清理服务，定时删除超过保留天数的数据集
 * @architecture 分层架构 - 业务服务层
 * @documentReference dev_docs/backend_requirements.md
 * @stateFlow 定时触发 -> 获取分布式锁 -> 扫描过期数据集 -> 逐个删除并审计
 * @rules 每天凌晨3点执行；单个数据集删除失败不中断整体清理
 * @dependencies service/storage, github.com/robfig/cron/v3, service/distributed_lock
 * @refs service/audit, service/metrics
 */

package cleanup

import (
	"context"
	"datasteward-service/service/audit"
	"datasteward-service/service/distributed_lock"
	"datasteward-service/service/metrics"
	"datasteward-service/service/storage"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// PurgeService 保留期清理服务
type PurgeService struct {
	storage       *storage.Storage
	auditor       *audit.Service
	lock          distributed_lock.DistributedLock
	retentionDays int
	cron          *cron.Cron
	ctx           context.Context
	cancel        context.CancelFunc
	started       bool
}

// NewPurgeService 创建清理服务实例
func NewPurgeService(store *storage.Storage, auditor *audit.Service, lock distributed_lock.DistributedLock, retentionDays int) *PurgeService {
	ctx, cancel := context.WithCancel(context.Background())

	return &PurgeService{
		storage:       store,
		auditor:       auditor,
		lock:          lock,
		retentionDays: retentionDays,
		cron:          cron.New(cron.WithSeconds()),
		ctx:           ctx,
		cancel:        cancel,
	}
}

// PurgeExpiredDatasets 删除创建时间早于保留截止点的数据集，返回删除数量
func (s *PurgeService) PurgeExpiredDatasets(ctx context.Context) (int, error) {
	slog.Info("开始执行保留期清理", "retention_days", s.retentionDays)
	startTime := time.Now()

	cutoff := time.Now().AddDate(0, 0, -s.retentionDays)

	index, err := s.storage.ReadIndex()
	if err != nil {
		return 0, fmt.Errorf("读取索引失败: %w", err)
	}

	expired := []string{}
	for id, meta := range index.Datasets {
		createdAt, parseErr := time.Parse(time.RFC3339, meta.CreatedAt)
		if parseErr != nil {
			slog.Warn("数据集创建时间无法解析，跳过清理", "dataset_id", id, "created_at", meta.CreatedAt)
			continue
		}
		if createdAt.Before(cutoff) {
			expired = append(expired, id)
		}
	}

	if len(expired) == 0 {
		slog.Info("没有超过保留期的数据集")
		return 0, nil
	}

	purged := 0
	for _, id := range expired {
		deleted, delErr := s.storage.DeleteDataset(id)
		if delErr != nil {
			slog.Error("清理数据集失败", "dataset_id", id, "error", delErr)
			continue
		}
		if !deleted {
			continue
		}

		purged++
		metrics.DatasetsPurged.Inc()
		s.auditor.Record(audit.ActionPurgeDataset, id, map[string]interface{}{
			"reason":        "retention_policy",
			"retentionDays": s.retentionDays,
		}, "")
		slog.Info("已清理过期数据集", "dataset_id", id)
	}

	slog.Info("保留期清理完成",
		"expired", len(expired),
		"purged", purged,
		"duration_ms", time.Since(startTime).Milliseconds())
	return purged, nil
}

// StartScheduledPurge 启动定时清理任务
func (s *PurgeService) StartScheduledPurge() error {
	if s.started {
		return fmt.Errorf("清理调度器已经启动")
	}

	// 每天凌晨3点执行
	// Cron表达式：秒 分 时 日 月 周
	_, err := s.cron.AddFunc("0 0 3 * * *", func() {
		// 多实例部署时由分布式锁保证只有一个实例执行
		locked, lockErr := s.lock.TryLock(s.ctx, "dataset-purge", 10*time.Minute)
		if lockErr != nil {
			slog.Error("获取清理锁失败", "error", lockErr)
			return
		}
		if !locked {
			slog.Debug("清理任务已由其他实例执行，跳过")
			return
		}
		defer func() {
			if unlockErr := s.lock.Unlock(s.ctx, "dataset-purge"); unlockErr != nil {
				slog.Error("释放清理锁失败", "error", unlockErr)
			}
		}()

		if _, purgeErr := s.PurgeExpiredDatasets(s.ctx); purgeErr != nil {
			slog.Error("定时清理任务失败", "error", purgeErr)
		}
	})
	if err != nil {
		return fmt.Errorf("添加定时任务失败: %w", err)
	}

	s.cron.Start()
	s.started = true

	slog.Info("保留期清理调度器启动成功，将于每天凌晨3点执行", "retention_days", s.retentionDays)
	return nil
}

// StopScheduledPurge 停止定时清理任务
func (s *PurgeService) StopScheduledPurge() {
	if !s.started {
		return
	}

	s.cancel()
	if s.cron != nil {
		s.cron.Stop()
	}
	s.started = false

	slog.Info("保留期清理调度器已停止")
}
