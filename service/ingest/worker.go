/*
 * @module service/ingest/worker
 * @description 采集工作器，消费ingest任务并驱动数据集状态机 new -> processing -> ready/error
 * @architecture 分层架构 - 后台任务层
 * @documentReference dev_docs/backend_requirements.md
 * @stateFlow 拉取任务 -> 状态置processing -> 模拟解析 -> 写入摘要并置ready；任一步出错置error
 * @rules 解析为桩实现，摘要为随机伪造值；真实CSV/XLSX解析由后续py-quality服务承担
 * @dependencies service/storage, service/metrics
 * @refs service/ingest/queue.go
 */

package ingest

import (
	"context"
	"datasteward-service/service/metrics"
	"datasteward-service/service/models"
	"datasteward-service/service/storage"
	"fmt"
	"log/slog"
	"math/rand"
	"time"
)

// DefaultConcurrency 工作器默认并发度
const DefaultConcurrency = 2

// Worker 采集工作器
type Worker struct {
	storage     *storage.Storage
	concurrency int
	// processDelay 模拟解析耗时，测试中可缩短
	processDelay time.Duration
}

// NewWorker 创建采集工作器
func NewWorker(store *storage.Storage) *Worker {
	return &Worker{
		storage:      store,
		concurrency:  DefaultConcurrency,
		processDelay: 2 * time.Second,
	}
}

// WithProcessDelay 覆盖模拟处理耗时
func (w *Worker) WithProcessDelay(d time.Duration) *Worker {
	w.processDelay = d
	return w
}

// Start 启动消费循环，阻塞直到ctx取消
func (w *Worker) Start(ctx context.Context, broker Broker) {
	slog.Info("采集工作器启动", "concurrency", w.concurrency)
	broker.Consume(ctx, w.concurrency, w.Handle)
}

// Handle 处理单个采集任务
func (w *Worker) Handle(ctx context.Context, job *models.QueueJob) error {
	if job.Action != models.JobActionIngest {
		slog.Warn("忽略未支持的任务动作", "action", job.Action, "dataset_id", job.DatasetID)
		return nil
	}

	slog.Info("开始处理采集任务", "dataset_id", job.DatasetID, "attempt", job.Attempt)

	if err := w.ingest(ctx, job.DatasetID); err != nil {
		slog.Error("采集任务失败", "dataset_id", job.DatasetID, "error", err)
		metrics.IngestJobs.WithLabelValues("error").Inc()

		// 将失败写回元数据，异步失败通过status=error对外暴露
		if meta, metaErr := w.storage.GetDatasetMeta(job.DatasetID); metaErr == nil && meta != nil {
			meta.Status = models.DatasetStatusError
			meta.Error = err.Error()
			if saveErr := w.storage.SaveDatasetMeta(meta); saveErr != nil {
				slog.Error("写入错误状态失败", "dataset_id", job.DatasetID, "error", saveErr)
			}
		}
		return err
	}

	metrics.IngestJobs.WithLabelValues("ready").Inc()
	slog.Info("采集任务完成", "dataset_id", job.DatasetID)
	return nil
}

// ingest 执行状态转换和桩解析
func (w *Worker) ingest(ctx context.Context, datasetID string) error {
	meta, err := w.storage.GetDatasetMeta(datasetID)
	if err != nil {
		return err
	}
	if meta == nil {
		return fmt.Errorf("数据集 %s 不存在", datasetID)
	}

	meta.Status = models.DatasetStatusProcessing
	if err := w.storage.SaveDatasetMeta(meta); err != nil {
		return err
	}

	// 模拟解析耗时
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(w.processDelay):
	}

	// 桩摘要：行列数和问题数为伪造值
	meta.Summary = &models.DatasetSummary{
		Rows:    rand.Intn(1000) + 100,
		Columns: rand.Intn(20) + 5,
		Issues:  rand.Intn(50),
	}
	meta.Status = models.DatasetStatusReady
	meta.Error = ""
	return w.storage.SaveDatasetMeta(meta)
}
