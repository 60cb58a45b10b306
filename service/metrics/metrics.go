/*
 * @module service/metrics/metrics
 * @description Prometheus指标定义：上传计数、采集任务结果计数、清理计数
 * @architecture 工具层 - 可观测性
 * @documentReference dev_docs/backend_requirements.md
 * @stateFlow 各服务在关键路径上递增计数器，/metrics端点暴露
 * @rules 指标注册使用promauto，进程内单例
 * @dependencies github.com/prometheus/client_golang
 * @refs main.go, service/ingest, service/cleanup
 */

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DatasetsUploaded 接收成功的上传总数
	DatasetsUploaded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "datasteward_datasets_uploaded_total",
		Help: "Total number of accepted dataset uploads",
	})

	// IngestJobs 采集任务按结果分类的总数
	IngestJobs = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "datasteward_ingest_jobs_total",
		Help: "Total number of processed ingest jobs by outcome",
	}, []string{"outcome"})

	// DatasetsPurged 按保留策略清理的数据集总数
	DatasetsPurged = promauto.NewCounter(prometheus.CounterOpts{
		Name: "datasteward_datasets_purged_total",
		Help: "Total number of datasets removed by the retention purge",
	})
)
