/*
 * @module service/models/models
 * @description 领域模型定义：数据集元数据、存储索引、队列任务、质量问题、修复预览和清洗规则
 * @architecture 分层架构 - 模型层
 * @documentReference dev_docs/backend_requirements.md
 * @stateFlow 数据集状态: new -> processing -> ready/error
 * @rules 索引中每个数据集的键必须与其自身ID字段一致
 * @dependencies encoding/json
 * @refs service/storage, service/dataset, service/ingest
 */

package models

import "encoding/json"

// 数据集状态
const (
	DatasetStatusNew        = "new"
	DatasetStatusProcessing = "processing"
	DatasetStatusReady      = "ready"
	DatasetStatusError      = "error"
)

// DatasetSummary 数据集摘要，由采集任务完成后填充
type DatasetSummary struct {
	Rows    int `json:"rows,omitempty"`
	Columns int `json:"columns,omitempty"`
	Issues  int `json:"issues,omitempty"`
}

// DatasetMetadata 数据集元数据
type DatasetMetadata struct {
	ID           string          `json:"id"`
	Filename     string          `json:"filename"`
	OriginalPath string          `json:"originalPath"`
	Size         int64           `json:"size"`
	CreatedAt    string          `json:"createdAt"`
	Status       string          `json:"status"`
	Summary      *DatasetSummary `json:"summary,omitempty"`
	Error        string          `json:"error,omitempty"`
}

// StorageIndex 存储索引，数据集ID到元数据的映射
type StorageIndex struct {
	Datasets    map[string]*DatasetMetadata `json:"datasets"`
	LastUpdated string                      `json:"lastUpdated"`
}

// 队列任务动作
const (
	JobActionIngest  = "ingest"
	JobActionAnalyze = "analyze"
	JobActionClean   = "clean"
)

// QueueJob 队列任务，由数据集服务入队、采集工作器消费
type QueueJob struct {
	DatasetID string                 `json:"datasetId"`
	Action    string                 `json:"action"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Attempt   int                    `json:"attempt"`
}

// 问题严重程度
const (
	SeverityInfo  = "info"
	SeverityWarn  = "warn"
	SeverityError = "error"
)

// 问题类型
const (
	IssueEmailInvalid     = "email_invalid"
	IssuePhoneInvalid     = "phone_invalid"
	IssueDuplicate        = "duplicate"
	IssueDateFormat       = "date_format"
	IssueCurrency         = "currency"
	IssuePriceZero        = "price_zero"
	IssuePriceNegative    = "price_negative"
	IssueIDMissing        = "id_missing"
	IssueMissingValue     = "missing_value"
	IssueInconsistentCase = "inconsistent_case"
	IssueWhitespace       = "whitespace"
	IssueSpecialChars     = "special_chars"
)

// Issue 数据质量问题，不持久化，每次读取时根据数据集ID重新计算
type Issue struct {
	Kind     string                 `json:"kind"`
	Severity string                 `json:"severity"`
	Row      *int                   `json:"row"`
	Col      *string                `json:"col"`
	Details  map[string]interface{} `json:"details"`
}

// FixPreview 修复预览，After为nil表示需要人工复核、无法自动修复
type FixPreview struct {
	Row         int     `json:"row"`
	Col         string  `json:"col"`
	Before      string  `json:"before"`
	After       *string `json:"after"`
	RuleID      *string `json:"ruleId"`
	Explanation string  `json:"explanation"`
}

// 规则类型
const (
	RuleKindRegex    = "regex"
	RuleKindNumeric  = "numeric"
	RuleKindDate     = "date"
	RuleKindMap      = "map"
	RuleKindPhoneES  = "phone_es"
	RuleKindEmail    = "email"
	RuleKindEnum     = "enum"
	RuleKindRequired = "required"
	RuleKindUnique   = "unique"
)

// RuleSpec 清洗规则，Spec为自由格式配置，其结构由Kind决定，不做校验
type RuleSpec struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Kind      string          `json:"kind"`
	Spec      json.RawMessage `json:"spec"`
	CreatedAt string          `json:"createdAt"`
	UpdatedAt string          `json:"updatedAt,omitempty"`
}
