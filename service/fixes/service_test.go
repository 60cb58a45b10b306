/*
 * @module service/fixes/service_test
 * @description 修复服务单元测试，覆盖预览模板、应用流程和日期格式转换
 * @architecture 测试层 - 使用临时目录，无外部依赖
 * @documentReference dev_docs/backend_requirements.md
 * @stateFlow 准备已知ID的数据集 -> 预览/应用 -> 结果和副作用验证
 * @rules 测试数据集ID按哈希取模条件选定，保证命中预期的问题组合
 * @dependencies testing, stretchr/testify
 * @refs service.go
 */

package fixes

import (
	"context"
	"datasteward-service/service/apperrors"
	"datasteward-service/service/dataset"
	"datasteward-service/service/ingest"
	"datasteward-service/service/issues"
	"datasteward-service/service/models"
	"datasteward-service/service/storage"
	"encoding/json"
	"net/http"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noopBroker struct{}

var _ ingest.Broker = (*noopBroker)(nil)

func (noopBroker) Enqueue(ctx context.Context, job *models.QueueJob) error              { return nil }
func (noopBroker) Consume(ctx context.Context, concurrency int, handler ingest.Handler) {}
func (noopBroker) Ping(ctx context.Context) error                                       { return nil }
func (noopBroker) Close() error                                                         { return nil }

func newTestService(t *testing.T) (*Service, *storage.Storage, *dataset.Service) {
	t.Helper()
	store, err := storage.NewStorage(t.TempDir())
	require.NoError(t, err)
	datasets := dataset.NewService(store, noopBroker{})
	svc := NewService(datasets, issues.NewService(datasets), store, "es-ES")
	return svc, store, datasets
}

func saveDataset(t *testing.T, store *storage.Storage, id, status string, summaryIssues int) {
	t.Helper()
	meta := &models.DatasetMetadata{
		ID:        id,
		Filename:  id + ".csv",
		CreatedAt: "2026-08-01T10:00:00Z",
		Status:    status,
	}
	if status == models.DatasetStatusReady {
		meta.Summary = &models.DatasetSummary{Rows: 200, Columns: 8, Issues: summaryIssues}
	}
	require.NoError(t, store.SaveDatasetMeta(meta))
}

// TestPreviewFixesTemplates 测试各问题类型的修复模板
// ID "d" (hash 100) 命中电话、重复、日期和零价格问题
func TestPreviewFixesTemplates(t *testing.T) {
	svc, store, _ := newTestService(t)
	saveDataset(t, store, "d", models.DatasetStatusReady, 10)

	previews, err := svc.PreviewFixes("d", nil, 0)
	require.NoError(t, err)
	// 重复问题没有列定位，被跳过
	require.Len(t, previews, 3)

	phone := previews[0]
	assert.Equal(t, 6, phone.Row)
	assert.Equal(t, "telefono", phone.Col)
	assert.Equal(t, "600234567", phone.Before)
	require.NotNil(t, phone.After)
	assert.Equal(t, "+34600234567", *phone.After)
	assert.Equal(t, "Add Spanish country code +34", phone.Explanation)

	date := previews[1]
	assert.Equal(t, "15/02/2024", date.Before)
	require.NotNil(t, date.After)
	assert.Equal(t, "2024-02-15", *date.After)

	priceZero := previews[2]
	assert.Equal(t, "0", priceZero.Before)
	assert.Nil(t, priceZero.After, "零价格需要人工复核，不自动修复")
	assert.Equal(t, "Zero price requires manual review - no automatic fix", priceZero.Explanation)
}

// TestPreviewFixesEmail 测试邮箱补全模板
// ID "c" (hash 99) 仅命中邮箱问题
func TestPreviewFixesEmail(t *testing.T) {
	svc, store, _ := newTestService(t)
	saveDataset(t, store, "c", models.DatasetStatusReady, 5)

	previews, err := svc.PreviewFixes("c", nil, 0)
	require.NoError(t, err)
	require.Len(t, previews, 1)

	assert.Equal(t, "maria.garcia@", previews[0].Before)
	require.NotNil(t, previews[0].After)
	assert.Equal(t, "maria.garcia@example.com", *previews[0].After)
	assert.Equal(t, "Complete email domain with example.com", previews[0].Explanation)
}

// TestPreviewFixesLowercase 测试大小写归一化模板
// ID "f" (hash 102) 命中邮箱、重复和大小写问题
func TestPreviewFixesLowercase(t *testing.T) {
	svc, store, _ := newTestService(t)
	saveDataset(t, store, "f", models.DatasetStatusReady, 5)

	previews, err := svc.PreviewFixes("f", nil, 0)
	require.NoError(t, err)
	require.Len(t, previews, 2)

	lower := previews[1]
	assert.Equal(t, "LUIS@EXAMPLE.COM", lower.Before)
	require.NotNil(t, lower.After)
	assert.Equal(t, "luis@example.com", *lower.After)
	assert.Equal(t, "Normalize to lowercase", lower.Explanation)
}

// TestPreviewFixesLimitAndRuleID 测试预览上限和规则关联
func TestPreviewFixesLimitAndRuleID(t *testing.T) {
	svc, store, _ := newTestService(t)
	saveDataset(t, store, "d", models.DatasetStatusReady, 10)

	t.Run("limit截断", func(t *testing.T) {
		previews, err := svc.PreviewFixes("d", nil, 1)
		require.NoError(t, err)
		require.Len(t, previews, 1)
		assert.Equal(t, "telefono", previews[0].Col)
	})

	t.Run("关联第一个规则ID", func(t *testing.T) {
		previews, err := svc.PreviewFixes("d", []string{"rule_abc", "rule_def"}, 0)
		require.NoError(t, err)
		require.NotEmpty(t, previews)
		for _, p := range previews {
			require.NotNil(t, p.RuleID)
			assert.Equal(t, "rule_abc", *p.RuleID)
		}
	})

	t.Run("不存在的数据集返回404", func(t *testing.T) {
		_, err := svc.PreviewFixes("ds_no_existe", nil, 0)
		appErr := apperrors.As(err)
		require.NotNil(t, appErr)
		assert.Equal(t, "DATASET_NOT_FOUND", appErr.Code)
	})
}

// TestApplyFixes 测试修复应用的计数、标记文件和摘要扣减
func TestApplyFixes(t *testing.T) {
	svc, store, datasets := newTestService(t)
	saveDataset(t, store, "d", models.DatasetStatusReady, 10)

	result, err := svc.ApplyFixes("d", []string{"rule_abc"}, true)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Applied, "电话和日期可自动修复")
	assert.Equal(t, 1, result.Rejected, "零价格需人工复核")

	// 应写入clean标记文件
	marker, err := os.ReadFile(store.DatasetPath("d", "clean/applied.json"))
	require.NoError(t, err)
	var record map[string]interface{}
	require.NoError(t, json.Unmarshal(marker, &record))
	assert.EqualValues(t, 2, record["applied"])
	assert.EqualValues(t, 1, record["rejected"])

	// 摘要问题计数按applied扣减
	meta, err := datasets.GetDataset("d")
	require.NoError(t, err)
	require.NotNil(t, meta.Summary)
	assert.Equal(t, 8, meta.Summary.Issues)
}

// TestApplyFixesNotReady 测试非ready状态拒绝应用且无副作用
func TestApplyFixesNotReady(t *testing.T) {
	svc, store, datasets := newTestService(t)
	saveDataset(t, store, "d", models.DatasetStatusProcessing, 0)

	_, err := svc.ApplyFixes("d", nil, true)
	appErr := apperrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusConflict, appErr.StatusCode)
	assert.Equal(t, "DATASET_NOT_READY", appErr.Code)

	// 不应留下标记文件，也不应触碰元数据
	_, statErr := os.Stat(store.DatasetPath("d", "clean/applied.json"))
	assert.True(t, os.IsNotExist(statErr))

	meta, err := datasets.GetDataset("d")
	require.NoError(t, err)
	assert.Equal(t, models.DatasetStatusProcessing, meta.Status)
	assert.Nil(t, meta.Summary)
}

// TestConvertToISO 测试日期格式转换
func TestConvertToISO(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "DD/MM/YYYY", input: "15/02/2024", expected: "2024-02-15"},
		{name: "首段不大于12按MM/DD解释", input: "02/10/2024", expected: "2024-02-10"},
		{name: "横线分隔", input: "25-12-2023", expected: "2023-12-25"},
		{name: "单位数补零", input: "5/3/2024", expected: "2024-05-03"},
		{name: "无法解析时原样返回", input: "2024", expected: "2024"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, convertToISO(tc.input))
		})
	}
}
