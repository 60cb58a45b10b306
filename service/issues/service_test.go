/*
 * @module service/issues/service_test
 * @description 质量问题检测服务单元测试，验证哈希确定性和取模筛选
 * @architecture 测试层 - 使用临时目录，无外部依赖
 * @documentReference dev_docs/backend_requirements.md
 * @stateFlow 准备已知ID的数据集 -> 检测 -> 问题列表验证
 * @rules 同一ID的检测结果必须逐字节一致
 * @dependencies testing, stretchr/testify
 * @refs service.go
 */

package issues

import (
	"context"
	"datasteward-service/service/apperrors"
	"datasteward-service/service/dataset"
	"datasteward-service/service/ingest"
	"datasteward-service/service/models"
	"datasteward-service/service/storage"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noopBroker struct{}

var _ ingest.Broker = (*noopBroker)(nil)

func (noopBroker) Enqueue(ctx context.Context, job *models.QueueJob) error           { return nil }
func (noopBroker) Consume(ctx context.Context, concurrency int, handler ingest.Handler) {}
func (noopBroker) Ping(ctx context.Context) error                                    { return nil }
func (noopBroker) Close() error                                                      { return nil }

func newTestService(t *testing.T, datasetIDs ...string) *Service {
	t.Helper()
	store, err := storage.NewStorage(t.TempDir())
	require.NoError(t, err)
	for _, id := range datasetIDs {
		require.NoError(t, store.SaveDatasetMeta(&models.DatasetMetadata{
			ID:     id,
			Status: models.DatasetStatusReady,
		}))
	}
	return NewService(dataset.NewService(store, noopBroker{}))
}

// TestSimpleHash 测试哈希函数的已知值和非负性
func TestSimpleHash(t *testing.T) {
	// h = 31*h + c
	assert.Equal(t, 97, simpleHash("a"))
	assert.Equal(t, 31*97+98, simpleHash("ab"))
	assert.Equal(t, 120, simpleHash("x"))

	t.Run("结果始终非负", func(t *testing.T) {
		for _, s := range []string{"", "ds_0123456789ab", "un-nombre-bastante-largo-para-desbordar"} {
			assert.GreaterOrEqual(t, simpleHash(s), 0, "simpleHash(%q)", s)
		}
	})

	t.Run("确定性", func(t *testing.T) {
		assert.Equal(t, simpleHash("ds_abc"), simpleHash("ds_abc"))
	})
}

// TestDetectIssuesDeterministic 测试同一ID重复检测结果一致
func TestDetectIssuesDeterministic(t *testing.T) {
	svc := newTestService(t, "ds_determinista")

	first, err := svc.DetectIssues("ds_determinista")
	require.NoError(t, err)
	second, err := svc.DetectIssues("ds_determinista")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.LessOrEqual(t, len(first), 8, "问题数量不应超过上限")
}

// TestDetectIssuesKnownVectors 测试已知哈希值对应的问题组合
func TestDetectIssuesKnownVectors(t *testing.T) {
	// hash("a")=97: 97%3==1，仅命中电话问题
	t.Run("仅电话问题", func(t *testing.T) {
		svc := newTestService(t, "a")
		detected, err := svc.DetectIssues("a")
		require.NoError(t, err)
		require.Len(t, detected, 1)

		issue := detected[0]
		assert.Equal(t, models.IssuePhoneInvalid, issue.Kind)
		assert.Equal(t, models.SeverityWarn, issue.Severity)
		require.NotNil(t, issue.Row)
		assert.Equal(t, 6, *issue.Row)
		require.NotNil(t, issue.Col)
		assert.Equal(t, "telefono", *issue.Col)
		assert.Equal(t, "600234567", issue.Details["value"])
	})

	// hash("c")=99: 99%3==0，仅命中邮箱问题
	t.Run("仅邮箱问题", func(t *testing.T) {
		svc := newTestService(t, "c")
		detected, err := svc.DetectIssues("c")
		require.NoError(t, err)
		require.Len(t, detected, 1)
		assert.Equal(t, models.IssueEmailInvalid, detected[0].Kind)
		assert.Equal(t, "maria.garcia@", detected[0].Details["value"])
	})

	// hash("b")=98: 命中重复、负价格和缺失值
	t.Run("多问题组合", func(t *testing.T) {
		svc := newTestService(t, "b")
		detected, err := svc.DetectIssues("b")
		require.NoError(t, err)
		require.Len(t, detected, 3)
		assert.Equal(t, models.IssueDuplicate, detected[0].Kind)
		assert.Nil(t, detected[0].Col, "重复问题跨列，col为空")
		assert.Equal(t, models.IssuePriceNegative, detected[1].Kind)
		assert.Equal(t, models.IssueMissingValue, detected[2].Kind)
	})

	// hash("x")=120: 命中5类问题，但120%6==0将上限压到3条
	t.Run("截断到上限", func(t *testing.T) {
		svc := newTestService(t, "x")
		detected, err := svc.DetectIssues("x")
		require.NoError(t, err)
		require.Len(t, detected, 3)
		assert.Equal(t, models.IssueEmailInvalid, detected[0].Kind)
		assert.Equal(t, models.IssueDuplicate, detected[1].Kind)
		assert.Equal(t, models.IssueDateFormat, detected[2].Kind)
	})
}

// TestDetectIssuesUnknownDataset 测试不存在的数据集返回404
func TestDetectIssuesUnknownDataset(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.DetectIssues("ds_no_existe")
	appErr := apperrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "DATASET_NOT_FOUND", appErr.Code)
}
