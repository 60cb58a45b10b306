/*
 * @module service/rules/service_test
 * @description 清洗规则服务单元测试，覆盖增删改查和持久化
 * @architecture 测试层 - 使用临时目录，无外部依赖
 * @documentReference dev_docs/backend_requirements.md
 * @stateFlow 创建规则 -> 查询/更新/删除 -> 文件内容验证
 * @rules 更新保留createdAt并刷新updatedAt
 * @dependencies testing, stretchr/testify
 * @refs service.go
 */

package rules

import (
	"datasteward-service/service/apperrors"
	"datasteward-service/service/models"
	"datasteward-service/service/storage"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*Service, *storage.Storage) {
	t.Helper()
	store, err := storage.NewStorage(t.TempDir())
	require.NoError(t, err)
	return NewService(store), store
}

// TestCreateRule 测试规则创建
func TestCreateRule(t *testing.T) {
	svc, _ := newTestService(t)

	rule, err := svc.CreateRule(&RuleInput{
		Name: "Teléfonos ES",
		Kind: models.RuleKindPhoneES,
		Spec: json.RawMessage(`{"prefix":"+34"}`),
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(rule.ID, "rule_"))
	assert.Equal(t, "Teléfonos ES", rule.Name)
	assert.Equal(t, models.RuleKindPhoneES, rule.Kind)
	assert.NotEmpty(t, rule.CreatedAt)
	assert.Empty(t, rule.UpdatedAt)
}

// TestGetRule 测试按ID查询规则
func TestGetRule(t *testing.T) {
	svc, _ := newTestService(t)

	created, err := svc.CreateRule(&RuleInput{Name: "r1", Kind: models.RuleKindEmail})
	require.NoError(t, err)

	got, err := svc.GetRule(created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	t.Run("不存在的ID返回404", func(t *testing.T) {
		_, err := svc.GetRule("rule_no_existe")
		appErr := apperrors.As(err)
		require.NotNil(t, appErr)
		assert.Equal(t, "RULE_NOT_FOUND", appErr.Code)
	})
}

// TestGetRules 测试规则列表
func TestGetRules(t *testing.T) {
	svc, _ := newTestService(t)

	rules, err := svc.GetRules()
	require.NoError(t, err)
	assert.Empty(t, rules)

	_, err = svc.CreateRule(&RuleInput{Name: "r1", Kind: models.RuleKindRegex})
	require.NoError(t, err)
	_, err = svc.CreateRule(&RuleInput{Name: "r2", Kind: models.RuleKindDate})
	require.NoError(t, err)

	rules, err = svc.GetRules()
	require.NoError(t, err)
	assert.Len(t, rules, 2)
}

// TestUpdateRule 测试规则的部分更新
func TestUpdateRule(t *testing.T) {
	svc, _ := newTestService(t)

	created, err := svc.CreateRule(&RuleInput{
		Name: "Fechas",
		Kind: models.RuleKindDate,
		Spec: json.RawMessage(`{"format":"ISO"}`),
	})
	require.NoError(t, err)

	updated, err := svc.UpdateRule(created.ID, &RuleInput{Name: "Fechas ISO"})
	require.NoError(t, err)

	assert.Equal(t, "Fechas ISO", updated.Name)
	assert.Equal(t, models.RuleKindDate, updated.Kind, "未提供的字段保持原值")
	assert.JSONEq(t, `{"format":"ISO"}`, string(updated.Spec))
	assert.Equal(t, created.CreatedAt, updated.CreatedAt, "更新不应改变createdAt")
	assert.NotEmpty(t, updated.UpdatedAt)

	t.Run("更新不存在的规则返回404", func(t *testing.T) {
		_, err := svc.UpdateRule("rule_no_existe", &RuleInput{Name: "x"})
		appErr := apperrors.As(err)
		require.NotNil(t, appErr)
		assert.Equal(t, "RULE_NOT_FOUND", appErr.Code)
	})
}

// TestDeleteRule 测试规则删除
func TestDeleteRule(t *testing.T) {
	svc, _ := newTestService(t)

	created, err := svc.CreateRule(&RuleInput{Name: "r1", Kind: models.RuleKindUnique})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteRule(created.ID))

	_, err = svc.GetRule(created.ID)
	assert.Error(t, err)

	t.Run("重复删除返回404", func(t *testing.T) {
		err := svc.DeleteRule(created.ID)
		appErr := apperrors.As(err)
		require.NotNil(t, appErr)
		assert.Equal(t, "RULE_NOT_FOUND", appErr.Code)
	})
}

// TestRulesPersistence 测试规则在服务实例之间持久化
func TestRulesPersistence(t *testing.T) {
	svc, store := newTestService(t)

	created, err := svc.CreateRule(&RuleInput{Name: "persistente", Kind: models.RuleKindRequired})
	require.NoError(t, err)

	// 同一存储上的新实例应读到已创建的规则
	other := NewService(store)
	got, err := other.GetRule(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "persistente", got.Name)
}
