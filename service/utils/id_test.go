/*
 * @module service/utils/id_test
 * @description ID生成工具单元测试
 * @architecture 测试层 - 纯函数测试，无外部依赖
 * @documentReference dev_docs/backend_requirements.md
 * @stateFlow 生成ID -> 格式和唯一性验证
 * @rules 前缀与随机部分用下划线分隔，随机部分固定12位
 * @dependencies testing, stretchr/testify
 * @refs id.go
 */

package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestGenerateID 测试带前缀ID的格式
func TestGenerateID(t *testing.T) {
	id := GenerateID("ds")
	assert.True(t, strings.HasPrefix(id, "ds_"))
	assert.Len(t, id, len("ds_")+12)

	t.Run("空前缀只返回随机部分", func(t *testing.T) {
		id := GenerateID("")
		assert.Len(t, id, 12)
		assert.NotContains(t, id, "_")
	})
}

// TestGenerateDatasetID 测试数据集ID前缀
func TestGenerateDatasetID(t *testing.T) {
	id := GenerateDatasetID()
	assert.True(t, strings.HasPrefix(id, "ds_"))
	assert.Len(t, id, 15)
}

// TestGenerateRuleID 测试规则ID前缀
func TestGenerateRuleID(t *testing.T) {
	id := GenerateRuleID()
	assert.True(t, strings.HasPrefix(id, "rule_"))
	assert.Len(t, id, 17)
}

// TestGenerateIDUniqueness 测试批量生成不重复
func TestGenerateIDUniqueness(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 1000; i++ {
		id := GenerateDatasetID()
		assert.False(t, seen[id], "ID不应重复: %s", id)
		seen[id] = true
	}
}
