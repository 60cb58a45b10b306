/*
 * @module service/utils/id
 * @description 唯一ID生成工具，生成带前缀的URL友好短标识
 * @architecture 工具层
 * @documentReference dev_docs/backend_requirements.md
 * @stateFlow 无状态
 * @rules 数据集ID前缀ds、规则ID前缀rule，12位随机部分保证碰撞概率可忽略
 * @dependencies github.com/google/uuid
 * @refs service/dataset, service/rules
 */

package utils

import (
	"strings"

	"github.com/google/uuid"
)

const idLength = 12

// GenerateID 生成带前缀的唯一ID，前缀为空时只返回随机部分
func GenerateID(prefix string) string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	id := raw[:idLength]
	if prefix == "" {
		return id
	}
	return prefix + "_" + id
}

// GenerateDatasetID 生成数据集ID
func GenerateDatasetID() string {
	return GenerateID("ds")
}

// GenerateRuleID 生成清洗规则ID
func GenerateRuleID() string {
	return GenerateID("rule")
}
