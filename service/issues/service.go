/*
 * @module service/issues/service
 * @description 质量问题检测服务（桩实现）：基于数据集ID哈希生成确定性的问题列表
 * @architecture 分层架构 - 业务服务层
 * @documentReference dev_docs/backend_requirements.md
 * @stateFlow 校验数据集存在 -> 计算32位哈希 -> 按取模条件筛选候选问题 -> 截断到3~8条
 * @rules 桩实现：结果只依赖数据集ID，不读取文件内容；真实检测由py-quality服务承担
 * @dependencies service/dataset
 * @refs api/controllers/dataset_controller.go, service/fixes
 */

package issues

import (
	"datasteward-service/service/dataset"
	"datasteward-service/service/models"
)

// Service 质量问题检测服务
type Service struct {
	datasets *dataset.Service
}

// NewService 创建问题检测服务实例
func NewService(datasets *dataset.Service) *Service {
	return &Service{datasets: datasets}
}

// DetectIssues 生成确定性的质量问题列表，对同一ID重复调用结果完全一致
func (s *Service) DetectIssues(datasetID string) ([]*models.Issue, error) {
	// 校验数据集存在，不存在时向上传播NotFound
	if _, err := s.datasets.GetDataset(datasetID); err != nil {
		return nil, err
	}

	hash := simpleHash(datasetID)
	issueCount := 3 + hash%6 // 3~8条

	issues := []*models.Issue{}

	if hash%3 == 0 {
		issues = append(issues, &models.Issue{
			Kind:     models.IssueEmailInvalid,
			Severity: models.SeverityError,
			Row:      intPtr(2),
			Col:      strPtr("email"),
			Details: map[string]interface{}{
				"value":  "maria.garcia@",
				"reason": "Incomplete email domain",
			},
		})
	}

	if hash%3 == 1 {
		issues = append(issues, &models.Issue{
			Kind:     models.IssuePhoneInvalid,
			Severity: models.SeverityWarn,
			Row:      intPtr(6),
			Col:      strPtr("telefono"),
			Details: map[string]interface{}{
				"value":  "600234567",
				"reason": "Missing country code",
			},
		})
	}

	if hash%2 == 0 {
		issues = append(issues, &models.Issue{
			Kind:     models.IssueDuplicate,
			Severity: models.SeverityWarn,
			Row:      intPtr(5),
			Col:      nil,
			Details: map[string]interface{}{
				"duplicateOf": 1,
				"matchFields": []string{"nombre", "email"},
			},
		})
	}

	if hash%5 == 0 {
		issues = append(issues, &models.Issue{
			Kind:     models.IssueDateFormat,
			Severity: models.SeverityError,
			Row:      intPtr(2),
			Col:      strPtr("fecha"),
			Details: map[string]interface{}{
				"value":    "15/02/2024",
				"expected": "ISO 8601 (YYYY-MM-DD)",
			},
		})
	}

	if hash%4 == 0 {
		issues = append(issues, &models.Issue{
			Kind:     models.IssuePriceZero,
			Severity: models.SeverityWarn,
			Row:      intPtr(4),
			Col:      strPtr("precio"),
			Details: map[string]interface{}{
				"value":  0,
				"reason": "Zero price may indicate missing data",
			},
		})
	}

	if hash%7 == 0 {
		issues = append(issues, &models.Issue{
			Kind:     models.IssuePriceNegative,
			Severity: models.SeverityError,
			Row:      intPtr(8),
			Col:      strPtr("precio"),
			Details: map[string]interface{}{
				"value":  -5.5,
				"reason": "Negative prices are invalid",
			},
		})
	}

	if hash%3 == 2 {
		issues = append(issues, &models.Issue{
			Kind:     models.IssueMissingValue,
			Severity: models.SeverityError,
			Row:      intPtr(3),
			Col:      strPtr("telefono"),
			Details: map[string]interface{}{
				"reason": "Required field is empty",
			},
		})
	}

	if hash%6 == 0 {
		issues = append(issues, &models.Issue{
			Kind:     models.IssueInconsistentCase,
			Severity: models.SeverityInfo,
			Row:      intPtr(6),
			Col:      strPtr("email"),
			Details: map[string]interface{}{
				"value":      "LUIS@EXAMPLE.COM",
				"suggestion": "luis@example.com",
			},
		})
	}

	if len(issues) > issueCount {
		issues = issues[:issueCount]
	}
	return issues, nil
}

// simpleHash 32位字符串哈希，保证结果确定
func simpleHash(str string) int {
	var hash int32
	for _, c := range []byte(str) {
		hash = (hash << 5) - hash + int32(c)
	}
	v := int64(hash)
	if v < 0 {
		v = -v
	}
	return int(v)
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }
