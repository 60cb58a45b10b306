/*
 * @module service/fixes/service
 * @description 修复服务（桩实现）：按问题类型套用固定修复模板，支持预览与应用
 * @architecture 分层架构 - 业务服务层
 * @documentReference dev_docs/backend_requirements.md
 * @stateFlow 检测问题 -> 逐条匹配修复模板 -> 预览；应用时写入clean标记文件并扣减摘要问题计数
 * @rules 仅ready状态的数据集可应用修复；After为nil的预览计入rejected；问题计数扣减不设下限
 * @dependencies service/issues, service/storage, golang.org/x/text
 * @refs api/controllers/dataset_controller.go
 */

package fixes

import (
	"datasteward-service/service/dataset"
	"datasteward-service/service/issues"
	"datasteward-service/service/models"
	"datasteward-service/service/storage"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"time"

	"datasteward-service/service/apperrors"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultPreviewLimit 预览条数默认上限
const DefaultPreviewLimit = 50

// ApplyResult 修复应用结果
type ApplyResult struct {
	Applied  int `json:"applied"`
	Rejected int `json:"rejected"`
}

// Service 修复服务
type Service struct {
	datasets *dataset.Service
	issues   *issues.Service
	storage  *storage.Storage
	lower    cases.Caser
}

// NewService 创建修复服务实例，lang用于大小写归一化的区域规则
func NewService(datasets *dataset.Service, issueSvc *issues.Service, store *storage.Storage, lang string) *Service {
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.Spanish
	}
	return &Service{
		datasets: datasets,
		issues:   issueSvc,
		storage:  store,
		lower:    cases.Lower(tag),
	}
}

// PreviewFixes 生成修复预览，limit<=0时使用默认上限
func (s *Service) PreviewFixes(datasetID string, ruleIDs []string, limit int) ([]*models.FixPreview, error) {
	if _, err := s.datasets.GetDataset(datasetID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultPreviewLimit
	}

	detected, err := s.issues.DetectIssues(datasetID)
	if err != nil {
		return nil, err
	}

	var ruleID *string
	if len(ruleIDs) > 0 {
		ruleID = &ruleIDs[0]
	}

	previews := []*models.FixPreview{}
	for _, issue := range detected {
		if len(previews) >= limit {
			break
		}
		if issue.Row == nil || issue.Col == nil {
			continue
		}

		value, _ := issue.Details["value"].(string)
		var preview *models.FixPreview

		switch issue.Kind {
		case models.IssueEmailInvalid:
			after := value + "example.com"
			preview = &models.FixPreview{
				Row: *issue.Row, Col: *issue.Col,
				Before: value, After: &after, RuleID: ruleID,
				Explanation: "Complete email domain with example.com",
			}

		case models.IssuePhoneInvalid:
			after := "+34" + value
			preview = &models.FixPreview{
				Row: *issue.Row, Col: *issue.Col,
				Before: value, After: &after, RuleID: ruleID,
				Explanation: "Add Spanish country code +34",
			}

		case models.IssueDateFormat:
			after := convertToISO(value)
			preview = &models.FixPreview{
				Row: *issue.Row, Col: *issue.Col,
				Before: value, After: &after, RuleID: ruleID,
				Explanation: "Convert to ISO 8601 format (YYYY-MM-DD)",
			}

		case models.IssueInconsistentCase:
			after := s.lower.String(value)
			preview = &models.FixPreview{
				Row: *issue.Row, Col: *issue.Col,
				Before: value, After: &after, RuleID: ruleID,
				Explanation: "Normalize to lowercase",
			}

		case models.IssuePriceZero:
			preview = &models.FixPreview{
				Row: *issue.Row, Col: *issue.Col,
				Before: "0", After: nil, RuleID: ruleID,
				Explanation: "Zero price requires manual review - no automatic fix",
			}

		default:
			// 未识别的问题类型没有修复模板，跳过
			continue
		}

		previews = append(previews, preview)
	}

	return previews, nil
}

// ApplyFixes 应用修复：写入标记文件并扣减摘要中的问题计数
func (s *Service) ApplyFixes(datasetID string, ruleIDs []string, autoApply bool) (*ApplyResult, error) {
	meta, err := s.datasets.GetDataset(datasetID)
	if err != nil {
		return nil, err
	}

	if meta.Status != models.DatasetStatusReady {
		return nil, apperrors.New(http.StatusConflict, "DATASET_NOT_READY",
			fmt.Sprintf("Dataset must be in ready state to apply fixes, current status is %s", meta.Status))
	}

	previews, err := s.PreviewFixes(datasetID, ruleIDs, DefaultPreviewLimit)
	if err != nil {
		return nil, err
	}

	result := &ApplyResult{}
	for _, p := range previews {
		if p.After != nil {
			result.Applied++
		} else {
			result.Rejected++
		}
	}

	// 桩实现：写入clean标记文件记录本次应用
	marker, err := json.MarshalIndent(map[string]interface{}{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"applied":   result.Applied,
		"rejected":  result.Rejected,
		"ruleIds":   ruleIDs,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("序列化应用记录失败: %w", err)
	}
	if err := s.storage.WriteDatasetFile(datasetID, "clean/applied.json", marker); err != nil {
		return nil, err
	}

	// 扣减问题计数，不在0处截断（与既有行为保持一致）
	if _, err := s.datasets.UpdateDatasetMeta(datasetID, func(m *models.DatasetMetadata) {
		if m.Summary == nil {
			m.Summary = &models.DatasetSummary{}
		}
		m.Summary.Issues -= result.Applied
	}); err != nil {
		return nil, err
	}

	return result, nil
}

var datePartsPattern = regexp.MustCompile(`[-/]`)

// convertToISO 将DD/MM/YYYY或MM/DD/YYYY转为ISO格式；首段大于12时按DD/MM解释
func convertToISO(dateStr string) string {
	parts := datePartsPattern.Split(dateStr, -1)
	if len(parts) != 3 {
		return dateStr
	}

	var first int
	fmt.Sscanf(parts[0], "%d", &first)
	if first > 12 {
		return fmt.Sprintf("%s-%s-%s", parts[2], pad2(parts[1]), pad2(parts[0]))
	}
	return fmt.Sprintf("%s-%s-%s", parts[2], pad2(parts[0]), pad2(parts[1]))
}

// pad2 左补零到两位
func pad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}
