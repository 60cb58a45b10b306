/*
 * @module service/rules/service
 * @description 清洗规则服务，提供基于rules.json文件的规则CRUD
 * @architecture 分层架构 - 业务服务层
 * @documentReference dev_docs/backend_requirements.md
 * @stateFlow 读取规则文件 -> 修改列表 -> 整体写回
 * @rules 不校验Spec配置与Kind是否匹配；更新保留createdAt并刷新updatedAt
 * @dependencies service/storage
 * @refs api/controllers/rule_controller.go
 */

package rules

import (
	"datasteward-service/service/apperrors"
	"datasteward-service/service/models"
	"datasteward-service/service/storage"
	"datasteward-service/service/utils"
	"encoding/json"
	"time"
)

// Service 清洗规则服务
type Service struct {
	storage *storage.Storage
}

// NewService 创建规则服务实例
func NewService(store *storage.Storage) *Service {
	return &Service{storage: store}
}

// RuleInput 创建/更新规则的输入
type RuleInput struct {
	Name string          `json:"name"`
	Kind string          `json:"kind"`
	Spec json.RawMessage `json:"spec"`
}

// GetRules 获取全部规则
func (s *Service) GetRules() ([]*models.RuleSpec, error) {
	return s.storage.ReadRules()
}

// GetRule 按ID获取规则，不存在时返回NotFound
func (s *Service) GetRule(id string) (*models.RuleSpec, error) {
	rules, err := s.storage.ReadRules()
	if err != nil {
		return nil, err
	}
	for _, rule := range rules {
		if rule.ID == id {
			return rule, nil
		}
	}
	return nil, apperrors.NotFound("RULE_NOT_FOUND", "Rule %s not found", id)
}

// CreateRule 创建规则，分配ID和createdAt
func (s *Service) CreateRule(input *RuleInput) (*models.RuleSpec, error) {
	rule := &models.RuleSpec{
		ID:        utils.GenerateRuleID(),
		Name:      input.Name,
		Kind:      input.Kind,
		Spec:      input.Spec,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}

	err := s.storage.MutateRules(func(rules []*models.RuleSpec) ([]*models.RuleSpec, error) {
		return append(rules, rule), nil
	})
	if err != nil {
		return nil, err
	}
	return rule, nil
}

// UpdateRule 部分更新规则，保留createdAt并刷新updatedAt
func (s *Service) UpdateRule(id string, input *RuleInput) (*models.RuleSpec, error) {
	var updated *models.RuleSpec

	err := s.storage.MutateRules(func(rules []*models.RuleSpec) ([]*models.RuleSpec, error) {
		for _, rule := range rules {
			if rule.ID != id {
				continue
			}
			if input.Name != "" {
				rule.Name = input.Name
			}
			if input.Kind != "" {
				rule.Kind = input.Kind
			}
			if input.Spec != nil {
				rule.Spec = input.Spec
			}
			rule.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
			updated = rule
			return rules, nil
		}
		return nil, apperrors.NotFound("RULE_NOT_FOUND", "Rule %s not found", id)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteRule 删除规则，不存在时返回NotFound
func (s *Service) DeleteRule(id string) error {
	return s.storage.MutateRules(func(rules []*models.RuleSpec) ([]*models.RuleSpec, error) {
		filtered := make([]*models.RuleSpec, 0, len(rules))
		for _, rule := range rules {
			if rule.ID != id {
				filtered = append(filtered, rule)
			}
		}
		if len(filtered) == len(rules) {
			return nil, apperrors.NotFound("RULE_NOT_FOUND", "Rule %s not found", id)
		}
		return filtered, nil
	})
}
