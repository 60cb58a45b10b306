/*
 * @module service/assist/service
 * @description 辅助服务：列分类、问题说明和文档检索，由可替换的LLM提供方驱动
 * @architecture 分层架构 - 业务服务层
 * @documentReference dev_docs/backend_requirements.md
 * @stateFlow 控制器校验提供方可用 -> 调用提供方/RAG索引 -> 返回结构化结果
 * @rules 仅mock提供方内置；配置了其他提供方时接口返回501
 * @dependencies service/rag
 * @refs api/controllers/assist_controller.go
 */

package assist

import (
	"datasteward-service/service/models"
	"datasteward-service/service/rag"
)

// ClassifyResult 列分类结果
type ClassifyResult struct {
	Type           string  `json:"type"`
	Confidence     float64 `json:"confidence"`
	RationaleShort string  `json:"rationaleShort"`
}

// ExplainResult 问题说明结果
type ExplainResult struct {
	Explanation    string `json:"explanation"`
	Recommendation string `json:"recommendation"`
}

// Provider LLM提供方抽象
type Provider interface {
	// Name 提供方名称
	Name() string
	// Classify 根据列名和示例值推断数据类型
	Classify(headerName string, examples []string) (*ClassifyResult, error)
	// Explain 解释一个质量问题并给出处理建议
	Explain(issue *models.Issue) (*ExplainResult, error)
}

// Service 辅助服务
type Service struct {
	provider Provider
	docs     *rag.Index
}

// NewService 创建辅助服务实例，provider为nil时表示未配置可用提供方
func NewService(provider Provider, docs *rag.Index) *Service {
	return &Service{provider: provider, docs: docs}
}

// Available 当前是否有可用的LLM提供方
func (s *Service) Available() bool {
	return s.provider != nil
}

// ClassifyColumn 推断列的数据类型
func (s *Service) ClassifyColumn(headerName string, examples []string) (*ClassifyResult, error) {
	return s.provider.Classify(headerName, examples)
}

// ExplainIssue 解释质量问题
func (s *Service) ExplainIssue(issue *models.Issue) (*ExplainResult, error) {
	return s.provider.Explain(issue)
}

// QueryDocs 检索文档
func (s *Service) QueryDocs(query string) *rag.Result {
	return s.docs.Query(query)
}
