/*
 * @module service/assist/mock_provider
 * @description Mock LLM提供方：基于列名关键词的启发式分类和按问题类型的固定说明文案
 * @architecture 适配器模式 - Provider接口的本地实现
 * @documentReference dev_docs/backend_requirements.md
 * @stateFlow 无状态，纯函数式匹配
 * @rules 说明文案为西语（面向目标用户），未识别的问题类型返回通用文案
 * @dependencies regexp
 * @refs service/assist/service.go
 */

package assist

import (
	"datasteward-service/service/models"
	"regexp"
	"strings"
)

// MockProvider 本地启发式提供方
type MockProvider struct{}

var _ Provider = (*MockProvider)(nil)

// NewMockProvider 创建mock提供方
func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

// Name 提供方名称
func (p *MockProvider) Name() string {
	return "mock"
}

var (
	phonePattern    = regexp.MustCompile(`phone|movil|celular|tel`)
	emailPattern    = regexp.MustCompile(`mail|correo`)
	datePattern     = regexp.MustCompile(`date|fecha|time`)
	currencyPattern = regexp.MustCompile(`amount|precio|cost|importe`)
	idPattern       = regexp.MustCompile(`id|uuid|kode`)
)

// Classify 基于列名关键词推断数据类型
func (p *MockProvider) Classify(headerName string, examples []string) (*ClassifyResult, error) {
	header := strings.ToLower(headerName)

	switch {
	case phonePattern.MatchString(header):
		return &ClassifyResult{Type: "phone_es", Confidence: 0.9, RationaleShort: "Detected phone keywords in header"}, nil
	case emailPattern.MatchString(header):
		return &ClassifyResult{Type: "email", Confidence: 0.95, RationaleShort: "Detected email keywords"}, nil
	case datePattern.MatchString(header):
		return &ClassifyResult{Type: "date", Confidence: 0.85, RationaleShort: "Detected date keywords"}, nil
	case currencyPattern.MatchString(header):
		return &ClassifyResult{Type: "currency", Confidence: 0.8, RationaleShort: "Detected currency keywords"}, nil
	case idPattern.MatchString(header):
		return &ClassifyResult{Type: "id", Confidence: 0.9, RationaleShort: "Detected ID keywords"}, nil
	default:
		return &ClassifyResult{Type: "text", Confidence: 0.5, RationaleShort: "Default heuristic based on name"}, nil
	}
}

var explanations = map[string]string{
	models.IssueEmailInvalid: "El formato del correo electrónico no es válido.",
	models.IssuePhoneInvalid: "El número de teléfono no cumple con el formato estándar.",
	models.IssuePriceZero:    "El precio es 0, lo cual puede ser un error.",
}

var recommendations = map[string]string{
	models.IssueEmailInvalid: "Verifica que contenga @ y un dominio válido.",
	models.IssuePhoneInvalid: "Asegúrate de incluir el prefijo si es necesario.",
	models.IssuePriceZero:    "Revisa si es un producto gratuito o un error de carga.",
}

const (
	defaultExplanation    = "Se ha detectado una anomalía en los datos."
	defaultRecommendation = "Revisa el valor manualmente."
)

// Explain 返回问题类型对应的固定说明文案
func (p *MockProvider) Explain(issue *models.Issue) (*ExplainResult, error) {
	kind := ""
	if issue != nil {
		kind = issue.Kind
	}

	explanation, ok := explanations[kind]
	if !ok {
		explanation = defaultExplanation
	}
	recommendation, ok := recommendations[kind]
	if !ok {
		recommendation = defaultRecommendation
	}

	return &ExplainResult{Explanation: explanation, Recommendation: recommendation}, nil
}
