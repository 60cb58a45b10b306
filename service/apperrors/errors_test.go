/*
 * @module service/apperrors/errors_test
 * @description 应用错误类型单元测试
 * @architecture 测试层 - 纯函数测试，无外部依赖
 * @documentReference dev_docs/backend_requirements.md
 * @stateFlow 构造错误 -> 提取验证
 * @rules As只识别AppError，普通错误返回nil
 * @dependencies testing, stretchr/testify
 * @refs errors.go
 */

package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNotFound 测试资源不存在错误的构造
func TestNotFound(t *testing.T) {
	err := NotFound("DATASET_NOT_FOUND", "Dataset %s not found", "ds_abc")

	assert.Equal(t, http.StatusNotFound, err.StatusCode)
	assert.Equal(t, "DATASET_NOT_FOUND", err.Code)
	assert.Equal(t, "Dataset ds_abc not found", err.Message)
	assert.Equal(t, "Dataset ds_abc not found", err.Error())
}

// TestValidation 测试参数校验错误携带详情
func TestValidation(t *testing.T) {
	details := map[string]string{"field": "name"}
	err := Validation("name is required", details)

	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	assert.Equal(t, "VALIDATION_ERROR", err.Code)
	assert.Equal(t, details, err.Details)
}

// TestUnsupportedMediaType 测试文件类型错误
func TestUnsupportedMediaType(t *testing.T) {
	err := UnsupportedMediaType("Only CSV and XLSX files are accepted.")
	assert.Equal(t, http.StatusUnsupportedMediaType, err.StatusCode)
	assert.Equal(t, "UNSUPPORTED_FILE_TYPE", err.Code)
}

// TestRateLimited 测试限流错误
func TestRateLimited(t *testing.T) {
	err := RateLimited("Too many requests")
	assert.Equal(t, http.StatusTooManyRequests, err.StatusCode)
	assert.Equal(t, "RATE_LIMITED", err.Code)
}

// TestAs 测试错误提取
func TestAs(t *testing.T) {
	t.Run("直接的AppError", func(t *testing.T) {
		appErr := As(New(http.StatusConflict, "DATASET_NOT_READY", "not ready"))
		require.NotNil(t, appErr)
		assert.Equal(t, http.StatusConflict, appErr.StatusCode)
	})

	t.Run("包装后的AppError", func(t *testing.T) {
		wrapped := fmt.Errorf("处理失败: %w", NotFound("RULE_NOT_FOUND", "Rule %s not found", "rule_x"))
		appErr := As(wrapped)
		require.NotNil(t, appErr)
		assert.Equal(t, "RULE_NOT_FOUND", appErr.Code)
	})

	t.Run("普通错误返回nil", func(t *testing.T) {
		assert.Nil(t, As(errors.New("boom")))
	})

	t.Run("nil错误返回nil", func(t *testing.T) {
		assert.Nil(t, As(nil))
	})
}
