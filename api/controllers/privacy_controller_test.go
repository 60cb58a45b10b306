/*
 * @module api/controllers/privacy_controller_test
 * @description 隐私同意控制器单元测试
 * @architecture 测试层
 * @documentReference dev_docs/backend_requirements.md
 * @stateFlow 请求构建 -> 参数校验 -> 响应验证
 * @rules acceptedAt必须是RFC3339时间戳
 * @dependencies testing, net/http/httptest, stretchr/testify
 * @refs privacy_controller.go
 */

package controllers

import (
	"datasteward-service/service/audit"
	"encoding/json"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPrivacyTestRouter(t *testing.T) (*chi.Mux, *audit.Service) {
	t.Helper()

	auditor, err := audit.NewService(filepath.Join(t.TempDir(), "audit.db"))
	require.NoError(t, err)
	controller := NewPrivacyController(auditor)

	r := chi.NewRouter()
	r.Post("/api/privacy/consent", controller.Consent)
	return r, auditor
}

// TestConsent 测试同意记录接口
func TestConsent(t *testing.T) {
	router, auditor := newPrivacyTestRouter(t)

	w := postJSON(t, router, http.MethodPost, "/api/privacy/consent", map[string]string{
		"acceptedAt": time.Now().UTC().Format(time.RFC3339),
		"userAgent":  "test-agent/1.0",
	})

	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]bool
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.True(t, resp["success"])

	// 应落一条consent_accept审计
	entries, err := auditor.Recent(1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, audit.ActionConsentAccept, entries[0].Action)
	assert.Equal(t, "user-consent", entries[0].Target)
	assert.Contains(t, entries[0].Meta, "test-agent/1.0")
}

// TestConsentInvalidTimestamp 测试非法时间戳返回400
func TestConsentInvalidTimestamp(t *testing.T) {
	router, auditor := newPrivacyTestRouter(t)

	w := postJSON(t, router, http.MethodPost, "/api/privacy/consent", map[string]string{
		"acceptedAt": "ayer por la tarde",
	})

	require.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)

	entries, err := auditor.Recent(10)
	require.NoError(t, err)
	assert.Empty(t, entries, "校验失败不应留下审计记录")
}

// TestConsentMissingTimestamp 测试缺少acceptedAt返回400
func TestConsentMissingTimestamp(t *testing.T) {
	router, _ := newPrivacyTestRouter(t)

	w := postJSON(t, router, http.MethodPost, "/api/privacy/consent", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
