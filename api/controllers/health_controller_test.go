/*
 * @module api/controllers/health_controller_test
 * @description 健康检查控制器单元测试
 * @architecture 测试层
 * @documentReference dev_docs/backend_requirements.md
 * @stateFlow 请求构建 -> 响应验证
 * @rules 就绪检查仅在生产环境下对依赖故障返回503
 * @dependencies testing, net/http/httptest, stretchr/testify
 * @refs health_controller.go
 */

package controllers

import (
	"context"
	"datasteward-service/service/ingest"
	"datasteward-service/service/models"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// downBroker 连通性检查总是失败的队列桩
type downBroker struct{}

var _ ingest.Broker = (*downBroker)(nil)

func (downBroker) Enqueue(ctx context.Context, job *models.QueueJob) error              { return nil }
func (downBroker) Consume(ctx context.Context, concurrency int, handler ingest.Handler) {}
func (downBroker) Ping(ctx context.Context) error                                       { return assert.AnError }
func (downBroker) Close() error                                                         { return nil }

// TestRootBanner 测试根路径横幅
func TestRootBanner(t *testing.T) {
	controller := NewHealthController(ingest.NewMemoryBroker(), "ai-data-steward", false)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	controller.Root(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "ai-data-steward API v1", resp["message"])
}

// TestHealth 测试健康检查
func TestHealth(t *testing.T) {
	controller := NewHealthController(ingest.NewMemoryBroker(), "ai-data-steward", false)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	controller.Health(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "ok", resp["status"])
	assert.Equal(t, "ai-data-steward", resp["name"])
	assert.NotEmpty(t, resp["time"])
}

// TestReady 测试就绪检查
func TestReady(t *testing.T) {
	t.Run("队列可用时就绪", func(t *testing.T) {
		controller := NewHealthController(ingest.NewMemoryBroker(), "ai-data-steward", false)

		req := httptest.NewRequest(http.MethodGet, "/ready", nil)
		w := httptest.NewRecorder()
		controller.Ready(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp map[string]interface{}
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, true, resp["ready"])
	})

	t.Run("开发环境下依赖故障仍返回200", func(t *testing.T) {
		controller := NewHealthController(downBroker{}, "ai-data-steward", false)

		req := httptest.NewRequest(http.MethodGet, "/ready", nil)
		w := httptest.NewRecorder()
		controller.Ready(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp map[string]interface{}
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, false, resp["ready"])
	})

	t.Run("生产环境下依赖故障返回503", func(t *testing.T) {
		controller := NewHealthController(downBroker{}, "ai-data-steward", true)

		req := httptest.NewRequest(http.MethodGet, "/ready", nil)
		w := httptest.NewRecorder()
		controller.Ready(w, req)

		require.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}
