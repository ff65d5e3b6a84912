package web

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// decodeJSON 解析响应体
func decodeJSON(t *testing.T, body []byte) map[string]interface{} {
	t.Helper()
	var data map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &data))
	return data
}

func TestHandleIndex(t *testing.T) {
	s, _ := newTestServer(t)

	w := perform(s, "GET", "/")
	require.Equal(t, http.StatusOK, w.Code)

	data := decodeJSON(t, w.Body.Bytes())
	assert.Equal(t, "Observer - Monitoring Practice API", data["message"])
	assert.NotEmpty(t, data["version"])
	assert.Contains(t, data, "endpoints")
}

func TestHandleHealth(t *testing.T) {
	s, _ := newTestServer(t)

	w := perform(s, "GET", "/health")
	require.Equal(t, http.StatusOK, w.Code)

	data := decodeJSON(t, w.Body.Bytes())
	assert.Equal(t, "healthy", data["status"])
	assert.Contains(t, data, "timestamp")
	assert.Contains(t, data, "active_connections")

	// 快照未启用时不探测Redis
	assert.NotContains(t, data, "redis")
}

func TestHandleSimulate(t *testing.T) {
	s, _ := newTestServer(t)

	// 约10%概率返回500
	w := perform(s, "GET", "/simulate")
	assert.Contains(t, []int{http.StatusOK, http.StatusInternalServerError}, w.Code)

	if w.Code == http.StatusOK {
		data := decodeJSON(t, w.Body.Bytes())
		assert.Equal(t, "Workload simulation completed", data["message"])
		assert.Contains(t, data, "duration")
		assert.Contains(t, data, "timestamp")
	}
}

func TestHandleError(t *testing.T) {
	s, _ := newTestServer(t)

	w := perform(s, "GET", "/error")
	require.Equal(t, http.StatusInternalServerError, w.Code)

	data := decodeJSON(t, w.Body.Bytes())
	assert.Equal(t, "intentional_error_for_testing", data["error"])
}

func TestHandleConfig(t *testing.T) {
	s, _ := newTestServer(t)

	w := perform(s, "GET", "/config")
	require.Equal(t, http.StatusOK, w.Code)

	data := decodeJSON(t, w.Body.Bytes())
	assert.Equal(t, "test", data["environment"])
	assert.Equal(t, "INFO", data["log_level"])
	assert.NotEmpty(t, data["version"])
}

func TestHandleTestFeature(t *testing.T) {
	s, _ := newTestServer(t)

	w := perform(s, "GET", "/test-feature")
	require.Equal(t, http.StatusOK, w.Code)

	data := decodeJSON(t, w.Body.Bytes())
	assert.Equal(t, "conventional-commits-demo", data["feature"])
	assert.Contains(t, data, "message")
	assert.Contains(t, data, "timestamp")
}
