package rest

import (
	"context"
	"encoding/json"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"bitbucket.org/kleinnic74/dotto/logging"
	"bitbucket.org/kleinnic74/dotto/loop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fixedStats loop.Stats

func (s fixedStats) Stats() loop.Stats {
	return loop.Stats(s)
}

var running = fixedStats{State: "running", Frames: 12, LastDelta: 16 * time.Millisecond, LastWork: 4 * time.Millisecond, FPS: 62.5, Drawables: 3}

func executeRequest(s *DebugServer, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)
	return rr
}

func TestFramesReportsStats(t *testing.T) {
	s := NewDebugServer(":0", running, NewFramesHandler(running))
	req, _ := http.NewRequest("GET", "/frames", nil)
	response := executeRequest(s, req)

	require.Equal(t, http.StatusOK, response.Code)
	var stats loop.Stats
	require.NoError(t, json.NewDecoder(response.Body).Decode(&stats))
	assert.Equal(t, uint64(12), stats.Frames)
	assert.Equal(t, 16*time.Millisecond, stats.LastDelta)
	assert.Equal(t, float32(62.5), stats.FPS)
	assert.Equal(t, 3, stats.Drawables)
}

func TestRequestsAreTaggedWithFrame(t *testing.T) {
	s := NewDebugServer(":0", running, NewFramesHandler(running))
	req, _ := http.NewRequest("GET", "/frames", nil)
	req.Header.Set("X-Request-ID", "abc")
	response := executeRequest(s, req)

	assert.Equal(t, "abc", response.Header().Get("X-Request-ID"))
	assert.Equal(t, "12", response.Header().Get("X-Frame"))
	assert.Equal(t, "running", response.Header().Get("X-Loop-State"))
	assert.Empty(t, response.Header().Get("Access-Control-Allow-Origin"))

	s = NewDebugServer(":0", nil, NewLogsHandler())
	req, _ = http.NewRequest("GET", "/logs", nil)
	response = executeRequest(s, req)
	assert.NotEmpty(t, response.Header().Get("X-Request-ID"))
	assert.Empty(t, response.Header().Get("X-Frame"))
}

func TestMetricsIncludeLoopGauges(t *testing.T) {
	s := NewDebugServer(":0", running, NewMetricsHandler(running))
	req, _ := http.NewRequest("GET", "/metrics", nil)
	response := executeRequest(s, req)
	require.Equal(t, http.StatusOK, response.Code)
	body := response.Body.String()
	assert.Contains(t, body, "dotto_loop_last_delta_seconds 0.016")
	assert.Contains(t, body, "dotto_loop_last_work_seconds 0.004")
	assert.Contains(t, body, "dotto_loop_running 1")
	assert.Contains(t, body, "dotto_frames_total")

	stopped := running
	stopped.State = loop.Stopped.String()
	s = NewDebugServer(":0", stopped, NewMetricsHandler(stopped))
	assert.Contains(t, executeRequest(s, req).Body.String(), "dotto_loop_running 0")

	req, _ = http.NewRequest("POST", "/metrics", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, executeRequest(s, req).Code)
}

func TestLogsOrder(t *testing.T) {
	require.NoError(t, logging.Init(logging.Options{MemorySize: 10}))
	logger := logging.From(context.Background())
	logger.Info("first frame")
	logger.Info("second frame")

	s := NewDebugServer(":0", nil, NewLogsHandler())
	read := func(url string) (int, string) {
		req, _ := http.NewRequest("GET", url, nil)
		response := executeRequest(s, req)
		body, err := ioutil.ReadAll(response.Body)
		require.NoError(t, err)
		return response.Code, string(body)
	}

	code, body := read("/logs")
	require.Equal(t, http.StatusOK, code)
	assert.Less(t, strings.Index(body, "second frame"), strings.Index(body, "first frame"))

	code, body = read("/logs?order=oldest")
	require.Equal(t, http.StatusOK, code)
	assert.Less(t, strings.Index(body, "first frame"), strings.Index(body, "second frame"))

	code, _ = read("/logs?order=sideways")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestStartAndShutdown(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	ctx := logging.Context(context.Background(), zap.New(core))

	s := NewDebugServer("127.0.0.1:0", running, NewFramesHandler(running))
	require.NoError(t, s.Start(ctx))
	s.Shutdown(ctx)

	assert.Equal(t, 1, logs.FilterMessage("Debug server stopped").Len())
	assert.Zero(t, logs.FilterMessage("Debug server failed").Len())
}
