/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-10-17 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-19 00:00:00
 * @FilePath: \go-wsmonitor\server\server_test.go
 * @Description: HTTP 接口测试
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/kamalyes/go-wsmonitor/client"
	"github.com/kamalyes/go-wsmonitor/models"
	"github.com/kamalyes/go-wsmonitor/repository"
	"github.com/kamalyes/go-wsmonitor/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFetcher struct {
	mu       sync.Mutex
	points   map[string]models.PointSnapshot
	controls map[string]string
}

func (f *stubFetcher) FetchPoints(_ context.Context, _ string) (map[string]models.PointSnapshot, error) {
	return f.points, nil
}

func (f *stubFetcher) FetchBatch(_ context.Context, _ []string) (map[string]models.PointSnapshot, error) {
	return map[string]models.PointSnapshot{}, nil
}

func (f *stubFetcher) SendControl(_ context.Context, point, value string) error {
	if value == "reject" {
		return models.NewTypedError(models.ErrTypeControlRejected, "point %s: read only", point)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.controls[point] = value
	return nil
}

type stubArchive struct {
	opts *repository.AlarmQueryOptions
}

func (a *stubArchive) Query(_ context.Context, opts *repository.AlarmQueryOptions) ([]*models.AlarmRecord, error) {
	a.opts = opts
	return []*models.AlarmRecord{models.NewAlarmRecord(models.AlarmEntry{AlarmID: "x", Level: models.AlarmLevelError, Timestamp: 1})}, nil
}

func (a *stubArchive) Count(_ context.Context, _ *repository.AlarmQueryOptions) (int64, error) {
	return 7, nil
}

type stubNodes struct{}

func (stubNodes) List(context.Context) ([]*models.NodeStatus, error) {
	return []*models.NodeStatus{{NodeID: "n1", State: "open"}}, nil
}

type fixture struct {
	wsc     *client.Wsc
	store   *store.Store
	fetcher *stubFetcher
	archive *stubArchive
	server  *Server
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	registry := prometheus.NewRegistry()
	metrics, err := client.NewMetrics(registry)
	require.NoError(t, err)

	wsc := client.New("ws://127.0.0.1:1/ws", nil, client.WithMetrics(metrics))
	t.Cleanup(wsc.Shutdown)

	fetcher := &stubFetcher{
		points: map[string]models.PointSnapshot{
			"Temp1": {Value: "90", Timestamp: 1},
			"Temp2": {Value: "10", Timestamp: 1},
		},
		controls: map[string]string{},
	}
	st := store.New(wsc, fetcher, nil)
	require.NoError(t, st.Init(context.Background()))
	t.Cleanup(st.Close)

	archive := &stubArchive{}
	srv := New(st, wsc, WithGatherer(registry), WithArchive(archive), WithNodes(stubNodes{}))
	return &fixture{wsc: wsc, store: st, fetcher: fetcher, archive: archive, server: srv}
}

func (f *fixture) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

// TestHealthDisconnected 测试未连接时健康检查
func TestHealthDisconnected(t *testing.T) {
	f := newFixture(t)
	rec := f.do(http.MethodGet, PathHealth, "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	health := decode[HealthResponse](t, rec)
	assert.Equal(t, models.ConnectionStatusDisconnected, health.State)
	assert.False(t, health.Open)
	assert.Equal(t, "ws://127.0.0.1:1/ws", health.URL)
}

// TestPointsEndpoints 测试测点查询与过滤
func TestPointsEndpoints(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/api/v1/points", "")
	require.Equal(t, http.StatusOK, rec.Code)
	points := decode[[]models.PointState](t, rec)
	require.Len(t, points, 2)
	assert.Equal(t, "Temp1", points[0].Name)

	rec = f.do(http.MethodGet, "/api/v1/points?status=error", "")
	require.Equal(t, http.StatusOK, rec.Code)
	points = decode[[]models.PointState](t, rec)
	require.Len(t, points, 1)
	assert.Equal(t, "Temp1", points[0].Name)

	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodGet, "/api/v1/points?status=hot", "").Code)
	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/api/v1/points/Missing", "").Code)

	f.wsc.Dispatcher().HandleFrame([]byte(`{"event":"POINT_UPDATE","name":"Temp2","value":65,"timestamp":2}`))
	rec = f.do(http.MethodGet, "/api/v1/points/Temp2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	view := decode[PointView](t, rec)
	assert.Equal(t, "65", view.Value)
	assert.Equal(t, models.PointStatusWarning, view.Status)
	assert.False(t, view.Pending)
}

// TestSubscribeEndpoints 测试订阅与取消订阅
func TestSubscribeEndpoints(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, http.StatusAccepted, f.do(http.MethodPost, "/api/v1/points/Flow/subscribe", "").Code)
	assert.Contains(t, f.store.TrackedPoints(), "Flow")

	assert.Equal(t, http.StatusNoContent, f.do(http.MethodDelete, "/api/v1/points/Temp1/subscribe", "").Code)
	_, ok := f.store.Point("Temp1")
	assert.False(t, ok)

	// 名称含空格时拒绝
	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodPost, "/api/v1/points/a%20b/subscribe", "").Code)
}

// TestControlEndpoint 测试控制下发
func TestControlEndpoint(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, http.StatusAccepted, f.do(http.MethodPost, "/api/v1/points/Temp1/control", `{"value":"42"}`).Code)
	assert.Equal(t, "42", f.fetcher.controls["Temp1"])

	view := decode[PointView](t, f.do(http.MethodGet, "/api/v1/points/Temp1", ""))
	assert.True(t, view.Pending)
	assert.Equal(t, "42", view.PendingControl)

	assert.Equal(t, http.StatusConflict, f.do(http.MethodPost, "/api/v1/points/Temp1/control", `{"value":"reject"}`).Code)
	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodPost, "/api/v1/points/Temp1/control", `not json`).Code)
}

// TestDevicesAndAlarms 测试设备与告警查询
func TestDevicesAndAlarms(t *testing.T) {
	f := newFixture(t)
	d := f.wsc.Dispatcher()
	d.HandleFrame([]byte(`{"event":"DEVICE_STATUS_UPDATE","deviceId":"d1","status":"offline","responseTime":12,"timestamp":1}`))
	d.HandleFrame([]byte(`{"event":"DEVICE_STATUS_UPDATE","deviceId":"d2","status":"online","responseTime":3,"timestamp":1}`))
	d.HandleFrame([]byte(`{"event":"ALARM_UPDATE","alarmId":"a1","type":"t","level":"warning","message":"m","timestamp":1}`))
	d.HandleFrame([]byte(`{"event":"ALARM_UPDATE","alarmId":"a2","type":"t","level":"error","message":"m","timestamp":2}`))

	devices := decode[[]models.DeviceState](t, f.do(http.MethodGet, "/api/v1/devices?status=offline", ""))
	require.Len(t, devices, 1)
	assert.Equal(t, "d1", devices[0].DeviceID)
	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/api/v1/devices/d2", "").Code)
	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/api/v1/devices/d9", "").Code)

	alarms := decode[[]models.AlarmEntry](t, f.do(http.MethodGet, "/api/v1/alarms", ""))
	require.Len(t, alarms, 2)
	assert.Equal(t, "a2", alarms[0].AlarmID, "新告警在前")

	alarms = decode[[]models.AlarmEntry](t, f.do(http.MethodGet, "/api/v1/alarms?limit=1", ""))
	assert.Len(t, alarms, 1)
	alarms = decode[[]models.AlarmEntry](t, f.do(http.MethodGet, "/api/v1/alarms?level=warning", ""))
	require.Len(t, alarms, 1)
	assert.Equal(t, "a1", alarms[0].AlarmID)
	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodGet, "/api/v1/alarms?limit=-1", "").Code)
	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodGet, "/api/v1/alarms?level=fatal", "").Code)

	summary := decode[models.Summary](t, f.do(http.MethodGet, "/api/v1/summary", ""))
	assert.Equal(t, 2, summary.Devices.Total)
	assert.Equal(t, 1, summary.Alarms.Error)
	assert.Equal(t, 1, summary.Points.Error)

	assert.Equal(t, http.StatusNoContent, f.do(http.MethodDelete, "/api/v1/alarms", "").Code)
	assert.Empty(t, f.store.Alarms())
}

// TestArchiveAndNodes 测试归档查询与节点列表
func TestArchiveAndNodes(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/api/v1/alarms/archive?level=error&device=d1&since=1000&limit=5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[ArchiveResponse](t, rec)
	assert.Equal(t, int64(7), resp.Total)
	assert.Len(t, resp.Records, 1)
	require.NotNil(t, f.archive.opts)
	assert.Equal(t, models.AlarmLevelError, f.archive.opts.Level)
	assert.Equal(t, "d1", f.archive.opts.DeviceID)
	assert.Equal(t, 5, f.archive.opts.Limit)
	assert.Equal(t, int64(1000), f.archive.opts.Since.UnixMilli())

	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodGet, "/api/v1/alarms/archive?since=yesterday", "").Code)

	nodes := decode[[]models.NodeStatus](t, f.do(http.MethodGet, "/api/v1/nodes", ""))
	require.Len(t, nodes, 1)
	assert.Equal(t, "n1", nodes[0].NodeID)
}

// TestStateAndMetrics 测试运行状态与指标
func TestStateAndMetrics(t *testing.T) {
	f := newFixture(t)

	state := decode[StateResponse](t, f.do(http.MethodGet, "/api/v1/state", ""))
	assert.Equal(t, []string{"Temp1", "Temp2"}, state.TrackedPoints)
	assert.False(t, state.Loading)
	assert.Equal(t, 100, state.AlarmHistoryLimit)

	assert.Equal(t, http.StatusAccepted, f.do(http.MethodPost, "/api/v1/refresh", "").Code)

	rec := f.do(http.MethodGet, PathMetrics, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "wsmonitor_")
}

// TestOptionalRoutesAbsent 测试未配置归档与节点时路由不存在
func TestOptionalRoutesAbsent(t *testing.T) {
	f := newFixture(t)
	srv := New(f.store, f.wsc)
	for _, path := range []string{"/api/v1/alarms/archive", "/api/v1/nodes", PathMetrics} {
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
	}
}

// TestStatusForError 错误类型到 HTTP 状态码的映射
func TestStatusForError(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{models.ErrClientShutdown, http.StatusServiceUnavailable},
		{models.ErrInvalidCommand, http.StatusBadRequest},
		{models.NewTypedError(models.ErrTypeConfigInvalid, "limit %q", "x"), http.StatusBadRequest},
		{models.NewTypedError(models.ErrTypePointNotFound, "point %s", "p"), http.StatusNotFound},
		{models.NewTypedError(models.ErrTypeControlRejected, "point %s", "p"), http.StatusConflict},
		{models.NewTypedError(models.ErrTypeFetchFailed, "status %d", 502), http.StatusBadGateway},
		{models.ErrFetcherNotConfigured, http.StatusBadGateway},
		{assert.AnError, http.StatusInternalServerError},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, statusForError(c.err), c.err.Error())
	}
}
