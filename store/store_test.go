/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-10-13 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-19 00:00:00
 * @FilePath: \go-wsmonitor\store\store_test.go
 * @Description: 状态聚合器测试
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package store

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/kamalyes/go-wsmonitor/client"
	"github.com/kamalyes/go-wsmonitor/models"
	"github.com/kamalyes/go-wsmonitor/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSubscriber 记录发出的指令，通过真实分发器投递帧
type fakeSubscriber struct {
	mu           sync.Mutex
	dispatcher   *client.Dispatcher
	commands     []string
	connected    []func(string)
	connectCount int64
	err          error
}

func newFakeSubscriber() *fakeSubscriber {
	return &fakeSubscriber{dispatcher: client.NewDispatcher(nil, nil), connectCount: 1}
}

func (f *fakeSubscriber) send(cmd protocol.Command) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.commands = append(f.commands, cmd.String())
	return nil
}

func (f *fakeSubscriber) AddHandler(t models.EventType, fn client.HandlerFunc) client.HandlerID {
	return f.dispatcher.AddHandler(t, fn)
}

func (f *fakeSubscriber) RemoveHandler(t models.EventType, id client.HandlerID) bool {
	return f.dispatcher.RemoveHandler(t, id)
}

func (f *fakeSubscriber) SubscribePoint(name string) error {
	return f.send(protocol.Subscribe(protocol.PointChannel(name)))
}

func (f *fakeSubscriber) UnsubscribePoint(name string) error {
	return f.send(protocol.Unsubscribe(protocol.PointChannel(name)))
}

func (f *fakeSubscriber) SubscribeSystemStatus() error {
	return f.send(protocol.Subscribe(protocol.SystemStatusChannel()))
}

func (f *fakeSubscriber) SubscribeDeviceStatus(id string) error {
	return f.send(protocol.Subscribe(protocol.DeviceStatusChannel(id)))
}

func (f *fakeSubscriber) SubscribeAlarms(level models.AlarmLevel) error {
	return f.send(protocol.Subscribe(protocol.AlarmsChannel(level)))
}

func (f *fakeSubscriber) OnConnected(fn func(string)) {
	f.mu.Lock()
	f.connected = append(f.connected, fn)
	f.mu.Unlock()
}

func (f *fakeSubscriber) ConnectCount() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.connectCount
}

func (f *fakeSubscriber) reconnect() {
	f.mu.Lock()
	f.connectCount++
	listeners := append([]func(string){}, f.connected...)
	f.mu.Unlock()
	for _, fn := range listeners {
		fn("session")
	}
}

func (f *fakeSubscriber) emit(frame string) int {
	return f.dispatcher.HandleFrame([]byte(frame))
}

func (f *fakeSubscriber) takeCommands() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	cmds := f.commands
	f.commands = nil
	return cmds
}

type fakeFetcher struct {
	mu         sync.Mutex
	points     map[string]models.PointSnapshot
	err        error
	controlErr error
	controls   []string
	batches    [][]string
}

func (f *fakeFetcher) FetchPoints(_ context.Context, prefix string) (map[string]models.PointSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	result := make(map[string]models.PointSnapshot)
	for name, snap := range f.points {
		if strings.HasPrefix(name, prefix) {
			result[name] = snap
		}
	}
	return result, nil
}

func (f *fakeFetcher) FetchBatch(_ context.Context, names []string) (map[string]models.PointSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batches = append(f.batches, names)
	result := make(map[string]models.PointSnapshot)
	for _, name := range names {
		if snap, ok := f.points[name]; ok {
			result[name] = snap
		}
	}
	return result, nil
}

func (f *fakeFetcher) SendControl(_ context.Context, point, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.controlErr != nil {
		return f.controlErr
	}
	f.controls = append(f.controls, point+"="+value)
	return nil
}

func (f *fakeFetcher) batchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.batches)
}

func pointFrame(name, value string, ts int64) string {
	return fmt.Sprintf(`{"event":"POINT_UPDATE","name":%q,"value":%q,"timestamp":%d}`, name, value, ts)
}

func alarmFrame(id string, level models.AlarmLevel, ts int64) string {
	return fmt.Sprintf(`{"event":"ALARM_UPDATE","alarmId":%q,"type":"threshold","level":%q,"message":"m","timestamp":%d}`, id, level, ts)
}

func deviceFrame(id string, status models.DeviceStatus, ts int64) string {
	return fmt.Sprintf(`{"event":"DEVICE_STATUS_UPDATE","deviceId":%q,"status":%q,"responseTime":12.5,"timestamp":%d}`, id, status, ts)
}

func newTestStore(t *testing.T, cfg *Config, fetcher PointFetcher, opts ...Option) (*Store, *fakeSubscriber) {
	t.Helper()
	sub := newFakeSubscriber()
	s := New(sub, fetcher, cfg, opts...)
	t.Cleanup(s.Close)
	require.NoError(t, s.Init(context.Background()))
	sub.takeCommands()
	return s, sub
}

// TestStoreInit 测试初始化订阅并拉取测点
func TestStoreInit(t *testing.T) {
	fetcher := &fakeFetcher{points: map[string]models.PointSnapshot{
		"Temp":     {Value: "25", Timestamp: 10},
		"Pressure": {Value: "90", Timestamp: 10},
	}}
	sub := newFakeSubscriber()
	s := New(sub, fetcher, nil)
	defer s.Close()

	require.NoError(t, s.Init(context.Background()))
	assert.Equal(t, []string{
		"SUBSCRIBE SYSTEM_STATUS",
		"SUBSCRIBE DEVICE_STATUS",
		"SUBSCRIBE ALARMS",
		"SUBSCRIBE Pressure",
		"SUBSCRIBE Temp",
	}, sub.takeCommands())

	p, ok := s.Point("Pressure")
	require.True(t, ok)
	assert.Equal(t, models.PointStatusError, p.Status)
	assert.Equal(t, 2, s.PointCount())
	assert.Empty(t, s.Error())
	assert.False(t, s.Loading())

	// 重复初始化无操作
	require.NoError(t, s.Init(context.Background()))
	assert.Empty(t, sub.takeCommands())
	assert.Equal(t, 1, sub.dispatcher.HandlerCount(models.EventTypePointUpdate))
}

// TestStoreInitShutdown 测试订阅源已关闭时返回错误
func TestStoreInitShutdown(t *testing.T) {
	sub := newFakeSubscriber()
	sub.err = models.ErrClientShutdown
	s := New(sub, nil, nil)
	defer s.Close()
	assert.True(t, models.IsClientShutdownError(s.Init(context.Background())))
}

// TestStorePointClassification 测试测点状态分级
func TestStorePointClassification(t *testing.T) {
	s, sub := newTestStore(t, nil, nil)

	cases := map[string]models.PointStatus{
		"85":    models.PointStatusError,
		"70":    models.PointStatusWarning,
		"10":    models.PointStatusNormal,
		"abc":   models.PointStatusNormal,
		"80":    models.PointStatusWarning,
		"60":    models.PointStatusNormal,
		"85.5℃": models.PointStatusError,
		"":      models.PointStatusNormal,
	}
	for value, want := range cases {
		sub.emit(pointFrame("P", value, 1))
		p, ok := s.Point("P")
		require.True(t, ok)
		assert.Equal(t, want, p.Status, value)
		assert.Equal(t, value, p.Value)
	}

	// 数值型 value 归一为文本
	sub.emit(`{"event":"POINT_UPDATE","name":"N","value":95,"timestamp":1}`)
	p, _ := s.Point("N")
	assert.Equal(t, "95", p.Value)
	assert.Equal(t, models.PointStatusError, p.Status)
}

// TestStorePointThresholds 测试按测点覆盖阈值
func TestStorePointThresholds(t *testing.T) {
	s, sub := newTestStore(t, &Config{
		WarningThreshold: Float64(10),
		ErrorThreshold:   Float64(20),
		PointThresholds:  map[string]Thresholds{"Flow": {Warning: 100, Error: 200}},
	}, nil)

	sub.emit(pointFrame("Temp", "15", 1))
	sub.emit(pointFrame("Flow", "150", 1))
	temp, _ := s.Point("Temp")
	flow, _ := s.Point("Flow")
	assert.Equal(t, models.PointStatusWarning, temp.Status)
	assert.Equal(t, models.PointStatusWarning, flow.Status)

	s.SetPointThresholds("Flow", Thresholds{Warning: 50, Error: 120})
	flow, _ = s.Point("Flow")
	assert.Equal(t, models.PointStatusError, flow.Status, "设置阈值后立即重新分级")
}

// TestStoreZeroThresholdKept 测试显式设置为 0 的阈值不被默认值替换
func TestStoreZeroThresholdKept(t *testing.T) {
	cfg := &Config{WarningThreshold: Float64(0), ErrorThreshold: Float64(50)}
	s, sub := newTestStore(t, cfg, nil)

	assert.Equal(t, Thresholds{Warning: 0, Error: 50}, s.config.Thresholds())
	assert.Equal(t, 0.0, *cfg.WarningThreshold)

	sub.emit(pointFrame("Temp", "10", 1))
	temp, _ := s.Point("Temp")
	assert.Equal(t, models.PointStatusWarning, temp.Status)

	d, _ := newTestStore(t, &Config{}, nil)
	assert.Equal(t, Thresholds{Warning: DefaultWarningThreshold, Error: DefaultErrorThreshold}, d.config.Thresholds())
}

// TestStoreNegativeAlarmLimits 测试非正的告警上限被收敛
func TestStoreNegativeAlarmLimits(t *testing.T) {
	s, sub := newTestStore(t, &Config{AlarmHistoryLimit: -1, RecentAlarmCount: -1}, nil)
	assert.Equal(t, 1, s.AlarmHistoryLimit())

	assert.NotPanics(t, func() {
		sub.emit(alarmFrame("a1", models.AlarmLevelWarning, 1))
		sub.emit(alarmFrame("a2", models.AlarmLevelError, 2))
	})
	alarms := s.Alarms()
	require.Len(t, alarms, 1)
	assert.Equal(t, "a2", alarms[0].AlarmID)
	assert.Empty(t, s.RecentAlarms())
}

// TestParseNumeric 测试数值解析
func TestParseNumeric(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"85", 85, true},
		{" 12.5 ", 12.5, true},
		{"-3", -3, true},
		{"1e2", 100, true},
		{"42abc", 42, true},
		{".5V", 0.5, true},
		{"abc", 0, false},
		{"", 0, false},
		{"NaN", 0, false},
		{"-", 0, false},
		{"inf", 0, false},
		{"Inf", 0, false},
		{"INF", 0, false},
		{"infinity", 0, false},
		{"+inf", 0, false},
		{"nan", 0, false},
		{"0x1p7", 0, true},
		{"1_000", 1, true},
		{"Infinity", math.Inf(1), true},
		{"-Infinity", math.Inf(-1), true},
		{"1e999", math.Inf(1), true},
	}
	for _, c := range cases {
		got, ok := ParseNumeric(c.in)
		assert.Equal(t, c.ok, ok, c.in)
		if c.ok && math.IsInf(c.want, 0) {
			assert.Equal(t, c.want, got, c.in)
		} else if c.ok {
			assert.InDelta(t, c.want, got, 1e-9, c.in)
		}
	}

	policy := NewStatusPolicy(Thresholds{Warning: 60, Error: 80}, nil)
	for _, v := range []string{"inf", "Inf", "infinity", "INF", "0x1p7"} {
		assert.Equal(t, models.PointStatusNormal, policy.Classify("x", v), v)
	}
	assert.Equal(t, models.PointStatusError, policy.Classify("x", "Infinity"))
}

// TestStoreAlarmHistoryBounded 测试告警历史上限
func TestStoreAlarmHistoryBounded(t *testing.T) {
	s, sub := newTestStore(t, &Config{AlarmHistoryLimit: 3, RecentAlarmCount: 2}, nil)

	for i := 1; i <= 5; i++ {
		sub.emit(alarmFrame(fmt.Sprintf("a%d", i), models.AlarmLevelWarning, int64(i)))
	}
	ids := func(entries []models.AlarmEntry) []string {
		out := make([]string, 0, len(entries))
		for _, e := range entries {
			out = append(out, e.AlarmID)
		}
		return out
	}
	assert.Equal(t, []string{"a5", "a4", "a3"}, ids(s.Alarms()))
	assert.Equal(t, []string{"a5", "a4"}, ids(s.RecentAlarms()))

	s.SetAlarmHistoryLimit(2)
	assert.Equal(t, []string{"a5", "a4"}, ids(s.Alarms()))
	assert.Equal(t, 2, s.AlarmHistoryLimit())

	sub.emit(alarmFrame("e1", models.AlarmLevelError, 6))
	assert.Equal(t, []string{"e1", "a5"}, ids(s.Alarms()))
	assert.Len(t, s.AlarmsByLevel(models.AlarmLevelError), 1)
	assert.Len(t, s.AlarmsByLevel(models.AlarmLevelInfo), 0)

	s.ClearAlarms()
	assert.Empty(t, s.Alarms())
	assert.Empty(t, s.RecentAlarms())
}

// TestStoreUnsubscribeEvicts 测试取消订阅立即移除测点
func TestStoreUnsubscribeEvicts(t *testing.T) {
	s, sub := newTestStore(t, nil, nil)

	require.NoError(t, s.SubscribePoint("Temp"))
	sub.emit(pointFrame("Temp", "25", 1))
	_, ok := s.Point("Temp")
	require.True(t, ok)

	require.NoError(t, s.UnsubscribePoint("Temp"))
	_, ok = s.Point("Temp")
	assert.False(t, ok)
	assert.Equal(t, []string{"SUBSCRIBE Temp", "UNSUBSCRIBE Temp"}, sub.takeCommands())

	// 迟到的更新不会恢复测点
	sub.emit(pointFrame("Temp", "26", 2))
	_, ok = s.Point("Temp")
	assert.False(t, ok)

	require.NoError(t, s.SubscribePoint("Temp"))
	sub.emit(pointFrame("Temp", "27", 3))
	p, ok := s.Point("Temp")
	require.True(t, ok)
	assert.Equal(t, "27", p.Value)

	assert.True(t, models.IsInvalidCommandError(s.UnsubscribePoint("")))
	assert.True(t, models.IsInvalidCommandError(s.SubscribePoint("bad name")))
}

// TestStoreDevicesAndSystem 测试设备与系统状态投影
func TestStoreDevicesAndSystem(t *testing.T) {
	s, sub := newTestStore(t, nil, nil)

	sub.emit(deviceFrame("d2", models.DeviceStatusOffline, 1))
	sub.emit(deviceFrame("d1", models.DeviceStatusOnline, 1))
	sub.emit(deviceFrame("d1", models.DeviceStatusError, 2))
	sub.emit(`{"event":"SYSTEM_STATUS_UPDATE","cpu":12.5,"memory":40,"disk":70,"network":3,"timestamp":9}`)

	devices := s.Devices()
	require.Len(t, devices, 2)
	assert.Equal(t, "d1", devices[0].DeviceID)
	assert.Equal(t, models.DeviceStatusError, devices[0].Status)
	assert.Len(t, s.DevicesByStatus(models.DeviceStatusOffline), 1)
	assert.Equal(t, 2, s.DeviceCount())

	sys := s.SystemStatus()
	assert.Equal(t, 12.5, sys.CPU)
	assert.Equal(t, int64(9), sys.Timestamp)

	sub.emit(pointFrame("A", "90", 1))
	sub.emit(pointFrame("B", "70", 1))
	sub.emit(pointFrame("C", "1", 1))
	sub.emit(alarmFrame("x", models.AlarmLevelInfo, 1))

	sum := s.Summary()
	assert.Equal(t, models.PointSummary{Total: 3, Normal: 1, Warning: 1, Error: 1}, sum.Points)
	assert.Equal(t, models.DeviceSummary{Total: 2, Offline: 1, Error: 1}, sum.Devices)
	assert.Equal(t, models.AlarmSummary{Total: 1, Info: 1}, sum.Alarms)

	names := []string{}
	for _, p := range s.Points() {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"A", "B", "C"}, names)
	assert.Len(t, s.PointsByStatus(models.PointStatusWarning), 1)

	s.ClearPoints()
	s.ClearDevices()
	assert.Zero(t, s.PointCount())
	assert.Zero(t, s.DeviceCount())
}

// TestStoreFetchFailure 测试拉取失败设置错误信息且不影响实时流
func TestStoreFetchFailure(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("connection refused")}
	s, sub := newTestStore(t, nil, fetcher)

	assert.Contains(t, s.Error(), "connection refused")
	sub.emit(pointFrame("Temp", "25", 1))
	_, ok := s.Point("Temp")
	assert.True(t, ok)

	fetcher.mu.Lock()
	fetcher.err = nil
	fetcher.points = map[string]models.PointSnapshot{"Flow": {Value: "1", Timestamp: 1}}
	fetcher.mu.Unlock()

	require.NoError(t, s.FetchPoints(context.Background(), ""))
	assert.Empty(t, s.Error())
	assert.Equal(t, []string{"SUBSCRIBE Flow"}, sub.takeCommands())

	s.SetError("boom")
	assert.Equal(t, "boom", s.Error())
	s.ClearError()
	assert.Empty(t, s.Error())
}

// TestStoreFetchKeepsNewerValues 测试快照不覆盖更新的实时值
func TestStoreFetchKeepsNewerValues(t *testing.T) {
	fetcher := &fakeFetcher{points: map[string]models.PointSnapshot{}}
	s, sub := newTestStore(t, nil, fetcher)

	sub.emit(`{"event":"POINT_UPDATE","name":"Temp","value":"30","timestamp":100,"driver":"modbus","device":"plc1"}`)
	fetcher.mu.Lock()
	fetcher.points = map[string]models.PointSnapshot{
		"Temp": {Value: "10", Timestamp: 50},
		"Flow": {Value: "5", Timestamp: 50},
	}
	fetcher.mu.Unlock()

	require.NoError(t, s.FetchPoints(context.Background(), ""))
	temp, _ := s.Point("Temp")
	assert.Equal(t, "30", temp.Value)

	fetcher.mu.Lock()
	fetcher.points["Temp"] = models.PointSnapshot{Value: "40", Timestamp: 200}
	fetcher.mu.Unlock()
	require.NoError(t, s.FetchPoints(context.Background(), "Te"))
	temp, _ = s.Point("Temp")
	assert.Equal(t, "40", temp.Value)
	assert.Equal(t, "modbus", temp.Driver, "保留实时事件中的驱动信息")
	assert.Equal(t, "plc1", temp.Device)
}

// TestStorePointHandlers 测试单测点回调
func TestStorePointHandlers(t *testing.T) {
	s, sub := newTestStore(t, nil, nil)

	var seen []string
	id := s.AddPointHandler("Temp", func(u *models.PointUpdate) {
		p, ok := s.Point(u.Name)
		require.True(t, ok, "回调执行时状态已更新")
		seen = append(seen, p.Value)
	})
	s.AddPointHandler("Temp", func(*models.PointUpdate) { panic("boom") })
	other := 0
	s.AddPointHandler("Flow", func(*models.PointUpdate) { other++ })

	assert.NotPanics(t, func() { sub.emit(pointFrame("Temp", "1", 1)) })
	sub.emit(pointFrame("Temp", "2", 2))
	assert.Equal(t, []string{"1", "2"}, seen)
	assert.Zero(t, other)

	assert.True(t, s.RemovePointHandler("Temp", id))
	assert.False(t, s.RemovePointHandler("Temp", id))
	sub.emit(pointFrame("Temp", "3", 3))
	assert.Equal(t, []string{"1", "2"}, seen)
	assert.Equal(t, PointHandlerID(0), s.AddPointHandler("Temp", nil))
}

// TestStoreSendControl 测试控制指令待确认状态
func TestStoreSendControl(t *testing.T) {
	fetcher := &fakeFetcher{}
	s, sub := newTestStore(t, nil, fetcher)

	require.NoError(t, s.SendControl(context.Background(), "Valve", "1"))
	assert.True(t, s.IsPending("Valve"))
	v, _ := s.PendingControl("Valve")
	assert.Equal(t, "1", v)
	assert.Equal(t, []string{"Valve=1"}, fetcher.controls)

	sub.emit(pointFrame("Valve", "1", 5))
	assert.False(t, s.IsPending("Valve"))

	fetcher.controlErr = models.ErrControlRejected
	assert.True(t, models.IsControlRejectedError(s.SendControl(context.Background(), "Valve", "0")))
	assert.False(t, s.IsPending("Valve"))

	noFetcher, _ := newTestStore(t, nil, nil)
	assert.True(t, models.IsFetchError(noFetcher.SendControl(context.Background(), "Valve", "1")))
}

// TestStoreResubscribeAfterReconnect 测试重连后补发订阅
func TestStoreResubscribeAfterReconnect(t *testing.T) {
	fetcher := &fakeFetcher{points: map[string]models.PointSnapshot{"Temp": {Value: "1", Timestamp: 1}}}
	s, sub := newTestStore(t, nil, fetcher)
	require.NoError(t, s.SubscribeAlarms(models.AlarmLevelError))
	require.NoError(t, s.SubscribeDeviceStatus("dev-1"))
	sub.takeCommands()

	sub.reconnect()
	assert.Equal(t, []string{
		"SUBSCRIBE SYSTEM_STATUS",
		"SUBSCRIBE DEVICE_STATUS",
		"SUBSCRIBE DEVICE_STATUS dev-1",
		"SUBSCRIBE ALARMS",
		"SUBSCRIBE ALARMS error",
		"SUBSCRIBE Temp",
	}, sub.takeCommands())
	assert.Eventually(t, func() bool { return fetcher.batchCount() == 1 }, time.Second, 10*time.Millisecond)
}

// TestStoreResubscribeDisabled 测试关闭自动补订阅
func TestStoreResubscribeDisabled(t *testing.T) {
	_, sub := newTestStore(t, &Config{DisableResubscribe: true}, nil)
	sub.reconnect()
	assert.Empty(t, sub.takeCommands())
}

// TestStoreRefresh 测试手动刷新
func TestStoreRefresh(t *testing.T) {
	fetcher := &fakeFetcher{points: map[string]models.PointSnapshot{"Temp": {Value: "1", Timestamp: 1}}}
	s, sub := newTestStore(t, &Config{PointPrefixes: []string{"Te"}}, fetcher)
	sub.emit(pointFrame("Adhoc", "2", 1))

	require.NoError(t, s.Refresh(context.Background()))
	assert.Equal(t, []string{"SUBSCRIBE Adhoc", "SUBSCRIBE Temp", "SUBSCRIBE Temp"}, sub.takeCommands())
	assert.Equal(t, []string{"Adhoc", "Temp"}, s.TrackedPoints())
}

// TestStoreRun 测试周期刷新
func TestStoreRun(t *testing.T) {
	fetcher := &fakeFetcher{points: map[string]models.PointSnapshot{"Temp": {Value: "1", Timestamp: 1}}}
	s, sub := newTestStore(t, &Config{AutoRefresh: true, RefreshInterval: 20 * time.Millisecond}, fetcher)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		sub.mu.Lock()
		defer sub.mu.Unlock()
		return len(sub.commands) >= 2
	}, time.Second, 10*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run 未在取消后返回")
	}
}

type recordingSink struct {
	alarms  chan models.AlarmEntry
	devices chan models.DeviceState
}

func newRecordingSink() *recordingSink {
	return &recordingSink{alarms: make(chan models.AlarmEntry, 8), devices: make(chan models.DeviceState, 8)}
}

func (r *recordingSink) Archive(_ context.Context, entry models.AlarmEntry) error {
	r.alarms <- entry
	return nil
}

func (r *recordingSink) PublishAlarm(_ context.Context, entry models.AlarmEntry) error {
	r.alarms <- entry
	return nil
}

func (r *recordingSink) PublishDeviceStatus(_ context.Context, state models.DeviceState) error {
	r.devices <- state
	return nil
}

// TestStoreSinks 测试归档与广播
func TestStoreSinks(t *testing.T) {
	archive := newRecordingSink()
	publish := newRecordingSink()
	_, sub := newTestStore(t, nil, nil, WithArchiver(archive), WithPublisher(publish))

	sub.emit(alarmFrame("a1", models.AlarmLevelError, 1))
	select {
	case entry := <-archive.alarms:
		assert.Equal(t, "a1", entry.AlarmID)
	case <-time.After(time.Second):
		t.Fatal("告警未归档")
	}
	select {
	case entry := <-publish.alarms:
		assert.Equal(t, models.AlarmLevelError, entry.Level)
	case <-time.After(time.Second):
		t.Fatal("告警未广播")
	}

	sub.emit(deviceFrame("d1", models.DeviceStatusOnline, 1))
	sub.emit(deviceFrame("d1", models.DeviceStatusOnline, 2))
	sub.emit(deviceFrame("d1", models.DeviceStatusOffline, 3))

	var statuses []models.DeviceStatus
	for i := 0; i < 2; i++ {
		select {
		case state := <-publish.devices:
			statuses = append(statuses, state.Status)
		case <-time.After(time.Second):
			t.Fatal("设备状态未广播")
		}
	}
	assert.ElementsMatch(t, []models.DeviceStatus{models.DeviceStatusOnline, models.DeviceStatusOffline}, statuses)
	select {
	case state := <-publish.devices:
		t.Fatalf("状态未变化时不应广播: %+v", state)
	case <-time.After(100 * time.Millisecond):
	}
}

// TestStoreClose 测试关闭后注销处理器
func TestStoreClose(t *testing.T) {
	s, sub := newTestStore(t, nil, nil)
	s.Close()
	s.Close()
	assert.Zero(t, sub.dispatcher.HandlerCount(models.EventTypePointUpdate))
	assert.Zero(t, sub.emit(pointFrame("Temp", "1", 1)))
}
