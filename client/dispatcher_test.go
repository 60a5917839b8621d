/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-10-12 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-19 00:00:00
 * @FilePath: \go-wsmonitor\client\dispatcher_test.go
 * @Description: 事件分发器测试
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package client

import (
	"errors"
	"testing"

	"github.com/kamalyes/go-wsmonitor/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	pointFrame  = `{"event":"POINT_UPDATE","name":"Temp","value":"25","timestamp":1}`
	alarmFrame  = `{"event":"ALARM_UPDATE","alarmId":"a1","type":"t","level":"info","message":"m","timestamp":2}`
	systemFrame = `{"event":"SYSTEM_STATUS_UPDATE","cpu":1,"memory":2,"disk":3,"network":4,"timestamp":3}`
	deviceFrame = `{"event":"DEVICE_STATUS_UPDATE","deviceId":"d1","status":"online","responseTime":5,"timestamp":4}`
)

// TestDispatcherWildcardAndSpecific 测试通配处理器接收全部事件，具体处理器只接收对应事件
func TestDispatcherWildcardAndSpecific(t *testing.T) {
	d := NewDispatcher(nil, nil)

	var all []models.EventType
	var points []string
	d.AddHandler(models.EventTypeAll, func(evt models.Event) error {
		all = append(all, evt.EventType())
		return nil
	})
	d.AddHandler(models.EventTypePointUpdate, func(evt models.Event) error {
		points = append(points, evt.(*models.PointUpdate).Name)
		return nil
	})

	for _, frame := range []string{pointFrame, alarmFrame, systemFrame, deviceFrame} {
		d.HandleFrame([]byte(frame))
	}

	assert.Equal(t, []models.EventType{
		models.EventTypePointUpdate,
		models.EventTypeAlarmUpdate,
		models.EventTypeSystemStatusUpdate,
		models.EventTypeDeviceStatusUpdate,
	}, all)
	assert.Equal(t, []string{"Temp"}, points)
}

// TestDispatcherOrder 测试先通配后具体，各自按注册顺序
func TestDispatcherOrder(t *testing.T) {
	d := NewDispatcher(nil, nil)
	var order []string
	record := func(name string) HandlerFunc {
		return func(models.Event) error {
			order = append(order, name)
			return nil
		}
	}

	d.AddHandler(models.EventTypeAlarmUpdate, record("specific-1"))
	d.AddHandler(models.EventTypeAll, record("wildcard-1"))
	d.AddHandler(models.EventTypeAlarmUpdate, record("specific-2"))
	d.AddHandler(models.EventTypeAll, record("wildcard-2"))

	invoked := d.HandleFrame([]byte(alarmFrame))
	assert.Equal(t, 4, invoked)
	assert.Equal(t, []string{"wildcard-1", "wildcard-2", "specific-1", "specific-2"}, order)
}

// TestDispatcherFaultIsolation 测试处理器出错或 panic 不影响其它处理器
func TestDispatcherFaultIsolation(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics, err := NewMetrics(registry)
	require.NoError(t, err)
	d := NewDispatcher(nil, metrics)

	var calls []string
	d.AddHandler(models.EventTypeAll, func(models.Event) error {
		calls = append(calls, "wildcard-error")
		return errors.New("boom")
	})
	d.AddHandler(models.EventTypeAll, func(models.Event) error {
		calls = append(calls, "wildcard-panic")
		panic("kaboom")
	})
	d.AddHandler(models.EventTypePointUpdate, func(models.Event) error {
		calls = append(calls, "point-panic")
		panic(errors.New("nested"))
	})
	d.AddHandler(models.EventTypePointUpdate, func(models.Event) error {
		calls = append(calls, "point-ok")
		return nil
	})

	assert.NotPanics(t, func() {
		d.HandleFrame([]byte(pointFrame))
	})
	assert.Equal(t, []string{"wildcard-error", "wildcard-panic", "point-panic", "point-ok"}, calls)
	assert.Equal(t, 3.0, testutil.ToFloat64(metrics.handlerFailures.WithLabelValues("POINT_UPDATE")))

	// 之后的帧照常分发
	calls = nil
	d.HandleFrame([]byte(pointFrame))
	assert.Len(t, calls, 4)
}

// TestDispatcherMalformedFrames 测试非法帧不触发任何处理器
func TestDispatcherMalformedFrames(t *testing.T) {
	metrics := newUnregisteredMetrics()
	d := NewDispatcher(nil, metrics)
	calls := 0
	d.AddHandler(models.EventTypeAll, func(models.Event) error {
		calls++
		return nil
	})
	d.AddHandler(models.EventTypePointUpdate, func(models.Event) error {
		calls++
		return nil
	})

	frames := []string{
		"not json",
		"{",
		"[]",
		"42",
		`{"name":"Temp","value":"1"}`,
		`{"event":""}`,
		`{"event":null}`,
		`{"event":"NOT_A_REAL_EVENT","name":"x"}`,
		`{"event":"POINT_UPDATE"}`,
	}
	for _, frame := range frames {
		assert.NotPanics(t, func() {
			assert.Equal(t, 0, d.HandleFrame([]byte(frame)), frame)
		})
	}
	assert.Equal(t, 0, calls)
	assert.Equal(t, 8.0, testutil.ToFloat64(metrics.framesDropped.WithLabelValues(dropReasonDecode)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.framesDropped.WithLabelValues(dropReasonUnknown)))
}

// TestDispatcherRemoveHandler 测试按标识移除
func TestDispatcherRemoveHandler(t *testing.T) {
	d := NewDispatcher(nil, nil)
	var calls []string

	same := func(name string) HandlerFunc {
		return func(models.Event) error {
			calls = append(calls, name)
			return nil
		}
	}
	first := d.AddHandler(models.EventTypePointUpdate, same("first"))
	second := d.AddHandler(models.EventTypePointUpdate, same("second"))
	assert.NotEqual(t, first, second)
	assert.Equal(t, 2, d.HandlerCount(models.EventTypePointUpdate))

	assert.True(t, d.RemoveHandler(models.EventTypePointUpdate, first))
	assert.False(t, d.RemoveHandler(models.EventTypePointUpdate, first), "重复移除无操作")
	assert.False(t, d.RemoveHandler(models.EventTypeAlarmUpdate, second), "类型不匹配无操作")
	assert.False(t, d.RemoveHandler(models.EventTypePointUpdate, HandlerID(9999)))

	d.HandleFrame([]byte(pointFrame))
	assert.Equal(t, []string{"second"}, calls)

	assert.True(t, d.RemoveHandler(models.EventTypePointUpdate, second))
	assert.Equal(t, 0, d.HandlerCount(models.EventTypePointUpdate))
	assert.Equal(t, 0, d.HandleFrame([]byte(pointFrame)))
}

// TestDispatcherRegisterDuringDispatch 测试分发过程中增删处理器
func TestDispatcherRegisterDuringDispatch(t *testing.T) {
	d := NewDispatcher(nil, nil)
	lateCalls := 0

	var selfID HandlerID
	selfID = d.AddHandler(models.EventTypePointUpdate, func(models.Event) error {
		d.RemoveHandler(models.EventTypePointUpdate, selfID)
		d.AddHandler(models.EventTypePointUpdate, func(models.Event) error {
			lateCalls++
			return nil
		})
		return nil
	})

	assert.Equal(t, 1, d.HandleFrame([]byte(pointFrame)))
	assert.Equal(t, 0, lateCalls, "本次分发使用快照")
	assert.Equal(t, 1, d.HandleFrame([]byte(pointFrame)))
	assert.Equal(t, 1, lateCalls)
}

// TestDispatcherNilHandler 测试空处理器被忽略
func TestDispatcherNilHandler(t *testing.T) {
	d := NewDispatcher(nil, nil)
	assert.Equal(t, HandlerID(0), d.AddHandler(models.EventTypePointUpdate, nil))
	assert.Equal(t, 0, d.HandlerCount(models.EventTypePointUpdate))
}
