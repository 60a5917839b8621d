/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-10-15 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-19 00:00:00
 * @FilePath: \go-wsmonitor\events\events_test.go
 * @Description: 变更广播测试
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */

package events

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/kamalyes/go-cachex"
	"github.com/kamalyes/go-wsmonitor/internal/testsetup"
	"github.com/kamalyes/go-wsmonitor/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPublisherWithoutPubSub 测试未配置 PubSub
func TestPublisherWithoutPubSub(t *testing.T) {
	p := NewPublisher(nil, nil, "node-1", nil)
	assert.Equal(t, "node-1", p.GetNodeID())
	assert.NotNil(t, p.GetContext())
	assert.NotNil(t, p.GetLogger())

	err := p.PublishAlarm(context.Background(), models.AlarmEntry{AlarmID: "a1"})
	assert.ErrorIs(t, err, ErrPubSubNotSet)
	err = p.PublishDeviceStatus(context.Background(), models.DeviceState{DeviceID: "d1"})
	assert.ErrorIs(t, err, ErrPubSubNotSet)

	_, err = p.SubscribeAlarms(func(*AlarmRaisedEvent) error { return nil })
	assert.ErrorIs(t, err, ErrPubSubNotSet)
	_, err = SubscribeEvent(p, []string{"x"}, nil)
	assert.ErrorIs(t, err, ErrPubSubNotSet)
	_, err = SubscribeEventTyped(p, []string{"x"}, func(*models.PointUpdate) error { return nil })
	assert.ErrorIs(t, err, ErrPubSubNotSet)
	assert.ErrorIs(t, PublishEvent(context.Background(), p, "x", 1), ErrPubSubNotSet)
}

// TestAlarmBroadcast 测试告警经 Redis 广播
func TestAlarmBroadcast(t *testing.T) {
	redisClient := testsetup.RedisClient(t)
	defer testsetup.CleanupRedisKeys(t, redisClient, "wsmonitor-test:")

	pubsub := cachex.NewPubSub(redisClient, cachex.PubSubConfig{Namespace: "wsmonitor-test"})
	p := NewPublisher(context.Background(), pubsub, "node-1", nil)

	var mu sync.Mutex
	var alarms []*AlarmRaisedEvent
	var devices []*DeviceStatusChangedEvent

	unsubAlarms, err := p.SubscribeAlarms(func(event *AlarmRaisedEvent) error {
		mu.Lock()
		alarms = append(alarms, event)
		mu.Unlock()
		return nil
	})
	require.NoError(t, err)
	defer func() { _ = unsubAlarms() }()

	unsubDevices, err := p.SubscribeDeviceStatus(func(event *DeviceStatusChangedEvent) error {
		mu.Lock()
		devices = append(devices, event)
		mu.Unlock()
		return nil
	})
	require.NoError(t, err)
	defer func() { _ = unsubDevices() }()

	// 等待订阅就绪
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, p.PublishAlarm(context.Background(), models.AlarmEntry{
		AlarmID: "a1", Level: models.AlarmLevelError, Message: "over temperature",
	}))
	require.NoError(t, p.PublishDeviceStatus(context.Background(), models.DeviceState{
		DeviceID: "plc-1", Status: models.DeviceStatusOffline,
	}))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(alarms) == 1 && len(devices) == 1
	}, 3*time.Second, 50*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "a1", alarms[0].Alarm.AlarmID)
	assert.Equal(t, "node-1", alarms[0].NodeID)
	assert.Equal(t, models.DeviceStatusOffline, devices[0].Device.Status)
}

// TestCustomEventTyped 测试自定义事件按类型反序列化
func TestCustomEventTyped(t *testing.T) {
	redisClient := testsetup.RedisClient(t)
	defer testsetup.CleanupRedisKeys(t, redisClient, "wsmonitor-test:")

	pubsub := cachex.NewPubSub(redisClient, cachex.PubSubConfig{Namespace: "wsmonitor-test"})
	p := NewPublisher(context.Background(), pubsub, "node-1", nil)

	received := make(chan *models.PointUpdate, 1)
	unsubscribe, err := SubscribeEventTyped(p, []string{"wsmonitor.point.control"}, func(cmd *models.PointUpdate) error {
		received <- cmd
		return nil
	})
	require.NoError(t, err)
	defer func() { _ = unsubscribe() }()

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, PublishEvent(context.Background(), p, "wsmonitor.point.control", models.PointUpdate{
		Name: "Valve1", Value: "1", Timestamp: 1,
	}))

	select {
	case cmd := <-received:
		assert.Equal(t, "Valve1", cmd.Name)
		assert.Equal(t, "1", cmd.Value)
	case <-time.After(3 * time.Second):
		t.Fatal("未收到自定义事件")
	}
}
