/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-01-13 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-19 00:00:00
 * @FilePath: \go-wsmonitor\events\alarm_events.go
 * @Description: 告警与设备状态广播
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */

package events

import (
	"context"
	"time"

	"github.com/kamalyes/go-wsmonitor/models"
)

// PublishAlarmRaised 广播新告警
func PublishAlarmRaised(ctx context.Context, p Publisher, entry models.AlarmEntry) error {
	event := AlarmRaisedEvent{
		Alarm:       entry,
		NodeID:      p.GetNodeID(),
		PublishedAt: time.Now(),
	}
	return publishEventHelper(ctx, p, EventAlarmRaised, event, map[string]interface{}{
		"alarm_id": entry.AlarmID,
		"level":    entry.Level,
	})
}

// PublishDeviceStatusChanged 广播设备状态变化
func PublishDeviceStatusChanged(ctx context.Context, p Publisher, state models.DeviceState) error {
	event := DeviceStatusChangedEvent{
		Device:      state,
		NodeID:      p.GetNodeID(),
		PublishedAt: time.Now(),
	}
	return publishEventHelper(ctx, p, EventDeviceStatusChanged, event, map[string]interface{}{
		"device_id": state.DeviceID,
		"status":    state.Status,
	})
}

// SubscribeAlarmRaised 订阅告警广播（支持多个callback注册）
// 返回取消订阅函数，调用后将停止接收该事件
func SubscribeAlarmRaised(p Publisher, handler AlarmRaisedEventHandler) (func() error, error) {
	return subscribeEventHelper(p, []string{EventAlarmRaised}, handler, "告警广播事件")
}

// SubscribeDeviceStatusChanged 订阅设备状态变化广播
// 返回取消订阅函数，调用后将停止接收该事件
func SubscribeDeviceStatusChanged(p Publisher, handler DeviceStatusChangedEventHandler) (func() error, error) {
	return subscribeEventHelper(p, []string{EventDeviceStatusChanged}, handler, "设备状态广播事件")
}
