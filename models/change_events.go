/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-01-13 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-19 00:00:00
 * @FilePath: \go-wsmonitor\models\change_events.go
 * @Description: 跨进程广播的状态变更事件
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */

package models

import "time"

// 广播频道
const (
	// ChangeEventAlarmRaised 收到新告警
	ChangeEventAlarmRaised = "wsmonitor.alarm.raised"
	// ChangeEventDeviceStatusChanged 设备状态发生变化
	ChangeEventDeviceStatusChanged = "wsmonitor.device.status_changed"
)

// AlarmRaisedEvent 告警广播
type AlarmRaisedEvent struct {
	Alarm       AlarmEntry `json:"alarm"`
	NodeID      string     `json:"node_id"`
	PublishedAt time.Time  `json:"published_at"`
}

// DeviceStatusChangedEvent 设备状态变化广播
type DeviceStatusChangedEvent struct {
	Device      DeviceState `json:"device"`
	NodeID      string      `json:"node_id"`
	PublishedAt time.Time   `json:"published_at"`
}

// AlarmRaisedEventHandler 告警广播处理器
type AlarmRaisedEventHandler func(event *AlarmRaisedEvent) error

// DeviceStatusChangedEventHandler 设备状态广播处理器
type DeviceStatusChangedEventHandler func(event *DeviceStatusChangedEvent) error
