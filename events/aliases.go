/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-01-13 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-19 00:00:00
 * @FilePath: \go-wsmonitor\events\aliases.go
 * @Description: 事件类型定义
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */

package events

import (
	"github.com/kamalyes/go-wsmonitor/models"
)

// 错误变量别名（从 models 包导入）
var (
	ErrPubSubNotSet = models.ErrPubSubNotSet
)

// 事件频道常量
const (
	// EventAlarmRaised 收到新告警
	EventAlarmRaised = models.ChangeEventAlarmRaised
	// EventDeviceStatusChanged 设备状态变化
	EventDeviceStatusChanged = models.ChangeEventDeviceStatusChanged
)

// AlarmRaisedEvent 告警广播事件
type AlarmRaisedEvent = models.AlarmRaisedEvent

// DeviceStatusChangedEvent 设备状态变化事件
type DeviceStatusChangedEvent = models.DeviceStatusChangedEvent

// AlarmRaisedEventHandler 告警广播处理器
type AlarmRaisedEventHandler = models.AlarmRaisedEventHandler

// DeviceStatusChangedEventHandler 设备状态广播处理器
type DeviceStatusChangedEventHandler = models.DeviceStatusChangedEventHandler
