/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2025-12-28 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-19 00:00:00
 * @FilePath: \go-wsmonitor\exports_models.go
 * @Description: Models模块类型导出
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package wsmonitor

import (
	"github.com/kamalyes/go-wsmonitor/models"
)

// ==================== 枚举类型 ====================
type (
	ConnectionStatus = models.ConnectionStatus
	PointStatus      = models.PointStatus
	DeviceStatus     = models.DeviceStatus
	AlarmLevel       = models.AlarmLevel
	EventType        = models.EventType
)

// ==================== 枚举常量 - ConnectionStatus ====================
const (
	ConnectionStatusDisconnected = models.ConnectionStatusDisconnected
	ConnectionStatusConnecting   = models.ConnectionStatusConnecting
	ConnectionStatusOpen         = models.ConnectionStatusOpen
)

// ==================== 枚举常量 - PointStatus ====================
const (
	PointStatusNormal  = models.PointStatusNormal
	PointStatusWarning = models.PointStatusWarning
	PointStatusError   = models.PointStatusError
)

// ==================== 枚举常量 - DeviceStatus ====================
const (
	DeviceStatusOnline  = models.DeviceStatusOnline
	DeviceStatusOffline = models.DeviceStatusOffline
	DeviceStatusError   = models.DeviceStatusError
)

// ==================== 枚举常量 - AlarmLevel ====================
const (
	AlarmLevelInfo    = models.AlarmLevelInfo
	AlarmLevelWarning = models.AlarmLevelWarning
	AlarmLevelError   = models.AlarmLevelError
)

// ==================== 枚举常量 - EventType ====================
const (
	EventTypeAll                = models.EventTypeAll
	EventTypePointUpdate        = models.EventTypePointUpdate
	EventTypeSystemStatusUpdate = models.EventTypeSystemStatusUpdate
	EventTypeDeviceStatusUpdate = models.EventTypeDeviceStatusUpdate
	EventTypeAlarmUpdate        = models.EventTypeAlarmUpdate
)

// ==================== 推送事件 ====================
type (
	Event              = models.Event
	PointUpdate        = models.PointUpdate
	SystemStatusUpdate = models.SystemStatusUpdate
	DeviceStatusUpdate = models.DeviceStatusUpdate
	AlarmUpdate        = models.AlarmUpdate
)

// ==================== 聚合状态 ====================
type (
	PointState    = models.PointState
	SystemState   = models.SystemState
	DeviceState   = models.DeviceState
	AlarmEntry    = models.AlarmEntry
	PointSnapshot = models.PointSnapshot
	Summary       = models.Summary
	PointSummary  = models.PointSummary
	DeviceSummary = models.DeviceSummary
	AlarmSummary  = models.AlarmSummary
	NodeStatus    = models.NodeStatus
	AlarmRecord   = models.AlarmRecord
)

// ==================== 函数 ====================
var (
	DecodeEvent    = models.DecodeEvent
	EncodeEvent    = models.EncodeEvent
	NormalizeValue = models.NormalizeValue
)
