/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-10-12 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-19 00:00:00
 * @FilePath: \go-wsmonitor\models\enums.go
 * @Description: 枚举类型定义
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package models

// ConnectionStatus 连接状态
type ConnectionStatus string

const (
	ConnectionStatusDisconnected ConnectionStatus = "disconnected" // 已断开
	ConnectionStatusConnecting   ConnectionStatus = "connecting"   // 连接中
	ConnectionStatusOpen         ConnectionStatus = "open"         // 已连接
)

// String 实现Stringer接口
func (s ConnectionStatus) String() string {
	return string(s)
}

// IsValid 检查连接状态是否有效
func (s ConnectionStatus) IsValid() bool {
	return ConnectionStatusValidator.IsValid(s)
}

// PointStatus 测点状态，由阈值策略计算得出
type PointStatus string

const (
	PointStatusNormal  PointStatus = "normal"  // 正常
	PointStatusWarning PointStatus = "warning" // 告警
	PointStatusError   PointStatus = "error"   // 故障
)

// String 实现Stringer接口
func (s PointStatus) String() string {
	return string(s)
}

// IsValid 检查测点状态是否有效
func (s PointStatus) IsValid() bool {
	return PointStatusValidator.IsValid(s)
}

// DeviceStatus 设备状态
type DeviceStatus string

const (
	DeviceStatusOnline  DeviceStatus = "online"  // 在线
	DeviceStatusOffline DeviceStatus = "offline" // 离线
	DeviceStatusError   DeviceStatus = "error"   // 故障
)

// String 实现Stringer接口
func (s DeviceStatus) String() string {
	return string(s)
}

// IsValid 检查设备状态是否有效
func (s DeviceStatus) IsValid() bool {
	return DeviceStatusValidator.IsValid(s)
}

// AlarmLevel 告警等级
type AlarmLevel string

const (
	AlarmLevelInfo    AlarmLevel = "info"    // 提示
	AlarmLevelWarning AlarmLevel = "warning" // 警告
	AlarmLevelError   AlarmLevel = "error"   // 错误
)

// String 实现Stringer接口
func (l AlarmLevel) String() string {
	return string(l)
}

// IsValid 检查告警等级是否有效
func (l AlarmLevel) IsValid() bool {
	return AlarmLevelValidator.IsValid(l)
}

// EventType 服务端推送事件的判别字段取值
type EventType string

const (
	EventTypeAll                EventType = "*"                    // 通配，匹配所有事件
	EventTypePointUpdate        EventType = "POINT_UPDATE"         // 测点更新
	EventTypeSystemStatusUpdate EventType = "SYSTEM_STATUS_UPDATE" // 系统资源状态
	EventTypeDeviceStatusUpdate EventType = "DEVICE_STATUS_UPDATE" // 设备状态
	EventTypeAlarmUpdate        EventType = "ALARM_UPDATE"         // 告警
)

// String 实现Stringer接口
func (t EventType) String() string {
	return string(t)
}

// IsValid 检查事件类型是否有效，通配符也视为有效
func (t EventType) IsValid() bool {
	return EventTypeValidator.IsValid(t)
}

// IsWildcard 是否为通配事件
func (t EventType) IsWildcard() bool {
	return t == EventTypeAll
}
