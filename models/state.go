/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-10-12 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-19 00:00:00
 * @FilePath: \go-wsmonitor\models\state.go
 * @Description: 聚合状态投影
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package models

// PointState 测点最新状态
type PointState struct {
	Name      string      `json:"name"`
	Value     string      `json:"value"`
	Timestamp int64       `json:"timestamp"`
	Driver    string      `json:"driver,omitempty"`
	Device    string      `json:"device,omitempty"`
	Status    PointStatus `json:"status"`
}

// NewPointState 从测点更新构造状态
func NewPointState(u *PointUpdate, status PointStatus) PointState {
	return PointState{
		Name:      u.Name,
		Value:     u.Value,
		Timestamp: u.Timestamp,
		Driver:    u.Driver,
		Device:    u.Device,
		Status:    status,
	}
}

// SystemState 系统资源状态
type SystemState struct {
	CPU       float64 `json:"cpu"`
	Memory    float64 `json:"memory"`
	Disk      float64 `json:"disk"`
	Network   float64 `json:"network"`
	Timestamp int64   `json:"timestamp"`
}

// NewSystemState 从系统状态更新构造
func NewSystemState(u *SystemStatusUpdate) SystemState {
	return SystemState{CPU: u.CPU, Memory: u.Memory, Disk: u.Disk, Network: u.Network, Timestamp: u.Timestamp}
}

// DeviceState 设备最新状态
type DeviceState struct {
	DeviceID     string       `json:"deviceId"`
	Status       DeviceStatus `json:"status"`
	ResponseTime float64      `json:"responseTime"`
	Timestamp    int64        `json:"timestamp"`
}

// NewDeviceState 从设备状态更新构造
func NewDeviceState(u *DeviceStatusUpdate) DeviceState {
	return DeviceState{DeviceID: u.DeviceID, Status: u.Status, ResponseTime: u.ResponseTime, Timestamp: u.Timestamp}
}

// AlarmEntry 告警历史条目
type AlarmEntry struct {
	AlarmID   string     `json:"alarmId"`
	Type      string     `json:"type"`
	Level     AlarmLevel `json:"level"`
	Message   string     `json:"message"`
	Timestamp int64      `json:"timestamp"`
	DeviceID  string     `json:"deviceId,omitempty"`
	PointName string     `json:"pointName,omitempty"`
}

// NewAlarmEntry 从告警更新构造
func NewAlarmEntry(u *AlarmUpdate) AlarmEntry {
	return AlarmEntry{
		AlarmID:   u.AlarmID,
		Type:      u.Type,
		Level:     u.Level,
		Message:   u.Message,
		Timestamp: u.Timestamp,
		DeviceID:  u.DeviceID,
		PointName: u.PointName,
	}
}

// PointSummary 测点统计
type PointSummary struct {
	Total   int `json:"total"`
	Normal  int `json:"normal"`
	Warning int `json:"warning"`
	Error   int `json:"error"`
}

// DeviceSummary 设备统计
type DeviceSummary struct {
	Total   int `json:"total"`
	Online  int `json:"online"`
	Offline int `json:"offline"`
	Error   int `json:"error"`
}

// AlarmSummary 告警统计
type AlarmSummary struct {
	Total   int `json:"total"`
	Info    int `json:"info"`
	Warning int `json:"warning"`
	Error   int `json:"error"`
}

// Summary 看板汇总
type Summary struct {
	Points  PointSummary  `json:"points"`
	Devices DeviceSummary `json:"devices"`
	Alarms  AlarmSummary  `json:"alarms"`
}

// PointSnapshot HTTP 接口返回的测点快照
type PointSnapshot struct {
	Value     string `json:"value"`
	Timestamp int64  `json:"timestamp"`
	Quality   string `json:"quality,omitempty"`
}

// ToPointUpdate 转换为测点更新，便于与实时事件走同一路径
func (s PointSnapshot) ToPointUpdate(name string) *PointUpdate {
	return &PointUpdate{Name: name, Value: s.Value, Timestamp: s.Timestamp}
}
