/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-10-12 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-19 00:00:00
 * @FilePath: \go-wsmonitor\models\validator.go
 * @Description: 枚举验证器
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package models

import (
	"github.com/kamalyes/go-toolbox/pkg/types"
)

// 全局枚举验证器实例
var (
	// ConnectionStatusValidator 连接状态验证器
	ConnectionStatusValidator = types.NewEnumValidator(
		ConnectionStatusDisconnected,
		ConnectionStatusConnecting,
		ConnectionStatusOpen,
	)

	// PointStatusValidator 测点状态验证器
	PointStatusValidator = types.NewEnumValidator(
		PointStatusNormal,
		PointStatusWarning,
		PointStatusError,
	)

	// DeviceStatusValidator 设备状态验证器
	DeviceStatusValidator = types.NewEnumValidator(
		DeviceStatusOnline,
		DeviceStatusOffline,
		DeviceStatusError,
	)

	// AlarmLevelValidator 告警等级验证器
	AlarmLevelValidator = types.NewEnumValidator(
		AlarmLevelInfo,
		AlarmLevelWarning,
		AlarmLevelError,
	)

	// EventTypeValidator 事件类型验证器
	EventTypeValidator = types.NewEnumValidator(
		EventTypeAll,
		EventTypePointUpdate,
		EventTypeSystemStatusUpdate,
		EventTypeDeviceStatusUpdate,
		EventTypeAlarmUpdate,
	)
)
