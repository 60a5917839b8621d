/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2025-12-28 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-19 00:00:00
 * @FilePath: \go-wsmonitor\exports_repository.go
 * @Description: 仓储与广播模块导出
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package wsmonitor

import (
	"github.com/kamalyes/go-wsmonitor/events"
	"github.com/kamalyes/go-wsmonitor/repository"
)

// ==================== 仓储 ====================
type (
	AlarmArchiveRepository    = repository.AlarmArchiveRepository
	AlarmQueryOptions         = repository.AlarmQueryOptions
	ArchiveConfig             = repository.ArchiveConfig
	NodeStatusRepository      = repository.NodeStatusRepository
	NodeStatusConfig          = repository.NodeStatusConfig
	RedisNodeStatusRepository = repository.RedisNodeStatusRepository
)

var (
	NewAlarmArchiveRepository    = repository.NewAlarmArchiveRepository
	NewRedisNodeStatusRepository = repository.NewRedisNodeStatusRepository
)

// ==================== 跨节点广播 ====================
type (
	Publisher                       = events.Publisher
	PubSubPublisher                 = events.PubSubPublisher
	AlarmRaisedEvent                = events.AlarmRaisedEvent
	DeviceStatusChangedEvent        = events.DeviceStatusChangedEvent
	AlarmRaisedEventHandler         = events.AlarmRaisedEventHandler
	DeviceStatusChangedEventHandler = events.DeviceStatusChangedEventHandler
)

const (
	EventAlarmRaised         = events.EventAlarmRaised
	EventDeviceStatusChanged = events.EventDeviceStatusChanged
)

var (
	NewPublisher                 = events.NewPublisher
	SubscribeAlarmRaised         = events.SubscribeAlarmRaised
	SubscribeDeviceStatusChanged = events.SubscribeDeviceStatusChanged
)
