/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2025-12-29 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-19 00:00:00
 * @FilePath: \go-wsmonitor\repository\aliases.go
 * @Description: 类型别名 - 为 models 包中的类型创建别名，便于在 repository 层使用
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package repository

import "github.com/kamalyes/go-wsmonitor/models"

// 类型别名
type (
	// AlarmEntry 告警条目
	AlarmEntry = models.AlarmEntry

	// AlarmLevel 告警等级
	AlarmLevel = models.AlarmLevel

	// AlarmRecord 告警归档记录
	AlarmRecord = models.AlarmRecord

	// NodeStatus 节点状态
	NodeStatus = models.NodeStatus
)
