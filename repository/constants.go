/**
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-01-31 09:08:55
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-19 00:00:00
 * @FilePath: \go-wsmonitor\repository\constants.go
 * @Description: Repository 层常量定义 - 统一管理 Redis key 前缀和字段名
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package repository

import "time"

const (
	// ============================================================================
	// Redis Key 前缀常量
	// ============================================================================

	// DefaultNodeKeyPrefix 节点状态默认 key 前缀
	DefaultNodeKeyPrefix = "wsmonitor:node:"

	// DefaultNodeTTL 节点状态默认过期时间，节点需在此之前再次上报
	DefaultNodeTTL = 30 * time.Second

	// ============================================================================
	// 告警归档字段名
	// ============================================================================

	// AlarmColumnRaisedAt 告警产生时间列
	AlarmColumnRaisedAt = "raised_at"

	// AlarmMetadataNodeID metadata 中的节点字段
	AlarmMetadataNodeID = "node_id"

	// DefaultCleanupInterval 默认归档清理间隔
	DefaultCleanupInterval = 24 * time.Hour
)
