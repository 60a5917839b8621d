/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-10-16 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-19 00:00:00
 * @FilePath: \go-wsmonitor\models\node_status.go
 * @Description: 监控节点上报状态
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package models

import "time"

// NodeStatus 一个监控节点的上游连接概况
type NodeStatus struct {
	NodeID       string    `json:"node_id"`
	URL          string    `json:"url"`
	State        string    `json:"state"`
	SessionID    string    `json:"session_id,omitempty"`
	ConnectCount int64     `json:"connect_count"`
	PointCount   int       `json:"point_count"`
	AlarmCount   int       `json:"alarm_count"`
	StartedAt    time.Time `json:"started_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
