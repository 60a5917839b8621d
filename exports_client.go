/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2025-12-28 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-19 00:00:00
 * @FilePath: \go-wsmonitor\exports_client.go
 * @Description: 订阅客户端、状态聚合器与测点接口类型导出
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package wsmonitor

import (
	"github.com/kamalyes/go-wsmonitor/client"
	"github.com/kamalyes/go-wsmonitor/pointapi"
	"github.com/kamalyes/go-wsmonitor/store"
)

// ==================== 订阅客户端 ====================
type (
	Wsc           = client.Wsc
	ClientConfig  = client.Config
	ClientMetrics = client.Metrics
	Dispatcher    = client.Dispatcher
	HandlerFunc   = client.HandlerFunc
	HandlerID     = client.HandlerID
)

// ==================== 状态聚合 ====================
type (
	Store          = store.Store
	StoreConfig    = store.Config
	Thresholds     = store.Thresholds
	StatusPolicy   = store.StatusPolicy
	PointHandler   = store.PointHandler
	PointHandlerID = store.PointHandlerID
)

// ==================== 测点接口 ====================
type (
	PointAPIClient = pointapi.Client
	PointAPIConfig = pointapi.Config
)

// ==================== 函数 ====================
var (
	NewClient        = client.New
	NewClientMetrics = client.NewMetrics
	ConfigFromWSC    = client.ConfigFromWSC
	NewStore         = store.New
	NewStatusPolicy  = store.NewStatusPolicy
	NewPointAPI      = pointapi.New
)
