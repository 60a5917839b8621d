/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2025-12-28 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-19 00:00:00
 * @FilePath: \go-wsmonitor\client\aliases.go
 * @Description: Client 类型别名 - 为 models 包中的类型创建别名，便于在 client 层使用
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */

package client

import (
	"github.com/kamalyes/go-wsmonitor/models"
)

// ConnState 连接状态
type ConnState = models.ConnectionStatus

// 常量别名
const (
	ConnStateDisconnected = models.ConnectionStatusDisconnected
	ConnStateConnecting   = models.ConnectionStatusConnecting
	ConnStateOpen         = models.ConnectionStatusOpen
)

// 错误别名
var (
	ErrClientShutdown = models.ErrClientShutdown
	ErrInvalidCommand = models.ErrInvalidCommand
)
