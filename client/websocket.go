/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2025-09-06 09:50:55
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-19 00:00:00
 * @FilePath: \go-wsmonitor\client\websocket.go
 * @Description: 底层 WebSocket 读写、拨号与保活
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package client

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/kamalyes/go-wsmonitor/protocol"
)

// DefaultUpgrader 返回默认的WebSocket升级器
var DefaultUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // 允许所有来源
	},
}

// IsNormalClose 检查WebSocket关闭是否为正常关闭
func IsNormalClose(err error) bool {
	return websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway)
}

// dial 在独立协程中拨号，结果投递回事件循环
func (w *Wsc) dial(gen uint64) {
	conn, resp, err := w.dialer.DialContext(w.ctx, w.url, w.header)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if !w.post(func() { w.handleDialed(gen, conn, err) }) && conn != nil {
		_ = conn.Close()
	}
}

// readLoop 读协程，按接收顺序把帧投递到事件循环
func (w *Wsc) readLoop(gen uint64, conn *websocket.Conn) {
	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			w.post(func() { w.handleClosed(gen, err) })
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}
		w.metrics.framesReceived.Inc()
		if !w.post(func() { w.handleFrame(data) }) {
			return
		}
	}
}

// handleFrame 处理一帧文本，在事件循环中执行
func (w *Wsc) handleFrame(data []byte) {
	if string(bytes.TrimSpace(data)) == protocol.PongFrame {
		w.logger.DebugKV("收到PONG", "url", w.url)
		return
	}
	w.dispatcher.HandleFrame(data)
}

// keepAlive 连接打开期间按固定间隔发送 PING，不跟踪回应
func (w *Wsc) keepAlive(ctx context.Context, gen uint64) {
	interval := w.config.KeepAliveInterval
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	ping := protocol.Ping().String()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.mu.Lock()
			if gen == w.gen && w.conn != nil {
				w.writeLocked(ping)
			}
			w.mu.Unlock()
		}
	}
}

// SendRaw 发送一帧文本
// 已连接时立即写出，否则排队到连接打开时发送；只有 Shutdown 之后才返回错误
func (w *Wsc) SendRaw(text string) error {
	if w.shutdown.Load() {
		return ErrClientShutdown
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.conn != nil {
		w.writeLocked(text)
		return nil
	}
	w.pending.Add(func() { w.writeLocked(text) })
	w.metrics.pendingQueueLength.Set(float64(w.pending.Len()))
	w.logger.DebugKV("连接未打开，指令已排队", "text", text, "pending", w.pending.Len())
	return nil
}

// SendMessage 发送任意文本消息
func (w *Wsc) SendMessage(text string) error {
	return w.SendRaw(text)
}

// writeLocked 写出一帧文本，失败时关闭连接交由读协程触发关闭流程
func (w *Wsc) writeLocked(text string) {
	conn := w.conn
	if conn == nil {
		return
	}
	if w.config.WriteTimeout > 0 {
		_ = conn.SetWriteDeadline(time.Now().Add(w.config.WriteTimeout))
	}
	if err := conn.WriteMessage(websocket.TextMessage, []byte(text)); err != nil {
		w.metrics.writeErrorsTotal.Inc()
		w.logger.WarnKV("发送失败，关闭连接", "url", w.url, "error", err)
		_ = conn.Close()
		return
	}
	w.metrics.commandsSent.Inc()
}

// writeCloseLocked 发送关闭帧
func (w *Wsc) writeCloseLocked() {
	if w.conn == nil {
		return
	}
	deadline := time.Now().Add(time.Second)
	_ = w.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
}
