/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2025-09-06 09:50:55
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-19 00:00:00
 * @FilePath: \go-wsmonitor\client\connection.go
 * @Description: 连接生命周期管理
 *
 * 状态流转：disconnected -> connecting -> open -> disconnected
 * 关闭后若允许重连，按重连间隔再次进入 connecting。
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package client

import (
	"context"
	"time"

	"github.com/gorilla/websocket"
	"github.com/google/uuid"
	"github.com/kamalyes/go-toolbox/pkg/syncx"
)

// runLoop 事件循环，阻塞直到 Shutdown
func (w *Wsc) runLoop() {
	defer close(w.loopDone)

	syncx.NewEventLoop(w.ctx).
		// 所有连接事件与入站帧都以任务形式串行执行
		OnChannel(w.tasks, func(task func()) {
			task()
		}).
		OnPanic(func(r interface{}) {
			w.logger.ErrorKV("客户端事件循环panic", "panic", r, "url", w.url)
		}).
		OnShutdown(func() {
			w.logger.DebugKV("客户端事件循环已停止", "url", w.url)
		}).
		Run()
}

// post 投递任务到事件循环，循环已停止时返回 false
func (w *Wsc) post(task func()) bool {
	select {
	case <-w.ctx.Done():
		return false
	default:
	}
	select {
	case w.tasks <- task:
		return true
	case <-w.ctx.Done():
		return false
	}
}

// Connect 发起连接
// 已有连接或正在拨号时无操作，Stop 之后需要 Reconnect 才能再次连接
func (w *Wsc) Connect() {
	if w.shutdown.Load() {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		w.logger.DebugKV("客户端已停止，忽略连接请求", "url", w.url)
		return
	}
	w.connectLocked()
}

// connectLocked 开始一次拨号，调用方持有 mu
func (w *Wsc) connectLocked() {
	if w.conn != nil || w.dialing {
		return
	}
	w.cancelReconnectLocked()
	w.gen++
	gen := w.gen
	w.dialing = true
	w.setStateLocked(ConnStateConnecting)
	go w.dial(gen)
}

// handleDialed 处理拨号结果，在事件循环中执行
func (w *Wsc) handleDialed(gen uint64, conn *websocket.Conn, err error) {
	w.mu.Lock()
	if gen != w.gen || !w.dialing {
		// 拨号期间调用了 Stop
		w.mu.Unlock()
		if conn != nil {
			_ = conn.Close()
		}
		return
	}
	w.dialing = false

	if err != nil {
		w.setStateLocked(ConnStateDisconnected)
		delay, scheduled := w.scheduleReconnectLocked()
		w.mu.Unlock()

		w.metrics.dialFailuresTotal.Inc()
		w.logger.WarnKV("连接失败",
			"url", w.url,
			"error", err,
			"reconnect", scheduled,
			"delay", delay,
		)
		return
	}

	flushed := w.openLocked(gen, conn)
	sessionID := w.sessionID
	w.mu.Unlock()

	w.metrics.connectionsTotal.Inc()
	w.logger.InfoKV("连接已建立",
		"url", w.url,
		"session_id", sessionID,
		"connect_count", w.connectCount.Load(),
		"flushed", flushed,
	)
	w.notifyConnected(sessionID)
}

// openLocked 切换到已连接状态：执行待发送操作，然后启动保活与读协程
func (w *Wsc) openLocked(gen uint64, conn *websocket.Conn) int {
	w.conn = conn
	w.sessionID = uuid.NewString()
	w.setStateLocked(ConnStateOpen)
	w.connectCount.Add(1)
	w.backoff.Reset()

	if w.config.MaxMessageSize > 0 {
		conn.SetReadLimit(w.config.MaxMessageSize)
	}

	// 待发送操作按入队顺序执行一次，之后队列清空
	flushed := w.pending.Flush()
	w.metrics.pendingQueueLength.Set(0)

	ctx, cancel := context.WithCancel(w.ctx)
	w.connCancel = cancel
	go w.keepAlive(ctx, gen)
	go w.readLoop(gen, conn)
	return flushed
}

// handleClosed 处理连接关闭，在事件循环中执行
func (w *Wsc) handleClosed(gen uint64, cause error) {
	w.mu.Lock()
	if gen != w.gen || w.conn == nil {
		w.mu.Unlock()
		return
	}
	w.teardownLocked()
	delay, scheduled := w.scheduleReconnectLocked()
	w.mu.Unlock()

	w.metrics.disconnectsTotal.Inc()
	if IsNormalClose(cause) {
		w.logger.InfoKV("连接已关闭", "url", w.url, "reconnect", scheduled, "delay", delay)
	} else {
		w.logger.WarnKV("连接异常断开", "url", w.url, "error", cause, "reconnect", scheduled, "delay", delay)
	}
	w.notifyDisconnected(cause)
}

// teardownLocked 关闭当前连接并停止保活
func (w *Wsc) teardownLocked() {
	if w.connCancel != nil {
		w.connCancel()
		w.connCancel = nil
	}
	if w.conn != nil {
		_ = w.conn.Close()
		w.conn = nil
	}
	w.setStateLocked(ConnStateDisconnected)
}

// scheduleReconnectLocked 按重连策略安排下一次拨号
func (w *Wsc) scheduleReconnectLocked() (time.Duration, bool) {
	if w.stopped || !w.shouldReconnect {
		return 0, false
	}
	w.cancelReconnectLocked()

	delay := w.backoff.Duration()
	gen := w.gen
	w.reconnectTimer = time.AfterFunc(delay, func() {
		w.post(func() { w.handleReconnectTimer(gen) })
	})
	w.metrics.reconnectsTotal.Inc()
	return delay, true
}

// handleReconnectTimer 重连定时器到期，在事件循环中执行
func (w *Wsc) handleReconnectTimer(gen uint64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped || !w.shouldReconnect || gen != w.gen {
		return
	}
	w.reconnectTimer = nil
	w.logger.DebugKV("开始重连", "url", w.url, "attempt_after_gen", gen)
	w.connectLocked()
}

// cancelReconnectLocked 取消尚未触发的重连
func (w *Wsc) cancelReconnectLocked() {
	if w.reconnectTimer != nil {
		w.reconnectTimer.Stop()
		w.reconnectTimer = nil
	}
}

// setStateLocked 变更连接状态
func (w *Wsc) setStateLocked(state ConnState) {
	if w.stateMachine.CurrentState() == state {
		return
	}
	if err := w.stateMachine.TransitionTo(state); err != nil {
		w.logger.WarnKV("非法的连接状态转换",
			"from", w.stateMachine.CurrentState(),
			"to", state,
			"error", err,
		)
		return
	}
	if state == ConnStateOpen {
		w.metrics.connectionOpen.Set(1)
	} else {
		w.metrics.connectionOpen.Set(0)
	}
}

// Stop 停止客户端：不再重连，取消待触发的重连，关闭连接
// 已排队的待发送操作保留，Reconnect 后发送
func (w *Wsc) Stop() {
	w.mu.Lock()
	w.stopped = true
	w.shouldReconnect = false
	w.cancelReconnectLocked()
	w.gen++
	w.dialing = false
	wasOpen := w.conn != nil
	if wasOpen {
		w.writeCloseLocked()
	}
	w.teardownLocked()
	w.mu.Unlock()

	if wasOpen {
		w.metrics.disconnectsTotal.Inc()
		w.logger.InfoKV("连接已主动关闭", "url", w.url)
		w.notifyDisconnected(nil)
	}
}

// Reconnect 重新启用自动重连并立即连接
func (w *Wsc) Reconnect() {
	if w.shutdown.Load() {
		return
	}
	w.Stop()

	w.mu.Lock()
	defer w.mu.Unlock()
	w.stopped = false
	w.shouldReconnect = !w.config.DisableReconnect
	w.backoff.Reset()
	w.connectLocked()
}

// Shutdown 停止客户端并结束事件循环，之后发送操作返回 ErrClientShutdown
func (w *Wsc) Shutdown() {
	if !w.shutdown.CompareAndSwap(false, true) {
		return
	}
	w.Stop()
	w.cancel()
	<-w.loopDone

	if dropped := len(w.pending.Drain()); dropped > 0 {
		w.logger.WarnKV("客户端关闭，丢弃未发送的操作", "url", w.url, "count", dropped)
	}
	w.metrics.pendingQueueLength.Set(0)
}
