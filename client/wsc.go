/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2025-09-06 09:50:55
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-19 00:00:00
 * @FilePath: \go-wsmonitor\client\wsc.go
 * @Description: Wsc 结构体及其方法
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package client

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jpillora/backoff"
	"github.com/kamalyes/go-logger"
	"github.com/kamalyes/go-toolbox/pkg/syncx"
	"github.com/kamalyes/go-wsmonitor/models"
)

// Wsc 订阅客户端，进程内持有一条长连接
// 打开、消息、关闭、重连定时器等事件全部在同一个事件循环协程中串行处理
type Wsc struct {
	url     string
	config  *Config
	logger  logger.ILogger
	metrics *Metrics
	dialer  *websocket.Dialer
	header  http.Header

	dispatcher   *Dispatcher
	pending      *PendingQueue
	stateMachine *syncx.StateMachine[ConnState]

	ctx      context.Context
	cancel   context.CancelFunc
	tasks    chan func()
	loopDone chan struct{}
	shutdown atomic.Bool

	// 以下字段由 mu 保护
	mu              sync.Mutex
	conn            *websocket.Conn
	connCancel      context.CancelFunc
	gen             uint64 // 每次拨号或 Stop 递增，用于识别过期事件
	dialing         bool
	stopped         bool
	shouldReconnect bool
	reconnectTimer  *time.Timer
	backoff         *backoff.Backoff
	sessionID       string

	connectCount atomic.Int64

	listenerMu     sync.RWMutex
	onConnected    []func(sessionID string)
	onDisconnected []func(err error)
}

// Option 客户端选项
type Option func(*Wsc)

// WithLogger 设置日志器
func WithLogger(l logger.ILogger) Option {
	return func(w *Wsc) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithMetrics 设置指标
func WithMetrics(m *Metrics) Option {
	return func(w *Wsc) {
		if m != nil {
			w.metrics = m
		}
	}
}

// WithDialer 设置自定义拨号器
func WithDialer(d *websocket.Dialer) Option {
	return func(w *Wsc) {
		if d != nil {
			w.dialer = d
		}
	}
}

// WithRequestHeader 设置握手请求头
func WithRequestHeader(h http.Header) Option {
	return func(w *Wsc) {
		w.header = h
	}
}

// New 创建客户端，事件循环随即启动，调用 Connect 后才开始拨号
// 不再使用时调用 Shutdown 释放事件循环
func New(url string, cfg *Config, opts ...Option) *Wsc {
	cfg = cfg.normalize()

	// 初始化状态机
	sm := syncx.NewStateMachine(ConnStateDisconnected)
	sm.AllowTransitions(ConnStateDisconnected, ConnStateConnecting)
	sm.AllowTransitions(ConnStateConnecting, ConnStateOpen, ConnStateDisconnected)
	sm.AllowTransitions(ConnStateOpen, ConnStateDisconnected)

	ctx, cancel := context.WithCancel(context.Background())
	w := &Wsc{
		url:    url,
		config: cfg,
		logger: logger.NewEmptyLogger(),
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: cfg.HandshakeTimeout,
		},
		header:          http.Header{},
		pending:         NewPendingQueue(),
		stateMachine:    sm,
		ctx:             ctx,
		cancel:          cancel,
		tasks:           make(chan func(), cfg.LoopBufferSize),
		loopDone:        make(chan struct{}),
		shouldReconnect: !cfg.DisableReconnect,
		backoff:         cfg.newBackoff(),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.metrics == nil {
		w.metrics = newUnregisteredMetrics()
	}
	w.dispatcher = NewDispatcher(w.logger, w.metrics)

	go w.runLoop()
	return w
}

// OnConnected 添加连接成功回调，可多次调用，回调在事件循环中执行
func (w *Wsc) OnConnected(f func(sessionID string)) {
	if f == nil {
		return
	}
	w.listenerMu.Lock()
	w.onConnected = append(w.onConnected, f)
	w.listenerMu.Unlock()
}

// OnDisconnected 添加连接断开回调，err 为 nil 表示主动关闭
func (w *Wsc) OnDisconnected(f func(err error)) {
	if f == nil {
		return
	}
	w.listenerMu.Lock()
	w.onDisconnected = append(w.onDisconnected, f)
	w.listenerMu.Unlock()
}

// notifyConnected 通知连接成功
func (w *Wsc) notifyConnected(sessionID string) {
	w.listenerMu.RLock()
	listeners := append([]func(string){}, w.onConnected...)
	w.listenerMu.RUnlock()
	for _, f := range listeners {
		w.safeCall("OnConnected", func() { f(sessionID) })
	}
}

// notifyDisconnected 通知断线
func (w *Wsc) notifyDisconnected(err error) {
	w.listenerMu.RLock()
	listeners := append([]func(error){}, w.onDisconnected...)
	w.listenerMu.RUnlock()
	for _, f := range listeners {
		w.safeCall("OnDisconnected", func() { f(err) })
	}
}

// safeCall 执行回调并吞掉 panic
func (w *Wsc) safeCall(name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.ErrorKV("回调执行panic", "callback", name, "panic", r)
		}
	}()
	fn()
}

// AddHandler 注册事件处理器
func (w *Wsc) AddHandler(eventType models.EventType, fn HandlerFunc) HandlerID {
	return w.dispatcher.AddHandler(eventType, fn)
}

// RemoveHandler 移除事件处理器
func (w *Wsc) RemoveHandler(eventType models.EventType, id HandlerID) bool {
	return w.dispatcher.RemoveHandler(eventType, id)
}

// Dispatcher 获取事件分发器
func (w *Wsc) Dispatcher() *Dispatcher {
	return w.dispatcher
}

// URL 连接地址
func (w *Wsc) URL() string {
	return w.url
}

// Config 当前配置
func (w *Wsc) Config() *Config {
	return w.config
}

// State 当前连接状态
func (w *Wsc) State() ConnState {
	return w.stateMachine.CurrentState()
}

// IsOpen 是否已连接
func (w *Wsc) IsOpen() bool {
	return w.State() == ConnStateOpen
}

// ConnectCount 成功建立连接的次数
func (w *Wsc) ConnectCount() int64 {
	return w.connectCount.Load()
}

// SessionID 当前连接的会话ID，未连接时为空
func (w *Wsc) SessionID() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.conn == nil {
		return ""
	}
	return w.sessionID
}

// PendingCount 等待连接打开的操作数量
func (w *Wsc) PendingCount() int {
	return w.pending.Len()
}

// ReconnectEnabled 断线后是否会自动重连
func (w *Wsc) ReconnectEnabled() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.shouldReconnect && !w.stopped
}

// IsShutdown 是否已彻底关闭
func (w *Wsc) IsShutdown() bool {
	return w.shutdown.Load()
}
