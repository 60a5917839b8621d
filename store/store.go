/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-10-13 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-19 00:00:00
 * @FilePath: \go-wsmonitor\store\store.go
 * @Description: 状态聚合器 - 将实时事件折叠为可查询的内存投影
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package store

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kamalyes/go-logger"
	"github.com/kamalyes/go-wsmonitor/client"
	"github.com/kamalyes/go-wsmonitor/models"
)

// Subscriber 实时订阅源，由 *client.Wsc 实现
type Subscriber interface {
	AddHandler(eventType models.EventType, fn client.HandlerFunc) client.HandlerID
	RemoveHandler(eventType models.EventType, id client.HandlerID) bool
	SubscribePoint(name string) error
	UnsubscribePoint(name string) error
	SubscribeSystemStatus() error
	SubscribeDeviceStatus(deviceID string) error
	SubscribeAlarms(level models.AlarmLevel) error
	OnConnected(f func(sessionID string))
	ConnectCount() int64
}

// PointFetcher 测点 HTTP 接口，由 *pointapi.Client 实现
type PointFetcher interface {
	FetchPoints(ctx context.Context, prefix string) (map[string]models.PointSnapshot, error)
	FetchBatch(ctx context.Context, names []string) (map[string]models.PointSnapshot, error)
	SendControl(ctx context.Context, point, value string) error
}

// AlarmArchiver 告警归档
type AlarmArchiver interface {
	Archive(ctx context.Context, entry models.AlarmEntry) error
}

// ChangePublisher 变更广播
type ChangePublisher interface {
	PublishAlarm(ctx context.Context, entry models.AlarmEntry) error
	PublishDeviceStatus(ctx context.Context, state models.DeviceState) error
}

// PointHandler 单测点更新回调，在状态折叠之后执行
type PointHandler func(update *models.PointUpdate)

// PointHandlerID 单测点回调标识
type PointHandlerID uint64

type pointHandlerEntry struct {
	id PointHandlerID
	fn PointHandler
}

// Store 状态聚合器
type Store struct {
	sub       Subscriber
	fetcher   PointFetcher
	config    *Config
	policy    *StatusPolicy
	logger    logger.ILogger
	archiver  AlarmArchiver
	publisher ChangePublisher

	ctx    context.Context
	cancel context.CancelFunc

	mu           sync.RWMutex
	points       map[string]models.PointState
	evicted      map[string]struct{} // 已取消订阅，迟到的更新丢弃
	tracked      map[string]struct{} // 已订阅测点
	system       models.SystemState
	devices      map[string]models.DeviceState
	alarms       []models.AlarmEntry
	alarmLimit   int
	controls     map[string]string // 已下发控制、尚未收到更新的测点
	deviceSubs   map[string]struct{}
	alarmSubs    map[models.AlarmLevel]struct{}
	systemSub    bool
	errorMessage string

	loading atomic.Int32

	handlerMu     sync.RWMutex
	pointHandlers map[string][]pointHandlerEntry
	nextHandlerID atomic.Uint64

	initialized atomic.Bool
	closed      atomic.Bool
	handlerIDs  map[models.EventType]client.HandlerID
}

// Option 聚合器选项
type Option func(*Store)

// WithLogger 设置日志器
func WithLogger(l logger.ILogger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithArchiver 设置告警归档
func WithArchiver(a AlarmArchiver) Option {
	return func(s *Store) {
		s.archiver = a
	}
}

// WithPublisher 设置变更广播
func WithPublisher(p ChangePublisher) Option {
	return func(s *Store) {
		s.publisher = p
	}
}

// New 创建状态聚合器，fetcher 可为空
func New(sub Subscriber, fetcher PointFetcher, cfg *Config, opts ...Option) *Store {
	cfg = cfg.normalize()
	ctx, cancel := context.WithCancel(context.Background())
	s := &Store{
		sub:           sub,
		fetcher:       fetcher,
		config:        cfg,
		policy:        NewStatusPolicy(cfg.Thresholds(), cfg.PointThresholds),
		logger:        logger.NewEmptyLogger(),
		ctx:           ctx,
		cancel:        cancel,
		points:        make(map[string]models.PointState),
		evicted:       make(map[string]struct{}),
		tracked:       make(map[string]struct{}),
		system:        models.SystemState{Timestamp: time.Now().UnixMilli()},
		devices:       make(map[string]models.DeviceState),
		alarmLimit:    max(cfg.AlarmHistoryLimit, 1),
		controls:      make(map[string]string),
		deviceSubs:    make(map[string]struct{}),
		alarmSubs:     make(map[models.AlarmLevel]struct{}),
		pointHandlers: make(map[string][]pointHandlerEntry),
		handlerIDs:    make(map[models.EventType]client.HandlerID),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Init 注册事件处理器，订阅系统状态、设备状态与告警，然后拉取测点
// 重复调用无操作；只有订阅源已关闭时返回错误，拉取失败记录在 Error() 中
func (s *Store) Init(ctx context.Context) error {
	if !s.initialized.CompareAndSwap(false, true) {
		return nil
	}

	for _, eventType := range []models.EventType{
		models.EventTypePointUpdate,
		models.EventTypeSystemStatusUpdate,
		models.EventTypeDeviceStatusUpdate,
		models.EventTypeAlarmUpdate,
	} {
		s.handlerIDs[eventType] = s.sub.AddHandler(eventType, s.handleEvent)
	}
	s.sub.OnConnected(s.handleConnected)

	if err := s.SubscribeSystemStatus(); err != nil {
		return err
	}
	if err := s.SubscribeDeviceStatus(""); err != nil {
		return err
	}
	if err := s.SubscribeAlarms(""); err != nil {
		return err
	}

	s.logger.InfoKV("状态聚合器已初始化", "prefixes", s.config.PointPrefixes)

	if s.fetcher == nil {
		return nil
	}
	for _, prefix := range s.config.PointPrefixes {
		if err := s.FetchPoints(ctx, prefix); models.IsClientShutdownError(err) {
			return err
		}
	}
	return nil
}

// Close 注销事件处理器并停止后台任务
func (s *Store) Close() {
	if !s.closed.CompareAndSwap(false, true) {
		return
	}
	s.cancel()
	for eventType, id := range s.handlerIDs {
		s.sub.RemoveHandler(eventType, id)
	}
}

// Config 获取配置
func (s *Store) Config() *Config {
	return s.config
}

// Policy 获取状态分级策略
func (s *Store) Policy() *StatusPolicy {
	return s.policy
}
