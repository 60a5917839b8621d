/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2025-09-06 09:50:55
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-19 00:00:00
 * @FilePath: \go-wsmonitor\wsmonitor.go
 * @Description: 监控面板入口 - 组装订阅客户端、测点接口、状态聚合与对外服务
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package wsmonitor

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/kamalyes/go-cachex"
	"github.com/kamalyes/go-toolbox/pkg/errorx"
	"github.com/kamalyes/go-toolbox/pkg/syncx"
	"github.com/kamalyes/go-wsmonitor/client"
	"github.com/kamalyes/go-wsmonitor/events"
	"github.com/kamalyes/go-wsmonitor/models"
	"github.com/kamalyes/go-wsmonitor/pointapi"
	"github.com/kamalyes/go-wsmonitor/repository"
	"github.com/kamalyes/go-wsmonitor/server"
	"github.com/kamalyes/go-wsmonitor/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// setupTimeout 初始化外部依赖的超时
const setupTimeout = 10 * time.Second

// Monitor 监控面板实例
type Monitor struct {
	config   *Config
	logger   Logger
	nodeID   string
	registry *prometheus.Registry

	client    *client.Wsc
	api       *pointapi.Client
	store     *store.Store
	server    *server.Server
	publisher *events.PubSubPublisher
	archive   repository.AlarmArchiveRepository
	nodes     *repository.RedisNodeStatusRepository

	redis     *redis.Client
	ownsRedis bool
	db        *gorm.DB
	ownsDB    bool

	startedAt time.Time
	started   atomic.Bool
	stopped   atomic.Bool
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

// Option 配置选项
type Option func(*Monitor)

// WithLogger 设置日志器
func WithLogger(l Logger) Option {
	return func(m *Monitor) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithRedisClient 使用已有 Redis 客户端，优先于 Config.RedisAddr
func WithRedisClient(c *redis.Client) Option {
	return func(m *Monitor) { m.redis = c }
}

// WithDB 使用已有数据库连接作为告警归档，优先于 Config.ArchiveDSN
func WithDB(db *gorm.DB) Option {
	return func(m *Monitor) { m.db = db }
}

// WithRegistry 使用指定的指标注册表
func WithRegistry(r *prometheus.Registry) Option {
	return func(m *Monitor) { m.registry = r }
}

// New 创建监控面板实例，不发起连接
func New(cfg *Config, opts ...Option) (*Monitor, error) {
	cfg = cfg.normalize()
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}

	m := &Monitor{
		config: cfg,
		logger: NewNoOpLogger(),
		nodeID: cfg.NodeID,
	}
	if cfg.WSC != nil {
		m.logger = InitLogger(cfg.WSC)
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.nodeID == "" {
		m.nodeID = uuid.NewString()
	}
	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
		m.registry.MustRegister(collectors.NewGoCollector())
	}

	metrics, err := client.NewMetrics(m.registry)
	if err != nil {
		return nil, errorx.WrapError("register metrics failed", err)
	}
	m.client = client.New(cfg.URL, cfg.ClientConfig(),
		client.WithLogger(m.logger),
		client.WithMetrics(metrics),
	)

	if err := m.setup(); err != nil {
		m.release()
		return nil, err
	}
	return m, nil
}

// setup 组装可选依赖与状态聚合器
func (m *Monitor) setup() error {
	cfg := m.config
	ctx, cancel := context.WithTimeout(context.Background(), setupTimeout)
	defer cancel()

	var fetcher store.PointFetcher
	if cfg.APIBaseURL != "" {
		api, err := pointapi.New(cfg.PointAPIConfig(), pointapi.WithLogger(m.logger))
		if err != nil {
			return err
		}
		m.api = api
		fetcher = api
	}

	if m.redis == nil && cfg.RedisAddr != "" {
		m.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		m.ownsRedis = true
	}
	if m.redis != nil {
		if err := m.redis.Ping(ctx).Err(); err != nil {
			return errorx.WrapError("redis ping failed", err)
		}
		pubsub := cachex.NewPubSub(m.redis, cachex.PubSubConfig{Namespace: cfg.PubSubNamespace})
		m.publisher = events.NewPublisher(context.Background(), pubsub, m.nodeID, m.logger)
		m.nodes = repository.NewRedisNodeStatusRepository(m.redis, &repository.NodeStatusConfig{
			KeyPrefix: cfg.PubSubNamespace + ":node:",
			TTL:       3 * cfg.ReportInterval,
		})
	}

	if m.db == nil && cfg.ArchiveDSN != "" {
		db, err := gorm.Open(mysql.Open(cfg.ArchiveDSN), &gorm.Config{
			Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
			SkipDefaultTransaction: true,
		})
		if err != nil {
			return errorx.WrapError("open archive database failed", err)
		}
		m.db = db
		m.ownsDB = true
	}
	if m.db != nil {
		archiveCfg := cfg.ArchiveConfig()
		archiveCfg.NodeID = m.nodeID
		m.archive = repository.NewAlarmArchiveRepository(m.db, archiveCfg, m.logger)
		if err := m.archive.AutoMigrate(ctx); err != nil {
			return errorx.WrapError("migrate alarm archive failed", err)
		}
	}

	storeOpts := []store.Option{store.WithLogger(m.logger)}
	serverOpts := []server.Option{server.WithLogger(m.logger), server.WithGatherer(m.registry)}
	if m.publisher != nil {
		storeOpts = append(storeOpts, store.WithPublisher(m.publisher))
		serverOpts = append(serverOpts, server.WithNodes(m.nodes))
	}
	if m.archive != nil {
		storeOpts = append(storeOpts, store.WithArchiver(m.archive))
		serverOpts = append(serverOpts, server.WithArchive(m.archive))
	}

	m.store = store.New(m.client, fetcher, cfg.StoreConfig(), storeOpts...)
	m.server = server.New(m.store, m.client, serverOpts...)
	return nil
}

// Start 初始化状态、发起连接并启动后台任务，ctx 取消时后台任务退出
func (m *Monitor) Start(ctx context.Context) error {
	if m.stopped.Load() {
		return models.ErrClientShutdown
	}
	if !m.started.CompareAndSwap(false, true) {
		return nil
	}
	m.startedAt = time.Now()

	runCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel

	if err := m.store.Init(runCtx); err != nil {
		cancel()
		return err
	}
	m.client.Connect()

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		m.store.Run(runCtx)
	}()

	if m.nodes != nil {
		m.wg.Add(1)
		go func() {
			defer m.wg.Done()
			m.runNodeReporter(runCtx)
		}()
	}

	m.logger.InfoKV("监控面板已启动",
		"node_id", m.nodeID,
		"url", m.config.URL,
		"point_api", m.config.APIBaseURL,
		"redis", m.redis != nil,
		"archive", m.archive != nil,
	)
	return nil
}

// runNodeReporter 定时登记本节点状态
func (m *Monitor) runNodeReporter(ctx context.Context) {
	m.reportNode(ctx)
	syncx.NewEventLoop(ctx).
		OnTicker(m.config.ReportInterval, func() {
			m.reportNode(ctx)
		}).
		OnPanic(func(r interface{}) {
			m.logger.ErrorKV("节点状态上报 panic", "panic", r)
		}).
		Run()
}

// reportNode 登记一次节点状态
func (m *Monitor) reportNode(ctx context.Context) {
	if err := m.nodes.Report(ctx, m.NodeStatus()); err != nil && ctx.Err() == nil {
		m.logger.WarnKV("节点状态上报失败", "node_id", m.nodeID, "error", err)
	}
}

// NodeStatus 当前节点状态
func (m *Monitor) NodeStatus() *models.NodeStatus {
	sum := m.store.Summary()
	return &models.NodeStatus{
		NodeID:       m.nodeID,
		URL:          m.config.URL,
		State:        m.client.State().String(),
		SessionID:    m.client.SessionID(),
		ConnectCount: m.client.ConnectCount(),
		PointCount:   sum.Points.Total,
		AlarmCount:   sum.Alarms.Total,
		StartedAt:    m.startedAt,
		UpdatedAt:    time.Now(),
	}
}

// Stop 停止后台任务、关闭连接并释放自建的外部连接，可重复调用
func (m *Monitor) Stop() {
	if !m.stopped.CompareAndSwap(false, true) {
		return
	}
	if m.cancel != nil {
		m.cancel()
	}
	m.wg.Wait()

	if m.nodes != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := m.nodes.Remove(ctx, m.nodeID); err != nil {
			m.logger.WarnKV("移除节点状态失败", "node_id", m.nodeID, "error", err)
		}
		cancel()
	}
	if m.store != nil {
		m.store.Close()
	}
	m.release()
	m.logger.InfoKV("监控面板已停止", "node_id", m.nodeID)
}

// release 关闭客户端与自建的外部连接
func (m *Monitor) release() {
	if m.client != nil {
		m.client.Shutdown()
	}
	if m.archive != nil {
		_ = m.archive.Close()
	}
	if m.ownsDB && m.db != nil {
		if sqlDB, err := m.db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if m.ownsRedis && m.redis != nil {
		_ = m.redis.Close()
	}
}

// Handler 对外 HTTP 接口
func (m *Monitor) Handler() http.Handler {
	return m.server
}

// Config 当前配置
func (m *Monitor) Config() *Config { return m.config }

// NodeID 节点标识
func (m *Monitor) NodeID() string { return m.nodeID }

// Client 订阅客户端
func (m *Monitor) Client() *client.Wsc { return m.client }

// Store 状态聚合器
func (m *Monitor) Store() *store.Store { return m.store }

// Registry 指标注册表
func (m *Monitor) Registry() *prometheus.Registry { return m.registry }

// Publisher 变更广播，未配置 Redis 时为 nil
func (m *Monitor) Publisher() *events.PubSubPublisher { return m.publisher }

// Archive 告警归档，未配置数据库时为 nil
func (m *Monitor) Archive() repository.AlarmArchiveRepository { return m.archive }

// Logger 日志器
func (m *Monitor) Logger() Logger { return m.logger }
