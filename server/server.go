/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-10-17 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-19 00:00:00
 * @FilePath: \go-wsmonitor\server\server.go
 * @Description: 监控状态 HTTP 接口 - 基于 chi 的只读投影与订阅/控制入口
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/kamalyes/go-logger"
	"github.com/kamalyes/go-wsmonitor/middleware"
	"github.com/kamalyes/go-wsmonitor/models"
	"github.com/kamalyes/go-wsmonitor/repository"
	"github.com/kamalyes/go-wsmonitor/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// 路由
const (
	PathHealth  = "/healthz"
	PathMetrics = "/metrics"
	APIPrefix   = "/api/v1"
)

// Connection 上游连接状态，由 *client.Wsc 实现
type Connection interface {
	URL() string
	State() models.ConnectionStatus
	IsOpen() bool
	SessionID() string
	ConnectCount() int64
}

// ArchiveQuerier 告警归档查询
type ArchiveQuerier interface {
	Query(ctx context.Context, opts *repository.AlarmQueryOptions) ([]*models.AlarmRecord, error)
	Count(ctx context.Context, opts *repository.AlarmQueryOptions) (int64, error)
}

// NodeLister 集群节点列表
type NodeLister interface {
	List(ctx context.Context) ([]*models.NodeStatus, error)
}

// Server HTTP 接口
type Server struct {
	store    *store.Store
	conn     Connection
	logger   logger.ILogger
	gatherer prometheus.Gatherer
	archive  ArchiveQuerier
	nodes    NodeLister
	router   chi.Router
}

// Option 配置选项
type Option func(*Server)

// WithLogger 设置日志器
func WithLogger(l logger.ILogger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithGatherer 设置 /metrics 数据源，未设置时不注册该路由
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) { s.gatherer = g }
}

// WithArchive 启用告警归档查询
func WithArchive(a ArchiveQuerier) Option {
	return func(s *Server) { s.archive = a }
}

// WithNodes 启用集群节点列表
func WithNodes(n NodeLister) Option {
	return func(s *Server) { s.nodes = n }
}

// New 创建 HTTP 接口
func New(st *store.Store, conn Connection, opts ...Option) *Server {
	s := &Server{
		store:  st,
		conn:   conn,
		logger: logger.NewEmptyLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

// ServeHTTP 实现 http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Handler 返回路由
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(s.logger))
	r.Use(middleware.Recoverer(s.logger))

	r.Get(PathHealth, s.handleHealth)
	if s.gatherer != nil {
		r.Handle(PathMetrics, promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	r.Route(APIPrefix, func(r chi.Router) {
		r.Get("/state", s.handleState)
		r.Get("/summary", s.handleSummary)
		r.Get("/system", s.handleSystem)
		r.Post("/refresh", s.handleRefresh)

		r.Route("/points", func(r chi.Router) {
			r.Get("/", s.handleListPoints)
			r.Get("/{name}", s.handleGetPoint)
			r.Post("/{name}/subscribe", s.handleSubscribePoint)
			r.Delete("/{name}/subscribe", s.handleUnsubscribePoint)
			r.Post("/{name}/control", s.handleControl)
		})

		r.Route("/devices", func(r chi.Router) {
			r.Get("/", s.handleListDevices)
			r.Get("/{id}", s.handleGetDevice)
		})

		r.Route("/alarms", func(r chi.Router) {
			r.Get("/", s.handleListAlarms)
			r.Get("/recent", s.handleRecentAlarms)
			r.Delete("/", s.handleClearAlarms)
			if s.archive != nil {
				r.Get("/archive", s.handleArchive)
			}
		})

		if s.nodes != nil {
			r.Get("/nodes", s.handleNodes)
		}
	})
	return r
}
