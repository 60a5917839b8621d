/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2020-09-06 09:50:55
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-19 00:00:00
 * @FilePath: \go-wsmonitor\config.go
 * @Description: Config 结构体
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package wsmonitor

import (
	"time"

	wscconfig "github.com/kamalyes/go-config/pkg/wsc"
	"github.com/kamalyes/go-toolbox/pkg/safe"
	"github.com/kamalyes/go-wsmonitor/client"
	"github.com/kamalyes/go-wsmonitor/pointapi"
	"github.com/kamalyes/go-wsmonitor/repository"
	"github.com/kamalyes/go-wsmonitor/store"
)

// 默认值
const (
	DefaultURL             = "ws://localhost:8080/ws"
	DefaultHTTPAddr        = ":8090"
	DefaultPubSubNamespace = "wsmonitor"
	DefaultReportInterval  = 10 * time.Second
)

// Config 监控面板整体配置
type Config struct {
	// 实时订阅连接
	URL               string        `mapstructure:"url"`
	ReconnectDelay    time.Duration `mapstructure:"reconnect_delay"`
	MaxReconnectDelay time.Duration `mapstructure:"max_reconnect_delay"`
	ReconnectFactor   float64       `mapstructure:"reconnect_factor"`
	KeepAliveInterval time.Duration `mapstructure:"keep_alive_interval"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
	HandshakeTimeout  time.Duration `mapstructure:"handshake_timeout"`
	MaxMessageSize    int64         `mapstructure:"max_message_size"`
	LoopBufferSize    int           `mapstructure:"loop_buffer_size"`
	DisableReconnect  bool          `mapstructure:"disable_reconnect"`

	// 状态聚合
	AlarmHistoryLimit  int                         `mapstructure:"alarm_history_limit"`
	RecentAlarmCount   int                         `mapstructure:"recent_alarm_count"`
	WarningThreshold   *float64                    `mapstructure:"warning_threshold"` // nil 取默认值
	ErrorThreshold     *float64                    `mapstructure:"error_threshold"`
	PointThresholds    map[string]store.Thresholds `mapstructure:"point_thresholds"`
	PointPrefixes      []string                    `mapstructure:"point_prefixes"`
	AutoRefresh        bool                        `mapstructure:"auto_refresh"`
	RefreshInterval    time.Duration               `mapstructure:"refresh_interval"`
	DisableResubscribe bool                        `mapstructure:"disable_resubscribe"`

	// 测点 HTTP 接口，为空时不做初始拉取与控制
	APIBaseURL    string        `mapstructure:"api_base_url"`
	APITimeout    time.Duration `mapstructure:"api_timeout"`
	APIRetries    int           `mapstructure:"api_retries"`
	APIRetryDelay time.Duration `mapstructure:"api_retry_delay"`

	// 对外 HTTP 服务
	HTTPAddr string `mapstructure:"http_addr"`

	// 集群广播与节点登记，RedisAddr 为空时关闭
	NodeID          string        `mapstructure:"node_id"`
	RedisAddr       string        `mapstructure:"redis_addr"`
	RedisPassword   string        `mapstructure:"redis_password"`
	RedisDB         int           `mapstructure:"redis_db"`
	PubSubNamespace string        `mapstructure:"pubsub_namespace"`
	ReportInterval  time.Duration `mapstructure:"report_interval"`

	// 告警归档，ArchiveDSN 为空时关闭
	ArchiveDSN           string `mapstructure:"archive_dsn"`
	ArchiveRetentionDays int    `mapstructure:"archive_retention_days"`

	// go-config 的 wsc 配置段，日志按其中的 Logging 初始化
	WSC *wscconfig.WSC `mapstructure:"wsc"`
}

// NewDefaultConfig 创建默认配置
func NewDefaultConfig() *Config {
	return &Config{
		URL:               DefaultURL,
		ReconnectDelay:    client.DefaultReconnectDelay,
		KeepAliveInterval: client.DefaultKeepAliveInterval,
		WriteTimeout:      client.DefaultWriteTimeout,
		HandshakeTimeout:  client.DefaultHandshakeTimeout,
		LoopBufferSize:    client.DefaultLoopBufferSize,
		AlarmHistoryLimit: store.DefaultAlarmHistoryLimit,
		RecentAlarmCount:  store.DefaultRecentAlarmCount,
		RefreshInterval:   store.DefaultRefreshInterval,
		APITimeout:        pointapi.DefaultTimeout,
		APIRetries:        pointapi.DefaultRetries,
		APIRetryDelay:     pointapi.DefaultRetryInterval,
		HTTPAddr:          DefaultHTTPAddr,
		PubSubNamespace:   DefaultPubSubNamespace,
		ReportInterval:    DefaultReportInterval,
	}
}

// normalize 合并默认值
func (c *Config) normalize() *Config {
	return safe.MergeWithDefaults(c, NewDefaultConfig())
}

// WithURL 设置订阅地址并返回当前配置对象
func (c *Config) WithURL(url string) *Config {
	c.URL = url
	return c
}

// WithReconnectDelay 设置重连间隔并返回当前配置对象
func (c *Config) WithReconnectDelay(d time.Duration) *Config {
	c.ReconnectDelay = d
	return c
}

// WithExponentialReconnect 启用指数退避重连并返回当前配置对象
func (c *Config) WithExponentialReconnect(max time.Duration, factor float64) *Config {
	c.MaxReconnectDelay = max
	c.ReconnectFactor = factor
	return c
}

// WithKeepAliveInterval 设置心跳间隔并返回当前配置对象
func (c *Config) WithKeepAliveInterval(d time.Duration) *Config {
	c.KeepAliveInterval = d
	return c
}

// WithMaxMessageSize 设置入站帧上限并返回当前配置对象
func (c *Config) WithMaxMessageSize(size int64) *Config {
	c.MaxMessageSize = size
	return c
}

// WithAlarmHistoryLimit 设置告警历史上限并返回当前配置对象
func (c *Config) WithAlarmHistoryLimit(limit int) *Config {
	c.AlarmHistoryLimit = limit
	return c
}

// WithThresholds 设置全局阈值并返回当前配置对象
func (c *Config) WithThresholds(warning, error float64) *Config {
	c.WarningThreshold = store.Float64(warning)
	c.ErrorThreshold = store.Float64(error)
	return c
}

// WithPointThresholds 设置单个测点阈值并返回当前配置对象
func (c *Config) WithPointThresholds(name string, t store.Thresholds) *Config {
	if c.PointThresholds == nil {
		c.PointThresholds = make(map[string]store.Thresholds)
	}
	c.PointThresholds[name] = t
	return c
}

// WithPointPrefixes 设置初始拉取前缀并返回当前配置对象
func (c *Config) WithPointPrefixes(prefixes ...string) *Config {
	c.PointPrefixes = prefixes
	return c
}

// WithAutoRefresh 设置定时刷新并返回当前配置对象
func (c *Config) WithAutoRefresh(enabled bool, interval time.Duration) *Config {
	c.AutoRefresh = enabled
	c.RefreshInterval = interval
	return c
}

// WithAPIBaseURL 设置测点接口地址并返回当前配置对象
func (c *Config) WithAPIBaseURL(baseURL string) *Config {
	c.APIBaseURL = baseURL
	return c
}

// WithHTTPAddr 设置对外服务地址并返回当前配置对象
func (c *Config) WithHTTPAddr(addr string) *Config {
	c.HTTPAddr = addr
	return c
}

// WithRedis 设置 Redis 并返回当前配置对象
func (c *Config) WithRedis(addr, password string, db int) *Config {
	c.RedisAddr = addr
	c.RedisPassword = password
	c.RedisDB = db
	return c
}

// WithNodeID 设置节点标识并返回当前配置对象
func (c *Config) WithNodeID(nodeID string) *Config {
	c.NodeID = nodeID
	return c
}

// WithArchive 设置告警归档并返回当前配置对象
func (c *Config) WithArchive(dsn string, retentionDays int) *Config {
	c.ArchiveDSN = dsn
	c.ArchiveRetentionDays = retentionDays
	return c
}

// WithWSC 设置 go-config wsc 配置段并返回当前配置对象
func (c *Config) WithWSC(w *wscconfig.WSC) *Config {
	c.WSC = w
	return c
}

// ClientConfig 传输层配置
func (c *Config) ClientConfig() *client.Config {
	return &client.Config{
		ReconnectDelay:    c.ReconnectDelay,
		MaxReconnectDelay: c.MaxReconnectDelay,
		ReconnectFactor:   c.ReconnectFactor,
		KeepAliveInterval: c.KeepAliveInterval,
		WriteTimeout:      c.WriteTimeout,
		HandshakeTimeout:  c.HandshakeTimeout,
		MaxMessageSize:    c.MaxMessageSize,
		LoopBufferSize:    c.LoopBufferSize,
		DisableReconnect:  c.DisableReconnect,
	}
}

// StoreConfig 状态聚合配置
func (c *Config) StoreConfig() *store.Config {
	return &store.Config{
		AlarmHistoryLimit:  c.AlarmHistoryLimit,
		RecentAlarmCount:   c.RecentAlarmCount,
		WarningThreshold:   c.WarningThreshold,
		ErrorThreshold:     c.ErrorThreshold,
		PointThresholds:    c.PointThresholds,
		PointPrefixes:      c.PointPrefixes,
		AutoRefresh:        c.AutoRefresh,
		RefreshInterval:    c.RefreshInterval,
		DisableResubscribe: c.DisableResubscribe,
	}
}

// PointAPIConfig 测点接口配置
func (c *Config) PointAPIConfig() *pointapi.Config {
	return &pointapi.Config{
		BaseURL:       c.APIBaseURL,
		Timeout:       c.APITimeout,
		Retries:       c.APIRetries,
		RetryInterval: c.APIRetryDelay,
	}
}

// ArchiveConfig 告警归档配置
func (c *Config) ArchiveConfig() *repository.ArchiveConfig {
	return &repository.ArchiveConfig{
		RetentionDays: c.ArchiveRetentionDays,
		NodeID:        c.NodeID,
	}
}
