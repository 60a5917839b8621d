/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-10-12 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-19 00:00:00
 * @FilePath: \go-wsmonitor\client\config.go
 * @Description: 传输层配置
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package client

import (
	"time"

	"github.com/jpillora/backoff"
	wscconfig "github.com/kamalyes/go-config/pkg/wsc"
	"github.com/kamalyes/go-toolbox/pkg/mathx"
	"github.com/kamalyes/go-toolbox/pkg/safe"
)

// 默认值
const (
	DefaultReconnectDelay    = 3 * time.Second
	DefaultKeepAliveInterval = 30 * time.Second
	DefaultWriteTimeout      = 10 * time.Second
	DefaultHandshakeTimeout  = 15 * time.Second
	DefaultLoopBufferSize    = 256
)

// Config 传输层配置
// 布尔字段默认值都为 false，零值即默认行为
type Config struct {
	ReconnectDelay    time.Duration `mapstructure:"reconnect_delay"`     // 重连间隔
	MaxReconnectDelay time.Duration `mapstructure:"max_reconnect_delay"` // 指数退避上限，不大于 ReconnectDelay 时为固定间隔
	ReconnectFactor   float64       `mapstructure:"reconnect_factor"`    // 指数退避因子，不大于 1 时为固定间隔
	KeepAliveInterval time.Duration `mapstructure:"keep_alive_interval"` // PING 间隔
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`       // 单帧写超时
	HandshakeTimeout  time.Duration `mapstructure:"handshake_timeout"`   // 握手超时
	MaxMessageSize    int64         `mapstructure:"max_message_size"`    // 入站帧上限，0 表示不限制
	LoopBufferSize    int           `mapstructure:"loop_buffer_size"`    // 事件循环缓冲
	DisableReconnect  bool          `mapstructure:"disable_reconnect"`   // 关闭自动重连
}

// DefaultConfig 默认传输层配置
func DefaultConfig() *Config {
	return &Config{
		ReconnectDelay:    DefaultReconnectDelay,
		KeepAliveInterval: DefaultKeepAliveInterval,
		WriteTimeout:      DefaultWriteTimeout,
		HandshakeTimeout:  DefaultHandshakeTimeout,
		LoopBufferSize:    DefaultLoopBufferSize,
	}
}

// normalize 合并默认值
func (c *Config) normalize() *Config {
	return safe.MergeWithDefaults(c, DefaultConfig())
}

// ExponentialReconnect 是否启用指数退避重连
func (c *Config) ExponentialReconnect() bool {
	return c.ReconnectFactor > 1 && c.MaxReconnectDelay > c.ReconnectDelay
}

// newBackoff 创建重连间隔策略，默认固定间隔
func (c *Config) newBackoff() *backoff.Backoff {
	if !c.ExponentialReconnect() {
		return &backoff.Backoff{Min: c.ReconnectDelay, Max: c.ReconnectDelay, Factor: 1}
	}
	return &backoff.Backoff{
		Min:    c.ReconnectDelay,
		Max:    c.MaxReconnectDelay,
		Factor: c.ReconnectFactor,
	}
}

// ConfigFromWSC 从 go-config 的 WSC 配置段映射传输层配置
func ConfigFromWSC(w *wscconfig.WSC) *Config {
	if w == nil {
		return DefaultConfig()
	}
	cfg := &Config{
		ReconnectDelay:    w.MinRecTime,
		MaxReconnectDelay: w.MaxRecTime,
		ReconnectFactor:   w.RecFactor,
		KeepAliveInterval: w.HeartbeatInterval,
		WriteTimeout:      w.WriteTimeout,
		MaxMessageSize:    w.MaxMessageSize,
		LoopBufferSize:    mathx.IF(w.MessageBufferSize > 0, w.MessageBufferSize, DefaultLoopBufferSize),
		DisableReconnect:  !w.AutoReconnect,
	}
	return cfg.normalize()
}
