/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-10-13 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-19 00:00:00
 * @FilePath: \go-wsmonitor\store\config.go
 * @Description: 状态聚合配置
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package store

import (
	"time"

	"github.com/kamalyes/go-toolbox/pkg/mathx"
	"github.com/kamalyes/go-toolbox/pkg/safe"
)

// 默认值
const (
	DefaultAlarmHistoryLimit = 100
	DefaultRecentAlarmCount  = 20
	DefaultWarningThreshold  = 60
	DefaultErrorThreshold    = 80
	DefaultRefreshInterval   = 5 * time.Second
	DefaultSinkTimeout       = 5 * time.Second
	DefaultFetchTimeout      = 10 * time.Second
)

// Config 状态聚合配置
type Config struct {
	AlarmHistoryLimit  int                   `mapstructure:"alarm_history_limit"` // 告警历史上限
	RecentAlarmCount   int                   `mapstructure:"recent_alarm_count"`  // 最近告警条数
	WarningThreshold   *float64              `mapstructure:"warning_threshold"`   // 全局告警阈值，nil 取默认值
	ErrorThreshold     *float64              `mapstructure:"error_threshold"`     // 全局故障阈值，nil 取默认值
	PointThresholds    map[string]Thresholds `mapstructure:"point_thresholds"`    // 按测点覆盖阈值
	PointPrefixes      []string              `mapstructure:"point_prefixes"`      // 启动时拉取的测点前缀，为空拉取全部
	AutoRefresh        bool                  `mapstructure:"auto_refresh"`
	RefreshInterval    time.Duration         `mapstructure:"refresh_interval"`
	DisableResubscribe bool                  `mapstructure:"disable_resubscribe"` // 重连后不自动补订阅
	SinkTimeout        time.Duration         `mapstructure:"sink_timeout"`        // 归档与发布超时
	FetchTimeout       time.Duration         `mapstructure:"fetch_timeout"`       // 后台拉取超时
}

// DefaultConfig 默认配置
func DefaultConfig() *Config {
	return &Config{
		AlarmHistoryLimit: DefaultAlarmHistoryLimit,
		RecentAlarmCount:  DefaultRecentAlarmCount,
		RefreshInterval:   DefaultRefreshInterval,
		SinkTimeout:       DefaultSinkTimeout,
		FetchTimeout:      DefaultFetchTimeout,
	}
}

// Float64 返回阈值指针，0 也是有效阈值
func Float64(v float64) *float64 {
	return &v
}

// Thresholds 全局生效阈值
func (c *Config) Thresholds() Thresholds {
	return Thresholds{
		Warning: *mathx.DefaultIfNilPtr(c.WarningThreshold, DefaultWarningThreshold),
		Error:   *mathx.DefaultIfNilPtr(c.ErrorThreshold, DefaultErrorThreshold),
	}
}

// normalize 默认配置不带阈值指针，合并时不会改写调用方设置的 0
func (c *Config) normalize() *Config {
	cfg := safe.MergeWithDefaults(c, DefaultConfig())
	if len(cfg.PointPrefixes) == 0 {
		cfg.PointPrefixes = []string{""}
	}
	return cfg
}
