/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-10-13 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-19 00:00:00
 * @FilePath: \go-wsmonitor\store\status.go
 * @Description: 测点状态分级
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package store

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/kamalyes/go-wsmonitor/models"
)

// Thresholds 测点阈值，大于 Error 为故障，大于 Warning 为告警
type Thresholds struct {
	Warning float64 `mapstructure:"warning" json:"warning"`
	Error   float64 `mapstructure:"error" json:"error"`
}

// StatusPolicy 测点状态分级策略
type StatusPolicy struct {
	mu       sync.RWMutex
	defaults Thresholds
	perPoint map[string]Thresholds
}

// NewStatusPolicy 创建分级策略
func NewStatusPolicy(defaults Thresholds, perPoint map[string]Thresholds) *StatusPolicy {
	p := &StatusPolicy{
		defaults: defaults,
		perPoint: make(map[string]Thresholds, len(perPoint)),
	}
	for name, t := range perPoint {
		p.perPoint[name] = t
	}
	return p
}

// Classify 计算测点状态，无法解析为数值时视为正常
func (p *StatusPolicy) Classify(name, value string) models.PointStatus {
	num, ok := ParseNumeric(value)
	if !ok {
		return models.PointStatusNormal
	}
	t := p.ThresholdsFor(name)
	switch {
	case num > t.Error:
		return models.PointStatusError
	case num > t.Warning:
		return models.PointStatusWarning
	default:
		return models.PointStatusNormal
	}
}

// ThresholdsFor 获取测点生效阈值
func (p *StatusPolicy) ThresholdsFor(name string) Thresholds {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if t, ok := p.perPoint[name]; ok {
		return t
	}
	return p.defaults
}

// SetThresholds 设置单个测点阈值
func (p *StatusPolicy) SetThresholds(name string, t Thresholds) {
	p.mu.Lock()
	p.perPoint[name] = t
	p.mu.Unlock()
}

// ResetThresholds 移除单个测点阈值，恢复全局阈值
func (p *StatusPolicy) ResetThresholds(name string) {
	p.mu.Lock()
	delete(p.perPoint, name)
	p.mu.Unlock()
}

var leadingNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// ParseNumeric 解析测点值，取开头的十进制数值部分，如 "85.5℃" 解析为 85.5
// 只认十进制与 Infinity，"inf"、"NaN"、十六进制浮点等视为非数值
func ParseNumeric(value string) (float64, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}
	switch {
	case strings.HasPrefix(value, "Infinity"), strings.HasPrefix(value, "+Infinity"):
		return math.Inf(1), true
	case strings.HasPrefix(value, "-Infinity"):
		return math.Inf(-1), true
	}
	m := leadingNumber.FindString(value)
	if m == "" {
		return 0, false
	}
	return parseFloat(m)
}

// parseFloat 溢出时返回 ±Inf
func parseFloat(s string) (float64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err == nil || errors.Is(err, strconv.ErrRange) {
		return f, true
	}
	return 0, false
}
