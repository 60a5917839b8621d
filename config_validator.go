/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2025-11-22 21:15:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-19 00:00:00
 * @FilePath: \go-wsmonitor\config_validator.go
 * @Description: 配置验证和自动修复机制
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package wsmonitor

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kamalyes/go-wsmonitor/models"
)

// ValidationLevel 验证级别
type ValidationLevel int

const (
	ValidationLevelInfo     ValidationLevel = 1 // 信息级别
	ValidationLevelWarning  ValidationLevel = 2 // 警告级别
	ValidationLevelError    ValidationLevel = 3 // 错误级别
	ValidationLevelCritical ValidationLevel = 4 // 严重级别
)

// ValidationResult 验证结果
type ValidationResult struct {
	Level       ValidationLevel     `json:"level"`
	Field       string              `json:"field"`
	Message     string              `json:"message"`
	Suggestion  string              `json:"suggestion"`
	AutoFixable bool                `json:"auto_fixable"`
	FixAction   func(*Config) error `json:"-"`
}

// ValidationRule 验证规则接口
type ValidationRule interface {
	// Validate 验证配置
	Validate(config *Config) []ValidationResult

	// GetName 获取规则名称
	GetName() string

	// GetDescription 获取规则描述
	GetDescription() string
}

// ConfigValidator 配置验证器
type ConfigValidator struct {
	rules []ValidationRule
}

// NewConfigValidator 创建配置验证器
func NewConfigValidator() *ConfigValidator {
	validator := &ConfigValidator{
		rules: make([]ValidationRule, 0),
	}
	validator.addDefaultRules()
	return validator
}

// addDefaultRules 添加默认验证规则
func (cv *ConfigValidator) addDefaultRules() {
	cv.rules = append(cv.rules,
		&ConnectionConfigRule{},
		&AggregatorConfigRule{},
		&PointAPIConfigRule{},
		&IntegrationConfigRule{},
	)
}

// AddRule 添加验证规则
func (cv *ConfigValidator) AddRule(rule ValidationRule) {
	cv.rules = append(cv.rules, rule)
}

// Validate 验证配置
func (cv *ConfigValidator) Validate(config *Config) []ValidationResult {
	var results []ValidationResult
	for _, rule := range cv.rules {
		results = append(results, rule.Validate(config)...)
	}
	return results
}

// AutoFix 自动修复配置
func (cv *ConfigValidator) AutoFix(config *Config) ([]ValidationResult, error) {
	results := cv.Validate(config)
	fixed := make([]ValidationResult, 0)

	for _, result := range results {
		if !result.AutoFixable || result.FixAction == nil {
			continue
		}
		if err := result.FixAction(config); err != nil {
			return fixed, models.NewTypedError(models.ErrTypeConfigInvalid, "failed to fix %s: %v", result.Field, err)
		}
		fixed = append(fixed, ValidationResult{
			Level:      ValidationLevelInfo,
			Field:      result.Field,
			Message:    fmt.Sprintf("已自动修复: %s", result.Message),
			Suggestion: result.Suggestion,
		})
	}

	return fixed, nil
}

// ValidateAndReport 验证并生成报告
func (cv *ConfigValidator) ValidateAndReport(config *Config) string {
	results := cv.Validate(config)

	var report strings.Builder
	report.WriteString("配置验证报告\n")
	report.WriteString("================\n\n")

	counts := make(map[ValidationLevel]int)
	for _, result := range results {
		counts[result.Level]++
		switch result.Level {
		case ValidationLevelCritical:
			report.WriteString(fmt.Sprintf("🚨 [严重] %s: %s\n", result.Field, result.Message))
		case ValidationLevelError:
			report.WriteString(fmt.Sprintf("❌ [错误] %s: %s\n", result.Field, result.Message))
		case ValidationLevelWarning:
			report.WriteString(fmt.Sprintf("⚠️ [警告] %s: %s\n", result.Field, result.Message))
		case ValidationLevelInfo:
			report.WriteString(fmt.Sprintf("ℹ️ [信息] %s: %s\n", result.Field, result.Message))
		}
		if result.Suggestion != "" {
			report.WriteString(fmt.Sprintf("   建议: %s\n", result.Suggestion))
		}
		if result.AutoFixable {
			report.WriteString("   💡 可自动修复\n")
		}
		report.WriteString("\n")
	}

	report.WriteString(fmt.Sprintf("汇总: 严重=%d, 错误=%d, 警告=%d, 信息=%d\n",
		counts[ValidationLevelCritical], counts[ValidationLevelError],
		counts[ValidationLevelWarning], counts[ValidationLevelInfo]))

	return report.String()
}

// ValidateConfig 校验配置，存在错误或严重级别的结果时返回 ErrTypeConfigInvalid
func ValidateConfig(config *Config) error {
	if config == nil {
		return models.NewTypedError(models.ErrTypeConfigInvalid, "config is nil")
	}
	var problems []string
	for _, result := range NewConfigValidator().Validate(config) {
		if result.Level >= ValidationLevelError {
			problems = append(problems, fmt.Sprintf("%s: %s", result.Field, result.Message))
		}
	}
	if len(problems) > 0 {
		return models.NewTypedError(models.ErrTypeConfigInvalid, "%s", strings.Join(problems, "; "))
	}
	return nil
}

// ========== 具体验证规则实现 ==========

// ConnectionConfigRule 订阅连接配置验证规则
type ConnectionConfigRule struct{}

func (r *ConnectionConfigRule) GetName() string {
	return "ConnectionConfig"
}

func (r *ConnectionConfigRule) GetDescription() string {
	return "验证实时订阅连接配置"
}

func (r *ConnectionConfigRule) Validate(config *Config) []ValidationResult {
	var results []ValidationResult

	u, err := url.Parse(config.URL)
	switch {
	case config.URL == "":
		results = append(results, ValidationResult{
			Level:       ValidationLevelCritical,
			Field:       "URL",
			Message:     "订阅地址未设置",
			Suggestion:  "设置为 ws://host:port/ws",
			AutoFixable: true,
			FixAction: func(c *Config) error {
				c.URL = DefaultURL
				return nil
			},
		})
	case err != nil || (u.Scheme != "ws" && u.Scheme != "wss") || u.Host == "":
		results = append(results, ValidationResult{
			Level:      ValidationLevelCritical,
			Field:      "URL",
			Message:    fmt.Sprintf("订阅地址无效: %s", config.URL),
			Suggestion: "地址必须以 ws:// 或 wss:// 开头并包含主机",
		})
	}

	if config.ReconnectDelay <= 0 {
		results = append(results, ValidationResult{
			Level:       ValidationLevelError,
			Field:       "ReconnectDelay",
			Message:     "重连间隔必须大于0",
			Suggestion:  "推荐设置为3秒",
			AutoFixable: true,
			FixAction: func(c *Config) error {
				c.ReconnectDelay = 3 * time.Second
				return nil
			},
		})
	}

	if config.ReconnectFactor > 1 && config.MaxReconnectDelay <= config.ReconnectDelay {
		results = append(results, ValidationResult{
			Level:      ValidationLevelWarning,
			Field:      "MaxReconnectDelay",
			Message:    "设置了退避因子但上限不大于重连间隔，将按固定间隔重连",
			Suggestion: "将 MaxReconnectDelay 设置为重连间隔的数倍",
		})
	}

	if config.KeepAliveInterval <= 0 {
		results = append(results, ValidationResult{
			Level:       ValidationLevelError,
			Field:       "KeepAliveInterval",
			Message:     "心跳间隔必须大于0",
			Suggestion:  "推荐设置为30秒",
			AutoFixable: true,
			FixAction: func(c *Config) error {
				c.KeepAliveInterval = 30 * time.Second
				return nil
			},
		})
	} else if config.KeepAliveInterval < 5*time.Second {
		results = append(results, ValidationResult{
			Level:      ValidationLevelWarning,
			Field:      "KeepAliveInterval",
			Message:    fmt.Sprintf("心跳间隔过短: %s", config.KeepAliveInterval),
			Suggestion: "推荐设置为30-60秒之间",
		})
	}

	if config.WriteTimeout < 0 || config.HandshakeTimeout < 0 || config.MaxMessageSize < 0 {
		results = append(results, ValidationResult{
			Level:   ValidationLevelError,
			Field:   "Timeouts",
			Message: "写超时、握手超时与帧上限不能为负数",
		})
	}

	return results
}

// AggregatorConfigRule 状态聚合配置验证规则
type AggregatorConfigRule struct{}

func (r *AggregatorConfigRule) GetName() string {
	return "AggregatorConfig"
}

func (r *AggregatorConfigRule) GetDescription() string {
	return "验证告警上限与测点阈值"
}

func (r *AggregatorConfigRule) Validate(config *Config) []ValidationResult {
	var results []ValidationResult

	if config.AlarmHistoryLimit < 1 {
		results = append(results, ValidationResult{
			Level:       ValidationLevelError,
			Field:       "AlarmHistoryLimit",
			Message:     "告警历史上限至少为1",
			Suggestion:  "推荐设置为100",
			AutoFixable: true,
			FixAction: func(c *Config) error {
				c.AlarmHistoryLimit = 100
				return nil
			},
		})
	} else if config.RecentAlarmCount > config.AlarmHistoryLimit {
		results = append(results, ValidationResult{
			Level:       ValidationLevelWarning,
			Field:       "RecentAlarmCount",
			Message:     "最近告警条数大于告警历史上限",
			AutoFixable: true,
			FixAction: func(c *Config) error {
				c.RecentAlarmCount = c.AlarmHistoryLimit
				return nil
			},
		})
	}

	if t := config.StoreConfig().Thresholds(); t.Warning >= t.Error {
		results = append(results, ValidationResult{
			Level:      ValidationLevelError,
			Field:      "WarningThreshold",
			Message:    fmt.Sprintf("告警阈值 %.2f 必须小于故障阈值 %.2f", t.Warning, t.Error),
			Suggestion: "默认阈值为 60 / 80",
		})
	}

	for name, t := range config.PointThresholds {
		if t.Warning >= t.Error {
			results = append(results, ValidationResult{
				Level:   ValidationLevelError,
				Field:   "PointThresholds." + name,
				Message: fmt.Sprintf("告警阈值 %.2f 必须小于故障阈值 %.2f", t.Warning, t.Error),
			})
		}
	}

	if config.AutoRefresh && config.RefreshInterval < time.Second {
		results = append(results, ValidationResult{
			Level:       ValidationLevelWarning,
			Field:       "RefreshInterval",
			Message:     fmt.Sprintf("刷新间隔过短: %s", config.RefreshInterval),
			Suggestion:  "推荐设置为5秒",
			AutoFixable: true,
			FixAction: func(c *Config) error {
				c.RefreshInterval = 5 * time.Second
				return nil
			},
		})
	}

	return results
}

// PointAPIConfigRule 测点接口配置验证规则
type PointAPIConfigRule struct{}

func (r *PointAPIConfigRule) GetName() string {
	return "PointAPIConfig"
}

func (r *PointAPIConfigRule) GetDescription() string {
	return "验证测点 HTTP 接口配置"
}

func (r *PointAPIConfigRule) Validate(config *Config) []ValidationResult {
	var results []ValidationResult

	if config.APIBaseURL == "" {
		results = append(results, ValidationResult{
			Level:      ValidationLevelInfo,
			Field:      "APIBaseURL",
			Message:    "未配置测点接口，启动时不拉取测点且无法下发控制",
			Suggestion: "设置为后端 HTTP 地址，如 http://localhost:8081",
		})
		return results
	}

	if u, err := url.Parse(config.APIBaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		results = append(results, ValidationResult{
			Level:   ValidationLevelError,
			Field:   "APIBaseURL",
			Message: fmt.Sprintf("测点接口地址无效: %s", config.APIBaseURL),
		})
	}

	if config.APIRetries < 0 {
		results = append(results, ValidationResult{
			Level:   ValidationLevelError,
			Field:   "APIRetries",
			Message: "重试次数不能为负数",
		})
	}

	return results
}

// IntegrationConfigRule 外部依赖配置验证规则
type IntegrationConfigRule struct{}

func (r *IntegrationConfigRule) GetName() string {
	return "IntegrationConfig"
}

func (r *IntegrationConfigRule) GetDescription() string {
	return "验证 Redis 广播与告警归档配置"
}

func (r *IntegrationConfigRule) Validate(config *Config) []ValidationResult {
	var results []ValidationResult

	if config.RedisAddr != "" && config.NodeID == "" {
		results = append(results, ValidationResult{
			Level:       ValidationLevelWarning,
			Field:       "NodeID",
			Message:     "启用 Redis 时未设置节点标识",
			Suggestion:  "为每个节点设置固定的 NodeID 便于追踪",
			AutoFixable: true,
			FixAction: func(c *Config) error {
				c.NodeID = uuid.NewString()
				return nil
			},
		})
	}

	if config.ArchiveRetentionDays < 0 {
		results = append(results, ValidationResult{
			Level:   ValidationLevelError,
			Field:   "ArchiveRetentionDays",
			Message: "归档保留天数不能为负数",
		})
	} else if config.ArchiveDSN == "" && config.ArchiveRetentionDays > 0 {
		results = append(results, ValidationResult{
			Level:   ValidationLevelInfo,
			Field:   "ArchiveRetentionDays",
			Message: "未配置 ArchiveDSN，保留天数不生效",
		})
	}

	return results
}
