/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2025-11-22 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-19 00:00:00
 * @FilePath: \go-wsmonitor\logger.go
 * @Description: go-wsmonitor 日志接口，直接复用 go-logger
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package wsmonitor

import (
	"os"
	"strings"
	"time"

	wscconfig "github.com/kamalyes/go-config/pkg/wsc"
	"github.com/kamalyes/go-logger"
)

// LogPrefix 默认日志前缀
const LogPrefix = "[WSMONITOR] "

// Logger 直接使用 go-logger.ILogger
type Logger = logger.ILogger

// NewLogger 创建日志器，基于 go-logger
func NewLogger(config *logger.LogConfig) Logger {
	return logger.NewLogger(config)
}

// NewDefaultLogger 创建默认配置的日志器
func NewDefaultLogger() Logger {
	config := logger.DefaultConfig().
		WithLevel(logger.INFO).
		WithPrefix(LogPrefix).
		WithShowCaller(false).
		WithColorful(true).
		WithTimeFormat(time.DateTime)

	return logger.NewLogger(config)
}

// NewNoOpLogger 创建空日志实例
func NewNoOpLogger() Logger {
	return logger.NewEmptyLogger()
}

// InitLogger 根据 go-config 的 wsc 配置段初始化日志器，未启用时返回默认日志器
func InitLogger(config *wscconfig.WSC) Logger {
	if config == nil || config.Logging == nil || !config.Logging.Enabled {
		return NewDefaultLogger()
	}

	loggerConfig := logger.DefaultConfig().
		WithLevel(ParseLogLevel(config.Logging.Level)).
		WithPrefix(LogPrefix).
		WithShowCaller(false).
		WithColorful(true).
		WithTimeFormat(time.DateTime)

	switch {
	case config.Logging.Output == "file" && config.Logging.FilePath != "":
		if config.Logging.MaxSize > 0 && config.Logging.MaxBackups > 0 {
			rotateWriter := logger.NewRotateWriter(
				config.Logging.FilePath,
				int64(config.Logging.MaxSize)*1024*1024,
				config.Logging.MaxBackups,
			)
			loggerConfig = loggerConfig.WithOutput(rotateWriter)
		} else {
			loggerConfig = loggerConfig.WithOutput(logger.NewFileWriter(config.Logging.FilePath))
		}
	default:
		loggerConfig = loggerConfig.WithOutput(logger.NewConsoleWriter(os.Stdout))
	}

	return logger.NewLogger(loggerConfig)
}

// ParseLogLevel 解析日志级别字符串，无法识别时为 INFO
func ParseLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return logger.DEBUG
	case "warn", "warning":
		return logger.WARN
	case "error":
		return logger.ERROR
	case "fatal":
		return logger.FATAL
	default:
		return logger.INFO
	}
}
