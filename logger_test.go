/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2025-11-22 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-19 00:00:00
 * @FilePath: \go-wsmonitor\logger_test.go
 * @Description: go-wsmonitor 日志测试
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package wsmonitor

import (
	"testing"

	wscconfig "github.com/kamalyes/go-config/pkg/wsc"
	"github.com/kamalyes/go-logger"
	"github.com/stretchr/testify/assert"
)

func TestNewDefaultLogger(t *testing.T) {
	log := NewDefaultLogger()
	assert.NotNil(t, log)

	log.Info("测试信息日志")
	log.InfoKV("测试键值对日志", "key1", "value1", "key2", 123)
	log.WithField("component", "store").Info("带字段的日志消息")
}

func TestNoOpLogger(t *testing.T) {
	log := NewNoOpLogger()
	assert.NotNil(t, log)
	log.Info("这条消息不应该输出")
	log.ErrorKV("也不应该输出", "k", "v")
}

func TestInitLogger(t *testing.T) {
	assert.NotNil(t, InitLogger(nil))
	assert.NotNil(t, InitLogger(wscconfig.Default()))
}

func TestParseLogLevel(t *testing.T) {
	cases := map[string]logger.LogLevel{
		"debug":   logger.DEBUG,
		"DEBUG":   logger.DEBUG,
		"warning": logger.WARN,
		"Error":   logger.ERROR,
		"fatal":   logger.FATAL,
		"":        logger.INFO,
		"verbose": logger.INFO,
	}
	for input, want := range cases {
		assert.Equal(t, want, ParseLogLevel(input), input)
	}
}
