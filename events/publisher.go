/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-01-13 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-19 00:00:00
 * @FilePath: \go-wsmonitor\events\publisher.go
 * @Description: 事件发布器
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */

package events

import (
	"context"

	"github.com/kamalyes/go-cachex"
	"github.com/kamalyes/go-logger"
	"github.com/kamalyes/go-wsmonitor/models"
)

// Publisher 事件发布器接口
type Publisher interface {
	// GetPubSub 获取 PubSub 实例
	GetPubSub() *cachex.PubSub

	// GetLogger 获取日志器
	GetLogger() logger.ILogger

	// GetContext 获取上下文
	GetContext() context.Context

	// GetNodeID 获取节点ID
	GetNodeID() string
}

// PubSubPublisher 基于 cachex.PubSub 的发布器，同时作为状态聚合器的变更广播
type PubSubPublisher struct {
	ctx    context.Context
	pubsub *cachex.PubSub
	nodeID string
	logger logger.ILogger
}

// NewPublisher 创建发布器，pubsub 为空时发布返回 ErrPubSubNotSet
func NewPublisher(ctx context.Context, pubsub *cachex.PubSub, nodeID string, log logger.ILogger) *PubSubPublisher {
	if ctx == nil {
		ctx = context.Background()
	}
	if log == nil {
		log = logger.NewEmptyLogger()
	}
	return &PubSubPublisher{ctx: ctx, pubsub: pubsub, nodeID: nodeID, logger: log}
}

func (p *PubSubPublisher) GetPubSub() *cachex.PubSub   { return p.pubsub }
func (p *PubSubPublisher) GetLogger() logger.ILogger   { return p.logger }
func (p *PubSubPublisher) GetContext() context.Context { return p.ctx }
func (p *PubSubPublisher) GetNodeID() string           { return p.nodeID }

// PublishAlarm 广播新告警
func (p *PubSubPublisher) PublishAlarm(ctx context.Context, entry models.AlarmEntry) error {
	return PublishAlarmRaised(ctx, p, entry)
}

// PublishDeviceStatus 广播设备状态变化
func (p *PubSubPublisher) PublishDeviceStatus(ctx context.Context, state models.DeviceState) error {
	return PublishDeviceStatusChanged(ctx, p, state)
}

// SubscribeAlarms 订阅告警广播
func (p *PubSubPublisher) SubscribeAlarms(handler AlarmRaisedEventHandler) (func() error, error) {
	return SubscribeAlarmRaised(p, handler)
}

// SubscribeDeviceStatus 订阅设备状态广播
func (p *PubSubPublisher) SubscribeDeviceStatus(handler DeviceStatusChangedEventHandler) (func() error, error) {
	return SubscribeDeviceStatusChanged(p, handler)
}
