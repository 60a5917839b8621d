/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-01-13 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-19 00:00:00
 * @FilePath: \go-wsmonitor\events\common.go
 * @Description: 通用事件发布订阅方法
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */

package events

import (
	"context"
)

// PublishEvent 发布自定义事件，data 会序列化为 JSON
// eventType 建议使用命名空间，如 "wsmonitor.point.control"
func PublishEvent(ctx context.Context, p Publisher, eventType string, data interface{}) error {
	return publishEventHelper(ctx, p, eventType, data, nil)
}

// SubscribeEvent 订阅原始消息，返回取消订阅函数
//
// 使用示例：
//
//	unsubscribe, err := SubscribeEvent(publisher, []string{"wsmonitor.point.control"}, func(ctx context.Context, channel, message string) error {
//	    return nil
//	})
//	if err != nil { return err }
//	defer unsubscribe()
func SubscribeEvent(p Publisher, eventTypes []string, handler func(ctx context.Context, channel string, message string) error) (func() error, error) {
	pubsub := p.GetPubSub()
	if pubsub == nil {
		return nil, ErrPubSubNotSet
	}

	p.GetLogger().InfoKV("📡 订阅自定义事件", "event_types", eventTypes)

	subscriber, err := pubsub.Subscribe(eventTypes, handler)
	if err != nil {
		return nil, err
	}
	return func() error {
		return subscriber.Unsubscribe()
	}, nil
}

// SubscribeEventTyped 订阅自定义事件（类型安全版本）
func SubscribeEventTyped[T any](p Publisher, eventTypes []string, handler func(event *T) error) (func() error, error) {
	return subscribeEventHelper(p, eventTypes, handler, "自定义事件")
}
