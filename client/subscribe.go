/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-10-12 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-19 00:00:00
 * @FilePath: \go-wsmonitor\client\subscribe.go
 * @Description: 订阅指令发送
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package client

import (
	"github.com/kamalyes/go-wsmonitor/models"
	"github.com/kamalyes/go-wsmonitor/protocol"
)

// Send 校验并发送指令，连接未打开时排队
func (w *Wsc) Send(cmd protocol.Command) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	return w.SendRaw(cmd.String())
}

// Subscribe 订阅频道
func (w *Wsc) Subscribe(ch protocol.Channel) error {
	return w.Send(protocol.Subscribe(ch))
}

// Unsubscribe 取消订阅频道
func (w *Wsc) Unsubscribe(ch protocol.Channel) error {
	return w.Send(protocol.Unsubscribe(ch))
}

// SubscribePoint 订阅测点
func (w *Wsc) SubscribePoint(name string) error {
	return w.Subscribe(protocol.PointChannel(name))
}

// UnsubscribePoint 取消订阅测点
func (w *Wsc) UnsubscribePoint(name string) error {
	return w.Unsubscribe(protocol.PointChannel(name))
}

// SubscribeSystemStatus 订阅系统状态
func (w *Wsc) SubscribeSystemStatus() error {
	return w.Subscribe(protocol.SystemStatusChannel())
}

// SubscribeDeviceStatus 订阅设备状态，deviceID 为空订阅全部设备
func (w *Wsc) SubscribeDeviceStatus(deviceID string) error {
	return w.Subscribe(protocol.DeviceStatusChannel(deviceID))
}

// SubscribeAlarms 订阅告警，level 为空订阅全部等级
func (w *Wsc) SubscribeAlarms(level models.AlarmLevel) error {
	return w.Subscribe(protocol.AlarmsChannel(level))
}
