/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-10-12 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-19 00:00:00
 * @FilePath: \go-wsmonitor\client\dispatcher.go
 * @Description: 事件分发器
 *
 * 每个事件先按注册顺序交给通配处理器，再交给该事件类型的处理器。
 * 单个处理器返回错误或 panic 只记录日志，不影响其余处理器。
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package client

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/kamalyes/go-logger"
	"github.com/kamalyes/go-toolbox/pkg/errorx"
	"github.com/kamalyes/go-wsmonitor/models"
)

// HandlerFunc 事件处理器
type HandlerFunc func(evt models.Event) error

// HandlerID 处理器注册标识，用于精确移除
type HandlerID uint64

type registration struct {
	id HandlerID
	fn HandlerFunc
}

// Dispatcher 事件分发器
//
// 未知 event 类型，以及已知类型缺少关键字段（name/deviceId/alarmId）的帧，
// 在解码阶段即被丢弃，通配处理器也收不到
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[models.EventType][]registration
	nextID   atomic.Uint64
	logger   logger.ILogger
	metrics  *Metrics
}

// NewDispatcher 创建分发器，metrics 可为 nil
func NewDispatcher(log logger.ILogger, metrics *Metrics) *Dispatcher {
	if log == nil {
		log = logger.NewEmptyLogger()
	}
	if metrics == nil {
		metrics = newUnregisteredMetrics()
	}
	return &Dispatcher{
		handlers: make(map[models.EventType][]registration),
		logger:   log,
		metrics:  metrics,
	}
}

// AddHandler 注册处理器，返回的 HandlerID 用于移除
// eventType 为 models.EventTypeAll 时接收全部事件
func (d *Dispatcher) AddHandler(eventType models.EventType, fn HandlerFunc) HandlerID {
	if fn == nil {
		return 0
	}
	if !eventType.IsValid() {
		d.logger.WarnKV("注册了未知事件类型的处理器", "event", eventType)
	}
	id := HandlerID(d.nextID.Add(1))

	d.mu.Lock()
	d.handlers[eventType] = append(d.handlers[eventType], registration{id: id, fn: fn})
	d.mu.Unlock()
	return id
}

// RemoveHandler 按标识移除处理器，不存在时无操作，返回是否移除
func (d *Dispatcher) RemoveHandler(eventType models.EventType, id HandlerID) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	regs := d.handlers[eventType]
	for i, reg := range regs {
		if reg.id != id {
			continue
		}
		// 复制一份新切片，正在进行的分发持有旧快照
		next := make([]registration, 0, len(regs)-1)
		next = append(next, regs[:i]...)
		next = append(next, regs[i+1:]...)
		if len(next) == 0 {
			delete(d.handlers, eventType)
		} else {
			d.handlers[eventType] = next
		}
		return true
	}
	return false
}

// HandlerCount 某事件类型的处理器数量
func (d *Dispatcher) HandlerCount(eventType models.EventType) int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.handlers[eventType])
}

// snapshot 取通配处理器与指定类型处理器的快照
func (d *Dispatcher) snapshot(eventType models.EventType) (wildcard, specific []registration) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	wildcard = append([]registration(nil), d.handlers[models.EventTypeAll]...)
	specific = append([]registration(nil), d.handlers[eventType]...)
	return wildcard, specific
}

// HandleFrame 解析一帧并分发，非法帧与未知类型直接丢弃且不进入通配处理器，返回处理器调用次数
func (d *Dispatcher) HandleFrame(data []byte) int {
	evt, err := models.DecodeEvent(data)
	if err != nil {
		reason := dropReasonDecode
		if models.IsUnknownEventError(err) {
			reason = dropReasonUnknown
		}
		d.metrics.framesDropped.WithLabelValues(reason).Inc()
		d.logger.DebugKV("丢弃无法解析的帧", "reason", reason, "error", err, "size", len(data))
		return 0
	}
	return d.Dispatch(evt)
}

// Dispatch 分发事件，返回处理器调用次数
func (d *Dispatcher) Dispatch(evt models.Event) int {
	switch evt.(type) {
	case *models.PointUpdate, *models.SystemStatusUpdate, *models.DeviceStatusUpdate, *models.AlarmUpdate:
	default:
		d.metrics.framesDropped.WithLabelValues(dropReasonUnknown).Inc()
		d.logger.WarnKV("丢弃未知类型的事件", "type", fmt.Sprintf("%T", evt))
		return 0
	}

	eventType := evt.EventType()
	wildcard, specific := d.snapshot(eventType)
	d.metrics.eventsDispatched.WithLabelValues(string(eventType)).Inc()

	invoked := 0
	for _, reg := range wildcard {
		d.invoke(eventType, reg, evt)
		invoked++
	}
	for _, reg := range specific {
		d.invoke(eventType, reg, evt)
		invoked++
	}
	return invoked
}

// invoke 调用单个处理器并隔离其错误
func (d *Dispatcher) invoke(eventType models.EventType, reg registration, evt models.Event) {
	if err := callHandler(reg.fn, evt); err != nil {
		d.metrics.handlerFailures.WithLabelValues(string(eventType)).Inc()
		d.logger.ErrorKV("事件处理器执行失败",
			"event", eventType,
			"handler_id", reg.id,
			"error", err,
		)
	}
}

func callHandler(fn HandlerFunc, evt models.Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errorx.WrapError(fmt.Sprintf("handler panic: %v", r))
		}
	}()
	return fn(evt)
}
