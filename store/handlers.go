/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-10-13 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-19 00:00:00
 * @FilePath: \go-wsmonitor\store\handlers.go
 * @Description: 事件折叠
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package store

import (
	"context"
	"fmt"

	"github.com/kamalyes/go-toolbox/pkg/syncx"
	"github.com/kamalyes/go-wsmonitor/models"
)

// handleEvent 由分发器调用
func (s *Store) handleEvent(evt models.Event) error {
	switch e := evt.(type) {
	case *models.PointUpdate:
		s.applyPointUpdate(e)
	case *models.SystemStatusUpdate:
		s.applySystemStatus(e)
	case *models.DeviceStatusUpdate:
		s.applyDeviceStatus(e)
	case *models.AlarmUpdate:
		s.applyAlarm(e)
	default:
		return models.NewTypedError(models.ErrTypeUnknownEvent, "unexpected event %T", evt)
	}
	return nil
}

func (s *Store) applyPointUpdate(u *models.PointUpdate) {
	s.mu.Lock()
	if _, gone := s.evicted[u.Name]; gone {
		s.mu.Unlock()
		s.logger.DebugKV("丢弃已取消订阅测点的更新", "point", u.Name)
		return
	}
	s.points[u.Name] = models.NewPointState(u, s.policy.Classify(u.Name, u.Value))
	delete(s.controls, u.Name)
	s.mu.Unlock()

	s.notifyPointHandlers(u)
}

func (s *Store) applySystemStatus(u *models.SystemStatusUpdate) {
	s.mu.Lock()
	s.system = models.NewSystemState(u)
	s.mu.Unlock()
}

func (s *Store) applyDeviceStatus(u *models.DeviceStatusUpdate) {
	state := models.NewDeviceState(u)

	s.mu.Lock()
	prev, existed := s.devices[u.DeviceID]
	s.devices[u.DeviceID] = state
	s.mu.Unlock()

	if s.publisher != nil && (!existed || prev.Status != state.Status) {
		s.runSink("publish_device_status", func(ctx context.Context) error {
			return s.publisher.PublishDeviceStatus(ctx, state)
		})
	}
}

func (s *Store) applyAlarm(u *models.AlarmUpdate) {
	entry := models.NewAlarmEntry(u)

	s.mu.Lock()
	s.alarms = append(s.alarms, models.AlarmEntry{})
	copy(s.alarms[1:], s.alarms)
	s.alarms[0] = entry
	s.truncateAlarmsLocked()
	s.mu.Unlock()

	if s.archiver != nil {
		s.runSink("archive_alarm", func(ctx context.Context) error {
			return s.archiver.Archive(ctx, entry)
		})
	}
	if s.publisher != nil {
		s.runSink("publish_alarm", func(ctx context.Context) error {
			return s.publisher.PublishAlarm(ctx, entry)
		})
	}
}

// truncateAlarmsLocked 丢弃超出上限的最旧告警
func (s *Store) truncateAlarmsLocked() {
	if len(s.alarms) <= s.alarmLimit {
		return
	}
	for i := s.alarmLimit; i < len(s.alarms); i++ {
		s.alarms[i] = models.AlarmEntry{}
	}
	s.alarms = s.alarms[:s.alarmLimit]
}

// runSink 异步执行归档或广播，不阻塞事件循环
func (s *Store) runSink(name string, fn func(ctx context.Context) error) {
	if s.closed.Load() {
		return
	}
	syncx.Go(s.ctx).
		WithTimeout(s.config.SinkTimeout).
		OnPanic(func(r any) {
			s.logger.ErrorKV("状态下游任务崩溃", "sink", name, "panic", r)
		}).
		OnError(func(err error) {
			s.logger.WarnKV("状态下游任务失败", "sink", name, "error", err)
		}).
		ExecWithContext(fn)
}

// AddPointHandler 添加单测点更新回调
func (s *Store) AddPointHandler(name string, fn PointHandler) PointHandlerID {
	if fn == nil {
		return 0
	}
	id := PointHandlerID(s.nextHandlerID.Add(1))
	s.handlerMu.Lock()
	s.pointHandlers[name] = append(s.pointHandlers[name], pointHandlerEntry{id: id, fn: fn})
	s.handlerMu.Unlock()
	return id
}

// RemovePointHandler 移除单测点更新回调
func (s *Store) RemovePointHandler(name string, id PointHandlerID) bool {
	s.handlerMu.Lock()
	defer s.handlerMu.Unlock()

	entries := s.pointHandlers[name]
	for i, entry := range entries {
		if entry.id != id {
			continue
		}
		next := make([]pointHandlerEntry, 0, len(entries)-1)
		next = append(next, entries[:i]...)
		next = append(next, entries[i+1:]...)
		if len(next) == 0 {
			delete(s.pointHandlers, name)
		} else {
			s.pointHandlers[name] = next
		}
		return true
	}
	return false
}

func (s *Store) notifyPointHandlers(u *models.PointUpdate) {
	s.handlerMu.RLock()
	entries := s.pointHandlers[u.Name]
	s.handlerMu.RUnlock()

	for _, entry := range entries {
		s.callPointHandler(entry, u)
	}
}

func (s *Store) callPointHandler(entry pointHandlerEntry, u *models.PointUpdate) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.ErrorKV("测点回调崩溃",
				"point", u.Name,
				"handler_id", entry.id,
				"panic", fmt.Sprint(r),
			)
		}
	}()
	entry.fn(u)
}
