/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-10-13 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-19 00:00:00
 * @FilePath: \go-wsmonitor\store\refresh.go
 * @Description: 订阅管理、测点拉取与周期刷新
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package store

import (
	"context"
	"fmt"
	"sort"

	"github.com/kamalyes/go-toolbox/pkg/syncx"
	"github.com/kamalyes/go-wsmonitor/models"
	"github.com/kamalyes/go-wsmonitor/protocol"
)

// SubscribePoint 订阅测点
func (s *Store) SubscribePoint(name string) error {
	if err := protocol.PointChannel(name).Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.evicted, name)
	s.tracked[name] = struct{}{}
	s.mu.Unlock()
	return s.sub.SubscribePoint(name)
}

// SubscribeAllPoints 按顺序订阅多个测点，返回第一个错误
func (s *Store) SubscribeAllPoints(names []string) error {
	var first error
	for _, name := range names {
		if err := s.SubscribePoint(name); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// UnsubscribePoint 取消订阅并立即移除测点状态
func (s *Store) UnsubscribePoint(name string) error {
	if err := protocol.PointChannel(name).Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.points, name)
	delete(s.tracked, name)
	delete(s.controls, name)
	s.evicted[name] = struct{}{}
	s.mu.Unlock()
	return s.sub.UnsubscribePoint(name)
}

// SubscribeSystemStatus 订阅系统状态
func (s *Store) SubscribeSystemStatus() error {
	s.mu.Lock()
	s.systemSub = true
	s.mu.Unlock()
	return s.sub.SubscribeSystemStatus()
}

// SubscribeDeviceStatus 订阅设备状态，deviceID 为空订阅全部
func (s *Store) SubscribeDeviceStatus(deviceID string) error {
	if err := protocol.DeviceStatusChannel(deviceID).Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	s.deviceSubs[deviceID] = struct{}{}
	s.mu.Unlock()
	return s.sub.SubscribeDeviceStatus(deviceID)
}

// SubscribeAlarms 订阅告警，level 为空订阅全部等级
func (s *Store) SubscribeAlarms(level models.AlarmLevel) error {
	if err := protocol.AlarmsChannel(level).Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	s.alarmSubs[level] = struct{}{}
	s.mu.Unlock()
	return s.sub.SubscribeAlarms(level)
}

// TrackedPoints 已订阅测点，按名称排序
func (s *Store) TrackedPoints() []string {
	s.mu.RLock()
	names := make([]string, 0, len(s.tracked))
	for name := range s.tracked {
		names = append(names, name)
	}
	s.mu.RUnlock()
	sort.Strings(names)
	return names
}

// FetchPoints 通过 HTTP 拉取测点快照，写入状态并订阅全部返回的测点
// 失败时设置 Error()，不影响实时流
func (s *Store) FetchPoints(ctx context.Context, prefix string) error {
	if s.fetcher == nil {
		return models.ErrFetcherNotConfigured
	}
	s.loading.Add(1)
	defer s.loading.Add(-1)
	s.ClearError()

	snapshots, err := s.fetcher.FetchPoints(ctx, prefix)
	if err != nil {
		s.SetError(fmt.Sprintf("获取测点列表失败: %v", err))
		s.logger.WarnKV("获取测点列表失败", "prefix", prefix, "error", err)
		return err
	}

	names := s.seedPoints(snapshots)
	if err := s.SubscribeAllPoints(names); err != nil {
		return err
	}
	s.logger.InfoKV("测点已拉取并订阅", "prefix", prefix, "count", len(names))
	return nil
}

// FetchBatch 按名称拉取测点快照，只写入状态，不改变订阅
func (s *Store) FetchBatch(ctx context.Context, names []string) error {
	if s.fetcher == nil {
		return models.ErrFetcherNotConfigured
	}
	if len(names) == 0 {
		return nil
	}
	s.loading.Add(1)
	defer s.loading.Add(-1)

	snapshots, err := s.fetcher.FetchBatch(ctx, names)
	if err != nil {
		s.logger.WarnKV("批量获取测点失败", "count", len(names), "error", err)
		return err
	}
	s.mu.RLock()
	for name := range snapshots {
		if _, ok := s.tracked[name]; !ok {
			delete(snapshots, name)
		}
	}
	s.mu.RUnlock()
	s.seedPoints(snapshots)
	return nil
}

// seedPoints 写入快照，已有更新的实时值时不覆盖，返回排序后的测点名
func (s *Store) seedPoints(snapshots map[string]models.PointSnapshot) []string {
	names := make([]string, 0, len(snapshots))
	for name := range snapshots {
		if protocol.PointChannel(name).Validate() == nil {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, name := range names {
		snap := snapshots[name]
		existing, ok := s.points[name]
		if ok && existing.Timestamp > snap.Timestamp {
			continue
		}
		state := models.NewPointState(snap.ToPointUpdate(name), s.policy.Classify(name, snap.Value))
		if ok {
			state.Driver = existing.Driver
			state.Device = existing.Device
		}
		s.points[name] = state
	}
	return names
}

// Refresh 重新订阅全部已知测点并重新拉取配置的前缀
func (s *Store) Refresh(ctx context.Context) error {
	s.logger.DebugKV("刷新测点数据")
	if err := s.resubscribePoints(); err != nil {
		return err
	}
	if s.fetcher == nil {
		return nil
	}
	var first error
	for _, prefix := range s.config.PointPrefixes {
		if err := s.FetchPoints(ctx, prefix); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// resubscribePoints 重发已订阅测点与当前测点的订阅指令
func (s *Store) resubscribePoints() error {
	s.mu.RLock()
	set := make(map[string]struct{}, len(s.tracked)+len(s.points))
	for name := range s.tracked {
		set[name] = struct{}{}
	}
	for name := range s.points {
		set[name] = struct{}{}
	}
	s.mu.RUnlock()

	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return s.SubscribeAllPoints(names)
}

// resubscribeChannels 重发系统状态、设备状态与告警订阅
func (s *Store) resubscribeChannels() error {
	s.mu.RLock()
	system := s.systemSub
	devices := make([]string, 0, len(s.deviceSubs))
	for id := range s.deviceSubs {
		devices = append(devices, id)
	}
	levels := make([]string, 0, len(s.alarmSubs))
	for level := range s.alarmSubs {
		levels = append(levels, string(level))
	}
	s.mu.RUnlock()
	sort.Strings(devices)
	sort.Strings(levels)

	if system {
		if err := s.sub.SubscribeSystemStatus(); err != nil {
			return err
		}
	}
	for _, id := range devices {
		if err := s.sub.SubscribeDeviceStatus(id); err != nil {
			return err
		}
	}
	for _, level := range levels {
		if err := s.sub.SubscribeAlarms(models.AlarmLevel(level)); err != nil {
			return err
		}
	}
	return nil
}

// handleConnected 重连后补发订阅，并异步刷新已订阅测点的值
func (s *Store) handleConnected(sessionID string) {
	if s.config.DisableResubscribe || s.closed.Load() || s.sub.ConnectCount() <= 1 {
		return
	}
	if err := s.resubscribeChannels(); err != nil {
		s.logger.WarnKV("重连后补发订阅失败", "session_id", sessionID, "error", err)
		return
	}
	if err := s.resubscribePoints(); err != nil {
		s.logger.WarnKV("重连后补发测点订阅失败", "session_id", sessionID, "error", err)
		return
	}
	s.logger.InfoKV("重连后已补发订阅", "session_id", sessionID, "points", s.PointCount())

	if s.fetcher == nil {
		return
	}
	names := s.TrackedPoints()
	syncx.Go(s.ctx).
		WithTimeout(s.config.FetchTimeout).
		OnPanic(func(r any) {
			s.logger.ErrorKV("重连后刷新测点崩溃", "panic", r)
		}).
		ExecWithContext(func(ctx context.Context) error {
			return s.FetchBatch(ctx, names)
		})
}

// Run 按 RefreshInterval 周期刷新，阻塞直到 ctx 取消
func (s *Store) Run(ctx context.Context) {
	if !s.config.AutoRefresh {
		<-ctx.Done()
		return
	}
	syncx.NewEventLoop(ctx).
		OnTicker(s.config.RefreshInterval, func() {
			refreshCtx, cancel := context.WithTimeout(ctx, s.config.FetchTimeout)
			defer cancel()
			_ = s.Refresh(refreshCtx)
		}).
		OnPanic(func(r interface{}) {
			s.logger.ErrorKV("周期刷新崩溃", "panic", r)
		}).
		OnShutdown(func() {
			s.logger.InfoKV("周期刷新已停止")
		}).
		Run()
}
