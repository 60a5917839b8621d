/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-10-13 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-19 00:00:00
 * @FilePath: \go-wsmonitor\store\query.go
 * @Description: 只读投影查询与本地状态维护
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package store

import (
	"sort"

	"github.com/kamalyes/go-toolbox/pkg/mathx"
	"github.com/kamalyes/go-wsmonitor/models"
)

// Points 全部测点，按名称排序
func (s *Store) Points() []models.PointState {
	return s.filterPoints(func(models.PointState) bool { return true })
}

// PointsByStatus 指定状态的测点
func (s *Store) PointsByStatus(status models.PointStatus) []models.PointState {
	return s.filterPoints(func(p models.PointState) bool { return p.Status == status })
}

func (s *Store) filterPoints(keep func(models.PointState) bool) []models.PointState {
	s.mu.RLock()
	result := make([]models.PointState, 0, len(s.points))
	for _, p := range s.points {
		if keep(p) {
			result = append(result, p)
		}
	}
	s.mu.RUnlock()
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

// Point 单个测点
func (s *Store) Point(name string) (models.PointState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.points[name]
	return p, ok
}

// PointCount 测点数量
func (s *Store) PointCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.points)
}

// Devices 全部设备，按标识排序
func (s *Store) Devices() []models.DeviceState {
	return s.filterDevices(func(models.DeviceState) bool { return true })
}

// DevicesByStatus 指定状态的设备
func (s *Store) DevicesByStatus(status models.DeviceStatus) []models.DeviceState {
	return s.filterDevices(func(d models.DeviceState) bool { return d.Status == status })
}

func (s *Store) filterDevices(keep func(models.DeviceState) bool) []models.DeviceState {
	s.mu.RLock()
	result := make([]models.DeviceState, 0, len(s.devices))
	for _, d := range s.devices {
		if keep(d) {
			result = append(result, d)
		}
	}
	s.mu.RUnlock()
	sort.Slice(result, func(i, j int) bool { return result[i].DeviceID < result[j].DeviceID })
	return result
}

// Device 单个设备
func (s *Store) Device(id string) (models.DeviceState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.devices[id]
	return d, ok
}

// DeviceCount 设备数量
func (s *Store) DeviceCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.devices)
}

// Alarms 告警历史，最新在前
func (s *Store) Alarms() []models.AlarmEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]models.AlarmEntry, len(s.alarms))
	copy(result, s.alarms)
	return result
}

// AlarmsByLevel 指定等级的告警，最新在前
func (s *Store) AlarmsByLevel(level models.AlarmLevel) []models.AlarmEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]models.AlarmEntry, 0)
	for _, a := range s.alarms {
		if a.Level == level {
			result = append(result, a)
		}
	}
	return result
}

// RecentAlarms 最近的告警
func (s *Store) RecentAlarms() []models.AlarmEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := max(mathx.IF(len(s.alarms) < s.config.RecentAlarmCount, len(s.alarms), s.config.RecentAlarmCount), 0)
	result := make([]models.AlarmEntry, n)
	copy(result, s.alarms[:n])
	return result
}

// SystemStatus 系统资源状态
func (s *Store) SystemStatus() models.SystemState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.system
}

// Summary 汇总统计
func (s *Store) Summary() models.Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var sum models.Summary
	sum.Points.Total = len(s.points)
	for _, p := range s.points {
		switch p.Status {
		case models.PointStatusNormal:
			sum.Points.Normal++
		case models.PointStatusWarning:
			sum.Points.Warning++
		case models.PointStatusError:
			sum.Points.Error++
		}
	}
	sum.Devices.Total = len(s.devices)
	for _, d := range s.devices {
		switch d.Status {
		case models.DeviceStatusOnline:
			sum.Devices.Online++
		case models.DeviceStatusOffline:
			sum.Devices.Offline++
		case models.DeviceStatusError:
			sum.Devices.Error++
		}
	}
	sum.Alarms.Total = len(s.alarms)
	for _, a := range s.alarms {
		switch a.Level {
		case models.AlarmLevelInfo:
			sum.Alarms.Info++
		case models.AlarmLevelWarning:
			sum.Alarms.Warning++
		case models.AlarmLevelError:
			sum.Alarms.Error++
		}
	}
	return sum
}

// ClearPoints 清空测点状态，不影响订阅
func (s *Store) ClearPoints() {
	s.mu.Lock()
	s.points = make(map[string]models.PointState)
	s.mu.Unlock()
}

// ClearDevices 清空设备状态
func (s *Store) ClearDevices() {
	s.mu.Lock()
	s.devices = make(map[string]models.DeviceState)
	s.mu.Unlock()
}

// ClearAlarms 清空告警历史
func (s *Store) ClearAlarms() {
	s.mu.Lock()
	s.alarms = nil
	s.mu.Unlock()
}

// SetError 设置面向用户的错误信息
func (s *Store) SetError(msg string) {
	s.mu.Lock()
	s.errorMessage = msg
	s.mu.Unlock()
}

// ClearError 清除错误信息
func (s *Store) ClearError() {
	s.SetError("")
}

// Error 当前错误信息，为空表示无错误
func (s *Store) Error() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.errorMessage
}

// Loading 是否正在拉取测点
func (s *Store) Loading() bool {
	return s.loading.Load() > 0
}

// SetAlarmHistoryLimit 调整告警上限，立即截断
func (s *Store) SetAlarmHistoryLimit(limit int) {
	if limit < 1 {
		limit = 1
	}
	s.mu.Lock()
	s.alarmLimit = limit
	s.truncateAlarmsLocked()
	s.mu.Unlock()
}

// AlarmHistoryLimit 当前告警上限
func (s *Store) AlarmHistoryLimit() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.alarmLimit
}

// SetPointThresholds 设置测点阈值并重新计算该测点状态
func (s *Store) SetPointThresholds(name string, t Thresholds) {
	s.policy.SetThresholds(name, t)
	s.mu.Lock()
	if p, ok := s.points[name]; ok {
		p.Status = s.policy.Classify(name, p.Value)
		s.points[name] = p
	}
	s.mu.Unlock()
}
