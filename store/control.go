/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-10-13 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-19 00:00:00
 * @FilePath: \go-wsmonitor\store\control.go
 * @Description: 控制指令下发
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package store

import (
	"context"

	"github.com/kamalyes/go-wsmonitor/models"
)

// SendControl 下发控制值，成功后测点处于待确认状态，直到收到下一次更新
func (s *Store) SendControl(ctx context.Context, point, value string) error {
	if s.fetcher == nil {
		return models.ErrFetcherNotConfigured
	}
	if err := s.fetcher.SendControl(ctx, point, value); err != nil {
		s.logger.WarnKV("控制指令下发失败", "point", point, "value", value, "error", err)
		return err
	}
	s.mu.Lock()
	s.controls[point] = value
	s.mu.Unlock()
	s.logger.InfoKV("控制指令已下发", "point", point, "value", value)
	return nil
}

// IsPending 测点是否有待确认的控制指令
func (s *Store) IsPending(point string) bool {
	_, ok := s.PendingControl(point)
	return ok
}

// PendingControl 待确认的控制值
func (s *Store) PendingControl(point string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.controls[point]
	return v, ok
}
