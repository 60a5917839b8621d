/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-10-12 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-19 00:00:00
 * @FilePath: \go-wsmonitor\client\pending.go
 * @Description: 连接建立前的待执行操作队列
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package client

import (
	"sync"
	"sync/atomic"
)

// PendingOp 一次性待执行操作，只会被执行一次
type PendingOp struct {
	fn    func()
	fired atomic.Bool
}

// Fire 执行操作，重复调用无效果，返回本次是否真正执行
func (op *PendingOp) Fire() bool {
	if !op.fired.CompareAndSwap(false, true) {
		return false
	}
	op.fn()
	return true
}

// Fired 是否已执行
func (op *PendingOp) Fired() bool {
	return op.fired.Load()
}

// PendingQueue 先进先出的一次性操作队列
// 连接打开时整体取出并逐个执行，取出后队列为空
type PendingQueue struct {
	mu  sync.Mutex
	ops []*PendingOp
}

// NewPendingQueue 创建待执行队列
func NewPendingQueue() *PendingQueue {
	return &PendingQueue{}
}

// Add 追加操作
func (q *PendingQueue) Add(fn func()) *PendingOp {
	op := &PendingOp{fn: fn}
	q.mu.Lock()
	q.ops = append(q.ops, op)
	q.mu.Unlock()
	return op
}

// Len 当前排队数量
func (q *PendingQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.ops)
}

// Drain 取出全部操作并清空队列
func (q *PendingQueue) Drain() []*PendingOp {
	q.mu.Lock()
	ops := q.ops
	q.ops = nil
	q.mu.Unlock()
	return ops
}

// Flush 按入队顺序执行全部操作，返回执行数量
func (q *PendingQueue) Flush() int {
	fired := 0
	for _, op := range q.Drain() {
		if op.Fire() {
			fired++
		}
	}
	return fired
}
