/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-10-12 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-19 00:00:00
 * @FilePath: \go-wsmonitor\client\metrics.go
 * @Description: 传输层与分发器的 Prometheus 指标
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package client

import (
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "wsmonitor"

// 丢帧原因
const (
	dropReasonDecode  = "decode"
	dropReasonUnknown = "unknown_event"
)

// Metrics 客户端指标
type Metrics struct {
	connectionsTotal   prometheus.Counter
	disconnectsTotal   prometheus.Counter
	dialFailuresTotal  prometheus.Counter
	reconnectsTotal    prometheus.Counter
	connectionOpen     prometheus.Gauge
	framesReceived     prometheus.Counter
	framesDropped      *prometheus.CounterVec
	eventsDispatched   *prometheus.CounterVec
	handlerFailures    *prometheus.CounterVec
	commandsSent       prometheus.Counter
	writeErrorsTotal   prometheus.Counter
	pendingQueueLength prometheus.Gauge
}

// NewMetrics 创建指标，registerer 为 nil 时只创建不注册
func NewMetrics(registerer prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		connectionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "transport",
			Name:      "connections_total",
			Help:      "Total number of successfully opened connections",
		}),
		disconnectsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "transport",
			Name:      "disconnects_total",
			Help:      "Total number of connection closures",
		}),
		dialFailuresTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "transport",
			Name:      "dial_failures_total",
			Help:      "Total number of failed connection attempts",
		}),
		reconnectsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "transport",
			Name:      "reconnects_scheduled_total",
			Help:      "Total number of scheduled reconnect attempts",
		}),
		connectionOpen: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "transport",
			Name:      "connection_open",
			Help:      "1 when the connection is open, 0 otherwise",
		}),
		framesReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "transport",
			Name:      "frames_received_total",
			Help:      "Total number of inbound text frames",
		}),
		framesDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "dispatcher",
			Name:      "frames_dropped_total",
			Help:      "Total number of inbound frames dropped before dispatch",
		}, []string{"reason"}),
		eventsDispatched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "dispatcher",
			Name:      "events_dispatched_total",
			Help:      "Total number of dispatched events by type",
		}, []string{"event"}),
		handlerFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "dispatcher",
			Name:      "handler_failures_total",
			Help:      "Total number of handler errors and panics by event type",
		}, []string{"event"}),
		commandsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "transport",
			Name:      "commands_sent_total",
			Help:      "Total number of outbound text frames written",
		}),
		writeErrorsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "transport",
			Name:      "write_errors_total",
			Help:      "Total number of failed writes",
		}),
		pendingQueueLength: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "transport",
			Name:      "pending_operations",
			Help:      "Number of operations waiting for the connection to open",
		}),
	}

	if registerer == nil {
		return m, nil
	}
	for _, c := range m.collectors() {
		if err := registerer.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// newUnregisteredMetrics 创建不注册的指标
func newUnregisteredMetrics() *Metrics {
	m, _ := NewMetrics(nil)
	return m
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.connectionsTotal, m.disconnectsTotal, m.dialFailuresTotal, m.reconnectsTotal,
		m.connectionOpen, m.framesReceived, m.framesDropped, m.eventsDispatched,
		m.handlerFailures, m.commandsSent, m.writeErrorsTotal, m.pendingQueueLength,
	}
}
