/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-10-12 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-19 00:00:00
 * @FilePath: \go-wsmonitor\models\event.go
 * @Description: 服务端推送事件定义与解码
 *
 * 每一帧都是带 "event" 判别字段的 JSON 对象，解码后得到四种事件之一：
 *   - POINT_UPDATE         测点值更新
 *   - SYSTEM_STATUS_UPDATE 系统资源状态
 *   - DEVICE_STATUS_UPDATE 设备状态
 *   - ALARM_UPDATE         告警
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package models

import (
	"bytes"
	"encoding/json"
	"time"
)

// Event 服务端事件，仅限本包定义的四种变体
type Event interface {
	EventType() EventType
	isEvent()
}

// PointUpdate 测点更新
type PointUpdate struct {
	Name      string `json:"name"`
	Value     string `json:"value"`
	Timestamp int64  `json:"timestamp"`
	Driver    string `json:"driver,omitempty"`
	Device    string `json:"device,omitempty"`
}

// SystemStatusUpdate 系统资源状态，数值均为百分比
type SystemStatusUpdate struct {
	CPU       float64 `json:"cpu"`
	Memory    float64 `json:"memory"`
	Disk      float64 `json:"disk"`
	Network   float64 `json:"network"`
	Timestamp int64   `json:"timestamp"`
}

// DeviceStatusUpdate 设备状态
type DeviceStatusUpdate struct {
	DeviceID     string       `json:"deviceId"`
	Status       DeviceStatus `json:"status"`
	ResponseTime float64      `json:"responseTime"`
	Timestamp    int64        `json:"timestamp"`
}

// AlarmUpdate 告警
type AlarmUpdate struct {
	AlarmID   string     `json:"alarmId"`
	Type      string     `json:"type"`
	Level     AlarmLevel `json:"level"`
	Message   string     `json:"message"`
	Timestamp int64      `json:"timestamp"`
	DeviceID  string     `json:"deviceId,omitempty"`
	PointName string     `json:"pointName,omitempty"`
}

func (*PointUpdate) EventType() EventType        { return EventTypePointUpdate }
func (*SystemStatusUpdate) EventType() EventType { return EventTypeSystemStatusUpdate }
func (*DeviceStatusUpdate) EventType() EventType { return EventTypeDeviceStatusUpdate }
func (*AlarmUpdate) EventType() EventType        { return EventTypeAlarmUpdate }

func (*PointUpdate) isEvent()        {}
func (*SystemStatusUpdate) isEvent() {}
func (*DeviceStatusUpdate) isEvent() {}
func (*AlarmUpdate) isEvent()        {}

// UnmarshalJSON 测点值可能是字符串或数字，统一规范为字符串
func (p *PointUpdate) UnmarshalJSON(data []byte) error {
	type alias PointUpdate
	aux := struct {
		*alias
		Value json.RawMessage `json:"value"`
	}{alias: (*alias)(p)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	p.Value = NormalizeValue(aux.Value)
	return nil
}

// NormalizeValue 将测点值统一为文本: 字符串取其内容，其它 JSON 值保留原始文本，null 视为空
func NormalizeValue(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
	}
	return string(raw)
}

// Time 测点时间
func (p *PointUpdate) Time() time.Time { return time.UnixMilli(p.Timestamp) }

// Time 告警时间
func (a *AlarmUpdate) Time() time.Time { return time.UnixMilli(a.Timestamp) }

// envelope 只解析判别字段
type envelope struct {
	Event json.RawMessage `json:"event"`
}

// DecodeEvent 解析一帧文本为事件
// 非 JSON 对象返回 ErrInvalidFrame，缺少判别字段返回 ErrMissingDiscriminator，
// 判别字段未知返回 ErrUnknownEvent，负载缺少必需字段返回 ErrInvalidPayload
func DecodeEvent(data []byte) (Event, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, ErrInvalidFrame
	}

	var env envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, ErrInvalidFrame
	}

	var name string
	if len(env.Event) == 0 || json.Unmarshal(env.Event, &name) != nil || name == "" {
		return nil, ErrMissingDiscriminator
	}

	switch EventType(name) {
	case EventTypePointUpdate:
		evt := &PointUpdate{}
		if err := json.Unmarshal(trimmed, evt); err != nil || evt.Name == "" {
			return nil, ErrInvalidPayload
		}
		return evt, nil
	case EventTypeSystemStatusUpdate:
		evt := &SystemStatusUpdate{}
		if err := json.Unmarshal(trimmed, evt); err != nil {
			return nil, ErrInvalidPayload
		}
		return evt, nil
	case EventTypeDeviceStatusUpdate:
		evt := &DeviceStatusUpdate{}
		if err := json.Unmarshal(trimmed, evt); err != nil || evt.DeviceID == "" {
			return nil, ErrInvalidPayload
		}
		return evt, nil
	case EventTypeAlarmUpdate:
		evt := &AlarmUpdate{}
		if err := json.Unmarshal(trimmed, evt); err != nil || evt.AlarmID == "" {
			return nil, ErrInvalidPayload
		}
		return evt, nil
	default:
		return nil, ErrUnknownEvent
	}
}

// EncodeEvent 序列化事件，输出带 event 判别字段的 JSON 对象
func EncodeEvent(evt Event) ([]byte, error) {
	body, err := json.Marshal(evt)
	if err != nil {
		return nil, err
	}
	head, err := json.Marshal(struct {
		Event EventType `json:"event"`
	}{Event: evt.EventType()})
	if err != nil {
		return nil, err
	}
	if len(body) <= 2 {
		return head, nil
	}
	out := make([]byte, 0, len(head)+len(body))
	out = append(out, head[:len(head)-1]...)
	out = append(out, ',')
	return append(out, body[1:]...), nil
}
