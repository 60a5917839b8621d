/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-10-15 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-19 00:00:00
 * @FilePath: \go-wsmonitor\models\alarm_record.go
 * @Description: 告警归档记录模型
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package models

import (
	"time"

	"github.com/kamalyes/go-sqlbuilder"
)

// AlarmRecord 告警归档记录
type AlarmRecord struct {
	ID        uint64     `gorm:"primaryKey;autoIncrement;comment:自增主键" json:"id"`
	AlarmID   string     `gorm:"column:alarm_id;size:64;not null;index;comment:告警ID" json:"alarm_id"`
	Type      string     `gorm:"column:type;size:64;comment:告警类型" json:"type"`
	Level     AlarmLevel `gorm:"column:level;size:16;not null;index;comment:告警等级(info/warning/error)" json:"level"`
	Message   string     `gorm:"column:message;type:text;comment:告警内容" json:"message"`
	DeviceID  string     `gorm:"column:device_id;size:64;index;comment:关联设备" json:"device_id,omitempty"`
	PointName string     `gorm:"column:point_name;size:128;index;comment:关联测点" json:"point_name,omitempty"`
	RaisedAt  time.Time  `gorm:"column:raised_at;not null;index;comment:告警产生时间" json:"raised_at"`

	Metadata sqlbuilder.MapAny `gorm:"column:metadata;type:json;comment:扩展信息JSON" json:"metadata,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime;comment:记录创建时间" json:"created_at"`
}

// TableName 指定表名
func (AlarmRecord) TableName() string {
	return "wsmonitor_alarm_records"
}

// TableComment 表注释
func (AlarmRecord) TableComment() string {
	return "告警归档表-保存实时告警流用于追溯"
}

// NewAlarmRecord 从告警条目构造归档记录
func NewAlarmRecord(entry AlarmEntry) *AlarmRecord {
	return &AlarmRecord{
		AlarmID:   entry.AlarmID,
		Type:      entry.Type,
		Level:     entry.Level,
		Message:   entry.Message,
		DeviceID:  entry.DeviceID,
		PointName: entry.PointName,
		RaisedAt:  time.UnixMilli(entry.Timestamp),
		Metadata:  sqlbuilder.MapAny{},
	}
}

// ToEntry 还原为告警条目
func (r *AlarmRecord) ToEntry() AlarmEntry {
	return AlarmEntry{
		AlarmID:   r.AlarmID,
		Type:      r.Type,
		Level:     r.Level,
		Message:   r.Message,
		Timestamp: r.RaisedAt.UnixMilli(),
		DeviceID:  r.DeviceID,
		PointName: r.PointName,
	}
}
