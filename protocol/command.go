/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-10-12 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-19 00:00:00
 * @FilePath: \go-wsmonitor\protocol\command.go
 * @Description: 订阅指令编解码
 *
 * 指令为纯文本，每帧一条：
 *   SUBSCRIBE <channel> / UNSUBSCRIBE <channel> / PING
 * channel 为测点名，或关键字加可选过滤参数：
 *   SYSTEM_STATUS / DEVICE_STATUS [deviceId] / ALARMS [level]
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package protocol

import (
	"strings"

	"github.com/kamalyes/go-wsmonitor/models"
)

// Verb 指令动词
type Verb string

const (
	VerbSubscribe   Verb = "SUBSCRIBE"
	VerbUnsubscribe Verb = "UNSUBSCRIBE"
	VerbPing        Verb = "PING"
)

// PongFrame 服务端对 PING 的文本回应，不参与事件分发
const PongFrame = "PONG"

// 频道关键字
const (
	KeywordSystemStatus = "SYSTEM_STATUS"
	KeywordDeviceStatus = "DEVICE_STATUS"
	KeywordAlarms       = "ALARMS"
)

// ChannelKind 频道类别
type ChannelKind string

const (
	ChannelKindPoint        ChannelKind = "point"
	ChannelKindSystemStatus ChannelKind = "system_status"
	ChannelKindDeviceStatus ChannelKind = "device_status"
	ChannelKindAlarms       ChannelKind = "alarms"
)

// Channel 订阅频道
type Channel struct {
	Kind ChannelKind
	Arg  string // 测点名、设备ID或告警等级，可为空
}

// PointChannel 测点频道
func PointChannel(name string) Channel {
	return Channel{Kind: ChannelKindPoint, Arg: name}
}

// SystemStatusChannel 系统状态频道
func SystemStatusChannel() Channel {
	return Channel{Kind: ChannelKindSystemStatus}
}

// DeviceStatusChannel 设备状态频道，deviceID 为空表示全部设备
func DeviceStatusChannel(deviceID string) Channel {
	return Channel{Kind: ChannelKindDeviceStatus, Arg: deviceID}
}

// AlarmsChannel 告警频道，level 为空表示全部等级
func AlarmsChannel(level models.AlarmLevel) Channel {
	return Channel{Kind: ChannelKindAlarms, Arg: string(level)}
}

// String 编码频道
func (c Channel) String() string {
	switch c.Kind {
	case ChannelKindSystemStatus:
		return KeywordSystemStatus
	case ChannelKindDeviceStatus:
		return joinArg(KeywordDeviceStatus, c.Arg)
	case ChannelKindAlarms:
		return joinArg(KeywordAlarms, c.Arg)
	default:
		return c.Arg
	}
}

// Validate 校验频道参数，测点名不能为空，参数中不能含空白字符
func (c Channel) Validate() error {
	switch c.Kind {
	case ChannelKindPoint:
		if c.Arg == "" || hasSpace(c.Arg) {
			return models.ErrInvalidCommand
		}
	case ChannelKindSystemStatus:
		if c.Arg != "" {
			return models.ErrInvalidCommand
		}
	case ChannelKindDeviceStatus:
		if hasSpace(c.Arg) {
			return models.ErrInvalidCommand
		}
	case ChannelKindAlarms:
		if c.Arg != "" && !models.AlarmLevel(c.Arg).IsValid() {
			return models.ErrInvalidCommand
		}
	default:
		return models.ErrInvalidCommand
	}
	return nil
}

// Command 一条订阅指令
type Command struct {
	Verb    Verb
	Channel Channel
}

// Subscribe 构造订阅指令
func Subscribe(ch Channel) Command { return Command{Verb: VerbSubscribe, Channel: ch} }

// Unsubscribe 构造取消订阅指令
func Unsubscribe(ch Channel) Command { return Command{Verb: VerbUnsubscribe, Channel: ch} }

// Ping 构造保活指令
func Ping() Command { return Command{Verb: VerbPing} }

// String 编码为线上文本
func (c Command) String() string {
	if c.Verb == VerbPing {
		return string(VerbPing)
	}
	return joinArg(string(c.Verb), c.Channel.String())
}

// Validate 校验指令
func (c Command) Validate() error {
	switch c.Verb {
	case VerbPing:
		return nil
	case VerbSubscribe, VerbUnsubscribe:
		return c.Channel.Validate()
	default:
		return models.ErrInvalidCommand
	}
}

// Parse 解析线上文本为指令
func Parse(text string) (Command, error) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return Command{}, models.ErrInvalidCommand
	}

	verb := Verb(fields[0])
	switch verb {
	case VerbPing:
		if len(fields) != 1 {
			return Command{}, models.ErrInvalidCommand
		}
		return Ping(), nil
	case VerbSubscribe, VerbUnsubscribe:
	default:
		return Command{}, models.ErrInvalidCommand
	}

	args := fields[1:]
	if len(args) == 0 || len(args) > 2 {
		return Command{}, models.ErrInvalidCommand
	}

	var ch Channel
	switch args[0] {
	case KeywordSystemStatus:
		ch = SystemStatusChannel()
	case KeywordDeviceStatus:
		ch = Channel{Kind: ChannelKindDeviceStatus}
	case KeywordAlarms:
		ch = Channel{Kind: ChannelKindAlarms}
	default:
		if len(args) != 1 {
			return Command{}, models.ErrInvalidCommand
		}
		ch = PointChannel(args[0])
	}
	if len(args) == 2 {
		if ch.Kind == ChannelKindSystemStatus {
			return Command{}, models.ErrInvalidCommand
		}
		ch.Arg = args[1]
	}

	cmd := Command{Verb: verb, Channel: ch}
	if err := cmd.Validate(); err != nil {
		return Command{}, err
	}
	return cmd, nil
}

func joinArg(head, arg string) string {
	if arg == "" {
		return head
	}
	return head + " " + arg
}

func hasSpace(s string) bool {
	return strings.ContainsAny(s, " \t\r\n")
}
