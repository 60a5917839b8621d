/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-10-12 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-19 00:00:00
 * @FilePath: \go-wsmonitor\models\errors.go
 * @Description: 监控客户端错误定义 - 基于errorx.BaseError模式
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package models

import (
	"errors"
	"fmt"

	"github.com/kamalyes/go-toolbox/pkg/errorx"
)

// ErrorType 错误类型定义，基于errorx.ErrorType
type ErrorType = errorx.ErrorType

// 使用 9xxxx 区间，避免与其他包冲突
const (
	// 客户端生命周期 (90000-90099)
	ErrTypeClientShutdown ErrorType = 90001 // 客户端已关闭

	// 协议解析 (90100-90199)
	ErrTypeInvalidFrame         ErrorType = 90101 // 帧不是合法的 JSON 对象
	ErrTypeMissingDiscriminator ErrorType = 90102 // 缺少 event 判别字段
	ErrTypeUnknownEvent         ErrorType = 90103 // 未知事件类型
	ErrTypeInvalidPayload       ErrorType = 90104 // 事件负载不合法
	ErrTypeInvalidCommand       ErrorType = 90105 // 订阅指令不合法

	// 外部接口 (90200-90299)
	ErrTypeFetchFailed     ErrorType = 90201 // 测点拉取失败
	ErrTypeControlRejected ErrorType = 90202 // 控制指令被拒绝

	// 配置与装配 (90300-90399)
	ErrTypeConfigInvalid        ErrorType = 90301 // 配置不合法
	ErrTypeArchiveNotConfigured ErrorType = 90302 // 未配置告警归档
	ErrTypePubSubNotSet         ErrorType = 90303 // 未配置发布订阅
	ErrTypePointNotFound        ErrorType = 90304 // 测点不存在
	ErrTypeFetcherNotConfigured ErrorType = 90305 // 未配置测点接口
)

// errorMessages 错误类型对应的基础消息
var errorMessages = map[ErrorType]string{
	ErrTypeClientShutdown: "client is shut down",

	ErrTypeInvalidFrame:         "frame is not a json object",
	ErrTypeMissingDiscriminator: "frame has no event discriminator",
	ErrTypeUnknownEvent:         "unknown event type",
	ErrTypeInvalidPayload:       "invalid event payload",
	ErrTypeInvalidCommand:       "invalid subscription command",

	ErrTypeFetchFailed:     "fetch points failed",
	ErrTypeControlRejected: "control command rejected",

	ErrTypeConfigInvalid:        "configuration invalid",
	ErrTypeArchiveNotConfigured: "alarm archive is not configured",
	ErrTypePubSubNotSet:         "pubsub is not set",
	ErrTypePointNotFound:        "point not found",
	ErrTypeFetcherNotConfigured: "point fetcher is not configured",
}

// errorsRegistered 包级变量初始化早于 init()，哨兵错误通过它保证先注册
var errorsRegistered = registerErrors()

func registerErrors() bool {
	for errType, msg := range errorMessages {
		errorx.RegisterError(errType, msg)
	}
	return true
}

// newSentinel 创建已注册类型的哨兵错误
func newSentinel(errType ErrorType) errorx.BaseError {
	if !errorsRegistered {
		return errorx.NewBaseError(errorMessages[errType], errType)
	}
	return errorx.NewError(errType)
}

// 错误变量
var (
	ErrClientShutdown       = newSentinel(ErrTypeClientShutdown)
	ErrInvalidFrame         = newSentinel(ErrTypeInvalidFrame)
	ErrMissingDiscriminator = newSentinel(ErrTypeMissingDiscriminator)
	ErrUnknownEvent         = newSentinel(ErrTypeUnknownEvent)
	ErrInvalidPayload       = newSentinel(ErrTypeInvalidPayload)
	ErrInvalidCommand       = newSentinel(ErrTypeInvalidCommand)
	ErrFetchFailed          = newSentinel(ErrTypeFetchFailed)
	ErrControlRejected      = newSentinel(ErrTypeControlRejected)
	ErrConfigInvalid        = newSentinel(ErrTypeConfigInvalid)
	ErrArchiveNotConfigured = newSentinel(ErrTypeArchiveNotConfigured)
	ErrPubSubNotSet         = newSentinel(ErrTypePubSubNotSet)
	ErrPointNotFound        = newSentinel(ErrTypePointNotFound)
	ErrFetcherNotConfigured = newSentinel(ErrTypeFetcherNotConfigured)
)

// NewTypedError 创建带详情的类型错误，消息格式为 "<基础消息>: <详情>"
func NewTypedError(errType ErrorType, format string, args ...interface{}) error {
	base := errorx.NewError(errType).Msg
	return errorx.NewBaseError(base+": "+fmt.Sprintf(format, args...), errType)
}

// errorTypeOf 提取错误类型，兼容被包装的错误
func errorTypeOf(err error) (ErrorType, bool) {
	var typed interface{ GetType() ErrorType }
	if errors.As(err, &typed) {
		return typed.GetType(), true
	}
	return 0, false
}

// isErrorType 判断错误是否属于给定类型之一
func isErrorType(err error, sentinel error, types ...ErrorType) bool {
	if err == nil {
		return false
	}
	if err == sentinel || errors.Is(err, sentinel) {
		return true
	}
	errType, ok := errorTypeOf(err)
	if !ok {
		return false
	}
	for _, t := range types {
		if errType == t {
			return true
		}
	}
	return false
}

// IsClientShutdownError 判断是否为客户端已关闭错误
func IsClientShutdownError(err error) bool {
	return isErrorType(err, ErrClientShutdown, ErrTypeClientShutdown)
}

// IsDecodeError 判断是否为帧解析错误（格式、判别字段、负载）
func IsDecodeError(err error) bool {
	switch err {
	case ErrInvalidFrame, ErrMissingDiscriminator, ErrUnknownEvent, ErrInvalidPayload:
		return true
	}
	errType, ok := errorTypeOf(err)
	if !ok {
		return false
	}
	switch errType {
	case ErrTypeInvalidFrame, ErrTypeMissingDiscriminator, ErrTypeUnknownEvent, ErrTypeInvalidPayload:
		return true
	default:
		return false
	}
}

// IsUnknownEventError 判断是否为未知事件错误
func IsUnknownEventError(err error) bool {
	return isErrorType(err, ErrUnknownEvent, ErrTypeUnknownEvent)
}

// IsInvalidCommandError 判断是否为订阅指令错误
func IsInvalidCommandError(err error) bool {
	return isErrorType(err, ErrInvalidCommand, ErrTypeInvalidCommand)
}

// IsFetchError 判断是否为测点拉取错误
func IsFetchError(err error) bool {
	return isErrorType(err, ErrFetchFailed, ErrTypeFetchFailed, ErrTypeFetcherNotConfigured)
}

// IsControlRejectedError 判断是否为控制指令被拒绝
func IsControlRejectedError(err error) bool {
	return isErrorType(err, ErrControlRejected, ErrTypeControlRejected)
}

// IsConfigError 判断是否为配置错误
func IsConfigError(err error) bool {
	return isErrorType(err, ErrConfigInvalid, ErrTypeConfigInvalid)
}

// IsPointNotFoundError 判断是否为测点不存在错误
func IsPointNotFoundError(err error) bool {
	return isErrorType(err, ErrPointNotFound, ErrTypePointNotFound)
}
