/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2025-09-06 09:50:55
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-19 00:00:00
 * @FilePath: \go-wsmonitor\errors.go
 * @Description: 错误定义导出 - 实际定义位于 models 包
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package wsmonitor

import "github.com/kamalyes/go-wsmonitor/models"

// ErrorType 错误类型
type ErrorType = models.ErrorType

// 错误码
const (
	ErrTypeClientShutdown       = models.ErrTypeClientShutdown
	ErrTypeInvalidFrame         = models.ErrTypeInvalidFrame
	ErrTypeMissingDiscriminator = models.ErrTypeMissingDiscriminator
	ErrTypeUnknownEvent         = models.ErrTypeUnknownEvent
	ErrTypeInvalidPayload       = models.ErrTypeInvalidPayload
	ErrTypeInvalidCommand       = models.ErrTypeInvalidCommand
	ErrTypeFetchFailed          = models.ErrTypeFetchFailed
	ErrTypeControlRejected      = models.ErrTypeControlRejected
	ErrTypeConfigInvalid        = models.ErrTypeConfigInvalid
	ErrTypeArchiveNotConfigured = models.ErrTypeArchiveNotConfigured
	ErrTypePubSubNotSet         = models.ErrTypePubSubNotSet
	ErrTypePointNotFound        = models.ErrTypePointNotFound
	ErrTypeFetcherNotConfigured = models.ErrTypeFetcherNotConfigured
)

// 预定义错误
var (
	ErrClientShutdown       = models.ErrClientShutdown
	ErrInvalidFrame         = models.ErrInvalidFrame
	ErrMissingDiscriminator = models.ErrMissingDiscriminator
	ErrUnknownEvent         = models.ErrUnknownEvent
	ErrInvalidPayload       = models.ErrInvalidPayload
	ErrInvalidCommand       = models.ErrInvalidCommand
	ErrFetchFailed          = models.ErrFetchFailed
	ErrControlRejected      = models.ErrControlRejected
	ErrConfigInvalid        = models.ErrConfigInvalid
	ErrArchiveNotConfigured = models.ErrArchiveNotConfigured
	ErrPubSubNotSet         = models.ErrPubSubNotSet
	ErrPointNotFound        = models.ErrPointNotFound
	ErrFetcherNotConfigured = models.ErrFetcherNotConfigured
)

// 错误判断
var (
	IsClientShutdownError  = models.IsClientShutdownError
	IsDecodeError          = models.IsDecodeError
	IsUnknownEventError    = models.IsUnknownEventError
	IsInvalidCommandError  = models.IsInvalidCommandError
	IsFetchError           = models.IsFetchError
	IsControlRejectedError = models.IsControlRejectedError
	IsConfigError          = models.IsConfigError
	IsPointNotFoundError   = models.IsPointNotFoundError
)
