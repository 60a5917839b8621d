/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2025-11-22 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-19 00:00:00
 * @FilePath: \go-wsmonitor\middleware\logger.go
 * @Description: HTTP 请求日志与 panic 恢复中间件，日志统一走 go-logger
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package middleware

import (
	"net/http"
	"runtime/debug"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/kamalyes/go-logger"
	"github.com/kamalyes/go-toolbox/pkg/mathx"
)

// SlowRequestThreshold 超过该耗时的请求按警告级别记录
var SlowRequestThreshold = 2 * time.Second

// RequestLogger 请求日志中间件，5xx 和慢请求记为警告
func RequestLogger(log logger.ILogger) func(http.Handler) http.Handler {
	if log == nil {
		log = logger.NewEmptyLogger()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				status := mathx.IF(ww.Status() == 0, http.StatusOK, ww.Status())
				elapsed := time.Since(start)
				fields := []interface{}{
					"method", r.Method,
					"path", r.URL.Path,
					"status", status,
					"bytes", ww.BytesWritten(),
					"duration", elapsed.String(),
					"remote", r.RemoteAddr,
				}
				if reqID := chimw.GetReqID(r.Context()); reqID != "" {
					fields = append(fields, "request_id", reqID)
				}

				switch {
				case status >= http.StatusInternalServerError:
					log.WarnKV("HTTP 请求失败", fields...)
				case elapsed > SlowRequestThreshold:
					log.WarnKV("HTTP 慢请求", fields...)
				default:
					log.DebugKV("HTTP 请求", fields...)
				}
			}()

			next.ServeHTTP(ww, r)
		})
	}
}

// Recoverer 捕获处理器 panic，记录堆栈并返回 500
func Recoverer(log logger.ILogger) func(http.Handler) http.Handler {
	if log == nil {
		log = logger.NewEmptyLogger()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					log.ErrorKV("HTTP 处理器 panic",
						"method", r.Method,
						"path", r.URL.Path,
						"panic", rec,
						"stack", string(debug.Stack()),
					)
					w.WriteHeader(http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
