/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-10-14 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-19 00:00:00
 * @FilePath: \go-wsmonitor\pointapi\client.go
 * @Description: 测点 HTTP 接口客户端 - 前缀查询、批量查询与控制下发
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package pointapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kamalyes/go-logger"
	"github.com/kamalyes/go-toolbox/pkg/errorx"
	"github.com/kamalyes/go-toolbox/pkg/retry"
	"github.com/kamalyes/go-toolbox/pkg/safe"
	"github.com/kamalyes/go-wsmonitor/models"
)

// 接口路径
const (
	PathPoints  = "/api/v1/points"
	PathBatch   = "/api/v1/points/batch"
	PathControl = "/api/v1/control"
)

// 默认值
const (
	DefaultTimeout       = 10 * time.Second
	DefaultRetries       = 2
	DefaultRetryInterval = 500 * time.Millisecond
	maxErrorBody         = 512
)

// Config 接口客户端配置
type Config struct {
	BaseURL       string        `mapstructure:"base_url"`
	Timeout       time.Duration `mapstructure:"timeout"`
	Retries       int           `mapstructure:"retries"` // 失败后的重试次数
	RetryInterval time.Duration `mapstructure:"retry_interval"`
}

// DefaultConfig 默认配置
func DefaultConfig() *Config {
	return &Config{
		Timeout:       DefaultTimeout,
		Retries:       DefaultRetries,
		RetryInterval: DefaultRetryInterval,
	}
}

// Client 测点接口客户端
type Client struct {
	baseURL *url.URL
	config  *Config
	http    *http.Client
	logger  logger.ILogger
}

// Option 客户端选项
type Option func(*Client)

// WithHTTPClient 设置 HTTP 客户端
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		if c != nil {
			cl.http = c
		}
	}
}

// WithLogger 设置日志器
func WithLogger(l logger.ILogger) Option {
	return func(cl *Client) {
		if l != nil {
			cl.logger = l
		}
	}
}

// New 创建接口客户端
func New(cfg *Config, opts ...Option) (*Client, error) {
	cfg = safe.MergeWithDefaults(cfg, DefaultConfig())
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil || base.Host == "" || (base.Scheme != "http" && base.Scheme != "https") {
		return nil, models.NewTypedError(models.ErrTypeConfigInvalid, "invalid point api base url %q", cfg.BaseURL)
	}
	c := &Client{
		baseURL: base,
		config:  cfg,
		http:    &http.Client{Timeout: cfg.Timeout},
		logger:  logger.NewEmptyLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL 接口地址
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// FetchPoints 按前缀查询测点，prefix 为空查询全部
func (c *Client) FetchPoints(ctx context.Context, prefix string) (map[string]models.PointSnapshot, error) {
	query := url.Values{}
	query.Set("prefix", prefix)
	var resp pointsResponse
	if err := c.do(ctx, http.MethodGet, PathPoints, query, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Points, nil
}

// FetchBatch 按名称批量查询测点
func (c *Client) FetchBatch(ctx context.Context, names []string) (map[string]models.PointSnapshot, error) {
	if len(names) == 0 {
		return map[string]models.PointSnapshot{}, nil
	}
	var resp pointsResponse
	if err := c.do(ctx, http.MethodPost, PathBatch, nil, batchRequest{PointIDs: names}, &resp); err != nil {
		return nil, err
	}
	return resp.Points, nil
}

// SendControl 下发控制值，后端返回 success=false 时返回 ErrControlRejected
func (c *Client) SendControl(ctx context.Context, point, value string) error {
	var resp ControlResponse
	if err := c.do(ctx, http.MethodPost, PathControl, nil, controlRequest{PointID: point, Value: value}, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return models.NewTypedError(models.ErrTypeControlRejected, "point %s: %s", point, resp.Message)
	}
	return nil
}

// do 发送请求并解码响应，网络错误与 5xx 按配置重试
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint := *c.baseURL
	endpoint.Path += path
	if query != nil {
		endpoint.RawQuery = query.Encode()
	}

	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return errorx.WrapError("encode request", err)
		}
	}

	var lastErr error
	err := retry.NewRetryWithCtx(ctx).
		SetAttemptCount(c.config.Retries + 1).
		SetInterval(c.config.RetryInterval).
		SetConditionFunc(isRetryable).
		Do(func() error {
			lastErr = c.attempt(ctx, method, endpoint.String(), payload, out)
			return lastErr
		})
	if err == nil {
		return nil
	}
	if lastErr == nil {
		lastErr = err
	}
	c.logger.WarnKV("测点接口请求失败", "method", method, "url", endpoint.String(), "error", lastErr)
	return lastErr
}

func (c *Client) attempt(ctx context.Context, method, endpoint string, payload []byte, out any) error {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return models.NewTypedError(models.ErrTypeFetchFailed, "build request: %v", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &transientError{err: models.NewTypedError(models.ErrTypeFetchFailed, "%s %s: %v", method, endpoint, err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		statusErr := models.NewTypedError(models.ErrTypeFetchFailed, "%s %s: status %d: %s",
			method, endpoint, resp.StatusCode, strings.TrimSpace(string(snippet)))
		if resp.StatusCode >= 500 {
			return &transientError{err: statusErr}
		}
		return statusErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return models.NewTypedError(models.ErrTypeFetchFailed, "decode %s response: %v", urlPath(endpoint), err)
	}
	return nil
}

// transientError 可重试的错误
type transientError struct {
	err error
}

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

func isRetryable(err error) bool {
	_, ok := err.(*transientError)
	return ok
}

func urlPath(endpoint string) string {
	if u, err := url.Parse(endpoint); err == nil {
		return u.Path
	}
	return endpoint
}
