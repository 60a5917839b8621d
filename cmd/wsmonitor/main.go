/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-10-18 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-19 00:00:00
 * @FilePath: \go-wsmonitor\cmd\wsmonitor\main.go
 * @Description: 监控面板服务入口 - 读取配置文件与环境变量，启动订阅与 HTTP 服务
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/kamalyes/go-wsmonitor"
	"github.com/kamalyes/go-wsmonitor/store"
	"github.com/spf13/viper"
)

const (
	envPrefix       = "WSMONITOR"
	shutdownTimeout = 10 * time.Second
)

func main() {
	configPath := flag.String("config", ".", "配置文件所在目录")
	configName := flag.String("name", "wsmonitor", "配置文件名（不含扩展名）")
	url := flag.String("url", "", "实时订阅地址，覆盖配置文件")
	addr := flag.String("addr", "", "HTTP 监听地址，覆盖配置文件")
	report := flag.Bool("report", false, "仅输出配置验证报告")
	flag.Parse()

	cfg, err := loadConfig(*configPath, *configName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}
	if *url != "" {
		cfg.WithURL(*url)
	}
	if *addr != "" {
		cfg.WithHTTPAddr(*addr)
	}

	if *report {
		fmt.Print(wsmonitor.NewConfigValidator().ValidateAndReport(cfg))
		return
	}

	log := wsmonitor.NewDefaultLogger()
	if cfg.WSC != nil {
		log = wsmonitor.InitLogger(cfg.WSC)
	}

	monitor, err := wsmonitor.New(cfg, wsmonitor.WithLogger(log))
	if err != nil {
		log.ErrorKV("创建监控面板失败", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := monitor.Start(ctx); err != nil {
		log.ErrorKV("启动监控面板失败", "error", err)
		monitor.Stop()
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           monitor.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.InfoKV("HTTP 服务已启动", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.ErrorKV("HTTP 服务异常退出", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.InfoKV("正在关闭")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WarnKV("HTTP 服务关闭超时", "error", err)
	}
	monitor.Stop()
}

// loadConfig 依次读取默认值、配置文件与 WSMONITOR_ 前缀的环境变量
func loadConfig(path, name string) (*wsmonitor.Config, error) {
	v := viper.New()
	v.SetConfigName(name)
	v.SetConfigType("yaml")
	v.AddConfigPath(path)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := wsmonitor.NewDefaultConfig()
	setDefaults(v, cfg)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setDefaults 注册默认值，未注册的键不会读取环境变量
func setDefaults(v *viper.Viper, cfg *wsmonitor.Config) {
	defaults := map[string]any{
		"url":                    cfg.URL,
		"reconnect_delay":        cfg.ReconnectDelay,
		"max_reconnect_delay":    cfg.MaxReconnectDelay,
		"reconnect_factor":       cfg.ReconnectFactor,
		"keep_alive_interval":    cfg.KeepAliveInterval,
		"write_timeout":          cfg.WriteTimeout,
		"handshake_timeout":      cfg.HandshakeTimeout,
		"max_message_size":       cfg.MaxMessageSize,
		"alarm_history_limit":    cfg.AlarmHistoryLimit,
		"recent_alarm_count":     cfg.RecentAlarmCount,
		"warning_threshold":      store.DefaultWarningThreshold,
		"error_threshold":        store.DefaultErrorThreshold,
		"point_prefixes":         cfg.PointPrefixes,
		"auto_refresh":           cfg.AutoRefresh,
		"refresh_interval":       cfg.RefreshInterval,
		"api_base_url":           cfg.APIBaseURL,
		"api_timeout":            cfg.APITimeout,
		"api_retries":            cfg.APIRetries,
		"http_addr":              cfg.HTTPAddr,
		"node_id":                cfg.NodeID,
		"redis_addr":             cfg.RedisAddr,
		"redis_password":         cfg.RedisPassword,
		"redis_db":               cfg.RedisDB,
		"pubsub_namespace":       cfg.PubSubNamespace,
		"report_interval":        cfg.ReportInterval,
		"archive_dsn":            cfg.ArchiveDSN,
		"archive_retention_days": cfg.ArchiveRetentionDays,
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
}
