/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-01-02 13:55:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-19 00:00:00
 * @FilePath: \go-wsmonitor\internal\testsetup\connect.go
 * @Description: 测试连接配置 - 统一管理 Redis 和 MySQL 连接，未配置环境变量时跳过
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */

package testsetup

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// 环境变量
const (
	EnvRedisAddr     = "WSMONITOR_TEST_REDIS"
	EnvRedisPassword = "WSMONITOR_TEST_REDIS_PASSWORD"
	EnvMySQLDSN      = "WSMONITOR_TEST_MYSQL_DSN"
	testRedisDB      = 1
)

var (
	redisInstance *redis.Client
	redisOnce     sync.Once
	redisErr      error

	dbInstance *gorm.DB
	dbOnce     sync.Once
	dbErr      error

	migrated   = make(map[string]bool)
	migrateMux sync.Mutex
)

// RedisClient 获取测试用 Redis 客户端（单例），未设置 WSMONITOR_TEST_REDIS 时跳过测试
func RedisClient(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv(EnvRedisAddr)
	if addr == "" {
		t.Skipf("未设置 %s，跳过 Redis 测试", EnvRedisAddr)
	}

	redisOnce.Do(func() {
		client := redis.NewClient(&redis.Options{
			Addr:         addr,
			Password:     os.Getenv(EnvRedisPassword),
			DB:           testRedisDB,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 5 * time.Second,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if redisErr = client.Ping(ctx).Err(); redisErr == nil {
			redisInstance = client
		}
	})
	require.NoError(t, redisErr, "Redis 连接失败，请检查配置和网络")
	return redisInstance
}

// CleanupRedisKeys 删除指定前缀的键
func CleanupRedisKeys(t *testing.T, client *redis.Client, prefixes ...string) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, prefix := range prefixes {
		iter := client.Scan(ctx, 0, prefix+"*", 100).Iterator()
		for iter.Next(ctx) {
			_ = client.Del(ctx, iter.Val()).Err()
		}
	}
}

// DB 获取测试用 MySQL 连接（单例），未设置 WSMONITOR_TEST_MYSQL_DSN 时跳过测试
func DB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv(EnvMySQLDSN)
	if dsn == "" {
		t.Skipf("未设置 %s，跳过 MySQL 测试", EnvMySQLDSN)
	}

	dbOnce.Do(func() {
		t.Logf("📌 使用 MySQL 配置: %s", MaskPassword(dsn))
		var db *gorm.DB
		db, dbErr = gorm.Open(mysql.Open(dsn), &gorm.Config{
			Logger:                 logger.Default.LogMode(logger.Silent),
			SkipDefaultTransaction: true,
		})
		if dbErr != nil {
			return
		}
		sqlDB, err := db.DB()
		if err != nil {
			dbErr = err
			return
		}
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if dbErr = sqlDB.PingContext(ctx); dbErr == nil {
			dbInstance = db
		}
	})
	require.NoError(t, dbErr, "MySQL 连接失败，请检查配置和网络")
	return dbInstance
}

// DBWithMigration 获取测试用数据库并迁移模型，相同模型只迁移一次
func DBWithMigration(t *testing.T, models ...interface{}) *gorm.DB {
	db := DB(t)

	migrateMux.Lock()
	defer migrateMux.Unlock()
	var pending []interface{}
	for _, model := range models {
		key := fmt.Sprintf("%T", model)
		if !migrated[key] {
			pending = append(pending, model)
			migrated[key] = true
		}
	}
	if len(pending) > 0 {
		require.NoError(t, db.AutoMigrate(pending...), "数据库迁移失败")
	}
	return db
}

// MaskPassword 隐藏 DSN 中的密码
func MaskPassword(dsn string) string {
	at := strings.LastIndex(dsn, "@")
	colon := strings.Index(dsn, ":")
	if at < 0 || colon < 0 || colon > at {
		return dsn
	}
	return dsn[:colon+1] + "****" + dsn[at:]
}
