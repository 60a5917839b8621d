/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-10-15 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-19 00:00:00
 * @FilePath: \go-wsmonitor\repository\alarm_archive_repository.go
 * @Description: 告警归档仓储 - 基于 GORM 的持久化实现
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */

package repository

import (
	"context"
	"time"

	"github.com/kamalyes/go-logger"
	sqlbuilder "github.com/kamalyes/go-sqlbuilder/repository"
	"github.com/kamalyes/go-toolbox/pkg/mathx"
	"github.com/kamalyes/go-toolbox/pkg/syncx"
	"github.com/kamalyes/go-wsmonitor/models"
	"gorm.io/gorm"
)

// AlarmArchiveRepository 告警归档仓储接口
type AlarmArchiveRepository interface {
	// Archive 写入一条告警
	Archive(ctx context.Context, entry models.AlarmEntry) error

	// Query 按条件查询，默认按产生时间倒序
	Query(ctx context.Context, opts *AlarmQueryOptions) ([]*models.AlarmRecord, error)

	// Count 按条件统计
	Count(ctx context.Context, opts *AlarmQueryOptions) (int64, error)

	// CountByLevel 统计 since 之后各等级告警数
	CountByLevel(ctx context.Context, since time.Time) (map[models.AlarmLevel]int64, error)

	// Cleanup 删除 before 之前产生的告警
	Cleanup(ctx context.Context, before time.Time) (int64, error)

	// AutoMigrate 建表
	AutoMigrate(ctx context.Context) error

	// WithTableName 设置自定义表名（用于测试隔离）
	WithTableName(tableName string) AlarmArchiveRepository

	// Close 停止后台清理任务
	Close() error
}

// AlarmQueryOptions 告警查询选项
type AlarmQueryOptions struct {
	Level     models.AlarmLevel // 等级过滤
	Type      string            // 类型过滤
	DeviceID  string            // 设备过滤
	PointName string            // 测点过滤
	Since     time.Time         // 产生时间下限，零值不过滤
	Limit     int
	Offset    int
}

// ArchiveConfig 归档配置
type ArchiveConfig struct {
	RetentionDays   int           `mapstructure:"retention_days"`   // 保留天数，0 表示不清理
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"` // 清理间隔，默认 24 小时
	NodeID          string        `mapstructure:"node_id"`          // 写入 metadata 的节点标识
}

// alarmArchiveRepositoryImpl 告警归档仓储实现
type alarmArchiveRepositoryImpl struct {
	db         *gorm.DB
	tableName  string
	nodeID     string
	logger     logger.ILogger
	cancelFunc context.CancelFunc
}

// NewAlarmArchiveRepository 创建告警归档仓储
//
// 参数:
//   - db: GORM 数据库实例
//   - config: 归档配置（可选，传 nil 则不启用自动清理）
//   - log: 日志记录器
func NewAlarmArchiveRepository(db *gorm.DB, config *ArchiveConfig, log logger.ILogger) AlarmArchiveRepository {
	ctx, cancel := context.WithCancel(context.Background())
	if log == nil {
		log = logger.NewEmptyLogger()
	}

	repo := &alarmArchiveRepositoryImpl{
		db:         db,
		logger:     log,
		cancelFunc: cancel,
	}

	if config != nil {
		repo.nodeID = config.NodeID
		if config.RetentionDays > 0 {
			interval := mathx.IfNotZero(config.CleanupInterval, DefaultCleanupInterval)
			go repo.startCleanupScheduler(ctx, config.RetentionDays, interval)
		}
	}

	return repo
}

// WithTableName 设置自定义表名（用于测试隔离）
func (r *alarmArchiveRepositoryImpl) WithTableName(tableName string) AlarmArchiveRepository {
	return &alarmArchiveRepositoryImpl{
		db:         r.db,
		tableName:  tableName,
		nodeID:     r.nodeID,
		logger:     r.logger,
		cancelFunc: r.cancelFunc,
	}
}

func (r *alarmArchiveRepositoryImpl) getDB(ctx context.Context) *gorm.DB {
	db := r.db.WithContext(ctx)
	if r.tableName != "" {
		return db.Table(r.tableName)
	}
	return db.Model(&models.AlarmRecord{})
}

// AutoMigrate 建表
func (r *alarmArchiveRepositoryImpl) AutoMigrate(ctx context.Context) error {
	db := r.db.WithContext(ctx)
	if r.tableName != "" {
		db = db.Table(r.tableName)
	}
	return db.AutoMigrate(&models.AlarmRecord{})
}

// Archive 写入一条告警
func (r *alarmArchiveRepositoryImpl) Archive(ctx context.Context, entry models.AlarmEntry) error {
	record := models.NewAlarmRecord(entry)
	if r.nodeID != "" {
		record.Metadata[AlarmMetadataNodeID] = r.nodeID
	}
	return r.getDB(ctx).Create(record).Error
}

// Query 按条件查询
func (r *alarmArchiveRepositoryImpl) Query(ctx context.Context, opts *AlarmQueryOptions) ([]*models.AlarmRecord, error) {
	query := sqlbuilder.NewQuery().AddOrder(AlarmColumnRaisedAt, "DESC")
	if opts != nil && opts.Limit > 0 {
		query.Limit(opts.Limit)
	}

	gormDB := r.applyQueryOptions(r.getDB(ctx), opts)
	gormDB = sqlbuilder.ApplyOrders(gormDB, query.Orders)
	if query.LimitValue != nil {
		gormDB = gormDB.Limit(*query.LimitValue)
	}
	if opts != nil && opts.Offset > 0 {
		gormDB = gormDB.Offset(opts.Offset)
	}

	var records []*models.AlarmRecord
	err := gormDB.Find(&records).Error
	return records, err
}

// Count 按条件统计
func (r *alarmArchiveRepositoryImpl) Count(ctx context.Context, opts *AlarmQueryOptions) (int64, error) {
	var count int64
	err := r.applyQueryOptions(r.getDB(ctx), opts).Count(&count).Error
	return count, err
}

// applyQueryOptions 应用查询条件
func (r *alarmArchiveRepositoryImpl) applyQueryOptions(db *gorm.DB, opts *AlarmQueryOptions) *gorm.DB {
	if opts == nil {
		return db
	}

	// 使用 go-sqlbuilder 构建过滤条件
	sqlQuery := sqlbuilder.NewQuery().
		AddFilterIfNotEmpty("level", string(opts.Level)).
		AddFilterIfNotEmpty("type", opts.Type).
		AddFilterIfNotEmpty("device_id", opts.DeviceID).
		AddFilterIfNotEmpty("point_name", opts.PointName)
	if !opts.Since.IsZero() {
		sqlQuery.AddFilter(sqlbuilder.NewGteFilter(AlarmColumnRaisedAt, opts.Since))
	}

	return sqlbuilder.ApplyFilters(db, sqlQuery.Filters)
}

// CountByLevel 统计 since 之后各等级告警数
func (r *alarmArchiveRepositoryImpl) CountByLevel(ctx context.Context, since time.Time) (map[models.AlarmLevel]int64, error) {
	var rows []struct {
		Level models.AlarmLevel
		Total int64
	}
	err := r.getDB(ctx).
		Select("level, COUNT(*) as total").
		Where("raised_at >= ?", since).
		Group("level").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make(map[models.AlarmLevel]int64, len(rows))
	for _, row := range rows {
		result[row.Level] = row.Total
	}
	return result, nil
}

// Cleanup 删除 before 之前产生的告警
func (r *alarmArchiveRepositoryImpl) Cleanup(ctx context.Context, before time.Time) (int64, error) {
	result := r.getDB(ctx).
		Where("raised_at < ?", before).
		Delete(&models.AlarmRecord{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// startCleanupScheduler 启动定时清理任务
func (r *alarmArchiveRepositoryImpl) startCleanupScheduler(ctx context.Context, retentionDays int, interval time.Duration) {
	r.cleanupOldData(ctx, retentionDays)

	syncx.NewEventLoop(ctx).
		OnTicker(interval, func() {
			r.cleanupOldData(ctx, retentionDays)
		}).
		OnPanic(func(rec any) {
			r.logger.ErrorKV("告警归档清理任务 panic", "panic", rec)
		}).
		OnShutdown(func() {
			r.logger.InfoKV("告警归档清理任务已停止")
		}).
		Run()
}

// cleanupOldData 清理保留期之前的告警
func (r *alarmArchiveRepositoryImpl) cleanupOldData(ctx context.Context, retentionDays int) {
	before := time.Now().AddDate(0, 0, -retentionDays)
	deleted, err := r.Cleanup(ctx, before)
	if err != nil {
		r.logger.WarnKV("清理历史告警失败", "error", err)
	} else if deleted > 0 {
		r.logger.InfoKV("已清理历史告警", "retention_days", retentionDays, "deleted", deleted)
	}
}

// Close 停止后台清理任务
func (r *alarmArchiveRepositoryImpl) Close() error {
	if r.cancelFunc != nil {
		r.cancelFunc()
	}
	return nil
}
