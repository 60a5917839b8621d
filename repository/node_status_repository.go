/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2025-12-19 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-19 00:00:00
 * @FilePath: \go-wsmonitor\repository\node_status_repository.go
 * @Description: 监控节点状态登记 - Redis 存储，过期即视为离线
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package repository

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/kamalyes/go-toolbox/pkg/errorx"
	"github.com/kamalyes/go-toolbox/pkg/json"
	"github.com/kamalyes/go-toolbox/pkg/mathx"
	"github.com/kamalyes/go-wsmonitor/models"
	"github.com/redis/go-redis/v9"
)

// NodeStatusRepository 节点状态仓库接口
type NodeStatusRepository interface {
	// Report 上报节点状态并刷新过期时间
	Report(ctx context.Context, status *NodeStatus) error

	// Remove 移除节点
	Remove(ctx context.Context, nodeID string) error

	// Get 获取节点状态，节点不存在返回 redis.Nil
	Get(ctx context.Context, nodeID string) (*NodeStatus, error)

	// List 获取所有存活节点，按节点ID排序
	List(ctx context.Context) ([]*NodeStatus, error)

	// Count 获取存活节点数
	Count(ctx context.Context) (int64, error)
}

// NodeStatusConfig 节点状态配置
type NodeStatusConfig struct {
	KeyPrefix string        `mapstructure:"key_prefix"`
	TTL       time.Duration `mapstructure:"ttl"`
}

// RedisNodeStatusRepository Redis 实现
type RedisNodeStatusRepository struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewRedisNodeStatusRepository 创建 Redis 节点状态仓库
// 参数:
//   - client: Redis 客户端 (github.com/redis/go-redis/v9)
//   - config: 节点状态配置，可为 nil
func NewRedisNodeStatusRepository(client *redis.Client, config *NodeStatusConfig) *RedisNodeStatusRepository {
	if config == nil {
		config = &NodeStatusConfig{}
	}
	return &RedisNodeStatusRepository{
		client:    client,
		keyPrefix: mathx.IF(config.KeyPrefix == "", DefaultNodeKeyPrefix, config.KeyPrefix),
		ttl:       mathx.IfNotZero(config.TTL, DefaultNodeTTL),
	}
}

// GetNodeKey 获取节点状态的 key
func (r *RedisNodeStatusRepository) GetNodeKey(nodeID string) string {
	return fmt.Sprintf("%sinfo:%s", r.keyPrefix, nodeID)
}

// GetAllNodesSetKey 获取节点集合的 key
func (r *RedisNodeStatusRepository) GetAllNodesSetKey() string {
	return fmt.Sprintf("%sall", r.keyPrefix)
}

// TTL 节点状态过期时间
func (r *RedisNodeStatusRepository) TTL() time.Duration {
	return r.ttl
}

// Report 上报节点状态
func (r *RedisNodeStatusRepository) Report(ctx context.Context, status *NodeStatus) error {
	if status == nil || status.NodeID == "" {
		return models.NewTypedError(models.ErrTypeConfigInvalid, "node status requires node id")
	}
	if status.UpdatedAt.IsZero() {
		status.UpdatedAt = time.Now()
	}

	data, err := json.Marshal(status)
	if err != nil {
		return errorx.WrapError("failed to marshal node status", err)
	}

	pipe := r.client.Pipeline()
	pipe.Set(ctx, r.GetNodeKey(status.NodeID), data, r.ttl)
	pipe.SAdd(ctx, r.GetAllNodesSetKey(), status.NodeID)
	_, err = pipe.Exec(ctx)
	return err
}

// Remove 移除节点
func (r *RedisNodeStatusRepository) Remove(ctx context.Context, nodeID string) error {
	pipe := r.client.Pipeline()
	pipe.Del(ctx, r.GetNodeKey(nodeID))
	pipe.SRem(ctx, r.GetAllNodesSetKey(), nodeID)
	_, err := pipe.Exec(ctx)
	return err
}

// Get 获取节点状态
func (r *RedisNodeStatusRepository) Get(ctx context.Context, nodeID string) (*NodeStatus, error) {
	data, err := r.client.Get(ctx, r.GetNodeKey(nodeID)).Result()
	if err != nil {
		return nil, err
	}

	var status NodeStatus
	if err := json.Unmarshal([]byte(data), &status); err != nil {
		return nil, errorx.WrapError("failed to unmarshal node status", err)
	}
	return &status, nil
}

// List 获取所有存活节点，集合中已过期的成员顺带清除
func (r *RedisNodeStatusRepository) List(ctx context.Context) ([]*NodeStatus, error) {
	nodeIDs, err := r.client.SMembers(ctx, r.GetAllNodesSetKey()).Result()
	if err != nil {
		return nil, err
	}
	if len(nodeIDs) == 0 {
		return []*NodeStatus{}, nil
	}
	sort.Strings(nodeIDs)

	keys := make([]string, len(nodeIDs))
	for i, id := range nodeIDs {
		keys[i] = r.GetNodeKey(id)
	}
	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	result := make([]*NodeStatus, 0, len(values))
	var expired []interface{}
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			expired = append(expired, nodeIDs[i])
			continue
		}
		var status NodeStatus
		if err := json.Unmarshal([]byte(raw), &status); err != nil {
			continue
		}
		result = append(result, &status)
	}

	if len(expired) > 0 {
		_ = r.client.SRem(ctx, r.GetAllNodesSetKey(), expired...).Err()
	}
	return result, nil
}

// Count 获取存活节点数
func (r *RedisNodeStatusRepository) Count(ctx context.Context) (int64, error) {
	nodes, err := r.List(ctx)
	if err != nil {
		return 0, err
	}
	return int64(len(nodes)), nil
}
