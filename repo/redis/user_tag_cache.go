package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Xushengqwer/go-common/core"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Xushengqwer/content_service/constant"
	"github.com/Xushengqwer/content_service/myErrors"
)

// UserTagCache 定义了用户偏好标签的缓存操作接口。
// 推荐查询每次都需要用户的偏好标签 ID 列表，缓存可避免高频回源 MySQL。
// 缓存的是 user_tags 表的快照，偏好重算成功后必须调用 Invalidate。
type UserTagCache interface {
	// GetTagIDs 获取用户偏好标签 ID 列表的缓存。
	// - 缓存未命中返回 myErrors.ErrCacheMiss，上层服务需要处理回源。
	GetTagIDs(ctx context.Context, userID uint64) ([]uint64, error)

	// SetTagIDs 写入用户偏好标签 ID 列表的缓存，带 TTL。
	SetTagIDs(ctx context.Context, userID uint64, tagIDs []uint64) error

	// Invalidate 使用户偏好标签缓存失效。
	Invalidate(ctx context.Context, userID uint64) error
}

// userTagCache 是 UserTagCache 接口的 Redis 实现。
type userTagCache struct {
	redisClient *redis.Client
	logger      *core.ZapLogger
	ttl         time.Duration
}

// NewUserTagCache 是 userTagCache 的构造函数。
func NewUserTagCache(redisClient *redis.Client, logger *core.ZapLogger) UserTagCache {
	return &userTagCache{
		redisClient: redisClient,
		logger:      logger,
		ttl:         time.Duration(constant.UserTagCacheTTLSeconds) * time.Second,
	}
}

func (c *userTagCache) cacheKey(userID uint64) string {
	return fmt.Sprintf("%s%d", constant.UserTagCachePrefix, userID)
}

// GetTagIDs 实现用户偏好标签缓存的读取。
func (c *userTagCache) GetTagIDs(ctx context.Context, userID uint64) ([]uint64, error) {
	key := c.cacheKey(userID)

	jsonData, err := c.redisClient.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			c.logger.Debug("用户偏好标签缓存未命中", zap.Uint64("userID", userID))
			return nil, myErrors.ErrCacheMiss
		}
		c.logger.Error("从 Redis 获取用户偏好标签缓存失败",
			zap.Error(err), zap.String("key", key), zap.Uint64("userID", userID))
		return nil, fmt.Errorf("获取用户(ID: %d)偏好标签缓存失败: %w", userID, err)
	}

	var tagIDs []uint64
	if jsonErr := json.Unmarshal([]byte(jsonData), &tagIDs); jsonErr != nil {
		// 缓存数据损坏：主动删除该 Key，按未命中处理让上层回源
		c.logger.Error("反序列化用户偏好标签缓存失败，已删除损坏的缓存条目",
			zap.Error(jsonErr), zap.String("key", key), zap.Uint64("userID", userID))
		if delErr := c.redisClient.Del(ctx, key).Err(); delErr != nil {
			c.logger.Warn("删除损坏的用户偏好标签缓存失败", zap.Error(delErr), zap.String("key", key))
		}
		return nil, myErrors.ErrCacheMiss
	}

	return tagIDs, nil
}

// SetTagIDs 实现用户偏好标签缓存的写入。
func (c *userTagCache) SetTagIDs(ctx context.Context, userID uint64, tagIDs []uint64) error {
	if tagIDs == nil {
		tagIDs = []uint64{}
	}

	data, err := json.Marshal(tagIDs)
	if err != nil {
		c.logger.Error("序列化用户偏好标签失败", zap.Error(err), zap.Uint64("userID", userID))
		return fmt.Errorf("序列化用户(ID: %d)偏好标签失败: %w", userID, err)
	}

	key := c.cacheKey(userID)
	if err := c.redisClient.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Error("写入用户偏好标签缓存失败",
			zap.Error(err), zap.String("key", key), zap.Uint64("userID", userID))
		return fmt.Errorf("写入用户(ID: %d)偏好标签缓存失败: %w", userID, err)
	}
	return nil
}

// Invalidate 实现用户偏好标签缓存的失效。
func (c *userTagCache) Invalidate(ctx context.Context, userID uint64) error {
	key := c.cacheKey(userID)
	if err := c.redisClient.Del(ctx, key).Err(); err != nil {
		c.logger.Error("使用户偏好标签缓存失效失败",
			zap.Error(err), zap.String("key", key), zap.Uint64("userID", userID))
		return err
	}
	return nil
}
