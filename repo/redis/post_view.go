package redis

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Xushengqwer/go-common/core"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Xushengqwer/content_service/config"
	"github.com/Xushengqwer/content_service/constant"
)

// PostViewRepository 定义了帖子浏览计数相关的 Redis 操作接口。
// 浏览量先在 Redis 中累加，由后台定时任务批量落库到 MySQL。
type PostViewRepository interface {
	// IncrementViewCount 原子性地增加指定帖子的浏览量。
	// - 使用 Bloom Filter 防止同一浏览者在 TTL 窗口内重复计数。
	// - viewerID 是浏览者标识：已登录用户用用户 ID，匿名访问用客户端 IP。
	// - 如果浏览者已在 Bloom Filter 中，返回 nil 且不增加计数。
	IncrementViewCount(ctx context.Context, postID uint64, viewerID string) error

	// GetAllViewCounts 使用 SCAN 命令分批获取 Redis 中所有帖子的浏览量计数。
	// - 使用 SCAN 避免一次性 KEYS 操作阻塞 Redis，MGET 批量获取提高效率。
	// - 输出: map[帖子ID]浏览量，作为同步到 MySQL 的数据源。
	GetAllViewCounts(ctx context.Context) (map[uint64]int64, error)

	// DeleteViewCount 删除指定帖子的浏览计数与防刷过滤器。
	// 帖子删除后调用，避免已删除帖子的计数被下一轮同步写回。
	DeleteViewCount(ctx context.Context, postID uint64) error
}

// postViewRepository 是 PostViewRepository 接口的 Redis 实现。
type postViewRepository struct {
	redisClient       *redis.Client
	logger            *core.ZapLogger
	viewSyncCfg       config.ViewSyncConfig
	bloomFilterSize   int64   // Bloom Filter 预期容量
	bloomFilterHashes uint    // Bloom Filter 哈希函数数量
	bloomErrorRate    float64 // Bloom Filter 可接受的误判率
}

// NewPostViewRepository 创建 PostViewRepository 实例。
func NewPostViewRepository(redisClient *redis.Client, logger *core.ZapLogger, bloomFilterSize int64, bloomFilterHashes uint, bloomErrorRate float64, viewSyncCfg config.ViewSyncConfig) PostViewRepository {
	return &postViewRepository{
		redisClient:       redisClient,
		logger:            logger,
		viewSyncCfg:       viewSyncCfg,
		bloomFilterSize:   bloomFilterSize,
		bloomFilterHashes: bloomFilterHashes,
		bloomErrorRate:    bloomErrorRate,
	}
}

// IncrementViewCount 实现增加帖子浏览量的逻辑。
func (r *postViewRepository) IncrementViewCount(ctx context.Context, postID uint64, viewerID string) error {
	bloomKey := fmt.Sprintf("%s%d", constant.PostViewBloomPrefix, postID)
	viewCountKey := fmt.Sprintf("%s%d", constant.PostViewCountPrefix, postID)

	// 确保 Bloom Filter 已按需创建。
	// 过滤器已存在时 BF.RESERVE 返回 "ERR item exists"，视为正常情况。
	if err := r.redisClient.BFReserve(ctx, bloomKey, r.bloomErrorRate, r.bloomFilterSize).Err(); err != nil {
		if strings.Contains(err.Error(), "ERR item exists") {
			r.logger.Debug("Bloom Filter 已存在", zap.String("bloomKey", bloomKey))
		} else {
			r.logger.Error("创建 Bloom Filter 失败", zap.Error(err), zap.String("bloomKey", bloomKey))
			return fmt.Errorf("创建 Bloom Filter '%s' 失败: %w", bloomKey, err)
		}
	}

	// 防刷核心：浏览者已在过滤器中则跳过计数
	viewerExists, err := r.redisClient.BFExists(ctx, bloomKey, viewerID).Result()
	if err != nil {
		r.logger.Error("检查浏览者是否在 Bloom Filter 中时出错",
			zap.Error(err), zap.String("bloomKey", bloomKey), zap.String("viewerID", viewerID))
		return fmt.Errorf("检查 Bloom Filter 出错 ('%s', '%s'): %w", bloomKey, viewerID, err)
	}
	if viewerExists {
		r.logger.Debug("浏览者已在 Bloom Filter 中，跳过计数",
			zap.String("viewerID", viewerID), zap.Uint64("postID", postID))
		return nil
	}

	if _, err = r.redisClient.BFAdd(ctx, bloomKey, viewerID).Result(); err != nil {
		r.logger.Error("添加浏览者到 Bloom Filter 失败",
			zap.Error(err), zap.String("bloomKey", bloomKey), zap.String("viewerID", viewerID))
		return fmt.Errorf("添加浏览者到 Bloom Filter '%s' 失败: %w", bloomKey, err)
	}

	// 过滤器的过期时间定义防刷窗口，每次写入刷新
	if err := r.redisClient.Expire(ctx, bloomKey, constant.BloomViewTTL).Err(); err != nil {
		r.logger.Warn("设置 Bloom Filter 过期时间失败，但不中断计数", zap.Error(err), zap.String("bloomKey", bloomKey))
	}

	if err := r.redisClient.Incr(ctx, viewCountKey).Err(); err != nil {
		r.logger.Error("增加帖子浏览量失败", zap.Error(err), zap.Uint64("postID", postID))
		return fmt.Errorf("增加浏览量失败 (PostID: %d): %w", postID, err)
	}

	return nil
}

// GetAllViewCounts 使用 SCAN 命令安全地迭代并获取所有帖子的浏览量。
func (r *postViewRepository) GetAllViewCounts(ctx context.Context) (map[uint64]int64, error) {
	viewCounts := make(map[uint64]int64)
	var cursor uint64
	matchPattern := constant.PostViewCountPrefix + "*"

	scanCount := r.viewSyncCfg.ScanBatchSize
	if scanCount <= 0 {
		scanCount = 1000
		r.logger.Warn("GetAllViewCounts: 配置中的 ScanBatchSize 无效或为零，使用默认值。",
			zap.Int64("defaultScanBatchSize", scanCount),
			zap.Int64("configuredScanBatchSize", r.viewSyncCfg.ScanBatchSize),
		)
	}

	startTime := time.Now()
	for {
		keys, nextCursor, err := r.redisClient.Scan(ctx, cursor, matchPattern, scanCount).Result()
		if err != nil {
			r.logger.Error("执行 Redis SCAN 命令失败",
				zap.Error(err), zap.Uint64("cursor", cursor), zap.String("pattern", matchPattern))
			return nil, fmt.Errorf("扫描 Redis Keys 失败 (模式: %s): %w", matchPattern, err)
		}

		if len(keys) > 0 {
			values, mgetErr := r.redisClient.MGet(ctx, keys...).Result()
			if mgetErr != nil {
				r.logger.Error("执行 Redis MGET 命令批量获取浏览量失败", zap.Error(mgetErr), zap.Int("keyCount", len(keys)))
				return nil, fmt.Errorf("批量获取浏览量值失败 (%d keys): %w", len(keys), mgetErr)
			}

			for i, key := range keys {
				postIDStr := strings.TrimPrefix(key, constant.PostViewCountPrefix)
				postID, parseErr := strconv.ParseUint(postIDStr, 10, 64)
				if parseErr != nil {
					r.logger.Error("从 Redis Key 解析 PostID 失败，已跳过该 Key。",
						zap.Error(parseErr), zap.String("key", key))
					continue
				}

				viewCount := int64(0)
				if i < len(values) && values[i] != nil {
					if valueStr, ok := values[i].(string); ok && valueStr != "" {
						parsedCount, parseCountErr := strconv.ParseInt(valueStr, 10, 64)
						if parseCountErr != nil {
							r.logger.Error("解析 Redis 中的浏览量值失败，该帖子浏览量将视为 0。",
								zap.Error(parseCountErr), zap.String("key", key), zap.String("value", valueStr))
						} else {
							viewCount = parsedCount
						}
					}
				}
				viewCounts[postID] = viewCount
			}
		}

		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}

	r.logger.Info("完成扫描 Redis 帖子浏览量",
		zap.Int("total_unique_posts_found", len(viewCounts)),
		zap.Duration("duration", time.Since(startTime)),
	)
	return viewCounts, nil
}

// DeleteViewCount 实现浏览计数与防刷过滤器的清理。
func (r *postViewRepository) DeleteViewCount(ctx context.Context, postID uint64) error {
	viewCountKey := fmt.Sprintf("%s%d", constant.PostViewCountPrefix, postID)
	bloomKey := fmt.Sprintf("%s%d", constant.PostViewBloomPrefix, postID)

	if err := r.redisClient.Del(ctx, viewCountKey, bloomKey).Err(); err != nil {
		r.logger.Error("删除帖子浏览计数失败", zap.Error(err), zap.Uint64("postID", postID))
		return err
	}
	return nil
}
