package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"

	"github.com/Xushengqwer/content_service/constant"
	"github.com/Xushengqwer/content_service/myErrors"
	"github.com/Xushengqwer/content_service/repo/mysql"
	"github.com/Xushengqwer/content_service/repo/redis"
)

// AffinityService 负责维护用户的偏好标签 (user_tags)。
// 偏好标签由点赞历史推导：取用户点赞过的帖子的标签，
// 按出现次数排序，保留前 N 个作为用户的兴趣画像。
type AffinityService interface {
	// RecomputeAffinity 全量重算指定用户的偏好标签。
	// - 没有任何点赞记录时不做任何修改，保留已有的偏好标签。
	// - 排序规则：出现次数降序；次数相同按标签 ID 升序，保证结果稳定。
	// - 新结果以事务方式整体替换 user_tags，并使缓存失效。
	RecomputeAffinity(ctx context.Context, userID uint64) error

	// GetUserTagIDs 获取用户当前的偏好标签 ID（按亲和度降序）。
	// - 优先读缓存，未命中回源 MySQL 并回填。
	GetUserTagIDs(ctx context.Context, userID uint64) ([]uint64, error)

	// ClearAffinity 清空用户的全部偏好标签并使缓存失效，用户注销时调用。
	ClearAffinity(ctx context.Context, userID uint64) error
}

type affinityService struct {
	likeRepo     mysql.LikeRepository
	postTagRepo  mysql.PostTagRepository
	userTagRepo  mysql.UserTagRepository
	userTagCache redis.UserTagCache
	logger       *core.ZapLogger
}

// NewAffinityService 是 affinityService 的构造函数。
func NewAffinityService(
	likeRepo mysql.LikeRepository,
	postTagRepo mysql.PostTagRepository,
	userTagRepo mysql.UserTagRepository,
	userTagCache redis.UserTagCache,
	logger *core.ZapLogger,
) AffinityService {
	return &affinityService{
		likeRepo:     likeRepo,
		postTagRepo:  postTagRepo,
		userTagRepo:  userTagRepo,
		userTagCache: userTagCache,
		logger:       logger,
	}
}

// RecomputeAffinity 实现偏好标签的全量重算。
func (s *affinityService) RecomputeAffinity(ctx context.Context, userID uint64) error {
	// 1. 收集用户点赞过的帖子
	likedPostIDs, err := s.likeRepo.ListPostIDsByUserID(ctx, userID)
	if err != nil {
		return fmt.Errorf("获取用户点赞帖子失败: %w", err)
	}
	if len(likedPostIDs) == 0 {
		// 没有点赞历史就没有推导依据，保留已有偏好不动
		s.logger.Debug("用户没有点赞记录，跳过偏好标签重算", zap.Uint64("userID", userID))
		return nil
	}

	// 2. 统计这些帖子的标签出现次数
	tagsByPost, err := s.postTagRepo.GetTagIDsByPostIDs(ctx, likedPostIDs)
	if err != nil {
		return fmt.Errorf("获取点赞帖子的标签失败: %w", err)
	}

	frequency := make(map[uint64]int)
	for _, tagIDs := range tagsByPost {
		for _, tagID := range tagIDs {
			frequency[tagID]++
		}
	}

	// 3. 排序取前 N：次数降序，次数相同按标签 ID 升序
	topTagIDs := rankTagsByFrequency(frequency, constant.MaxUserAffinityTags)

	// 4. 整体替换 user_tags
	if err := s.userTagRepo.ReplaceForUser(ctx, userID, topTagIDs); err != nil {
		return fmt.Errorf("替换用户偏好标签失败: %w", err)
	}

	// 5. 使缓存失效，下次读取时回填新结果。
	// 失效失败只记录：缓存带 TTL，旧数据最终会过期。
	if err := s.userTagCache.Invalidate(ctx, userID); err != nil {
		s.logger.Warn("偏好标签缓存失效失败", zap.Error(err), zap.Uint64("userID", userID))
	}

	s.logger.Info("用户偏好标签重算完成",
		zap.Uint64("userID", userID),
		zap.Int("likedPosts", len(likedPostIDs)),
		zap.Int("tagCount", len(topTagIDs)),
	)
	return nil
}

// rankTagsByFrequency 按出现次数降序排列标签 ID 并截断到 limit。
// 次数相同时按标签 ID 升序，保证重算结果可复现。
func rankTagsByFrequency(frequency map[uint64]int, limit int) []uint64 {
	tagIDs := make([]uint64, 0, len(frequency))
	for tagID := range frequency {
		tagIDs = append(tagIDs, tagID)
	}

	sort.Slice(tagIDs, func(i, j int) bool {
		if frequency[tagIDs[i]] != frequency[tagIDs[j]] {
			return frequency[tagIDs[i]] > frequency[tagIDs[j]]
		}
		return tagIDs[i] < tagIDs[j]
	})

	if len(tagIDs) > limit {
		tagIDs = tagIDs[:limit]
	}
	return tagIDs
}

// ClearAffinity 实现偏好标签的清空。
func (s *affinityService) ClearAffinity(ctx context.Context, userID uint64) error {
	if err := s.userTagRepo.ReplaceForUser(ctx, userID, nil); err != nil {
		return fmt.Errorf("清空用户偏好标签失败: %w", err)
	}
	if err := s.userTagCache.Invalidate(ctx, userID); err != nil {
		s.logger.Warn("偏好标签缓存失效失败", zap.Error(err), zap.Uint64("userID", userID))
	}
	return nil
}

// GetUserTagIDs 实现缓存优先的偏好标签读取。
func (s *affinityService) GetUserTagIDs(ctx context.Context, userID uint64) ([]uint64, error) {
	cached, err := s.userTagCache.GetTagIDs(ctx, userID)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, myErrors.ErrCacheMiss) {
		// Redis 故障时降级回源，不让读路径失败
		s.logger.Warn("读取偏好标签缓存失败，回源 MySQL", zap.Error(err), zap.Uint64("userID", userID))
	}

	tagIDs, err := s.userTagRepo.GetTagIDsByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("回源查询用户偏好标签失败: %w", err)
	}

	if cacheErr := s.userTagCache.SetTagIDs(ctx, userID, tagIDs); cacheErr != nil {
		s.logger.Warn("回填偏好标签缓存失败", zap.Error(cacheErr), zap.Uint64("userID", userID))
	}
	return tagIDs, nil
}
