package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"

	"github.com/Xushengqwer/content_service/models/dto"
	"github.com/Xushengqwer/content_service/models/entities"
	"github.com/Xushengqwer/content_service/models/vo"
	"github.com/Xushengqwer/content_service/myErrors"
	"github.com/Xushengqwer/content_service/repo/mysql"
)

// RecommendService 为用户组装个性化推荐流。
//
// 推荐分三个梯队依次补位：
//  1. 标签匹配：与用户偏好标签有交集的帖子，按匹配数、新鲜度、热度排序；
//  2. 热门补位：点赞数靠前的帖子；
//  3. 随机补位：前两个梯队仍不够时随机抽取。
//
// 所有梯队共享排除条件：用户自己的帖子与已点赞过的帖子不出现在推荐里。
type RecommendService interface {
	// GetRecommendations 获取用户的推荐帖子（offset/limit 作用在融合后的序列上）。
	// - 用户还没有偏好标签时现场重算一次（冷启动）。
	// - 候选查询失败时降级为最近帖子列表；降级也失败才返回空列表。
	GetRecommendations(ctx context.Context, userID uint64, req *dto.GetRecommendationsRequest) (*vo.ListPostsVO, error)

	// GetUserTags 获取用户当前的偏好标签（按亲和度降序）。
	GetUserTags(ctx context.Context, userID uint64) ([]*vo.TagVO, error)
}

type recommendService struct {
	recommendRepo mysql.RecommendRepository
	postRepo      mysql.PostRepository
	likeRepo      mysql.LikeRepository
	userRepo      mysql.UserRepository
	tagRepo       mysql.TagRepository
	affinitySvc   AffinityService
	logger        *core.ZapLogger
}

// NewRecommendService 是 recommendService 的构造函数。
func NewRecommendService(
	recommendRepo mysql.RecommendRepository,
	postRepo mysql.PostRepository,
	likeRepo mysql.LikeRepository,
	userRepo mysql.UserRepository,
	tagRepo mysql.TagRepository,
	affinitySvc AffinityService,
	logger *core.ZapLogger,
) RecommendService {
	return &recommendService{
		recommendRepo: recommendRepo,
		postRepo:      postRepo,
		likeRepo:      likeRepo,
		userRepo:      userRepo,
		tagRepo:       tagRepo,
		affinitySvc:   affinitySvc,
		logger:        logger,
	}
}

// GetRecommendations 实现推荐流的组装。
func (s *recommendService) GetRecommendations(ctx context.Context, userID uint64, req *dto.GetRecommendationsRequest) (*vo.ListPostsVO, error) {
	if _, err := s.userRepo.GetUserByID(ctx, userID); err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			return nil, myErrors.ErrUserNotFound
		}
		return nil, err
	}

	offset := req.GetOffset()
	limit := req.GetLimit()

	merged, err := s.assembleCandidates(ctx, userID, offset+limit)
	if err != nil {
		// 候选组装失败：降级为最近帖子，保证推荐接口始终有响应
		s.logger.Error("推荐候选组装失败，降级为最近帖子", zap.Error(err), zap.Uint64("userID", userID))
		recent, recentErr := s.postRepo.ListRecentPosts(ctx, offset+limit)
		if recentErr != nil {
			s.logger.Error("降级查询最近帖子也失败，返回空列表", zap.Error(recentErr), zap.Uint64("userID", userID))
			return &vo.ListPostsVO{Posts: []*vo.PostResponse{}}, nil
		}
		merged = recent
	}

	// Total 是本次窗口的候选池大小（最多 offset+limit），不是全库可推荐帖子数。
	// 三梯队融合去重后的全局计数查不起，推荐流按"还有没有下一页"消费即可。
	page := paginate(merged, offset, limit)
	return &vo.ListPostsVO{
		Posts: vo.MapPostsToPostResponsesVO(page),
		Total: int64(len(merged)),
	}, nil
}

// assembleCandidates 依次执行三个梯队的候选查询并融合。
func (s *recommendService) assembleCandidates(ctx context.Context, userID uint64, fetchLimit int) ([]*entities.Post, error) {
	// 排除集：用户点赞过的帖子
	likedPostIDs, err := s.likeRepo.ListPostIDsByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("获取用户点赞帖子失败: %w", err)
	}

	// 偏好标签，冷启动时现场重算一次
	tagIDs, err := s.affinitySvc.GetUserTagIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("获取用户偏好标签失败: %w", err)
	}
	if len(tagIDs) == 0 {
		if recomputeErr := s.affinitySvc.RecomputeAffinity(ctx, userID); recomputeErr != nil {
			s.logger.Warn("冷启动重算偏好标签失败，继续走热门补位",
				zap.Error(recomputeErr), zap.Uint64("userID", userID))
		} else {
			tagIDs, err = s.affinitySvc.GetUserTagIDs(ctx, userID)
			if err != nil {
				return nil, fmt.Errorf("重算后读取偏好标签失败: %w", err)
			}
		}
	}

	// 梯队一：标签匹配
	merged := make([]*entities.Post, 0, fetchLimit)
	seen := make(map[uint64]struct{}, fetchLimit)
	excluded := make([]uint64, 0, len(likedPostIDs)+fetchLimit)
	excluded = append(excluded, likedPostIDs...)

	appendCandidates := func(candidates []*entities.Post) {
		for _, post := range candidates {
			if _, ok := seen[post.ID]; ok {
				continue
			}
			seen[post.ID] = struct{}{}
			merged = append(merged, post)
			excluded = append(excluded, post.ID)
		}
	}

	if len(tagIDs) > 0 {
		matched, err := s.recommendRepo.ListTagMatchedPosts(ctx, tagIDs, userID, excluded, fetchLimit)
		if err != nil {
			return nil, fmt.Errorf("标签匹配候选查询失败: %w", err)
		}
		appendCandidates(matched)
	}

	// 梯队二：热门补位
	if remaining := fetchLimit - len(merged); remaining > 0 {
		popular, err := s.recommendRepo.ListPopularPosts(ctx, userID, excluded, remaining)
		if err != nil {
			return nil, fmt.Errorf("热门候选查询失败: %w", err)
		}
		appendCandidates(popular)
	}

	// 梯队三：随机补位
	if remaining := fetchLimit - len(merged); remaining > 0 {
		random, err := s.recommendRepo.ListRandomPosts(ctx, userID, excluded, remaining)
		if err != nil {
			return nil, fmt.Errorf("随机候选查询失败: %w", err)
		}
		appendCandidates(random)
	}

	return merged, nil
}

// paginate 在融合后的候选序列上应用 offset/limit。
func paginate(posts []*entities.Post, offset, limit int) []*entities.Post {
	if offset >= len(posts) {
		return []*entities.Post{}
	}
	end := offset + limit
	if end > len(posts) {
		end = len(posts)
	}
	return posts[offset:end]
}

// GetUserTags 实现用户偏好标签的查询。
func (s *recommendService) GetUserTags(ctx context.Context, userID uint64) ([]*vo.TagVO, error) {
	if _, err := s.userRepo.GetUserByID(ctx, userID); err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			return nil, myErrors.ErrUserNotFound
		}
		return nil, err
	}

	tagIDs, err := s.affinitySvc.GetUserTagIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	tags, err := s.tagRepo.GetByIDs(ctx, tagIDs)
	if err != nil {
		return nil, err
	}
	return vo.MapTagsToTagVOs(tags), nil
}
