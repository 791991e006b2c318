package mysql

import (
	"context"

	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/content_service/models/entities"
	"github.com/Xushengqwer/content_service/models/enums"
)

// RecommendRepository 定义了推荐流候选帖子的查询接口。
// 三个方法对应三个梯队的数据源，共享同一组排除条件：
// 非顶层帖子、非普通帖子类型、用户自己的帖子、用户已点赞的帖子。
// 梯队融合与分页由服务层完成。
type RecommendRepository interface {
	// ListTagMatchedPosts 查询与给定标签集合有交集的帖子。
	// - 排序：匹配标签数降序，创建时间降序，点赞数降序。
	ListTagMatchedPosts(ctx context.Context, tagIDs []uint64, excludeAuthorID uint64, excludePostIDs []uint64, limit int) ([]*entities.Post, error)

	// ListPopularPosts 查询热门帖子，按点赞数降序、创建时间降序。
	ListPopularPosts(ctx context.Context, excludeAuthorID uint64, excludePostIDs []uint64, limit int) ([]*entities.Post, error)

	// ListRandomPosts 随机抽取帖子，推荐流的最后补位来源。
	ListRandomPosts(ctx context.Context, excludeAuthorID uint64, excludePostIDs []uint64, limit int) ([]*entities.Post, error)
}

type recommendRepository struct {
	db     *gorm.DB
	logger *core.ZapLogger
}

// NewRecommendRepository 是 recommendRepository 的构造函数。
func NewRecommendRepository(db *gorm.DB, logger *core.ZapLogger) RecommendRepository {
	return &recommendRepository{
		db:     db,
		logger: logger,
	}
}

// baseCandidateQuery 构建三个梯队共用的候选集约束。
func (r *recommendRepository) baseCandidateQuery(ctx context.Context, excludeAuthorID uint64, excludePostIDs []uint64) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&entities.Post{}).
		Where("posts.type = ?", enums.PostTypePost).
		Where("posts.parent_id IS NULL").
		Where("posts.author_id <> ?", excludeAuthorID)
	if len(excludePostIDs) > 0 {
		query = query.Where("posts.id NOT IN ?", excludePostIDs)
	}
	return query
}

// ListTagMatchedPosts 实现标签匹配梯队的查询。
func (r *recommendRepository) ListTagMatchedPosts(ctx context.Context, tagIDs []uint64, excludeAuthorID uint64, excludePostIDs []uint64, limit int) ([]*entities.Post, error) {
	posts := make([]*entities.Post, 0)
	if len(tagIDs) == 0 || limit <= 0 {
		return posts, nil
	}

	err := r.baseCandidateQuery(ctx, excludeAuthorID, excludePostIDs).
		Select("posts.*, COUNT(DISTINCT post_tags.tag_id) AS match_count, (SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.id) AS like_cnt").
		Joins("JOIN post_tags ON post_tags.post_id = posts.id").
		Where("post_tags.tag_id IN ?", tagIDs).
		Group("posts.id").
		Order("match_count DESC").
		Order("posts.created_at DESC").
		Order("like_cnt DESC").
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		r.logger.Error("标签匹配候选查询失败",
			zap.Error(err),
			zap.Uint64("excludeAuthorID", excludeAuthorID),
			zap.Int("tagCount", len(tagIDs)),
		)
		return nil, err
	}
	return posts, nil
}

// ListPopularPosts 实现热门梯队的查询。
func (r *recommendRepository) ListPopularPosts(ctx context.Context, excludeAuthorID uint64, excludePostIDs []uint64, limit int) ([]*entities.Post, error) {
	posts := make([]*entities.Post, 0)
	if limit <= 0 {
		return posts, nil
	}

	err := r.baseCandidateQuery(ctx, excludeAuthorID, excludePostIDs).
		Select("posts.*, (SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.id) AS like_cnt").
		Order("like_cnt DESC").
		Order("posts.created_at DESC").
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		r.logger.Error("热门候选查询失败", zap.Error(err), zap.Uint64("excludeAuthorID", excludeAuthorID))
		return nil, err
	}
	return posts, nil
}

// ListRandomPosts 实现随机补位梯队的查询。
// RAND() 在候选集上全表排序，补位只在前两个梯队数量不足时触发，
// 频率很低，可以接受。
func (r *recommendRepository) ListRandomPosts(ctx context.Context, excludeAuthorID uint64, excludePostIDs []uint64, limit int) ([]*entities.Post, error) {
	posts := make([]*entities.Post, 0)
	if limit <= 0 {
		return posts, nil
	}

	err := r.baseCandidateQuery(ctx, excludeAuthorID, excludePostIDs).
		Order("RAND()").
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		r.logger.Error("随机候选查询失败", zap.Error(err), zap.Uint64("excludeAuthorID", excludeAuthorID))
		return nil, err
	}
	return posts, nil
}
