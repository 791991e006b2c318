package mysql

import (
	"context"

	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Xushengqwer/content_service/models/entities"
)

// PostTagRepository 定义了帖子与标签绑定关系的持久化操作接口。
// 绑定关系是硬删除的：(post_id, tag_id) 唯一索引要求删除后可重新绑定。
type PostTagRepository interface {
	// CreateIfAbsent 为帖子绑定一个标签，绑定已存在时静默成功。
	CreateIfAbsent(ctx context.Context, db *gorm.DB, postID, tagID uint64) error

	// ReplaceForPost 用给定标签集合整体替换帖子现有的绑定。
	// - 先删后插在同一个 db 句柄上执行，调用方负责将其包进事务。
	ReplaceForPost(ctx context.Context, db *gorm.DB, postID uint64, tagIDs []uint64) error

	// DeleteByPostID 删除帖子的全部标签绑定。
	DeleteByPostID(ctx context.Context, db *gorm.DB, postID uint64) error

	// GetTagIDsByPostIDs 批量查询帖子的标签 ID，返回 postID -> tagIDs 的映射。
	GetTagIDsByPostIDs(ctx context.Context, postIDs []uint64) (map[uint64][]uint64, error)
}

type postTagRepository struct {
	db     *gorm.DB
	logger *core.ZapLogger
}

// NewPostTagRepository 是 postTagRepository 的构造函数。
func NewPostTagRepository(db *gorm.DB, logger *core.ZapLogger) PostTagRepository {
	return &postTagRepository{
		db:     db,
		logger: logger,
	}
}

// CreateIfAbsent 实现幂等的标签绑定。
func (r *postTagRepository) CreateIfAbsent(ctx context.Context, db *gorm.DB, postID, tagID uint64) error {
	link := entities.PostTag{PostID: postID, TagID: tagID}
	err := db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error
	if err != nil {
		r.logger.Error("绑定帖子标签失败",
			zap.Uint64("postID", postID),
			zap.Uint64("tagID", tagID),
			zap.Error(err),
		)
		return err
	}
	return nil
}

// ReplaceForPost 实现帖子标签绑定的整体替换。
func (r *postTagRepository) ReplaceForPost(ctx context.Context, db *gorm.DB, postID uint64, tagIDs []uint64) error {
	if err := r.DeleteByPostID(ctx, db, postID); err != nil {
		return err
	}
	if len(tagIDs) == 0 {
		return nil
	}

	links := make([]entities.PostTag, 0, len(tagIDs))
	for _, tagID := range tagIDs {
		links = append(links, entities.PostTag{PostID: postID, TagID: tagID})
	}
	// 重复的 tagID 由唯一索引去重
	err := db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&links).Error
	if err != nil {
		r.logger.Error("批量绑定帖子标签失败",
			zap.Uint64("postID", postID),
			zap.Int("tagCount", len(tagIDs)),
			zap.Error(err),
		)
		return err
	}
	return nil
}

// DeleteByPostID 实现帖子标签绑定的清空。
func (r *postTagRepository) DeleteByPostID(ctx context.Context, db *gorm.DB, postID uint64) error {
	err := db.WithContext(ctx).
		Where("post_id = ?", postID).
		Delete(&entities.PostTag{}).Error
	if err != nil {
		r.logger.Error("删除帖子标签绑定失败", zap.Uint64("postID", postID), zap.Error(err))
		return err
	}
	return nil
}

// GetTagIDsByPostIDs 实现帖子标签 ID 的批量查询。
func (r *postTagRepository) GetTagIDsByPostIDs(ctx context.Context, postIDs []uint64) (map[uint64][]uint64, error) {
	result := make(map[uint64][]uint64, len(postIDs))
	if len(postIDs) == 0 {
		return result, nil
	}

	var links []entities.PostTag
	err := r.db.WithContext(ctx).
		Where("post_id IN ?", postIDs).
		Find(&links).Error
	if err != nil {
		r.logger.Error("批量查询帖子标签绑定失败", zap.Int("postCount", len(postIDs)), zap.Error(err))
		return nil, err
	}

	for _, link := range links {
		result[link.PostID] = append(result[link.PostID], link.TagID)
	}
	return result, nil
}
