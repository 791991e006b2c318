package mysql

import (
	"context"

	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/content_service/models/entities"
)

// UserTagRepository 定义了用户偏好标签的持久化操作接口。
// user_tags 是由点赞历史推导出来的缓存表，只会被整体重建，
// 因此这里没有单条增删的方法。
type UserTagRepository interface {
	// ReplaceForUser 用给定标签集合整体替换用户现有的偏好标签。
	// - 删除与插入在同一事务中完成：读取方要么看到旧集合，要么看到新集合。
	// - tagIDs 的顺序即亲和度排序，按顺序插入以保留展示顺序。
	ReplaceForUser(ctx context.Context, userID uint64, tagIDs []uint64) error

	// GetTagIDsByUserID 查询用户当前的偏好标签 ID，按插入顺序（亲和度降序）返回。
	GetTagIDsByUserID(ctx context.Context, userID uint64) ([]uint64, error)
}

type userTagRepository struct {
	db     *gorm.DB
	logger *core.ZapLogger
}

// NewUserTagRepository 是 userTagRepository 的构造函数。
func NewUserTagRepository(db *gorm.DB, logger *core.ZapLogger) UserTagRepository {
	return &userTagRepository{
		db:     db,
		logger: logger,
	}
}

// ReplaceForUser 实现用户偏好标签的事务性整体替换。
func (r *userTagRepository) ReplaceForUser(ctx context.Context, userID uint64, tagIDs []uint64) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&entities.UserTag{}).Error; err != nil {
			return err
		}
		if len(tagIDs) == 0 {
			return nil
		}
		links := make([]entities.UserTag, 0, len(tagIDs))
		for _, tagID := range tagIDs {
			links = append(links, entities.UserTag{UserID: userID, TagID: tagID})
		}
		return tx.Create(&links).Error
	})
	if err != nil {
		r.logger.Error("替换用户偏好标签失败",
			zap.Uint64("userID", userID),
			zap.Int("tagCount", len(tagIDs)),
			zap.Error(err),
		)
		return err
	}
	return nil
}

// GetTagIDsByUserID 实现用户偏好标签 ID 的查询。
// 整体替换时按亲和度顺序插入，自增主键的顺序即亲和度顺序。
func (r *userTagRepository) GetTagIDsByUserID(ctx context.Context, userID uint64) ([]uint64, error) {
	var tagIDs []uint64
	err := r.db.WithContext(ctx).Model(&entities.UserTag{}).
		Where("user_id = ?", userID).
		Order("id ASC").
		Pluck("tag_id", &tagIDs).Error
	if err != nil {
		r.logger.Error("查询用户偏好标签失败", zap.Uint64("userID", userID), zap.Error(err))
		return nil, err
	}
	if tagIDs == nil {
		tagIDs = make([]uint64, 0)
	}
	return tagIDs, nil
}
