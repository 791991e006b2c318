package mysql

import (
	"context"
	"errors"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Xushengqwer/content_service/models/entities"
	"github.com/Xushengqwer/content_service/models/enums"
)

// TagRepository 定义了标签字典在 MySQL 中的持久化操作接口。
// 标签按名称全局唯一，只增不删：帖子与标签的绑定变化不影响字典本身。
type TagRepository interface {
	// GetOrCreateByName 按名称查找标签，不存在则创建。
	// - 并发创建同名标签由名称唯一索引兜底：插入冲突后回读已有记录。
	// - 返回的标签保证携带数据库 ID。
	GetOrCreateByName(ctx context.Context, db *gorm.DB, name string, category enums.TagCategory) (*entities.Tag, error)

	// GetByID 根据 ID 获取标签，未找到返回 commonerrors.ErrRepoNotFound。
	GetByID(ctx context.Context, id uint64) (*entities.Tag, error)

	// GetByIDs 批量获取标签，结果顺序与传入 ID 的顺序一致，缺失的 ID 被跳过。
	GetByIDs(ctx context.Context, ids []uint64) ([]*entities.Tag, error)

	// ListByPostID 查询指定帖子当前绑定的全部标签。
	ListByPostID(ctx context.Context, postID uint64) ([]*entities.Tag, error)
}

type tagRepository struct {
	db     *gorm.DB
	logger *core.ZapLogger
}

// NewTagRepository 是 tagRepository 的构造函数。
func NewTagRepository(db *gorm.DB, logger *core.ZapLogger) TagRepository {
	return &tagRepository{
		db:     db,
		logger: logger,
	}
}

// GetOrCreateByName 实现标签的幂等获取。
func (r *tagRepository) GetOrCreateByName(ctx context.Context, db *gorm.DB, name string, category enums.TagCategory) (*entities.Tag, error) {
	var tag entities.Tag

	// 先按名称查找，命中时直接返回，这是绝大多数请求的路径。
	err := db.WithContext(ctx).Where("name = ?", name).First(&tag).Error
	if err == nil {
		return &tag, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		r.logger.Error("按名称查找标签失败", zap.String("name", name), zap.Error(err))
		return nil, err
	}

	// 未找到则尝试创建。并发下另一个请求可能抢先插入同名标签，
	// 用 OnConflict DoNothing 吞掉唯一索引冲突，然后回读。
	tag = entities.Tag{Name: name, Category: category}
	result := db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&tag)
	if result.Error != nil {
		r.logger.Error("创建标签失败", zap.String("name", name), zap.Error(result.Error))
		return nil, result.Error
	}
	if result.RowsAffected > 0 {
		return &tag, nil
	}

	// 冲突未插入，回读抢先创建的那条记录
	if err := db.WithContext(ctx).Where("name = ?", name).First(&tag).Error; err != nil {
		r.logger.Error("标签插入冲突后回读失败", zap.String("name", name), zap.Error(err))
		return nil, err
	}
	return &tag, nil
}

// GetByID 实现按 ID 获取标签。
func (r *tagRepository) GetByID(ctx context.Context, id uint64) (*entities.Tag, error) {
	var tag entities.Tag
	err := r.db.WithContext(ctx).First(&tag, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, commonerrors.ErrRepoNotFound
		}
		r.logger.Error("根据 ID 获取标签失败", zap.Uint64("tagID", id), zap.Error(err))
		return nil, err
	}
	return &tag, nil
}

// GetByIDs 实现标签的批量获取，保持调用方给定的顺序。
// 用户偏好标签按亲和度排序存储，展示时顺序不能被 IN 查询打乱。
func (r *tagRepository) GetByIDs(ctx context.Context, ids []uint64) ([]*entities.Tag, error) {
	ordered := make([]*entities.Tag, 0, len(ids))
	if len(ids) == 0 {
		return ordered, nil
	}

	var tags []*entities.Tag
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&tags).Error; err != nil {
		r.logger.Error("批量获取标签失败", zap.Int("idCount", len(ids)), zap.Error(err))
		return nil, err
	}

	byID := make(map[uint64]*entities.Tag, len(tags))
	for _, tag := range tags {
		byID[tag.ID] = tag
	}
	for _, id := range ids {
		if tag, ok := byID[id]; ok {
			ordered = append(ordered, tag)
		}
	}
	return ordered, nil
}

// ListByPostID 实现查询帖子绑定的标签。
func (r *tagRepository) ListByPostID(ctx context.Context, postID uint64) ([]*entities.Tag, error) {
	tags := make([]*entities.Tag, 0)
	err := r.db.WithContext(ctx).
		Joins("JOIN post_tags ON post_tags.tag_id = tags.id").
		Where("post_tags.post_id = ?", postID).
		Order("tags.id ASC").
		Find(&tags).Error
	if err != nil {
		r.logger.Error("查询帖子标签失败", zap.Uint64("postID", postID), zap.Error(err))
		return nil, err
	}
	return tags, nil
}
