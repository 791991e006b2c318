package mysql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/content_service/models/entities"
	"github.com/Xushengqwer/content_service/models/enums"
)

// PostRepository 定义了帖子数据在 MySQL 中的持久化操作接口。
// 帖子与评论共用同一张表：评论是 ParentID 非空的帖子。
// 接口的设计旨在将数据访问逻辑与业务逻辑（服务层）解耦。
type PostRepository interface {
	// CreatePost 持久化一个新的帖子记录。
	// - 主键由数据库自增生成，创建成功后回填到 post.ID。
	CreatePost(ctx context.Context, db *gorm.DB, post *entities.Post) error

	// UpdatePost 更新指定帖子的正文与附件地址。
	// - 传入 nil 表示不更新对应字段。
	// - 总是会自动更新帖子的修改时间 (updated_at)。
	UpdatePost(ctx context.Context, db *gorm.DB, postID uint64, content *string, mediaURL *string) error

	// GetPostByID 根据单个 ID 检索帖子信息。
	// - 如果未找到帖子，返回 commonerrors.ErrRepoNotFound 错误。
	GetPostByID(ctx context.Context, id uint64) (*entities.Post, error)

	// ListTopLevelPosts 分页查询顶层帖子（非评论），按创建时间降序。
	// - 返回帖子列表与符合条件的总记录数。
	ListTopLevelPosts(ctx context.Context, offset, limit int) ([]*entities.Post, int64, error)

	// ListPostsByAuthor 分页查询指定作者的顶层帖子，按创建时间降序。
	ListPostsByAuthor(ctx context.Context, authorID uint64, offset, limit int) ([]*entities.Post, int64, error)

	// ListByParentIDs 查询父级 ID 在给定集合中的所有直接子评论，按创建时间升序。
	// - 评论树按层展开时逐层调用此方法，避免按单条记录递归查询。
	ListByParentIDs(ctx context.Context, parentIDs []uint64) ([]*entities.Post, error)

	// ListCommentsByParentID 分页查询指定父级下的一级评论，按创建时间升序。
	// - 返回评论列表与该父级下的一级评论总数。
	ListCommentsByParentID(ctx context.Context, parentID uint64, offset, limit int) ([]*entities.Post, int64, error)

	// CountPostsByAuthor 统计指定作者发布的顶层帖子数量。
	CountPostsByAuthor(ctx context.Context, authorID uint64) (int64, error)

	// ListRecentPosts 查询最近发布的顶层帖子，按创建时间降序。
	// - 推荐流的兜底数据源。
	ListRecentPosts(ctx context.Context, limit int) ([]*entities.Post, error)

	// DeletePost 对指定帖子执行软删除。
	DeletePost(ctx context.Context, db *gorm.DB, id uint64) error

	// DeleteCommentsByPostID 软删除指定帖子下的全部子孙评论。
	// - 与 DeletePost 在同一事务中调用，保证帖子与评论一起消失。
	DeleteCommentsByPostID(ctx context.Context, db *gorm.DB, postID uint64) error
}

// postRepository 是 PostRepository 接口针对 MySQL 的具体实现。
type postRepository struct {
	db     *gorm.DB
	logger *core.ZapLogger
}

// NewPostRepository 是 postRepository 的构造函数。
func NewPostRepository(db *gorm.DB, logger *core.ZapLogger) PostRepository {
	return &postRepository{
		db:     db,
		logger: logger,
	}
}

// CreatePost 实现帖子的数据库插入操作。
func (r *postRepository) CreatePost(ctx context.Context, db *gorm.DB, post *entities.Post) error {
	// 使用传入的 db 对象（可以是事务对象 tx）执行数据库操作。
	// GORM 会自动填充 BaseModel 中的 CreatedAt 和 UpdatedAt 字段。
	if err := db.WithContext(ctx).Create(post).Error; err != nil {
		return err
	}
	// 创建成功后，post 对象会包含数据库生成的自增 ID。
	return nil
}

// UpdatePost 实现帖子正文与附件地址的更新。
// 参数为指针类型，如果传入 nil，则对应字段不会被更新。
func (r *postRepository) UpdatePost(ctx context.Context, db *gorm.DB, postID uint64, content *string, mediaURL *string) error {
	updateMap := make(map[string]interface{})

	if content != nil {
		updateMap["content"] = *content
	}
	if mediaURL != nil {
		updateMap["media_url"] = *mediaURL
	}

	if len(updateMap) == 0 {
		r.logger.Info("没有提供任何有效的字段来更新帖子 (所有可选参数均为nil)",
			zap.Uint64("postID", postID),
		)
		return nil
	}

	updateMap["updated_at"] = time.Now()

	result := db.WithContext(ctx).
		Model(&entities.Post{}).
		Where("id = ? AND deleted_at IS NULL", postID).
		Updates(updateMap)

	if result.Error != nil {
		r.logger.Error("更新帖子数据库操作失败",
			zap.Error(result.Error),
			zap.Uint64("postID", postID),
		)
		return result.Error
	}

	if result.RowsAffected == 0 {
		r.logger.Warn("尝试更新帖子但未找到记录或记录已被删除",
			zap.Uint64("postID", postID),
		)
		return commonerrors.ErrRepoNotFound
	}

	return nil
}

// GetPostByID 实现根据单个 ID 获取帖子。
func (r *postRepository) GetPostByID(ctx context.Context, id uint64) (*entities.Post, error) {
	var post entities.Post

	// First 会自动添加 "WHERE id = ?" 和 "LIMIT 1" 条件，
	// 未找到时返回 gorm.ErrRecordNotFound。
	err := r.db.WithContext(ctx).First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.logger.Warn("根据 ID 获取帖子未找到", zap.Uint64("postID", id))
			return nil, commonerrors.ErrRepoNotFound
		}
		r.logger.Error("根据 ID 获取帖子数据库查询失败", zap.Uint64("postID", id), zap.Error(err))
		return nil, err
	}

	return &post, nil
}

// ListTopLevelPosts 实现顶层帖子的分页查询。
func (r *postRepository) ListTopLevelPosts(ctx context.Context, offset, limit int) ([]*entities.Post, int64, error) {
	var posts []*entities.Post
	var totalCount int64

	// 顶层帖子的约束：类型为普通帖子且没有父级
	baseQuery := r.db.WithContext(ctx).Model(&entities.Post{}).
		Where("type = ?", enums.PostTypePost).
		Where("parent_id IS NULL")

	if err := baseQuery.Count(&totalCount).Error; err != nil {
		r.logger.Error("获取帖子列表：计数查询失败", zap.Error(err))
		return nil, 0, fmt.Errorf("计数帖子失败: %w", err)
	}

	if totalCount == 0 {
		return posts, 0, nil
	}

	err := baseQuery.
		Order("created_at DESC").Order("id DESC").
		Offset(offset).Limit(limit).
		Find(&posts).Error
	if err != nil {
		r.logger.Error("获取帖子列表：列表查询失败",
			zap.Error(err),
			zap.Int("offset", offset),
			zap.Int("limit", limit),
		)
		return nil, 0, fmt.Errorf("查询帖子列表失败: %w", err)
	}

	return posts, totalCount, nil
}

// ListPostsByAuthor 实现按作者分页查询顶层帖子。
func (r *postRepository) ListPostsByAuthor(ctx context.Context, authorID uint64, offset, limit int) ([]*entities.Post, int64, error) {
	var posts []*entities.Post
	var totalCount int64

	baseQuery := r.db.WithContext(ctx).Model(&entities.Post{}).
		Where("author_id = ?", authorID).
		Where("type = ?", enums.PostTypePost).
		Where("parent_id IS NULL")

	if err := baseQuery.Count(&totalCount).Error; err != nil {
		r.logger.Error("获取用户帖子列表：计数查询失败",
			zap.Error(err),
			zap.Uint64("authorID", authorID),
		)
		return nil, 0, fmt.Errorf("计数用户帖子失败: %w", err)
	}

	if totalCount == 0 {
		return posts, 0, nil
	}

	err := baseQuery.
		Order("created_at DESC").Order("id DESC").
		Offset(offset).Limit(limit).
		Find(&posts).Error
	if err != nil {
		r.logger.Error("获取用户帖子列表：列表查询失败",
			zap.Error(err),
			zap.Uint64("authorID", authorID),
			zap.Int("offset", offset),
			zap.Int("limit", limit),
		)
		return nil, 0, fmt.Errorf("查询用户帖子列表失败: %w", err)
	}

	return posts, totalCount, nil
}

// ListByParentIDs 实现按父级 ID 集合批量查询直接子评论。
func (r *postRepository) ListByParentIDs(ctx context.Context, parentIDs []uint64) ([]*entities.Post, error) {
	comments := make([]*entities.Post, 0)
	if len(parentIDs) == 0 {
		return comments, nil
	}

	err := r.db.WithContext(ctx).
		Where("parent_id IN ?", parentIDs).
		Order("created_at ASC").Order("id ASC").
		Find(&comments).Error
	if err != nil {
		r.logger.Error("按父级 ID 查询评论失败",
			zap.Error(err),
			zap.Int("parentCount", len(parentIDs)),
		)
		return nil, err
	}

	return comments, nil
}

// ListCommentsByParentID 实现一级评论的分页查询。
func (r *postRepository) ListCommentsByParentID(ctx context.Context, parentID uint64, offset, limit int) ([]*entities.Post, int64, error) {
	var comments []*entities.Post
	var totalCount int64

	baseQuery := r.db.WithContext(ctx).Model(&entities.Post{}).
		Where("parent_id = ?", parentID)

	if err := baseQuery.Count(&totalCount).Error; err != nil {
		r.logger.Error("获取评论列表：计数查询失败", zap.Uint64("parentID", parentID), zap.Error(err))
		return nil, 0, fmt.Errorf("计数评论失败: %w", err)
	}

	if totalCount == 0 {
		return comments, 0, nil
	}

	err := baseQuery.
		Order("created_at ASC").Order("id ASC").
		Offset(offset).Limit(limit).
		Find(&comments).Error
	if err != nil {
		r.logger.Error("获取评论列表：列表查询失败",
			zap.Uint64("parentID", parentID),
			zap.Error(err),
		)
		return nil, 0, fmt.Errorf("查询评论列表失败: %w", err)
	}

	return comments, totalCount, nil
}

// CountPostsByAuthor 实现作者顶层帖子计数。
func (r *postRepository) CountPostsByAuthor(ctx context.Context, authorID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Post{}).
		Where("author_id = ?", authorID).
		Where("type = ?", enums.PostTypePost).
		Where("parent_id IS NULL").
		Count(&count).Error
	if err != nil {
		r.logger.Error("统计作者帖子数量失败", zap.Error(err), zap.Uint64("authorID", authorID))
		return 0, err
	}
	return count, nil
}

// ListRecentPosts 实现最近顶层帖子的查询。
func (r *postRepository) ListRecentPosts(ctx context.Context, limit int) ([]*entities.Post, error) {
	var posts []*entities.Post
	err := r.db.WithContext(ctx).
		Where("type = ?", enums.PostTypePost).
		Where("parent_id IS NULL").
		Order("created_at DESC").Order("id DESC").
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		r.logger.Error("查询最近帖子失败", zap.Error(err), zap.Int("limit", limit))
		return nil, err
	}
	return posts, nil
}

// DeletePost 实现帖子的软删除。
// db 参数是执行此操作的数据库句柄 (可以是普通连接，也可以是事务 tx)。
func (r *postRepository) DeletePost(ctx context.Context, db *gorm.DB, id uint64) error {
	// entities.Post 嵌入了 gorm.DeletedAt，Delete 即为软删除
	result := db.WithContext(ctx).Delete(&entities.Post{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return commonerrors.ErrRepoNotFound
	}
	return nil
}

// DeleteCommentsByPostID 实现帖子下全部子孙评论的软删除。
// 评论层级不受限制，这里按层收集 ID 后统一删除，与评论树的展开方式一致。
func (r *postRepository) DeleteCommentsByPostID(ctx context.Context, db *gorm.DB, postID uint64) error {
	frontier := []uint64{postID}
	toDelete := make([]uint64, 0)

	for len(frontier) > 0 {
		var childIDs []uint64
		err := db.WithContext(ctx).Model(&entities.Post{}).
			Where("parent_id IN ?", frontier).
			Pluck("id", &childIDs).Error
		if err != nil {
			r.logger.Error("收集待删除评论 ID 失败", zap.Error(err), zap.Uint64("postID", postID))
			return err
		}
		toDelete = append(toDelete, childIDs...)
		frontier = childIDs
	}

	if len(toDelete) == 0 {
		return nil
	}

	if err := db.WithContext(ctx).Delete(&entities.Post{}, toDelete).Error; err != nil {
		r.logger.Error("删除帖子评论失败", zap.Error(err), zap.Uint64("postID", postID))
		return err
	}
	return nil
}
