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
)

// LikeRepository 定义了点赞记录的持久化操作接口。
// 点赞按 (post_id, user_id) 全局唯一，取消点赞是硬删除，
// 因此同一用户可以对同一帖子反复点赞/取消。
type LikeRepository interface {
	// CreateIfAbsent 创建点赞记录。
	// - 并发重复点赞由唯一索引兜底：冲突时回读已有记录并返回。
	// - 第二个返回值表示本次调用是否真正插入了新记录。
	CreateIfAbsent(ctx context.Context, db *gorm.DB, postID, userID uint64) (*entities.Like, bool, error)

	// GetByPostAndUser 查询某用户对某帖子的点赞记录，
	// 未找到返回 commonerrors.ErrRepoNotFound。
	GetByPostAndUser(ctx context.Context, postID, userID uint64) (*entities.Like, error)

	// DeleteByPostAndUser 删除点赞记录，未找到返回 commonerrors.ErrRepoNotFound。
	DeleteByPostAndUser(ctx context.Context, db *gorm.DB, postID, userID uint64) error

	// DeleteByPostID 删除指定帖子的全部点赞，随帖子删除级联调用。
	DeleteByPostID(ctx context.Context, db *gorm.DB, postID uint64) error

	// DeleteByUserID 删除指定用户发出的全部点赞，随用户注销级联调用。
	DeleteByUserID(ctx context.Context, db *gorm.DB, userID uint64) error

	// CountByPostID 统计帖子获得的点赞数。
	CountByPostID(ctx context.Context, postID uint64) (int64, error)

	// CountByPostIDs 批量统计帖子的点赞数，返回 postID -> 点赞数 的映射。
	// 没有点赞的帖子不出现在映射里。
	CountByPostIDs(ctx context.Context, postIDs []uint64) (map[uint64]int64, error)

	// CountReceivedByAuthorID 统计用户名下帖子收到的点赞总数。
	// 衡量的是作者的受欢迎程度，不是该用户点出去了多少赞。
	CountReceivedByAuthorID(ctx context.Context, authorID uint64) (int64, error)

	// ListPostIDsByUserID 查询用户点赞过的全部帖子 ID。
	// 亲和度重算的输入来源。
	ListPostIDsByUserID(ctx context.Context, userID uint64) ([]uint64, error)
}

type likeRepository struct {
	db     *gorm.DB
	logger *core.ZapLogger
}

// NewLikeRepository 是 likeRepository 的构造函数。
func NewLikeRepository(db *gorm.DB, logger *core.ZapLogger) LikeRepository {
	return &likeRepository{
		db:     db,
		logger: logger,
	}
}

// CreateIfAbsent 实现幂等的点赞创建。
func (r *likeRepository) CreateIfAbsent(ctx context.Context, db *gorm.DB, postID, userID uint64) (*entities.Like, bool, error) {
	like := entities.Like{PostID: postID, UserID: userID}
	result := db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&like)
	if result.Error != nil {
		r.logger.Error("创建点赞记录失败",
			zap.Uint64("postID", postID),
			zap.Uint64("userID", userID),
			zap.Error(result.Error),
		)
		return nil, false, result.Error
	}
	if result.RowsAffected > 0 {
		return &like, true, nil
	}

	// 唯一索引冲突，说明该用户已点过赞，回读已有记录
	existing, err := r.GetByPostAndUser(ctx, postID, userID)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

// GetByPostAndUser 实现点赞记录的查询。
func (r *likeRepository) GetByPostAndUser(ctx context.Context, postID, userID uint64) (*entities.Like, error) {
	var like entities.Like
	err := r.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		First(&like).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, commonerrors.ErrRepoNotFound
		}
		r.logger.Error("查询点赞记录失败",
			zap.Uint64("postID", postID),
			zap.Uint64("userID", userID),
			zap.Error(err),
		)
		return nil, err
	}
	return &like, nil
}

// DeleteByPostAndUser 实现点赞记录的删除。
func (r *likeRepository) DeleteByPostAndUser(ctx context.Context, db *gorm.DB, postID, userID uint64) error {
	result := db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Delete(&entities.Like{})
	if result.Error != nil {
		r.logger.Error("删除点赞记录失败",
			zap.Uint64("postID", postID),
			zap.Uint64("userID", userID),
			zap.Error(result.Error),
		)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return commonerrors.ErrRepoNotFound
	}
	return nil
}

// DeleteByPostID 实现帖子点赞的级联删除。
func (r *likeRepository) DeleteByPostID(ctx context.Context, db *gorm.DB, postID uint64) error {
	err := db.WithContext(ctx).
		Where("post_id = ?", postID).
		Delete(&entities.Like{}).Error
	if err != nil {
		r.logger.Error("删除帖子点赞失败", zap.Uint64("postID", postID), zap.Error(err))
		return err
	}
	return nil
}

// DeleteByUserID 实现用户点赞的级联删除。
func (r *likeRepository) DeleteByUserID(ctx context.Context, db *gorm.DB, userID uint64) error {
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&entities.Like{}).Error
	if err != nil {
		r.logger.Error("删除用户点赞失败", zap.Uint64("userID", userID), zap.Error(err))
		return err
	}
	return nil
}

// CountByPostID 实现帖子点赞计数。
func (r *likeRepository) CountByPostID(ctx context.Context, postID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Like{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	if err != nil {
		r.logger.Error("统计帖子点赞数失败", zap.Uint64("postID", postID), zap.Error(err))
		return 0, err
	}
	return count, nil
}

// CountByPostIDs 实现帖子点赞数的批量统计。
func (r *likeRepository) CountByPostIDs(ctx context.Context, postIDs []uint64) (map[uint64]int64, error) {
	result := make(map[uint64]int64, len(postIDs))
	if len(postIDs) == 0 {
		return result, nil
	}

	type row struct {
		PostID uint64
		Cnt    int64
	}
	var rows []row
	err := r.db.WithContext(ctx).Model(&entities.Like{}).
		Select("post_id, COUNT(*) AS cnt").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&rows).Error
	if err != nil {
		r.logger.Error("批量统计帖子点赞数失败", zap.Int("postCount", len(postIDs)), zap.Error(err))
		return nil, err
	}

	for _, item := range rows {
		result[item.PostID] = item.Cnt
	}
	return result, nil
}

// CountReceivedByAuthorID 实现用户收到的点赞总数统计。
// 连表时软删除作用域不会自动套到 posts 上，这里显式排除已删除的帖子。
func (r *likeRepository) CountReceivedByAuthorID(ctx context.Context, authorID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Like{}).
		Joins("JOIN posts ON posts.id = likes.post_id").
		Where("posts.author_id = ? AND posts.deleted_at IS NULL", authorID).
		Count(&count).Error
	if err != nil {
		r.logger.Error("统计用户收到的点赞数失败", zap.Uint64("authorID", authorID), zap.Error(err))
		return 0, err
	}
	return count, nil
}

// ListPostIDsByUserID 实现用户点赞帖子 ID 的查询。
func (r *likeRepository) ListPostIDsByUserID(ctx context.Context, userID uint64) ([]uint64, error) {
	var postIDs []uint64
	err := r.db.WithContext(ctx).Model(&entities.Like{}).
		Where("user_id = ?", userID).
		Pluck("post_id", &postIDs).Error
	if err != nil {
		r.logger.Error("查询用户点赞帖子失败", zap.Uint64("userID", userID), zap.Error(err))
		return nil, err
	}
	if postIDs == nil {
		postIDs = make([]uint64, 0)
	}
	return postIDs, nil
}
