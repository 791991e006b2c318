package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/content_service/models/dto"
	"github.com/Xushengqwer/content_service/myErrors"
	"github.com/Xushengqwer/content_service/repo/mysql"
)

// LikeService 定义了点赞相关的业务逻辑接口。
type LikeService interface {
	// LikePost 处理用户点赞帖子。
	// - 操作幂等：重复点赞不报错，返回已有的点赞状态。
	// - 首次点赞成功后同步触发该用户的偏好标签重算；
	//   重算失败只记录日志，点赞本身不受影响。
	LikePost(ctx context.Context, req *dto.LikeRequest) error

	// UnlikePost 处理用户取消点赞。
	// - 点赞记录不存在时返回 myErrors.ErrLikeNotFound。
	// - 取消点赞不触发偏好标签重算：取消行为不代表兴趣消失，
	//   偏好会在下一次点赞或夜间全量刷新时自然修正。
	UnlikePost(ctx context.Context, req *dto.LikeRequest) error

	// GetLikesCount 获取帖子的点赞总数。
	GetLikesCount(ctx context.Context, postID uint64) (int64, error)
}

type likeService struct {
	likeRepo    mysql.LikeRepository
	postRepo    mysql.PostRepository
	userRepo    mysql.UserRepository
	affinitySvc AffinityService
	db          *gorm.DB
	logger      *core.ZapLogger
}

// NewLikeService 是 likeService 的构造函数。
func NewLikeService(
	db *gorm.DB,
	likeRepo mysql.LikeRepository,
	postRepo mysql.PostRepository,
	userRepo mysql.UserRepository,
	affinitySvc AffinityService,
	logger *core.ZapLogger,
) LikeService {
	return &likeService{
		likeRepo:    likeRepo,
		postRepo:    postRepo,
		userRepo:    userRepo,
		affinitySvc: affinitySvc,
		db:          db,
		logger:      logger,
	}
}

// LikePost 实现点赞逻辑。
func (s *likeService) LikePost(ctx context.Context, req *dto.LikeRequest) error {
	// 1. 校验目标帖子与用户存在
	if _, err := s.postRepo.GetPostByID(ctx, req.PostID); err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			return myErrors.ErrPostNotFound
		}
		return fmt.Errorf("校验帖子存在性失败: %w", err)
	}
	if _, err := s.userRepo.GetUserByID(ctx, req.UserID); err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			return myErrors.ErrUserNotFound
		}
		return fmt.Errorf("校验用户存在性失败: %w", err)
	}

	// 2. 创建点赞记录，(post_id, user_id) 唯一索引保证并发下的幂等
	_, created, err := s.likeRepo.CreateIfAbsent(ctx, s.db, req.PostID, req.UserID)
	if err != nil {
		return fmt.Errorf("创建点赞记录失败: %w", err)
	}
	if !created {
		s.logger.Debug("用户重复点赞，直接返回",
			zap.Uint64("postID", req.PostID), zap.Uint64("userID", req.UserID))
		return nil
	}

	// 3. 首次点赞后同步重算偏好标签。
	// 重算失败不影响点赞结果，点赞数据已落库，偏好最终会被修正。
	if recomputeErr := s.affinitySvc.RecomputeAffinity(ctx, req.UserID); recomputeErr != nil {
		s.logger.Error("点赞后重算用户偏好标签失败",
			zap.Error(recomputeErr),
			zap.Uint64("userID", req.UserID),
			zap.Uint64("postID", req.PostID),
		)
	}

	s.logger.Info("用户点赞成功", zap.Uint64("postID", req.PostID), zap.Uint64("userID", req.UserID))
	return nil
}

// UnlikePost 实现取消点赞逻辑。
func (s *likeService) UnlikePost(ctx context.Context, req *dto.LikeRequest) error {
	err := s.likeRepo.DeleteByPostAndUser(ctx, s.db, req.PostID, req.UserID)
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			return myErrors.ErrLikeNotFound
		}
		return fmt.Errorf("删除点赞记录失败: %w", err)
	}

	s.logger.Info("用户取消点赞成功", zap.Uint64("postID", req.PostID), zap.Uint64("userID", req.UserID))
	return nil
}

// GetLikesCount 实现帖子点赞计数查询。
func (s *likeService) GetLikesCount(ctx context.Context, postID uint64) (int64, error) {
	if _, err := s.postRepo.GetPostByID(ctx, postID); err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			return 0, myErrors.ErrPostNotFound
		}
		return 0, err
	}
	return s.likeRepo.CountByPostID(ctx, postID)
}
