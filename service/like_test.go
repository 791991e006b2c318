package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Xushengqwer/go-common/commonerrors"
	commonEntities "github.com/Xushengqwer/go-common/models/entities"
	"gorm.io/gorm"

	"github.com/Xushengqwer/content_service/models/dto"
	"github.com/Xushengqwer/content_service/models/entities"
	"github.com/Xushengqwer/content_service/myErrors"
)

func existingPost(id uint64) *entities.Post {
	return &entities.Post{BaseModel: commonEntities.BaseModel{ID: id}}
}

func existingUser(id uint64) *entities.User {
	return &entities.User{BaseModel: commonEntities.BaseModel{ID: id}}
}

func TestLikePost_FirstLikeTriggersRecompute(t *testing.T) {
	recomputedUser := uint64(0)

	likeRepo := &mockLikeRepo{
		createIfAbsentFn: func(ctx context.Context, db *gorm.DB, postID, userID uint64) (*entities.Like, bool, error) {
			return &entities.Like{PostID: postID, UserID: userID}, true, nil
		},
	}
	postRepo := &mockPostRepo{
		getPostByIDFn: func(ctx context.Context, id uint64) (*entities.Post, error) {
			return existingPost(id), nil
		},
	}
	userRepo := &mockUserRepo{
		getUserByIDFn: func(ctx context.Context, id uint64) (*entities.User, error) {
			return existingUser(id), nil
		},
	}
	affinitySvc := &mockAffinityService{
		recomputeAffinityFn: func(ctx context.Context, userID uint64) error {
			recomputedUser = userID
			return nil
		},
	}

	svc := NewLikeService(nil, likeRepo, postRepo, userRepo, affinitySvc, newTestLogger(t))
	err := svc.LikePost(context.Background(), &dto.LikeRequest{PostID: 7, UserID: 42})
	if err != nil {
		t.Fatalf("LikePost() error = %v", err)
	}
	if recomputedUser != 42 {
		t.Errorf("首次点赞后应该重算用户 42 的偏好标签, got %d", recomputedUser)
	}
}

func TestLikePost_DuplicateLikeSkipsRecompute(t *testing.T) {
	likeRepo := &mockLikeRepo{
		createIfAbsentFn: func(ctx context.Context, db *gorm.DB, postID, userID uint64) (*entities.Like, bool, error) {
			return &entities.Like{PostID: postID, UserID: userID}, false, nil
		},
	}
	postRepo := &mockPostRepo{
		getPostByIDFn: func(ctx context.Context, id uint64) (*entities.Post, error) {
			return existingPost(id), nil
		},
	}
	userRepo := &mockUserRepo{
		getUserByIDFn: func(ctx context.Context, id uint64) (*entities.User, error) {
			return existingUser(id), nil
		},
	}
	affinitySvc := &mockAffinityService{
		recomputeAffinityFn: func(ctx context.Context, userID uint64) error {
			t.Error("重复点赞不应该触发偏好标签重算")
			return nil
		},
	}

	svc := NewLikeService(nil, likeRepo, postRepo, userRepo, affinitySvc, newTestLogger(t))
	if err := svc.LikePost(context.Background(), &dto.LikeRequest{PostID: 7, UserID: 42}); err != nil {
		t.Fatalf("重复点赞应该幂等成功, got %v", err)
	}
}

func TestLikePost_RecomputeFailureIsSwallowed(t *testing.T) {
	likeRepo := &mockLikeRepo{
		createIfAbsentFn: func(ctx context.Context, db *gorm.DB, postID, userID uint64) (*entities.Like, bool, error) {
			return &entities.Like{PostID: postID, UserID: userID}, true, nil
		},
	}
	postRepo := &mockPostRepo{
		getPostByIDFn: func(ctx context.Context, id uint64) (*entities.Post, error) {
			return existingPost(id), nil
		},
	}
	userRepo := &mockUserRepo{
		getUserByIDFn: func(ctx context.Context, id uint64) (*entities.User, error) {
			return existingUser(id), nil
		},
	}
	affinitySvc := &mockAffinityService{
		recomputeAffinityFn: func(ctx context.Context, userID uint64) error {
			return errors.New("mysql gone away")
		},
	}

	svc := NewLikeService(nil, likeRepo, postRepo, userRepo, affinitySvc, newTestLogger(t))
	if err := svc.LikePost(context.Background(), &dto.LikeRequest{PostID: 7, UserID: 42}); err != nil {
		t.Errorf("偏好重算失败不应该影响点赞结果, got %v", err)
	}
}

func TestLikePost_PostNotFound(t *testing.T) {
	postRepo := &mockPostRepo{
		getPostByIDFn: func(ctx context.Context, id uint64) (*entities.Post, error) {
			return nil, commonerrors.ErrRepoNotFound
		},
	}

	svc := NewLikeService(nil, &mockLikeRepo{}, postRepo, &mockUserRepo{}, &mockAffinityService{}, newTestLogger(t))
	err := svc.LikePost(context.Background(), &dto.LikeRequest{PostID: 999, UserID: 42})
	if !errors.Is(err, myErrors.ErrPostNotFound) {
		t.Errorf("LikePost() error = %v, want ErrPostNotFound", err)
	}
}

func TestUnlikePost_MissingLikeReturnsNotFound(t *testing.T) {
	likeRepo := &mockLikeRepo{
		deleteByPostAndUserFn: func(ctx context.Context, db *gorm.DB, postID, userID uint64) error {
			return commonerrors.ErrRepoNotFound
		},
	}

	svc := NewLikeService(nil, likeRepo, &mockPostRepo{}, &mockUserRepo{}, &mockAffinityService{}, newTestLogger(t))
	err := svc.UnlikePost(context.Background(), &dto.LikeRequest{PostID: 7, UserID: 42})
	if !errors.Is(err, myErrors.ErrLikeNotFound) {
		t.Errorf("UnlikePost() error = %v, want ErrLikeNotFound", err)
	}
}

func TestUnlikePost_DoesNotRecompute(t *testing.T) {
	likeRepo := &mockLikeRepo{
		deleteByPostAndUserFn: func(ctx context.Context, db *gorm.DB, postID, userID uint64) error {
			return nil
		},
	}
	affinitySvc := &mockAffinityService{
		recomputeAffinityFn: func(ctx context.Context, userID uint64) error {
			t.Error("取消点赞不应该触发偏好标签重算")
			return nil
		},
	}

	svc := NewLikeService(nil, likeRepo, &mockPostRepo{}, &mockUserRepo{}, affinitySvc, newTestLogger(t))
	if err := svc.UnlikePost(context.Background(), &dto.LikeRequest{PostID: 7, UserID: 42}); err != nil {
		t.Fatalf("UnlikePost() error = %v", err)
	}
}

func TestGetLikesCount(t *testing.T) {
	postRepo := &mockPostRepo{
		getPostByIDFn: func(ctx context.Context, id uint64) (*entities.Post, error) {
			if id == 999 {
				return nil, commonerrors.ErrRepoNotFound
			}
			return existingPost(id), nil
		},
	}
	likeRepo := &mockLikeRepo{
		countByPostIDFn: func(ctx context.Context, postID uint64) (int64, error) {
			return 13, nil
		},
	}

	svc := NewLikeService(nil, likeRepo, postRepo, &mockUserRepo{}, &mockAffinityService{}, newTestLogger(t))

	count, err := svc.GetLikesCount(context.Background(), 7)
	if err != nil {
		t.Fatalf("GetLikesCount() error = %v", err)
	}
	if count != 13 {
		t.Errorf("GetLikesCount() = %d, want 13", count)
	}

	if _, err := svc.GetLikesCount(context.Background(), 999); !errors.Is(err, myErrors.ErrPostNotFound) {
		t.Errorf("不存在的帖子应该返回 ErrPostNotFound, got %v", err)
	}
}
