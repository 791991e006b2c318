package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Xushengqwer/go-common/commonerrors"
	commonEntities "github.com/Xushengqwer/go-common/models/entities"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Xushengqwer/content_service/models/dto"
	"github.com/Xushengqwer/content_service/models/entities"
	"github.com/Xushengqwer/content_service/models/enums"
	"github.com/Xushengqwer/content_service/myErrors"
)

func TestCreateUser_HashesPasswordAndDefaultsProfileType(t *testing.T) {
	var createdUser *entities.User
	userRepo := &mockUserRepo{
		getUserByLoginFn: func(ctx context.Context, login string) (*entities.User, error) {
			return nil, commonerrors.ErrRepoNotFound
		},
		createUserFn: func(ctx context.Context, db *gorm.DB, user *entities.User) error {
			user.ID = 42
			createdUser = user
			return nil
		},
	}

	svc := NewUserService(nil, userRepo, &mockPostRepo{}, &mockLikeRepo{}, &mockTagRepo{}, &mockAffinityService{}, nil, newTestLogger(t))
	got, err := svc.CreateUser(context.Background(), &dto.CreateUserRequest{
		Login:    "repetitor01",
		Password: "secret",
		Name:     "Анна",
	}, nil)
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	if got.ID != 42 {
		t.Errorf("CreateUser() ID = %d, want 42", got.ID)
	}

	// 密码必须以 bcrypt 哈希落库
	if createdUser.Password == "secret" {
		t.Error("密码不能明文存储")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(createdUser.Password), []byte("secret")); err != nil {
		t.Errorf("存储的密码哈希无法通过校验: %v", err)
	}
	if createdUser.ProfileType != enums.ProfileTypeStudent {
		t.Errorf("缺省资料类型 = %v, want ProfileTypeStudent", createdUser.ProfileType)
	}
}

func TestCreateUser_LoginTaken(t *testing.T) {
	userRepo := &mockUserRepo{
		getUserByLoginFn: func(ctx context.Context, login string) (*entities.User, error) {
			return existingUser(1), nil
		},
	}

	svc := NewUserService(nil, userRepo, &mockPostRepo{}, &mockLikeRepo{}, &mockTagRepo{}, &mockAffinityService{}, nil, newTestLogger(t))
	_, err := svc.CreateUser(context.Background(), &dto.CreateUserRequest{Login: "taken", Password: "x", Name: "n"}, nil)
	if !errors.Is(err, myErrors.ErrLoginTaken) {
		t.Errorf("CreateUser() error = %v, want ErrLoginTaken", err)
	}
}

func TestCreateUser_ConcurrentDuplicateMapsToLoginTaken(t *testing.T) {
	userRepo := &mockUserRepo{
		getUserByLoginFn: func(ctx context.Context, login string) (*entities.User, error) {
			return nil, commonerrors.ErrRepoNotFound
		},
		createUserFn: func(ctx context.Context, db *gorm.DB, user *entities.User) error {
			// 预检通过后并发插入撞了唯一索引
			return errors.New("Error 1062: Duplicate entry 'taken' for key 'uk_users_login'")
		},
	}

	svc := NewUserService(nil, userRepo, &mockPostRepo{}, &mockLikeRepo{}, &mockTagRepo{}, &mockAffinityService{}, nil, newTestLogger(t))
	_, err := svc.CreateUser(context.Background(), &dto.CreateUserRequest{Login: "taken", Password: "x", Name: "n"}, nil)
	if !errors.Is(err, myErrors.ErrLoginTaken) {
		t.Errorf("CreateUser() error = %v, want ErrLoginTaken", err)
	}
}

func TestGetUserDetail_ComposesTagsAndCounts(t *testing.T) {
	userRepo := &mockUserRepo{
		getUserByIDFn: func(ctx context.Context, id uint64) (*entities.User, error) {
			return existingUser(id), nil
		},
	}
	affinitySvc := &mockAffinityService{
		getUserTagIDsFn: func(ctx context.Context, userID uint64) ([]uint64, error) {
			return []uint64{3, 1}, nil
		},
	}
	tagRepo := &mockTagRepo{
		getByIDsFn: func(ctx context.Context, ids []uint64) ([]*entities.Tag, error) {
			tags := make([]*entities.Tag, 0, len(ids))
			for _, id := range ids {
				tags = append(tags, &entities.Tag{BaseModel: commonEntities.BaseModel{ID: id}})
			}
			return tags, nil
		},
	}
	postRepo := &mockPostRepo{
		countPostsByAuthorFn: func(ctx context.Context, authorID uint64) (int64, error) {
			return 4, nil
		},
	}
	// 获赞数按"该用户名下帖子收到的点赞"统计，不是该用户点出去的赞
	var countedAuthorID uint64
	likeRepo := &mockLikeRepo{
		countReceivedFn: func(ctx context.Context, authorID uint64) (int64, error) {
			countedAuthorID = authorID
			return 9, nil
		},
	}

	svc := NewUserService(nil, userRepo, postRepo, likeRepo, tagRepo, affinitySvc, nil, newTestLogger(t))
	detail, err := svc.GetUserDetail(context.Background(), 42)
	if err != nil {
		t.Fatalf("GetUserDetail() error = %v", err)
	}
	if countedAuthorID != 42 {
		t.Errorf("获赞统计的作者 ID = %d, want 42", countedAuthorID)
	}
	if detail.PostCount != 4 || detail.LikesCount != 9 {
		t.Errorf("计数 = (%d, %d), want (4, 9)", detail.PostCount, detail.LikesCount)
	}
	if len(detail.Tags) != 2 || detail.Tags[0].ID != 3 || detail.Tags[1].ID != 1 {
		t.Errorf("兴趣标签应该保持亲和度顺序, got %v", detail.Tags)
	}
}

func TestGetUserDetail_UserNotFound(t *testing.T) {
	userRepo := &mockUserRepo{
		getUserByIDFn: func(ctx context.Context, id uint64) (*entities.User, error) {
			return nil, commonerrors.ErrRepoNotFound
		},
	}

	svc := NewUserService(nil, userRepo, &mockPostRepo{}, &mockLikeRepo{}, &mockTagRepo{}, &mockAffinityService{}, nil, newTestLogger(t))
	if _, err := svc.GetUserDetail(context.Background(), 999); !errors.Is(err, myErrors.ErrUserNotFound) {
		t.Errorf("GetUserDetail() error = %v, want ErrUserNotFound", err)
	}
}

func TestDeleteUser_UserNotFound(t *testing.T) {
	userRepo := &mockUserRepo{
		getUserByIDFn: func(ctx context.Context, id uint64) (*entities.User, error) {
			return nil, commonerrors.ErrRepoNotFound
		},
	}

	svc := NewUserService(nil, userRepo, &mockPostRepo{}, &mockLikeRepo{}, &mockTagRepo{}, &mockAffinityService{}, nil, newTestLogger(t))
	if err := svc.DeleteUser(context.Background(), 999); !errors.Is(err, myErrors.ErrUserNotFound) {
		t.Errorf("DeleteUser() error = %v, want ErrUserNotFound", err)
	}
}

func TestApplyRatingUpdate(t *testing.T) {
	var gotRating float64
	userRepo := &mockUserRepo{
		updateRatingFn: func(ctx context.Context, userID uint64, rating float64) error {
			if userID == 999 {
				return commonerrors.ErrRepoNotFound
			}
			gotRating = rating
			return nil
		},
	}

	svc := NewUserService(nil, userRepo, &mockPostRepo{}, &mockLikeRepo{}, &mockTagRepo{}, &mockAffinityService{}, nil, newTestLogger(t))

	if err := svc.ApplyRatingUpdate(context.Background(), 42, 4.7); err != nil {
		t.Fatalf("ApplyRatingUpdate() error = %v", err)
	}
	if gotRating != 4.7 {
		t.Errorf("落库的评分 = %v, want 4.7", gotRating)
	}

	if err := svc.ApplyRatingUpdate(context.Background(), 999, 4.7); !errors.Is(err, myErrors.ErrUserNotFound) {
		t.Errorf("不存在的用户应该返回 ErrUserNotFound, got %v", err)
	}
}

func TestObjectKeyFromURL(t *testing.T) {
	tests := []struct {
		rawURL string
		want   string
	}{
		{"https://bucket-123.cos.ap-guangzhou.myqcloud.com/users/avatars/20250101/abc.png", "users/avatars/20250101/abc.png"},
		{"https://bucket-123.cos.ap-guangzhou.myqcloud.com/", ""},
		{"://bad-url", ""},
	}
	for _, tt := range tests {
		if got := objectKeyFromURL(tt.rawURL); got != tt.want {
			t.Errorf("objectKeyFromURL(%q) = %q, want %q", tt.rawURL, got, tt.want)
		}
	}
}
