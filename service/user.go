package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"mime/multipart"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/Xushengqwer/go-common/core"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Xushengqwer/content_service/constant"
	"github.com/Xushengqwer/content_service/dependencies"
	"github.com/Xushengqwer/content_service/models/dto"
	"github.com/Xushengqwer/content_service/models/entities"
	"github.com/Xushengqwer/content_service/models/enums"
	"github.com/Xushengqwer/content_service/models/vo"
	"github.com/Xushengqwer/content_service/myErrors"
	"github.com/Xushengqwer/content_service/repo/mysql"
)

// UserService 定义了用户相关业务逻辑的接口。
// 本服务不做登录认证，密码仅在创建时哈希存储。
type UserService interface {
	// CreateUser 创建新用户，登录名冲突返回 myErrors.ErrLoginTaken。
	// - 可选的头像文件先上传 COS，URL 落到用户记录上。
	CreateUser(ctx context.Context, req *dto.CreateUserRequest, avatarFile *multipart.FileHeader) (*vo.UserVO, error)

	// GetUserDetail 获取用户详情：基础资料、兴趣标签与互动统计。
	GetUserDetail(ctx context.Context, userID uint64) (*vo.UserDetailVO, error)

	// UpdateProfile 更新用户的显示名称与简介。
	UpdateProfile(ctx context.Context, userID uint64, req *dto.UpdateUserProfileRequest) (*vo.UserVO, error)

	// UpdateAvatar 替换用户头像：上传新文件后异步清理旧的 COS 对象。
	UpdateAvatar(ctx context.Context, userID uint64, avatarFile *multipart.FileHeader) (*vo.UserVO, error)

	// DeleteUser 注销用户：事务内软删除用户并清除其发出的点赞，
	// 随后清空偏好标签并异步清理头像对象。已发布的帖子保留。
	DeleteUser(ctx context.Context, userID uint64) error

	// ApplyRatingUpdate 应用外部评估服务推送的评分，Kafka 消费侧调用。
	ApplyRatingUpdate(ctx context.Context, userID uint64, rating float64) error
}

type userService struct {
	userRepo    mysql.UserRepository
	postRepo    mysql.PostRepository
	likeRepo    mysql.LikeRepository
	tagRepo     mysql.TagRepository
	affinitySvc AffinityService
	cosClient   dependencies.COSClientInterface
	db          *gorm.DB
	logger      *core.ZapLogger
}

// NewUserService 是 userService 的构造函数。
func NewUserService(
	db *gorm.DB,
	userRepo mysql.UserRepository,
	postRepo mysql.PostRepository,
	likeRepo mysql.LikeRepository,
	tagRepo mysql.TagRepository,
	affinitySvc AffinityService,
	cosClient dependencies.COSClientInterface,
	logger *core.ZapLogger,
) UserService {
	return &userService{
		userRepo:    userRepo,
		postRepo:    postRepo,
		likeRepo:    likeRepo,
		tagRepo:     tagRepo,
		affinitySvc: affinitySvc,
		cosClient:   cosClient,
		db:          db,
		logger:      logger,
	}
}

// generateAvatarObjectKey 为用户头像生成唯一的 COS 对象键。
func (s *userService) generateAvatarObjectKey(originalFilename string) string {
	datePrefix := time.Now().Format("20060102")
	extension := strings.ToLower(filepath.Ext(originalFilename))
	return fmt.Sprintf("%s%s/%s%s",
		constant.COSObjectKeyPrefixAvatars,
		datePrefix,
		uuid.NewString(),
		extension,
	)
}

// uploadAvatar 上传头像文件并返回公开访问 URL。
func (s *userService) uploadAvatar(ctx context.Context, avatarFile *multipart.FileHeader) (string, string, error) {
	file, err := avatarFile.Open()
	if err != nil {
		return "", "", fmt.Errorf("打开头像文件失败: %w", err)
	}
	defer file.Close()

	contentType := avatarFile.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	objectKey := s.generateAvatarObjectKey(avatarFile.Filename)
	avatarURL, err := s.cosClient.UploadFile(ctx, objectKey, file, avatarFile.Size, contentType)
	if err != nil {
		return "", "", fmt.Errorf("上传头像到 COS 失败: %w", err)
	}
	return avatarURL, objectKey, nil
}

// CreateUser 实现用户的创建。
func (s *userService) CreateUser(ctx context.Context, req *dto.CreateUserRequest, avatarFile *multipart.FileHeader) (*vo.UserVO, error) {
	// 1. 登录名预检，并发下的兜底仍是唯一索引
	if _, err := s.userRepo.GetUserByLogin(ctx, req.Login); err == nil {
		return nil, myErrors.ErrLoginTaken
	} else if !errors.Is(err, commonerrors.ErrRepoNotFound) {
		return nil, fmt.Errorf("检查登录名占用失败: %w", err)
	}

	// 2. 密码哈希
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return nil, fmt.Errorf("密码哈希失败: %w", err)
	}

	// 3. 可选头像上传
	var avatarURL sql.NullString
	var objectKey string
	if avatarFile != nil {
		uploadedURL, key, uploadErr := s.uploadAvatar(ctx, avatarFile)
		if uploadErr != nil {
			s.logger.Error("创建用户时上传头像失败", zap.Error(uploadErr))
			return nil, uploadErr
		}
		avatarURL = sql.NullString{String: uploadedURL, Valid: true}
		objectKey = key
	}

	profileType := req.ProfileType
	if profileType == 0 {
		profileType = enums.ProfileTypeStudent
	}

	user := &entities.User{
		Login:       req.Login,
		Password:    string(passwordHash),
		Name:        req.Name,
		ProfileType: profileType,
		AvatarURL:   avatarURL,
	}
	if req.Description != "" {
		user.Description = sql.NullString{String: req.Description, Valid: true}
	}

	if err := s.userRepo.CreateUser(ctx, s.db, user); err != nil {
		// 预检后的并发插入可能仍撞唯一索引，统一报登录名冲突
		if strings.Contains(err.Error(), "Duplicate entry") {
			return nil, myErrors.ErrLoginTaken
		}
		s.logger.Error("创建用户失败", zap.Error(err), zap.String("login", req.Login))
		if objectKey != "" {
			if cleanupErr := s.cosClient.DeleteObject(context.Background(), objectKey); cleanupErr != nil {
				s.logger.Error("清理孤立的头像文件失败", zap.String("objectKey", objectKey), zap.Error(cleanupErr))
			}
		}
		return nil, fmt.Errorf("创建用户失败: %w", err)
	}

	s.logger.Info("用户创建成功", zap.Uint64("userID", user.ID), zap.String("login", user.Login))
	return vo.NewUserVOFromEntity(user), nil
}

// GetUserDetail 实现用户详情的组装。
func (s *userService) GetUserDetail(ctx context.Context, userID uint64) (*vo.UserDetailVO, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			return nil, myErrors.ErrUserNotFound
		}
		return nil, err
	}

	tagIDs, err := s.affinitySvc.GetUserTagIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("获取用户兴趣标签失败: %w", err)
	}
	tags, err := s.tagRepo.GetByIDs(ctx, tagIDs)
	if err != nil {
		return nil, fmt.Errorf("查询兴趣标签详情失败: %w", err)
	}

	postCount, err := s.postRepo.CountPostsByAuthor(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("统计用户发帖数失败: %w", err)
	}
	likesCount, err := s.likeRepo.CountReceivedByAuthorID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("统计用户收到的点赞数失败: %w", err)
	}

	return &vo.UserDetailVO{
		UserVO:     *vo.NewUserVOFromEntity(user),
		Tags:       vo.MapTagsToTagVOs(tags),
		PostCount:  postCount,
		LikesCount: likesCount,
	}, nil
}

// UpdateProfile 实现用户资料的更新。
func (s *userService) UpdateProfile(ctx context.Context, userID uint64, req *dto.UpdateUserProfileRequest) (*vo.UserVO, error) {
	if err := s.userRepo.UpdateProfile(ctx, userID, req.Name, req.Description); err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			return nil, myErrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("更新用户资料失败: %w", err)
	}

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return vo.NewUserVOFromEntity(user), nil
}

// UpdateAvatar 实现用户头像的替换。
func (s *userService) UpdateAvatar(ctx context.Context, userID uint64, avatarFile *multipart.FileHeader) (*vo.UserVO, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			return nil, myErrors.ErrUserNotFound
		}
		return nil, err
	}

	newURL, newObjectKey, err := s.uploadAvatar(ctx, avatarFile)
	if err != nil {
		s.logger.Error("上传新头像失败", zap.Error(err), zap.Uint64("userID", userID))
		return nil, err
	}

	if err := s.userRepo.UpdateAvatarURL(ctx, userID, newURL); err != nil {
		// 数据库更新失败时回收刚上传的对象
		if cleanupErr := s.cosClient.DeleteObject(context.Background(), newObjectKey); cleanupErr != nil {
			s.logger.Error("清理新上传的头像文件失败", zap.String("objectKey", newObjectKey), zap.Error(cleanupErr))
		}
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			return nil, myErrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("更新用户头像失败: %w", err)
	}

	// 异步清理旧头像对象
	if user.AvatarURL.Valid {
		if oldKey := objectKeyFromURL(user.AvatarURL.String); oldKey != "" {
			go func(key string) {
				if cleanupErr := s.cosClient.DeleteObject(context.Background(), key); cleanupErr != nil {
					s.logger.Warn("删除旧头像对象失败", zap.String("objectKey", key), zap.Error(cleanupErr))
				}
			}(oldKey)
		}
	}

	updated, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return vo.NewUserVOFromEntity(updated), nil
}

// DeleteUser 实现用户的注销。
func (s *userService) DeleteUser(ctx context.Context, userID uint64) error {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			return myErrors.ErrUserNotFound
		}
		return err
	}

	// 用户与其点赞记录在同一事务中消失；帖子保留，作者 ID 继续指向已注销用户
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.likeRepo.DeleteByUserID(ctx, tx, userID); err != nil {
			return fmt.Errorf("删除用户点赞记录失败: %w", err)
		}
		if err := s.userRepo.DeleteUser(ctx, tx, userID); err != nil {
			return fmt.Errorf("删除用户记录失败: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			return myErrors.ErrUserNotFound
		}
		s.logger.Error("注销用户事务失败", zap.Uint64("userID", userID), zap.Error(err))
		return err
	}

	// 点赞没了，偏好标签的推导依据也没了，这里直接清空。
	// 清空失败只记录：残留数据对注销用户已无可见影响。
	if clearErr := s.affinitySvc.ClearAffinity(ctx, userID); clearErr != nil {
		s.logger.Warn("清空注销用户的偏好标签失败", zap.Uint64("userID", userID), zap.Error(clearErr))
	}

	// 异步清理头像对象
	if user.AvatarURL.Valid {
		if key := objectKeyFromURL(user.AvatarURL.String); key != "" {
			go func(objectKey string) {
				if cleanupErr := s.cosClient.DeleteObject(context.Background(), objectKey); cleanupErr != nil {
					s.logger.Warn("删除注销用户的头像对象失败", zap.String("objectKey", objectKey), zap.Error(cleanupErr))
				}
			}(key)
		}
	}

	s.logger.Info("用户注销完成", zap.Uint64("userID", userID))
	return nil
}

// objectKeyFromURL 从对象的公开访问 URL 中还原 COS 对象键。
func objectKeyFromURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(parsed.Path, "/")
}

// ApplyRatingUpdate 实现评分的落库。
func (s *userService) ApplyRatingUpdate(ctx context.Context, userID uint64, rating float64) error {
	if err := s.userRepo.UpdateRating(ctx, userID, rating); err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			return myErrors.ErrUserNotFound
		}
		return fmt.Errorf("更新用户评分失败: %w", err)
	}
	return nil
}
