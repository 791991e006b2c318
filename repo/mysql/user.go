package mysql

import (
	"context"
	"errors"
	"time"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/content_service/models/entities"
)

// UserRepository 定义了用户数据在 MySQL 中的持久化操作接口。
type UserRepository interface {
	// CreateUser 持久化一个新用户，登录名由唯一索引保证不重复。
	CreateUser(ctx context.Context, db *gorm.DB, user *entities.User) error

	// GetUserByID 按 ID 获取用户，未找到返回 commonerrors.ErrRepoNotFound。
	GetUserByID(ctx context.Context, id uint64) (*entities.User, error)

	// GetUserByLogin 按登录名获取用户，未找到返回 commonerrors.ErrRepoNotFound。
	GetUserByLogin(ctx context.Context, login string) (*entities.User, error)

	// UpdateProfile 更新用户的昵称与简介，传入 nil 表示不更新对应字段。
	UpdateProfile(ctx context.Context, userID uint64, name *string, description *string) error

	// UpdateAvatarURL 更新用户头像地址。
	UpdateAvatarURL(ctx context.Context, userID uint64, avatarURL string) error

	// UpdateRating 覆盖写用户评分，由外部评估服务的消息驱动。
	UpdateRating(ctx context.Context, userID uint64, rating float64) error

	// DeleteUser 对指定用户执行软删除，未找到返回 commonerrors.ErrRepoNotFound。
	DeleteUser(ctx context.Context, db *gorm.DB, id uint64) error

	// ListUserIDs 返回全部用户 ID，偏好标签的全量刷新任务使用。
	ListUserIDs(ctx context.Context) ([]uint64, error)
}

type userRepository struct {
	db     *gorm.DB
	logger *core.ZapLogger
}

// NewUserRepository 是 userRepository 的构造函数。
func NewUserRepository(db *gorm.DB, logger *core.ZapLogger) UserRepository {
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

// CreateUser 实现用户的数据库插入操作。
func (r *userRepository) CreateUser(ctx context.Context, db *gorm.DB, user *entities.User) error {
	if err := db.WithContext(ctx).Create(user).Error; err != nil {
		return err
	}
	return nil
}

// GetUserByID 实现按 ID 获取用户。
func (r *userRepository) GetUserByID(ctx context.Context, id uint64) (*entities.User, error) {
	var user entities.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.logger.Warn("根据 ID 获取用户未找到", zap.Uint64("userID", id))
			return nil, commonerrors.ErrRepoNotFound
		}
		r.logger.Error("根据 ID 获取用户数据库查询失败", zap.Uint64("userID", id), zap.Error(err))
		return nil, err
	}
	return &user, nil
}

// GetUserByLogin 实现按登录名获取用户。
func (r *userRepository) GetUserByLogin(ctx context.Context, login string) (*entities.User, error) {
	var user entities.User
	err := r.db.WithContext(ctx).Where("login = ?", login).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, commonerrors.ErrRepoNotFound
		}
		r.logger.Error("根据登录名获取用户数据库查询失败", zap.String("login", login), zap.Error(err))
		return nil, err
	}
	return &user, nil
}

// UpdateProfile 实现用户资料的更新。
func (r *userRepository) UpdateProfile(ctx context.Context, userID uint64, name *string, description *string) error {
	updateMap := make(map[string]interface{})
	if name != nil {
		updateMap["name"] = *name
	}
	if description != nil {
		updateMap["description"] = *description
	}

	if len(updateMap) == 0 {
		r.logger.Info("没有提供任何有效的字段来更新用户资料 (所有可选参数均为nil)",
			zap.Uint64("userID", userID),
		)
		return nil
	}

	updateMap["updated_at"] = time.Now()

	result := r.db.WithContext(ctx).
		Model(&entities.User{}).
		Where("id = ? AND deleted_at IS NULL", userID).
		Updates(updateMap)
	if result.Error != nil {
		r.logger.Error("更新用户资料数据库操作失败", zap.Error(result.Error), zap.Uint64("userID", userID))
		return result.Error
	}
	if result.RowsAffected == 0 {
		r.logger.Warn("尝试更新用户资料但未找到记录", zap.Uint64("userID", userID))
		return commonerrors.ErrRepoNotFound
	}
	return nil
}

// UpdateAvatarURL 实现用户头像地址的更新。
func (r *userRepository) UpdateAvatarURL(ctx context.Context, userID uint64, avatarURL string) error {
	result := r.db.WithContext(ctx).
		Model(&entities.User{}).
		Where("id = ? AND deleted_at IS NULL", userID).
		Updates(map[string]interface{}{
			"avatar_url": avatarURL,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		r.logger.Error("更新用户头像数据库操作失败", zap.Error(result.Error), zap.Uint64("userID", userID))
		return result.Error
	}
	if result.RowsAffected == 0 {
		return commonerrors.ErrRepoNotFound
	}
	return nil
}

// DeleteUser 实现用户的软删除。
// db 参数是执行此操作的数据库句柄 (可以是普通连接，也可以是事务 tx)。
func (r *userRepository) DeleteUser(ctx context.Context, db *gorm.DB, id uint64) error {
	// entities.User 嵌入了 gorm.DeletedAt，Delete 即为软删除
	result := db.WithContext(ctx).Delete(&entities.User{}, id)
	if result.Error != nil {
		r.logger.Error("删除用户失败", zap.Uint64("userID", id), zap.Error(result.Error))
		return result.Error
	}
	if result.RowsAffected == 0 {
		return commonerrors.ErrRepoNotFound
	}
	return nil
}

// UpdateRating 实现用户评分的覆盖写。
func (r *userRepository) UpdateRating(ctx context.Context, userID uint64, rating float64) error {
	result := r.db.WithContext(ctx).
		Model(&entities.User{}).
		Where("id = ? AND deleted_at IS NULL", userID).
		Updates(map[string]interface{}{
			"rating":     rating,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		r.logger.Error("更新用户评分数据库操作失败", zap.Error(result.Error), zap.Uint64("userID", userID))
		return result.Error
	}
	if result.RowsAffected == 0 {
		return commonerrors.ErrRepoNotFound
	}
	return nil
}

// ListUserIDs 实现全部用户 ID 的查询。
func (r *userRepository) ListUserIDs(ctx context.Context) ([]uint64, error) {
	var ids []uint64
	err := r.db.WithContext(ctx).Model(&entities.User{}).
		Order("id ASC").
		Pluck("id", &ids).Error
	if err != nil {
		r.logger.Error("查询全部用户 ID 失败", zap.Error(err))
		return nil, err
	}
	return ids, nil
}
