package vo

import (
	"time"

	"github.com/Xushengqwer/content_service/models/entities"
	"github.com/Xushengqwer/content_service/models/enums"
)

// UserVO 定义了用户基础信息的响应数据结构
type UserVO struct {
	ID          uint64            `json:"id"`           // 用户ID
	Login       string            `json:"login"`        // 登录名
	Name        string            `json:"name"`         // 显示名称
	ProfileType enums.ProfileType `json:"profile_type"` // 资料类型
	AvatarURL   *string           `json:"avatar_url"`   // 头像链接，可能为 null
	Description *string           `json:"description"`  // 简介，可能为 null
	Rating      float64           `json:"rating"`       // 评级分数
	CreatedAt   time.Time         `json:"created_at"`   // 注册时间
}

// UserDetailVO 定义了用户详情页的响应数据结构
// - 在基础信息之上附加兴趣标签与发帖/获赞统计
type UserDetailVO struct {
	UserVO
	Tags       []*TagVO `json:"tags"`        // 当前兴趣标签列表 (点赞历史派生)
	PostCount  int64    `json:"post_count"`  // 发帖数量
	LikesCount int64    `json:"likes_count"` // 该用户名下帖子收到的点赞总数
}

// NewUserVOFromEntity 将用户实体转换为基础响应VO。
func NewUserVOFromEntity(user *entities.User) *UserVO {
	if user == nil {
		return nil
	}
	v := &UserVO{
		ID:          user.ID,
		Login:       user.Login,
		Name:        user.Name,
		ProfileType: user.ProfileType,
		Rating:      user.Rating,
		CreatedAt:   user.CreatedAt,
	}
	if user.AvatarURL.Valid {
		avatarURL := user.AvatarURL.String
		v.AvatarURL = &avatarURL
	}
	if user.Description.Valid {
		description := user.Description.String
		v.Description = &description
	}
	return v
}
