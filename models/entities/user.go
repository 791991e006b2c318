package entities

import (
	"database/sql"

	"github.com/Xushengqwer/go-common/models/entities"

	"github.com/Xushengqwer/content_service/models/enums"
)

// User 用户实体
// - 表名: users
// - 登录名全局唯一，创建时冲突返回业务冲突错误
type User struct {
	entities.BaseModel

	// 登录名，全局唯一
	Login string `gorm:"type:varchar(64);not null;uniqueIndex"`

	// 密码哈希
	// - 本服务不做认证，该列仅为保持与用户数据的完整映射
	Password string `gorm:"type:varchar(255);not null"`

	// 资料类型，枚举：1=学生, 2=教师, 3=机构
	ProfileType enums.ProfileType `gorm:"type:int;not null;default:1"`

	// 显示名称
	Name string `gorm:"type:varchar(100);not null"`

	// 头像链接，可选
	// - 存储 COS 上传后的公开访问 URL，替换头像时旧对象会被删除
	AvatarURL sql.NullString `gorm:"type:varchar(1023)"`

	// 个人简介，可选
	Description sql.NullString `gorm:"type:varchar(1023)"`

	// 评级分数
	// - 由外部文档评估服务经 Kafka 推送增量更新，本服务不实现打分逻辑
	Rating float64 `gorm:"type:decimal(10,1);not null;default:0"`
}
