package entities

import (
	"database/sql"

	"github.com/Xushengqwer/go-common/models/entities"

	"github.com/Xushengqwer/content_service/models/enums"
)

// Post 帖子实体
// - 使用场景: 帖子、评论、转发共用一张表，通过 Type 和 ParentID 区分
// - 表名: posts (GORM 默认使用结构体名复数形式)
// - 主键由数据库自增序列生成，禁止在应用层扫描 max(id)+1 的方式分配 ID
//   (并发插入下会产生相同的"下一个 ID")
type Post struct {
	entities.BaseModel // 嵌入自定义的 BaseModel ,包含 ID, CreatedAt, UpdatedAt, DeletedAt，支持软删除

	// 正文内容
	// - 类型: text，帖子正文长度不定，评论通常较短
	// - 内容更新时会触发标签全量重建 (见 service 层)
	Content string `gorm:"type:text;not null"`

	// 父帖引用，顶层帖子为 NULL
	// - 评论/转发通过该字段指向父帖子或父评论，形成树状结构
	// - 类型: 指针以区分"无父引用"(nil) 和"指向某帖"
	// - GORM 标签: index 支持按父 ID 聚合重建评论树
	ParentID *uint64 `gorm:"type:bigint;index"`

	// 作者ID，关联 users 表
	AuthorID uint64 `gorm:"type:bigint;not null;index"`

	// 媒体链接，可选
	// - 存储 COS 上传后的公开访问 URL
	MediaURL sql.NullString `gorm:"type:varchar(1023)"`

	// 帖子类型，枚举：1=帖子, 2=评论, 3=转发
	// - 推荐只召回 Type=1 且 ParentID 为 NULL 的顶层帖子
	Type enums.PostType `gorm:"type:int;not null;default:1"`

	// 浏览量，统计帖子的浏览次数
	// - 实时计数在 Redis 中进行，定时任务批量回写本列
	ViewCount int64 `gorm:"type:bigint;default:0"`
}
