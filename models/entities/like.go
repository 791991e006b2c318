package entities

import "time"

// Like 点赞实体
// - 表名: likes
// - (PostID, UserID) 全局唯一: 同一用户对同一帖子至多一条点赞记录。
//   并发重复点赞依赖该唯一约束串行化，后到的插入观察到唯一键冲突后
//   改为读取并返回已有记录 (见 service 层)
// - 不嵌入 BaseModel: 取消点赞是物理删除，软删除残留会阻止再次点赞
type Like struct {
	ID        uint64    `gorm:"primarykey"`
	CreatedAt time.Time // 点赞时间

	// 帖子ID，组合唯一索引的第一列
	PostID uint64 `gorm:"type:bigint;not null;uniqueIndex:uk_like_post_user,priority:1"`

	// 用户ID，组合唯一索引的第二列
	UserID uint64 `gorm:"type:bigint;not null;uniqueIndex:uk_like_post_user,priority:2;index"`
}
