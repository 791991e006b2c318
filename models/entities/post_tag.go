package entities

import "time"

// PostTag 帖子与标签的关联实体
// - 表名: post_tags
// - (PostID, TagID) 全局唯一；帖子内容更新时整组删除后重建
// - 不嵌入 BaseModel: 关联行采用物理删除，软删除残留会与唯一索引冲突
//   (同一 (post, tag) 组合删除后无法重新建立)
type PostTag struct {
	ID        uint64    `gorm:"primarykey"`
	CreatedAt time.Time // 关联建立时间

	// 帖子ID，组合唯一索引的第一列
	PostID uint64 `gorm:"type:bigint;not null;uniqueIndex:uk_post_tag,priority:1"`

	// 标签ID，组合唯一索引的第二列
	TagID uint64 `gorm:"type:bigint;not null;uniqueIndex:uk_post_tag,priority:2;index"`
}
