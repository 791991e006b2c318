package entities

import "time"

// UserTag 用户兴趣标签关联实体
// - 表名: user_tags
// - 表示用户当前的兴趣画像: 其点赞历史中出现频次最高的前 10 个标签
// - 这是派生缓存而非权威数据，权威数据是点赞记录本身；
//   每次兴趣重算在单个事务内整组替换 (先删后插)，不做增量修补
// - 不嵌入 BaseModel: 物理删除，理由同 PostTag
type UserTag struct {
	ID        uint64    `gorm:"primarykey"`
	CreatedAt time.Time

	// 用户ID，组合唯一索引的第一列
	UserID uint64 `gorm:"type:bigint;not null;uniqueIndex:uk_user_tag,priority:1"`

	// 标签ID，组合唯一索引的第二列
	TagID uint64 `gorm:"type:bigint;not null;uniqueIndex:uk_user_tag,priority:2"`
}
