// Package events 定义服务对外发布及消费的 Kafka 事件结构。
package events

import "time"

// PostData 是帖子事件携带的核心数据。
type PostData struct {
	ID        uint64   `json:"id"`
	AuthorID  uint64   `json:"author_id"`
	ParentID  *uint64  `json:"parent_id,omitempty"`
	Type      int      `json:"type"`
	Content   string   `json:"content"`
	Tags      []string `json:"tags,omitempty"`   // 帖子绑定的标签名称
	CreatedAt int64    `json:"created_at"`       // Unix 毫秒
	UpdatedAt int64    `json:"updated_at"`       // Unix 毫秒
}

// PostCreatedEvent 在帖子创建成功后发布，供搜索、推送等下游服务消费。
type PostCreatedEvent struct {
	EventID   string    `json:"event_id"`
	Timestamp time.Time `json:"timestamp"`
	Post      PostData  `json:"post"`
}

// PostDeletedEvent 在帖子删除后发布。
type PostDeletedEvent struct {
	EventID   string    `json:"event_id"`
	Timestamp time.Time `json:"timestamp"`
	PostID    uint64    `json:"post_id"`
}

// UserRatingUpdatedEvent 由外部评估服务发布，
// 本服务消费后把评分落到用户记录上。
type UserRatingUpdatedEvent struct {
	EventID   string    `json:"event_id"`
	Timestamp time.Time `json:"timestamp"`
	UserID    uint64    `json:"user_id"`
	Rating    float64   `json:"rating"`
}
