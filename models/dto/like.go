package dto

// LikeRequest 定义了点赞的请求数据结构
type LikeRequest struct {
	PostID uint64 `json:"post_id" binding:"required"` // 帖子ID，必填
	UserID uint64 `json:"user_id" binding:"required"` // 用户ID，必填
}
