package dto

import "github.com/Xushengqwer/content_service/models/enums"

// CreatePostRequest 定义了创建帖子的请求数据结构
// - 添加了 binding 标签用于输入验证
// - 媒体文件作为 multipart/form-data 的文件部分单独上传，不在 DTO 中
type CreatePostRequest struct {
	Content  string         `json:"content" form:"content" binding:"required,max=10000"` // 正文内容，必填
	AuthorID uint64         `json:"author_id" form:"author_id" binding:"required"`       // 作者ID，必填
	ParentID *uint64        `json:"parent_id" form:"parent_id" binding:"omitempty"`      // 父帖ID，可选（评论/转发必填，由服务层校验）
	Type     enums.PostType `json:"type" form:"type" binding:"omitempty"`                // 帖子类型，缺省为 1=帖子
}

// CreateCommentRequest 定义了创建评论的请求数据结构
// - 评论是一种特殊的帖子：类型固定为 2，且必须有父引用
type CreateCommentRequest struct {
	Content  string `json:"content" form:"content" binding:"required,max=10000"` // 评论内容，必填
	AuthorID uint64 `json:"author_id" form:"author_id" binding:"required"`       // 作者ID，必填
	ParentID uint64 `json:"parent_id" form:"parent_id" binding:"required"`       // 父帖/父评论ID，必填
}

// UpdatePostRequest 定义了更新帖子的请求数据结构
// - 指针类型区分"未传该字段"和"传了空值"
// - 正文变更会触发标签集合的全量重建
type UpdatePostRequest struct {
	Content  *string `json:"content" binding:"omitempty,max=10000"`        // 新正文，可选
	MediaURL *string `json:"media_url" binding:"omitempty"` // 新媒体链接，可选
}

// ListPostsRequest 定义了分页查询顶层帖子列表的请求数据结构
type ListPostsRequest struct {
	Offset int `json:"offset" form:"offset" binding:"omitempty,gte=0"`        // 偏移量，缺省 0
	Limit  int `json:"limit" form:"limit" binding:"omitempty,gt=0,lte=100"` // 每页数量，缺省 20
}

// GetOffset 返回带缺省值的偏移量。
func (r *ListPostsRequest) GetOffset() int {
	if r.Offset < 0 {
		return 0
	}
	return r.Offset
}

// GetLimit 返回带缺省值的每页数量。
func (r *ListPostsRequest) GetLimit() int {
	if r.Limit <= 0 {
		return 20
	}
	return r.Limit
}
