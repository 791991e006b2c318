package vo

import (
	"time"

	"github.com/Xushengqwer/content_service/models/entities"
	"github.com/Xushengqwer/content_service/models/enums"
)

// PostResponse 定义了帖子基础信息的响应数据结构
type PostResponse struct {
	ID        uint64         `json:"id"`         // 帖子ID
	Content   string         `json:"content"`    // 正文内容
	ParentID  *uint64        `json:"parent_id"`  // 父帖ID，顶层帖子为 null
	AuthorID  uint64         `json:"author_id"`  // 作者ID
	MediaURL  *string        `json:"media_url"`  // 媒体链接，可能为 null
	Type      enums.PostType `json:"type"`       // 帖子类型 (1=帖子, 2=评论, 3=转发)
	ViewCount int64          `json:"view_count"` // 浏览量
	CreatedAt time.Time      `json:"created_at"` // 创建时间
	UpdatedAt time.Time      `json:"updated_at"` // 更新时间
}

// CommentVO 定义了评论树节点的响应数据结构
// - Replies 是该评论下的子评论，评论树由服务层按父 ID 分层分组重建
type CommentVO struct {
	ID        uint64       `json:"id"`         // 评论ID
	Content   string       `json:"content"`    // 评论内容
	ParentID  *uint64      `json:"parent_id"`  // 父帖/父评论ID
	AuthorID  uint64       `json:"author_id"`  // 作者ID
	ViewCount int64        `json:"view_count"` // 浏览量
	CreatedAt time.Time    `json:"created_at"` // 创建时间
	Replies   []*CommentVO `json:"replies"`    // 子评论列表
}

// PostDetailVO 定义了帖子详情页的响应数据结构
// - 在基础信息之上附加点赞数、标签集合与完整评论树
type PostDetailVO struct {
	PostResponse
	LikesCount int64        `json:"likes_count"` // 点赞数
	Tags       []*TagVO     `json:"tags"`        // 主题标签列表
	Comments   []*CommentVO `json:"comments"`    // 一级评论及其嵌套回复
}

// ListPostsVO 定义了分页查询帖子列表的响应结构
type ListPostsVO struct {
	Posts []*PostResponse `json:"posts"` // 当前页的帖子列表
	Total int64           `json:"total"` // 符合条件的总记录数；推荐流返回的是本窗口候选池大小
}

// ListCommentsVO 定义了分页查询一级评论的响应结构
type ListCommentsVO struct {
	Comments []*PostResponse `json:"comments"` // 当前页的一级评论列表
	Total    int64           `json:"total"`    // 该帖子下的一级评论总数
}

// LikeCountVO 定义了帖子点赞数的视图对象
type LikeCountVO struct {
	PostID uint64 `json:"post_id"` // 帖子ID
	Count  int64  `json:"count"`   // 点赞总数
}

// NewPostResponseFromEntity 将帖子实体转换为响应VO。
func NewPostResponseFromEntity(post *entities.Post) *PostResponse {
	if post == nil {
		return nil
	}
	resp := &PostResponse{
		ID:        post.ID,
		Content:   post.Content,
		ParentID:  post.ParentID,
		AuthorID:  post.AuthorID,
		Type:      post.Type,
		ViewCount: post.ViewCount,
		CreatedAt: post.CreatedAt,
		UpdatedAt: post.UpdatedAt,
	}
	if post.MediaURL.Valid {
		mediaURL := post.MediaURL.String
		resp.MediaURL = &mediaURL
	}
	return resp
}

// MapPostsToPostResponsesVO 是一个辅助函数，用于将帖子实体列表转换为帖子响应VO列表。
func MapPostsToPostResponsesVO(posts []*entities.Post) []*PostResponse {
	if len(posts) == 0 {
		return []*PostResponse{} // 返回空切片而不是nil，便于前端处理
	}

	responses := make([]*PostResponse, 0, len(posts))
	for _, post := range posts {
		if post == nil { // 安全检查，尽管不太可能发生
			continue
		}
		responses = append(responses, NewPostResponseFromEntity(post))
	}
	return responses
}
