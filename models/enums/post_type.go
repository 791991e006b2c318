package enums

// PostType 帖子类型，固定枚举 {1,2,3}。
// 与数据库中的 type 列一一对应；校验入口拒绝其他值。
type PostType int

const (
	// PostTypePost 普通帖子 (顶层内容，可被推荐)
	PostTypePost PostType = 1
	// PostTypeComment 评论 (必须携带父引用，不参与推荐)
	PostTypeComment PostType = 2
	// PostTypeRepost 转发 (携带父引用，不参与推荐)
	PostTypeRepost PostType = 3
)

// IsValid 判断给定值是否为合法的帖子类型。
func (t PostType) IsValid() bool {
	return t == PostTypePost || t == PostTypeComment || t == PostTypeRepost
}

// String 返回帖子类型的可读名称，用于日志输出。
func (t PostType) String() string {
	switch t {
	case PostTypePost:
		return "post"
	case PostTypeComment:
		return "comment"
	case PostTypeRepost:
		return "repost"
	default:
		return "unknown"
	}
}
