package constant

// 标签与兴趣画像相关常量
const (
	// MaxTokensPerPost 是分词服务为单条帖子返回的主题词数量上限。
	// 分词服务自身已按重要性排序并去重，这里仅作为兜底截断。
	MaxTokensPerPost = 10

	// MaxUserAffinityTags 是单个用户兴趣标签 (user_tags) 的数量上限。
	// 兴趣重算时按出现频次取 Top-N，整表替换写入。
	MaxUserAffinityTags = 10

	// UserTagCacheTTL 用户兴趣标签缓存的过期时间 (秒)。
	// 兴趣重算成功后会主动失效，TTL 仅兜底缓存与数据库的漂移。
	UserTagCacheTTLSeconds = 1800
)

// COSObjectKeyPrefixAvatars 是用户头像在 COS 中的对象键前缀。
const COSObjectKeyPrefixAvatars = "users/avatars/"

// COSObjectKeyPrefixPostMedia 是帖子媒体文件在 COS 中的对象键前缀。
const COSObjectKeyPrefixPostMedia = "posts/media/"
