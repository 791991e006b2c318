package constant

// Redis Key 相关常量 (导出)
const (
	// --- Key 前缀 (用于动态生成 Key) ---

	// PostViewBloomPrefix 是帖子浏览记录 Bloom Filter 的 Key 前缀。
	// 每个帖子会有一个对应的 Bloom Filter Key。
	// 用于快速判断某个访问者是否在一定时间内浏览过某帖子，以实现防刷。
	// 示例 Key: "post_view_bloom:123" (其中 123 是 postID)
	// Redis 类型: String (由 RedisBloom 模块管理)
	PostViewBloomPrefix = "post_view_bloom:"

	// PostViewCountPrefix 是帖子浏览量计数器的 Key 前缀。
	// 每个帖子会有一个对应的 String 类型的 Key，用于原子性计数。
	// 示例 Key: "post_view_count:123" (其中 123 是 postID)
	// Redis 类型: String
	PostViewCountPrefix = "post_view_count:"

	// UserTagCachePrefix 是用户兴趣标签缓存的 Key 前缀。
	// 缓存一个用户当前的兴趣标签 ID 列表 (即 user_tags 表的派生快照)，
	// 推荐查询高频读取该列表，缓存可避免每次请求都回源 MySQL。
	// 兴趣重算成功后必须使该 Key 失效。
	// 示例 Key: "user_tags:42" (其中 42 是 userID)
	// Redis 类型: String (JSON 序列化的 []uint64)
	UserTagCachePrefix = "user_tags:"
)
