package constant

// 服务标识常量，用于追踪、日志和 Kafka 消费组命名
const (
	ServiceName    = "content_service"
	ServiceVersion = "1.0.0"
)

// 定时任务调度表达式 (cron v3, 分钟级精度)
const (
	// SyncViewCountInterval 浏览量从 Redis 同步到 MySQL 的调度周期。
	// 每 5 分钟一次，保证浏览量在可接受的延迟内落库。
	SyncViewCountInterval = "*/5 * * * *"

	// AffinityRefreshCronSpec 全量用户兴趣标签重算任务的调度周期。
	// 每天凌晨 4 点执行一次，兜底修复点赞时同步重算失败造成的偏差。
	AffinityRefreshCronSpec = "0 4 * * *"
)
