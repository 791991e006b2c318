package config

// ViewSyncConfig 是浏览量从 Redis 回写 MySQL 的同步任务配置。
type ViewSyncConfig struct {
	// BatchSize 是单条批量 UPDATE 语句覆盖的帖子数量。
	// 全量浏览量会被切成若干批，每批用一条 CASE WHEN 更新落库。
	BatchSize int `mapstructure:"batchSize" json:"batchSize" yaml:"batchSize"`

	// ConcurrencyLevel 是并发处理批次的 worker 数量，
	// 即同时向数据库发起批量更新的连接数上限。
	ConcurrencyLevel int `mapstructure:"concurrencyLevel" json:"concurrencyLevel" yaml:"concurrencyLevel"`

	// ScanBatchSize 是遍历浏览量 Key 时传给 Redis SCAN 的 COUNT 建议值。
	// Redis 不保证精确返回该数量，只作为每次迭代的提示。
	ScanBatchSize int64 `mapstructure:"scanBatchSize" json:"scanBatchSize" yaml:"scanBatchSize"`
}
