package config

type KafkaConfig struct {
	Brokers         []string `mapstructure:"brokers" json:"brokers" yaml:"brokers"`
	Topics          Topics   `mapstructure:"topics" json:"topics" yaml:"topics"`
	ConsumerGroupID string   `mapstructure:"consumer_group_id" json:"consumer_group_id" yaml:"consumer_group_id"`
}

type Topics struct {
	PostCreated       string `mapstructure:"postCreated" yaml:"postCreated"`             //  帖子创建事件主题
	PostDeleted       string `mapstructure:"postDeleted" yaml:"postDeleted"`             //  帖子删除事件主题
	UserRatingUpdated string `mapstructure:"userRatingUpdated" yaml:"userRatingUpdated"` //  用户评分更新主题（由外部评估服务产生）
}
