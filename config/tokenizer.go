package config

// TokenizerConfig 包含调用外部关键词抽取服务所需的配置。
// 该服务对帖子正文做分词，返回用于打标签的主题词列表。
type TokenizerConfig struct {
	BaseURL string `mapstructure:"base_url" json:"base_url" yaml:"base_url"` // 例如 http://tokenizer:8000
	// TimeoutSeconds 是单次抽取请求的超时时间（秒）。
	// 抽取失败不会阻塞帖子发布，超时后按零标签处理。
	TimeoutSeconds int `mapstructure:"timeout_seconds" json:"timeout_seconds" yaml:"timeout_seconds"`
	// MaxTokens 是单篇帖子最多保留的主题词数量
	MaxTokens int `mapstructure:"max_tokens" json:"max_tokens" yaml:"max_tokens"`
}
