package config

// RedisConfig 包含连接 Redis 所需的配置
type RedisConfig struct {
	Address  string `mapstructure:"address" json:"address" yaml:"address"`    // host:port
	Password string `mapstructure:"password" json:"password" yaml:"password"` // 未设置密码时留空
	DB       int    `mapstructure:"db" json:"db" yaml:"db"`                   // 使用的数据库编号
	PoolSize int    `mapstructure:"pool_size" json:"pool_size" yaml:"pool_size"`
}
