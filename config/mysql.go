package config

// SourceConfig 是单个数据库源（主库或某个从库）的配置。
type SourceConfig struct {
	DSN string `mapstructure:"dsn" yaml:"dsn"`

	// 每个源可以覆盖共享的连接池设置，指针用于区分"未设置"和"设置为零值"。
	MaxIdleConns    *int `mapstructure:"max_idle_conns,omitempty" yaml:"max_idle_conns,omitempty"`
	MaxOpenConns    *int `mapstructure:"max_open_conns,omitempty" yaml:"max_open_conns,omitempty"`
	ConnMaxLifetime *int `mapstructure:"conn_max_lifetime,omitempty" yaml:"conn_max_lifetime,omitempty"` // 秒
}

// MySQLConfig 描述主库与可选的从库列表。
// Read 为空时不启用读写分离，推荐流等读密集路径直接走主库。
type MySQLConfig struct {
	Write SourceConfig   `mapstructure:"write" yaml:"write"`
	Read  []SourceConfig `mapstructure:"read" yaml:"read"`

	// 共享连接池缺省值，各源未覆盖时生效
	SharedMaxIdleConns    int `mapstructure:"max_idle_conns" yaml:"max_idle_conn"`
	SharedMaxOpenConns    int `mapstructure:"max_open_conn" yaml:"max_open_conn"`
	SharedConnMaxLifetime int `mapstructure:"conn_max_lifetime" yaml:"conn_max_lifetime"` // 秒
}
