package constant

import "time"

// 浏览防刷 Bloom Filter 的默认参数
const (
	BloomFilterDefaultSize      int64   = 100000 // 单帖预期的独立访问者数量
	BloomFilterDefaultErrorRate float64 = 0.01   // 可接受的误判率，误判只会少计一次浏览
	BloomFilterDefaultHashes    uint    = 7      // 哈希函数数量

	// BloomViewTTL 是防刷窗口：窗口内同一访问者对同一帖子的浏览只计一次
	BloomViewTTL time.Duration = 12 * time.Hour
)
