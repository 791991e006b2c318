package entities

import (
	"github.com/Xushengqwer/go-common/models/entities"

	"github.com/Xushengqwer/content_service/models/enums"
)

// Tag 标签实体
// - 使用场景: 分词服务产出的主题词在首次出现时惰性建档，之后被帖子和用户共享引用
// - 表名: tags
// - 标签只增不删，名称全局唯一
type Tag struct {
	entities.BaseModel

	// 标签名称，全局唯一
	// - 类型: varchar(191)，utf8mb4 下保证唯一索引长度不超限
	// - 按分词服务返回的词面做精确匹配查找
	Name string `gorm:"type:varchar(191);not null;uniqueIndex"`

	// 标签类别，枚举：1=主题, 2=技能, 3=学科
	// - 分词产出的标签默认为主题类
	Category enums.TagCategory `gorm:"type:int;not null;default:1"`
}
