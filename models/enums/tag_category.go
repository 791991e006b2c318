package enums

// TagCategory 标签类别。
// 分词服务产出的主题词默认按 TagCategoryTopic 建标签，
// skill/subject 预留给后续的人工或外部来源标签。
type TagCategory int

const (
	// TagCategoryTopic 主题类标签 (默认)
	TagCategoryTopic TagCategory = 1
	// TagCategorySkill 技能类标签
	TagCategorySkill TagCategory = 2
	// TagCategorySubject 学科类标签
	TagCategorySubject TagCategory = 3
)
