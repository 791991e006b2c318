package vo

import (
	"github.com/Xushengqwer/content_service/models/entities"
	"github.com/Xushengqwer/content_service/models/enums"
)

// TagVO 定义了标签的响应数据结构
type TagVO struct {
	ID       uint64            `json:"id"`       // 标签ID
	Name     string            `json:"name"`     // 标签名称
	Category enums.TagCategory `json:"category"` // 标签类别 (1=主题, 2=技能, 3=学科)
}

// MapTagsToTagVOs 将标签实体列表转换为响应VO列表。
func MapTagsToTagVOs(tags []*entities.Tag) []*TagVO {
	if len(tags) == 0 {
		return []*TagVO{}
	}
	vos := make([]*TagVO, 0, len(tags))
	for _, tag := range tags {
		if tag == nil {
			continue
		}
		vos = append(vos, &TagVO{
			ID:       tag.ID,
			Name:     tag.Name,
			Category: tag.Category,
		})
	}
	return vos
}
