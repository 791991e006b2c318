package dto

// GetRecommendationsRequest 定义了获取推荐帖子列表的请求数据结构
// - Offset/Limit 作用于分层合并去重后的最终序列，而不是每层独立分页
type GetRecommendationsRequest struct {
	Offset int `json:"offset" form:"offset" binding:"omitempty,gte=0"`      // 偏移量，缺省 0
	Limit  int `json:"limit" form:"limit" binding:"omitempty,gt=0,lte=50"` // 数量，缺省 10
}

// GetOffset 返回带缺省值的偏移量。
func (r *GetRecommendationsRequest) GetOffset() int {
	if r.Offset < 0 {
		return 0
	}
	return r.Offset
}

// GetLimit 返回带缺省值的数量。
func (r *GetRecommendationsRequest) GetLimit() int {
	if r.Limit <= 0 {
		return 10
	}
	return r.Limit
}
