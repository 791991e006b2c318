package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Xushengqwer/go-common/constants"
	"github.com/Xushengqwer/go-common/response"
	"github.com/gin-gonic/gin"

	"github.com/Xushengqwer/content_service/models/dto"
	"github.com/Xushengqwer/content_service/myErrors"
	"github.com/Xushengqwer/content_service/service"
)

// RecommendController 定义推荐控制器的结构体
type RecommendController struct {
	recommendService service.RecommendService
}

// NewRecommendController 构造函数，用于创建 RecommendController 实例
func NewRecommendController(recommendService service.RecommendService) *RecommendController {
	return &RecommendController{
		recommendService: recommendService,
	}
}

// GetRecommendations 处理获取个性化推荐帖子列表的 HTTP 请求
// @Summary      获取推荐帖子列表
// @Description  基于当前用户的兴趣标签分层检索推荐帖子：标签匹配优先，热门和随机帖子依次补足。排除用户自己的帖子和已点赞的帖子。兴趣标签缺失时会现场重算一次。UserID 从请求上下文中获取。
// @Tags         recommendations (推荐)
// @Accept       json
// @Produce      json
// @Param        offset query int false "偏移量 (作用于合并去重后的最终序列)" Format(int) minimum(0) default(0)
// @Param        limit query int false "数量" Format(int) minimum(1) maximum(50) default(10)
// @Success      200 {object} vo.ListPostsResponseWrapper "推荐列表检索成功"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的查询参数"
// @Failure      401 {object} vo.BaseResponseWrapper "用户未授权或认证失败"
// @Failure      500 {object} vo.BaseResponseWrapper "检索推荐列表时发生内部服务器错误"
// @Router       /api/v1/content/recommendations [get]
func (ctrl *RecommendController) GetRecommendations(c *gin.Context) {
	// 从 gin.Context 中取出网关服务透传下来的 userID
	userIDStr := c.GetString(string(constants.UserIDKey))
	if userIDStr == "" {
		response.RespondError(c, http.StatusUnauthorized, response.ErrCodeClientUnauthorized, "无法获取用户信息 (Context Key Not Found)")
		return
	}
	userID, err := strconv.ParseUint(userIDStr, 10, 64)
	if err != nil {
		response.RespondError(c, http.StatusUnauthorized, response.ErrCodeClientUnauthorized, "无法获取有效的用户 ID (Invalid UserID in Context)")
		return
	}

	var req dto.GetRecommendationsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的查询参数: "+err.Error())
		return
	}

	listVO, err := ctrl.recommendService.GetRecommendations(c.Request.Context(), userID, &req)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "检索推荐列表失败: "+err.Error())
		return
	}

	response.RespondSuccess(c, listVO, "推荐列表检索成功")
}

// GetUserTags 处理获取用户兴趣标签的 HTTP 请求
// @Summary      获取用户兴趣标签 (公开)
// @Description  返回指定用户从点赞历史派生的兴趣标签列表，按亲和度降序排列，最多 10 个。
// @Tags         recommendations (推荐)
// @Accept       json
// @Produce      json
// @Param        user_id path uint64 true "用户 ID" Format(uint64)
// @Success      200 {object} vo.TagListResponseWrapper "兴趣标签检索成功"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的用户 ID 格式"
// @Failure      404 {object} vo.BaseResponseWrapper "用户不存在"
// @Failure      500 {object} vo.BaseResponseWrapper "检索兴趣标签时发生内部服务器错误"
// @Router       /api/v1/content/users/{user_id}/tags [get]
func (ctrl *RecommendController) GetUserTags(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的用户 ID 格式")
		return
	}

	tags, err := ctrl.recommendService.GetUserTags(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, myErrors.ErrUserNotFound) {
			response.RespondError(c, http.StatusNotFound, response.ErrCodeClientResourceNotFound, "用户不存在")
		} else {
			response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "检索兴趣标签失败: "+err.Error())
		}
		return
	}

	response.RespondSuccess(c, tags, "兴趣标签检索成功")
}

// RegisterRoutes 注册 RecommendController 的路由
func (ctrl *RecommendController) RegisterRoutes(group *gin.RouterGroup) {
	group.GET("/recommendations", ctrl.GetRecommendations) // GET /api/v1/content/recommendations
	group.GET("/users/:user_id/tags", ctrl.GetUserTags)    // GET /api/v1/content/users/:user_id/tags
}
