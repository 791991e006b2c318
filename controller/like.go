package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Xushengqwer/go-common/response"
	"github.com/gin-gonic/gin"

	"github.com/Xushengqwer/content_service/models/dto"
	"github.com/Xushengqwer/content_service/models/vo"
	"github.com/Xushengqwer/content_service/myErrors"
	"github.com/Xushengqwer/content_service/service"
)

// LikeController 定义点赞控制器的结构体
type LikeController struct {
	likeService service.LikeService
}

// NewLikeController 构造函数，用于创建 LikeController 实例
func NewLikeController(likeService service.LikeService) *LikeController {
	return &LikeController{
		likeService: likeService,
	}
}

// LikePost 处理点赞帖子的 HTTP 请求
// @Summary      点赞帖子
// @Description  为指定帖子记录一次点赞。重复点赞是幂等操作，不会产生重复记录。首次点赞会同步触发该用户兴趣标签的重算。
// @Tags         likes (点赞)
// @Accept       json
// @Produce      json
// @Param        request body dto.LikeRequest true "点赞请求"
// @Success      200 {object} vo.BaseResponseWrapper "点赞成功"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的请求负载"
// @Failure      404 {object} vo.BaseResponseWrapper "帖子或用户不存在"
// @Failure      500 {object} vo.BaseResponseWrapper "点赞时发生内部服务器错误"
// @Router       /api/v1/content/likes [post]
func (ctrl *LikeController) LikePost(c *gin.Context) {
	var req dto.LikeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "绑定请求数据失败: "+err.Error())
		return
	}

	if err := ctrl.likeService.LikePost(c.Request.Context(), &req); err != nil {
		switch {
		case errors.Is(err, myErrors.ErrPostNotFound):
			response.RespondError(c, http.StatusNotFound, response.ErrCodeClientResourceNotFound, "帖子不存在")
		case errors.Is(err, myErrors.ErrUserNotFound):
			response.RespondError(c, http.StatusNotFound, response.ErrCodeClientResourceNotFound, "用户不存在")
		default:
			response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "点赞失败: "+err.Error())
		}
		return
	}

	response.RespondSuccess[any](c, nil, "点赞成功")
}

// UnlikePost 处理取消点赞的 HTTP 请求
// @Summary      取消点赞
// @Description  移除用户对指定帖子的点赞记录。点赞记录不存在时返回 404。
// @Tags         likes (点赞)
// @Accept       json
// @Produce      json
// @Param        request body dto.LikeRequest true "取消点赞请求"
// @Success      200 {object} vo.BaseResponseWrapper "取消点赞成功"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的请求负载"
// @Failure      404 {object} vo.BaseResponseWrapper "点赞记录不存在"
// @Failure      500 {object} vo.BaseResponseWrapper "取消点赞时发生内部服务器错误"
// @Router       /api/v1/content/likes [delete]
func (ctrl *LikeController) UnlikePost(c *gin.Context) {
	var req dto.LikeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "绑定请求数据失败: "+err.Error())
		return
	}

	if err := ctrl.likeService.UnlikePost(c.Request.Context(), &req); err != nil {
		if errors.Is(err, myErrors.ErrLikeNotFound) {
			response.RespondError(c, http.StatusNotFound, response.ErrCodeClientResourceNotFound, "点赞记录不存在")
		} else {
			response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "取消点赞失败: "+err.Error())
		}
		return
	}

	response.RespondSuccess[any](c, nil, "取消点赞成功")
}

// GetLikesCount 处理获取帖子点赞数的 HTTP 请求
// @Summary      获取帖子点赞数 (公开)
// @Description  返回指定帖子当前的点赞总数。
// @Tags         likes (点赞)
// @Accept       json
// @Produce      json
// @Param        post_id path uint64 true "帖子 ID" Format(uint64)
// @Success      200 {object} vo.LikeCountResponseWrapper "点赞数检索成功"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的帖子 ID 格式"
// @Failure      404 {object} vo.BaseResponseWrapper "帖子不存在"
// @Failure      500 {object} vo.BaseResponseWrapper "检索点赞数时发生内部服务器错误"
// @Router       /api/v1/content/posts/{post_id}/likes/count [get]
func (ctrl *LikeController) GetLikesCount(c *gin.Context) {
	postID, err := strconv.ParseUint(c.Param("post_id"), 10, 64)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的帖子 ID 格式")
		return
	}

	count, err := ctrl.likeService.GetLikesCount(c.Request.Context(), postID)
	if err != nil {
		if errors.Is(err, myErrors.ErrPostNotFound) {
			response.RespondError(c, http.StatusNotFound, response.ErrCodeClientResourceNotFound, "帖子不存在")
		} else {
			response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "检索点赞数失败: "+err.Error())
		}
		return
	}

	response.RespondSuccess(c, &vo.LikeCountVO{PostID: postID, Count: count}, "点赞数检索成功")
}

// RegisterRoutes 注册 LikeController 的路由
func (ctrl *LikeController) RegisterRoutes(group *gin.RouterGroup) {
	likes := group.Group("/likes")
	{
		likes.POST("", ctrl.LikePost)     // POST   /api/v1/content/likes
		likes.DELETE("", ctrl.UnlikePost) // DELETE /api/v1/content/likes
	}
	group.GET("/posts/:post_id/likes/count", ctrl.GetLikesCount) // GET /api/v1/content/posts/:post_id/likes/count
}
