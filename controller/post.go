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

// PostController 定义帖子控制器的结构体
type PostController struct {
	postService service.PostService // 服务层接口，通过依赖注入传入
}

// NewPostController 构造函数，用于创建 PostController 实例
func NewPostController(postService service.PostService) *PostController {
	return &PostController{
		postService: postService,
	}
}

// CreatePost 处理创建帖子的 HTTP 请求，包含可选的媒体文件上传。
// DTO 字段作为独立的表单字段提交。
// @Summary      创建新帖子 (独立表单字段及媒体文件)
// @Description  使用提供的内容（作为独立表单字段）和可选的媒体文件创建一个新帖子。请求体应为 multipart/form-data。正文会被异步提取主题标签，提取失败不影响帖子创建。
// @Tags         posts (帖子)
// @Accept       multipart/form-data
// @Produce      json
// @Param        content formData string true "帖子正文" maxLength(10000)
// @Param        author_id formData uint64 true "作者ID" Format(uint64)
// @Param        parent_id formData uint64 false "父帖ID (转发时必填)" Format(uint64)
// @Param        type formData int false "帖子类型 (1:帖子, 2:评论, 3:转发)" Enums(1,2,3) default(1)
// @Param        media formData file false "媒体文件 (可选, 单个)"
// @Success      200 {object} vo.PostResponseWrapper "帖子创建成功"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的请求负载或文件处理错误"
// @Failure      404 {object} vo.BaseResponseWrapper "作者或父帖不存在"
// @Failure      500 {object} vo.BaseResponseWrapper "创建帖子时发生内部服务器错误"
// @Router       /api/v1/content/posts [post]
func (ctrl *PostController) CreatePost(c *gin.Context) {
	// 1. 解析 Multipart Form (确保在访问表单数据或文件之前调用)
	// 设置表单解析的最大内存，超出部分会存到临时磁盘文件，例如 32MB
	if err := c.Request.ParseMultipartForm(32 << 20); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "解析表单数据失败: "+err.Error())
		return
	}

	// 2. 绑定 DTO 数据 (来自独立的表单字段)
	var req dto.CreatePostRequest
	if err := c.ShouldBind(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "绑定请求数据失败: "+err.Error())
		return
	}

	// 3. 获取可选的媒体文件部分
	// "media" 是前端 FormData.append("media", file) 时使用的字段名
	mediaFile, err := c.FormFile("media")
	if err != nil && !errors.Is(err, http.ErrMissingFile) {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "读取媒体文件失败: "+err.Error())
		return
	}

	// 4. 调用服务层处理
	postVO, serviceErr := ctrl.postService.CreatePost(c.Request.Context(), &req, mediaFile)
	if serviceErr != nil {
		switch {
		case errors.Is(serviceErr, myErrors.ErrUserNotFound):
			response.RespondError(c, http.StatusNotFound, response.ErrCodeClientResourceNotFound, "作者不存在")
		case errors.Is(serviceErr, myErrors.ErrParentNotFound):
			response.RespondError(c, http.StatusNotFound, response.ErrCodeClientResourceNotFound, "父帖不存在")
		case errors.Is(serviceErr, myErrors.ErrInvalidPostType):
			response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的帖子类型")
		default:
			response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "创建帖子失败: "+serviceErr.Error())
		}
		return
	}

	response.RespondSuccess(c, postVO, "帖子创建成功")
}

// CreateComment 处理创建评论的 HTTP 请求
// @Summary      创建评论
// @Description  为指定的父帖或父评论创建一条评论。评论不参与标签提取与推荐候选。
// @Tags         posts (帖子)
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateCommentRequest true "评论创建请求"
// @Success      200 {object} vo.PostResponseWrapper "评论创建成功"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的请求负载"
// @Failure      404 {object} vo.BaseResponseWrapper "作者或父帖不存在"
// @Failure      500 {object} vo.BaseResponseWrapper "创建评论时发生内部服务器错误"
// @Router       /api/v1/content/comments [post]
func (ctrl *PostController) CreateComment(c *gin.Context) {
	var req dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "绑定请求数据失败: "+err.Error())
		return
	}

	commentVO, err := ctrl.postService.CreateComment(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, myErrors.ErrUserNotFound):
			response.RespondError(c, http.StatusNotFound, response.ErrCodeClientResourceNotFound, "作者不存在")
		case errors.Is(err, myErrors.ErrParentNotFound):
			response.RespondError(c, http.StatusNotFound, response.ErrCodeClientResourceNotFound, "父帖不存在")
		default:
			response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "创建评论失败: "+err.Error())
		}
		return
	}

	response.RespondSuccess(c, commentVO, "评论创建成功")
}

// UpdatePost 处理更新帖子的 HTTP 请求
// @Summary      更新指定ID的帖子
// @Description  部分更新帖子的正文或媒体链接。正文变更会触发主题标签集合的全量重建。
// @Tags         posts (帖子)
// @Accept       json
// @Produce      json
// @Param        post_id path uint64 true "帖子 ID" Format(uint64)
// @Param        request body dto.UpdatePostRequest true "帖子更新请求"
// @Success      200 {object} vo.PostResponseWrapper "帖子更新成功"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的帖子 ID 或请求负载"
// @Failure      404 {object} vo.BaseResponseWrapper "帖子不存在"
// @Failure      500 {object} vo.BaseResponseWrapper "更新帖子时发生内部服务器错误"
// @Router       /api/v1/content/posts/{post_id} [put]
func (ctrl *PostController) UpdatePost(c *gin.Context) {
	postID, err := strconv.ParseUint(c.Param("post_id"), 10, 64)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的帖子 ID 格式")
		return
	}

	var req dto.UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "绑定请求数据失败: "+err.Error())
		return
	}

	postVO, err := ctrl.postService.UpdatePost(c.Request.Context(), postID, &req)
	if err != nil {
		if errors.Is(err, myErrors.ErrPostNotFound) {
			response.RespondError(c, http.StatusNotFound, response.ErrCodeClientResourceNotFound, "帖子不存在")
		} else {
			response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "更新帖子失败: "+err.Error())
		}
		return
	}

	response.RespondSuccess(c, postVO, "帖子更新成功")
}

// DeletePost 处理删除帖子的 HTTP 请求
// @Summary      删除指定ID的帖子
// @Description  软删除一个帖子，并级联清理其全部评论、点赞、标签关联与浏览量计数。
// @Tags         posts (帖子)
// @Accept       json
// @Produce      json
// @Param        post_id path uint64 true "帖子 ID" Format(uint64)
// @Success      200 {object} vo.BaseResponseWrapper "帖子删除成功"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的帖子 ID 格式"
// @Failure      404 {object} vo.BaseResponseWrapper "帖子不存在"
// @Failure      500 {object} vo.BaseResponseWrapper "删除帖子时发生内部服务器错误"
// @Router       /api/v1/content/posts/{post_id} [delete]
func (ctrl *PostController) DeletePost(c *gin.Context) {
	postID, err := strconv.ParseUint(c.Param("post_id"), 10, 64)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的帖子 ID 格式")
		return
	}

	if err := ctrl.postService.DeletePost(c.Request.Context(), postID); err != nil {
		if errors.Is(err, myErrors.ErrPostNotFound) {
			response.RespondError(c, http.StatusNotFound, response.ErrCodeClientResourceNotFound, "帖子不存在")
		} else {
			response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "删除帖子失败: "+err.Error())
		}
		return
	}

	response.RespondSuccess[any](c, nil, "帖子删除成功")
}

// GetPostDetail 处理获取帖子详情的 HTTP 请求
// @Summary      获取指定ID的帖子详情 (公开)
// @Description  检索帖子的详细信息，包含点赞数、主题标签和完整的嵌套评论树。同一访客在去重窗口内的重复访问不会重复累计浏览量。
// @Tags         posts (帖子)
// @Accept       json
// @Produce      json
// @Param        post_id path uint64 true "帖子 ID" Format(uint64)
// @Param        X-User-ID header string false "用户 ID (由网关/中间件注入)"
// @Success      200 {object} vo.PostDetailResponseWrapper "帖子详情检索成功"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的帖子 ID 格式"
// @Failure      404 {object} vo.BaseResponseWrapper "帖子不存在"
// @Failure      500 {object} vo.BaseResponseWrapper "检索帖子详情时发生内部服务器错误"
// @Router       /api/v1/content/posts/{post_id} [get]
func (ctrl *PostController) GetPostDetail(c *gin.Context) {
	postID, err := strconv.ParseUint(c.Param("post_id"), 10, 64)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的帖子 ID 格式")
		return
	}

	// 浏览量去重需要一个访客标识：优先使用网关注入的 UserID，未登录时退化为客户端 IP
	viewerID := c.GetString(string(constants.UserIDKey))
	if viewerID == "" {
		viewerID = c.ClientIP()
	}

	detail, err := ctrl.postService.GetPostDetail(c.Request.Context(), postID, viewerID)
	if err != nil {
		if errors.Is(err, myErrors.ErrPostNotFound) {
			response.RespondError(c, http.StatusNotFound, response.ErrCodeClientResourceNotFound, "帖子不存在")
		} else {
			response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "检索帖子详情失败: "+err.Error())
		}
		return
	}

	response.RespondSuccess(c, detail, "帖子详情检索成功")
}

// ListPosts 处理分页获取顶层帖子列表的 HTTP 请求
// @Summary      获取顶层帖子列表 (公开, 分页)
// @Description  按创建时间倒序分页获取所有顶层帖子（不含评论），并返回总记录数。
// @Tags         posts (帖子)
// @Accept       json
// @Produce      json
// @Param        offset query int false "偏移量" Format(int) minimum(0) default(0)
// @Param        limit query int false "每页数量" Format(int) minimum(1) maximum(100) default(20)
// @Success      200 {object} vo.ListPostsResponseWrapper "帖子列表检索成功"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的查询参数"
// @Failure      500 {object} vo.BaseResponseWrapper "检索帖子列表时发生内部服务器错误"
// @Router       /api/v1/content/posts [get]
func (ctrl *PostController) ListPosts(c *gin.Context) {
	var req dto.ListPostsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的查询参数: "+err.Error())
		return
	}

	listVO, err := ctrl.postService.ListPosts(c.Request.Context(), &req)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "检索帖子列表失败: "+err.Error())
		return
	}

	response.RespondSuccess(c, listVO, "帖子列表检索成功")
}

// ListPostsByAuthor 处理获取指定作者帖子列表的 HTTP 请求
// @Summary      获取指定作者的帖子列表 (公开, 分页)
// @Description  按创建时间倒序分页获取特定作者公开发布的顶层帖子。
// @Tags         posts (帖子)
// @Accept       json
// @Produce      json
// @Param        author_id query uint64 true "作者 ID" Format(uint64)
// @Param        offset query int false "偏移量" Format(int) minimum(0) default(0)
// @Param        limit query int false "每页数量" Format(int) minimum(1) maximum(100) default(20)
// @Success      200 {object} vo.ListPostsResponseWrapper "帖子列表检索成功"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的查询参数"
// @Failure      500 {object} vo.BaseResponseWrapper "检索帖子列表时发生内部服务器错误"
// @Router       /api/v1/content/posts/by-author [get]
func (ctrl *PostController) ListPostsByAuthor(c *gin.Context) {
	authorID, err := strconv.ParseUint(c.Query("author_id"), 10, 64)
	if err != nil || authorID == 0 {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的作者 ID 格式")
		return
	}

	var req dto.ListPostsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的查询参数: "+err.Error())
		return
	}

	listVO, err := ctrl.postService.ListPostsByAuthor(c.Request.Context(), authorID, &req)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "检索帖子列表失败: "+err.Error())
		return
	}

	response.RespondSuccess(c, listVO, "帖子列表检索成功")
}

// ListComments 处理分页获取一级评论的 HTTP 请求
// @Summary      获取指定帖子的一级评论列表 (公开, 分页)
// @Description  按创建时间升序分页获取帖子的直接子评论。嵌套回复请使用帖子详情接口的评论树。
// @Tags         posts (帖子)
// @Accept       json
// @Produce      json
// @Param        post_id path uint64 true "帖子 ID" Format(uint64)
// @Param        offset query int false "偏移量" Format(int) minimum(0) default(0)
// @Param        limit query int false "每页数量" Format(int) minimum(1) maximum(100) default(20)
// @Success      200 {object} vo.ListCommentsResponseWrapper "评论列表检索成功"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的帖子 ID 或查询参数"
// @Failure      404 {object} vo.BaseResponseWrapper "帖子不存在"
// @Failure      500 {object} vo.BaseResponseWrapper "检索评论列表时发生内部服务器错误"
// @Router       /api/v1/content/posts/{post_id}/comments [get]
func (ctrl *PostController) ListComments(c *gin.Context) {
	postID, err := strconv.ParseUint(c.Param("post_id"), 10, 64)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的帖子 ID 格式")
		return
	}

	var req dto.ListPostsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的查询参数: "+err.Error())
		return
	}

	listVO, err := ctrl.postService.ListComments(c.Request.Context(), postID, &req)
	if err != nil {
		if errors.Is(err, myErrors.ErrPostNotFound) {
			response.RespondError(c, http.StatusNotFound, response.ErrCodeClientResourceNotFound, "帖子不存在")
		} else {
			response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "检索评论列表失败: "+err.Error())
		}
		return
	}

	response.RespondSuccess(c, listVO, "评论列表检索成功")
}

// RegisterRoutes 注册 PostController 的路由
func (ctrl *PostController) RegisterRoutes(group *gin.RouterGroup) {
	posts := group.Group("/posts")
	{
		posts.POST("", ctrl.CreatePost)                    // POST   /api/v1/content/posts
		posts.GET("", ctrl.ListPosts)                      // GET    /api/v1/content/posts
		posts.GET("/by-author", ctrl.ListPostsByAuthor)    // GET    /api/v1/content/posts/by-author
		posts.GET("/:post_id", ctrl.GetPostDetail)         // GET    /api/v1/content/posts/:post_id
		posts.GET("/:post_id/comments", ctrl.ListComments) // GET    /api/v1/content/posts/:post_id/comments
		posts.PUT("/:post_id", ctrl.UpdatePost)            // PUT    /api/v1/content/posts/:post_id
		posts.DELETE("/:post_id", ctrl.DeletePost)         // DELETE /api/v1/content/posts/:post_id
	}
	group.POST("/comments", ctrl.CreateComment) // POST /api/v1/content/comments
}
