package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Xushengqwer/go-common/response"
	"github.com/gin-gonic/gin"

	"github.com/Xushengqwer/content_service/models/dto"
	"github.com/Xushengqwer/content_service/myErrors"
	"github.com/Xushengqwer/content_service/service"
)

// UserController 定义用户控制器的结构体
type UserController struct {
	userService service.UserService
}

// NewUserController 构造函数，用于创建 UserController 实例
func NewUserController(userService service.UserService) *UserController {
	return &UserController{
		userService: userService,
	}
}

// CreateUser 处理创建用户的 HTTP 请求，包含可选的头像上传。
// DTO 字段作为独立的表单字段提交。
// @Summary      创建新用户 (独立表单字段及头像)
// @Description  使用提供的资料（作为独立表单字段）和可选的头像文件注册一个新用户。请求体应为 multipart/form-data。登录名全局唯一。
// @Tags         users (用户)
// @Accept       multipart/form-data
// @Produce      json
// @Param        login formData string true "登录名 (全局唯一)" maxLength(64)
// @Param        password formData string true "密码"
// @Param        name formData string true "显示名称" maxLength(100)
// @Param        profile_type formData int false "资料类型 (1:学生, 2:教师)" Enums(1,2) default(1)
// @Param        description formData string false "简介" maxLength(1023)
// @Param        avatar formData file false "头像文件 (可选)"
// @Success      200 {object} vo.UserResponseWrapper "用户创建成功"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的请求负载或文件处理错误"
// @Failure      409 {object} vo.BaseResponseWrapper "登录名已被占用"
// @Failure      500 {object} vo.BaseResponseWrapper "创建用户时发生内部服务器错误"
// @Router       /api/v1/content/users [post]
func (ctrl *UserController) CreateUser(c *gin.Context) {
	if err := c.Request.ParseMultipartForm(32 << 20); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "解析表单数据失败: "+err.Error())
		return
	}

	var req dto.CreateUserRequest
	if err := c.ShouldBind(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "绑定请求数据失败: "+err.Error())
		return
	}

	avatarFile, err := c.FormFile("avatar")
	if err != nil && !errors.Is(err, http.ErrMissingFile) {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "读取头像文件失败: "+err.Error())
		return
	}

	userVO, serviceErr := ctrl.userService.CreateUser(c.Request.Context(), &req, avatarFile)
	if serviceErr != nil {
		if errors.Is(serviceErr, myErrors.ErrLoginTaken) {
			response.RespondError(c, http.StatusConflict, response.ErrCodeClientInvalidInput, "登录名已被占用")
		} else {
			response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "创建用户失败: "+serviceErr.Error())
		}
		return
	}

	response.RespondSuccess(c, userVO, "用户创建成功")
}

// GetUserDetail 处理获取用户详情的 HTTP 请求
// @Summary      获取指定ID的用户详情 (公开)
// @Description  检索用户的详细信息，包含兴趣标签列表、发帖数量和点赞总数。
// @Tags         users (用户)
// @Accept       json
// @Produce      json
// @Param        user_id path uint64 true "用户 ID" Format(uint64)
// @Success      200 {object} vo.UserDetailResponseWrapper "用户详情检索成功"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的用户 ID 格式"
// @Failure      404 {object} vo.BaseResponseWrapper "用户不存在"
// @Failure      500 {object} vo.BaseResponseWrapper "检索用户详情时发生内部服务器错误"
// @Router       /api/v1/content/users/{user_id} [get]
func (ctrl *UserController) GetUserDetail(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的用户 ID 格式")
		return
	}

	detail, err := ctrl.userService.GetUserDetail(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, myErrors.ErrUserNotFound) {
			response.RespondError(c, http.StatusNotFound, response.ErrCodeClientResourceNotFound, "用户不存在")
		} else {
			response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "检索用户详情失败: "+err.Error())
		}
		return
	}

	response.RespondSuccess(c, detail, "用户详情检索成功")
}

// UpdateProfile 处理更新用户基础资料的 HTTP 请求
// @Summary      更新用户基础资料
// @Description  部分更新用户的显示名称或简介。
// @Tags         users (用户)
// @Accept       json
// @Produce      json
// @Param        user_id path uint64 true "用户 ID" Format(uint64)
// @Param        request body dto.UpdateUserProfileRequest true "资料更新请求"
// @Success      200 {object} vo.UserResponseWrapper "资料更新成功"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的用户 ID 或请求负载"
// @Failure      404 {object} vo.BaseResponseWrapper "用户不存在"
// @Failure      500 {object} vo.BaseResponseWrapper "更新资料时发生内部服务器错误"
// @Router       /api/v1/content/users/{user_id}/profile [put]
func (ctrl *UserController) UpdateProfile(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的用户 ID 格式")
		return
	}

	var req dto.UpdateUserProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "绑定请求数据失败: "+err.Error())
		return
	}

	userVO, err := ctrl.userService.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, myErrors.ErrUserNotFound) {
			response.RespondError(c, http.StatusNotFound, response.ErrCodeClientResourceNotFound, "用户不存在")
		} else {
			response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "更新资料失败: "+err.Error())
		}
		return
	}

	response.RespondSuccess(c, userVO, "资料更新成功")
}

// UpdateAvatar 处理更新用户头像的 HTTP 请求
// @Summary      更新用户头像
// @Description  上传新头像并替换旧头像。旧头像对象会在替换成功后异步清理。请求体应为 multipart/form-data。
// @Tags         users (用户)
// @Accept       multipart/form-data
// @Produce      json
// @Param        user_id path uint64 true "用户 ID" Format(uint64)
// @Param        avatar formData file true "新头像文件"
// @Success      200 {object} vo.UserResponseWrapper "头像更新成功"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的用户 ID 或文件处理错误"
// @Failure      404 {object} vo.BaseResponseWrapper "用户不存在"
// @Failure      500 {object} vo.BaseResponseWrapper "更新头像时发生内部服务器错误"
// @Router       /api/v1/content/users/{user_id}/avatar [put]
func (ctrl *UserController) UpdateAvatar(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的用户 ID 格式")
		return
	}

	avatarFile, err := c.FormFile("avatar")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "读取头像文件失败: "+err.Error())
		return
	}

	userVO, err := ctrl.userService.UpdateAvatar(c.Request.Context(), userID, avatarFile)
	if err != nil {
		if errors.Is(err, myErrors.ErrUserNotFound) {
			response.RespondError(c, http.StatusNotFound, response.ErrCodeClientResourceNotFound, "用户不存在")
		} else {
			response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "更新头像失败: "+err.Error())
		}
		return
	}

	response.RespondSuccess(c, userVO, "头像更新成功")
}

// DeleteUser 处理注销用户的 HTTP 请求
// @Summary      注销指定ID的用户
// @Description  软删除用户并清除其点赞记录与偏好标签，头像对象异步清理。该用户已发布的帖子会保留。
// @Tags         users (用户)
// @Accept       json
// @Produce      json
// @Param        user_id path uint64 true "用户 ID" Format(uint64)
// @Success      200 {object} vo.BaseResponseWrapper "用户注销成功"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的用户 ID 格式"
// @Failure      404 {object} vo.BaseResponseWrapper "用户不存在"
// @Failure      500 {object} vo.BaseResponseWrapper "注销用户时发生内部服务器错误"
// @Router       /api/v1/content/users/{user_id} [delete]
func (ctrl *UserController) DeleteUser(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的用户 ID 格式")
		return
	}

	if err := ctrl.userService.DeleteUser(c.Request.Context(), userID); err != nil {
		if errors.Is(err, myErrors.ErrUserNotFound) {
			response.RespondError(c, http.StatusNotFound, response.ErrCodeClientResourceNotFound, "用户不存在")
		} else {
			response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "注销用户失败: "+err.Error())
		}
		return
	}

	response.RespondSuccess[any](c, nil, "用户注销成功")
}

// RegisterRoutes 注册 UserController 的路由
func (ctrl *UserController) RegisterRoutes(group *gin.RouterGroup) {
	users := group.Group("/users")
	{
		users.POST("", ctrl.CreateUser)                    // POST /api/v1/content/users
		users.GET("/:user_id", ctrl.GetUserDetail)         // GET  /api/v1/content/users/:user_id
		users.PUT("/:user_id/profile", ctrl.UpdateProfile) // PUT  /api/v1/content/users/:user_id/profile
		users.PUT("/:user_id/avatar", ctrl.UpdateAvatar)   // PUT  /api/v1/content/users/:user_id/avatar
		users.DELETE("/:user_id", ctrl.DeleteUser)         // DELETE /api/v1/content/users/:user_id
	}
}
