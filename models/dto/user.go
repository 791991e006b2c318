package dto

import "github.com/Xushengqwer/content_service/models/enums"

// CreateUserRequest 定义了创建用户的请求数据结构
// - 头像文件作为 multipart/form-data 的文件部分单独上传
type CreateUserRequest struct {
	Login       string            `json:"login" form:"login" binding:"required,max=64"`    // 登录名，必填，全局唯一
	Password    string            `json:"password" form:"password" binding:"required"`     // 密码，必填
	Name        string            `json:"name" form:"name" binding:"required,max=100"`     // 显示名称，必填
	ProfileType enums.ProfileType `json:"profile_type" form:"profile_type" binding:"omitempty"` // 资料类型，缺省 1=学生
	Description string            `json:"description" form:"description" binding:"omitempty,max=1023"` // 简介，可选
}

// UpdateUserProfileRequest 定义了更新用户基础资料的请求数据结构
// - 指针类型区分"未传该字段"和"传了空值"
type UpdateUserProfileRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=100"`         // 新显示名称，可选
	Description *string `json:"description" binding:"omitempty,max=1023"` // 新简介，可选
}
