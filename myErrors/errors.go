package myErrors

import "errors"

// ErrCacheMiss 表示在缓存层未找到对应的键值
var ErrCacheMiss = errors.New("cache: key not found (miss)")

// ErrPostNotFound 表示帖子不存在或已被删除
var ErrPostNotFound = errors.New("post not found")

// ErrUserNotFound 表示用户不存在
var ErrUserNotFound = errors.New("user not found")

// ErrLoginTaken 表示登录名已被其他用户占用
var ErrLoginTaken = errors.New("login already taken")

// ErrParentNotFound 表示评论引用的父级帖子不存在
var ErrParentNotFound = errors.New("parent post not found")

// ErrInvalidPostType 表示帖子类型字段不在允许的枚举范围内
var ErrInvalidPostType = errors.New("invalid post type")

// ErrLikeNotFound 表示点赞记录不存在（取消点赞时目标缺失）
var ErrLikeNotFound = errors.New("like not found")
