// Package repositories 阅读记录、卡牌目录和用户资料的存储实现
package repositories

import "errors"

// ErrNotFound 记录不存在或不属于指定用户
var ErrNotFound = errors.New("record not found")
