package domain

import "github.com/pkg/errors"

// 聚合请求的错误分类。任何一个必需分支命中前三类都会使整个请求失败，
// 绝不返回部分聚合结果。
var (
	// ErrNotFound 表示必需的上游记录不存在。
	ErrNotFound = errors.New("required upstream record not found")
	// ErrUpstream 表示某次上游取数在传输或后端层面失败。
	ErrUpstream = errors.New("upstream fetch failed")
	// ErrStorage 表示聚合结果持久化失败。
	ErrStorage = errors.New("aggregate persistence failed")
)
