package xacl

import "errors"

// 策略加载和编译相关错误。
var (
	// ErrEmptyPath 表示策略文件路径为空。
	ErrEmptyPath = errors.New("xacl: empty policy path")

	// ErrUnsupportedFormat 表示不支持的策略文件格式。
	ErrUnsupportedFormat = errors.New("xacl: unsupported policy format")

	// ErrLoadFailed 表示策略文件读取失败。
	ErrLoadFailed = errors.New("xacl: failed to load policy")

	// ErrParseFailed 表示策略文件解析失败。
	ErrParseFailed = errors.New("xacl: failed to parse policy")

	// ErrInvalidPolicy 表示策略内容非法（未知默认动作或非法 CIDR 条目）。
	ErrInvalidPolicy = errors.New("xacl: invalid policy")

	// ErrInvalidCache 表示缓存配置非法。
	ErrInvalidCache = errors.New("xacl: invalid cache config")
)
