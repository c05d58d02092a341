package xblock

import "errors"

var (
	// ErrInvalidAddress 表示无法解析为 IPv4/IPv6 地址的字符串。
	ErrInvalidAddress = errors.New("xblock: invalid IP address")

	// ErrInvalidMask 表示前缀长度文本非数字或超出 [0, width] 范围。
	ErrInvalidMask = errors.New("xblock: invalid prefix length")

	// ErrInvalidCIDR 表示无法解析的 CIDR 字符串，包装地址或掩码错误
	// 并携带完整的原始输入。
	ErrInvalidCIDR = errors.New("xblock: invalid CIDR")

	// ErrOffsetOutOfRange 表示枚举偏移量超出块的地址数量。
	ErrOffsetOutOfRange = errors.New("xblock: offset out of range")
)
