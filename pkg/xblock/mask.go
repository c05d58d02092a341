package xblock

import (
	"fmt"
	"strconv"
)

// 预计算掩码表。合法掩码的定义域很小且固定（33 + 129 个取值），
// 启动时构建一次查表即可，热路径上无需重复移位运算。
var (
	v4Masks [33]uint128
	v6Masks [129]uint128
)

func init() {
	for n := 0; n <= 32; n++ {
		v4Masks[n] = u128From32(^uint32(0) << (32 - n))
	}
	for n := 0; n <= 128; n++ {
		v6Masks[n] = v6Mask(n)
	}
}

// v6Mask 计算 n 个前导 1 比特的 128 位掩码。仅用于建表。
func v6Mask(n int) uint128 {
	switch {
	case n == 0:
		return uint128{}
	case n <= 64:
		return uint128{^uint64(0) << (64 - n), 0}
	default:
		return uint128{^uint64(0), ^uint64(0) << (128 - n)}
	}
}

// encodeMask 返回 prefixLen 个前导 1 比特的掩码。
// 仅在 0 <= prefixLen <= v.Width() 时有定义，越界属于调用方编程错误，
// 直接 panic 而非返回可恢复错误。需要全输入域安全的调用方
// 使用 [ParsePrefixLen]。
func encodeMask(v Version, prefixLen int) uint128 {
	switch v {
	case V4:
		if prefixLen < 0 || prefixLen > 32 {
			panic(fmt.Sprintf("xblock: prefix length %d out of range for %s", prefixLen, v))
		}
		return v4Masks[prefixLen]
	case V6:
		if prefixLen < 0 || prefixLen > 128 {
			panic(fmt.Sprintf("xblock: prefix length %d out of range for %s", prefixLen, v))
		}
		return v6Masks[prefixLen]
	default:
		panic("xblock: encodeMask on invalid version")
	}
}

// decodeMask 返回掩码的前导 1 比特数，是 encodeMask 的逆运算。
// 仅对该版本的合法连续掩码有定义（置位数即前缀长度）。
func decodeMask(mask uint128) int {
	return mask.onesCount()
}

// ParsePrefixLen 解析十进制前缀长度字符串并校验其落在 [0, v.Width()] 内。
// 与 encodeMask 不同，本函数对任意字符串输入都是全函数：
// 非法输入返回携带原始 token 和版本的 [ErrInvalidMask]。
func ParsePrefixLen(v Version, s string) (int, error) {
	// strconv.ParseUint 不接受 +/- 前缀和空白，天然是严格解析。
	n, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a valid prefix length", ErrInvalidMask, s)
	}
	if int(n) > v.Width() {
		return 0, fmt.Errorf("%w: %q out of range [0, %d] for %s", ErrInvalidMask, s, v.Width(), v)
	}
	return int(n), nil
}
