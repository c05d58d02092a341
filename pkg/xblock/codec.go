package xblock

import (
	"encoding/binary"
	"fmt"
	"math/big"
	"net/netip"
	"strings"
)

// Address 是整数编码的 IP 地址：版本标签 + 定宽无符号整数值。
// V4 地址使用低 32 位，V6 地址使用全部 128 位。
// 不可变值类型，可比较，可作为 map key。零值无效。
type Address struct {
	version Version
	value   uint128
}

// AddressFromOctets 从 4 元组（每元素 0–255）大端序打包为 V4 地址。
// 元组自身的元素宽度即是全部校验，无需返回错误。
func AddressFromOctets(o [4]byte) Address {
	return Address{
		version: V4,
		value:   u128From32(binary.BigEndian.Uint32(o[:])),
	}
}

// AddressFromGroups 从 8 元组（每元素 0–65535）大端序打包为 V6 地址。
func AddressFromGroups(g [8]uint16) Address {
	var b [16]byte
	for i, v := range g {
		binary.BigEndian.PutUint16(b[i*2:], v)
	}
	return Address{
		version: V6,
		value:   u128From16(b),
	}
}

// AddressFromAddr 从 [netip.Addr] 构建 Address。
// IPv4-mapped IPv6 地址（如 ::ffff:192.168.1.1）归一化为 V4。
// 带 IPv6 zone ID 或无效的地址返回错误：整数模型无法携带 zone 信息，
// 静默丢弃会导致后续匹配偏差。
func AddressFromAddr(addr netip.Addr) (Address, error) {
	if !addr.IsValid() {
		return Address{}, fmt.Errorf("%w: zero netip.Addr", ErrInvalidAddress)
	}
	if addr.Zone() != "" {
		return Address{}, fmt.Errorf("%w: IPv6 zone ID is not supported: %s", ErrInvalidAddress, addr)
	}
	if addr.Is4() || addr.Is4In6() {
		o := addr.Unmap().As4()
		return AddressFromOctets(o), nil
	}
	return Address{
		version: V6,
		value:   u128From16(addr.As16()),
	}, nil
}

// ParseAddress 解析点分十进制（V4）或冒号十六进制（V6）地址字符串。
// 文本编解码委托给标准库 [net/netip]。
// 解析失败时返回包装原始字符串的 [ErrInvalidAddress]。
func ParseAddress(s string) (Address, error) {
	// 在 IP 地址字符串中 '%' 仅用作 zone 分隔符，先行拒绝，
	// 与 AddressFromAddr 的 zone 检查保持同一语义。
	if strings.Contains(s, "%") {
		return Address{}, fmt.Errorf("%w: IPv6 zone ID is not supported: %q", ErrInvalidAddress, s)
	}
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return Address{}, fmt.Errorf("%w: %q", ErrInvalidAddress, s)
	}
	return AddressFromAddr(addr)
}

// MustParseAddress 与 [ParseAddress] 相同，但失败时 panic。
// 适用于测试和静态已知合法的字面量。
func MustParseAddress(s string) Address {
	a, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return a
}

// Version 返回地址的 IP 版本。
func (a Address) Version() Version {
	return a.version
}

// IsValid 报告地址是否有效（版本为 V4 或 V6）。
// 零值 Address 无效。
func (a Address) IsValid() bool {
	return a.version == V4 || a.version == V6
}

// Octets 返回 V4 地址的 4 元组表示（decode 的 V4 分支）。
// 非 V4 地址返回 (zero, false)。
func (a Address) Octets() ([4]byte, bool) {
	if a.version != V4 {
		return [4]byte{}, false
	}
	var o [4]byte
	binary.BigEndian.PutUint32(o[:], a.value.low32())
	return o, true
}

// Groups 返回 V6 地址的 8 元组表示（decode 的 V6 分支）。
// 非 V6 地址返回 (zero, false)。
func (a Address) Groups() ([8]uint16, bool) {
	if a.version != V6 {
		return [8]uint16{}, false
	}
	b := a.value.to16()
	var g [8]uint16
	for i := range g {
		g[i] = binary.BigEndian.Uint16(b[i*2:])
	}
	return g, true
}

// Uint32 返回 V4 地址的 uint32 表示（网络字节序）。
// 非 V4 地址返回 (0, false)。
func (a Address) Uint32() (uint32, bool) {
	if a.version != V4 {
		return 0, false
	}
	return a.value.low32(), true
}

// BigInt 返回地址的 *big.Int 表示。
// 无效地址返回零值 big.Int（便于链式调用）。
func (a Address) BigInt() *big.Int {
	if !a.IsValid() {
		return new(big.Int)
	}
	return a.value.bigInt()
}

// Addr 返回等价的 [netip.Addr]。
// 无效地址返回零值 netip.Addr。
func (a Address) Addr() netip.Addr {
	switch a.version {
	case V4:
		o, _ := a.Octets()
		return netip.AddrFrom4(o)
	case V6:
		return netip.AddrFrom16(a.value.to16())
	default:
		return netip.Addr{}
	}
}

// String 返回标准文本表示，经由 [net/netip] 格式化。
// 无效地址返回空字符串。
func (a Address) String() string {
	if !a.IsValid() {
		return ""
	}
	return a.Addr().String()
}

// Compare 按 (版本, 值) 排序比较两个地址，返回 -1、0 或 1。
// V4 排在 V6 之前。
func (a Address) Compare(b Address) int {
	if a.version != b.version {
		if a.version < b.version {
			return -1
		}
		return 1
	}
	return a.value.cmp(b.value)
}
