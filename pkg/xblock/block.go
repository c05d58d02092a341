package xblock

import (
	"fmt"
	"math/big"
	"net/netip"
	"strconv"
	"strings"
)

// Block 是一个网络范围：版本标签 + 规范网络地址 + 连续 1 掩码。
// 不变量：mask 是前缀全 1 后缀全 0 的连续位型；network 在 mask 外
// 的比特全部为 0（network == network & mask），即结构体始终存储范围的
// 规范起始地址而非任意成员。
// 不可变值类型，可比较，相等即结构相等。零值无效。
type Block struct {
	version Version
	network uint128
	mask    uint128
}

// ParseBlock 解析 CIDR 字符串 "<address>[/<prefixLength>]"。
// 省略前缀长度时默认为地址族全宽（V4 为 32，V6 为 128）。
// 地址中掩码以下的置位会被丢弃，因此 parse→String round-trip
// 总是得到尾比特清零的规范形式。
// 任一子解析失败都包装为携带完整原始输入的 [ErrInvalidCIDR]。
func ParseBlock(s string) (Block, error) {
	addrPart := s
	maskPart := ""
	hasMask := false
	if idx := strings.Index(s, "/"); idx >= 0 {
		addrPart = s[:idx]
		maskPart = s[idx+1:]
		hasMask = true
	}

	addr, err := ParseAddress(addrPart)
	if err != nil {
		return Block{}, fmt.Errorf("%w: %q: %w", ErrInvalidCIDR, s, err)
	}

	prefixLen := addr.version.Width()
	if hasMask {
		prefixLen, err = ParsePrefixLen(addr.version, maskPart)
		if err != nil {
			return Block{}, fmt.Errorf("%w: %q: %w", ErrInvalidCIDR, s, err)
		}
	}

	mask := encodeMask(addr.version, prefixLen)
	return Block{
		version: addr.version,
		network: addr.value.and(mask),
		mask:    mask,
	}, nil
}

// MustParseBlock 与 [ParseBlock] 相同，但失败时 panic。
func MustParseBlock(s string) Block {
	b, err := ParseBlock(s)
	if err != nil {
		panic(err)
	}
	return b
}

// BlockFrom 从地址和前缀长度构建 Block，地址会按掩码规范化。
// prefixLen 越界或地址无效时返回错误。
func BlockFrom(addr Address, prefixLen int) (Block, error) {
	if !addr.IsValid() {
		return Block{}, fmt.Errorf("%w: invalid address", ErrInvalidCIDR)
	}
	if prefixLen < 0 || prefixLen > addr.version.Width() {
		return Block{}, fmt.Errorf("%w: %q out of range [0, %d] for %s",
			ErrInvalidMask, strconv.Itoa(prefixLen), addr.version.Width(), addr.version)
	}
	mask := encodeMask(addr.version, prefixLen)
	return Block{
		version: addr.version,
		network: addr.value.and(mask),
		mask:    mask,
	}, nil
}

// Version 返回块的 IP 版本。
func (b Block) Version() Version {
	return b.version
}

// IsValid 报告块是否有效。零值 Block 无效。
func (b Block) IsValid() bool {
	return b.version == V4 || b.version == V6
}

// Network 返回规范网络地址（范围起始地址）。
func (b Block) Network() Address {
	return Address{version: b.version, value: b.network}
}

// Bits 返回前缀长度（掩码的前导 1 比特数）。
func (b Block) Bits() int {
	return decodeMask(b.mask)
}

// Contains 报告地址是否落在块内：
// 版本相同且 (value & mask) == network。
// 跨版本比较恒为 false，绝不报错。
func (b Block) Contains(a Address) bool {
	return a.version == b.version && a.value.and(b.mask).cmp(b.network) == 0
}

// Covers 报告 b 的范围是否完整包含 o 的范围（子网关系）。
// 前提条件是版本相同且 b.mask <= o.mask（数值上更小的掩码覆盖更宽
// 的范围）；满足时只要 o 的起始地址落在 b 的掩码范围内，o 覆盖的
// 每个地址都被 b 覆盖——o 的范围不会跨越 b 的边界。
// 自反（Covers(b,b) 恒真），一般不对称。
func (b Block) Covers(o Block) bool {
	return b.version == o.version &&
		b.mask.cmp(o.mask) <= 0 &&
		o.network.and(b.mask).cmp(b.network) == 0
}

// lastValue 返回块内最后一个地址的整数值（network | ^mask，
// 限制在地址族宽度内）。
func (b Block) lastValue() uint128 {
	return b.network.or(b.mask.not().and(familyMask(b.version)))
}

// First 返回块内第一个地址，等同于 [Block.Network]。
func (b Block) First() Address {
	return b.Network()
}

// Last 返回块内最后一个地址。
func (b Block) Last() Address {
	return Address{version: b.version, value: b.lastValue()}
}

// Size 返回块覆盖的地址数量，即 2^(width - prefixLen)。
// 结果使用 *big.Int：V6 的 /0 块有 2^128 个地址，任何机器字宽
// 都会静默截断，这是正确性问题而非性能取舍。
// 无效块返回 0。
func (b Block) Size() *big.Int {
	if !b.IsValid() {
		return new(big.Int)
	}
	hostBits := b.version.Width() - b.Bits()
	return new(big.Int).Lsh(big.NewInt(1), uint(hostBits))
}

// String 返回规范 CIDR 文本："网络地址/前缀长度"。
// 无效块返回空字符串。
func (b Block) String() string {
	if !b.IsValid() {
		return ""
	}
	return b.Network().String() + "/" + strconv.Itoa(b.Bits())
}

// MarshalText 实现 [encoding.TextMarshaler]，输出与 String 相同。
// 无效块返回错误。
func (b Block) MarshalText() ([]byte, error) {
	if !b.IsValid() {
		return nil, fmt.Errorf("%w: zero Block", ErrInvalidCIDR)
	}
	return []byte(b.String()), nil
}

// UnmarshalText 实现 [encoding.TextUnmarshaler]，接受 [ParseBlock]
// 的全部输入形式。
func (b *Block) UnmarshalText(text []byte) error {
	parsed, err := ParseBlock(string(text))
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

// Prefix 返回等价的 [netip.Prefix]。
// 无效块返回 (zero, false)。
func (b Block) Prefix() (netip.Prefix, bool) {
	if !b.IsValid() {
		return netip.Prefix{}, false
	}
	return netip.PrefixFrom(b.Network().Addr(), b.Bits()), true
}

// BlockFromPrefix 从 [netip.Prefix] 构建 Block。
// IPv4-mapped IPv6 前缀在 bits >= 96 时归一化为纯 V4（bits 减去 96），
// bits < 96 时拒绝——此类前缀无法用单一地址族表达。
func BlockFromPrefix(p netip.Prefix) (Block, error) {
	if !p.IsValid() {
		return Block{}, fmt.Errorf("%w: invalid prefix %q", ErrInvalidCIDR, p.String())
	}
	addr := p.Addr()
	bits := p.Bits()
	if addr.Is4In6() {
		if bits < 96 {
			return Block{}, fmt.Errorf("%w: IPv4-mapped prefix %q narrower than /96", ErrInvalidCIDR, p.String())
		}
		addr = addr.Unmap()
		bits -= 96
	}
	a, err := AddressFromAddr(addr)
	if err != nil {
		return Block{}, fmt.Errorf("%w: %q: %w", ErrInvalidCIDR, p.String(), err)
	}
	return BlockFrom(a, bits)
}
