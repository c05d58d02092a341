package xblock

import (
	"encoding/binary"
	"math/big"
	"math/bits"
)

// uint128 是 128 位无符号整数，hi 为高 64 位，lo 为低 64 位。
// IPv4 地址只使用低 32 位，IPv6 地址使用全部 128 位。
// 值语义、可比较，可直接作为 map key。
type uint128 struct {
	hi uint64
	lo uint64
}

// u128From32 从 IPv4 的 uint32 表示构建 uint128（低 32 位）。
func u128From32(v uint32) uint128 {
	return uint128{0, uint64(v)}
}

// u128From64 从 uint64 构建 uint128。
func u128From64(v uint64) uint128 {
	return uint128{0, v}
}

// u128From16 从 16 字节大端序构建 uint128。
func u128From16(b [16]byte) uint128 {
	return uint128{
		hi: binary.BigEndian.Uint64(b[:8]),
		lo: binary.BigEndian.Uint64(b[8:]),
	}
}

// to16 返回 16 字节大端序表示。
func (u uint128) to16() [16]byte {
	var b [16]byte
	binary.BigEndian.PutUint64(b[:8], u.hi)
	binary.BigEndian.PutUint64(b[8:], u.lo)
	return b
}

// low32 返回低 32 位。
func (u uint128) low32() uint32 {
	return uint32(u.lo & 0xffffffff)
}

func (u uint128) and(v uint128) uint128 {
	return uint128{u.hi & v.hi, u.lo & v.lo}
}

func (u uint128) or(v uint128) uint128 {
	return uint128{u.hi | v.hi, u.lo | v.lo}
}

func (u uint128) not() uint128 {
	return uint128{^u.hi, ^u.lo}
}

// cmp 比较两个 uint128，返回 -1、0 或 1。
func (u uint128) cmp(v uint128) int {
	if u.hi != v.hi {
		if u.hi < v.hi {
			return -1
		}
		return 1
	}
	if u.lo != v.lo {
		if u.lo < v.lo {
			return -1
		}
		return 1
	}
	return 0
}

// add 返回 u+v，溢出时自然回绕（调用方负责边界检查）。
func (u uint128) add(v uint128) uint128 {
	lo, carry := bits.Add64(u.lo, v.lo, 0)
	hi, _ := bits.Add64(u.hi, v.hi, carry)
	return uint128{hi, lo}
}

// sub 返回 u-v，下溢时自然回绕（调用方负责边界检查）。
func (u uint128) sub(v uint128) uint128 {
	lo, borrow := bits.Sub64(u.lo, v.lo, 0)
	hi, _ := bits.Sub64(u.hi, v.hi, borrow)
	return uint128{hi, lo}
}

// addOne 返回 u+1。
func (u uint128) addOne() uint128 {
	lo, carry := bits.Add64(u.lo, 1, 0)
	return uint128{u.hi + carry, lo}
}

// onesCount 返回置位比特数。
func (u uint128) onesCount() int {
	return bits.OnesCount64(u.hi) + bits.OnesCount64(u.lo)
}

// bigInt 返回等值的 *big.Int。
func (u uint128) bigInt() *big.Int {
	b := u.to16()
	return new(big.Int).SetBytes(b[:])
}

// u128FromBig 从 *big.Int 构建 uint128。
// v 为 nil、负数或超过 128 位时返回 (zero, false)。
func u128FromBig(v *big.Int) (uint128, bool) {
	if v == nil || v.Sign() < 0 || v.BitLen() > 128 {
		return uint128{}, false
	}
	var b [16]byte
	vBytes := v.Bytes()
	copy(b[16-len(vBytes):], vBytes)
	return u128From16(b), true
}
