package xblock

// Version 表示 IP 协议版本（地址族）。
type Version uint8

const (
	// V0 表示无效或未知的 IP 版本。
	V0 Version = 0
	// V4 表示 IPv4（32 位地址）。
	V4 Version = 4
	// V6 表示 IPv6（128 位地址）。
	V6 Version = 6
)

// String 返回版本的字符串表示。
func (v Version) String() string {
	switch v {
	case V4:
		return "IPv4"
	case V6:
		return "IPv6"
	default:
		return "unknown"
	}
}

// Width 返回该版本地址的比特宽度。
// V4 返回 32，V6 返回 128，无效版本返回 0。
func (v Version) Width() int {
	switch v {
	case V4:
		return 32
	case V6:
		return 128
	default:
		return 0
	}
}

// familyMask 返回该版本地址空间的全 1 掩码。
// 对 V4 只有低 32 位有效，按位取反后需与其相与以避免高位垃圾。
func familyMask(v Version) uint128 {
	switch v {
	case V4:
		return uint128{0, 0xffffffff}
	case V6:
		return uint128{^uint64(0), ^uint64(0)}
	default:
		return uint128{}
	}
}
