package xblock

import (
	"fmt"

	"go4.org/netipx"
)

// 与 go4.org/netipx 的互操作层：已经围绕 [netipx.IPRange] /
// [*netipx.IPSet] 组织代码的调用方可以在两种表示之间无损转换。
// 注意两者的集合语义不同：IPSet 会合并相邻范围，BlockSet 不会。

// IPRange 返回块对应的 [netipx.IPRange]（起止地址闭区间）。
// 无效块返回零值 IPRange。
func (b Block) IPRange() netipx.IPRange {
	if !b.IsValid() {
		return netipx.IPRange{}
	}
	return netipx.IPRangeFrom(b.First().Addr(), b.Last().Addr())
}

// IPSet 将集合转换为 [*netipx.IPSet]。
// IPSet 是排序合并后的表示，重叠和相邻的块都会被归并，
// 成员语义与原集合一致。
func (s BlockSet) IPSet() (*netipx.IPSet, error) {
	var builder netipx.IPSetBuilder
	for _, b := range s {
		p, ok := b.Prefix()
		if !ok {
			return nil, fmt.Errorf("%w: zero Block in set", ErrInvalidCIDR)
		}
		builder.AddPrefix(p)
	}
	set, err := builder.IPSet()
	if err != nil {
		return nil, fmt.Errorf("build IPSet: %w", err)
	}
	return set, nil
}

// BlockSetFromIPSet 将 [*netipx.IPSet] 转换为 BlockSet。
// IPSet 中的每个范围分解为最少数量的 CIDR 前缀。
// set 为 nil 时返回 nil。
func BlockSetFromIPSet(set *netipx.IPSet) (BlockSet, error) {
	if set == nil {
		return nil, nil
	}
	prefixes := set.Prefixes()
	out := make(BlockSet, 0, len(prefixes))
	for _, p := range prefixes {
		b, err := BlockFromPrefix(p)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}
