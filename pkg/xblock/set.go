package xblock

import (
	"fmt"
	"slices"
)

// BlockSet 是有序的 Block 集合，除元素外没有自身身份：
// 它是派生视图而非长生命周期的有状态对象，所有操作返回新值。
// 原始解析保持输入顺序；[BlockSet.Optimize] 返回按掩码值升序
// （最宽范围在前）排序的新集合。
type BlockSet []Block

// ParseBlockSet 严格批量解析：每个字符串经 [ParseBlock] 解析，
// 首个失败即中止整批并返回包装该失败的错误。
func ParseBlockSet(strs []string) (BlockSet, error) {
	set := make(BlockSet, 0, len(strs))
	for i, s := range strs {
		b, err := ParseBlock(s)
		if err != nil {
			return nil, fmt.Errorf("parse block [%d]: %w", i, err)
		}
		set = append(set, b)
	}
	return set, nil
}

// MustParseBlockSet 与 [ParseBlockSet] 相同，但失败时 panic。
func MustParseBlockSet(strs []string) BlockSet {
	set, err := ParseBlockSet(strs)
	if err != nil {
		panic(err)
	}
	return set
}

// ParseBlockSetLenient 宽松批量解析：逐条独立解析，
// 静默丢弃解析失败的条目，保留幸存者的相对顺序。
// 适合尽力而为的批处理场景。
func ParseBlockSetLenient(strs []string) BlockSet {
	set := make(BlockSet, 0, len(strs))
	for _, s := range strs {
		b, err := ParseBlock(s)
		if err != nil {
			continue
		}
		set = append(set, b)
	}
	return set
}

// Contains 按列表顺序对各块做短路逻辑或，命中即停。
// 这是预编码地址的入口：对同一地址做多次成员测试的调用方
// 必须先编码一次并复用 Address 值——朴素用法里反复重编码
// 未变化的地址是主要开销。
func (s BlockSet) Contains(a Address) bool {
	for _, b := range s {
		if b.Contains(a) {
			return true
		}
	}
	return false
}

// ContainsOctets 是 4 元组的便捷入口，先经 [AddressFromOctets]
// 编码再委托给 [BlockSet.Contains]。
// 热循环中请改用预编码的 Contains。
func (s BlockSet) ContainsOctets(o [4]byte) bool {
	return s.Contains(AddressFromOctets(o))
}

// ContainsGroups 是 8 元组的便捷入口，先经 [AddressFromGroups]
// 编码再委托给 [BlockSet.Contains]。
// 热循环中请改用预编码的 Contains。
func (s BlockSet) ContainsGroups(g [8]uint16) bool {
	return s.Contains(AddressFromGroups(g))
}

// Optimize 返回成员语义完全相同、但条目最少且顺序利于短路
// 查询的新集合。
//
// 算法：不动点迭代——反复扫描当前列表的全部无序对，找到一对
// 存在 Covers 关系的块就用超集替换两者并对缩短后的列表重新
// 扫描，直到一轮完整扫描找不到可合并对为止；随后按掩码值升序
// 稳定排序（更宽的范围统计上更可能命中，应当先探测）。
//
// 每轮合并扫描是块数的平方级，本方法设计为在配置加载时执行
// 一次，而非每个请求执行。
//
// 已知限制：只合并严格包含关系；相邻但不相交、本可拼成一个
// 更宽覆盖范围的两个等宽半区不会被合并——这是文档化行为，
// 不是待修复缺陷。
func (s BlockSet) Optimize() BlockSet {
	merged := slices.Clone(s)

	for {
		again := false
	scan:
		for i := 0; i < len(merged); i++ {
			for j := i + 1; j < len(merged); j++ {
				switch {
				case merged[i].Covers(merged[j]):
					merged = slices.Delete(merged, j, j+1)
					again = true
					break scan
				case merged[j].Covers(merged[i]):
					merged[i] = merged[j]
					merged = slices.Delete(merged, j, j+1)
					again = true
					break scan
				}
			}
		}
		if !again {
			break
		}
	}

	slices.SortStableFunc(merged, func(a, b Block) int {
		return a.mask.cmp(b.mask)
	})
	return merged
}

// Strings 返回集合中每个块的规范 CIDR 文本，保持集合顺序。
func (s BlockSet) Strings() []string {
	out := make([]string, len(s))
	for i, b := range s {
		out[i] = b.String()
	}
	return out
}
