// Package xblock 提供 IP 地址与 CIDR 块的整数编码模型。
//
// xblock 把地址和网络范围表示为"版本标签 + 定宽无符号整数"，
// 成员测试、子网判断都是纯位运算，适合需要反复判断地址是否落在
// 配置范围内的代码（ACL、保留段过滤等），避免元组/字符串比较的开销。
// 文本解析与格式化委托给标准库 [net/netip]。
//
// # 核心功能
//
//   - version.go: IP 版本类型 [Version]（V4 32 位 / V6 128 位）
//   - codec.go: [Address] 值类型，元组/整数/netip/文本互转
//   - mask.go: 前缀长度与连续 1 掩码的预计算查表
//   - block.go: [Block] 网络范围，解析、包含、子网、大小
//   - sequence.go: 惰性枚举协议，O(1) 随机访问与可暂停折叠
//   - set.go: [BlockSet] 批量解析、短路成员测试与列表优化
//   - netipx.go: 与 [go4.org/netipx] 的互操作
//
// # 快速示例
//
// 解析 CIDR 并做成员测试：
//
//	b := xblock.MustParseBlock("192.168.0.0/16")
//	addr := xblock.MustParseAddress("192.168.10.1")
//	fmt.Println(b.Contains(addr))  // true
//
// 批量解析并优化列表：
//
//	set := xblock.MustParseBlockSet([]string{"1.2.3.4/24", "1.2.3.4/16"})
//	opt := set.Optimize()          // 合并为单个 1.2.0.0/16
//	fmt.Println(opt.Contains(addr))
//
// O(1) 随机访问超大范围：
//
//	b := xblock.MustParseBlock("10.0.0.0/8")
//	a, _ := b.At(16_000_000)       // 常数开销，绝不逐元素步进
//
// 可暂停的协作式折叠：
//
//	r := xblock.FoldBlock(b, 0, func(n int, a xblock.Address) xblock.Step[int] {
//	    if n == 1000 {
//	        return xblock.Suspend(n) // 稍后经 r.Cursor.Resume 续接
//	    }
//	    return xblock.Continue(n + 1)
//	})
//
// # 设计决策
//
//   - 版本标签分派：跨版本的 Contains/Covers 一律返回 false，绝不报错
//   - V6 地址值使用内部 128 位整数（hi/lo 两个 uint64），
//     大小计算使用 *big.Int——V6 /0 块有 2^128 个地址，机器字宽会静默截断
//   - 掩码定义域固定且极小（33 + 129 个取值），启动时建表一次，
//     热路径免于重复移位运算
//   - 全部是不可变值类型：每次变换构造新值，无共享可变状态，无锁
//   - [BlockSet.Optimize] 只合并严格包含关系，相邻但不相交的等宽范围
//     不会拼成更宽的覆盖范围（与 [*netipx.IPSet] 的归并语义不同）
//   - 所有可失败解析提供 error 返回与 Must 两种形式，
//     预定义错误变量支持 errors.Is
//
// # IPv6 zone ID 处理
//
// [ParseAddress] 和 [AddressFromAddr] 拒绝携带 IPv6 zone ID 的地址
// （如 "fe80::1%eth0"）：整数模型无法携带 zone 信息，静默丢弃会导致
// 后续匹配偏差（ACL/白名单/黑名单误判）。
//
// # IPv4-mapped IPv6 地址处理
//
// IPv4-mapped IPv6 地址（如 "::ffff:192.168.1.1"）统一归一化为纯 V4，
// [BlockFromPrefix] 对 bits >= 96 的映射前缀同样归一化（bits 减 96），
// bits < 96 时拒绝。这确保集合内的地址族一致，避免匹配偏差。
//
// # 错误处理
//
// 预定义错误变量支持 errors.Is 判断：
//
//	_, err := xblock.ParseBlock("10.0.0.0/99")
//	if errors.Is(err, xblock.ErrInvalidCIDR) {
//	    // CIDR 级错误同时携带完整原始输入
//	}
package xblock
