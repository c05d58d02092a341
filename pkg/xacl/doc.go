// Package xacl 提供基于 [xblock] 的配置驱动 IP 访问控制列表。
//
// xacl 从 YAML/JSON 策略文件（或字节数据）加载 allow/deny 两张
// CIDR 列表，在加载时一次性编译并优化为 [xblock.BlockSet]，
// 之后的每次判定只是纯位运算的短路扫描。判定顺序固定：
// deny 表命中即拒绝，allow 表命中即放行，否则采用默认动作。
//
// # 核心功能
//
//   - acl.go: [Policy] 声明式策略与编译后的 [ACL]
//   - config.go: koanf 加载（文件/字节，YAML/JSON，扩展名自动检测）
//   - watch.go: fsnotify 策略文件监视与防抖自动重编译
//   - options.go: 宽松解析、键路径、LRU 缓存、OTel 指标等选项
//
// # 快速示例
//
// 加载策略并判定：
//
//	acl, err := xacl.Load("/etc/app/acl.yaml")
//	if err != nil {
//	    return err
//	}
//	addr := xblock.MustParseAddress("192.168.10.1")
//	if !acl.Allowed(addr) {
//	    // 拒绝
//	}
//
// 策略文件格式：
//
//	acl:
//	  default: deny
//	  allow:
//	    - 10.0.0.0/8
//	    - 192.168.0.0/16
//	  deny:
//	    - 10.1.2.0/24
//
// 监视策略文件变更：
//
//	w, err := xacl.Watch("/etc/app/acl.yaml", func(acl *xacl.ACL, err error) {
//	    if err != nil {
//	        return // 继续使用旧 ACL
//	    }
//	    current.Store(acl)
//	}, nil)
//	if err != nil {
//	    return err
//	}
//	defer w.Stop()
//	w.StartAsync()
//
// # 设计决策
//
//   - ACL 编译后不可变：重载产生全新实例，新旧交接只是一次指针替换，
//     无需加锁
//   - 列表优化（合并被包含的范围、最宽在前排序）在加载时执行一次，
//     判定路径上没有平方级开销
//   - deny 优先于 allow：黑名单语义不会被更宽的白名单条目遮蔽
//   - 判定是地址的纯函数，LRU 缓存（hashicorp/golang-lru expirable）
//     只省去重复扫描，不改变任何判定结果
//   - OTel 指标可选（WithMeterProvider），未启用时零开销
//
// # 错误处理
//
// 预定义错误变量支持 errors.Is 判断：
//
//	_, err := xacl.Load("acl.toml")
//	if errors.Is(err, xacl.ErrUnsupportedFormat) {
//	    // 仅支持 .yaml/.yml/.json
//	}
package xacl
