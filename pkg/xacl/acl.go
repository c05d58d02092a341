package xacl

import (
	"fmt"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/omeyang/xcidr/pkg/xblock"
)

// 默认动作的合法取值。
const (
	DefaultDeny  = "deny"
	DefaultAllow = "allow"
)

// Policy 是 ACL 的声明式策略，按 koanf 标签从 YAML/JSON 反序列化。
//
//	acl:
//	  default: deny
//	  allow:
//	    - 10.0.0.0/8
//	  deny:
//	    - 10.1.2.0/24
type Policy struct {
	// Default 是 deny/allow 两张表都未命中时的动作，
	// "deny" 或 "allow"，留空等同于 "deny"。
	Default string `koanf:"default" json:"default" yaml:"default"`

	// Allow 是放行范围的 CIDR 列表。
	Allow []string `koanf:"allow" json:"allow" yaml:"allow"`

	// Deny 是拒绝范围的 CIDR 列表，优先于 Allow 检查。
	Deny []string `koanf:"deny" json:"deny" yaml:"deny"`
}

// ACL 是编译后的访问控制列表：deny 表优先，其次 allow 表，
// 都未命中时采用默认动作。两张表在编译时各自经过
// [xblock.BlockSet.Optimize]——优化器设计为在配置加载时执行一次，
// 而非每个请求执行。
// 编译后不可变，除可选缓存外无共享可变状态，可被任意并发使用。
type ACL struct {
	allow        xblock.BlockSet
	deny         xblock.BlockSet
	defaultAllow bool

	cache *expirable.LRU[xblock.Address, bool]
	stats *metrics
}

// New 把策略编译为 ACL。
// 默认严格解析（首个非法 CIDR 即失败并包装为 [ErrInvalidPolicy]），
// [WithLenientParse] 可切换为静默丢弃非法条目。
func New(p Policy, opts ...Option) (*ACL, error) {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}

	var defaultAllow bool
	switch p.Default {
	case "", DefaultDeny:
		defaultAllow = false
	case DefaultAllow:
		defaultAllow = true
	default:
		return nil, fmt.Errorf("%w: unknown default action %q", ErrInvalidPolicy, p.Default)
	}

	allow, err := compile(p.Allow, o.lenient)
	if err != nil {
		return nil, fmt.Errorf("%w: allow list: %w", ErrInvalidPolicy, err)
	}
	deny, err := compile(p.Deny, o.lenient)
	if err != nil {
		return nil, fmt.Errorf("%w: deny list: %w", ErrInvalidPolicy, err)
	}

	a := &ACL{
		allow:        allow,
		deny:         deny,
		defaultAllow: defaultAllow,
	}

	if o.cacheSize != 0 {
		if o.cacheSize < 0 || o.cacheTTL < 0 {
			return nil, fmt.Errorf("%w: size=%d ttl=%v", ErrInvalidCache, o.cacheSize, o.cacheTTL)
		}
		a.cache = expirable.NewLRU[xblock.Address, bool](o.cacheSize, nil, o.cacheTTL)
	}

	if o.meterProvider != nil {
		stats, err := newMetrics(o.meterProvider)
		if err != nil {
			return nil, err
		}
		a.stats = stats
	}

	return a, nil
}

// compile 解析并优化一张 CIDR 列表。
func compile(strs []string, lenient bool) (xblock.BlockSet, error) {
	if lenient {
		return xblock.ParseBlockSetLenient(strs).Optimize(), nil
	}
	set, err := xblock.ParseBlockSet(strs)
	if err != nil {
		return nil, err
	}
	return set.Optimize(), nil
}

// Allowed 判定地址是否放行：deny 表命中即拒绝，allow 表命中即放行，
// 否则采用默认动作。无效地址一律拒绝。
// 这是预编码地址的热路径入口：对同一地址反复判定的调用方应当
// 编码一次并复用 [xblock.Address] 值。
func (a *ACL) Allowed(addr xblock.Address) bool {
	if !addr.IsValid() {
		return false
	}

	if a.cache != nil {
		if allowed, ok := a.cache.Get(addr); ok {
			a.stats.recordLookup(allowed, true)
			return allowed
		}
	}

	allowed := a.decide(addr)

	if a.cache != nil {
		a.cache.Add(addr, allowed)
	}
	a.stats.recordLookup(allowed, false)
	return allowed
}

// decide 是无缓存的裸判定。
func (a *ACL) decide(addr xblock.Address) bool {
	if a.deny.Contains(addr) {
		return false
	}
	if a.allow.Contains(addr) {
		return true
	}
	return a.defaultAllow
}

// AllowedString 解析地址文本后判定。
// 解析失败返回错误；需要高频判定的调用方请预先解析并使用 [ACL.Allowed]。
func (a *ACL) AllowedString(s string) (bool, error) {
	addr, err := xblock.ParseAddress(s)
	if err != nil {
		return false, err
	}
	return a.Allowed(addr), nil
}

// AllowBlocks 返回编译后的放行表（优化后的副本顺序，调用方不得修改）。
func (a *ACL) AllowBlocks() xblock.BlockSet {
	return a.allow
}

// DenyBlocks 返回编译后的拒绝表。
func (a *ACL) DenyBlocks() xblock.BlockSet {
	return a.deny
}

// DefaultAllow 报告两张表都未命中时是否放行。
func (a *ACL) DefaultAllow() bool {
	return a.defaultAllow
}
