package xacl

import (
	"time"

	"go.opentelemetry.io/otel/metric"
)

// options 内部可选配置。
type options struct {
	lenient       bool
	keyPath       string
	cacheSize     int
	cacheTTL      time.Duration
	meterProvider metric.MeterProvider
}

// Option 定义 ACL 可选配置函数类型。
type Option func(*options)

// defaultKeyPath 策略在配置文件中的默认键路径。
const defaultKeyPath = "acl"

func defaultOptions() *options {
	return &options{
		keyPath: defaultKeyPath,
	}
}

// WithLenientParse 使用宽松批量解析：静默丢弃非法 CIDR 条目，
// 保留幸存者顺序。默认是严格解析，首个非法条目即中止整批。
func WithLenientParse() Option {
	return func(o *options) {
		o.lenient = true
	}
}

// WithKeyPath 设置策略在配置文件中的键路径。
// 默认为 "acl"，例如 YAML 顶层的 acl: 节。
// 传入空字符串表示整个文件即策略本身。
func WithKeyPath(path string) Option {
	return func(o *options) {
		o.keyPath = path
	}
}

// WithCache 启用判定结果的 LRU 缓存。
// size 为最大条目数，ttl 为过期时间（0 表示永不过期）。
// 判定是地址的纯函数，缓存只是省去重复的列表扫描，不改变任何判定。
func WithCache(size int, ttl time.Duration) Option {
	return func(o *options) {
		o.cacheSize = size
		o.cacheTTL = ttl
	}
}

// WithMeterProvider 启用 OTel 指标并设置 MeterProvider。
// 未设置时不产生任何指标开销。
func WithMeterProvider(provider metric.MeterProvider) Option {
	return func(o *options) {
		if provider != nil {
			o.meterProvider = provider
		}
	}
}
