package xacl

import (
	"testing"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	// 验证 Watcher Stop 后监视 goroutine 确实退出。
	// 缓存测试统一使用 TTL=0，避开 golang-lru v2.0.7 中
	// TTL > 0 时无法停止的清理 goroutine。
	goleak.VerifyTestMain(m)
}
