package xacl

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	defaultInstrumentationName = "github.com/omeyang/xcidr/xacl"

	metricLookupTotal = "xacl.lookup.total"
)

// metrics 持有 ACL 的 OTel 计数器。nil 接收者表示指标未启用，
// 所有方法都是空操作。
type metrics struct {
	lookups metric.Int64Counter
}

// newMetrics 从 MeterProvider 构建计数器。
func newMetrics(provider metric.MeterProvider) (*metrics, error) {
	meter := provider.Meter(defaultInstrumentationName)
	lookups, err := meter.Int64Counter(metricLookupTotal,
		metric.WithDescription("Total number of ACL membership lookups"),
	)
	if err != nil {
		return nil, fmt.Errorf("xacl: create lookup counter: %w", err)
	}
	return &metrics{lookups: lookups}, nil
}

// recordLookup 记录一次判定及其来源。
func (m *metrics) recordLookup(allowed, cached bool) {
	if m == nil {
		return
	}
	decision := "deny"
	if allowed {
		decision = "allow"
	}
	m.lookups.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("decision", decision),
		attribute.Bool("cache_hit", cached),
	))
}
