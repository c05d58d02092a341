package xacl

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omeyang/xcidr/pkg/xblock"
)

func TestNew_DefaultDeny(t *testing.T) {
	acl, err := New(Policy{
		Allow: []string{"10.0.0.0/8", "192.168.0.0/16"},
	})
	require.NoError(t, err)

	tests := []struct {
		name string
		addr string
		want bool
	}{
		{"allow first block", "10.1.2.3", true},
		{"allow second block", "192.168.10.1", true},
		{"default deny", "8.8.8.8", false},
		{"default deny v6", "2001:db8::1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, acl.Allowed(xblock.MustParseAddress(tt.addr)))
		})
	}
}

func TestNew_DefaultAllow(t *testing.T) {
	acl, err := New(Policy{
		Default: DefaultAllow,
		Deny:    []string{"203.0.113.0/24"},
	})
	require.NoError(t, err)

	assert.False(t, acl.Allowed(xblock.MustParseAddress("203.0.113.7")))
	assert.True(t, acl.Allowed(xblock.MustParseAddress("8.8.8.8")))
	assert.True(t, acl.DefaultAllow())
}

func TestNew_DenyBeforeAllow(t *testing.T) {
	// deny 表优先：即使地址落在更宽的 allow 范围内
	acl, err := New(Policy{
		Allow: []string{"10.0.0.0/8"},
		Deny:  []string{"10.1.2.0/24"},
	})
	require.NoError(t, err)

	assert.True(t, acl.Allowed(xblock.MustParseAddress("10.0.0.1")))
	assert.False(t, acl.Allowed(xblock.MustParseAddress("10.1.2.3")))
}

func TestNew_UnknownDefaultAction(t *testing.T) {
	_, err := New(Policy{Default: "reject"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidPolicy)
	assert.ErrorContains(t, err, "reject")
}

func TestNew_StrictParseFailsOnBadEntry(t *testing.T) {
	_, err := New(Policy{
		Allow: []string{"10.0.0.0/8", "invalid"},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidPolicy)
	assert.ErrorIs(t, err, xblock.ErrInvalidCIDR)
}

func TestNew_LenientParseDropsBadEntry(t *testing.T) {
	acl, err := New(Policy{
		Allow: []string{"10.0.0.0/8", "invalid"},
	}, WithLenientParse())
	require.NoError(t, err)

	require.Len(t, acl.AllowBlocks(), 1)
	assert.True(t, acl.Allowed(xblock.MustParseAddress("10.1.2.3")))
}

func TestNew_CompilesOptimized(t *testing.T) {
	acl, err := New(Policy{
		Allow: []string{"10.1.2.0/24", "10.0.0.0/8", "192.168.0.0/16"},
	})
	require.NoError(t, err)

	// 被包含的 /24 在编译时被并入 /8，最宽范围排在前面
	blocks := acl.AllowBlocks()
	require.Len(t, blocks, 2)
	assert.Equal(t, "10.0.0.0/8", blocks[0].String())
	assert.Equal(t, "192.168.0.0/16", blocks[1].String())
}

func TestACL_Allowed_InvalidAddressDenied(t *testing.T) {
	acl, err := New(Policy{Default: DefaultAllow})
	require.NoError(t, err)

	assert.False(t, acl.Allowed(xblock.Address{}))
}

func TestACL_AllowedString(t *testing.T) {
	acl, err := New(Policy{Allow: []string{"10.0.0.0/8"}})
	require.NoError(t, err)

	allowed, err := acl.AllowedString("10.1.2.3")
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = acl.AllowedString("8.8.8.8")
	require.NoError(t, err)
	assert.False(t, allowed)

	_, err = acl.AllowedString("not-an-ip")
	assert.ErrorIs(t, err, xblock.ErrInvalidAddress)
}

func TestACL_CacheDoesNotChangeDecisions(t *testing.T) {
	policy := Policy{
		Allow: []string{"10.0.0.0/8", "2001:db8::/32"},
		Deny:  []string{"10.1.2.0/24"},
	}

	plain, err := New(policy)
	require.NoError(t, err)
	// TTL 取 0：golang-lru v2.0.7 在 TTL > 0 时启动无法停止的清理
	// goroutine，会触发 goleak；判定一致性与 TTL 无关。
	cached, err := New(policy, WithCache(128, 0))
	require.NoError(t, err)

	probes := []string{"10.0.0.1", "10.1.2.3", "2001:db8::1", "8.8.8.8", "::1"}
	for _, p := range probes {
		addr := xblock.MustParseAddress(p)
		want := plain.Allowed(addr)
		// 两次判定：第二次命中缓存，结果必须一致
		assert.Equal(t, want, cached.Allowed(addr), "first lookup for %s", p)
		assert.Equal(t, want, cached.Allowed(addr), "cached lookup for %s", p)
	}
}

func TestNew_InvalidCacheConfig(t *testing.T) {
	_, err := New(Policy{}, WithCache(-1, time.Minute))
	assert.ErrorIs(t, err, ErrInvalidCache)

	_, err = New(Policy{}, WithCache(10, -time.Second))
	assert.ErrorIs(t, err, ErrInvalidCache)
}

func TestNew_NilOptionIgnored(t *testing.T) {
	acl, err := New(Policy{}, nil)
	require.NoError(t, err)
	assert.NotNil(t, acl)
}

func TestACL_EmptyPolicy(t *testing.T) {
	acl, err := New(Policy{})
	require.NoError(t, err)

	// 空策略 + 默认 deny：一切拒绝
	assert.False(t, acl.Allowed(xblock.MustParseAddress("10.0.0.1")))
	assert.Empty(t, acl.AllowBlocks())
	assert.Empty(t, acl.DenyBlocks())
}
