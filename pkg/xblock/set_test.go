package xblock

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBlockSet(t *testing.T) {
	set, err := ParseBlockSet([]string{"10.0.0.0/8", "192.168.0.0/16", "dead::beef"})
	require.NoError(t, err)
	require.Len(t, set, 3)
	assert.Equal(t, "10.0.0.0/8", set[0].String())
	assert.Equal(t, "192.168.0.0/16", set[1].String())
	assert.Equal(t, "dead::beef/128", set[2].String())
}

func TestParseBlockSet_FirstFailureAborts(t *testing.T) {
	set, err := ParseBlockSet([]string{"10.0.0.0/8", "invalid", "192.168.0.0/16"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidCIDR)
	assert.ErrorContains(t, err, "invalid")
	assert.Nil(t, set)
}

func TestParseBlockSet_Empty(t *testing.T) {
	set, err := ParseBlockSet(nil)
	require.NoError(t, err)
	assert.Empty(t, set)
}

func TestParseBlockSetLenient(t *testing.T) {
	set := ParseBlockSetLenient([]string{"3.14.0.0/16", "invalid", "dead::beef"})

	// 恰好两个块，保持幸存者的相对顺序，"invalid" 被静默丢弃
	require.Len(t, set, 2)
	assert.Equal(t, "3.14.0.0/16", set[0].String())
	assert.Equal(t, "dead::beef/128", set[1].String())
}

func TestParseBlockSetLenient_AllInvalid(t *testing.T) {
	set := ParseBlockSetLenient([]string{"nope", "10.0.0.0/99", ""})
	assert.Empty(t, set)
}

func TestMustParseBlockSet_Panics(t *testing.T) {
	assert.Panics(t, func() {
		MustParseBlockSet([]string{"10.0.0.0/8", "invalid"})
	})
}

func TestBlockSet_Contains(t *testing.T) {
	set := MustParseBlockSet([]string{"10.0.0.0/8", "192.168.0.0/16", "2001:db8::/32"})

	tests := []struct {
		name string
		addr string
		want bool
	}{
		{"first block", "10.1.2.3", true},
		{"second block", "192.168.42.1", true},
		{"v6 block", "2001:db8::1", true},
		{"no match v4", "172.16.0.1", false},
		{"no match v6", "fe80::1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, set.Contains(MustParseAddress(tt.addr)))
		})
	}
}

func TestBlockSet_Contains_Empty(t *testing.T) {
	assert.False(t, BlockSet{}.Contains(MustParseAddress("10.0.0.1")))
	assert.False(t, BlockSet(nil).Contains(MustParseAddress("10.0.0.1")))
}

func TestBlockSet_ContainsOctets(t *testing.T) {
	set := MustParseBlockSet([]string{"192.168.0.0/16"})

	assert.True(t, set.ContainsOctets([4]byte{192, 168, 10, 1}))
	assert.False(t, set.ContainsOctets([4]byte{172, 16, 0, 1}))
}

func TestBlockSet_ContainsGroups(t *testing.T) {
	set := MustParseBlockSet([]string{"2001:db8::/32"})

	assert.True(t, set.ContainsGroups([8]uint16{0x2001, 0xdb8, 0, 0, 0, 0, 0, 1}))
	assert.False(t, set.ContainsGroups([8]uint16{0xfe80, 0, 0, 0, 0, 0, 0, 1}))
}

func TestBlockSet_Optimize_MergesNested(t *testing.T) {
	set := MustParseBlockSet([]string{"1.2.3.4/16", "1.2.3.4/24"})

	opt := set.Optimize()
	require.Len(t, opt, 1)
	assert.Equal(t, MustParseBlock("1.2.0.0/16"), opt[0])
}

func TestBlockSet_Optimize_SupersetListedSecond(t *testing.T) {
	set := MustParseBlockSet([]string{"1.2.3.0/24", "1.2.0.0/16"})

	opt := set.Optimize()
	require.Len(t, opt, 1)
	assert.Equal(t, MustParseBlock("1.2.0.0/16"), opt[0])
}

func TestBlockSet_Optimize_TransitiveChain(t *testing.T) {
	set := MustParseBlockSet([]string{"10.1.2.0/24", "10.1.0.0/16", "10.0.0.0/8"})

	opt := set.Optimize()
	require.Len(t, opt, 1)
	assert.Equal(t, MustParseBlock("10.0.0.0/8"), opt[0])
}

func TestBlockSet_Optimize_Duplicates(t *testing.T) {
	set := MustParseBlockSet([]string{"10.0.0.0/8", "10.0.0.0/8"})

	opt := set.Optimize()
	require.Len(t, opt, 1)
}

func TestBlockSet_Optimize_WidestFirst(t *testing.T) {
	set := MustParseBlockSet([]string{"203.0.113.0/24", "10.0.0.0/8", "192.168.0.0/16"})

	opt := set.Optimize()
	require.Len(t, opt, 3)
	// 按掩码值升序：更宽的范围（更少的前导 1）排在前面
	assert.Equal(t, "10.0.0.0/8", opt[0].String())
	assert.Equal(t, "192.168.0.0/16", opt[1].String())
	assert.Equal(t, "203.0.113.0/24", opt[2].String())
}

func TestBlockSet_Optimize_AdjacentNotCoalesced(t *testing.T) {
	// 已知限制：两个相邻的等宽半区不会拼成更宽的覆盖范围
	set := MustParseBlockSet([]string{"10.0.0.0/9", "10.128.0.0/9"})

	opt := set.Optimize()
	assert.Len(t, opt, 2)
}

func TestBlockSet_Optimize_PreservesMembership(t *testing.T) {
	set := MustParseBlockSet([]string{
		"10.1.2.0/24",
		"10.0.0.0/8",
		"192.168.1.0/24",
		"192.168.0.0/16",
		"2001:db8:1::/48",
		"2001:db8::/32",
		"203.0.113.7/32",
	})
	opt := set.Optimize()
	require.Less(t, len(opt), len(set))

	probes := []string{
		"10.1.2.3", "10.255.0.1", "192.168.1.1", "192.168.200.200",
		"203.0.113.7", "203.0.113.8", "8.8.8.8",
		"2001:db8::1", "2001:db8:1::1", "2001:db9::1", "::1",
	}
	for _, p := range probes {
		addr := MustParseAddress(p)
		assert.Equal(t, set.Contains(addr), opt.Contains(addr), "membership must be preserved for %s", p)
	}
}

func TestBlockSet_Optimize_Idempotent(t *testing.T) {
	set := MustParseBlockSet([]string{
		"10.1.2.0/24", "10.0.0.0/8", "192.168.0.0/16", "203.0.113.0/24", "2001:db8::/32",
	})

	once := set.Optimize()
	twice := once.Optimize()
	assert.Equal(t, once, twice)
}

func TestBlockSet_Optimize_DoesNotMutateReceiver(t *testing.T) {
	strs := []string{"1.2.3.0/24", "1.2.0.0/16"}
	set := MustParseBlockSet(strs)

	_ = set.Optimize()
	assert.Equal(t, MustParseBlockSet(strs), set)
}

func TestBlockSet_Optimize_Empty(t *testing.T) {
	assert.Empty(t, BlockSet{}.Optimize())
	assert.Empty(t, BlockSet(nil).Optimize())
}

func TestBlockSet_Strings(t *testing.T) {
	set := MustParseBlockSet([]string{"1.2.3.4/16", "dead::beef"})
	assert.Equal(t, []string{"1.2.0.0/16", "dead::beef/128"}, set.Strings())
}
