package xblock_test

import (
	"fmt"

	"github.com/omeyang/xcidr/pkg/xblock"
)

func ExampleBlock_Contains() {
	b := xblock.MustParseBlock("192.168.0.0/16")

	fmt.Println(b.Contains(xblock.MustParseAddress("192.168.10.1")))
	fmt.Println(b.Contains(xblock.MustParseAddress("172.16.0.1")))
	// Output:
	// true
	// false
}

func ExampleParseBlock() {
	// 解析会丢弃掩码以下的置位，得到规范形式
	b, err := xblock.ParseBlock("1.2.3.4/16")
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(b)
	fmt.Println(b.Size())
	// Output:
	// 1.2.0.0/16
	// 65536
}

func ExampleBlockSet_Optimize() {
	set := xblock.MustParseBlockSet([]string{
		"203.0.113.0/24",
		"1.2.3.4/24",
		"1.2.3.4/16",
	})

	for _, b := range set.Optimize() {
		fmt.Println(b)
	}
	// Output:
	// 1.2.0.0/16
	// 203.0.113.0/24
}

func ExampleParseBlockSetLenient() {
	set := xblock.ParseBlockSetLenient([]string{
		"3.14.0.0/16",
		"invalid",
		"dead::beef",
	})

	fmt.Println(len(set))
	for _, b := range set {
		fmt.Println(b)
	}
	// Output:
	// 2
	// 3.14.0.0/16
	// dead::beef/128
}

func ExampleBlock_At() {
	b := xblock.MustParseBlock("10.0.0.0/8")

	// O(1) 随机访问，深偏移也不逐元素步进
	a, _ := b.At(16_000_000)
	fmt.Println(a)
	// Output:
	// 10.244.36.0
}

func ExampleFoldBlock() {
	b := xblock.MustParseBlock("192.168.1.0/30")

	r := xblock.FoldBlock(b, 0, func(n int, a xblock.Address) xblock.Step[int] {
		fmt.Println(a)
		return xblock.Continue(n + 1)
	})
	fmt.Println(r.State, r.Acc)
	// Output:
	// 192.168.1.0
	// 192.168.1.1
	// 192.168.1.2
	// 192.168.1.3
	// done 4
}

func ExampleFoldBlock_suspend() {
	b := xblock.MustParseBlock("10.0.0.0/29")

	step := func(n int, _ xblock.Address) xblock.Step[int] {
		if n == 4 {
			return xblock.Suspend(n)
		}
		return xblock.Continue(n + 1)
	}

	r := xblock.FoldBlock(b, 0, step)
	fmt.Println(r.State)

	// 续延是普通值，稍后从暂停处精确接续
	r2 := r.Cursor.Resume(func(n int, _ xblock.Address) xblock.Step[int] {
		return xblock.Continue(n + 1)
	})
	fmt.Println(r2.State, r2.Acc)
	// Output:
	// suspended
	// done 7
}
