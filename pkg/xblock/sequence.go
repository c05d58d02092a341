package xblock

import (
	"fmt"
	"iter"
	"math/big"
)

// 本文件实现 Block 的惰性枚举协议：从 network 到 network+size-1 的
// 升序地址序列，从不物化。块可能覆盖多达 2^128 个地址，因此除
// FoldBlock（调用方显式选择全量遍历，且可通过 Halt/Suspend 有界退出）
// 之外，所有操作都必须是 O(1) 的。

// Count 返回块覆盖的地址数量，等同于 [Block.Size]，O(1)。
func (b Block) Count() *big.Int {
	return b.Size()
}

// At 返回块内偏移量为 offset 的地址（network + offset），O(1) 随机访问，
// 绝不逐元素步进——即使 offset 深入数十亿元素的范围也是常数开销。
// offset 超出块大小或块无效时返回 (zero, false)。
// 偏移量可能超过 uint64 的超大 V6 块请使用 [Block.AtBig]。
func (b Block) At(offset uint64) (Address, bool) {
	if !b.IsValid() {
		return Address{}, false
	}
	span := b.lastValue().sub(b.network) // size-1，不会溢出
	if u128From64(offset).cmp(span) > 0 {
		return Address{}, false
	}
	return Address{
		version: b.version,
		value:   b.network.add(u128From64(offset)),
	}, true
}

// AtBig 与 [Block.At] 相同，但偏移量为 *big.Int，覆盖完整的 2^128 域。
// 越界返回 [ErrOffsetOutOfRange]。
func (b Block) AtBig(offset *big.Int) (Address, error) {
	if !b.IsValid() {
		return Address{}, fmt.Errorf("%w: zero Block", ErrInvalidCIDR)
	}
	off, ok := u128FromBig(offset)
	if !ok || off.cmp(b.lastValue().sub(b.network)) > 0 {
		return Address{}, fmt.Errorf("%w: offset %v in %s", ErrOffsetOutOfRange, offset, b)
	}
	return Address{
		version: b.version,
		value:   b.network.add(off),
	}, nil
}

// FoldState 表示一次折叠驱动的终止状态。
type FoldState uint8

const (
	// FoldDone 表示范围耗尽，累加器为最终结果。
	FoldDone FoldState = iota
	// FoldHalted 表示 step 函数主动停止，剩余范围被丢弃。
	FoldHalted
	// FoldSuspended 表示 step 函数暂停，Cursor 持有可恢复的续延。
	FoldSuspended
)

// String 返回状态的可读表示。
func (s FoldState) String() string {
	switch s {
	case FoldDone:
		return "done"
	case FoldHalted:
		return "halted"
	case FoldSuspended:
		return "suspended"
	default:
		return "FoldState(" + fmt.Sprint(uint8(s)) + ")"
	}
}

// stepKind 是 step 函数的三路控制信号种类。
type stepKind uint8

const (
	stepContinue stepKind = iota
	stepHalt
	stepSuspend
)

// Step 是 step 函数返回的三路控制信号，
// 通过 [Continue]、[Halt] 或 [Suspend] 构造。
type Step[T any] struct {
	kind stepKind
	acc  T
}

// Continue 携带新累加器继续折叠，推进到下一个地址。
func Continue[T any](acc T) Step[T] {
	return Step[T]{kind: stepContinue, acc: acc}
}

// Halt 携带最终累加器立即停止，丢弃剩余范围。
func Halt[T any](acc T) Step[T] {
	return Step[T]{kind: stepHalt, acc: acc}
}

// Suspend 携带部分累加器暂停，折叠返回可恢复的 [Cursor]。
func Suspend[T any](acc T) Step[T] {
	return Step[T]{kind: stepSuspend, acc: acc}
}

// StepFunc 对每个地址调用一次，返回三路控制信号。
type StepFunc[T any] func(acc T, addr Address) Step[T]

// Fold 是一次折叠驱动的结果。
// State 为 [FoldSuspended] 时 Cursor 非 nil，持有剩余未访问地址
// 和暂停时的累加器。
type Fold[T any] struct {
	State  FoldState
	Acc    T
	Cursor *Cursor[T]
}

// Cursor 是暂停折叠的续延：一个捕获游标位置、上界和部分累加器的
// 普通小值，不依赖任何语言级协程原语。
// 游标是线性的：可以交给其他 goroutine，但推进是非原子的，
// 绝不能被多个调用方并发 Resume。
type Cursor[T any] struct {
	version   Version
	next      uint128
	last      uint128
	exhausted bool
	acc       T
}

// FoldBlock 对块内每个地址执行协作式单线程归约。
// step 每次返回 [Continue]、[Halt] 或 [Suspend] 之一；
// 剩余地址为零的折叠原样返回累加器并以 [FoldDone] 结束。
// 无效块立即以 FoldDone 返回 init。
func FoldBlock[T any](b Block, init T, step StepFunc[T]) Fold[T] {
	if !b.IsValid() {
		return Fold[T]{State: FoldDone, Acc: init}
	}
	c := &Cursor[T]{
		version: b.version,
		next:    b.network,
		last:    b.lastValue(),
		acc:     init,
	}
	return c.Resume(step)
}

// Resume 从游标当前位置继续折叠，精确接续上次暂停处。
// 已耗尽的游标原样返回累加器并以 [FoldDone] 结束。
func (c *Cursor[T]) Resume(step StepFunc[T]) Fold[T] {
	for !c.exhausted {
		addr := Address{version: c.version, value: c.next}
		s := step(c.acc, addr)
		c.acc = s.acc
		if c.next.cmp(c.last) == 0 {
			c.exhausted = true
		} else {
			c.next = c.next.addOne()
		}
		switch s.kind {
		case stepHalt:
			return Fold[T]{State: FoldHalted, Acc: c.acc}
		case stepSuspend:
			return Fold[T]{State: FoldSuspended, Acc: c.acc, Cursor: c}
		}
	}
	return Fold[T]{State: FoldDone, Acc: c.acc}
}

// Acc 返回游标当前持有的部分累加器。
func (c *Cursor[T]) Acc() T {
	return c.acc
}

// Remaining 返回游标尚未访问的地址数量。
func (c *Cursor[T]) Remaining() *big.Int {
	if c.exhausted {
		return new(big.Int)
	}
	span := c.last.sub(c.next).bigInt()
	return span.Add(span, big.NewInt(1))
}

// All 返回块内全部地址的升序迭代器（range-over-func）。
// 适合 for-range 消费；提前 break 即停止，不产生额外开销。
// 注意块可能覆盖 2^128 个地址，完整遍历是调用方的显式选择。
func (b Block) All() iter.Seq[Address] {
	return func(yield func(Address) bool) {
		if !b.IsValid() {
			return
		}
		next, last := b.network, b.lastValue()
		for {
			if !yield(Address{version: b.version, value: next}) {
				return
			}
			if next.cmp(last) == 0 {
				return
			}
			next = next.addOne()
		}
	}
}
