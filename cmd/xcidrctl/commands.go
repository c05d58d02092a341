package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/big"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/omeyang/xcidr/pkg/xacl"
	"github.com/omeyang/xcidr/pkg/xblock"
)

// defaultExpandLimit expand 命令默认最多输出的地址数。
const defaultExpandLimit = 256

// exitError 表示需要非零退出码但已完成输出的场景。
// 命令内部已完成所有输出，main 只需设置退出码。
type exitError struct {
	code int
}

func (e *exitError) Error() string { return "" }

// usageError 表示参数错误，run() 映射为退出码 2。
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

// isCLIUsageError 判断错误是否为 CLI 框架产生的参数错误
// （未知命令、未知 flag、flag 取值非法等）。
func isCLIUsageError(err error) bool {
	var coder cli.ExitCoder
	if errors.As(err, &coder) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "flag provided but not defined") ||
		strings.Contains(msg, "flag needs an argument") ||
		strings.Contains(msg, "invalid value")
}

// 创建所有子命令。
func createCommands() []*cli.Command {
	return []*cli.Command{
		createInfoCommand(),
		createOptimizeCommand(),
		createExpandCommand(),
		createCheckCommand(),
	}
}

// createInfoCommand 创建 info 子命令。
func createInfoCommand() *cli.Command {
	return &cli.Command{
		Name:      "info",
		Aliases:   []string{"i"},
		Usage:     "显示块的规范形式与元信息",
		ArgsUsage: "<cidr>",
		Action: func(_ context.Context, cmd *cli.Command) error {
			return cmdInfo(cmd.Root().Writer, cmd.Args().Slice())
		},
	}
}

// createOptimizeCommand 创建 optimize 子命令。
func createOptimizeCommand() *cli.Command {
	return &cli.Command{
		Name:      "optimize",
		Aliases:   []string{"o"},
		Usage:     "化简块集合（去冗余、宽前缀优先排序）",
		ArgsUsage: "<cidr>...",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "lenient",
				Usage: "跳过非法条目而非整体失败",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			return cmdOptimize(cmd.Root().Writer, cmd.Args().Slice(), cmd.Bool("lenient"))
		},
	}
}

// createExpandCommand 创建 expand 子命令。
func createExpandCommand() *cli.Command {
	return &cli.Command{
		Name:      "expand",
		Aliases:   []string{"e"},
		Usage:     "按升序枚举块内地址",
		ArgsUsage: "<cidr>",
		Flags: []cli.Flag{
			// 偏移量和上限使用 64 位 flag 类型，与 cmdExpand 的签名一致：
			// 偏移量可能深入数十亿元素的范围，机器字宽不够用。
			&cli.Uint64Flag{
				Name:  "offset",
				Usage: "起始偏移量（O(1) 定位）",
			},
			&cli.Int64Flag{
				Name:  "limit",
				Usage: "最多输出的地址数",
				Value: defaultExpandLimit,
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			return cmdExpand(cmd.Root().Writer, cmd.Args().Slice(), cmd.Uint64("offset"), cmd.Int64("limit"))
		},
	}
}

// createCheckCommand 创建 check 子命令。
func createCheckCommand() *cli.Command {
	return &cli.Command{
		Name:      "check",
		Aliases:   []string{"c"},
		Usage:     "按策略文件判定地址是否放行",
		ArgsUsage: "<addr>...",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "策略文件路径 (.yaml/.yml/.json)",
			},
			&cli.BoolFlag{
				Name:  "lenient",
				Usage: "宽松解析策略中的 CIDR 条目",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			return cmdCheck(cmd.Root().Writer, cmd.String("config"), cmd.Args().Slice(), cmd.Bool("lenient"))
		},
	}
}

// cmdInfo 显示块的规范形式与元信息。
// 输入中网络地址之后的主机位在解析时被清零，输出的是规范形式。
func cmdInfo(w io.Writer, args []string) error {
	if len(args) != 1 {
		return &usageError{msg: "info 命令需要且仅需要一个 CIDR 参数"}
	}

	b, err := xblock.ParseBlock(args[0])
	if err != nil {
		return &usageError{msg: fmt.Sprintf("非法 CIDR %q: %v", args[0], err)}
	}

	fmt.Fprintf(w, "规范形式: %s\n", b)
	fmt.Fprintf(w, "协议版本: %s\n", b.Version())
	fmt.Fprintf(w, "网络地址: %s\n", b.Network())
	fmt.Fprintf(w, "前缀长度: %d\n", b.Bits())
	fmt.Fprintf(w, "块大小:   %s\n", b.Size())
	fmt.Fprintf(w, "首地址:   %s\n", b.First())
	fmt.Fprintf(w, "末地址:   %s\n", b.Last())
	return nil
}

// cmdOptimize 化简块集合并输出结果，每行一个块。
func cmdOptimize(w io.Writer, args []string, lenient bool) error {
	if len(args) == 0 {
		return &usageError{msg: "optimize 命令需要至少一个 CIDR 参数"}
	}

	var set xblock.BlockSet
	if lenient {
		set = xblock.ParseBlockSetLenient(args)
	} else {
		var err error
		set, err = xblock.ParseBlockSet(args)
		if err != nil {
			return &usageError{msg: fmt.Sprintf("解析失败: %v", err)}
		}
	}

	for _, s := range set.Optimize().Strings() {
		fmt.Fprintln(w, s)
	}
	return nil
}

// cmdExpand 枚举块内地址。偏移定位是 O(1) 的，深偏移不需要逐元素步进。
func cmdExpand(w io.Writer, args []string, offset uint64, limit int64) error {
	if len(args) != 1 {
		return &usageError{msg: "expand 命令需要且仅需要一个 CIDR 参数"}
	}
	if limit <= 0 {
		return &usageError{msg: fmt.Sprintf("limit 必须为正数，收到 %d", limit)}
	}

	b, err := xblock.ParseBlock(args[0])
	if err != nil {
		return &usageError{msg: fmt.Sprintf("非法 CIDR %q: %v", args[0], err)}
	}

	// offset + i 可能溢出 uint64，统一走 big.Int 偏移。
	cur := new(big.Int).SetUint64(offset)
	one := big.NewInt(1)
	for i := int64(0); i < limit; i++ {
		addr, err := b.AtBig(cur)
		if errors.Is(err, xblock.ErrOffsetOutOfRange) {
			if i == 0 {
				return fmt.Errorf("偏移量 %d 超出块 %s 的范围（大小 %s）", offset, b, b.Size())
			}
			break // 范围耗尽
		}
		if err != nil {
			return err
		}
		fmt.Fprintln(w, addr)
		cur.Add(cur, one)
	}
	return nil
}

// cmdCheck 按策略文件判定地址是否放行。
// 设计决策: 存在被拒绝的地址时返回非零退出码（通过 exitError），
// 使脚本和 CI 检查能直接以退出码判断结果。
func cmdCheck(w io.Writer, configPath string, args []string, lenient bool) error {
	if configPath == "" {
		return &usageError{msg: "check 命令需要 --config 指定策略文件"}
	}
	if len(args) == 0 {
		return &usageError{msg: "check 命令需要至少一个地址参数"}
	}

	var opts []xacl.Option
	if lenient {
		opts = append(opts, xacl.WithLenientParse())
	}

	acl, err := xacl.Load(configPath, opts...)
	if err != nil {
		return fmt.Errorf("加载策略失败: %w", err)
	}

	denied := 0
	for _, arg := range args {
		allowed, err := acl.AllowedString(arg)
		if err != nil {
			return &usageError{msg: fmt.Sprintf("非法地址 %q: %v", arg, err)}
		}
		verdict := "allow"
		if !allowed {
			verdict = "deny"
			denied++
		}
		fmt.Fprintf(w, "%-5s %s\n", verdict, arg)
	}

	if denied > 0 {
		return &exitError{code: 1}
	}
	return nil
}

// setupSignalHandler 设置信号处理。
// 设计决策: 第一次信号优雅取消，第二次信号强制退出（退出码 130 = 128 + SIGINT）。
func setupSignalHandler(cancel context.CancelFunc) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel() // 第一次信号: 优雅取消

		<-sigCh
		signal.Stop(sigCh) // 回收订阅
		os.Exit(130)       // 第二次信号: 强制退出
	}()
}
