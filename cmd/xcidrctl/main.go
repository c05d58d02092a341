// xcidrctl 是 xcidr 的命令行工具，用于检视、化简与枚举 CIDR 块，
// 并基于策略文件做访问控制判定。
//
// 用法:
//
//	xcidrctl <命令> [命令参数]
//
// 命令:
//
//	info <cidr>                      显示块的规范形式与元信息
//	optimize <cidr>...               化简块集合（去冗余、宽前缀优先排序）
//	expand <cidr> [--offset --limit] 枚举块内地址（O(1) 偏移定位）
//	check --config <file> <addr>...  按策略文件判定地址是否放行
//	help                             显示帮助信息
//
// 退出码:
//
//	0: 命令执行成功（check 命令: 所有地址均放行）
//	1: 命令执行失败（check 命令: 存在被拒绝的地址）
//	2: 参数错误（非法 CIDR、缺少必需参数、未知命令等）
//
// 示例:
//
//	xcidrctl info 10.1.2.3/16                       # 规范形式 10.1.0.0/16 及元信息
//	xcidrctl optimize 1.2.3.4/16 1.2.3.4/24         # 输出 1.2.0.0/16
//	xcidrctl expand 10.0.0.0/30                     # 枚举 4 个地址
//	xcidrctl expand 10.0.0.0/8 --offset 16000000 --limit 3
//	xcidrctl check --config acl.yaml 10.1.2.3 8.8.8.8
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
)

// 版本信息（可通过 -ldflags 注入，例如:
//
//	go build -ldflags "-X main.Version=1.0.0 -X main.GitCommit=$(git rev-parse --short HEAD) -X main.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// ）。
var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

func main() {
	os.Exit(run())
}

// createApp 创建 CLI 应用。
func createApp() *cli.Command {
	return &cli.Command{
		Name:           "xcidrctl",
		Usage:          "CIDR 块检视、化简、枚举与 ACL 判定工具",
		Version:        fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildTime),
		Commands:       createCommands(),
		DefaultCommand: "help",
		Authors: []any{
			"XCIDR Team",
		},
		// 设计决策: 禁止 urfave/cli 直接调用 os.Exit，
		// 由 run() 统一处理退出码映射，确保与文档退出码契约一致。
		ExitErrHandler: func(_ context.Context, _ *cli.Command, err error) {
			// ExitCoder 错误（如未知命令）的消息需在此输出，
			// 替代 HandleExitCoder 的默认 os.Exit 行为。
			if _, ok := err.(cli.ExitCoder); ok {
				fmt.Fprintln(os.Stderr, err)
			}
		},
		Description: `xcidrctl 基于 xblock/xacl 库实现，所有操作在整数域上完成，
不物化地址列表，可安全处理覆盖 2^128 个地址的 IPv6 块。

主要命令:
  info <cidr>           规范形式、网络地址、前缀长度、块大小、首末地址
  optimize <cidr>...    去除被覆盖的块，宽前缀优先输出
    --lenient           跳过非法条目而非整体失败
  expand <cidr>         按升序枚举块内地址
    --offset            起始偏移量（O(1) 定位，深偏移无额外开销）
    --limit             最多输出的地址数（默认 256）
  check <addr>...       按策略判定，deny 优先于 allow，未命中走默认动作
    --config, -c        策略文件路径 (.yaml/.yml/.json)
    --lenient           宽松解析策略中的 CIDR 条目`,
	}
}

func run() int {
	app := createApp()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	setupSignalHandler(cancel)

	if err := app.Run(ctx, os.Args); err != nil {
		var exitErr *exitError
		if errors.As(err, &exitErr) {
			return exitErr.code
		}
		var usageErr *usageError
		if errors.As(err, &usageErr) {
			fmt.Fprintf(os.Stderr, "参数错误: %v\n", usageErr)
			return 2
		}
		// CLI 框架产生的参数错误（如未知 flag、未知命令）也返回退出码 2，
		// 与文档契约"参数错误 → 退出码 2"保持一致。
		if isCLIUsageError(err) {
			// ExitErrHandler 或 flag 解析器已向 stderr 输出错误详情，此处仅设置退出码
			return 2
		}
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		return 1
	}

	return 0
}
