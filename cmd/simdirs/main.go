package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/John-Robertt/simdirs/internal/logging"
)

// version 由 -ldflags "-X main.version=..." 注入。
var version = "dev"

// cli 汇总命令执行所需的外部依赖（便于测试注入）。
type cli struct {
	stdout io.Writer
	stderr io.Writer

	// stdoutTTY=false 时 stdout 只输出一个 JSON。
	stdoutTTY bool
	// progress 为 nil 表示不输出进度。
	progress io.Writer

	getwd func() (string, error)
}

// exitError 携带进程退出码；msg 为空表示已经输出过，不再重复打印。
type exitError struct {
	code int
	msg  string
}

func (e *exitError) Error() string { return e.msg }

func main() {
	progressW, interactive := pickProgressWriter()
	c := &cli{
		stdout:    os.Stdout,
		stderr:    os.Stderr,
		stdoutTTY: isTTY(os.Stdout),
		getwd:     os.Getwd,
	}
	if interactive {
		c.progress = progressW
	}
	os.Exit(c.execute(os.Args[1:]))
}

func (c *cli) execute(args []string) int {
	root := c.newRootCmd()
	root.SetArgs(args)
	root.SetOut(c.stdout)
	root.SetErr(c.stderr)

	err := root.Execute()
	if err == nil {
		return 0
	}
	var ee *exitError
	if errors.As(err, &ee) {
		if ee.msg != "" {
			fmt.Fprintln(c.stderr, ee.msg)
		}
		return ee.code
	}
	// cobra 自身的参数错误（未知 flag、参数个数不对等）。
	fmt.Fprintf(c.stderr, "参数错误：%v\n", err)
	return 2
}

func (c *cli) newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "simdirs",
		Short: "浏览 iOS 模拟器中已安装 app 的 bundle / sandbox 目录",
		Long: `simdirs 读取 CoreSimulator 设备目录下的 launch map 与 application state，
为每个 app 定位 .app bundle 与数据容器，并解析 Info.plist 与图标。

示例：
  simdirs scan
  simdirs scan --device 0F3C1E2A-1111-4A4A-8B8B-000000000001 --icon-dir ./icons --apply
  simdirs app com.example.Foo --bundle /path/to/Bundle/Application/UUID`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.AddCommand(c.newScanCmd(), c.newAppCmd(), c.newVersionCmd())
	return root
}

func (c *cli) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "打印版本号",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(c.stdout, "simdirs %s\n", version)
			return nil
		},
	}
}

func (c *cli) newLogger(level string) *zap.Logger {
	return logging.NewOrNop(logging.Config{
		Level:       level,
		Development: c.progress != nil,
		Sink:        c.stderr,
	})
}

func isTTY(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func pickProgressWriter() (io.Writer, bool) {
	// 进度输出只在交互终端启用；默认走 stderr（不污染 stdout JSON）。
	if isTTY(os.Stderr) {
		return os.Stderr, true
	}
	// 某些环境（例如仅重定向 stderr）下，stdout 仍是 TTY：退化输出到 stdout。
	if isTTY(os.Stdout) {
		return os.Stdout, true
	}
	return nil, false
}
