package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/John-Robertt/simdirs/internal/app/run"
	"github.com/John-Robertt/simdirs/internal/config"
	"github.com/John-Robertt/simdirs/internal/domain"
)

type scanFlags struct {
	root          string
	devices       []string
	concurrency   int
	includeSystem bool
	iconDir       string
	apply         bool
	logLevel      string
}

func (c *cli) newScanCmd() *cobra.Command {
	var f scanFlags
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "扫描全部（或指定）模拟器设备中的 app",
		Long: `扫描 Devices 根目录下的设备，输出每个 app 的路径、元数据与图标。

stdout 是终端时输出可读摘要；否则 stdout 只输出一个 ScanReport JSON（日志与进度走 stderr）。
任一设备或 app 失败时退出码为 1。`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runScan(cmd, f)
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&f.root, "root", "", "CoreSimulator Devices 根目录（默认 ~/Library/Developer/CoreSimulator/Devices）")
	fl.StringArrayVar(&f.devices, "device", nil, "只扫描指定 UDID（可重复）")
	fl.IntVarP(&f.concurrency, "concurrency", "j", config.DefaultConcurrency, "并发 worker 数（1..32）")
	fl.BoolVar(&f.includeSystem, "include-system", false, "同时列出 launch map 中的 System app")
	fl.StringVar(&f.iconDir, "icon-dir", "", "导出图标到 <dir>/<udid>/<bundle_id>.png")
	fl.BoolVar(&f.apply, "apply", false, "真正写入图标（默认 dry-run，只计算路径）")
	fl.StringVar(&f.logLevel, "log-level", "", "日志级别：debug|info|warn|error")
	return cmd
}

func (c *cli) runScan(cmd *cobra.Command, f scanFlags) error {
	cwd, err := c.getwd()
	if err != nil {
		return &exitError{code: 1, msg: fmt.Sprintf("读取当前目录失败：%v", err)}
	}

	fl := cmd.Flags()
	eff, err := config.LoadEffective(cwd, config.CLIArgs{
		Root:             f.root,
		Concurrency:      f.concurrency,
		ConcurrencySet:   fl.Changed("concurrency"),
		Devices:          f.devices,
		IncludeSystem:    f.includeSystem,
		IncludeSystemSet: fl.Changed("include-system"),
		IconDir:          f.iconDir,
		Apply:            f.apply,
		ApplySet:         fl.Changed("apply"),
		LogLevel:         f.logLevel,
	})
	if err != nil {
		c.emitReport(reportForConfigError(f.root, err))
		return &exitError{code: 1}
	}

	log := c.newLogger(eff.LogLevel)
	defer func() { _ = log.Sync() }()
	log.Debug("生效配置",
		zap.String("root", eff.Root),
		zap.Int("concurrency", eff.Concurrency),
		zap.Strings("devices", eff.Devices),
		zap.Bool("include_system", eff.IncludeSystem),
		zap.String("icon_dir", eff.IconDir),
		zap.Bool("apply", eff.Apply),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var obs run.Observer
	if c.progress != nil {
		obs = newProgressUI(c.progress)
	}
	rr := run.ExecuteWithObserver(ctx, eff, log, obs)

	c.emitReport(rr)
	if rr.Summary.Failed == 0 {
		return nil
	}
	return &exitError{code: 1}
}

func (c *cli) emitReport(rr domain.ScanReport) {
	if c.stdoutTTY {
		fmt.Fprint(c.stdout, renderReport(rr))
		return
	}

	// stdout 非 TTY：stdout 必须且仅输出一个 ScanReport JSON（日志/摘要走 stderr）。
	enc := json.NewEncoder(c.stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(rr)
	fmt.Fprintln(c.stderr, summaryLine(rr.Summary))
}

func reportForConfigError(root string, err error) domain.ScanReport {
	now := time.Now().UTC()
	code := config.Code(err)
	if code == "" {
		code = domain.ErrCodeConfigInvalid
	}
	rr := domain.ScanReport{
		Root:       root,
		StartedAt:  now,
		FinishedAt: now,
		Items: []domain.AppResult{{
			Status:     domain.StatusFailed,
			ErrorCode:  code,
			ErrorMsg:   err.Error(),
			Properties: []domain.Property{},
		}},
	}
	rr.Finalize()
	return rr
}

func summaryLine(s domain.ReportSummary) string {
	return fmt.Sprintf("完成：devices=%d resolved=%d unresolved=%d failed=%d",
		s.Devices, s.Resolved, s.Unresolved, s.Failed,
	)
}
