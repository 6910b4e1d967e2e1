package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/John-Robertt/simdirs/internal/app/run"
	"github.com/John-Robertt/simdirs/internal/config"
	"github.com/John-Robertt/simdirs/internal/domain"
	"github.com/John-Robertt/simdirs/internal/infra/fsx"
	"github.com/John-Robertt/simdirs/internal/infra/imgx"
	"github.com/John-Robertt/simdirs/internal/simapp"
)

type appFlags struct {
	bundle          string
	sandbox         string
	launchBundle    string
	launchContainer string
	processBundle   string
	processSandbox  string
	iconOut         string
	logLevel        string
}

func (c *cli) newAppCmd() *cobra.Command {
	var f appFlags
	cmd := &cobra.Command{
		Use:   "app BUNDLE_ID",
		Short: "解析单个 app 并显示属性面板",
		Long: `按给定路径线索解析单个 app。

路径按以下顺序尝试，先到先得（只接受磁盘上存在的路径）：
  --bundle / --sandbox
  --launch-bundle / --launch-container（launch map 线索）
  --process-bundle / --process-sandbox（application state 线索）

bundle 路径若不是 .app，会在其直接子目录中找第一个 .app。`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runApp(args[0], f)
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&f.bundle, "bundle", "", "bundle 路径（.app 或其所在目录）")
	fl.StringVar(&f.sandbox, "sandbox", "", "数据容器路径")
	fl.StringVar(&f.launchBundle, "launch-bundle", "", "launch map 的 BundleContainer")
	fl.StringVar(&f.launchContainer, "launch-container", "", "launch map 的 Container")
	fl.StringVar(&f.processBundle, "process-bundle", "", "application state 的 compatibilityInfo.bundlePath")
	fl.StringVar(&f.processSandbox, "process-sandbox", "", "application state 的 compatibilityInfo.sandboxPath")
	fl.StringVar(&f.iconOut, "icon-out", "", "把选中的图标写为 PNG 文件")
	fl.StringVar(&f.logLevel, "log-level", config.DefaultLogLevel, "日志级别：debug|info|warn|error")
	return cmd
}

func (c *cli) runApp(rawID string, f appFlags) error {
	id, ok := domain.ParseBundleID(rawID)
	if !ok {
		return &exitError{code: 2, msg: fmt.Sprintf("%s：%q 不是合法的 bundle ID", domain.ErrCodeInvalidBundleID, rawID)}
	}

	log := c.newLogger(f.logLevel).With(zap.String("bundle_id", string(id)))
	defer func() { _ = log.Sync() }()

	rec := simapp.New(string(id))
	if f.bundle != "" && !rec.SetBundlePath(f.bundle) {
		log.Debug("忽略不存在的 bundle 路径", zap.String("path", f.bundle))
	}
	if f.sandbox != "" && !rec.SetSandboxPath(f.sandbox) {
		log.Debug("忽略不存在的 sandbox 路径", zap.String("path", f.sandbox))
	}
	rec.ApplyLaunchHints(domain.LaunchHints{BundleContainer: f.launchBundle, Container: f.launchContainer})
	rec.ApplyProcessHints(domain.ProcessHints{BundlePath: f.processBundle, SandboxPath: f.processSandbox})
	rec.CompleteScan()

	if err := rec.ManifestErr(); err != nil {
		log.Debug("Info.plist 不可用", zap.Error(err))
	}

	item := domain.AppResult{Status: domain.StatusResolved}
	if !rec.HasValidPaths() {
		item.Status = domain.StatusUnresolved
	}
	run.Describe(&item, rec)

	if f.iconOut != "" {
		out, err := filepath.Abs(f.iconOut)
		if err != nil {
			return &exitError{code: 1, msg: fmt.Sprintf("%s：%v", domain.ErrCodeIconExportFailed, err)}
		}
		b, err := imgx.EncodePNG(rec.IconImage())
		if err == nil {
			err = fsx.WriteFileAtomicReplace(filepath.Dir(out), filepath.Base(out), b)
		}
		if err != nil {
			return &exitError{code: 1, msg: fmt.Sprintf("%s：%v", domain.ErrCodeIconExportFailed, err)}
		}
		item.IconExport = out
	}

	if c.stdoutTTY {
		fmt.Fprint(c.stdout, renderPanel(rec))
	} else {
		enc := json.NewEncoder(c.stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(item)
	}

	if item.Status != domain.StatusResolved {
		return &exitError{code: 1}
	}
	return nil
}
