package run

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/John-Robertt/simdirs/internal/app"
	"github.com/John-Robertt/simdirs/internal/config"
	"github.com/John-Robertt/simdirs/internal/domain"
	"github.com/John-Robertt/simdirs/internal/hints"
	"github.com/John-Robertt/simdirs/internal/infra/fsx"
	"github.com/John-Robertt/simdirs/internal/infra/iconstore"
	"github.com/John-Robertt/simdirs/internal/scan"
	"github.com/John-Robertt/simdirs/internal/simapp"
)

// IconDefault 是报告中“使用内置默认图标”的标记。
const IconDefault = "default"

// Execute 执行一次扫描，并返回对外稳定的 ScanReport。
// 该函数尽量把错误“降级”为 item 级失败（单个设备/app 失败不影响其他）。
func Execute(ctx context.Context, eff config.EffectiveConfig, log *zap.Logger) domain.ScanReport {
	return ExecuteWithObserver(ctx, eff, log, nil)
}

type job struct {
	device domain.Device
	record *simapp.Record
}

// ExecuteWithObserver 与 Execute 相同，但允许传入 Observer 以输出进度/阶段信息（由上层决定是否启用）。
func ExecuteWithObserver(ctx context.Context, eff config.EffectiveConfig, log *zap.Logger, obs Observer) domain.ScanReport {
	started := time.Now().UTC()
	if log == nil {
		log = zap.NewNop()
	}
	if obs != nil {
		obs.OnStart(eff)
	}

	rr := domain.ScanReport{
		Root:      eff.Root,
		StartedAt: started,
		Items:     make([]domain.AppResult, 0, 64),
	}

	scanStarted := time.Now()
	devices, bad, err := scan.ScanDevices(eff.Root, eff.Devices)
	if err != nil {
		code := domain.ErrCodeRootNotFound
		if fsx.Exists(eff.Root) {
			// 根目录在，失败来自 --device 过滤条件（非法 UDID）。
			code = domain.ErrCodeConfigInvalid
		}
		rr.Items = append(rr.Items, syntheticFailed("", code, fmt.Sprintf("读取设备根目录失败：%v", err)))
		rr.FinishedAt = time.Now().UTC()
		rr.Finalize()
		return rr
	}
	for _, b := range bad {
		log.Warn("设备目录不可读", zap.String("device", b.Key()), zap.Error(b.Err))
		rr.Items = append(rr.Items, syntheticFailed(b.Key(), domain.ErrCodeDeviceUnreadable, b.Err.Error()))
	}
	if obs != nil {
		obs.OnPhaseDone("scan", map[string]any{
			"devices": len(devices),
			"bad":     len(bad),
		}, time.Since(scanStarted))
	}

	// 线索阶段：每个设备读两类 plist，按 bundle ID 聚合为 Record。
	hintsStarted := time.Now()
	jobs := make([]job, 0, 64)
	for _, d := range devices {
		set, err := hints.LoadDevice(d.DataPath, eff.IncludeSystem)
		if err != nil {
			log.Warn("路径线索不可读", zap.String("device", d.Key()), zap.Error(err))
			it := syntheticFailed(d.Key(), domain.ErrCodeHintsUnreadable, err.Error())
			it.DeviceName = d.Name
			rr.Items = append(rr.Items, it)
			continue
		}
		for _, r := range app.GroupByBundleID(set) {
			jobs = append(jobs, job{device: d, record: r})
		}
	}
	if obs != nil {
		obs.OnPhaseDone("hints", map[string]any{
			"apps": len(jobs),
		}, time.Since(hintsStarted))
	}

	// 执行阶段：按 app 并发（worker pool）；每个 Record 只归属于一个 worker。
	workers := eff.Concurrency
	if workers < 1 {
		workers = 1
	}
	if obs != nil {
		obs.OnPhaseDone("exec", map[string]any{
			"workers":    workers,
			"total_apps": len(jobs),
		}, 0)
	}

	store := iconstore.New(eff.IconDir, !eff.Apply)

	type execResult struct {
		res domain.AppResult
		dur time.Duration
	}

	queue := make(chan job)
	results := make(chan execResult, len(jobs))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range queue {
				oneStarted := time.Now()
				r := execOne(ctx, eff, j, store, log)
				results <- execResult{res: r, dur: time.Since(oneStarted)}
			}
		}()
	}

	go func() {
		for _, j := range jobs {
			queue <- j
		}
		close(queue)
		wg.Wait()
		close(results)
	}()

	done := 0
	for it := range results {
		done++
		rr.Items = append(rr.Items, it.res)
		if obs != nil {
			obs.OnItemDone(done, len(jobs), it.res, it.dur)
		}
	}

	rr.FinishedAt = time.Now().UTC()
	rr.Finalize()
	return rr
}

func syntheticFailed(device, code, msg string) domain.AppResult {
	return domain.AppResult{
		Device:     device,
		Status:     domain.StatusFailed,
		ErrorCode:  code,
		ErrorMsg:   msg,
		Properties: []domain.Property{},
	}
}

func execOne(ctx context.Context, eff config.EffectiveConfig, j job, store iconstore.Store, log *zap.Logger) domain.AppResult {
	rec := j.record
	item := domain.AppResult{
		Device:     j.device.Key(),
		DeviceName: j.device.Name,
		BundleID:   rec.BundleID(),
		Status:     domain.StatusResolved, // 未解析/失败时覆盖
		Properties: []domain.Property{},
	}

	// 取消只影响尚未开始的 app；已开始的 CompleteScan 会跑完（核心不支持中途取消）。
	if err := ctx.Err(); err != nil {
		item.Status = domain.StatusFailed
		item.ErrorCode = domain.ErrCodeCanceled
		item.ErrorMsg = err.Error()
		return item
	}

	rec.CompleteScan()
	Describe(&item, rec)

	l := log.With(zap.String("device", item.Device), zap.String("bundle_id", item.BundleID))
	if !rec.HasValidPaths() {
		item.Status = domain.StatusUnresolved
		item.ErrorMsg = "launch map / process state 中没有存在的路径"
		l.Debug("app 未解析到任何路径")
		return item
	}
	if err := rec.ManifestErr(); err != nil {
		l.Debug("Info.plist 不可用，字段保持默认", zap.Error(err))
	}
	if rec.Icon().Default {
		l.Debug("没有可用图标，使用默认图标")
	}

	if eff.IconDir == "" {
		return item
	}
	if store.ReadOnly {
		// dry-run：只报告将要写入的位置。
		if p, err := store.IconPath(item.Device, item.BundleID); err == nil {
			item.IconExport = p
		}
		return item
	}
	p, err := store.WriteIcon(item.Device, item.BundleID, rec.IconImage())
	if err != nil {
		l.Warn("导出图标失败", zap.Error(err))
		item.Status = domain.StatusFailed
		item.ErrorCode = domain.ErrCodeIconExportFailed
		item.ErrorMsg = err.Error()
		return item
	}
	item.IconExport = p
	return item
}

// Describe 把已完成扫描的 Record 写入 AppResult 的展示字段（title/icon/properties）。
func Describe(item *domain.AppResult, rec *simapp.Record) {
	item.BundleID = rec.BundleID()
	item.Title = rec.OutlineTitle()
	item.Properties = rec.Properties()
	icon := rec.Icon()
	item.IconWidth = icon.Width()
	if icon.Default {
		item.Icon = IconDefault
	} else {
		item.Icon = icon.Source
	}
}
