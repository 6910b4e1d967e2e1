package main

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/John-Robertt/simdirs/internal/app/run"
	"github.com/John-Robertt/simdirs/internal/config"
	"github.com/John-Robertt/simdirs/internal/domain"
)

var _ run.Observer = (*progressUI)(nil)

// progressUI 是交互终端下的进度输出。
//
// 设计目标：
// - 所有过程信息写到 stderr（或 fallback 到 stdout），不污染 stdout 的 JSON 输出契约
// - 事件驱动：run 层只发事件，CLI 决定如何展示
// - keepalive：长时间无条目完成时也会定期输出一行
type progressUI struct {
	w io.Writer

	mu          sync.Mutex
	startedAt   time.Time
	lastPrinted time.Time

	workers    int
	total      int
	done       int
	resolved   int
	unresolved int
	failed     int

	keepaliveThreshold time.Duration
	tickerInterval     time.Duration

	stopCh        chan struct{}
	tickerStarted bool
}

func newProgressUI(w io.Writer) *progressUI {
	return &progressUI{
		w:                  w,
		keepaliveThreshold: 6 * time.Second,
		tickerInterval:     2 * time.Second,
	}
}

func (p *progressUI) OnStart(eff config.EffectiveConfig) {
	now := time.Now()

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.startedAt.IsZero() {
		p.startedAt = now
	}

	fmt.Fprintf(p.w, "[%s] simdirs scan\n", now.Format("15:04:05"))
	fmt.Fprintln(p.w, "配置（生效）:")
	fmt.Fprintf(p.w, "  root: %s\n", eff.Root)
	fmt.Fprintf(p.w, "  devices: %s\n", formatDevices(eff.Devices))
	fmt.Fprintf(p.w, "  concurrency: %d\n", eff.Concurrency)
	fmt.Fprintf(p.w, "  include_system: %s\n", onOff(eff.IncludeSystem))
	fmt.Fprintf(p.w, "  icon_dir: %s\n", formatIconDir(eff))
	fmt.Fprintln(p.w)

	p.lastPrinted = time.Now()
}

func (p *progressUI) OnPhaseDone(name string, fields map[string]any, dur time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch name {
	case "scan":
		fmt.Fprintf(p.w, "扫描: devices=%d bad=%d (%s)\n",
			intField(fields, "devices"), intField(fields, "bad"), formatShortDuration(dur),
		)
	case "hints":
		fmt.Fprintf(p.w, "线索: apps=%d (%s)\n",
			intField(fields, "apps"), formatShortDuration(dur),
		)
	case "exec":
		p.workers = intField(fields, "workers")
		p.total = intField(fields, "total_apps")
		fmt.Fprintf(p.w, "执行: workers=%d total_apps=%d\n\n", p.workers, p.total)
		if p.total > 0 && !p.tickerStarted {
			p.startTickerLocked()
		}
	default:
		// 兜底：未知阶段也不要静默（便于调试/演进）。
		fmt.Fprintf(p.w, "%s (%s)\n", name, formatShortDuration(dur))
	}

	p.lastPrinted = time.Now()
}

func (p *progressUI) OnItemDone(idx, total int, res domain.AppResult, dur time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	// idx/total 由 run 层给出；这里同时维护自己的计数，供 keepalive 使用。
	p.done = idx
	p.total = total

	switch res.Status {
	case domain.StatusResolved:
		p.resolved++
	case domain.StatusUnresolved:
		p.unresolved++
	case domain.StatusFailed:
		p.failed++
	}

	switch res.Status {
	case domain.StatusFailed:
		fmt.Fprintf(p.w, "[%d/%d] %s FAIL %s: %s (%s)\n",
			idx, total, res.BundleID, res.ErrorCode, truncate(res.ErrorMsg, 160), formatShortDuration(dur),
		)
	case domain.StatusUnresolved:
		fmt.Fprintf(p.w, "[%d/%d] %s MISS (没有存在的路径) (%s)\n",
			idx, total, res.BundleID, formatShortDuration(dur),
		)
	default:
		icon := fmt.Sprintf("icon=%dpx", res.IconWidth)
		if res.Icon == run.IconDefault {
			icon = "icon=default"
		}
		fmt.Fprintf(p.w, "[%d/%d] %s OK %q %s (%s)\n",
			idx, total, res.BundleID, res.Title, icon, formatShortDuration(dur),
		)
	}

	p.lastPrinted = time.Now()

	// 最后一条完成：停止 ticker，避免在结束打印后又冒出 keepalive。
	if p.tickerStarted && p.done >= p.total {
		close(p.stopCh)
		p.tickerStarted = false
	}
}

func (p *progressUI) OnProgress(done, total, resolved, unresolved, failed int, elapsed time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.printProgressLocked(done, total, resolved, unresolved, failed, elapsed)
}

func (p *progressUI) printProgressLocked(done, total, resolved, unresolved, failed int, elapsed time.Duration) {
	fmt.Fprintf(p.w, "进度: done=%d/%d resolved=%d unresolved=%d failed=%d elapsed=%s\n",
		done, total, resolved, unresolved, failed, formatElapsed(elapsed),
	)
	p.lastPrinted = time.Now()
}

func (p *progressUI) startTickerLocked() {
	p.stopCh = make(chan struct{})
	p.tickerStarted = true

	interval := p.tickerInterval
	if interval <= 0 {
		interval = 2 * time.Second
	}
	threshold := p.keepaliveThreshold
	if threshold <= 0 {
		threshold = 6 * time.Second
	}
	stopCh := p.stopCh

	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()

		for {
			select {
			case <-t.C:
				p.mu.Lock()
				if p.total > 0 && p.done >= p.total {
					p.mu.Unlock()
					return
				}
				if p.total > 0 && time.Since(p.lastPrinted) > threshold {
					p.printProgressLocked(p.done, p.total, p.resolved, p.unresolved, p.failed, time.Since(p.startedAt))
				}
				p.mu.Unlock()
			case <-stopCh:
				return
			}
		}
	}()
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

func formatDevices(xs []string) string {
	if len(xs) == 0 {
		return "all"
	}
	return strings.Join(xs, ", ")
}

func formatIconDir(eff config.EffectiveConfig) string {
	if eff.IconDir == "" {
		return "off"
	}
	if eff.Apply {
		return eff.IconDir
	}
	return eff.IconDir + " (dry-run，只计算路径)"
}

func formatShortDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}

func formatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	sec := int(d.Seconds())
	h := sec / 3600
	m := (sec % 3600) / 60
	s := sec % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

func intField(fields map[string]any, key string) int {
	if fields == nil {
		return 0
	}
	v, ok := fields[key]
	if !ok {
		return 0
	}
	switch x := v.(type) {
	case int:
		return x
	case int64:
		return int(x)
	default:
		return 0
	}
}
