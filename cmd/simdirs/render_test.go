package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/John-Robertt/simdirs/internal/app/run"
	"github.com/John-Robertt/simdirs/internal/config"
	"github.com/John-Robertt/simdirs/internal/domain"
	"github.com/John-Robertt/simdirs/internal/simapp"
)

func TestRenderPanel_ListsPropertiesInOrder(t *testing.T) {
	rec := simapp.New("com.example.Foo")
	assert.True(t, rec.SetSandboxPath(t.TempDir()))
	rec.CompleteScan()

	out := renderPanel(rec)
	assert.Contains(t, out, simapp.PanelHeader)
	assert.Contains(t, out, "default 64px")

	iName := strings.Index(out, "Display Name")
	iID := strings.Index(out, "Bundle ID")
	iSandbox := strings.Index(out, "Sandbox")
	assert.True(t, iName >= 0 && iName < iID && iID < iSandbox, "属性顺序不符合预期：%s", out)
	assert.NotContains(t, out, "Minimum OS Version")
}

func TestRenderReport_GroupsByDevice(t *testing.T) {
	rr := domain.ScanReport{
		Root: "/tmp/Devices",
		Items: []domain.AppResult{
			{Device: "A", DeviceName: "iPhone", BundleID: "com.a", Title: "A", Status: domain.StatusResolved, Icon: run.IconDefault},
			{Device: "A", DeviceName: "iPhone", BundleID: "com.b", Status: domain.StatusUnresolved},
			{Device: "B", Status: domain.StatusFailed, ErrorCode: domain.ErrCodeHintsUnreadable, ErrorMsg: "bad plist"},
		},
	}
	rr.Finalize()

	out := renderReport(rr)
	assert.Equal(t, 1, strings.Count(out, "iPhone"))
	assert.Contains(t, out, "[default icon]")
	assert.Contains(t, out, "<device> hints_unreadable: bad plist")
	assert.Contains(t, out, "完成：devices=2 resolved=1 unresolved=1 failed=1")
}

func TestProgressUI_ItemLines(t *testing.T) {
	var buf bytes.Buffer
	p := newProgressUI(&buf)
	p.OnStart(config.EffectiveConfig{Root: "/r", Concurrency: 2})
	p.OnPhaseDone("scan", map[string]any{"devices": 1, "bad": 0}, time.Second)

	p.OnItemDone(1, 3, domain.AppResult{BundleID: "com.a", Title: "A", Status: domain.StatusResolved, IconWidth: 120}, 0)
	p.OnItemDone(2, 3, domain.AppResult{BundleID: "com.b", Status: domain.StatusUnresolved}, 0)
	p.OnItemDone(3, 3, domain.AppResult{BundleID: "com.c", Status: domain.StatusFailed, ErrorCode: domain.ErrCodeCanceled, ErrorMsg: "context canceled"}, 0)
	p.OnProgress(3, 3, 1, 1, 1, 90*time.Second)

	out := buf.String()
	assert.Contains(t, out, "devices: all")
	assert.Contains(t, out, "扫描: devices=1 bad=0 (1.0s)")
	assert.Contains(t, out, `[1/3] com.a OK "A" icon=120px`)
	assert.Contains(t, out, "[2/3] com.b MISS")
	assert.Contains(t, out, "[3/3] com.c FAIL canceled: context canceled")
	assert.Contains(t, out, "elapsed=00:01:30")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate(" abc ", 10))
	assert.Equal(t, "abcd...", truncate("abcdefghij", 7))
}
