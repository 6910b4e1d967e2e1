package domain

import (
	"encoding/json"
	"sort"
	"time"
)

const (
	StatusResolved   = "resolved"
	StatusUnresolved = "unresolved"
	StatusFailed     = "failed"
)

const (
	ErrCodeRootNotFound     = "root_not_found"
	ErrCodeConfigInvalid    = "config_invalid"
	ErrCodeDeviceUnreadable = "device_unreadable"
	ErrCodeHintsUnreadable  = "hints_unreadable"
	ErrCodeIconExportFailed = "icon_export_failed"
	ErrCodeInvalidBundleID  = "invalid_bundle_id"
	ErrCodeCanceled         = "canceled"
)

// ScanReport 是对外稳定输出（stdout JSON）的结构。
type ScanReport struct {
	Root string `json:"root"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	Summary ReportSummary `json:"summary"`
	Items   []AppResult   `json:"items"`
}

type ReportSummary struct {
	Devices    int `json:"devices"`
	Resolved   int `json:"resolved"`
	Unresolved int `json:"unresolved"`
	Failed     int `json:"failed"`
}

// AppResult 是单个 app（或设备级合成失败项，BundleID 为空）的结果。
type AppResult struct {
	Device     string `json:"device"`
	DeviceName string `json:"device_name"`
	BundleID   string `json:"bundle_id"`
	Title      string `json:"title"`

	Status    string `json:"status"`
	ErrorCode string `json:"error_code"`
	ErrorMsg  string `json:"error_msg"`

	// Icon 是最终选中的图标文件路径；使用内置默认图标时为 "default"。
	Icon       string `json:"icon"`
	IconWidth  int    `json:"icon_width"`
	IconExport string `json:"icon_export"`

	Properties []Property `json:"properties"`
}

// Finalize 做三件事：
// 1) 时间统一为 UTC
// 2) items 稳定排序：先按 device，再按 bundle_id；bundle_id=="" 的合成项排在该设备最后
// 3) summary 由 items 计算得出（devices 为出现过的不同 device 数）
func (r *ScanReport) Finalize() {
	r.StartedAt = r.StartedAt.UTC()
	r.FinishedAt = r.FinishedAt.UTC()

	sort.SliceStable(r.Items, func(i, j int) bool {
		a, b := r.Items[i], r.Items[j]
		if a.Device != b.Device {
			return a.Device < b.Device
		}
		if a.BundleID == "" || b.BundleID == "" {
			return a.BundleID != "" && b.BundleID == ""
		}
		return a.BundleID < b.BundleID
	})

	s := ReportSummary{}
	seen := make(map[string]struct{}, 8)
	for _, it := range r.Items {
		if _, ok := seen[it.Device]; !ok && it.Device != "" {
			seen[it.Device] = struct{}{}
			s.Devices++
		}
		switch it.Status {
		case StatusResolved:
			s.Resolved++
		case StatusUnresolved:
			s.Unresolved++
		case StatusFailed:
			s.Failed++
		}
	}
	r.Summary = s
}

// MarshalJSON 保证 nil 切片输出为 []，避免下游区分 null 与空数组。
func (r ScanReport) MarshalJSON() ([]byte, error) {
	type Alias ScanReport
	a := Alias(r)
	// 复制一份，避免改写调用方的 Items。
	a.Items = append(make([]AppResult, 0, len(r.Items)), r.Items...)
	for i := range a.Items {
		if a.Items[i].Properties == nil {
			a.Items[i].Properties = []Property{}
		}
	}
	return json.Marshal(a)
}
