// Package simapp 描述模拟器中单个已安装 app 的磁盘身份：bundle/sandbox 路径、Info.plist 元数据与图标。
//
// 并发约束：同一个 Record 的所有修改必须由同一个 goroutine 串行完成；
// 不同 Record 之间相互独立，可以由外部调度器并发处理。包内不加锁。
package simapp

import "image"

// Record 是单个 app 的聚合实体。
//
// 生命周期：New(bundleID) → 0..n 次路径线索 → CompleteScan → 只读。
type Record struct {
	bundleID string

	bundleName   string
	displayName  string
	shortVersion string
	version      string
	minOSVersion *string

	icon Icon

	bundle  PathCell
	sandbox PathCell

	selector    IconSelector
	manifestErr error
}

// Option 调整 Record 的外部依赖（目前只有图片解码）。
type Option func(*Record)

// WithDecoder 替换图标解码实现。
func WithDecoder(fn DecodeFunc) Option {
	return func(r *Record) { r.selector.Decode = fn }
}

func New(bundleID string, opts ...Option) *Record {
	r := &Record{
		bundleID: bundleID,
		selector: DefaultIconSelector(),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

func (r *Record) BundleID() string     { return r.bundleID }
func (r *Record) BundleName() string   { return r.bundleName }
func (r *Record) DisplayName() string  { return r.displayName }
func (r *Record) ShortVersion() string { return r.shortVersion }
func (r *Record) Version() string      { return r.version }

// MinOSVersion 仅在 manifest 中存在 MinimumOSVersion 时返回 (v, true)。
func (r *Record) MinOSVersion() (string, bool) {
	if r.minOSVersion == nil {
		return "", false
	}
	return *r.minOSVersion, true
}

func (r *Record) BundlePath() (string, bool)  { return r.bundle.Get() }
func (r *Record) SandboxPath() (string, bool) { return r.sandbox.Get() }

// HasValidPaths 当且仅当 bundle/sandbox 至少一个已被赋值。
func (r *Record) HasValidPaths() bool {
	return r.bundle.IsSet() || r.sandbox.IsSet()
}

// Icon 返回选图结果；CompleteScan 之前为零值。
func (r *Record) Icon() Icon { return r.icon }

// IconImage 返回图标图片；CompleteScan 之后永不为 nil。
func (r *Record) IconImage() image.Image { return r.icon.Image }

// ManifestErr 返回最近一次加载 Info.plist 的失败原因（仅用于诊断；不影响记录可用性）。
func (r *Record) ManifestErr() error { return r.manifestErr }

// CompleteScan 先细化路径，再加载元数据与图标。重复调用无副作用累积。
func (r *Record) CompleteScan() {
	r.RefinePaths()
	r.loadMetadata()
}
