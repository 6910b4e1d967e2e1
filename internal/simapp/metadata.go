package simapp

import (
	"errors"

	"github.com/John-Robertt/simdirs/internal/manifest"
)

// ErrNoBundlePath 表示加载元数据时 bundle path 仍未确定。
var ErrNoBundlePath = errors.New("simapp: bundle path 未确定")

// loadMetadata 从 <bundle>/Info.plist 填充身份字段并选图。
//
// 约束：
// - 每次调用都从默认值重新开始（重复调用结果一致）
// - manifest 缺失/无法解析：字段保持默认，失败原因记录到 manifestErr
// - 无论成功与否，结束时 icon 一定非空（最差为默认图标）
func (r *Record) loadMetadata() {
	r.bundleName, r.displayName, r.shortVersion, r.version = "", "", "", ""
	r.minOSVersion = nil
	r.manifestErr = nil
	r.icon = fallbackIcon()

	bundlePath, ok := r.bundle.Get()
	if !ok {
		r.manifestErr = ErrNoBundlePath
		return
	}

	m, err := manifest.Load(bundlePath)
	if err != nil {
		r.manifestErr = err
		return
	}

	r.bundleName = m.BundleName
	r.displayName = m.DisplayName
	r.shortVersion = m.ShortVersion
	r.version = m.Version
	r.minOSVersion = m.MinOSVersion
	r.icon = r.selector.Select(bundlePath, m.Icon.Files())
}
