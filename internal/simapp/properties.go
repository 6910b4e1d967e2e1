package simapp

import (
	"image"

	"github.com/John-Robertt/simdirs/internal/domain"
)

// PanelHeader 是属性面板的固定标题。
const PanelHeader = "App Information"

var (
	_ domain.OutlineNode   = (*Record)(nil)
	_ domain.PropertyPanel = (*Record)(nil)
)

func (r *Record) OutlineTitle() string      { return r.displayName }
func (r *Record) OutlineImage() image.Image { return r.icon.Image }

// ChildCount 恒为 0：app 是树的叶子节点。
func (r *Record) ChildCount() int                { return 0 }
func (r *Record) ChildAt(int) domain.OutlineNode { return nil }
func (r *Record) Header() string                 { return PanelHeader }
func (r *Record) Image() image.Image             { return r.icon.Image }

// VersionString 渲染版本：两者相同只显示一次，否则为 "<short> (<version>)"。
func (r *Record) VersionString() string {
	if r.shortVersion == r.version {
		return r.shortVersion
	}
	return r.shortVersion + " (" + r.version + ")"
}

// Properties 返回有序、稳定的属性快照。
//
// 顺序：Display Name, Bundle Name, Bundle ID, Version,
// [Minimum OS Version], [Bundle], [Sandbox]（方括号项仅在有值时出现）。
func (r *Record) Properties() []domain.Property {
	props := []domain.Property{
		{Title: "Display Name", Value: domain.Text(r.displayName)},
		{Title: "Bundle Name", Value: domain.Text(r.bundleName)},
		{Title: "Bundle ID", Value: domain.Text(r.bundleID)},
		{Title: "Version", Value: domain.Text(r.VersionString())},
	}
	if v, ok := r.MinOSVersion(); ok {
		props = append(props, domain.Property{Title: "Minimum OS Version", Value: domain.Text(v)})
	}
	if p, ok := r.BundlePath(); ok {
		props = append(props, domain.Property{Title: "Bundle", Value: domain.Location(p)})
	}
	if p, ok := r.SandboxPath(); ok {
		props = append(props, domain.Property{Title: "Sandbox", Value: domain.Location(p)})
	}
	return props
}
