package simapp

import (
	"image"
	"path/filepath"

	"github.com/John-Robertt/simdirs/internal/infra/imgx"
)

// DecodeFunc 解码 path 处的图片；任何失败都返回 error（选图阶段会直接跳过）。
type DecodeFunc func(path string) (image.Image, error)

// Icon 是选图结果。Source 为选中文件路径；使用默认图标时 Source 为空且 Default 为 true。
type Icon struct {
	Image   image.Image
	Source  string
	Default bool
}

// Width 返回图标宽度；没有图标时为 0。
func (i Icon) Width() int { return imgx.Width(i.Image) }

// IconSelector 从 manifest 列出的候选文件名中挑选最宽的图标。
type IconSelector struct {
	Decode DecodeFunc
}

// DefaultIconSelector 使用 imgx.DecodeFile 解码。
func DefaultIconSelector() IconSelector {
	return IconSelector{Decode: imgx.DecodeFile}
}

// Select 按顺序处理 names，返回最宽的图标；一个都解不出时返回内置默认图标。
//
// 规则：
// - base = <bundle>/<name>，name 没有扩展名时追加 ".png"
// - double = <bundle>/<name>@2x.png
// - 每个 name 先试 base 再试 double；解码失败直接跳过
// - 只有严格更宽才替换（同宽保留先发现的）
func (s IconSelector) Select(bundlePath string, names []string) Icon {
	decode := s.Decode
	if decode == nil {
		decode = imgx.DecodeFile
	}

	var best Icon
	for _, name := range names {
		if name == "" {
			continue
		}
		for _, p := range candidatePaths(bundlePath, name) {
			img, err := decode(p)
			if err != nil || img == nil {
				continue
			}
			if imgx.Width(img) > best.Width() {
				best = Icon{Image: img, Source: p}
			}
		}
	}

	if best.Image == nil {
		return fallbackIcon()
	}
	return best
}

func candidatePaths(bundlePath, name string) [2]string {
	base := filepath.Join(bundlePath, name)
	if filepath.Ext(name) == "" {
		base += ".png"
	}
	double := filepath.Join(bundlePath, name+"@2x.png")
	return [2]string{base, double}
}

func fallbackIcon() Icon {
	return Icon{Image: imgx.DefaultIcon(), Default: true}
}
