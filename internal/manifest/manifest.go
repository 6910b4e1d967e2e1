// Package manifest 解析 app bundle 的 Info.plist（XML 与 binary 两种序列化都支持）。
package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"howett.net/plist"
)

// FileName 是 bundle 内 manifest 的固定文件名。
const FileName = "Info.plist"

const (
	keyBundleName      = "CFBundleName"
	keyDisplayName     = "CFBundleDisplayName"
	keyShortVersion    = "CFBundleShortVersionString"
	keyVersion         = "CFBundleVersion"
	keyMinimumOS       = "MinimumOSVersion"
	keyBundleIcons     = "CFBundleIcons"
	keyPrimaryIcon     = "CFBundlePrimaryIcon"
	keyBundleIconFiles = "CFBundleIconFiles"
)

// Manifest 是从 Info.plist 中提取的身份字段。
//
// 约束：逐字段降级。键缺失或类型不对时，该字段保持零值，不影响其他字段。
type Manifest struct {
	BundleName   string
	DisplayName  string // 已做回退：为空时等于 BundleName
	ShortVersion string
	Version      string
	MinOSVersion *string
	Icon         IconRef
}

// Path 返回 bundlePath 下 manifest 的路径。
func Path(bundlePath string) string {
	return filepath.Join(bundlePath, FileName)
}

// Load 读取并解析 <bundlePath>/Info.plist。
// 文件缺失或完全无法解析时返回 error；调用方按“全部字段保持默认”处理。
func Load(bundlePath string) (Manifest, error) {
	b, err := os.ReadFile(Path(bundlePath))
	if err != nil {
		return Manifest{}, err
	}
	return Decode(b)
}

// Decode 解析 plist 字节；根节点必须是字典。
func Decode(data []byte) (Manifest, error) {
	var root any
	if _, err := plist.Unmarshal(data, &root); err != nil {
		return Manifest{}, fmt.Errorf("解析 %s 失败：%w", FileName, err)
	}
	dict, ok := root.(map[string]any)
	if !ok {
		return Manifest{}, fmt.Errorf("%s 根节点不是字典（%T）", FileName, root)
	}

	m := Manifest{
		BundleName:   stringOf(dict, keyBundleName),
		DisplayName:  stringOf(dict, keyDisplayName),
		ShortVersion: stringOf(dict, keyShortVersion),
		Version:      stringOf(dict, keyVersion),
		Icon:         primaryIcon(dict),
	}
	if v, ok := dict[keyMinimumOS].(string); ok {
		m.MinOSVersion = &v
	}
	if m.DisplayName == "" {
		m.DisplayName = m.BundleName
	}
	return m, nil
}

func stringOf(dict map[string]any, key string) string {
	s, _ := dict[key].(string)
	return s
}

// primaryIcon 解析 CFBundleIcons → CFBundlePrimaryIcon。
// 字典形态下 CFBundleIconFiles 中的非字符串元素直接跳过。
func primaryIcon(dict map[string]any) IconRef {
	icons, ok := dict[keyBundleIcons].(map[string]any)
	if !ok {
		return IconRef{}
	}
	switch v := icons[keyPrimaryIcon].(type) {
	case string:
		return SingleName(v)
	case map[string]any:
		files, ok := v[keyBundleIconFiles].([]any)
		if !ok {
			return IconRef{}
		}
		names := make([]string, 0, len(files))
		for _, f := range files {
			if s, ok := f.(string); ok {
				names = append(names, s)
			}
		}
		return NameList(names)
	default:
		return IconRef{}
	}
}
