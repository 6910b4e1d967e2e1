// Package hints 把模拟器设备里的两类“路径线索”plist 解码为强类型结构。
//
// 核心（simapp）只接受 domain.LaunchHints / domain.ProcessHints，不接触原始 map。
package hints

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"howett.net/plist"

	"github.com/John-Robertt/simdirs/internal/domain"
)

// 相对设备 data 目录的固定位置。
var (
	LaunchMapRelPath = filepath.Join("Library", "MobileInstallation", "LastLaunchServicesMap.plist")
	AppStateRelPath  = filepath.Join("Library", "BackBoard", "applicationState.plist")
)

const (
	sectionUser   = "User"
	sectionSystem = "System"

	keyBundleContainer   = "BundleContainer"
	keyContainer         = "Container"
	keyCompatibilityInfo = "compatibilityInfo"
	keyBundlePath        = "bundlePath"
	keySandboxPath       = "sandboxPath"
)

// Set 是单个设备的全部线索，key 为 bundle ID。
type Set struct {
	Launch  map[string]domain.LaunchHints
	Process map[string]domain.ProcessHints
}

// BundleIDs 返回出现在任一来源中的 bundle ID（无序）。
func (s Set) BundleIDs() []string {
	out := make([]string, 0, len(s.Launch)+len(s.Process))
	for id := range s.Launch {
		out = append(out, id)
	}
	for id := range s.Process {
		if _, ok := s.Launch[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}

// LoadDevice 读取 dataPath 下的两类线索文件。
//
// 规则：
// - 文件不存在：对应 map 为空，不算错误（新建的设备通常两者都没有）
// - 文件存在但无法读取/解析：返回 error（上层报告为 hints_unreadable）
func LoadDevice(dataPath string, includeSystem bool) (Set, error) {
	set := Set{
		Launch:  map[string]domain.LaunchHints{},
		Process: map[string]domain.ProcessHints{},
	}

	if b, ok, err := readOptional(filepath.Join(dataPath, LaunchMapRelPath)); err != nil {
		return Set{}, err
	} else if ok {
		m, err := DecodeLaunchMap(b, includeSystem)
		if err != nil {
			return Set{}, err
		}
		set.Launch = m
	}

	if b, ok, err := readOptional(filepath.Join(dataPath, AppStateRelPath)); err != nil {
		return Set{}, err
	} else if ok {
		m, err := DecodeAppState(b)
		if err != nil {
			return Set{}, err
		}
		set.Process = m
	}

	return set, nil
}

// DecodeLaunchMap 解码 LastLaunchServicesMap.plist：
//
//	{ "User": {bundleID: {"BundleContainer": ..., "Container": ...}}, "System": {...} }
//
// 条目类型不对时跳过；同一 bundle ID 同时出现在 User 与 System 时以 User 为准。
func DecodeLaunchMap(data []byte, includeSystem bool) (map[string]domain.LaunchHints, error) {
	root, err := decodeDict(data, "LastLaunchServicesMap.plist")
	if err != nil {
		return nil, err
	}

	out := map[string]domain.LaunchHints{}
	sections := []string{sectionUser}
	if includeSystem {
		sections = append(sections, sectionSystem)
	}
	for _, sec := range sections {
		apps, ok := root[sec].(map[string]any)
		if !ok {
			continue
		}
		for id, v := range apps {
			if _, dup := out[id]; dup {
				continue
			}
			entry, ok := v.(map[string]any)
			if !ok {
				continue
			}
			out[id] = domain.LaunchHints{
				BundleContainer: stringOf(entry, keyBundleContainer),
				Container:       stringOf(entry, keyContainer),
			}
		}
	}
	return out, nil
}

// DecodeAppState 解码 applicationState.plist：
//
//	{ bundleID: {"compatibilityInfo": {"bundlePath": ..., "sandboxPath": ...}} }
//
// 没有 compatibilityInfo 的条目直接跳过。
func DecodeAppState(data []byte) (map[string]domain.ProcessHints, error) {
	root, err := decodeDict(data, "applicationState.plist")
	if err != nil {
		return nil, err
	}

	out := map[string]domain.ProcessHints{}
	for id, v := range root {
		entry, ok := v.(map[string]any)
		if !ok {
			continue
		}
		compat, ok := entry[keyCompatibilityInfo].(map[string]any)
		if !ok {
			continue
		}
		out[id] = domain.ProcessHints{
			BundlePath:  stringOf(compat, keyBundlePath),
			SandboxPath: stringOf(compat, keySandboxPath),
		}
	}
	return out, nil
}

func decodeDict(data []byte, what string) (map[string]any, error) {
	var root any
	if _, err := plist.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("解析 %s 失败：%w", what, err)
	}
	dict, ok := root.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s 根节点不是字典（%T）", what, root)
	}
	return dict, nil
}

func stringOf(dict map[string]any, key string) string {
	s, _ := dict[key].(string)
	return s
}

func readOptional(path string) ([]byte, bool, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return b, true, nil
}
