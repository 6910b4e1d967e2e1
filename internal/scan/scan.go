package scan

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"howett.net/plist"

	"github.com/John-Robertt/simdirs/internal/domain"
	"github.com/John-Robertt/simdirs/internal/infra/fsx"
)

// DevicePlist 是设备目录内描述设备本身的 plist 文件名。
const DevicePlist = "device.plist"

// BadDevice 表示目录名是合法 UDID、也有 device.plist，但 plist 无法解析。
type BadDevice struct {
	UDID uuid.UUID
	Dir  string
	Err  error
}

// Key 与 domain.Device.Key 保持一致（大写 UDID）。
func (b BadDevice) Key() string {
	return domain.Device{UDID: b.UDID}.Key()
}

type devicePlist struct {
	UDID       string `plist:"UDID"`
	Name       string `plist:"name"`
	Runtime    string `plist:"runtime"`
	DeviceType string `plist:"deviceType"`
}

// ScanDevices 列出 root 下的模拟器设备目录。
//
// 规则（硬约束）：
// - 只看 root 的直接子项，不递归
// - 目录名必须能解析为 UUID，且目录内存在 device.plist；否则不是设备，直接忽略
// - only 非空时只保留其中的 UDID（大小写不敏感）
// - 输出稳定：按 Name，再按 UDID 排序
func ScanDevices(root string, only []string) ([]domain.Device, []BadDevice, error) {
	root = filepath.Clean(root)
	children, err := fsx.Children(root)
	if err != nil {
		return nil, nil, err
	}

	filter, err := buildFilter(only)
	if err != nil {
		return nil, nil, err
	}

	devices := make([]domain.Device, 0, len(children))
	var bad []BadDevice
	for _, dir := range children {
		id, err := uuid.Parse(filepath.Base(dir))
		if err != nil {
			continue
		}
		if len(filter) > 0 {
			if _, ok := filter[id]; !ok {
				continue
			}
		}

		b, err := os.ReadFile(filepath.Join(dir, DevicePlist))
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			bad = append(bad, BadDevice{UDID: id, Dir: dir, Err: err})
			continue
		}
		var dp devicePlist
		if _, err := plist.Unmarshal(b, &dp); err != nil {
			bad = append(bad, BadDevice{UDID: id, Dir: dir, Err: fmt.Errorf("解析 %s 失败：%w", DevicePlist, err)})
			continue
		}

		devices = append(devices, domain.Device{
			UDID:       id,
			Name:       strings.TrimSpace(dp.Name),
			Runtime:    strings.TrimSpace(dp.Runtime),
			DeviceType: strings.TrimSpace(dp.DeviceType),
			Dir:        dir,
			DataPath:   filepath.Join(dir, "data"),
		})
	}

	sort.SliceStable(devices, func(i, j int) bool {
		if devices[i].Name != devices[j].Name {
			return devices[i].Name < devices[j].Name
		}
		return devices[i].Key() < devices[j].Key()
	})
	sort.SliceStable(bad, func(i, j int) bool { return bad[i].Key() < bad[j].Key() })
	return devices, bad, nil
}

func buildFilter(only []string) (map[uuid.UUID]struct{}, error) {
	if len(only) == 0 {
		return nil, nil
	}
	out := make(map[uuid.UUID]struct{}, len(only))
	for _, s := range only {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("非法 UDID：%q", s)
		}
		out[id] = struct{}{}
	}
	return out, nil
}
