package domain

import "github.com/google/uuid"

// Device 描述 CoreSimulator Devices 根目录下的一个模拟器设备目录。
//
// 不变量：
// - UDID 与目录名一致（目录名必须能解析为 UUID）
// - DataPath = <Dir>/data（不保证存在；hints 缺失时按空处理）
type Device struct {
	UDID       uuid.UUID
	Name       string
	Runtime    string
	DeviceType string
	Dir        string
	DataPath   string
}

// Key 返回设备在输出里使用的稳定标识（大写 UDID，与 simctl 保持一致）。
func (d Device) Key() string {
	return upperUUID(d.UDID)
}

func upperUUID(u uuid.UUID) string {
	b := []byte(u.String())
	for i, c := range b {
		if c >= 'a' && c <= 'f' {
			b[i] = c - 'a' + 'A'
		}
	}
	return string(b)
}
