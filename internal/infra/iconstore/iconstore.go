package iconstore

import (
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/John-Robertt/simdirs/internal/domain"
	"github.com/John-Robertt/simdirs/internal/infra/fsx"
	"github.com/John-Robertt/simdirs/internal/infra/imgx"
)

// Store 负责把选中的图标导出为 <Root>/<device>/<bundleID>.png。
//
// 约束：
// - dry-run：只允许计算路径（ReadOnly=true）
// - apply：允许写（ReadOnly=false），写入为原子替换
type Store struct {
	Root     string
	ReadOnly bool
}

var ErrReadOnly = errors.New("iconstore: read-only")

func New(root string, readOnly bool) Store {
	return Store{
		Root:     filepath.Clean(strings.TrimSpace(root)),
		ReadOnly: readOnly,
	}
}

// IconPath 返回导出文件的绝对路径（不检查是否存在）。
func (s Store) IconPath(device string, bundleID string) (string, error) {
	dir, name, err := s.split(device, bundleID)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

// WriteIcon 把 img 编码为 PNG 并写入；返回写入的路径。
func (s Store) WriteIcon(device string, bundleID string, img image.Image) (string, error) {
	if s.ReadOnly {
		return "", ErrReadOnly
	}
	dir, name, err := s.split(device, bundleID)
	if err != nil {
		return "", err
	}
	b, err := imgx.EncodePNG(img)
	if err != nil {
		return "", err
	}
	if err := fsx.WriteFileAtomicReplace(dir, name, b); err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

var deviceKeyRE = regexp.MustCompile(`^[A-Za-z0-9-]+$`)

func (s Store) split(device string, bundleID string) (dir, name string, err error) {
	if s.Root == "" || s.Root == "." {
		return "", "", fmt.Errorf("icon 导出目录不能为空")
	}
	device = strings.TrimSpace(device)
	// 最小约束：避免路径穿越；device 本身是 UDID，这里不做更多“聪明”处理。
	if !deviceKeyRE.MatchString(device) {
		return "", "", fmt.Errorf("非法 device：%q", device)
	}
	id, ok := domain.ParseBundleID(bundleID)
	if !ok {
		return "", "", fmt.Errorf("非法 bundle ID：%q", bundleID)
	}
	return filepath.Join(s.Root, device), string(id) + ".png", nil
}
