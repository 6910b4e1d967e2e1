package imgx

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"  // 注册 GIF 解码器
	_ "image/jpeg" // 注册 JPEG 解码器
	"image/png"
	"os"
	"sync"

	"github.com/gabriel-vasile/mimetype"
)

// ErrNotImage 表示文件存在，但内容嗅探结果不是可解码的图片格式。
var ErrNotImage = errors.New("imgx: 不是可解码的图片")

// DecodeFile 解码 path 处的图片文件。
//
// 约束：
// - 先用 mimetype 嗅探内容，只接受 png/jpeg/gif（避免把 plist/car 等文件喂给解码器）
// - 文件不存在、不可读、格式不支持、解码失败都返回 error；调用方自行决定是否忽略
func DecodeFile(path string) (image.Image, error) {
	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return nil, err
	}
	if !mt.Is("image/png") && !mt.Is("image/jpeg") && !mt.Is("image/gif") {
		return nil, fmt.Errorf("%w：%q（%s）", ErrNotImage, path, mt.String())
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, err
	}
	if b := img.Bounds(); b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, errors.New("图片尺寸无效")
	}
	return img, nil
}

// Width 返回图片宽度；nil 视为 0。
func Width(img image.Image) int {
	if img == nil {
		return 0
	}
	return img.Bounds().Dx()
}

// EncodePNG 把图片编码为 PNG（用于导出图标）。
func EncodePNG(img image.Image) ([]byte, error) {
	if img == nil {
		return nil, errors.New("图片为空")
	}
	var out bytes.Buffer
	if err := png.Encode(&out, img); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// DefaultIconSize 是内置默认图标的边长（像素）。
const DefaultIconSize = 64

var (
	defaultIconOnce sync.Once
	defaultIcon     *image.NRGBA
)

// DefaultIcon 返回内置的默认图标（进程内单例）。
//
// 约束：每次返回同一个实例，调用方不得修改像素；IsDefaultIcon 依赖实例相等判断。
func DefaultIcon() image.Image {
	defaultIconOnce.Do(func() {
		defaultIcon = drawDefaultIcon(DefaultIconSize)
	})
	return defaultIcon
}

// IsDefaultIcon 判断 img 是否就是 DefaultIcon 返回的实例。
func IsDefaultIcon(img image.Image) bool {
	p, ok := img.(*image.NRGBA)
	return ok && p == DefaultIcon()
}

// drawDefaultIcon 画一个圆角灰色方块，与模拟器主屏上“无图标 app”的占位形态接近。
func drawDefaultIcon(size int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	fill := color.NRGBA{R: 0xC7, G: 0xC7, B: 0xCC, A: 0xFF}
	r := size / 5
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if insideRoundedRect(x, y, size, r) {
				img.SetNRGBA(x, y, fill)
			}
		}
	}
	return img
}

func insideRoundedRect(x, y, size, r int) bool {
	cx, cy := x, y
	switch {
	case x < r:
		cx = r
	case x >= size-r:
		cx = size - r - 1
	}
	switch {
	case y < r:
		cy = r
	case y >= size-r:
		cy = size - r - 1
	}
	dx, dy := x-cx, y-cy
	return dx*dx+dy*dy <= r*r
}
