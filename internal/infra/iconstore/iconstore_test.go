package iconstore

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/John-Robertt/simdirs/internal/infra/imgx"
)

const dev = "0F3C1E2A-1111-4A4A-8B8B-000000000001"

func TestStore_WriteIcon(t *testing.T) {
	root := t.TempDir()
	s := New(root, false)

	path, err := s.WriteIcon(dev, "com.example.Foo", imgx.DefaultIcon())
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	want := filepath.Join(root, dev, "com.example.Foo.png")
	if path != want {
		t.Fatalf("路径不符合预期：got=%q want=%q", path, want)
	}

	img, err := imgx.DecodeFile(path)
	if err != nil {
		t.Fatalf("导出的 PNG 无法解码：%v", err)
	}
	if imgx.Width(img) != imgx.DefaultIconSize {
		t.Fatalf("导出尺寸不符合预期：%d", imgx.Width(img))
	}
}

func TestStore_ReadOnlyRejectWrite(t *testing.T) {
	root := t.TempDir()
	s := New(root, true)

	_, err := s.WriteIcon(dev, "com.example.Foo", imgx.DefaultIcon())
	if !errors.Is(err, ErrReadOnly) {
		t.Fatalf("期望 ErrReadOnly，实际：%v", err)
	}

	path, err := s.IconPath(dev, "com.example.Foo")
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("期望文件不存在，但 Stat err=%v", err)
	}
}

func TestStore_RejectTraversal(t *testing.T) {
	s := New(t.TempDir(), false)
	for _, tc := range []struct{ device, id string }{
		{"../x", "com.example.Foo"},
		{dev, "../../etc/passwd"},
		{dev, ""},
		{"", "com.example.Foo"},
	} {
		if _, err := s.IconPath(tc.device, tc.id); err == nil {
			t.Fatalf("期望非法输入报错：%+v", tc)
		}
	}

	if _, err := New("", false).IconPath(dev, "com.example.Foo"); err == nil {
		t.Fatalf("期望空 root 报错")
	}
}
