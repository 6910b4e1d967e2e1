package fsx

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestWriteFileAtomicReplace_SuccessAndNoTempLeft(t *testing.T) {
	dir := t.TempDir()

	if err := WriteFileAtomicReplace(dir, "a.png", []byte("old")); err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if err := WriteFileAtomicReplace(dir, "a.png", []byte("new")); err != nil {
		t.Fatalf("覆盖写入不期望错误：%v", err)
	}

	b, err := os.ReadFile(filepath.Join(dir, "a.png"))
	if err != nil {
		t.Fatalf("读取文件失败：%v", err)
	}
	if string(b) != "new" {
		t.Fatalf("内容不一致：%q", string(b))
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir 失败：%v", err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".a.png.tmp-") {
			t.Fatalf("临时文件未清理：%q", e.Name())
		}
	}
}

func TestWriteFileAtomicReplace_RenameFail_CleanupTemp(t *testing.T) {
	dir := t.TempDir()

	old := renameFunc
	renameFunc = func(oldpath, newpath string) error {
		return os.ErrPermission
	}
	defer func() { renameFunc = old }()

	if err := WriteFileAtomicReplace(dir, "a.png", []byte("x")); err == nil {
		t.Fatalf("期望失败，但得到 nil")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir 失败：%v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("rename 失败后目录应为空，实际：%v", entries)
	}
}

func TestExists(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "f")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatalf("写入文件失败：%v", err)
	}

	if !Exists(dir) || !Exists(f) {
		t.Fatalf("目录与文件都应存在")
	}
	if Exists(filepath.Join(dir, "missing")) {
		t.Fatalf("不存在的路径不应返回 true")
	}
	if Exists("") || Exists("   ") {
		t.Fatalf("空路径不应返回 true")
	}
}

func TestChildren_OneLevelSkipHidden(t *testing.T) {
	dir := t.TempDir()
	for _, p := range []string{
		filepath.Join(dir, "b.app", "Info.plist"),
		filepath.Join(dir, "a", "nested.app", "x"),
		filepath.Join(dir, ".hidden.app", "x"),
		filepath.Join(dir, "c.txt"),
	} {
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("创建目录失败：%v", err)
		}
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatalf("写入文件失败：%v", err)
		}
	}

	got, err := Children(dir)
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	want := []string{
		filepath.Join(dir, "a"),
		filepath.Join(dir, "b.app"),
		filepath.Join(dir, "c.txt"),
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("子项不符合预期：\n got=%v\nwant=%v", got, want)
	}
}

func TestChildren_MissingDir(t *testing.T) {
	if _, err := Children(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatalf("期望错误，但得到 nil")
	}
}
