package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew_WritesJSONToPath(t *testing.T) {
	out := filepath.Join(t.TempDir(), "log.jsonl")
	l, err := New(Config{Level: "debug", OutputPaths: []string{out}})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	l.Debug("hello")
	_ = l.Sync()

	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("读取日志失败：%v", err)
	}
	if !strings.Contains(string(b), `"msg":"hello"`) {
		t.Fatalf("日志内容不符合预期：%s", b)
	}
}

func TestNew_LevelFilters(t *testing.T) {
	out := filepath.Join(t.TempDir(), "log.jsonl")
	l, err := New(Config{Level: "warn", OutputPaths: []string{out}})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	l.Info("quiet")
	l.Warn("loud")
	_ = l.Sync()

	b, _ := os.ReadFile(out)
	if strings.Contains(string(b), "quiet") || !strings.Contains(string(b), "loud") {
		t.Fatalf("级别过滤不符合预期：%s", b)
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	if _, err := New(Config{Level: "loud"}); err == nil {
		t.Fatalf("期望非法级别报错")
	}
	if NewOrNop(Config{Level: "loud"}) == nil {
		t.Fatalf("NewOrNop 不应返回 nil")
	}
}

func TestNew_Sink(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Level: "info", Sink: &buf})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	l.Debug("hidden")
	l.Info("shown")

	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), `"msg":"shown"`) {
		t.Fatalf("sink 输出不符合预期：%s", buf.String())
	}
}
