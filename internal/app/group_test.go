package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/John-Robertt/simdirs/internal/domain"
	"github.com/John-Robertt/simdirs/internal/hints"
)

func TestGroupByBundleID_StableAndLaunchFirst(t *testing.T) {
	root := t.TempDir()
	launch := filepath.Join(root, "launch")
	proc := filepath.Join(root, "proc")
	sandbox := filepath.Join(root, "sandbox")
	for _, d := range []string{launch, proc, sandbox} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			t.Fatalf("创建目录失败：%v", err)
		}
	}

	set := hints.Set{
		Launch: map[string]domain.LaunchHints{
			"com.b": {BundleContainer: launch},
		},
		Process: map[string]domain.ProcessHints{
			"com.b": {BundlePath: proc, SandboxPath: sandbox},
			"com.a": {BundlePath: filepath.Join(root, "missing")},
		},
	}

	recs := GroupByBundleID(set)
	if len(recs) != 2 {
		t.Fatalf("期望 2 条记录，实际 %d", len(recs))
	}
	if recs[0].BundleID() != "com.a" || recs[1].BundleID() != "com.b" {
		t.Fatalf("排序不符合预期：%q, %q", recs[0].BundleID(), recs[1].BundleID())
	}
	if recs[0].HasValidPaths() {
		t.Fatalf("com.a 的路径不存在，不应有效")
	}

	bp, _ := recs[1].BundlePath()
	sp, _ := recs[1].SandboxPath()
	if bp != launch {
		t.Fatalf("launch map 的 bundle 路径应优先：%q", bp)
	}
	if sp != sandbox {
		t.Fatalf("sandbox 应来自 process state：%q", sp)
	}
}
