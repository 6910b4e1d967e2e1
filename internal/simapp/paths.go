package simapp

import (
	"path/filepath"
	"strings"

	"github.com/John-Robertt/simdirs/internal/domain"
	"github.com/John-Robertt/simdirs/internal/infra/fsx"
)

// appMarker 是判断“看起来像 app bundle”的子串（区分大小写）。
const appMarker = ".app"

// SetBundlePath 尝试设置 bundle path；单元已有值或路径不存在时静默忽略。
func (r *Record) SetBundlePath(candidate string) bool { return r.bundle.TrySet(candidate) }

// SetSandboxPath 尝试设置 sandbox path；单元已有值或路径不存在时静默忽略。
func (r *Record) SetSandboxPath(candidate string) bool { return r.sandbox.TrySet(candidate) }

// ApplyLaunchHints 应用“最近一次启动”线索。缺失的键（空串）不会生效。
func (r *Record) ApplyLaunchHints(h domain.LaunchHints) {
	r.SetBundlePath(h.BundleContainer)
	r.SetSandboxPath(h.Container)
}

// ApplyProcessHints 应用进程状态线索。缺失的键（空串）不会生效。
func (r *Record) ApplyProcessHints(h domain.ProcessHints) {
	r.SetBundlePath(h.BundlePath)
	r.SetSandboxPath(h.SandboxPath)
}

// RefinePaths 把“容器目录”形态的 bundle path 细化为其中真正的 .app。
//
// 规则：
// - bundle path 为空：no-op
// - 末级目录名已包含 ".app"：no-op
// - 否则只枚举一层直接子项（跳过隐藏项，不递归），第一个名字包含 ".app" 的子项覆盖 bundle path
// - 找不到或目录不可读：保持不变
func (r *Record) RefinePaths() {
	current, ok := r.bundle.Get()
	if !ok {
		return
	}
	if strings.Contains(filepath.Base(current), appMarker) {
		return
	}

	children, err := fsx.Children(current)
	if err != nil {
		return
	}
	for _, child := range children {
		if strings.Contains(filepath.Base(child), appMarker) {
			r.bundle.refine(child)
			return
		}
	}
}
