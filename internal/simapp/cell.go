package simapp

import "github.com/John-Robertt/simdirs/internal/infra/fsx"

// PathCell 是“只写一次且必须有效”的路径单元。
//
// 规则（在类型边界强制）：
// - 仅当单元为空且候选路径存在时接受赋值
// - 其余情况静默丢弃（不是错误），TrySet 返回 false
type PathCell struct {
	path string
	set  bool
}

// TrySet 尝试写入 candidate；返回是否被接受。
func (c *PathCell) TrySet(candidate string) bool {
	if c.set || !fsx.Exists(candidate) {
		return false
	}
	c.path = candidate
	c.set = true
	return true
}

// Get 返回 (path, true)；单元为空时返回 ("", false)。
func (c *PathCell) Get() (string, bool) {
	return c.path, c.set
}

// IsSet 表示单元是否已有值。
func (c *PathCell) IsSet() bool { return c.set }

// refine 是唯一绕过“只写一次”的入口，仅供 RefinePaths 在扫描完成前使用。
func (c *PathCell) refine(path string) {
	c.path = path
	c.set = true
}
