package domain

import "image"

// OutlineNode 是树形浏览视图消费的能力。
type OutlineNode interface {
	OutlineTitle() string
	OutlineImage() image.Image
	ChildCount() int
	// ChildAt 越界时返回 nil。
	ChildAt(i int) OutlineNode
}

// PropertyPanel 是属性面板消费的能力：标题、图标、有序属性列表。
//
// 约束：Properties 的顺序稳定，且只返回可直接渲染的数据（不返回 error）。
type PropertyPanel interface {
	Header() string
	Image() image.Image
	Properties() []Property
}
