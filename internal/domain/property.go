package domain

import "encoding/json"

// ValueKind 区分属性值的两种形态：纯文本 / 文件系统位置。
type ValueKind int

const (
	ValueText ValueKind = iota
	ValueLocation
)

func (k ValueKind) String() string {
	switch k {
	case ValueLocation:
		return "location"
	default:
		return "text"
	}
}

// PropertyValue 是 Text(string) | Location(path) 的带标签联合。
//
// 约束：只能通过 Text / Location 构造；零值等价于 Text("")。
type PropertyValue struct {
	kind ValueKind
	s    string
}

func Text(s string) PropertyValue { return PropertyValue{kind: ValueText, s: s} }

func Location(path string) PropertyValue { return PropertyValue{kind: ValueLocation, s: path} }

func (v PropertyValue) Kind() ValueKind { return v.kind }

// String 返回文本内容或路径本身（展示层不必关心形态时使用）。
func (v PropertyValue) String() string { return v.s }

// Path 仅在 Kind()==ValueLocation 时返回 (path, true)。
func (v PropertyValue) Path() (string, bool) {
	if v.kind != ValueLocation {
		return "", false
	}
	return v.s, true
}

// Property 是属性面板中的一行：(title, typed value)。
type Property struct {
	Title string
	Value PropertyValue
}

type propertyJSON struct {
	Title string `json:"title"`
	Kind  string `json:"kind"`
	Value string `json:"value"`
}

func (p Property) MarshalJSON() ([]byte, error) {
	return json.Marshal(propertyJSON{
		Title: p.Title,
		Kind:  p.Value.Kind().String(),
		Value: p.Value.String(),
	})
}
