package manifest

// iconKind 区分 CFBundlePrimaryIcon 的两种形态。
type iconKind int

const (
	iconNone iconKind = iota
	iconSingle
	iconList
)

// IconRef 是主图标描述的规范化表示：SingleName(string) | NameList([]string)。
//
// plist 中 CFBundlePrimaryIcon 既可能是字符串，也可能是带 CFBundleIconFiles 的字典；
// 在解析边界统一为 IconRef，选图阶段只通过 Files() 消费列表形态。
type IconRef struct {
	kind   iconKind
	single string
	names  []string
}

func SingleName(name string) IconRef {
	return IconRef{kind: iconSingle, single: name}
}

func NameList(names []string) IconRef {
	return IconRef{kind: iconList, names: append([]string(nil), names...)}
}

// IsZero 表示 manifest 中没有可用的主图标描述。
func (r IconRef) IsZero() bool { return r.kind == iconNone }

// Files 把两种形态折叠为文件名列表（保持原顺序）；没有描述时返回 nil。
func (r IconRef) Files() []string {
	switch r.kind {
	case iconSingle:
		return []string{r.single}
	case iconList:
		return append([]string(nil), r.names...)
	default:
		return nil
	}
}
