package domain

import (
	"regexp"
	"strings"
)

// BundleID 是 app 的唯一标识（反向 DNS 形态，如 com.example.Foo）。
//
// 约束：BundleID 会被用作导出文件名的一部分，因此只允许安全字符集，避免路径穿越。
type BundleID string

var bundleIDRE = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ParseBundleID 校验并返回 BundleID（首字符必须是字母或数字，因此 "."/".." 不可能通过）。
func ParseBundleID(s string) (BundleID, bool) {
	s = strings.TrimSpace(s)
	if !bundleIDRE.MatchString(s) {
		return "", false
	}
	return BundleID(s), true
}
