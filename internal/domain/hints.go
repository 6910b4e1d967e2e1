package domain

// LaunchHints 来自“最近一次启动”映射（LastLaunchServicesMap.plist）的单个 app 条目。
// 空串表示该键缺失。
type LaunchHints struct {
	BundleContainer string // -> bundle path 候选
	Container       string // -> sandbox path 候选
}

// ProcessHints 来自进程状态（applicationState.plist 的 compatibilityInfo）的单个 app 条目。
// 空串表示该键缺失。
type ProcessHints struct {
	BundlePath  string
	SandboxPath string
}
