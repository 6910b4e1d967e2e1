package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

const (
	// ErrCodeInvalid 表示配置文件/环境变量无法读取、解析，或字段不合法。
	ErrCodeInvalid = "config_invalid"
	// ErrCodeRootNotFound 表示最终生效的 Devices 根目录不存在。
	ErrCodeRootNotFound = "root_not_found"
)

const (
	// FileName 是工作目录下可选的配置文件名。
	FileName = "simdirs.json"
	// EnvPrefix 是环境变量前缀（SIMDIRS_ROOT 等）。
	EnvPrefix = "SIMDIRS"

	DefaultConcurrency = 4
	DefaultLogLevel    = "info"
)

// DefaultRootRel 是相对用户主目录的 CoreSimulator 设备根目录。
var DefaultRootRel = filepath.Join("Library", "Developer", "CoreSimulator", "Devices")

// CLIArgs 保留“是否显式指定”的信息，保证 --apply=false 之类的覆盖可实现。
type CLIArgs struct {
	Root string

	Concurrency    int
	ConcurrencySet bool

	Devices []string

	IncludeSystem    bool
	IncludeSystemSet bool

	IconDir string

	Apply    bool
	ApplySet bool

	LogLevel string
}

// FileConfig 对应 simdirs.json 的解析结构。
type FileConfig struct {
	Root          string   `json:"root"`
	Concurrency   int      `json:"concurrency"`
	Devices       []string `json:"devices"`
	IncludeSystem *bool    `json:"include_system"`
	IconDir       string   `json:"icon_dir"`
	Apply         *bool    `json:"apply"`
	LogLevel      string   `json:"log_level"`
}

// EnvConfig 是 SIMDIRS_* 环境变量；零值表示未设置。
//
// 注意：不要用 envconfig:"..." 标签，否则 envconfig 会回退读取无前缀的同名变量（如 LOG_LEVEL）。
type EnvConfig struct {
	Root        string
	Concurrency int
	IconDir     string `split_words:"true"`
	LogLevel    string `split_words:"true"`
}

// EffectiveConfig 是合并并规范化后的最终配置（实现层直接消费，不再做二次默认/优先级判断）。
type EffectiveConfig struct {
	Root          string
	Concurrency   int
	Devices       []string
	IncludeSystem bool
	IconDir       string // 空串表示不导出图标
	Apply         bool   // false 时图标导出只计算路径（dry-run）
	LogLevel      string
}

// Error 是配置阶段的结构化错误（带 error_code）。
type Error struct {
	Code string
	Path string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Code == ErrCodeRootNotFound:
		return fmt.Sprintf("%s：设备根目录 %q 不存在", e.Code, e.Path)
	case e.Err != nil && e.Path != "":
		return fmt.Sprintf("%s：%q 无效：%v", e.Code, e.Path, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s：%v", e.Code, e.Err)
	default:
		return e.Code
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Code 从 error 中提取 error_code；若不是 *Error 则返回空串。
func Code(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// LoadEffective 读取 <cwd>/simdirs.json（可选）与 SIMDIRS_* 环境变量，并与 CLI 参数合并。
//
// 覆盖优先级（固定）：CLI > 环境变量 > 配置文件 > 内置默认。
// 相对路径一律以 cwd 为基准。
func LoadEffective(cwd string, cli CLIArgs) (EffectiveConfig, error) {
	cwdAbs, err := filepath.Abs(cwd)
	if err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cwd, Err: err}
	}

	cfgPath := filepath.Join(cwdAbs, FileName)
	fc, _, err := readFileConfig(cfgPath)
	if err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: err}
	}

	var env EnvConfig
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Err: fmt.Errorf("环境变量无效：%w", err)}
	}

	return merge(cwdAbs, cli, env, fc, cfgPath)
}

func merge(cwdAbs string, cli CLIArgs, env EnvConfig, fc FileConfig, cfgPath string) (EffectiveConfig, error) {
	root := firstNonEmpty(cli.Root, env.Root, fc.Root)
	if root == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Err: fmt.Errorf("无法确定默认设备根目录：%w", err)}
		}
		root = filepath.Join(home, DefaultRootRel)
	}
	root = absCleanFrom(cwdAbs, root)

	concurrency := fc.Concurrency
	if env.Concurrency != 0 {
		concurrency = env.Concurrency
	}
	if cli.ConcurrencySet {
		concurrency = cli.Concurrency
	}
	if concurrency == 0 {
		concurrency = DefaultConcurrency
	}
	// 范围 [1, 32]；超出截断。
	if concurrency < 1 {
		concurrency = 1
	}
	if concurrency > 32 {
		concurrency = 32
	}

	devices := fc.Devices
	if len(cli.Devices) > 0 {
		devices = cli.Devices
	}

	includeSystem := false
	if cli.IncludeSystemSet {
		includeSystem = cli.IncludeSystem
	} else if fc.IncludeSystem != nil {
		includeSystem = *fc.IncludeSystem
	}

	apply := false
	if cli.ApplySet {
		apply = cli.Apply
	} else if fc.Apply != nil {
		apply = *fc.Apply
	}

	iconDir := firstNonEmpty(cli.IconDir, env.IconDir, fc.IconDir)
	if iconDir != "" {
		iconDir = absCleanFrom(cwdAbs, iconDir)
	}

	logLevel := strings.ToLower(firstNonEmpty(cli.LogLevel, env.LogLevel, fc.LogLevel))
	if logLevel == "" {
		logLevel = DefaultLogLevel
	}
	if err := validateLogLevel(logLevel); err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: err}
	}

	if fi, err := os.Stat(root); err != nil || !fi.IsDir() {
		return EffectiveConfig{}, &Error{Code: ErrCodeRootNotFound, Path: root, Err: os.ErrNotExist}
	}

	return EffectiveConfig{
		Root:          root,
		Concurrency:   concurrency,
		Devices:       append([]string(nil), devices...),
		IncludeSystem: includeSystem,
		IconDir:       iconDir,
		Apply:         apply,
		LogLevel:      logLevel,
	}, nil
}

func validateLogLevel(l string) error {
	switch l {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("log_level 只能是 debug/info/warn/error，实际是 %q", l)
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// absCleanFrom 以 base 为基准，把 p 变为 clean + absolute。
func absCleanFrom(base, p string) string {
	p = filepath.Clean(strings.TrimSpace(p))
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Clean(filepath.Join(base, p))
}

// readFileConfig 读取并解析 JSON 配置文件。
// 返回值 exists 表示该文件是否存在（不存在不算错误）。
func readFileConfig(path string) (fc FileConfig, exists bool, err error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, false, nil
		}
		return FileConfig{}, false, err
	}
	if err := json.Unmarshal(b, &fc); err != nil {
		return FileConfig{}, true, err
	}
	return fc, true, nil
}
