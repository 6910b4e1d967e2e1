// Package logging 基于 zap 构建结构化日志。
//
// 约束：日志只写 stderr（或指定路径），stdout 保留给 JSON 报告。
package logging

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config 描述日志配置。
type Config struct {
	Level       string // "debug", "info", "warn", "error"
	Development bool   // true：彩色 console 编码；false：JSON
	OutputPaths []string
	Sink        io.Writer // 非 nil 时忽略 OutputPaths，直接写入（CLI 测试用）
}

// DefaultConfig 返回 info 级别、JSON 编码、写 stderr 的配置。
func DefaultConfig() Config {
	return Config{
		Level:       "info",
		OutputPaths: []string{"stderr"},
	}
}

// New 按 cfg 构建 logger。
func New(cfg Config) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return nil, err
	}
	outputs := cfg.OutputPaths
	if len(outputs) == 0 {
		outputs = []string{"stderr"}
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoding := "json"
	if cfg.Development {
		encoderCfg = zap.NewDevelopmentEncoderConfig()
		encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoding = "console"
	}
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	if cfg.Sink != nil {
		var enc zapcore.Encoder = zapcore.NewJSONEncoder(encoderCfg)
		if cfg.Development {
			enc = zapcore.NewConsoleEncoder(encoderCfg)
		}
		return zap.New(zapcore.NewCore(enc, zapcore.AddSync(cfg.Sink), level)), nil
	}

	zcfg := zap.Config{
		Level:             zap.NewAtomicLevelAt(level),
		Development:       cfg.Development,
		Encoding:          encoding,
		EncoderConfig:     encoderCfg,
		OutputPaths:       outputs,
		ErrorOutputPaths:  []string{"stderr"},
		DisableStacktrace: !cfg.Development,
	}
	return zcfg.Build()
}

// NewOrNop 与 New 相同，但构建失败时回退为 no-op logger（日志不应阻断主流程）。
func NewOrNop(cfg Config) *zap.Logger {
	l, err := New(cfg)
	if err != nil {
		return zap.NewNop()
	}
	return l
}
