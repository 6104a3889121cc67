package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log 全局日志实例，Init 之前为 Nop
var Log = zap.NewNop()

var sensitiveKeys = []string{
	"password",
	"token",
	"secret",
	"authorization",
	"access_key",
}

// Init 根据环境和级别构建 zap 日志
func Init(env, level, encoding string) (*zap.Logger, error) {
	var cfg zap.Config
	if strings.EqualFold(env, "dev") || strings.EqualFold(env, "development") {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}

	if level != "" {
		if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
			return nil, fmt.Errorf("invalid log level: %w", err)
		}
	}
	if encoding != "" {
		cfg.Encoding = encoding
	}

	l, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build zap logger failed: %w", err)
	}

	Log = l
	return l, nil
}

// Sanitize 屏蔽敏感字段
func Sanitize(fields ...zap.Field) []zap.Field {
	out := make([]zap.Field, 0, len(fields))
	for _, f := range fields {
		if isSensitive(f.Key) {
			out = append(out, zap.String(f.Key, "***"))
			continue
		}
		out = append(out, f)
	}
	return out
}

func isSensitive(key string) bool {
	k := strings.ToLower(key)
	for _, s := range sensitiveKeys {
		if strings.Contains(k, s) {
			return true
		}
	}
	return false
}

// Sync 刷新缓冲
func Sync() {
	_ = Log.Sync()
}

// Named 返回带名称的子日志，nil 时回退到全局
func Named(base *zap.Logger, name string) *zap.Logger {
	if base == nil {
		base = Log
	}
	return base.Named(name).WithOptions(zap.AddStacktrace(zapcore.ErrorLevel))
}
