// Package logger 基于log/slog的结构化日志
//
// 使用方式：
//
//	log, err := logger.New(logger.Config{Level: "info", Format: "json", Output: "stdout"})
//	log.Info("服务启动", "port", 8080)
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

const (
	FormatJSON = "json"
	FormatText = "console"
)

// Logger 对slog.Logger的轻量封装
type Logger struct {
	*slog.Logger
	closer io.Closer
}

// Config 日志配置（对应config.LogConfig）
type Config struct {
	Level     string    // debug | info | warn | error
	Format    string    // console | json
	Output    string    // stdout | stderr | /path/to/file
	AddSource bool      // 是否输出调用位置
	Writer    io.Writer // 测试时注入，优先于Output
}

// New 根据配置创建Logger
func New(cfg Config) (*Logger, error) {
	w := cfg.Writer
	var closer io.Closer
	if w == nil {
		switch strings.ToLower(cfg.Output) {
		case "", "stdout":
			w = os.Stdout
		case "stderr":
			w = os.Stderr
		default:
			if err := os.MkdirAll(filepath.Dir(cfg.Output), 0o755); err != nil {
				return nil, fmt.Errorf("创建日志目录失败: %w", err)
			}
			f, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				return nil, fmt.Errorf("打开日志文件失败: %w", err)
			}
			w, closer = f, f
		}
	}

	opts := &slog.HandlerOptions{
		Level:     ParseLevel(cfg.Level),
		AddSource: cfg.AddSource,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			// 只保留文件名，避免输出完整构建路径
			if a.Key == slog.SourceKey {
				if source, ok := a.Value.Any().(*slog.Source); ok {
					source.File = filepath.Base(source.File)
				}
			}
			return a
		},
	}

	var handler slog.Handler
	if strings.ToLower(cfg.Format) == FormatJSON {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return &Logger{Logger: slog.New(handler), closer: closer}, nil
}

// Nop 丢弃所有输出（测试使用）
func Nop() *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// Close 关闭日志文件（输出到stdout时为空操作）
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

// With 返回附加了固定字段的Logger
func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...), closer: l.closer}
}

// ParseLevel 字符串转slog.Level，未知值按info处理
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type ctxKey struct{}

// IntoContext 将Logger放入context（请求级日志，携带request_id）
func IntoContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext 取出请求级Logger，不存在时返回fallback
func FromContext(ctx context.Context, fallback *Logger) *Logger {
	if l, ok := ctx.Value(ctxKey{}).(*Logger); ok && l != nil {
		return l
	}
	return fallback
}
