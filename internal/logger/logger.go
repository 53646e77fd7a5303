// Package logger 构建进程级 zerolog 日志器
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New 创建日志器：开发环境使用控制台格式，其余环境输出 JSON
func New(env, level string) zerolog.Logger {
	return NewWithWriter(env, level, os.Stderr)
}

// NewWithWriter 同 New，但可以指定输出目标
func NewWithWriter(env, level string, w io.Writer) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	out := w
	if env != "production" {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.DateTime}
	}

	return zerolog.New(out).Level(lvl).With().Timestamp().Str("service", "filmes").Logger()
}
