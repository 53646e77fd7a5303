package utils

import (
	"errors"
	"strings"
	"time"
)

// ErrInvalidDate 无法识别的日期格式
var ErrInvalidDate = errors.New("invalid date")

// 按优先级尝试的日期格式
var dateLayouts = []string{
	time.DateOnly,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	time.DateTime,
	"2006/01/02",
}

// ParseDate 解析客户端传入的日期字符串
// 不带时区的值按 UTC 处理
func ParseDate(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, ErrInvalidDate
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, ErrInvalidDate
}
