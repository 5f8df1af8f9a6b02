package check

import (
	"strings"
	"time"
)

// DateOptions 日期校验选项
// Min/Max 为日期字符串（如 "2024-01-01"），闭区间；为空表示不限制
type DateOptions struct {
	Min string
	Max string
}

// iso8601Layouts 支持的 ISO-8601 格式
// 注意：time.Parse 在秒之后会自动接受小数秒，无需单独列出
var iso8601Layouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"20060102T150405Z0700",
	"20060102T150405",
	"20060102",
	"2006-01",
	"2006",
}

// ParseDate 按 ISO-8601 解析日期字符串
// 不带时区的输入按 UTC 处理
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range iso8601Layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// toTime 将 string 或 time.Time 转换为时间
func toTime(value any) (time.Time, bool) {
	switch v := value.(type) {
	case time.Time:
		return v, !v.IsZero()
	case *time.Time:
		if v == nil || v.IsZero() {
			return time.Time{}, false
		}
		return *v, true
	case string:
		return ParseDate(v)
	}
	return time.Time{}, false
}

// IsValidDate 校验日期格式与范围
// 无法解析的边界会被忽略（与“边界未设置”一致）
func IsValidDate(value any, opts DateOptions) bool {
	t, ok := toTime(value)
	if !ok {
		return false
	}

	if opts.Min != "" {
		if min, ok := ParseDate(opts.Min); ok && t.Before(min) {
			return false
		}
	}

	if opts.Max != "" {
		if max, ok := ParseDate(opts.Max); ok && t.After(max) {
			return false
		}
	}

	return true
}
