package check

import "unicode/utf8"

// StringOptions 字符串校验选项，所有条件为“与”关系
type StringOptions struct {
	// MinLength 最小长度（按字符计），nil 表示不限制
	MinLength *int
	// MaxLength 最大长度（按字符计），nil 表示不限制
	MaxLength *int
	// Alphanumeric 仅允许 ASCII 字母和数字
	Alphanumeric bool
	// Alpha 仅允许 ASCII 字母
	Alpha bool
	// Pattern 必须匹配的模式
	Pattern Pattern
}

// IsValidString 校验字符串长度与内容
func IsValidString(value any, opts StringOptions) bool {
	s, ok := nonEmptyString(value)
	if !ok {
		return false
	}

	length := utf8.RuneCountInString(s)
	if opts.MinLength != nil && length < *opts.MinLength {
		return false
	}
	if opts.MaxLength != nil && length > *opts.MaxLength {
		return false
	}

	if opts.Alphanumeric && !matchTag(s, "alphanum") {
		return false
	}
	if opts.Alpha && !matchTag(s, "alpha") {
		return false
	}

	if opts.Pattern != nil && !opts.Pattern.MatchString(s) {
		return false
	}

	return true
}
