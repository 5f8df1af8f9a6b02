package check

import "math"

// NumberOptions 数值校验选项
type NumberOptions struct {
	// Min 最小值（闭区间），nil 表示不限制
	Min *float64
	// Max 最大值（闭区间），nil 表示不限制
	Max *float64
	// Integer 是否要求整数
	Integer bool
}

// IsInteger 判断浮点数是否为整数
func IsInteger(f float64) bool {
	return f == math.Trunc(f)
}

// IsValidNumber 校验数值及数字字符串
func IsValidNumber(value any, opts NumberOptions) bool {
	n, ok := ToNumber(value)
	if !ok {
		return false
	}

	if opts.Min != nil && n < *opts.Min {
		return false
	}
	if opts.Max != nil && n > *opts.Max {
		return false
	}
	if opts.Integer && !IsInteger(n) {
		return false
	}

	return true
}
