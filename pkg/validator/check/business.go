package check

import (
	"reflect"
	"regexp"
	"slices"
	"strings"
	"time"
)

// 业务规则常量
const (
	// minHierarchyLevel 客户/产品层级的最小值
	minHierarchyLevel = 1
	// maxHierarchyLevel 客户/产品层级的最大值
	maxHierarchyLevel = 5
)

var (
	// objectIDRegex 24 位十六进制的文档 ID
	objectIDRegex = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)

	// supportedCurrencies 平台支持的结算币种
	supportedCurrencies = []string{"USD", "EUR", "GBP", "JPY", "CNY", "INR"}
)

// SupportedCurrencies 返回支持的币种列表（副本）
func SupportedCurrencies() []string {
	return slices.Clone(supportedCurrencies)
}

// IsObjectID 校验 24 位十六进制文档 ID
func IsObjectID(value any) bool {
	s, ok := nonEmptyString(value)
	return ok && objectIDRegex.MatchString(s)
}

// IsValidPercentage 校验百分比（0-100，闭区间）
func IsValidPercentage(value any) bool {
	n, ok := ToNumber(value)
	return ok && n >= 0 && n <= 100
}

// IsValidCurrency 校验币种代码
func IsValidCurrency(value any) bool {
	s, ok := nonEmptyString(value)
	return ok && slices.Contains(supportedCurrencies, s)
}

// IsAllowedEmailDomain 校验邮箱域名是否在白名单中（不区分大小写）
func IsAllowedEmailDomain(value any, allowedDomains ...string) bool {
	if !IsValidEmail(value) {
		return false
	}
	email := value.(string)
	domain := strings.ToLower(email[strings.LastIndex(email, "@")+1:])
	return slices.ContainsFunc(allowedDomains, func(d string) bool {
		return strings.ToLower(d) == domain
	})
}

// HasUniqueValues 判断切片元素是否互不相同
// 元素不可比较（如 map、slice）时返回 false
func HasUniqueValues(value any) bool {
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return false
	}

	seen := make(map[any]struct{}, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		elem := rv.Index(i).Interface()
		if elem != nil && !reflect.TypeOf(elem).Comparable() {
			return false
		}
		if _, dup := seen[elem]; dup {
			return false
		}
		seen[elem] = struct{}{}
	}
	return true
}

// IsValidHierarchyLevel 校验层级（1-5 的整数）
func IsValidHierarchyLevel(value any) bool {
	return IsValidNumber(value, NumberOptions{
		Min:     floatPtr(minHierarchyLevel),
		Max:     floatPtr(maxHierarchyLevel),
		Integer: true,
	})
}

// IsValidDateRange 校验开始时间严格早于结束时间
func IsValidDateRange(start, end any) bool {
	s, ok := toTime(start)
	if !ok {
		return false
	}
	e, ok := toTime(end)
	if !ok {
		return false
	}
	return s.Before(e)
}

// IsFutureDate 判断日期是否晚于 now
func IsFutureDate(value any, now time.Time) bool {
	t, ok := toTime(value)
	return ok && t.After(now)
}

// IsPastDate 判断日期是否早于 now
func IsPastDate(value any, now time.Time) bool {
	t, ok := toTime(value)
	return ok && t.Before(now)
}

func floatPtr(f float64) *float64 {
	return &f
}
