package check

import (
	"regexp"
	"slices"
	"sort"
)

// PhoneLocaleAny 匹配任意已支持地区
const PhoneLocaleAny = "any"

// phoneLocales 各地区手机号格式
var phoneLocales = map[string]*regexp.Regexp{
	"en-US": regexp.MustCompile(`^((\+1|1)?( |-)?)?(\([2-9][0-9]{2}\)|[2-9][0-9]{2})( |-)?([2-9][0-9]{2}( |-)?[0-9]{4})$`),
	"en-CA": regexp.MustCompile(`^((\+1|1)?( |-)?)?(\([2-9][0-9]{2}\)|[2-9][0-9]{2})( |-)?([2-9][0-9]{2}( |-)?[0-9]{4})$`),
	"en-GB": regexp.MustCompile(`^(\+?44|0)7\d{9}$`),
	"en-ZA": regexp.MustCompile(`^(\+?27|0)\d{9}$`),
	"en-KE": regexp.MustCompile(`^(\+?254|0)(7|1)\d{8}$`),
	"en-NG": regexp.MustCompile(`^(\+?234|0)?[789]\d{9}$`),
	"en-IN": regexp.MustCompile(`^(\+?91|0)?[6789]\d{9}$`),
	"en-AU": regexp.MustCompile(`^(\+?61|0)4\d{8}$`),
	"de-DE": regexp.MustCompile(`^((\+49|0)1)(5[0-25-9]\d|6([23]|0\d?)|7([0-57-9]|6\d))\d{7,9}$`),
	"fr-FR": regexp.MustCompile(`^(\+?33|0)[67]\d{8}$`),
	"es-ES": regexp.MustCompile(`^(\+?34)?[67]\d{8}$`),
	"it-IT": regexp.MustCompile(`^(\+?39)?\s?3\d{2} ?\d{6,7}$`),
	"nl-NL": regexp.MustCompile(`^(((\+|00)?31\(0\))|((\+|00)?31)|0)6{1}\d{8}$`),
	"pt-BR": regexp.MustCompile(`^((\+?55 ?[1-9]{2} ?)|(\+?55 ?\([1-9]{2}\) ?)|(0[1-9]{2} ?)|(\([1-9]{2}\) ?)|([1-9]{2} ?))((\d{4}-?\d{4})|(9[1-9]{1}\d{3}-?\d{4}))$`),
	"zh-CN": regexp.MustCompile(`^((\+|00)86)?(1[3-9]|9[28])\d{9}$`),
	"zh-TW": regexp.MustCompile(`^(\+?886-?|0)?9\d{8}$`),
	"ja-JP": regexp.MustCompile(`^(\+81[ \-]?(\(0\))?|0)[6789]0[ \-]?\d{4}[ \-]?\d{4}$`),
}

// sortedPhoneLocales 排序后的地区列表，any 按此顺序逐个匹配
var sortedPhoneLocales = func() []string {
	locales := make([]string, 0, len(phoneLocales))
	for locale := range phoneLocales {
		locales = append(locales, locale)
	}
	sort.Strings(locales)
	return locales
}()

// SupportedPhoneLocales 返回已支持的地区（已排序，不含 any）
// 返回副本，调用方可自由修改
func SupportedPhoneLocales() []string {
	return slices.Clone(sortedPhoneLocales)
}

// IsSupportedPhoneLocale 判断地区是否受支持（空字符串与 any 视为受支持）
func IsSupportedPhoneLocale(locale string) bool {
	if locale == "" || locale == PhoneLocaleAny {
		return true
	}
	_, ok := phoneLocales[locale]
	return ok
}

// IsValidPhone 按地区校验手机号
// locale 为空或 any 时匹配任意地区；未知地区返回 false
func IsValidPhone(value any, locale string) bool {
	phone, ok := nonEmptyString(value)
	if !ok {
		return false
	}

	if locale == "" || locale == PhoneLocaleAny {
		return slices.ContainsFunc(sortedPhoneLocales, func(l string) bool {
			return phoneLocales[l].MatchString(phone)
		})
	}

	re, ok := phoneLocales[locale]
	if !ok {
		return false
	}
	return re.MatchString(phone)
}
