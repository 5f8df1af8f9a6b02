package check

import (
	"strings"
	"unicode/utf8"
)

// 密码强度规则常量
const (
	// minPasswordLength 密码最小长度
	minPasswordLength = 8
	// passwordSpecialChars 被视为特殊字符的集合
	passwordSpecialChars = `!@#$%^&*()_+-=[]{};':"\|,.<>/?`
)

// PasswordChecks 五项密码规则各自的检查结果
type PasswordChecks struct {
	Length    bool `json:"length"`
	Uppercase bool `json:"uppercase"`
	Lowercase bool `json:"lowercase"`
	Number    bool `json:"number"`
	Special   bool `json:"special"`
}

// passed 通过的规则数量
func (c PasswordChecks) passed() int {
	n := 0
	for _, ok := range []bool{c.Length, c.Uppercase, c.Lowercase, c.Number, c.Special} {
		if ok {
			n++
		}
	}
	return n
}

// PasswordStrength 密码强度评估结果
type PasswordStrength struct {
	// Valid 五项规则全部通过时为 true
	Valid bool `json:"valid"`
	// Message 第一条未通过规则的描述，全部通过时为空
	Message string `json:"message"`
	// Strength 通过规则的百分比（0-100）
	Strength float64 `json:"strength"`
	// Checks 各项规则的检查结果
	Checks PasswordChecks `json:"checks"`
}

// ValidatePasswordStrength 评估密码强度
//
// 与 schema 校验的全量聚合不同，这里的 Message 只给出第一条失败规则，
// 检查顺序固定为：长度 → 大写 → 小写 → 数字 → 特殊字符。
// Strength 与 Checks 则完整反映五项规则的结果。
func ValidatePasswordStrength(value any) PasswordStrength {
	password, ok := nonEmptyString(value)
	if !ok {
		return PasswordStrength{Message: "Password is required"}
	}

	checks := PasswordChecks{
		Length:    utf8.RuneCountInString(password) >= minPasswordLength,
		Uppercase: strings.IndexFunc(password, func(r rune) bool { return r >= 'A' && r <= 'Z' }) >= 0,
		Lowercase: strings.IndexFunc(password, func(r rune) bool { return r >= 'a' && r <= 'z' }) >= 0,
		Number:    strings.IndexFunc(password, func(r rune) bool { return r >= '0' && r <= '9' }) >= 0,
		Special:   strings.ContainsAny(password, passwordSpecialChars),
	}

	result := PasswordStrength{
		Valid:    true,
		Strength: float64(checks.passed()) * 100 / 5,
		Checks:   checks,
	}

	switch {
	case !checks.Length:
		result.Message = "Password must be at least 8 characters long"
	case !checks.Uppercase:
		result.Message = "Password must contain at least one uppercase letter"
	case !checks.Lowercase:
		result.Message = "Password must contain at least one lowercase letter"
	case !checks.Number:
		result.Message = "Password must contain at least one number"
	case !checks.Special:
		result.Message = "Password must contain at least one special character"
	}
	result.Valid = result.Message == ""

	return result
}
