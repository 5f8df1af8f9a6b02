package check

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  bool
	}{
		{"合法邮箱", "ann@example.com", true},
		{"带子域名", "ops@mail.trade.co.za", true},
		{"缺少@", "ann.example.com", false},
		{"空字符串", "", false},
		{"nil", nil, false},
		{"非字符串", 42, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidEmail(tt.value))
		})
	}
}

func TestValidatePasswordStrength(t *testing.T) {
	t.Run("空密码", func(t *testing.T) {
		got := ValidatePasswordStrength("")
		assert.False(t, got.Valid)
		assert.Equal(t, "Password is required", got.Message)
		assert.Zero(t, got.Strength)
	})

	t.Run("非字符串", func(t *testing.T) {
		got := ValidatePasswordStrength(12345678)
		assert.False(t, got.Valid)
		assert.Equal(t, "Password is required", got.Message)
	})

	t.Run("全部通过", func(t *testing.T) {
		got := ValidatePasswordStrength("Sup3r$ecret")
		assert.True(t, got.Valid)
		assert.Empty(t, got.Message)
		assert.Equal(t, float64(100), got.Strength)
		assert.Equal(t, PasswordChecks{true, true, true, true, true}, got.Checks)
	})

	tests := []struct {
		name     string
		password string
		message  string
		strength float64
	}{
		{"长度不足优先报告", "aB1!", "Password must be at least 8 characters long", 80},
		{"缺少大写", "lower1234!", "Password must contain at least one uppercase letter", 80},
		{"缺少小写", "UPPER1234!", "Password must contain at least one lowercase letter", 80},
		{"缺少数字", "NoDigits!!", "Password must contain at least one number", 80},
		{"缺少特殊字符", "NoSpecial12", "Password must contain at least one special character", 80},
		{"多项失败只报第一项", "abc", "Password must be at least 8 characters long", 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidatePasswordStrength(tt.password)
			assert.False(t, got.Valid)
			assert.Equal(t, tt.message, got.Message)
			assert.InDelta(t, tt.strength, got.Strength, 0.0001)
		})
	}
}

func TestIsValidDate(t *testing.T) {
	tests := []struct {
		name  string
		value any
		opts  DateOptions
		want  bool
	}{
		{"纯日期", "2024-03-01", DateOptions{}, true},
		{"带时区的时间", "2024-03-01T10:20:30Z", DateOptions{}, true},
		{"带偏移和小数秒", "2024-03-01T10:20:30.123+02:00", DateOptions{}, true},
		{"无时区时间", "2024-03-01T10:20", DateOptions{}, true},
		{"紧凑格式", "20240301", DateOptions{}, true},
		{"time.Time", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), DateOptions{}, true},
		{"非法月份", "2024-13-01", DateOptions{}, false},
		{"非 ISO 格式", "03/01/2024", DateOptions{}, false},
		{"空字符串", "", DateOptions{}, false},
		{"数字", 20240301, DateOptions{}, false},
		{"等于最小值", "2024-03-01", DateOptions{Min: "2024-03-01"}, true},
		{"早于最小值", "2024-02-29", DateOptions{Min: "2024-03-01"}, false},
		{"等于最大值", "2024-03-01", DateOptions{Max: "2024-03-01"}, true},
		{"晚于最大值", "2024-03-02", DateOptions{Max: "2024-03-01"}, false},
		{"无法解析的边界被忽略", "2024-03-02", DateOptions{Min: "not-a-date"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidDate(tt.value, tt.opts))
		})
	}
}

func TestIsValidNumber(t *testing.T) {
	min, max := 1.0, 10.0

	tests := []struct {
		name  string
		value any
		opts  NumberOptions
		want  bool
	}{
		{"整数", 5, NumberOptions{}, true},
		{"浮点数", 5.5, NumberOptions{}, true},
		{"数字字符串", "5.5", NumberOptions{}, true},
		{"负数字符串", "-3", NumberOptions{}, true},
		{"json.Number", json.Number("7"), NumberOptions{}, true},
		{"非数字字符串", "abc", NumberOptions{}, false},
		{"布尔值", true, NumberOptions{}, false},
		{"nil", nil, NumberOptions{}, false},
		{"小于最小值", 0, NumberOptions{Min: &min}, false},
		{"等于最小值", 1, NumberOptions{Min: &min}, true},
		{"大于最大值", "11", NumberOptions{Max: &max}, false},
		{"要求整数", 2.5, NumberOptions{Integer: true}, false},
		{"整数形式的浮点数", 2.0, NumberOptions{Integer: true}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidNumber(tt.value, tt.opts))
		})
	}
}

func TestIsValidString(t *testing.T) {
	two, five := 2, 5

	tests := []struct {
		name  string
		value any
		opts  StringOptions
		want  bool
	}{
		{"普通字符串", "hello", StringOptions{}, true},
		{"空字符串", "", StringOptions{}, false},
		{"非字符串", 1, StringOptions{}, false},
		{"长度不足", "a", StringOptions{MinLength: &two}, false},
		{"超出长度", "abcdef", StringOptions{MaxLength: &five}, false},
		{"多字节字符按字符计数", "价格促销", StringOptions{MaxLength: &five}, true},
		{"字母数字", "abc123", StringOptions{Alphanumeric: true}, true},
		{"字母数字含符号", "abc-123", StringOptions{Alphanumeric: true}, false},
		{"纯字母", "abc", StringOptions{Alpha: true}, true},
		{"纯字母含数字", "abc1", StringOptions{Alpha: true}, false},
		{"匹配模式", "SKU123", StringOptions{Pattern: MustCompilePattern(`^[A-Z0-9]+$`)}, true},
		{"不匹配模式", "sku123", StringOptions{Pattern: MustCompilePattern(`^[A-Z0-9]+$`)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidString(tt.value, tt.opts))
		})
	}
}

func TestIsValidURL(t *testing.T) {
	no := false

	tests := []struct {
		name  string
		value any
		opts  URLOptions
		want  bool
	}{
		{"https", "https://trade.example.com/promotions?id=1", URLOptions{}, true},
		{"带端口", "http://example.com:8080/path", URLOptions{}, true},
		{"IP 地址", "http://192.168.1.10/health", URLOptions{}, true},
		{"缺少协议", "example.com", URLOptions{}, false},
		{"不允许的协议", "ftp://example.com", URLOptions{}, false},
		{"自定义协议白名单", "ftp://example.com", URLOptions{Protocols: []string{"ftp"}}, true},
		{"缺少顶级域名", "http://localhost", URLOptions{}, false},
		{"不要求顶级域名", "http://localhost", URLOptions{RequireTLD: &no}, true},
		{"含下划线", "http://my_host.example.com", URLOptions{}, false},
		{"允许下划线", "http://my_host.example.com", URLOptions{AllowUnderscores: true}, true},
		{"协议相对 URL 默认拒绝", "//example.com", URLOptions{RequireProtocol: &no}, false},
		{"允许协议相对 URL", "//example.com", URLOptions{RequireProtocol: &no, AllowProtocolRelative: true}, true},
		{"不要求协议", "example.com/path", URLOptions{RequireProtocol: &no}, true},
		{"端口越界", "http://example.com:70000", URLOptions{}, false},
		{"包含空格", "http://exa mple.com", URLOptions{}, false},
		{"末尾点号", "http://example.com.", URLOptions{}, false},
		{"非字符串", 1, URLOptions{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidURL(tt.value, tt.opts))
		})
	}
}

func TestIsValidPhone(t *testing.T) {
	tests := []struct {
		name   string
		value  any
		locale string
		want   bool
	}{
		{"南非号码", "+27821234567", "en-ZA", true},
		{"南非本地格式", "0821234567", "en-ZA", true},
		{"美国号码", "(212) 555-0100", "en-US", true},
		{"英国号码", "+447911123456", "en-GB", true},
		{"任意地区", "+447911123456", "any", true},
		{"空地区等同 any", "+27821234567", "", true},
		{"地区不匹配", "+447911123456", "en-ZA", false},
		{"未知地区", "+27821234567", "xx-XX", false},
		{"非号码", "phone", "any", false},
		{"非字符串", 27821234567, "any", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidPhone(tt.value, tt.locale))
		})
	}

	assert.Contains(t, SupportedPhoneLocales(), "en-ZA")
	assert.True(t, IsSupportedPhoneLocale("any"))
	assert.False(t, IsSupportedPhoneLocale("en-XX"))
}

func TestSupportedPhoneLocales(t *testing.T) {
	locales := SupportedPhoneLocales()
	assert.IsIncreasing(t, locales)
	assert.Len(t, locales, len(phoneLocales))

	locales[0] = "xx-XX"
	assert.NotEqual(t, "xx-XX", SupportedPhoneLocales()[0], "返回副本")
	assert.True(t, IsValidPhone("+27821234567", PhoneLocaleAny))
}

func BenchmarkIsValidPhone_Any(b *testing.B) {
	for i := 0; i < b.N; i++ {
		IsValidPhone("+819012345678", PhoneLocaleAny)
	}
}

func TestIsValidPostalCode(t *testing.T) {
	assert.True(t, IsValidPostalCode("90210", "US"))
	assert.True(t, IsValidPostalCode("90210", "any"))
	assert.False(t, IsValidPostalCode("ABC", "US"))
	assert.False(t, IsValidPostalCode("90210", "us,omitempty"))
	assert.False(t, IsValidPostalCode("", "US"))
	assert.False(t, IsValidPostalCode(90210, "US"))
}

func TestIsValidCreditCard(t *testing.T) {
	assert.True(t, IsValidCreditCard("4111111111111111"))
	assert.False(t, IsValidCreditCard("4111111111111112"))
	assert.False(t, IsValidCreditCard("4111"))
	assert.False(t, IsValidCreditCard(nil))
}

func TestCompilePattern(t *testing.T) {
	t.Run("RE2 语法", func(t *testing.T) {
		p, err := CompilePattern(`^[A-Z0-9]{6,10}$`)
		require.NoError(t, err)
		assert.True(t, p.MatchString("ABC123"))
		assert.Equal(t, `^[A-Z0-9]{6,10}$`, p.String())
	})

	t.Run("先行断言回退到 ECMAScript", func(t *testing.T) {
		p, err := CompilePattern(`^(?=.*\d)(?=.*[a-z])(?=.*[A-Z])`)
		require.NoError(t, err)
		assert.True(t, p.MatchString("Abc1"))
		assert.False(t, p.MatchString("abc1"))
	})

	t.Run("非法表达式", func(t *testing.T) {
		_, err := CompilePattern(`([a-z`)
		assert.ErrorIs(t, err, ErrInvalidPattern)
	})

	t.Run("MustCompilePattern panic", func(t *testing.T) {
		assert.Panics(t, func() { MustCompilePattern(`([a-z`) })
	})
}

func TestToNumber(t *testing.T) {
	type amount float64

	n, ok := ToNumber(amount(12.5))
	assert.True(t, ok)
	assert.Equal(t, 12.5, n)

	_, ok = ToNumber("1e3")
	assert.False(t, ok, "科学计数法不是十进制数字字符串")

	assert.True(t, IsNumberValue(json.Number("3")))
	assert.False(t, IsNumberValue("3"))
}

func TestToNumber_JSONNumberExponent(t *testing.T) {
	tests := []struct {
		in   json.Number
		want float64
	}{
		{"1e2", 100},
		{"1.5E3", 1500},
		{"-2.5e-1", -0.25},
	}

	for _, tt := range tests {
		t.Run(string(tt.in), func(t *testing.T) {
			n, ok := ToNumber(tt.in)
			require.True(t, ok)
			assert.Equal(t, tt.want, n)
		})
	}

	_, ok := ToNumber(json.Number("abc"))
	assert.False(t, ok)
	_, ok = ToNumber(json.Number("1e400"))
	assert.False(t, ok, "溢出为 Inf")
}

func TestIsNumericString(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"12", true},
		{"-12.5", true},
		{"+3", true},
		{".5", true},
		{"-.5", true},
		{"", false},
		{"5.", false},
		{"1e3", false},
		{"1,000", false},
		{" 1", false},
		{"abc", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, IsNumericString(tt.in))
		})
	}

	n, ok := ToNumber(".5")
	require.True(t, ok)
	assert.Equal(t, 0.5, n)
}
