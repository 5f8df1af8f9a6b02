package check

import "regexp"

// PostalCodeAny 匹配任意已支持国家
const PostalCodeAny = "any"

// countryCodeRegex ISO-3166 alpha-2 国家代码
var countryCodeRegex = regexp.MustCompile(`^[A-Z]{2}$`)

// postalCountries countryCode 为 any 时依次尝试的国家
var postalCountries = []string{
	"AD", "AT", "AU", "BE", "BG", "BR", "CA", "CH", "CN", "CZ", "DE", "DK", "DZ",
	"EE", "ES", "FI", "FR", "GB", "GR", "HR", "HU", "ID", "IE", "IL", "IN", "IS",
	"IT", "JP", "KE", "KR", "LI", "LT", "LU", "LV", "MX", "MT", "MY", "NL", "NO",
	"NZ", "PL", "PT", "RO", "RU", "SA", "SE", "SG", "SI", "SK", "TH", "TN", "TW",
	"UA", "US", "ZA", "ZM",
}

// IsValidEmail 校验邮箱地址
func IsValidEmail(value any) bool {
	email, ok := nonEmptyString(value)
	if !ok {
		return false
	}
	return matchTag(email, "email")
}

// IsValidPostalCode 按国家校验邮政编码
// countryCode 为 ISO-3166 alpha-2（如 US、ZA），为空或 any 时匹配任意已支持国家
func IsValidPostalCode(value any, countryCode string) bool {
	code, ok := nonEmptyString(value)
	if !ok {
		return false
	}

	if countryCode == "" || countryCode == PostalCodeAny {
		for _, country := range postalCountries {
			if matchTag(code, "postcode_iso3166_alpha2="+country) {
				return true
			}
		}
		return false
	}

	// 参数会拼进标签字符串，必须先限制字符集
	if !countryCodeRegex.MatchString(countryCode) {
		return false
	}
	return matchTag(code, "postcode_iso3166_alpha2="+countryCode)
}

// IsValidCreditCard 校验信用卡号（长度 + Luhn 校验）
func IsValidCreditCard(value any) bool {
	card, ok := nonEmptyString(value)
	if !ok {
		return false
	}
	return matchTag(card, "credit_card")
}
