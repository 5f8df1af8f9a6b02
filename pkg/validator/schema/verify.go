package schema

import (
	"errors"
	"math"

	"tpm-common-validation/pkg/validator/check"
)

// maxSchemaDepth 嵌套 Schema（对象、对象数组）的最大深度
const maxSchemaDepth = 32

// Check 检查 Schema 本身的配置是否合法
//
// 被拒绝的配置（运行时会被静默忽略或永远无法通过的组合）：
//   - 负数或上下界颠倒的长度、数值、数量约束
//   - 无法解析的日期边界
//   - 空的枚举值列表
//   - 不支持的电话地区
//   - 对象数组缺少 ItemSchema，或设置了 ItemSchema 却没有 ItemType
//   - 数组元素类型为 array/enum 或未知类型
//   - 要求协议时设置 AllowProtocolRelative
//   - nil 规则、超过最大嵌套深度
//
// 返回所有问题的合并错误（errors.Join），每一项都是 *SchemaError
func (s Schema) Check() error {
	return errors.Join(s.check("", 0)...)
}

// MustCheck Check 失败时 panic，用于静态声明的 Schema
func (s Schema) MustCheck() Schema {
	if err := s.Check(); err != nil {
		panic(err)
	}
	return s
}

func (s Schema) check(prefix string, depth int) []error {
	if depth > maxSchemaDepth {
		return []error{&SchemaError{Field: prefix, Reason: "schema nesting exceeds maximum depth"}}
	}

	var errs []error
	for _, field := range s.Fields() {
		path := field
		if prefix != "" {
			path = prefix + "." + field
		}

		rule := s[field]
		if rule == nil {
			errs = append(errs, &SchemaError{Field: path, Reason: "rule is nil"})
			continue
		}
		errs = append(errs, rule.check(path, depth)...)
	}
	return errs
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func schemaErr(path, reason string) error {
	return &SchemaError{Field: path, Reason: reason}
}

// checkIntBounds 检查 min/max 类整数约束
func checkIntBounds(path, minName, maxName string, min, max *int) []error {
	var errs []error
	if min != nil && *min < 0 {
		errs = append(errs, schemaErr(path, minName+" must not be negative"))
	}
	if max != nil && *max < 0 {
		errs = append(errs, schemaErr(path, maxName+" must not be negative"))
	}
	if min != nil && max != nil && *min > *max {
		errs = append(errs, schemaErr(path, minName+" must not exceed "+maxName))
	}
	return errs
}

func (r StringRule) check(path string, _ int) []error {
	return checkIntBounds(path, "minLength", "maxLength", r.MinLength, r.MaxLength)
}

func (r NumberRule) check(path string, _ int) []error {
	var errs []error
	if r.Min != nil && !isFinite(*r.Min) {
		errs = append(errs, schemaErr(path, "min must be a finite number"))
	}
	if r.Max != nil && !isFinite(*r.Max) {
		errs = append(errs, schemaErr(path, "max must be a finite number"))
	}
	if r.Min != nil && r.Max != nil && *r.Min > *r.Max {
		errs = append(errs, schemaErr(path, "min must not exceed max"))
	}
	return errs
}

func (r BooleanRule) check(string, int) []error { return nil }

func (r DateRule) check(path string, _ int) []error {
	var errs []error
	min, minOK := check.ParseDate(r.Min)
	if r.Min != "" && !minOK {
		errs = append(errs, schemaErr(path, "min is not an ISO-8601 date: "+r.Min))
	}
	max, maxOK := check.ParseDate(r.Max)
	if r.Max != "" && !maxOK {
		errs = append(errs, schemaErr(path, "max is not an ISO-8601 date: "+r.Max))
	}
	if minOK && maxOK && min.After(max) {
		errs = append(errs, schemaErr(path, "min must not be after max"))
	}
	return errs
}

func (r EmailRule) check(string, int) []error { return nil }

func (r URLRule) check(path string, _ int) []error {
	var errs []error
	for _, p := range r.Protocols {
		if p == "" {
			errs = append(errs, schemaErr(path, "protocols must not contain empty entries"))
			break
		}
	}
	requireProtocol := r.RequireProtocol == nil || *r.RequireProtocol
	if r.AllowProtocolRelative && requireProtocol {
		errs = append(errs, schemaErr(path, "allowProtocolRelativeUrls has no effect while a protocol is required"))
	}
	return errs
}

func (r PhoneRule) check(path string, _ int) []error {
	if !check.IsSupportedPhoneLocale(r.Locale) {
		return []error{schemaErr(path, "unsupported phone locale: "+r.Locale)}
	}
	return nil
}

func (r ArrayRule) check(path string, depth int) []error {
	errs := checkIntBounds(path, "minItems", "maxItems", r.MinItems, r.MaxItems)

	switch {
	case r.ItemType == "":
		if r.ItemSchema != nil {
			errs = append(errs, schemaErr(path, "itemSchema requires itemType object"))
		}
	case r.ItemType == TypeObject:
		if r.ItemSchema == nil {
			errs = append(errs, schemaErr(path, "itemType object requires itemSchema"))
		} else {
			errs = append(errs, r.ItemSchema.check(path+"[]", depth+1)...)
		}
	case r.ItemType.isPrimitive():
	case r.ItemType.IsValid():
		errs = append(errs, schemaErr(path, "itemType "+string(r.ItemType)+" is not supported for array items"))
	default:
		errs = append(errs, schemaErr(path, "unknown itemType: "+string(r.ItemType)))
	}
	return errs
}

func (r ObjectRule) check(path string, depth int) []error {
	if r.Schema == nil {
		return nil
	}
	return r.Schema.check(path, depth+1)
}

func (r EnumRule) check(path string, _ int) []error {
	if len(r.Values) == 0 {
		return []error{schemaErr(path, "enum requires at least one value")}
	}
	return nil
}
