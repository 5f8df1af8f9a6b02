// Package schema 声明式数据校验引擎
//
// 一个 Schema 是“字段名 → 规则”的映射，Validate 按规则递归校验 map[string]any 数据，
// 返回与数据结构同构的错误映射：
//   - 普通字段：错误消息字符串
//   - 数组字段：{items: [{index, error|errors}]}
//   - 嵌套对象：嵌套的错误映射（不额外包装）
//
// 错误收集策略：
//   - 字段之间全量聚合，一个字段失败不影响其他字段
//   - 同一字段内第一个失败的内置检查生效，其后的检查不再执行
//   - 自定义校验函数总是在内置检查之后执行，返回的消息覆盖内置错误
//
// Schema 在校验期间只读，Validate 不修改 Schema 与输入数据，可并发调用。
package schema

import (
	"sort"

	"tpm-common-validation/pkg/validator/check"
)

// Type 规则类型标签
type Type string

// 支持的规则类型
const (
	TypeString  Type = "string"
	TypeNumber  Type = "number"
	TypeBoolean Type = "boolean"
	TypeDate    Type = "date"
	TypeEmail   Type = "email"
	TypeURL     Type = "url"
	TypePhone   Type = "phone"
	TypeArray   Type = "array"
	TypeObject  Type = "object"
	TypeEnum    Type = "enum"
)

// IsValid 是否为已知类型
func (t Type) IsValid() bool {
	switch t {
	case TypeString, TypeNumber, TypeBoolean, TypeDate, TypeEmail,
		TypeURL, TypePhone, TypeArray, TypeObject, TypeEnum:
		return true
	}
	return false
}

// isPrimitive 是否可作为数组元素的基础类型
func (t Type) isPrimitive() bool {
	switch t {
	case TypeString, TypeNumber, TypeBoolean, TypeDate, TypeEmail, TypeURL, TypePhone:
		return true
	}
	return false
}

// CustomFunc 自定义校验函数
// value 为字段值，record 为字段所在的整条记录（用于跨字段规则）
// 返回空字符串表示通过，否则返回错误消息
//
// 约定：自定义函数不得 panic，Validate 不会捕获其 panic
type CustomFunc func(value any, record map[string]any) string

// Base 所有规则共有的选项
type Base struct {
	// Required 是否必填，nil、缺失与空字符串都视为未填写
	Required bool
	// Validate 自定义校验函数（可选）
	Validate CustomFunc
}

func (b Base) base() Base {
	return b
}

// Rule 单个字段的校验规则
// 该接口是封闭的，只能由本包内的规则类型实现
type Rule interface {
	// Type 返回规则类型标签
	Type() Type

	base() Base
	withBase(b Base) Rule
	// apply 执行内置检查，通过时返回 nil
	apply(sc scope, field string, value any) ErrorValue
	// check 检查规则本身的配置是否合法
	check(path string, depth int) []error
}

// StringRule 字符串规则
type StringRule struct {
	Base
	MinLength *int
	MaxLength *int
	Pattern   check.Pattern
	// PatternMessage 不匹配 Pattern 时的错误消息，为空时使用默认消息
	PatternMessage string
}

// NumberRule 数值规则，接受数值与数字字符串
type NumberRule struct {
	Base
	Min     *float64
	Max     *float64
	Integer bool
}

// BooleanRule 布尔规则
type BooleanRule struct {
	Base
}

// DateRule 日期规则，Min/Max 为闭区间的日期字符串
type DateRule struct {
	Base
	Min string
	Max string
}

// EmailRule 邮箱规则
type EmailRule struct {
	Base
}

// URLRule URL 规则
type URLRule struct {
	Base
	check.URLOptions
}

// PhoneRule 手机号规则，Locale 为空时匹配任意地区
type PhoneRule struct {
	Base
	Locale string
}

// ArrayRule 数组规则
//
// 元素校验（数量检查通过后才执行）：
//   - ItemType 为 object：每个元素按 ItemSchema 递归校验
//   - ItemType 为基础类型：每个元素做对应的类型检查
type ArrayRule struct {
	Base
	MinItems   *int
	MaxItems   *int
	ItemType   Type
	ItemSchema Schema
}

// ObjectRule 嵌套对象规则，Schema 为空时只检查类型
type ObjectRule struct {
	Base
	Schema Schema
}

// EnumRule 枚举规则
type EnumRule struct {
	Base
	Values []string
}

func (StringRule) Type() Type  { return TypeString }
func (NumberRule) Type() Type  { return TypeNumber }
func (BooleanRule) Type() Type { return TypeBoolean }
func (DateRule) Type() Type    { return TypeDate }
func (EmailRule) Type() Type   { return TypeEmail }
func (URLRule) Type() Type     { return TypeURL }
func (PhoneRule) Type() Type   { return TypePhone }
func (ArrayRule) Type() Type   { return TypeArray }
func (ObjectRule) Type() Type  { return TypeObject }
func (EnumRule) Type() Type    { return TypeEnum }

func (r StringRule) withBase(b Base) Rule  { r.Base = b; return r }
func (r NumberRule) withBase(b Base) Rule  { r.Base = b; return r }
func (r BooleanRule) withBase(b Base) Rule { r.Base = b; return r }
func (r DateRule) withBase(b Base) Rule    { r.Base = b; return r }
func (r EmailRule) withBase(b Base) Rule   { r.Base = b; return r }
func (r URLRule) withBase(b Base) Rule     { r.Base = b; return r }
func (r PhoneRule) withBase(b Base) Rule   { r.Base = b; return r }
func (r ArrayRule) withBase(b Base) Rule   { r.Base = b; return r }
func (r ObjectRule) withBase(b Base) Rule  { r.Base = b; return r }
func (r EnumRule) withBase(b Base) Rule    { r.Base = b; return r }

// Schema 字段名到规则的映射
// 只校验 Schema 中声明的字段，数据中多余的字段被忽略
type Schema map[string]Rule

// Fields 返回排序后的字段名
func (s Schema) Fields() []string {
	fields := make([]string, 0, len(s))
	for field := range s {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}

// Clone 浅拷贝 Schema（规则为值类型，嵌套 Schema 共享）
func (s Schema) Clone() Schema {
	if s == nil {
		return nil
	}
	out := make(Schema, len(s))
	for field, rule := range s {
		out[field] = rule
	}
	return out
}

// WithValidator 返回为指定字段挂载自定义校验函数的副本
// 配置文件无法表达函数，调用方通过该方法补充跨字段规则
func (s Schema) WithValidator(field string, fn CustomFunc) (Schema, error) {
	rule, ok := s[field]
	if !ok || rule == nil {
		return nil, &SchemaError{Field: field, Reason: "field is not declared"}
	}
	b := rule.base()
	b.Validate = fn
	out := s.Clone()
	out[field] = rule.withBase(b)
	return out, nil
}

// IsRequired 字段是否为必填
func IsRequired(r Rule) bool {
	return r != nil && r.base().Required
}

// HasCustom 字段是否挂载了自定义校验函数
func HasCustom(r Rule) bool {
	return r != nil && r.base().Validate != nil
}

// Int 返回 int 指针，便于声明长度与数量约束
func Int(n int) *int {
	return &n
}

// Float 返回 float64 指针，便于声明数值约束
func Float(f float64) *float64 {
	return &f
}

// Bool 返回 bool 指针
func Bool(b bool) *bool {
	return &b
}
