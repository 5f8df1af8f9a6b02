package schema

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"

	"tpm-common-validation/pkg/validator/check"
)

// Validate 按 Schema 校验数据
//
// 每个字段的校验流程：
//  1. 必填检查：值为 nil、缺失或空字符串时记录 "<field> is required"，跳过后续检查
//  2. 可选字段缺失（nil 或缺失）时跳过全部检查
//  3. 按规则类型执行内置检查，第一个失败的检查生效
//  4. 执行自定义校验函数（无论内置检查是否失败），非空返回值覆盖该字段的错误
//
// 数据形状问题从不 panic，全部转化为 Errors 中的条目；
// 唯一的例外是自定义校验函数自身 panic，由调用方负责
//
// 每条错误消息同时记录为 Result.Violations 中的一项，附带检查标签与参数
func Validate(data map[string]any, s Schema) Result {
	sc := newScope()
	errs := validate(data, s, sc)
	return Result{Valid: len(errs) == 0, Errors: errs, Violations: *sc.violations}
}

func validate(data map[string]any, s Schema, sc scope) Errors {
	errs := make(Errors)

	for _, field := range s.Fields() {
		rule := s[field]
		if rule == nil {
			continue
		}

		value := normalize(data[field])
		b := rule.base()

		if b.Required && isBlank(value) {
			errs[field] = sc.fail(field, TagRequired, "", field+" is required")
			continue
		}
		if value == nil {
			continue
		}

		mark := sc.mark()
		if ev := rule.apply(sc, field, value); ev != nil {
			errs[field] = ev
		}

		if b.Validate != nil {
			if msg := b.Validate(value, data); msg != "" {
				// 自定义消息覆盖该字段（含嵌套）已记录的全部错误
				sc.rewind(mark)
				errs[field] = sc.fail(field, TagCustom, "", msg)
			}
		}
	}

	return errs
}

// normalize 解引用指针，nil 指针视为 nil
func normalize(value any) any {
	if value == nil {
		return nil
	}
	rv := reflect.ValueOf(value)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	return rv.Interface()
}

// isBlank nil 或空字符串
func isBlank(value any) bool {
	if value == nil {
		return true
	}
	s, ok := value.(string)
	return ok && s == ""
}

// toSlice 将任意切片或数组转换为 []any
func toSlice(value any) ([]any, bool) {
	if items, ok := value.([]any); ok {
		return items, true
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	items := make([]any, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return items, true
}

// toRecord 将 map[string]any 或以字符串为键的 map 转换为记录
func toRecord(value any) (map[string]any, bool) {
	if rec, ok := value.(map[string]any); ok {
		return rec, true
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	rec := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		rec[iter.Key().String()] = iter.Value().Interface()
	}
	return rec, true
}

// formatNumber 按最短形式输出数值（1 而非 1.000000）
func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func (r StringRule) apply(sc scope, field string, value any) ErrorValue {
	s, ok := value.(string)
	if !ok {
		return sc.fail(field, TagType, string(TypeString), field+" must be a string")
	}

	length := utf8.RuneCountInString(s)
	switch {
	case r.MinLength != nil && length < *r.MinLength:
		return sc.fail(field, TagMinLength, strconv.Itoa(*r.MinLength),
			fmt.Sprintf("%s must be at least %d characters", field, *r.MinLength))
	case r.MaxLength != nil && length > *r.MaxLength:
		return sc.fail(field, TagMaxLength, strconv.Itoa(*r.MaxLength),
			fmt.Sprintf("%s must be at most %d characters", field, *r.MaxLength))
	case r.Pattern != nil && !r.Pattern.MatchString(s):
		msg := r.PatternMessage
		if msg == "" {
			msg = field + " has an invalid format"
		}
		return sc.fail(field, TagPattern, r.Pattern.String(), msg)
	}
	return nil
}

func (r NumberRule) apply(sc scope, field string, value any) ErrorValue {
	n, ok := check.ToNumber(value)
	if !ok {
		return sc.fail(field, TagType, string(TypeNumber), field+" must be a number")
	}

	switch {
	case r.Min != nil && n < *r.Min:
		bound := formatNumber(*r.Min)
		return sc.fail(field, TagMin, bound, fmt.Sprintf("%s must be at least %s", field, bound))
	case r.Max != nil && n > *r.Max:
		bound := formatNumber(*r.Max)
		return sc.fail(field, TagMax, bound, fmt.Sprintf("%s must be at most %s", field, bound))
	case r.Integer && !check.IsInteger(n):
		return sc.fail(field, TagInteger, "", field+" must be an integer")
	}
	return nil
}

func (r BooleanRule) apply(sc scope, field string, value any) ErrorValue {
	if _, ok := value.(bool); !ok {
		return sc.fail(field, TagType, string(TypeBoolean), field+" must be a boolean")
	}
	return nil
}

func (r DateRule) apply(sc scope, field string, value any) ErrorValue {
	if check.IsValidDate(value, check.DateOptions{Min: r.Min, Max: r.Max}) {
		return nil
	}

	var b strings.Builder
	b.WriteString(field)
	b.WriteString(" must be a valid date")
	if r.Min != "" {
		b.WriteString(" after ")
		b.WriteString(r.Min)
	}
	if r.Max != "" {
		b.WriteString(" before ")
		b.WriteString(r.Max)
	}
	return sc.fail(field, TagDate, "", b.String())
}

func (r EmailRule) apply(sc scope, field string, value any) ErrorValue {
	if !check.IsValidEmail(value) {
		return sc.fail(field, TagEmail, "", field+" must be a valid email address")
	}
	return nil
}

func (r URLRule) apply(sc scope, field string, value any) ErrorValue {
	if !check.IsValidURL(value, r.URLOptions) {
		return sc.fail(field, TagURL, "", field+" must be a valid URL")
	}
	return nil
}

func (r PhoneRule) apply(sc scope, field string, value any) ErrorValue {
	if !check.IsValidPhone(value, r.Locale) {
		return sc.fail(field, TagPhone, r.Locale, field+" must be a valid phone number")
	}
	return nil
}

func (r ArrayRule) apply(sc scope, field string, value any) ErrorValue {
	items, ok := toSlice(value)
	if !ok {
		return sc.fail(field, TagType, string(TypeArray), field+" must be an array")
	}

	switch {
	case r.MinItems != nil && len(items) < *r.MinItems:
		return sc.fail(field, TagMinItems, strconv.Itoa(*r.MinItems),
			fmt.Sprintf("%s must contain at least %d items", field, *r.MinItems))
	case r.MaxItems != nil && len(items) > *r.MaxItems:
		return sc.fail(field, TagMaxItems, strconv.Itoa(*r.MaxItems),
			fmt.Sprintf("%s must contain at most %d items", field, *r.MaxItems))
	case r.ItemType == "" || r.ItemSchema == nil:
		// 仅声明 ItemType 时不校验元素
		return nil
	case r.ItemType == TypeObject:
		return r.applyObjectItems(sc, field, items)
	case r.ItemType.isPrimitive():
		return r.applyPrimitiveItems(sc, field, items)
	}
	return nil
}

// applyObjectItems 逐个递归校验对象元素，聚合全部失败元素
func (r ArrayRule) applyObjectItems(sc scope, field string, items []any) ErrorValue {
	var itemErrs []ItemError
	for i, item := range items {
		rec, ok := toRecord(normalize(item))
		if !ok {
			itemErrs = append(itemErrs, ItemError{Index: i, Error: invalidItem(sc, field, i, TypeObject)})
			continue
		}
		if errs := validate(rec, r.ItemSchema, sc.nested(sc.itemPath(field, i))); len(errs) > 0 {
			itemErrs = append(itemErrs, ItemError{Index: i, Errors: errs})
		}
	}

	if len(itemErrs) == 0 {
		return nil
	}
	return &ItemErrors{Items: itemErrs}
}

// applyPrimitiveItems 逐个检查基础类型元素，聚合全部失败元素
// ItemSchema 此时只作为开关，内容不参与校验
func (r ArrayRule) applyPrimitiveItems(sc scope, field string, items []any) ErrorValue {
	var itemErrs []ItemError
	for i, item := range items {
		if !isPrimitiveOf(r.ItemType, normalize(item)) {
			itemErrs = append(itemErrs, ItemError{Index: i, Error: invalidItem(sc, field, i, r.ItemType)})
		}
	}

	if len(itemErrs) == 0 {
		return nil
	}
	return &ItemErrors{Items: itemErrs}
}

// invalidItem 记录元素级错误，参数为期望的元素类型
func invalidItem(sc scope, field string, index int, want Type) Message {
	return sc.record(sc.itemPath(field, index), field, TagItem, string(want),
		fmt.Sprintf("Item at index %d is invalid", index))
}

// isPrimitiveOf 数组元素的基础类型检查，使用各检查函数的默认选项
func isPrimitiveOf(t Type, value any) bool {
	switch t {
	case TypeString:
		_, ok := value.(string)
		return ok
	case TypeNumber:
		_, ok := check.ToNumber(value)
		return ok
	case TypeBoolean:
		_, ok := value.(bool)
		return ok
	case TypeDate:
		return check.IsValidDate(value, check.DateOptions{})
	case TypeEmail:
		return check.IsValidEmail(value)
	case TypeURL:
		return check.IsValidURL(value, check.URLOptions{})
	case TypePhone:
		return check.IsValidPhone(value, check.PhoneLocaleAny)
	}
	return false
}

func (r ObjectRule) apply(sc scope, field string, value any) ErrorValue {
	rec, ok := toRecord(value)
	if !ok {
		return sc.fail(field, TagType, string(TypeObject), field+" must be an object")
	}

	if r.Schema != nil {
		if errs := validate(rec, r.Schema, sc.nested(sc.path(field))); len(errs) > 0 {
			return errs
		}
	}
	return nil
}

func (r EnumRule) apply(sc scope, field string, value any) ErrorValue {
	if s, ok := value.(string); ok {
		for _, allowed := range r.Values {
			if s == allowed {
				return nil
			}
		}
	}
	allowed := strings.Join(r.Values, ", ")
	return sc.fail(field, TagEnum, allowed, fmt.Sprintf("%s must be one of: %s", field, allowed))
}
