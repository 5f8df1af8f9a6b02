// Package check 提供无状态的基础类型校验函数（email、数字、日期、URL、电话等）
//
// 设计原则：
//   - 失败即关闭：nil、空值、类型不符一律返回 false，从不 panic
//   - 独立可用：既可单独调用，也作为 schema 校验引擎的叶子节点
//   - 格式规则复用 go-playground/validator 的内置标签，不重复造轮子
package check

import (
	"encoding/json"
	"math"
	"reflect"
	"regexp"
	"strconv"

	"github.com/go-playground/validator/v10"
)

// playground 包级共享的底层验证器实例
// go-playground/validator 的 Validate 是并发安全的，可被多个 goroutine 共用
var playground = validator.New()

// matchTag 使用 go-playground 标签校验字符串
// 注意：只允许传入 string，避免字符串类标签作用于非字符串值时 panic
func matchTag(s, tag string) bool {
	return playground.Var(s, tag) == nil
}

// nonEmptyString 断言为非空字符串
func nonEmptyString(value any) (string, bool) {
	s, ok := value.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// numericString 十进制数字字符串：可带符号，整数部分可省略（".5"），不接受科学计数法
var numericString = regexp.MustCompile(`^[+-]?([0-9]*[.])?[0-9]+$`)

// IsNumericString 判断字符串是否为十进制数字（可带符号和小数部分）
func IsNumericString(s string) bool {
	return numericString.MatchString(s)
}

// ToNumber 将值转换为 float64
// 支持：Go 数值类型、json.Number、数字字符串
// NaN 和 Inf 视为非数字
func ToNumber(value any) (float64, bool) {
	var f float64
	switch v := value.(type) {
	case nil:
		return 0, false
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int8:
		f = float64(v)
	case int16:
		f = float64(v)
	case int32:
		f = float64(v)
	case int64:
		f = float64(v)
	case uint:
		f = float64(v)
	case uint8:
		f = float64(v)
	case uint16:
		f = float64(v)
	case uint32:
		f = float64(v)
	case uint64:
		f = float64(v)
	case json.Number:
		// JSON 数字字面量本身已合法，允许指数形式（1e2、1.5E3）
		parsed, err := v.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		if !IsNumericString(v) {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		// 命名数值类型（如 type Amount float64）走反射
		rv := reflect.ValueOf(value)
		switch rv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			f = float64(rv.Int())
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			f = float64(rv.Uint())
		case reflect.Float32, reflect.Float64:
			f = rv.Float()
		default:
			return 0, false
		}
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// IsNumberValue 判断值本身是否为数值类型（不接受字符串）
func IsNumberValue(value any) bool {
	if _, ok := value.(string); ok {
		return false
	}
	_, ok := ToNumber(value)
	return ok
}
