package schema

import (
	"sort"
	"strings"
)

// ErrorValue 字段错误值，形状与所描述的数据一致
// 实现：Message（普通字段）、*ItemErrors（数组）、Errors（嵌套对象）
type ErrorValue interface {
	isErrorValue()
}

// Message 单条错误消息
type Message string

// ItemError 数组中单个元素的错误
// 对象元素填充 Errors，基础类型元素填充 Error
type ItemError struct {
	Index  int     `json:"index"`
	Error  Message `json:"error,omitempty"`
	Errors Errors  `json:"errors,omitempty"`
}

// ItemErrors 数组字段的元素错误集合，按下标升序
type ItemErrors struct {
	Items []ItemError `json:"items"`
}

// Errors 字段名到错误值的映射
type Errors map[string]ErrorValue

func (Message) isErrorValue()     {}
func (*ItemErrors) isErrorValue() {}
func (Errors) isErrorValue()      {}

// Has 字段是否有错误
func (e Errors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

// Get 返回字段的错误值
func (e Errors) Get(field string) (ErrorValue, bool) {
	v, ok := e[field]
	return v, ok
}

// Message 返回字段的错误消息，非消息类型的错误返回空字符串
func (e Errors) Message(field string) string {
	if msg, ok := e[field].(Message); ok {
		return string(msg)
	}
	return ""
}

// Fields 返回排序后的出错字段名
func (e Errors) Fields() []string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}

// Result 校验结果
type Result struct {
	// Valid 当且仅当 Errors 为空时为 true
	Valid bool `json:"valid"`
	// Errors 字段错误映射，通过时为空映射（非 nil）
	Errors Errors `json:"errors"`
	// Violations 每条错误消息对应的检查标签与参数，按校验顺序排列
	Violations []Violation `json:"-"`
}

// Error 实现 error 接口，便于将失败的结果直接作为错误返回
func (r Result) Error() string {
	if r.Valid {
		return "validation passed"
	}
	return "validation failed: " + strings.Join(r.Errors.Fields(), ", ")
}

// Err 校验失败时返回结果本身，通过时返回 nil
func (r Result) Err() error {
	if r.Valid {
		return nil
	}
	return r
}
