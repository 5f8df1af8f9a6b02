package schema

import "strconv"

// 检查标签，标识失败的是哪一项检查
const (
	TagRequired  = "required"
	TagType      = "type"
	TagMinLength = "min_length"
	TagMaxLength = "max_length"
	TagPattern   = "pattern"
	TagMin       = "min"
	TagMax       = "max"
	TagInteger   = "integer"
	TagDate      = "date"
	TagEmail     = "email"
	TagURL       = "url"
	TagPhone     = "phone"
	TagMinItems  = "min_items"
	TagMaxItems  = "max_items"
	TagItem      = "item"
	TagEnum      = "enum"
	TagCustom    = "custom"
)

// Violation 一条失败的检查
// 与 Errors 中的叶子消息一一对应，附带结构化的标签与参数
type Violation struct {
	// Namespace 完整路径，如 customer.email、items[0].quantity、items[2]
	Namespace string
	// Field 所属字段名（数组元素错误为数组字段名）
	Field string
	// Tag 检查标签
	Tag string
	// Param 检查参数（如 min_length 的长度），无参数时为空
	Param string
	// Message 错误消息，与 Errors 中的内容一致
	Message string
}

// scope 一次校验中的当前命名空间与失败记录
type scope struct {
	prefix     string
	violations *[]Violation
}

func newScope() scope {
	return scope{violations: new([]Violation)}
}

// path 字段在当前命名空间下的完整路径
func (sc scope) path(field string) string {
	if sc.prefix == "" {
		return field
	}
	return sc.prefix + "." + field
}

// nested 进入字段对应的子命名空间
func (sc scope) nested(namespace string) scope {
	return scope{prefix: namespace, violations: sc.violations}
}

// itemPath 数组元素的路径
func (sc scope) itemPath(field string, index int) string {
	return sc.path(field) + "[" + strconv.Itoa(index) + "]"
}

// fail 记录字段的失败检查并返回对应的消息
func (sc scope) fail(field, tag, param, msg string) Message {
	return sc.record(sc.path(field), field, tag, param, msg)
}

func (sc scope) record(namespace, field, tag, param, msg string) Message {
	*sc.violations = append(*sc.violations, Violation{
		Namespace: namespace,
		Field:     field,
		Tag:       tag,
		Param:     param,
		Message:   msg,
	})
	return Message(msg)
}

// mark 当前记录位置，配合 rewind 撤销一个字段的全部记录
func (sc scope) mark() int {
	return len(*sc.violations)
}

func (sc scope) rewind(mark int) {
	*sc.violations = (*sc.violations)[:mark]
}
