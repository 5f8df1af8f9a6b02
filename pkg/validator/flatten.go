package validator

import (
	"sort"

	"tpm-common-validation/pkg/validator/schema"
)

// 扁平化后的检查标签
const (
	TagRequired  = schema.TagRequired
	TagType      = schema.TagType
	TagMinLength = schema.TagMinLength
	TagMaxLength = schema.TagMaxLength
	TagPattern   = schema.TagPattern
	TagMin       = schema.TagMin
	TagMax       = schema.TagMax
	TagInteger   = schema.TagInteger
	TagDate      = schema.TagDate
	TagEmail     = schema.TagEmail
	TagURL       = schema.TagURL
	TagPhone     = schema.TagPhone
	TagMinItems  = schema.TagMinItems
	TagMaxItems  = schema.TagMaxItems
	TagItem      = schema.TagItem
	TagEnum      = schema.TagEnum
	TagCustom    = schema.TagCustom
)

// Flatten 将校验结果展开为字段错误列表，按命名空间排序
//
// 命名空间形如 customer.email、items[0].quantity；
// 标签与参数取自校验时记录的 Violations，自定义校验的消息标记为 custom
func Flatten(res schema.Result) []*FieldError {
	return flattenViolations(res.Violations)
}

func flattenViolations(violations []schema.Violation) []*FieldError {
	out := make([]*FieldError, 0, len(violations))
	for _, v := range violations {
		out = append(out, &FieldError{
			JsonName:  v.Field,
			Namespace: v.Namespace,
			Tag:       v.Tag,
			Param:     v.Param,
			Message:   v.Message,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Namespace < out[j].Namespace
	})
	return out
}
