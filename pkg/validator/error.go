package validator

import (
	"encoding/json"
	"fmt"
	"strings"

	"tpm-common-validation/pkg/validator/schema"
)

// errorMessageEstimateLen 单条错误消息的预估长度，用于预分配
const errorMessageEstimateLen = 64

// defaultFailureMessage ValidationError 的默认总体消息
const defaultFailureMessage = "Validation failed"

// FieldError 单个字段的校验错误（扁平形式）
// 国际化时，可以通过 Namespace + Tag 和 Param 查找对应的翻译
// 如 items[0].quantity + min + params=["1"]
type FieldError struct {
	// JsonName 字段名（命名空间的最后一段）
	JsonName string `json:"json_name"`
	// Tag 失败的检查（如 required, type, min, enum, custom 等）
	Tag string `json:"tag"`
	// Param 检查参数（如 min=1 中的 "1"）
	Param string `json:"param,omitempty"`
	// Message 错误消息
	Message string `json:"message,omitempty"`
	// Namespace 字段的完整路径（如 customer.email、items[0].quantity）
	Namespace string `json:"namespace"`
}

// String 返回友好的错误信息
func (fe *FieldError) String() string {
	if fe.Message != "" {
		return fmt.Sprintf("field '%s': %s", fe.Namespace, fe.Message)
	}
	return fmt.Sprintf("field '%s' validation failed on tag '%s'", fe.Namespace, fe.Tag)
}

// ValidationError 校验失败的结果，面向 HTTP 等需要 error 的调用方
type ValidationError struct {
	// Entity 实体名称
	Entity string `json:"-"`
	// Message 总体错误消息
	Message string `json:"message"`
	// Errors 与数据同构的错误映射
	Errors schema.Errors `json:"errors"`

	violations []schema.Violation
}

// NewValidationError 由失败的校验结果创建 ValidationError
func NewValidationError(entity string, res schema.Result) *ValidationError {
	return &ValidationError{
		Entity:  entity,
		Message:    defaultFailureMessage,
		Errors:     res.Errors,
		violations: res.Violations,
	}
}

// Error 实现 error 接口
func (ve *ValidationError) Error() string {
	fields := ve.Fields()
	if len(fields) == 0 {
		if ve.Entity == "" {
			return "validation failed: " + ve.Message
		}
		return fmt.Sprintf("%s validation failed: %s", ve.Entity, ve.Message)
	}

	var builder strings.Builder
	builder.Grow(len(fields) * errorMessageEstimateLen)

	if ve.Entity != "" {
		builder.WriteString(ve.Entity)
		builder.WriteString(": ")
	}
	for i, fe := range fields {
		if i > 0 {
			builder.WriteString("; ")
		}
		builder.WriteString(fe.String())
	}
	return builder.String()
}

// Fields 返回扁平化后的字段错误，按命名空间排序
func (ve *ValidationError) Fields() []*FieldError {
	return flattenViolations(ve.violations)
}

// ToJSON 转换为 {"message": ..., "errors": {...}}
func (ve *ValidationError) ToJSON() ([]byte, error) {
	return json.Marshal(ve)
}

// GetErrorsByNamespace 按命名空间获取错误
func (ve *ValidationError) GetErrorsByNamespace(namespace string) []*FieldError {
	var errs []*FieldError
	for _, fe := range ve.Fields() {
		if fe.Namespace == namespace {
			errs = append(errs, fe)
		}
	}
	return errs
}

// GetErrorsByTag 按检查标签获取错误
func (ve *ValidationError) GetErrorsByTag(tag string) []*FieldError {
	var errs []*FieldError
	for _, fe := range ve.Fields() {
		if fe.Tag == tag {
			errs = append(errs, fe)
		}
	}
	return errs
}
