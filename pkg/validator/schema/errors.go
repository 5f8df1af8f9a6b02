package schema

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSchema Schema 配置不合法
	ErrInvalidSchema = errors.New("invalid schema")

	// ErrDecodeDescriptor 规则描述无法解码
	ErrDecodeDescriptor = errors.New("cannot decode rule descriptor")
)

// SchemaError 单个字段的 Schema 配置错误
type SchemaError struct {
	// Field 字段路径（如 customer.email、items[].quantity）
	Field string
	// Reason 错误原因
	Reason string
}

// Error 实现 error 接口
func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: field '%s': %s", ErrInvalidSchema, e.Field, e.Reason)
}

// Unwrap 支持 errors.Is(err, ErrInvalidSchema)
func (e *SchemaError) Unwrap() error {
	return ErrInvalidSchema
}
