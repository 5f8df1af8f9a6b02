package schema

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tpm-common-validation/pkg/validator/check"
)

func TestSchema_Check(t *testing.T) {
	tests := []struct {
		name   string
		schema Schema
		field  string
		reason string
	}{
		{"负数长度", Schema{"s": StringRule{MinLength: Int(-1)}}, "s", "minLength must not be negative"},
		{"长度上下界颠倒", Schema{"s": StringRule{MinLength: Int(5), MaxLength: Int(2)}}, "s", "minLength must not exceed maxLength"},
		{"数值上下界颠倒", Schema{"n": NumberRule{Min: Float(10), Max: Float(1)}}, "n", "min must not exceed max"},
		{"非有限数值", Schema{"n": NumberRule{Max: Float(math.Inf(1))}}, "n", "max must be a finite number"},
		{"无法解析的日期", Schema{"d": DateRule{Min: "yesterday"}}, "d", "min is not an ISO-8601 date: yesterday"},
		{"日期上下界颠倒", Schema{"d": DateRule{Min: "2024-02-01", Max: "2024-01-01"}}, "d", "min must not be after max"},
		{"空枚举", Schema{"e": EnumRule{}}, "e", "enum requires at least one value"},
		{"未知地区", Schema{"p": PhoneRule{Locale: "xx-XX"}}, "p", "unsupported phone locale: xx-XX"},
		{"空协议", Schema{"u": URLRule{URLOptions: check.URLOptions{Protocols: []string{""}}}}, "u", "protocols must not contain empty entries"},
		{"协议相对 URL 与必需协议冲突", Schema{"u": URLRule{URLOptions: check.URLOptions{AllowProtocolRelative: true}}}, "u", "allowProtocolRelativeUrls has no effect while a protocol is required"},
		{"对象数组缺少 ItemSchema", Schema{"a": ArrayRule{ItemType: TypeObject}}, "a", "itemType object requires itemSchema"},
		{"ItemSchema 缺少 ItemType", Schema{"a": ArrayRule{ItemSchema: Schema{}}}, "a", "itemSchema requires itemType object"},
		{"不支持的元素类型", Schema{"a": ArrayRule{ItemType: TypeEnum}}, "a", "itemType enum is not supported for array items"},
		{"未知元素类型", Schema{"a": ArrayRule{ItemType: "uuid"}}, "a", "unknown itemType: uuid"},
		{"nil 规则", Schema{"x": nil}, "x", "rule is nil"},
		{"嵌套对象路径", Schema{"customer": ObjectRule{Schema: Schema{"email": EnumRule{}}}}, "customer.email", "enum requires at least one value"},
		{"嵌套数组路径", Schema{"items": ArrayRule{ItemType: TypeObject, ItemSchema: Schema{"qty": NumberRule{Min: Float(2), Max: Float(1)}}}}, "items[].qty", "min must not exceed max"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.schema.Check()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidSchema)

			var se *SchemaError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, tt.field, se.Field)
			assert.Equal(t, tt.reason, se.Reason)
		})
	}
}

func TestSchema_CheckValid(t *testing.T) {
	s := Schema{
		"name":  StringRule{MinLength: Int(0), MaxLength: Int(0)},
		"n":     NumberRule{Min: Float(1), Max: Float(1)},
		"d":     DateRule{Min: "2024-01-01", Max: "2024-01-01T00:00:00Z"},
		"phone": PhoneRule{},
		"ids":   ArrayRule{ItemType: TypeString},
		"tags":  ArrayRule{ItemType: TypeString, ItemSchema: Schema{}},
		"free":  ArrayRule{},
		"obj":   ObjectRule{},
		"url":   URLRule{URLOptions: check.URLOptions{RequireProtocol: Bool(false), AllowProtocolRelative: true}},
	}

	assert.NoError(t, s.Check())
	assert.NotPanics(t, func() { s.MustCheck() })
}

func TestSchema_CheckJoinsAllErrors(t *testing.T) {
	s := Schema{
		"a": EnumRule{},
		"b": StringRule{MinLength: Int(-1), MaxLength: Int(-2)},
	}

	err := s.Check()
	require.Error(t, err)

	var joined interface{ Unwrap() []error }
	require.True(t, errors.As(err, &joined))
	assert.Len(t, joined.Unwrap(), 4)
	assert.Panics(t, func() { s.MustCheck() })
}

func TestSchema_CheckDepth(t *testing.T) {
	s := Schema{"leaf": StringRule{}}
	for i := 0; i <= maxSchemaDepth+1; i++ {
		s = Schema{"n": ObjectRule{Schema: s}}
	}

	err := s.Check()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema nesting exceeds maximum depth")
}

func TestSchemaError_Error(t *testing.T) {
	err := &SchemaError{Field: "price", Reason: "min must not exceed max"}
	assert.Equal(t, "invalid schema: field 'price': min must not exceed max", err.Error())
	assert.True(t, errors.Is(err, ErrInvalidSchema))
}
