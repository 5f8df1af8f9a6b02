package schema

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const orderYAML = `
customer:
  type: object
  required: true
  schema:
    name: {type: string, required: true}
    email: {type: email, required: true}
    phone: {type: phone}
items:
  type: array
  required: true
  minItems: 1
  itemType: object
  itemSchema:
    productId: {type: string, required: true}
    quantity: {type: number, required: true, min: 1, integer: true}
    price: {type: number, required: true, min: 0}
status:
  type: enum
  values: [pending, shipped]
code:
  type: string
  pattern: "^(?=.*\\d)[A-Z\\d]{4}$"
  patternMessage: code must contain a digit
`

func decodeYAML(t *testing.T, src string, opts ...DecodeOption) (Schema, error) {
	t.Helper()
	var raw map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(src), &raw))
	return DecodeSchema(raw, opts...)
}

func TestDecodeSchema_YAML(t *testing.T) {
	s, err := decodeYAML(t, orderYAML)
	require.NoError(t, err)
	require.Len(t, s, 4)

	items, ok := s["items"].(ArrayRule)
	require.True(t, ok)
	assert.Equal(t, TypeObject, items.ItemType)
	assert.Equal(t, 1, *items.MinItems)
	assert.True(t, IsRequired(items.ItemSchema["quantity"]))

	res := Validate(map[string]any{
		"customer": map[string]any{"name": "Ann"},
		"items": []any{
			map[string]any{"productId": "p1", "quantity": 1, "price": 2},
			map[string]any{"productId": "p2", "quantity": 1.5, "price": 2},
		},
		"status": "lost",
		"code":   "ABCD",
	}, s)

	assert.Equal(t, Errors{
		"customer": Errors{"email": Message("email is required")},
		"items": &ItemErrors{Items: []ItemError{
			{Index: 1, Errors: Errors{"quantity": Message("quantity must be an integer")}},
		}},
		"status": Message("status must be one of: pending, shipped"),
		"code":   Message("code must contain a digit"),
	}, res.Errors)

	assert.True(t, Validate(map[string]any{
		"customer": map[string]any{"name": "Ann", "email": "ann@example.com"},
		"items":    []any{map[string]any{"productId": "p1", "quantity": 2, "price": 0}},
		"code":     "AB12",
	}, s).Valid)
}

func TestDecodeSchema_JSON(t *testing.T) {
	var raw map[string]any
	require.NoError(t, json.Unmarshal([]byte(`{
		"name": {"type": "string", "required": true, "minLength": 2, "maxLength": 100},
		"site": {"type": "url", "protocols": ["https"], "requireTld": false}
	}`), &raw))

	s, err := DecodeSchema(raw)
	require.NoError(t, err)

	name := s["name"].(StringRule)
	assert.Equal(t, 2, *name.MinLength)
	assert.Equal(t, 100, *name.MaxLength)

	site := s["site"].(URLRule)
	assert.Equal(t, []string{"https"}, site.Protocols)
	assert.False(t, *site.RequireTLD)
	assert.True(t, Validate(map[string]any{"name": "Al", "site": "https://localhost"}, s).Valid)
}

func TestDecodeSchema_Errors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantErr error
		msg     string
	}{
		{"未知键", "name: {type: string, minLen: 2}", ErrDecodeDescriptor, "minLen"},
		{"嵌套未知键", "c: {type: object, schema: {n: {type: string, requred: true}}}", ErrDecodeDescriptor, "requred"},
		{"未知类型", "id: {type: uuid}", ErrInvalidSchema, `unknown type: "uuid"`},
		{"缺少类型", "id: {required: true}", ErrInvalidSchema, `unknown type: ""`},
		{"选项不适用于类型", "n: {type: number, minLength: 2}", ErrInvalidSchema, "option minLength does not apply to type number"},
		{"非法模式", "s: {type: string, pattern: '[a-'}", ErrInvalidSchema, "field 's'"},
		{"数值边界类型错误", "n: {type: number, min: abc}", ErrInvalidSchema, "min: expected a number"},
		{"日期边界无法解析", "d: {type: date, max: someday}", ErrInvalidSchema, "max is not an ISO-8601 date"},
		{"数组元素配置", "a: {type: array, itemType: object}", ErrInvalidSchema, "itemType object requires itemSchema"},
		{"数组元素路径", "a: {type: array, itemType: object, itemSchema: {x: {type: nope}}}", ErrInvalidSchema, "field 'a[].x'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeYAML(t, tt.src)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestDecodeSchema_Today(t *testing.T) {
	now := func() time.Time { return time.Date(2024, 3, 15, 18, 30, 0, 0, time.UTC) }

	s, err := decodeYAML(t, "startDate: {type: date, required: true, min: today}", WithClock(now))
	require.NoError(t, err)
	assert.Equal(t, "2024-03-15", s["startDate"].(DateRule).Min)

	assert.True(t, Validate(map[string]any{"startDate": "2024-03-15"}, s).Valid)
	assert.Equal(t,
		"startDate must be a valid date after 2024-03-15",
		Validate(map[string]any{"startDate": "2024-03-14"}, s).Errors.Message("startDate"),
	)
}

func TestDecodeSchema_TodayIsUTCDate(t *testing.T) {
	kiritimati := time.FixedZone("UTC+14", 14*60*60)
	now := func() time.Time { return time.Date(2026, 1, 1, 5, 0, 0, 0, kiritimati) }

	s, err := decodeYAML(t, "startDate: {type: date, min: today}", WithClock(now))
	require.NoError(t, err)
	assert.Equal(t, "2025-12-31", s["startDate"].(DateRule).Min)
}

func TestDescribe_RoundTrip(t *testing.T) {
	original, err := decodeYAML(t, orderYAML)
	require.NoError(t, err)

	out, err := yaml.Marshal(Describe(original))
	require.NoError(t, err)

	decoded, err := decodeYAML(t, string(out))
	require.NoError(t, err)
	assert.Equal(t, Describe(original), Describe(decoded))
}

func TestDescribeRule(t *testing.T) {
	d := DescribeRule(NumberRule{Base: Base{Required: true}, Min: Float(0), Max: Float(100)})
	assert.Equal(t, Descriptor{Type: TypeNumber, Required: true, Min: 0.0, Max: 100.0}, d)

	d = DescribeRule(&EnumRule{Values: []string{"a"}})
	assert.Equal(t, Descriptor{Type: TypeEnum, Values: []string{"a"}}, d)

	rule, err := Descriptor{Type: TypeDate, Min: "2024-01-01"}.Rule()
	require.NoError(t, err)
	assert.Equal(t, DateRule{Min: "2024-01-01"}, rule)

	_, err = Descriptor{Type: TypeBoolean, Values: []string{"x"}}.Rule()
	assert.ErrorIs(t, err, ErrInvalidSchema)
}
