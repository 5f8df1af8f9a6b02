package schema

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"time"

	"github.com/mitchellh/mapstructure"

	"tpm-common-validation/pkg/validator/check"
)

// DateToday 日期边界中的特殊值，解码时替换为当天日期（YYYY-MM-DD）
const DateToday = "today"

// dateLayout 日期边界的输出格式
const dateLayout = "2006-01-02"

// Descriptor 可序列化的规则描述，用于从 YAML/JSON/配置中心加载 Schema
// 键名与前端及历史配置保持一致（camelCase）
type Descriptor struct {
	Type     Type `mapstructure:"type" yaml:"type" json:"type"`
	Required bool `mapstructure:"required" yaml:"required,omitempty" json:"required,omitempty"`

	// string
	MinLength      *int   `mapstructure:"minLength" yaml:"minLength,omitempty" json:"minLength,omitempty"`
	MaxLength      *int   `mapstructure:"maxLength" yaml:"maxLength,omitempty" json:"maxLength,omitempty"`
	Pattern        string `mapstructure:"pattern" yaml:"pattern,omitempty" json:"pattern,omitempty"`
	PatternMessage string `mapstructure:"patternMessage" yaml:"patternMessage,omitempty" json:"patternMessage,omitempty"`

	// number / date：数值规则为数字，日期规则为日期字符串或 today
	Min     any  `mapstructure:"min" yaml:"min,omitempty" json:"min,omitempty"`
	Max     any  `mapstructure:"max" yaml:"max,omitempty" json:"max,omitempty"`
	Integer bool `mapstructure:"integer" yaml:"integer,omitempty" json:"integer,omitempty"`

	// enum
	Values []string `mapstructure:"values" yaml:"values,omitempty" json:"values,omitempty"`

	// array
	MinItems   *int                  `mapstructure:"minItems" yaml:"minItems,omitempty" json:"minItems,omitempty"`
	MaxItems   *int                  `mapstructure:"maxItems" yaml:"maxItems,omitempty" json:"maxItems,omitempty"`
	ItemType   Type                  `mapstructure:"itemType" yaml:"itemType,omitempty" json:"itemType,omitempty"`
	ItemSchema map[string]Descriptor `mapstructure:"itemSchema" yaml:"itemSchema,omitempty" json:"itemSchema,omitempty"`

	// object
	Schema map[string]Descriptor `mapstructure:"schema" yaml:"schema,omitempty" json:"schema,omitempty"`

	// phone
	Locale string `mapstructure:"locale" yaml:"locale,omitempty" json:"locale,omitempty"`

	// url
	Protocols             []string `mapstructure:"protocols" yaml:"protocols,omitempty" json:"protocols,omitempty"`
	RequireProtocol       *bool    `mapstructure:"requireProtocol" yaml:"requireProtocol,omitempty" json:"requireProtocol,omitempty"`
	RequireTLD            *bool    `mapstructure:"requireTld" yaml:"requireTld,omitempty" json:"requireTld,omitempty"`
	AllowUnderscores      bool     `mapstructure:"allowUnderscores" yaml:"allowUnderscores,omitempty" json:"allowUnderscores,omitempty"`
	AllowProtocolRelative bool     `mapstructure:"allowProtocolRelativeUrls" yaml:"allowProtocolRelativeUrls,omitempty" json:"allowProtocolRelativeUrls,omitempty"`
}

// allowedOptions 每种类型可使用的选项
var allowedOptions = map[Type][]string{
	TypeString:  {"minLength", "maxLength", "pattern", "patternMessage"},
	TypeNumber:  {"min", "max", "integer"},
	TypeBoolean: {},
	TypeDate:    {"min", "max"},
	TypeEmail:   {},
	TypeURL:     {"protocols", "requireProtocol", "requireTld", "allowUnderscores", "allowProtocolRelativeUrls"},
	TypePhone:   {"locale"},
	TypeArray:   {"minItems", "maxItems", "itemType", "itemSchema"},
	TypeObject:  {"schema"},
	TypeEnum:    {"values"},
}

// setOptions 返回已设置的类型相关选项
func (d Descriptor) setOptions() []string {
	var opts []string
	add := func(name string, set bool) {
		if set {
			opts = append(opts, name)
		}
	}
	add("minLength", d.MinLength != nil)
	add("maxLength", d.MaxLength != nil)
	add("pattern", d.Pattern != "")
	add("patternMessage", d.PatternMessage != "")
	add("min", d.Min != nil)
	add("max", d.Max != nil)
	add("integer", d.Integer)
	add("values", d.Values != nil)
	add("minItems", d.MinItems != nil)
	add("maxItems", d.MaxItems != nil)
	add("itemType", d.ItemType != "")
	add("itemSchema", d.ItemSchema != nil)
	add("schema", d.Schema != nil)
	add("locale", d.Locale != "")
	add("protocols", d.Protocols != nil)
	add("requireProtocol", d.RequireProtocol != nil)
	add("requireTld", d.RequireTLD != nil)
	add("allowUnderscores", d.AllowUnderscores)
	add("allowProtocolRelativeUrls", d.AllowProtocolRelative)
	return opts
}

// DecodeOption 解码选项
type DecodeOption func(*decodeOptions)

type decodeOptions struct {
	now func() time.Time
}

// WithClock 指定解析 today 使用的时钟，默认 time.Now
func WithClock(now func() time.Time) DecodeOption {
	return func(o *decodeOptions) {
		if now != nil {
			o.now = now
		}
	}
}

// DecodeSchema 从通用 map（YAML/JSON 解码结果）解码并检查 Schema
// 未知的键会导致解码失败，防止拼写错误的约束被静默忽略
func DecodeSchema(raw map[string]any, opts ...DecodeOption) (Schema, error) {
	var descs map[string]Descriptor
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &descs,
		TagName:          "mapstructure",
		ErrorUnused:      true,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeDescriptor, err)
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeDescriptor, err)
	}
	return FromDescriptors(descs, opts...)
}

// FromDescriptors 将规则描述转换为 Schema 并检查
func FromDescriptors(descs map[string]Descriptor, opts ...DecodeOption) (Schema, error) {
	o := &decodeOptions{now: time.Now}
	for _, opt := range opts {
		opt(o)
	}

	s, errs := fromDescriptors("", descs, o)
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	if err := s.Check(); err != nil {
		return nil, err
	}
	return s, nil
}

func fromDescriptors(prefix string, descs map[string]Descriptor, o *decodeOptions) (Schema, []error) {
	if descs == nil {
		return nil, nil
	}

	fields := make([]string, 0, len(descs))
	for field := range descs {
		fields = append(fields, field)
	}
	slices.Sort(fields)

	s := make(Schema, len(descs))
	var errs []error
	for _, field := range fields {
		path := field
		if prefix != "" {
			path = prefix + "." + field
		}
		rule, ruleErrs := descs[field].toRule(path, o)
		if len(ruleErrs) > 0 {
			errs = append(errs, ruleErrs...)
			continue
		}
		s[field] = rule
	}
	return s, errs
}

// Rule 将单个描述转换为规则（today 按当前时间解析）
func (d Descriptor) Rule() (Rule, error) {
	rule, errs := d.toRule(string(d.Type), &decodeOptions{now: time.Now})
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return rule, nil
}

func (d Descriptor) toRule(path string, o *decodeOptions) (Rule, []error) {
	allowed, known := allowedOptions[d.Type]
	if !known {
		return nil, []error{schemaErr(path, fmt.Sprintf("unknown type: %q", d.Type))}
	}

	var errs []error
	for _, opt := range d.setOptions() {
		if !slices.Contains(allowed, opt) {
			errs = append(errs, schemaErr(path, fmt.Sprintf("option %s does not apply to type %s", opt, d.Type)))
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}

	b := Base{Required: d.Required}
	switch d.Type {
	case TypeString:
		r := StringRule{Base: b, MinLength: d.MinLength, MaxLength: d.MaxLength, PatternMessage: d.PatternMessage}
		if d.Pattern != "" {
			p, err := check.CompilePattern(d.Pattern)
			if err != nil {
				return nil, []error{schemaErr(path, err.Error())}
			}
			r.Pattern = p
		}
		return r, nil

	case TypeNumber:
		r := NumberRule{Base: b, Integer: d.Integer}
		var err error
		if r.Min, err = numberBound(d.Min); err != nil {
			errs = append(errs, schemaErr(path, "min: "+err.Error()))
		}
		if r.Max, err = numberBound(d.Max); err != nil {
			errs = append(errs, schemaErr(path, "max: "+err.Error()))
		}
		return r, errs

	case TypeDate:
		r := DateRule{Base: b}
		var err error
		if r.Min, err = dateBound(d.Min, o); err != nil {
			errs = append(errs, schemaErr(path, "min: "+err.Error()))
		}
		if r.Max, err = dateBound(d.Max, o); err != nil {
			errs = append(errs, schemaErr(path, "max: "+err.Error()))
		}
		return r, errs

	case TypeBoolean:
		return BooleanRule{Base: b}, nil

	case TypeEmail:
		return EmailRule{Base: b}, nil

	case TypeURL:
		return URLRule{Base: b, URLOptions: check.URLOptions{
			Protocols:             d.Protocols,
			RequireProtocol:       d.RequireProtocol,
			RequireTLD:            d.RequireTLD,
			AllowUnderscores:      d.AllowUnderscores,
			AllowProtocolRelative: d.AllowProtocolRelative,
		}}, nil

	case TypePhone:
		return PhoneRule{Base: b, Locale: d.Locale}, nil

	case TypeArray:
		items, itemErrs := fromDescriptors(path+"[]", d.ItemSchema, o)
		return ArrayRule{
			Base:       b,
			MinItems:   d.MinItems,
			MaxItems:   d.MaxItems,
			ItemType:   d.ItemType,
			ItemSchema: items,
		}, itemErrs

	case TypeObject:
		nested, nestedErrs := fromDescriptors(path, d.Schema, o)
		return ObjectRule{Base: b, Schema: nested}, nestedErrs

	case TypeEnum:
		return EnumRule{Base: b, Values: d.Values}, nil
	}

	return nil, []error{schemaErr(path, fmt.Sprintf("unknown type: %q", d.Type))}
}

// numberBound 解析数值边界
func numberBound(v any) (*float64, error) {
	if v == nil {
		return nil, nil
	}
	f, ok := check.ToNumber(v)
	if !ok {
		return nil, fmt.Errorf("expected a number, got %T", v)
	}
	return &f, nil
}

// dateBound 解析日期边界，支持 today 与 time.Time（YAML 时间戳）
func dateBound(v any, o *decodeOptions) (string, error) {
	switch b := v.(type) {
	case nil:
		return "", nil
	case string:
		if b == DateToday {
			return o.now().UTC().Format(dateLayout), nil
		}
		return b, nil
	case time.Time:
		if b.Equal(b.Truncate(24 * time.Hour)) {
			return b.UTC().Format(dateLayout), nil
		}
		return b.Format(time.RFC3339), nil
	}
	return "", fmt.Errorf("expected a date string, got %T", v)
}

// Describe 将 Schema 转换为可序列化的规则描述
// 自定义校验函数无法序列化，会被省略
func Describe(s Schema) map[string]Descriptor {
	if s == nil {
		return nil
	}
	out := make(map[string]Descriptor, len(s))
	for field, rule := range s {
		if rule != nil {
			out[field] = DescribeRule(rule)
		}
	}
	return out
}

// DescribeRule 将单个规则转换为规则描述
func DescribeRule(rule Rule) Descriptor {
	if rv := reflect.ValueOf(rule); rv.Kind() == reflect.Pointer && !rv.IsNil() {
		if r, ok := rv.Elem().Interface().(Rule); ok {
			rule = r
		}
	}

	d := Descriptor{Type: rule.Type(), Required: rule.base().Required}

	switch r := rule.(type) {
	case StringRule:
		d.MinLength, d.MaxLength, d.PatternMessage = r.MinLength, r.MaxLength, r.PatternMessage
		if r.Pattern != nil {
			d.Pattern = r.Pattern.String()
		}
	case NumberRule:
		if r.Min != nil {
			d.Min = *r.Min
		}
		if r.Max != nil {
			d.Max = *r.Max
		}
		d.Integer = r.Integer
	case DateRule:
		if r.Min != "" {
			d.Min = r.Min
		}
		if r.Max != "" {
			d.Max = r.Max
		}
	case URLRule:
		d.Protocols = r.Protocols
		d.RequireProtocol = r.RequireProtocol
		d.RequireTLD = r.RequireTLD
		d.AllowUnderscores = r.AllowUnderscores
		d.AllowProtocolRelative = r.AllowProtocolRelative
	case PhoneRule:
		d.Locale = r.Locale
	case ArrayRule:
		d.MinItems, d.MaxItems, d.ItemType = r.MinItems, r.MaxItems, r.ItemType
		d.ItemSchema = Describe(r.ItemSchema)
	case ObjectRule:
		d.Schema = Describe(r.Schema)
	case EnumRule:
		d.Values = r.Values
	}
	return d
}
