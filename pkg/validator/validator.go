// Package validator 业务实体数据校验入口
//
// Validator 组合 Schema Catalog、结构化日志与结果观察者：
//
//	v := validator.New(validator.WithLogger(logger))
//	res, err := v.Validate("order", data)
//	if err != nil {
//	    // 未注册的实体
//	}
//	if !res.Valid {
//	    body, _ := validator.NewValidationError("order", res).ToJSON()
//	}
//
// 校验规则本身见 schema 包，基础检查函数见 check 包。
package validator

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"tpm-common-validation/pkg/validator/catalog"
	"tpm-common-validation/pkg/validator/schema"
)

// Validator 按实体名称查找 Schema 并校验数据，并发安全
type Validator struct {
	catalog  *catalog.Catalog
	logger   *zap.Logger
	observer Observer
	now      func() time.Time
}

// Option Validator 配置项
type Option func(*Validator)

// WithCatalog 指定 Schema Catalog，默认为 catalog.Builtin
func WithCatalog(c *catalog.Catalog) Option {
	return func(v *Validator) {
		v.catalog = c
	}
}

// WithLogger 指定日志，默认不输出
func WithLogger(logger *zap.Logger) Option {
	return func(v *Validator) {
		if logger != nil {
			v.logger = logger
		}
	}
}

// WithObserver 追加结果观察者
func WithObserver(o Observer) Option {
	return func(v *Validator) {
		if o == nil {
			return
		}
		if existing, ok := v.observer.(multiObserver); ok {
			v.observer = append(existing, o)
			return
		}
		if _, nop := v.observer.(NopObserver); nop {
			v.observer = o
			return
		}
		v.observer = multiObserver{v.observer, o}
	}
}

// WithClock 指定时钟，用于耗时统计以及默认 Catalog 中的“今天”
func WithClock(now func() time.Time) Option {
	return func(v *Validator) {
		if now != nil {
			v.now = now
		}
	}
}

// New 创建 Validator
func New(opts ...Option) *Validator {
	v := &Validator{
		logger:   zap.NewNop(),
		observer: NopObserver{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	if v.catalog == nil {
		v.catalog = catalog.Builtin(v.now)
	}
	return v
}

// Catalog 返回使用的 Schema Catalog
func (v *Validator) Catalog() *catalog.Catalog {
	return v.catalog
}

// Validate 按实体名称校验数据
// 实体未注册时返回 catalog.ErrSchemaNotFound
func (v *Validator) Validate(entity string, data map[string]any) (schema.Result, error) {
	s, err := v.catalog.Get(entity)
	if err != nil {
		v.logger.Warn("未注册的校验实体", zap.String("entity", entity), zap.Error(err))
		return schema.Result{}, fmt.Errorf("validate %s: %w", entity, err)
	}
	return v.ValidateSchema(entity, data, s), nil
}

// ValidateSchema 使用给定 Schema 校验数据，name 仅用于日志与观察者
func (v *Validator) ValidateSchema(name string, data map[string]any, s schema.Schema) schema.Result {
	start := v.now()
	res := schema.Validate(data, s)
	elapsed := v.now().Sub(start)

	if res.Valid {
		v.logger.Debug("校验通过",
			zap.String("entity", name),
			zap.Duration("elapsed", elapsed),
		)
	} else {
		v.logger.Info("校验失败",
			zap.String("entity", name),
			zap.Int("error_count", len(res.Errors)),
			zap.Strings("fields", res.Errors.Fields()),
			zap.Duration("elapsed", elapsed),
		)
	}

	v.observer.Observe(name, res, elapsed)
	return res
}

// ValidateJSON 解码 JSON 对象后校验，数字保留为 json.Number
func (v *Validator) ValidateJSON(entity string, raw []byte) (schema.Result, error) {
	data, err := DecodeJSON(raw)
	if err != nil {
		return schema.Result{}, err
	}
	return v.Validate(entity, data)
}

// Check 校验数据，失败时返回 *ValidationError
func (v *Validator) Check(entity string, data map[string]any) error {
	res, err := v.Validate(entity, data)
	if err != nil {
		return err
	}
	if !res.Valid {
		return NewValidationError(entity, res)
	}
	return nil
}

// DecodeJSON 将 JSON 文档解码为记录，顶层必须是对象
func DecodeJSON(raw []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data after document", ErrInvalidDocument)
	}

	data, ok := doc.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: got %T", ErrInvalidDocument, doc)
	}
	return data, nil
}
