// Package catalog 实体名到 Schema 的注册表
//
// Catalog 不是全局单例，由调用方创建并注入到需要的组件中；
// Builtin 返回预置 user、product、promotion、order 等业务实体的 Catalog，
// LoadFile/LoadDir/FromConfig 从 YAML 或 JSON 文件加载额外的 Schema。
package catalog

import (
	"fmt"
	"regexp"
	"sort"
	"sync"

	"tpm-common-validation/pkg/validator/schema"
)

// maxNameLength 名称的最大长度
const maxNameLength = 256

// nameFormatRegex 名称的合法字符：字母、数字、下划线、连字符、点
var nameFormatRegex = regexp.MustCompile(`^[a-zA-Z0-9_\-.]+$`)

// Catalog Schema 注册表，并发安全
type Catalog struct {
	schemas map[string]schema.Schema // 名称到 Schema 的映射
	mu      sync.RWMutex             // 读写锁，保护并发访问
}

// New 创建空的 Catalog
func New() *Catalog {
	return &Catalog{schemas: make(map[string]schema.Schema)}
}

// Register 注册 Schema，名称已存在时返回 ErrSchemaAlreadyExists
// Schema 在注册前执行 Check，配置不合法时返回 schema.ErrInvalidSchema
func (c *Catalog) Register(name string, s schema.Schema) error {
	if err := validateName(name); err != nil {
		return err
	}
	if err := s.Check(); err != nil {
		return fmt.Errorf("schema '%s': %w", name, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.schemas[name]; exists {
		return fmt.Errorf("%w: name '%s'", ErrSchemaAlreadyExists, name)
	}
	c.schemas[name] = s.Clone()
	return nil
}

// Replace 注册或覆盖 Schema
func (c *Catalog) Replace(name string, s schema.Schema) error {
	if err := validateName(name); err != nil {
		return err
	}
	if err := s.Check(); err != nil {
		return fmt.Errorf("schema '%s': %w", name, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.schemas[name] = s.Clone()
	return nil
}

// Get 获取已注册的 Schema
func (c *Catalog) Get(name string) (schema.Schema, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	s, exists := c.schemas[name]
	if !exists {
		return nil, fmt.Errorf("%w: name '%s'", ErrSchemaNotFound, name)
	}
	return s, nil
}

// MustGet 获取 Schema，不存在时 panic
func (c *Catalog) MustGet(name string) schema.Schema {
	s, err := c.Get(name)
	if err != nil {
		panic(err)
	}
	return s
}

// Lookup 获取 Schema，未知名称返回空 Schema（任何数据都能通过）
func (c *Catalog) Lookup(name string) schema.Schema {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if s, exists := c.schemas[name]; exists {
		return s
	}
	return schema.Schema{}
}

// Has 名称是否已注册
func (c *Catalog) Has(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, exists := c.schemas[name]
	return exists
}

// Remove 移除 Schema
func (c *Catalog) Remove(name string) error {
	if err := validateName(name); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.schemas[name]; !exists {
		return fmt.Errorf("%w: name '%s'", ErrSchemaNotFound, name)
	}
	delete(c.schemas, name)
	return nil
}

// Names 返回排序后的已注册名称
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.schemas))
	for name := range c.schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len 已注册的 Schema 数量
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.schemas)
}

// Merge 将 other 中的全部 Schema 覆盖写入当前 Catalog
func (c *Catalog) Merge(other *Catalog) {
	if other == nil || other == c {
		return
	}

	other.mu.RLock()
	defer other.mu.RUnlock()
	c.mu.Lock()
	defer c.mu.Unlock()

	for name, s := range other.schemas {
		c.schemas[name] = s
	}
}

// validateName 验证名称的有效性
func validateName(name string) error {
	if len(name) == 0 {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidName)
	}

	if len(name) > maxNameLength {
		return fmt.Errorf("%w: name too long (max %d), got %d", ErrInvalidName, maxNameLength, len(name))
	}

	if !nameFormatRegex.MatchString(name) {
		return fmt.Errorf("%w: name '%s' contains invalid characters", ErrInvalidName, name)
	}

	return nil
}
