package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"tpm-common-validation/pkg/validator/schema"
)

// document Schema 文件的结构
//
//	schemas:
//	  campaign:
//	    name: {type: string, required: true, minLength: 2}
//	    budget: {type: number, min: 0}
type document struct {
	Schemas map[string]map[string]any `yaml:"schemas" json:"schemas"`
}

// schemaFileExts 支持的 Schema 文件扩展名
var schemaFileExts = map[string]bool{".yaml": true, ".yml": true, ".json": true}

// LoadFile 从单个 YAML 或 JSON 文件加载 Schema
// now 用于解析日期边界中的 today，为 nil 时使用 time.Now
func LoadFile(path string, now func() time.Time) (*Catalog, error) {
	c := New()
	if err := c.loadFile(path, now); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadDir 加载目录下全部 .yaml/.yml/.json 文件（不递归，按文件名排序）
// 不同文件声明同名 Schema 时返回 ErrSchemaAlreadyExists
func LoadDir(dir string, now func() time.Time) (*Catalog, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadSchemaFile, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !schemaFileExts[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)

	c := New()
	for _, path := range paths {
		if err := c.loadFile(path, now); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// FromConfig 按配置构建 Catalog
//
// 读取的键（相对于 v）：
//   - builtin：是否包含预置 Schema，未设置时为 true
//   - files：Schema 文件列表
//   - dirs：Schema 目录列表
//
// 文件中的 Schema 覆盖同名的预置 Schema
func FromConfig(v *viper.Viper, now func() time.Time) (*Catalog, error) {
	if v == nil {
		return Builtin(now), nil
	}

	c := New()
	if !v.IsSet("builtin") || v.GetBool("builtin") {
		c = Builtin(now)
	}

	for _, path := range v.GetStringSlice("files") {
		loaded, err := LoadFile(path, now)
		if err != nil {
			return nil, err
		}
		c.Merge(loaded)
	}

	for _, dir := range v.GetStringSlice("dirs") {
		loaded, err := LoadDir(dir, now)
		if err != nil {
			return nil, err
		}
		c.Merge(loaded)
	}

	return c, nil
}

func (c *Catalog) loadFile(path string, now func() time.Time) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrLoadSchemaFile, err)
	}

	doc, err := decodeDocument(path, raw)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrLoadSchemaFile, path, err)
	}

	var opts []schema.DecodeOption
	if now != nil {
		opts = append(opts, schema.WithClock(now))
	}

	names := make([]string, 0, len(doc.Schemas))
	for name := range doc.Schemas {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		s, err := schema.DecodeSchema(doc.Schemas[name], opts...)
		if err != nil {
			return fmt.Errorf("%w: %s: schema '%s': %w", ErrLoadSchemaFile, path, name, err)
		}
		if err := c.Register(name, s); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrLoadSchemaFile, path, err)
		}
	}
	return nil
}

// decodeDocument 按扩展名选择解码器，拒绝未知的顶层键
func decodeDocument(path string, raw []byte) (*document, error) {
	var doc document

	if strings.EqualFold(filepath.Ext(path), ".json") {
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.DisallowUnknownFields()
		dec.UseNumber()
		if err := dec.Decode(&doc); err != nil {
			return nil, err
		}
		return &doc, nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return &doc, nil
}
