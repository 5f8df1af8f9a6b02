package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tpm-common-validation/pkg/validator/schema"
)

const campaignYAML = `
schemas:
  campaign:
    name: {type: string, required: true, minLength: 2}
    launchDate: {type: date, required: true, min: today}
    channels:
      type: array
      minItems: 1
      itemType: string
  product:
    sku: {type: string, required: true}
`

const vendorJSON = `{
  "schemas": {
    "vendor": {
      "name": {"type": "string", "required": true, "maxLength": 10},
      "rebate": {"type": "number", "min": 0, "max": 30}
    }
  }
}`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFile_YAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "campaign.yaml", campaignYAML)

	c, err := LoadFile(path, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, []string{"campaign", "product"}, c.Names())

	s := c.MustGet("campaign")
	assert.Equal(t, "2024-05-10", s["launchDate"].(schema.DateRule).Min)

	res := schema.Validate(map[string]any{"name": "X", "launchDate": "2024-05-01", "channels": []any{}}, s)
	assert.Equal(t, schema.Errors{
		"name":       schema.Message("name must be at least 2 characters"),
		"launchDate": schema.Message("launchDate must be a valid date after 2024-05-10"),
		"channels":   schema.Message("channels must contain at least 1 items"),
	}, res.Errors)
}

func TestLoadFile_JSON(t *testing.T) {
	path := writeFile(t, t.TempDir(), "vendor.json", vendorJSON)

	c, err := LoadFile(path, nil)
	require.NoError(t, err)

	res := schema.Validate(map[string]any{"name": "Very Long Vendor", "rebate": 31}, c.MustGet("vendor"))
	assert.Equal(t, schema.Errors{
		"name":   schema.Message("name must be at most 10 characters"),
		"rebate": schema.Message("rebate must be at most 30"),
	}, res.Errors)
}

func TestLoadFile_Errors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		file    string
		content string
		cause   error
	}{
		{"文件不存在", "", "", nil},
		{"YAML 语法错误", "bad.yaml", "schemas: [", nil},
		{"未知顶层键", "extra.yaml", "schema: {}", nil},
		{"JSON 未知顶层键", "extra.json", `{"schemes": {}}`, nil},
		{"未知规则键", "typo.yaml", "schemas: {x: {a: {type: string, maxLen: 2}}}", schema.ErrDecodeDescriptor},
		{"非法规则", "rule.yaml", "schemas: {x: {a: {type: enum}}}", schema.ErrInvalidSchema},
		{"非法名称", "name.yaml", "schemas: {'bad name': {a: {type: string}}}", ErrInvalidName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, "missing.yaml")
			if tt.file != "" {
				path = writeFile(t, dir, tt.file, tt.content)
			}
			_, err := LoadFile(path, fixedNow)
			assert.ErrorIs(t, err, ErrLoadSchemaFile)
			if tt.cause != nil {
				assert.ErrorIs(t, err, tt.cause)
			}
		})
	}
}

func TestLoadFile_Empty(t *testing.T) {
	path := writeFile(t, t.TempDir(), "empty.yaml", "")

	c, err := LoadFile(path, nil)
	require.NoError(t, err)
	assert.Zero(t, c.Len())
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.yaml", campaignYAML)
	writeFile(t, dir, "b.json", vendorJSON)
	writeFile(t, dir, "notes.txt", "ignored")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.yaml"), 0o700))

	c, err := LoadDir(dir, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, []string{"campaign", "product", "vendor"}, c.Names())

	writeFile(t, dir, "c.yml", "schemas: {vendor: {name: {type: string}}}")
	_, err = LoadDir(dir, fixedNow)
	assert.ErrorIs(t, err, ErrSchemaAlreadyExists)
	assert.ErrorIs(t, err, ErrLoadSchemaFile)
	assert.Contains(t, err.Error(), "c.yml")

	_, err = LoadDir(filepath.Join(dir, "nope"), fixedNow)
	assert.ErrorIs(t, err, ErrLoadSchemaFile)
}

func TestFromConfig(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "campaign.yaml", campaignYAML)
	vendors := filepath.Join(dir, "vendors")
	require.NoError(t, os.Mkdir(vendors, 0o700))
	writeFile(t, vendors, "vendor.json", vendorJSON)

	t.Run("默认包含预置 Schema", func(t *testing.T) {
		c, err := FromConfig(viper.New(), fixedNow)
		require.NoError(t, err)
		assert.Equal(t, Builtin(fixedNow).Names(), c.Names())
	})

	t.Run("nil 配置", func(t *testing.T) {
		c, err := FromConfig(nil, fixedNow)
		require.NoError(t, err)
		assert.Equal(t, 7, c.Len())
	})

	t.Run("文件覆盖预置 Schema", func(t *testing.T) {
		v := viper.New()
		v.Set("files", []string{file})
		v.Set("dirs", []string{vendors})

		c, err := FromConfig(v, fixedNow)
		require.NoError(t, err)
		assert.True(t, c.Has("campaign"))
		assert.True(t, c.Has("vendor"))
		assert.True(t, c.Has(EntityOrder))
		assert.Equal(t, []string{"sku"}, c.MustGet(EntityProduct).Fields())
	})

	t.Run("关闭预置 Schema", func(t *testing.T) {
		v := viper.New()
		v.Set("builtin", false)
		v.Set("dirs", []string{vendors})

		c, err := FromConfig(v, fixedNow)
		require.NoError(t, err)
		assert.Equal(t, []string{"vendor"}, c.Names())
	})

	t.Run("文件加载失败", func(t *testing.T) {
		v := viper.New()
		v.Set("files", []string{filepath.Join(dir, "missing.yaml")})

		_, err := FromConfig(v, fixedNow)
		assert.ErrorIs(t, err, ErrLoadSchemaFile)
	})
}
