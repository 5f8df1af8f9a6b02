package catalog

import "errors"

var (
	// ErrSchemaNotFound Schema 未注册
	ErrSchemaNotFound = errors.New("schema not found")

	// ErrSchemaAlreadyExists Schema 已注册
	ErrSchemaAlreadyExists = errors.New("schema already exists")

	// ErrInvalidName 无效的 Schema 名称
	ErrInvalidName = errors.New("invalid schema name")

	// ErrLoadSchemaFile Schema 文件无法读取或解析
	ErrLoadSchemaFile = errors.New("cannot load schema file")
)
