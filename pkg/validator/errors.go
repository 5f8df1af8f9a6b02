package validator

import "errors"

var (
	// ErrInvalidDocument 输入无法解码为 JSON 对象
	ErrInvalidDocument = errors.New("invalid document: expected a JSON object")
)
