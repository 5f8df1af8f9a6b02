package check

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/dlclark/regexp2"
)

// ErrInvalidPattern 正则表达式无法编译
var ErrInvalidPattern = errors.New("invalid pattern")

// patternMatchTimeout regexp2 单次匹配的超时时间，防止回溯爆炸
const patternMatchTimeout = 100 * time.Millisecond

// Pattern 字符串模式匹配器
// *regexp.Regexp 天然实现该接口
type Pattern interface {
	MatchString(s string) bool
	String() string
}

// ecmaPattern 基于 regexp2 的 ECMAScript 兼容匹配器
// 用于 RE2 不支持的语法（先行断言、后行断言、反向引用）
type ecmaPattern struct {
	re *regexp2.Regexp
}

// MatchString 匹配超时或出错时视为不匹配
func (p *ecmaPattern) MatchString(s string) bool {
	ok, err := p.re.MatchString(s)
	return err == nil && ok
}

func (p *ecmaPattern) String() string {
	return p.re.String()
}

// CompilePattern 编译正则表达式
// 优先使用标准库 RE2（线性时间），编译失败时回退到 regexp2 的 ECMAScript 模式，
// 这样从 JavaScript 迁移过来的带断言的规则可以原样使用
func CompilePattern(expr string) (Pattern, error) {
	if re, err := regexp.Compile(expr); err == nil {
		return re, nil
	}

	re, err := regexp2.Compile(expr, regexp2.ECMAScript)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidPattern, expr, err)
	}
	re.MatchTimeout = patternMatchTimeout
	return &ecmaPattern{re: re}, nil
}

// MustCompilePattern 编译失败时 panic，仅用于静态规则定义
func MustCompilePattern(expr string) Pattern {
	p, err := CompilePattern(expr)
	if err != nil {
		panic(err)
	}
	return p
}
