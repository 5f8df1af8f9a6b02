package check

import (
	"net"
	"net/url"
	"slices"
	"strconv"
	"strings"
)

// maxURLLength URL 最大长度（与主流浏览器限制一致）
const maxURLLength = 2083

// defaultProtocols 默认允许的协议
var defaultProtocols = []string{"http", "https"}

// URLOptions URL 校验选项
// 零值即默认行为：仅允许 http/https、必须带协议、必须带顶级域名
type URLOptions struct {
	// Protocols 允许的协议列表，为空时使用 http/https
	Protocols []string
	// RequireProtocol 是否必须带协议，nil 表示 true
	RequireProtocol *bool
	// RequireTLD 主机名是否必须带顶级域名，nil 表示 true
	RequireTLD *bool
	// AllowUnderscores 主机名是否允许下划线
	AllowUnderscores bool
	// AllowProtocolRelative 是否允许 //host/path 形式（仅在不要求协议时生效）
	AllowProtocolRelative bool
}

func (o URLOptions) protocols() []string {
	if len(o.Protocols) == 0 {
		return defaultProtocols
	}
	return o.Protocols
}

func (o URLOptions) requireProtocol() bool {
	return o.RequireProtocol == nil || *o.RequireProtocol
}

func (o URLOptions) requireTLD() bool {
	return o.RequireTLD == nil || *o.RequireTLD
}

// IsValidURL 校验 URL
// 校验流程：
//  1. 长度与空白字符检查
//  2. 协议白名单（或协议相对 URL）
//  3. 端口范围
//  4. 主机必须是 IP 或合法主机名/FQDN
func IsValidURL(value any, opts URLOptions) bool {
	s, ok := nonEmptyString(value)
	if !ok {
		return false
	}
	if len(s) > maxURLLength || strings.ContainsAny(s, " \t\r\n") {
		return false
	}

	rest := s
	if i := strings.Index(s, "://"); i >= 0 {
		protocol := strings.ToLower(s[:i])
		if !slices.Contains(opts.protocols(), protocol) {
			return false
		}
		rest = s[i+3:]
	} else if opts.requireProtocol() {
		return false
	} else if strings.HasPrefix(s, "//") {
		if !opts.AllowProtocolRelative {
			return false
		}
		rest = s[2:]
	}

	if rest == "" {
		return false
	}

	// 协议已校验，这里统一套一个 http 前缀以复用 net/url 的主机解析
	u, err := url.Parse("http://" + rest)
	if err != nil {
		return false
	}

	if port := u.Port(); port != "" {
		n, err := strconv.Atoi(port)
		if err != nil || n <= 0 || n > 65535 {
			return false
		}
	}

	host := u.Hostname()
	if host == "" {
		return false
	}
	if net.ParseIP(host) != nil {
		return true
	}

	return isValidHost(host, opts)
}

// isValidHost 校验主机名
func isValidHost(host string, opts URLOptions) bool {
	if strings.HasSuffix(host, ".") {
		return false
	}

	if strings.Contains(host, "_") {
		if !opts.AllowUnderscores {
			return false
		}
		host = strings.ReplaceAll(host, "_", "u")
	}

	if opts.requireTLD() {
		return matchTag(host, "fqdn")
	}
	return matchTag(host, "hostname_rfc1123")
}
