// Package extract 从 URL、CSV、PDF 等输入中提取待分析的纯文本
package extract

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// MaxURLLength URL 最大长度
const MaxURLLength = 2000

var (
	ErrURLTooLong = errors.New("url too long")
	ErrURLScheme  = errors.New("url must start with http:// or https://")
	ErrPrivateURL = errors.New("internal/private urls are not allowed")
	ErrNoContent  = errors.New("no extractable content")
)

var (
	schemeRe = regexp.MustCompile(`(?i)^https?://`)
	// 内网与回环地址，防止 SSRF
	privateRe = regexp.MustCompile(`(?i)(localhost|127\.\d+\.\d+\.\d+|0\.0\.0\.0|10\.\d+\.\d+\.\d+` +
		`|192\.168\.\d+\.\d+|172\.(1[6-9]|2\d|3[01])\.\d+\.\d+|169\.254\.\d+\.\d+|::1|\[::1\])`)
)

// ValidateURL 校验用户提交的 URL，返回去除首尾空白后的结果
func ValidateURL(raw string) (string, error) {
	u := strings.TrimSpace(raw)
	if utf8.RuneCountInString(u) > MaxURLLength {
		return "", ErrURLTooLong
	}
	if !schemeRe.MatchString(u) {
		return "", ErrURLScheme
	}
	if privateRe.MatchString(u) {
		return "", ErrPrivateURL
	}

	parsed, err := url.Parse(u)
	if err != nil || parsed.Hostname() == "" {
		return "", fmt.Errorf("%w: invalid url", ErrURLScheme)
	}
	host := parsed.Hostname()
	ip := net.ParseIP(host)
	if ip == nil {
		ip = parseLooseIPv4(host)
	}
	if ip != nil && !publicIP(ip) {
		return "", ErrPrivateURL
	}
	return u, nil
}

func publicIP(ip net.IP) bool {
	return !(ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() ||
		ip.IsMulticast() || ip.IsUnspecified())
}

// parseLooseIPv4 解析 inet_aton 接受的简写形式，如 127.1、0x7f000001、2130706433、0
func parseLooseIPv4(host string) net.IP {
	parts := strings.Split(host, ".")
	if len(parts) > 4 {
		return nil
	}
	vals := make([]uint64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseUint(p, 0, 32)
		if err != nil {
			return nil
		}
		vals[i] = v
	}

	n := len(vals)
	for _, v := range vals[:n-1] {
		if v > 0xff {
			return nil
		}
	}
	// 最后一段填满剩余字节
	if vals[n-1] >= 1<<(8*(5-n)) {
		return nil
	}

	var addr uint32
	for i, v := range vals[:n-1] {
		addr |= uint32(v) << (24 - 8*i)
	}
	addr |= uint32(vals[n-1])
	return net.IPv4(byte(addr>>24), byte(addr>>16), byte(addr>>8), byte(addr))
}
