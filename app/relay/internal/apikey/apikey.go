// Package apikey 解析请求中的目标凭据
//
// apiKey 形如 "chatbot_<secret>,chatbot_<secret>"，每个 token 以第一个 '_'
// 分隔目标名与 secret。任一 token 非法时整个字符串被拒绝。
package apikey

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// Destination 转发目标（封闭枚举）
type Destination int

const (
	// DestinationChatBot 飞书自定义机器人
	DestinationChatBot Destination = iota + 1
)

// destinationNames 目标的线上名称，新增目标时在此登记
var destinationNames = map[Destination]string{
	DestinationChatBot: "chatbot",
}

// String 返回目标的线上名称
func (d Destination) String() string {
	if name, ok := destinationNames[d]; ok {
		return name
	}
	return "unknown"
}

// ParseDestination 按名称查找目标，大小写不敏感
func ParseDestination(name string) (Destination, bool) {
	for d, n := range destinationNames {
		if strings.EqualFold(n, name) {
			return d, true
		}
	}
	return 0, false
}

// Key 一个目标凭据
type Key struct {
	Destination Destination
	Secret      string
}

// Name 返回目标名称
func (k Key) Name() string {
	return k.Destination.String()
}

// Parse 解析逗号分隔的凭据字符串，保持输入顺序
func Parse(raw string) ([]Key, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, errors.Wrap(ErrInvalidCredentialFormat, "apiKey is empty")
	}

	tokens := strings.Split(raw, ",")
	keys := make([]Key, 0, len(tokens))
	for i, token := range tokens {
		key, err := parseToken(strings.TrimSpace(token))
		if err != nil {
			// 错误中只带序号与原因，不回显 secret
			return nil, errors.Wrapf(err, "token %d", i)
		}
		keys = append(keys, key)
	}

	return keys, nil
}

func parseToken(token string) (Key, error) {
	if token == "" {
		return Key{}, errors.Wrap(ErrInvalidCredentialFormat, "empty token")
	}

	name, secret, ok := strings.Cut(token, "_")
	if !ok {
		return Key{}, errors.Wrap(ErrInvalidCredentialFormat, "missing '_' separator")
	}
	if name == "" || secret == "" {
		return Key{}, errors.Wrap(ErrInvalidCredentialFormat, "empty destination or secret")
	}

	dest, ok := ParseDestination(name)
	if !ok {
		return Key{}, errors.Wrapf(ErrInvalidCredentialFormat, "unknown destination %q", name)
	}

	return Key{Destination: dest, Secret: secret}, nil
}
