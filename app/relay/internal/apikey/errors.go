package apikey

import "github.com/cockroachdb/errors"

// ErrInvalidCredentialFormat apiKey 格式非法，整个请求被拒绝
var ErrInvalidCredentialFormat = errors.New("invalid credential format")
