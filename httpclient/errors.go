package httpclient

import (
	"errors"
)

var (
	ErrRequestFailed          = errors.New("httpclient: request failed")
	ErrInvalidURL             = errors.New("httpclient: invalid request url")
	ErrEncodeBody             = errors.New("httpclient: failed to encode request body")
	ErrDecodeResponse         = errors.New("httpclient: failed to decode response")
	ErrAuthFailed             = errors.New("httpclient: authentication failed")
	ErrUnsupportedContentType = errors.New("httpclient: content type is not supported for deserialization")
)
