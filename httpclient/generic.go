//nolint:ireturn
package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
)

// InvokeTyped decodes the JSON response body into T. The only error it
// returns is ErrUnsupportedContentType, raised before any network I/O when
// the request is not configured for JSON. A failed request yields a response
// with Success false and a zero Result; an undecodable body keeps Success
// true, reaches the error handler and leaves Result at its zero value.
func InvokeTyped[T any](ctx context.Context, c *Client, req Request) (*TypedResponse[T], error) {
	req = req.withDefaults()

	if req.ContentType != ContentTypeJSON {
		return nil, fmt.Errorf("%w: %q, only %s can be decoded, use Invoke instead",
			ErrUnsupportedContentType, req.ContentType, ContentTypeJSON)
	}

	resp := c.Invoke(ctx, req)

	typed := newTypedResponse[T](resp)
	if !resp.Success {
		return typed, nil
	}

	if err := json.Unmarshal([]byte(resp.RawBody), &typed.Result); err != nil {
		var zero T
		typed.Result = zero

		c.notifyDecodeFailure(typed.Response, fmt.Errorf("%w: %w", ErrDecodeResponse, err))
	}

	return typed, nil
}

func GetJSON[T any](ctx context.Context, c *Client, rawURL string, opts ...RequestOption) (*TypedResponse[T], error) {
	return InvokeTyped[T](ctx, c, newRequest(MethodGet, rawURL, "", opts...))
}

func PostJSON[T any](
	ctx context.Context,
	c *Client,
	rawURL string,
	body any,
	opts ...RequestOption,
) (*TypedResponse[T], error) {
	return doJSON[T](ctx, c, MethodPost, rawURL, body, opts...)
}

func PutJSON[T any](
	ctx context.Context,
	c *Client,
	rawURL string,
	body any,
	opts ...RequestOption,
) (*TypedResponse[T], error) {
	return doJSON[T](ctx, c, MethodPut, rawURL, body, opts...)
}

func PatchJSON[T any](
	ctx context.Context,
	c *Client,
	rawURL string,
	body any,
	opts ...RequestOption,
) (*TypedResponse[T], error) {
	return doJSON[T](ctx, c, MethodPatch, rawURL, body, opts...)
}

func doJSON[T any](
	ctx context.Context,
	c *Client,
	method string,
	rawURL string,
	body any,
	opts ...RequestOption,
) (*TypedResponse[T], error) {
	payload, err := marshalBody(body)
	if err != nil {
		return nil, err
	}

	return InvokeTyped[T](ctx, c, newRequest(method, rawURL, payload, opts...))
}

func marshalBody(body any) (string, error) {
	switch v := body.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	}

	encoded, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrEncodeBody, err)
	}

	return string(encoded), nil
}
