package s3async

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
)

// exchange signs op and performs the HTTP round trip. It always runs on a
// background goroutine, never on the caller's. Transport-level failures
// are wrapped in ErrTransport; no retries are attempted here (retry
// policy, if any, is layered by the caller).
func (c *Client) exchange(ctx context.Context, op operation) (*responseEnvelope, error) {
	now := c.clock().UTC()

	sr, err := buildSignedRequest(op, c.signer, c.config.Endpoint, now)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, sr.method, sr.url, bytes.NewReader(sr.body))
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrInvalidOperation, err)
	}
	for name, value := range sr.headers {
		if name == "host" {
			req.Host = value
			continue
		}
		req.Header.Set(name, value)
	}
	req.ContentLength = int64(len(sr.body))

	c.logger.Debug("dispatching request",
		"method", op.method, "bucket", op.bucket, "key", op.key)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response body: %v", ErrTransport, err)
	}

	c.logger.Debug("response received",
		"method", op.method, "key", op.key, "status", resp.StatusCode)

	return &responseEnvelope{
		statusCode: resp.StatusCode,
		header:     resp.Header,
		body:       body,
	}, nil
}

// dispatch runs the full pipeline for one operation on a background
// goroutine and settles the future with the parsed result. parse maps the
// raw envelope to the operation's typed response.
func dispatch[T any](ctx context.Context, c *Client, op operation, parse func(*responseEnvelope) (T, error)) *Future[T] {
	f := newFuture[T]()
	go func() {
		env, err := c.exchange(ctx, op)
		if err != nil {
			f.reject(err)
			return
		}
		result, err := parse(env)
		if err != nil {
			f.reject(err)
			return
		}
		f.resolve(result)
	}()
	return f
}
