package s3async

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// DefaultTimeout bounds a single HTTP exchange. Waiting on a future is
// bounded separately by the caller.
const DefaultTimeout = 30 * time.Second

// Client performs asynchronous operations against an S3-compatible
// object-storage endpoint. Each operation returns a Future immediately;
// canonicalization, signing and the network exchange all run on a
// background goroutine. A Client is safe for concurrent use: its
// configuration and credentials are read-only after construction, and
// concurrently issued requests are independent, with no ordering
// guarantee between them.
type Client struct {
	config     Config
	signer     *signer
	httpClient *http.Client
	logger     *slog.Logger
	clock      func() time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client (the transport collaborator).
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) { c.httpClient = client }
}

// WithTimeout sets the HTTP exchange timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = timeout }
}

// WithLogger sets a logger for debug-level request tracing. The client
// never logs the secret key. Default is a discard logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithClock replaces the time source used for signing timestamps. Test
// hook; signing is deterministic for a fixed clock.
func WithClock(clock func() time.Time) Option {
	return func(c *Client) { c.clock = clock }
}

// New creates a Client. AccessKey and SecretKey are required. Region and
// Bucket may be left empty at construction if every call overrides them.
func New(cfg Config, opts ...Option) (*Client, error) {
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("%w: access key and secret key are required", ErrInvalidOperation)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	c := &Client{
		config: cfg,
		signer: newSigner(Credentials{
			AccessKeyID:     cfg.AccessKey,
			SecretAccessKey: cfg.SecretKey,
		}),
		httpClient: &http.Client{Timeout: timeout},
		logger:     slog.New(slog.DiscardHandler),
		clock:      time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Get retrieves the object at key.
//
// Example:
//
//	future := client.Get(ctx, "logs/2016/0001.gz")
//	resp, err := future.WaitTimeout(5 * time.Second)
//	if err != nil { ... }
//	process(resp.Body)
func (c *Client) Get(ctx context.Context, key string, opts ...GetOption) *Future[GetResponse] {
	op := c.newOperation(http.MethodGet, key)
	for _, opt := range opts {
		opt(&op)
	}
	if err := c.validateObjectOp(op); err != nil {
		return rejected[GetResponse](err)
	}
	return dispatch(ctx, c, op, parseGet)
}

// Put stores body at key. Content type defaults to
// application/octet-stream; use PutWithContentType to override.
func (c *Client) Put(ctx context.Context, key string, body []byte, opts ...PutOption) *Future[PutResponse] {
	op := c.newOperation(http.MethodPut, key)
	op.body = body
	op.contentType = "application/octet-stream"
	for _, opt := range opts {
		opt(&op)
	}
	if err := c.validateObjectOp(op); err != nil {
		return rejected[PutResponse](err)
	}
	return dispatch(ctx, c, op, parsePut)
}

// List enumerates keys under prefix in lexical order. Pass an empty
// prefix to list the whole bucket. Use ListWithMarker with the previous
// page's NextMarker to paginate.
func (c *Client) List(ctx context.Context, prefix string, opts ...ListOption) *Future[ListResponse] {
	op := c.newOperation(http.MethodGet, "")
	if prefix != "" {
		op.query.Set("prefix", prefix)
	}
	for _, opt := range opts {
		opt(&op)
	}
	if err := c.validateScope(op); err != nil {
		return rejected[ListResponse](err)
	}
	limit := op.limit
	return dispatch(ctx, c, op, func(env *responseEnvelope) (ListResponse, error) {
		return parseList(env, limit)
	})
}

// newOperation seeds a descriptor with the client-level bucket and
// region; per-call options may override both.
func (c *Client) newOperation(method, key string) operation {
	return operation{
		method:  method,
		key:     normalizeKey(key),
		bucket:  c.config.Bucket,
		region:  c.config.Region,
		query:   url.Values{},
		headers: map[string]string{},
	}
}

// validateObjectOp rejects malformed get/put descriptors before any
// network activity.
func (c *Client) validateObjectOp(op operation) error {
	if err := validateKey(op.key); err != nil {
		return err
	}
	return c.validateScope(op)
}

func (c *Client) validateScope(op operation) error {
	if op.bucket == "" || op.region == "" {
		return fmt.Errorf(
			"%w: region and bucket must be set on the client or passed at call time (region=%q, bucket=%q)",
			ErrInvalidOperation, op.region, op.bucket)
	}
	return nil
}
