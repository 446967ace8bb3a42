package s3async

import (
	"log/slog"
	"net/url"
	"strconv"
	"time"
)

// Credentials is an immutable AWS-style credential pair. The secret key is
// held for as long as the owning Client exists and is never written to logs:
// Credentials implements slog.LogValuer and redacts the secret.
type Credentials struct {
	AccessKeyID     string
	SecretAccessKey string
}

// LogValue implements slog.LogValuer, exposing only the access key id.
func (c Credentials) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("access_key_id", c.AccessKeyID),
		slog.String("secret_access_key", "[redacted]"),
	)
}

// Config holds long-lived client configuration. It is copied at client
// construction and owned exclusively by one Client; it is safe to share a
// Client across goroutines.
type Config struct {
	AccessKey string
	SecretKey string
	Region    string
	Bucket    string

	// Endpoint overrides the virtual-hosted amazonaws.com addressing with a
	// fixed base URL, e.g. "http://localhost:9000" for MinIO or a test
	// server. With an override, requests use path-style addressing
	// ({endpoint}/{bucket}/{key}).
	Endpoint string

	// Timeout is the default HTTP exchange timeout. Zero means
	// DefaultTimeout. Note that waiting on a future is bounded separately,
	// by the context or duration passed to Wait/WaitTimeout.
	Timeout time.Duration
}

// GetResponse is the result of a get operation.
type GetResponse struct {
	// Code is the HTTP status code, always 2xx for a resolved future.
	Code int
	// Body is the retrieved object's bytes.
	Body []byte
}

// PutResponse is the result of a put operation.
type PutResponse struct {
	Code int
	// ETag is the entity tag assigned by the server, without quotes.
	ETag string
}

// ListResponse is the result of a list operation. Keys preserve the
// server's document order and are not deduplicated.
type ListResponse struct {
	Code int
	Keys []string
	// CommonPrefixes groups keys rolled up under a delimiter. Empty unless
	// ListWithDelimiter was used.
	CommonPrefixes []string
	// IsTruncated reports whether the server has more results than it
	// returned. Pass NextMarker to a follow-up list to continue.
	IsTruncated bool
	NextMarker  string
}

// operation is the internal descriptor handed through the
// canonicalize → sign → build → dispatch pipeline. Constructed fresh per
// call and never shared.
type operation struct {
	method      string
	key         string // object key; empty for list
	bucket      string
	region      string
	query       url.Values
	headers     map[string]string // extra caller headers, signed as sent
	body        []byte
	contentType string
	limit       int // list only; client-side truncation bound, 0 = none
}

// GetOption customizes a single get call.
type GetOption func(*operation)

// GetWithBucket overrides the client-level bucket for this call.
func GetWithBucket(bucket string) GetOption {
	return func(op *operation) { op.bucket = bucket }
}

// GetWithRegion overrides the client-level region for this call.
func GetWithRegion(region string) GetOption {
	return func(op *operation) { op.region = region }
}

// GetWithHeader adds a request header. It participates in signing.
func GetWithHeader(name, value string) GetOption {
	return func(op *operation) { op.headers[name] = value }
}

// GetWithQuery adds a query parameter, e.g. versionId.
func GetWithQuery(key, value string) GetOption {
	return func(op *operation) { op.query.Set(key, value) }
}

// PutOption customizes a single put call.
type PutOption func(*operation)

// PutWithContentType sets the Content-Type header for the upload.
func PutWithContentType(contentType string) PutOption {
	return func(op *operation) { op.contentType = contentType }
}

// PutWithBucket overrides the client-level bucket for this call.
func PutWithBucket(bucket string) PutOption {
	return func(op *operation) { op.bucket = bucket }
}

// PutWithRegion overrides the client-level region for this call.
func PutWithRegion(region string) PutOption {
	return func(op *operation) { op.region = region }
}

// PutWithHeader adds a request header. It participates in signing.
func PutWithHeader(name, value string) PutOption {
	return func(op *operation) { op.headers[name] = value }
}

// ListOption customizes a single list call.
type ListOption func(*operation)

// ListWithMarker continues a listing after the given key. Use
// ListResponse.NextMarker from the previous page.
func ListWithMarker(marker string) ListOption {
	return func(op *operation) {
		if marker != "" {
			op.query.Set("marker", marker)
		}
	}
}

// ListWithLimit caps the number of returned keys. It is sent as max-keys
// and also enforced client-side if the server returns more.
func ListWithLimit(limit int) ListOption {
	return func(op *operation) {
		if limit > 0 {
			op.query.Set("max-keys", strconv.Itoa(limit))
			op.limit = limit
		}
	}
}

// ListWithDelimiter groups keys sharing a prefix up to the delimiter under
// ListResponse.CommonPrefixes.
func ListWithDelimiter(delimiter string) ListOption {
	return func(op *operation) {
		if delimiter != "" {
			op.query.Set("delimiter", delimiter)
		}
	}
}

// ListWithBucket overrides the client-level bucket for this call.
func ListWithBucket(bucket string) ListOption {
	return func(op *operation) { op.bucket = bucket }
}

// ListWithRegion overrides the client-level region for this call.
func ListWithRegion(region string) ListOption {
	return func(op *operation) { op.region = region }
}
