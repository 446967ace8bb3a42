package s3async

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"
)

const (
	SignatureAlgorithm = "AWS4-HMAC-SHA256"
	DateTimeFormat     = "20060102T150405Z"
	DateFormat         = "20060102"

	serviceName = "s3"

	// emptyPayloadHash is the SHA-256 of the empty string. Bodiless
	// requests (get, list) always carry this hash; it is never omitted.
	emptyPayloadHash = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
)

// canonicalRequest is the deterministic string representation of a request
// used as the signing input. It is a pure function of the operation, the
// target host and the timestamp; it is never mutated after creation.
type canonicalRequest struct {
	method        string
	uri           string
	queryString   string
	headers       string // canonical headers block, each pair newline-terminated
	signedHeaders string // semicolon-joined lowercase header names
	payloadHash   string
}

// String serializes the canonical request per the SigV4 layout:
//
//	HTTPMethod \n CanonicalURI \n CanonicalQueryString \n
//	CanonicalHeaders \n SignedHeaders \n HexEncode(Hash(Payload))
func (cr canonicalRequest) String() string {
	return strings.Join([]string{
		cr.method,
		cr.uri,
		cr.queryString,
		cr.headers,
		cr.signedHeaders,
		cr.payloadHash,
	}, "\n")
}

// canonicalize builds the canonical request for op against host and the
// already-encoded request path at the given UTC timestamp. It also returns
// the complete wire header map the request must be sent with; every header
// in it is signed.
func canonicalize(op operation, host, path string, now time.Time) (canonicalRequest, map[string]string) {
	payloadHash := hashPayload(op.body)

	headers := map[string]string{
		"host":                 host,
		"x-amz-date":           now.Format(DateTimeFormat),
		"x-amz-content-sha256": payloadHash,
	}
	if op.contentType != "" {
		headers["content-type"] = op.contentType
	}
	for name, value := range op.headers {
		headers[strings.ToLower(name)] = value
	}

	headerBlock, signedHeaders := canonicalHeaders(headers)

	return canonicalRequest{
		method:        op.method,
		uri:           path,
		queryString:   canonicalQueryString(op.query),
		headers:       headerBlock,
		signedHeaders: signedHeaders,
		payloadHash:   payloadHash,
	}, headers
}

// hashPayload returns the lowercase-hex SHA-256 of the request body.
func hashPayload(body []byte) string {
	if len(body) == 0 {
		return emptyPayloadHash
	}
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}

// encodePath percent-encodes an object key for the canonical URI. Every
// octet except the unreserved characters A-Z a-z 0-9 - . _ ~ is encoded;
// "/" is preserved as the path separator and never re-encoded.
func encodePath(path string) string {
	var b strings.Builder
	b.Grow(len(path))
	for i := 0; i < len(path); i++ {
		c := path[i]
		switch {
		case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9',
			c == '-', c == '.', c == '_', c == '~', c == '/':
			b.WriteByte(c)
		default:
			fmt.Fprintf(&b, "%%%02X", c)
		}
	}
	return b.String()
}

// encodeQuery is encodePath for query components, where "/" is not special.
func encodeQuery(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9',
			c == '-', c == '.', c == '_', c == '~':
			b.WriteByte(c)
		default:
			fmt.Fprintf(&b, "%%%02X", c)
		}
	}
	return b.String()
}

// canonicalQueryString sorts parameters by raw key name (values sorted
// within a key), percent-encodes both sides and joins with "&". An empty
// query yields the empty string.
func canonicalQueryString(query url.Values) string {
	if len(query) == 0 {
		return ""
	}

	keys := make([]string, 0, len(query))
	for k := range query {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(query))
	for _, k := range keys {
		values := append([]string(nil), query[k]...)
		sort.Strings(values)
		for _, v := range values {
			pairs = append(pairs, encodeQuery(k)+"="+encodeQuery(v))
		}
	}
	return strings.Join(pairs, "&")
}

// canonicalHeaders serializes headers per the SigV4 rules: lowercase
// names, trimmed values, sorted by name, each pair newline-terminated.
// The second return value is the semicolon-joined signed-headers list.
func canonicalHeaders(headers map[string]string) (string, string) {
	names := make([]string, 0, len(headers))
	for name := range headers {
		names = append(names, strings.ToLower(name))
	}
	sort.Strings(names)

	var block strings.Builder
	for _, name := range names {
		block.WriteString(name)
		block.WriteString(":")
		block.WriteString(strings.TrimSpace(headers[name]))
		block.WriteString("\n")
	}
	return block.String(), strings.Join(names, ";")
}
