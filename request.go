package s3async

import (
	"fmt"
	"net/url"
	"time"
)

// target is the resolved destination for one request: where the bytes go
// and the exact path that participates in signing.
type target struct {
	scheme string
	host   string
	path   string // percent-encoded request path, also the canonical URI
}

func (t target) url(query string) string {
	u := t.scheme + "://" + t.host + t.path
	if query != "" {
		u += "?" + query
	}
	return u
}

// resolveTarget derives the host and path for an operation. Without an
// endpoint override, addressing is virtual-hosted-style
// ({bucket}.s3.{region}.amazonaws.com). With an override (tests, MinIO)
// the bucket moves into the path, since the injected host is fixed.
func resolveTarget(op operation, endpoint string) (target, error) {
	keyPath := ""
	if op.key != "" {
		keyPath = "/" + encodePath(op.key)
	}

	if endpoint == "" {
		t := target{
			scheme: "https",
			host:   fmt.Sprintf("%s.s3.%s.amazonaws.com", op.bucket, op.region),
			path:   keyPath,
		}
		if t.path == "" {
			t.path = "/"
		}
		return t, nil
	}

	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return target{}, fmt.Errorf("%w: invalid endpoint %q", ErrInvalidOperation, endpoint)
	}
	return target{
		scheme: u.Scheme,
		host:   u.Host,
		path:   "/" + op.bucket + keyPath,
	}, nil
}

// signedRequest is a transport-ready request: canonical request plus the
// authorization value and timestamp. Its authorization is reproducible
// byte-for-byte from the canonical request, timestamp and credentials.
type signedRequest struct {
	method  string
	url     string
	headers map[string]string
	body    []byte
}

// buildSignedRequest runs the canonicalize → sign pipeline for op and
// assembles the final wire-level request.
func buildSignedRequest(op operation, sig *signer, endpoint string, now time.Time) (*signedRequest, error) {
	t, err := resolveTarget(op, endpoint)
	if err != nil {
		return nil, err
	}

	cr, headers := canonicalize(op, t.host, t.path, now)
	headers["authorization"] = sig.authorization(cr, now, op.region)

	return &signedRequest{
		method:  op.method,
		url:     t.url(cr.queryString),
		headers: headers,
		body:    op.body,
	}, nil
}
