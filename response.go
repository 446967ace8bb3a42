package s3async

import (
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"
)

// responseEnvelope is the raw transport result: status, headers and the
// fully-read body. It is produced once per exchange and consumed once by
// the parser.
type responseEnvelope struct {
	statusCode int
	header     http.Header
	body       []byte
}

// xmlError mirrors the S3 error document:
//
//	<Error><Code>..</Code><Message>..</Message><RequestId>..</RequestId></Error>
type xmlError struct {
	XMLName   xml.Name `xml:"Error"`
	Code      string   `xml:"Code"`
	Message   string   `xml:"Message"`
	RequestID string   `xml:"RequestId"`
}

// xmlListBucketResult mirrors the ListBucketResult document. Tags carry no
// namespace so the decoder accepts both namespaced and plain responses.
type xmlListBucketResult struct {
	XMLName        xml.Name      `xml:"ListBucketResult"`
	IsTruncated    bool          `xml:"IsTruncated"`
	NextMarker     string        `xml:"NextMarker"`
	Contents       []xmlContents `xml:"Contents"`
	CommonPrefixes []xmlPrefix   `xml:"CommonPrefixes"`
}

type xmlContents struct {
	Key string `xml:"Key"`
}

type xmlPrefix struct {
	Prefix string `xml:"Prefix"`
}

// parseGet maps a get exchange to its typed result. 404 becomes
// ErrNotFound; other failures decode the S3 error body.
func parseGet(env *responseEnvelope) (GetResponse, error) {
	if env.statusCode == http.StatusNotFound {
		return GetResponse{}, fmt.Errorf("get object: %w", ErrNotFound)
	}
	if env.statusCode < 200 || env.statusCode >= 300 {
		return GetResponse{}, decodeServiceError(env)
	}
	return GetResponse{Code: env.statusCode, Body: env.body}, nil
}

// parsePut maps a put exchange to its typed result, capturing the ETag
// header with surrounding quotes trimmed.
func parsePut(env *responseEnvelope) (PutResponse, error) {
	if env.statusCode < 200 || env.statusCode >= 300 {
		return PutResponse{}, decodeServiceError(env)
	}
	return PutResponse{
		Code: env.statusCode,
		ETag: strings.Trim(env.header.Get("ETag"), `"`),
	}, nil
}

// parseList decodes a ListBucketResult. Keys keep document order and are
// not deduplicated. A well-formed listing with zero Contents is valid. If
// limit > 0 and the server returned more keys, the sequence is truncated
// client-side, preserving order.
func parseList(env *responseEnvelope, limit int) (ListResponse, error) {
	if env.statusCode < 200 || env.statusCode >= 300 {
		return ListResponse{}, decodeServiceError(env)
	}

	var doc xmlListBucketResult
	if err := xml.Unmarshal(env.body, &doc); err != nil {
		return ListResponse{}, fmt.Errorf("%w: decode listing: %v", ErrProtocol, err)
	}

	keys := make([]string, 0, len(doc.Contents))
	for _, c := range doc.Contents {
		keys = append(keys, c.Key)
	}
	if limit > 0 && len(keys) > limit {
		keys = keys[:limit]
	}

	prefixes := make([]string, 0, len(doc.CommonPrefixes))
	for _, p := range doc.CommonPrefixes {
		prefixes = append(prefixes, p.Prefix)
	}

	next := doc.NextMarker
	if doc.IsTruncated && next == "" && len(keys) > 0 {
		// List V1 omits NextMarker unless a delimiter is set; the last
		// returned key continues the listing.
		next = keys[len(keys)-1]
	}

	return ListResponse{
		Code:           env.statusCode,
		Keys:           keys,
		CommonPrefixes: prefixes,
		IsTruncated:    doc.IsTruncated,
		NextMarker:     next,
	}, nil
}

// decodeServiceError turns a non-2xx response into a *ServiceError, or
// ErrProtocol when the body is not an S3 error document.
func decodeServiceError(env *responseEnvelope) error {
	var doc xmlError
	if err := xml.Unmarshal(env.body, &doc); err != nil || doc.Code == "" {
		return fmt.Errorf("%w: status %d with undecodable error body", ErrProtocol, env.statusCode)
	}
	return &ServiceError{
		StatusCode: env.statusCode,
		Code:       doc.Code,
		Message:    doc.Message,
		RequestID:  doc.RequestID,
	}
}
