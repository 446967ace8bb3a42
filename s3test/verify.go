package s3test

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"
)

const (
	signatureAlgorithm = "AWS4-HMAC-SHA256"
	dateTimeFormat     = "20060102T150405Z"
	dateFormat         = "20060102"
	serviceName        = "s3"
)

// ErrUnauthorized is returned when signature verification fails.
var ErrUnauthorized = errors.New("unauthorized")

// Verifier checks AWS Signature V4 authorization headers.
type Verifier struct {
	Region          string
	AccessKeyLookup func(accessKey string) (secretKey string, found bool)
}

// NewVerifier creates a Verifier for the given region. The lookup function
// retrieves the secret key for an access key, returning false if unknown.
func NewVerifier(region string, lookup func(string) (string, bool)) *Verifier {
	return &Verifier{
		Region:          region,
		AccessKeyLookup: lookup,
	}
}

type authParams struct {
	accessKey     string
	dateStamp     string
	region        string
	service       string
	signedHeaders string
	signature     string
}

// Verify checks the Authorization header of r against a recomputed
// signature. It reads and restores the request body to validate the
// x-amz-content-sha256 header. Returns an error wrapping ErrUnauthorized
// if verification fails.
func (v *Verifier) Verify(r *http.Request, maxSkew time.Duration) error {
	params, err := parseAuthorization(r.Header.Get("Authorization"))
	if err != nil {
		return err
	}

	amzDate := r.Header.Get("x-amz-date")
	if amzDate == "" {
		return fmt.Errorf("missing x-amz-date header: %w", ErrUnauthorized)
	}
	requestTime, err := time.Parse(dateTimeFormat, amzDate)
	if err != nil {
		return fmt.Errorf("invalid x-amz-date format: %w", ErrUnauthorized)
	}

	if err := v.validateParams(params, requestTime, maxSkew); err != nil {
		return err
	}

	if err := checkPayloadHash(r); err != nil {
		return err
	}

	secretKey, found := v.AccessKeyLookup(params.accessKey)
	if !found {
		return fmt.Errorf("invalid access key: %w", ErrUnauthorized)
	}

	expected := calculateSignature(secretKey, r, requestTime, params)
	if !hmac.Equal([]byte(expected), []byte(params.signature)) {
		return fmt.Errorf("signature mismatch: %w", ErrUnauthorized)
	}

	return nil
}

// parseAuthorization splits a header of the form
//
//	AWS4-HMAC-SHA256 Credential=ak/date/region/service/aws4_request, SignedHeaders=a;b, Signature=hex
func parseAuthorization(header string) (*authParams, error) {
	if header == "" {
		return nil, fmt.Errorf("missing authorization header: %w", ErrUnauthorized)
	}

	algorithm, rest, ok := strings.Cut(header, " ")
	if !ok || algorithm != signatureAlgorithm {
		return nil, fmt.Errorf("invalid algorithm: expected %s: %w", signatureAlgorithm, ErrUnauthorized)
	}

	params := &authParams{}
	for _, part := range strings.Split(rest, ",") {
		name, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			return nil, fmt.Errorf("malformed authorization component: %w", ErrUnauthorized)
		}
		switch name {
		case "Credential":
			credParts := strings.Split(value, "/")
			if len(credParts) != 5 {
				return nil, fmt.Errorf("invalid credential format: %w", ErrUnauthorized)
			}
			if credParts[4] != "aws4_request" {
				return nil, fmt.Errorf("invalid credential terminator: %w", ErrUnauthorized)
			}
			params.accessKey = credParts[0]
			params.dateStamp = credParts[1]
			params.region = credParts[2]
			params.service = credParts[3]
		case "SignedHeaders":
			params.signedHeaders = value
		case "Signature":
			params.signature = value
		}
	}

	if params.accessKey == "" || params.signedHeaders == "" || params.signature == "" {
		return nil, fmt.Errorf("incomplete authorization header: %w", ErrUnauthorized)
	}
	return params, nil
}

func (v *Verifier) validateParams(params *authParams, requestTime time.Time, maxSkew time.Duration) error {
	if skew := time.Since(requestTime); skew > maxSkew || skew < -maxSkew {
		return fmt.Errorf("request time too far from server time: %w", ErrUnauthorized)
	}

	if params.dateStamp != requestTime.Format(dateFormat) {
		return fmt.Errorf("credential date mismatch: %w", ErrUnauthorized)
	}

	if params.region != v.Region {
		return fmt.Errorf("region mismatch: expected %s, got %s: %w", v.Region, params.region, ErrUnauthorized)
	}

	if params.service != serviceName {
		return fmt.Errorf("service mismatch: expected %s, got %s: %w", serviceName, params.service, ErrUnauthorized)
	}

	return nil
}

// checkPayloadHash compares the x-amz-content-sha256 header against the
// actual body digest, then restores the body for downstream handlers.
func checkPayloadHash(r *http.Request) error {
	claimed := r.Header.Get("x-amz-content-sha256")
	if claimed == "" {
		return fmt.Errorf("missing x-amz-content-sha256 header: %w", ErrUnauthorized)
	}
	if claimed == "UNSIGNED-PAYLOAD" {
		return nil
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", ErrUnauthorized)
	}
	r.Body = io.NopCloser(bytes.NewReader(body))

	sum := sha256.Sum256(body)
	if hex.EncodeToString(sum[:]) != claimed {
		return fmt.Errorf("payload hash mismatch: %w", ErrUnauthorized)
	}
	return nil
}

func calculateSignature(secretKey string, r *http.Request, requestTime time.Time, params *authParams) string {
	canonicalRequest := buildCanonicalRequest(r, params.signedHeaders)

	credentialScope := fmt.Sprintf("%s/%s/%s/aws4_request", params.dateStamp, params.region, params.service)
	stringToSign := buildStringToSign(requestTime, credentialScope, canonicalRequest)

	signingKey := deriveSigningKey(secretKey, params.dateStamp, params.region, params.service)
	return hex.EncodeToString(hmacSHA256(signingKey, []byte(stringToSign)))
}

func buildCanonicalRequest(r *http.Request, signedHeaders string) string {
	return fmt.Sprintf("%s\n%s\n%s\n%s\n%s\n%s",
		r.Method,
		r.URL.EscapedPath(),
		buildCanonicalQueryString(r.URL.Query()),
		buildCanonicalHeaders(r, signedHeaders),
		signedHeaders,
		r.Header.Get("x-amz-content-sha256"),
	)
}

// buildCanonicalHeaders formats the signed headers sorted by name, one
// "name:value\n" per line. Host comes from the request, not the header map.
func buildCanonicalHeaders(r *http.Request, signedHeaders string) string {
	headerNames := strings.Split(signedHeaders, ";")
	sort.Strings(headerNames)

	var result strings.Builder
	for _, name := range headerNames {
		value := r.Header.Get(name)
		if name == "host" {
			value = r.Host
		}
		result.WriteString(name)
		result.WriteString(":")
		result.WriteString(strings.TrimSpace(value))
		result.WriteString("\n")
	}
	return result.String()
}

// buildCanonicalQueryString sorts parameters by name and percent-encodes
// with the signing alphabet, which escapes more than url.Values.Encode.
func buildCanonicalQueryString(query url.Values) string {
	names := make([]string, 0, len(query))
	for name := range query {
		names = append(names, name)
	}
	sort.Strings(names)

	var parts []string
	for _, name := range names {
		values := append([]string(nil), query[name]...)
		sort.Strings(values)
		for _, value := range values {
			parts = append(parts, uriEncode(name)+"="+uriEncode(value))
		}
	}
	return strings.Join(parts, "&")
}

// uriEncode percent-encodes everything outside the unreserved set.
func uriEncode(s string) string {
	var b strings.Builder
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

func buildStringToSign(requestTime time.Time, credentialScope, canonicalRequest string) string {
	hashed := sha256.Sum256([]byte(canonicalRequest))
	return fmt.Sprintf("%s\n%s\n%s\n%s",
		signatureAlgorithm,
		requestTime.Format(dateTimeFormat),
		credentialScope,
		hex.EncodeToString(hashed[:]),
	)
}

func deriveSigningKey(secretKey, dateStamp, region, service string) []byte {
	kDate := hmacSHA256([]byte("AWS4"+secretKey), []byte(dateStamp))
	kRegion := hmacSHA256(kDate, []byte(region))
	kService := hmacSHA256(kRegion, []byte(service))
	return hmacSHA256(kService, []byte("aws4_request"))
}

func hmacSHA256(key, data []byte) []byte {
	h := hmac.New(sha256.New, key)
	h.Write(data)
	return h.Sum(nil)
}
