package s3async

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"
)

// signer computes SigV4 authorization values. It is deterministic: the
// same canonical request, timestamp and credentials always produce the
// same signature. The only shared state is the per-day signing-key cache,
// which is guarded by a mutex so concurrent requests on the same UTC day
// observe a consistently-computed key.
type signer struct {
	creds Credentials

	mu    sync.Mutex
	cache map[scope][]byte
}

// scope identifies a derived signing key. Keys never leak across dates,
// regions or services.
type scope struct {
	date    string
	region  string
	service string
}

func (s scope) String() string {
	return s.date + "/" + s.region + "/" + s.service + "/aws4_request"
}

func newSigner(creds Credentials) *signer {
	return &signer{
		creds: creds,
		cache: make(map[scope][]byte),
	}
}

// authorization produces the Authorization header value for the canonical
// request. No clock access beyond the supplied timestamp.
func (s *signer) authorization(cr canonicalRequest, now time.Time, region string) string {
	sc := scope{
		date:    now.Format(DateFormat),
		region:  region,
		service: serviceName,
	}

	stringToSign := buildStringToSign(cr, now, sc)
	signature := hex.EncodeToString(hmacSHA256(s.signingKey(sc), []byte(stringToSign)))

	return fmt.Sprintf("%s Credential=%s/%s, SignedHeaders=%s, Signature=%s",
		SignatureAlgorithm, s.creds.AccessKeyID, sc, cr.signedHeaders, signature)
}

// buildStringToSign assembles the SigV4 string to sign: algorithm id,
// timestamp, credential scope and the hashed canonical request.
func buildStringToSign(cr canonicalRequest, now time.Time, sc scope) string {
	return SignatureAlgorithm + "\n" +
		now.Format(DateTimeFormat) + "\n" +
		sc.String() + "\n" +
		sha256Hex(cr.String())
}

// signingKey returns the derived key for the scope, computing and caching
// it on first use. Entries from earlier UTC days are dropped on insert, so
// the cache never grows past the set of scopes in use today.
func (s *signer) signingKey(sc scope) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()

	if key, ok := s.cache[sc]; ok {
		return key
	}

	for cached := range s.cache {
		if cached.date != sc.date {
			delete(s.cache, cached)
		}
	}

	key := deriveSigningKey(s.creds.SecretAccessKey, sc)
	s.cache[sc] = key
	return key
}

// deriveSigningKey runs the four-stage HMAC chain seeded by
// "AWS4" + secret key, keyed in turn by date, region, service and the
// literal "aws4_request".
func deriveSigningKey(secretKey string, sc scope) []byte {
	kDate := hmacSHA256([]byte("AWS4"+secretKey), []byte(sc.date))
	kRegion := hmacSHA256(kDate, []byte(sc.region))
	kService := hmacSHA256(kRegion, []byte(sc.service))
	return hmacSHA256(kService, []byte("aws4_request"))
}

func hmacSHA256(key, data []byte) []byte {
	h := hmac.New(sha256.New, key)
	h.Write(data)
	return h.Sum(nil)
}

func sha256Hex(data string) string {
	sum := sha256.Sum256([]byte(data))
	return hex.EncodeToString(sum[:])
}
