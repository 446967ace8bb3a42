package s3async

import (
	"encoding/hex"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCredentials = Credentials{
	AccessKeyID:     "AKIDEXAMPLE",
	SecretAccessKey: "wJalrXUtnFEMI/K7MDENG+bPxRfiCYEXAMPLEKEY",
}

func signingFixture(t *testing.T) (canonicalRequest, time.Time) {
	t.Helper()
	now := time.Date(2016, 2, 15, 12, 0, 0, 0, time.UTC)
	op := operation{
		method:  "GET",
		key:     "logs/2016/0001.gz",
		query:   url.Values{},
		headers: map[string]string{},
	}
	cr, _ := canonicalize(op, "my-bucket.s3.us-west-2.amazonaws.com", "/logs/2016/0001.gz", now)
	return cr, now
}

func TestSignerGoldenAuthorization(t *testing.T) {
	cr, now := signingFixture(t)
	s := newSigner(testCredentials)

	got := s.authorization(cr, now, "us-west-2")

	want := "AWS4-HMAC-SHA256 " +
		"Credential=AKIDEXAMPLE/20160215/us-west-2/s3/aws4_request, " +
		"SignedHeaders=host;x-amz-content-sha256;x-amz-date, " +
		"Signature=2cff2590773257e6eb3da17af1457b5d58edcabbeacb824d5c74bf5fc1cdae2e"
	assert.Equal(t, want, got)
}

func TestSignerDeterminism(t *testing.T) {
	cr, now := signingFixture(t)
	s := newSigner(testCredentials)

	first := s.authorization(cr, now, "us-west-2")
	second := s.authorization(cr, now, "us-west-2")
	assert.Equal(t, first, second)

	// A fresh signer with the same inputs must agree: no hidden state.
	assert.Equal(t, first, newSigner(testCredentials).authorization(cr, now, "us-west-2"))
}

func TestDeriveSigningKey(t *testing.T) {
	// Known vector from the AWS SigV4 test suite (iam service).
	key := deriveSigningKey(testCredentials.SecretAccessKey, scope{
		date:    "20150830",
		region:  "us-east-1",
		service: "iam",
	})
	assert.Equal(t,
		"c4afb1cc5771d871763a393e44b703571b55cc28424d1a5e86da6ed3c154a4b9",
		hex.EncodeToString(key))
}

func TestSigningKeyCache(t *testing.T) {
	s := newSigner(testCredentials)

	day1 := scope{date: "20160215", region: "us-west-2", service: "s3"}
	day1East := scope{date: "20160215", region: "us-east-1", service: "s3"}
	day2 := scope{date: "20160216", region: "us-west-2", service: "s3"}

	t.Run("same day reuses the cached key", func(t *testing.T) {
		first := s.signingKey(day1)
		second := s.signingKey(day1)
		assert.Equal(t, first, second)
		assert.Equal(t, deriveSigningKey(testCredentials.SecretAccessKey, day1), first)
	})

	t.Run("keys do not leak across regions", func(t *testing.T) {
		west := s.signingKey(day1)
		east := s.signingKey(day1East)
		assert.NotEqual(t, west, east)
		assert.Equal(t, deriveSigningKey(testCredentials.SecretAccessKey, day1East), east)
	})

	t.Run("day rollover evicts stale entries", func(t *testing.T) {
		s.signingKey(day1)
		s.signingKey(day2)

		s.mu.Lock()
		defer s.mu.Unlock()
		for cached := range s.cache {
			assert.Equal(t, "20160216", cached.date)
		}
	})
}

func TestSignerConcurrent(t *testing.T) {
	cr, now := signingFixture(t)
	s := newSigner(testCredentials)
	want := s.authorization(cr, now, "us-west-2")

	done := make(chan string, 32)
	for range 32 {
		go func() { done <- s.authorization(cr, now, "us-west-2") }()
	}
	for range 32 {
		require.Equal(t, want, <-done)
	}
}
