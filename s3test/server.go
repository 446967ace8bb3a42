package s3test

import (
	"crypto/md5" //nolint:gosec // ETags are md5 by convention, not a security boundary
	"encoding/hex"
	"encoding/xml"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const defaultMaxKeys = 1000

type object struct {
	data        []byte
	etag        string
	contentType string
	modified    time.Time
}

// Config configures the in-memory server.
type Config struct {
	// Region the server accepts signatures for.
	Region string
	// Buckets that exist. Requests for other buckets get NoSuchBucket.
	Buckets []string
	// Keys maps access keys to secret keys. Empty disables verification.
	Keys map[string]string
	// MaxSkew bounds how far a request's x-amz-date may drift from the
	// server clock. Zero means 15 minutes.
	MaxSkew time.Duration
}

// Server is an in-memory S3-compatible server.
type Server struct {
	config   Config
	verifier *Verifier

	mu      sync.RWMutex
	buckets map[string]map[string]object
}

// New creates a Server. Buckets named in the config start out empty.
func New(cfg Config) *Server {
	if cfg.MaxSkew == 0 {
		cfg.MaxSkew = 15 * time.Minute
	}

	buckets := make(map[string]map[string]object, len(cfg.Buckets))
	for _, b := range cfg.Buckets {
		buckets[b] = make(map[string]object)
	}

	var verifier *Verifier
	if len(cfg.Keys) > 0 {
		verifier = NewVerifier(cfg.Region, func(accessKey string) (string, bool) {
			secret, ok := cfg.Keys[accessKey]
			return secret, ok
		})
	}

	return &Server{
		config:   cfg,
		verifier: verifier,
		buckets:  buckets,
	}
}

// Handler returns the routed http.Handler for the server.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	if s.verifier != nil {
		r.Use(s.authMiddleware)
	}

	r.Get("/{bucket}", s.handleList)
	r.Get("/{bucket}/*", s.handleGet)
	r.Put("/{bucket}/*", s.handlePut)

	return r
}

// PutObject seeds an object directly, bypassing HTTP. Useful for test setup.
func (s *Server) PutObject(bucket, key string, data []byte, contentType string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	objects, ok := s.buckets[bucket]
	if !ok {
		objects = make(map[string]object)
		s.buckets[bucket] = objects
	}
	sum := md5.Sum(data) //nolint:gosec
	objects[key] = object{
		data:        data,
		etag:        hex.EncodeToString(sum[:]),
		contentType: contentType,
		modified:    time.Now().UTC(),
	}
}

// Object returns a stored object's bytes, or false if absent.
func (s *Server) Object(bucket, key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	obj, ok := s.buckets[bucket][key]
	if !ok {
		return nil, false
	}
	return obj.data, true
}

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := s.verifier.Verify(r, s.config.MaxSkew); err != nil {
			writeError(w, http.StatusForbidden, "SignatureDoesNotMatch", err.Error())
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	bucket := chi.URLParam(r, "bucket")
	key := chi.URLParam(r, "*")

	s.mu.RLock()
	objects, bucketOK := s.buckets[bucket]
	obj, ok := objects[key]
	s.mu.RUnlock()

	if !bucketOK {
		writeError(w, http.StatusNotFound, "NoSuchBucket", "The specified bucket does not exist")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "NoSuchKey", "The specified key does not exist")
		return
	}

	w.Header().Set("ETag", `"`+obj.etag+`"`)
	if obj.contentType != "" {
		w.Header().Set("Content-Type", obj.contentType)
	}
	w.Header().Set("Content-Length", strconv.Itoa(len(obj.data)))
	_, _ = w.Write(obj.data)
}

func (s *Server) handlePut(w http.ResponseWriter, r *http.Request) {
	bucket := chi.URLParam(r, "bucket")
	key := chi.URLParam(r, "*")

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "IncompleteBody", "failed to read request body")
		return
	}

	s.mu.Lock()
	objects, ok := s.buckets[bucket]
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "NoSuchBucket", "The specified bucket does not exist")
		return
	}

	s.PutObject(bucket, key, body, r.Header.Get("Content-Type"))

	s.mu.RLock()
	etag := objects[key].etag
	s.mu.RUnlock()

	w.Header().Set("ETag", `"`+etag+`"`)
	w.WriteHeader(http.StatusOK)
}

type listEntry struct {
	key      string
	isPrefix bool
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	bucket := chi.URLParam(r, "bucket")
	query := r.URL.Query()
	prefix := query.Get("prefix")
	marker := query.Get("marker")
	delimiter := query.Get("delimiter")

	maxKeys := defaultMaxKeys
	if raw := query.Get("max-keys"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeError(w, http.StatusBadRequest, "InvalidArgument", "max-keys must be a non-negative integer")
			return
		}
		if parsed < maxKeys {
			maxKeys = parsed
		}
	}

	s.mu.RLock()
	objects, ok := s.buckets[bucket]
	if !ok {
		s.mu.RUnlock()
		writeError(w, http.StatusNotFound, "NoSuchBucket", "The specified bucket does not exist")
		return
	}
	keys := make([]string, 0, len(objects))
	for k := range objects {
		keys = append(keys, k)
	}
	s.mu.RUnlock()

	sort.Strings(keys)

	entries, truncated := collectEntries(keys, prefix, marker, delimiter, maxKeys)

	result := xmlListResult{
		Xmlns:       "http://s3.amazonaws.com/doc/2006-03-01/",
		Name:        bucket,
		Prefix:      prefix,
		Marker:      marker,
		MaxKeys:     maxKeys,
		Delimiter:   delimiter,
		IsTruncated: truncated,
	}
	for _, e := range entries {
		if e.isPrefix {
			result.CommonPrefixes = append(result.CommonPrefixes, xmlCommonPrefix{Prefix: e.key})
		} else {
			obj := s.lookup(bucket, e.key)
			result.Contents = append(result.Contents, xmlObject{
				Key:          e.key,
				LastModified: obj.modified.Format(time.RFC3339),
				ETag:         `"` + obj.etag + `"`,
				Size:         len(obj.data),
			})
		}
	}
	if truncated && len(entries) > 0 {
		result.NextMarker = entries[len(entries)-1].key
	}

	writeXML(w, http.StatusOK, result)
}

func (s *Server) lookup(bucket, key string) object {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.buckets[bucket][key]
}

// collectEntries walks sorted keys and applies prefix, marker, delimiter
// grouping and the max-keys cap, reporting whether more entries remain.
func collectEntries(keys []string, prefix, marker, delimiter string, maxKeys int) ([]listEntry, bool) {
	var entries []listEntry
	seenPrefixes := make(map[string]bool)

	for _, key := range keys {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		if marker != "" && key <= marker {
			continue
		}

		entry := listEntry{key: key}
		if delimiter != "" {
			rest := key[len(prefix):]
			if idx := strings.Index(rest, delimiter); idx >= 0 {
				common := prefix + rest[:idx+len(delimiter)]
				if seenPrefixes[common] {
					continue
				}
				seenPrefixes[common] = true
				entry = listEntry{key: common, isPrefix: true}
			}
		}

		if len(entries) >= maxKeys {
			return entries, true
		}
		entries = append(entries, entry)
	}

	return entries, false
}

type xmlObject struct {
	Key          string `xml:"Key"`
	LastModified string `xml:"LastModified"`
	ETag         string `xml:"ETag"`
	Size         int    `xml:"Size"`
}

type xmlCommonPrefix struct {
	Prefix string `xml:"Prefix"`
}

type xmlListResult struct {
	XMLName        xml.Name          `xml:"ListBucketResult"`
	Xmlns          string            `xml:"xmlns,attr"`
	Name           string            `xml:"Name"`
	Prefix         string            `xml:"Prefix"`
	Marker         string            `xml:"Marker"`
	NextMarker     string            `xml:"NextMarker,omitempty"`
	MaxKeys        int               `xml:"MaxKeys"`
	Delimiter      string            `xml:"Delimiter,omitempty"`
	IsTruncated    bool              `xml:"IsTruncated"`
	Contents       []xmlObject       `xml:"Contents"`
	CommonPrefixes []xmlCommonPrefix `xml:"CommonPrefixes"`
}

type xmlErrorResponse struct {
	XMLName   xml.Name `xml:"Error"`
	Code      string   `xml:"Code"`
	Message   string   `xml:"Message"`
	RequestID string   `xml:"RequestId"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeXML(w, status, xmlErrorResponse{
		Code:      code,
		Message:   message,
		RequestID: uuid.NewString(),
	})
}

func writeXML(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(xml.Header))
	_ = xml.NewEncoder(w).Encode(v)
}
