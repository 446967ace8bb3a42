package cli

// UploadOptions configures an upload operation.
type UploadOptions struct {
	LocalPaths  []string
	KeyPrefix   string // optional prefix prepended to each key
	ContentType string // optional, auto-detect if empty
	Parallelism int    // concurrent uploads, 0 means default
}

// UploadResult represents the result of uploading a single file.
type UploadResult struct {
	LocalPath string `json:"local_path"`
	Key       string `json:"key"`
	ETag      string `json:"etag,omitempty"`
	Size      int64  `json:"size_bytes"`
	Err       error  `json:"-"` // nil on success
}

// DownloadOptions configures a download operation.
type DownloadOptions struct {
	Key       string
	LocalPath string // empty = derive from key, "-" = stdout
}

// DownloadResult represents the result of downloading an object.
type DownloadResult struct {
	Key       string `json:"key"`
	LocalPath string `json:"local_path"`
	Size      int64  `json:"size_bytes"`
}

// ListOptions configures a list operation.
type ListOptions struct {
	Prefix    string
	Limit     int
	Marker    string
	Delimiter string
	All       bool // auto-paginate through all results
}

// ListResult contains list results.
type ListResult struct {
	Keys           []string `json:"keys"`
	CommonPrefixes []string `json:"common_prefixes,omitempty"`
	IsTruncated    bool     `json:"is_truncated"`
	NextMarker     string   `json:"next_marker,omitempty"`
}
