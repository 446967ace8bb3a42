package cli

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/sagarc03/s3async"
)

// DefaultParallelism bounds concurrent uploads when not configured.
const DefaultParallelism = 4

// Transfer performs file transfers using the asynchronous client.
type Transfer struct {
	client *s3async.Client
	stdout io.Writer
}

// NewTransfer creates a Transfer. stdout receives downloads addressed
// to "-" and may be nil outside of that use.
func NewTransfer(client *s3async.Client, stdout io.Writer) *Transfer {
	return &Transfer{client: client, stdout: stdout}
}

// Upload uploads the configured files concurrently. Per-file failures
// land in the result's Err field; only setup problems return an error.
func (t *Transfer) Upload(ctx context.Context, opts UploadOptions) ([]UploadResult, error) {
	if len(opts.LocalPaths) == 0 {
		return nil, fmt.Errorf("upload: %w", ErrNoPaths)
	}

	parallelism := opts.Parallelism
	if parallelism <= 0 {
		parallelism = DefaultParallelism
	}

	results := make([]UploadResult, len(opts.LocalPaths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)
	for i, localPath := range opts.LocalPaths {
		g.Go(func() error {
			results[i] = t.uploadOne(ctx, localPath, opts)
			return nil
		})
	}
	_ = g.Wait()

	return results, nil
}

func (t *Transfer) uploadOne(ctx context.Context, localPath string, opts UploadOptions) UploadResult {
	key := remoteKey(localPath, opts.KeyPrefix)
	result := UploadResult{LocalPath: localPath, Key: key}

	data, err := os.ReadFile(filepath.Clean(localPath))
	if err != nil {
		result.Err = fmt.Errorf("read file: %w", err)
		return result
	}
	result.Size = int64(len(data))

	contentType := opts.ContentType
	if contentType == "" {
		contentType = detectContentType(localPath)
	}

	resp, err := t.client.Put(ctx, key, data,
		s3async.PutWithContentType(contentType)).Wait(ctx)
	if err != nil {
		result.Err = err
		return result
	}

	result.ETag = resp.ETag
	return result
}

// Download fetches one object and writes it to disk, or to stdout when
// the local path is "-".
func (t *Transfer) Download(ctx context.Context, opts DownloadOptions) (*DownloadResult, error) {
	if opts.Key == "" {
		return nil, fmt.Errorf("download: %w", ErrEmptyPath)
	}

	localPath := opts.LocalPath
	if localPath == "" {
		localPath = filepath.Base(opts.Key)
	}

	resp, err := t.client.Get(ctx, opts.Key).Wait(ctx)
	if err != nil {
		return nil, err
	}

	if localPath == "-" {
		if _, err := t.stdout.Write(resp.Body); err != nil {
			return nil, fmt.Errorf("write to stdout: %w", err)
		}
	} else {
		if err := os.WriteFile(filepath.Clean(localPath), resp.Body, 0o600); err != nil {
			return nil, fmt.Errorf("write file: %w", err)
		}
	}

	return &DownloadResult{
		Key:       opts.Key,
		LocalPath: localPath,
		Size:      int64(len(resp.Body)),
	}, nil
}

// List enumerates keys. With All set it follows markers until the
// listing is exhausted.
func (t *Transfer) List(ctx context.Context, opts ListOptions) (*ListResult, error) {
	result := &ListResult{}
	marker := opts.Marker

	for {
		listOpts := []s3async.ListOption{}
		if opts.Limit > 0 {
			listOpts = append(listOpts, s3async.ListWithLimit(opts.Limit))
		}
		if marker != "" {
			listOpts = append(listOpts, s3async.ListWithMarker(marker))
		}
		if opts.Delimiter != "" {
			listOpts = append(listOpts, s3async.ListWithDelimiter(opts.Delimiter))
		}

		resp, err := t.client.List(ctx, opts.Prefix, listOpts...).Wait(ctx)
		if err != nil {
			return nil, err
		}

		result.Keys = append(result.Keys, resp.Keys...)
		result.CommonPrefixes = append(result.CommonPrefixes, resp.CommonPrefixes...)
		result.IsTruncated = resp.IsTruncated
		result.NextMarker = resp.NextMarker

		if !opts.All || !resp.IsTruncated || resp.NextMarker == "" {
			break
		}
		marker = resp.NextMarker
	}

	if opts.All {
		result.IsTruncated = false
		result.NextMarker = ""
	}
	return result, nil
}

// remoteKey derives the object key for a local file.
func remoteKey(localPath, prefix string) string {
	key := filepath.ToSlash(filepath.Base(localPath))
	if prefix == "" {
		return key
	}
	return strings.TrimSuffix(prefix, "/") + "/" + key
}

// detectContentType guesses a content type from the file extension.
func detectContentType(path string) string {
	if ct := mime.TypeByExtension(filepath.Ext(path)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
