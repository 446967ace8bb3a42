package cli

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagarc03/s3async"
	"github.com/sagarc03/s3async/s3test"
)

func newTestTransfer(t *testing.T) (*Transfer, *s3test.Server, *bytes.Buffer) {
	t.Helper()

	srv := s3test.New(s3test.Config{
		Region:  "us-east-1",
		Buckets: []string{"bucket"},
		Keys:    map[string]string{"AKIATEST": "secret"},
	})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	client, err := s3async.New(s3async.Config{
		AccessKey: "AKIATEST",
		SecretKey: "secret",
		Region:    "us-east-1",
		Bucket:    "bucket",
		Endpoint:  ts.URL,
	})
	require.NoError(t, err)

	var stdout bytes.Buffer
	return NewTransfer(client, &stdout), srv, &stdout
}

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestUpload(t *testing.T) {
	transfer, srv, _ := newTestTransfer(t)

	path := writeTempFile(t, "report.json", `{"ok":true}`)

	results, err := transfer.Upload(context.Background(), UploadOptions{
		LocalPaths: []string{path},
		KeyPrefix:  "reports",
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.NoError(t, results[0].Err)
	assert.Equal(t, "reports/report.json", results[0].Key)
	assert.NotEmpty(t, results[0].ETag)

	stored, ok := srv.Object("bucket", "reports/report.json")
	require.True(t, ok)
	assert.Equal(t, []byte(`{"ok":true}`), stored)
}

func TestUploadMultiple(t *testing.T) {
	transfer, _, _ := newTestTransfer(t)

	paths := []string{
		writeTempFile(t, "a.txt", "a"),
		writeTempFile(t, "b.txt", "b"),
		writeTempFile(t, "c.txt", "c"),
	}

	results, err := transfer.Upload(context.Background(), UploadOptions{LocalPaths: paths})
	require.NoError(t, err)
	require.Len(t, results, 3)
	for _, r := range results {
		assert.NoError(t, r.Err)
	}
}

func TestUploadMissingFileReportsPerFile(t *testing.T) {
	transfer, _, _ := newTestTransfer(t)

	good := writeTempFile(t, "good.txt", "ok")
	results, err := transfer.Upload(context.Background(), UploadOptions{
		LocalPaths: []string{good, "/nonexistent/file.txt"},
	})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.NoError(t, results[0].Err)
	assert.Error(t, results[1].Err)
}

func TestUploadNoPaths(t *testing.T) {
	transfer, _, _ := newTestTransfer(t)

	_, err := transfer.Upload(context.Background(), UploadOptions{})
	assert.ErrorIs(t, err, ErrNoPaths)
}

func TestDownloadToFile(t *testing.T) {
	transfer, srv, _ := newTestTransfer(t)
	srv.PutObject("bucket", "docs/readme.md", []byte("# hi"), "text/markdown")

	local := filepath.Join(t.TempDir(), "readme.md")
	result, err := transfer.Download(context.Background(), DownloadOptions{
		Key:       "docs/readme.md",
		LocalPath: local,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(4), result.Size)

	data, err := os.ReadFile(local)
	require.NoError(t, err)
	assert.Equal(t, []byte("# hi"), data)
}

func TestDownloadToStdout(t *testing.T) {
	transfer, srv, stdout := newTestTransfer(t)
	srv.PutObject("bucket", "a.txt", []byte("streamed"), "text/plain")

	result, err := transfer.Download(context.Background(), DownloadOptions{
		Key:       "a.txt",
		LocalPath: "-",
	})
	require.NoError(t, err)
	assert.Equal(t, "-", result.LocalPath)
	assert.Equal(t, "streamed", stdout.String())
}

func TestDownloadMissingKey(t *testing.T) {
	transfer, _, _ := newTestTransfer(t)

	_, err := transfer.Download(context.Background(), DownloadOptions{Key: "absent"})
	assert.ErrorIs(t, err, s3async.ErrNotFound)
}

func TestDownloadEmptyKey(t *testing.T) {
	transfer, _, _ := newTestTransfer(t)

	_, err := transfer.Download(context.Background(), DownloadOptions{})
	assert.ErrorIs(t, err, ErrEmptyPath)
}

func TestListAllPaginates(t *testing.T) {
	transfer, srv, _ := newTestTransfer(t)
	for _, key := range []string{"p/a", "p/b", "p/c", "p/d", "p/e"} {
		srv.PutObject("bucket", key, []byte("x"), "")
	}

	result, err := transfer.List(context.Background(), ListOptions{
		Prefix: "p/",
		Limit:  2,
		All:    true,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"p/a", "p/b", "p/c", "p/d", "p/e"}, result.Keys)
	assert.False(t, result.IsTruncated)
	assert.Empty(t, result.NextMarker)
}

func TestListSinglePage(t *testing.T) {
	transfer, srv, _ := newTestTransfer(t)
	for _, key := range []string{"p/a", "p/b", "p/c"} {
		srv.PutObject("bucket", key, []byte("x"), "")
	}

	result, err := transfer.List(context.Background(), ListOptions{Prefix: "p/", Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"p/a", "p/b"}, result.Keys)
	assert.True(t, result.IsTruncated)
	assert.Equal(t, "p/b", result.NextMarker)
}

func TestDetectContentType(t *testing.T) {
	assert.Equal(t, "application/json", detectContentType("data.json"))
	assert.Equal(t, "application/octet-stream", detectContentType("blob.unknownext"))
}

func TestRemoteKey(t *testing.T) {
	assert.Equal(t, "a.txt", remoteKey("/tmp/a.txt", ""))
	assert.Equal(t, "docs/a.txt", remoteKey("/tmp/a.txt", "docs"))
	assert.Equal(t, "docs/a.txt", remoteKey("/tmp/a.txt", "docs/"))
}
