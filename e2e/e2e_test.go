package e2e_test

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	miniogo "github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagarc03/s3async"
)

const waitFor = 30 * time.Second

func TestPutGetRoundTrip(t *testing.T) {
	client := newClient(t)
	ctx := context.Background()

	key := "round-trip/" + uuid.NewString() + ".txt"
	content := []byte("end to end content")

	put, err := client.Put(ctx, key, content,
		s3async.PutWithContentType("text/plain")).WaitTimeout(waitFor)
	require.NoError(t, err)
	assert.NotEmpty(t, put.ETag)

	get, err := client.Get(ctx, key).WaitTimeout(waitFor)
	require.NoError(t, err)
	assert.Equal(t, content, get.Body)
}

func TestCrossCheckWithSDK(t *testing.T) {
	client := newClient(t)
	verify := newVerifyClient(t)
	ctx := context.Background()

	key := "cross-check/" + uuid.NewString() + ".bin"
	content := []byte{0x00, 0x01, 0x02, 0xff, 0xfe}

	_, err := client.Put(ctx, key, content).WaitTimeout(waitFor)
	require.NoError(t, err)

	// Read back through the independent SDK client.
	obj, err := verify.GetObject(ctx, testBucket, key, miniogo.GetObjectOptions{})
	require.NoError(t, err)
	defer func() { _ = obj.Close() }()

	stored, err := io.ReadAll(obj)
	require.NoError(t, err)
	assert.Equal(t, content, stored)

	// And the reverse: SDK writes, our client reads.
	sdkKey := "cross-check/" + uuid.NewString() + ".txt"
	sdkContent := []byte("written by the sdk")
	_, err = verify.PutObject(ctx, testBucket, sdkKey,
		bytes.NewReader(sdkContent), int64(len(sdkContent)),
		miniogo.PutObjectOptions{ContentType: "text/plain"})
	require.NoError(t, err)

	get, err := client.Get(ctx, sdkKey).WaitTimeout(waitFor)
	require.NoError(t, err)
	assert.Equal(t, sdkContent, get.Body)
}

func TestGetMissingKey(t *testing.T) {
	client := newClient(t)

	key := "missing/" + uuid.NewString()
	_, err := client.Get(context.Background(), key).WaitTimeout(waitFor)
	assert.ErrorIs(t, err, s3async.ErrNotFound)
}

func TestKeyWithSpacesAndUnicode(t *testing.T) {
	client := newClient(t)
	ctx := context.Background()

	key := "sp ace/" + uuid.NewString() + "/héllo wörld.txt"
	content := []byte("special characters in key")

	_, err := client.Put(ctx, key, content).WaitTimeout(waitFor)
	require.NoError(t, err)

	get, err := client.Get(ctx, key).WaitTimeout(waitFor)
	require.NoError(t, err)
	assert.Equal(t, content, get.Body)
}

func TestListWithPrefixAndPagination(t *testing.T) {
	client := newClient(t)
	ctx := context.Background()

	prefix := "list-" + uuid.NewString() + "/"
	var keys []string
	for i := range 5 {
		key := fmt.Sprintf("%s%03d.txt", prefix, i)
		keys = append(keys, key)
		_, err := client.Put(ctx, key, []byte("x")).WaitTimeout(waitFor)
		require.NoError(t, err)
	}

	full, err := client.List(ctx, prefix).WaitTimeout(waitFor)
	require.NoError(t, err)
	assert.Equal(t, keys, full.Keys)
	assert.False(t, full.IsTruncated)

	first, err := client.List(ctx, prefix, s3async.ListWithLimit(2)).WaitTimeout(waitFor)
	require.NoError(t, err)
	assert.Equal(t, keys[:2], first.Keys)
	assert.True(t, first.IsTruncated)
	require.NotEmpty(t, first.NextMarker)

	second, err := client.List(ctx, prefix,
		s3async.ListWithLimit(2), s3async.ListWithMarker(first.NextMarker)).WaitTimeout(waitFor)
	require.NoError(t, err)
	assert.Equal(t, keys[2:4], second.Keys)
}

func TestListDelimiter(t *testing.T) {
	client := newClient(t)
	ctx := context.Background()

	prefix := "tree-" + uuid.NewString() + "/"
	for _, key := range []string{prefix + "a/1.txt", prefix + "a/2.txt", prefix + "b/1.txt", prefix + "root.txt"} {
		_, err := client.Put(ctx, key, []byte("x")).WaitTimeout(waitFor)
		require.NoError(t, err)
	}

	resp, err := client.List(ctx, prefix, s3async.ListWithDelimiter("/")).WaitTimeout(waitFor)
	require.NoError(t, err)
	assert.Equal(t, []string{prefix + "root.txt"}, resp.Keys)
	assert.ElementsMatch(t, []string{prefix + "a/", prefix + "b/"}, resp.CommonPrefixes)
}

func TestConcurrentOperations(t *testing.T) {
	client := newClient(t)
	ctx := context.Background()

	prefix := "concurrent-" + uuid.NewString() + "/"

	puts := make([]*s3async.Future[s3async.PutResponse], 0, 20)
	for i := range 20 {
		key := fmt.Sprintf("%s%02d", prefix, i)
		puts = append(puts, client.Put(ctx, key, []byte(key)))
	}
	for _, f := range puts {
		_, err := f.WaitTimeout(waitFor)
		require.NoError(t, err)
	}

	gets := make([]*s3async.Future[s3async.GetResponse], 0, 20)
	for i := range 20 {
		key := fmt.Sprintf("%s%02d", prefix, i)
		gets = append(gets, client.Get(ctx, key))
	}
	for i, f := range gets {
		resp, err := f.WaitTimeout(waitFor)
		require.NoError(t, err)
		assert.Equal(t, []byte(fmt.Sprintf("%s%02d", prefix, i)), resp.Body)
	}
}

func TestOverwriteObject(t *testing.T) {
	client := newClient(t)
	ctx := context.Background()

	key := "overwrite/" + uuid.NewString()

	_, err := client.Put(ctx, key, []byte("first")).WaitTimeout(waitFor)
	require.NoError(t, err)

	_, err = client.Put(ctx, key, []byte("second")).WaitTimeout(waitFor)
	require.NoError(t, err)

	get, err := client.Get(ctx, key).WaitTimeout(waitFor)
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), get.Body)
}
