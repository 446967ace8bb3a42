package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "s3async.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load([]string{writeConfigFile(t, "")}, nil)
	require.NoError(t, err)

	assert.Empty(t, cfg.Profile)
	assert.Empty(t, cfg.S3.Region)
	assert.False(t, cfg.Output.JSON)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 30, cfg.Timeout.RequestSeconds)
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfigFile(t, `
profile: staging
s3:
  region: eu-west-1
  bucket: my-data
  endpoint: http://localhost:9000
log:
  level: debug
timeout:
  request_seconds: 5
`)

	cfg, err := Load([]string{path}, nil)
	require.NoError(t, err)

	assert.Equal(t, "staging", cfg.Profile)
	assert.Equal(t, "eu-west-1", cfg.S3.Region)
	assert.Equal(t, "my-data", cfg.S3.Bucket)
	assert.Equal(t, "http://localhost:9000", cfg.S3.Endpoint)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 5, cfg.Timeout.RequestSeconds)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, `
s3:
  region: eu-west-1
`)
	t.Setenv("S3ASYNC_S3_REGION", "us-west-2")

	cfg, err := Load([]string{path}, nil)
	require.NoError(t, err)

	assert.Equal(t, "us-west-2", cfg.S3.Region)
}

func TestLoadFlagsOverrideEnv(t *testing.T) {
	path := writeConfigFile(t, "")
	t.Setenv("S3ASYNC_S3_BUCKET", "env-bucket")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("bucket", "", "")
	require.NoError(t, flags.Set("bucket", "flag-bucket"))

	cfg, err := Load([]string{path}, flags)
	require.NoError(t, err)

	assert.Equal(t, "flag-bucket", cfg.S3.Bucket)
}

func TestLoadUnsetFlagDoesNotOverride(t *testing.T) {
	path := writeConfigFile(t, `
s3:
  bucket: file-bucket
`)

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("bucket", "", "")

	cfg, err := Load([]string{path}, flags)
	require.NoError(t, err)

	assert.Equal(t, "file-bucket", cfg.S3.Bucket)
}

func TestLoadRejectsInvalidLogLevel(t *testing.T) {
	path := writeConfigFile(t, `
log:
  level: loud
`)

	_, err := Load([]string{path}, nil)
	assert.Error(t, err)
}

func TestLoadRejectsInvalidEndpoint(t *testing.T) {
	path := writeConfigFile(t, `
s3:
  endpoint: "not a url"
`)

	_, err := Load([]string{path}, nil)
	assert.Error(t, err)
}

func TestContextRoundTrip(t *testing.T) {
	cfg := &Config{Profile: "p"}
	ctx := WithContext(context.Background(), cfg)

	got, err := FromContext(ctx)
	require.NoError(t, err)
	assert.Same(t, cfg, got)

	_, err = FromContext(context.Background())
	assert.Error(t, err)
}
