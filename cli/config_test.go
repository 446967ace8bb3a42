package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetProfile(t *testing.T) {
	cfg := &ConfigFile{Profiles: []Profile{
		{Name: "dev", Region: "us-east-1"},
		{Name: "prod", Region: "us-west-2", Default: true},
	}}

	p, err := cfg.GetProfile("dev")
	require.NoError(t, err)
	assert.Equal(t, "us-east-1", p.Region)

	p, err = cfg.GetProfile("")
	require.NoError(t, err)
	assert.Equal(t, "prod", p.Name)

	_, err = cfg.GetProfile("missing")
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestGetDefaultProfileFallsBackToFirst(t *testing.T) {
	cfg := &ConfigFile{Profiles: []Profile{
		{Name: "a"},
		{Name: "b"},
	}}

	p, err := cfg.GetDefaultProfile()
	require.NoError(t, err)
	assert.Equal(t, "a", p.Name)
}

func TestGetProfileEmpty(t *testing.T) {
	cfg := &ConfigFile{}
	_, err := cfg.GetProfile("any")
	assert.ErrorIs(t, err, ErrNoProfiles)
}

func TestAddUpdateRemoveProfile(t *testing.T) {
	cfg := &ConfigFile{}

	require.NoError(t, cfg.AddProfile(Profile{Name: "dev"}))
	assert.ErrorIs(t, cfg.AddProfile(Profile{Name: "dev"}), ErrProfileExists)

	require.NoError(t, cfg.UpdateProfile(Profile{Name: "dev", Region: "eu-west-1"}))
	p, err := cfg.GetProfile("dev")
	require.NoError(t, err)
	assert.Equal(t, "eu-west-1", p.Region)

	assert.ErrorIs(t, cfg.UpdateProfile(Profile{Name: "nope"}), ErrProfileNotFound)

	require.NoError(t, cfg.RemoveProfile("dev"))
	assert.ErrorIs(t, cfg.RemoveProfile("dev"), ErrProfileNotFound)
}

func TestSetDefault(t *testing.T) {
	cfg := &ConfigFile{Profiles: []Profile{
		{Name: "a", Default: true},
		{Name: "b"},
	}}

	require.NoError(t, cfg.SetDefault("b"))
	assert.False(t, cfg.Profiles[0].Default)
	assert.True(t, cfg.Profiles[1].Default)

	assert.ErrorIs(t, cfg.SetDefault("missing"), ErrProfileNotFound)
}

func TestSaveAndLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := &ConfigFile{Profiles: []Profile{
		{Name: "prod", Region: "us-east-1", Bucket: "data", AccessKey: "AKIA", SecretKey: "secret", Default: true},
	}}
	require.NoError(t, cfg.Save(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Profiles, loaded.Profiles)
}

func TestLoadConfigFileMissing(t *testing.T) {
	_, err := LoadConfigFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{"complete", Config{AccessKey: "a", SecretKey: "s", Region: "r", Bucket: "b"}, nil},
		{"missing access key", Config{SecretKey: "s", Region: "r", Bucket: "b"}, ErrAccessKeyRequired},
		{"missing secret key", Config{AccessKey: "a", Region: "r", Bucket: "b"}, ErrSecretKeyRequired},
		{"missing region", Config{AccessKey: "a", SecretKey: "s", Bucket: "b"}, ErrRegionRequired},
		{"missing bucket", Config{AccessKey: "a", SecretKey: "s", Region: "r"}, ErrBucketRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestMergeConfig(t *testing.T) {
	base := &Config{Region: "us-east-1", Bucket: "base", AccessKey: "ak"}
	override := &Config{Bucket: "override", SecretKey: "sk"}

	merged := MergeConfig(base, override, nil)
	assert.Equal(t, "us-east-1", merged.Region)
	assert.Equal(t, "override", merged.Bucket)
	assert.Equal(t, "ak", merged.AccessKey)
	assert.Equal(t, "sk", merged.SecretKey)
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("S3ASYNC_REGION", "ap-south-1")
	t.Setenv("S3ASYNC_ACCESS_KEY", "AKIAENV")
	t.Setenv("S3ASYNC_SECRET_KEY", "envsecret")

	cfg := ConfigFromEnv()
	assert.Equal(t, "ap-south-1", cfg.Region)
	assert.Equal(t, "AKIAENV", cfg.AccessKey)
	assert.Equal(t, "envsecret", cfg.SecretKey)
}

func TestConfigFromProfile(t *testing.T) {
	cfg := ConfigFromProfile(&Profile{Name: "p", Region: "r", Bucket: "b", AccessKey: "a", SecretKey: "s"})
	assert.Equal(t, "r", cfg.Region)
	assert.Equal(t, "b", cfg.Bucket)

	assert.Equal(t, &Config{}, ConfigFromProfile(nil))
}

func TestClientConfig(t *testing.T) {
	cfg := Config{Region: "r", Bucket: "b", Endpoint: "http://localhost:9000", AccessKey: "a", SecretKey: "s"}
	cc := cfg.ClientConfig()
	assert.Equal(t, "r", cc.Region)
	assert.Equal(t, "b", cc.Bucket)
	assert.Equal(t, "http://localhost:9000", cc.Endpoint)
	assert.Equal(t, "a", cc.AccessKey)
	assert.Equal(t, "s", cc.SecretKey)
}
