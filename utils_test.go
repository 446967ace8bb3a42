package s3async

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateKey(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr bool
	}{
		{"simple key", "file.txt", false},
		{"nested key", "logs/2016/0001.gz", false},
		{"spaces allowed", "my file.txt", false},
		{"unicode allowed", "héllo/wörld.txt", false},
		{"empty", "", true},
		{"null byte", "file\x00.txt", true},
		{"control character", "file\n.txt", true},
		{"too long", strings.Repeat("a", 1025), true},
		{"max length ok", strings.Repeat("a", 1024), false},
		{"invalid utf-8", "file\xff\xfe", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateKey(tt.key)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidOperation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNormalizeKey(t *testing.T) {
	assert.Equal(t, "logs/a.gz", normalizeKey("/logs/a.gz"))
	assert.Equal(t, "logs/a.gz", normalizeKey("logs/a.gz"))
	assert.Equal(t, "", normalizeKey("/"))
}
