package s3async

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// maxKeyLength is the S3 object key limit in bytes.
const maxKeyLength = 1024

// validateKey checks that an object key is acceptable before any request is
// built. S3 itself is permissive about key contents; we reject only what
// would corrupt the canonical request or the wire protocol:
//   - empty keys
//   - keys longer than 1024 bytes
//   - null bytes and other control characters
//   - invalid UTF-8
func validateKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: key cannot be empty", ErrInvalidOperation)
	}

	if len(key) > maxKeyLength {
		return fmt.Errorf("%w: key exceeds %d bytes", ErrInvalidOperation, maxKeyLength)
	}

	if strings.IndexByte(key, 0) >= 0 {
		return fmt.Errorf("%w: key contains null byte", ErrInvalidOperation)
	}

	for _, r := range key {
		if r < 0x20 || r == 0x7f {
			return fmt.Errorf("%w: key contains control character", ErrInvalidOperation)
		}
	}

	if !utf8.ValidString(key) {
		return fmt.Errorf("%w: key is not valid UTF-8", ErrInvalidOperation)
	}

	return nil
}

// normalizeKey strips a single leading slash so that "logs/a.gz" and
// "/logs/a.gz" address the same object. The canonical URI always carries
// the leading slash.
func normalizeKey(key string) string {
	return strings.TrimPrefix(key, "/")
}
