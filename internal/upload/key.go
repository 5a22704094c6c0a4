package upload

import (
	"strings"

	"github.com/google/uuid"
)

// DeriveKey returns the storage key for an upload. A non-empty request path
// beyond the root is used verbatim, letting callers choose their own
// namespacing. Otherwise a random unique name is generated, keeping the
// original filename's extension so downstream consumers can still infer the
// content type. Keys are never checked against the store; a colliding or
// reused key overwrites the existing object.
func DeriveKey(requestPath, filename string) string {
	if key := strings.TrimPrefix(requestPath, "/"); key != "" {
		return key
	}

	ext := ""
	if i := strings.LastIndex(filename, "."); i != -1 {
		ext = filename[i:]
	}
	return uuid.NewString() + ext
}
