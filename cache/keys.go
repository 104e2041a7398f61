package cache

import (
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
)

// Key namespaces. Single records live under "record:{id}", list pages under
// "list:{hash}" so that one "list:*" pattern covers every cached page.
const (
	RecordPrefix = "record:"
	ListPrefix   = "list:"
	ListPattern  = ListPrefix + "*"
)

// RecordKey is the cache key of a single record.
func RecordKey(id uuid.UUID) string {
	return RecordPrefix + id.String()
}

// ListKey derives a fixed length list key from the serialized query arguments.
// The serializer output is hashed so keys stay short for remote backends.
func ListKey(serializer KeySerializer, args ...any) string {
	raw := serializer.SerializeKey("List", args...)
	return ListPrefix + strconv.FormatUint(xxhash.Sum64String(raw), 16)
}
