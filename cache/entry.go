package cache

import (
	"encoding/json"
	"time"
)

// Entry is a single cached value with its access bookkeeping.
// The bookkeeping fields are exclusively owned by the layer; Value is
// returned by reference on reads and must be treated as immutable.
type Entry struct {
	Key            string
	Value          any
	CreatedAt      time.Time
	ExpiresAt      time.Time // zero = never expires
	LastAccessedAt time.Time
	AccessCount    int64
	SizeBytes      int64
}

// expired reports whether the entry's TTL has elapsed at now.
func (e *Entry) expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && now.After(e.ExpiresAt)
}

// entryOverheadBytes approximates the fixed per-entry cost of the map slot
// and bookkeeping fields.
const entryOverheadBytes = 96

// estimateSize approximates the in-memory footprint of a value.
// JSON serialization is used as the estimator; unserializable values
// return an error so the caller can degrade the Set to a no-op.
func estimateSize(key string, value any) (int64, error) {
	size := int64(len(key)) + entryOverheadBytes

	switch v := value.(type) {
	case nil:
		return size, nil
	case []byte:
		return size + int64(len(v)), nil
	case string:
		return size + int64(len(v)), nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return 0, err
		}
		return size + int64(len(data)), nil
	}
}
