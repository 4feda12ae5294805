package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Keyer derives deterministic cache keys from operation inputs.
//
// Contract:
// - Determinism: equal inputs yield equal keys regardless of map
//   iteration order.
// - Concurrency: implementations must be safe for concurrent use.
type Keyer interface {
	Key(tool string, input any) (string, error)
}

// DefaultKeyer hashes a canonical JSON rendering of the input with
// SHA-256. Keys have the form cache:<tool>:<hash> where hash is the
// first 8 bytes of the digest in hex, keeping keys well under
// MaxKeyLength for any input.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the canonical-JSON keyer.
func NewDefaultKeyer() *DefaultKeyer {
	return &DefaultKeyer{}
}

var _ Keyer = (*DefaultKeyer)(nil)

// Key derives the cache key for one tool input.
func (k *DefaultKeyer) Key(tool string, input any) (string, error) {
	var b strings.Builder
	if err := writeCanonical(&b, input); err != nil {
		return "", fmt.Errorf("cache: canonicalize input: %w", err)
	}

	sum := sha256.Sum256([]byte(b.String()))
	return fmt.Sprintf("cache:%s:%s", tool, hex.EncodeToString(sum[:8])), nil
}

// writeCanonical renders v as JSON with map keys sorted at every level.
// Slices keep their element order; nil renders as JSON null.
func writeCanonical(b *strings.Builder, v any) error {
	switch val := v.(type) {
	case nil:
		b.WriteString("null")
		return nil

	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		b.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				b.WriteByte(',')
			}
			kb, err := json.Marshal(k)
			if err != nil {
				return err
			}
			b.Write(kb)
			b.WriteByte(':')
			if err := writeCanonical(b, val[k]); err != nil {
				return err
			}
		}
		b.WriteByte('}')
		return nil

	case []any:
		b.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				b.WriteByte(',')
			}
			if err := writeCanonical(b, elem); err != nil {
				return err
			}
		}
		b.WriteByte(']')
		return nil

	default:
		data, err := json.Marshal(val)
		if err != nil {
			return err
		}
		b.Write(data)
		return nil
	}
}
