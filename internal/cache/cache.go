// Package cache provides result caching for layout optimization. A layout is a
// pure function of its inputs, so entries are addressed by a content hash of
// everything that influences the result.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Cache stores serialized optimization results.
//
// Get returns (nil, false, nil) on a miss. Set with ttl <= 0 stores without
// expiry. Implementations must be safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Key builds a deterministic cache key from a namespace prefix and the values
// that define the result. Values are JSON-marshaled, so anything with a stable
// JSON form is usable.
func Key(prefix string, parts ...any) string {
	var sb strings.Builder
	for _, p := range parts {
		b, err := json.Marshal(p)
		if err != nil {
			// Fall back to the Go representation; still deterministic.
			sb.WriteString(fmt.Sprintf("%#v", p))
			continue
		}
		sb.Write(b)
		sb.WriteByte('|')
	}
	sum := sha256.Sum256([]byte(sb.String()))
	return prefix + ":" + hex.EncodeToString(sum[:])
}
