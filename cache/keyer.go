package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// Keyer derives deterministic cache keys from the semantic inputs of an
// analysis operation.
//
// Contract:
// - Determinism: the same inputs must produce the same key regardless of
//   path order or query casing.
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: key derivation never fails, including on empty inputs.
type Keyer interface {
	// Key derives a key from the input paths, the query and the operation.
	Key(paths []string, query, operation string) string
}

// DefaultKeyer derives SHA-256 based cache keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates a new default keyer.
func NewDefaultKeyer() *DefaultKeyer {
	return &DefaultKeyer{}
}

// Key derives a deterministic cache key: the full hex SHA-256 digest of the
// deduplicated, lexically sorted paths, the trimmed lowercased query and the
// operation name, joined with NUL separators so adjacent fields cannot
// collide.
func (k *DefaultKeyer) Key(paths []string, query, operation string) string {
	normalized := normalizePaths(paths)

	h := sha256.New()
	for _, p := range normalized {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	h.Write([]byte(strings.ToLower(strings.TrimSpace(query))))
	h.Write([]byte{0})
	h.Write([]byte(operation))

	return hex.EncodeToString(h.Sum(nil))
}

// normalizePaths deduplicates and lexically sorts paths.
func normalizePaths(paths []string) []string {
	seen := make(map[string]struct{}, len(paths))
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// hashBytes returns the hex SHA-256 digest of b. The same function is used
// for integrity hashes and for content-addressing full result blobs.
func hashBytes(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// Ensure DefaultKeyer implements Keyer
var _ Keyer = (*DefaultKeyer)(nil)
