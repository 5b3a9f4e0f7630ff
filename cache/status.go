package cache

import "errors"

// Status is the outcome of a cache operation. The engine is status-based
// rather than error-based: every internal failure is recovered locally and
// reported as one of these values.
type Status int

const (
	// StatusHit indicates a verified cache hit.
	StatusHit Status = iota
	// StatusMiss indicates the key is absent (or the store was unavailable).
	StatusMiss
	// StatusDisabled indicates the cache is turned off by policy.
	StatusDisabled
	// StatusStale indicates a source file changed after the entry was written.
	StatusStale
	// StatusExpired indicates the entry outlived the configured TTL.
	StatusExpired
	// StatusCorrupt indicates the stored payload failed integrity verification.
	StatusCorrupt
	// StatusStored indicates a successful write.
	StatusStored
	// StatusRejected indicates a write refused by validation or content policy.
	StatusRejected
	// StatusDeleted indicates a successful delete.
	StatusDeleted
	// StatusNotFound indicates a delete of an absent key.
	StatusNotFound
)

// String returns the string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusHit:
		return "hit"
	case StatusMiss:
		return "miss"
	case StatusDisabled:
		return "disabled"
	case StatusStale:
		return "stale"
	case StatusExpired:
		return "expired"
	case StatusCorrupt:
		return "corrupt"
	case StatusStored:
		return "stored"
	case StatusRejected:
		return "rejected"
	case StatusDeleted:
		return "deleted"
	case StatusNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// IsMiss reports whether the caller should recompute the result. Stale,
// expired and corrupt entries all resolve to a miss from the caller's
// perspective; they differ only in the reason recorded for diagnostics.
func (s Status) IsMiss() bool {
	switch s {
	case StatusMiss, StatusDisabled, StatusStale, StatusExpired, StatusCorrupt:
		return true
	default:
		return false
	}
}

// Sentinel errors for cache operations.
var (
	ErrNilEngine      = errors.New("cache: engine is nil")
	ErrInvalidKey     = errors.New("cache: key is invalid")
	ErrInvalidPayload = errors.New("cache: payload is not valid JSON")
	ErrNilCompute     = errors.New("cache: compute function is nil")
)
