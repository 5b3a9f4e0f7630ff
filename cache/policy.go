package cache

import "time"

// Policy configures caching behavior.
type Policy struct {
	// Enabled turns the cache on. When false, Get and Set short-circuit
	// with StatusDisabled and never touch the store.
	Enabled bool

	// TTL is the maximum age of an entry before it expires. Zero means
	// entries never expire.
	TTL time.Duration

	// MaxBytes is the total payload size budget enforced by Cleanup.
	// Zero means no budget.
	MaxBytes int64
}

// DefaultPolicy returns the default caching policy: enabled, 7-day TTL,
// 100 MiB budget.
func DefaultPolicy() Policy {
	return Policy{
		Enabled:  true,
		TTL:      7 * 24 * time.Hour,
		MaxBytes: 100 << 20,
	}
}

// DisabledPolicy returns a policy that turns the cache off entirely.
func DisabledPolicy() Policy {
	return Policy{}
}

// expired reports whether an entry created at the given unix time has
// outlived the TTL at now.
func (p Policy) expired(createdAt int64, now time.Time) bool {
	if p.TTL <= 0 {
		return false
	}
	return now.Unix()-createdAt > int64(p.TTL.Seconds())
}
