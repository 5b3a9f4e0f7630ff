// Package cache provides a content-addressable result cache for expensive,
// deterministic analysis operations.
//
// It persists payloads on disk under a single directory, binds them through
// a JSON index that is replaced atomically on every mutation, verifies a
// SHA-256 integrity hash on every read, invalidates entries when their
// source files change or their TTL elapses, and bounds total size with LRU
// eviction. Every failure mode resolves to a status, never a fault: the
// cache is strictly an optimization for its callers.
package cache
