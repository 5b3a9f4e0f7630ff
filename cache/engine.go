package cache

import (
	"context"
	"sync"
	"time"
)

// Recorder receives telemetry for cache operations.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: implementations must not panic; recording is best-effort.
type Recorder interface {
	// RecordOp records one cache operation with its outcome and duration.
	RecordOp(ctx context.Context, op, outcome string, elapsed time.Duration)

	// RecordEvictions records entries removed by cleanup.
	RecordEvictions(ctx context.Context, evicted int64)
}

// Engine is the cache engine. It is invoked synchronously by callers and is
// safe for concurrent use within a process; across processes the atomic
// index replace guarantees readers never observe a half-written index,
// with last-writer-wins on concurrent mutations.
type Engine struct {
	mu       sync.Mutex
	store    *store
	policy   Policy
	validate PayloadValidator
	allow    SafetyPolicy
	rec      Recorder
	now      func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithValidator replaces the payload shape validator (default JSONPayload).
func WithValidator(v PayloadValidator) Option {
	return func(e *Engine) { e.validate = v }
}

// WithSafetyPolicy installs the content-safety predicate applied on Set.
func WithSafetyPolicy(p SafetyPolicy) Option {
	return func(e *Engine) { e.allow = p }
}

// WithRecorder installs a telemetry recorder for cache operations.
func WithRecorder(r Recorder) Option {
	return func(e *Engine) { e.rec = r }
}

// WithClock replaces the time source. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New creates an engine rooted at dir. The directory layout is created
// eagerly; a directory that cannot be created is the one constructor-time
// error, everything after that is fail-open.
func New(dir string, policy Policy, opts ...Option) (*Engine, error) {
	st, err := newStore(dir)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		store:    st,
		policy:   policy,
		validate: JSONPayload,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Policy returns the engine's policy.
func (e *Engine) Policy() Policy {
	return e.policy
}

// Dir returns the cache directory.
func (e *Engine) Dir() string {
	return e.store.dir
}

func (e *Engine) record(ctx context.Context, op, outcome string, start time.Time) {
	if e.rec != nil {
		e.rec.RecordOp(ctx, op, outcome, e.now().Sub(start))
	}
}

// Get returns the payload stored under key together with the outcome
// status. Anything but StatusHit means the caller should recompute: the
// key may be absent, the cache disabled, or the entry purged because it
// was stale, expired or corrupt. Store failures degrade to StatusMiss.
func (e *Engine) Get(ctx context.Context, key string) ([]byte, Status) {
	start := e.now()
	payload, st := e.get(key)
	e.record(ctx, "get", st.String(), start)
	return payload, st
}

func (e *Engine) get(key string) ([]byte, Status) {
	if !e.policy.Enabled {
		return nil, StatusDisabled
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	idx, err := e.store.loadIndex()
	if err != nil {
		return nil, StatusMiss
	}

	ent, ok := idx.Entries[key]
	if !ok {
		idx.Misses++
		_ = e.store.saveIndex(idx)
		return nil, StatusMiss
	}

	payload, err := e.store.readPayload(key)
	if err != nil {
		// Entry present but content gone: treated as corruption.
		e.purgeLocked(idx, key)
		_ = e.store.saveIndex(idx)
		return nil, StatusCorrupt
	}

	if hashBytes(payload) != ent.IntegrityHash {
		e.purgeLocked(idx, key)
		_ = e.store.saveIndex(idx)
		return nil, StatusCorrupt
	}

	now := e.now()
	switch e.policy.checkEntry(ent, now) {
	case entryStale:
		e.purgeLocked(idx, key)
		_ = e.store.saveIndex(idx)
		return nil, StatusStale
	case entryExpired:
		e.purgeLocked(idx, key)
		_ = e.store.saveIndex(idx)
		return nil, StatusExpired
	}

	ent.HitCount++
	ent.LastHit = now.Unix()
	idx.Hits++
	_ = e.store.saveIndex(idx)
	return payload, StatusHit
}

// purgeLocked removes an invalid entry and its payload, counting it as both
// a miss and an invalidation. Callers hold e.mu and persist the index.
func (e *Engine) purgeLocked(idx *Index, key string) {
	_ = e.store.removePayload(key)
	delete(idx.Entries, key)
	idx.Misses++
	idx.Invalidations++
}

// Set stores payload under key, overwriting any prior entry. The payload
// must pass the shape validator and the content-safety predicate, both of
// which reject with StatusRejected before anything is written. An optional
// full result blob is stored content-addressed, deduplicated by hash.
// Store failures degrade to StatusMiss: the result is simply not cached.
func (e *Engine) Set(ctx context.Context, key string, payload []byte, sources []string, full []byte) Status {
	start := e.now()
	st := e.set(key, payload, sources, full)
	e.record(ctx, "set", st.String(), start)
	return st
}

func (e *Engine) set(key string, payload []byte, sources []string, full []byte) Status {
	if !e.policy.Enabled {
		return StatusDisabled
	}
	if key == "" {
		return StatusRejected
	}
	if e.validate != nil {
		if err := e.validate(payload); err != nil {
			return StatusRejected
		}
	}
	if e.allow != nil {
		if err := e.allow(payload); err != nil {
			return StatusRejected
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	idx, err := e.store.loadIndex()
	if err != nil {
		return StatusMiss
	}

	// Payload file is complete before the index references it, so a reader
	// that sees the entry can assume the write finished.
	if err := e.store.writePayload(key, payload); err != nil {
		return StatusMiss
	}

	var blobHash string
	if full != nil {
		if blobHash, err = e.store.writeBlob(full); err != nil {
			blobHash = ""
		}
	}

	now := e.now().Unix()
	idx.Entries[key] = &Entry{
		Key:            key,
		CreatedAt:      now,
		SourceSnapshot: now,
		SourcePaths:    normalizePaths(sources),
		IntegrityHash:  hashBytes(payload),
		FullResult:     blobHash,
	}
	if err := e.store.saveIndex(idx); err != nil {
		return StatusMiss
	}
	return StatusStored
}

// Delete removes the entry and its payload. Deleting an absent key returns
// StatusNotFound; the operation is idempotent in effect.
func (e *Engine) Delete(ctx context.Context, key string) Status {
	start := e.now()
	st := e.delete(key)
	e.record(ctx, "delete", st.String(), start)
	return st
}

func (e *Engine) delete(key string) Status {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx, err := e.store.loadIndex()
	if err != nil {
		return StatusNotFound
	}
	if _, ok := idx.Entries[key]; !ok {
		return StatusNotFound
	}

	_ = e.store.removePayload(key)
	delete(idx.Entries, key)
	_ = e.store.saveIndex(idx)
	return StatusDeleted
}

// FullResult returns the content-addressed full result blob attached to
// key, if any. The blob is an attachment: its absence never affects entry
// validity.
func (e *Engine) FullResult(ctx context.Context, key string) ([]byte, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx, err := e.store.loadIndex()
	if err != nil {
		return nil, false
	}
	ent, ok := idx.Entries[key]
	if !ok || ent.FullResult == "" {
		return nil, false
	}
	blob, err := e.store.readBlob(ent.FullResult)
	if err != nil {
		return nil, false
	}
	return blob, true
}

// Invalidate purges every entry that depends on a source path matching the
// shell-style glob pattern and returns the number purged. Entries whose
// sources do not match are untouched, including their TTL and staleness
// state.
func (e *Engine) Invalidate(ctx context.Context, pattern string) int {
	start := e.now()

	e.mu.Lock()
	defer e.mu.Unlock()

	idx, err := e.store.loadIndex()
	if err != nil {
		e.record(ctx, "invalidate", "error", start)
		return 0
	}

	purged := 0
	for key, ent := range idx.Entries {
		if !matchesAny(pattern, ent) {
			continue
		}
		_ = e.store.removePayload(key)
		delete(idx.Entries, key)
		idx.Invalidations++
		purged++
	}
	if purged > 0 {
		_ = e.store.saveIndex(idx)
	}

	e.record(ctx, "invalidate", "ok", start)
	return purged
}

// Cleanup enforces the size budget with LRU eviction: while the total
// payload size exceeds the budget, the entry with the oldest LastHit is
// deleted, never-hit entries first (ordered by CreatedAt), recomputing the
// total after each deletion. maxBytes <= 0 means the configured budget.
// Returns the number of entries evicted.
func (e *Engine) Cleanup(ctx context.Context, maxBytes int64) int {
	start := e.now()

	if maxBytes <= 0 {
		maxBytes = e.policy.MaxBytes
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	idx, err := e.store.loadIndex()
	if err != nil || maxBytes <= 0 {
		e.record(ctx, "cleanup", "ok", start)
		return 0
	}

	evicted := 0
	for e.store.totalSize(idx) > maxBytes && len(idx.Entries) > 0 {
		victim := evictionOrder(idx)[0]
		_ = e.store.removePayload(victim)
		delete(idx.Entries, victim)
		evicted++
	}
	if evicted > 0 {
		_ = e.store.saveIndex(idx)
	}

	e.record(ctx, "cleanup", "ok", start)
	if e.rec != nil && evicted > 0 {
		e.rec.RecordEvictions(ctx, int64(evicted))
	}
	return evicted
}

// Clear removes every entry, payload and blob, resets the counters to zero
// and returns the number of entries removed.
func (e *Engine) Clear(ctx context.Context) int {
	start := e.now()

	e.mu.Lock()
	defer e.mu.Unlock()

	idx, err := e.store.loadIndex()
	if err != nil {
		e.record(ctx, "clear", "error", start)
		return 0
	}
	removed := len(idx.Entries)
	_ = e.store.reset()

	e.record(ctx, "clear", "ok", start)
	return removed
}

// Stats is the aggregate view over the index and storage.
type Stats struct {
	Entries       int     `json:"entries"`
	Hits          uint64  `json:"hits"`
	Misses        uint64  `json:"misses"`
	Invalidations uint64  `json:"invalidations"`
	HitRate       float64 `json:"hit_rate"`
	SizeBytes     int64   `json:"size_bytes"`
	MaxSizeBytes  int64   `json:"max_size_bytes"`
	Enabled       bool    `json:"enabled"`
}

// Stats aggregates hit/miss/invalidation counters and storage size. It is
// read-only and never mutates state. HitRate is zero when there has been no
// traffic.
func (e *Engine) Stats(ctx context.Context) Stats {
	e.mu.Lock()
	defer e.mu.Unlock()

	st := Stats{
		MaxSizeBytes: e.policy.MaxBytes,
		Enabled:      e.policy.Enabled,
	}

	idx, err := e.store.loadIndex()
	if err != nil {
		return st
	}

	st.Entries = len(idx.Entries)
	st.Hits = idx.Hits
	st.Misses = idx.Misses
	st.Invalidations = idx.Invalidations
	st.SizeBytes = e.store.totalSize(idx)
	if total := idx.Hits + idx.Misses; total > 0 {
		st.HitRate = float64(idx.Hits) / float64(total)
	}
	return st
}
