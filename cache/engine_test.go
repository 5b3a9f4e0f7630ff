package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

// fakeClock is a controllable time source for TTL and LRU tests.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Now().Truncate(time.Second)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestEngine(t *testing.T, policy Policy, opts ...Option) *Engine {
	t.Helper()
	e, err := New(t.TempDir(), policy, opts...)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return e
}

func TestEngine_RoundTrip(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t, DefaultPolicy())

	payload := []byte(`{"verdict":"PASS"}`)
	if st := e.Set(ctx, "k1", payload, nil, nil); st != StatusStored {
		t.Fatalf("Set() = %v, want %v", st, StatusStored)
	}

	got, st := e.Get(ctx, "k1")
	if st != StatusHit {
		t.Fatalf("Get() = %v, want %v", st, StatusHit)
	}
	if string(got) != string(payload) {
		t.Errorf("Get() payload = %q, want %q", got, payload)
	}

	stats := e.Stats(ctx)
	if stats.Hits != 1 || stats.Misses != 0 {
		t.Errorf("stats = %d hits / %d misses, want 1/0", stats.Hits, stats.Misses)
	}
	if stats.Entries != 1 {
		t.Errorf("stats.Entries = %d, want 1", stats.Entries)
	}
}

func TestEngine_GetMiss(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t, DefaultPolicy())

	if _, st := e.Get(ctx, "absent"); st != StatusMiss {
		t.Fatalf("Get() = %v, want %v", st, StatusMiss)
	}
	if stats := e.Stats(ctx); stats.Misses != 1 {
		t.Errorf("stats.Misses = %d, want 1", stats.Misses)
	}
}

func TestEngine_Disabled(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t, DisabledPolicy())

	if _, st := e.Get(ctx, "k"); st != StatusDisabled {
		t.Errorf("Get() = %v, want %v", st, StatusDisabled)
	}
	if st := e.Set(ctx, "k", []byte(`{}`), nil, nil); st != StatusDisabled {
		t.Errorf("Set() = %v, want %v", st, StatusDisabled)
	}

	// Disabled gets never touch the counters.
	if stats := e.Stats(ctx); stats.Hits+stats.Misses != 0 {
		t.Errorf("disabled cache recorded traffic: %+v", stats)
	}
}

func TestEngine_SetRejected(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		opts    []Option
		payload []byte
	}{
		{"malformed JSON", nil, []byte(`{"verdict":`)},
		{"empty payload", nil, nil},
		{
			"content policy",
			[]Option{WithSafetyPolicy(func(p []byte) error {
				return errors.New("disallowed content")
			})},
			[]byte(`{"api_key":"AKIA123"}`),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(t, DefaultPolicy(), tt.opts...)
			if st := e.Set(ctx, "k", tt.payload, nil, nil); st != StatusRejected {
				t.Fatalf("Set() = %v, want %v", st, StatusRejected)
			}
			// Nothing may be written on rejection.
			if _, st := e.Get(ctx, "k"); st != StatusMiss {
				t.Errorf("Get() after rejected Set = %v, want %v", st, StatusMiss)
			}
		})
	}
}

func TestEngine_SetOverwrites(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t, DefaultPolicy())

	e.Set(ctx, "k", []byte(`{"n":1}`), nil, nil)
	e.Get(ctx, "k")
	e.Set(ctx, "k", []byte(`{"n":2}`), nil, nil)

	got, st := e.Get(ctx, "k")
	if st != StatusHit || string(got) != `{"n":2}` {
		t.Fatalf("Get() = %q, %v; want new payload and hit", got, st)
	}
}

func TestEngine_CorruptionDetection(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	e, err := New(dir, DefaultPolicy())
	if err != nil {
		t.Fatal(err)
	}

	e.Set(ctx, "k1", []byte(`{"verdict":"PASS"}`), nil, nil)

	// Tamper with the stored payload without updating the integrity hash.
	payloadFile := filepath.Join(dir, "entries", "k1.json")
	if err := os.WriteFile(payloadFile, []byte(`{"verdict":"TAMPERED"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, st := e.Get(ctx, "k1"); st != StatusCorrupt {
		t.Fatalf("Get() = %v, want %v", st, StatusCorrupt)
	}

	// The corrupt entry is purged; a second get is a plain miss.
	if _, st := e.Get(ctx, "k1"); st != StatusMiss {
		t.Errorf("Get() after purge = %v, want %v", st, StatusMiss)
	}

	stats := e.Stats(ctx)
	if stats.Invalidations != 1 {
		t.Errorf("stats.Invalidations = %d, want 1", stats.Invalidations)
	}
	if stats.Misses != 2 {
		t.Errorf("stats.Misses = %d, want 2", stats.Misses)
	}
}

func TestEngine_MissingPayloadIsCorrupt(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	e, err := New(dir, DefaultPolicy())
	if err != nil {
		t.Fatal(err)
	}

	e.Set(ctx, "k1", []byte(`{}`), nil, nil)
	if err := os.Remove(filepath.Join(dir, "entries", "k1.json")); err != nil {
		t.Fatal(err)
	}

	if _, st := e.Get(ctx, "k1"); st != StatusCorrupt {
		t.Fatalf("Get() = %v, want %v", st, StatusCorrupt)
	}
	if stats := e.Stats(ctx); stats.Entries != 0 {
		t.Errorf("entry not purged: %+v", stats)
	}
}

func TestEngine_DeleteIdempotent(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t, DefaultPolicy())

	e.Set(ctx, "k1", []byte(`{}`), nil, nil)

	if st := e.Delete(ctx, "k1"); st != StatusDeleted {
		t.Fatalf("first Delete() = %v, want %v", st, StatusDeleted)
	}
	if st := e.Delete(ctx, "k1"); st != StatusNotFound {
		t.Fatalf("second Delete() = %v, want %v", st, StatusNotFound)
	}
}

func TestEngine_Clear(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t, DefaultPolicy())

	e.Set(ctx, "k1", []byte(`{"n":1}`), nil, nil)
	e.Set(ctx, "k2", []byte(`{"n":2}`), nil, []byte("full report"))
	e.Get(ctx, "k1")
	e.Get(ctx, "missing")

	if n := e.Clear(ctx); n != 2 {
		t.Fatalf("Clear() = %d, want 2", n)
	}

	stats := e.Stats(ctx)
	if stats.Entries != 0 || stats.Hits != 0 || stats.Misses != 0 || stats.Invalidations != 0 {
		t.Errorf("counters not reset: %+v", stats)
	}
	if stats.SizeBytes != 0 {
		t.Errorf("stats.SizeBytes = %d, want 0", stats.SizeBytes)
	}
}

func TestEngine_StatsConsistency(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t, DefaultPolicy())

	if rate := e.Stats(ctx).HitRate; rate != 0 {
		t.Fatalf("HitRate with no traffic = %v, want 0", rate)
	}

	e.Get(ctx, "k1") // miss
	e.Set(ctx, "k1", []byte(`{}`), nil, nil)
	e.Get(ctx, "k1") // hit
	e.Get(ctx, "k1") // hit

	stats := e.Stats(ctx)
	if got := stats.Hits + stats.Misses; got != 3 {
		t.Errorf("hits+misses = %d, want 3 (one per get)", got)
	}
	if want := 2.0 / 3.0; stats.HitRate != want {
		t.Errorf("HitRate = %v, want %v", stats.HitRate, want)
	}
}

func TestEngine_HitCountAndLastHit(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	e := newTestEngine(t, DefaultPolicy(), WithClock(clock.Now))

	e.Set(ctx, "k1", []byte(`{}`), nil, nil)

	clock.Advance(10 * time.Second)
	e.Get(ctx, "k1")
	clock.Advance(10 * time.Second)
	e.Get(ctx, "k1")

	idx, err := e.store.loadIndex()
	if err != nil {
		t.Fatal(err)
	}
	ent := idx.Entries["k1"]
	if ent.HitCount != 2 {
		t.Errorf("HitCount = %d, want 2", ent.HitCount)
	}
	if want := clock.Now().Unix(); ent.LastHit != want {
		t.Errorf("LastHit = %d, want %d", ent.LastHit, want)
	}
}

func TestEngine_FullResultBlob(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	e, err := New(dir, DefaultPolicy())
	if err != nil {
		t.Fatal(err)
	}

	full := []byte("a large full report")
	e.Set(ctx, "k1", []byte(`{"n":1}`), nil, full)
	e.Set(ctx, "k2", []byte(`{"n":2}`), nil, full)

	got, ok := e.FullResult(ctx, "k1")
	if !ok || string(got) != string(full) {
		t.Fatalf("FullResult() = %q, %v; want %q, true", got, ok, full)
	}

	// Identical blobs are stored once, content-addressed by hash.
	blobs, err := os.ReadDir(filepath.Join(dir, "blobs"))
	if err != nil {
		t.Fatal(err)
	}
	if len(blobs) != 1 {
		t.Errorf("blob count = %d, want 1 (dedup by hash)", len(blobs))
	}

	if _, ok := e.FullResult(ctx, "k1"); !ok {
		t.Error("blob should survive a second read")
	}
	if _, ok := e.FullResult(ctx, "missing"); ok {
		t.Error("FullResult for absent key should report false")
	}
}

func TestEngine_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t, DefaultPolicy())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := string(rune('a' + n%4))
			for j := 0; j < 10; j++ {
				e.Set(ctx, key, []byte(`{"n":1}`), nil, nil)
				e.Get(ctx, key)
			}
		}(i)
	}
	wg.Wait()

	if stats := e.Stats(ctx); stats.Entries != 4 {
		t.Errorf("stats.Entries = %d, want 4", stats.Entries)
	}
}

// recorderSpy captures telemetry calls for assertions.
type recorderSpy struct {
	mu       sync.Mutex
	ops      []string
	evicted  int64
}

func (r *recorderSpy) RecordOp(_ context.Context, op, outcome string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = append(r.ops, op+":"+outcome)
}

func (r *recorderSpy) RecordEvictions(_ context.Context, n int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.evicted += n
}

func TestEngine_RecorderObservesOperations(t *testing.T) {
	ctx := context.Background()
	spy := &recorderSpy{}
	e := newTestEngine(t, DefaultPolicy(), WithRecorder(spy))

	e.Get(ctx, "k1")
	e.Set(ctx, "k1", []byte(`{}`), nil, nil)
	e.Get(ctx, "k1")
	e.Delete(ctx, "k1")

	want := []string{"get:miss", "set:stored", "get:hit", "delete:deleted"}
	if len(spy.ops) != len(want) {
		t.Fatalf("recorded ops = %v, want %v", spy.ops, want)
	}
	for i, op := range want {
		if spy.ops[i] != op {
			t.Errorf("op[%d] = %q, want %q", i, spy.ops[i], op)
		}
	}
}

var _ Recorder = (*recorderSpy)(nil)
