package cache

// Entry is the index metadata for one cached result. Timestamps are unix
// seconds; LastHit is zero until the first verified hit.
type Entry struct {
	Key            string   `json:"key"`
	CreatedAt      int64    `json:"created_at"`
	SourceSnapshot int64    `json:"source_snapshot_time"`
	SourcePaths    []string `json:"source_paths,omitempty"`
	IntegrityHash  string   `json:"integrity_hash"`
	FullResult     string   `json:"full_result,omitempty"`
	HitCount       int64    `json:"hit_count"`
	LastHit        int64    `json:"last_hit,omitempty"`
}

// Index binds keys to entries and carries the process-wide counters. It is
// persisted as a single JSON document and replaced atomically on every
// mutation, so a concurrent reader never observes a half-written index.
type Index struct {
	Entries       map[string]*Entry `json:"entries"`
	Hits          uint64            `json:"hits"`
	Misses        uint64            `json:"misses"`
	Invalidations uint64            `json:"invalidations"`
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	return &Index{Entries: make(map[string]*Entry)}
}
