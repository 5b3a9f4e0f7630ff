package cache

import (
	"os"
	"path"
	"path/filepath"
	"time"
)

// validity classifies an indexed entry against its sources and the TTL.
type validity int

const (
	entryLive validity = iota
	entryStale
	entryExpired
)

// checkEntry decides whether an entry is still valid at now. A source file
// whose modification time is strictly newer than the entry's snapshot makes
// it stale. A missing source file is not, by itself, a staleness trigger: a
// deleted source does not invalidate a cached fact about it, only a
// modified one does.
func (p Policy) checkEntry(ent *Entry, now time.Time) validity {
	for _, src := range ent.SourcePaths {
		info, err := os.Stat(src)
		if err != nil {
			continue
		}
		if info.ModTime().Unix() > ent.SourceSnapshot {
			return entryStale
		}
	}
	if p.expired(ent.CreatedAt, now) {
		return entryExpired
	}
	return entryLive
}

// globMatch reports whether a source path matches a shell-style glob
// pattern (`*` matches within a path segment). The pattern is tried against
// the slash-normalized full path and, as a fallback, against the base name,
// so `*.txt` matches sources in any directory. Malformed patterns match
// nothing.
func globMatch(pattern, source string) bool {
	slashed := filepath.ToSlash(source)
	if ok, err := path.Match(pattern, slashed); err == nil && ok {
		return true
	}
	ok, err := path.Match(pattern, path.Base(slashed))
	return err == nil && ok
}

// matchesAny reports whether any of the entry's source paths matches the
// pattern.
func matchesAny(pattern string, ent *Entry) bool {
	for _, src := range ent.SourcePaths {
		if globMatch(pattern, src) {
			return true
		}
	}
	return false
}
