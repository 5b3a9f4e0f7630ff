package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Storage layout under the cache directory:
//
//	index.json          the atomically replaced index
//	entries/<key>.json  one payload file per cache key
//	blobs/<hash>.bin    content-addressed full result blobs
const (
	indexFile  = "index.json"
	entriesDir = "entries"
	blobsDir   = "blobs"
)

// store owns the on-disk layout. Payload files are written in full before
// the index references them; the index itself is replaced by writing a
// uniquely named temp file and renaming it over the old one, so a crash
// mid-write leaves the previous index intact.
type store struct {
	dir string
}

func newStore(dir string) (*store, error) {
	s := &store{dir: dir}
	for _, d := range []string{dir, s.entriesPath(), s.blobsPath()} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return nil, fmt.Errorf("cache: create %s: %w", d, err)
		}
	}
	return s, nil
}

func (s *store) indexPath() string   { return filepath.Join(s.dir, indexFile) }
func (s *store) entriesPath() string { return filepath.Join(s.dir, entriesDir) }
func (s *store) blobsPath() string   { return filepath.Join(s.dir, blobsDir) }

func (s *store) payloadPath(key string) string {
	return filepath.Join(s.entriesPath(), key+".json")
}

func (s *store) blobPath(hash string) string {
	return filepath.Join(s.blobsPath(), hash+".bin")
}

// loadIndex reads the current index. A missing index file yields a fresh
// empty index; a malformed one is an error the engine recovers from.
func (s *store) loadIndex() (*Index, error) {
	data, err := os.ReadFile(s.indexPath())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return NewIndex(), nil
		}
		return nil, fmt.Errorf("cache: read index: %w", err)
	}

	var idx Index
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, fmt.Errorf("cache: parse index: %w", err)
	}
	if idx.Entries == nil {
		idx.Entries = make(map[string]*Entry)
	}
	return &idx, nil
}

// saveIndex atomically replaces the index: write a complete new version to
// a uniquely named temp file in the same directory, then rename it over the
// previous one. Two concurrent writers race on the rename and the last
// writer's full snapshot wins; that is the documented concurrency model.
func (s *store) saveIndex(idx *Index) error {
	data, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return fmt.Errorf("cache: encode index: %w", err)
	}

	tmp := filepath.Join(s.dir, indexFile+"."+uuid.NewString()+".tmp")
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("cache: write index: %w", err)
	}
	if err := os.Rename(tmp, s.indexPath()); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("cache: replace index: %w", err)
	}
	return nil
}

func (s *store) readPayload(key string) ([]byte, error) {
	return os.ReadFile(s.payloadPath(key))
}

func (s *store) writePayload(key string, payload []byte) error {
	return os.WriteFile(s.payloadPath(key), payload, 0o644)
}

func (s *store) removePayload(key string) error {
	err := os.Remove(s.payloadPath(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// writeBlob stores a full result blob content-addressed by its SHA-256
// digest. Blobs are deduplicated: an already present hash is not rewritten.
func (s *store) writeBlob(blob []byte) (string, error) {
	hash := hashBytes(blob)
	path := s.blobPath(hash)
	if _, err := os.Stat(path); err == nil {
		return hash, nil
	}
	if err := os.WriteFile(path, blob, 0o644); err != nil {
		return "", fmt.Errorf("cache: write blob: %w", err)
	}
	return hash, nil
}

func (s *store) readBlob(hash string) ([]byte, error) {
	return os.ReadFile(s.blobPath(hash))
}

// payloadSize returns the size of one payload file, zero if it is gone.
func (s *store) payloadSize(key string) int64 {
	info, err := os.Stat(s.payloadPath(key))
	if err != nil {
		return 0
	}
	return info.Size()
}

// totalSize sums the sizes of the payload files for every indexed entry.
func (s *store) totalSize(idx *Index) int64 {
	var total int64
	for key := range idx.Entries {
		total += s.payloadSize(key)
	}
	return total
}

// reset removes every payload and blob and truncates the index back to
// empty with zeroed counters.
func (s *store) reset() error {
	for _, d := range []string{s.entriesPath(), s.blobsPath()} {
		if err := os.RemoveAll(d); err != nil {
			return fmt.Errorf("cache: clear %s: %w", d, err)
		}
		if err := os.MkdirAll(d, 0o755); err != nil {
			return fmt.Errorf("cache: recreate %s: %w", d, err)
		}
	}
	return s.saveIndex(NewIndex())
}
