package health

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/simstim-dev/resultcache/cache"
)

// StorageChecker inspects the on-disk cache store. It verifies the cache
// directory is writable and the index file parses, and reports degraded
// when the store has grown past its size budget.
type StorageChecker struct {
	dir      string
	maxBytes int64
}

// NewStorageChecker creates a checker for the cache store at dir.
// maxBytes is the configured size budget; zero disables the budget check.
func NewStorageChecker(dir string, maxBytes int64) *StorageChecker {
	return &StorageChecker{dir: dir, maxBytes: maxBytes}
}

// Name returns the name of this checker.
func (s *StorageChecker) Name() string {
	return "storage"
}

// Check performs the storage health check.
func (s *StorageChecker) Check(ctx context.Context) Result {
	select {
	case <-ctx.Done():
		return Unhealthy("context cancelled", ctx.Err())
	default:
	}

	info, err := os.Stat(s.dir)
	if os.IsNotExist(err) {
		// The engine creates the directory on first write.
		return Healthy("cache directory not yet created")
	}
	if err != nil {
		return Unhealthy("cannot stat cache directory", err)
	}
	if !info.IsDir() {
		return Unhealthy("cache path is not a directory", ErrCheckFailed)
	}

	if err := s.probeWrite(); err != nil {
		return Unhealthy("cache directory not writable", err)
	}

	entries, err := s.parseIndex()
	if err != nil {
		return Unhealthy("cache index does not parse", err)
	}

	size := s.payloadSize()
	details := map[string]any{
		"dir":        s.dir,
		"entries":    entries,
		"size_bytes": size,
		"max_bytes":  s.maxBytes,
	}

	if s.maxBytes > 0 && size > s.maxBytes {
		return Degraded(
			fmt.Sprintf("store over budget: %d of %d bytes", size, s.maxBytes),
		).WithDetails(details)
	}

	return Healthy(fmt.Sprintf("%d entries, %d bytes", entries, size)).WithDetails(details)
}

// probeWrite creates and removes a uniquely named file in the cache dir.
func (s *StorageChecker) probeWrite() error {
	probe := filepath.Join(s.dir, ".health."+uuid.NewString())
	if err := os.WriteFile(probe, nil, 0o600); err != nil {
		return err
	}
	return os.Remove(probe)
}

// parseIndex returns the entry count from the index file. A missing index
// is an empty store, not a failure.
func (s *StorageChecker) parseIndex() (int, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, "index.json"))
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	var idx cache.Index
	if err := json.Unmarshal(data, &idx); err != nil {
		return 0, err
	}
	return len(idx.Entries), nil
}

// payloadSize sums the payload files under entries/. Walk errors are
// ignored so a racing eviction does not fail the check.
func (s *StorageChecker) payloadSize() int64 {
	var total int64
	root := filepath.Join(s.dir, "entries")
	filepath.WalkDir(root, func(_ string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if info, err := d.Info(); err == nil {
			total += info.Size()
		}
		return nil
	})
	return total
}
