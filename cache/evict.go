package cache

import "sort"

// evictionOrder returns the entry keys in strict LRU order: oldest LastHit
// first, with never-hit entries ahead of any entry that has hit history.
// Never-hit entries order among themselves by CreatedAt, as do ties on
// LastHit.
func evictionOrder(idx *Index) []string {
	keys := make([]string, 0, len(idx.Entries))
	for key := range idx.Entries {
		keys = append(keys, key)
	}

	sort.Slice(keys, func(i, j int) bool {
		a, b := idx.Entries[keys[i]], idx.Entries[keys[j]]

		aNever, bNever := a.LastHit == 0, b.LastHit == 0
		if aNever != bNever {
			return aNever
		}
		if aNever {
			if a.CreatedAt != b.CreatedAt {
				return a.CreatedAt < b.CreatedAt
			}
			return keys[i] < keys[j]
		}
		if a.LastHit != b.LastHit {
			return a.LastHit < b.LastHit
		}
		if a.CreatedAt != b.CreatedAt {
			return a.CreatedAt < b.CreatedAt
		}
		return keys[i] < keys[j]
	})

	return keys
}
