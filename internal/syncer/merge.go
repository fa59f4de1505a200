// Package syncer merges local and remote snapshots of the same
// collection. Conflict resolution is last-write-wins on the update
// timestamp, applied per entity.
package syncer

// Entity is anything mergeable by identity and update time. Lead and
// SearchTitle both satisfy it.
type Entity interface {
	EntityID() string
	LastUpdated() int64
}

// MergeByID merges two snapshots of a collection. For entities present
// on both sides the one with the strictly greater update timestamp
// wins; on a tie the local copy is kept. When either copy carries no
// timestamp there is nothing to compare, so the first-seen (local)
// copy is retained; in particular a stamped remote copy never clobbers
// an unstamped local record that may hold unsynced edits. Output order
// is local order first, then remote-only entities in remote order, so
// the merge is deterministic for a given input pair.
func MergeByID[T Entity](local, remote []T) []T {
	index := make(map[string]int, len(local))
	merged := make([]T, 0, len(local)+len(remote))

	for _, item := range local {
		id := item.EntityID()
		if id == "" {
			merged = append(merged, item)
			continue
		}
		if at, ok := index[id]; ok {
			if newer(item, merged[at]) {
				merged[at] = item
			}
			continue
		}
		index[id] = len(merged)
		merged = append(merged, item)
	}

	for _, item := range remote {
		id := item.EntityID()
		if id == "" {
			merged = append(merged, item)
			continue
		}
		at, ok := index[id]
		if !ok {
			index[id] = len(merged)
			merged = append(merged, item)
			continue
		}
		if newer(item, merged[at]) {
			merged[at] = item
		}
	}
	return merged
}

// newer reports whether candidate should replace incumbent.
// Replacement requires a strictly greater timestamp; a zero timestamp
// on either side means the records cannot be ordered, and the
// incumbent stays.
func newer[T Entity](candidate, incumbent T) bool {
	cu, iu := candidate.LastUpdated(), incumbent.LastUpdated()
	if cu == 0 || iu == 0 {
		return false
	}
	return cu > iu
}
