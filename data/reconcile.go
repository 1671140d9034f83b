// Package data converges the local cache with freshly scraped server
// state and composes the local and remote data sources into one
// repository.
package data

// changes classifies a freshly scraped collection against the cached
// one.
type changes[E any] struct {
	inserts []E
	updates []E
	deletes []E
}

// reconcile diffs a fresh authoritative collection against the cached
// one by key. Fresh entities whose key exists in the cache become
// updates (after adopt copies the cached row's local identity onto
// them, so the update targets the same physical row); the rest become
// inserts; cached rows with no fresh counterpart become deletes.
//
// This is full replace by diff: the fresh collection is assumed to be
// the complete set for its type, not an incremental patch.
//
// The index keeps every cached row per key, not just the last one:
// several cached rows can legitimately share a key (records scraped
// without an edit link all carry the sentinel id), and each fresh entity
// consumes at most one of them. Leftovers are deleted, never orphaned.
func reconcile[E any, K comparable](cached, fresh []E, key func(E) K, adopt func(fresh *E, cached E)) changes[E] {
	index := make(map[K][]E, len(cached))
	for _, entity := range cached {
		k := key(entity)
		index[k] = append(index[k], entity)
	}

	var result changes[E]
	for _, entity := range fresh {
		k := key(entity)
		if bucket := index[k]; len(bucket) > 0 {
			adopt(&entity, bucket[0])
			result.updates = append(result.updates, entity)
			index[k] = bucket[1:]
		} else {
			result.inserts = append(result.inserts, entity)
		}
	}

	for _, bucket := range index {
		result.deletes = append(result.deletes, bucket...)
	}
	return result
}
