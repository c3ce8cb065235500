package store

import "fmt"

// Redis key pattern helpers
//
// All Redis keys and Pub/Sub channels are namespaced so several family
// archives can share one Redis server.
//
// Key pattern: lineage:{namespace}:tree:{tree_id}
// Channel pattern: lineage:{namespace}:tree_events

// TreeKey returns the Redis key for a stored tree hash.
// Pattern: lineage:{namespace}:tree:{tree_id}
func TreeKey(namespace, treeID string) string {
	return fmt.Sprintf("lineage:%s:tree:%s", namespace, treeID)
}

// TreeIndexKey returns the Redis key for the set of stored tree IDs.
// Pattern: lineage:{namespace}:trees
func TreeIndexKey(namespace string) string {
	return fmt.Sprintf("lineage:%s:trees", namespace)
}

// TreeEventsChannel returns the Pub/Sub channel name for tree events.
// Pattern: lineage:{namespace}:tree_events
func TreeEventsChannel(namespace string) string {
	return fmt.Sprintf("lineage:%s:tree_events", namespace)
}

// Hash fields of a stored tree.
const (
	fieldName      = "name"
	fieldRevision  = "revision"
	fieldUpdatedAt = "updated_at_ms"
	fieldDocument  = "document"
	fieldPersons   = "person_count"
)
