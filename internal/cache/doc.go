// Package cache provides a byte-bounded LRU cache for immutable blobs.
//
// Entries are keyed by blob name. Cached slices are shared with callers and
// must be treated as read-only.
package cache
