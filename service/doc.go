// Package service implements the client record engine on top of a client.Store
// and a cache.CacheService.
//
// # Writes
//
// Update, Patch, ToggleActive, SetActive and Delete share one pipeline:
//
//	load -> reject deleted -> compare version -> apply transition ->
//	check email uniqueness (when it changed) -> store.Update -> evict record:{id} -> invalidate list:*
//
// The in-process version comparison catches stale callers early. Two callers
// holding the same version can both pass it; the store compares the version
// again when writing and the loser gets a VersionConflict. Conflicts are never
// retried, the caller reloads and decides.
//
// Create checks the email against every record, including deleted ones, then
// inserts, caches the new record and invalidates list:*.
//
// # Reads
//
// Get reads record:{id} from the cache, falling back to the store and
// repopulating the cache on a miss. A deleted record is found but reported as
// AlreadyDeleted.
//
// List runs the page query and the count query concurrently over one filter.
// With Options.ListCaching set, pages are cached under list:{hash of the query}
// and dropped by every successful mutation.
//
// # Errors
//
// All errors are *client.Error values; use errors.Is with the client sentinels
// or client.KindOf. Cache failures are logged and never returned.
package service
