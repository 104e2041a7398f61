// Package cache provides the byte level cache abstraction used by the client
// service, together with value codecs, cache key helpers and a factory for
// the supported backends.
//
// # Overview
//
// The package exports three building blocks:
//
//   - CacheService: a byte oriented key/value cache with TTLs and glob based
//     invalidation (DeleteByPattern)
//   - Codec: converts typed values to and from cached bytes (msgpack, json, cbor)
//   - KeySerializer: builds stable strings from method names and arguments,
//     used to derive list page keys
//
// GetValue and SetValue combine a CacheService with a Codec:
//
//	codec, _ := cache.NewCodec[client.Client](cache.CodecMsgpack)
//	rec, ok, err := cache.GetValue(ctx, svc, codec, cache.RecordKey(id))
//
// An entry that cannot be decoded is evicted and reported as a miss.
//
// # Keys
//
// Records live under "record:{id}". List pages live under "list:{hash}" where
// the hash is an xxhash digest of the serialized query, so every page can be
// dropped with DeleteByPattern(ctx, cache.ListPattern).
//
// # Backends
//
// NewCacheService builds a CacheService from Config. Supported backends are
// sturdyc (default, in process), ristretto, bigcache and redis. Pattern deletes
// walk the sturdyc key list, the bigcache iterator, a side index for
// ristretto (which cannot enumerate keys) and SCAN on redis.
//
// # Key Serialization
//
// The default key serializer uses reflection to handle basic types, slices,
// maps (sorted), structs (exported fields) and pointers, falling back to JSON
// for anything else. Function and channel values contribute only their type,
// so two closures of the same signature produce the same key.
package cache
