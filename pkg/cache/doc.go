// Package cache stores Jikan responses in Redis so repeated page and detail
// requests are served without touching the API.
//
// Jikan itself caches every resource for 24 hours and reports that window in
// the Expires header. Entries are kept until that time; the ETag is replayed
// as If-None-Match so a stale entry can be revalidated with a 304.
//
//	manager := cache.NewManager(redisClient, cache.DefaultTTL)
//	key := cache.Key{Endpoint: "/v4/top/anime", Query: url.Values{"page": {"2"}}}
//
//	entry, err := manager.Get(ctx, key)
//	if errors.Is(err, cache.ErrCacheMiss) {
//		// fetch from Jikan, then manager.Set(ctx, key, entry)
//	}
package cache
