package repository

import "errors"

// Not-found and duplicate conditions surface as the per-entity sentinels
// in the domain package, so callers never have to disambiguate which
// entity a generic error refers to.

// Cache errors
var (
	// ErrCacheMiss indicates the key was not found in cache.
	ErrCacheMiss = errors.New("cache miss")

	// ErrCacheUnavailable indicates the cache is unavailable.
	ErrCacheUnavailable = errors.New("cache unavailable")
)
