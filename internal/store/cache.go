package store

import (
	"time"

	"schoolctl/models"
)

// CacheTTL is how long a fetched school directory stays servable.
const CacheTTL = 7 * 24 * time.Hour

// CacheStore persists the school directory snapshot.
type CacheStore interface {
	Load() (*models.SchoolsCache, error)
	Save(schools []models.School) error
	Clear() error
}

type RealCacheStore struct {
	*Store
}

func NewCacheStore(s *Store) *RealCacheStore {
	return &RealCacheStore{Store: s}
}

// Load returns the cached directory, or nil when none exists or the
// snapshot is older than CacheTTL. A stale snapshot is never served.
func (c *RealCacheStore) Load() (*models.SchoolsCache, error) {
	var cache models.SchoolsCache
	ok, err := c.readRecord(cacheFile, &cache)
	if err != nil || !ok {
		return nil, err
	}
	if len(cache.Schools) == 0 {
		return nil, nil
	}
	if c.now().Sub(cache.FetchedAt) > CacheTTL {
		return nil, nil
	}
	return &cache, nil
}

// Save replaces the snapshot wholesale and stamps it with the current
// time.
func (c *RealCacheStore) Save(schools []models.School) error {
	cache := models.SchoolsCache{
		Schools:   schools,
		FetchedAt: c.now(),
	}
	return c.writeRecord(cacheFile, &cache)
}

func (c *RealCacheStore) Clear() error {
	return c.removeRecord(cacheFile)
}
