package results

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"sync"
	"time"

	"github.com/opsline/paramstore/models/param"
	"github.com/rs/zerolog"
)

// ResultCache keeps complete filtered result sets so follow-up pages of the
// same query are served without re-running it.
type ResultCache struct {
	entries  sync.Map // map[string]*ResultSet
	config   CacheConfig
	log      zerolog.Logger
	stopChan chan struct{}
}

// ResultSet holds the full, already-filtered parameter list for one query.
type ResultSet struct {
	Parameters []*param.Parameter
	Total      int
	CreatedAt  time.Time
	ExpiresAt  time.Time
}

type CacheConfig struct {
	// Enabled determines if caching is active
	// When false, the service will bypass the cache completely
	Enabled bool

	// DefaultTTL is the default time-to-live for cached entries
	DefaultTTL time.Duration

	// MaxSize is the maximum number of result sets to keep in cache
	// Set to 0 for unlimited size
	MaxSize int

	// CleanupInterval defines how often the cleanup routine runs
	CleanupInterval time.Duration
}

// DefaultCacheConfig returns a CacheConfig with sensible defaults
func DefaultCacheConfig() *CacheConfig {
	return &CacheConfig{
		Enabled:         true,
		DefaultTTL:      5 * time.Minute,
		MaxSize:         1000,
		CleanupInterval: time.Minute,
	}
}

// NewResultCache creates and initializes a new result cache
func NewResultCache(config CacheConfig, log zerolog.Logger) *ResultCache {
	cache := &ResultCache{
		config:   config,
		log:      log.With().Str("component", "result_cache").Logger(),
		entries:  sync.Map{},
		stopChan: make(chan struct{}),
	}

	if config.Enabled && config.CleanupInterval > 0 {
		go cache.startCleanupRoutine()
		cache.log.Info().
			Dur("interval", config.CleanupInterval).
			Int("max_size", config.MaxSize).
			Dur("ttl", config.DefaultTTL).
			Msg("Started cache cleanup routine")
	}

	return cache
}

func (c *ResultCache) startCleanupRoutine() {
	ticker := time.NewTicker(c.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanup()
		case <-c.stopChan:
			c.log.Info().Msg("Stopping cache cleanup routine")
			return
		}
	}
}

func (c *ResultCache) cleanup() {
	var (
		totalEntries   int
		expiredEntries int
		removedEntries int
		now            = time.Now()
		entries        = make([]*ResultSet, 0)
	)

	// First pass: collect stats and remove expired entries
	c.entries.Range(func(key, value interface{}) bool {
		totalEntries++
		resultSet := value.(*ResultSet)

		if now.After(resultSet.ExpiresAt) {
			c.entries.Delete(key)
			expiredEntries++
		} else {
			entries = append(entries, resultSet)
		}
		return true
	})

	// Second pass: enforce size limit if needed
	if c.config.MaxSize > 0 && len(entries) > c.config.MaxSize {
		sort.Slice(entries, func(i, j int) bool {
			return entries[i].CreatedAt.Before(entries[j].CreatedAt)
		})

		toRemove := len(entries) - c.config.MaxSize
		c.entries.Range(func(key, value interface{}) bool {
			if toRemove <= 0 {
				return false
			}

			resultSet := value.(*ResultSet)
			for _, oldEntry := range entries[:toRemove] {
				if resultSet.CreatedAt == oldEntry.CreatedAt {
					c.entries.Delete(key)
					removedEntries++
					toRemove--
					break
				}
			}
			return true
		})
	}

	c.log.Debug().
		Int("total_entries", totalEntries).
		Int("expired_removed", expiredEntries).
		Int("size_limit_removed", removedEntries).
		Msg("Completed cache cleanup")
}

// CacheKey derives the cache key for an operation and its canonical query
// representation.
func CacheKey(operation, query string) string {
	hasher := sha256.New()
	hasher.Write([]byte(operation + "\x00" + query))
	return hex.EncodeToString(hasher.Sum(nil))
}

// StoreResultSet caches a complete filtered result set under a key.
func (c *ResultCache) StoreResultSet(key string, parameters []*param.Parameter) {
	if !c.config.Enabled {
		return
	}

	resultSet := &ResultSet{
		Parameters: parameters,
		Total:      len(parameters),
		CreatedAt:  time.Now(),
		ExpiresAt:  time.Now().Add(c.config.DefaultTTL),
	}

	c.entries.Store(key, resultSet)
	c.log.Debug().
		Str("key", key).
		Int("total_parameters", len(parameters)).
		Time("expires", resultSet.ExpiresAt).
		Msg("Stored result set in cache")
}

// GetResultSet returns the cached result set for a key, if present and not
// expired.
func (c *ResultCache) GetResultSet(key string) (*ResultSet, bool) {
	if !c.config.Enabled {
		return nil, false
	}

	entry, ok := c.entries.Load(key)
	if !ok {
		return nil, false
	}

	resultSet := entry.(*ResultSet)
	if time.Now().After(resultSet.ExpiresAt) {
		c.entries.Delete(key)
		return nil, false
	}

	c.log.Debug().
		Str("key", key).
		Int("total_parameters", resultSet.Total).
		Msg("Retrieved result set from cache")

	return resultSet, true
}

// Stop gracefully shuts down the cache
func (c *ResultCache) Stop() {
	if c.config.Enabled && c.config.CleanupInterval > 0 {
		close(c.stopChan)
	}

	c.entries.Range(func(key, _ interface{}) bool {
		c.entries.Delete(key)
		return true
	})

	c.log.Info().Msg("Cache cleared and stopped")
}
