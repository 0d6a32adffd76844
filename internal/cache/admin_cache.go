package cache

import (
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/lexjuris/lexjuris-api/internal/models"
	"github.com/lexjuris/lexjuris-api/pkg/metrics"
)

const adminCacheName = "admins"

// AdminCache is a short-TTL in-memory cache of admin rows keyed by email.
// Login attempts hit it before Postgres, so a brute-force run throttled by
// the rate limiter doesn't also hammer the database.
type AdminCache struct {
	cache *gocache.Cache
}

// NewAdminCache creates an admin cache with the given TTL in seconds.
func NewAdminCache(ttlSeconds int) *AdminCache {
	ttl := time.Duration(ttlSeconds) * time.Second
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &AdminCache{
		cache: gocache.New(ttl, 10*time.Minute),
	}
}

// Get returns the cached admin for email, if present.
func (c *AdminCache) Get(email string) (*models.Admin, bool) {
	v, ok := c.cache.Get(normalizeEmail(email))
	if !ok {
		metrics.CacheMisses.WithLabelValues(adminCacheName).Inc()
		return nil, false
	}
	metrics.CacheHits.WithLabelValues(adminCacheName).Inc()
	admin, ok := v.(*models.Admin)
	return admin, ok
}

// Set stores an admin under its email.
func (c *AdminCache) Set(admin *models.Admin) {
	c.cache.SetDefault(normalizeEmail(admin.Email), admin)
}

// Invalidate drops the cached entry for email.
func (c *AdminCache) Invalidate(email string) {
	c.cache.Delete(normalizeEmail(email))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
