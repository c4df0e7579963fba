package reference

import (
	"context"
	"encoding/json"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/longevity-genome-engine/internal/domain"
)

// CachedStore decorates a ReferenceStore with a two-tier read cache: an
// in-process LRU in front of an optional Redis tier. Reference data changes
// rarely, so entries (including negative ones) are cached per rsid and only
// expire by TTL or LRU eviction. Redis failures degrade to the inner store,
// they never fail a lookup.
type CachedStore struct {
	inner domain.ReferenceStore
	local *lru.Cache[string, []byte]
	rdb   *redis.Client
	ttl   time.Duration
	log   *logrus.Logger
}

// NewCachedStore wraps inner with caching. rdb may be nil to run with the
// in-process tier only.
func NewCachedStore(inner domain.ReferenceStore, localSize int, rdb *redis.Client, ttl time.Duration, logger *logrus.Logger) (*CachedStore, error) {
	local, err := lru.New[string, []byte](localSize)
	if err != nil {
		return nil, err
	}
	return &CachedStore{
		inner: inner,
		local: local,
		rdb:   rdb,
		ttl:   ttl,
		log:   logger,
	}, nil
}

// LookupAssociations serves cached association rows where possible and asks
// the inner store only for the cache misses.
func (c *CachedStore) LookupAssociations(ctx context.Context, rsids []string) (map[string][]domain.ReferenceAssociation, error) {
	return lookupCached(ctx, c, "assoc", rsids, c.inner.LookupAssociations)
}

// LookupClinical serves cached clinical rows where possible and asks the
// inner store only for the cache misses.
func (c *CachedStore) LookupClinical(ctx context.Context, rsids []string) (map[string][]domain.ReferenceClinical, error) {
	return lookupCached(ctx, c, "clin", rsids, c.inner.LookupClinical)
}

// lookupCached is the shared cache-aside path for both datasets.
func lookupCached[T any](
	ctx context.Context,
	c *CachedStore,
	prefix string,
	rsids []string,
	fetch func(context.Context, []string) (map[string][]T, error),
) (map[string][]T, error) {
	result := make(map[string][]T, len(rsids))
	misses := make([]string, 0, len(rsids))

	for _, rsid := range rsids {
		raw, ok := c.get(ctx, prefix+":"+rsid)
		if !ok {
			misses = append(misses, rsid)
			continue
		}
		var rows []T
		if err := json.Unmarshal(raw, &rows); err != nil {
			misses = append(misses, rsid)
			continue
		}
		if len(rows) > 0 {
			result[rsid] = rows
		}
	}

	if len(misses) == 0 {
		return result, nil
	}

	fetched, err := fetch(ctx, misses)
	if err != nil {
		return nil, err
	}

	for _, rsid := range misses {
		rows := fetched[rsid]
		if len(rows) > 0 {
			result[rsid] = rows
		}
		// negative entries are cached too: an absent rsid stays absent
		raw, err := json.Marshal(rows)
		if err != nil {
			continue
		}
		c.set(ctx, prefix+":"+rsid, raw)
	}

	return result, nil
}

// get checks the local tier first, then Redis. A Redis hit is promoted into
// the local tier.
func (c *CachedStore) get(ctx context.Context, key string) ([]byte, bool) {
	if raw, ok := c.local.Get(key); ok {
		return raw, true
	}
	if c.rdb == nil {
		return nil, false
	}

	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.WithFields(logrus.Fields{
				"key":   key,
				"error": err,
			}).Warn("Redis cache read failed")
		}
		return nil, false
	}

	c.local.Add(key, raw)
	return raw, true
}

// set writes through both tiers.
func (c *CachedStore) set(ctx context.Context, key string, raw []byte) {
	c.local.Add(key, raw)
	if c.rdb == nil {
		return
	}
	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.log.WithFields(logrus.Fields{
			"key":   key,
			"error": err,
		}).Warn("Redis cache write failed")
	}
}
