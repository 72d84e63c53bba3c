package refdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var _ Lookup = (*Cache)(nil)

// Cache is a Lookup that caches the results of another Lookup in Redis.
// Redis failures are logged and fall through to the wrapped Lookup.
type Cache struct {
	lookup Lookup
	rdb    redis.Cmdable
	ttl    time.Duration
	prefix string
	log    *zap.Logger
}

// CacheOption is a Cache option.
type CacheOption func(*Cache)

// TTL returns a CacheOption that sets the expiry of cached entries. Defaults
// to 15 minutes.
func TTL(d time.Duration) CacheOption {
	return func(c *Cache) {
		c.ttl = d
	}
}

// KeyPrefix returns a CacheOption that sets the prefix of cache keys.
// Defaults to "refdata:".
func KeyPrefix(prefix string) CacheOption {
	return func(c *Cache) {
		c.prefix = prefix
	}
}

// CacheLogger returns a CacheOption that sets the logger.
func CacheLogger(log *zap.Logger) CacheOption {
	return func(c *Cache) {
		c.log = log
	}
}

// NewCache returns a Cache in front of lookup.
func NewCache(lookup Lookup, rdb redis.Cmdable, opts ...CacheOption) *Cache {
	c := &Cache{
		lookup: lookup,
		rdb:    rdb,
		ttl:    15 * time.Minute,
		prefix: "refdata:",
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Cache) Prosecutor(ctx context.Context, authorityID uuid.UUID) (Prosecutor, error) {
	key := c.prefix + "prosecutor:" + authorityID.String()

	var p Prosecutor
	if c.get(ctx, key, &p) {
		return p, nil
	}

	p, err := c.lookup.Prosecutor(ctx, authorityID)
	if err != nil {
		return p, err
	}

	c.set(ctx, key, p)

	return p, nil
}

func (c *Cache) OffenceDetails(ctx context.Context, codes []string) ([]OffenceDetails, error) {
	out := make([]OffenceDetails, 0, len(codes))
	var missing []string
	for _, code := range codes {
		var d OffenceDetails
		if c.get(ctx, c.prefix+"offence:"+code, &d) {
			out = append(out, d)
			continue
		}
		missing = append(missing, code)
	}

	if len(missing) == 0 {
		return out, nil
	}

	fetched, err := c.lookup.OffenceDetails(ctx, missing)
	if err != nil {
		return nil, err
	}

	for _, d := range fetched {
		c.set(ctx, c.prefix+"offence:"+d.Code, d)
	}

	return append(out, fetched...), nil
}

func (c *Cache) OrganisationByLAAContractNumber(ctx context.Context, number string) (Organisation, error) {
	key := c.prefix + "organisation:" + number

	var o Organisation
	if c.get(ctx, key, &o) {
		return o, nil
	}

	o, err := c.lookup.OrganisationByLAAContractNumber(ctx, number)
	if err != nil {
		return o, err
	}

	c.set(ctx, key, o)

	return o, nil
}

func (c *Cache) get(ctx context.Context, key string, v any) bool {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("read reference data cache", zap.String("key", key), zap.Error(err))
		}
		return false
	}

	if err := json.Unmarshal(b, v); err != nil {
		c.log.Warn("decode cached reference data", zap.String("key", key), zap.Error(err))
		return false
	}

	return true
}

func (c *Cache) set(ctx context.Context, key string, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		c.log.Warn("encode reference data", zap.String("key", key), zap.Error(fmt.Errorf("marshal %T: %w", v, err)))
		return
	}

	if err := c.rdb.Set(ctx, key, b, c.ttl).Err(); err != nil {
		c.log.Warn("write reference data cache", zap.String("key", key), zap.Error(err))
	}
}
